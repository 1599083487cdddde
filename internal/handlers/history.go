package handlers

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carlelieser/avatarmon/internal/models"
	"github.com/carlelieser/avatarmon/internal/store"
)

// GalleryCleaner removes a user's exported avatars from remote storage
// when their history records go away; nil skips cleanup.
type GalleryCleaner interface {
	DeleteAvatar(userID, filename string) error
	DeleteUserAvatars(userID string) error
}

type HistoryHandler struct {
	stores  *store.Manager
	cleaner GalleryCleaner
}

func NewHistoryHandler(stores *store.Manager, cleaner GalleryCleaner) *HistoryHandler {
	return &HistoryHandler{stores: stores, cleaner: cleaner}
}

// List returns the user's generation history, newest first.
func (h *HistoryHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	generations := h.stores.ForUser(uid).History()
	if generations == nil {
		generations = []models.GenerationRecord{}
	}
	c.JSON(http.StatusOK, models.HistoryResponse{Generations: generations})
}

// Save appends a finished generation to the history. Saving is a
// separate caller action: abandoned results are never recorded.
func (h *HistoryHandler) Save(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var record models.GenerationRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.ThumbnailURL == "" {
		record.ThumbnailURL = record.ImageURL
	}
	if err := record.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid record", Message: err.Error()})
		return
	}

	h.stores.ForUser(uid).SaveToHistory(record)
	c.JSON(http.StatusCreated, record)
}

// Delete removes one record; deleting an absent id still succeeds. An
// exported record's stored avatar goes with it, best-effort.
func (h *HistoryHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	st := h.stores.ForUser(uid)
	if h.cleaner != nil {
		for _, record := range st.History() {
			if record.ID == id && record.LocalURI != "" {
				if err := h.cleaner.DeleteAvatar(uid, filepath.Base(record.LocalURI)); err != nil {
					log.Printf("handlers: deleting stored avatar for record %s: %v", id, err)
				}
				break
			}
		}
	}

	st.DeleteFromHistory(id)
	c.JSON(http.StatusOK, models.CancelResponse{Success: true})
}

// Clear removes the whole history and the user's stored avatars.
func (h *HistoryHandler) Clear(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	if h.cleaner != nil {
		if err := h.cleaner.DeleteUserAvatars(uid); err != nil {
			log.Printf("handlers: clearing stored avatars for %s: %v", uid, err)
		}
	}

	h.stores.ForUser(uid).ClearHistory()
	c.JSON(http.StatusOK, models.CancelResponse{Success: true})
}
