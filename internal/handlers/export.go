package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carlelieser/avatarmon/internal/events"
	"github.com/carlelieser/avatarmon/internal/export"
	"github.com/carlelieser/avatarmon/internal/metrics"
	"github.com/carlelieser/avatarmon/internal/models"
	"github.com/carlelieser/avatarmon/internal/store"
)

// ExporterFactory builds an exporter bound to one user's gallery.
type ExporterFactory func(userID string) *export.Exporter

type ExportHandler struct {
	stores    *store.Manager
	exporters ExporterFactory
	events    EventPublisher
}

func NewExportHandler(stores *store.Manager, exporters ExporterFactory, events EventPublisher) *ExportHandler {
	return &ExportHandler{stores: stores, exporters: exporters, events: events}
}

type exportRequest struct {
	Kind string `json:"kind"` // "gallery" or "share"
}

// Export downloads a history record's avatar and saves or shares it.
// A successful gallery save stamps the record as exported.
func (h *ExportHandler) Export(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	recordID := c.Param("id")
	st := h.stores.ForUser(uid)

	var target *models.GenerationRecord
	for _, record := range st.History() {
		if record.ID == recordID {
			r := record
			target = &r
			break
		}
	}
	if target == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "record not found"})
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Kind != "gallery" && req.Kind != "share") {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "kind must be \"gallery\" or \"share\""})
		return
	}

	exporter := h.exporters(uid)
	var result export.Result
	if req.Kind == "gallery" {
		result = exporter.SaveToGallery(target.ImageURL)
	} else {
		result = exporter.Share(target.ImageURL)
	}
	metrics.ExportsTotal.WithLabelValues(req.Kind, metrics.ExportResult(result.Success)).Inc()

	if result.Success && req.Kind == "gallery" {
		st.MarkExported(recordID, result.LocalURI, time.Now())
		if h.events != nil {
			if err := h.events.PublishUserEvent(uid, "export_completed", events.ExportCompletedPayload(recordID, result.LocalURI)); err != nil {
				log.Printf("handlers: publishing export event: %v", err)
			}
		}
	}

	c.JSON(http.StatusOK, models.ExportResponse{
		Success:  result.Success,
		LocalURI: result.LocalURI,
		Error:    result.Error,
	})
}
