package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carlelieser/avatarmon/internal/models"
	"github.com/carlelieser/avatarmon/internal/store"
)

type SettingsHandler struct {
	stores *store.Manager
}

func NewSettingsHandler(stores *store.Manager) *SettingsHandler {
	return &SettingsHandler{stores: stores}
}

type settingsRequest struct {
	PreferredStyle     *models.Style `json:"preferredStyle,omitempty"`
	OnboardingComplete *bool         `json:"onboardingComplete,omitempty"`
}

type settingsResponse struct {
	PreferredStyle     models.Style `json:"preferredStyle,omitempty"`
	OnboardingComplete bool         `json:"onboardingComplete"`
}

// Update applies partial preference changes; omitted fields are left
// untouched.
func (h *SettingsHandler) Update(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	st := h.stores.ForUser(uid)
	if req.PreferredStyle != nil {
		if !req.PreferredStyle.Valid() {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid preferred style"})
			return
		}
		st.SetPreferredStyle(*req.PreferredStyle)
	}
	if req.OnboardingComplete != nil {
		st.SetOnboardingComplete(*req.OnboardingComplete)
	}

	user := st.User()
	c.JSON(http.StatusOK, settingsResponse{
		PreferredStyle:     user.PreferredStyle,
		OnboardingComplete: user.OnboardingComplete,
	})
}

// Get returns the current preferences.
func (h *SettingsHandler) Get(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	user := h.stores.ForUser(uid).User()
	c.JSON(http.StatusOK, settingsResponse{
		PreferredStyle:     user.PreferredStyle,
		OnboardingComplete: user.OnboardingComplete,
	})
}
