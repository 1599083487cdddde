package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/carlelieser/avatarmon/internal/generation"
	"github.com/carlelieser/avatarmon/internal/models"
	"github.com/carlelieser/avatarmon/internal/store"
)

type QuotaHandler struct {
	service *generation.Service
	stores  *store.Manager
}

func NewQuotaHandler(service *generation.Service, stores *store.Manager) *QuotaHandler {
	return &QuotaHandler{service: service, stores: stores}
}

// Get reports the user's daily allowance. Remaining serializes as a
// number, or "unlimited" for premium users.
func (h *QuotaHandler) Get(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	gate := h.service.GateFor(uid)
	remaining, unlimited := gate.Remaining()
	user := h.stores.ForUser(uid).User()

	resp := models.QuotaResponse{
		HasPremium:       user.HasPremium,
		GenerationsToday: user.GenerationsToday,
		DailyLimit:       gate.Limit(),
	}
	if unlimited {
		resp.Remaining = "unlimited"
	} else {
		resp.Remaining = strconv.Itoa(remaining)
	}

	c.JSON(http.StatusOK, resp)
}
