package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carlelieser/avatarmon/internal/models"
	"github.com/carlelieser/avatarmon/internal/purchases"
	"github.com/carlelieser/avatarmon/internal/store"
)

type PurchaseHandler struct {
	service *purchases.Service
	stores  *store.Manager
}

func NewPurchaseHandler(service *purchases.Service, stores *store.Manager) *PurchaseHandler {
	return &PurchaseHandler{service: service, stores: stores}
}

type purchaseRequest struct {
	Cancelled bool `json:"cancelled"`
}

func (h *PurchaseHandler) entitlement(c *gin.Context, uid string) {
	user := h.stores.ForUser(uid).User()
	c.JSON(http.StatusOK, models.PurchaseResponse{
		HasPremium:   user.HasPremium,
		PurchaseDate: user.PurchaseDate,
	})
}

// Get reports the mirrored entitlement.
func (h *PurchaseHandler) Get(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	h.entitlement(c, uid)
}

// Purchase applies a client-reported purchase outcome.
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	if err := h.service.Purchase(uid, req.Cancelled); err != nil {
		writeAppError(c, err)
		return
	}
	h.entitlement(c, uid)
}

// Restore re-applies a previously recorded purchase.
func (h *PurchaseHandler) Restore(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	if err := h.service.Restore(uid); err != nil {
		writeAppError(c, err)
		return
	}
	h.entitlement(c, uid)
}
