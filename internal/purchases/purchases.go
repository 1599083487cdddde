// Package purchases is the premium entitlement collaborator. The real
// store sits on the device; the server keeps a mirror it can flip when
// the client reports a purchase or restore.
package purchases

import (
	"time"

	"github.com/carlelieser/avatarmon/internal/apperrors"
	"github.com/carlelieser/avatarmon/internal/store"
)

// Service answers entitlement questions and applies purchase outcomes
// to the user's store.
type Service struct {
	stores *store.Manager
	now    func() time.Time
}

func NewService(stores *store.Manager) *Service {
	return &Service{stores: stores, now: time.Now}
}

// IsPremium reports the mirrored entitlement.
func (s *Service) IsPremium(userID string) bool {
	return s.stores.ForUser(userID).User().HasPremium
}

// Purchase applies a client-reported purchase. The cancelled flag marks
// a user-aborted flow, which is reported but not treated as a failure.
func (s *Service) Purchase(userID string, cancelled bool) error {
	if cancelled {
		return apperrors.New(apperrors.PurchaseCancelled, "purchase flow cancelled by user")
	}
	s.stores.ForUser(userID).SetPremium(true, s.now())
	return nil
}

// Restore re-applies a previously recorded purchase. Restoring without
// one on record fails.
func (s *Service) Restore(userID string) error {
	st := s.stores.ForUser(userID)
	if !st.User().HasPremium {
		return apperrors.New(apperrors.RestoreFailed, "no purchase on record")
	}
	return nil
}
