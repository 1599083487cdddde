package models

import "time"

// MaxHistoryItems caps the persisted generation history; inserting past
// the cap evicts the oldest records.
const MaxHistoryItems = 50

// UserState is the persisted per-user state blob: entitlement mirror,
// daily usage counter, generation history and preferences. Transient
// generation state is deliberately excluded.
type UserState struct {
	HasPremium   bool       `json:"hasPremium"`
	PurchaseDate *time.Time `json:"purchaseDate,omitempty"`

	GenerationsToday   int        `json:"generationsToday"`
	LastGenerationDate *time.Time `json:"lastGenerationDate,omitempty"`

	Generations []GenerationRecord `json:"generations"`

	PreferredStyle     Style `json:"preferredStyle,omitempty"`
	OnboardingComplete bool  `json:"onboardingComplete"`
}
