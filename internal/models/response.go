package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type GenerateResponse struct {
	ID       string           `json:"id"`
	Status   GenerationStatus `json:"status"`
	Progress int              `json:"progress"`
}

type JobResponse struct {
	ID               string           `json:"id"`
	Status           GenerationStatus `json:"status"`
	Progress         int              `json:"progress"`
	ImageURL         string           `json:"imageUrl,omitempty"`
	Error            string           `json:"error,omitempty"`
	EstimatedSeconds int              `json:"estimatedSeconds,omitempty"`
}

type CancelResponse struct {
	Success bool `json:"success"`
}

type QuotaResponse struct {
	HasPremium       bool   `json:"hasPremium"`
	GenerationsToday int    `json:"generationsToday"`
	DailyLimit       int    `json:"dailyLimit"`
	Remaining        string `json:"remaining"` // number, or "unlimited" for entitled users
}

type HistoryResponse struct {
	Generations []GenerationRecord `json:"generations"`
}

type ExportResponse struct {
	Success  bool   `json:"success"`
	LocalURI string `json:"localUri,omitempty"`
	Error    string `json:"error,omitempty"`
}

type PurchaseResponse struct {
	HasPremium   bool       `json:"hasPremium"`
	PurchaseDate *time.Time `json:"purchaseDate,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
