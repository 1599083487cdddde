package models

import (
	"fmt"
	"time"
)

const (
	MinPromptLength         = 10
	MaxPromptLength         = 1000
	MaxNegativePromptLength = 500
)

// GenerationRequest is the provider-agnostic payload sent to the
// generation API. It is built once per attempt and never mutated.
type GenerationRequest struct {
	Prompt         string      `json:"prompt"`
	NegativePrompt string      `json:"negativePrompt,omitempty"`
	Style          Style       `json:"style"`
	AspectRatio    AspectRatio `json:"aspectRatio"`
	Seed           int         `json:"seed,omitempty"`

	// SourceImagesBase64 carries up to MaxPhotos reference images.
	SourceImagesBase64 []string `json:"sourceImagesBase64,omitempty"`

	// SourceImageBase64 is the deprecated single-image field kept for
	// older clients; it is folded into SourceImagesBase64 on submit.
	SourceImageBase64 string `json:"sourceImageBase64,omitempty"`
}

// Images returns the reference images, folding in the deprecated
// single-image field the way the generation API does.
func (r GenerationRequest) Images() []string {
	if len(r.SourceImagesBase64) > 0 {
		return r.SourceImagesBase64
	}
	if r.SourceImageBase64 != "" {
		return []string{r.SourceImageBase64}
	}
	return nil
}

func (r GenerationRequest) Validate() error {
	if len(r.Prompt) < MinPromptLength || len(r.Prompt) > MaxPromptLength {
		return fmt.Errorf("prompt must be %d-%d characters", MinPromptLength, MaxPromptLength)
	}
	if len(r.NegativePrompt) > MaxNegativePromptLength {
		return fmt.Errorf("negative prompt must be at most %d characters", MaxNegativePromptLength)
	}
	if !r.Style.Valid() {
		return fmt.Errorf("invalid style %q", r.Style)
	}
	if !r.AspectRatio.Valid() {
		return fmt.Errorf("invalid aspect ratio %q", r.AspectRatio)
	}
	if r.Seed < 0 {
		return fmt.Errorf("seed must be positive")
	}
	if len(r.Images()) > MaxPhotos {
		return fmt.Errorf("at most %d source images allowed", MaxPhotos)
	}
	return nil
}

// JobState is the generation API's view of a job, returned by both the
// create and status endpoints.
type JobState struct {
	ID               string           `json:"id"`
	Status           GenerationStatus `json:"status"`
	Progress         int              `json:"progress,omitempty"`
	ImageURL         string           `json:"imageUrl,omitempty"`
	Error            string           `json:"error,omitempty"`
	EstimatedSeconds int              `json:"estimatedSeconds,omitempty"`
}

// GenerationJob is the lifecycle runner's local job model. It is
// transient: it lives only while an attempt is active or its result is
// still on screen, and is never persisted.
type GenerationJob struct {
	ID               string           `json:"id"`
	Status           GenerationStatus `json:"status"`
	Progress         int              `json:"progress"`
	ResultURL        string           `json:"resultUrl,omitempty"`
	ErrorMessage     string           `json:"errorMessage,omitempty"`
	EstimatedSeconds int              `json:"estimatedSeconds,omitempty"`
}

// GenerationRecord is one completed generation in the persisted history.
type GenerationRecord struct {
	ID              string      `json:"id"`
	ImageURL        string      `json:"imageUrl"`
	ThumbnailURL    string      `json:"thumbnailUrl"`
	LocalURI        string      `json:"localUri,omitempty"`
	Prompt          string      `json:"prompt"`
	Style           Style       `json:"style"`
	AspectRatio     AspectRatio `json:"aspectRatio"`
	CreatedAt       time.Time   `json:"createdAt"`
	ExportedAt      *time.Time  `json:"exportedAt,omitempty"`
	IsPremiumExport bool        `json:"isPremiumExport"`
}

func (r GenerationRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("record id is required")
	}
	if r.ImageURL == "" {
		return fmt.Errorf("record imageUrl is required")
	}
	if !r.Style.Valid() {
		return fmt.Errorf("invalid style %q", r.Style)
	}
	if !r.AspectRatio.Valid() {
		return fmt.Errorf("invalid aspect ratio %q", r.AspectRatio)
	}
	return nil
}
