package models

import (
	"fmt"
	"regexp"
)

const (
	// MaxPhotos bounds the number of reference photos per generation.
	MaxPhotos = 3
	// MaxAccessories bounds accessories on a builder source or modifier overlay.
	MaxAccessories = 3
	// MinPhotoDimension is the smallest accepted photo edge in pixels.
	MinPhotoDimension = 256
)

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// SourceType discriminates the two ways an avatar can be described.
type SourceType string

const (
	SourcePhoto   SourceType = "photo"
	SourceBuilder SourceType = "builder"
)

// PhotoItem is one user-supplied reference photo. Base64 carries the
// image data inline; URI is the client-side location kept for display.
type PhotoItem struct {
	URI      string `json:"uri,omitempty"`
	Base64   string `json:"base64,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mimeType"`
}

func (p PhotoItem) Validate() error {
	if p.URI == "" && p.Base64 == "" {
		return fmt.Errorf("photo data is required")
	}
	if p.Width < MinPhotoDimension || p.Height < MinPhotoDimension {
		return fmt.Errorf("photo must be at least %dx%d pixels", MinPhotoDimension, MinPhotoDimension)
	}
	switch p.MimeType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return fmt.Errorf("unsupported photo mime type %q", p.MimeType)
	}
	return nil
}

// BuilderSource is a structured character description assembled in the
// avatar builder. Every field is required; accessories may be empty.
type BuilderSource struct {
	Gender      Gender      `json:"gender"`
	AgeRange    AgeRange    `json:"ageRange"`
	FaceShape   FaceShape   `json:"faceShape"`
	SkinTone    SkinTone    `json:"skinTone"`
	HairStyle   HairStyle   `json:"hairStyle"`
	HairColor   HairColor   `json:"hairColor"`
	EyeColor    EyeColor    `json:"eyeColor"`
	EyeShape    EyeShape    `json:"eyeShape"`
	FacialHair  FacialHair  `json:"facialHair"`
	Expression  Expression  `json:"expression"`
	Accessories []Accessory `json:"accessories"`
}

func (b BuilderSource) Validate() error {
	checks := []struct {
		name  string
		valid bool
	}{
		{"gender", b.Gender.Valid()},
		{"ageRange", b.AgeRange.Valid()},
		{"faceShape", b.FaceShape.Valid()},
		{"skinTone", b.SkinTone.Valid()},
		{"hairStyle", b.HairStyle.Valid()},
		{"hairColor", b.HairColor.Valid()},
		{"eyeColor", b.EyeColor.Valid()},
		{"eyeShape", b.EyeShape.Valid()},
		{"facialHair", b.FacialHair.Valid()},
		{"expression", b.Expression.Valid()},
	}
	for _, c := range checks {
		if !c.valid {
			return fmt.Errorf("invalid %s", c.name)
		}
	}
	if len(b.Accessories) > MaxAccessories {
		return fmt.Errorf("at most %d accessories allowed", MaxAccessories)
	}
	for _, a := range b.Accessories {
		if !a.Valid() {
			return fmt.Errorf("invalid accessory %q", a)
		}
	}
	return nil
}

// AvatarSource is either a set of reference photos or a builder
// description, discriminated by Type.
type AvatarSource struct {
	Type    SourceType     `json:"type"`
	Photos  []PhotoItem    `json:"photos,omitempty"`
	Builder *BuilderSource `json:"builder,omitempty"`
}

func (s AvatarSource) Validate() error {
	switch s.Type {
	case SourcePhoto:
		if len(s.Photos) == 0 {
			return fmt.Errorf("at least one photo is required")
		}
		if len(s.Photos) > MaxPhotos {
			return fmt.Errorf("at most %d photos allowed", MaxPhotos)
		}
		for _, p := range s.Photos {
			if err := p.Validate(); err != nil {
				return err
			}
		}
	case SourceBuilder:
		if s.Builder == nil {
			return fmt.Errorf("builder description is required")
		}
		return s.Builder.Validate()
	default:
		return fmt.Errorf("invalid source type %q", s.Type)
	}
	return nil
}

// StyleModifiers are optional per-generation overrides layered on top of
// the chosen style, usable with both photo and builder sources.
type StyleModifiers struct {
	HairColor   HairColor   `json:"hairColor,omitempty"`
	Expression  Expression  `json:"expression,omitempty"`
	FacialHair  FacialHair  `json:"facialHair,omitempty"`
	Accessories []Accessory `json:"accessories,omitempty"`
}

// Empty reports whether no override is set.
func (m StyleModifiers) Empty() bool {
	return m.HairColor == "" && m.Expression == "" && m.FacialHair == "" && len(m.Accessories) == 0
}

func (m StyleModifiers) Validate() error {
	if m.HairColor != "" && !m.HairColor.Valid() {
		return fmt.Errorf("invalid hairColor %q", m.HairColor)
	}
	if m.Expression != "" && !m.Expression.Valid() {
		return fmt.Errorf("invalid expression %q", m.Expression)
	}
	if m.FacialHair != "" && !m.FacialHair.Valid() {
		return fmt.Errorf("invalid facialHair %q", m.FacialHair)
	}
	if len(m.Accessories) > MaxAccessories {
		return fmt.Errorf("at most %d accessories allowed", MaxAccessories)
	}
	for _, a := range m.Accessories {
		if !a.Valid() {
			return fmt.Errorf("invalid accessory %q", a)
		}
	}
	return nil
}

// BackgroundConfig describes the requested backdrop.
type BackgroundConfig struct {
	Type           BackgroundType `json:"type"`
	PrimaryColor   string         `json:"primaryColor,omitempty"`
	SecondaryColor string         `json:"secondaryColor,omitempty"`
}

func (b BackgroundConfig) Validate() error {
	if !b.Type.Valid() {
		return fmt.Errorf("invalid background type %q", b.Type)
	}
	if b.PrimaryColor != "" && !hexColorRe.MatchString(b.PrimaryColor) {
		return fmt.Errorf("invalid primary color %q", b.PrimaryColor)
	}
	if b.SecondaryColor != "" && !hexColorRe.MatchString(b.SecondaryColor) {
		return fmt.Errorf("invalid secondary color %q", b.SecondaryColor)
	}
	return nil
}

// AvatarForm is the complete, validated input for one generation attempt.
type AvatarForm struct {
	Source         AvatarSource     `json:"source"`
	Style          Style            `json:"style"`
	StyleModifiers *StyleModifiers  `json:"styleModifiers,omitempty"`
	Background     BackgroundConfig `json:"background"`
	AspectRatio    AspectRatio      `json:"aspectRatio"`
}

// Normalize fills the defaults the mobile form applies before submit.
func (f *AvatarForm) Normalize() {
	if f.AspectRatio == "" {
		f.AspectRatio = AspectSquare
	}
	if f.Background.Type == "" {
		f.Background.Type = "solid"
	}
}

func (f AvatarForm) Validate() error {
	if err := f.Source.Validate(); err != nil {
		return err
	}
	if !f.Style.Valid() {
		return fmt.Errorf("invalid style %q", f.Style)
	}
	if f.StyleModifiers != nil {
		if err := f.StyleModifiers.Validate(); err != nil {
			return err
		}
	}
	if err := f.Background.Validate(); err != nil {
		return err
	}
	if !f.AspectRatio.Valid() {
		return fmt.Errorf("invalid aspect ratio %q", f.AspectRatio)
	}
	return nil
}
