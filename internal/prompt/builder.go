// Package prompt turns avatar descriptions into provider-agnostic
// generation requests. Everything here is a pure function of its inputs;
// validation belongs to the form boundary, not this package.
package prompt

import (
	"fmt"
	"strings"

	"github.com/carlelieser/avatarmon/internal/models"
)

// dehyphenate converts enum values like "middle-aged" into prompt text.
func dehyphenate(s string) string {
	return strings.ReplaceAll(s, "-", " ")
}

// BuildPrompt assembles the descriptor phrase list for a builder source.
// The descriptor order is fixed; the facial hair phrase is omitted for
// the "none" sentinel and the accessory phrase is omitted when no
// accessories are selected.
func BuildPrompt(source models.BuilderSource) string {
	descriptors := []string{
		"portrait",
		string(source.Gender),
		dehyphenate(string(source.AgeRange)),
		fmt.Sprintf("%s face shape", source.FaceShape),
		fmt.Sprintf("%s skin tone", source.SkinTone),
		fmt.Sprintf("%s %s hair", source.HairStyle, source.HairColor),
		fmt.Sprintf("%s %s eyes", source.EyeColor, source.EyeShape),
	}

	if source.FacialHair != models.FacialHairNone {
		descriptors = append(descriptors, dehyphenate(string(source.FacialHair)))
	}

	if len(source.Accessories) > 0 {
		descriptors = append(descriptors, "wearing "+joinAccessories(source.Accessories))
	}

	descriptors = append(descriptors, fmt.Sprintf("%s expression", source.Expression))

	return strings.Join(descriptors, ", ")
}

// joinAccessories joins accessory values verbatim; unlike age range and
// facial hair, accessory names keep their hyphens in the prompt.
func joinAccessories(accessories []models.Accessory) string {
	parts := make([]string, len(accessories))
	for i, a := range accessories {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}

// modifierPhrase renders the optional style-modifier overlay as one
// extra phrase fragment. Returns "" when no modifier is set.
func modifierPhrase(m *models.StyleModifiers) string {
	if m == nil || m.Empty() {
		return ""
	}
	var parts []string
	if m.HairColor != "" {
		parts = append(parts, fmt.Sprintf("%s hair", dehyphenate(string(m.HairColor))))
	}
	if m.Expression != "" {
		parts = append(parts, fmt.Sprintf("%s expression", m.Expression))
	}
	if m.FacialHair != "" && m.FacialHair != models.FacialHairNone {
		parts = append(parts, dehyphenate(string(m.FacialHair)))
	}
	if len(m.Accessories) > 0 {
		parts = append(parts, "wearing "+joinAccessories(m.Accessories))
	}
	return strings.Join(parts, ", ")
}

// BuildGenerationRequest resolves the style prompt pair and combines it
// with the source-derived base prompt, the modifier overlay and the
// reference images into the immutable request for one attempt.
func BuildGenerationRequest(
	source models.AvatarSource,
	style models.Style,
	aspectRatio models.AspectRatio,
	images []string,
	modifiers *models.StyleModifiers,
) models.GenerationRequest {
	styleConfig := StylePrompts[style]

	var basePrompt string
	if source.Type == models.SourcePhoto {
		basePrompt = photoBasePrompt
	} else {
		basePrompt = BuildPrompt(*source.Builder)
	}

	positive := basePrompt + ", " + styleConfig.Positive
	if overlay := modifierPhrase(modifiers); overlay != "" {
		positive += ", " + overlay
	}

	req := models.GenerationRequest{
		Prompt:         positive,
		NegativePrompt: styleConfig.Negative + ", " + negativeQualitySuffix,
		Style:          style,
		AspectRatio:    aspectRatio,
	}
	if len(images) > 0 {
		req.SourceImagesBase64 = images
	}
	return req
}
