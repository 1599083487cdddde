package prompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carlelieser/avatarmon/internal/models"
	"github.com/carlelieser/avatarmon/internal/prompt"
)

func builderSource() models.BuilderSource {
	return models.BuilderSource{
		Gender:     "feminine",
		AgeRange:   "young-adult",
		FaceShape:  "oval",
		SkinTone:   "medium",
		HairStyle:  "long",
		HairColor:  "black",
		EyeColor:   "brown",
		EyeShape:   "almond",
		FacialHair: models.FacialHairNone,
		Expression: "smiling",
	}
}

func TestBuildPrompt_DescriptorOrder(t *testing.T) {
	got := prompt.BuildPrompt(builderSource())

	assert.Equal(t,
		"portrait, feminine, young adult, oval face shape, medium skin tone, long black hair, brown almond eyes, smiling expression",
		got)
}

func TestBuildPrompt_DehyphenatesEnumValues(t *testing.T) {
	source := builderSource()
	source.AgeRange = "middle-aged"

	got := prompt.BuildPrompt(source)

	assert.Contains(t, got, "middle aged")
	assert.NotContains(t, got, "middle-aged")
}

func TestBuildPrompt_FacialHairOnlyWhenPresent(t *testing.T) {
	source := builderSource()
	source.Gender = "masculine"
	source.FacialHair = "full-beard"

	got := prompt.BuildPrompt(source)
	assert.Contains(t, got, "full beard")

	source.FacialHair = models.FacialHairNone
	got = prompt.BuildPrompt(source)
	assert.NotContains(t, got, "none")
	assert.NotContains(t, got, "beard")
}

func TestBuildPrompt_AccessoriesOnlyWhenPresent(t *testing.T) {
	source := builderSource()
	got := prompt.BuildPrompt(source)
	assert.NotContains(t, got, "wearing")

	source.Accessories = []models.Accessory{"glasses", "earrings"}
	got = prompt.BuildPrompt(source)
	assert.Contains(t, got, "wearing glasses, earrings")
}

func TestBuildPrompt_AccessoriesKeepHyphens(t *testing.T) {
	source := builderSource()
	source.Accessories = []models.Accessory{"nose-ring", "ear-gauges"}

	got := prompt.BuildPrompt(source)
	assert.Contains(t, got, "wearing nose-ring, ear-gauges")
}

func TestBuildGenerationRequest_BuilderSource(t *testing.T) {
	source := models.AvatarSource{Type: models.SourceBuilder, Builder: ptr(builderSource())}

	req := prompt.BuildGenerationRequest(source, models.StyleAnime, models.AspectSquare, nil, nil)

	assert.True(t, strings.HasPrefix(req.Prompt, "portrait, feminine"))
	assert.Contains(t, req.Prompt, "anime style portrait")
	assert.Equal(t, models.StyleAnime, req.Style)
	assert.Equal(t, models.AspectSquare, req.AspectRatio)
	assert.Empty(t, req.SourceImagesBase64)
}

func TestBuildGenerationRequest_PhotoSource(t *testing.T) {
	source := models.AvatarSource{Type: models.SourcePhoto, Photos: []models.PhotoItem{{Base64: "abc", Width: 512, Height: 512, MimeType: "image/png"}}}
	images := []string{"abc", "def"}

	req := prompt.BuildGenerationRequest(source, models.StylePixar, models.AspectPortrait, images, nil)

	assert.True(t, strings.HasPrefix(req.Prompt, "portrait transformation, "))
	assert.Contains(t, req.Prompt, "3d pixar style character portrait")
	assert.Equal(t, images, req.SourceImagesBase64)
}

func TestBuildGenerationRequest_ModifierOverlay(t *testing.T) {
	source := models.AvatarSource{Type: models.SourcePhoto, Photos: []models.PhotoItem{{Base64: "abc", Width: 512, Height: 512, MimeType: "image/png"}}}
	modifiers := &models.StyleModifiers{
		HairColor:   "blue",
		Expression:  "serious",
		Accessories: []models.Accessory{"hat"},
	}

	req := prompt.BuildGenerationRequest(source, models.StyleComic, models.AspectSquare, []string{"abc"}, modifiers)

	assert.Contains(t, req.Prompt, "blue hair")
	assert.Contains(t, req.Prompt, "serious expression")
	assert.Contains(t, req.Prompt, "wearing hat")
	// Overlay comes after the style phrases.
	styleIdx := strings.Index(req.Prompt, "marvel comic book style")
	overlayIdx := strings.Index(req.Prompt, "blue hair")
	assert.Greater(t, overlayIdx, styleIdx)
}

func TestBuildGenerationRequest_EmptyModifiersAddNothing(t *testing.T) {
	source := models.AvatarSource{Type: models.SourceBuilder, Builder: ptr(builderSource())}

	plain := prompt.BuildGenerationRequest(source, models.StyleAnime, models.AspectSquare, nil, nil)
	empty := prompt.BuildGenerationRequest(source, models.StyleAnime, models.AspectSquare, nil, &models.StyleModifiers{})

	assert.Equal(t, plain.Prompt, empty.Prompt)
}

func TestBuildGenerationRequest_NegativePromptSuffix(t *testing.T) {
	for _, style := range models.Styles {
		source := models.AvatarSource{Type: models.SourceBuilder, Builder: ptr(builderSource())}
		req := prompt.BuildGenerationRequest(source, style, models.AspectSquare, nil, nil)

		assert.True(t, strings.HasSuffix(req.NegativePrompt, "deformed, ugly, bad anatomy, blurry, low quality"),
			"style %s missing quality suffix", style)
		assert.Greater(t, len(req.NegativePrompt), len("deformed, ugly, bad anatomy, blurry, low quality"),
			"style %s has no style-specific negative phrases", style)
	}
}

func TestBuildGenerationRequest_PromptLengthWithinBounds(t *testing.T) {
	source := builderSource()
	source.Gender = "androgynous"
	source.AgeRange = "middle-aged"
	source.FacialHair = "full-beard"
	source.Accessories = []models.Accessory{"glasses", "earrings", "hat"}

	req := prompt.BuildGenerationRequest(
		models.AvatarSource{Type: models.SourceBuilder, Builder: &source},
		models.StyleCyberpunk, models.AspectStory, nil,
		&models.StyleModifiers{HairColor: "rainbow", Accessories: []models.Accessory{"necklace"}},
	)

	assert.GreaterOrEqual(t, len(req.Prompt), models.MinPromptLength)
	assert.LessOrEqual(t, len(req.Prompt), models.MaxPromptLength)
	assert.LessOrEqual(t, len(req.NegativePrompt), models.MaxNegativePromptLength)
}

func ptr[T any](v T) *T { return &v }
