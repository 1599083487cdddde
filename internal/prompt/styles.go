package prompt

import "github.com/carlelieser/avatarmon/internal/models"

// StylePrompt is the (positive, negative) phrase pair for one style.
type StylePrompt struct {
	Positive string
	Negative string
}

// negativeQualitySuffix is appended to every negative prompt regardless
// of style.
const negativeQualitySuffix = "deformed, ugly, bad anatomy, blurry, low quality"

// photoBasePrompt replaces the builder-derived descriptors when the
// source is a set of reference photos.
const photoBasePrompt = "portrait transformation"

// StylePrompts is the static style table. Positive phrases set the art
// direction; negative phrases steer the model away from competing styles.
var StylePrompts = map[models.Style]StylePrompt{
	models.StyleAnime: {
		Positive: "anime style portrait, cel shaded, vibrant colors, detailed eyes, studio ghibli quality, high quality anime art",
		Negative: "realistic, photograph, 3d render, western cartoon",
	},
	models.StylePixar: {
		Positive: "3d pixar style character portrait, soft subsurface scattering, disney quality, smooth skin, big expressive eyes, studio lighting",
		Negative: "anime, 2d, flat, realistic photograph",
	},
	models.Style3DRender: {
		Positive: "octane render portrait, 3d character, volumetric lighting, subsurface scattering, highly detailed, artstation quality",
		Negative: "anime, 2d, cartoon, photograph",
	},
	models.StylePixelArt: {
		Positive: "16-bit pixel art portrait, retro game character, clean pixels, limited color palette, nostalgic",
		Negative: "realistic, smooth, high resolution, photograph",
	},
	models.StyleWatercolor: {
		Positive: "watercolor portrait painting, soft edges, artistic brushstrokes, delicate colors, fine art quality",
		Negative: "digital, sharp edges, photograph, anime",
	},
	models.StyleComic: {
		Positive: "marvel comic book style portrait, bold ink lines, dramatic shading, dynamic coloring, superhero art style",
		Negative: "realistic, photograph, anime, soft",
	},
	models.StyleCyberpunk: {
		Positive: "cyberpunk portrait, neon lighting, futuristic, chrome accents, blade runner aesthetic, high tech",
		Negative: "medieval, fantasy, natural, soft lighting",
	},
	models.StyleFantasy: {
		Positive: "fantasy art portrait, magical lighting, ethereal glow, detailed, artstation, epic fantasy illustration",
		Negative: "modern, urban, realistic photograph, mundane",
	},
}
