package models

// Style identifies one of the fixed visual styles an avatar can be
// rendered in. The values are wire-stable: they appear in requests,
// persisted history records and the style prompt table.
type Style string

const (
	StyleAnime      Style = "anime"
	StylePixar      Style = "pixar"
	Style3DRender   Style = "3d-render"
	StylePixelArt   Style = "pixel-art"
	StyleWatercolor Style = "watercolor"
	StyleComic      Style = "comic"
	StyleCyberpunk  Style = "cyberpunk"
	StyleFantasy    Style = "fantasy"
)

// Styles lists every supported style in display order.
var Styles = []Style{
	StyleAnime,
	StylePixar,
	Style3DRender,
	StylePixelArt,
	StyleWatercolor,
	StyleComic,
	StyleCyberpunk,
	StyleFantasy,
}

func (s Style) Valid() bool {
	for _, v := range Styles {
		if s == v {
			return true
		}
	}
	return false
}

// AspectRatio is the output image shape requested from the provider.
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectPortrait  AspectRatio = "3:4"
	AspectLandscape AspectRatio = "4:3"
	AspectStory     AspectRatio = "9:16"
)

func (a AspectRatio) Valid() bool {
	switch a {
	case AspectSquare, AspectPortrait, AspectLandscape, AspectStory:
		return true
	}
	return false
}

// GenerationStatus is the job status enum shared with the generation API.
// StatusTimedOut and StatusIdle are local-only states of the lifecycle
// runner and never appear in provider responses.
type GenerationStatus string

const (
	StatusIdle       GenerationStatus = "idle"
	StatusQueued     GenerationStatus = "queued"
	StatusProcessing GenerationStatus = "processing"
	StatusCompleted  GenerationStatus = "completed"
	StatusFailed     GenerationStatus = "failed"
	StatusCancelled  GenerationStatus = "cancelled"
	StatusTimedOut   GenerationStatus = "timed_out"
)

// Terminal reports whether the status ends a generation attempt.
func (s GenerationStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusTimedOut:
		return true
	}
	return false
}

type Gender string

var genders = map[Gender]bool{
	"masculine": true, "feminine": true, "androgynous": true,
}

func (g Gender) Valid() bool { return genders[g] }

type AgeRange string

var ageRanges = map[AgeRange]bool{
	"child": true, "teen": true, "young-adult": true,
	"adult": true, "middle-aged": true, "elder": true,
}

func (a AgeRange) Valid() bool { return ageRanges[a] }

type SkinTone string

var skinTones = map[SkinTone]bool{
	"porcelain": true, "fair": true, "light": true, "medium": true,
	"olive": true, "tan": true, "brown": true, "dark": true, "deep": true,
}

func (s SkinTone) Valid() bool { return skinTones[s] }

type HairStyle string

var hairStyles = map[HairStyle]bool{
	"bald": true, "buzzcut": true, "short": true, "medium": true,
	"long": true, "very-long": true, "curly": true, "wavy": true,
	"straight": true, "afro": true, "braided": true, "dreadlocks": true,
	"ponytail": true, "bun": true, "mohawk": true, "undercut": true,
}

func (h HairStyle) Valid() bool { return hairStyles[h] }

type HairColor string

var hairColors = map[HairColor]bool{
	"black": true, "dark-brown": true, "brown": true, "light-brown": true,
	"blonde": true, "platinum": true, "red": true, "auburn": true,
	"ginger": true, "gray": true, "white": true, "blue": true,
	"pink": true, "purple": true, "green": true, "rainbow": true,
}

func (h HairColor) Valid() bool { return hairColors[h] }

type EyeColor string

var eyeColors = map[EyeColor]bool{
	"brown": true, "dark-brown": true, "hazel": true, "amber": true,
	"green": true, "blue": true, "gray": true, "violet": true,
	"heterochromia": true,
}

func (e EyeColor) Valid() bool { return eyeColors[e] }

type EyeShape string

var eyeShapes = map[EyeShape]bool{
	"almond": true, "round": true, "hooded": true,
	"monolid": true, "downturned": true, "upturned": true,
}

func (e EyeShape) Valid() bool { return eyeShapes[e] }

// FacialHairNone is the sentinel meaning "no facial hair"; the prompt
// builder omits the facial hair phrase entirely for it.
const FacialHairNone FacialHair = "none"

type FacialHair string

var facialHairs = map[FacialHair]bool{
	"none": true, "stubble": true, "short-beard": true, "full-beard": true,
	"long-beard": true, "goatee": true, "mustache": true,
	"soul-patch": true, "mutton-chops": true,
}

func (f FacialHair) Valid() bool { return facialHairs[f] }

type FaceShape string

var faceShapes = map[FaceShape]bool{
	"oval": true, "round": true, "square": true,
	"heart": true, "oblong": true, "diamond": true,
}

func (f FaceShape) Valid() bool { return faceShapes[f] }

type Accessory string

var accessories = map[Accessory]bool{
	"glasses": true, "sunglasses": true, "monocle": true, "earrings": true,
	"ear-gauges": true, "nose-ring": true, "lip-piercing": true,
	"eyebrow-piercing": true, "hat": true, "beanie": true, "headband": true,
	"headphones": true, "over-ear-headphones": true, "necklace": true,
	"choker": true, "scarf": true, "mask": true,
}

func (a Accessory) Valid() bool { return accessories[a] }

type Expression string

var expressions = map[Expression]bool{
	"neutral": true, "happy": true, "smiling": true, "laughing": true,
	"confident": true, "serious": true, "thoughtful": true,
	"mysterious": true, "playful": true, "winking": true,
	"surprised": true, "determined": true,
}

func (e Expression) Valid() bool { return expressions[e] }

type BackgroundType string

var backgroundTypes = map[BackgroundType]bool{
	"solid": true, "gradient": true, "abstract": true, "nature": true,
	"urban": true, "studio": true, "transparent": true,
}

func (b BackgroundType) Valid() bool { return backgroundTypes[b] }
