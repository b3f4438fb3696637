package model

import "strings"

// MediaKind distinguishes photographs from illustrated content.
type MediaKind string

const (
	MediaPhoto        MediaKind = "photo"
	MediaIllustration MediaKind = "illustration"
)

var illustrationLabels = map[string]bool{
	"illustration": true,
	"cartoon":      true,
	"anime":        true,
	"animated":     true,
	"cgi":          true,
}

// MediaKindFromLabel maps a classifier type label to a MediaKind.
// Labels outside the illustration vocabulary are treated as photos.
func MediaKindFromLabel(label string) MediaKind {
	if illustrationLabels[strings.ToLower(strings.TrimSpace(label))] {
		return MediaIllustration
	}
	return MediaPhoto
}

// ScanScores is the classifier verdict for a single image. Not persisted.
type ScanScores struct {
	Explicit   float64
	Suggestive float64
	Kind       MediaKind
	// Label is the raw type label reported by the classifier, if any.
	Label string
}

// Decision is the action chosen for a scanned image.
type Decision string

const (
	DecisionNone   Decision = "none"
	DecisionFlag   Decision = "flag"
	DecisionDelete Decision = "delete"
)
