// Package language classifies inbound message text as Bahasa Malaysia or
// English using a keyword-frequency heuristic. No external calls are made;
// detection is deterministic and never fails.
package language

import "strings"

const (
	// LanguageBM is Bahasa Malaysia.
	LanguageBM = "bm"
	// LanguageEN is English.
	LanguageEN = "en"
)

// bmMarkers are common Bahasa Malaysia words that rarely appear in English
// customer messages. Matching is case-insensitive substring containment.
var bmMarkers = []string{
	"saya",
	"nak",
	"boleh",
	"tak",
	"ada",
	"berapa",
	"macam",
	"mana",
	"bila",
	"tolong",
	"terima kasih",
	"hari",
	"pukul",
	"harga",
	"tempah",
	"janji temu",
}

// Detection is the result of language detection.
type Detection struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// Detect classifies free text. Two or more BM marker hits classify the text
// as Bahasa Malaysia with confidence 0.8; anything else is English at 0.6.
func Detect(text string) Detection {
	lowered := strings.ToLower(text)

	hits := 0
	for _, marker := range bmMarkers {
		if strings.Contains(lowered, marker) {
			hits++
		}
	}

	if hits >= 2 {
		return Detection{Language: LanguageBM, Confidence: 0.8}
	}
	return Detection{Language: LanguageEN, Confidence: 0.6}
}
