// internal/workers/conversation/classify-query/heuristics.go
package classifyquery

import (
	"regexp"
	"strings"

	"poi-workers/internal/models"
)

const lastPosition = -1

var ordinals = map[string]int{
	"first": 0, "1st": 0,
	"second": 1, "2nd": 1,
	"third": 2, "3rd": 2,
	"fourth": 3, "4th": 3,
	"fifth": 4, "5th": 4,
	"last": lastPosition,
}

var positionalPattern = regexp.MustCompile(
	`\b(?:(?:the|that)\s+)?(first|1st|second|2nd|third|3rd|fourth|4th|fifth|5th|last)\s+(?:one|place|restaurant|hotel|option|result|spot|bar|cafe)\b`,
)

// positionFor maps an ordinal to an index into a list of size n. ok is
// false when the list is too short or empty.
func positionFor(word string, n int) (int, bool) {
	pos, known := ordinals[word]
	if !known || n == 0 {
		return 0, false
	}
	if pos == lastPosition {
		return n - 1, true
	}
	if pos >= n {
		return 0, false
	}
	return pos, true
}

// matchPositional finds an ordinal reference such as "the second one".
func matchPositional(text string, n int) (int, bool) {
	for _, m := range positionalPattern.FindAllStringSubmatch(text, -1) {
		if idx, ok := positionFor(m[1], n); ok {
			return idx, true
		}
	}
	return 0, false
}

// matchMention finds the previous POI whose title appears in the utterance.
// The longest contained title wins; equal lengths keep list order.
func matchMention(text string, previous []models.POI) (int, bool) {
	padded := " " + models.NormalizeText(text) + " "
	best, bestLen := -1, 0
	for i, poi := range previous {
		title := models.NormalizeText(poi.Title)
		if title == "" {
			continue
		}
		if strings.Contains(padded, " "+title+" ") && len(title) > bestLen {
			best, bestLen = i, len(title)
		}
	}
	return best, best >= 0
}

// Theme is a semantic topic that links utterance words to previous POIs.
type Theme int

const (
	ThemeBeach Theme = iota
	ThemeWaterSports
	ThemeSeafood
	ThemeLodging
	ThemeCoffee
)

var themes = []struct {
	theme   Theme
	cues    []string
	markers []string
}{
	{ThemeBeach, []string{"beach", "playa", "coastal", "seaside", "shore"}, []string{"beach", "playa", "chiringuito"}},
	{ThemeWaterSports, []string{"water sports", "watersports", "surf", "kayak", "paddle", "jet ski", "diving", "snorkel"}, []string{"aqua", "water sport", "surf", "kayak", "diving", "marina"}},
	{ThemeSeafood, []string{"seafood", "fish", "marisco", "prawn", "paella", "oyster"}, []string{"pescador", "marisqu", "seafood", "fish", "oyster"}},
	{ThemeLodging, []string{"hotel", "stay", "sleep", "room", "accommodation", "lodging"}, []string{"hotel", "hostal", "hostel", "resort", "apartment"}},
	{ThemeCoffee, []string{"coffee", "café", "cafe", "espresso", "breakfast"}, []string{"cafe", "café", "coffee", "cafeteria"}},
}

// matchTheme links a theme named in the utterance to the first previous POI
// whose title or category carries that theme.
func matchTheme(text string, previous []models.POI) (int, Theme, bool) {
	lower := strings.ToLower(text)
	for _, t := range themes {
		if !containsAny(lower, t.cues) {
			continue
		}
		for i, poi := range previous {
			if containsAny(strings.ToLower(poi.Title+" "+poi.Category), t.markers) {
				return i, t.theme, true
			}
		}
	}
	return 0, 0, false
}

var (
	timeWords    = []string{"now", "today", "tonight", "tomorrow", "when", "open", "close", "hours", "time"}
	openingWords = []string{"open", "opening", "close", "closed", "closing", "hours"}
	wordPattern  = regexp.MustCompile(`[\p{L}\p{N}']+`)
)

// lexicalIntent derives the two intent flags from the words of the utterance.
func lexicalIntent(text string) *models.IntentRecognition {
	words := map[string]bool{}
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		words[w] = true
	}
	intent := &models.IntentRecognition{
		TimeRelated:         hasAnyWord(words, timeWords),
		OpeningHoursRelated: hasAnyWord(words, openingWords),
	}
	if intent.OpeningHoursRelated {
		intent.Intent = "opening_hours"
	}
	return intent
}

func hasAnyWord(words map[string]bool, candidates []string) bool {
	for _, c := range candidates {
		if words[c] {
			return true
		}
	}
	return false
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return models.NormalizeText(s)
}
