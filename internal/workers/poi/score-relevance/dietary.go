// internal/workers/poi/score-relevance/dietary.go
package scorerelevance

import (
	"regexp"
	"strings"

	"poi-workers/internal/models"
)

var cuePatterns = compileCues()

func compileCues() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	for _, cues := range dietCues {
		for _, cue := range cues {
			patterns[cue.phrase] = regexp.MustCompile(`\b` + regexp.QuoteMeta(cue.phrase) + `\b`)
		}
	}
	return patterns
}

// DetectDietaryIntent returns the diet named in the utterance with the
// confidence of its strongest cue, or nil when none is named. On equal
// confidence the earlier diet in models.DietTypes wins.
func DetectDietaryIntent(utterance string) *models.DietaryIntent {
	text := strings.ToLower(utterance)

	var best *models.DietaryIntent
	for _, diet := range models.DietTypes {
		for _, cue := range dietCues[diet] {
			if !cuePatterns[cue.phrase].MatchString(text) {
				continue
			}
			if best == nil || cue.confidence > best.Confidence {
				best = &models.DietaryIntent{Type: diet, Confidence: cue.confidence}
			}
		}
	}
	return best
}
