// internal/workers/conversation/follow-up-policy/policy.go
package followuppolicy

import (
	"regexp"
	"strings"

	"poi-workers/internal/models"
)

var (
	positionalWords = []string{"first", "second", "third", "fourth", "fifth", "1st", "2nd", "3rd", "4th", "5th", "last", "one"}
	referenceWords  = []string{"that", "this", "it", "its", "the", "there", "those", "them"}
	openingWords    = []string{"open", "opens", "opening", "closed", "close", "closes", "closing", "hours"}
	contactWords    = []string{"phone", "call", "number", "contact", "address", "located", "location", "where", "directions", "website", "email"}
	newSearchWords  = []string{"another", "other", "others", "different", "new", "else", "instead"}
	newSearchPhrase = []string{"search for", "look for", "find me", "show me more"}

	tokenPattern = regexp.MustCompile(`[\p{L}\p{N}']+`)
)

// DetectSignals reads the lexical cues of an utterance.
func DetectSignals(utterance string) Signals {
	lower := strings.ToLower(utterance)
	words := map[string]bool{}
	for _, w := range tokenPattern.FindAllString(lower, -1) {
		words[w] = true
	}

	newSearch := anyWord(words, newSearchWords)
	for _, phrase := range newSearchPhrase {
		if strings.Contains(lower, phrase) {
			newSearch = true
		}
	}

	return Signals{
		HasPositionalWord:       anyWord(words, positionalWords),
		HasReferenceWord:        anyWord(words, referenceWords),
		HasOpeningKeywords:      anyWord(words, openingWords),
		HasContactOrAddressWord: anyWord(words, contactWords),
		HasNewSearchWord:        newSearch,
	}
}

// Decide runs the reuse rules once, in order, and reports the first rule
// that fired. A classifier "specific" verdict overrides every lexical cue.
func Decide(detection models.DetectionOutcome, previousCount int, utterance string) Decision {
	s := DetectSignals(utterance)
	decide := func(reuse bool, reason Reason) Decision {
		return Decision{Reuse: reuse, Reason: reason, Signals: s}
	}

	switch {
	case previousCount == 0:
		return decide(false, ReasonNoPrevious)
	case detection.SearchType == models.SearchTypeSpecific:
		return decide(true, ReasonClassifierSpecific)
	case detection.IsSpecific || detection.TargetPOI != "" || detection.TargetID != "":
		return decide(true, ReasonClassifierTarget)
	case s.HasPositionalWord:
		return decide(true, ReasonPositionalReference)
	case s.HasOpeningKeywords:
		return decide(true, ReasonOpeningHours)
	case s.HasReferenceWord && s.HasContactOrAddressWord:
		return decide(true, ReasonReferenceDetail)
	case s.HasNewSearchWord:
		return decide(false, ReasonNewSearchRequested)
	default:
		return decide(false, ReasonFreshSearch)
	}
}

func anyWord(words map[string]bool, candidates []string) bool {
	for _, c := range candidates {
		if words[c] {
			return true
		}
	}
	return false
}
