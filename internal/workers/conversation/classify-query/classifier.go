// internal/workers/conversation/classify-query/classifier.go
package classifyquery

import (
	"context"
	"errors"
	"strings"

	"poi-workers/internal/common/logger"
	"poi-workers/internal/common/metrics"
	"poi-workers/internal/models"
)

// Classifier decides whether an utterance is a fresh request or refers back
// to the previous turn. The first tier that produces a result wins: the
// semantic analyzer, then positional, mention and theme heuristics, then
// "general".
type Classifier struct {
	config   *Config
	analyzer Analyzer
	logger   logger.Logger
}

// NewClassifier accepts a nil analyzer, in which case only the heuristic
// tiers run.
func NewClassifier(config *Config, analyzer Analyzer, log logger.Logger) *Classifier {
	return &Classifier{
		config:   config,
		analyzer: analyzer,
		logger:   log,
	}
}

// Classify never fails. Analyzer errors and timeouts fall through to the
// heuristic tiers.
func (c *Classifier) Classify(ctx context.Context, utterance string, previous []models.POI) models.DetectionOutcome {
	lexical := lexicalIntent(utterance)

	analysis := c.analyze(ctx, utterance, previous)
	if analysis != nil && analysis.IsFollowUp && len(previous) > 0 && analysis.Confidence >= c.config.SemanticMinConfidence {
		outcome := c.fromAnalysis(analysis, previous)
		outcome.Intent = mergeIntent(analysis, lexical)
		return c.record(outcome)
	}

	outcome := c.heuristic(utterance, previous)
	outcome.Intent = mergeIntent(analysis, lexical)
	return c.record(outcome)
}

func (c *Classifier) analyze(ctx context.Context, utterance string, previous []models.POI) *FollowUpAnalysis {
	if c.analyzer == nil || !c.config.SemanticEnabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.SemanticTimeout)
	defer cancel()

	analysis, err := c.analyzer.AnalyzeFollowUp(ctx, utterance, previous)
	if err == nil && analysis != nil {
		return analysis
	}

	reason := "empty"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		reason = "timeout"
	case errors.Is(err, ErrAnalyzerUnavailable):
		reason = "breaker_open"
	case err != nil:
		reason = "error"
	}
	metrics.SemanticFallbacks.WithLabelValues(reason).Inc()

	fields := map[string]interface{}{"reason": reason}
	if err != nil {
		fields["error"] = err.Error()
	}
	c.logger.Warn("semantic analysis unavailable, using heuristics", fields)
	return nil
}

// fromAnalysis resolves the analyzer's coarse target: an ordinal, a
// previous title or id, or nothing (reuse everything).
func (c *Classifier) fromAnalysis(analysis *FollowUpAnalysis, previous []models.POI) models.DetectionOutcome {
	confidence := clampConfidence(analysis.Confidence)
	target := strings.TrimSpace(analysis.TargetPOI)

	if target != "" {
		if idx, ok := positionFor(strings.ToLower(target), len(previous)); ok {
			return withReasoning(targetOutcome(previous, idx, models.SearchTypeSpecific, confidence, models.MethodSemantic), analysis.Reasoning)
		}
		for i, poi := range previous {
			if poi.ID == target || models.TitlesMatch(poi.Title, target) {
				return withReasoning(targetOutcome(previous, i, models.SearchTypeSpecific, confidence, models.MethodSemantic), analysis.Reasoning)
			}
		}
	}

	return models.DetectionOutcome{
		SearchType: models.SearchTypeContextual,
		Confidence: confidence,
		Method:     models.MethodSemantic,
		Reasoning:  analysis.Reasoning,
	}
}

func (c *Classifier) heuristic(utterance string, previous []models.POI) models.DetectionOutcome {
	conf := c.config.Confidence
	text := strings.ToLower(utterance)

	if idx, ok := matchPositional(text, len(previous)); ok {
		return targetOutcome(previous, idx, models.SearchTypeSpecific, conf.Positional, models.MethodPositional)
	}
	if idx, ok := matchMention(utterance, previous); ok {
		return targetOutcome(previous, idx, models.SearchTypeSpecific, conf.Mention, models.MethodMention)
	}
	if idx, _, ok := matchTheme(utterance, previous); ok {
		return targetOutcome(previous, idx, models.SearchTypeContextual, conf.Keyword, models.MethodKeyword)
	}

	return models.DetectionOutcome{
		SearchType: models.SearchTypeGeneral,
		Confidence: conf.General,
		Method:     models.MethodDefault,
	}
}

func (c *Classifier) record(outcome models.DetectionOutcome) models.DetectionOutcome {
	metrics.QueryDetections.WithLabelValues(string(outcome.SearchType), string(outcome.Method)).Inc()
	c.logger.Debug("query classified", map[string]interface{}{
		"searchType": outcome.SearchType,
		"method":     outcome.Method,
		"confidence": outcome.Confidence,
		"targetId":   outcome.TargetID,
	})
	return outcome
}

func targetOutcome(previous []models.POI, idx int, searchType models.SearchType, confidence float64, method models.DetectionMethod) models.DetectionOutcome {
	index := idx
	return models.DetectionOutcome{
		SearchType:  searchType,
		TargetPOI:   previous[idx].Title,
		TargetIndex: &index,
		TargetID:    previous[idx].ID,
		IsSpecific:  searchType == models.SearchTypeSpecific,
		Confidence:  confidence,
		Method:      method,
	}
}

func withReasoning(outcome models.DetectionOutcome, reasoning string) models.DetectionOutcome {
	outcome.Reasoning = reasoning
	return outcome
}

// mergeIntent ORs the analyzer's flags into the lexical ones.
func mergeIntent(analysis *FollowUpAnalysis, lexical *models.IntentRecognition) *models.IntentRecognition {
	if analysis == nil {
		return lexical
	}
	merged := &models.IntentRecognition{
		Intent:              analysis.Intent,
		TimeRelated:         analysis.TimeRelated || lexical.TimeRelated,
		OpeningHoursRelated: analysis.OpeningHoursRelated || lexical.OpeningHoursRelated,
	}
	if merged.Intent == "" {
		merged.Intent = lexical.Intent
	}
	return merged
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
