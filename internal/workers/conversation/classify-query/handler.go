// internal/workers/conversation/classify-query/handler.go
package classifyquery

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonerrors "poi-workers/internal/common/errors"
	"poi-workers/internal/common/logger"
	"poi-workers/internal/common/metrics"
)

const (
	TaskType = "classify-query"
)

type Handler struct {
	config       *Config
	classifier   *Classifier
	logger       logger.Logger
	errorHandler *commonerrors.ErrorHandler
}

// NewHandler wires the classifier. analyzer may be nil.
func NewHandler(config *Config, analyzer Analyzer, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		classifier:   NewClassifier(config, analyzer, scoped),
		logger:       scoped,
		errorHandler: commonerrors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "INVALID_INPUT").Inc()
		h.errorHandler.HandleJobError(ctx, client, job, commonerrors.NewInvalidInputError(err))
		return
	}

	output := h.execute(ctx, &input)

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) *Output {
	return &Output{
		Detection: h.classifier.Classify(ctx, input.Utterance, input.PreviousResults),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input), nil
}

// Classifier exposes the underlying classifier for in-process composition.
func (h *Handler) Classifier() *Classifier {
	return h.classifier
}
