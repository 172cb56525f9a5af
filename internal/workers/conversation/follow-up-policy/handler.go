// internal/workers/conversation/follow-up-policy/handler.go
package followuppolicy

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonerrors "poi-workers/internal/common/errors"
	"poi-workers/internal/common/logger"
	"poi-workers/internal/common/metrics"
)

const (
	TaskType = "evaluate-follow-up"
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *commonerrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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

	output := h.execute(&input)

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

func (h *Handler) execute(input *Input) *Output {
	previous := len(input.PreviousResults)
	if len(input.PreviousPoiIDs) > previous {
		previous = len(input.PreviousPoiIDs)
	}

	decision := Decide(input.Detection, previous, input.Utterance)
	metrics.FollowUpDecisions.WithLabelValues(strconv.FormatBool(decision.Reuse), string(decision.Reason)).Inc()

	h.logger.Debug("follow-up decided", map[string]interface{}{
		"reuse":  decision.Reuse,
		"reason": decision.Reason,
	})
	return &Output{Decision: decision}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.execute(input), nil
}
