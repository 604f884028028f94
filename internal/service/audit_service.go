package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/catalog-gateway/internal/events"
)

// AuthAttemptRecorder counts authentication outcomes.
type AuthAttemptRecorder interface {
	RecordAuthAttempt(outcome string)
}

// AuditService turns authentication events into log lines and counters.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	recorder   AuthAttemptRecorder
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, recorder AuthAttemptRecorder) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		recorder:   recorder,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventAuthSucceeded, a.handleAuthSucceeded)
	a.dispatcher.Subscribe(events.EventAuthFailed, a.handleAuthFailed)
}

func (a *AuditService) handleAuthSucceeded(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.AuthSucceededPayload)
	a.logger.Info("AuthSucceeded",
		zap.String("event_id", event.ID),
		zap.Int64("subject_id", payload.SubjectID),
		zap.String("token_id", payload.TokenID),
	)
	a.record("success")
	return nil
}

func (a *AuditService) handleAuthFailed(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.AuthFailedPayload)
	a.logger.Info("AuthFailed", zap.String("event_id", event.ID), zap.String("reason", payload.Reason))
	a.record("failure")
	return nil
}

func (a *AuditService) record(outcome string) {
	if a.recorder != nil {
		a.recorder.RecordAuthAttempt(outcome)
	}
}
