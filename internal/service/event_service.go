package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ispkai/docrepo-api/internal/models"
	"github.com/ispkai/docrepo-api/pkg/config"
	"github.com/ispkai/docrepo-api/pkg/jobs"
)

const (
	jobTypeDownload = "document.download"
	jobTypeView     = "document.view"
)

type eventRepository interface {
	RecordDownload(ctx context.Context, event *models.DownloadEvent) error
	RecordView(ctx context.Context, event *models.ViewEvent) error
}

// EventService records download and view events asynchronously so request
// latency never depends on the events table.
type EventService struct {
	repo    eventRepository
	queue   *jobs.Queue
	logger  *zap.Logger
	metrics *MetricsService
}

// NewEventService constructs an EventService with its own worker queue.
func NewEventService(repo eventRepository, cfg config.EventsConfig, logger *zap.Logger, metrics *MetricsService) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &EventService{repo: repo, logger: logger, metrics: metrics}
	s.queue = jobs.NewQueue("events", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		Logger:     logger,
	})
	return s
}

// Start launches the event workers.
func (s *EventService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the event workers.
func (s *EventService) Stop() {
	s.queue.Stop()
}

// PublishDownload enqueues a download event. Failures are logged, never
// surfaced to the caller.
func (s *EventService) PublishDownload(documentID string, userID *string) {
	job := jobs.Job{
		ID:   uuid.NewString(),
		Type: jobTypeDownload,
		Payload: &models.DownloadEvent{
			DocumentID: documentID,
			UserID:     userID,
		},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue download event", zap.String("document_id", documentID), zap.Error(err))
	}
}

// PublishView enqueues a view event.
func (s *EventService) PublishView(documentID string, userID *string, viewerMode string) {
	job := jobs.Job{
		ID:   uuid.NewString(),
		Type: jobTypeView,
		Payload: &models.ViewEvent{
			DocumentID: documentID,
			UserID:     userID,
			ViewerMode: viewerMode,
		},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue view event", zap.String("document_id", documentID), zap.Error(err))
	}
}

func (s *EventService) handle(ctx context.Context, job jobs.Job) error {
	switch job.Type {
	case jobTypeDownload:
		event, ok := job.Payload.(*models.DownloadEvent)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", job.Type)
		}
		if err := s.repo.RecordDownload(ctx, event); err != nil {
			return err
		}
		s.metrics.RecordDownload()
		return nil
	case jobTypeView:
		event, ok := job.Payload.(*models.ViewEvent)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", job.Type)
		}
		if err := s.repo.RecordView(ctx, event); err != nil {
			return err
		}
		s.metrics.RecordView(event.ViewerMode)
		return nil
	default:
		return fmt.Errorf("unknown job type %s", job.Type)
	}
}
