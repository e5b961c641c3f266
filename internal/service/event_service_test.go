package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ispkai/docrepo-api/internal/models"
	"github.com/ispkai/docrepo-api/pkg/config"
	"github.com/ispkai/docrepo-api/pkg/jobs"
)

type eventRepoStub struct {
	mu        sync.Mutex
	downloads []models.DownloadEvent
	views     []models.ViewEvent
}

func (s *eventRepoStub) RecordDownload(ctx context.Context, event *models.DownloadEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloads = append(s.downloads, *event)
	return nil
}

func (s *eventRepoStub) RecordView(ctx context.Context, event *models.ViewEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, *event)
	return nil
}

func TestEventServiceHandleDispatch(t *testing.T) {
	repo := &eventRepoStub{}
	svc := NewEventService(repo, config.EventsConfig{Workers: 1, BufferSize: 4}, nil, nil)

	err := svc.handle(context.Background(), jobs.Job{
		Type:    jobTypeDownload,
		Payload: &models.DownloadEvent{DocumentID: "d1"},
	})
	require.NoError(t, err)

	err = svc.handle(context.Background(), jobs.Job{
		Type:    jobTypeView,
		Payload: &models.ViewEvent{DocumentID: "d1", ViewerMode: "PDF_EMBED"},
	})
	require.NoError(t, err)

	require.Len(t, repo.downloads, 1)
	require.Len(t, repo.views, 1)
	assert.Equal(t, "PDF_EMBED", repo.views[0].ViewerMode)
}

func TestEventServiceHandleUnknownType(t *testing.T) {
	svc := NewEventService(&eventRepoStub{}, config.EventsConfig{}, nil, nil)
	err := svc.handle(context.Background(), jobs.Job{Type: "bogus"})
	require.Error(t, err)
}

func TestEventServicePublishRoundTrip(t *testing.T) {
	repo := &eventRepoStub{}
	svc := NewEventService(repo, config.EventsConfig{Workers: 1, BufferSize: 4}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	svc.PublishDownload("d1", nil)

	require.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return len(repo.downloads) == 1
	}, time.Second, 10*time.Millisecond)
}
