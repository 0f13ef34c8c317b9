package view

import (
	"context"

	"github.com/breezeware/dynamodocs/internal/signal"
)

// RefreshJob periodically flips the listing topics so watch mode picks up
// changes other sessions made. Local mutations do not need it; they flip
// on their own.
type RefreshJob struct {
	bus *signal.Bus
}

func NewRefreshJob(bus *signal.Bus) *RefreshJob {
	return &RefreshJob{bus: bus}
}

func (j *RefreshJob) Name() string {
	return "refresh"
}

func (j *RefreshJob) Run(ctx context.Context) error {
	j.bus.Flip(signal.TopicDocuments, signal.TopicCollections, signal.TopicDocument)
	return nil
}
