package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/breezeware/dynamodocs/internal/api"
	"github.com/breezeware/dynamodocs/internal/model"
	"github.com/breezeware/dynamodocs/internal/pkg/timeutil"
	"github.com/breezeware/dynamodocs/internal/signal"
)

// ListItem is one row of a status-scoped listing: the document plus its
// rendered byline ("You published 2 days ago").
type ListItem struct {
	Document model.Document
	Byline   string
}

// ListView is one status-scoped document listing (home, drafts, archive or
// trash). It watches the documents topic and refetches on flips.
type ListView struct {
	api    *api.Client
	status model.Status
	sub    *signal.Subscription

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	search string
	items  []ListItem
	page   api.Page
}

func NewListView(ctx context.Context, client *api.Client, bus *signal.Bus, status model.Status) *ListView {
	ctx, cancel := context.WithCancel(ctx)
	return &ListView{
		api:    client,
		status: status,
		sub:    bus.Subscribe(signal.TopicDocuments),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Refresh refetches the listing. The previous rows survive a failed fetch.
func (v *ListView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	search := v.search
	v.mu.Unlock()

	docs, page, err := v.api.Documents(ctx, v.status, search)
	if err != nil {
		logutil.GetLogger(ctx).Error("refresh document list failed",
			zap.String("status", string(v.status)), zap.Error(err))
		return err
	}

	now := time.Now()
	items := make([]ListItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, ListItem{Document: doc, Byline: byline(&doc, now)})
	}
	v.mu.Lock()
	v.items = items
	v.page = page
	v.mu.Unlock()
	v.sub.Ack()
	return nil
}

// byline pairs the status verb with the one authoritative timestamp for
// that status.
func byline(doc *model.Document, now time.Time) string {
	at := doc.EffectiveTime()
	if at == nil {
		return ""
	}
	return fmt.Sprintf("You %s %s ago", doc.EffectiveVerb(), timeutil.RelativeAge(now, *at))
}

func (v *ListView) Stale() bool {
	return v.sub.Changed()
}

func (v *ListView) Items() []ListItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.items
}

func (v *ListView) Page() api.Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

func (v *ListView) SetSearch(search string) {
	v.mu.Lock()
	v.search = search
	v.mu.Unlock()
}

// Watch refreshes on every invalidation wakeup until the view closes.
func (v *ListView) Watch() {
	for {
		select {
		case <-v.ctx.Done():
			return
		case <-v.sub.Notify():
			_ = v.Refresh(v.ctx)
		}
	}
}

func (v *ListView) Close() {
	v.cancel()
	v.sub.Close()
}
