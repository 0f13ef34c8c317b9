package view

import (
	"context"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/breezeware/dynamodocs/internal/api"
	"github.com/breezeware/dynamodocs/internal/cache"
	"github.com/breezeware/dynamodocs/internal/model"
	"github.com/breezeware/dynamodocs/internal/render"
	"github.com/breezeware/dynamodocs/internal/signal"
)

// DocumentView is the single open document. Cached copies serve re-renders
// until the document topic flips; the markdown preview is rendered on load
// when the server did not send one.
type DocumentView struct {
	api   *api.Client
	store *cache.Store
	sub   *signal.Subscription

	ctx    context.Context
	cancel context.CancelFunc

	mu  sync.Mutex
	id  string
	doc *model.Document
}

func NewDocumentView(ctx context.Context, client *api.Client, bus *signal.Bus, store *cache.Store) *DocumentView {
	ctx, cancel := context.WithCancel(ctx)
	return &DocumentView{
		api:    client,
		store:  store,
		sub:    bus.Subscribe(signal.TopicDocument, signal.TopicDocuments),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Load opens a document by id, serving from cache when nothing flipped
// since it was stored.
func (v *DocumentView) Load(ctx context.Context, id string) (*model.Document, error) {
	if v.store != nil && !v.sub.Changed() {
		if doc, ok := v.store.Document(id); ok {
			v.remember(id, doc)
			return doc, nil
		}
	}

	doc, err := v.api.Document(ctx, id)
	if err != nil {
		logutil.GetLogger(ctx).Error("load document failed",
			zap.String("document_id", id), zap.Error(err))
		return nil, err
	}
	if doc.HTMLContent == "" && doc.Content != "" {
		if rendered, err := render.HTML(doc.Content); err == nil {
			doc.HTMLContent = rendered
		}
	}
	if v.store != nil {
		v.store.PutDocument(doc)
	}
	v.remember(id, doc)
	v.sub.Ack()
	return doc, nil
}

func (v *DocumentView) remember(id string, doc *model.Document) {
	v.mu.Lock()
	v.id = id
	v.doc = doc
	v.mu.Unlock()
}

// Current returns the document last loaded, which may be stale; check
// Stale before trusting it.
func (v *DocumentView) Current() *model.Document {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.doc
}

func (v *DocumentView) Stale() bool {
	return v.sub.Changed()
}

// Watch reloads the open document on every invalidation wakeup.
func (v *DocumentView) Watch() {
	for {
		select {
		case <-v.ctx.Done():
			return
		case <-v.sub.Notify():
			v.mu.Lock()
			id := v.id
			v.mu.Unlock()
			if id != "" {
				_, _ = v.Load(v.ctx, id)
			}
		}
	}
}

func (v *DocumentView) Close() {
	v.cancel()
	v.sub.Close()
}
