package view

import (
	"context"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/breezeware/dynamodocs/internal/api"
	"github.com/breezeware/dynamodocs/internal/doctree"
	"github.com/breezeware/dynamodocs/internal/model"
	"github.com/breezeware/dynamodocs/internal/signal"
)

// CollectionView is one collection's scoped document tree.
type CollectionView struct {
	api *api.Client
	sub *signal.Subscription

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	id         string
	search     string
	collection *model.Collection
	nodes      []*doctree.Node
}

func NewCollectionView(ctx context.Context, client *api.Client, bus *signal.Bus, collectionID string) *CollectionView {
	ctx, cancel := context.WithCancel(ctx)
	return &CollectionView{
		api:    client,
		sub:    bus.Subscribe(signal.TopicDocuments, signal.TopicCollections),
		ctx:    ctx,
		cancel: cancel,
		id:     collectionID,
	}
}

func (v *CollectionView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	id, search := v.id, v.search
	v.mu.Unlock()

	collection, err := v.api.Collection(ctx, id, search)
	if err != nil {
		logutil.GetLogger(ctx).Error("refresh collection failed",
			zap.String("collection_id", id), zap.Error(err))
		return err
	}
	nodes := doctree.Build([]model.Collection{*collection})
	v.mu.Lock()
	v.collection = collection
	v.nodes = nodes
	v.mu.Unlock()
	v.sub.Ack()
	return nil
}

func (v *CollectionView) Collection() *model.Collection {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.collection
}

func (v *CollectionView) Nodes() []*doctree.Node {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.nodes
}

func (v *CollectionView) SetSearch(search string) {
	v.mu.Lock()
	v.search = search
	v.mu.Unlock()
}

func (v *CollectionView) Stale() bool {
	return v.sub.Changed()
}

func (v *CollectionView) Watch() {
	for {
		select {
		case <-v.ctx.Done():
			return
		case <-v.sub.Notify():
			_ = v.Refresh(v.ctx)
		}
	}
}

func (v *CollectionView) Close() {
	v.cancel()
	v.sub.Close()
}
