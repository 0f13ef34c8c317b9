package view

import (
	"context"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/breezeware/dynamodocs/internal/api"
	"github.com/breezeware/dynamodocs/internal/cache"
	"github.com/breezeware/dynamodocs/internal/doctree"
	"github.com/breezeware/dynamodocs/internal/model"
	"github.com/breezeware/dynamodocs/internal/shell"
	"github.com/breezeware/dynamodocs/internal/signal"
)

// TreeView is the navigation tree. It rebuilds from the collection listing
// whenever documents or collections flip, and mirrors the shell's current
// route as its selection so programmatic navigation highlights the right
// node.
type TreeView struct {
	api   *api.Client
	store *cache.Store
	sub   *signal.Subscription

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	nodes    []*doctree.Node
	search   string
	selected string
}

func NewTreeView(ctx context.Context, client *api.Client, bus *signal.Bus, store *cache.Store) *TreeView {
	ctx, cancel := context.WithCancel(ctx)
	return &TreeView{
		api:    client,
		store:  store,
		sub:    bus.Subscribe(signal.TopicDocuments, signal.TopicCollections),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Refresh refetches the collection tree. On failure the previous nodes
// stay on screen and the staleness mark is kept.
func (v *TreeView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	search := v.search
	v.mu.Unlock()

	collections, ok := v.cachedCollections(search)
	if !ok {
		fetched, _, err := v.api.Collections(ctx, search)
		if err != nil {
			logutil.GetLogger(ctx).Error("refresh tree failed", zap.Error(err))
			return err
		}
		collections = fetched
		if search == "" && v.store != nil {
			v.store.PutCollections(collections)
		}
	}

	nodes := doctree.Build(collections)
	v.mu.Lock()
	v.nodes = nodes
	v.mu.Unlock()
	v.sub.Ack()
	return nil
}

func (v *TreeView) cachedCollections(search string) ([]model.Collection, bool) {
	if search != "" || v.store == nil || v.sub.Changed() {
		return nil, false
	}
	return v.store.Collections()
}

// Stale reports whether a watched topic flipped since the last successful
// refresh.
func (v *TreeView) Stale() bool {
	return v.sub.Changed()
}

func (v *TreeView) Nodes() []*doctree.Node {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.nodes
}

// SetSearch narrows the tree to matching collections and documents.
func (v *TreeView) SetSearch(search string) {
	v.mu.Lock()
	v.search = search
	v.mu.Unlock()
}

// FollowRoute syncs the highlighted node with the shell's location.
func (v *TreeView) FollowRoute(route shell.Route) {
	v.mu.Lock()
	v.selected = route.SelectionID()
	v.mu.Unlock()
}

func (v *TreeView) Selected() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected
}

// Watch refreshes on every invalidation wakeup until the view closes.
func (v *TreeView) Watch() {
	for {
		select {
		case <-v.ctx.Done():
			return
		case <-v.sub.Notify():
			_ = v.Refresh(v.ctx)
		}
	}
}

func (v *TreeView) Close() {
	v.cancel()
	v.sub.Close()
}
