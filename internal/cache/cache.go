package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"

	"github.com/breezeware/dynamodocs/internal/model"
	"github.com/breezeware/dynamodocs/internal/signal"
)

// Store keeps recently fetched documents and the collection tree so
// re-renders between invalidations skip the network. A topic flip on the
// bus purges the matching side; values are never served across a flip.
type Store struct {
	documents   *expirable.LRU[string, *model.Document]
	collections *expirable.LRU[string, []model.Collection]
	sub         *signal.Subscription
}

const collectionsKey = "collections"

func New(bus *signal.Bus, size int, ttl time.Duration) *Store {
	if size <= 0 {
		size = 128
	}
	s := &Store{
		documents:   expirable.NewLRU[string, *model.Document](size, nil, ttl),
		collections: expirable.NewLRU[string, []model.Collection](4, nil, ttl),
	}
	if bus != nil {
		s.sub = bus.Subscribe(signal.TopicDocuments, signal.TopicCollections, signal.TopicDocument)
	}
	return s
}

// purgeStale drops cached values when any watched topic flipped since the
// last observation.
func (s *Store) purgeStale() {
	if s.sub == nil || !s.sub.Changed() {
		return
	}
	s.documents.Purge()
	s.collections.Purge()
	s.sub.Ack()
	logutil.GetLogger(context.Background()).Debug("cache purged after invalidation")
}

func (s *Store) Document(id string) (*model.Document, bool) {
	s.purgeStale()
	return s.documents.Get(id)
}

func (s *Store) PutDocument(doc *model.Document) {
	if doc == nil {
		return
	}
	s.purgeStale()
	s.documents.Add(doc.UniqueID, doc)
}

func (s *Store) Collections() ([]model.Collection, bool) {
	s.purgeStale()
	return s.collections.Get(collectionsKey)
}

func (s *Store) PutCollections(collections []model.Collection) {
	s.purgeStale()
	s.collections.Add(collectionsKey, collections)
}

func (s *Store) Close() {
	if s.sub != nil {
		s.sub.Close()
	}
}
