package view

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/breezeware/dynamodocs/internal/api"
	"github.com/breezeware/dynamodocs/internal/cache"
	"github.com/breezeware/dynamodocs/internal/model"
	"github.com/breezeware/dynamodocs/internal/signal"
)

func listBody(t *testing.T, docs []model.Document) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"data":             docs,
		"totalElements":    len(docs),
		"totalPages":       1,
		"numberOfElements": len(docs),
	})
	require.NoError(t, err)
	return body
}

func TestListViewRefreshAndByline(t *testing.T) {
	created := time.Now().Add(-49 * time.Hour)
	docs := []model.Document{
		{UniqueID: "d1", Title: "intro", Status: model.StatusDrafted, CreatedOn: &created},
		{UniqueID: "d2", Status: model.StatusDrafted, CreatedOn: &created},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/documents", r.URL.Path)
		require.Equal(t, "drafted", r.URL.Query().Get("status"))
		_, _ = w.Write(listBody(t, docs))
	}))
	defer srv.Close()

	bus := signal.NewBus()
	v := NewListView(context.Background(), api.New(srv.URL, ""), bus, model.StatusDrafted)
	defer v.Close()

	require.NoError(t, v.Refresh(context.Background()))
	items := v.Items()
	require.Len(t, items, 2)
	require.Equal(t, "You created 2 days ago", items[0].Byline)
	require.Equal(t, "Untitled", items[1].Document.DisplayTitle())
	require.False(t, v.Stale())

	bus.Flip(signal.TopicDocuments)
	require.True(t, v.Stale())
	require.NoError(t, v.Refresh(context.Background()))
	require.False(t, v.Stale())
}

func TestListViewKeepsRowsOnFailure(t *testing.T) {
	var fail atomic.Bool
	docs := []model.Document{{UniqueID: "d1", Title: "intro", Status: model.StatusDrafted}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(listBody(t, docs))
	}))
	defer srv.Close()

	bus := signal.NewBus()
	v := NewListView(context.Background(), api.New(srv.URL, ""), bus, model.StatusDrafted)
	defer v.Close()

	require.NoError(t, v.Refresh(context.Background()))
	fail.Store(true)
	bus.Flip(signal.TopicDocuments)
	require.Error(t, v.Refresh(context.Background()))
	require.Len(t, v.Items(), 1)
	require.True(t, v.Stale())
}

func TestDocumentViewCachesUntilFlip(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		docs := []model.Document{{UniqueID: "d1", Title: "intro", Content: "# intro", Status: model.StatusPublished}}
		_, _ = w.Write(listBody(t, docs))
	}))
	defer srv.Close()

	bus := signal.NewBus()
	store := cache.New(bus, 16, time.Minute)
	defer store.Close()
	v := NewDocumentView(context.Background(), api.New(srv.URL, ""), bus, store)
	defer v.Close()

	doc, err := v.Load(context.Background(), "d1")
	require.NoError(t, err)
	require.Contains(t, doc.HTMLContent, "<h1")
	_, err = v.Load(context.Background(), "d1")
	require.NoError(t, err)
	require.EqualValues(t, 1, hits.Load())

	bus.Flip(signal.TopicDocument)
	_, err = v.Load(context.Background(), "d1")
	require.NoError(t, err)
	require.EqualValues(t, 2, hits.Load())
}
