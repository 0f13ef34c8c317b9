package coordinator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/breezeware/dynamodocs/internal/api"
	"github.com/breezeware/dynamodocs/internal/model"
	appErr "github.com/breezeware/dynamodocs/internal/pkg/errors"
	"github.com/breezeware/dynamodocs/internal/shell"
	"github.com/breezeware/dynamodocs/internal/signal"
)

func newTestCoordinator(t *testing.T, handler http.Handler) (*Coordinator, *signal.Bus, *shell.Router, *Banner) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	bus := signal.NewBus()
	router := shell.NewRouter()
	banner := NewBanner()
	c := New(api.New(srv.URL, "test-token"), bus, router, banner,
		WithDelays(0, 30*time.Millisecond))
	t.Cleanup(c.Close)
	return c, bus, router, banner
}

func TestPublishRequiresTitleLocally(t *testing.T) {
	c, bus, _, banner := newTestCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	before := bus.Version(signal.TopicDocuments)

	err := c.PublishDocument(context.Background(), &model.Document{UniqueID: "d1", Content: "# hi"})
	require.ErrorIs(t, err, appErr.ErrTitleRequired)

	message, isError, open := banner.Current()
	require.True(t, open)
	require.True(t, isError)
	require.Equal(t, "Title is required to publish a document", message)
	require.Equal(t, before, bus.Version(signal.TopicDocuments))
}

func TestArchiveFlipsAndLeavesOpenDocument(t *testing.T) {
	c, bus, router, banner := newTestCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/documents/d1/archive", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	router.Navigate(shell.DocumentPath("d1"))
	before := bus.Version(signal.TopicDocuments)

	require.NoError(t, c.ArchiveDocument(context.Background(), "d1"))

	message, isError, _ := banner.Current()
	require.False(t, isError)
	require.Equal(t, "Document archived successfully", message)
	require.NotEqual(t, before, bus.Version(signal.TopicDocuments))
	require.Equal(t, shell.ScreenHome, router.Current().Screen)
}

func TestArchiveStaysPutWhenAnotherDocumentOpen(t *testing.T) {
	c, _, router, _ := newTestCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	router.Navigate(shell.DocumentPath("d2"))

	require.NoError(t, c.ArchiveDocument(context.Background(), "d1"))
	require.Equal(t, "d2", router.Current().DocumentID)
}

func TestEditBlockedByForeignFork(t *testing.T) {
	c, _, router, banner := newTestCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/documents/d1/fork-check", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"forked":false,"documentDto":{"uniqueId":"f1","createdUserFirstName":"Jane","createdUserLastName":"Doe"}}`))
	}))
	router.Navigate(shell.DocumentPath("d1"))

	_, err := c.EditDocument(context.Background(), &model.Document{UniqueID: "d1", Status: model.StatusPublished})
	require.ErrorIs(t, err, appErr.ErrEditLocked)

	message, isError, _ := banner.Current()
	require.True(t, isError)
	require.Equal(t, "Jane Doe is already editing this document", message)
	require.Equal(t, "d1", router.Current().DocumentID)
}

func TestEditFollowsOwnFork(t *testing.T) {
	c, _, router, _ := newTestCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"forked":true,"documentDto":{"uniqueId":"f1","status":"forked"}}`))
	}))

	fork, err := c.EditDocument(context.Background(), &model.Document{UniqueID: "d1", Status: model.StatusPublished})
	require.NoError(t, err)
	require.Equal(t, "f1", fork.UniqueID)
	require.Equal(t, shell.ScreenEdit, router.Current().Screen)
	require.Equal(t, "f1", router.Current().DocumentID)
}

func TestEditDraftSkipsForkCheck(t *testing.T) {
	c, _, router, _ := newTestCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
	}))

	_, err := c.EditDocument(context.Background(), &model.Document{UniqueID: "d1", Status: model.StatusDrafted})
	require.NoError(t, err)
	require.Equal(t, shell.ScreenEdit, router.Current().Screen)
}

func TestAutosaveCoalescesKeystrokes(t *testing.T) {
	var saves atomic.Int32
	c, _, _, _ := newTestCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/documents", r.URL.Path)
		saves.Add(1)
		w.WriteHeader(http.StatusOK)
	}))

	doc := model.Document{UniqueID: "d1", Status: model.StatusDrafted}
	for i := 0; i < 5; i++ {
		doc.Content += "x"
		c.QueueAutosave(doc)
		time.Sleep(5 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return saves.Load() == 1 },
		time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	require.EqualValues(t, 1, saves.Load())
}

func TestExplicitSaveCancelsAutosave(t *testing.T) {
	var saves atomic.Int32
	c, _, _, _ := newTestCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		saves.Add(1)
		w.WriteHeader(http.StatusOK)
	}))

	doc := model.Document{UniqueID: "d1", Title: "notes", Status: model.StatusDrafted}
	c.QueueAutosave(doc)
	require.NoError(t, c.SaveDraft(context.Background(), &doc))
	time.Sleep(80 * time.Millisecond)
	require.EqualValues(t, 1, saves.Load())
}

func TestFailedDeleteFlipsNothing(t *testing.T) {
	c, bus, _, banner := newTestCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"details":["boom"]}`))
	}))
	before := bus.Version(signal.TopicDocuments)

	require.Error(t, c.DeleteDocument(context.Background(), "d1"))
	require.Equal(t, before, bus.Version(signal.TopicDocuments))

	message, isError, _ := banner.Current()
	require.True(t, isError)
	require.Equal(t, "Failed to delete document", message)
}

func TestDownloadStripsPathFromFilename(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", "attachment; filename=../escape.md")
		_, _ = w.Write([]byte("# hi"))
	}))
	root := t.TempDir()
	dir := filepath.Join(root, "inner")
	require.NoError(t, os.Mkdir(dir, 0755))

	path, err := c.DownloadDocument(context.Background(), "d1", dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "escape.md"), path)
	_, err = os.Stat(filepath.Join(root, "escape.md"))
	require.True(t, os.IsNotExist(err))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "# hi", string(content))
}

func TestUploadErrorMessages(t *testing.T) {
	detail := "Uploaded file Title must be less than 100 characters"
	c, _, _, banner := newTestCoordinator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"details":["` + detail + `"]}`))
	}))

	_, err := c.UploadDocument(context.Background(), "c1", "", "notes.md", strings.NewReader("# hi"))
	require.Error(t, err)
	message, isError, _ := banner.Current()
	require.True(t, isError)
	require.Equal(t, detail, message)
}
