package coordinator

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/breezeware/dynamodocs/internal/api"
	"github.com/breezeware/dynamodocs/internal/model"
	appErr "github.com/breezeware/dynamodocs/internal/pkg/errors"
	"github.com/breezeware/dynamodocs/internal/shell"
	"github.com/breezeware/dynamodocs/internal/signal"
)

// CreateDocument creates an empty draft and moves the shell to its editing
// screen.
func (c *Coordinator) CreateDocument(ctx context.Context, collectionID, parentID string) (*model.Document, error) {
	created, err := c.api.CreateDocument(ctx, api.DocumentCreateInput{
		CollectionID: collectionID,
		ParentID:     parentID,
	})
	if err != nil {
		logutil.GetLogger(ctx).Error("create document failed",
			zap.String("collection_id", collectionID), zap.Error(err))
		c.notify.Error("Something Went Wrong.")
		return nil, err
	}
	c.nav.Navigate(shell.CreatePath(created.UniqueID))
	return created, nil
}

// EditDocument opens a document for editing. Published and forked documents
// go through the fork check first: editing proceeds only on the caller's
// own working copy, and a copy held by somebody else blocks with a
// notification naming the editor.
func (c *Coordinator) EditDocument(ctx context.Context, doc *model.Document) (*model.Document, error) {
	switch doc.Status {
	case model.StatusDrafted:
		c.nav.Navigate(shell.EditPath(doc.UniqueID))
		return doc, nil
	case model.StatusPublished, model.StatusForked:
		result, err := c.api.ForkCheck(ctx, doc.UniqueID)
		if err != nil {
			logutil.GetLogger(ctx).Error("fork check failed",
				zap.String("document_id", doc.UniqueID), zap.Error(err))
			c.notify.Error("Something Went Wrong.")
			return nil, err
		}
		if !result.Forked {
			editor := result.Document.Editor()
			if editor == "" {
				editor = "Someone"
			}
			c.notify.Error(editor + " is already editing this document")
			return nil, appErr.ErrEditLocked
		}
		c.nav.Navigate(shell.EditPath(result.Document.UniqueID))
		fork := result.Document
		return &fork, nil
	default:
		return nil, appErr.ErrInvalid
	}
}

// SaveDraft persists the working copy explicitly. Any queued autosave is
// discarded so a stale keystroke snapshot cannot land after this write.
func (c *Coordinator) SaveDraft(ctx context.Context, doc *model.Document) error {
	c.cancelAutosave()
	if err := c.api.UpdateDocument(ctx, doc); err != nil {
		logutil.GetLogger(ctx).Error("save draft failed",
			zap.String("document_id", doc.UniqueID), zap.Error(err))
		c.notify.Error("Failed to draft document")
		return err
	}
	c.notify.Success("Document saved to draft successfully")
	c.bus.Flip(signal.TopicDocuments, signal.TopicDocument)
	c.navigateBackDelayed()
	return nil
}

// PublishDocument validates locally that a title exists, then publishes.
// A missing title never reaches the server.
func (c *Coordinator) PublishDocument(ctx context.Context, doc *model.Document) error {
	if err := validation.Validate(doc.Title, validation.Required); err != nil {
		c.notify.Error("Title is required to publish a document")
		return appErr.ErrTitleRequired
	}
	c.cancelAutosave()
	if err := c.api.PublishDocument(ctx, doc); err != nil {
		logutil.GetLogger(ctx).Error("publish document failed",
			zap.String("document_id", doc.UniqueID), zap.Error(err))
		c.notify.Error("Failed to publish document")
		return err
	}
	c.notify.Success("Document published successfully")
	c.bus.Flip(signal.TopicDocuments, signal.TopicDocument)
	c.navigateBackDelayed()
	return nil
}

// QueueAutosave schedules a background save of the given snapshot after the
// debounce window. Each call supersedes the previous pending save, so only
// the latest snapshot within the window is written.
func (c *Coordinator) QueueAutosave(doc model.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.autosave != nil {
		c.autosave.Stop()
	}
	snapshot := doc
	c.autosave = time.AfterFunc(c.autosaveDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.api.UpdateDocument(ctx, &snapshot); err != nil {
			logutil.GetLogger(ctx).Error("autosave failed",
				zap.String("document_id", snapshot.UniqueID), zap.Error(err))
			c.notify.Error("Failed to update document")
		}
	})
}

func (c *Coordinator) cancelAutosave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.autosave != nil {
		c.autosave.Stop()
		c.autosave = nil
	}
}

// ArchiveDocument moves a document to the archive. When the archived
// document is the one currently open, the shell returns home after the
// banner had its moment.
func (c *Coordinator) ArchiveDocument(ctx context.Context, id string) error {
	if err := c.api.ArchiveDocument(ctx, id); err != nil {
		logutil.GetLogger(ctx).Error("archive document failed",
			zap.String("document_id", id), zap.Error(err))
		c.notify.Error("Failed to archive document")
		return err
	}
	c.notify.Success("Document archived successfully")
	c.bus.Flip(signal.TopicDocuments, signal.TopicDocument)
	c.leaveIfOpen(id)
	return nil
}

// DeleteDocument soft-deletes into the trash.
func (c *Coordinator) DeleteDocument(ctx context.Context, id string) error {
	if err := c.api.DeleteDocument(ctx, id, false); err != nil {
		logutil.GetLogger(ctx).Error("delete document failed",
			zap.String("document_id", id), zap.Error(err))
		c.notify.Error("Failed to delete document")
		return err
	}
	c.notify.Success("Document deleted successfully")
	c.bus.Flip(signal.TopicDocuments, signal.TopicDocument)
	c.leaveIfOpen(id)
	return nil
}

// PermanentDeleteDocument removes a trashed document for good.
func (c *Coordinator) PermanentDeleteDocument(ctx context.Context, id string) error {
	if err := c.api.DeleteDocument(ctx, id, true); err != nil {
		logutil.GetLogger(ctx).Error("permanent delete failed",
			zap.String("document_id", id), zap.Error(err))
		c.notify.Error("Failed to delete document")
		return err
	}
	c.notify.Success("Document deleted permanently")
	c.bus.Flip(signal.TopicDocuments, signal.TopicDocument)
	c.leaveIfOpen(id)
	return nil
}

// UploadDocument imports a markdown file into a collection. Validation
// failures come back from the server as detail text; the classifier turns
// the two known ones into their exact user-facing messages.
func (c *Coordinator) UploadDocument(ctx context.Context, collectionID, parentID, filename string, content io.Reader) (*model.Document, error) {
	created, err := c.api.UploadDocument(ctx, collectionID, parentID, filename, content)
	if err != nil {
		logutil.GetLogger(ctx).Error("upload document failed",
			zap.String("collection_id", collectionID), zap.String("filename", filename), zap.Error(err))
		switch classified := api.Classify(err); {
		case errors.Is(classified, appErr.ErrTitleTooLong):
			c.notify.Error("Uploaded file Title must be less than 100 characters")
		case errors.Is(classified, appErr.ErrEmptyFile):
			c.notify.Error("File is Empty")
		default:
			c.notify.Error("Failed to upload document")
		}
		return nil, err
	}
	c.notify.Success("Document uploaded successfully")
	c.bus.Flip(signal.TopicDocuments, signal.TopicDocument, signal.TopicCollections)
	return created, nil
}

// DownloadDocument fetches the raw markdown and writes it into dir under
// the server-provided filename.
func (c *Coordinator) DownloadDocument(ctx context.Context, id, dir string) (string, error) {
	content, filename, err := c.api.DownloadDocument(ctx, id)
	if err != nil {
		logutil.GetLogger(ctx).Error("download document failed",
			zap.String("document_id", id), zap.Error(err))
		c.notify.Error("Failed to download Document")
		return "", err
	}
	// The filename comes from a response header; strip any path components
	// so it cannot land outside dir.
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, content, 0644); err != nil {
		c.notify.Error("Failed to download Document")
		return "", err
	}
	return path, nil
}

// leaveIfOpen navigates home when the mutated document is the one the
// shell currently shows, after letting the banner render.
func (c *Coordinator) leaveIfOpen(id string) {
	current := c.nav.Current()
	if current.DocumentID != id {
		return
	}
	c.navigateHomeDelayed()
}
