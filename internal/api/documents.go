package api

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"

	"github.com/breezeware/dynamodocs/internal/model"
)

type DocumentCreateInput struct {
	CollectionID string `json:"collectionId"`
	ParentID     string `json:"parentId,omitempty"`
}

// ForkCheckResult is the fork-check verdict: Forked true means the caller
// owns a working copy and may edit it; false means somebody else already
// holds the fork, identified by the document's created-user fields.
type ForkCheckResult struct {
	Forked   bool           `json:"forked"`
	Document model.Document `json:"documentDto"`
}

// Documents lists documents carrying the given status, optionally filtered
// by a search string.
func (c *Client) Documents(ctx context.Context, status model.Status, search string) ([]model.Document, Page, error) {
	query := url.Values{}
	query.Set("status", string(status))
	query.Set("search", search)
	query.Set("paged", "false")
	var docs []model.Document
	page, err := c.doList(ctx, "/documents", query, &docs)
	if err != nil {
		return nil, Page{}, err
	}
	return docs, page, nil
}

// Document fetches one document with its nested children.
func (c *Client) Document(ctx context.Context, id string) (*model.Document, error) {
	query := url.Values{}
	query.Set("status", "")
	query.Set("document-id", id)
	query.Set("paged", "false")
	var docs []model.Document
	if _, err := c.doList(ctx, "/documents", query, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, &Error{StatusCode: http.StatusNotFound}
	}
	return &docs[0], nil
}

// CreateDocument creates an empty draft under a collection, optionally
// nested below a parent document.
func (c *Client) CreateDocument(ctx context.Context, input DocumentCreateInput) (*model.Document, error) {
	var created model.Document
	if err := c.do(ctx, http.MethodPost, "/documents", nil, input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateDocument saves a working copy without changing its status.
func (c *Client) UpdateDocument(ctx context.Context, doc *model.Document) error {
	return c.do(ctx, http.MethodPut, "/documents", nil, doc, nil)
}

func (c *Client) PublishDocument(ctx context.Context, doc *model.Document) error {
	return c.do(ctx, http.MethodPut, "/documents/publish", nil, doc, nil)
}

func (c *Client) ArchiveDocument(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/documents/"+id+"/archive", nil, nil, nil)
}

// DeleteDocument soft-deletes by default; permanent removes the document
// from the trash for good.
func (c *Client) DeleteDocument(ctx context.Context, id string, permanent bool) error {
	var query url.Values
	if permanent {
		query = url.Values{}
		query.Set("permanent", "true")
	}
	return c.do(ctx, http.MethodPut, "/documents/"+id+"/delete", query, nil, nil)
}

// ForkCheck asks the server for the working copy of a published or forked
// document. Calling it again for a fork the same user already holds
// returns the same fork.
func (c *Client) ForkCheck(ctx context.Context, id string) (*ForkCheckResult, error) {
	var result ForkCheckResult
	if err := c.do(ctx, http.MethodPut, "/documents/"+id+"/fork-check", nil, struct{}{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UploadDocument imports a markdown file into a collection, nested under
// parentID when given. Title length and file emptiness are validated
// server-side; use Classify on the returned error.
func (c *Client) UploadDocument(ctx context.Context, collectionID, parentID, filename string, content io.Reader) (*model.Document, error) {
	query := url.Values{}
	query.Set("parent-document-id", parentID)
	var created model.Document
	if err := c.upload(ctx, "/collections/"+collectionID+"/documents/upload", query, filename, content, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

var filenamePattern = regexp.MustCompile(`filename=(.*\.md)`)

// DownloadDocument fetches the raw markdown. The filename comes from the
// Content-Disposition header, defaulting to readme.md when absent.
func (c *Client) DownloadDocument(ctx context.Context, id string) ([]byte, string, error) {
	resp, err := c.send(ctx, http.MethodGet, "/documents/"+id+"/download", nil, nil, "")
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	filename := "readme.md"
	if match := filenamePattern.FindStringSubmatch(resp.Header.Get("Content-Disposition")); match != nil {
		filename = match[1]
	}
	return content, filename, nil
}
