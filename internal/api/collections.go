package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/breezeware/dynamodocs/internal/model"
)

type CollectionInput struct {
	UniqueID    string           `json:"uniqueId,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Permission  model.Permission `json:"permission"`
}

// Collections lists every collection with its nested document tree,
// optionally filtered by a search string.
func (c *Client) Collections(ctx context.Context, search string) ([]model.Collection, Page, error) {
	query := url.Values{}
	query.Set("search", search)
	var collections []model.Collection
	page, err := c.doList(ctx, "/collections", query, &collections)
	if err != nil {
		return nil, Page{}, err
	}
	return collections, page, nil
}

// Collection fetches a single collection scoped view.
func (c *Client) Collection(ctx context.Context, id, search string) (*model.Collection, error) {
	query := url.Values{}
	query.Set("collection-id", id)
	query.Set("search", search)
	var collections []model.Collection
	if _, err := c.doList(ctx, "/collections", query, &collections); err != nil {
		return nil, err
	}
	if len(collections) == 0 {
		return nil, &Error{StatusCode: http.StatusNotFound}
	}
	return &collections[0], nil
}

// CollectionRefs returns the short uniqueId/name listing used by pickers.
func (c *Client) CollectionRefs(ctx context.Context) ([]model.CollectionRef, error) {
	query := url.Values{}
	query.Set("fields", "uniqueId,name")
	var refs []model.CollectionRef
	if _, err := c.doList(ctx, "/collections", query, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

func (c *Client) CreateCollection(ctx context.Context, input CollectionInput) (*model.Collection, error) {
	var created model.Collection
	if err := c.do(ctx, http.MethodPost, "/collections", nil, input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) EditCollection(ctx context.Context, input CollectionInput) error {
	return c.do(ctx, http.MethodPut, "/collections", nil, input, nil)
}

// DeleteCollection removes a collection; the server cascades to the
// contained documents.
func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/collections/"+id, nil, nil, nil)
}
