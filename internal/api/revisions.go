package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/breezeware/dynamodocs/internal/model"
)

// Revisions lists the edit history of a document, optionally filtered by
// an author-name substring and an exact calendar date. The endpoint
// returns the bare array, newest first by version is not guaranteed.
func (c *Client) Revisions(ctx context.Context, documentID, username string, date *time.Time) ([]model.Revision, error) {
	query := url.Values{}
	query.Set("revision-id", "")
	query.Set("username", username)
	if date != nil {
		query.Set("revision-date", date.UTC().Format(time.RFC3339))
	} else {
		query.Set("revision-date", "")
	}
	var revisions []model.Revision
	if err := c.do(ctx, http.MethodGet, "/documents/"+documentID+"/revisions", query, nil, &revisions); err != nil {
		return nil, err
	}
	return revisions, nil
}

// Revision fetches one historical snapshot for read-only rendering.
func (c *Client) Revision(ctx context.Context, documentID, revisionID string) (*model.Revision, error) {
	query := url.Values{}
	query.Set("revision-id", revisionID)
	var revision model.Revision
	if err := c.do(ctx, http.MethodGet, "/documents/"+documentID+"/revisions", query, nil, &revision); err != nil {
		return nil, err
	}
	return &revision, nil
}
