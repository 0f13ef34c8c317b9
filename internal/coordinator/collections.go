package coordinator

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/breezeware/dynamodocs/internal/api"
	"github.com/breezeware/dynamodocs/internal/model"
	appErr "github.com/breezeware/dynamodocs/internal/pkg/errors"
	"github.com/breezeware/dynamodocs/internal/shell"
	"github.com/breezeware/dynamodocs/internal/signal"
)

func validateCollection(input api.CollectionInput) error {
	return validation.Errors{
		"name": validation.Validate(input.Name, validation.Required),
		"permission": validation.Validate(input.Permission,
			validation.Required,
			validation.In(model.PermissionReadWrite, model.PermissionRead, model.PermissionNoAccess)),
	}.Filter()
}

// CreateCollection validates the input locally and creates the collection.
func (c *Coordinator) CreateCollection(ctx context.Context, input api.CollectionInput) (*model.Collection, error) {
	if err := validateCollection(input); err != nil {
		c.notify.Error("Collection name and permission are required")
		return nil, appErr.ErrInvalid
	}
	created, err := c.api.CreateCollection(ctx, input)
	if err != nil {
		logutil.GetLogger(ctx).Error("create collection failed",
			zap.String("name", input.Name), zap.Error(err))
		c.notify.Error("Failed to create collection")
		return nil, err
	}
	c.notify.Success("Collection created successfully")
	c.bus.Flip(signal.TopicCollections)
	return created, nil
}

// EditCollection renames or re-permissions an existing collection.
func (c *Coordinator) EditCollection(ctx context.Context, input api.CollectionInput) error {
	if err := validateCollection(input); err != nil {
		c.notify.Error("Collection name and permission are required")
		return appErr.ErrInvalid
	}
	if err := c.api.EditCollection(ctx, input); err != nil {
		logutil.GetLogger(ctx).Error("edit collection failed",
			zap.String("collection_id", input.UniqueID), zap.Error(err))
		c.notify.Error("Failed to update collection")
		return err
	}
	c.notify.Success("Collection updated successfully")
	c.bus.Flip(signal.TopicCollections)
	return nil
}

// DeleteCollection removes a collection and everything in it. Document
// listings flip too, since the cascade empties them of the collection's
// documents.
func (c *Coordinator) DeleteCollection(ctx context.Context, id string) error {
	if err := c.api.DeleteCollection(ctx, id); err != nil {
		logutil.GetLogger(ctx).Error("delete collection failed",
			zap.String("collection_id", id), zap.Error(err))
		c.notify.Error("Failed to delete collection")
		return err
	}
	c.notify.Success("Collection deleted successfully")
	c.bus.Flip(signal.TopicCollections, signal.TopicDocuments)
	if c.nav.Current().CollectionID == id {
		c.navigateHomeDelayed()
	}
	return nil
}

var _ Navigator = (*shell.Router)(nil)
