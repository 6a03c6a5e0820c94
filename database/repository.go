package database

import (
	"context"
)

type Repository[T IModel] interface {
	// GetConnector returns the connector used by this repository.
	// This is useful for accessing the underlying database connection.
	GetConnector() Connector

	// Find retrieves all documents matching the filter.
	// If no documents match, it returns an empty slice.
	Find(ctx context.Context, filter *FilterBuilder) ([]T, error)

	// FindOne retrieves a single document matching the filter.
	// If no documents match, it returns (nil, nil).
	FindOne(ctx context.Context, filter *FilterBuilder) (*T, error)

	// FindById retrieves a single document by its ID, optionally further
	// restricted by the filter.
	FindById(ctx context.Context, id any, filter *FilterBuilder) (*T, error)

	// Insert inserts a new document into the collection and returns the
	// inserted document's ID.
	Insert(ctx context.Context, doc T) (any, error)

	// Create inserts a new document into the collection and returns the created document.
	Create(ctx context.Context, doc T) (*T, error)

	// UpdateOne updates a single document matching the filter.
	UpdateOne(ctx context.Context, filter *FilterBuilder, update any) error

	// UpdateById updates a single document by its ID.
	UpdateById(ctx context.Context, id any, update any) error

	// FindOneAndUpdate finds a single document matching the filter, updates it
	// and returns the document after the update. If no documents match, it
	// returns (nil, nil).
	FindOneAndUpdate(ctx context.Context, filter *FilterBuilder, update any) (*T, error)

	// Count returns the number of documents matching the filter.
	Count(ctx context.Context, filter *FilterBuilder) (int64, error)

	// Exists checks if a document with the given ID exists in the collection.
	Exists(ctx context.Context, id any) (bool, error)

	// DeleteOne deletes a single document matching the filter. If no documents
	// match, it returns a not-found error.
	DeleteOne(ctx context.Context, filter *FilterBuilder) error

	// DeleteById deletes a single document by its ID.
	DeleteById(ctx context.Context, id any) error

	// DeleteMany deletes all documents matching the filter and returns the
	// number of deleted documents.
	DeleteMany(ctx context.Context, filter *FilterBuilder) (int64, error)
}
