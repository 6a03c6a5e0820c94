package services

import (
	"context"

	"github.com/taskhub/taskhub-rest/database"
)

// fakeRepository implements database.Repository with pluggable behavior per
// method. Methods without behavior return zero values.
type fakeRepository[T database.IModel] struct {
	findFn             func(ctx context.Context, filter *database.FilterBuilder) ([]T, error)
	findOneFn          func(ctx context.Context, filter *database.FilterBuilder) (*T, error)
	findByIdFn         func(ctx context.Context, id any, filter *database.FilterBuilder) (*T, error)
	createFn           func(ctx context.Context, doc T) (*T, error)
	findOneAndUpdateFn func(ctx context.Context, filter *database.FilterBuilder, update any) (*T, error)
	countFn            func(ctx context.Context, filter *database.FilterBuilder) (int64, error)
	existsFn           func(ctx context.Context, id any) (bool, error)
	deleteOneFn        func(ctx context.Context, filter *database.FilterBuilder) error
	deleteByIdFn       func(ctx context.Context, id any) error
	deleteManyFn       func(ctx context.Context, filter *database.FilterBuilder) (int64, error)
}

func (r *fakeRepository[T]) GetConnector() database.Connector {
	return nil
}

func (r *fakeRepository[T]) Find(ctx context.Context, filter *database.FilterBuilder) ([]T, error) {
	if r.findFn == nil {
		return nil, nil
	}
	return r.findFn(ctx, filter)
}

func (r *fakeRepository[T]) FindOne(ctx context.Context, filter *database.FilterBuilder) (*T, error) {
	if r.findOneFn == nil {
		return nil, nil
	}
	return r.findOneFn(ctx, filter)
}

func (r *fakeRepository[T]) FindById(ctx context.Context, id any, filter *database.FilterBuilder) (*T, error) {
	if r.findByIdFn == nil {
		return nil, nil
	}
	return r.findByIdFn(ctx, id, filter)
}

func (r *fakeRepository[T]) Insert(ctx context.Context, doc T) (any, error) {
	return nil, nil
}

func (r *fakeRepository[T]) Create(ctx context.Context, doc T) (*T, error) {
	if r.createFn == nil {
		return &doc, nil
	}
	return r.createFn(ctx, doc)
}

func (r *fakeRepository[T]) UpdateOne(ctx context.Context, filter *database.FilterBuilder, update any) error {
	return nil
}

func (r *fakeRepository[T]) UpdateById(ctx context.Context, id any, update any) error {
	return nil
}

func (r *fakeRepository[T]) FindOneAndUpdate(ctx context.Context, filter *database.FilterBuilder, update any) (*T, error) {
	if r.findOneAndUpdateFn == nil {
		return nil, nil
	}
	return r.findOneAndUpdateFn(ctx, filter, update)
}

func (r *fakeRepository[T]) Count(ctx context.Context, filter *database.FilterBuilder) (int64, error) {
	if r.countFn == nil {
		return 0, nil
	}
	return r.countFn(ctx, filter)
}

func (r *fakeRepository[T]) Exists(ctx context.Context, id any) (bool, error) {
	if r.existsFn == nil {
		return false, nil
	}
	return r.existsFn(ctx, id)
}

func (r *fakeRepository[T]) DeleteOne(ctx context.Context, filter *database.FilterBuilder) error {
	if r.deleteOneFn == nil {
		return nil
	}
	return r.deleteOneFn(ctx, filter)
}

func (r *fakeRepository[T]) DeleteById(ctx context.Context, id any) error {
	if r.deleteByIdFn == nil {
		return nil
	}
	return r.deleteByIdFn(ctx, id)
}

func (r *fakeRepository[T]) DeleteMany(ctx context.Context, filter *database.FilterBuilder) (int64, error) {
	if r.deleteManyFn == nil {
		return 0, nil
	}
	return r.deleteManyFn(ctx, filter)
}
