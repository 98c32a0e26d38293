package jsonstore

import (
	"context"
	"log/slog"
	"time"
)

// collection binds a record type to its document and gives repositories the
// filter, find and mutate primitives they share.
type collection[T any] struct {
	store  *Store
	name   Collection
	prefix string
	idOf   func(T) string
	logger *slog.Logger
	now    func() time.Time
}

func newCollection[T any](store *Store, name Collection, prefix string, idOf func(T) string) collection[T] {
	return collection[T]{
		store:  store,
		name:   name,
		prefix: prefix,
		idOf:   idOf,
		logger: store.logger.With(slog.String("collection", string(name))),
		now:    time.Now,
	}
}

func (c collection[T]) all(ctx context.Context) ([]T, error) {
	return ReadCollection[T](ctx, c.store, c.name)
}

func (c collection[T]) filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	items, err := c.all(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			matched = append(matched, item)
		}
	}

	return matched, nil
}

// find returns the first item accepted by match.
func (c collection[T]) find(ctx context.Context, match func(T) bool) (T, bool, error) {
	var zero T

	items, err := c.all(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, item := range items {
		if match(item) {
			return item, true, nil
		}
	}

	return zero, false, nil
}

func (c collection[T]) byID(ctx context.Context, id string) (T, bool, error) {
	return c.find(ctx, func(item T) bool { return c.idOf(item) == id })
}

func (c collection[T]) mutate(ctx context.Context, fn func([]T) ([]T, error)) error {
	return Mutate(ctx, c.store, c.name, fn)
}

// nextID computes the prefixed id for a record appended to items.
func (c collection[T]) nextID(items []T) string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = c.idOf(item)
	}

	next, skipped := NextID(ids)
	if len(skipped) > 0 {
		c.logger.Warn("Ignoring ids without a numeric part", slog.Any("ids", skipped))
	}

	return c.prefix + next
}

// updateByID applies fn to the record with the given id and persists the
// collection. It returns notFound when no record matches.
func (c collection[T]) updateByID(ctx context.Context, id string, notFound error, fn func(T) error) (T, error) {
	var updated T
	err := c.mutate(ctx, func(items []T) ([]T, error) {
		for _, item := range items {
			if c.idOf(item) != id {
				continue
			}
			if err := fn(item); err != nil {
				return nil, err
			}
			updated = item

			return items, nil
		}

		return nil, notFound
	})

	return updated, err
}
