// Package resource keeps a local, newest-first mirror of one remote table and
// reconciles it after every confirmed remote call.
package resource

import (
	"context"
	"slices"
	"sync"

	"docemania/shared/notify"

	"github.com/rs/zerolog/log"
)

// Store is the remote side of a resource. T is the stored record, C the fields
// accepted on create and U the partial fields accepted on update.
type Store[T, C, U any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, fields C) (T, error)
	Update(ctx context.Context, id string, fields U) (T, error)
	Delete(ctx context.Context, id string) error
}

// Messages are the notifications emitted for each outcome.
type Messages struct {
	ListFailed   notify.Notification
	Created      notify.Notification
	CreateFailed notify.Notification
	Updated      notify.Notification
	UpdateFailed notify.Notification
	Deleted      notify.Notification
	DeleteFailed notify.Notification
}

// Kind specialises a Client for one entity type.
type Kind[T, C, U any] struct {
	Name     string
	ID       func(T) string
	Messages Messages

	// PrepareCreate and PrepareUpdate run before the remote call. An error stops
	// the operation without contacting the store.
	PrepareCreate func(C) (C, error)
	PrepareUpdate func(U) (U, error)
}

type Client[T, C, U any] struct {
	store    Store[T, C, U]
	kind     Kind[T, C, U]
	notifier notify.Notifier

	mount sync.Once

	mu      sync.RWMutex
	items   []T
	loading bool
}

func New[T, C, U any](store Store[T, C, U], kind Kind[T, C, U], notifier notify.Notifier) *Client[T, C, U] {
	return &Client[T, C, U]{
		store:    store,
		kind:     kind,
		notifier: notifier,
		items:    []T{},
		loading:  true,
	}
}

// Mount performs the initial List. Later calls do nothing.
func (c *Client[T, C, U]) Mount(ctx context.Context) {
	c.mount.Do(func() {
		c.List(ctx)
	})
}

// List replaces the local state with the remote rows. On failure the previous
// state is kept. Loading is false afterwards either way.
func (c *Client[T, C, U]) List(ctx context.Context) bool {
	items, err := c.store.List(ctx)

	c.mu.Lock()
	if err == nil {
		c.items = slices.Clone(items)
		if c.items == nil {
			c.items = []T{}
		}
	}
	c.loading = false
	c.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Str("resource", c.kind.Name).Msg("failed to list")
		c.notifier.Notify(c.kind.Messages.ListFailed)

		return false
	}

	return true
}

func (c *Client[T, C, U]) Create(ctx context.Context, fields C) (record T, err error) {
	if c.kind.PrepareCreate != nil {
		if fields, err = c.kind.PrepareCreate(fields); err != nil {
			return record, c.fail("create", c.kind.Messages.CreateFailed, err)
		}
	}

	created, err := c.store.Create(ctx, fields)
	if err != nil {
		return record, c.fail("create", c.kind.Messages.CreateFailed, err)
	}

	c.mu.Lock()
	c.items = slices.Insert(c.items, 0, created)
	c.mu.Unlock()

	c.notifier.Notify(c.kind.Messages.Created)

	return created, nil
}

// Update replaces the matching entry in place. Entries not present locally are
// left alone.
func (c *Client[T, C, U]) Update(ctx context.Context, id string, fields U) (record T, err error) {
	if c.kind.PrepareUpdate != nil {
		if fields, err = c.kind.PrepareUpdate(fields); err != nil {
			return record, c.fail("update", c.kind.Messages.UpdateFailed, err)
		}
	}

	updated, err := c.store.Update(ctx, id, fields)
	if err != nil {
		return record, c.fail("update", c.kind.Messages.UpdateFailed, err)
	}

	c.mu.Lock()
	for i := range c.items {
		if c.kind.ID(c.items[i]) == id {
			c.items[i] = updated
		}
	}
	c.mu.Unlock()

	c.notifier.Notify(c.kind.Messages.Updated)

	return updated, nil
}

// Delete removes the entry once the store confirms. Errors are reported only
// through the notifier.
func (c *Client[T, C, U]) Delete(ctx context.Context, id string) bool {
	if err := c.store.Delete(ctx, id); err != nil {
		_ = c.fail("delete", c.kind.Messages.DeleteFailed, err)

		return false
	}

	c.mu.Lock()
	c.items = slices.DeleteFunc(c.items, func(item T) bool {
		return c.kind.ID(item) == id
	})
	c.mu.Unlock()

	c.notifier.Notify(c.kind.Messages.Deleted)

	return true
}

func (c *Client[T, C, U]) fail(op string, message notify.Notification, err error) error {
	log.Error().Err(err).Str("resource", c.kind.Name).Str("operation", op).Msg("resource operation failed")
	c.notifier.Notify(message)

	return err
}

// Items returns a copy of the local state, newest first.
func (c *Client[T, C, U]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.items)
}

func (c *Client[T, C, U]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.loading
}

func (c *Client[T, C, U]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}
