package shared

import (
	"context"
	"sort"
	"strings"

	"github.com/synexis/synexis-admin/internal/backend"
	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/platform/cache"
)

// Store is the cached gateway to one backend resource. Reads of lists and
// dropdowns go through the versioned cache; every write bumps the scopes it
// affects.
type Store[T any] struct {
	endpoint backend.Endpoint[T]
	cache    *cache.Versioned
	affects  []string
	listPath []string
}

// NewStore builds a store for resource. affects names the other scopes whose
// cached data embeds this resource (a renamed brand shows up in material
// lists, for example).
func NewStore[T any](client *backend.Client, c *cache.Versioned, resource string, affects ...string) *Store[T] {
	return &Store[T]{
		endpoint: backend.NewEndpoint[T](client, resource),
		cache:    c,
		affects:  append([]string{resource}, affects...),
	}
}

// ListFrom makes List read from a different path of the resource, such as the
// category table view.
func (s *Store[T]) ListFrom(path ...string) *Store[T] {
	s.listPath = append([]string{s.Resource()}, path...)
	return s
}

// Resource returns the backend resource name.
func (s *Store[T]) Resource() string { return s.endpoint.Resource() }

// List returns every record.
func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	err := s.cache.Load(ctx, s.Resource(), &out, func(ctx context.Context) (any, error) {
		if len(s.listPath) > 0 {
			return backend.ListAt[T](ctx, s.Client(), s.Resource(), "list", s.listPath...)
		}
		return s.endpoint.List(ctx)
	}, "list")
	if out == nil && err == nil {
		out = []T{}
	}
	return out, err
}

// Get returns one record. Single records are never cached so edit forms
// always show the stored version.
func (s *Store[T]) Get(ctx context.Context, id int64) (T, error) {
	if err := CheckID(id); err != nil {
		var zero T
		return zero, err
	}
	return s.endpoint.Get(ctx, id)
}

// Create posts body and invalidates the cached reads.
func (s *Store[T]) Create(ctx context.Context, body backend.Body) (T, error) {
	created, err := s.endpoint.Create(ctx, body)
	if err != nil {
		return created, err
	}
	s.invalidate(ctx)
	return created, nil
}

// Update puts body and invalidates the cached reads.
func (s *Store[T]) Update(ctx context.Context, id int64, body backend.Body) (T, error) {
	if err := CheckID(id); err != nil {
		var zero T
		return zero, err
	}
	updated, err := s.endpoint.Update(ctx, id, body)
	if err != nil {
		return updated, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// Delete removes a record and invalidates the cached reads.
func (s *Store[T]) Delete(ctx context.Context, id int64) error {
	if err := CheckID(id); err != nil {
		return err
	}
	if err := s.endpoint.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Image proxies the stored image of a record.
func (s *Store[T]) Image(ctx context.Context, id int64) (backend.Blob, error) {
	if err := CheckID(id); err != nil {
		return backend.Blob{}, err
	}
	return s.endpoint.Image(ctx, id)
}

// Options loads a dropdown through the cache. key distinguishes the dropdowns
// of one resource and parts carry their parameters.
func (s *Store[T]) Options(ctx context.Context, key string, load func(context.Context) ([]cascade.Option, error), parts ...string) ([]cascade.Option, error) {
	var out []cascade.Option
	err := s.cache.Load(ctx, s.Resource(), &out, func(ctx context.Context) (any, error) {
		return load(ctx)
	}, append([]string{key}, parts...)...)
	if out == nil && err == nil {
		out = []cascade.Option{}
	}
	return out, err
}

// Client exposes the backend client for resource-specific endpoints.
func (s *Store[T]) Client() *backend.Client { return s.endpoint.Client() }

// Cache exposes the versioned cache.
func (s *Store[T]) Cache() *cache.Versioned { return s.cache }

// invalidate bumps every affected scope. A cache failure is not a write
// failure; stale entries age out with the TTL.
func (s *Store[T]) invalidate(ctx context.Context) {
	_ = s.cache.Bump(ctx, s.affects...)
}

// SortOptions orders options by label, case-insensitively.
func SortOptions(options []cascade.Option) []cascade.Option {
	sort.SliceStable(options, func(i, j int) bool {
		return strings.ToLower(options[i].Label) < strings.ToLower(options[j].Label)
	})
	return options
}

// ToOptions maps backend dropdown rows onto options, dropping rows without an
// id.
func ToOptions[S any](rows []S, pick func(S) (int64, string)) []cascade.Option {
	out := make([]cascade.Option, 0, len(rows))
	for _, row := range rows {
		id, label := pick(row)
		if id <= 0 {
			continue
		}
		out = append(out, cascade.Option{ID: id, Label: label})
	}
	return out
}
