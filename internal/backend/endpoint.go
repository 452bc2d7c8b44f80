package backend

import (
	"context"
	"net/http"
)

// Endpoint is the CRUD surface of one backend resource such as "brand".
type Endpoint[T any] struct {
	client   *Client
	resource string
}

// NewEndpoint binds a resource path to a client.
func NewEndpoint[T any](client *Client, resource string) Endpoint[T] {
	return Endpoint[T]{client: client, resource: resource}
}

// Resource returns the resource path segment.
func (e Endpoint[T]) Resource() string { return e.resource }

// Client returns the underlying client.
func (e Endpoint[T]) Client() *Client { return e.client }

// List loads every entity. An empty body yields an empty list.
func (e Endpoint[T]) List(ctx context.Context) ([]T, error) {
	return ListAt[T](ctx, e.client, e.resource, "list", e.resource)
}

// Get loads one entity.
func (e Endpoint[T]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	err := e.client.Do(ctx, Call{Resource: e.resource, Op: "get", Path: []string{e.resource, ID(id)}}, &out)
	return out, err
}

// Create submits a new entity and returns what the backend echoed back.
func (e Endpoint[T]) Create(ctx context.Context, body Body) (T, error) {
	var out T
	err := e.client.Do(ctx, Call{
		Resource: e.resource, Op: "create", Method: http.MethodPost,
		Path: []string{e.resource}, Body: body, AllowEmpty: true,
	}, &out)
	return out, err
}

// Update replaces an entity.
func (e Endpoint[T]) Update(ctx context.Context, id int64, body Body) (T, error) {
	var out T
	err := e.client.Do(ctx, Call{
		Resource: e.resource, Op: "update", Method: http.MethodPut,
		Path: []string{e.resource, ID(id)}, Body: body, AllowEmpty: true,
	}, &out)
	return out, err
}

// Delete removes an entity.
func (e Endpoint[T]) Delete(ctx context.Context, id int64) error {
	return e.client.Do(ctx, Call{
		Resource: e.resource, Op: "delete", Method: http.MethodDelete,
		Path: []string{e.resource, ID(id)}, AllowEmpty: true,
	}, nil)
}

// Image loads the stored image of an entity.
func (e Endpoint[T]) Image(ctx context.Context, id int64) (Blob, error) {
	return e.client.Fetch(ctx, Call{Resource: e.resource, Op: "image", Path: []string{e.resource, "image", ID(id)}})
}

// ListAt loads a JSON array from an arbitrary path. An empty body yields an
// empty list.
func ListAt[S any](ctx context.Context, client *Client, resource, op string, path ...string) ([]S, error) {
	var out []S
	if err := client.Do(ctx, Call{Resource: resource, Op: op, Path: path, AllowEmpty: true}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []S{}
	}
	return out, nil
}

// SideDrop loads the compact list used by detail page side panels.
func SideDrop[S any](ctx context.Context, client *Client, resource string) ([]S, error) {
	return ListAt[S](ctx, client, resource, "side_drop", resource, "sideDrop")
}
