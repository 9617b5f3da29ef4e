package upstream

import (
	"context"
	"net/http"
	"strconv"
)

// Resource is one REST collection of the inventory API, e.g. /api/proveedores.
type Resource[T any] struct {
	client *Client
	path   string
}

// NewResource binds a collection path to client.
func NewResource[T any](client *Client, path string) *Resource[T] {
	return &Resource[T]{client: client, path: path}
}

// Path returns the collection path.
func (r *Resource[T]) Path() string {
	return r.path
}

// List fetches the whole collection in server order.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.client.doJSON(ctx, r.path, http.MethodGet, r.path, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Create posts a new record and returns what the API echoed back.
func (r *Resource[T]) Create(ctx context.Context, record T) (T, error) {
	var created T
	err := r.client.doJSON(ctx, r.path, http.MethodPost, r.path, record, &created)
	return created, err
}

// Update replaces the record stored under id.
func (r *Resource[T]) Update(ctx context.Context, id int64, record T) (T, error) {
	var updated T
	err := r.client.doJSON(ctx, r.path, http.MethodPut, r.itemPath(id), record, &updated)
	return updated, err
}

// Delete removes the record stored under id.
func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.client.doJSON(ctx, r.path, http.MethodDelete, r.itemPath(id), nil, nil)
}

func (r *Resource[T]) itemPath(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}
