package client

import (
	"context"
	"net/http"
	"net/url"
)

// Resource is the generic per-collection client: one parametrized factory
// instead of a hand-written fetch/create/update/delete module per resource.
type Resource[T any] struct {
	c    *Client
	path string
}

func NewResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{c: c, path: "/" + path}
}

func toQuery(filters map[string]string) url.Values {
	if len(filters) == 0 {
		return nil
	}
	query := url.Values{}
	for key, value := range filters {
		query.Set(key, value)
	}
	return query
}

func (r *Resource[T]) List(ctx context.Context, filters map[string]string) ([]T, error) {
	var out []T
	if err := r.c.do(ctx, http.MethodGet, r.path, toQuery(filters), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodGet, r.path+"/"+id, nil, nil, &out)
	return out, err
}

func (r *Resource[T]) Create(ctx context.Context, data T) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPost, r.path, nil, data, &out)
	return out, err
}

// Update merges partial into the stored record server-side (top-level keys
// only).
func (r *Resource[T]) Update(ctx context.Context, id string, partial map[string]any) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPut, r.path+"/"+id, nil, partial, &out)
	return out, err
}

func (r *Resource[T]) Patch(ctx context.Context, id string, partial map[string]any) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPatch, r.path+"/"+id, nil, partial, &out)
	return out, err
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, r.path+"/"+id, nil, nil, nil)
}
