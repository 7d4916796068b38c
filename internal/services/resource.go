// Package services exposes one typed service per platform entity on top of
// the API client.
package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/MacJediWizard/edudesk/internal/apiclient"
	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/MacJediWizard/edudesk/internal/query"
)

// Resource implements the CRUD template shared by every entity service.
// T is the entity, C and U the create and update bodies, F the list filters.
type Resource[T, C, U, F any] struct {
	client *apiclient.Client
	path   string
}

// NewResource binds a resource to path, e.g. "/students".
func NewResource[T, C, U, F any](client *apiclient.Client, path string) *Resource[T, C, U, F] {
	return &Resource[T, C, U, F]{client: client, path: "/" + strings.Trim(path, "/")}
}

// Path returns the collection path.
func (r *Resource[T, C, U, F]) Path() string {
	return r.path
}

func (r *Resource[T, C, U, F]) itemPath(id string, segments ...string) string {
	p := r.path + "/" + url.PathEscape(id)
	for _, s := range segments {
		p += "/" + s
	}
	return p
}

// List fetches one page. Defined filter fields are encoded in declaration
// order, followed by extra.
func (r *Resource[T, C, U, F]) List(ctx context.Context, filters F, extra ...query.Param) *envelope.Response[envelope.Page[T]] {
	params := query.FromStruct(filters)
	params = append(params, extra...)
	return apiclient.Get[envelope.Page[T]](ctx, r.client, r.path, params)
}

// Get fetches one record.
func (r *Resource[T, C, U, F]) Get(ctx context.Context, id string) *envelope.Response[T] {
	return apiclient.Get[T](ctx, r.client, r.itemPath(id), nil)
}

// Create posts a new record.
func (r *Resource[T, C, U, F]) Create(ctx context.Context, body C) *envelope.Response[T] {
	return apiclient.Post[T](ctx, r.client, r.path, body)
}

// Update patches the fields set in body.
func (r *Resource[T, C, U, F]) Update(ctx context.Context, id string, body U) *envelope.Response[T] {
	return apiclient.Patch[T](ctx, r.client, r.itemPath(id), body)
}

// SoftDelete marks a record deleted; Restore brings it back.
func (r *Resource[T, C, U, F]) SoftDelete(ctx context.Context, id string) *envelope.Response[envelope.Message] {
	return apiclient.Delete[envelope.Message](ctx, r.client, r.itemPath(id))
}

// Restore undoes a soft delete.
func (r *Resource[T, C, U, F]) Restore(ctx context.Context, id string) *envelope.Response[T] {
	return apiclient.Post[T](ctx, r.client, r.itemPath(id, "restore"), nil)
}

// ForceDelete removes a record permanently.
func (r *Resource[T, C, U, F]) ForceDelete(ctx context.Context, id string) *envelope.Response[envelope.Message] {
	return apiclient.Delete[envelope.Message](ctx, r.client, r.itemPath(id, "force"))
}

// Action posts to a fixed sub-path of a record, e.g. /cohorts/:id/start.
// body may be nil.
func (r *Resource[T, C, U, F]) Action(ctx context.Context, id, action string, body any) *envelope.Response[T] {
	return apiclient.Post[T](ctx, r.client, r.itemPath(id, action), body)
}
