package client

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var categoryRoutes = struct {
	list, get, bySlug, create, update, remove, stats Route
}{
	list:   get("/categories"),
	get:    get("/categories/{id}"),
	bySlug: get("/categories/slug/{slug}"),
	create: post("/categories"),
	update: put("/categories/{id}"),
	remove: del("/categories/{id}"),
	stats:  get("/categories/stats"),
}

type CategoryAPI struct {
	c *Client
}

func (a *CategoryAPI) List(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, categoryRoutes.list, nil, params, nil, out)
}

func (a *CategoryAPI) Get(ctx context.Context, id string, out any) error {
	return a.c.call(ctx, categoryRoutes.get, ids(id), nil, nil, out)
}

// BySlug looks a category up by its slug. The slug is NFC-normalized and lower-cased first
// so that visually identical slugs map to the same path.
func (a *CategoryAPI) BySlug(ctx context.Context, slug string, out any) error {
	return a.c.call(ctx, categoryRoutes.bySlug, ids(NormalizeSlug(slug)), nil, nil, out)
}

func (a *CategoryAPI) Create(ctx context.Context, data any, out any) error {
	return a.c.call(ctx, categoryRoutes.create, nil, nil, data, out)
}

func (a *CategoryAPI) Update(ctx context.Context, id string, data any, out any) error {
	return a.c.call(ctx, categoryRoutes.update, ids(id), nil, data, out)
}

func (a *CategoryAPI) Delete(ctx context.Context, id string, out any) error {
	return a.c.call(ctx, categoryRoutes.remove, ids(id), nil, nil, out)
}

// Stats returns product counts per category.
func (a *CategoryAPI) Stats(ctx context.Context, out any) error {
	return a.c.call(ctx, categoryRoutes.stats, nil, nil, nil, out)
}

// NormalizeSlug trims, NFC-normalizes and lower-cases a category slug.
func NormalizeSlug(slug string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(slug)))
}
