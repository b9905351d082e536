package client

import "context"

var productRoutes = struct {
	list, get, create, update, remove, search, featured, reviews, addReview Route
}{
	list:      get("/products"),
	get:       get("/products/{id}"),
	create:    post("/products"),
	update:    put("/products/{id}"),
	remove:    del("/products/{id}"),
	search:    get("/products/search"),
	featured:  get("/products/featured"),
	reviews:   get("/products/{id}/reviews"),
	addReview: post("/products/{id}/reviews"),
}

type ProductAPI struct {
	c *Client
}

// List returns a page of products. Typical params: category, page, limit, sort, minPrice, maxPrice.
func (a *ProductAPI) List(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, productRoutes.list, nil, params, nil, out)
}

func (a *ProductAPI) Get(ctx context.Context, id string, out any) error {
	return a.c.call(ctx, productRoutes.get, ids(id), nil, nil, out)
}

func (a *ProductAPI) Create(ctx context.Context, data any, out any) error {
	return a.c.call(ctx, productRoutes.create, nil, nil, data, out)
}

func (a *ProductAPI) Update(ctx context.Context, id string, data any, out any) error {
	return a.c.call(ctx, productRoutes.update, ids(id), nil, data, out)
}

func (a *ProductAPI) Delete(ctx context.Context, id string, out any) error {
	return a.c.call(ctx, productRoutes.remove, ids(id), nil, nil, out)
}

// Search runs a free text search. query is sent as the q parameter alongside params.
func (a *ProductAPI) Search(ctx context.Context, query string, params Params, out any) error {
	merged := Params{"q": query}
	for k, v := range params {
		merged[k] = v
	}
	return a.c.call(ctx, productRoutes.search, nil, merged, nil, out)
}

func (a *ProductAPI) Featured(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, productRoutes.featured, nil, params, nil, out)
}

func (a *ProductAPI) Reviews(ctx context.Context, id string, params Params, out any) error {
	return a.c.call(ctx, productRoutes.reviews, ids(id), params, nil, out)
}

func (a *ProductAPI) AddReview(ctx context.Context, id string, data any, out any) error {
	return a.c.call(ctx, productRoutes.addReview, ids(id), nil, data, out)
}
