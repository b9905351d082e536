package client

import "context"

var userRoutes = struct {
	list, get, create, update, remove                         Route
	sellers, applySeller, sellerApplications, approve, reject Route
}{
	list:               get("/users"),
	get:                get("/users/{id}"),
	create:             post("/users"),
	update:             put("/users/{id}"),
	remove:             del("/users/{id}"),
	sellers:            get("/users/sellers"),
	applySeller:        post("/users/seller-application"),
	sellerApplications: get("/users/seller-applications"),
	approve:            patch("/users/{id}/approve"),
	reject:             patch("/users/{id}/reject"),
}

// UserAPI manages user accounts and seller applications.
type UserAPI struct {
	c *Client
}

func (a *UserAPI) List(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, userRoutes.list, nil, params, nil, out)
}

func (a *UserAPI) Get(ctx context.Context, id string, out any) error {
	return a.c.call(ctx, userRoutes.get, ids(id), nil, nil, out)
}

func (a *UserAPI) Create(ctx context.Context, data any, out any) error {
	return a.c.call(ctx, userRoutes.create, nil, nil, data, out)
}

func (a *UserAPI) Update(ctx context.Context, id string, data any, out any) error {
	return a.c.call(ctx, userRoutes.update, ids(id), nil, data, out)
}

func (a *UserAPI) Delete(ctx context.Context, id string, out any) error {
	return a.c.call(ctx, userRoutes.remove, ids(id), nil, nil, out)
}

// Sellers lists seller accounts, filtered by params (e.g. status, page).
func (a *UserAPI) Sellers(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, userRoutes.sellers, nil, params, nil, out)
}

// ApplyForSeller submits the caller's application to become a seller.
func (a *UserAPI) ApplyForSeller(ctx context.Context, data any, out any) error {
	return a.c.call(ctx, userRoutes.applySeller, nil, nil, data, out)
}

func (a *UserAPI) SellerApplications(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, userRoutes.sellerApplications, nil, params, nil, out)
}

func (a *UserAPI) ApproveSeller(ctx context.Context, id string, out any) error {
	return a.c.call(ctx, userRoutes.approve, ids(id), nil, struct{}{}, out)
}

// RejectSeller rejects an application; data usually carries a reason.
func (a *UserAPI) RejectSeller(ctx context.Context, id string, data any, out any) error {
	return a.c.call(ctx, userRoutes.reject, ids(id), nil, data, out)
}
