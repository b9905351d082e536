package client

import "context"

var orderRoutes = struct {
	create, mine, get, updateStatus, cancel, all, seller, stats, tracking Route
}{
	create:       post("/orders"),
	mine:         get("/orders/my-orders"),
	get:          get("/orders/{id}"),
	updateStatus: patch("/orders/{id}/status"),
	cancel:       patch("/orders/{id}/cancel"),
	all:          get("/orders"),
	seller:       get("/orders/seller"),
	stats:        get("/orders/stats"),
	tracking:     get("/orders/{id}/tracking"),
}

type OrderAPI struct {
	c *Client
}

func (a *OrderAPI) Create(ctx context.Context, data any, out any) error {
	return a.c.call(ctx, orderRoutes.create, nil, nil, data, out)
}

// Mine lists the caller's own orders.
func (a *OrderAPI) Mine(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, orderRoutes.mine, nil, params, nil, out)
}

func (a *OrderAPI) Get(ctx context.Context, id string, out any) error {
	return a.c.call(ctx, orderRoutes.get, ids(id), nil, nil, out)
}

func (a *OrderAPI) UpdateStatus(ctx context.Context, id, status string, out any) error {
	return a.c.call(ctx, orderRoutes.updateStatus, ids(id), nil, map[string]string{"status": status}, out)
}

// Cancel cancels an order; reason may be empty.
func (a *OrderAPI) Cancel(ctx context.Context, id, reason string, out any) error {
	return a.c.call(ctx, orderRoutes.cancel, ids(id), nil, map[string]string{"reason": reason}, out)
}

// All lists every order (admin only).
func (a *OrderAPI) All(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, orderRoutes.all, nil, params, nil, out)
}

// Seller lists orders containing the calling seller's products.
func (a *OrderAPI) Seller(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, orderRoutes.seller, nil, params, nil, out)
}

func (a *OrderAPI) Stats(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, orderRoutes.stats, nil, params, nil, out)
}

func (a *OrderAPI) Tracking(ctx context.Context, id string, out any) error {
	return a.c.call(ctx, orderRoutes.tracking, ids(id), nil, nil, out)
}
