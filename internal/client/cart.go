package client

import "context"

var cartRoutes = struct {
	get, add, update, remove, clear, applyCoupon, removeCoupon, summary Route
}{
	get:          get("/cart"),
	add:          post("/cart/add"),
	update:       put("/cart/update/{itemId}"),
	remove:       del("/cart/remove/{itemId}"),
	clear:        del("/cart/clear"),
	applyCoupon:  post("/cart/coupon"),
	removeCoupon: del("/cart/coupon"),
	summary:      get("/cart/summary"),
}

type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CartAPI struct {
	c *Client
}

func (a *CartAPI) Get(ctx context.Context, out any) error {
	return a.c.call(ctx, cartRoutes.get, nil, nil, nil, out)
}

func (a *CartAPI) Add(ctx context.Context, productID string, quantity int, out any) error {
	return a.c.call(ctx, cartRoutes.add, nil, nil, CartItemRequest{ProductID: productID, Quantity: quantity}, out)
}

// UpdateQuantity sets the quantity of a cart line.
func (a *CartAPI) UpdateQuantity(ctx context.Context, itemID string, quantity int, out any) error {
	return a.c.call(ctx, cartRoutes.update, ids(itemID), nil, map[string]int{"quantity": quantity}, out)
}

func (a *CartAPI) Remove(ctx context.Context, itemID string, out any) error {
	return a.c.call(ctx, cartRoutes.remove, ids(itemID), nil, nil, out)
}

func (a *CartAPI) Clear(ctx context.Context, out any) error {
	return a.c.call(ctx, cartRoutes.clear, nil, nil, nil, out)
}

func (a *CartAPI) ApplyCoupon(ctx context.Context, code string, out any) error {
	return a.c.call(ctx, cartRoutes.applyCoupon, nil, nil, map[string]string{"code": code}, out)
}

func (a *CartAPI) RemoveCoupon(ctx context.Context, out any) error {
	return a.c.call(ctx, cartRoutes.removeCoupon, nil, nil, nil, out)
}

func (a *CartAPI) Summary(ctx context.Context, out any) error {
	return a.c.call(ctx, cartRoutes.summary, nil, nil, nil, out)
}
