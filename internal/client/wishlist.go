package client

import "context"

var wishlistRoutes = struct {
	get, add, remove, clear, moveToCart Route
}{
	get:        get("/wishlist"),
	add:        post("/wishlist/add"),
	remove:     del("/wishlist/remove/{productId}"),
	clear:      del("/wishlist/clear"),
	moveToCart: post("/wishlist/move-to-cart/{productId}"),
}

type WishlistAPI struct {
	c *Client
}

func (a *WishlistAPI) Get(ctx context.Context, out any) error {
	return a.c.call(ctx, wishlistRoutes.get, nil, nil, nil, out)
}

func (a *WishlistAPI) Add(ctx context.Context, productID string, out any) error {
	return a.c.call(ctx, wishlistRoutes.add, nil, nil, map[string]string{"productId": productID}, out)
}

func (a *WishlistAPI) Remove(ctx context.Context, productID string, out any) error {
	return a.c.call(ctx, wishlistRoutes.remove, ids(productID), nil, nil, out)
}

func (a *WishlistAPI) Clear(ctx context.Context, out any) error {
	return a.c.call(ctx, wishlistRoutes.clear, nil, nil, nil, out)
}

func (a *WishlistAPI) MoveToCart(ctx context.Context, productID string, out any) error {
	return a.c.call(ctx, wishlistRoutes.moveToCart, ids(productID), nil, struct{}{}, out)
}
