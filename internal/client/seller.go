package client

import "context"

var sellerRoutes = struct {
	products, createProduct, updateProduct, deleteProduct Route
	orders, orderStatus, orderTracking                    Route
	dashboard, approvalStatus, analytics                  Route
	customers, customerOrders, settings, updateSettings   Route
	coupons, createCoupon, updateCoupon, deleteCoupon     Route
}{
	products:       get("/seller/products"),
	createProduct:  post("/seller/products"),
	updateProduct:  put("/seller/products/{id}"),
	deleteProduct:  del("/seller/products/{id}"),
	orders:         get("/seller/orders"),
	orderStatus:    patch("/seller/orders/{id}/status"),
	orderTracking:  put("/seller/orders/{id}/tracking"),
	dashboard:      get("/seller/dashboard"),
	approvalStatus: get("/seller/approval-status"),
	analytics:      get("/seller/analytics"),
	customers:      get("/seller/customers"),
	customerOrders: get("/seller/customers/{id}/orders"),
	settings:       get("/seller/settings"),
	updateSettings: put("/seller/settings"),
	coupons:        get("/seller/coupons"),
	createCoupon:   post("/seller/coupons"),
	updateCoupon:   put("/seller/coupons/{id}"),
	deleteCoupon:   del("/seller/coupons/{id}"),
}

// TrackingRequest attaches shipment tracking to an order.
type TrackingRequest struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"trackingNumber"`
}

// SellerAPI is the seller dashboard's surface. Every call requires a seller token.
type SellerAPI struct {
	c *Client
}

func (a *SellerAPI) Products(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, sellerRoutes.products, nil, params, nil, out)
}

func (a *SellerAPI) CreateProduct(ctx context.Context, data any, out any) error {
	return a.c.call(ctx, sellerRoutes.createProduct, nil, nil, data, out)
}

func (a *SellerAPI) UpdateProduct(ctx context.Context, id string, data any, out any) error {
	return a.c.call(ctx, sellerRoutes.updateProduct, ids(id), nil, data, out)
}

func (a *SellerAPI) DeleteProduct(ctx context.Context, id string, out any) error {
	return a.c.call(ctx, sellerRoutes.deleteProduct, ids(id), nil, nil, out)
}

func (a *SellerAPI) Orders(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, sellerRoutes.orders, nil, params, nil, out)
}

func (a *SellerAPI) UpdateOrderStatus(ctx context.Context, id, status string, out any) error {
	return a.c.call(ctx, sellerRoutes.orderStatus, ids(id), nil, map[string]string{"status": status}, out)
}

func (a *SellerAPI) AddTracking(ctx context.Context, id string, req TrackingRequest, out any) error {
	return a.c.call(ctx, sellerRoutes.orderTracking, ids(id), nil, req, out)
}

func (a *SellerAPI) Dashboard(ctx context.Context, out any) error {
	return a.c.call(ctx, sellerRoutes.dashboard, nil, nil, nil, out)
}

// ApprovalStatus reports whether the caller's seller application has been approved.
func (a *SellerAPI) ApprovalStatus(ctx context.Context, out any) error {
	return a.c.call(ctx, sellerRoutes.approvalStatus, nil, nil, nil, out)
}

// Analytics takes a period param (e.g. "7d", "30d").
func (a *SellerAPI) Analytics(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, sellerRoutes.analytics, nil, params, nil, out)
}

func (a *SellerAPI) Customers(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, sellerRoutes.customers, nil, params, nil, out)
}

func (a *SellerAPI) CustomerOrders(ctx context.Context, customerID string, params Params, out any) error {
	return a.c.call(ctx, sellerRoutes.customerOrders, ids(customerID), params, nil, out)
}

func (a *SellerAPI) Settings(ctx context.Context, out any) error {
	return a.c.call(ctx, sellerRoutes.settings, nil, nil, nil, out)
}

func (a *SellerAPI) UpdateSettings(ctx context.Context, data any, out any) error {
	return a.c.call(ctx, sellerRoutes.updateSettings, nil, nil, data, out)
}

func (a *SellerAPI) Coupons(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, sellerRoutes.coupons, nil, params, nil, out)
}

func (a *SellerAPI) CreateCoupon(ctx context.Context, data any, out any) error {
	return a.c.call(ctx, sellerRoutes.createCoupon, nil, nil, data, out)
}

func (a *SellerAPI) UpdateCoupon(ctx context.Context, id string, data any, out any) error {
	return a.c.call(ctx, sellerRoutes.updateCoupon, ids(id), nil, data, out)
}

func (a *SellerAPI) DeleteCoupon(ctx context.Context, id string, out any) error {
	return a.c.call(ctx, sellerRoutes.deleteCoupon, ids(id), nil, nil, out)
}
