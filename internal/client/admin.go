package client

import "context"

var adminRoutes = struct {
	dashboard, health, reports, financialReports, logs Route
	users, userStatus, userRole, deleteUser            Route
	coupons, createCoupon, updateCoupon, deleteCoupon  Route
	profile, updateProfile                             Route
}{
	dashboard:        get("/admin/dashboard/stats"),
	health:           get("/admin/system/health"),
	reports:          get("/admin/reports"),
	financialReports: get("/admin/reports/financial"),
	logs:             get("/admin/logs"),
	users:            get("/admin/users"),
	userStatus:       patch("/admin/users/{id}/status"),
	userRole:         patch("/admin/users/{id}/role"),
	deleteUser:       del("/admin/users/{id}"),
	coupons:          get("/admin/coupons"),
	createCoupon:     post("/admin/coupons"),
	updateCoupon:     put("/admin/coupons/{id}"),
	deleteCoupon:     del("/admin/coupons/{id}"),
	profile:          get("/admin/profile"),
	updateProfile:    put("/admin/profile"),
}

// AdminAPI is the admin console's surface. Every call requires an admin token.
type AdminAPI struct {
	c *Client
}

func (a *AdminAPI) DashboardStats(ctx context.Context, out any) error {
	return a.c.call(ctx, adminRoutes.dashboard, nil, nil, nil, out)
}

func (a *AdminAPI) SystemHealth(ctx context.Context, out any) error {
	return a.c.call(ctx, adminRoutes.health, nil, nil, nil, out)
}

// Reports takes params such as type, startDate and endDate.
func (a *AdminAPI) Reports(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, adminRoutes.reports, nil, params, nil, out)
}

func (a *AdminAPI) FinancialReports(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, adminRoutes.financialReports, nil, params, nil, out)
}

func (a *AdminAPI) Logs(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, adminRoutes.logs, nil, params, nil, out)
}

func (a *AdminAPI) Users(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, adminRoutes.users, nil, params, nil, out)
}

func (a *AdminAPI) UpdateUserStatus(ctx context.Context, id, status string, out any) error {
	return a.c.call(ctx, adminRoutes.userStatus, ids(id), nil, map[string]string{"status": status}, out)
}

func (a *AdminAPI) UpdateUserRole(ctx context.Context, id, role string, out any) error {
	return a.c.call(ctx, adminRoutes.userRole, ids(id), nil, map[string]string{"role": role}, out)
}

func (a *AdminAPI) DeleteUser(ctx context.Context, id string, out any) error {
	return a.c.call(ctx, adminRoutes.deleteUser, ids(id), nil, nil, out)
}

func (a *AdminAPI) Coupons(ctx context.Context, params Params, out any) error {
	return a.c.call(ctx, adminRoutes.coupons, nil, params, nil, out)
}

func (a *AdminAPI) CreateCoupon(ctx context.Context, data any, out any) error {
	return a.c.call(ctx, adminRoutes.createCoupon, nil, nil, data, out)
}

func (a *AdminAPI) UpdateCoupon(ctx context.Context, id string, data any, out any) error {
	return a.c.call(ctx, adminRoutes.updateCoupon, ids(id), nil, data, out)
}

func (a *AdminAPI) DeleteCoupon(ctx context.Context, id string, out any) error {
	return a.c.call(ctx, adminRoutes.deleteCoupon, ids(id), nil, nil, out)
}

func (a *AdminAPI) Profile(ctx context.Context, out any) error {
	return a.c.call(ctx, adminRoutes.profile, nil, nil, nil, out)
}

func (a *AdminAPI) UpdateProfile(ctx context.Context, data any, out any) error {
	return a.c.call(ctx, adminRoutes.updateProfile, nil, nil, data, out)
}
