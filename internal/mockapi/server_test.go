package mockapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/storefront-dev/storefront/internal/client"
	"github.com/storefront-dev/storefront/internal/credentials"
	"github.com/storefront-dev/storefront/internal/session"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	server  *Server
	url     string
	vault   *credentials.Vault
	client  *client.Client
	session *session.Manager
}

// setupTestEnv starts a seeded backend. prepare runs before the first request is served.
func setupTestEnv(t *testing.T, prepare ...func(*Server)) *testEnv {
	t.Helper()
	srv, err := NewServer(Config{
		Environment: "test",
		Secret:      "test-secret",
		BcryptCost:  bcrypt.MinCost,
	}, nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	for _, fn := range prepare {
		fn(srv)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	vault := credentials.NewVault(credentials.NewMemoryStore(), credentials.NewMemoryStore())
	c := client.NewClient(ts.URL+"/api", client.WithCredentials(vault))
	return &testEnv{
		server:  srv,
		url:     ts.URL,
		vault:   vault,
		client:  c,
		session: session.NewManager(c, vault, nil),
	}
}

func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	res, err := e.session.Login(context.Background(), email, DemoPassword, false)
	if err != nil {
		t.Fatalf("Login(%s) error = %v", email, err)
	}
	return res.Token
}

func assertClientError(t *testing.T, err error, wantStatus int, wantCode, wantMessage string) {
	t.Helper()
	var ce *client.ClientError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *client.ClientError, got %T: %v", err, err)
	}
	if ce.StatusCode != wantStatus {
		t.Errorf("status = %d, want %d", ce.StatusCode, wantStatus)
	}
	if wantCode != "" && ce.Code != wantCode {
		t.Errorf("error_code = %q, want %q", ce.Code, wantCode)
	}
	if wantMessage != "" && ce.Error() != wantMessage {
		t.Errorf("message = %q, want %q", ce.Error(), wantMessage)
	}
}

func TestLoginAndProfile(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.login(t, DemoCustomerEmail)

	var profile User
	if err := env.session.Profile(ctx, &profile); err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if profile.Email != DemoCustomerEmail || profile.Role != "customer" {
		t.Errorf("profile = %+v", profile)
	}

	var updated User
	if err := env.client.Auth.UpdateProfile(ctx, map[string]string{"name": "Renamed"}, &updated); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("name = %q, want Renamed", updated.Name)
	}
}

func TestLoginFailures(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		email       string
		password    string
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{name: "wrong password", email: DemoCustomerEmail, password: "nope", wantStatus: http.StatusUnauthorized, wantCode: "authentication_error", wantMessage: "Invalid credentials"},
		{name: "unknown user", email: "ghost@example.com", password: DemoPassword, wantStatus: http.StatusUnauthorized, wantCode: "authentication_error", wantMessage: "Invalid credentials"},
		{name: "malformed email", email: "not-an-email", password: DemoPassword, wantStatus: http.StatusBadRequest, wantCode: "invalid_request", wantMessage: "email must be a valid email address"},
		{name: "missing password", email: DemoCustomerEmail, password: "", wantStatus: http.StatusBadRequest, wantCode: "invalid_request", wantMessage: "password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.session.Login(ctx, tt.email, tt.password, false)
			assertClientError(t, err, tt.wantStatus, tt.wantCode, tt.wantMessage)
		})
	}
}

func TestRegister(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	var res AuthResponse
	err := env.client.Auth.Register(ctx, RegisterRequest{Name: "New", Email: "New@Example.com", Password: "longenough"}, &res)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if res.Token == "" || res.User.Email != "new@example.com" || res.User.Role != "customer" {
		t.Errorf("register response = %+v", res)
	}

	err = env.client.Auth.Register(ctx, RegisterRequest{Name: "Again", Email: "new@example.com", Password: "longenough"}, nil)
	assertClientError(t, err, http.StatusConflict, "user_already_exists", "User already exists")

	err = env.client.Auth.Register(ctx, RegisterRequest{Name: "Short", Email: "short@example.com", Password: "x"}, nil)
	assertClientError(t, err, http.StatusBadRequest, "invalid_request", "password must be at least 8")

	err = env.client.Auth.Register(ctx, `{"name":`, nil)
	assertClientError(t, err, http.StatusBadRequest, "malformed_body", "")
}

func TestListProducts(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		params    client.Params
		wantCount int
		wantTotal int
		wantLimit int
	}{
		{name: "all", params: nil, wantCount: 7, wantTotal: 7, wantLimit: defaultPageLimit},
		{name: "category with undefined page", params: client.Params{"category": "grocery", "page": nil}, wantCount: 3, wantTotal: 3, wantLimit: defaultPageLimit},
		{name: "second page", params: client.Params{"limit": 5, "page": 2}, wantCount: 2, wantTotal: 7, wantLimit: 5},
		{name: "page past the end", params: client.Params{"limit": 5, "page": 9}, wantCount: 0, wantTotal: 7, wantLimit: 5},
		{name: "limit capped", params: client.Params{"limit": 1000}, wantCount: 7, wantTotal: 7, wantLimit: maxPageLimit},
		{name: "unknown category", params: client.Params{"category": "toys"}, wantCount: 0, wantTotal: 0, wantLimit: defaultPageLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var page ProductPage
			if err := env.client.Products.List(ctx, tt.params, &page); err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(page.Products) != tt.wantCount || page.Total != tt.wantTotal || page.Limit != tt.wantLimit {
				t.Errorf("got %d products, total %d, limit %d; want %d, %d, %d",
					len(page.Products), page.Total, page.Limit, tt.wantCount, tt.wantTotal, tt.wantLimit)
			}
		})
	}

	err := env.client.Products.List(ctx, client.Params{"page": "zero"}, nil)
	assertClientError(t, err, http.StatusBadRequest, "invalid_url_param", "page must be a positive integer")
}

func TestSearchAndGetProduct(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	var page ProductPage
	if err := env.client.Products.Search(ctx, "TEA", nil, &page); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(page.Products) != 1 || page.Products[0].Name != "Green Tea" {
		t.Fatalf("search results = %+v", page.Products)
	}

	var p Product
	if err := env.client.Products.Get(ctx, page.Products[0].ID, &p); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Name != "Green Tea" || p.Category != "grocery" {
		t.Errorf("product = %+v", p)
	}

	err := env.client.Products.Get(ctx, "missing", nil)
	assertClientError(t, err, http.StatusNotFound, "resource_not_found", "Product not found")

	err = env.client.Products.Search(ctx, "", nil, nil)
	assertClientError(t, err, http.StatusBadRequest, "invalid_request", "Search query is required")
}

func TestProductManagementRequiresSellerRole(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	req := CreateProductRequest{Name: "Kettle", Price: 25, Category: "electronics", Stock: 3}

	err := env.client.Products.Create(ctx, req, nil)
	assertClientError(t, err, http.StatusUnauthorized, "authorization_error", "authorization header is missing")

	env.login(t, DemoCustomerEmail)
	err = env.client.Products.Create(ctx, req, nil)
	assertClientError(t, err, http.StatusForbidden, "forbidden", "")

	env.login(t, DemoSellerEmail)
	var created Product
	if err := env.client.Products.Create(ctx, req, &created); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" || created.SellerID == "" {
		t.Errorf("created product = %+v", created)
	}

	err = env.client.Products.Create(ctx, CreateProductRequest{Name: "Bad", Price: 1, Category: "nope"}, nil)
	assertClientError(t, err, http.StatusBadRequest, "invalid_request", "Unknown category")

	if err := env.client.Products.Delete(ctx, created.ID, nil); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	err = env.client.Products.Get(ctx, created.ID, nil)
	assertClientError(t, err, http.StatusNotFound, "", "")
}

func TestCategories(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	var categories []Category
	if err := env.client.Categories.List(ctx, nil, &categories); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(categories) != 3 {
		t.Errorf("got %d categories, want 3", len(categories))
	}

	var c Category
	if err := env.client.Categories.BySlug(ctx, " Fresh-Produce ", &c); err != nil {
		t.Fatalf("BySlug() error = %v", err)
	}
	if c.Name != "Fresh Produce" {
		t.Errorf("category = %+v", c)
	}

	err := env.client.Categories.BySlug(ctx, "toys", nil)
	assertClientError(t, err, http.StatusNotFound, "resource_not_found", "Category not found")
}

func TestCartAndOrders(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	env.login(t, DemoCustomerEmail)

	var page ProductPage
	if err := env.client.Products.List(ctx, client.Params{"category": "fresh-produce"}, &page); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	bananas := page.Products[0]

	err := env.client.Orders.Create(ctx, CreateOrderRequest{ShippingAddress: "1 High St"}, nil)
	assertClientError(t, err, http.StatusBadRequest, "invalid_request", "Cart is empty")

	var cart Cart
	if err := env.client.Cart.Add(ctx, bananas.ID, 2, &cart); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := env.client.Cart.Add(ctx, bananas.ID, 1, &cart); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 {
		t.Fatalf("cart = %+v, want one line of 3", cart)
	}

	err = env.client.Cart.Add(ctx, "missing", 1, nil)
	assertClientError(t, err, http.StatusNotFound, "resource_not_found", "Product not found")

	var order Order
	if err := env.client.Orders.Create(ctx, CreateOrderRequest{ShippingAddress: "1 High St"}, &order); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if order.Status != "pending" || len(order.Items) != 1 || order.Total != bananas.Price*3 {
		t.Errorf("order = %+v", order)
	}

	if err := env.client.Cart.Get(ctx, &cart); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("cart not emptied by order: %+v", cart)
	}

	var mine OrderList
	if err := env.client.Orders.Mine(ctx, nil, &mine); err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	if len(mine.Orders) != 1 || mine.Orders[0].ID != order.ID {
		t.Errorf("my orders = %+v", mine.Orders)
	}

	var fetched Order
	if err := env.client.Orders.Get(ctx, order.ID, &fetched); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	// another customer cannot see the order
	env.login(t, DemoSellerEmail)
	err = env.client.Orders.Get(ctx, order.ID, nil)
	assertClientError(t, err, http.StatusNotFound, "resource_not_found", "Order not found")
}

func TestCartRemoveAndClear(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	env.login(t, DemoCustomerEmail)

	var page ProductPage
	_ = env.client.Products.List(ctx, nil, &page)

	var cart Cart
	_ = env.client.Cart.Add(ctx, page.Products[0].ID, 1, &cart)
	_ = env.client.Cart.Add(ctx, page.Products[1].ID, 1, &cart)
	if len(cart.Items) != 2 {
		t.Fatalf("cart has %d lines, want 2", len(cart.Items))
	}

	if err := env.client.Cart.Remove(ctx, cart.Items[0].ID, &cart); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if len(cart.Items) != 1 {
		t.Errorf("cart has %d lines after remove, want 1", len(cart.Items))
	}

	err := env.client.Cart.Remove(ctx, "missing", nil)
	assertClientError(t, err, http.StatusNotFound, "resource_not_found", "Not found")

	if err := env.client.Cart.Clear(ctx, &cart); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if len(cart.Items) != 0 || cart.Total != 0 {
		t.Errorf("cart after clear = %+v", cart)
	}
}

func TestWishlist(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	env.login(t, DemoCustomerEmail)

	err := env.client.Wishlist.Remove(ctx, "42", nil)
	assertClientError(t, err, http.StatusNotFound, "resource_not_found", "Not found")

	var page ProductPage
	_ = env.client.Products.List(ctx, client.Params{"limit": 1}, &page)
	id := page.Products[0].ID

	var wl Wishlist
	if err := env.client.Wishlist.Add(ctx, id, &wl); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if len(wl.Products) != 1 {
		t.Errorf("wishlist = %+v", wl)
	}

	err = env.client.Wishlist.Add(ctx, id, nil)
	assertClientError(t, err, http.StatusConflict, "resource_already_exists", "Product already in wishlist")

	if err := env.client.Wishlist.Remove(ctx, id, &wl); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if len(wl.Products) != 0 {
		t.Errorf("wishlist after remove = %+v", wl)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	token := env.login(t, DemoCustomerEmail)

	if err := env.session.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if got, _ := env.vault.Token(ctx); got != "" {
		t.Errorf("token still stored after logout")
	}

	stale := client.NewClient(env.url+"/api", client.WithCredentials(credentials.Static(token)))
	err := stale.Cart.Get(ctx, nil)
	assertClientError(t, err, http.StatusUnauthorized, "token_invalid", "Invalid token")
}

func TestRefreshRotatesToken(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	old := env.login(t, DemoCustomerEmail)

	res, err := env.session.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if res.Token == old {
		t.Error("refresh returned the same token")
	}
	if err := env.client.Cart.Get(ctx, nil); err != nil {
		t.Errorf("refreshed token rejected: %v", err)
	}

	stale := client.NewClient(env.url+"/api", client.WithCredentials(credentials.Static(old)))
	err = stale.Cart.Get(ctx, nil)
	assertClientError(t, err, http.StatusUnauthorized, "token_invalid", "")
}

func TestExpiredToken(t *testing.T) {
	var mu sync.Mutex
	now := time.Now()
	env := setupTestEnv(t, func(s *Server) {
		s.store.now = func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}
	})
	ctx := context.Background()

	env.login(t, DemoCustomerEmail)

	mu.Lock()
	now = now.Add(DefaultTokenTTL + time.Minute)
	mu.Unlock()

	err := env.client.Cart.Get(ctx, nil)
	assertClientError(t, err, http.StatusUnauthorized, "access_token_expired", "Session expired, please log in again")
}

func TestMalformedToken(t *testing.T) {
	env := setupTestEnv(t)

	c := client.NewClient(env.url+"/api", client.WithCredentials(credentials.Static("not-a-jwt")))
	err := c.Wishlist.Get(context.Background(), nil)
	assertClientError(t, err, http.StatusUnauthorized, "token_invalid", "Invalid token")
}

func TestUnknownRoute(t *testing.T) {
	env := setupTestEnv(t)

	err := env.client.Get(context.Background(), "/nowhere", nil, nil)
	assertClientError(t, err, http.StatusNotFound, "resource_not_found", "Route not found")
}

func TestCORS(t *testing.T) {
	env := setupTestEnv(t)

	req, _ := http.NewRequest(http.MethodGet, env.url+"/api/categories", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	defer res.Body.Close()

	if got := res.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestNewServerRequiresSecret(t *testing.T) {
	if _, err := NewServer(Config{}, nil); err == nil {
		t.Error("NewServer() without a secret should fail")
	}
}
