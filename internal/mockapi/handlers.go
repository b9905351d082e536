package mockapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/storefront-dev/storefront/internal/apperrors"
	"github.com/storefront-dev/storefront/internal/logger"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gt=0"`
	Category    string  `json:"category" validate:"required"`
	Stock       int     `json:"stock" validate:"min=0"`
}

type ProductPage struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Total    int       `json:"total"`
}

type CartAddRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=0"`
}

type WishlistAddRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type Wishlist struct {
	Products []Product `json:"products"`
}

type CreateOrderRequest struct {
	ShippingAddress string `json:"shippingAddress" validate:"required"`
}

type OrderList struct {
	Orders []Order `json:"orders"`
}

// userID is only valid behind RequireValidAccessToken.
func userID(r *http.Request) string {
	claims, _ := contextClaims(r.Context())
	return claims.Subject
}

// auth

func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	u, err := s.store.createUser(req.Name, req.Email, req.Password, "customer")
	if err != nil {
		if errors.Is(err, errAlreadyExists) {
			respondWithError(w, r, http.StatusConflict, apperrors.ErrCodeUserAlreadyExists, "User already exists")
			return
		}
		respondWithError(w, r, http.StatusInternalServerError, apperrors.ErrCodeInternalError, err.Error())
		return
	}
	s.respondWithToken(w, r, http.StatusCreated, u)
}

func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	u, err := s.store.authenticate(req.Email, req.Password)
	if err != nil {
		respondWithError(w, r, http.StatusUnauthorized, apperrors.ErrCodeAuthenticationFailure, "Invalid credentials")
		return
	}
	logger.ContextWithLogAttrs(r.Context(), slog.String("user_id", u.ID))
	s.respondWithToken(w, r, http.StatusOK, u)
}

// LogoutHandler revokes the token the request was made with.
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := contextClaims(r.Context())
	s.store.revoke(claims.ID, claims.ExpiresAt.Time)
	respondWithJSON(w, r, http.StatusOK, message{Message: "Logged out successfully"})
}

// RefreshHandler issues a new token and revokes the one used to call it.
func (s *Server) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := contextClaims(r.Context())
	u, err := s.store.user(claims.Subject)
	if err != nil {
		respondWithError(w, r, http.StatusUnauthorized, apperrors.ErrCodeTokenInvalid, "Invalid token")
		return
	}
	s.store.revoke(claims.ID, claims.ExpiresAt.Time)
	s.respondWithToken(w, r, http.StatusOK, u)
}

func (s *Server) respondWithToken(w http.ResponseWriter, r *http.Request, status int, u User) {
	token, err := s.tokens.issue(u)
	if err != nil {
		respondWithError(w, r, http.StatusInternalServerError, apperrors.ErrCodeInternalError, err.Error())
		return
	}
	respondWithJSON(w, r, status, AuthResponse{Token: token, User: u})
}

func (s *Server) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.user(userID(r))
	if err != nil {
		respondNotFound(w, r)
		return
	}
	respondWithJSON(w, r, http.StatusOK, u)
}

func (s *Server) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	u, err := s.store.updateUserName(userID(r), req.Name)
	if err != nil {
		respondNotFound(w, r)
		return
	}
	respondWithJSON(w, r, http.StatusOK, u)
}

// products

// ListProductsHandler supports the category, q, page and limit query parameters.
func (s *Server) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, ok := intParam(w, r, "page", 1)
	if !ok {
		return
	}
	limit, ok := intParam(w, r, "limit", defaultPageLimit)
	if !ok {
		return
	}
	limit = min(limit, maxPageLimit)

	products, total := s.store.listProducts(ProductFilter{
		Category: q.Get("category"),
		Query:    q.Get("q"),
		Page:     page,
		Limit:    limit,
	})
	respondWithJSON(w, r, http.StatusOK, ProductPage{
		Products: products,
		Page:     page,
		Limit:    limit,
		Total:    total,
	})
}

// SearchProductsHandler is ListProductsHandler with a required q parameter.
func (s *Server) SearchProductsHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("q") == "" {
		respondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest, "Search query is required")
		return
	}
	s.ListProductsHandler(w, r)
}

func (s *Server) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.product(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, r, http.StatusNotFound, apperrors.ErrCodeResourceNotFound, "Product not found")
		return
	}
	respondWithJSON(w, r, http.StatusOK, p)
}

func (s *Server) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if _, err := s.store.categoryBySlug(req.Category); err != nil {
		respondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest, "Unknown category")
		return
	}
	p := s.store.createProduct(Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		SellerID:    userID(r),
	})
	respondWithJSON(w, r, http.StatusCreated, p)
}

func (s *Server) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteProduct(chi.URLParam(r, "id")); err != nil {
		respondWithError(w, r, http.StatusNotFound, apperrors.ErrCodeResourceNotFound, "Product not found")
		return
	}
	respondWithJSON(w, r, http.StatusOK, message{Message: "Product deleted"})
}

// categories

func (s *Server) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, r, http.StatusOK, s.store.listCategories())
}

func (s *Server) GetCategoryBySlugHandler(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.categoryBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondWithError(w, r, http.StatusNotFound, apperrors.ErrCodeResourceNotFound, "Category not found")
		return
	}
	respondWithJSON(w, r, http.StatusOK, c)
}

// cart

func (s *Server) GetCartHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, r, http.StatusOK, s.store.cart(userID(r)))
}

func (s *Server) AddToCartHandler(w http.ResponseWriter, r *http.Request) {
	var req CartAddRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	cart, err := s.store.addToCart(userID(r), req.ProductID, req.Quantity)
	if err != nil {
		respondWithError(w, r, http.StatusNotFound, apperrors.ErrCodeResourceNotFound, "Product not found")
		return
	}
	respondWithJSON(w, r, http.StatusOK, cart)
}

func (s *Server) RemoveFromCartHandler(w http.ResponseWriter, r *http.Request) {
	cart, err := s.store.removeFromCart(userID(r), chi.URLParam(r, "itemId"))
	if err != nil {
		respondNotFound(w, r)
		return
	}
	respondWithJSON(w, r, http.StatusOK, cart)
}

func (s *Server) ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	s.store.clearCart(userID(r))
	respondWithJSON(w, r, http.StatusOK, s.store.cart(userID(r)))
}

// wishlist

func (s *Server) GetWishlistHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, r, http.StatusOK, Wishlist{Products: s.store.wishlist(userID(r))})
}

func (s *Server) AddToWishlistHandler(w http.ResponseWriter, r *http.Request) {
	var req WishlistAddRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	err := s.store.addToWishlist(userID(r), req.ProductID)
	switch {
	case errors.Is(err, errAlreadyExists):
		respondWithError(w, r, http.StatusConflict, apperrors.ErrCodeResourceAlreadyExists, "Product already in wishlist")
		return
	case err != nil:
		respondWithError(w, r, http.StatusNotFound, apperrors.ErrCodeResourceNotFound, "Product not found")
		return
	}
	respondWithJSON(w, r, http.StatusOK, Wishlist{Products: s.store.wishlist(userID(r))})
}

func (s *Server) RemoveFromWishlistHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.removeFromWishlist(userID(r), chi.URLParam(r, "productId")); err != nil {
		respondNotFound(w, r)
		return
	}
	respondWithJSON(w, r, http.StatusOK, Wishlist{Products: s.store.wishlist(userID(r))})
}

// orders

func (s *Server) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	o, err := s.store.placeOrder(userID(r), req.ShippingAddress)
	if err != nil {
		respondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest, "Cart is empty")
		return
	}
	logger.ContextWithLogAttrs(r.Context(), slog.String("order_id", o.ID))
	respondWithJSON(w, r, http.StatusCreated, o)
}

func (s *Server) MyOrdersHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, r, http.StatusOK, OrderList{Orders: s.store.ordersFor(userID(r))})
}

func (s *Server) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	o, err := s.store.order(userID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, r, http.StatusNotFound, apperrors.ErrCodeResourceNotFound, "Order not found")
		return
	}
	respondWithJSON(w, r, http.StatusOK, o)
}

func (s *Server) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, r, http.StatusOK, message{Message: "OK"})
}

func (s *Server) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, http.StatusNotFound, apperrors.ErrCodeResourceNotFound, "Route not found")
}

func (s *Server) MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, http.StatusMethodNotAllowed, apperrors.ErrCodeInvalidRequest, "Method not allowed")
}

// intParam reads a positive integer query parameter, writing a 400 when it is malformed.
func intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		respondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidURLParam, name+" must be a positive integer")
		return 0, false
	}
	return n, true
}
