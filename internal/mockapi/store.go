package mockapi

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	errNotFound      = errors.New("not found")
	errAlreadyExists = errors.New("already exists")
	errEmptyCart     = errors.New("cart is empty")
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	passwordHash []byte
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	SellerID    string    `json:"sellerId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CartItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type Cart struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

type Order struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	Items           []CartItem `json:"items"`
	Total           float64    `json:"total"`
	Status          string     `json:"status"`
	ShippingAddress string     `json:"shippingAddress"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// ProductFilter selects products for listing. Zero values match everything.
type ProductFilter struct {
	Category string
	Query    string
	Page     int
	Limit    int
}

// store is the backend's in-memory state. All methods are safe for concurrent use.
type store struct {
	mu         sync.RWMutex
	bcryptCost int
	now        func() time.Time

	users      map[string]*User  // by id
	emails     map[string]string // email -> user id
	categories []Category
	products   map[string]*Product
	carts      map[string][]CartItem
	wishlists  map[string][]string // user id -> product ids, in insertion order
	orders     map[string]*Order
	revoked    map[string]time.Time // token id -> expiry
}

func newStore(bcryptCost int) *store {
	return &store{
		bcryptCost: bcryptCost,
		now:        time.Now,
		users:      map[string]*User{},
		emails:     map[string]string{},
		products:   map[string]*Product{},
		carts:      map[string][]CartItem{},
		wishlists:  map[string][]string{},
		orders:     map[string]*Order{},
		revoked:    map[string]time.Time{},
	}
}

func (s *store) createUser(name, email, password, role string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := s.emails[email]; ok {
		return User{}, errAlreadyExists
	}
	u := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         role,
		CreatedAt:    s.now().UTC(),
		passwordHash: hash,
	}
	s.users[u.ID] = u
	s.emails[email] = u.ID
	return *u, nil
}

// authenticate returns the user whose email and password match.
func (s *store) authenticate(email, password string) (User, error) {
	s.mu.RLock()
	id, ok := s.emails[strings.ToLower(strings.TrimSpace(email))]
	var u User
	if ok {
		u = *s.users[id]
	}
	s.mu.RUnlock()

	if !ok {
		return User{}, errNotFound
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return User{}, errNotFound
	}
	return u, nil
}

func (s *store) user(id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, errNotFound
	}
	return *u, nil
}

func (s *store) updateUserName(id, name string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, errNotFound
	}
	u.Name = name
	return *u, nil
}

func (s *store) revoke(tokenID string, expires time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[tokenID] = expires
}

func (s *store) isRevoked(tokenID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[tokenID]
	return ok
}

func (s *store) addCategory(name, slug string) Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Category{ID: uuid.NewString(), Name: name, Slug: slug}
	s.categories = append(s.categories, c)
	return c
}

func (s *store) listCategories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

func (s *store) categoryBySlug(slug string) (Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return Category{}, errNotFound
}

func (s *store) createProduct(p Product) Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = s.now().UTC()
	s.products[p.ID] = &p
	return p
}

func (s *store) product(id string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return Product{}, errNotFound
	}
	return *p, nil
}

func (s *store) deleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return errNotFound
	}
	delete(s.products, id)
	return nil
}

// listProducts returns the requested page (ordered by name) and the total number of matches.
func (s *store) listProducts(f ProductFilter) ([]Product, int) {
	s.mu.RLock()
	matches := make([]Product, 0, len(s.products))
	query := strings.ToLower(f.Query)
	for _, p := range s.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Description), query) {
			continue
		}
		matches = append(matches, *p)
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Name == matches[j].Name {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].Name < matches[j].Name
	})

	total := len(matches)
	start := (f.Page - 1) * f.Limit
	if start >= total {
		return []Product{}, total
	}
	end := min(start+f.Limit, total)
	return matches[start:end], total
}

func (s *store) cart(userID string) Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cartOf(s.carts[userID])
}

func cartOf(items []CartItem) Cart {
	c := Cart{Items: slices.Clone(items)}
	if c.Items == nil {
		c.Items = []CartItem{}
	}
	for _, item := range items {
		c.Total += item.Price * float64(item.Quantity)
	}
	return c
}

// addToCart adds quantity of a product, merging with an existing line for the same product.
func (s *store) addToCart(userID, productID string, quantity int) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return Cart{}, errNotFound
	}
	items := s.carts[userID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			return cartOf(items), nil
		}
	}
	s.carts[userID] = append(items, CartItem{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
	})
	return cartOf(s.carts[userID]), nil
}

func (s *store) removeFromCart(userID, itemID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[userID]
	i := slices.IndexFunc(items, func(item CartItem) bool { return item.ID == itemID })
	if i < 0 {
		return Cart{}, errNotFound
	}
	s.carts[userID] = slices.Delete(items, i, i+1)
	return cartOf(s.carts[userID]), nil
}

func (s *store) clearCart(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

func (s *store) wishlist(userID string) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := []Product{}
	for _, id := range s.wishlists[userID] {
		if p, ok := s.products[id]; ok {
			products = append(products, *p)
		}
	}
	return products
}

func (s *store) addToWishlist(userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		return errNotFound
	}
	if slices.Contains(s.wishlists[userID], productID) {
		return errAlreadyExists
	}
	s.wishlists[userID] = append(s.wishlists[userID], productID)
	return nil
}

func (s *store) removeFromWishlist(userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.wishlists[userID]
	i := slices.Index(ids, productID)
	if i < 0 {
		return errNotFound
	}
	s.wishlists[userID] = slices.Delete(ids, i, i+1)
	return nil
}

// placeOrder turns the user's cart into a pending order and empties the cart.
func (s *store) placeOrder(userID, address string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[userID]
	if len(items) == 0 {
		return Order{}, errEmptyCart
	}
	cart := cartOf(items)
	o := &Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           cart.Items,
		Total:           cart.Total,
		Status:          "pending",
		ShippingAddress: address,
		CreatedAt:       s.now().UTC(),
	}
	s.orders[o.ID] = o
	delete(s.carts, userID)
	return *o, nil
}

// ordersFor returns the user's orders, newest first.
func (s *store) ordersFor(userID string) []Order {
	s.mu.RLock()
	orders := []Order{}
	for _, o := range s.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	s.mu.RUnlock()

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

// order returns an order owned by userID. Other users' orders are reported as not found.
func (s *store) order(userID, orderID string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	if !ok || o.UserID != userID {
		return Order{}, errNotFound
	}
	return *o, nil
}
