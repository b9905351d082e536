package mockapi

// Demo accounts loaded by seed. All share DemoPassword.
const (
	DemoPassword      = "password123"
	DemoCustomerEmail = "customer@example.com"
	DemoSellerEmail   = "seller@example.com"
	DemoAdminEmail    = "admin@example.com"
)

func seed(s *store) error {
	accounts := []struct{ name, email, role string }{
		{"Demo Customer", DemoCustomerEmail, "customer"},
		{"Demo Seller", DemoSellerEmail, "seller"},
		{"Demo Admin", DemoAdminEmail, "admin"},
	}
	var sellerID string
	for _, a := range accounts {
		u, err := s.createUser(a.name, a.email, DemoPassword, a.role)
		if err != nil {
			return err
		}
		if a.role == "seller" {
			sellerID = u.ID
		}
	}

	s.addCategory("Grocery", "grocery")
	s.addCategory("Fresh Produce", "fresh-produce")
	s.addCategory("Electronics", "electronics")

	products := []Product{
		{Name: "Basmati Rice 5kg", Description: "Long grain aged rice", Price: 12.5, Category: "grocery", Stock: 40},
		{Name: "Green Tea", Description: "Loose leaf sencha, 100g", Price: 6.75, Category: "grocery", Stock: 120},
		{Name: "Olive Oil 1l", Description: "Extra virgin, cold pressed", Price: 9.99, Category: "grocery", Stock: 60},
		{Name: "Organic Bananas", Description: "Bunch of six", Price: 2.2, Category: "fresh-produce", Stock: 200},
		{Name: "Vine Tomatoes", Description: "500g", Price: 1.8, Category: "fresh-produce", Stock: 150},
		{Name: "Wireless Earbuds", Description: "Bluetooth 5.3 with charging case", Price: 49, Category: "electronics", Stock: 25},
		{Name: "USB-C Charger 65W", Description: "GaN wall charger", Price: 29.5, Category: "electronics", Stock: 35},
	}
	for _, p := range products {
		p.SellerID = sellerID
		s.createProduct(p)
	}
	return nil
}
