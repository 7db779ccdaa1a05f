package product

import "github.com/shopspring/decimal"

// DefaultCatalog returns the fixed set of products the store is seeded with.
// A fresh slice is returned on every call.
func DefaultCatalog() []Product {
	return []Product{
		{
			ID:          "prod_001",
			Name:        "iPhone 15 Pro",
			Price:       decimal.NewFromInt(999),
			Description: "Latest iPhone with advanced camera",
			Stock:       25,
		},
		{
			ID:          "prod_002",
			Name:        "MacBook Air M3",
			Price:       decimal.NewFromInt(1299),
			Description: "13-inch laptop with M3 chip",
			Stock:       15,
		},
		{
			ID:          "prod_003",
			Name:        "AirPods Pro",
			Price:       decimal.NewFromInt(249),
			Description: "Noise cancelling wireless earbuds",
			Stock:       50,
		},
		{
			ID:          "prod_004",
			Name:        "Apple Watch Series 9",
			Price:       decimal.NewFromInt(399),
			Description: "Advanced smartwatch with health features",
			Stock:       30,
		},
		{
			ID:          "prod_005",
			Name:        `iPad Pro 11"`,
			Price:       decimal.NewFromInt(799),
			Description: "Professional tablet with M2 chip",
			Stock:       20,
		},
	}
}
