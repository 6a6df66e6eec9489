package catalog

import "github.com/shopspring/decimal"

func DefaultProducts() []Product {
	return []Product{
		newProduct(1, "Laptop", "High-performance laptop", "Electronics", "999.99"),
		newProduct(2, "Smartphone", "Latest smartphone model", "Electronics", "699.99"),
		newProduct(3, "Wireless Headphones", "Noise-cancelling headphones", "Electronics", "199.99"),
		newProduct(4, "Coffee Maker", "Automatic drip coffee maker", "Home", "89.99"),
		newProduct(5, "Running Shoes", "Lightweight running shoes", "Sports", "129.99"),
		withDiscount(newProduct(6, "Discounted T-Shirt", "Cotton t-shirt on sale", "Clothing", "29.99"), 15),
		withDiscount(newProduct(7, "Discounted Book", "Bestselling novel on sale", "Books", "19.99"), 25),
	}
}

func newProduct(id int, name string, description string, category string, price string) Product {
	return Product{
		ID:          id,
		Name:        name,
		Description: description,
		Category:    category,
		Price:       decimal.RequireFromString(price),
		IsActive:    true,
	}
}

func withDiscount(p Product, percentage int64) Product {
	p.IsDiscounted = true
	p.DiscountPercentage = decimal.NewNullDecimal(decimal.NewFromInt(percentage))
	return p
}
