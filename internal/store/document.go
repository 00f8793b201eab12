package store

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nukrstore/nukr-backend/pkg/enums"
)

// SchemaVersion is written into every new document's meta block.
const SchemaVersion = "3.0.0"

// DefaultCategories seeds the category set of a fresh store.
var DefaultCategories = []string{
	"Jewelry", "Crochet", "Clothes", "Toys",
	"Watches", "Home Decor", "Art & Craft",
	"Accessories", "Footwear", "Beauty",
}

// Document is the single root aggregate. Everything the marketplace persists
// lives in this one structure; no entity is referenced outside of it.
type Document struct {
	Meta       Meta      `json:"meta"`
	Vendors    []Vendor  `json:"vendors"`
	Products   []Product `json:"products"`
	Orders     []Order   `json:"orders"`
	Categories []string  `json:"categories"`
	Users      []User    `json:"users"`
}

// Meta describes the document itself.
type Meta struct {
	CreatedAt  time.Time `json:"created_at"`
	Version    string    `json:"version"`
	LastBackup string    `json:"last_backup,omitempty"`
}

// Vendor is a seller. Name is the foreign key used by products and order
// snapshots and is immutable after registration.
type Vendor struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Insta      string             `json:"insta"`
	Bank       string             `json:"bank"`
	Policies   string             `json:"policies,omitempty"`
	JoinedAt   time.Time          `json:"joined_at"`
	Status     enums.VendorStatus `json:"status"`
	TotalSales decimal.Decimal    `json:"total_sales"`
}

// Product is a vendor listing. Products are soft-deleted via Lifecycle so
// order snapshots keep their history.
type Product struct {
	ID         string                 `json:"id"`
	VendorName string                 `json:"vendor"`
	Name       string                 `json:"name"`
	Category   string                 `json:"category"`
	Price      decimal.Decimal        `json:"price"`
	Image      string                 `json:"image,omitempty"`
	Lifecycle  enums.ProductLifecycle `json:"lifecycle"`
	CreatedAt  time.Time              `json:"created_at"`
}

// ProductSnapshot is the immutable copy of product fields captured at
// order-creation time. Later product edits or soft deletes never touch it.
type ProductSnapshot struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	VendorName string          `json:"vendor"`
}

// Customer holds the buyer details captured once at checkout.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Payment records how the buyer paid and whether the vendor verified it.
type Payment struct {
	Method     enums.PaymentMethod `json:"method"`
	Proof      string              `json:"proof,omitempty"`
	IsVerified bool                `json:"is_verified"`
}

// Order is append-only except for Status and History.
type Order struct {
	ID              string            `json:"id"`
	Timestamp       time.Time         `json:"timestamp"`
	ProductSnapshot ProductSnapshot   `json:"product_snapshot"`
	Customer        Customer          `json:"customer"`
	Payment         Payment           `json:"payment"`
	Status          enums.OrderStatus `json:"status"`
	History         []string          `json:"history"`
}

// User is reserved for future buyer accounts; the key exists in the schema so
// older documents do not need a breaking migration when accounts land.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultDocument returns a pristine store with seeded categories.
func DefaultDocument(now time.Time) *Document {
	categories := make([]string, len(DefaultCategories))
	copy(categories, DefaultCategories)
	return &Document{
		Meta: Meta{
			CreatedAt: now,
			Version:   SchemaVersion,
		},
		Vendors:    []Vendor{},
		Products:   []Product{},
		Orders:     []Order{},
		Categories: categories,
		Users:      []User{},
	}
}

// NewEntityID returns the short unique token used for vendor, product and
// order ids.
func NewEntityID() string {
	return uuid.NewString()[:8]
}

// FindVendorByName returns the vendor with the given case-insensitive name,
// or nil.
func (d *Document) FindVendorByName(name string) *Vendor {
	for i := range d.Vendors {
		if strings.EqualFold(d.Vendors[i].Name, name) {
			return &d.Vendors[i]
		}
	}
	return nil
}

// FindProduct returns the product with the given id, or nil.
func (d *Document) FindProduct(id string) *Product {
	for i := range d.Products {
		if d.Products[i].ID == id {
			return &d.Products[i]
		}
	}
	return nil
}

// FindOrder returns the order with the given id, or nil.
func (d *Document) FindOrder(id string) *Order {
	for i := range d.Orders {
		if d.Orders[i].ID == id {
			return &d.Orders[i]
		}
	}
	return nil
}

// HasCategory reports whether the label is in the allowed category set.
func (d *Document) HasCategory(label string) bool {
	for _, category := range d.Categories {
		if strings.EqualFold(category, label) {
			return true
		}
	}
	return false
}
