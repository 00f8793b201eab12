package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nukrstore/nukr-backend/internal/storage"
	"github.com/nukrstore/nukr-backend/internal/store"
	"github.com/nukrstore/nukr-backend/pkg/enums"
	pkgerrors "github.com/nukrstore/nukr-backend/pkg/errors"
	"github.com/nukrstore/nukr-backend/pkg/logger"
	"github.com/nukrstore/nukr-backend/pkg/validate"
)

// Service exposes vendor product management operations.
type Service interface {
	Add(ctx context.Context, input AddProductInput) (*ProductDTO, error)
	SoftDelete(ctx context.Context, productID string) error
	Get(ctx context.Context, productID string) (*ProductDTO, error)
	List(ctx context.Context, input ListProductsInput) ([]ProductDTO, error)
}

type service struct {
	gateway storage.Gateway
	logg    *logger.Logger
}

// AddProductInput holds the payload for a new listing.
type AddProductInput struct {
	VendorName string          `json:"vendor" validate:"required,max=64"`
	Name       string          `json:"name" validate:"required,min=2,max=120"`
	Category   string          `json:"category" validate:"required,max=64"`
	Price      decimal.Decimal `json:"price"`
	Image      string          `json:"image" validate:"max=500"`
}

// ListProductsInput narrows the listing query.
type ListProductsInput struct {
	VendorName string
	ActiveOnly bool
}

// NewService builds a product service over the storage gateway.
func NewService(gateway storage.Gateway, logg *logger.Logger) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("storage gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{gateway: gateway, logg: logg}, nil
}

func (s *service) Add(ctx context.Context, input AddProductInput) (*ProductDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative").WithDetails(map[string]string{
			"price": input.Price.String(),
		})
	}

	doc := s.gateway.Load(ctx)

	// Vendor existence and category membership are deliberately not
	// enforced; the source trusts its caller here. Both are logged so the
	// leniency stays observable.
	if doc.FindVendorByName(input.VendorName) == nil {
		s.logg.Warn(s.logg.WithVendor(ctx, input.VendorName), "product added for unknown vendor")
	}
	if !doc.HasCategory(input.Category) {
		s.logg.Warn(ctx, "product category not in allowed set: "+input.Category)
	}

	product := store.Product{
		ID:         store.NewEntityID(),
		VendorName: input.VendorName,
		Name:       input.Name,
		Category:   input.Category,
		Price:      input.Price,
		Image:      input.Image,
		Lifecycle:  enums.ProductLifecycleActive,
		CreatedAt:  time.Now(),
	}
	doc.Products = append(doc.Products, product)

	if err := s.gateway.Save(ctx, doc); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithProductID(ctx, product.ID), "product listed")

	dto := productToDTO(product)
	return &dto, nil
}

// SoftDelete marks a product inactive, keeping it in the document so order
// snapshots stay meaningful. A missing id is silently ignored; this leniency
// is part of the contract, not an oversight.
func (s *service) SoftDelete(ctx context.Context, productID string) error {
	doc := s.gateway.Load(ctx)

	product := doc.FindProduct(productID)
	if product == nil {
		s.logg.Warn(s.logg.WithProductID(ctx, productID), "soft delete of unknown product ignored")
		return nil
	}
	if !product.Lifecycle.IsActive() {
		return nil
	}
	product.Lifecycle = enums.ProductLifecycleInactive

	if err := s.gateway.Save(ctx, doc); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithProductID(ctx, productID), "product soft deleted")
	return nil
}

func (s *service) Get(ctx context.Context, productID string) (*ProductDTO, error) {
	doc := s.gateway.Load(ctx)
	product := doc.FindProduct(productID)
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	dto := productToDTO(*product)
	return &dto, nil
}

func (s *service) List(ctx context.Context, input ListProductsInput) ([]ProductDTO, error) {
	doc := s.gateway.Load(ctx)
	out := make([]ProductDTO, 0, len(doc.Products))
	for _, product := range doc.Products {
		if input.ActiveOnly && !product.Lifecycle.IsActive() {
			continue
		}
		if input.VendorName != "" && !strings.EqualFold(product.VendorName, input.VendorName) {
			continue
		}
		out = append(out, productToDTO(product))
	}
	return out, nil
}
