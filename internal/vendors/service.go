package vendors

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

// Service exposes vendor registration, profile management and analytics.
type Service interface {
	Register(ctx context.Context, input RegisterVendorInput) (*VendorDTO, error)
	UpdateProfile(ctx context.Context, vendorName string, input UpdateProfileInput) (*VendorDTO, error)
	Get(ctx context.Context, vendorName string) (*VendorDTO, error)
	List(ctx context.Context) ([]VendorDTO, error)
	Analytics(ctx context.Context, vendorName string) (*AnalyticsDTO, error)
}

type service struct {
	gateway storage.Gateway
	logg    *logger.Logger
}

// RegisterVendorInput holds the payload for a new vendor.
type RegisterVendorInput struct {
	Name  string `json:"name" validate:"required,min=2,max=64"`
	Insta string `json:"insta" validate:"max=64"`
	Bank  string `json:"bank" validate:"max=500"`
}

// UpdateProfileInput carries optional profile mutations. The vendor name is
// the foreign key from products and order snapshots and cannot change.
type UpdateProfileInput struct {
	Insta    *string `json:"insta" validate:"omitempty,max=64"`
	Bank     *string `json:"bank" validate:"omitempty,max=500"`
	Policies *string `json:"policies" validate:"omitempty,max=1000"`
}

// NewService builds a vendor service over the storage gateway.
func NewService(gateway storage.Gateway, logg *logger.Logger) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("storage gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{gateway: gateway, logg: logg}, nil
}

func (s *service) Register(ctx context.Context, input RegisterVendorInput) (*VendorDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	doc := s.gateway.Load(ctx)
	if existing := doc.FindVendorByName(input.Name); existing != nil {
		s.logg.Warn(s.logg.WithVendor(ctx, input.Name), "duplicate vendor registration attempt")
		return nil, pkgerrors.New(pkgerrors.CodeDuplicateName, "vendor name already registered").WithDetails(map[string]string{
			"name": input.Name,
		})
	}

	vendor := store.Vendor{
		ID:         store.NewEntityID(),
		Name:       input.Name,
		Insta:      input.Insta,
		Bank:       input.Bank,
		JoinedAt:   time.Now(),
		Status:     enums.VendorStatusActive,
		TotalSales: decimal.Zero,
	}
	doc.Vendors = append(doc.Vendors, vendor)

	if err := s.gateway.Save(ctx, doc); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithVendor(ctx, vendor.Name), "vendor registered")

	dto := vendorToDTO(vendor)
	return &dto, nil
}

func (s *service) UpdateProfile(ctx context.Context, vendorName string, input UpdateProfileInput) (*VendorDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	doc := s.gateway.Load(ctx)
	vendor := doc.FindVendorByName(vendorName)
	if vendor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}

	if input.Insta != nil {
		vendor.Insta = *input.Insta
	}
	if input.Bank != nil {
		vendor.Bank = *input.Bank
	}
	if input.Policies != nil {
		vendor.Policies = *input.Policies
	}

	if err := s.gateway.Save(ctx, doc); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithVendor(ctx, vendor.Name), "vendor profile updated")

	dto := vendorToDTO(*vendor)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, vendorName string) (*VendorDTO, error) {
	doc := s.gateway.Load(ctx)
	vendor := doc.FindVendorByName(vendorName)
	if vendor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}
	dto := vendorToDTO(*vendor)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]VendorDTO, error) {
	doc := s.gateway.Load(ctx)
	out := make([]VendorDTO, 0, len(doc.Vendors))
	for _, vendor := range doc.Vendors {
		out = append(out, vendorToDTO(vendor))
	}
	return out, nil
}

// Analytics aggregates orders by the snapshot's vendor name. An unknown
// vendor yields zero counts rather than an error; the aggregation is pure and
// the caller may be asking about a vendor that never sold anything.
func (s *service) Analytics(ctx context.Context, vendorName string) (*AnalyticsDTO, error) {
	doc := s.gateway.Load(ctx)

	result := AnalyticsDTO{
		VendorName: vendorName,
		TotalSales: decimal.Zero,
	}
	for _, order := range doc.Orders {
		if !strings.EqualFold(order.ProductSnapshot.VendorName, vendorName) {
			continue
		}
		result.TotalSales = result.TotalSales.Add(order.ProductSnapshot.Price)
		result.OrderCount++
		if order.Status == enums.OrderStatusPending {
			result.PendingCount++
		}
	}
	return &result, nil
}
