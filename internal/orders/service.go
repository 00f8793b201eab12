package orders

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

// Service exposes order creation and the status workflow. Status transitions
// are enforced here, in the domain layer; the transition table is not a UI
// concern.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID string, next enums.OrderStatus) (*OrderDTO, error)
	VerifyPayment(ctx context.Context, orderID string) (*OrderDTO, error)
	Get(ctx context.Context, orderID string) (*OrderDTO, error)
	ListByVendor(ctx context.Context, input ListOrdersInput) ([]OrderDTO, error)
}

type service struct {
	gateway storage.Gateway
	logg    *logger.Logger
}

// SnapshotInput carries the product fields copied into the order. The copy is
// taken here so later product edits or soft deletes never touch the order.
type SnapshotInput struct {
	ProductID  string          `json:"id" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	Price      decimal.Decimal `json:"price"`
	VendorName string          `json:"vendor" validate:"required"`
}

// CustomerInput captures the buyer details once, at checkout.
type CustomerInput struct {
	Name    string `json:"name" validate:"required,max=120"`
	Phone   string `json:"phone" validate:"required,pkphone"`
	Address string `json:"address" validate:"required,max=500"`
}

// PaymentInput selects the settlement method; proof is the uploaded file
// reference for bank transfers.
type PaymentInput struct {
	Method enums.PaymentMethod `json:"method" validate:"required"`
	Proof  string              `json:"proof" validate:"max=500"`
}

// CreateOrderInput is the full payload for a new order.
type CreateOrderInput struct {
	Snapshot SnapshotInput `json:"product_snapshot"`
	Customer CustomerInput `json:"customer"`
	Payment  PaymentInput  `json:"payment"`
}

// ListOrdersInput narrows the vendor order query.
type ListOrdersInput struct {
	VendorName string `validate:"required"`
	Status     *enums.OrderStatus
}

// NewService builds an order service over the storage gateway.
func NewService(gateway storage.Gateway, logg *logger.Logger) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("storage gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{gateway: gateway, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if !input.Payment.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method").WithDetails(map[string]string{
			"method": input.Payment.Method.String(),
		})
	}
	if input.Snapshot.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot price cannot be negative")
	}

	now := time.Now()
	order := store.Order{
		ID:        store.NewEntityID(),
		Timestamp: now,
		ProductSnapshot: store.ProductSnapshot{
			ID:         input.Snapshot.ProductID,
			Name:       input.Snapshot.Name,
			Price:      input.Snapshot.Price,
			VendorName: input.Snapshot.VendorName,
		},
		Customer: store.Customer{
			Name:    input.Customer.Name,
			Phone:   input.Customer.Phone,
			Address: input.Customer.Address,
		},
		Payment: store.Payment{
			Method:     input.Payment.Method,
			Proof:      input.Payment.Proof,
			IsVerified: false,
		},
		Status: enums.OrderStatusPending,
		History: []string{
			fmt.Sprintf("Order placed on %s", now.Format(time.RFC3339)),
		},
	}

	doc := s.gateway.Load(ctx)
	doc.Orders = append(doc.Orders, order)
	// Keep the cached vendor total in step with the analytics aggregation.
	if vendor := doc.FindVendorByName(order.ProductSnapshot.VendorName); vendor != nil {
		vendor.TotalSales = vendor.TotalSales.Add(order.ProductSnapshot.Price)
	}

	if err := s.gateway.Save(ctx, doc); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID,
		"vendor":   order.ProductSnapshot.VendorName,
	}), "order created")

	dto := orderToDTO(order)
	return &dto, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID string, next enums.OrderStatus) (*OrderDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").WithDetails(map[string]string{
			"status": next.String(),
		})
	}

	doc := s.gateway.Load(ctx)
	order := doc.FindOrder(orderID)
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	if !order.Status.CanTransitionTo(next) {
		// Status and history stay untouched on rejection.
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "status transition disallowed").WithDetails(map[string]string{
			"from": order.Status.String(),
			"to":   next.String(),
		})
	}

	old := order.Status
	order.Status = next
	order.History = append(order.History,
		fmt.Sprintf("Status changed from %s to %s on %s", old, next, time.Now().Format(time.RFC3339)))

	if err := s.gateway.Save(ctx, doc); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithOrderID(ctx, orderID), fmt.Sprintf("order status %s -> %s", old, next))

	dto := orderToDTO(*order)
	return &dto, nil
}

// VerifyPayment marks a bank-transfer proof as checked by the vendor.
// Verifying twice is a no-op.
func (s *service) VerifyPayment(ctx context.Context, orderID string) (*OrderDTO, error) {
	doc := s.gateway.Load(ctx)
	order := doc.FindOrder(orderID)
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	if !order.Payment.IsVerified {
		order.Payment.IsVerified = true
		order.History = append(order.History,
			fmt.Sprintf("Payment verified on %s", time.Now().Format(time.RFC3339)))
		if err := s.gateway.Save(ctx, doc); err != nil {
			return nil, err
		}
		s.logg.Info(s.logg.WithOrderID(ctx, orderID), "payment verified")
	}

	dto := orderToDTO(*order)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, orderID string) (*OrderDTO, error) {
	doc := s.gateway.Load(ctx)
	order := doc.FindOrder(orderID)
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	dto := orderToDTO(*order)
	return &dto, nil
}

func (s *service) ListByVendor(ctx context.Context, input ListOrdersInput) ([]OrderDTO, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	doc := s.gateway.Load(ctx)
	out := make([]OrderDTO, 0)
	for _, order := range doc.Orders {
		if !strings.EqualFold(order.ProductSnapshot.VendorName, input.VendorName) {
			continue
		}
		if input.Status != nil && order.Status != *input.Status {
			continue
		}
		out = append(out, orderToDTO(order))
	}
	return out, nil
}
