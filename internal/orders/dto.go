package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nukrstore/nukr-backend/internal/store"
	"github.com/nukrstore/nukr-backend/pkg/enums"
)

// SnapshotDTO is the immutable product copy embedded in an order.
type SnapshotDTO struct {
	ProductID  string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	VendorName string          `json:"vendor"`
}

// CustomerDTO is the buyer contact block.
type CustomerDTO struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// PaymentDTO is the payment block.
type PaymentDTO struct {
	Method     enums.PaymentMethod `json:"method"`
	Proof      string              `json:"proof,omitempty"`
	IsVerified bool                `json:"is_verified"`
}

// OrderDTO is the read model returned to callers.
type OrderDTO struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Snapshot  SnapshotDTO       `json:"product_snapshot"`
	Customer  CustomerDTO       `json:"customer"`
	Payment   PaymentDTO        `json:"payment"`
	Status    enums.OrderStatus `json:"status"`
	History   []string          `json:"history"`
}

func orderToDTO(o store.Order) OrderDTO {
	history := make([]string, len(o.History))
	copy(history, o.History)
	return OrderDTO{
		ID:        o.ID,
		Timestamp: o.Timestamp,
		Snapshot: SnapshotDTO{
			ProductID:  o.ProductSnapshot.ID,
			Name:       o.ProductSnapshot.Name,
			Price:      o.ProductSnapshot.Price,
			VendorName: o.ProductSnapshot.VendorName,
		},
		Customer: CustomerDTO{
			Name:    o.Customer.Name,
			Phone:   o.Customer.Phone,
			Address: o.Customer.Address,
		},
		Payment: PaymentDTO{
			Method:     o.Payment.Method,
			Proof:      o.Payment.Proof,
			IsVerified: o.Payment.IsVerified,
		},
		Status:  o.Status,
		History: history,
	}
}
