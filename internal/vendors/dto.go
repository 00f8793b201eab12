package vendors

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nukrstore/nukr-backend/internal/store"
	"github.com/nukrstore/nukr-backend/pkg/enums"
)

// VendorDTO is the read model returned to callers.
type VendorDTO struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Insta      string             `json:"insta"`
	Bank       string             `json:"bank"`
	Policies   string             `json:"policies,omitempty"`
	JoinedAt   time.Time          `json:"joined_at"`
	Status     enums.VendorStatus `json:"status"`
	TotalSales decimal.Decimal    `json:"total_sales"`
}

// AnalyticsDTO aggregates a vendor's order history.
type AnalyticsDTO struct {
	VendorName   string          `json:"vendor"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	OrderCount   int             `json:"order_count"`
	PendingCount int             `json:"pending_count"`
}

func vendorToDTO(v store.Vendor) VendorDTO {
	return VendorDTO{
		ID:         v.ID,
		Name:       v.Name,
		Insta:      v.Insta,
		Bank:       v.Bank,
		Policies:   v.Policies,
		JoinedAt:   v.JoinedAt,
		Status:     v.Status,
		TotalSales: v.TotalSales,
	}
}
