package products

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nukrstore/nukr-backend/internal/store"
	"github.com/nukrstore/nukr-backend/pkg/enums"
)

// ProductDTO is the read model returned to callers.
type ProductDTO struct {
	ID         string                 `json:"id"`
	VendorName string                 `json:"vendor"`
	Name       string                 `json:"name"`
	Category   string                 `json:"category"`
	Price      decimal.Decimal        `json:"price"`
	Image      string                 `json:"image,omitempty"`
	Lifecycle  enums.ProductLifecycle `json:"lifecycle"`
	CreatedAt  time.Time              `json:"created_at"`
}

func productToDTO(p store.Product) ProductDTO {
	return ProductDTO{
		ID:         p.ID,
		VendorName: p.VendorName,
		Name:       p.Name,
		Category:   p.Category,
		Price:      p.Price,
		Image:      p.Image,
		Lifecycle:  p.Lifecycle,
		CreatedAt:  p.CreatedAt,
	}
}
