package enums

import "fmt"

// ProductLifecycle is the tagged soft-delete state of a product. Products are
// never hard-deleted; "delete" moves them to inactive so order history stays
// intact.
type ProductLifecycle string

const (
	ProductLifecycleActive   ProductLifecycle = "active"
	ProductLifecycleInactive ProductLifecycle = "inactive"
)

var validProductLifecycles = []ProductLifecycle{
	ProductLifecycleActive,
	ProductLifecycleInactive,
}

// String implements fmt.Stringer.
func (p ProductLifecycle) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductLifecycle.
func (p ProductLifecycle) IsValid() bool {
	for _, candidate := range validProductLifecycles {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsActive reports whether the product is purchasable.
func (p ProductLifecycle) IsActive() bool {
	return p == ProductLifecycleActive
}

// ParseProductLifecycle converts raw input into a ProductLifecycle.
func ParseProductLifecycle(value string) (ProductLifecycle, error) {
	for _, candidate := range validProductLifecycles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product lifecycle %q", value)
}
