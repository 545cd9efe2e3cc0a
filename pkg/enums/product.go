package enums

// ProductKind discriminates the two catalog families. Bodegon products carry
// per-location availability through the inventory ledger; restaurant products
// belong to exactly one restaurant and expose a single availability flag.
type ProductKind string

const (
	ProductKindBodegon    ProductKind = "bodegon"
	ProductKindRestaurant ProductKind = "restaurant"
)

func (k ProductKind) IsValid() bool {
	switch k {
	case ProductKindBodegon, ProductKindRestaurant:
		return true
	}
	return false
}
