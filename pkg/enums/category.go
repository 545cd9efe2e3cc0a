package enums

// CategoryKind mirrors ProductKind for category trees. Bodegon categories are
// global; restaurant categories are scoped to a single restaurant.
type CategoryKind string

const (
	CategoryKindBodegon    CategoryKind = "bodegon"
	CategoryKindRestaurant CategoryKind = "restaurant"
)

func (k CategoryKind) IsValid() bool {
	switch k {
	case CategoryKindBodegon, CategoryKindRestaurant:
		return true
	}
	return false
}
