package enums

// CartEventType identifies the kind of change announced on a user's cart
// channel. The payload carries no row data; consumers reload the full cart.
type CartEventType string

const (
	CartEventInsert CartEventType = "insert"
	CartEventUpdate CartEventType = "update"
	CartEventDelete CartEventType = "delete"
)

func (t CartEventType) IsValid() bool {
	switch t {
	case CartEventInsert, CartEventUpdate, CartEventDelete:
		return true
	}
	return false
}
