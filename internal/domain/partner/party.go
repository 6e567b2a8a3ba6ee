package partner

// Walk-in placeholder values shown when a sale has no linked client.
const (
	WalkInClientName = "Publico en General"
	WalkInSentinel   = "S/N"
)

// Client is a buyer a sale can be attached to.
type Client struct {
	ID      int64
	Code    string // DNI or RUC
	Name    string
	Phone   string
	Address string
}

// WalkInClient returns the placeholder used for sales without a client.
func WalkInClient() *Client {
	return &Client{
		Code:    WalkInSentinel,
		Name:    WalkInClientName,
		Phone:   WalkInSentinel,
		Address: WalkInSentinel,
	}
}

// IsWalkIn reports whether c is the placeholder rather than a stored client
func (c *Client) IsWalkIn() bool {
	return c.ID == 0
}

// Supplier provides products.
type Supplier struct {
	ID      int64
	Code    string // RUC
	Name    string
	Phone   string
	Address string
}
