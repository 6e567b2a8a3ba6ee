// Package business holds the single business profile row printed on receipts.
package business

import "context"

// Profile is the business metadata shown in the receipt header and footer.
type Profile struct {
	ID             int64
	BusinessName   string
	TaxID          string
	Phone          string
	Address        string
	ReceiptMessage string
}

// ProfileRepository reads the business profile.
type ProfileRepository interface {
	// Get returns the profile row, or shared.ErrNotFound when none exists
	Get(ctx context.Context) (*Profile, error)
}
