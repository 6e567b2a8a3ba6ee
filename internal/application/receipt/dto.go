package receipt

import "time"

// DocumentHandle tells the caller where a rendered receipt went.
type DocumentHandle struct {
	SaleID     int64     `json:"sale_id"`
	Key        string    `json:"key"`
	Path       string    `json:"path,omitempty"`
	URL        string    `json:"url,omitempty"`
	Size       int64     `json:"size"`
	PageCount  int       `json:"page_count"`
	RenderedAt time.Time `json:"rendered_at"`
}
