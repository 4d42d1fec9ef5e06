package domain

// FastFood is a merchant storefront.
type FastFood struct {
	ID     string         `json:"id"`
	UserID string         `json:"userId"`
	Name   string         `json:"name"`
	Image  string         `json:"image,omitempty"`
	Menus  []Menu         `json:"menus,omitempty"`
	Orders []Order        `json:"commandes,omitempty"`
	Stats  map[string]any `json:"stats,omitempty"`
	// DesignIndex picks one of four presentational layouts. It is assigned
	// client-side as index % 4 over the fetched list and never persisted.
	DesignIndex int `json:"-"`
}
