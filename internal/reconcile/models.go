// Package reconcile orchestrates one reconciliation run: resolve the
// identifier, fetch and normalize the live platform, look up the static
// platform, and aggregate both sides into a single result.
package reconcile

import "menu-reconciler/internal/menu"

// PlatformResult is one platform's slice of a reconciliation run.
type PlatformResult struct {
	DataLoaded bool               `json:"data_loaded"`
	CSVData    string             `json:"csv_data,omitempty"`
	Rows       []menu.MenuItemRow `json:"-"`
	VendorInfo menu.VendorRecord  `json:"vendor_info"`
	Filename   string             `json:"filename,omitempty"`

	// OriginalIdentifier is the code actually used against this platform,
	// after crosswalk resolution and the fallback retry.
	OriginalIdentifier string `json:"original_identifier"`

	Error string `json:"error,omitempty"`
}

// Result is the aggregated outcome of one run.
type Result struct {
	Success         bool           `json:"success"`
	QueryIdentifier string         `json:"query_identifier"`
	PlatformGuess   string         `json:"query_platform_guess"`
	Snappfood       PlatformResult `json:"snappfood"`
	Tapsifood       PlatformResult `json:"tapsifood"`
}
