// Package tapsifood normalizes the pre-scraped TapsiFood dataset into the
// canonical flat row schema. There is no live fetch on this platform; every
// lookup is served from the in-memory snapshot.
package tapsifood

import (
	"strings"

	"menu-reconciler/internal/common/logger"
	"menu-reconciler/internal/common/metrics"
	"menu-reconciler/internal/dataset"
	"menu-reconciler/internal/menu"
)

// Status is the tri-state outcome of a vendor lookup.
type Status int

const (
	// StatusNotFound means the vendor has no info row in the dataset.
	StatusNotFound Status = iota
	// StatusInfoOnly means vendor info exists but no menu rows do. The
	// vendor record is still usable.
	StatusInfoOnly
	// StatusLoaded means both vendor info and menu rows were produced.
	StatusLoaded
)

// Result is the outcome of preparing one vendor from the static dataset.
type Result struct {
	Status Status
	Vendor menu.VendorRecord
	Rows   []menu.MenuItemRow
}

// Normalizer serves canonical rows from the loaded dataset snapshot.
type Normalizer struct {
	snapshot *dataset.Snapshot
	logger   logger.Logger
}

func NewNormalizer(snap *dataset.Snapshot, log logger.Logger) *Normalizer {
	return &Normalizer{
		snapshot: snap,
		logger:   log.WithFields(map[string]interface{}{"component": "tapsifood_normalizer"}),
	}
}

// Prepare looks up a vendor and builds its canonical rows. A vendor with info
// but no menu items still yields a usable vendor record (StatusInfoOnly).
func (n *Normalizer) Prepare(vendorCode string) Result {
	vendorCode = strings.TrimSpace(vendorCode)

	infoRow, ok := n.snapshot.VendorInfo.FirstFor(vendorCode)
	if !ok {
		n.logger.Warn("no vendor info found in dataset", map[string]interface{}{
			"vendorCode": vendorCode,
		})
		return Result{Status: StatusNotFound, Vendor: menu.DefaultVendorRecord(vendorCode)}
	}

	vendor := n.vendorRecord(infoRow, vendorCode)

	menuRows := n.snapshot.MenuItems.RowsFor(vendorCode)
	if len(menuRows) == 0 {
		n.logger.Info("vendor info loaded, but no menu items found", map[string]interface{}{
			"vendorCode": vendorCode,
		})
		return Result{Status: StatusInfoOnly, Vendor: vendor}
	}

	rows := make([]menu.MenuItemRow, 0, len(menuRows))
	for _, item := range menuRows {
		row := menu.DefaultMenuItemRow(vendorCode)
		row.VendorRecord = vendor
		row.CategoryID = item.Get("category_id")
		row.CategoryName = item.Get("category_name")
		row.ItemID = item.Get("item_id")
		row.ItemTitle = item.Get("item_title")
		row.Description = item.Get("item_description")
		row.Price = item.GetDefault("price", "0")
		row.ProductToppings = "[]"
		rows = append(rows, row)
	}

	metrics.RowsNormalized.WithLabelValues("tapsifood").Add(float64(len(rows)))
	return Result{Status: StatusLoaded, Vendor: vendor, Rows: rows}
}

// vendorRecord builds the vendor-level record from the info row. Fields the
// dataset does not carry keep their canonical defaults.
func (n *Normalizer) vendorRecord(row dataset.Row, vendorCode string) menu.VendorRecord {
	vendor := menu.DefaultVendorRecord(vendorCode)
	vendor.SnappfoodVendorID = row.Get("id")
	vendor.VendorName = row.Get("vendor_name")
	vendor.BusinessLine = row.Get("business_line")
	vendor.MarketingArea = row.Get("marketing_area")
	vendor.Address = row.Get("address")
	vendor.MinOrder = row.GetDefault("min_order", "0")
	vendor.Latitude = row.Get("latitude")
	vendor.Longitude = row.Get("longitude")
	vendor.Shifts = menu.EncodeJSON(menu.TranscodeShifts(row.Get("shifts"), n.logger))
	return vendor
}
