// Package menu defines the canonical flat row schema that both platform
// normalizers produce, plus the weekly-schedule transcoding between the two
// platforms' shift representations.
//
// Every row carries the full canonical key set; absent source data is
// defaulted ("0", "[]", "False", "") rather than omitted, so rows from either
// platform merge by column name without positional assumptions.
package menu

import "encoding/json"

// Columns is the fixed canonical column order for exported menu item rows.
var Columns = []string{
	"vendor_code", "snappfood_vendor_id",
	"vendor_name", "vendor_branch", "vendor_chain",
	"business_line", "marketing_area", "address", "min_order",
	"latitude", "longitude",
	"rating",
	"comment_count",
	"shifts", "tag_names",
	"is_express", "is_pro", "is_economical",
	"category_id", "category_name", "item_id", "item_title", "product_title",
	"item_variation", "description", "price",
	"product_toppings",
}

// VendorInfoKeys is the subset of columns reported as the per-platform
// vendor_info object.
var VendorInfoKeys = []string{
	"vendor_code", "vendor_name", "vendor_branch",
	"vendor_chain", "business_line", "marketing_area", "address", "min_order",
	"latitude", "longitude", "rating", "comment_count", "shifts", "tag_names",
}

// VendorRecord holds the vendor-level fields repeated on every menu item row.
// All values are kept in string form, matching the export schema.
type VendorRecord struct {
	VendorCode        string `json:"vendor_code"`
	SnappfoodVendorID string `json:"snappfood_vendor_id"`
	VendorName        string `json:"vendor_name"`
	VendorBranch      string `json:"vendor_branch"`
	VendorChain       string `json:"vendor_chain"`
	BusinessLine      string `json:"business_line"`
	MarketingArea     string `json:"marketing_area"`
	Address           string `json:"address"`
	MinOrder          string `json:"min_order"`
	Latitude          string `json:"latitude"`
	Longitude         string `json:"longitude"`
	Rating            string `json:"rating"`
	CommentCount      string `json:"comment_count"`
	Shifts            string `json:"shifts"`    // JSON-encoded []ShiftEntry
	TagNames          string `json:"tag_names"` // JSON-encoded []string
	IsExpress         string `json:"is_express"`
	IsPro             string `json:"is_pro"`
	IsEconomical      string `json:"is_economical"`
}

// MenuItemRow is one normalized menu item in the canonical schema.
type MenuItemRow struct {
	VendorRecord

	CategoryID      string `json:"category_id"`
	CategoryName    string `json:"category_name"`
	ItemID          string `json:"item_id"`
	ItemTitle       string `json:"item_title"`
	ProductTitle    string `json:"product_title"`
	ItemVariation   string `json:"item_variation"`
	Description     string `json:"description"`
	Price           string `json:"price"`
	ProductToppings string `json:"product_toppings"` // JSON-encoded []ToppingGroup
}

// Topping is a single add-on inside a topping group.
type Topping struct {
	ID          interface{} `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       interface{} `json:"price"`
}

// ToppingGroup is a named set of optional add-ons attached to a menu item.
type ToppingGroup struct {
	GroupIndex int         `json:"group_index"`
	ID         interface{} `json:"id"`
	Title      string      `json:"title"`
	MaxCount   interface{} `json:"maxCount"`
	MinCount   interface{} `json:"minCount"`
	Toppings   []Topping   `json:"toppings"`
}

// ShiftEntry is one open interval in the numeric-weekday convention
// (1=Saturday .. 7=Friday). AllDay is always false when transcoded.
type ShiftEntry struct {
	Weekday   int    `json:"weekday"`
	AllDay    bool   `json:"allDay"`
	StartHour string `json:"startHour"`
	StopHour  string `json:"stopHour"`
}

// DefaultVendorRecord returns a record with every field set to its
// type-appropriate empty value.
func DefaultVendorRecord(vendorCode string) VendorRecord {
	return VendorRecord{
		VendorCode:   vendorCode,
		MinOrder:     "0",
		Rating:       "0",
		CommentCount: "0",
		Shifts:       "[]",
		TagNames:     "[]",
		IsExpress:    "False",
		IsPro:        "False",
		IsEconomical: "False",
	}
}

// DefaultMenuItemRow returns a row with every field defaulted.
func DefaultMenuItemRow(vendorCode string) MenuItemRow {
	return MenuItemRow{
		VendorRecord:    DefaultVendorRecord(vendorCode),
		Price:           "0",
		ProductToppings: "[]",
	}
}

// Record renders the row in the canonical column order.
func (m MenuItemRow) Record() []string {
	return []string{
		m.VendorCode, m.SnappfoodVendorID,
		m.VendorName, m.VendorBranch, m.VendorChain,
		m.BusinessLine, m.MarketingArea, m.Address, m.MinOrder,
		m.Latitude, m.Longitude,
		m.Rating,
		m.CommentCount,
		m.Shifts, m.TagNames,
		m.IsExpress, m.IsPro, m.IsEconomical,
		m.CategoryID, m.CategoryName, m.ItemID, m.ItemTitle, m.ProductTitle,
		m.ItemVariation, m.Description, m.Price,
		m.ProductToppings,
	}
}

// EncodeJSON marshals v compactly, degrading to "[]" on failure. Used for the
// JSON-in-a-cell fields (shifts, tag_names, product_toppings).
func EncodeJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}
