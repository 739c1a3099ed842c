package snappfood

import (
	"fmt"
	"strings"

	"menu-reconciler/internal/common/errors"
	"menu-reconciler/internal/common/logger"
	"menu-reconciler/internal/common/metrics"
	"menu-reconciler/internal/menu"

	"github.com/xeipuuv/gojsonschema"
)

// businessLineMap translates the upstream superTypeAlias into the display
// business line. Unknown aliases pass through untranslated.
var businessLineMap = map[string]string{
	"RESTAURANT":    "Restaurant",
	"CAFFE":         "Cafe",
	"CONFECTIONERY": "Pastry",
	"BAKERY":        "Bakery",
	"GROCERY":       "Fruit Shop",
	"SUPERMARKET":   "Supermarket",
	"PROTEIN":       "Meat Shop",
	"JUICE":         "Ice Cream and Juice Shop",
	"OTHER":         "Other",
}

// payloadSchema is the coarse shape gate applied before field extraction. The
// per-field accessors stay lenient; this only rejects payloads with no usable
// data section at all.
var payloadSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"properties": {
		"data": {"type": "object"}
	},
	"required": ["data"]
}`)

// Normalizer converts raw API payloads into canonical menu item rows.
type Normalizer struct {
	banned map[string]bool
	logger logger.Logger
}

// NewNormalizer creates a Normalizer. bannedCategories lists category display
// names excluded from the output (non-food sections).
func NewNormalizer(bannedCategories []string, log logger.Logger) *Normalizer {
	banned := make(map[string]bool, len(bannedCategories))
	for _, name := range bannedCategories {
		banned[name] = true
	}
	return &Normalizer{
		banned: banned,
		logger: log.WithFields(map[string]interface{}{"component": "snappfood_normalizer"}),
	}
}

// Normalize flattens the payload into one row per menu item. Malformed
// categories, products, and topping entries are skipped individually; an
// unusable data section fails the whole payload.
func (n *Normalizer) Normalize(payload map[string]interface{}, vendorCode string) ([]menu.MenuItemRow, menu.VendorRecord, error) {
	vendor := menu.DefaultVendorRecord(vendorCode)

	result, err := gojsonschema.Validate(payloadSchema, gojsonschema.NewGoLoader(payload))
	if err != nil || !result.Valid() {
		n.logger.Warn("malformed or empty data section in payload", map[string]interface{}{
			"vendorCode": vendorCode,
		})
		return nil, vendor, errors.NewMalformedPayloadError(vendorCode, "payload has no usable data section")
	}

	data := asMap(payload["data"])
	vendor = n.vendorRecord(asMap(data["vendor"]), vendorCode)

	menusData, ok := data["menus"].([]interface{})
	if !ok {
		n.logger.Warn("menus section is not a list", map[string]interface{}{
			"vendorCode": vendorCode,
		})
	}

	var rows []menu.MenuItemRow
	for catIdx, rawCat := range menusData {
		cat, ok := rawCat.(map[string]interface{})
		if !ok {
			n.logger.Debug("skipping malformed category", map[string]interface{}{
				"vendorCode": vendorCode,
				"index":      catIdx,
			})
			continue
		}

		categoryName := asString(cat["category"])
		if categoryName == "" {
			categoryName = fmt.Sprintf("Unknown Category %d", catIdx+1)
		}
		if n.banned[categoryName] {
			n.logger.Info("skipping banned category", map[string]interface{}{
				"vendorCode": vendorCode,
				"category":   categoryName,
			})
			continue
		}

		products, ok := cat["products"].([]interface{})
		if !ok {
			n.logger.Debug("products section is not a list", map[string]interface{}{
				"vendorCode": vendorCode,
				"category":   categoryName,
			})
			continue
		}

		for prodIdx, rawProd := range products {
			p, ok := rawProd.(map[string]interface{})
			if !ok {
				n.logger.Debug("skipping malformed product", map[string]interface{}{
					"vendorCode": vendorCode,
					"category":   categoryName,
					"index":      prodIdx,
				})
				continue
			}

			row := menu.MenuItemRow{
				VendorRecord:    vendor,
				CategoryID:      asValueString(cat["categoryId"], ""),
				CategoryName:    categoryName,
				ItemID:          asValueString(p["id"], ""),
				ItemTitle:       asString(p["title"]),
				ProductTitle:    asString(p["productTitle"]),
				ItemVariation:   asString(p["productVariationTitle"]),
				Description:     asString(p["description"]),
				Price:           asValueString(p["price"], "0"),
				ProductToppings: menu.EncodeJSON(n.toppingGroups(p["productToppings"])),
			}
			// item-level rating overrides the vendor rating on item rows
			row.Rating = asValueString(p["rating"], "0")
			rows = append(rows, row)
		}
	}

	metrics.RowsNormalized.WithLabelValues("snappfood").Add(float64(len(rows)))
	return rows, vendor, nil
}

func (n *Normalizer) vendorRecord(section map[string]interface{}, vendorCode string) menu.VendorRecord {
	alias := asString(section["superTypeAlias"])
	businessLine, ok := businessLineMap[strings.ToUpper(alias)]
	if !ok {
		businessLine = alias
		if alias != "" {
			n.logger.Info("business line not in translation map, kept as-is", map[string]interface{}{
				"vendorCode":   vendorCode,
				"businessLine": alias,
			})
		}
	}

	return menu.VendorRecord{
		VendorCode:        vendorCode,
		SnappfoodVendorID: asValueString(section["id"], ""),
		VendorName:        asString(section["title"]),
		VendorBranch:      asString(section["branchTitle"]),
		VendorChain:       asString(section["chainTitle"]),
		BusinessLine:      businessLine,
		MarketingArea:     asString(section["area"]),
		Address:           asString(section["address"]),
		MinOrder:          asValueString(section["minOrder"], "0"),
		Latitude:          asValueString(section["lat"], ""),
		Longitude:         asValueString(section["lon"], ""),
		Rating:            asValueString(section["rating"], ""),
		CommentCount:      asValueString(section["commentCount"], ""),
		Shifts:            listJSON(section["schedules"]),
		TagNames:          listJSON(section["tagNames"]),
		IsExpress:         boolString(section["isZFExpress"]),
		IsPro:             boolString(section["isPro"]),
		IsEconomical:      boolString(section["isEconomical"]),
	}
}

// toppingGroups flattens the nested productToppings structure, skipping
// malformed groups and toppings individually.
func (n *Normalizer) toppingGroups(raw interface{}) []menu.ToppingGroup {
	groups := []menu.ToppingGroup{}
	for grpIdx, rawGrp := range asList(raw) {
		grp, ok := rawGrp.(map[string]interface{})
		if !ok {
			continue
		}

		toppings := []menu.Topping{}
		for _, rawTop := range asList(grp["toppings"]) {
			t, ok := rawTop.(map[string]interface{})
			if !ok {
				continue
			}
			price := t["price"]
			if price == nil {
				price = 0
			}
			toppings = append(toppings, menu.Topping{
				ID:          t["id"],
				Title:       asString(t["title"]),
				Description: asString(t["description"]),
				Price:       price,
			})
		}

		maxCount := grp["maxCount"]
		if maxCount == nil {
			maxCount = 1
		}
		minCount := grp["minCount"]
		if minCount == nil {
			minCount = 0
		}
		groups = append(groups, menu.ToppingGroup{
			GroupIndex: grpIdx,
			ID:         grp["id"],
			Title:      asString(grp["title"]),
			MaxCount:   maxCount,
			MinCount:   minCount,
			Toppings:   toppings,
		})
	}
	return groups
}
