package snappfood

import (
	"encoding/json"
	"testing"

	"menu-reconciler/internal/common/errors"
	"menu-reconciler/internal/common/logger"
	"menu-reconciler/internal/menu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload(t *testing.T) map[string]interface{} {
	t.Helper()
	raw := `{
		"data": {
			"vendor": {
				"id": 98765,
				"title": "Cafe Sample",
				"branchTitle": "Valiasr",
				"chainTitle": "Sample Chain",
				"superTypeAlias": "CAFFE",
				"area": "District 6",
				"address": "Valiasr St.",
				"minOrder": 50000,
				"lat": 35.71,
				"lon": 51.41,
				"rating": 4.6,
				"commentCount": 312,
				"schedules": [{"weekday":1,"allDay":false,"startHour":"09:00","stopHour":"23:00"}],
				"tagNames": ["coffee","breakfast"],
				"isZFExpress": true,
				"isPro": false,
				"isEconomical": false
			},
			"menus": [
				{
					"categoryId": 11,
					"category": "Hot Drinks",
					"products": [
						{
							"id": 1001,
							"title": "Espresso",
							"productTitle": "Espresso",
							"productVariationTitle": "Double",
							"description": "Two shots",
							"price": 85000,
							"rating": 4.8,
							"productToppings": [
								{
									"id": 7,
									"title": "Extras",
									"maxCount": 2,
									"toppings": [
										{"id": 70, "title": "Extra Shot", "price": 20000},
										"garbage"
									]
								}
							]
						},
						"malformed-product"
					]
				},
				{
					"category": "مواد اولیه",
					"products": [{"id": 2001, "title": "Raw Beans", "price": 500000}]
				}
			]
		}
	}`

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return payload
}

func newTestNormalizer() *Normalizer {
	return NewNormalizer([]string{"آبکیجات", "مواد اولیه", "سایر"}, logger.NewNoOpLogger())
}

func TestNormalize(t *testing.T) {
	rows, vendor, err := newTestNormalizer().Normalize(samplePayload(t), "abc123")
	require.NoError(t, err)

	assert.Equal(t, "abc123", vendor.VendorCode)
	assert.Equal(t, "98765", vendor.SnappfoodVendorID)
	assert.Equal(t, "Cafe Sample", vendor.VendorName)
	assert.Equal(t, "Cafe", vendor.BusinessLine)
	assert.Equal(t, "50000", vendor.MinOrder)
	assert.Equal(t, "35.71", vendor.Latitude)
	assert.Equal(t, "4.6", vendor.Rating)
	assert.Equal(t, "312", vendor.CommentCount)
	assert.Equal(t, "True", vendor.IsExpress)
	assert.Equal(t, "False", vendor.IsPro)
	assert.Contains(t, vendor.Shifts, `"startHour":"09:00"`)
	assert.Contains(t, vendor.TagNames, "coffee")

	// banned category and malformed product excluded
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "Hot Drinks", row.CategoryName)
	assert.Equal(t, "11", row.CategoryID)
	assert.Equal(t, "1001", row.ItemID)
	assert.Equal(t, "Espresso", row.ItemTitle)
	assert.Equal(t, "Double", row.ItemVariation)
	assert.Equal(t, "85000", row.Price)
	assert.Equal(t, "4.8", row.Rating, "item rating replaces vendor rating on rows")
	assert.Equal(t, "Cafe Sample", row.VendorName)
}

func TestNormalizeToppingDefaults(t *testing.T) {
	rows, _, err := newTestNormalizer().Normalize(samplePayload(t), "abc123")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	var groups []menu.ToppingGroup
	require.NoError(t, json.Unmarshal([]byte(rows[0].ProductToppings), &groups))
	require.Len(t, groups, 1)

	grp := groups[0]
	assert.Equal(t, 0, grp.GroupIndex)
	assert.Equal(t, "Extras", grp.Title)
	assert.EqualValues(t, 2, grp.MaxCount)
	assert.EqualValues(t, 0, grp.MinCount, "missing minCount defaults to 0")

	// the malformed topping entry is dropped, the valid one kept
	require.Len(t, grp.Toppings, 1)
	assert.Equal(t, "Extra Shot", grp.Toppings[0].Title)
}

func TestNormalizeMaxCountDefaultsToOne(t *testing.T) {
	var payload map[string]interface{}
	raw := `{"data":{"vendor":{},"menus":[{"category":"A","products":[{"id":1,"title":"X","productToppings":[{"id":5,"title":"G","toppings":[]}]}]}]}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	rows, _, err := newTestNormalizer().Normalize(payload, "v1")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	var groups []menu.ToppingGroup
	require.NoError(t, json.Unmarshal([]byte(rows[0].ProductToppings), &groups))
	require.Len(t, groups, 1)
	assert.EqualValues(t, 1, groups[0].MaxCount)
}

func TestNormalizeUnknownBusinessLineKeptAsIs(t *testing.T) {
	var payload map[string]interface{}
	raw := `{"data":{"vendor":{"superTypeAlias":"FLOWER_SHOP"},"menus":[]}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	_, vendor, err := newTestNormalizer().Normalize(payload, "v1")
	require.NoError(t, err)
	assert.Equal(t, "FLOWER_SHOP", vendor.BusinessLine)
}

func TestNormalizeMissingDataSection(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no data key", `{"status": true}`},
		{"data not an object", `{"data": [1,2,3]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &payload))

			rows, vendor, err := newTestNormalizer().Normalize(payload, "v1")
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeMalformedPayload, errors.CodeOf(err))
			assert.Empty(t, rows)
			assert.Equal(t, "v1", vendor.VendorCode)
		})
	}
}

func TestNormalizeEmptyMenus(t *testing.T) {
	var payload map[string]interface{}
	raw := `{"data":{"vendor":{"title":"Empty"},"menus":[]}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	rows, vendor, err := newTestNormalizer().Normalize(payload, "v1")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, "Empty", vendor.VendorName)
}
