package tapsifood

import (
	"os"
	"path/filepath"
	"testing"

	"menu-reconciler/internal/common/config"
	"menu-reconciler/internal/common/logger"
	"menu-reconciler/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const infoCSV = `vendor_code,id,vendor_name,business_line,marketing_area,address,min_order,latitude,longitude,shifts
tf001,555,Cafe Static,Cafe,District 2,Somewhere St.,30000,35.70,51.40,"[{""DayOfWeek"":""Saturday"",""Shifts"":[{""StartTime"":""09:00"",""EndTime"":""22:00""}]}]"
tf002,556,Empty Menu Vendor,Restaurant,District 3,Elsewhere St.,,35.80,51.50,
`

const menuCSV = `tf_code,category_id,category_name,item_id,item_title,item_description,price
tf001,1,Coffee,10,Latte,Steamed milk,90000
tf001,1,Coffee,11,Mocha,,110000
`

func testSnapshot(t *testing.T) *dataset.Snapshot {
	t.Helper()
	dir := t.TempDir()
	infoPath := filepath.Join(dir, "tf_info.csv")
	menuPath := filepath.Join(dir, "tf_menu.csv")
	require.NoError(t, os.WriteFile(infoPath, []byte(infoCSV), 0o644))
	require.NoError(t, os.WriteFile(menuPath, []byte(menuCSV), 0o644))

	return dataset.Load(config.DatasetsConfig{
		VendorInfoPath: infoPath,
		MenuItemsPath:  menuPath,
		CrosswalkPath:  filepath.Join(dir, "absent.csv"),
	}, logger.NewNoOpLogger())
}

func newTestNormalizer(t *testing.T) *Normalizer {
	return NewNormalizer(testSnapshot(t), logger.NewNoOpLogger())
}

func TestPrepareLoaded(t *testing.T) {
	res := newTestNormalizer(t).Prepare("tf001")

	assert.Equal(t, StatusLoaded, res.Status)
	assert.Equal(t, "tf001", res.Vendor.VendorCode)
	assert.Equal(t, "555", res.Vendor.SnappfoodVendorID)
	assert.Equal(t, "Cafe Static", res.Vendor.VendorName)
	assert.Equal(t, "Cafe", res.Vendor.BusinessLine)
	assert.Equal(t, "30000", res.Vendor.MinOrder)
	assert.Contains(t, res.Vendor.Shifts, `"weekday":1`)
	assert.Contains(t, res.Vendor.Shifts, `"startHour":"09:00"`)

	require.Len(t, res.Rows, 2)
	first := res.Rows[0]
	assert.Equal(t, "Coffee", first.CategoryName)
	assert.Equal(t, "Latte", first.ItemTitle)
	assert.Equal(t, "Steamed milk", first.Description)
	assert.Equal(t, "90000", first.Price)
	assert.Equal(t, "[]", first.ProductToppings)
	assert.Equal(t, "Cafe Static", first.VendorName, "vendor fields repeat on every row")

	second := res.Rows[1]
	assert.Equal(t, "Mocha", second.ItemTitle)
	assert.Empty(t, second.Description)
	assert.Equal(t, "110000", second.Price)
}

func TestPrepareInfoOnly(t *testing.T) {
	res := newTestNormalizer(t).Prepare("tf002")

	assert.Equal(t, StatusInfoOnly, res.Status)
	assert.Empty(t, res.Rows)
	assert.Equal(t, "Empty Menu Vendor", res.Vendor.VendorName)
	assert.Equal(t, "[]", res.Vendor.Shifts, "blank shifts cell transcodes to empty list")
	assert.Equal(t, "0", res.Vendor.MinOrder, "blank min_order falls back to 0")
}

func TestPrepareNotFound(t *testing.T) {
	res := newTestNormalizer(t).Prepare("missing")

	assert.Equal(t, StatusNotFound, res.Status)
	assert.Empty(t, res.Rows)
	assert.Equal(t, "missing", res.Vendor.VendorCode)
	assert.Equal(t, "[]", res.Vendor.Shifts)
	assert.Equal(t, "False", res.Vendor.IsExpress)
}

func TestPrepareTrimsCode(t *testing.T) {
	res := newTestNormalizer(t).Prepare("  tf001  ")

	assert.Equal(t, StatusLoaded, res.Status)
	assert.Equal(t, "tf001", res.Vendor.VendorCode)
}
