package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"menu-reconciler/internal/common/config"
	"menu-reconciler/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTableIndexesByTrimmedVendorCode(t *testing.T) {
	path := writeCSV(t, "info.csv", "vendor_code,vendor_name,rating\n v1 ,Cafe One,4.5\nv2,Cafe Two,3.9\nv1,Cafe One Again,4.0\n")

	table := LoadTable(path, "vendor_info", logger.NewNoOpLogger())
	assert.Equal(t, 3, table.Len())
	assert.True(t, table.HasColumn("rating"))

	rows := table.RowsFor("v1")
	require.Len(t, rows, 2)
	assert.Equal(t, "Cafe One", rows[0].Get("vendor_name"))
	assert.Equal(t, "Cafe One Again", rows[1].Get("vendor_name"))

	first, ok := table.FirstFor(" v2 ")
	require.True(t, ok)
	assert.Equal(t, "Cafe Two", first.Get("vendor_name"))
}

func TestLoadTableRenamesLegacyCodeColumn(t *testing.T) {
	path := writeCSV(t, "menu.csv", "tf_code,item_name,price\nv9,Pizza,250000\n")

	table := LoadTable(path, "menu_items", logger.NewNoOpLogger())
	assert.Equal(t, 1, table.Len())
	assert.True(t, table.HasColumn("vendor_code"))
	assert.False(t, table.HasColumn("tf_code"))

	row, ok := table.FirstFor("v9")
	require.True(t, ok)
	assert.Equal(t, "Pizza", row.Get("item_name"))
}

func TestLoadTableStripsBOMFromHeader(t *testing.T) {
	path := writeCSV(t, "bom.csv", "\uFEFFvendor_code,vendor_name\nv1,Cafe\n")

	table := LoadTable(path, "vendor_info", logger.NewNoOpLogger())
	assert.Equal(t, 1, table.Len())

	_, ok := table.FirstFor("v1")
	assert.True(t, ok)
}

func TestLoadTableDegradesToEmpty(t *testing.T) {
	log := logger.NewNoOpLogger()

	t.Run("missing file", func(t *testing.T) {
		table := LoadTable(filepath.Join(t.TempDir(), "absent.csv"), "vendor_info", log)
		assert.Equal(t, 0, table.Len())
	})

	t.Run("missing vendor code column", func(t *testing.T) {
		path := writeCSV(t, "nocode.csv", "name,price\nPizza,250000\n")
		table := LoadTable(path, "menu_items", log)
		assert.Equal(t, 0, table.Len())
	})

	t.Run("header only", func(t *testing.T) {
		path := writeCSV(t, "empty.csv", "vendor_code,name\n")
		table := LoadTable(path, "menu_items", log)
		assert.Equal(t, 0, table.Len())
		assert.Empty(t, table.RowsFor("anything"))
	})
}

func TestRowGetDefault(t *testing.T) {
	row := Row{"rating": "4.5", "comment_count": ""}

	assert.Equal(t, "4.5", row.GetDefault("rating", "0"))
	assert.Equal(t, "0", row.GetDefault("comment_count", "0"))
	assert.Equal(t, "0", row.GetDefault("missing", "0"))
}

func TestSnapshotLoad(t *testing.T) {
	dir := t.TempDir()
	infoPath := filepath.Join(dir, "tf_info.csv")
	menuPath := filepath.Join(dir, "tf_menu.csv")
	matchedPath := filepath.Join(dir, "matched.csv")

	require.NoError(t, os.WriteFile(infoPath, []byte("vendor_code,vendor_name\nv1,Cafe\n"), 0o644))
	require.NoError(t, os.WriteFile(menuPath, []byte("tf_code,item_name\nv1,Pizza\n"), 0o644))
	require.NoError(t, os.WriteFile(matchedPath, []byte("tf_code,sf_code\nv1,sf100\n,sf_orphan\n"), 0o644))

	snap := Load(config.DatasetsConfig{
		VendorInfoPath: infoPath,
		MenuItemsPath:  menuPath,
		CrosswalkPath:  matchedPath,
	}, logger.NewNoOpLogger())

	assert.Equal(t, 1, snap.VendorInfo.Len())
	assert.Equal(t, 1, snap.MenuItems.Len())
	assert.Equal(t, 1, snap.Crosswalk.Len())

	snapp, ok := snap.Crosswalk.SnappFor("v1")
	require.True(t, ok)
	assert.Equal(t, "sf100", snapp)
}

func TestSnapshotLoadMissingFiles(t *testing.T) {
	dir := t.TempDir()
	snap := Load(config.DatasetsConfig{
		VendorInfoPath: filepath.Join(dir, "a.csv"),
		MenuItemsPath:  filepath.Join(dir, "b.csv"),
		CrosswalkPath:  filepath.Join(dir, "c.csv"),
	}, logger.NewNoOpLogger())

	assert.Equal(t, 0, snap.VendorInfo.Len())
	assert.Equal(t, 0, snap.MenuItems.Len())
	assert.Equal(t, 0, snap.Crosswalk.Len())
}
