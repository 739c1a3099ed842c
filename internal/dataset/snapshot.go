package dataset

import (
	"encoding/csv"
	"os"
	"strings"

	"menu-reconciler/internal/common/config"
	"menu-reconciler/internal/common/logger"
	"menu-reconciler/internal/crosswalk"
)

// Snapshot bundles the three startup datasets: the TapsiFood vendor-info
// table, the TapsiFood menu-item table, and the matched-vendors crosswalk.
// A Snapshot is immutable once loaded.
type Snapshot struct {
	VendorInfo *Table
	MenuItems  *Table
	Crosswalk  *crosswalk.Crosswalk
}

// Load reads the configured dataset files. Load never fails: a missing or
// invalid file degrades its slice of the snapshot to empty and is logged, so
// a run can still serve the platforms whose data did load.
func Load(cfg config.DatasetsConfig, log logger.Logger) *Snapshot {
	return &Snapshot{
		VendorInfo: LoadTable(cfg.VendorInfoPath, "tapsifood_vendor_info", log),
		MenuItems:  LoadTable(cfg.MenuItemsPath, "tapsifood_menu_items", log),
		Crosswalk:  crosswalk.New(loadPairs(cfg.CrosswalkPath, log)),
	}
}

// crosswalk CSV column names
const (
	tapsiCodeColumn = "tf_code"
	snappCodeColumn = "sf_code"
)

func loadPairs(path string, log logger.Logger) []crosswalk.Pair {
	f, err := os.Open(path)
	if err != nil {
		log.Warn("matched vendors file not found, crosswalk empty", map[string]interface{}{
			"path": path,
		})
		return nil
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		log.Error("failed to parse matched vendors CSV", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return nil
	}
	if len(records) == 0 {
		return nil
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	tapsiIdx, snappIdx := -1, -1
	for i, col := range header {
		switch col {
		case tapsiCodeColumn:
			tapsiIdx = i
		case snappCodeColumn:
			snappIdx = i
		}
	}
	if tapsiIdx < 0 || snappIdx < 0 {
		log.Error("matched vendors CSV missing required columns, crosswalk empty", map[string]interface{}{
			"path":    path,
			"columns": []string{tapsiCodeColumn, snappCodeColumn},
		})
		return nil
	}

	pairs := make([]crosswalk.Pair, 0, len(records)-1)
	for _, rec := range records[1:] {
		var p crosswalk.Pair
		if tapsiIdx < len(rec) {
			p.TapsiCode = rec[tapsiIdx]
		}
		if snappIdx < len(rec) {
			p.SnappCode = rec[snappIdx]
		}
		pairs = append(pairs, p)
	}

	log.Info("loaded matched vendors crosswalk", map[string]interface{}{
		"path":  path,
		"pairs": len(pairs),
	})
	return pairs
}
