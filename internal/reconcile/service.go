package reconcile

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"menu-reconciler/internal/common/logger"
	"menu-reconciler/internal/common/metrics"
	"menu-reconciler/internal/common/observability"
	"menu-reconciler/internal/crosswalk"
	"menu-reconciler/internal/export"
	"menu-reconciler/internal/menu"
	"menu-reconciler/internal/snappfood"
	"menu-reconciler/internal/tapsifood"

	"github.com/google/uuid"
)

// ErrNoIdentifier is returned when the run is started with a blank identifier.
var ErrNoIdentifier = stderrors.New("no identifier provided")

// MenuFetcher is the live-platform fetch contract consumed by the service.
type MenuFetcher interface {
	Fetch(ctx context.Context, vendorCode string) (map[string]interface{}, error)
	LastError() error
}

// Service runs the reconciliation pipeline for one identifier at a time.
type Service struct {
	fetcher   MenuFetcher
	sfNorm    *snappfood.Normalizer
	tfNorm    *tapsifood.Normalizer
	crosswalk *crosswalk.Crosswalk
	obs       *observability.Observability
	logger    logger.Logger
	now       func() time.Time
}

// NewService wires the orchestrator. obs may be nil.
func NewService(
	fetcher MenuFetcher,
	sfNorm *snappfood.Normalizer,
	tfNorm *tapsifood.Normalizer,
	cw *crosswalk.Crosswalk,
	obs *observability.Observability,
	log logger.Logger,
) *Service {
	return &Service{
		fetcher:   fetcher,
		sfNorm:    sfNorm,
		tfNorm:    tfNorm,
		crosswalk: cw,
		obs:       obs,
		logger:    log,
		now:       time.Now,
	}
}

// Execute runs one reconciliation. The live platform is processed first, then
// the static platform; when the identifier is unmapped and the live side
// produced nothing, the literal identifier is retried as a static-platform
// code. The heuristic can misfire on code collisions across platforms, which
// is why the retry is labeled with its own platform guess.
func (s *Service) Execute(ctx context.Context, identifier string) (*Result, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrNoIdentifier
	}

	start := s.now()
	log := s.logger.WithFields(map[string]interface{}{
		"requestId":  uuid.NewString(),
		"identifier": identifier,
	})
	log.Info("reconciliation run started", nil)

	res := s.crosswalk.Resolve(identifier)
	log.Info("identifier resolved", map[string]interface{}{
		"platformGuess": res.Guess,
		"snappCode":     res.SnappCode,
		"tapsiCode":     res.TapsiCode,
	})

	result := &Result{
		Success:         true,
		QueryIdentifier: identifier,
		PlatformGuess:   res.Guess,
		Snappfood:       newPlatformResult(firstNonEmpty(res.SnappCode, identifier)),
		Tapsifood:       newPlatformResult(firstNonEmpty(res.TapsiCode, identifier)),
	}

	if res.SnappCode != "" {
		s.processSnappfood(ctx, res.SnappCode, &result.Snappfood, log)
	} else {
		log.Info("no live platform code determined", nil)
	}

	if res.TapsiCode != "" {
		s.processTapsifood(res.TapsiCode, &result.Tapsifood, log)
	} else {
		log.Info("no static platform code determined", nil)
	}

	// Unmapped identifier, live side empty: the input may have been a static
	// platform code with no crosswalk entry. Retry it verbatim.
	if res.Guess == crosswalk.GuessUnmapped && !result.Snappfood.DataLoaded && res.TapsiCode == "" {
		log.Info("live platform produced no data, retrying identifier on static platform", nil)
		result.Tapsifood.OriginalIdentifier = identifier
		s.processTapsifood(identifier, &result.Tapsifood, log)
		if result.Tapsifood.DataLoaded && result.Tapsifood.CSVData != "" {
			result.PlatformGuess = crosswalk.GuessTapsifoodFallback
		}
	}

	s.finalize(result, res, log)

	outcome := "success"
	if !result.Success {
		outcome = "failure"
	}
	metrics.ReconcileRuns.WithLabelValues(outcome).Inc()
	metrics.ReconcileDuration.WithLabelValues(result.PlatformGuess).Observe(s.now().Sub(start).Seconds())
	if s.obs != nil {
		s.obs.RecordRun(ctx, outcome)
		s.obs.RecordRunDuration(ctx, s.now().Sub(start), outcome)
	}

	log.Info("reconciliation run finished", map[string]interface{}{
		"success":         result.Success,
		"platformGuess":   result.PlatformGuess,
		"snappfoodLoaded": result.Snappfood.DataLoaded,
		"tapsifoodLoaded": result.Tapsifood.DataLoaded,
	})
	return result, nil
}

func (s *Service) processSnappfood(ctx context.Context, code string, pr *PlatformResult, log logger.Logger) {
	pr.OriginalIdentifier = code

	payload, err := s.fetcher.Fetch(ctx, code)
	if err != nil {
		pr.Error = errorMessage(s.fetcher.LastError(), err)
		log.Error("live platform processing failed", map[string]interface{}{
			"vendorCode": code,
			"error":      pr.Error,
		})
		return
	}

	rows, vendor, err := s.sfNorm.Normalize(payload, code)
	pr.VendorInfo = vendor
	if err != nil {
		pr.Error = err.Error()
		log.Error("live payload normalization failed", map[string]interface{}{
			"vendorCode": code,
			"error":      pr.Error,
		})
		return
	}
	if len(rows) == 0 {
		pr.Error = "no menu items found for " + code
		log.Warn("live platform returned no menu items", map[string]interface{}{
			"vendorCode": code,
		})
		return
	}

	content, err := export.Render(rows)
	if err != nil {
		pr.Error = "failed to render export: " + err.Error()
		log.Error("export rendering failed", map[string]interface{}{
			"vendorCode": code,
			"error":      err.Error(),
		})
		return
	}

	pr.DataLoaded = true
	pr.Rows = rows
	pr.CSVData = content
	pr.Filename = export.Filename(export.PrefixSnappfood, code, s.now())
	log.Info("live platform data processed", map[string]interface{}{
		"vendorCode": code,
		"rows":       len(rows),
	})
}

func (s *Service) processTapsifood(code string, pr *PlatformResult, log logger.Logger) {
	pr.OriginalIdentifier = code

	prep := s.tfNorm.Prepare(code)
	pr.VendorInfo = prep.Vendor

	switch prep.Status {
	case tapsifood.StatusNotFound:
		if pr.Error == "" {
			pr.Error = "no static platform data could be prepared for " + code
		}
		log.Warn("static platform vendor not found", map[string]interface{}{
			"vendorCode": code,
		})

	case tapsifood.StatusInfoOnly:
		// vendor info alone is still loadable data
		pr.DataLoaded = true
		if pr.Error == "" {
			pr.Error = "vendor info loaded, but no menu items found for " + code
		}
		log.Warn("static platform has vendor info but no menu", map[string]interface{}{
			"vendorCode": code,
		})

	case tapsifood.StatusLoaded:
		content, err := export.Render(prep.Rows)
		if err != nil {
			pr.Error = "failed to render export: " + err.Error()
			log.Error("export rendering failed", map[string]interface{}{
				"vendorCode": code,
				"error":      err.Error(),
			})
			return
		}
		pr.DataLoaded = true
		pr.Rows = prep.Rows
		pr.CSVData = content
		pr.Filename = export.Filename(export.PrefixTapsifood, code, s.now())
		pr.Error = ""
		log.Info("static platform data processed", map[string]interface{}{
			"vendorCode": code,
			"rows":       len(prep.Rows),
		})
	}
}

// finalize applies the overall-success rule: false only when no platform
// loaded data and an attempted platform reported an error.
func (s *Service) finalize(result *Result, res crosswalk.Resolution, log logger.Logger) {
	if result.Snappfood.DataLoaded || result.Tapsifood.DataLoaded {
		return
	}

	sfAttempted := res.SnappCode != ""
	tfAttempted := res.TapsiCode != "" || result.PlatformGuess == crosswalk.GuessTapsifoodFallback ||
		(res.Guess == crosswalk.GuessUnmapped && result.Tapsifood.OriginalIdentifier == result.QueryIdentifier)

	if (sfAttempted && result.Snappfood.Error != "") || (tfAttempted && result.Tapsifood.Error != "") {
		result.Success = false
		log.Warn("no platform produced data", map[string]interface{}{
			"snappfoodError": result.Snappfood.Error,
			"tapsifoodError": result.Tapsifood.Error,
		})
	}
}

func newPlatformResult(identifier string) PlatformResult {
	return PlatformResult{
		OriginalIdentifier: identifier,
		VendorInfo:         menu.DefaultVendorRecord(identifier),
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// errorMessage prefers the fetcher's last-error slot, which names the real
// per-attempt cause rather than the exhaustion wrapper.
func errorMessage(lastErr, err error) string {
	if lastErr != nil {
		return lastErr.Error()
	}
	return err.Error()
}
