// Package crosswalk maintains the bidirectional vendor-code mapping between
// the TapsiFood and SnappFood platforms. It is built once at startup from the
// matched-vendors table and is read-only afterwards; reloading means building
// a new Crosswalk and swapping the reference.
package crosswalk

import "strings"

// Platform guess labels reported by Resolve. The values are part of the
// result shape consumed by clients, so they match the export wire format.
const (
	GuessTapsifood = "tapsifood"
	GuessSnappfood = "snappfood"
	GuessUnmapped  = "snappfood_or_unmapped"
	GuessUnknown   = "unknown"

	// GuessTapsifoodFallback marks a result produced by retrying the literal
	// identifier as a TapsiFood code after the SnappFood side came up empty.
	GuessTapsifoodFallback = "tapsifood_after_sf_fail"
)

// Pair is one crosswalk row: the same vendor's code on each platform.
type Pair struct {
	TapsiCode string
	SnappCode string
}

// Resolution is the outcome of classifying one identifier. An unset code
// means no counterpart is known on that platform.
type Resolution struct {
	TapsiCode string
	SnappCode string
	Guess     string
}

// Crosswalk holds the two lookup maps. Each map is the literal inverse of the
// other.
type Crosswalk struct {
	tapsiToSnapp map[string]string
	snappToTapsi map[string]string
}

// New builds a Crosswalk from raw pairs. Codes are trimmed; pairs with a
// blank side are excluded; on duplicate keys the last-seen pair wins.
func New(pairs []Pair) *Crosswalk {
	cw := &Crosswalk{
		tapsiToSnapp: make(map[string]string, len(pairs)),
		snappToTapsi: make(map[string]string, len(pairs)),
	}

	for _, p := range pairs {
		tapsi := strings.TrimSpace(p.TapsiCode)
		snapp := strings.TrimSpace(p.SnappCode)
		if tapsi == "" || snapp == "" {
			continue
		}
		cw.tapsiToSnapp[tapsi] = snapp
		cw.snappToTapsi[snapp] = tapsi
	}

	return cw
}

// Len returns the number of mapped pairs.
func (c *Crosswalk) Len() int {
	return len(c.tapsiToSnapp)
}

// SnappFor returns the SnappFood counterpart of a TapsiFood code.
func (c *Crosswalk) SnappFor(tapsiCode string) (string, bool) {
	code, ok := c.tapsiToSnapp[tapsiCode]
	return code, ok
}

// TapsiFor returns the TapsiFood counterpart of a SnappFood code.
func (c *Crosswalk) TapsiFor(snappCode string) (string, bool) {
	code, ok := c.snappToTapsi[snappCode]
	return code, ok
}

// Resolve classifies a free-text identifier. It is checked against the
// TapsiFood map first, then the SnappFood map; an identifier in neither is
// assumed to be a SnappFood code (possibly unmapped) and probed for a known
// TapsiFood counterpart.
func (c *Crosswalk) Resolve(identifier string) Resolution {
	if snapp, ok := c.tapsiToSnapp[identifier]; ok {
		return Resolution{TapsiCode: identifier, SnappCode: snapp, Guess: GuessTapsifood}
	}

	if tapsi, ok := c.snappToTapsi[identifier]; ok {
		return Resolution{TapsiCode: tapsi, SnappCode: identifier, Guess: GuessSnappfood}
	}

	return Resolution{SnappCode: identifier, Guess: GuessUnmapped}
}
