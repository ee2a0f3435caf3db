package urm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quorumfeed/marketdata/internal/core"
)

// urmIDPattern matches urm://{exchange|*}:{base}/{quote}:{instrument_type}
// optionally followed by :YYYYMMDD and/or :C|P:strike.
var urmIDPattern = regexp.MustCompile(`^urm://([^:]+):([^/]+)/([^:]+):([^:]+)(?::(.+))?$`)

// URMID is a parsed scoped URM identifier, used for logs and inter-system
// references. The router rejects these at the public boundary; only
// canonical BASE/QUOTE strings are accepted there.
type URMID struct {
	Exchange       string // "*" means exchange-agnostic
	Base           string
	Quote          string
	InstrumentType core.InstrumentType
	Suffix         string // raw trailing segment: YYYYMMDD, or "C:strike"/"P:strike"
}

// ParseURMID parses a string of the form
// urm://{exchange|*}:{base}/{quote}:{instrument_type}[:YYYYMMDD][:C|P:strike].
func ParseURMID(raw string) (URMID, error) {
	m := urmIDPattern.FindStringSubmatch(raw)
	if m == nil {
		return URMID{}, fmt.Errorf("malformed urm id: %q", raw)
	}
	return URMID{
		Exchange:       m[1],
		Base:           strings.ToUpper(m[2]),
		Quote:          strings.ToUpper(m[3]),
		InstrumentType: core.InstrumentType(strings.ToLower(m[4])),
		Suffix:         m[5],
	}, nil
}

// ValidateURMID reports whether raw is a well-formed scoped URM id.
func ValidateURMID(raw string) bool {
	_, err := ParseURMID(raw)
	return err == nil
}

// SpecToURMID renders spec as a scoped URM id pinned to exchange (or "*").
func SpecToURMID(exchange string, spec core.InstrumentSpec) string {
	if exchange == "" {
		exchange = "*"
	}
	id := fmt.Sprintf("urm://%s:%s/%s:%s", exchange, spec.Base, spec.Quote, spec.InstrumentType)
	if spec.Expiry != nil {
		id += ":" + *spec.Expiry
	}
	if spec.Strike != nil {
		ot := spec.Metadata["option_type"]
		id += fmt.Sprintf(":%s:%s", ot, *spec.Strike)
	}
	return id
}

// IsURMID is a cheap boundary check used by the router to reject URM-ID
// strings where only canonical BASE/QUOTE is accepted.
func IsURMID(s string) bool {
	return strings.HasPrefix(s, "urm://")
}
