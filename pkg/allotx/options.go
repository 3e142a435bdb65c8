// Package allotx extracts header metadata and allottee tables from
// loosely formatted spreadsheets.
package allotx

import "github.com/ukaji3/allotx-go/pkg/allotx/parser"

// HeaderScope selects which rows may contribute header entries.
type HeaderScope = parser.HeaderScope

const (
	// HeaderScopeOutside collects header entries only outside table blocks.
	HeaderScopeOutside = parser.HeaderScopeOutside
	// HeaderScopeAll collects header entries from every row.
	HeaderScopeAll = parser.HeaderScopeAll
)

// Options configures extraction behavior.
type Options struct {
	// HeaderScope selects which rows may contribute header entries.
	// Empty means HeaderScopeOutside.
	HeaderScope HeaderScope
	// MaxFileSize bounds the number of bytes read from the input.
	// Zero means no limit.
	MaxFileSize int64
	// Params overrides table detection parameters.
	// If nil, DefaultTableParams is used.
	Params *parser.TableDetectionParams
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{
		HeaderScope: HeaderScopeOutside,
	}
}

// TableParams returns the table detection parameters to use.
func (o Options) TableParams() parser.TableDetectionParams {
	params := parser.DefaultTableParams()
	if o.Params != nil {
		params = *o.Params
	}
	return params
}
