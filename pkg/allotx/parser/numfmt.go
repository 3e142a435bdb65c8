package parser

import (
	"strings"

	"github.com/ukaji3/allotx-go/pkg/allotx/models"
	"github.com/xuri/excelize/v2"
)

// dateKind classifies a number format.
type dateKind int

const (
	notDate dateKind = iota
	dateValue
	timeValue
)

// numberCell types a stored number by the kind of its number format.
// Serials under a date format become dates; under a time-only format they
// become "15:04:05" text.
func numberCell(v float64, kind dateKind, date1904 bool) models.Cell {
	switch kind {
	case dateValue:
		if t, err := excelize.ExcelDateToTime(v, date1904); err == nil {
			return models.DateCell(t)
		}
	case timeValue:
		if t, err := excelize.ExcelDateToTime(v, date1904); err == nil {
			return models.TextCell(t.Format("15:04:05"))
		}
	}
	return models.NumberCell(v)
}

// classifyBuiltInFormat classifies Excel's built-in number format ids.
func classifyBuiltInFormat(id int) dateKind {
	switch {
	case id >= 18 && id <= 21, id >= 45 && id <= 47:
		return timeValue
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 50 && id <= 58, id >= 71 && id <= 81:
		return dateValue
	default:
		return notDate
	}
}

// classifyFormatCode classifies a custom number format code.
// Quoted literals, bracketed sections and escaped characters are ignored.
func classifyFormatCode(code string) dateKind {
	// only the positive section matters
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}

	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			if r == '"' {
				inQuote = false
			}
		case inBracket:
			if r == ']' {
				inBracket = false
			}
		case r == '\\', r == '_', r == '*':
			// escape, padding and fill directives each consume the next character
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		default:
			b.WriteRune(r)
		}
	}

	tokens := strings.ToLower(b.String())
	switch {
	case strings.ContainsAny(tokens, "dy"):
		return dateValue
	case strings.ContainsAny(tokens, "hs"):
		return timeValue
	case strings.Contains(tokens, "m") && !strings.Contains(tokens, "general"):
		return dateValue
	default:
		return notDate
	}
}
