package parser

import "errors"

// ErrBinaryInput indicates delimited-text input that contains binary data.
var ErrBinaryInput = errors.New("input is not delimited text")

// ErrNoSheets indicates a workbook without any worksheet.
var ErrNoSheets = errors.New("workbook has no sheets")

// ErrUnsupportedXLS indicates an .xls file that is not a readable BIFF8 workbook.
var ErrUnsupportedXLS = errors.New("unsupported xls workbook")
