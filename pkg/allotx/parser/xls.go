package parser

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
	"github.com/ukaji3/allotx-go/pkg/allotx/models"
)

// BIFF8 record identifiers.
const (
	recFormula    = 0x0006
	recEOF        = 0x000A
	recDateMode   = 0x0022
	recFilePass   = 0x002F
	recContinue   = 0x003C
	recBoundSheet = 0x0085
	recMulRK      = 0x00BD
	recRString    = 0x00D6
	recXF         = 0x00E0
	recSST        = 0x00FC
	recLabelSST   = 0x00FD
	recNumber     = 0x0203
	recLabel      = 0x0204
	recBoolErr    = 0x0205
	recString     = 0x0207
	recRK         = 0x027E
	recFormat     = 0x041E
	recBOF        = 0x0809
)

const (
	biff8Version   = 0x0600
	bofGlobals     = 0x0005
	bofWorksheet   = 0x0010
	sheetWorksheet = 0x00
	maxXLSColumns  = 256
	maxPreallocSST = 1 << 16
)

// Result types of a FORMULA record whose cached value is not a number.
const (
	formulaString = 0x00
	formulaBool   = 0x01
)

// XLUnicodeString option flags.
const (
	stringHighByte = 0x01
	stringExtended = 0x04
	stringRichText = 0x08
)

var errTruncatedRecord = errors.New("truncated record")

// LoadXLS reads the first worksheet of a legacy BIFF8 .xls workbook into a
// grid. Numbers under date formats become date cells and formula cells carry
// their cached result.
func LoadXLS(data []byte) (*models.Grid, error) {
	stream, err := workbookStream(data)
	if err != nil {
		return nil, err
	}

	book, err := readGlobals(stream)
	if err != nil {
		return nil, err
	}
	if len(book.sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := book.readSheet(stream, book.sheets[0])
	if err != nil {
		return nil, err
	}
	return models.NewGrid(rows), nil
}

// workbookStream returns the Workbook stream of an OLE2 compound file.
func workbookStream(data []byte) ([]byte, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xls workbook: %w", err)
	}

	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if len(entry.Path) != 0 || (entry.Name != "Workbook" && entry.Name != "Book") {
			continue
		}
		if entry.Size <= 0 || entry.Size > int64(len(data)) {
			return nil, fmt.Errorf("%w: workbook stream size %d", ErrUnsupportedXLS, entry.Size)
		}
		buf := make([]byte, entry.Size)
		if _, err := io.ReadFull(entry, buf); err != nil {
			return nil, fmt.Errorf("read workbook stream: %w", err)
		}
		return buf, nil
	}
	return nil, fmt.Errorf("%w: no workbook stream", ErrUnsupportedXLS)
}

// xlsBook holds the workbook globals needed to type worksheet cells.
type xlsBook struct {
	date1904  bool
	formats   map[uint16]string
	xfFormats []uint16
	sst       []string
	// stream offsets of each worksheet's BOF record
	sheets []uint32
}

func readGlobals(stream []byte) (*xlsBook, error) {
	r := &recordReader{buf: stream}
	if err := expectBOF(r, bofGlobals); err != nil {
		return nil, err
	}

	book := &xlsBook{formats: make(map[uint16]string)}
	for {
		id, data, err := r.next()
		if err == io.EOF {
			return book, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read xls globals: %w", err)
		}

		switch id {
		case recEOF:
			return book, nil
		case recFilePass:
			return nil, fmt.Errorf("%w: workbook is encrypted", ErrUnsupportedXLS)
		case recDateMode:
			book.date1904 = len(data) >= 2 && le16(data) == 1
		case recFormat:
			if len(data) < 2 {
				return nil, fmt.Errorf("read FORMAT: %w", errTruncatedRecord)
			}
			code, err := (&continuedReader{segs: [][]byte{data[2:]}}).unicodeString()
			if err != nil {
				return nil, fmt.Errorf("read FORMAT: %w", err)
			}
			book.formats[le16(data)] = code
		case recXF:
			if len(data) < 4 {
				return nil, fmt.Errorf("read XF: %w", errTruncatedRecord)
			}
			book.xfFormats = append(book.xfFormats, le16(data[2:]))
		case recSST:
			segs, err := r.continued(data)
			if err != nil {
				return nil, fmt.Errorf("read SST: %w", err)
			}
			if book.sst, err = parseSST(segs); err != nil {
				return nil, err
			}
		case recBoundSheet:
			if len(data) < 6 {
				return nil, fmt.Errorf("read BOUNDSHEET: %w", errTruncatedRecord)
			}
			if data[5] == sheetWorksheet {
				book.sheets = append(book.sheets, le32(data))
			}
		}
	}
}

// readSheet reads the cell table of the worksheet whose BOF is at offset.
func (b *xlsBook) readSheet(stream []byte, offset uint32) ([]models.Row, error) {
	if int64(offset) >= int64(len(stream)) {
		return nil, fmt.Errorf("%w: sheet offset %d out of range", ErrUnsupportedXLS, offset)
	}
	r := &recordReader{buf: stream, pos: int(offset)}
	if err := expectBOF(r, bofWorksheet); err != nil {
		return nil, err
	}

	sb := &sheetBuilder{}
	// formula cell waiting for the STRING record that holds its result
	var pending *cellPos
	// embedded substreams, such as charts, nest their own BOF/EOF pairs
	depth := 0

	for {
		id, data, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read xls sheet: %w", err)
		}

		switch id {
		case recBOF:
			depth++
			continue
		case recEOF:
			if depth == 0 {
				return sb.rows, nil
			}
			depth--
			continue
		}
		if depth > 0 {
			continue
		}
		if isCellRecord(id) {
			pending = nil
		}

		switch id {
		case recNumber:
			if len(data) < 14 {
				return nil, fmt.Errorf("read NUMBER: %w", errTruncatedRecord)
			}
			v := math.Float64frombits(binary.LittleEndian.Uint64(data[6:]))
			sb.put(cellAt(data), b.number(le16(data[4:]), v))
		case recRK:
			if len(data) < 10 {
				return nil, fmt.Errorf("read RK: %w", errTruncatedRecord)
			}
			sb.put(cellAt(data), b.number(le16(data[4:]), decodeRK(le32(data[6:]))))
		case recMulRK:
			if len(data) < 6 {
				return nil, fmt.Errorf("read MULRK: %w", errTruncatedRecord)
			}
			pos := cellAt(data)
			for off := 4; off+6 <= len(data)-2; off += 6 {
				sb.put(pos, b.number(le16(data[off:]), decodeRK(le32(data[off+2:]))))
				pos.col++
			}
		case recLabelSST:
			if len(data) < 10 {
				return nil, fmt.Errorf("read LABELSST: %w", errTruncatedRecord)
			}
			if idx := le32(data[6:]); int64(idx) < int64(len(b.sst)) {
				sb.put(cellAt(data), models.TextCell(b.sst[idx]))
			}
		case recLabel, recRString:
			if len(data) < 6 {
				return nil, fmt.Errorf("read LABEL: %w", errTruncatedRecord)
			}
			s, err := (&continuedReader{segs: [][]byte{data[6:]}}).unicodeString()
			if err != nil {
				return nil, fmt.Errorf("read LABEL: %w", err)
			}
			sb.put(cellAt(data), models.TextCell(s))
		case recBoolErr:
			if len(data) < 8 {
				return nil, fmt.Errorf("read BOOLERR: %w", errTruncatedRecord)
			}
			// error values such as #DIV/0! stay empty
			if data[7] == 0 {
				sb.put(cellAt(data), models.BoolCell(data[6] != 0))
			}
		case recFormula:
			if len(data) < 14 {
				return nil, fmt.Errorf("read FORMULA: %w", errTruncatedRecord)
			}
			pos := cellAt(data)
			if data[12] != 0xFF || data[13] != 0xFF {
				v := math.Float64frombits(binary.LittleEndian.Uint64(data[6:]))
				sb.put(pos, b.number(le16(data[4:]), v))
				continue
			}
			switch data[6] {
			case formulaString:
				pending = &pos
			case formulaBool:
				sb.put(pos, models.BoolCell(data[8] != 0))
			}
		case recString:
			if pending == nil {
				continue
			}
			segs, err := r.continued(data)
			if err != nil {
				return nil, fmt.Errorf("read STRING: %w", err)
			}
			s, err := (&continuedReader{segs: segs}).unicodeString()
			if err != nil {
				return nil, fmt.Errorf("read STRING: %w", err)
			}
			sb.put(*pending, models.TextCell(s))
			pending = nil
		}
	}
	return sb.rows, nil
}

// number types a stored number by the number format of its XF record.
func (b *xlsBook) number(xf uint16, v float64) models.Cell {
	kind := notDate
	if int(xf) < len(b.xfFormats) {
		id := b.xfFormats[xf]
		if code, ok := b.formats[id]; ok {
			kind = classifyFormatCode(code)
		} else {
			kind = classifyBuiltInFormat(int(id))
		}
	}
	return numberCell(v, kind, b.date1904)
}

func isCellRecord(id uint16) bool {
	switch id {
	case recNumber, recRK, recMulRK, recLabelSST, recLabel, recRString, recBoolErr, recFormula:
		return true
	}
	return false
}

// decodeRK unpacks the compressed RK number form.
func decodeRK(rk uint32) float64 {
	var v float64
	if rk&0x02 != 0 {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	}
	if rk&0x01 != 0 {
		v /= 100
	}
	return v
}

func expectBOF(r *recordReader, kind uint16) error {
	id, data, err := r.next()
	if err != nil || id != recBOF || len(data) < 4 {
		return fmt.Errorf("%w: missing BOF record", ErrUnsupportedXLS)
	}
	if v := le16(data); v != biff8Version {
		return fmt.Errorf("%w: BIFF version 0x%04x", ErrUnsupportedXLS, v)
	}
	if t := le16(data[2:]); t != kind {
		return fmt.Errorf("%w: substream type 0x%04x", ErrUnsupportedXLS, t)
	}
	return nil
}

type cellPos struct {
	row, col int
}

func cellAt(data []byte) cellPos {
	return cellPos{row: int(le16(data)), col: int(le16(data[2:]))}
}

// sheetBuilder collects sparse cell records into rows.
type sheetBuilder struct {
	rows []models.Row
}

func (s *sheetBuilder) put(pos cellPos, cell models.Cell) {
	if pos.col >= maxXLSColumns || cell.IsEmpty() {
		return
	}
	if cell.Kind == models.CellText && cell.Text == "" {
		return
	}

	for len(s.rows) <= pos.row {
		s.rows = append(s.rows, nil)
	}
	row := s.rows[pos.row]
	if len(row) <= pos.col {
		grown := make(models.Row, pos.col+1)
		copy(grown, row)
		row = grown
	}
	row[pos.col] = cell
	s.rows[pos.row] = row
}

// recordReader walks the records of a BIFF stream.
type recordReader struct {
	buf []byte
	pos int
}

func (r *recordReader) next() (uint16, []byte, error) {
	if r.pos >= len(r.buf) {
		return 0, nil, io.EOF
	}
	if r.pos+4 > len(r.buf) {
		return 0, nil, errTruncatedRecord
	}

	id := le16(r.buf[r.pos:])
	start := r.pos + 4
	end := start + int(le16(r.buf[r.pos+2:]))
	if end > len(r.buf) {
		return 0, nil, errTruncatedRecord
	}
	r.pos = end
	return id, r.buf[start:end], nil
}

func (r *recordReader) peek() uint16 {
	if r.pos+4 > len(r.buf) {
		return 0
	}
	return le16(r.buf[r.pos:])
}

// continued returns data followed by the bodies of any CONTINUE records
// that immediately follow it.
func (r *recordReader) continued(data []byte) ([][]byte, error) {
	segs := [][]byte{data}
	for r.peek() == recContinue {
		_, more, err := r.next()
		if err != nil {
			return nil, err
		}
		segs = append(segs, more)
	}
	return segs, nil
}

// continuedReader reads a record body split over CONTINUE records.
type continuedReader struct {
	segs [][]byte
	seg  int
	pos  int
}

func (c *continuedReader) remaining() int {
	if c.seg >= len(c.segs) {
		return 0
	}
	return len(c.segs[c.seg]) - c.pos
}

// advance moves past exhausted segments and reports whether data is left.
func (c *continuedReader) advance() bool {
	for c.seg < len(c.segs) && c.remaining() == 0 {
		c.seg++
		c.pos = 0
	}
	return c.seg < len(c.segs)
}

func (c *continuedReader) read(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		if !c.advance() {
			return nil, errTruncatedRecord
		}
		k := min(n-len(out), c.remaining())
		out = append(out, c.segs[c.seg][c.pos:c.pos+k]...)
		c.pos += k
	}
	return out, nil
}

func (c *continuedReader) skip(n int) error {
	for n > 0 {
		if !c.advance() {
			return errTruncatedRecord
		}
		k := min(n, c.remaining())
		c.pos += k
		n -= k
	}
	return nil
}

// unicodeString reads an XLUnicodeRichExtendedString. When its characters
// run into the next segment, that segment restates the width flag in its
// first byte.
func (c *continuedReader) unicodeString() (string, error) {
	head, err := c.read(3)
	if err != nil {
		return "", err
	}
	cch := int(le16(head))
	flags := head[2]

	runs, ext := 0, 0
	if flags&stringRichText != 0 {
		b, err := c.read(2)
		if err != nil {
			return "", err
		}
		runs = int(le16(b))
	}
	if flags&stringExtended != 0 {
		b, err := c.read(4)
		if err != nil {
			return "", err
		}
		ext = int(le32(b))
	}

	wide := flags&stringHighByte != 0
	units := make([]uint16, 0, cch)
	for len(units) < cch {
		if c.remaining() == 0 {
			if !c.advance() {
				return "", errTruncatedRecord
			}
			wide = c.segs[c.seg][c.pos]&stringHighByte != 0
			c.pos++
			continue
		}
		if !wide {
			units = append(units, uint16(c.segs[c.seg][c.pos]))
			c.pos++
			continue
		}
		if c.remaining() < 2 {
			return "", errTruncatedRecord
		}
		units = append(units, le16(c.segs[c.seg][c.pos:]))
		c.pos += 2
	}

	if err := c.skip(4*runs + ext); err != nil {
		return "", err
	}
	return string(utf16.Decode(units)), nil
}

// parseSST reads the shared string table from an SST record and its
// CONTINUE records.
func parseSST(segs [][]byte) ([]string, error) {
	c := &continuedReader{segs: segs}
	head, err := c.read(8)
	if err != nil {
		return nil, fmt.Errorf("read SST header: %w", err)
	}

	count := int(le32(head[4:]))
	strs := make([]string, 0, min(count, maxPreallocSST))
	for i := 0; i < count; i++ {
		s, err := c.unicodeString()
		if err != nil {
			return nil, fmt.Errorf("read shared string %d: %w", i, err)
		}
		strs = append(strs, s)
	}
	return strs, nil
}

func le16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

func le32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
