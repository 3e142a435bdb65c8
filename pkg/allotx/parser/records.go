package parser

import "github.com/ukaji3/allotx-go/pkg/allotx/models"

// BuildRecords converts the rows of one block into records. The block's
// first row names the fields; a cell is kept only when both its field name
// and its value are non-empty, and rows without any kept cell are dropped.
func BuildRecords(rows [][]string, block Block) []*models.Fields {
	if block.Start < 0 || block.Start >= block.End || block.End > len(rows) {
		return nil
	}

	names := rows[block.Start]
	var records []*models.Fields
	for _, row := range rows[block.Start+1 : block.End] {
		record := models.NewFields()
		for col, name := range names {
			if name == "" || col >= len(row) || row[col] == "" {
				continue
			}
			record.Set(name, row[col])
		}
		if record.Len() > 0 {
			records = append(records, record)
		}
	}
	return records
}

// BuildTables builds the records of every block, skipping blocks that
// yield no records.
func BuildTables(rows [][]string, blocks []Block) []models.Table {
	tables := make([]models.Table, 0, len(blocks))
	for _, block := range blocks {
		records := BuildRecords(rows, block)
		if len(records) == 0 {
			continue
		}
		tables = append(tables, models.Table{
			StartRow: block.Start,
			Records:  records,
		})
	}
	return tables
}
