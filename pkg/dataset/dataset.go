// Package dataset extracts experiment topics from an Excel workbook. Each
// sheet is one subject; rows supply the sub-subject and the experiment name.
package dataset

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"
)

// Record is one experiment topic pulled from the workbook. Idx doubles as the
// record identity and, sanitized, as the output filename stem.
type Record struct {
	Idx         string
	Subject     string
	SubSubject  string
	Requirement string
}

const (
	colSubSubject  = "sub-subject"
	colRequirement = "requirement_name"
)

// Load reads every sheet of the workbook at path. Sheets without the required
// columns are skipped with a warning, as are rows with blank or "nan" cells.
// Header matching is case-insensitive.
func Load(path string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	var records []Record
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			log.Warn("empty sheet, skipping", "sheet", sheet)
			continue
		}

		columns := headerIndex(rows[0])
		subCol, okSub := columns[colSubSubject]
		reqCol, okReq := columns[colRequirement]
		if !okSub || !okReq {
			log.Warn("sheet is missing required columns, skipping",
				"sheet", sheet, "required", []string{colSubSubject, colRequirement})
			continue
		}

		subject := strings.TrimSpace(sheet)
		for i, row := range rows[1:] {
			sub := cell(row, subCol)
			req := cell(row, reqCol)
			if sub == "" || req == "" || sub == "nan" || req == "nan" {
				log.Warn("blank or invalid row, skipping", "sheet", sheet, "row", i)
				continue
			}
			records = append(records, Record{
				Idx:         fmt.Sprintf("%d-%s-%s-%s", i, subject, sub, req),
				Subject:     subject,
				SubSubject:  sub,
				Requirement: req,
			})
		}
	}

	log.Info("workbook processed", "path", path, "records", len(records))
	return records, nil
}

func headerIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return columns
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
