package io

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// LoadExcel reads a worksheet whose first row is the header
func LoadExcel(fileName, sheet string, categorical Set) (*Dataset, []DataError, error) {
	f, err := excelize.OpenFile(fileName)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening workbook %s: %w", fileName, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("workbook %s has no sheets", fileName)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading sheet %s: %w", sheet, err)
	}
	return fromRows(rows, categorical)
}

// fromRows builds a dataset from a header row followed by records. Spreadsheet
// readers drop trailing empty cells, so short rows are padded before checking.
func fromRows(rows [][]string, categorical Set) (*Dataset, []DataError, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("error reading data header: no rows")
	}
	b, err := newBuilder(trimAll(rows[0]), categorical)
	if err != nil {
		return nil, nil, err
	}
	var errors []DataError
	for i, row := range rows[1:] {
		if len(row) < len(b.header) {
			padded := make([]string, len(b.header))
			copy(padded, row)
			row = padded
		}
		if dataErr := b.add(i+2, trimAll(row)); dataErr != nil {
			errors = append(errors, *dataErr)
		}
	}
	ds, err := b.build()
	if err != nil {
		return nil, nil, err
	}
	return ds, errors, nil
}
