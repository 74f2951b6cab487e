package io

import (
	"context"
	"encoding/csv"
	"fmt"
	gio "io"
	"os"
	"path/filepath"
	"strings"
)

type DataParameters struct {
	DataFile           string
	CategoricalColumns Set

	// Sheet selects the worksheet of an .xlsx file. The first sheet is used when empty.
	Sheet string

	// SQLDriver, SQLDSN and SQLQuery load the dataset from a database instead of DataFile
	SQLDriver string
	SQLDSN    string
	SQLQuery  string
}

// LoadData reads the dataset described by p. Records that cannot be used are
// skipped and reported as DataErrors.
func LoadData(ctx context.Context, p DataParameters) (*Dataset, []DataError, error) {
	if p.SQLQuery != "" {
		return LoadSQL(ctx, p.SQLDriver, p.SQLDSN, p.SQLQuery, p.CategoricalColumns)
	}
	if p.DataFile == "" {
		return nil, nil, fmt.Errorf("no data file specified")
	}
	switch strings.ToLower(filepath.Ext(p.DataFile)) {
	case ".xlsx":
		return LoadExcel(p.DataFile, p.Sheet, p.CategoricalColumns)
	default:
		return LoadCSV(p.DataFile, p.CategoricalColumns)
	}
}

func LoadCSV(fileName string, categorical Set) (*Dataset, []DataError, error) {
	inputFile, err := os.Open(fileName)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening file: %w", err)
	}
	defer inputFile.Close()
	return ReadCSV(inputFile, categorical)
}

// ReadCSV reads comma separated records. The first line is expected to be a header.
func ReadCSV(input gio.Reader, categorical Set) (*Dataset, []DataError, error) {
	var errors []DataError

	reader := csv.NewReader(input)
	reader.Comma = ','
	reader.FieldsPerRecord = -1

	record, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("error reading data header: %w", err)
	}
	b, err := newBuilder(trimAll(record), categorical)
	if err != nil {
		return nil, nil, err
	}

	currentLine := 1
	for record, err = reader.Read(); err == nil; record, err = reader.Read() {
		currentLine++
		if dataErr := b.add(currentLine, trimAll(record)); dataErr != nil {
			errors = append(errors, *dataErr)
		}
	}
	if err != gio.EOF {
		return nil, nil, fmt.Errorf("error reading data at line %d: %w", currentLine+1, err)
	}

	ds, err := b.build()
	if err != nil {
		return nil, nil, err
	}
	return ds, errors, nil
}

func trimAll(record []string) []string {
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	return record
}
