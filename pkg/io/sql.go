package io

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
)

// LoadSQL runs query against the database and reads every returned row as a
// sample. The driver must have been registered by the caller.
func LoadSQL(ctx context.Context, driver, dsn, query string, categorical Set) (*Dataset, []DataError, error) {
	if driver == "" {
		return nil, nil, fmt.Errorf("no sql driver specified")
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening %s database: %w", driver, err)
	}
	defer db.Close()
	return QuerySQL(ctx, db, query, categorical)
}

func QuerySQL(ctx context.Context, db *sqlx.DB, query string, categorical Set) (*Dataset, []DataError, error) {
	rows, err := db.QueryxContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("error running query: %w", err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("error reading query columns: %w", err)
	}
	b, err := newBuilder(header, categorical)
	if err != nil {
		return nil, nil, err
	}

	var errors []DataError
	line := 0
	for rows.Next() {
		line++
		values, err := rows.SliceScan()
		if err != nil {
			return nil, nil, fmt.Errorf("error scanning row %d: %w", line, err)
		}
		record := make([]string, len(values))
		for j, v := range values {
			record[j] = sqlValueString(v)
		}
		if dataErr := b.add(line, record); dataErr != nil {
			errors = append(errors, *dataErr)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rows: %w", err)
	}

	ds, err := b.build()
	if err != nil {
		return nil, nil, err
	}
	return ds, errors, nil
}

// sqlValueString renders a scanned value the way it would appear in a CSV file.
// NULL becomes the empty string, which the builder reports as a missing value.
func sqlValueString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(value)
	case string:
		return value
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case time.Time:
		return value.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", value)
	}
}
