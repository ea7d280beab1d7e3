package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ucscGenomeBrowser/kent-sub001/logger"
	"go.uber.org/zap"
)

// ExportCV replaces the stored vocabulary with inv. Every field value of
// every term becomes a cv_values row.
func (s *Store) ExportCV(ctx context.Context, inv *Inventory) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"cv_values", "cv_terms", "cv_fields", "cv_types"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		termID := 0
		for i, t := range inv.Types {
			typeID := i + 1
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO cv_types (id, name, symbol, description, count) VALUES (?, ?, ?, ?, ?)`,
				typeID, t.Name, t.Symbol, t.Description, t.Count); err != nil {
				return fmt.Errorf("insert type %s: %w", t.Name, err)
			}
			for pos, f := range t.Fields {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO cv_fields (type_id, position, name, column_name, val_type, count, unique_count, max_size, optional)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					typeID, pos, f.Name, f.Column, f.ValType().String(), f.Count, f.Unique(), f.MaxSize, t.Optional(f)); err != nil {
					return fmt.Errorf("insert field %s.%s: %w", t.Name, f.Name, err)
				}
			}
			for _, term := range t.Terms {
				termID++
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO cv_terms (id, type_id, term, tag) VALUES (?, ?, ?, ?)`,
					termID, typeID, term.Term(), term.Value("tag")); err != nil {
					return fmt.Errorf("insert term %s: %w", term.Name(), err)
				}
				for _, e := range term.Entries() {
					if e.Passthrough {
						continue
					}
					if _, err := tx.ExecContext(ctx,
						`INSERT INTO cv_values (term_id, field, value) VALUES (?, ?, ?)`,
						termID, e.Key, e.Value); err != nil {
						return fmt.Errorf("insert value %s.%s: %w", term.Name(), e.Key, err)
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("Exported controlled vocabulary", zap.String("db", s.path), zap.Int("types", len(inv.Types)))
	return nil
}

// TypeCount is one row of the exported type table.
type TypeCount struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Count  int    `json:"count"`
}

// Types lists the exported stanza types in export order.
func (s *Store) Types(ctx context.Context) ([]TypeCount, error) {
	rows, err := s.sql.QueryContext(ctx, `SELECT name, symbol, count FROM cv_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select types: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []TypeCount
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Name, &tc.Symbol, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan type: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// TermValues returns the stored fields of one term of a type.
func (s *Store) TermValues(ctx context.Context, typeName, term string) (map[string]string, error) {
	rows, err := s.sql.QueryContext(ctx, `
		SELECT v.field, v.value
		FROM cv_values v
		JOIN cv_terms t ON t.id = v.term_id
		JOIN cv_types ty ON ty.id = t.type_id
		WHERE (ty.name = ? OR ty.symbol = ?) AND t.term = ?`, typeName, typeName, term)
	if err != nil {
		return nil, fmt.Errorf("select term values: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		out[field] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, typeName, term)
	}
	return out, nil
}

// FieldColumns lists the snake_case column names of a type in field order.
func (s *Store) FieldColumns(ctx context.Context, typeName string) ([]string, error) {
	rows, err := s.sql.QueryContext(ctx, `
		SELECT f.column_name
		FROM cv_fields f JOIN cv_types ty ON ty.id = f.type_id
		WHERE ty.name = ? OR ty.symbol = ?
		ORDER BY f.position`, typeName, typeName)
	if err != nil {
		return nil, fmt.Errorf("select fields: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}
