package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/cv"
)

var ErrNotFound = errors.New("not found")

// Run is one archived validation.
type Run struct {
	ID          string    `json:"run_id"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
	IssueCount  int       `json:"issue_count"`
	StrictCount int       `json:"strict_count"`
	Report      cv.Report `json:"report"`
}

// SaveRun archives a report under a new run id.
func (s *Store) SaveRun(ctx context.Context, source string, report cv.Report) (Run, error) {
	run := Run{
		ID:          uuid.New().String(),
		Source:      source,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		IssueCount:  len(report.Issues),
		StrictCount: len(report.StrictOnly().Issues),
		Report:      report,
	}
	missing, err := json.Marshal(report.MissingTypes)
	if err != nil {
		return Run{}, fmt.Errorf("encode missing types: %w", err)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, source, created_at, issue_count, strict_count, missing_types) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, run.Source, run.CreatedAt.Format(time.RFC3339), run.IssueCount, run.StrictCount, string(missing)); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		for i, issue := range report.Issues {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_issues (run_id, seq, stanza, type, kind, key, value, message, strict)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID, i, issue.Stanza, issue.Type, issue.Kind.String(), issue.Key, issue.Value, issue.Message, issue.Strict); err != nil {
				return fmt.Errorf("insert issue %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// GetRun loads an archived run with its issues in original order.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	var (
		run     Run
		created string
		missing string
	)
	err := s.sql.QueryRowContext(ctx,
		`SELECT id, source, created_at, issue_count, strict_count, missing_types FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &run.Source, &created, &run.IssueCount, &run.StrictCount, &missing)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("select run: %w", err)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(missing), &run.Report.MissingTypes); err != nil {
		return Run{}, fmt.Errorf("decode missing types: %w", err)
	}

	rows, err := s.sql.QueryContext(ctx,
		`SELECT stanza, type, kind, key, value, message, strict FROM run_issues WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return Run{}, fmt.Errorf("select issues: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			issue cv.Issue
			kind  string
		)
		if err := rows.Scan(&issue.Stanza, &issue.Type, &kind, &issue.Key, &issue.Value, &issue.Message, &issue.Strict); err != nil {
			return Run{}, fmt.Errorf("scan issue: %w", err)
		}
		if err := issue.Kind.UnmarshalText([]byte(kind)); err != nil {
			return Run{}, err
		}
		run.Report.Issues = append(run.Report.Issues, issue)
	}
	return run, rows.Err()
}
