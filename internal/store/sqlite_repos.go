package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"jobtracker-engine/internal/domain"
)

func nowText() string { return time.Now().UTC().Format(time.RFC3339) }

type sqlitePreferences struct{ db *sql.DB }

func (s sqlitePreferences) Load(ctx context.Context) (*domain.Preferences, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM preferences WHERE id = 1;`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	var p domain.Preferences
	if !decode("preferences", []byte(payload), &p) {
		return nil, nil
	}
	return &p, nil
}

func (s sqlitePreferences) Save(ctx context.Context, p domain.Preferences) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO preferences (id, payload, updated_at) VALUES (1, ?, ?)
ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at;`,
		string(b), nowText())
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

type sqliteStatuses struct{ db *sql.DB }

func (s sqliteStatuses) All(ctx context.Context) (map[string]domain.JobStatus, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT job_id, status FROM job_status;`)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	defer rows.Close()

	out := map[string]domain.JobStatus{}
	for rows.Next() {
		var id, st string
		if err := rows.Scan(&id, &st); err != nil {
			return nil, err
		}
		parsed, err := domain.ParseStatus(st)
		if err != nil {
			log.Printf("[store] ignoring bad status job_id=%s err=%v", id, err)
			continue
		}
		out[id] = parsed
	}
	return out, rows.Err()
}

func (s sqliteStatuses) Get(ctx context.Context, jobID string) (domain.JobStatus, error) {
	var st string
	err := s.db.QueryRowContext(ctx, `SELECT status FROM job_status WHERE job_id = ?;`, jobID).Scan(&st)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultStatus, nil
	}
	if err != nil {
		return "", fmt.Errorf("get status: %w", err)
	}
	parsed, err := domain.ParseStatus(st)
	if err != nil {
		log.Printf("[store] ignoring bad status job_id=%s err=%v", jobID, err)
		return domain.DefaultStatus, nil
	}
	return parsed, nil
}

// Set writes the status and its log entry in one transaction; sqlite can
// afford the stronger guarantee.
func (s sqliteStatuses) Set(ctx context.Context, e domain.StatusLogEntry) error {
	if e.JobID == "" {
		return ErrEmptyJobID
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO job_status (job_id, status, updated_at) VALUES (?, ?, ?)
ON CONFLICT(job_id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at;`,
		e.JobID, string(e.Status), nowText()); err != nil {
		return fmt.Errorf("set status: %w", err)
	}

	if e.Status != domain.DefaultStatus {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO status_log (job_id, job_title, company, status, date) VALUES (?, ?, ?, ?, ?);`,
			e.JobID, e.JobTitle, e.Company, string(e.Status), e.Date.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("append status log: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
DELETE FROM status_log
WHERE id NOT IN (SELECT id FROM status_log ORDER BY id DESC LIMIT ?);`, domain.StatusLogLimit); err != nil {
			return fmt.Errorf("trim status log: %w", err)
		}
	}

	return tx.Commit()
}

func (s sqliteStatuses) Log(ctx context.Context) ([]domain.StatusLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT job_id, job_title, company, status, date
FROM status_log
ORDER BY id DESC
LIMIT ?;`, domain.StatusLogLimit)
	if err != nil {
		return nil, fmt.Errorf("list status log: %w", err)
	}
	defer rows.Close()

	out := []domain.StatusLogEntry{}
	for rows.Next() {
		var e domain.StatusLogEntry
		var st, date string
		if err := rows.Scan(&e.JobID, &e.JobTitle, &e.Company, &st, &date); err != nil {
			return nil, err
		}
		e.Status = domain.JobStatus(st)
		e.Date, _ = time.Parse(time.RFC3339Nano, date)
		out = append(out, e)
	}
	return out, rows.Err()
}

type sqliteSaved struct{ db *sql.DB }

func (s sqliteSaved) IDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT job_id FROM saved_jobs ORDER BY id ASC;`)
	if err != nil {
		return nil, fmt.Errorf("list saved: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s sqliteSaved) IsSaved(ctx context.Context, jobID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM saved_jobs WHERE job_id = ? LIMIT 1;`, jobID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("is saved: %w", err)
	}
	return true, nil
}

func (s sqliteSaved) Toggle(ctx context.Context, jobID string) (bool, error) {
	if jobID == "" {
		return false, ErrEmptyJobID
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM saved_jobs WHERE job_id = ?;`, jobID)
	if err != nil {
		return false, fmt.Errorf("unsave job: %w", err)
	}
	removed, _ := res.RowsAffected()

	saved := removed == 0
	if saved {
		if _, err := tx.ExecContext(ctx, `INSERT INTO saved_jobs (job_id, saved_at) VALUES (?, ?);`, jobID, nowText()); err != nil {
			return false, fmt.Errorf("save job: %w", err)
		}
	}
	return saved, tx.Commit()
}

type sqliteDigests struct{ db *sql.DB }

func (s sqliteDigests) Load(ctx context.Context, date string) (*domain.Digest, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM digests WHERE date = ?;`, date).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load digest: %w", err)
	}
	var d domain.Digest
	if !decode("digest:"+date, []byte(payload), &d) {
		return nil, nil
	}
	if d.Entries == nil {
		d.Entries = []domain.DigestEntry{}
	}
	return &d, nil
}

func (s sqliteDigests) Save(ctx context.Context, d domain.Digest) error {
	if d.Entries == nil {
		d.Entries = []domain.DigestEntry{}
	}
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO digests (date, payload, created_at) VALUES (?, ?, ?)
ON CONFLICT(date) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at;`,
		d.Date, string(b), nowText())
	if err != nil {
		return fmt.Errorf("save digest: %w", err)
	}
	return nil
}

func (s sqliteDigests) DeleteBefore(ctx context.Context, date string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM digests WHERE date < ?;`, date)
	if err != nil {
		return 0, fmt.Errorf("cleanup digests: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
