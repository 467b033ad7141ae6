// ABOUTME: Database operations for job_runs and sync_log tables
// ABOUTME: Once-per-day job bookkeeping and external-import dedupe, keyed by time-ordered ULIDs
package db

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/harperreed/voss/models"
)

func newULID(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), rand.Reader).String()
}

// JobLog records which scheduled jobs already ran on a given date.
type JobLog struct {
	db DBTX
}

func NewJobLog(conn DBTX) *JobLog {
	return &JobLog{db: conn}
}

// Claim marks job as run for date. It returns false when the job already ran
// that day, so two overlapping runs cannot both send a digest.
func (j *JobLog) Claim(ctx context.Context, job string, date models.Date, now time.Time) (bool, error) {
	res, err := j.db.ExecContext(ctx, `INSERT INTO job_runs (id, job_name, run_date, ran_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(job_name, run_date) DO NOTHING`,
		newULID(now), job, string(date), formatTime(now))
	if err != nil {
		return false, fmt.Errorf("failed to claim job %s: %w", job, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to claim job %s: %w", job, err)
	}
	return n == 1, nil
}

// SyncLog remembers which external records were imported.
type SyncLog struct {
	db DBTX
}

func NewSyncLog(conn DBTX) *SyncLog {
	return &SyncLog{db: conn}
}

func (s *SyncLog) Exists(ctx context.Context, service, sourceID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_log WHERE source_service = ? AND source_id = ?`,
		service, sourceID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check sync log: %w", err)
	}
	return count > 0, nil
}

// Record stores the mapping from an external id to the entity it produced.
func (s *SyncLog) Record(ctx context.Context, service, sourceID, entityType, entityID, metadata string, now time.Time) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO sync_log
		(id, source_service, source_id, entity_type, entity_id, imported_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		newULID(now), service, sourceID, entityType, entityID, formatTime(now), metadata)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("%s record %s already imported: %w", service, sourceID, err)
		}
		return fmt.Errorf("failed to create sync log: %w", err)
	}
	return nil
}
