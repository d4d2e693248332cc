package store

import (
	"database/sql"
	"errors"
	"fmt"
)

const lastCheckKey = "last_check"

// MarkProcessed records a video id as ingested. Re-marking an already
// processed id is a silent no-op.
func (db *DB) MarkProcessed(videoID string) error {
	_, err := db.Exec(`INSERT OR IGNORE INTO processed_videos(video_id) VALUES (?)`, videoID)
	if err != nil {
		return fmt.Errorf("failed to mark video %q processed: %w", videoID, err)
	}
	return nil
}

// ProcessedVideoIDs returns the full dedup set. Scans load it once up front
// for in-memory membership tests instead of probing per video.
func (db *DB) ProcessedVideoIDs() (map[string]struct{}, error) {
	var ids []string
	if err := db.Select(&ids, `SELECT video_id FROM processed_videos`); err != nil {
		return nil, fmt.Errorf("failed to load processed video ids: %w", err)
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// ProcessedVideoCount returns the size of the dedup set.
func (db *DB) ProcessedVideoCount() (int, error) {
	var count int
	err := db.Get(&count, `SELECT COUNT(*) FROM processed_videos`)
	return count, err
}

// LastScanTime returns the scan checkpoint, or "" if no scan ever completed.
func (db *DB) LastScanTime() (string, error) {
	var value string
	err := db.Get(&value, `SELECT value FROM scan_metadata WHERE key = ?`, lastCheckKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetLastScanTime upserts the scan checkpoint; latest write wins.
func (db *DB) SetLastScanTime(isoTimestamp string) error {
	_, err := db.Exec(`INSERT INTO scan_metadata(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, lastCheckKey, isoTimestamp)
	if err != nil {
		return fmt.Errorf("failed to set last scan time: %w", err)
	}
	return nil
}

// RecordScan appends one scan-history entry; completed_at is stamped by the
// store at insertion time.
func (db *DB) RecordScan(scanDate string, videosChecked, relevantFound, workflowsGenerated int) error {
	_, err := db.Exec(`INSERT INTO scan_history (scan_date, videos_checked, relevant_found, workflows_generated)
		VALUES (?, ?, ?, ?)`, scanDate, videosChecked, relevantFound, workflowsGenerated)
	if err != nil {
		return fmt.Errorf("failed to record scan: %w", err)
	}
	return nil
}

// ScanHistory returns the most recent scan records, newest first.
func (db *DB) ScanHistory(limit int) ([]ScanRecord, error) {
	records := []ScanRecord{}
	err := db.Select(&records, `SELECT * FROM scan_history ORDER BY completed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scan history: %w", err)
	}
	return records, nil
}
