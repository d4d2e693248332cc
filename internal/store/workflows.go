package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mfreitas/flowscout/internal/domain"
)

// InsertWorkflow persists a full workflow aggregate (header, tools, steps,
// tags) as one transaction and returns the new workflow id. Tool names are
// registered lazily; a duplicate step number in the aggregate aborts the
// whole insert.
func (db *DB) InsertWorkflow(agg *domain.WorkflowAggregate) (int64, error) {
	slug, err := db.resolveSlug(domain.Slugify(agg.SourceTitle))
	if err != nil {
		return 0, fmt.Errorf("failed to resolve slug: %w", err)
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var workflowID int64
	err = tx.QueryRowx(`INSERT INTO workflows
		(slug, source_url, source_title, channel_name, published,
		 use_case, skill_level, overview, cost_estimate, complexity,
		 value_score, doc_path, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		slug, agg.SourceURL, agg.SourceTitle, agg.ChannelName, agg.Published,
		agg.UseCase, agg.SkillLevel, agg.Overview, agg.CostEstimate, agg.Complexity,
		agg.ValueScore, agg.DocPath, agg.ProcessedAt,
	).Scan(&workflowID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert workflow header: %w", err)
	}

	for _, name := range agg.Tools {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO tools(name) VALUES (?)`, name); err != nil {
			return 0, fmt.Errorf("failed to register tool %q: %w", name, err)
		}
		var toolID int64
		if err := tx.Get(&toolID, `SELECT id FROM tools WHERE name = ?`, name); err != nil {
			return 0, fmt.Errorf("failed to look up tool %q: %w", name, err)
		}
		// OR IGNORE makes a tool listed twice yield a single association.
		if _, err := tx.Exec(`INSERT OR IGNORE INTO workflow_tools(workflow_id, tool_id) VALUES (?, ?)`,
			workflowID, toolID); err != nil {
			return 0, fmt.Errorf("failed to associate tool %q: %w", name, err)
		}
	}

	for _, step := range agg.Steps {
		// Step numbers are the caller's; UNIQUE(workflow_id, step_number)
		// turns duplicates into a hard failure rather than a silent overwrite.
		if _, err := tx.Exec(`INSERT INTO workflow_steps(workflow_id, step_number, action, tool, details)
			VALUES (?, ?, ?, ?, ?)`,
			workflowID, step.Step, step.Action, step.Tool, step.Details); err != nil {
			return 0, fmt.Errorf("failed to insert step %d: %w", step.Step, err)
		}
	}

	for _, kind := range domain.TagKinds {
		for i, value := range agg.Tags(kind) {
			if _, err := tx.Exec(`INSERT INTO workflow_tags(workflow_id, kind, value, sort_order)
				VALUES (?, ?, ?, ?)`,
				workflowID, string(kind), value, i); err != nil {
				return 0, fmt.Errorf("failed to insert %s tag: %w", kind, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit workflow %q: %w", slug, err)
	}
	return workflowID, nil
}

// resolveSlug probes for a free slug, suffixing -2, -3, ... on collision.
// Given the same existing slugs, the same title always lands on the same
// final slug.
func (db *DB) resolveSlug(base string) (string, error) {
	if base == "" {
		base = "untitled"
	}

	slug := base
	for suffix := 2; ; suffix++ {
		var id int64
		err := db.Get(&id, `SELECT id FROM workflows WHERE slug = ?`, slug)
		if errors.Is(err, sql.ErrNoRows) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, suffix)
	}
}

// WorkflowExists reports whether a workflow was already ingested from the
// given source URL.
func (db *DB) WorkflowExists(sourceURL string) (bool, error) {
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM workflows WHERE source_url = ?`, sourceURL); err != nil {
		return false, err
	}
	return count > 0, nil
}
