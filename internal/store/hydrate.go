package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mfreitas/flowscout/internal/domain"
)

// workflowRow is a workflows table row. The surrogate id never leaves this
// package; hydration strips it before handing documents out.
type workflowRow struct {
	ID int64 `db:"id"`
	domain.WorkflowDocument
}

// WorkflowFilter narrows and orders ListWorkflows results. Zero values are
// no-ops; filters combine with AND.
type WorkflowFilter struct {
	UseCase        string
	SkillLevel     string
	MinValueScore  *int
	PublishedAfter string // inclusive, ISO-8601
	SortBy         string // value_score (default), date, title
}

// GetWorkflowBySlug hydrates a single workflow document. A missing slug is a
// normal negative result: (nil, nil).
func (db *DB) GetWorkflowBySlug(slug string) (*domain.WorkflowDocument, error) {
	var row workflowRow
	err := db.Get(&row, `SELECT * FROM workflows WHERE slug = ?`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workflow %q: %w", slug, err)
	}
	return db.hydrateOne(&row)
}

// ListWorkflows returns hydrated documents matching the filter. Hydration is
// batched: one follow-up query per related table regardless of result size.
func (db *DB) ListWorkflows(f WorkflowFilter) ([]domain.WorkflowDocument, error) {
	query := `SELECT * FROM workflows WHERE 1=1`
	var args []interface{}

	if f.UseCase != "" {
		query += ` AND use_case = ?`
		args = append(args, f.UseCase)
	}
	if f.SkillLevel != "" {
		query += ` AND skill_level = ?`
		args = append(args, f.SkillLevel)
	}
	if f.MinValueScore != nil {
		query += ` AND value_score >= ?`
		args = append(args, *f.MinValueScore)
	}
	if f.PublishedAfter != "" {
		query += ` AND published >= ?`
		args = append(args, f.PublishedAfter)
	}

	switch f.SortBy {
	case "date":
		query += ` ORDER BY published DESC`
	case "title":
		query += ` ORDER BY LOWER(source_title) ASC`
	default:
		// Unknown sort keys fall back to the default order.
		query += ` ORDER BY value_score DESC`
	}

	var rows []workflowRow
	if err := db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	return db.hydrateBatch(rows)
}

func (db *DB) hydrateOne(row *workflowRow) (*domain.WorkflowDocument, error) {
	doc := row.WorkflowDocument
	doc.Tools = []string{}
	doc.Steps = []domain.Step{}

	if err := db.Select(&doc.Tools, `SELECT t.name FROM workflow_tools wt
		JOIN tools t ON t.id = wt.tool_id
		WHERE wt.workflow_id = ?`, row.ID); err != nil {
		return nil, fmt.Errorf("failed to fetch tools: %w", err)
	}

	if err := db.Select(&doc.Steps, `SELECT step_number AS step, action, tool, details
		FROM workflow_steps WHERE workflow_id = ? ORDER BY step_number`, row.ID); err != nil {
		return nil, fmt.Errorf("failed to fetch steps: %w", err)
	}

	var tags []tagRow
	if err := db.Select(&tags, `SELECT kind, value FROM workflow_tags
		WHERE workflow_id = ? ORDER BY kind, sort_order`, row.ID); err != nil {
		return nil, fmt.Errorf("failed to fetch tags: %w", err)
	}
	applyTags(&doc, tags)

	return &doc, nil
}

// hydrateBatch assembles N documents with exactly three follow-up queries
// (tools, steps, tags) over an IN filter, grouping rows by workflow id
// client-side. Per-document shape matches hydrateOne field for field.
func (db *DB) hydrateBatch(rows []workflowRow) ([]domain.WorkflowDocument, error) {
	docs := []domain.WorkflowDocument{}
	if len(rows) == 0 {
		return docs, nil
	}

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}

	toolsByWF, err := db.batchTools(ids)
	if err != nil {
		return nil, err
	}
	stepsByWF, err := db.batchSteps(ids)
	if err != nil {
		return nil, err
	}
	tagsByWF, err := db.batchTags(ids)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		doc := row.WorkflowDocument
		doc.Tools = toolsByWF[row.ID]
		if doc.Tools == nil {
			doc.Tools = []string{}
		}
		doc.Steps = stepsByWF[row.ID]
		if doc.Steps == nil {
			doc.Steps = []domain.Step{}
		}
		applyTags(&doc, tagsByWF[row.ID])
		docs = append(docs, doc)
	}
	return docs, nil
}

func (db *DB) batchTools(ids []int64) (map[int64][]string, error) {
	query, args, err := sqlx.In(`SELECT wt.workflow_id, t.name FROM workflow_tools wt
		JOIN tools t ON t.id = wt.tool_id
		WHERE wt.workflow_id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build tools batch query: %w", err)
	}

	var rows []struct {
		WorkflowID int64  `db:"workflow_id"`
		Name       string `db:"name"`
	}
	if err := db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to batch-fetch tools: %w", err)
	}

	out := make(map[int64][]string)
	for _, r := range rows {
		out[r.WorkflowID] = append(out[r.WorkflowID], r.Name)
	}
	return out, nil
}

func (db *DB) batchSteps(ids []int64) (map[int64][]domain.Step, error) {
	query, args, err := sqlx.In(`SELECT workflow_id, step_number AS step, action, tool, details
		FROM workflow_steps WHERE workflow_id IN (?)
		ORDER BY workflow_id, step_number`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build steps batch query: %w", err)
	}

	var rows []struct {
		WorkflowID int64  `db:"workflow_id"`
		Step       int    `db:"step"`
		Action     string `db:"action"`
		Tool       string `db:"tool"`
		Details    string `db:"details"`
	}
	if err := db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to batch-fetch steps: %w", err)
	}

	out := make(map[int64][]domain.Step)
	for _, r := range rows {
		out[r.WorkflowID] = append(out[r.WorkflowID], domain.Step{
			Step:    r.Step,
			Action:  r.Action,
			Tool:    r.Tool,
			Details: r.Details,
		})
	}
	return out, nil
}

type tagRow struct {
	WorkflowID int64  `db:"workflow_id"`
	Kind       string `db:"kind"`
	Value      string `db:"value"`
}

func (db *DB) batchTags(ids []int64) (map[int64][]tagRow, error) {
	query, args, err := sqlx.In(`SELECT workflow_id, kind, value FROM workflow_tags
		WHERE workflow_id IN (?)
		ORDER BY workflow_id, kind, sort_order`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build tags batch query: %w", err)
	}

	var rows []tagRow
	if err := db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to batch-fetch tags: %w", err)
	}

	out := make(map[int64][]tagRow)
	for _, r := range rows {
		out[r.WorkflowID] = append(out[r.WorkflowID], r)
	}
	return out, nil
}

// applyTags distributes tag rows into the four fixed lists. Every kind is
// present on the document afterwards, empty when no rows exist; unknown kinds
// in storage are dropped, never leaked.
func applyTags(doc *domain.WorkflowDocument, tags []tagRow) {
	doc.WhenToUse = []string{}
	doc.WhenNotToUse = []string{}
	doc.Alternatives = []string{}
	doc.PatternTags = []string{}

	for _, t := range tags {
		switch domain.TagKind(t.Kind) {
		case domain.TagWhenToUse:
			doc.WhenToUse = append(doc.WhenToUse, t.Value)
		case domain.TagWhenNotToUse:
			doc.WhenNotToUse = append(doc.WhenNotToUse, t.Value)
		case domain.TagAlternatives:
			doc.Alternatives = append(doc.Alternatives, t.Value)
		case domain.TagPatternTags:
			doc.PatternTags = append(doc.PatternTags, t.Value)
		}
	}
}
