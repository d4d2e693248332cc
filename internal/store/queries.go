package store

import (
	"fmt"
	"time"

	"github.com/mfreitas/flowscout/internal/domain"
)

// TopWorkflow is the best-scoring workflow inside a use case.
type TopWorkflow struct {
	Slug       string `db:"slug" json:"slug"`
	Title      string `db:"source_title" json:"title"`
	ValueScore int    `db:"value_score" json:"value_score"`
}

// UseCaseSummary aggregates one use case for the dashboard.
type UseCaseSummary struct {
	UseCase     string       `json:"use_case"`
	Count       int          `json:"count"`
	TopWorkflow *TopWorkflow `json:"top_workflow"`
}

// ToolUsage is the number of workflows referencing one tool.
type ToolUsage struct {
	Name  string `db:"name" json:"name"`
	Count int    `db:"count" json:"count"`
}

// ToolPair is an unordered pair of tools appearing together in at least two
// workflows.
type ToolPair struct {
	ToolA     string `db:"tool_a" json:"tool_a"`
	ToolB     string `db:"tool_b" json:"tool_b"`
	PairCount int    `db:"pair_count" json:"pair_count"`
}

// ChannelStat summarizes one channel's contribution.
type ChannelStat struct {
	ChannelName string  `db:"channel_name" json:"channel_name"`
	Total       int     `db:"total" json:"total"`
	AvgScore    float64 `db:"avg_score" json:"avg_score"`
	BestScore   int     `db:"best_score" json:"best_score"`
}

// Stats is the global dashboard summary.
type Stats struct {
	TotalWorkflows int            `json:"total_workflows"`
	ByLevel        map[string]int `json:"by_level"`
	ByUseCase      map[string]int `json:"by_use_case"`
	HighValueCount int            `json:"high_value_count"`
}

// ToolWorkflowRef is one workflow summary inside a tools-index entry.
type ToolWorkflowRef struct {
	Slug        string `db:"slug" json:"slug"`
	SourceTitle string `db:"source_title" json:"source_title"`
	ValueScore  int    `db:"value_score" json:"value_score"`
	SkillLevel  string `db:"skill_level" json:"skill_level"`
}

// ToolIndexEntry is one tool with every workflow that uses it.
type ToolIndexEntry struct {
	Name          string            `json:"name"`
	WorkflowCount int               `json:"workflow_count"`
	Workflows     []ToolWorkflowRef `json:"workflows"`
}

// ScanRecord is one append-only scan ledger entry.
type ScanRecord struct {
	ID                 int64  `db:"id" json:"id"`
	ScanDate           string `db:"scan_date" json:"scan_date"`
	VideosChecked      int    `db:"videos_checked" json:"videos_checked"`
	RelevantFound      int    `db:"relevant_found" json:"relevant_found"`
	WorkflowsGenerated int    `db:"workflows_generated" json:"workflows_generated"`
	CompletedAt        string `db:"completed_at" json:"completed_at"`
}

// HighValueWorkflows returns hydrated workflows scoring at or above threshold,
// best first, newest breaking ties.
func (db *DB) HighValueWorkflows(threshold, limit int) ([]domain.WorkflowDocument, error) {
	var rows []workflowRow
	err := db.Select(&rows, `SELECT * FROM workflows WHERE value_score >= ?
		ORDER BY value_score DESC, published DESC LIMIT ?`, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch high-value workflows: %w", err)
	}
	return db.hydrateBatch(rows)
}

// RecentWorkflows returns hydrated workflows published within the last N days.
func (db *DB) RecentWorkflows(days, limit int) ([]domain.WorkflowDocument, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
	var rows []workflowRow
	err := db.Select(&rows, `SELECT * FROM workflows WHERE published >= ?
		ORDER BY published DESC LIMIT ?`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent workflows: %w", err)
	}
	return db.hydrateBatch(rows)
}

// UseCaseSummaries counts workflows per use case and attaches the top-scoring
// workflow of each. Tie-break on equal scores follows sqlite's row order.
func (db *DB) UseCaseSummaries() ([]UseCaseSummary, error) {
	var counts []struct {
		UseCase string `db:"use_case"`
		Count   int    `db:"count"`
	}
	err := db.Select(&counts, `SELECT use_case, COUNT(*) as count
		FROM workflows GROUP BY use_case ORDER BY use_case`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize use cases: %w", err)
	}

	result := []UseCaseSummary{}
	for _, c := range counts {
		var top TopWorkflow
		err := db.Get(&top, `SELECT slug, source_title, value_score FROM workflows
			WHERE use_case = ? ORDER BY value_score DESC LIMIT 1`, c.UseCase)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch top workflow for %q: %w", c.UseCase, err)
		}
		result = append(result, UseCaseSummary{UseCase: c.UseCase, Count: c.Count, TopWorkflow: &top})
	}
	return result, nil
}

// ToolUsageCounts returns the most-used tools by distinct workflow count.
func (db *DB) ToolUsageCounts(limit int) ([]ToolUsage, error) {
	usage := []ToolUsage{}
	err := db.Select(&usage, `SELECT t.name, COUNT(*) as count FROM workflow_tools wt
		JOIN tools t ON t.id = wt.tool_id
		GROUP BY t.id ORDER BY count DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to count tool usage: %w", err)
	}
	return usage, nil
}

// ToolPairs reports tool combinations seen together in at least two
// workflows. The tool_id ordering in the self-join counts each unordered
// pair exactly once.
func (db *DB) ToolPairs() ([]ToolPair, error) {
	pairs := []ToolPair{}
	err := db.Select(&pairs, `SELECT t1.name as tool_a, t2.name as tool_b, COUNT(*) as pair_count
		FROM workflow_tools wt1
		JOIN workflow_tools wt2 ON wt1.workflow_id = wt2.workflow_id AND wt1.tool_id < wt2.tool_id
		JOIN tools t1 ON t1.id = wt1.tool_id
		JOIN tools t2 ON t2.id = wt2.tool_id
		GROUP BY t1.name, t2.name
		HAVING COUNT(*) >= 2
		ORDER BY pair_count DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to compute tool pairs: %w", err)
	}
	return pairs, nil
}

// ChannelStats aggregates per-channel totals, best channels first by average
// score (rounded to one decimal).
func (db *DB) ChannelStats() ([]ChannelStat, error) {
	stats := []ChannelStat{}
	err := db.Select(&stats, `SELECT channel_name, COUNT(*) as total,
		ROUND(AVG(value_score), 1) as avg_score,
		MAX(value_score) as best_score
		FROM workflows GROUP BY channel_name ORDER BY avg_score DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to compute channel stats: %w", err)
	}
	return stats, nil
}

// GetStats builds the global dashboard summary. The high-value bucket uses
// the fixed threshold of 8.
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{
		ByLevel:   map[string]int{},
		ByUseCase: map[string]int{},
	}

	if err := db.Get(&stats.TotalWorkflows, `SELECT COUNT(*) FROM workflows`); err != nil {
		return nil, fmt.Errorf("failed to count workflows: %w", err)
	}

	var buckets []struct {
		Key   string `db:"key"`
		Count int    `db:"count"`
	}
	if err := db.Select(&buckets, `SELECT skill_level as key, COUNT(*) as count
		FROM workflows GROUP BY skill_level`); err != nil {
		return nil, fmt.Errorf("failed to count by skill level: %w", err)
	}
	for _, b := range buckets {
		stats.ByLevel[b.Key] = b.Count
	}

	buckets = buckets[:0]
	if err := db.Select(&buckets, `SELECT use_case as key, COUNT(*) as count
		FROM workflows GROUP BY use_case`); err != nil {
		return nil, fmt.Errorf("failed to count by use case: %w", err)
	}
	for _, b := range buckets {
		stats.ByUseCase[b.Key] = b.Count
	}

	if err := db.Get(&stats.HighValueCount, `SELECT COUNT(*) FROM workflows WHERE value_score >= 8`); err != nil {
		return nil, fmt.Errorf("failed to count high-value workflows: %w", err)
	}
	return stats, nil
}

// ToolsIndex lists every referenced tool with its workflows, most-used tools
// first.
func (db *DB) ToolsIndex() ([]ToolIndexEntry, error) {
	var tools []struct {
		ID            int64  `db:"id"`
		Name          string `db:"name"`
		WorkflowCount int    `db:"workflow_count"`
	}
	err := db.Select(&tools, `SELECT t.id, t.name, COUNT(wt.workflow_id) as workflow_count
		FROM tools t
		JOIN workflow_tools wt ON wt.tool_id = t.id
		GROUP BY t.id ORDER BY workflow_count DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to index tools: %w", err)
	}

	result := []ToolIndexEntry{}
	for _, tool := range tools {
		refs := []ToolWorkflowRef{}
		err := db.Select(&refs, `SELECT w.slug, w.source_title, w.value_score, w.skill_level
			FROM workflows w
			JOIN workflow_tools wt ON wt.workflow_id = w.id
			WHERE wt.tool_id = ? ORDER BY w.value_score DESC`, tool.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch workflows for tool %q: %w", tool.Name, err)
		}
		result = append(result, ToolIndexEntry{Name: tool.Name, WorkflowCount: tool.WorkflowCount, Workflows: refs})
	}
	return result, nil
}

// WorkflowCount returns the total number of stored workflows.
func (db *DB) WorkflowCount() (int, error) {
	var count int
	err := db.Get(&count, `SELECT COUNT(*) FROM workflows`)
	return count, err
}

// HighValueCount counts workflows scoring at or above threshold.
func (db *DB) HighValueCount(threshold int) (int, error) {
	var count int
	err := db.Get(&count, `SELECT COUNT(*) FROM workflows WHERE value_score >= ?`, threshold)
	return count, err
}

// WorkflowCountByChannel maps channel names to workflow counts.
func (db *DB) WorkflowCountByChannel() (map[string]int, error) {
	var rows []struct {
		ChannelName string `db:"channel_name"`
		Count       int    `db:"count"`
	}
	err := db.Select(&rows, `SELECT channel_name, COUNT(*) as count
		FROM workflows GROUP BY channel_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by channel: %w", err)
	}

	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.ChannelName] = r.Count
	}
	return out, nil
}
