package store

import (
	"testing"

	"github.com/mfreitas/flowscout/internal/domain"
)

func TestInsertWorkflowRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	agg := sampleAggregate("Build an AI Agent!!")
	id, err := db.InsertWorkflow(agg)
	if err != nil {
		t.Fatalf("InsertWorkflow failed: %v", err)
	}
	if id == 0 {
		t.Error("Expected non-zero workflow id")
	}

	doc, err := db.GetWorkflowBySlug("build-an-ai-agent")
	if err != nil {
		t.Fatalf("GetWorkflowBySlug failed: %v", err)
	}
	if doc == nil {
		t.Fatal("Expected workflow, got nil")
	}

	if doc.SourceTitle != agg.SourceTitle {
		t.Errorf("Expected title %q, got %q", agg.SourceTitle, doc.SourceTitle)
	}
	if doc.ValueScore != agg.ValueScore {
		t.Errorf("Expected score %d, got %d", agg.ValueScore, doc.ValueScore)
	}

	// Tools: same set, order-independent.
	if len(doc.Tools) != 2 {
		t.Fatalf("Expected 2 tools, got %d", len(doc.Tools))
	}
	seen := map[string]bool{}
	for _, tool := range doc.Tools {
		seen[tool] = true
	}
	if !seen["n8n"] || !seen["OpenAI API"] {
		t.Errorf("Unexpected tool set: %v", doc.Tools)
	}

	// Steps: strictly ascending by declared number.
	if len(doc.Steps) != 2 {
		t.Fatalf("Expected 2 steps, got %d", len(doc.Steps))
	}
	if doc.Steps[0].Step != 1 || doc.Steps[1].Step != 2 {
		t.Errorf("Steps out of order: %+v", doc.Steps)
	}
	if doc.Steps[0].Action != "Trigger on schedule" {
		t.Errorf("Unexpected first step: %+v", doc.Steps[0])
	}

	// All four tag kinds present, order preserved, omitted kinds empty.
	if len(doc.WhenToUse) != 2 || doc.WhenToUse[0] != "outbound campaigns" {
		t.Errorf("Unexpected when_to_use: %v", doc.WhenToUse)
	}
	if len(doc.WhenNotToUse) != 1 {
		t.Errorf("Unexpected when_not_to_use: %v", doc.WhenNotToUse)
	}
	if doc.Alternatives == nil || len(doc.Alternatives) != 0 {
		t.Errorf("Expected empty (non-nil) alternatives, got %v", doc.Alternatives)
	}
	if len(doc.PatternTags) != 1 || doc.PatternTags[0] != "scrape-then-generate" {
		t.Errorf("Unexpected pattern_tags: %v", doc.PatternTags)
	}
}

func TestInsertWorkflowSlugCollision(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < 3; i++ {
		if _, err := db.InsertWorkflow(sampleAggregate("Same Title")); err != nil {
			t.Fatalf("Insert %d failed: %v", i+1, err)
		}
	}

	for _, slug := range []string{"same-title", "same-title-2", "same-title-3"} {
		doc, err := db.GetWorkflowBySlug(slug)
		if err != nil {
			t.Fatalf("GetWorkflowBySlug(%q) failed: %v", slug, err)
		}
		if doc == nil {
			t.Errorf("Expected workflow at slug %q", slug)
		}
	}
}

func TestInsertWorkflowEmptyTitle(t *testing.T) {
	db := setupTestDB(t)

	agg := sampleAggregate("")
	agg.SourceTitle = ""
	if _, err := db.InsertWorkflow(agg); err != nil {
		t.Fatalf("InsertWorkflow failed: %v", err)
	}

	doc, err := db.GetWorkflowBySlug("untitled")
	if err != nil {
		t.Fatalf("GetWorkflowBySlug failed: %v", err)
	}
	if doc == nil {
		t.Error("Expected untitled workflow")
	}
}

func TestInsertWorkflowDuplicateToolSingleAssociation(t *testing.T) {
	db := setupTestDB(t)

	agg := sampleAggregate("Duplicate Tools")
	agg.Tools = []string{"Zapier", "Zapier", "Zapier"}
	if _, err := db.InsertWorkflow(agg); err != nil {
		t.Fatalf("InsertWorkflow failed: %v", err)
	}

	doc, err := db.GetWorkflowBySlug("duplicate-tools")
	if err != nil {
		t.Fatalf("GetWorkflowBySlug failed: %v", err)
	}
	if len(doc.Tools) != 1 {
		t.Errorf("Expected 1 tool association, got %v", doc.Tools)
	}
}

func TestInsertWorkflowSharedToolVocabulary(t *testing.T) {
	db := setupTestDB(t)

	a := sampleAggregate("First Workflow")
	a.Tools = []string{"Make"}
	b := sampleAggregate("Second Workflow")
	b.Tools = []string{"Make"}

	if _, err := db.InsertWorkflow(a); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if _, err := db.InsertWorkflow(b); err != nil {
		t.Fatalf("Second insert failed: %v", err)
	}

	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM tools WHERE name = 'Make'`); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected one shared tool row, got %d", count)
	}
}

func TestInsertWorkflowDuplicateStepRollsBack(t *testing.T) {
	db := setupTestDB(t)

	agg := sampleAggregate("Broken Steps")
	agg.Steps = []domain.Step{
		{Step: 1, Action: "first"},
		{Step: 1, Action: "duplicate number"},
	}

	if _, err := db.InsertWorkflow(agg); err == nil {
		t.Fatal("Expected duplicate step number to fail")
	}

	// The whole aggregate must roll back, never leaving an orphaned header.
	for _, table := range []string{"workflows", "workflow_tools", "workflow_steps", "workflow_tags"} {
		var count int
		if err := db.Get(&count, `SELECT COUNT(*) FROM `+table); err != nil {
			t.Fatalf("Count %s failed: %v", table, err)
		}
		if count != 0 {
			t.Errorf("Expected 0 rows in %s after rollback, got %d", table, count)
		}
	}
}

func TestWorkflowExists(t *testing.T) {
	db := setupTestDB(t)

	agg := sampleAggregate("Exists Check")
	if _, err := db.InsertWorkflow(agg); err != nil {
		t.Fatalf("InsertWorkflow failed: %v", err)
	}

	exists, err := db.WorkflowExists(agg.SourceURL)
	if err != nil {
		t.Fatalf("WorkflowExists failed: %v", err)
	}
	if !exists {
		t.Error("Expected workflow to exist")
	}

	exists, err = db.WorkflowExists("https://example.com/never-seen")
	if err != nil {
		t.Fatalf("WorkflowExists failed: %v", err)
	}
	if exists {
		t.Error("Expected workflow to not exist")
	}
}
