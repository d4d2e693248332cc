package httpapp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mfreitas/flowscout/internal/app"
	"github.com/mfreitas/flowscout/internal/domain"
	"github.com/mfreitas/flowscout/internal/logger"
	"github.com/mfreitas/flowscout/internal/store"
)

func setupServer(t *testing.T) (*httptest.Server, *store.DB) {
	t.Helper()
	dir := t.TempDir()
	db, err := store.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sourcesPath := filepath.Join(dir, "sources.yaml")
	sourcesYAML := "youtube_channels:\n  - name: Automation Lab\n    handle: \"@automationlab\"\n    channel_id: UC123\n"
	if err := os.WriteFile(sourcesPath, []byte(sourcesYAML), 0644); err != nil {
		t.Fatalf("Failed to write sources: %v", err)
	}

	svc := app.NewDashboardService(db, sourcesPath, filepath.Join(dir, "workflows"))
	h := NewHandler(svc, logger.Default())

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, db
}

func insertFixture(t *testing.T, db *store.DB, title, useCase string, score int) {
	t.Helper()
	_, err := db.InsertWorkflow(&domain.WorkflowAggregate{
		SourceURL:   "https://example.com/" + domain.Slugify(title),
		SourceTitle: title,
		ChannelName: "Automation Lab",
		Published:   "2026-08-28T00:00:00Z",
		UseCase:     useCase,
		SkillLevel:  "intermediate",
		ValueScore:  score,
		Tools:       []string{"n8n"},
		Steps:       []domain.Step{{Step: 1, Action: "start"}},
		WhenToUse:   []string{"always"},
	})
	if err != nil {
		t.Fatalf("Insert %q failed: %v", title, err)
	}
}

func getJSON(t *testing.T, url string, out interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Decode %s failed: %v", url, err)
		}
	}
	return resp
}

func TestGetWorkflows(t *testing.T) {
	server, db := setupServer(t)
	insertFixture(t, db, "Api Flow One", "marketing", 9)
	insertFixture(t, db, "Api Flow Two", "operations", 4)

	var workflows []map[string]interface{}
	resp := getJSON(t, server.URL+"/api/workflows", &workflows)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if len(workflows) != 2 {
		t.Fatalf("Expected 2 workflows, got %d", len(workflows))
	}

	// Contract: every document carries the four tag lists and steps.
	first := workflows[0]
	for _, field := range []string{"slug", "tools", "workflow_steps", "when_to_use", "when_not_to_use", "alternatives", "pattern_tags"} {
		if _, ok := first[field]; !ok {
			t.Errorf("Expected field %q in document, got %v", field, first)
		}
	}
	if first["slug"] != "api-flow-one" {
		t.Errorf("Expected score-descending default order, got %v first", first["slug"])
	}

	var filtered []map[string]interface{}
	getJSON(t, server.URL+"/api/workflows?use_case=marketing", &filtered)
	if len(filtered) != 1 {
		t.Errorf("Expected 1 marketing workflow, got %d", len(filtered))
	}

	var byScore []map[string]interface{}
	getJSON(t, server.URL+"/api/workflows?min_score=8", &byScore)
	if len(byScore) != 1 {
		t.Errorf("Expected 1 workflow at min_score=8, got %d", len(byScore))
	}
}

func TestGetWorkflowsBadMinScore(t *testing.T) {
	server, _ := setupServer(t)

	resp := getJSON(t, server.URL+"/api/workflows?min_score=high", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
}

func TestGetWorkflowDetail(t *testing.T) {
	server, db := setupServer(t)
	insertFixture(t, db, "Detail Flow", "general", 7)

	var detail map[string]interface{}
	resp := getJSON(t, server.URL+"/api/workflows/detail-flow", &detail)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if detail["slug"] != "detail-flow" {
		t.Errorf("Unexpected detail payload: %v", detail)
	}
	if _, ok := detail["html_content"]; !ok {
		t.Error("Expected html_content field")
	}
}

func TestGetWorkflowNotFound(t *testing.T) {
	server, _ := setupServer(t)

	var body map[string]string
	resp := getJSON(t, server.URL+"/api/workflows/missing-slug", &body)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
	if body["error"] == "" {
		t.Errorf("Expected explicit error payload, got %v", body)
	}
}

func TestGetPulseAndStats(t *testing.T) {
	server, db := setupServer(t)
	insertFixture(t, db, "Pulse Flow", "general", 9)

	var pulse map[string]interface{}
	resp := getJSON(t, server.URL+"/api/pulse", &pulse)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if pulse["total_workflows"].(float64) != 1 {
		t.Errorf("Unexpected pulse: %v", pulse)
	}

	var stats map[string]interface{}
	getJSON(t, server.URL+"/api/stats", &stats)
	if stats["high_value_count"].(float64) != 1 {
		t.Errorf("Unexpected stats: %v", stats)
	}
}

func TestGetSourcesAndChannels(t *testing.T) {
	server, db := setupServer(t)
	insertFixture(t, db, "Channel Flow", "general", 6)

	var sources []map[string]interface{}
	getJSON(t, server.URL+"/api/sources", &sources)
	if len(sources) != 1 || sources[0]["workflow_count"].(float64) != 1 {
		t.Errorf("Unexpected sources: %v", sources)
	}

	var channels []map[string]interface{}
	getJSON(t, server.URL+"/api/channels", &channels)
	if len(channels) != 1 || channels[0]["channel_name"] != "Automation Lab" {
		t.Errorf("Unexpected channels: %v", channels)
	}
}

func TestGetScanHistory(t *testing.T) {
	server, db := setupServer(t)
	if err := db.RecordScan("2026-08-30", 10, 3, 2); err != nil {
		t.Fatalf("RecordScan failed: %v", err)
	}

	var history []map[string]interface{}
	getJSON(t, server.URL+"/api/scans", &history)
	if len(history) != 1 || history[0]["workflows_generated"].(float64) != 2 {
		t.Errorf("Unexpected history: %v", history)
	}
}
