// Package importer performs the one-time migration from the legacy JSON
// files into the SQLite store. It is strictly a client of the normal write
// path and the ledger operations; no import-specific write logic exists.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mfreitas/flowscout/internal/domain"
	"github.com/mfreitas/flowscout/internal/logger"
	"github.com/mfreitas/flowscout/internal/store"
)

// ErrStoreNotEmpty means the target store already has content; re-running the
// import would silently duplicate it.
var ErrStoreNotEmpty = errors.New("store already contains data; refusing to import")

// legacyWorkflow mirrors one entry of workflow_library.json.
type legacyWorkflow struct {
	SourceURL    string   `json:"source_url"`
	SourceTitle  string   `json:"source_title"`
	ChannelName  string   `json:"channel_name"`
	Published    string   `json:"published"`
	UseCase      string   `json:"use_case"`
	SkillLevel   string   `json:"skill_level"`
	Overview     string   `json:"overview"`
	CostEstimate string   `json:"cost_estimate"`
	Complexity   string   `json:"complexity"`
	ValueScore   int      `json:"value_score"`
	DocPath      string   `json:"doc_path"`
	ProcessedAt  string   `json:"processed_at"`
	Tools        []string `json:"tools"`
	Steps        []struct {
		Step    int    `json:"step"`
		Action  string `json:"action"`
		Tool    string `json:"tool"`
		Details string `json:"details"`
	} `json:"workflow_steps"`
	WhenToUse    []string `json:"when_to_use"`
	WhenNotToUse []string `json:"when_not_to_use"`
	Alternatives []string `json:"alternatives"`
	PatternTags  []string `json:"pattern_tags"`
}

// legacyProcessed mirrors processed_content.json.
type legacyProcessed struct {
	ProcessedVideoIDs []string `json:"processed_video_ids"`
	LastCheck         string   `json:"last_check"`
}

// Result summarizes what got imported.
type Result struct {
	Workflows       int
	ProcessedVideos int
	LastCheck       string
}

type Importer struct {
	db  *store.DB
	log *logger.Logger
}

func New(db *store.DB, log *logger.Logger) *Importer {
	return &Importer{db: db, log: log.WithComponent("importer")}
}

// Run imports the legacy workflow library and processed-content files.
// Either path may point to a missing file, which is skipped. The import
// refuses to run against a non-empty store.
func (im *Importer) Run(workflowsPath, processedPath string) (*Result, error) {
	count, err := im.db.WorkflowCount()
	if err != nil {
		return nil, err
	}
	processedCount, err := im.db.ProcessedVideoCount()
	if err != nil {
		return nil, err
	}
	if count > 0 || processedCount > 0 {
		return nil, ErrStoreNotEmpty
	}

	result := &Result{}

	if err := im.importWorkflows(workflowsPath, result); err != nil {
		return nil, err
	}
	if err := im.importProcessed(processedPath, result); err != nil {
		return nil, err
	}

	im.log.Info("Import complete",
		"workflows", result.Workflows,
		"processed_videos", result.ProcessedVideos,
		"last_check", result.LastCheck)
	return result, nil
}

func (im *Importer) importWorkflows(path string, result *Result) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		im.log.Info("No workflow library found, skipping", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read workflow library: %w", err)
	}

	// The legacy file is either a bare list or {"workflows": [...]}.
	var workflows []legacyWorkflow
	if err := json.Unmarshal(data, &workflows); err != nil {
		var wrapped struct {
			Workflows []legacyWorkflow `json:"workflows"`
		}
		if wErr := json.Unmarshal(data, &wrapped); wErr != nil {
			return fmt.Errorf("failed to parse workflow library: %w", err)
		}
		workflows = wrapped.Workflows
	}

	for _, lw := range workflows {
		agg := lw.toAggregate()
		if _, err := im.db.InsertWorkflow(agg); err != nil {
			return fmt.Errorf("failed to import workflow %q: %w", lw.SourceTitle, err)
		}
		result.Workflows++
		im.log.Info("Imported workflow", "title", lw.SourceTitle)
	}
	return nil
}

func (im *Importer) importProcessed(path string, result *Result) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		im.log.Info("No processed-content file found, skipping", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read processed-content file: %w", err)
	}

	var legacy legacyProcessed
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("failed to parse processed-content file: %w", err)
	}

	for _, id := range legacy.ProcessedVideoIDs {
		if err := im.db.MarkProcessed(id); err != nil {
			return err
		}
		result.ProcessedVideos++
	}

	if legacy.LastCheck != "" {
		if err := im.db.SetLastScanTime(legacy.LastCheck); err != nil {
			return err
		}
		result.LastCheck = legacy.LastCheck
	}
	return nil
}

func (lw *legacyWorkflow) toAggregate() *domain.WorkflowAggregate {
	agg := &domain.WorkflowAggregate{
		SourceURL:    lw.SourceURL,
		SourceTitle:  lw.SourceTitle,
		ChannelName:  lw.ChannelName,
		Published:    lw.Published,
		UseCase:      lw.UseCase,
		SkillLevel:   lw.SkillLevel,
		Overview:     lw.Overview,
		CostEstimate: lw.CostEstimate,
		Complexity:   lw.Complexity,
		ValueScore:   lw.ValueScore,
		DocPath:      lw.DocPath,
		ProcessedAt:  lw.ProcessedAt,
		Tools:        lw.Tools,
		WhenToUse:    lw.WhenToUse,
		WhenNotToUse: lw.WhenNotToUse,
		Alternatives: lw.Alternatives,
		PatternTags:  lw.PatternTags,
	}
	for _, s := range lw.Steps {
		agg.Steps = append(agg.Steps, domain.Step{
			Step:    s.Step,
			Action:  s.Action,
			Tool:    s.Tool,
			Details: s.Details,
		})
	}
	return agg
}
