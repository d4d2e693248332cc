// Package app composes store queries into the payloads the dashboard API
// serves.
package app

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/mfreitas/flowscout/internal/config"
	"github.com/mfreitas/flowscout/internal/constants"
	"github.com/mfreitas/flowscout/internal/domain"
	"github.com/mfreitas/flowscout/internal/store"
)

// Pulse is the curated high-value overview for the dashboard homepage.
type Pulse struct {
	TotalWorkflows  int                       `json:"total_workflows"`
	HighValueCount  int                       `json:"high_value_count"`
	HighValue       []domain.WorkflowDocument `json:"high_value"`
	Recent          []domain.WorkflowDocument `json:"recent"`
	UseCases        []store.UseCaseSummary    `json:"use_cases"`
	TopTools        []store.ToolUsage         `json:"top_tools"`
	ToolPairs       []store.ToolPair          `json:"tool_pairs"`
	LastScan        string                    `json:"last_scan"`
	VideosProcessed int                       `json:"videos_processed"`
}

// StatsResponse is the global stats payload.
type StatsResponse struct {
	*store.Stats
	LastScan        string `json:"last_scan"`
	VideosProcessed int    `json:"videos_processed"`
}

// WorkflowDetail is one workflow plus its generated doc rendered to HTML.
type WorkflowDetail struct {
	domain.WorkflowDocument
	HTMLContent string `json:"html_content"`
}

// SourceChannel is one configured channel enriched with its workflow count.
type SourceChannel struct {
	config.ChannelSource
	WorkflowCount int `json:"workflow_count"`
}

type DashboardService struct {
	db          *store.DB
	sourcesPath string
	docsDir     string
	md          goldmark.Markdown
}

func NewDashboardService(db *store.DB, sourcesPath, docsDir string) *DashboardService {
	return &DashboardService{
		db:          db,
		sourcesPath: sourcesPath,
		docsDir:     docsDir,
		md:          goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (s *DashboardService) Pulse() (*Pulse, error) {
	highValue, err := s.db.HighValueWorkflows(constants.HighValueThreshold, constants.PulseHighValueMax)
	if err != nil {
		return nil, err
	}
	recent, err := s.db.RecentWorkflows(constants.PulseRecentDays, constants.PulseRecentMax)
	if err != nil {
		return nil, err
	}
	useCases, err := s.db.UseCaseSummaries()
	if err != nil {
		return nil, err
	}
	topTools, err := s.db.ToolUsageCounts(constants.PulseTopToolsMax)
	if err != nil {
		return nil, err
	}
	pairs, err := s.db.ToolPairs()
	if err != nil {
		return nil, err
	}
	total, err := s.db.WorkflowCount()
	if err != nil {
		return nil, err
	}
	highCount, err := s.db.HighValueCount(constants.HighValueThreshold)
	if err != nil {
		return nil, err
	}
	lastScan, err := s.db.LastScanTime()
	if err != nil {
		return nil, err
	}
	videosProcessed, err := s.db.ProcessedVideoCount()
	if err != nil {
		return nil, err
	}

	return &Pulse{
		TotalWorkflows:  total,
		HighValueCount:  highCount,
		HighValue:       highValue,
		Recent:          recent,
		UseCases:        useCases,
		TopTools:        topTools,
		ToolPairs:       pairs,
		LastScan:        lastScan,
		VideosProcessed: videosProcessed,
	}, nil
}

func (s *DashboardService) Stats() (*StatsResponse, error) {
	stats, err := s.db.GetStats()
	if err != nil {
		return nil, err
	}
	lastScan, err := s.db.LastScanTime()
	if err != nil {
		return nil, err
	}
	videosProcessed, err := s.db.ProcessedVideoCount()
	if err != nil {
		return nil, err
	}

	return &StatsResponse{
		Stats:           stats,
		LastScan:        lastScan,
		VideosProcessed: videosProcessed,
	}, nil
}

func (s *DashboardService) ListWorkflows(filter store.WorkflowFilter) ([]domain.WorkflowDocument, error) {
	return s.db.ListWorkflows(filter)
}

// WorkflowDetail returns (nil, nil) when the slug is unknown. The generated
// markdown doc, when present on disk, is rendered into HTMLContent.
func (s *DashboardService) WorkflowDetail(slug string) (*WorkflowDetail, error) {
	doc, err := s.db.GetWorkflowBySlug(slug)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	detail := &WorkflowDetail{WorkflowDocument: *doc}
	detail.HTMLContent = s.renderDoc(doc)
	return detail, nil
}

// renderDoc converts the workflow's generated markdown doc to HTML. Missing
// or unreadable docs render as empty content, not errors.
func (s *DashboardService) renderDoc(doc *domain.WorkflowDocument) string {
	levelDir, ok := constants.SkillLevelDirs[doc.SkillLevel]
	if !ok {
		levelDir = constants.SkillLevelDirs[constants.SkillIntermediate]
	}
	path := filepath.Join(s.docsDir, levelDir, fmt.Sprintf("%s.md", doc.Slug))

	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	var buf bytes.Buffer
	if err := s.md.Convert(raw, &buf); err != nil {
		return ""
	}
	return buf.String()
}

func (s *DashboardService) ToolsIndex() ([]store.ToolIndexEntry, error) {
	return s.db.ToolsIndex()
}

func (s *DashboardService) ChannelStats() ([]store.ChannelStat, error) {
	return s.db.ChannelStats()
}

func (s *DashboardService) ScanHistory(limit int) ([]store.ScanRecord, error) {
	if limit < 1 {
		limit = constants.ScanHistoryMax
	}
	return s.db.ScanHistory(limit)
}

// Sources lists the configured channels enriched with per-channel workflow
// counts.
func (s *DashboardService) Sources() ([]SourceChannel, error) {
	sources, err := config.LoadSources(s.sourcesPath)
	if err != nil {
		return nil, err
	}
	counts, err := s.db.WorkflowCountByChannel()
	if err != nil {
		return nil, err
	}

	channels := []SourceChannel{}
	for _, ch := range sources.Channels {
		channels = append(channels, SourceChannel{
			ChannelSource: ch,
			WorkflowCount: counts[ch.Name],
		})
	}
	return channels, nil
}
