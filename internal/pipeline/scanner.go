// Package pipeline orchestrates one ingestion scan: discover candidate
// videos, analyze transcripts, persist extracted workflows, and update the
// scan ledgers. Discovery and analysis stay behind interfaces; the pipeline
// owns only the glue and the ledger bookkeeping.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mfreitas/flowscout/internal/constants"
	"github.com/mfreitas/flowscout/internal/domain"
	"github.com/mfreitas/flowscout/internal/logger"
	"github.com/mfreitas/flowscout/internal/store"
)

// VideoSource produces candidate videos from the curated channels.
type VideoSource interface {
	ListNewVideos(ctx context.Context, daysBack, maxPerChannel int) ([]domain.VideoInfo, error)
}

// Analyzer extracts a workflow aggregate from a video transcript.
// (nil, nil) means the video is not relevant; errors are transient analyzer
// failures and leave the video unmarked for a later retry.
type Analyzer interface {
	Analyze(ctx context.Context, video domain.VideoInfo) (*domain.WorkflowAggregate, error)
}

// HighValueRef summarizes one high-value discovery in a scan result.
type HighValueRef struct {
	Title string `json:"title"`
	Score int    `json:"score"`
	URL   string `json:"url"`
}

// ScanResult summarizes one completed scan run.
type ScanResult struct {
	ScanID             string         `json:"scan_id"`
	Date               string         `json:"date"`
	VideosChecked      int            `json:"videos_checked"`
	RelevantFound      int            `json:"relevant_found"`
	WorkflowsGenerated int            `json:"workflows_generated"`
	HighValue          []HighValueRef `json:"high_value"`
}

type Scanner struct {
	db            *store.DB
	source        VideoSource
	analyzer      Analyzer
	log           *logger.Logger
	daysBack      int
	maxPerChannel int
}

func NewScanner(db *store.DB, source VideoSource, analyzer Analyzer, log *logger.Logger, daysBack, maxPerChannel int) *Scanner {
	return &Scanner{
		db:            db,
		source:        source,
		analyzer:      analyzer,
		log:           log.WithComponent("pipeline"),
		daysBack:      daysBack,
		maxPerChannel: maxPerChannel,
	}
}

// Run executes one scan. Per-video failures are logged and skipped; the scan
// itself only fails when discovery or the ledgers are unavailable.
func (s *Scanner) Run(ctx context.Context) (*ScanResult, error) {
	now := time.Now().UTC()
	result := &ScanResult{
		ScanID:    uuid.New().String(),
		Date:      now.Format("2006-01-02"),
		HighValue: []HighValueRef{},
	}
	log := s.log.WithScan(result.ScanID)
	log.Info("Starting scan", "days_back", s.daysBack, "max_per_channel", s.maxPerChannel)

	videos, err := s.source.ListNewVideos(ctx, s.daysBack, s.maxPerChannel)
	if err != nil {
		return nil, fmt.Errorf("failed to list new videos: %w", err)
	}
	result.VideosChecked = len(videos)

	// One bulk read up front; membership tests stay in memory for the
	// whole run.
	processed, err := s.db.ProcessedVideoIDs()
	if err != nil {
		return nil, err
	}

	for _, video := range videos {
		if _, seen := processed[video.VideoID]; seen {
			continue
		}

		agg, err := s.analyzer.Analyze(ctx, video)
		if err != nil {
			// Leave the video unmarked so a later scan can retry it.
			log.Warn("Analysis failed", "video_id", video.VideoID, "title", video.Title, "error", err)
			continue
		}

		if agg == nil {
			log.Debug("Video not relevant", "video_id", video.VideoID, "title", video.Title)
			if err := s.db.MarkProcessed(video.VideoID); err != nil {
				return nil, err
			}
			continue
		}
		result.RelevantFound++

		agg.ProcessedAt = time.Now().UTC().Format(time.RFC3339)
		if _, err := s.db.InsertWorkflow(agg); err != nil {
			log.Error("Failed to persist workflow", "video_id", video.VideoID, "title", video.Title, "error", err)
			continue
		}
		if err := s.db.MarkProcessed(video.VideoID); err != nil {
			return nil, err
		}

		result.WorkflowsGenerated++
		if agg.ValueScore >= constants.HighValueThreshold {
			result.HighValue = append(result.HighValue, HighValueRef{
				Title: agg.SourceTitle,
				Score: agg.ValueScore,
				URL:   agg.SourceURL,
			})
		}
		log.Info("Workflow generated", "title", agg.SourceTitle, "score", agg.ValueScore)
	}

	if err := s.db.RecordScan(result.Date, result.VideosChecked, result.RelevantFound, result.WorkflowsGenerated); err != nil {
		return nil, err
	}
	if err := s.db.SetLastScanTime(now.Format(time.RFC3339)); err != nil {
		return nil, err
	}

	log.Info("Scan complete",
		"videos_checked", result.VideosChecked,
		"relevant_found", result.RelevantFound,
		"workflows_generated", result.WorkflowsGenerated,
		"high_value", len(result.HighValue))
	return result, nil
}
