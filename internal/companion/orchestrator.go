package companion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/brightpixel/companion/internal/llm"
	"github.com/brightpixel/companion/internal/seo"
	"github.com/brightpixel/companion/internal/store"
	"github.com/brightpixel/companion/internal/types"
)

// ErrGenerationFailed wraps any narrative-generation failure. The HTTP layer
// maps it to a 500 after the task has been reverted to pending.
var ErrGenerationFailed = errors.New("deliverable generation failed")

// rankingLookups caps how many extracted keywords get a live SERP check.
const rankingLookups = 3

// Orchestrator coordinates one generation request from task creation through
// completion or failure.
type Orchestrator struct {
	store   store.Store
	llm     llm.Completer
	fetcher seo.Fetcher
}

// NewOrchestrator creates an orchestrator over the given store, language
// model, and external data fetcher.
func NewOrchestrator(s store.Store, completer llm.Completer, fetcher seo.Fetcher) *Orchestrator {
	return &Orchestrator{
		store:   s,
		llm:     completer,
		fetcher: fetcher,
	}
}

// Generate runs the full pipeline for one (client, taskType) request.
//
// State machine: a task row is created in_progress (the store's uniqueness
// constraint rejects a second in-flight generation for the same key); on
// success it is completed with content and metadata; on any generator failure
// it reverts to pending with a human-readable message as content and the
// error is returned for the HTTP layer to surface.
func (o *Orchestrator) Generate(ctx context.Context, clientID int64, taskType types.TaskType, req types.GenerateRequest) (*types.CompanionTask, error) {
	client, err := o.store.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	task, err := o.store.CreateTask(ctx, clientID, taskType, types.TaskInProgress)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	content, metadata, err := o.dispatch(ctx, client, taskType, req)
	if err != nil {
		slog.Error("generation failed",
			"client_id", clientID,
			"task_id", task.ID,
			"type", taskType,
			"error", err,
		)
		message := fmt.Sprintf("Generation failed: %s. Please try again.", rootMessage(err))
		if _, failErr := o.store.FailTask(ctx, task.ID, message); failErr != nil {
			slog.Error("failed to revert task", "task_id", task.ID, "error", failErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	completed, err := o.store.CompleteTask(ctx, task.ID, content, metadata)
	if err != nil {
		return nil, fmt.Errorf("persist deliverable: %w", err)
	}

	if taskType == types.TaskSiteMap {
		token := uuid.NewString()
		if err := o.store.SetShareToken(ctx, completed.ID, token); err != nil {
			slog.Warn("failed to attach share token", "task_id", completed.ID, "error", err)
		} else {
			completed.ShareToken = &token
		}
	}

	slog.Info("deliverable generated",
		"client_id", clientID,
		"task_id", completed.ID,
		"type", taskType,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return completed, nil
}

// dispatch routes to the generator for the task type, returning the content
// and optional metadata JSON.
func (o *Orchestrator) dispatch(ctx context.Context, client *types.Client, taskType types.TaskType, req types.GenerateRequest) (string, *string, error) {
	switch taskType {
	case types.TaskCompanyAnalysis:
		content, err := o.generateAnalysis(ctx, client)
		return content, nil, err
	case types.TaskProposal:
		return o.generateProposal(ctx, client, req.DiscoveryNotes)
	case types.TaskContract:
		content, err := o.llm.Complete(ctx, systemPrompt, BuildContractPrompt(client))
		return content, nil, err
	case types.TaskSiteMap:
		content, err := o.llm.Complete(ctx, systemPrompt, BuildSiteMapPrompt(client, req.DiscoveryNotes))
		return content, nil, err
	case types.TaskStatusUpdate:
		content, err := o.llm.Complete(ctx, systemPrompt, BuildStatusUpdatePrompt(client, req.DiscoveryNotes))
		return content, nil, err
	case types.TaskScheduleDiscovery:
		content, err := o.llm.Complete(ctx, systemPrompt, BuildScheduleDiscoveryPrompt(client))
		return content, nil, err
	default:
		return "", nil, fmt.Errorf("unknown task type %q", taskType)
	}
}

// generateAnalysis runs narrative generation, keyword extraction, the
// parallel external lookups, and report assembly.
func (o *Orchestrator) generateAnalysis(ctx context.Context, client *types.Client) (string, error) {
	raw, err := o.llm.CompleteJSON(ctx, systemPrompt, BuildAnalysisPrompt(client))
	if err != nil {
		return "", err
	}

	analysis, err := ParseCompanyAnalysis(raw)
	if err != nil {
		return "", err
	}

	keywords := ExtractKeywords(ctx, o.llm, analysis.BusinessOverview)
	if len(keywords) == 0 {
		keywords = capKeywords(analysis.KeywordRecommendations)
	}

	// External lookups are independent and individually non-fatal; each
	// fetcher returns nil on failure rather than an error.
	var (
		mu       sync.Mutex
		volumes  []seo.KeywordVolume
		rankings []seo.SerpRanking
		perf     *seo.PerformanceMetrics
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		volumes = o.fetcher.KeywordVolumes(gctx, keywords)
		return nil
	})
	for _, kw := range keywords[:min(len(keywords), rankingLookups)] {
		kw := kw
		g.Go(func() error {
			if r := o.fetcher.Ranking(gctx, kw, client.Website); r != nil {
				mu.Lock()
				rankings = append(rankings, *r)
				mu.Unlock()
			}
			return nil
		})
	}
	g.Go(func() error {
		perf = o.fetcher.PagePerformance(gctx, client.Website)
		return nil
	})
	_ = g.Wait()

	return RenderAnalysisReport(ReportData{
		ClientName:  client.Name,
		Website:     client.Website,
		GeneratedAt: time.Now().UTC(),
		Analysis:    analysis,
		Keywords:    volumes,
		Rankings:    rankings,
		Performance: perf,
	})
}

// generateProposal builds the proposal, pulling in the latest completed
// company analysis as optional context and storing pricing as metadata.
func (o *Orchestrator) generateProposal(ctx context.Context, client *types.Client, discoveryNotes string) (string, *string, error) {
	var analysisContext string
	if prior, err := o.store.LatestCompletedTask(ctx, client.ID, types.TaskCompanyAnalysis); err == nil && prior.Content != nil {
		analysisContext = *prior.Content
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", nil, err
	}

	raw, err := o.llm.CompleteJSON(ctx, systemPrompt, BuildProposalPrompt(client, analysisContext, discoveryNotes))
	if err != nil {
		return "", nil, err
	}

	content, pricing, err := parseProposal(raw, client.ProjectValue)
	if err != nil {
		return "", nil, err
	}

	metadata, err := marshalPricing(pricing)
	if err != nil {
		return "", nil, err
	}

	return content, &metadata, nil
}

func capKeywords(keywords []string) []string {
	if len(keywords) > maxKeywords {
		return keywords[:maxKeywords]
	}
	return keywords
}

// rootMessage unwraps to the innermost error message for user display.
func rootMessage(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}
