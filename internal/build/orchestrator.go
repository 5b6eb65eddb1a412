package build

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fogsmith/internal/cache"
)

// Balance is the requested strength tier of the generated build.
type Balance string

const (
	BalanceLow  Balance = "Low"
	BalanceMid  Balance = "Mid"
	BalanceHigh Balance = "High"
)

// ParseBalance maps free-form input onto a tier, defaulting to Mid.
func ParseBalance(s string) Balance {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return BalanceLow
	case "high":
		return BalanceHigh
	default:
		return BalanceMid
	}
}

// Result is what callers get back: either a generated build description or a
// described failure. Never both, never a crash.
type Result struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

const defaultPollInterval = 10 * time.Second

// Orchestrator connects the cache refresh pipeline to the generative
// service. One logical worker per build request; the cache directory is the
// only shared resource.
type Orchestrator struct {
	refresher    *cache.Refresher
	store        *cache.Store
	svc          GenerativeService
	prompt       string
	pollInterval time.Duration
	log          *zap.Logger
}

// NewOrchestrator wires an orchestrator. prompt is the template holding the
// <REQUEST> and <BALANCE> placeholders.
func NewOrchestrator(refresher *cache.Refresher, store *cache.Store, svc GenerativeService, prompt string, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		refresher:    refresher,
		store:        store,
		svc:          svc,
		prompt:       prompt,
		pollInterval: defaultPollInterval,
		log:          log,
	}
}

// RequestBuild produces a build recommendation for the request text at the
// given balance tier. Failures are folded into the Result rather than
// returned as faults.
func (o *Orchestrator) RequestBuild(ctx context.Context, request string, balance Balance) Result {
	reply, err := o.requestBuild(ctx, request, balance)
	if err != nil {
		o.log.Error("build request failed", zap.Error(err))
		return Result{Error: err.Error()}
	}
	if reply.BlockReason != "" {
		return Result{Error: "Blocked for " + reply.BlockReason}
	}
	return Result{Response: reply.Text}
}

func (o *Orchestrator) requestBuild(ctx context.Context, request string, balance Balance) (*Reply, error) {
	// A stale entity triggers its refresh pipeline first. Entities that fail
	// to refresh keep their previous artifact, so a partial failure only
	// degrades freshness; a missing artifact surfaces at upload below.
	if err := o.refresher.CheckFiles(ctx); err != nil {
		o.log.Warn("cache refresh incomplete", zap.Error(err))
	}

	files, err := o.uploadArtifacts(ctx)
	if err != nil {
		return nil, err
	}

	if err := o.waitForActive(ctx, files); err != nil {
		return nil, err
	}

	prompt := strings.Replace(o.prompt, "<REQUEST>", request, 1)
	prompt = strings.Replace(prompt, "<BALANCE>", string(balance), 1)

	return o.svc.Converse(ctx, files, prompt)
}

// uploadArtifacts ships the five cached artifacts concurrently, preserving
// the fixed artifact order in the returned slice.
func (o *Orchestrator) uploadArtifacts(ctx context.Context) ([]FileRef, error) {
	files := make([]FileRef, len(cache.Kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range cache.Kinds {
		g.Go(func() error {
			ref, err := o.svc.Upload(gctx, o.store.Path(kind), kind.MIMEType(), kind.Filename())
			if err != nil {
				return err
			}
			o.log.Info("artifact uploaded",
				zap.String("file", ref.DisplayName),
				zap.String("name", ref.Name))
			files[i] = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// waitForActive polls each file at the poll interval until it reports
// active. A failed state is terminal and fatal for the whole request;
// context cancellation bounds an upstream that never settles.
func (o *Orchestrator) waitForActive(ctx context.Context, files []FileRef) error {
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	for _, f := range files {
		for f.State != StateActive {
			if f.State == StateFailed {
				return &FileProcessingError{File: f.DisplayName}
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
			var err error
			if f, err = o.svc.FileState(ctx, f.Name); err != nil {
				return err
			}
		}
		o.log.Debug("file active", zap.String("file", f.DisplayName))
	}
	return nil
}
