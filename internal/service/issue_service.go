package service

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ahmednasr/help-wanted/internal/issues"
	"github.com/ahmednasr/help-wanted/internal/models"
	"github.com/ahmednasr/help-wanted/internal/sources"
)

// ---- Collaborator contracts ------------------------------------------------

// IssueFetcher builds a fully populated store from GitHub.
type IssueFetcher interface {
	FetchIssueSet(ctx context.Context) (*issues.Store, error)
	Labels() []string
}

// RunRecorder keeps a history of refresh runs.
type RunRecorder interface {
	Record(ctx context.Context, run models.RefreshRun) error
	Latest(ctx context.Context) (models.RefreshRun, error)
}

// ---- Service interface + implementation ------------------------------------

// Status summarises what the service is currently serving.
type Status struct {
	Issues  int                `json:"issues"`
	LastRun *models.RefreshRun `json:"last_refresh,omitempty"`
}

// IssueService serves lookups from the current store and replaces that
// store wholesale on every refresh.
type IssueService interface {
	Lookup(q issues.Query) models.Document
	Refresh(ctx context.Context) (models.RefreshRun, error)
	Run(ctx context.Context, interval time.Duration)
	Status(ctx context.Context) Status
}

type issueService struct {
	fetcher      IssueFetcher
	recorder     RunRecorder
	fetchTimeout time.Duration

	current atomic.Pointer[issues.Store]

	mu      sync.Mutex
	lastRun *models.RefreshRun
}

// NewIssueService wires dependencies. Until the first refresh completes the
// service serves an empty store built from table. recorder may be nil.
func NewIssueService(fetcher IssueFetcher, recorder RunRecorder, table *sources.Table, fetchTimeout time.Duration) IssueService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	s := &issueService{
		fetcher:      fetcher,
		recorder:     recorder,
		fetchTimeout: fetchTimeout,
	}
	s.current.Store(issues.New(table))
	return s
}

// Lookup queries the store currently being served.
func (s *issueService) Lookup(q issues.Query) models.Document {
	return s.current.Load().Lookup(q)
}

// Refresh fetches every label into a new store and swaps it in once complete.
// On failure the previous store keeps being served.
func (s *issueService) Refresh(ctx context.Context) (models.RefreshRun, error) {
	run := models.RefreshRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Labels:    len(s.fetcher.Labels()),
	}
	log.Printf("[Issue Service] Refresh %s started for %d labels", run.ID, run.Labels)

	fetchCtx := ctx
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	store, err := s.fetcher.FetchIssueSet(fetchCtx)
	run.FinishedAt = time.Now().UTC()
	if err != nil {
		run.Error = err.Error()
		log.Printf("[Issue Service] Refresh %s failed after %s: %v", run.ID, run.Duration(), err)
	} else {
		s.current.Store(store)
		run.Issues = store.Len()
		log.Printf("[Issue Service] Refresh %s loaded %d issues in %s", run.ID, run.Issues, run.Duration())
	}

	s.mu.Lock()
	s.lastRun = &run
	s.mu.Unlock()

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if recErr := s.recorder.Record(recordCtx, run); recErr != nil {
		log.Printf("[Issue Service] Failed to record refresh %s: %v", run.ID, recErr)
	}

	return run, err
}

// Run refreshes immediately and then every interval until ctx is done.
func (s *issueService) Run(ctx context.Context, interval time.Duration) {
	_, _ = s.Refresh(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[Issue Service] Refresh loop stopped: %v", ctx.Err())
			return
		case <-ticker.C:
			_, _ = s.Refresh(ctx)
		}
	}
}

// Status reports the served issue count and the most recent refresh. Before
// this process has refreshed, the recorder's history is consulted.
func (s *issueService) Status(ctx context.Context) Status {
	status := Status{Issues: s.current.Load().Len()}

	s.mu.Lock()
	if s.lastRun != nil {
		run := *s.lastRun
		status.LastRun = &run
	}
	s.mu.Unlock()

	if status.LastRun == nil {
		if run, err := s.recorder.Latest(ctx); err == nil && run.ID != "" {
			status.LastRun = &run
		}
	}
	return status
}

// nopRecorder is used when no history store is configured.
type nopRecorder struct{}

func (nopRecorder) Record(context.Context, models.RefreshRun) error { return nil }

func (nopRecorder) Latest(context.Context) (models.RefreshRun, error) {
	return models.RefreshRun{}, nil
}
