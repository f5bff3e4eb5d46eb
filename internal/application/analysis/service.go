// Package analysis implements the incident similarity pipeline: spatial
// candidate search, weighted graph construction, community partitioning,
// feature extraction and tier classification.  This package is the seam
// between HTTP/CLI handlers and the domain model.
package analysis

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"github.com/turtacn/CrimeGraph-Intelligence/internal/config"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/event"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/graph"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
	promx "github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CrimeGraph-Intelligence/pkg/errors"
)

// Service defines the interface for similarity-graph analysis runs.
type Service interface {
	Run(ctx context.Context, events []*event.Event) (*Result, error)
	GetRun(ctx context.Context, id string) (*Result, error)
	ListRuns(ctx context.Context) []*RunSummary
}

// Result is the complete outcome of one analysis run.
type Result struct {
	RunID        string    `json:"run_id"`
	CreatedAt    time.Time `json:"created_at"`
	Duration     float64   `json:"duration_seconds"`
	EventCount   int       `json:"event_count"`
	SampledCount int       `json:"sampled_count"`
	EdgeCount    int       `json:"edge_count"`

	// Communities is the full community table in ID order, scored and
	// labeled.  Tiers holds the three filtered, score-sorted views.
	Communities []graph.Record `json:"communities"`
	Tiers       TierView       `json:"tiers"`

	// Graph carries the built similarity graph, including the synthetic
	// vertices added for classified communities.  It is kept for export and
	// never serialized in API responses.
	Graph *graph.Graph `json:"-"`

	// Cells holds the raw partition with vertex membership, kept so exports
	// can label each vertex with its community.
	Cells []graph.Community `json:"-"`

	// Events are the (possibly sampled) events the run analyzed, indexed by
	// graph vertex.  Kept for export alongside the graph.
	Events []*event.Event `json:"-"`
}

// RunSummary is the listing view of a stored run.
type RunSummary struct {
	RunID       string    `json:"run_id"`
	CreatedAt   time.Time `json:"created_at"`
	EventCount  int       `json:"event_count"`
	EdgeCount   int       `json:"edge_count"`
	Communities int       `json:"communities"`
}

// serviceImpl implements the Service interface.
type serviceImpl struct {
	cfg         config.AnalysisConfig
	partitioner Partitioner
	builder     *GraphBuilder
	extractor   *FeatureExtractor
	ranker      *Ranker
	metrics     *promx.PipelineMetrics
	logger      logging.Logger

	mu   sync.RWMutex
	runs map[string]*Result
}

// NewService creates the analysis service.  metrics may be nil when no
// collector is wired, for example under the CLI.
func NewService(cfg config.AnalysisConfig, partitioner Partitioner, metrics *promx.PipelineMetrics, logger logging.Logger) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAnalysisConfigInvalid, "invalid analysis configuration")
	}
	params := event.SimilarityParams{
		MaxDistanceMeters:              cfg.MaxDistanceMeters,
		TimeDecayAlpha:                 cfg.TimeDecayAlpha,
		AggressionFamilyWeight:         cfg.AggressionFamilyWeight,
		SevereAggressionHomicideWeight: cfg.SevereAggressionHomicideWeight,
	}
	return &serviceImpl{
		cfg:         cfg,
		partitioner: partitioner,
		builder:     NewGraphBuilder(event.NewSimilarity(params), cfg.Combination, cfg.MaxDistanceMeters, cfg.Workers, logger),
		extractor:   NewFeatureExtractor(logger),
		ranker:      NewRanker(cfg.Score, cfg.Tiers, logger),
		metrics:     metrics,
		logger:      logger.Named("analysis"),
		runs:        make(map[string]*Result),
	}, nil
}

// Run executes the full pipeline over the given events and stores the
// result under a fresh run ID.  Any stage failure aborts the run; there are
// no partial results.
func (s *serviceImpl) Run(ctx context.Context, events []*event.Event) (*Result, error) {
	if len(events) == 0 {
		return nil, errors.New(errors.ErrCodeAnalysisNoEvents, "no events to analyze")
	}
	start := time.Now()
	total := len(events)
	sampled := s.sample(events)

	idx := NewSpatialIndex(latitudes(sampled), longitudes(sampled), s.cfg.EarthRadiusMeters)
	g, err := s.builder.Build(ctx, sampled, idx)
	if err != nil {
		s.metrics.RecordRun("failed", time.Since(start))
		return nil, err
	}

	cells, err := s.partitioner.Partition(ctx, g, s.cfg.Resolution)
	if err != nil {
		s.metrics.RecordRun("failed", time.Since(start))
		return nil, err
	}

	records := s.extractor.Extract(sampled, g, cells)
	s.ranker.Rank(records, len(sampled))
	tiers := Tiers(records)
	addSyntheticVertices(g, records)

	res := &Result{
		RunID:        uuid.New().String(),
		CreatedAt:    time.Now().UTC(),
		Duration:     time.Since(start).Seconds(),
		EventCount:   total,
		SampledCount: len(sampled),
		EdgeCount:    g.Size(),
		Communities:  records,
		Tiers:        tiers,
		Graph:        g,
		Cells:        cells,
		Events:       sampled,
	}

	s.mu.Lock()
	s.runs[res.RunID] = res
	s.mu.Unlock()

	s.metrics.RecordRun("ok", time.Since(start))
	s.metrics.RecordGraph(g.Order(), g.Size())
	s.metrics.RecordTiers(len(tiers.FocalPoints), len(tiers.PriorityAreas), len(tiers.AttentionAreas))
	s.logger.Info("analysis run complete",
		logging.String("run_id", res.RunID),
		logging.Int("events", len(sampled)),
		logging.Int("edges", g.Size()),
		logging.Int("communities", len(records)),
		logging.Float64("seconds", res.Duration),
	)
	return res, nil
}

// GetRun returns a stored run by ID.
func (s *serviceImpl) GetRun(_ context.Context, id string) (*Result, error) {
	s.mu.RLock()
	res, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.Newf(errors.ErrCodeAnalysisRunNotFound, "run %s not found", id)
	}
	return res, nil
}

// ListRuns returns summaries of stored runs, most recent first.
func (s *serviceImpl) ListRuns(_ context.Context) []*RunSummary {
	s.mu.RLock()
	out := make([]*RunSummary, 0, len(s.runs))
	for _, res := range s.runs {
		out = append(out, &RunSummary{
			RunID:       res.RunID,
			CreatedAt:   res.CreatedAt,
			EventCount:  res.SampledCount,
			EdgeCount:   res.EdgeCount,
			Communities: len(res.Communities),
		})
	}
	s.mu.RUnlock()
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out
}

// sample returns a deterministic subset of size SampleSize preserving the
// original event order, or the full slice when sampling is disabled or the
// input is already small enough.
func (s *serviceImpl) sample(events []*event.Event) []*event.Event {
	k := s.cfg.SampleSize
	if k <= 0 || k >= len(events) {
		return events
	}
	rng := rand.New(rand.NewSource(s.cfg.SampleSeed))
	picked := rng.Perm(len(events))[:k]
	sort.Ints(picked)
	out := make([]*event.Event, k)
	for i, idx := range picked {
		out[i] = events[idx]
	}
	return out
}

// addSyntheticVertices attaches one labeled centroid vertex per classified
// community.  Synthetic vertices never participate in similarity scoring;
// they exist only so graph exports can render community anchors.
func addSyntheticVertices(g *graph.Graph, records []graph.Record) {
	for _, rec := range records {
		if rec.Tier == graph.TierOrdinary {
			continue
		}
		g.AddSyntheticVertex(graph.SyntheticVertex{
			Title:     fmt.Sprintf("community %d (%s)", rec.ID, rec.Tier),
			Latitude:  rec.CentroidLat,
			Longitude: rec.CentroidLon,
		})
	}
}

func latitudes(events []*event.Event) []float64 {
	out := make([]float64, len(events))
	for i, ev := range events {
		out[i] = ev.Latitude
	}
	return out
}

func longitudes(events []*event.Event) []float64 {
	out := make([]float64, len(events))
	for i, ev := range events {
		out[i] = ev.Longitude
	}
	return out
}
