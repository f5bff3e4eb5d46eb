package analysis

import (
	"sort"

	"github.com/turtacn/CrimeGraph-Intelligence/internal/config"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/graph"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
)

// Ranker normalizes the community feature columns, scores each community and
// assigns it to at most one output tier.
type Ranker struct {
	weights config.ScoreWeights
	tiers   config.TierConfig
	logger  logging.Logger
}

// NewRanker constructs the ranker from validated configuration.
func NewRanker(weights config.ScoreWeights, tiers config.TierConfig, logger logging.Logger) *Ranker {
	return &Ranker{weights: weights, tiers: tiers, logger: logger.Named("ranker")}
}

// Rank fills the normalized columns, the composite selection score and the
// tier label of every record in place.  totalEvents is the full event count
// of the run; tier size bounds are fractions of it.  Tiers are exclusive:
// each community lands in the first matching tier in the order priority,
// focal, attention, so a community is never counted twice.
func (r *Ranker) Rank(records []graph.Record, totalEvents int) {
	if len(records) == 0 {
		return
	}

	sizes := make([]float64, len(records))
	densities := make([]float64, len(records))
	spatials := make([]float64, len(records))
	for i, rec := range records {
		sizes[i] = float64(rec.Size)
		densities[i] = rec.Density
		spatials[i] = rec.SpatialDensity
	}
	normalizeColumn(sizes)
	normalizeColumn(densities)
	normalizeColumn(spatials)

	counts := map[graph.Tier]int{}
	for i := range records {
		rec := &records[i]
		rec.NormSize = sizes[i]
		rec.NormDensity = densities[i]
		rec.NormSpatialDensity = spatials[i]
		rec.Score = r.weights.Size*rec.NormSize +
			r.weights.Density*rec.NormDensity +
			r.weights.SpatialDensity*rec.NormSpatialDensity
		rec.Tier = r.classify(rec.Score, rec.Size, totalEvents)
		counts[rec.Tier]++
	}

	r.logger.Info("communities classified",
		logging.Int("total", len(records)),
		logging.Int("priority_areas", counts[graph.TierPriorityArea]),
		logging.Int("focal_points", counts[graph.TierFocalPoint]),
		logging.Int("attention_areas", counts[graph.TierAttentionArea]),
	)
}

func (r *Ranker) classify(score float64, size, totalEvents int) graph.Tier {
	if totalEvents <= 0 {
		return graph.TierOrdinary
	}
	frac := float64(size) / float64(totalEvents)
	t := r.tiers
	switch {
	case score >= t.PriorityScoreMin && frac >= t.PrioritySizeMinFraction:
		return graph.TierPriorityArea
	case score >= t.FocalScoreMin && frac >= t.FocalSizeMinFraction && frac < t.FocalSizeMaxFraction:
		return graph.TierFocalPoint
	case score >= t.AttentionScoreMin && score < t.PriorityScoreMin && frac >= t.AttentionSizeMinFraction:
		return graph.TierAttentionArea
	default:
		return graph.TierOrdinary
	}
}

// TierView groups the classified records by tier, each slice sorted by
// selection score descending (ties broken by community ID for stability).
type TierView struct {
	FocalPoints    []graph.Record `json:"focal_points"`
	PriorityAreas  []graph.Record `json:"priority_areas"`
	AttentionAreas []graph.Record `json:"attention_areas"`
}

// Tiers builds the three score-sorted tier views from ranked records.
func Tiers(records []graph.Record) TierView {
	var view TierView
	for _, rec := range records {
		switch rec.Tier {
		case graph.TierFocalPoint:
			view.FocalPoints = append(view.FocalPoints, rec)
		case graph.TierPriorityArea:
			view.PriorityAreas = append(view.PriorityAreas, rec)
		case graph.TierAttentionArea:
			view.AttentionAreas = append(view.AttentionAreas, rec)
		}
	}
	sortByScore(view.FocalPoints)
	sortByScore(view.PriorityAreas)
	sortByScore(view.AttentionAreas)
	return view
}

func sortByScore(recs []graph.Record) {
	sort.SliceStable(recs, func(a, b int) bool {
		if recs[a].Score != recs[b].Score {
			return recs[a].Score > recs[b].Score
		}
		return recs[a].ID < recs[b].ID
	})
}

// normalizeColumn rescales values to [0,1] by min-max in place.  A column
// with zero range maps to the constant 0.
func normalizeColumn(vals []float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	for i, v := range vals {
		if span == 0 {
			vals[i] = 0
		} else {
			vals[i] = (v - lo) / span
		}
	}
}
