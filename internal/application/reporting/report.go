// Package reporting renders analysis results into human- and
// spreadsheet-readable artifacts: the scored community table as CSV and a
// per-tier text digest.
package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/turtacn/CrimeGraph-Intelligence/internal/application/analysis"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/event"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/graph"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CrimeGraph-Intelligence/pkg/errors"
)

// topDistributionEntries bounds how many categories each digest line shows.
const topDistributionEntries = 3

// Reporter renders run results.
type Reporter struct {
	logger logging.Logger
}

// NewReporter constructs a reporter.
func NewReporter(logger logging.Logger) *Reporter {
	return &Reporter{logger: logger.Named("reporting")}
}

var tableHeader = []string{
	"community_id", "size", "density", "spatial_density",
	"centroid_lat", "centroid_lon",
	"norm_size", "norm_density", "norm_spatial_density", "score", "tier",
	"areas", "sub_areas",
}

// WriteCommunityTable writes the full scored community table as CSV, one row
// per community in ID order.
func (r *Reporter) WriteCommunityTable(w io.Writer, records []graph.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tableHeader); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "write table header")
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.ID),
			strconv.Itoa(rec.Size),
			formatFloat(rec.Density),
			formatFloat(rec.SpatialDensity),
			formatFloat(rec.CentroidLat),
			formatFloat(rec.CentroidLon),
			formatFloat(rec.NormSize),
			formatFloat(rec.NormDensity),
			formatFloat(rec.NormSpatialDensity),
			formatFloat(rec.Score),
			string(rec.Tier),
			strings.Join(rec.Areas, "; "),
			strings.Join(rec.SubAreas, "; "),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "write table row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "flush community table")
	}
	return nil
}

// WriteTierSummary writes a text digest of the classified tiers: for every
// selected community its score, size, touched areas and the leading crime,
// weapon and time-of-day categories.  Undefined weapons are left out of the
// digest lines; they dominate most communities and carry no signal.
func (r *Reporter) WriteTierSummary(w io.Writer, view analysis.TierView) error {
	sections := []struct {
		title   string
		records []graph.Record
	}{
		{"Priority areas", view.PriorityAreas},
		{"Focal points", view.FocalPoints},
		{"Attention areas", view.AttentionAreas},
	}
	for _, sec := range sections {
		if _, err := fmt.Fprintf(w, "=== %s (%d) ===\n", sec.title, len(sec.records)); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "write tier heading")
		}
		for _, rec := range sec.records {
			if err := writeDigest(w, rec); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "write tier separator")
		}
	}
	return nil
}

func writeDigest(w io.Writer, rec graph.Record) error {
	lines := []string{
		fmt.Sprintf("community %d  score %.3f  size %d", rec.ID, rec.Score, rec.Size),
	}
	if len(rec.Areas) > 0 {
		lines = append(lines, fmt.Sprintf("  areas: %s", strings.Join(rec.Areas, ", ")))
	}
	lines = append(lines,
		fmt.Sprintf("  crimes: %s", formatDistribution(rec.CrimePct, nil)),
		fmt.Sprintf("  weapons: %s", formatDistribution(rec.WeaponPct, map[string]bool{string(event.WeaponUndefined): true})),
		fmt.Sprintf("  periods: %s", formatDistribution(rec.PeriodPct, nil)),
	)
	if _, err := fmt.Fprintln(w, strings.Join(lines, "\n")); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "write community digest")
	}
	return nil
}

// formatDistribution renders the leading categories of a distribution as
// "name 54.0%, name 22.0%", skipping excluded keys.
func formatDistribution(dist map[string]float64, exclude map[string]bool) string {
	type entry struct {
		name string
		frac float64
	}
	entries := make([]entry, 0, len(dist))
	for name, frac := range dist {
		if exclude[name] {
			continue
		}
		entries = append(entries, entry{name: name, frac: frac})
	}
	if len(entries) == 0 {
		return "none"
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].frac != entries[b].frac {
			return entries[a].frac > entries[b].frac
		}
		return entries[a].name < entries[b].name
	})
	if len(entries) > topDistributionEntries {
		entries = entries[:topDistributionEntries]
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s %.1f%%", e.name, e.frac*100)
	}
	return strings.Join(parts, ", ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
