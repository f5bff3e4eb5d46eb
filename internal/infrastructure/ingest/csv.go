// Package ingest loads incident events from external sources and maps raw
// attribute codes onto the domain model.
package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/event"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
	promx "github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CrimeGraph-Intelligence/pkg/errors"
)

// Source yields the event set to analyze.
type Source interface {
	Load(ctx context.Context) ([]*event.Event, error)
}

// Column names of the LAPD open-data incident export.
const (
	colLatitude   = "LAT"
	colLongitude  = "LON"
	colTime       = "TIME OCC"
	colCrime      = "Crm Cd"
	colCrime2     = "Crm Cd 2"
	colCrime3     = "Crm Cd 3"
	colCrime4     = "Crm Cd 4"
	colMocodes    = "Mocodes"
	colWeapon     = "Weapon Used Cd"
	colVictAge    = "Vict Age"
	colVictSex    = "Vict Sex"
	colVictOrigin = "Vict Descent"
	colArea       = "AREA"
	colAreaName   = "AREA NAME"
	colSubArea    = "Rpt Dist No"
)

// CSVSourceConfig configures a CSVSource.
type CSVSourceConfig struct {
	Path             string
	NoOpBehaviorCode string
}

// CSVSource reads incident events from a CSV export.  Rows without usable
// coordinates are skipped and counted rather than failing the whole load;
// every categorical attribute degrades to its absent or undefined form.
type CSVSource struct {
	cfg     CSVSourceConfig
	crimes  *event.CrimeTable
	weapons *event.WeaponTable
	metrics *promx.PipelineMetrics
	logger  logging.Logger
}

// NewCSVSource creates a source over the file at cfg.Path.  metrics may be
// nil.
func NewCSVSource(cfg CSVSourceConfig, crimes *event.CrimeTable, weapons *event.WeaponTable, metrics *promx.PipelineMetrics, logger logging.Logger) *CSVSource {
	return &CSVSource{
		cfg:     cfg,
		crimes:  crimes,
		weapons: weapons,
		metrics: metrics,
		logger:  logger.Named("ingest"),
	}
}

// Load reads the whole file and returns the parsed events in row order.
func (s *CSVSource) Load(ctx context.Context) ([]*event.Event, error) {
	start := time.Now()
	f, err := os.Open(s.cfg.Path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIngestOpenFailed, "open event source")
	}
	defer f.Close()

	events, skipped, err := s.parse(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, errors.Newf(errors.ErrCodeIngestEmptySource, "no usable events in %s", s.cfg.Path)
	}

	s.metrics.RecordIngest("csv", len(events), skipped, time.Since(start))
	s.logger.Info("events loaded",
		logging.String("path", s.cfg.Path),
		logging.Int("events", len(events)),
		logging.Int("skipped", skipped),
	)
	return events, nil
}

func (s *CSVSource) parse(ctx context.Context, r io.Reader) ([]*event.Event, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeIngestReadFailed, "read header row")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colLatitude, colLongitude, colCrime} {
		if _, ok := cols[required]; !ok {
			return nil, 0, errors.Newf(errors.ErrCodeIngestMissingField, "source is missing column %q", required)
		}
	}

	var events []*event.Event
	skipped := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeTimeout, "ingest cancelled")
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeIngestReadFailed, "read event row")
		}

		ev, ok := s.parseRow(row, cols)
		if !ok {
			skipped++
			continue
		}
		events = append(events, ev)
	}
	return events, skipped, nil
}

// parseRow maps one data row onto an Event.  It reports false for rows
// without usable coordinates; the LAPD export uses 0 for redacted locations.
func (s *CSVSource) parseRow(row []string, cols map[string]int) (*event.Event, bool) {
	lat, latErr := strconv.ParseFloat(field(row, cols, colLatitude), 64)
	lon, lonErr := strconv.ParseFloat(field(row, cols, colLongitude), 64)
	if latErr != nil || lonErr != nil || (lat == 0 && lon == 0) {
		return nil, false
	}

	ev := &event.Event{
		Latitude:       lat,
		Longitude:      lon,
		TimeOfDay:      event.ParseMilitaryTime(field(row, cols, colTime)),
		CrimeCategory:  s.crimes.Category(intField(row, cols, colCrime)),
		WeaponCategory: s.weapons.Category(intField(row, cols, colWeapon)),
		BehaviorCodes:  event.NormalizeBehaviorCodes(field(row, cols, colMocodes), s.cfg.NoOpBehaviorCode),
		Victim: event.NewVictimProfile(
			intField(row, cols, colVictAge),
			field(row, cols, colVictSex),
			field(row, cols, colVictOrigin),
		),
		AreaCode: field(row, cols, colArea),
		AreaName: field(row, cols, colAreaName),
		SubArea:  field(row, cols, colSubArea),
	}

	for _, col := range []string{colCrime2, colCrime3, colCrime4} {
		if raw := field(row, cols, col); raw != "" {
			ev.SecondaryCrimes = append(ev.SecondaryCrimes, s.crimes.Category(intField(row, cols, col)))
		}
	}
	return ev, true
}

// field returns the trimmed cell under the named column, or "" when the
// column is absent or the row is short.
func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// intField parses the cell as an integer, tolerating the float formatting
// ("510.0") some exports use.  Unparseable cells map to 0, which the code
// tables bucket as undefined.
func intField(row []string, cols map[string]int, name string) int {
	raw := field(row, cols, name)
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}
