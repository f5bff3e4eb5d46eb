package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/CrimeGraph-Intelligence/internal/application/analysis"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/application/reporting"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/graph"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/export"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/ingest"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CrimeGraph-Intelligence/pkg/errors"
)

// AnalysisHandler serves the analysis run lifecycle: triggering runs over
// the configured event source and reading back communities, tiers and
// exports.
type AnalysisHandler struct {
	svc      analysis.Service
	source   ingest.Source
	reporter *reporting.Reporter
	exporter *export.GraphMLWriter
	logger   logging.Logger
}

// NewAnalysisHandler constructs the handler.
func NewAnalysisHandler(svc analysis.Service, source ingest.Source, reporter *reporting.Reporter, exporter *export.GraphMLWriter, logger logging.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		svc:      svc,
		source:   source,
		reporter: reporter,
		exporter: exporter,
		logger:   logger.Named("http"),
	}
}

// Trigger loads the configured event source and executes one full analysis
// run.
// POST /api/v1/runs
func (h *AnalysisHandler) Trigger(c *gin.Context) {
	events, err := h.source.Load(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := h.svc.Run(c.Request.Context(), events)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"run_id":      res.RunID,
		"created_at":  res.CreatedAt,
		"events":      res.SampledCount,
		"edges":       res.EdgeCount,
		"communities": len(res.Communities),
	})
}

// List returns summaries of stored runs, most recent first.
// GET /api/v1/runs
func (h *AnalysisHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"runs": h.svc.ListRuns(c.Request.Context())})
}

// Get returns the full result of one run.
// GET /api/v1/runs/:runID
func (h *AnalysisHandler) Get(c *gin.Context) {
	res, err := h.svc.GetRun(c.Request.Context(), c.Param("runID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Communities returns the scored community table of a run, optionally
// filtered by tier.
// GET /api/v1/runs/:runID/communities?tier=
func (h *AnalysisHandler) Communities(c *gin.Context) {
	res, err := h.svc.GetRun(c.Request.Context(), c.Param("runID"))
	if err != nil {
		respondError(c, err)
		return
	}
	records := res.Communities
	if tier := c.Query("tier"); tier != "" {
		filtered := make([]graph.Record, 0, len(records))
		for _, rec := range records {
			if string(rec.Tier) == tier {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}
	c.JSON(http.StatusOK, gin.H{"communities": records})
}

// Tiers returns the three classified tier views of a run.
// GET /api/v1/runs/:runID/tiers
func (h *AnalysisHandler) Tiers(c *gin.Context) {
	res, err := h.svc.GetRun(c.Request.Context(), c.Param("runID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res.Tiers)
}

// Table streams the community table as CSV.
// GET /api/v1/runs/:runID/table
func (h *AnalysisHandler) Table(c *gin.Context) {
	res, err := h.svc.GetRun(c.Request.Context(), c.Param("runID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="communities.csv"`)
	c.Status(http.StatusOK)
	if err := h.reporter.WriteCommunityTable(c.Writer, res.Communities); err != nil {
		h.logger.Error("community table streaming failed",
			logging.String("run_id", res.RunID), logging.Err(err))
	}
}

// Summary streams the per-tier text digest.
// GET /api/v1/runs/:runID/summary
func (h *AnalysisHandler) Summary(c *gin.Context) {
	res, err := h.svc.GetRun(c.Request.Context(), c.Param("runID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.reporter.WriteTierSummary(c.Writer, res.Tiers); err != nil {
		h.logger.Error("tier summary streaming failed",
			logging.String("run_id", res.RunID), logging.Err(err))
	}
}

// GraphML streams the annotated similarity graph.
// GET /api/v1/runs/:runID/graphml
func (h *AnalysisHandler) GraphML(c *gin.Context) {
	res, err := h.svc.GetRun(c.Request.Context(), c.Param("runID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "application/xml")
	c.Header("Content-Disposition", `attachment; filename="graph.graphml"`)
	c.Status(http.StatusOK)
	if err := h.exporter.Write(c.Writer, res.Events, res.Graph, res.Cells, res.Communities); err != nil {
		h.logger.Error("graphml streaming failed",
			logging.String("run_id", res.RunID),
			logging.String("code", string(errors.GetCode(err))),
			logging.Err(err))
	}
}
