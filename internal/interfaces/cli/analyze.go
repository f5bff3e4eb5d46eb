package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/CrimeGraph-Intelligence/internal/application/analysis"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/application/reporting"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/event"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/export"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/ingest"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
)

// analyzeOptions holds the flags of the analyze command.
type analyzeOptions struct {
	inputPath   string
	tablePath   string
	graphmlPath string
	sampleSize  int
}

// newAnalyzeCommand builds the batch pipeline command: load a CSV export,
// run the analysis once and write the requested artifacts.
func newAnalyzeCommand(ctx *cliContext) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the similarity-graph analysis over an incident CSV export",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, ctx, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.inputPath, "input", "i", "", "path to the incident CSV export (required)")
	cmd.Flags().StringVarP(&opts.tablePath, "table", "t", "", "write the scored community table CSV to this path")
	cmd.Flags().StringVarP(&opts.graphmlPath, "graphml", "g", "", "write the annotated graph in GraphML to this path")
	cmd.Flags().IntVar(&opts.sampleSize, "sample", 0, "analyze a deterministic sample of this many events (0 = all)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runAnalyze(cmd *cobra.Command, ctx *cliContext, opts *analyzeOptions) error {
	cfg := ctx.cfg.Analysis
	if opts.sampleSize > 0 {
		cfg.SampleSize = opts.sampleSize
	}

	source := ingest.NewCSVSource(
		ingest.CSVSourceConfig{Path: opts.inputPath, NoOpBehaviorCode: cfg.NoOpBehaviorCode},
		event.CrimeTableFromCodes(cfg.CrimeCodes),
		event.WeaponTableFromCodes(cfg.WeaponCodes),
		nil,
		ctx.logger,
	)
	events, err := source.Load(cmd.Context())
	if err != nil {
		return err
	}

	svc, err := analysis.NewService(cfg,
		analysis.NewLouvainPartitioner(cfg.PartitionSeed, ctx.logger), nil, ctx.logger)
	if err != nil {
		return err
	}
	res, err := svc.Run(cmd.Context(), events)
	if err != nil {
		return err
	}

	reporter := reporting.NewReporter(ctx.logger)
	if opts.tablePath != "" {
		if err := writeTableFile(reporter, opts.tablePath, res); err != nil {
			return err
		}
		ctx.logger.Info("community table written", logging.String("path", opts.tablePath))
	}
	if opts.graphmlPath != "" {
		writer := export.NewGraphMLWriter(ctx.logger)
		if err := writer.WriteFile(opts.graphmlPath, res.Events, res.Graph, res.Cells, res.Communities); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d events, %d edges, %d communities\n\n",
		res.RunID, res.SampledCount, res.EdgeCount, len(res.Communities))
	return reporter.WriteTierSummary(cmd.OutOrStdout(), res.Tiers)
}

func writeTableFile(reporter *reporting.Reporter, path string, res *analysis.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return reporter.WriteCommunityTable(f, res.Communities)
}
