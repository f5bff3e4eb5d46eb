package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/CrimeGraph-Intelligence/internal/application/analysis"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/application/reporting"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/event"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/export"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/ingest"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
	promx "github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/prometheus"
	httpiface "github.com/turtacn/CrimeGraph-Intelligence/internal/interfaces/http"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/CrimeGraph-Intelligence/pkg/errors"
)

// serveOptions holds the flags of the serve command.
type serveOptions struct {
	inputPath string
}

// newServeCommand builds the API server command.
func newServeCommand(ctx *cliContext) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.inputPath, "input", "i", "", "path to the incident CSV export served as the event source (defaults to ingest.path)")
	return cmd
}

func runServe(ctx *cliContext, opts *serveOptions) error {
	cfg := ctx.cfg
	logger := ctx.logger

	inputPath := opts.inputPath
	if inputPath == "" {
		inputPath = cfg.Ingest.Path
	}
	if inputPath == "" {
		return errors.New(errors.ErrCodeBadRequest, "no event source configured: set --input or ingest.path")
	}

	var metrics *promx.PipelineMetrics
	var collector promx.MetricsCollector
	if cfg.Metrics.Enabled {
		var err error
		collector, err = promx.NewMetricsCollector(promx.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableGoMetrics:      true,
			EnableProcessMetrics: true,
		}, logger)
		if err != nil {
			return err
		}
		metrics = promx.NewPipelineMetrics(collector)
	}

	source := ingest.NewCSVSource(
		ingest.CSVSourceConfig{Path: inputPath, NoOpBehaviorCode: cfg.Analysis.NoOpBehaviorCode},
		event.CrimeTableFromCodes(cfg.Analysis.CrimeCodes),
		event.WeaponTableFromCodes(cfg.Analysis.WeaponCodes),
		metrics,
		logger,
	)
	svc, err := analysis.NewService(cfg.Analysis,
		analysis.NewLouvainPartitioner(cfg.Analysis.PartitionSeed, logger), metrics, logger)
	if err != nil {
		return err
	}

	router := httpiface.NewRouter(httpiface.RouterConfig{
		Analysis: handlers.NewAnalysisHandler(svc, source,
			reporting.NewReporter(logger), export.NewGraphMLWriter(logger), logger),
		Health:      handlers.NewHealthHandler(),
		Logger:      logger,
		Metrics:     metrics,
		Collector:   collector,
		MetricsPath: cfg.Metrics.Path,
		Mode:        cfg.Server.Mode,
	})
	server := httpiface.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
		return server.Stop(context.Background())
	}
}
