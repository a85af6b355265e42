package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/agentstation/practicemap/internal/output"
	"github.com/agentstation/practicemap/pkg/ingest"
	"github.com/agentstation/practicemap/pkg/logging"
	"github.com/agentstation/practicemap/pkg/pipeline"
	"github.com/agentstation/practicemap/pkg/practice"
)

// run reconciles the registry files, optionally joined with directoryFile,
// and writes the document to stdout. Nothing reaches stdout unless the whole
// run succeeds.
func (a *App) run(ctx context.Context, registryFiles []string, directoryFile string) error {
	format, err := output.ParseFormat(a.config.Format)
	if err != nil {
		return err
	}

	ctx = logging.WithLogger(ctx, a.logger)
	ctx = logging.WithRunID(ctx, uuid.NewString())
	logger := logging.FromContext(ctx)

	logger.Debug().
		Strs("registry_files", registryFiles).
		Str("directory_file", directoryFile).
		Str("format", string(format)).
		Msg("Starting reconciliation")

	result, err := a.pipeline().Run(ctx, pipeline.Input{
		RegistryFiles: registryFiles,
		DirectoryFile: directoryFile,
	})
	if err != nil {
		return err
	}

	if err := output.Render(a.stdout, output.NewFormatter(format), result.Records); err != nil {
		return err
	}

	if path := a.config.MetricsTextfile; path != "" {
		if err := pipeline.WriteMetrics(path, result.Stats); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to write metrics")
		}
	}

	return nil
}

// pipeline builds a pipeline from the current configuration.
func (a *App) pipeline() *pipeline.Pipeline {
	return pipeline.New(
		pipeline.WithDirectoryOptions(
			ingest.WithDelimiter(a.config.DirectoryDelimiter),
			ingest.WithEncoding(a.config.DirectoryEncoding),
		),
		pipeline.WithPracticeOptions(
			practice.WithStatusCode(a.config.StatusCode),
			practice.WithPrescribingSetting(a.config.PrescribingSetting),
		),
	)
}
