// Package pipeline runs the full reconciliation: load every registry file,
// merge them, join with the optional directory export, filter, sort and
// normalize. Nothing is returned unless every stage succeeds.
package pipeline

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/agentstation/practicemap/pkg/errors"
	"github.com/agentstation/practicemap/pkg/ingest"
	"github.com/agentstation/practicemap/pkg/logging"
	"github.com/agentstation/practicemap/pkg/practice"
	"github.com/agentstation/practicemap/pkg/reconcile"
	"github.com/agentstation/practicemap/pkg/records"
)

// Input names the files for one run.
type Input struct {
	// RegistryFiles is the base extract followed by amendments, in override order.
	RegistryFiles []string
	// DirectoryFile is optional. Without it the output has no location.
	DirectoryFile string
}

// Joined reports whether the run includes a directory export.
func (in Input) Joined() bool {
	return in.DirectoryFile != ""
}

// Result is the outcome of a successful run.
type Result struct {
	Records []practice.OutputRecord
	Stats   Stats
}

// FileStats counts the distinct codes read from one registry file.
// Position is the file's index in the override order, so a file passed
// twice is counted twice.
type FileStats struct {
	Position int
	Path     string
	Rows     int
}

// Stats counts what happened at each stage.
type Stats struct {
	RegistryFiles []FileStats
	Merged        int
	Overridden    int
	DirectoryRows int
	Joined        int
	Dropped       map[practice.Reason]int
	Emitted       int
	Duration      time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDirectoryOptions sets how the directory export is read.
func WithDirectoryOptions(opts ...ingest.DirectoryOption) Option {
	return func(p *Pipeline) {
		p.directoryOpts = append(p.directoryOpts, opts...)
	}
}

// WithPracticeOptions sets the filter codes.
func WithPracticeOptions(opts ...practice.Option) Option {
	return func(p *Pipeline) {
		p.practiceOpts = append(p.practiceOpts, opts...)
	}
}

// Pipeline holds the reading and filtering configuration for runs.
type Pipeline struct {
	directoryOpts []ingest.DirectoryOption
	practiceOpts  []practice.Option
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// load reads every input file in order, registry files first. sources
// keeps the order of in.RegistryFiles. The first failure ends the load.
func (p *Pipeline) load(ctx context.Context, in Input) ([]map[string]records.RegistryRecord, map[string]records.DirectoryRecord, error) {
	sources := make([]map[string]records.RegistryRecord, 0, len(in.RegistryFiles))
	for _, path := range in.RegistryFiles {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		src, err := ingest.ParseRegistry(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}

	directory := map[string]records.DirectoryRecord{}
	if in.Joined() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		dir, err := ingest.ParseDirectory(ctx, in.DirectoryFile, p.directoryOpts...)
		if err != nil {
			return nil, nil, err
		}
		directory = dir
	}

	return sources, directory, nil
}

// Run executes one pass over in.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	if len(in.RegistryFiles) == 0 {
		return nil, errors.NewUsageError("pipeline", "at least one registry file is required")
	}

	start := time.Now()
	logger := logging.FromContext(ctx)
	stats := Stats{
		RegistryFiles: make([]FileStats, 0, len(in.RegistryFiles)),
		Dropped:       make(map[practice.Reason]int, len(practice.Reasons)),
	}

	sources, directory, err := p.load(ctx, in)
	if err != nil {
		return nil, err
	}
	for i, path := range in.RegistryFiles {
		stats.RegistryFiles = append(stats.RegistryFiles, FileStats{Position: i, Path: path, Rows: len(sources[i])})
	}
	stats.DirectoryRows = len(directory)

	merged, mergeStats := reconcile.MergeWithStats(sources...)
	stats.Merged = mergeStats.Total
	stats.Overridden = mergeStats.Overridden

	orgs := reconcile.Join(merged, directory)
	stats.Joined = len(orgs)

	kept := make([]*practice.Practice, 0, len(orgs))
	for _, org := range orgs {
		pr := practice.New(org, p.practiceOpts...)
		if reason := pr.Reason(); reason != practice.Kept {
			stats.Dropped[reason]++
			continue
		}
		kept = append(kept, pr)
	}

	slices.SortFunc(kept, func(a, b *practice.Practice) int {
		return strings.Compare(a.OrganisationCode(), b.OrganisationCode())
	})

	out := make([]practice.OutputRecord, 0, len(kept))
	for _, pr := range kept {
		out = append(out, pr.Output(in.Joined()))
	}
	stats.Emitted = len(out)
	stats.Duration = time.Since(start)

	logger.Info().
		Int("registry_files", len(in.RegistryFiles)).
		Int("merged", stats.Merged).
		Int("overridden", stats.Overridden).
		Int("directory_rows", stats.DirectoryRows).
		Int("dropped_incomplete", stats.Dropped[practice.Incomplete]).
		Int("dropped_inactive", stats.Dropped[practice.Inactive]).
		Int("dropped_not_gp", stats.Dropped[practice.NotGPPractice]).
		Int("emitted", stats.Emitted).
		Dur("duration", stats.Duration).
		Msg("Reconciled practices")

	return &Result{Records: out, Stats: stats}, nil
}
