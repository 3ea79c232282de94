package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/pkgporter/pkg/observability"
	"github.com/matzehuels/pkgporter/pkg/registry"
	"github.com/matzehuels/pkgporter/pkg/version"
)

// Policy decides what happens after a version fails.
type Policy int

const (
	// FailFast stops the run at the first failed version.
	FailFast Policy = iota
	// KeepGoing records the failure and continues with the next version.
	KeepGoing
)

// Stage names the step a version was in when its outcome was decided.
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageDownload Stage = "download"
	StagePublish  Stage = "publish"
)

// Status is the result of processing one version.
type Status string

const (
	StatusMigrated Status = "migrated"
	StatusDryRun   Status = "dry-run"
	StatusFailed   Status = "failed"
)

// Outcome is the per-version result of a run.
type Outcome struct {
	Version string
	Stage   Stage // last stage reached
	Status  Status
	Err     error // set when Status is StatusFailed
}

// Options is the validated configuration of one run.
type Options struct {
	Source       registry.Endpoint
	Target       registry.Endpoint
	Package      registry.Package
	RegistryType string
	DryRun       bool
	Policy       Policy
}

// Resolver returns the backend for a registry-type tag.
type Resolver func(tag string) (registry.Backend, error)

// Reporter receives progress as a run advances. Calls happen on the
// goroutine that called [Migrator.Run], in order.
type Reporter interface {
	// Plan is called once with the ordered versions to process.
	Plan(versions []string)
	// Processing is called before a version is handled.
	Processing(version string, dryRun bool)
	// Outcome is called after a version is handled.
	Outcome(o Outcome)
}

// Summary describes a finished (or aborted) run.
type Summary struct {
	RunID    string
	Plan     []string
	Outcomes []Outcome
	Duration time.Duration
}

// Count returns the number of outcomes with status s.
func (s *Summary) Count(status Status) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Migrator runs migrations. It holds no per-run state and may be reused.
type Migrator struct {
	resolve  Resolver
	reporter Reporter
	logger   *log.Logger
}

// New creates a Migrator. A nil reporter discards progress; a nil logger
// discards logs.
func New(resolve Resolver, reporter Reporter, logger *log.Logger) *Migrator {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Migrator{resolve: resolve, reporter: reporter, logger: logger}
}

// Plan resolves the backend, fetches the source versions and returns them
// in migration order. Nothing is downloaded or published.
func (m *Migrator) Plan(ctx context.Context, opts Options) ([]string, error) {
	backend, err := m.resolve(opts.RegistryType)
	if err != nil {
		return nil, err
	}
	return m.fetchPlan(ctx, m.logger, backend, opts)
}

// Run executes a migration. The returned summary is never nil; err is
// non-nil when the run could not be planned or any version failed.
func (m *Migrator) Run(ctx context.Context, opts Options) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: uuid.NewString()}
	defer func() { summary.Duration = time.Since(start) }()

	logger := m.logger.With("run", summary.RunID)

	backend, err := m.resolve(opts.RegistryType)
	if err != nil {
		return summary, err
	}

	plan, err := m.fetchPlan(ctx, logger, backend, opts)
	if err != nil {
		return summary, err
	}
	summary.Plan = plan
	m.reporter.Plan(plan)

	var failures []error
	for _, v := range plan {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		out := m.process(ctx, logger, backend, opts, v)
		summary.Outcomes = append(summary.Outcomes, out)
		m.reporter.Outcome(out)

		if out.Status != StatusFailed {
			continue
		}
		failures = append(failures, out.Err)
		if opts.Policy == FailFast {
			return summary, out.Err
		}
	}

	logger.Debug("run finished",
		"migrated", summary.Count(StatusMigrated),
		"dry_run", summary.Count(StatusDryRun),
		"failed", summary.Count(StatusFailed))
	return summary, errors.Join(failures...)
}

func (m *Migrator) fetchPlan(ctx context.Context, logger *log.Logger, backend registry.Backend, opts Options) ([]string, error) {
	pkg := opts.Package.FullName()
	start := time.Now()

	versions, err := backend.FetchVersions(ctx, opts.Source, opts.Package)
	observability.Migration().OnFetchComplete(ctx, backend.Type(), pkg, len(versions), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	plan := version.Sort(versions)
	logger.Debug("fetched versions", "package", pkg, "source", opts.Source.URL, "count", len(plan))
	return plan, nil
}

// process handles one version. The artifact is always cleaned up before
// returning.
func (m *Migrator) process(ctx context.Context, logger *log.Logger, backend registry.Backend, opts Options, v string) Outcome {
	pkg := opts.Package.FullName()
	hooks := observability.Migration()
	start := time.Now()

	m.reporter.Processing(v, opts.DryRun)
	hooks.OnVersionStart(ctx, backend.Type(), pkg, v)

	out := m.migrateVersion(ctx, logger, backend, opts, v)
	hooks.OnVersionComplete(ctx, backend.Type(), pkg, v, string(out.Status), time.Since(start), out.Err)
	return out
}

func (m *Migrator) migrateVersion(ctx context.Context, logger *log.Logger, backend registry.Backend, opts Options, v string) Outcome {
	if opts.DryRun {
		return Outcome{Version: v, Status: StatusDryRun}
	}

	artifact, err := backend.DownloadVersion(ctx, opts.Source, opts.Package, v)
	if err != nil {
		return failed(v, StageDownload, err)
	}
	defer func() {
		if err := artifact.Cleanup(); err != nil {
			logger.Warn("artifact cleanup failed", "version", v, "dir", artifact.Dir, "error", err)
		}
	}()

	if err := backend.PublishVersion(ctx, opts.Target, opts.Package, artifact); err != nil {
		return failed(v, StagePublish, err)
	}
	return Outcome{Version: v, Stage: StagePublish, Status: StatusMigrated}
}

func failed(v string, stage Stage, err error) Outcome {
	return Outcome{
		Version: v,
		Stage:   stage,
		Status:  StatusFailed,
		Err:     fmt.Errorf("%s %s: %w", stage, v, err),
	}
}

// NopReporter discards all progress.
type NopReporter struct{}

func (NopReporter) Plan([]string)            {}
func (NopReporter) Processing(string, bool) {}
func (NopReporter) Outcome(Outcome)          {}
