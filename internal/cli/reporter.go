package cli

import (
	"io"

	"github.com/matzehuels/pkgporter/pkg/errors"
	"github.com/matzehuels/pkgporter/pkg/migrate"
)

// reporter prints migration progress as it happens.
type reporter struct {
	w       io.Writer
	spinner *Spinner // fetch spinner, stopped once the plan is known
	table   bool     // print the full plan table
}

func (r *reporter) Plan(plan []string) {
	if r.spinner != nil {
		r.spinner.Stop()
	}
	if len(plan) == 0 {
		printWarning(r.w, "No versions found")
		return
	}
	printInfo(r.w, "Found %s", planSummary(plan))
	if r.table {
		io.WriteString(r.w, planTable(plan)+"\n")
	}
}

func (r *reporter) Processing(v string, dryRun bool) {
	if dryRun {
		printInfo(r.w, "Dry run: Would process version %s", StyleHighlight.Render(v))
		return
	}
	printInfo(r.w, "Processing version %s", StyleHighlight.Render(v))
}

func (r *reporter) Outcome(o migrate.Outcome) {
	switch o.Status {
	case migrate.StatusMigrated:
		printSuccess(r.w, "Migrated %s", o.Version)
	case migrate.StatusFailed:
		printError(r.w, "%s failed during %s", o.Version, o.Stage)
		printDetail(r.w, "%s", errors.UserMessage(o.Err))
	}
}

var _ migrate.Reporter = (*reporter)(nil)
