package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/surveyor"
	"github.com/aretw0/surveyor/pkg/domain"
)

// Report summarizes a finished or stopped run.
type Report struct {
	Snapshot  surveyor.Snapshot
	Deadended []domain.Record
	Errored   []domain.Record
	Elapsed   time.Duration
	// Limit caps the rows listed per archive; zero lists everything.
	Limit int
}

// Markdown renders the report as a markdown document.
func (r Report) Markdown() string {
	var sb strings.Builder
	sn := r.Snapshot

	outcome := "stopped"
	if sn.Done {
		outcome = "done"
	}
	fmt.Fprintf(&sb, "# Surveyor report\n\n")
	fmt.Fprintf(&sb, "**%s** after %d steps (%s): %s\n\n", outcome, sn.Step, r.Elapsed.Round(time.Millisecond), sn.String())

	sb.WriteString("| set | paths |\n|---|---|\n")
	fmt.Fprintf(&sb, "| active | %d |\n", sn.Counts.Active)
	fmt.Fprintf(&sb, "| spilled | %d |\n", sn.Counts.Spilled)
	fmt.Fprintf(&sb, "| suspended | %d |\n", sn.Counts.Suspended)
	fmt.Fprintf(&sb, "| deadended | %d |\n", sn.Counts.Deadended)
	fmt.Fprintf(&sb, "| errored | %d |\n\n", sn.Counts.Errored)

	if len(r.Errored) > 0 {
		sb.WriteString("## Errored\n\n")
		for _, rec := range r.limit(r.Errored) {
			fmt.Fprintf(&sb, "- `%s`: %s\n", rec.Backtrace.String(), strings.Join(rec.Errors, "; "))
		}
		r.more(&sb, len(r.Errored))
	}

	if len(r.Deadended) > 0 {
		sb.WriteString("## Deadended\n\n")
		for _, rec := range r.limit(r.Deadended) {
			suffix := ""
			if rec.LineageOnly() {
				suffix = " (lineage only)"
			}
			fmt.Fprintf(&sb, "- `%s`%s\n", rec.Backtrace.String(), suffix)
		}
		r.more(&sb, len(r.Deadended))
	}

	return sb.String()
}

func (r Report) limit(records []domain.Record) []domain.Record {
	if r.Limit > 0 && len(records) > r.Limit {
		return records[:r.Limit]
	}
	return records
}

func (r Report) more(sb *strings.Builder, total int) {
	if r.Limit > 0 && total > r.Limit {
		fmt.Fprintf(sb, "- ... and %d more\n", total-r.Limit)
	}
	sb.WriteString("\n")
}
