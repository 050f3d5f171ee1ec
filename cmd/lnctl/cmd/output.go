package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	apiclient "github.com/donaldgifford/listing-notifier/internal/api/client"
	domain "github.com/donaldgifford/listing-notifier/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printPassResultsTable(results []domain.PassResult) error {
	return writePassResultsTable(os.Stdout, results)
}

func writePassResultsTable(w io.Writer, results []domain.PassResult) error {
	tw := newTabWriter(w)
	tw.writef("REGISTRATION\tNEW\tERROR\n")
	for _, r := range results {
		errText := "-"
		if r.Error != "" {
			errText = truncate(r.Error, 80)
		}
		tw.writef("%s\t%d\t%s\n", r.Registration, r.Unseen, errText)
	}
	return tw.finish()
}

func printRegistrationsTable(regs []apiclient.RegistrationSummary) error {
	return writeRegistrationsTable(os.Stdout, regs)
}

func writeRegistrationsTable(w io.Writer, regs []apiclient.RegistrationSummary) error {
	tw := newTabWriter(w)
	tw.writef("NAME\tRECIPIENTS\tQUERIES\n")
	for _, r := range regs {
		tw.writef("%s\t%d\t%s\n", r.Name, r.Recipients, strings.Join(r.Queries, ","))
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
