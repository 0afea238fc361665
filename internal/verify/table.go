package verify

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Render writes the report as a table followed by a summary line.
func (r *Report) Render(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.Header("input", "target", "status", "detail")
	for _, c := range r.Cases {
		detail := ""
		if c.Err != nil {
			detail = c.Err.Error()
		}
		if err := table.Append([]string{c.Input, c.Target, string(c.Status), detail}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d passed, %d failed, %d skipped\n", r.Passed(), r.Failed(), len(r.Skipped))
	return err
}
