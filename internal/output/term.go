package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/olekukonko/tablewriter"

	"github.com/rabbithq/rabbit/internal/classify"
)

// termWriter renders results for terminals. By default it buffers every
// result and prints one aligned table at Close. In incremental mode each
// result is printed immediately as a plain comma-separated line, so progress
// stays visible on long runs.
type termWriter struct {
	mu          sync.Mutex
	out         io.Writer
	closeFunc   func() error
	incremental bool
	results     []classify.ContributorResult
}

func newTermWriter(out io.Writer, closeFunc func() error, incremental bool) *termWriter {
	return &termWriter{
		out:         out,
		closeFunc:   closeFunc,
		incremental: incremental,
	}
}

func (w *termWriter) Write(result classify.ContributorResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.incremental {
		_, err := fmt.Fprintf(w.out, "%s,%s,%s\n", result.Contributor, result.UserType, result.Confidence.String())
		return err
	}
	w.results = append(w.results, result)
	return nil
}

func (w *termWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.incremental && len(w.results) > 0 {
		w.renderTable()
	}
	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}

func (w *termWriter) renderTable() {
	table := tablewriter.NewWriter(w.out)
	table.SetHeader([]string{"CONTRIBUTOR", "TYPE", "CONFIDENCE"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	for _, result := range w.results {
		table.Append([]string{result.Contributor, result.UserType, result.Confidence.String()})
	}
	table.Render()
}
