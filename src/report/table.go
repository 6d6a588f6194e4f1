package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jiaming2012/gridpricer/src/models"
)

// RenderTable writes the first limit priced records. A limit <= 0 writes all of them.
func RenderTable(w io.Writer, result *models.BatchResult, limit int) {
	p := message.NewPrinter(language.English)

	rows := result.Priced
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Underlying", "Strike", "DTE", "Call", "Call Mid", "Put", "Put Mid"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetColumnSeparator("")

	for _, row := range rows {
		rec := row.Record
		table.Append([]string{
			fmt.Sprintf("%d", row.Index),
			p.Sprintf("%.2f", rec.Underlying),
			p.Sprintf("%.2f", rec.Strike),
			p.Sprintf("%.0f", rec.DTE),
			p.Sprintf("%.4f", row.Result.CallPrice),
			p.Sprintf("%.4f", rec.Call.Mid),
			p.Sprintf("%.4f", row.Result.PutPrice),
			p.Sprintf("%.4f", rec.Put.Mid),
		})
	}

	table.Render()

	if len(rows) < len(result.Priced) {
		p.Fprintf(w, "... %d more priced records\n", len(result.Priced)-len(rows))
	}

	for _, s := range result.Skipped {
		fmt.Fprintf(w, "skipped record %d: %s\n", s.Index, s.Reason)
	}
}

func RenderSummary(w io.Writer, summary Summary) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "Priced: %d, Skipped: %d\n", summary.Priced, summary.Skipped)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Side", "Quotes", "Mean Err", "Std Dev", "Mean Abs", "Median Abs", "P95 Abs"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")

	for _, s := range []SideSummary{summary.Call, summary.Put} {
		table.Append([]string{
			string(s.Side),
			p.Sprintf("%d", s.Count),
			p.Sprintf("%.4f", s.MeanError),
			p.Sprintf("%.4f", s.StdDevError),
			p.Sprintf("%.4f", s.MeanAbsError),
			p.Sprintf("%.4f", s.MedianAbsError),
			p.Sprintf("%.4f", s.P95AbsError),
		})
	}

	table.Render()
}
