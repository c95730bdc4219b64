package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/chanarr/chanarr/internal/domain"
)

// printReport renders the per-channel run table followed by a one-line
// summary of the counters.
func printReport(w io.Writer, report *domain.RunReport) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Channel", "Source Name", "Score", "Origin"})

	for _, channel := range report.Channels {
		tw.AppendRow(table.Row{
			channel.Entry.Ordinal + 1,
			channel.Entry.Canonical,
			channel.Stream.Name,
			formatScore(channel),
			formatOrigin(channel),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	fmt.Fprintln(w, tw.Render())
	fmt.Fprintf(w, "%d channels (%d recovered), %d lineup entries unfilled, %d streams fetched (%d malformed, %d unmatched)\n",
		len(report.Channels), report.Recovered, report.Unfilled,
		report.Fetched, report.Malformed, report.Unmatched)
}

func formatScore(channel domain.ResolvedChannel) string {
	if channel.Recovered {
		return "-"
	}
	return strconv.FormatFloat(channel.Score, 'f', 1, 64)
}

func formatOrigin(channel domain.ResolvedChannel) string {
	if channel.Recovered {
		return "recovered"
	}
	return "live"
}
