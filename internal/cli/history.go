package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Ning0612/myfind/internal/state"
)

// DefaultHistoryLimit is used by a bare --history
const DefaultHistoryLimit = 10

// printHistory renders runs newest first, one per line
func printHistory(w io.Writer, runs []state.RunRecord, now time.Time) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return
	}

	for _, r := range runs {
		expression := r.Expression
		if expression == "" {
			expression = "(none)"
		}

		fmt.Fprintf(w, "%s  %-7s  %s  %s matched  %s errors  %s\n",
			shortID(r.ID),
			r.Status,
			humanize.RelTime(r.StartTime, now, "ago", "from now"),
			humanize.Comma(int64(r.Matched)),
			humanize.Comma(int64(r.Errors)),
			expression,
		)
		if r.Error != "" {
			fmt.Fprintf(w, "          error: %s\n", r.Error)
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
