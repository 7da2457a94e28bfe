package watch

import (
	"fmt"
	"formflow/internal/forms/domain"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

const _recentTexts = 5

// FormatAverage renders a rating average with two decimals; "-" when the
// backend sent none.
func FormatAverage(average *float64) string {
	if average == nil {
		return "-"
	}
	return strconv.FormatFloat(*average, 'f', 2, 64)
}

// Render writes a plain-text summary of snapshot.
func Render(w io.Writer, snapshot domain.AnalyticsSnapshot) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "form %s: %s responses\n", snapshot.FormID, humanize.Comma(int64(snapshot.TotalResponses)))

	for _, f := range snapshot.Fields {
		fmt.Fprintf(tw, "\n%s\t(%s)\t%s answers\n", f.Label, f.Type, humanize.Comma(int64(f.Count)))

		switch f.Type {
		case domain.FieldTypeRating:
			fmt.Fprintf(tw, "  average\t%s\n", FormatAverage(f.Average))
		case domain.FieldTypeText:
			recent := f.RecentTexts
			if len(recent) > _recentTexts {
				recent = recent[:_recentTexts]
			}
			for _, text := range recent {
				fmt.Fprintf(tw, "  -\t%s\n", strings.TrimSpace(text))
			}
		default:
			labels := make([]string, 0, len(f.Counts))
			for label := range f.Counts {
				labels = append(labels, label)
			}
			slices.Sort(labels)
			for _, label := range labels {
				fmt.Fprintf(tw, "  %s\t%s\n", label, humanize.Comma(int64(f.Counts[label])))
			}
		}
	}

	return tw.Flush()
}
