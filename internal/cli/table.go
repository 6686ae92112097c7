package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rohmanhakim/film-roulette/internal/roulette"
)

// renderTable prints the accepted draws as an aligned fixed-width table.
func renderTable(w io.Writer, results []roulette.SelectionResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Country\tGenre\tSubgenre\tFilm")
	fmt.Fprintln(tw, "-------\t-----\t--------\t----")
	for _, row := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Country, row.Genre, row.Subgenre, row.Film)
	}
	return tw.Flush()
}
