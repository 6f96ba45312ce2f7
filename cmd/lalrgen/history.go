package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dekarrin/lalrgen/internal/history"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
)

// runHistory implements `lalrgen history`: query the local run log left
// behind by prior `lalrgen` invocations.
func runHistory(args []string) int {
	fs := pflag.NewFlagSet("lalrgen history", pflag.ContinueOnError)
	cacheDir := fs.String("cache-dir", ".", "directory containing history.db")
	n := fs.IntP("count", "n", 10, "number of recent runs to show")
	grammar := fs.String("grammar", "", "if set, show only runs matching this grammar fingerprint")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitIOOrParseFailure
	}

	st, err := history.Open(*cacheDir)
	if err != nil {
		pterm.Error.Printfln("open history: %s", err)
		return ExitIOOrParseFailure
	}
	defer st.Close()

	var runs []history.Run
	if *grammar != "" {
		runs, err = st.ForGrammar(context.Background(), *grammar)
	} else {
		runs, err = st.Recent(context.Background(), *n)
	}
	if err != nil {
		pterm.Error.Printfln("query history: %s", err)
		return ExitIOOrParseFailure
	}

	td := pterm.TableData{{"id", "build", "timestamp", "grammar", "states", "conflicts", "fingerprint"}}
	for _, r := range runs {
		td = append(td, []string{
			fmt.Sprint(r.ID),
			r.BuildID,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.GrammarPath,
			fmt.Sprint(r.StateCount),
			fmt.Sprint(r.ConflictCount),
			r.Fingerprint,
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(td).Render(); err != nil {
		pterm.Error.Printfln("render history: %s", err)
		return ExitIOOrParseFailure
	}
	return ExitSuccess
}
