package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/lalrgen/internal/inspect"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
)

// runInspect implements `lalrgen inspect SPECFILE`: rebuild SPECFILE's
// state table and open an interactive REPL over it.
func runInspect(args []string) int {
	fs := pflag.NewFlagSet("lalrgen inspect", pflag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitIOOrParseFailure
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: lalrgen inspect SPECFILE")
		return ExitIOOrParseFailure
	}

	g, a, plans, err := loadGrammar(fs.Arg(0))
	if err != nil {
		pterm.Error.Printfln("build %s: %s", fs.Arg(0), err)
		return ExitIOOrParseFailure
	}

	sess, err := inspect.New(g, a, plans)
	if err != nil {
		pterm.Error.Printfln("start inspect session: %s", err)
		return ExitIOOrParseFailure
	}
	defer sess.Close()

	pterm.Info.Println("type a state number, :symbols, :expected <state>, or :quit")
	if err := sess.Run(os.Stdout); err != nil {
		pterm.Error.Printfln("inspect: %s", err)
		return ExitIOOrParseFailure
	}
	return ExitSuccess
}
