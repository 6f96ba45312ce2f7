package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/lalrgen/internal/webui"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
)

// runServe implements `lalrgen serve SPECFILE`: rebuild SPECFILE's state
// table and expose it read-only over HTTP for external visualizers.
func runServe(args []string) int {
	fs := pflag.NewFlagSet("lalrgen serve", pflag.ContinueOnError)
	addr := fs.StringP("addr", "a", ":8080", "address to listen on")
	auth := fs.String("auth", "", "if set, require a bearer token signed with this secret")
	issue := fs.Bool("issue-token", false, "print a token for --auth and exit")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitIOOrParseFailure
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: lalrgen serve [flags] SPECFILE")
		return ExitIOOrParseFailure
	}

	if *issue {
		if *auth == "" {
			fmt.Fprintln(os.Stderr, "--issue-token requires --auth")
			return ExitIOOrParseFailure
		}
		tok, err := webui.IssueToken(*auth)
		if err != nil {
			pterm.Error.Printfln("issue token: %s", err)
			return ExitIOOrParseFailure
		}
		fmt.Println(tok)
		return ExitSuccess
	}

	g, a, plans, err := loadGrammar(fs.Arg(0))
	if err != nil {
		pterm.Error.Printfln("build %s: %s", fs.Arg(0), err)
		return ExitIOOrParseFailure
	}

	srv := webui.New(webui.Snapshot{Grammar: g, Automaton: a, Plans: plans}, *auth)
	pterm.Info.Printfln("serving %d states on %s", len(a.States), *addr)
	if err := srv.ListenAndServe(*addr); err != nil {
		pterm.Error.Printfln("serve: %s", err)
		return ExitIOOrParseFailure
	}
	return ExitSuccess
}
