/*
Lalrgen reads an augmented LALR(1) grammar specification and emits a
generated Go parser package plus a human-readable states report.

Usage:

	lalrgen [flags] SPECFILE

The flags are:

	-f, --force
		Overwrite the output parser and states files if they already exist.

	-e, --expect N
		The number of unresolved conflicts expected to remain after
		resolution. If the actual count differs, the build fails.

	-o, --output PATH
		Write the generated parser to PATH instead of the default
		(SPECFILE with its extension replaced by ".go").

	--config PATH
		Load ambient configuration from PATH instead of the default
		".lalrgen.toml" in the current directory.

	--cache-dir PATH
		Override the cache directory recorded in the config file.

Lalrgen also accepts three read-only diagnostic subcommands. serve and
inspect rebuild SPECFILE's state table fresh from source; history reads the
run log that earlier builds recorded:

	lalrgen serve [flags] SPECFILE
		Serves SPECFILE's state table as JSON (see "lalrgen serve -h").

	lalrgen history [flags]
		Queries the local run log (see "lalrgen history -h").

	lalrgen inspect SPECFILE
		Opens an interactive REPL over SPECFILE's state table.
*/
package main

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dekarrin/lalrgen/internal/automaton"
	"github.com/dekarrin/lalrgen/internal/cache"
	"github.com/dekarrin/lalrgen/internal/codegen"
	"github.com/dekarrin/lalrgen/internal/conflict"
	"github.com/dekarrin/lalrgen/internal/fingerprint"
	"github.com/dekarrin/lalrgen/internal/firstset"
	"github.com/dekarrin/lalrgen/internal/genconfig"
	"github.com/dekarrin/lalrgen/internal/ggrammar"
	"github.com/dekarrin/lalrgen/internal/history"
	"github.com/dekarrin/lalrgen/internal/ictierr"
	"github.com/dekarrin/lalrgen/internal/reduce"
	"github.com/dekarrin/lalrgen/internal/report"
	"github.com/dekarrin/lalrgen/internal/specparser"
	"github.com/dekarrin/lalrgen/internal/symbol"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
)

// cachedBuild is the Blob a cache.Entry carries for this command: the
// fully rendered parser source and states report from a prior run of the
// same grammar fingerprint, ready to write out directly on a cache hit
// without re-running the parse/automaton/codegen pipeline.
type cachedBuild struct {
	ParserSource []byte
	StatesReport string
}

func (c cachedBuild) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *cachedBuild) UnmarshalBinary(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(c)
}

// Exit codes, per spec section 6.2.
const (
	ExitSuccess          = 0
	ExitOutputExists     = 1
	ExitIOOrParseFailure = 2
	ExitSemanticFailure  = 4
	ExitParserWriteFail  = 6
	ExitStatesWriteFail  = 7
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "serve":
			os.Exit(runServe(os.Args[2:]))
		case "history":
			os.Exit(runHistory(os.Args[2:]))
		case "inspect":
			os.Exit(runInspect(os.Args[2:]))
		}
	}
	os.Exit(runGenerate(os.Args[1:]))
}

func runGenerate(args []string) int {
	fs := pflag.NewFlagSet("lalrgen", pflag.ContinueOnError)
	force := fs.BoolP("force", "f", false, "overwrite existing output files")
	expect := fs.IntP("expect", "e", -1, "expected number of residual conflicts")
	output := fs.StringP("output", "o", "", "override the default parser output path")
	configPath := fs.String("config", ".lalrgen.toml", "ambient configuration file")
	cacheDirFlag := fs.String("cache-dir", "", "override the configured cache directory")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitIOOrParseFailure
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: lalrgen [flags] SPECFILE")
		return ExitIOOrParseFailure
	}
	specPath := fs.Arg(0)

	cfg, err := genconfig.Load(*configPath)
	if err != nil {
		pterm.Error.Printfln("load config: %s", err)
		return ExitIOOrParseFailure
	}

	cacheDir := cfg.CacheDir
	if *cacheDirFlag != "" {
		cacheDir = *cacheDirFlag
	}

	outPath := *output
	if outPath == "" {
		outPath = strings.TrimSuffix(specPath, filepath.Ext(specPath)) + ".go"
	}
	statesPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".states"

	if !*force {
		if _, err := os.Stat(outPath); err == nil {
			pterm.Error.Printfln("%s already exists (use --force to overwrite)", outPath)
			return ExitOutputExists
		}
		if _, err := os.Stat(statesPath); err == nil {
			pterm.Error.Printfln("%s already exists (use --force to overwrite)", statesPath)
			return ExitOutputExists
		}
	}

	src, err := os.ReadFile(specPath)
	if err != nil {
		pterm.Error.Printfln("read %s: %s", specPath, err)
		return ExitIOOrParseFailure
	}

	log := &ictierr.Log{}

	parserSrc, statesReport, stateCount, conflictCount, code := build(specPath, src, cacheDir, log)
	for _, w := range log.Warnings {
		pterm.Warning.Println(w.FullMessage())
	}
	if code != ExitSuccess {
		for _, e := range log.Errors {
			pterm.Error.Println(e.FullMessage())
		}
		return code
	}

	if *expect >= 0 && conflictCount != *expect {
		pterm.Error.Printfln("expected %d residual conflicts, got %d", *expect, conflictCount)
		return ExitSemanticFailure
	}

	if err := os.WriteFile(outPath, parserSrc, 0o644); err != nil {
		pterm.Error.Printfln("write %s: %s", outPath, err)
		return ExitParserWriteFail
	}
	if err := os.WriteFile(statesPath, []byte(statesReport), 0o644); err != nil {
		pterm.Error.Printfln("write %s: %s", statesPath, err)
		return ExitStatesWriteFail
	}

	buildID := history.NewBuildID()

	pterm.DefaultSection.Println("build summary")
	pterm.Info.Printfln("build:     %s", buildID)
	pterm.Info.Printfln("states:    %d", stateCount)
	pterm.Info.Printfln("conflicts: %d", conflictCount)
	pterm.Info.Printfln("parser:    %s", outPath)
	pterm.Info.Printfln("states:    %s", statesPath)

	if st, err := history.Open(logStorageDir(cacheDir)); err == nil {
		defer st.Close()
		_ = st.Record(context.Background(), history.Run{
			BuildID:       buildID,
			Fingerprint:   fingerprint.Of(src),
			GrammarPath:   specPath,
			Timestamp:     time.Now(),
			StateCount:    stateCount,
			ConflictCount: conflictCount,
			ParserOutput:  outPath,
			StatesOutput:  statesPath,
		})
	}

	return ExitSuccess
}

// build runs the full parse -> first-sets -> automaton -> conflict
// resolution -> reduction plan -> codegen/report pipeline, consulting and
// populating the fingerprint cache around the expensive middle of it.
func build(specPath string, src []byte, cacheDir string, log *ictierr.Log) (parserSrc []byte, statesReport string, stateCount, conflictCount int, code int) {
	fp := fingerprint.Of(src)
	cdir := cache.New(cacheDir)

	if entry, hit, err := cdir.Load(fp); err == nil && hit {
		var payload cachedBuild
		if err := payload.UnmarshalBinary(entry.Blob); err == nil {
			return payload.ParserSource, payload.StatesReport, entry.StateCount, entry.ConflictCount, ExitSuccess
		}
	}

	result, err := specparser.Parse(specPath, string(src), readFileForInject)
	if err != nil {
		log.AddError(asLocatedError(err))
		return nil, "", 0, 0, exitCodeFor(err)
	}
	for _, w := range result.Warnings {
		log.AddWarning(ictierr.New(ictierr.KindSymbol, "%s", w))
	}

	firsts := firstset.Compute(result.Grammar)
	auto := automaton.Build(result.Grammar, firsts)
	conflict.Resolve(auto, result.Grammar)

	plans, err := reduce.Plan(auto, result.Grammar)
	if err != nil {
		log.AddError(ictierr.New(ictierr.KindConflict, "%s", err))
		return nil, "", 0, 0, ExitSemanticFailure
	}

	conflictCount = countConflicts(auto)

	attrGoType := result.Attr
	if attrGoType == "" {
		attrGoType = "any"
	}
	target := result.Target
	if target == "" {
		target = "Generated"
	}

	pkgDir := filepath.Dir(specPath)
	if abs, err := filepath.Abs(specPath); err == nil {
		pkgDir = filepath.Dir(abs)
	}
	model, err := codegen.Build(filepath.Base(pkgDir), result.Grammar, auto, plans, result.Lexer, target, attrGoType)
	if err != nil {
		log.AddError(ictierr.New(ictierr.KindStructural, "%s", err))
		return nil, "", 0, 0, ExitSemanticFailure
	}

	parserSrc, err = codegen.Generate(model)
	if err != nil {
		log.AddError(ictierr.New(ictierr.KindStructural, "%s", err))
		return nil, "", 0, 0, ExitSemanticFailure
	}

	statesReport = report.States(result.Grammar, auto, plans)
	stateCount = len(auto.States)

	if payload, err := (cachedBuild{ParserSource: parserSrc, StatesReport: statesReport}).MarshalBinary(); err == nil {
		_ = cdir.Store(cache.Entry{Fingerprint: fp, StateCount: stateCount, ConflictCount: conflictCount, Blob: payload})
	}

	return parserSrc, statesReport, stateCount, conflictCount, ExitSuccess
}

// loadGrammar re-parses specPath and builds its automaton and reduction
// plan, for the serve/inspect diagnostic subcommands. They intentionally
// bypass the parser-output cache (cachedBuild only carries rendered bytes,
// not the in-memory state graph these subcommands actually browse) and
// always reconstruct fresh from source, same as a cache-miss generate run.
func loadGrammar(specPath string) (*ggrammar.Grammar, *automaton.Automaton, []*reduce.StatePlan, error) {
	src, err := os.ReadFile(specPath)
	if err != nil {
		return nil, nil, nil, err
	}
	result, err := specparser.Parse(specPath, string(src), readFileForInject)
	if err != nil {
		return nil, nil, nil, err
	}
	firsts := firstset.Compute(result.Grammar)
	auto := automaton.Build(result.Grammar, firsts)
	conflict.Resolve(auto, result.Grammar)
	plans, err := reduce.Plan(auto, result.Grammar)
	if err != nil {
		return nil, nil, nil, err
	}
	return result.Grammar, auto, plans, nil
}

func countConflicts(a *automaton.Automaton) int {
	n := 0
	for _, s := range a.States {
		n += len(s.Conflicts)
	}
	return n
}

func readFileForInject(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}

func asLocatedError(err error) *ictierr.Error {
	if ie, ok := err.(*ictierr.Error); ok {
		return ie
	}
	return ictierr.New(ictierr.KindIO, "%s", err)
}

func exitCodeFor(err error) int {
	if ie, ok := err.(*ictierr.Error); ok {
		switch ie.Kind {
		case ictierr.KindSymbol, ictierr.KindStructural, ictierr.KindConflict:
			return ExitSemanticFailure
		}
	}
	var verr *ggrammar.ValidationError
	var dup *symbol.DuplicateSymbolError
	var ntp *symbol.NonTerminalPrecedenceError
	if errors.As(err, &verr) || errors.As(err, &dup) || errors.As(err, &ntp) {
		return ExitSemanticFailure
	}
	return ExitIOOrParseFailure
}

func logStorageDir(cacheDir string) string {
	if cacheDir != "" {
		return cacheDir
	}
	return "."
}
