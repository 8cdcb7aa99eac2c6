// Command loganalyzer is a thin CLI over pkg/analyzer: argument parsing
// and output rendering are deliberately minimal, following the teacher's
// flag-based cmd/main.go rather than a richer CLI framework, since
// rendering is an out-of-scope collaborator concern.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/eirenik0/log-analyzer/internal/comparator"
	"github.com/eirenik0/log-analyzer/internal/config"
	"github.com/eirenik0/log-analyzer/internal/erroranalysis"
	"github.com/eirenik0/log-analyzer/internal/filter"
	"github.com/eirenik0/log-analyzer/internal/obs"
	"github.com/eirenik0/log-analyzer/internal/query"
	"github.com/eirenik0/log-analyzer/pkg/analyzer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	logger, runID := obs.NewLogger("info", obs.FormatText, os.Stderr)
	runLog := obs.RunLogger(logger, runID)

	var err error
	switch os.Args[1] {
	case "compare":
		err = runCompare(os.Args[2:], runLog)
	case "perf":
		err = runPerf(os.Args[2:], runLog)
	case "errors":
		err = runErrors(os.Args[2:], runLog)
	case "trace":
		err = runTrace(os.Args[2:], runLog)
	case "search":
		err = runSearch(os.Args[2:], runLog)
	case "extract":
		err = runExtract(os.Args[2:], runLog)
	case "profile":
		err = runProfile(os.Args[2:], runLog)
	case "generate-config":
		err = runGenerateConfig(os.Args[2:], runLog)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		runLog.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: loganalyzer <compare|perf|errors|trace|search|extract|profile|generate-config> [flags]")
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.LoadConfigFromPath(path, os.ReadFile)
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type logArgsLogger interface {
	Infof(format string, args ...interface{})
}

func runCompare(args []string, log logArgsLogger) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to config TOML")
	diffOnly := fs.Bool("diff-only", false, "only show entries with differences")
	showFullJSON := fs.Bool("show-full-json", false, "don't suppress formatting-only differences")
	fs.Parse(args)
	if fs.NArg() < 2 {
		return fmt.Errorf("compare requires <log1> <log2>")
	}

	cfg := loadConfig(*cfgPath)
	logs1, _, err := analyzer.ParseFile(fs.Arg(0), cfg)
	if err != nil {
		return err
	}
	logs2, _, err := analyzer.ParseFile(fs.Arg(1), cfg)
	if err != nil {
		return err
	}

	results := analyzer.Compare(logs1, logs2, filter.Filter{}, comparator.Options{DiffOnly: *diffOnly, ShowFullJSON: *showFullJSON})
	log.Infof("compared %d vs %d entries", len(logs1), len(logs2))
	return printJSON(results)
}

func runPerf(args []string, log logArgsLogger) error {
	fs := flag.NewFlagSet("perf", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to config TOML")
	opKind := fs.String("kind", "", "restrict to event|command|request")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("perf requires <log>")
	}

	cfg := loadConfig(*cfgPath)
	logs, _, err := analyzer.ParseFile(fs.Arg(0), cfg)
	if err != nil {
		return err
	}
	results := analyzer.AnalyzePerformance(logs, filter.Filter{}, *opKind, cfg)
	log.Infof("timed %d operations, %d orphans", len(results.Operations), len(results.Orphans))
	return printJSON(results)
}

func runErrors(args []string, log logArgsLogger) error {
	fs := flag.NewFlagSet("errors", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to config TOML")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("errors requires <log>")
	}

	cfg := loadConfig(*cfgPath)
	logs, _, err := analyzer.ParseFile(fs.Arg(0), cfg)
	if err != nil {
		return err
	}
	report := analyzer.AnalyzeErrors(logs, filter.Filter{}, cfg, erroranalysis.Options{})
	log.Infof("found %d error clusters", len(report.Clusters))
	return printJSON(report)
}

func runTrace(args []string, log logArgsLogger) error {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to config TOML")
	session := fs.String("session", "", "trace by component id substring")
	fs.Parse(args)
	if fs.NArg() < 2 {
		return fmt.Errorf("trace requires <log> <id>")
	}

	cfg := loadConfig(*cfgPath)
	logs, _, err := analyzer.ParseFile(fs.Arg(0), cfg)
	if err != nil {
		return err
	}

	var selector query.TraceSelector
	if *session != "" {
		selector = query.BySession(*session)
	} else {
		selector = query.ByID(fs.Arg(1))
	}

	entries := analyzer.Trace(logs, filter.Filter{}, selector)
	log.Infof("traced %d entries", len(entries))
	return printJSON(entries)
}

func runSearch(args []string, log logArgsLogger) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to config TOML")
	context := fs.Int("context", 0, "lines of context around each match")
	fs.Parse(args)
	if fs.NArg() < 2 {
		return fmt.Errorf("search requires <log> <text>")
	}

	cfg := loadConfig(*cfgPath)
	logs, _, err := analyzer.ParseFile(fs.Arg(0), cfg)
	if err != nil {
		return err
	}

	rows := analyzer.Search(logs, filter.Filter{}, fs.Arg(1), *context)
	log.Infof("found %d display rows", len(rows))
	return printJSON(rows)
}

func runExtract(args []string, log logArgsLogger) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to config TOML")
	fs.Parse(args)
	if fs.NArg() < 3 {
		return fmt.Errorf("extract requires <log> <text> <field-path>")
	}

	cfg := loadConfig(*cfgPath)
	logs, _, err := analyzer.ParseFile(fs.Arg(0), cfg)
	if err != nil {
		return err
	}

	indices := query.MatchIndices(logs, filter.Filter{}, fs.Arg(1))
	summary := analyzer.Extract(logs, indices, fs.Arg(2))
	log.Infof("extracted %d values", summary.Extracted)
	return printJSON(summary)
}

func runProfile(args []string, log logArgsLogger) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to config TOML")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("profile requires <log>")
	}

	cfg := loadConfig(*cfgPath)
	logs, _, err := analyzer.ParseFile(fs.Arg(0), cfg)
	if err != nil {
		return err
	}

	insights := analyzer.AnalyzeProfile(logs, cfg)
	log.Infof("found %d unknown components", len(insights.UnknownComponents))
	return printJSON(insights)
}

func runGenerateConfig(args []string, log logArgsLogger) error {
	fs := flag.NewFlagSet("generate-config", flag.ExitOnError)
	cfgPath := fs.String("config", "", "base config TOML to extend")
	name := fs.String("name", "generated", "profile_name for the generated config")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("generate-config requires <log>")
	}

	base := loadConfig(*cfgPath)
	logs, _, err := analyzer.ParseFile(fs.Arg(0), base)
	if err != nil {
		return err
	}

	generated := analyzer.GenerateConfig(logs, base, *name)
	log.Infof("generated config with %d known components", len(generated.Profile.KnownComponents))
	return printJSON(generated)
}
