package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	rb "github.com/reoring/rulebridge"
	"github.com/reoring/rulebridge/convert"
	"github.com/reoring/rulebridge/docschema"
	"github.com/reoring/rulebridge/i18n"
	"github.com/reoring/rulebridge/internal/config"
	logpkg "github.com/reoring/rulebridge/internal/logger"
	"github.com/reoring/rulebridge/internal/server"
	"github.com/reoring/rulebridge/source"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	var err error
	switch args[0] {
	case "convert":
		err = convertCmd(args[1:], stdin, stdout, stderr)
	case "inspect":
		err = inspectCmd(args[1:], stdin, stdout, stderr)
	case "verify":
		err = verifyCmd(args[1:], stdin, stdout, stderr)
	case "serve":
		err = serveCmd(args[1:], stderr)
	default:
		usage(stderr)
		return 2
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 2
	}
	log := cliLogger(stderr)
	defer func() { _ = log.Sync() }()
	if iss, ok := rb.AsIssues(err); ok {
		printIssues(stderr, iss)
		log.Debug("command rejected", zap.String("command", args[0]), logpkg.Issues(err))
		return 1
	}
	log.Error("command failed", zap.String("command", args[0]), zap.Error(err))
	return 1
}

// cliLogger honours RULEBRIDGE_LOG_LEVEL; an invalid level falls back to the
// default.
func cliLogger(w io.Writer) *zap.Logger {
	log, err := logpkg.NewCLI(w, os.Getenv("RULEBRIDGE_LOG_LEVEL"))
	if err != nil {
		log, _ = logpkg.NewCLI(w, "")
		log.Warn("ignoring RULEBRIDGE_LOG_LEVEL", zap.Error(err))
	}
	return log
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "rulebridge CLI\n\nUsage:\n  rulebridge convert -from logic -to schema [-in file|-] [-max-depth N] [-fragment] [-compact] [-all]\n  rulebridge inspect -from schema [-in file|-]\n  rulebridge verify [-in file|-]\n  rulebridge serve [-config file]\n\nFormats: rule-logic (logic), doc-schema (schema), flat-rules (flat). Files ending in .yaml/.yml are read as YAML.")
}

// printIssues renders issues in the language named by RULEBRIDGE_LANG.
func printIssues(w io.Writer, iss rb.Issues) {
	for _, it := range iss.Localize(i18n.For(os.Getenv("RULEBRIDGE_LANG"))) {
		fmt.Fprintf(w, "%s at %s: %s\n", it.Code, it.Path, it.Message)
	}
}

func convertCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var fromName, toName, in string
	var maxDepth int
	var fragment, compact, all bool
	fs.StringVar(&fromName, "from", "", "input format")
	fs.StringVar(&toName, "to", "", "output format")
	fs.StringVar(&in, "in", "-", "input file, - for stdin")
	fs.IntVar(&maxDepth, "max-depth", 256, "maximum input nesting depth (0 = unlimited)")
	fs.BoolVar(&fragment, "fragment", false, "emit doc-schema without the draft-07 envelope")
	fs.BoolVar(&compact, "compact", false, "emit compact JSON")
	fs.BoolVar(&all, "all", false, "convert every document of a multi-document YAML stream into a JSON array")
	if err := fs.Parse(args); err != nil {
		return err
	}
	from, err := convert.ParseFormat(fromName)
	if err != nil {
		return err
	}
	to, err := convert.ParseFormat(toName)
	if err != nil {
		return err
	}
	c := convert.Converter{Options: rb.Options{MaxDepth: maxDepth}, Fragment: fragment}
	if all {
		return convertAll(c, in, stdin, stdout, from, to, !compact)
	}
	doc, err := readInput(in, stdin)
	if err != nil {
		return err
	}
	out, err := c.Convert(doc, from, to)
	if err != nil {
		return err
	}
	return writeOutput(stdout, out, !compact)
}

func convertAll(c convert.Converter, in string, stdin io.Reader, stdout io.Writer, from, to convert.Format, indent bool) error {
	var data []byte
	var err error
	if in == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(in)
	}
	if err != nil {
		return err
	}
	docs, err := source.DecodeYAMLDocuments(data)
	if err != nil {
		return err
	}
	outs := make([]any, 0, len(docs))
	for i, doc := range docs {
		out, err := c.Convert(doc, from, to)
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		outs = append(outs, out)
	}
	return writeOutput(stdout, outs, indent)
}

func inspectCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var fromName, in string
	fs.StringVar(&fromName, "from", "", "input format")
	fs.StringVar(&in, "in", "-", "input file, - for stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	from, err := convert.ParseFormat(fromName)
	if err != nil {
		return err
	}
	doc, err := readInput(in, stdin)
	if err != nil {
		return err
	}
	p, err := convert.Converter{}.Decode(doc, from)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, p.String())
	dump := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	dump.Fdump(stdout, p)
	return nil
}

func verifyCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var in string
	fs.StringVar(&in, "in", "-", "doc-schema file, - for stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	doc, err := readInput(in, stdin)
	if err != nil {
		return err
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return errors.New("verify: document is not an object")
	}
	if err := docschema.Verify(m); err != nil {
		return err
	}
	p, err := docschema.Decode(docschema.Condition(m), rb.Options{})
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, "ok:", p.String())
	return nil
}

func serveCmd(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var cfgPath string
	fs.StringVar(&cfgPath, "config", "", "YAML config file (default: config/<ENV>.yaml when present)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	env := config.GetEnv()
	cfg, err := loadConfig(cfgPath, env)
	if err != nil {
		return err
	}
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting rulebridge",
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Int("max_depth", cfg.Limits.MaxDepth),
		zap.Bool("verify", cfg.Output.Verify),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(cfg, logger).Run(ctx)
}

func loadConfig(path, env string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg, err := config.Load(env)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func readInput(path string, stdin io.Reader) (any, error) {
	if path == "-" {
		return source.Read(stdin, source.JSON)
	}
	return source.ReadFile(path)
}

func writeOutput(w io.Writer, v any, indent bool) error {
	data, err := source.EncodeJSON(v, indent)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
