package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/reoring/msgfield"
	"github.com/reoring/msgfield/api"
	"github.com/reoring/msgfield/i18n"
	"github.com/reoring/msgfield/source"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
	exitConfig  = 3
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Environ(), os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args, environ []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitUsage
	}
	cfg, err := loadConfig(environ)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitConfig
	}
	logger, err := newLogger(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitConfig
	}
	defer func() { _ = logger.Sync() }()
	msgfield.SetLogger(logger)
	defer msgfield.SetLogger(nil)
	i18n.SetLanguage(cfg.Lang)

	switch args[0] {
	case "validate":
		return validateCmd(ctx, args[1:], cfg, logger, stdin, stdout, stderr)
	case "schema":
		return schemaCmd(cfg, stdout, stderr)
	default:
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "docbatch CLI\n\nUsage:\n  docbatch validate -f batch.yaml [-format json|yaml]\n  docbatch schema\n\nEnvironment:\n  DOCBATCH_LANG (en|ja), DOCBATCH_LOG_MODE (dev|prod), DOCBATCH_MAX_BYTES, DOCBATCH_MAX_DOCS")
}

func validateCmd(ctx context.Context, args []string, cfg Config, logger *zap.Logger, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var file string
	var format string
	fs.StringVar(&file, "f", "", "input file, or - for stdin")
	fs.StringVar(&format, "format", "", "json or yaml (default: by file extension)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if file == "" {
		fs.Usage()
		return exitUsage
	}

	f := source.FormatFromPath(file)
	if format != "" {
		parsed, err := source.ParseFormat(format)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
		f = parsed
	}

	in := stdin
	if file != "-" {
		fh, err := os.Open(file)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
		defer fh.Close()
		in = fh
	}

	log := logger.With(zap.String("file", file), zap.Stringer("format", f))
	values, err := source.Read(in, f, source.Options{MaxBytes: cfg.MaxBytes})
	if err != nil {
		return reportIssues(stderr, log, err)
	}
	docs := source.Flatten(values)
	if cfg.MaxDocs > 0 && len(docs) > cfg.MaxDocs {
		tooLong := msgfield.RootPath().Field("docs").Issue(msgfield.CodeTooLong, i18n.T(msgfield.CodeTooLong, nil), "max", cfg.MaxDocs, "got", len(docs))
		return reportIssues(stderr, log, msgfield.Issues{tooLong})
	}

	batch, err := api.NewDocConstructorsFrom(ctx, docs)
	if err != nil {
		iss, ok := msgfield.AsIssues(err)
		if !ok {
			fmt.Fprintln(stderr, err)
			return exitInvalid
		}
		return reportIssues(stderr, log, msgfield.PrefixIssues(msgfield.RootPath().Field("docs"), iss))
	}

	out, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInvalid
	}
	fmt.Fprintln(stdout, string(out))
	log.Info("batch validated", zap.Int("docs", batch.Len()))
	return exitOK
}

func schemaCmd(cfg Config, stdout, stderr io.Writer) int {
	s := api.NewDocConstructors().JSONSchema()
	if cfg.MaxDocs > 0 {
		maxDocs := cfg.MaxDocs
		s.Properties["docs"].MaxItems = &maxDocs
	}
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInvalid
	}
	fmt.Fprintln(stdout, string(out))
	return exitOK
}

func reportIssues(w io.Writer, log *zap.Logger, err error) int {
	iss, ok := msgfield.AsIssues(err)
	if !ok {
		fmt.Fprintln(w, err)
		return exitInvalid
	}
	for _, it := range iss {
		fmt.Fprintf(w, "%s at %s: %s\n", it.Code, it.Path, it.Message)
	}
	log.Warn("batch rejected", zap.Int("issues", len(iss)))
	return exitInvalid
}
