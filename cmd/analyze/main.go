// Command analyze runs one analysis over local files and optionally opens a
// follow-up chat on stdin.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"evidencelens/internal/analysis"
	"evidencelens/internal/chat"
	"evidencelens/internal/config"
	"evidencelens/internal/domain"
	"evidencelens/internal/encoder"
	"evidencelens/internal/gemini"
	"evidencelens/internal/logger"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		var ufe *domain.UserFacingError
		if errors.As(err, &ufe) {
			fmt.Fprintf(os.Stderr, "%s: %s\n", ufe.Kind, ufe.Message)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	mode := fs.String("mode", string(domain.ModeQuick), "analysis mode: deep or quick")
	role := fs.String("role", string(domain.RoleStudent), "audience role: Student, Clinician, Researcher, Other")
	focus := fs.String("focus", string(domain.FocusGeneralOverview), "focus area")
	notes := fs.String("notes", "", "free-text notes for the analysis")
	withChat := fs.Bool("chat", false, "read follow-up questions from stdin after the analysis")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: analyze [flags] file...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("at least one file is required")
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	zl := logger.New(&cfg.Log)
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := gemini.NewClient(&cfg.Gemini, zl.Named("gemini"))
	enc := encoder.New(cfg.Upload.MaxFileBytes(), zl.Named("encoder"))
	analyzer := analysis.NewAnalyzer(client, enc, analysis.ModelsFromConfig(&cfg.Gemini), zl.Named("analysis"))

	sources := make([]encoder.Source, 0, fs.NArg())
	for _, path := range fs.Args() {
		sources = append(sources, encoder.PathSource{Path: path})
	}
	opts := domain.AnalysisOptions{
		Role:      domain.Role(*role),
		FocusArea: domain.FocusArea(*focus),
		Mode:      domain.Mode(*mode),
		Notes:     *notes,
	}

	record, err := analyzer.SubmitAll(ctx, sources, opts)
	if err != nil {
		return err
	}

	out := json.NewEncoder(stdout)
	out.SetIndent("", "  ")
	if err := out.Encode(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	if !*withChat {
		return nil
	}
	manager := chat.NewManager(client, cfg.Gemini.ChatModel, zl.Named("chat"))
	manager.Init(record.FullReport, nil)
	return chatLoop(ctx, manager, stdin, stdout, zl)
}

func chatLoop(ctx context.Context, manager *chat.Manager, stdin io.Reader, stdout io.Writer, zl *zap.Logger) error {
	scanner := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(stdout)
			return scanner.Err()
		}
		msg := strings.TrimSpace(scanner.Text())
		if msg == "" {
			continue
		}

		reply, err := manager.SendTurn(ctx, msg)
		if err != nil {
			err = analysis.ClassifyRemote(err)
			var ufe *domain.UserFacingError
			if !errors.As(err, &ufe) {
				return err
			}
			zl.Debug("chat turn failed", zap.Error(ufe.Err))
			fmt.Fprintf(stdout, "[%s] %s\n", ufe.Kind, ufe.Message)
			continue
		}
		fmt.Fprintln(stdout, reply)
	}
}
