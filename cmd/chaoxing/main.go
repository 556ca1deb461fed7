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

	"github.com/dmitrymomot/chaoxing/app/replay"
	"github.com/dmitrymomot/chaoxing/core/config"
	"github.com/dmitrymomot/chaoxing/core/logger"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	var cfg replay.Config
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return exitConfig
	}

	forget, err := parseFlags(&cfg, args, stderr)
	if err != nil {
		return exitConfig
	}

	log := logger.New(
		logger.ForEnv(cfg.Env, cfg.AppName),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithContextExtractors(logger.RunIDExtractor),
	)

	app, err := replay.NewApp(ctx, cfg, replay.WithLogger(log), replay.WithForget(forget))
	if err != nil {
		log.Error("Failed to initialize replay", logger.Component("app"), logger.Error(err))
		return initExitCode(err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("Failed to close session store", logger.Component("app"), logger.Error(err))
		}
	}()

	sum, err := app.Run(ctx)
	if err != nil {
		log.ErrorContext(logger.WithRunID(ctx, sum.RunID), "Replay failed",
			logger.Component("app"),
			logger.Result(sum.Login.String()),
			logger.Error(err),
		)
		return exitFailed
	}

	return exitOK
}

// initExitCode separates configuration mistakes from backends that could not be reached.
func initExitCode(err error) int {
	if errors.Is(err, replay.ErrInvalidConfig) || errors.Is(err, replay.ErrUnknownStore) {
		return exitConfig
	}
	return exitFailed
}

// parseFlags overrides cfg with command line flags. Positional arguments are
// accepted in the order username, password, chapter id, clazz id, course id.
func parseFlags(cfg *replay.Config, args []string, stderr io.Writer) (bool, error) {
	fs := flag.NewFlagSet("chaoxing", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var forget bool
	fs.StringVar(&cfg.Username, "username", cfg.Username, "account name (CHAOXING_USERNAME)")
	fs.StringVar(&cfg.Password, "password", cfg.Password, "account password (CHAOXING_PASSWORD)")
	fs.StringVar(&cfg.ChapterID, "chapter", cfg.ChapterID, "chapter id (CHAOXING_CHAPTER_ID)")
	fs.StringVar(&cfg.ClazzID, "clazz", cfg.ClazzID, "class id (CHAOXING_CLAZZ_ID)")
	fs.StringVar(&cfg.CourseID, "course", cfg.CourseID, "course id (CHAOXING_COURSE_ID)")
	fs.StringVar(&cfg.Session.Store, "store", cfg.Session.Store, "session store: file, redis or s3 (SESSION_STORE)")
	fs.StringVar(&cfg.Session.FilePath, "session-file", cfg.Session.FilePath, "session file for the file store (SESSION_FILE)")
	fs.DurationVar(&cfg.Playback.MinDelay, "min-delay", cfg.Playback.MinDelay, "minimum delay between requests")
	fs.DurationVar(&cfg.Playback.MaxDelay, "max-delay", cfg.Playback.MaxDelay, "maximum delay between requests")
	fs.BoolVar(&cfg.Session.BestEffort, "best-effort", cfg.Session.BestEffort, "continue when the login is rejected")
	fs.BoolVar(&forget, "forget", false, "delete the persisted session before running")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (LOG_LEVEL)")

	if err := fs.Parse(args); err != nil {
		return false, err
	}

	targets := []*string{&cfg.Username, &cfg.Password, &cfg.ChapterID, &cfg.ClazzID, &cfg.CourseID}
	rest := fs.Args()
	if len(rest) > len(targets) {
		fmt.Fprintf(stderr, "too many arguments: %d\n", len(rest))
		return false, flag.ErrHelp
	}
	for i, v := range rest {
		*targets[i] = v
	}

	return forget, nil
}
