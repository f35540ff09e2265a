package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/repocrawl/git-digger/repopool"
	"github.com/repocrawl/git-digger/repository"
	"github.com/urfave/cli/v3"
)

var (
	loggerLevel = new(slog.LevelVar)
	logger      *slog.Logger

	levelStrings = map[string]slog.Level{
		"trace": slog.Level(-8),
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}

	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Sources: cli.EnvVars("GIT_DIGGER_CONFIG"),
			Usage:   "Path to a yaml manifest of repositories to mirror. When set positional arguments are not used.",
		},
		&cli.BoolFlag{
			Name:  "clone-only",
			Usage: "Only seed missing mirrors, never refresh existing ones.",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Sources: cli.EnvVars("LOG_LEVEL"),
			Value:   "info",
			Usage:   "Log level",
		},
	}
)

func init() {
	loggerLevel.Set(slog.LevelInfo)
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: loggerLevel,
	}))
}

func main() {
	cmd := &cli.Command{
		Name:      "git-digger",
		Usage:     "git-digger clones or updates a git repository under a root folder.",
		ArgsUsage: "<repository_url> <root_folder>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {

			// set log level according to argument
			if v, ok := levelStrings[strings.ToLower(c.String("log-level"))]; ok {
				loggerLevel.Set(v)
			}

			if configPath := c.String("config"); configPath != "" {
				return syncAll(ctx, configPath)
			}

			if c.Args().Len() != 2 {
				return cli.Exit(fmt.Sprintf("Usage: %s <repository_url> <root_folder>", c.Name), 1)
			}

			return syncOne(ctx, c.Args().Get(0), c.Args().Get(1), c.Bool("clone-only"))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger.Error("failed to run app", "err", err)
		os.Exit(1)
	}
}

// syncOne mirrors a single repository under root. Soft sync failures
// still count as success, the mirror attempt was made.
func syncOne(ctx context.Context, repoURL, root string, cloneOnly bool) error {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error resolving root folder: %v", err), 1)
	}

	repo, err := repository.New(repository.Config{
		Remote:    repoURL,
		Root:      rootAbs,
		CloneOnly: cloneOnly,
	}, "", gitENV(), logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error creating repository from URL: %v", err), 1)
	}

	if _, err := repo.Sync(ctx); err != nil {
		return cli.Exit(fmt.Sprintf("Error updating repository: %v", err), 1)
	}

	fmt.Printf("Repository updated successfully in %s\n", repo.Directory())
	return nil
}

// syncAll mirrors every repository of the yaml manifest.
func syncAll(ctx context.Context, configPath string) error {
	conf, err := repopool.ParseFile(configPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error parsing config file: %v", err), 1)
	}

	pool, err := repopool.New(*conf, logger.With("logger", "git-digger"), "", gitENV())
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error creating repository pool: %v", err), 1)
	}

	summary, err := pool.SyncAll(ctx)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error updating repositories: %v", err), 1)
	}

	for outcome, count := range summary {
		fmt.Printf("%s: %d\n", outcome, count)
	}
	return nil
}

// gitENV returns the envs passed to git commands, git needs PATH to
// resolve its own helpers
func gitENV() []string {
	return []string{fmt.Sprintf("PATH=%s", os.Getenv("PATH"))}
}
