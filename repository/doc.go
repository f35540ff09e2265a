// Package repository keeps a local mirror of a remote git repository in
// sync by shelling out to the git binary. The mirror is a full working
// tree placed at `root/host/owner/repo`, cloned if the directory is
// missing and pulled otherwise.
//
// Failures of the remote (unreachable url, failing clone or pull) are
// soft, they are logged and reported via the sync Outcome so that a
// batch covering many repositories can make progress despite individual
// failures. Only filesystem preparation failures are returned as errors.
//
// # Logging:
//
// package takes slog reference for logging and prints logs up to 'trace' level
//
// Example:
//
//	loggerLevel  = new(slog.LevelVar)
//	levelStrings = map[string]slog.Level{
//		"trace": slog.Level(-8),
//		"debug": slog.LevelDebug,
//		"info":  slog.LevelInfo,
//		"warn":  slog.LevelWarn,
//		"error": slog.LevelError,
//	}
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//		Level: loggerLevel,
//	}))
//	loggerLevel.Set(levelStrings["trace"])
//
//	repo, err := repository.New(repoConf, "", nil, logger)
//	if err != nil {
//		panic(err)
//	}
package repository
