// Package repopool synchronizes local mirrors of multiple remote
// repositories under one root directory. It is a thin collection
// wrapper around the repository package, a single sync pass over the
// pool is best effort, individual unreachable or failing repositories
// never abort the rest of the batch.
//
// # Logging:
//
// package takes slog reference for logging and prints logs up to 'trace' level
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//		Level: loggerLevel,
//	}))
//	loggerLevel.Set(levelStrings["trace"])
//
//	pool, err := repopool.New(conf, logger.With("logger", "git-digger"), "", nil)
//	if err != nil {
//		panic(err)
//	}
package repopool
