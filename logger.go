package geoshard

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with geoshard-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithDataset adds a dataset version field to the logger.
func (l *Logger) WithDataset(version uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("dataset", version),
	}
}

// WithPartition adds a partition id field to the logger.
func (l *Logger) WithPartition(id int) *Logger {
	return &Logger{
		Logger: l.Logger.With("partition", id),
	}
}

// WithStrategy adds a partition strategy field to the logger.
func (l *Logger) WithStrategy(strategy string) *Logger {
	return &Logger{
		Logger: l.Logger.With("strategy", strategy),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogSchemeBuilt logs a partition scheme computation. A partition count
// lower than requested is reported at info level.
func (l *Logger) LogSchemeBuilt(ctx context.Context, sampled, requested, actual int, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "partition scheme failed",
			"requested", requested,
			"error", err,
		)
	case sampled == 0:
		l.DebugContext(ctx, "empty sample, using a single partition",
			"requested", requested,
		)
	case actual < requested:
		l.InfoContext(ctx, "partition count reduced to distinct sample locations",
			"requested", requested,
			"actual", actual,
			"sampled", sampled,
		)
	default:
		l.DebugContext(ctx, "partition scheme built",
			"partitions", actual,
			"sampled", sampled,
		)
	}
}

// LogIndexBuilt logs a per-partition index build.
func (l *Logger) LogIndexBuilt(ctx context.Context, kind string, partitions, failed int, err error) {
	switch {
	case err != nil && failed == 0:
		l.ErrorContext(ctx, "index build failed",
			"kind", kind,
			"error", err,
		)
	case failed > 0:
		l.WarnContext(ctx, "index build completed with failures",
			"kind", kind,
			"partitions", partitions,
			"failed", failed,
			"error", err,
		)
	default:
		l.InfoContext(ctx, "index build completed",
			"kind", kind,
			"partitions", partitions,
		)
	}
}

// LogQuery logs a range or nearest-neighbour query.
func (l *Logger) LogQuery(ctx context.Context, op string, probed, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"op", op,
			"probed", probed,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"op", op,
			"probed", probed,
			"results", results,
		)
	}
}

// LogJoin logs a spatial join.
func (l *Logger) LogJoin(ctx context.Context, predicate string, partitionPairs, results, predicateErrors int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "spatial join failed",
			"predicate", predicate,
			"partition_pairs", partitionPairs,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "spatial join completed",
			"predicate", predicate,
			"partition_pairs", partitionPairs,
			"results", results,
			"predicate_errors", predicateErrors,
		)
	}
}

// LogPredicateError logs a join candidate pair excluded because its
// predicate failed.
func (l *Logger) LogPredicateError(ctx context.Context, predicate string, left, right uint64, err error) {
	l.WarnContext(ctx, "join predicate failed, pair excluded",
		"predicate", predicate,
		"left", left,
		"right", right,
		"error", err,
	)
}
