package runtime

import (
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

func NewLogger(env Env) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if env == Development {
		handler = slogmulti.Fanout(handler, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}
