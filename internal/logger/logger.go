package logger

import (
	"log/slog"
	"os"
)

// Init configures and sets the default slog logger.
// Output is structured in JSON format at info level for better parsing and analysis.
// When debugMode is enabled the logger switches to a human readable text handler
// and lowers the level to debug.
func Init(debugMode bool) {
	var handler slog.Handler
	if debugMode {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	slog.SetDefault(slog.New(handler))
}
