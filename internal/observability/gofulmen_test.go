package observability_test

import (
	"testing"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/handlescout/handlescout/internal/observability"
)

func TestInitCLILogger(t *testing.T) {
	observability.InitCLILogger("handlescout-test", false)

	if observability.CLILogger == nil {
		t.Fatal("CLI logger should not be nil after initialization")
	}

	observability.CLILogger.Info("cli logger smoke test",
		zap.String("component", "test"))
}

func TestInitCLILoggerVerbose(t *testing.T) {
	observability.InitCLILogger("handlescout-test", true)

	if observability.CLILogger == nil {
		t.Fatal("CLI logger should not be nil after initialization")
	}

	observability.CLILogger.Debug("debug message visible in verbose mode",
		zap.String("mode", "verbose"))
}

func TestInitServerLogger(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error", "bogus"} {
		observability.InitServerLogger("handlescout-test", level)

		if observability.ServerLogger == nil {
			t.Fatalf("server logger should not be nil after initialization (level %q)", level)
		}
	}

	observability.ServerLogger.Info("server logger smoke test",
		zap.String("component", "test"),
		zap.Int("request_count", 1))
}

func TestStructuredProfileWithCorrelation(t *testing.T) {
	config := &logging.LoggerConfig{
		Profile:      logging.ProfileStructured,
		DefaultLevel: "INFO",
		Service:      "correlation-test",
		Environment:  "test",
		Middleware: []logging.MiddlewareConfig{
			{
				Name:    "correlation",
				Enabled: true,
				Order:   100,
				Config:  make(map[string]any),
			},
		},
		Sinks: []logging.SinkConfig{
			{
				Type:   "console",
				Format: "json",
				Console: &logging.ConsoleSinkConfig{
					Stream:   "stderr",
					Colorize: false,
				},
			},
		},
	}

	logger, err := logging.New(config)
	if err != nil {
		t.Fatalf("failed to create structured logger: %v", err)
	}

	logger.Info("message with correlation id",
		zap.String("feature", "correlation"))
}
