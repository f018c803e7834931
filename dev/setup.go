package main

import (
	"fmt"
	devenv "golfexport/dev/env"
	"log/slog"
	"os"
)

const telemetryConfigTemplate = `// exports traces and metrics to a local OTLP collector,
// a signal without an endpoint is not exported
{
  metric_interval_seconds: 5,
  otlp: {
    traces: {
      http_endpoint: "http://localhost:4318/v1/traces",
    },
    metrics: {
      http_endpoint: "http://localhost:4318/v1/metrics",
    },
  },
}
`

// writeOnce writes a file unless it already exists.
func writeOnce(path, contents string) error {
	_, err := os.Stat(path)
	if err == nil {
		fmt.Println("already created at", path)
		return nil
	}
	fmt.Println("creating", path)
	return os.WriteFile(path, []byte(contents), 0600)
}

func CreateLocalConfig() error {
	outDir, err := devenv.ResolvePath("<dev_state>/exports")
	if err != nil {
		return err
	}
	err = os.MkdirAll(outDir, 0777)
	if err != nil {
		return err
	}
	return writeOnce("config.local.json5", fmt.Sprintf(
		"// personal overrides of config.json5\n{\n  // the Authorization header of a logged in Garmin Connect session\n  token: \"\",\n  output_dir: %q,\n}\n",
		outDir,
	))
}

func CreateTelemetryConfig() error {
	return writeOnce("telemetry.json5", telemetryConfigTemplate)
}

func PrintConfigLocations() {
	slog.Info("put your Garmin Connect token in config.local.json5 (or GARMIN_GOLF_TOKEN), telemetry.json5 expects an OTLP collector on localhost:4318, delete it to disable telemetry.")
}
