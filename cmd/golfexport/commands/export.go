package commands

import (
	"context"
	"fmt"
	"golfexport/internal/chrono"
	"golfexport/internal/components/telemetry"
	"golfexport/internal/export"
	"golfexport/internal/garmin"
	"golfexport/internal/golfcsv"
	"golfexport/internal/sink"
	"golfexport/lib/restyutil"
	"io"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var exportDescriptions = map[golfcsv.Kind]string{
	golfcsv.KindSummary: "Exports one row per round from the round summaries.",
	golfcsv.KindDetail:  "Exports one row per round with its scorecard and per-hole columns.",
	golfcsv.KindShots:   "Exports one row per recorded shot.",
}

func init() {
	for _, kind := range golfcsv.Kinds {
		rootCmd.AddCommand(newExportCmd(kind))
	}
	rootCmd.AddCommand(allCmd)
}

func newExportCmd(kind golfcsv.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s [--token <token>] [--out <dir>|-]", kind),
		Short: exportDescriptions[kind],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExports(cmd.Context(), []golfcsv.Kind{kind})
		},
	}
}

var allCmd = &cobra.Command{
	Use:   "all [--token <token>] [--out <dir>|-]",
	Short: "Runs the summary, detail and shots exports in that order.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExports(cmd.Context(), golfcsv.Kinds)
	},
}

func runExports(ctx context.Context, kinds []golfcsv.Kind) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	loc, err := chrono.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}
	cred := cfg.credential()
	tel := telemetry.SlogAPI{}

	var out sink.Sink = sink.NewDir(cfg.OutputDir, tel)
	var report io.Writer = os.Stdout
	if cfg.OutputDir == "-" {
		out = sink.NewWriter(os.Stdout, tel)
		report = os.Stderr
	}

	flattener := golfcsv.NewFlattener(golfcsv.FlattenerOptions{
		Location:  loc,
		HoleSlots: cfg.HoleSlots,
		Telemetry: tel,
	})

	var results []export.Result
	for _, kind := range kinds {
		client, err := newClient(cfg, kind, tel)
		if err != nil {
			return err
		}

		observer := newProgressObserver(kind)
		exporter := export.NewExporter(export.Options{
			Source:    client,
			Sink:      out,
			Flattener: flattener,
			Clock:     chrono.NewStandardTime(loc),
			Observer:  observer,
			Telemetry: tel,
		})
		result, err := exporter.Run(ctx, kind, cred)
		observer.Stop()
		if err != nil {
			return err
		}
		results = append(results, result)
		slog.Debug("export complete", "kind", kind, "run_id", result.RunID, "location", result.Location)
	}

	renderResults(report, results)
	return nil
}

func newClient(cfg Config, kind golfcsv.Kind, tel telemetry.API) (*garmin.Client, error) {
	var output restyutil.InstrumentOutput
	if *dumpHttp {
		fsOutput, err := restyutil.NewFilesystemOutput(fmt.Sprintf("<dev_state>/http/%s", kind))
		if err != nil {
			return nil, fmt.Errorf("prepare http dump: %w", err)
		}
		slog.Info("dumping http exchanges", "dir", fsOutput.Dir())
		output = fsOutput
	}

	client, err := garmin.NewClient(garmin.ClientOptions{
		BaseUrl:           cfg.BaseUrl,
		AppVersion:        cfg.AppVersion,
		Timeout:           cfg.timeout(),
		RequestsPerSecond: cfg.requestsPerSecond(),
		SummaryPageSize:   cfg.SummaryPageSize,
		BypassCloudflare:  cfg.BypassCloudflare,
		Telemetry:         tel,
		InstrumentOutput:  output,
	})
	if err != nil {
		return nil, fmt.Errorf("create garmin client: %w", err)
	}
	return client, nil
}

func renderResults(w io.Writer, results []export.Result) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Kind", "Rounds", "Skipped", "Rows", "File"})
	for _, r := range results {
		t.AppendRow(table.Row{r.Kind, r.Rounds, r.Skipped, r.Rows, r.Location})
	}
	t.Render()
}
