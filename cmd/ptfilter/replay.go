package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/cms-cvs-history/trajfilter/codec"
	"github.com/cms-cvs-history/trajfilter/config"
	"github.com/cms-cvs-history/trajfilter/promcollector"
	"github.com/cms-cvs-history/trajfilter/replay"
	"github.com/cms-cvs-history/trajfilter/resource"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/cobra"
)

type replayOptions struct {
	configPath  string
	writeReport bool
	reportName  string
	pushgateway string
	job         string
}

func newReplayCmd() *cobra.Command {
	var o replayOptions
	cmd := &cobra.Command{
		Use:   "replay TRACE",
		Short: "Replay a recorded candidate trace through the filter",
		Long: `Replay a recorded candidate trace through the filter.

TRACE names a blob in the configured store. A .lz4 or .zst suffix selects the
stream compression.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, o, args[0])
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "ptfilter.yaml", "configuration file")
	f.BoolVar(&o.writeReport, "write-report", false, "store the run report next to the trace")
	f.StringVar(&o.reportName, "report", "", "report blob name (implies --write-report)")
	f.StringVar(&o.pushgateway, "pushgateway", "", "push run metrics to this Prometheus Pushgateway URL")
	f.StringVar(&o.job, "job", "trajfilter_replay", "Pushgateway job name")
	return cmd
}

func replayCodec(name string) (codec.Codec, error) {
	cd, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", name)
	}
	return cd, nil
}

func runReplay(cmd *cobra.Command, o replayOptions, name string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	logger := cfg.Log.Logger(os.Stderr)

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	l, err := openLedger(ctx, cfg.Ledger)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	cd, err := replayCodec(cfg.Replay.Codec)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	collector, err := promcollector.New(reg, "trajfilter")
	if err != nil {
		return err
	}

	runner, err := replay.NewRunner(store, cfg.Filter,
		replay.WithCodec(cd),
		replay.WithLogger(logger),
		replay.WithMetricsCollector(collector),
		replay.WithLedger(l),
		replay.WithController(resource.NewController(resource.Config{
			MaxWorkers:      int64(cfg.Replay.Workers),
			ReadBytesPerSec: cfg.Replay.ReadBytesPerSec,
		})),
	)
	if err != nil {
		return err
	}

	rep, err := runner.Run(ctx, name)
	if err != nil {
		return err
	}
	collector.ObserveReplay(rep.AcceptedCount(), rep.ExhaustedCount(), rep.Duration)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "run %s trace %s\n", rep.RunID, rep.Trace)
	fmt.Fprintf(w, "candidates=%d skipped=%d accepted=%d exhausted=%d steps=%d memo_hits=%d elapsed=%s\n",
		rep.Candidates, rep.Skipped, rep.AcceptedCount(), rep.ExhaustedCount(),
		rep.StepsEvaluated, rep.MemoHits, rep.Duration)
	outcomes := make([]string, 0, len(rep.Outcomes))
	for k := range rep.Outcomes {
		outcomes = append(outcomes, k)
	}
	sort.Strings(outcomes)
	for _, k := range outcomes {
		fmt.Fprintf(w, "  %-20s %d\n", k, rep.Outcomes[k])
	}

	if o.writeReport || o.reportName != "" {
		reportName := o.reportName
		if reportName == "" {
			reportName = replay.ReportName(rep.Trace, rep.RunID)
		}
		if err := runner.WriteReport(ctx, reportName, rep); err != nil {
			return err
		}
		fmt.Fprintf(w, "report %s\n", reportName)
	}

	if o.pushgateway != "" {
		err := push.New(o.pushgateway, o.job).
			Gatherer(reg).
			Grouping("trace", rep.Trace).
			PushContext(ctx)
		if err != nil {
			return fmt.Errorf("push metrics: %w", err)
		}
	}
	return nil
}
