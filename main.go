package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"recbench/internal/bench"
	"recbench/internal/etl"
	"recbench/internal/samples"
	"recbench/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type inputFlags struct {
	input  string
	format string
	table  string
	quiet  bool
}

func (f *inputFlags) config() bench.Config {
	cfg := bench.Config{InputPath: f.input, Format: f.format}
	if f.table != "" {
		cfg.Options = etl.SourceConfig{etl.CfgTable: f.table}
	}
	return cfg
}

func newRootCmd() *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:   "recbench",
		Short: "Time string, integer and float operations over a file of person records",
		Long: `recbench loads every record of the input file into memory, then times
three passes over it and prints one line per stage:

  File loading took <d>
  String operations took <d>
  Integer operations took <d>
  Float operations took <d>`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.quiet {
				log.SetOutput(io.Discard)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			h := bench.New(bench.NewConsoleReporter(cmd.OutOrStdout()))
			_, err := h.Run(ctx, flags.config())
			return err
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.input, "input", "i", bench.DefaultInput, "input file (.json, .csv, .cbor, .db; optionally .zst-compressed)")
	pf.StringVar(&flags.format, "format", "", "source type, overriding detection by extension (see 'recbench sources')")
	pf.StringVar(&flags.table, "table", "", "table to read from a SQLite input (default \"records\")")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "suppress log output on stderr")

	cmd.AddCommand(
		newWatchCmd(&flags),
		newScheduleCmd(&flags),
		newGenerateCmd(),
		newSourcesCmd(),
	)
	return cmd
}

func newWatchCmd(flags *inputFlags) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run once, then rerun every time the input file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, flags, func(ctx context.Context, svc *service.BenchService) error {
				return svc.Watch(ctx, debounce)
			})
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", service.DefaultDebounce, "quiet period after the last write before rerunning")
	return cmd
}

func newScheduleCmd(flags *inputFlags) *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run once, then rerun on a cron schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, flags, func(ctx context.Context, svc *service.BenchService) error {
				return svc.Schedule(ctx, expr)
			})
		},
	}
	cmd.Flags().StringVar(&expr, "cron", "", "cron expression, e.g. \"*/5 * * * *\" or \"@every 30s\"")
	if err := cmd.MarkFlagRequired("cron"); err != nil {
		panic(err)
	}
	return cmd
}

// serve runs the harness once, installs a rerun trigger and blocks until
// SIGINT or SIGTERM, then waits for the in-flight run.
func serve(cmd *cobra.Command, flags *inputFlags, install func(context.Context, *service.BenchService) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	h := bench.New(bench.NewConsoleReporter(cmd.OutOrStdout()))
	svc := service.NewBenchService(h, flags.config(), service.LogEmitter{})

	if _, err := svc.RunOnce(ctx); err != nil {
		log.Printf("[BENCH] initial run failed: %v", err)
	}
	if err := install(ctx, svc); err != nil {
		return err
	}

	<-ctx.Done()
	log.Println("[BENCH] shutting down")
	svc.Stop()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer waitCancel()
	svc.WaitRunning(waitCtx)
	return nil
}

func newGenerateCmd() *cobra.Command {
	var (
		count  int
		seed   uint64
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic input file of person records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := etl.DestinationFor(output)
			if err != nil {
				return err
			}
			recs, err := samples.Generate(count, seed)
			if err != nil {
				return err
			}
			n, err := dest.Write(cmd.Context(), output, etl.PersonSchema(), etl.FromDomain(recs))
			if err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			log.Printf("[GENERATE] wrote %d records to %s", n, output)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1000, "number of records")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed; the same seed produces the same file")
	cmd.Flags().StringVarP(&output, "output", "o", bench.DefaultInput, "output file; the extension picks the format")
	return cmd
}

func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the supported input formats and their options",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, spec := range etl.ListSources() {
				fmt.Fprintf(out, "%-12s %-12s %v\n", spec.Type, spec.Label, spec.Extensions)
				for _, f := range spec.ConfigFields {
					fmt.Fprintf(out, "    %-10s %s\n", f.Key, f.Help)
				}
			}
		},
	}
}
