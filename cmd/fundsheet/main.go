// fundsheet — per-ticker fundamentals extraction into CSV reports.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/quantatlas/fundsheet/internal/config"
	"github.com/quantatlas/fundsheet/internal/fundamentals"
	"github.com/quantatlas/fundsheet/internal/provider"
	"github.com/quantatlas/fundsheet/internal/providers/yfinance"
	"github.com/quantatlas/fundsheet/internal/report"
	"github.com/quantatlas/fundsheet/pkg/models"
	"github.com/quantatlas/fundsheet/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fundsheet",
	Short: "fundsheet — annual fundamentals extracted into CSV reports",
	Long: `fundsheet fetches financial statements, price history and summary data
for stock tickers, normalizes the inconsistently-labeled upstream rows into
a fixed year-by-metric table, and writes each ticker's fundamentals as a
raw and a human-readable CSV report.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		cfg.ConfigureLogging()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(providersCmd)
}

// newRegistry builds the provider registry for a run.
func newRegistry() *provider.Registry {
	registry := provider.NewRegistry()
	if err := registry.Register(yfinance.New()); err != nil {
		log.Error().Err(err).Msg("register yfinance provider")
	}
	return registry
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fundsheet %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Extract Command ---

var extractCmd = &cobra.Command{
	Use:   "extract [ticker]",
	Short: "Extract fundamentals for one ticker or a ticker list",
	Long: `Extract fetches statements, prices and summary data for each ticker,
assembles the fundamentals table across the configured year range, and writes
the raw and readable CSV reports into the output directory.

Provide either one ticker as a positional argument or a newline-delimited
list via --tickers-file (blank lines and lines starting with # are ignored).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tickersFile, _ := cmd.Flags().GetString("tickers-file")

		var tickers []string
		switch {
		case len(args) == 1:
			tickers = []string{utils.NormalizeTicker(args[0])}
		case tickersFile != "":
			var err error
			tickers, err = readTickersFile(tickersFile)
			if err != nil {
				log.Error().Str("file", tickersFile).Err(err).Msg("cannot read ticker list")
				return err
			}
		default:
			return errors.New("provide a ticker symbol or --tickers-file")
		}

		runBatch(cmd.Context(), tickers)
		return nil
	},
}

func init() {
	extractCmd.Flags().String("tickers-file", "", "path to a newline-delimited ticker list")
}

// runBatch processes tickers strictly one at a time. A failed ticker is
// logged and skipped; it never aborts the batch.
func runBatch(ctx context.Context, tickers []string) {
	assembler := fundamentals.NewAssembler(newRegistry(), cfg.YearsToExtract(), cfg.Extract.Benchmark)
	writer := report.NewWriter(cfg.Output.Dir)

	written := 0
	for _, ticker := range tickers {
		if err := processTicker(ctx, assembler, writer, ticker); err != nil {
			log.Error().Str("ticker", ticker).Err(err).Msg("ticker skipped")
			continue
		}
		written++
	}

	log.Info().Int("requested", len(tickers)).Int("written", written).Msg("extraction finished")
}

// processTicker runs fetch → assemble → write for one ticker. A panic from
// anywhere below is recovered into an error so a batch run survives it.
func processTicker(ctx context.Context, assembler *fundamentals.Assembler, writer *report.Writer, ticker string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("assembly panic: %v", r)
		}
	}()

	table, err := assembler.Assemble(ctx, ticker)
	if err != nil {
		return err
	}

	rawPath, readablePath, err := writer.Write(table)
	if err != nil {
		return err
	}

	log.Info().
		Str("ticker", ticker).
		Str("raw", rawPath).
		Str("readable", readablePath).
		Msg("report written")
	return nil
}

// readTickersFile parses a newline-delimited ticker list, skipping blank
// lines and # comments. An empty result is an error: it halts the run
// before any fetch is attempted.
func readTickersFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tickers []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tickers = append(tickers, utils.NormalizeTicker(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("ticker file %s contains no tickers", path)
	}
	return tickers, nil
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news [ticker]",
	Short: "Print recent headlines for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := utils.NormalizeTicker(args[0])

		result, err := newRegistry().Fetch(cmd.Context(), provider.ModelCompanyNews, provider.QueryParams{
			provider.ParamSymbol: ticker,
		})
		if err != nil {
			return err
		}

		items, _ := result.Data.([]models.NewsItem)
		if len(items) == 0 {
			fmt.Printf("no recent headlines for %s\n", ticker)
			return nil
		}
		for _, item := range items {
			when := ""
			if !item.PublishedAt.IsZero() {
				when = item.PublishedAt.Format("2006-01-02 15:04")
			}
			fmt.Printf("%-17s %s\n", when, item.Title)
			fmt.Printf("%17s %s\n", "", item.Link)
		}
		return nil
	},
}

// --- Providers Command ---

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List registered data providers and check connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := newRegistry()

		for _, info := range registry.List() {
			fmt.Printf("%s — %s\n", info.Name, info.Description)
			fmt.Printf("  website: %s\n", info.Website)
			fmt.Printf("  models:  %d registered\n", len(info.Models))

			p, err := registry.Get(info.Name)
			if err != nil {
				continue
			}
			if err := p.Ping(cmd.Context()); err != nil {
				fmt.Printf("  status:  unreachable (%v)\n", err)
			} else {
				fmt.Printf("  status:  ok\n")
			}
		}
		return nil
	},
}
