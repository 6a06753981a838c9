// PriceTalk — conversational access to WFP commodity price datasets.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pricetalk/pricetalk/api"
	"github.com/pricetalk/pricetalk/internal/chart"
	"github.com/pricetalk/pricetalk/internal/config"
	"github.com/pricetalk/pricetalk/internal/dialogue"
	"github.com/pricetalk/pricetalk/internal/logger"
	"github.com/pricetalk/pricetalk/internal/news"
	"github.com/pricetalk/pricetalk/internal/store"
	"github.com/pricetalk/pricetalk/internal/updater"
	"github.com/pricetalk/pricetalk/pkg/models"
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
	// Load .env if present; real env vars still win.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pricetalk",
	Short: "PriceTalk — conversational WFP commodity price queries",
	Long: `PriceTalk answers questions about World Food Programme commodity
prices: which markets have data, how prices moved over a period, and
what the current situation looks like — as tables, charts, or through
the chat API.`,
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

		level := cfg.Logging.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		logger.Setup(level, cfg.Logging.Format, cfg.Logging.File)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(countriesCmd)
	rootCmd.AddCommand(commoditiesCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(serveCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("PriceTalk %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Query Command ---

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query price data coverage as a table",
	Long: `Resolve the given countries, commodities and dates against the
loaded datasets and print the coverage table.

Examples:
  pricetalk query --country kenya --commodity maize --from "last 3 months"
  pricetalk query --country brazil --country argentina --from 2022 --to 2023
  pricetalk query --commodity rice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		holder, err := openHolder()
		if err != nil {
			return err
		}

		resp := dialogue.NewHandler(holder, cfg.Resolver.DefaultLookbackDays).Table(slotsFromFlags(cmd))
		fmt.Println(resp.Text)
		if resp.Table != nil {
			printTable(resp.Table)
		}
		return nil
	},
}

// --- Chart Command ---

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render price series as an SVG chart",
	Long: `Run a price query and write the resulting series as an SVG line
chart.

Examples:
  pricetalk chart --country kenya --commodity maize --from "past year" --out maize.svg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		holder, err := openHolder()
		if err != nil {
			return err
		}

		resp := dialogue.NewHandler(holder, cfg.Resolver.DefaultLookbackDays).Chart(slotsFromFlags(cmd))
		if len(resp.Series) == 0 {
			fmt.Println(resp.Text)
			return nil
		}

		svg := chart.PriceChart(resp.Series, chart.Config{})
		out, _ := cmd.Flags().GetString("out")
		if out == "" || out == "-" {
			fmt.Println(svg)
			return nil
		}
		if err := os.WriteFile(out, []byte(svg), 0o644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		fmt.Printf("%s\nChart written to %s\n", resp.Text, out)
		return nil
	},
}

// --- Countries Command ---

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List countries with price data",
	RunE: func(cmd *cobra.Command, args []string) error {
		holder, err := openHolder()
		if err != nil {
			return err
		}
		for _, c := range holder.Get().Countries() {
			fmt.Println(c)
		}
		return nil
	},
}

// --- Commodities Command ---

var commoditiesCmd = &cobra.Command{
	Use:   "commodities [country]",
	Short: "List commodities available for a country",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		holder, err := openHolder()
		if err != nil {
			return err
		}
		country := strings.ToLower(args[0])
		commodities := holder.Get().Commodities(country)
		if commodities == nil {
			return fmt.Errorf("no price data for %q", country)
		}
		for _, c := range commodities {
			fmt.Println(c)
		}
		return nil
	},
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Show commodity market headlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		commodity, _ := cmd.Flags().GetString("commodity")

		fetcher := news.NewFetcher(cfg.News.Feeds, time.Duration(cfg.News.CacheTTLSec)*time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var (
			articles []models.NewsArticle
			err      error
		)
		if commodity != "" {
			articles, err = fetcher.CommodityHeadlines(ctx, commodity, limit)
		} else {
			articles, err = fetcher.Headlines(ctx, limit)
		}
		if err != nil {
			return err
		}

		for _, a := range articles {
			fmt.Printf("%s  %s\n    %s\n", a.Published.Format("2006-01-02"), a.Title, a.URL)
		}
		return nil
	},
}

// --- Update Command ---

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh the local datasets from HDX",
	Long: `Download the configured WFP food price datasets from the HDX
portal, normalize units, and replace the local per-country CSV files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := updater.New(
			cfg.Updater.BaseURL,
			cfg.Datasets.Dir,
			cfg.Updater.RequestsPerSec,
			time.Duration(cfg.Updater.TimeoutSec)*time.Second,
		)

		fmt.Printf("Updating datasets into %s ...\n", cfg.Datasets.Dir)
		if err := u.UpdateAll(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("All datasets updated.")
		return nil
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		holder, err := openHolder()
		if err != nil {
			return err
		}

		srv := api.NewServer(cfg, holder, version)
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		return srv.ListenAndServe(addr)
	},
}

// --- Helpers ---

func openHolder() (*store.Holder, error) {
	holder, err := store.NewHolder(cfg.Datasets.Dir)
	if err != nil {
		return nil, fmt.Errorf("load datasets from %s: %w (run 'pricetalk update' first?)", cfg.Datasets.Dir, err)
	}
	return holder, nil
}

func slotsFromFlags(cmd *cobra.Command) models.Slots {
	countries, _ := cmd.Flags().GetStringSlice("country")
	commodities, _ := cmd.Flags().GetStringSlice("commodity")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	return models.Slots{
		Countries:   countries,
		Commodities: commodities,
		StartDate:   from,
		EndDate:     to,
	}
}

func printTable(t *models.TableSummary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.Columns, "\t"))
	for _, row := range t.Data {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

func init() {
	for _, c := range []*cobra.Command{queryCmd, chartCmd} {
		c.Flags().StringSlice("country", nil, "country name (repeatable; empty means all)")
		c.Flags().StringSlice("commodity", nil, "commodity name (repeatable; empty means all)")
		c.Flags().String("from", "", `start date phrase ("last 3 months", "2022", "March 2023")`)
		c.Flags().String("to", "", "end date phrase")
	}
	chartCmd.Flags().String("out", "", "output SVG file ('-' for stdout)")

	newsCmd.Flags().Int("limit", 15, "maximum number of headlines")
	newsCmd.Flags().String("commodity", "", "filter headlines by commodity")
}
