package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pbaille/sitemapgen/internal/api"
	"github.com/pbaille/sitemapgen/internal/config"
	"github.com/pbaille/sitemapgen/internal/generator"
	"github.com/pbaille/sitemapgen/internal/metrics"
	"github.com/pbaille/sitemapgen/internal/store"
	"github.com/pbaille/sitemapgen/internal/watch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
	baseURL    string
	outputDir  string
	verbose    bool
	strict     bool
)

func main() {
	// Default history location
	home, _ := os.UserHomeDir()
	defaultDB := filepath.Join(home, ".sitemapgen", "history.db")

	rootCmd := &cobra.Command{
		Use:           "sitemapgen",
		Short:         "Categorized sitemap generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (built-in defaults when empty)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "run history database path (empty disables history)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "site base URL")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "exit non-zero when a run reports warnings")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(splitCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig reads the config file and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func getStore() (*store.Store, error) {
	if dbPath == "" {
		return nil, nil
	}
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(dbPath)
}

// recordRun stores the report in the history; failures only warn
func recordRun(report *generator.Report) {
	s, err := getStore()
	if err != nil {
		fmt.Printf("warning: run history unavailable: %v\n", err)
		return
	}
	if s == nil {
		return
	}
	defer s.Close()

	run, err := s.RecordRun(report.Run())
	if err != nil {
		fmt.Printf("warning: couldn't record run: %v\n", err)
		return
	}
	report.RunID = run.ID
}

// finish prints the report and applies --strict
func finish(report *generator.Report) error {
	recordRun(report)
	printReport(report)
	if strict && len(report.Warnings) > 0 {
		return fmt.Errorf("%d warnings reported (--strict)", len(report.Warnings))
	}
	return nil
}

func printReport(r *generator.Report) {
	fmt.Println()
	if r.Fallback {
		fmt.Println("Input sitemap unusable, example URLs were used")
	}
	if r.Backup != "" {
		fmt.Printf("Backed up original sitemap to %s\n", r.Backup)
	}

	fmt.Printf("Sitemap generation complete (%s mode)\n", r.Mode)
	fmt.Printf("Output directory: %s\n", r.OutputDir)
	fmt.Printf("Total URLs: %d\n", r.TotalURLs())
	for _, c := range r.Categories {
		if c.File == "" {
			fmt.Printf("  %-10s %4d  (no file)\n", c.Category, c.Count)
			continue
		}
		fmt.Printf("  %-10s %4d  %s\n", c.Category, c.Count, c.File)
	}

	if len(r.Files) > 0 {
		fmt.Printf("\nFiles written:\n")
		for _, f := range r.Files {
			fmt.Printf("  - %s\n", f)
		}
		fmt.Printf("\nSubmit %s/%s to search engines\n", r.BaseURL, generator.IndexFile)
	}

	if r.Inventory != nil && !r.Inventory.InSync() {
		fmt.Printf("\nInventory comparison (%d inventory ids, %d pages):\n", r.Inventory.InventoryIDs, r.Inventory.PageIDs)
		if len(r.Inventory.MissingFromInventory) > 0 {
			fmt.Printf("  pages missing from inventory: %s\n", strings.Join(r.Inventory.MissingFromInventory, ", "))
		}
		if len(r.Inventory.MissingPages) > 0 {
			fmt.Printf("  inventory ids without pages: %s\n", strings.Join(r.Inventory.MissingPages, ", "))
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, w := range r.Warnings {
			fmt.Printf("  ! %s\n", w)
		}
	}
	if r.RunID != "" {
		fmt.Printf("\nRun: %s\n", r.RunID[:8])
	}
}

func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [pages-dir] [output-dir]",
		Short: "Generate category sitemaps from page files",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.PagesDir = args[0]
			}
			if len(args) > 1 {
				cfg.OutputDir = args[1]
			}

			gen, err := generator.New(cfg)
			if err != nil {
				return err
			}

			fmt.Printf("Scanning %s for %s pages...\n", cfg.PagesDir, cfg.PageExt)
			report, err := gen.Pages()
			if err != nil {
				return err
			}
			return finish(report)
		},
	}
}

func splitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split [input-sitemap] [base-url]",
		Short: "Split an existing sitemap into category sitemaps",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				baseURL = args[1]
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			input := cfg.InputSitemap
			if len(args) > 0 {
				input = args[0]
			}

			gen, err := generator.New(cfg)
			if err != nil {
				return err
			}

			fmt.Printf("Reading %s...\n", input)
			report, err := gen.Split(input)
			if err != nil {
				return err
			}
			return finish(report)
		},
	}
}

func classifyCmd() *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "classify <id-or-url>...",
		Short: "Print the category of page ids or URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			clf, err := cfg.Classifier()
			if err != nil {
				return err
			}

			for _, arg := range args {
				subject := arg
				if strings.Contains(arg, "://") {
					subject = clf.URLPath(arg)
				}
				m := clf.Explain(subject)

				if !explain {
					fmt.Printf("%s\t%s\n", arg, m.Category)
					continue
				}
				pattern := m.Pattern
				if pattern == "" {
					pattern = "(no match, catch-all)"
				}
				fmt.Printf("%s\t%s\t%s\n", arg, m.Category, pattern)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "also print the deciding pattern")
	return cmd
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("run history is disabled (--db is empty)")
			}
			defer s.Close()

			runs, err := s.ListRuns(limit)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("No runs yet. Use 'sitemapgen generate' or 'sitemapgen split'.")
				return nil
			}

			for _, r := range runs {
				fmt.Printf("%s  %s  %-5s  %4d urls  %s\n",
					r.ID[:8], r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Mode, r.TotalURLs, r.OutputDir)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	cmd.AddCommand(historyShowCmd())
	return cmd
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("run history is disabled (--db is empty)")
			}
			defer s.Close()

			run, err := s.GetRun(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("ID:       %s\n", run.ID)
			fmt.Printf("Started:  %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Printf("Mode:     %s\n", run.Mode)
			fmt.Printf("Base URL: %s\n", run.BaseURL)
			fmt.Printf("Output:   %s\n", run.OutputDir)
			fmt.Printf("URLs:     %d\n", run.TotalURLs)

			if len(run.Categories) > 0 {
				fmt.Printf("\nCategories:\n")
				for _, c := range run.Categories {
					fmt.Printf("  - %-10s %4d  %s\n", c.Category, c.Count, c.File)
				}
			}
			if len(run.Warnings) > 0 {
				fmt.Printf("\nWarnings:\n")
				for _, w := range run.Warnings {
					fmt.Printf("  ! %s\n", w)
				}
			}
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			rec := metrics.NewPrometheus(reg)

			gen, err := generator.New(cfg, generator.WithRecorder(rec))
			if err != nil {
				return err
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			if s != nil {
				defer s.Close()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.New(api.Options{
				Addr:         addr,
				Generator:    gen,
				Store:        s,
				OutputDir:    cfg.OutputDir,
				InputSitemap: cfg.InputSitemap,
				Recorder:     rec,
				Gatherer:     reg,
			})
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "server address")
	return cmd
}

func watchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [pages-dir]",
		Short: "Regenerate sitemaps whenever page files change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.PagesDir = args[0]
			}

			gen, err := generator.New(cfg)
			if err != nil {
				return err
			}

			run := func(ctx context.Context) error {
				report, err := gen.Pages()
				if err != nil {
					return err
				}
				recordRun(report)
				printReport(report)
				return nil
			}

			// Initial run so the output reflects the current pages
			if err := run(cmd.Context()); err != nil {
				return err
			}

			w, err := watch.New(cfg.PagesDir, cfg.PageExt, run, debounce, slog.Default())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Printf("Watching %s (Ctrl-C to stop)\n", cfg.PagesDir)
			return w.Run(ctx)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before regenerating")
	return cmd
}
