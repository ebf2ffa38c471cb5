package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jsravan/postpilot/internal/config"
	"github.com/jsravan/postpilot/internal/database"
	"github.com/jsravan/postpilot/internal/pipeline"
	"github.com/jsravan/postpilot/internal/schedule"
	"github.com/jsravan/postpilot/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "postpilot",
	Short:   "Weekly GitHub activity to social post drafts",
	Long:    "Postpilot fetches your recent GitHub activity, generates post ideas and drafts with an LLM, and schedules them as records in a Notion database.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("postpilot", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/postpilot/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to set your GitHub username and Notion database, then export the secret env vars.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show run log status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Today: %s\n\n", database.GetToday())
		fmt.Println("Runs:")
		fmt.Printf("  Total: %d\n", stats.TotalRuns)
		if stats.LastRunDate != "" {
			fmt.Printf("  Last run: %s\n", stats.LastRunDate)
		}
		fmt.Println("\nPosts:")
		fmt.Printf("  Generated: %d\n", stats.TotalPosts)
		fmt.Printf("  Published: %d\n", stats.PublishedPosts)
		fmt.Printf("  Failed: %d\n", stats.FailedPosts)
		return nil
	},
}

// --- run command ---

var (
	dryRun   bool
	daysBack int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: fetch -> summarize -> generate -> publish",
	RunE: func(cmd *cobra.Command, args []string) error {
		if daysBack > 0 {
			cfg.GitHub.DaysBack = daysBack
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		return runPipeline(cfg, db, dryRun)
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Fetch and summarize without generating or publishing")
	runCmd.Flags().IntVar(&daysBack, "days-back", 0, "Override lookback window (days)")
}

func runPipeline(cfg *config.Config, db *database.DB, dry bool) error {
	pipe := pipeline.New(cfg, db)
	ctx := context.Background()
	today := database.GetToday()

	var result *pipeline.Result
	if dry {
		result = pipe.DryRun(ctx, today)
	} else {
		result = pipe.Run(ctx, today)
	}

	for i, step := range result.Steps {
		fmt.Printf("\nStep %d/4: %s\n", i+1, step.Name)
		if step.Err != nil {
			fmt.Printf("  Error: %v\n", step.Err)
		} else {
			fmt.Printf("  %s\n", step.Summary)
		}
	}

	// A fetch failure propagates; a generation parse failure already ended
	// the run gracefully with nothing published.
	if result.FatalErr != nil {
		return result.FatalErr
	}

	if !dry {
		fmt.Printf("\nDone: %d published, %d failed. Run 'postpilot serve' to review.\n",
			result.Published, result.Failed)
	}
	return nil
}

// --- schedule command ---

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Keep running and execute the pipeline on the configured cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		sched, err := schedule.New(cfg.Schedule.Cron, cfg.Schedule.Timezone)
		if err != nil {
			return err
		}
		if err := sched.Add(func() {
			if err := runPipeline(cfg, db, false); err != nil {
				log.Printf("Scheduled run failed: %v", err)
			}
		}); err != nil {
			return err
		}

		sched.Start()
		defer sched.Stop()
		fmt.Println("Scheduler running. Press Ctrl+C to stop.")

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server to review generated posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "postpilot.db")
	return database.Open(dbPath)
}
