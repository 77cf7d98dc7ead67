package main

import (
	"fmt"
	"os"

	"mediasort/internal/app"
	"mediasort/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a MediasortApp. The caller must defer app.Close().
func newApp() (*app.MediasortApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewMediasortApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// targetDir resolves the optional positional path argument, defaulting to
// the current directory.
func targetDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

var rootCmd = &cobra.Command{
	Use:   "mediasort",
	Short: "Sort, deduplicate and clean up photo and video trees",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Trash Dir: %s\n", cfg.Trash.Dir)
		fmt.Printf("Manifest:  %s (%s)\n", cfg.Database.Path, cfg.Database.Type)
		fmt.Printf("Buckets:   %s, %s, %s\n",
			cfg.Buckets.Screenshots, cfg.Buckets.Recordings, cfg.Buckets.Memes)
		return nil
	},
}

// sort command
var sortCmd = &cobra.Command{
	Use:   "sort [PATH]",
	Short: "Sort a media tree into year/month folders",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.Sort(targetDir(args))
		if err != nil {
			return err
		}

		if stats.Aborted {
			fmt.Println("Aborted.")
		}
		fmt.Printf("Moved %d, kept %d, skipped %d file(s)\n", stats.Moved, stats.Kept, stats.Skipped)
		fmt.Printf("Trashed %d sidecar(s), consolidated %d backup folder(s), pruned %d empty folder(s)\n",
			stats.Sidecars, stats.Backups, stats.Pruned)
		return nil
	},
}

// dup command
var dupCmd = &cobra.Command{
	Use:   "dup [PATH]",
	Short: "Find and resolve content-identical files",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, _ := cmd.Flags().GetBool("list")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if list {
			groups, stats, err := a.ListDuplicates(targetDir(args))
			if err != nil {
				return err
			}
			for _, g := range groups {
				fmt.Printf("%d bytes, %d copies:\n", g.Key.Size, len(g.Files))
				for _, f := range g.Files {
					fmt.Printf("  %s\n", f)
				}
			}
			fmt.Printf("Scanned %d file(s), found %d duplicate group(s)\n", stats.Scanned, stats.Groups)
			return nil
		}

		stats, err := a.Dedup(targetDir(args))
		if err != nil {
			return err
		}

		if stats.Aborted {
			fmt.Println("Aborted.")
		}
		fmt.Printf("Scanned %d file(s), %d duplicate group(s), trashed %d file(s)\n",
			stats.Scanned, stats.Groups, stats.Trashed)
		return nil
	},
}

// review command
var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review media interactively",
}

var reviewImagesCmd = &cobra.Command{
	Use:   "images [PATH]",
	Short: "Review images folder by folder, trashing junk and filing memes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.ReviewImages(targetDir(args))
		if err != nil {
			return err
		}

		fmt.Printf("Reviewed %d image(s): trashed %d, filed %d meme(s)\n",
			stats.Reviewed, stats.Trashed, stats.Moved)
		return nil
	},
}

var reviewLiveCmd = &cobra.Command{
	Use:   "live [PATH]",
	Short: "Review Live Photo video clips",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.ReviewLive(targetDir(args))
		if err != nil {
			return err
		}

		fmt.Printf("Reviewed %d clip(s): trashed %d\n", stats.Reviewed, stats.Trashed)
		return nil
	},
}

// inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Explain how a file is classified and where sorting would put it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _ := cmd.Flags().GetString("root")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Inspect(root, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Path:        %s\n", report.Path)
		fmt.Printf("Kind:        %s\n", report.Kind)
		fmt.Printf("Timestamp:   %s\n", report.Timestamp)
		if report.CaptureTime != "" {
			fmt.Printf("Captured:    %s\n", report.CaptureTime)
		}
		fmt.Printf("Destination: %s\n", report.Destination)
		return nil
	},
}

// trash command
var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Inspect and undo past runs",
}

var trashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent trash runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.TrashRuns(limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No trash runs recorded.")
			return nil
		}

		for _, r := range runs {
			finished := "running"
			if r.FinishedAt != nil {
				finished = r.FinishedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%s  %-14s  started %s  finished %s\n",
				r.ID, r.Operation, r.StartedAt.Format("2006-01-02 15:04:05"), finished)
		}
		return nil
	},
}

var trashEntriesCmd = &cobra.Command{
	Use:   "entries RUN_ID",
	Short: "List the files removed during one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.TrashEntries(args[0])
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No entries for that run.")
			return nil
		}

		for _, e := range entries {
			restored := ""
			if e.Restored() {
				restored = "  [restored]"
			}
			fmt.Printf("%s  %d  %s%s\n", e.ID, e.Size, e.OriginalPath, restored)
		}
		return nil
	},
}

var trashRestoreCmd = &cobra.Command{
	Use:   "restore ID",
	Short: "Put trashed files back where they came from",
	Long:  "Restores every file of a run by run ID, or a single file with --entry.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, _ := cmd.Flags().GetBool("entry")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if entry {
			if err := a.RestoreEntry(args[0]); err != nil {
				return err
			}
			fmt.Println("Restored 1 file")
			return nil
		}

		restored, err := a.RestoreRun(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Restored %d file(s)\n", restored)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// review subcommands
	reviewCmd.AddCommand(reviewImagesCmd)
	reviewCmd.AddCommand(reviewLiveCmd)

	// trash subcommands
	trashCmd.AddCommand(trashListCmd)
	trashListCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")
	trashCmd.AddCommand(trashEntriesCmd)
	trashCmd.AddCommand(trashRestoreCmd)
	trashRestoreCmd.Flags().Bool("entry", false, "Treat ID as a single entry, not a run")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(dupCmd)
	dupCmd.Flags().Bool("list", false, "Only list duplicate groups, change nothing")
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("root", ".", "Sort root the destination is computed against")
	rootCmd.AddCommand(trashCmd)
}
