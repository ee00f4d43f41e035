package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"utimes-go/internal/app"
	"utimes-go/internal/config"
	"utimes-go/internal/stamp"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp loads the config and creates a UtimesApp. The caller must defer app.Close().
// command identifies the CLI command being run (e.g. "set", "undo").
func newApp(cmd *cobra.Command, command string) (*app.UtimesApp, *config.Config, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Verbose = true
	}

	a, err := app.NewUtimesApp(cfg, command, os.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, cfg, nil
}

// linkMode picks the link mode from -h, falling back to client.no_dereference.
func linkMode(cmd *cobra.Command, cfg *config.Config) stamp.LinkMode {
	noDeref := cfg.Client.NoDereference
	if cmd.Flags().Changed("no-dereference") {
		noDeref, _ = cmd.Flags().GetBool("no-dereference")
	}
	if noDeref {
		return stamp.ActOnLinkItself
	}
	return stamp.FollowSymlinks
}

var rootCmd = &cobra.Command{
	Use:          "utimes",
	Short:        "Set access, modification and birth times of files",
	SilenceUsage: true,
}

// set command
var setCmd = &cobra.Command{
	Use:   "set [flags] PATH...",
	Short: "Set timestamps",
	Long: `Set timestamps on every PATH, in order. A failing path does not stop the others.

Times are milliseconds since the Unix epoch, RFC 3339 timestamps or "now".
Without -t, -r or a field flag, atime and mtime are set to now.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cfg, err := newApp(cmd, "set")
		if err != nil {
			return err
		}
		defer a.Close()

		req := app.SetRequest{Paths: args, Mode: linkMode(cmd, cfg)}
		req.Reference, _ = cmd.Flags().GetString("reference")
		if cmd.Flags().Changed("time") {
			req.Time, _ = cmd.Flags().GetString("time")
		}
		if cmd.Flags().Changed("atime") {
			req.Fields.Atime, _ = cmd.Flags().GetString("atime")
		}
		if cmd.Flags().Changed("mtime") {
			req.Fields.Mtime, _ = cmd.Flags().GetString("mtime")
		}
		if cmd.Flags().Changed("btime") {
			req.Fields.Btime, _ = cmd.Flags().GetString("btime")
		}

		res, err := a.Set(cmd.Context(), req)
		if err != nil {
			return err
		}
		if !a.Support().Btime && res.Spec.Has(stamp.Btime) {
			fmt.Fprintln(os.Stderr, "note: birth time cannot be set on this platform; ignored")
		}
		return printBatch(os.Stdout, os.Stderr, isTerminal(os.Stdout), res.OperationID, res.Result)
	},
}

// stat command
var statCmd = &cobra.Command{
	Use:   "stat [flags] PATH...",
	Short: "Show timestamps",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cfg, err := newApp(cmd, "stat")
		if err != nil {
			return err
		}
		defer a.Close()

		results := a.Stat(args, linkMode(cmd, cfg))
		return printStat(os.Stdout, os.Stderr, isTerminal(os.Stdout), results)
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, _, err := newApp(cmd, "history")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(limit)
		if err != nil {
			return err
		}
		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}
		printHistory(os.Stdout, isTerminal(os.Stdout), ops)
		return nil
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show OPID",
	Short: "Show the paths of an operation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := newApp(cmd, "show")
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.Entries(args[0])
		if err != nil {
			return err
		}
		printEntries(os.Stdout, isTerminal(os.Stdout), entries)
		return nil
	},
}

// undo command
var undoCmd = &cobra.Command{
	Use:   "undo OPID",
	Short: "Restore the timestamps an operation changed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := newApp(cmd, "undo")
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Undo(args[0])
		if err != nil {
			return err
		}
		for _, p := range res.Skipped {
			fmt.Fprintf(os.Stderr, "skipped %s: nothing to restore\n", p)
		}
		return printBatch(os.Stdout, os.Stderr, isTerminal(os.Stdout), res.OperationID, res.Result)
	},
}

// support command
var supportCmd = &cobra.Command{
	Use:   "support",
	Short: "Show which timestamps this platform can set",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := newApp(cmd, "support")
		if err != nil {
			return err
		}
		defer a.Close()

		s := a.Support()
		fmt.Printf("atime:       %s\n", yesNo(s.Atime))
		fmt.Printf("mtime:       %s\n", yesNo(s.Mtime))
		fmt.Printf("btime:       %s\n", yesNo(s.Btime))
		fmt.Printf("link itself: %s\n", yesNo(s.LinkItself))
		return nil
	},
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

		cfg, err := config.Load(defaults["config_path"], defaults["base_dir"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:        %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:         %s\n", cfg.LogDir)
		fmt.Printf("Journal:         %s\n", cfg.Journal.Type)
		if cfg.Journal.DataDir != "" {
			fmt.Printf("Journal Dir:     %s\n", cfg.Journal.DataDir)
		}
		fmt.Printf("Max Concurrent:  %d\n", cfg.Client.MaxConcurrent)
		fmt.Printf("No Dereference:  %t\n", cfg.Client.NoDereference)
		if s3 := cfg.Reference.S3; s3.Region != "" || s3.Endpoint != "" || s3.Profile != "" {
			fmt.Printf("S3 Region:       %s\n", s3.Region)
			fmt.Printf("S3 Endpoint:     %s\n", s3.Endpoint)
			fmt.Printf("S3 Profile:      %s\n", s3.Profile)
		}
		return nil
	},
}

// errFailed is returned when at least one path failed; the details were
// already printed.
var errFailed = errors.New("some paths failed")

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatDuration(started, finished time.Time) string {
	if finished.IsZero() {
		return ""
	}
	return finished.Sub(started).Truncate(time.Millisecond).String()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log to stderr as well as the log file")

	setCmd.Flags().StringP("time", "t", "", "Set atime, mtime and btime to this instant")
	setCmd.Flags().String("atime", "", "Set the access time")
	setCmd.Flags().String("mtime", "", "Set the modification time")
	setCmd.Flags().String("btime", "", "Set the birth time")
	setCmd.Flags().StringP("reference", "r", "", "Copy times from a file or s3://bucket/key")
	setCmd.Flags().BoolP("no-dereference", "h", false, "Act on symlinks themselves")
	statCmd.Flags().BoolP("no-dereference", "h", false, "Read symlinks themselves")
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(supportCmd)
	rootCmd.AddCommand(configCmd)
}
