package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quidome/capturetime/internal/config"
	"github.com/quidome/capturetime/internal/logging"
)

const version = "0.2.0"

type options struct {
	verbose    bool
	configPath string
}

// env is what every subcommand needs once flags are parsed.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func (o *options) load(cmd *cobra.Command) (*env, error) {
	cfg, _, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if o.verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{Level: level, Format: cfg.Logging.Format, Output: cmd.ErrOrStderr()})
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger}, nil
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "capturetime",
		Short:   "Infer when media files were captured",
		Long:    "capturetime infers the capture moment of photos, recordings and documents from their filenames, embedded container metadata and filesystem timestamps.",
		Version: version,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("capturetime CLI")
			cmd.Printf("Version: %s\n", version)
			if opts.verbose {
				cmd.Println("Verbose mode: enabled")
			}
			cmd.Println("")
			cmd.Println("Use --help to see available commands and options")
		},
	}

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a TOML configuration file")

	rootCmd.AddCommand(newScanCmd(opts))
	rootCmd.AddCommand(newDetectCmd(opts))
	rootCmd.AddCommand(newExtractCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			text, err := config.Encode(*e.cfg)
			if err != nil {
				return err
			}
			cmd.Print(text)
			return nil
		},
	}
}
