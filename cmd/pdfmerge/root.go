package main

import (
	"fmt"
	"io"

	"pdfmerge/cmd/pdfmerge/cli"
	"pdfmerge/internal/config"
	"pdfmerge/internal/gui"
	"pdfmerge/internal/log"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	noColor bool
	cfg     *config.Config
)

// NewRootCmd creates the root command. Without a subcommand it opens the GUI
// with any PDF arguments already queued.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pdfmerge [files...]",
		Short: "Combine PDF files into one document",
		Long: `pdfmerge collects up to 15 PDF files in an ordered list, lets you
reorder them and writes them out as a single merged PDF.

Run without a subcommand to open the window. Files can be dropped onto it,
picked with Browse or passed on the command line.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/pdfmerge/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newGUICmd())
	rootCmd.AddCommand(newTUICmd())
	rootCmd.AddCommand(newMergeCmd())
	rootCmd.AddCommand(newInfoCmd())

	return rootCmd
}

// setup loads the configuration and configures logging. Logs go to stderr
// so command output stays clean.
func setup(stderr io.Writer) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadConfigFile(cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		if cfgFile != "" {
			return fmt.Errorf("loading %s: %w", cfgFile, err)
		}
		cli.PrintWarning(stderr, fmt.Sprintf("%v; using default settings", err))
		cfg = config.New()
	}

	if noColor {
		cli.CurrentTheme = cli.PlainTheme
	}

	configureLogging(stderr)
	return nil
}

// configureLogging sends log lines to out and, when configured, to the log
// file as well
func configureLogging(out io.Writer) {
	opts := []log.Option{log.WithOutput(out)}
	if cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}
	if cfg.Log.File != "" {
		opts = append(opts, log.WithFile(cfg.Log.File))
	}
	log.Configure(opts...)
	log.SetDebug(debug || cfg.Log.Debug)
}

// newGUICmd creates the GUI command for the CLI
func newGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui [files...]",
		Short: "Launch the graphical user interface",
		Long:  `Open the merge window with any PDF arguments already queued.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(args)
		},
	}
}

// runGUI launches the GUI with args expanded and queued
func runGUI(args []string) error {
	if !gui.IsGUIAvailable() {
		return fmt.Errorf("this build has no GUI; use 'pdfmerge tui' instead")
	}
	paths, err := expandArgs(args)
	if err != nil {
		return err
	}
	return gui.StartGUI(cfg, paths...)
}
