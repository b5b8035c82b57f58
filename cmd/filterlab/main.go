package main

import (
	"errors"
	"fmt"
	"os"

	"filterlab/internal/config"
	"filterlab/internal/logger"

	"github.com/spf13/cobra"
)

// exitCodeCancelled follows the shell convention for a run stopped by SIGINT.
const exitCodeCancelled = 130

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

type rootOptions struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log logger.Logger
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			fmt.Fprintln(os.Stderr, exit.msg)
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "filterlab",
		Short:         "Apply pixel, convolution, statistical and morphological filters to images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default <user config dir>/filterlab/filterlab.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn, error or off; overrides the config file")

	root.AddCommand(newGUICommand(opts), newApplyCommand(opts), newListCommand(opts))
	return root
}

// load reads the config file and builds the logger shared by every subcommand.
func (o *rootOptions) load() error {
	if o.configPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		o.configPath = path
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	o.cfg = cfg
	o.log = logger.NewConsoleLogger(level)
	return nil
}
