package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dshills/mediumdraft/internal/config"
	"github.com/dshills/mediumdraft/internal/log"
)

type rootOptions struct {
	configPath string
	logLevel   string
	dev        bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	root := &cobra.Command{
		Use:           "mediumdraft",
		Short:         "mediumdraft - block document editor with plugins",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.load(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			log.Flush()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", "", "configuration file (TOML or YAML)")
	flags.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&o.dev, "dev", false, "development logging")

	root.AddCommand(newReplayCmd(o))
	root.AddCommand(newEditCmd(o))
	root.AddCommand(newValidateCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// load reads the configuration and sets up logging. Flags win over the
// file and the environment.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("dev") {
		cfg.Log.Dev = o.dev
	}
	if err := log.Set(cfg.Log.Level, cfg.Log.Dev); err != nil {
		return errors.Wrap(err, "failed to set up logging")
	}
	o.cfg = &cfg
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mediumdraft %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
