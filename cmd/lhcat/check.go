package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/loghub/config"
	"github.com/kbukum/loghub/logger"
)

func newCheckCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and print the effective properties",
		Long: `check loads the configuration the same way lhcat does, validates it and
prints every logging property with the value that would be applied,
defaults included. It exits non-zero if the configuration is rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := o.loaderOptions()
			if err != nil {
				return err
			}
			p, err := config.LoadProperties(opts...)
			if err != nil {
				return err
			}
			cfg, err := logger.ConfigFromProperties(p)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), cfg.Properties().String())
			return err
		},
	}
}
