// Package cmd provides the CLI commands for creatormatch.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/drumbeatlabs/creatormatch/pkg/version"
)

var debugMode bool

// NewRootCmd creates the root command for the creatormatch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "creatormatch",
		Short:   "Creator matching service: hybrid vector and rule-based brief-to-creator matching",
		Version: version.Version,
	}
	cmd.SetVersionTemplate("creatormatch version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
