package main

import (
	"github.com/spf13/cobra"

	"pomorg/internal/pipeline"
)

var revertCmd = &cobra.Command{
	Use:   "revert [pom.xml|dir ...]",
	Short: "Inline property references and drop the properties they used",
	Long: `Revert replaces each ${key} version reference with the property value,
then removes every property whose value was inlined. The manifest is saved and
the configured formatter is run on it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, pipeline.CommandRevert)
	},
}

func init() {
	addRunFlags(revertCmd, false)
}
