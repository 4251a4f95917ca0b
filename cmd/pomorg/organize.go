package main

import (
	"github.com/spf13/cobra"

	"pomorg/internal/pipeline"
)

var organizeCmd = &cobra.Command{
	Use:   "organize [pom.xml|dir ...]",
	Short: "Hoist versions into properties and sort dependencies",
	Long: `Organize rewrites every dependency and plugin version into a reference to
the property groupId.artifactId, creating the property from the first literal
seen. Dependencies are then sorted by scope, groupId and artifactId. The
manifest is saved and the configured formatter is run on it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, pipeline.CommandOrganize)
	},
}

func init() {
	addRunFlags(organizeCmd, true)
}
