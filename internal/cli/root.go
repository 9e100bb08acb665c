package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	profile    string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "spice-theory",
		Short:        "Spice Theory personality quiz and result card generator",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&profile, "profile", "default", "progress profile name")
	cmd.AddCommand(NewPlayCmd(&configPath, &profile))
	cmd.AddCommand(NewResultCmd(&configPath))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewSeedCmd(&configPath))
	return cmd
}
