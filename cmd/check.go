package cmd

import (
	"context"
	"fmt"

	"github.com/Daskott/soilsense/server"
	"github.com/Daskott/soilsense/shared"
	"github.com/spf13/cobra"
)

// checkCmd runs a single moisture check, the same one the server runs daily
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a moisture check now",
	Long:  `Fetches the current soil moisture & texts the farmer if it's below the threshold.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := serverConfig()
		if err != nil {
			return err
		}

		serverCfg, err := shared.LoadServerConfig(config)
		if err != nil {
			return formattedError("%v", err)
		}

		app, err := server.NewApp(context.Background(), serverCfg, server.ConfigDirectory(isDevEnv))
		if err != nil {
			return err
		}
		defer app.Close()

		outcome := app.Workflow.RunCheck(context.Background())
		fmt.Fprintf(cmd.OutOrStdout(), "moisture check finished: %v\n", outcome)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
