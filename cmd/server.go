/*
Copyright © 2021 Edmond Cotterell

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"strings"

	devConfig "github.com/Daskott/soilsense/dev/config"
	"github.com/Daskott/soilsense/server"
	"github.com/Daskott/soilsense/shared"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start a soilsense server",
	Long: `The soilsense server checks soil moisture every day at a fixed time, alerts the farmer
by sms when it's too low & serves an api to manage the farmer's number.`,
	Run: func(cmd *cobra.Command, args []string) {
		config, err := serverConfig()
		cobra.CheckErr(err)

		server.Start(config, isDevEnv)
	},
}

var serverConfigFile string

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.PersistentFlags().StringVar(&serverConfigFile, "sconfig", "", "Config for server")
}

// serverConfig reads the config file given by --sconfig, or the built-in
// dev config in dev mode. Env vars override values from either.
func serverConfig() (*viper.Viper, error) {
	config := viper.New()
	shared.SetDefaults(config)

	if isDevEnv {
		config.SetConfigType("yaml")
		if err := config.ReadConfig(strings.NewReader(devConfig.SERVER_YML)); err != nil {
			return nil, formattedError("error reading dev config: %v", err)
		}
		return config, nil
	}

	if serverConfigFile == "" {
		return nil, formattedError("must provide a server config file with --sconfig")
	}

	config.SetConfigFile(serverConfigFile)
	if err := config.ReadInConfig(); err != nil {
		return nil, formattedError("error reading server config file: %v", err)
	}

	return config, nil
}
