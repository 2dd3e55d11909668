/*
 Copyright (c) 2025 Arenadata Softwer LLC.
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
	"fmt"
	"os"
	"path"
	goruntime "runtime"
	"strings"

	"github.com/gosimple/slug"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const appName = "agent-setup"

var version = "1.0.0-dev"

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Prepare the .env file of a local agent",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if getBool(cmd, "version") {
			cmd.Println(version)
			return nil
		}
		return cmd.Usage()
	},
}

func Execute() {
	if err := execute(rootCmd); err != nil {
		os.Exit(1)
	}
}

func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		log.Error(err)
	}
	return err
}

func init() {
	var verbose bool
	cobra.OnInitialize(func() {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	})

	log.SetReportCaller(true)
	formatter := &log.TextFormatter{
		TimestampFormat:        "20060102150405",
		FullTimestamp:          true,
		DisableLevelTruncation: true,
		CallerPrettyfier: func(f *goruntime.Frame) (string, string) {
			return "", fmt.Sprintf(" %s:%d", path.Base(f.File), f.Line)
		},
	}
	log.SetFormatter(formatter)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose mode")
	rootCmd.Flags().Bool("version", false, "Print the version and exit")
}

func getBool(cmd *cobra.Command, key string) bool {
	ok, _ := cmd.Flags().GetBool(key)
	return ok
}

// envKey maps a flag name to its environment variable, e.g. age-recipient
// to AGENT_SETUP_AGE_RECIPIENT.
func envKey(flag string) string {
	key := slug.Make(appName + "-" + flag)
	key = strings.ToUpper(key)
	return strings.ReplaceAll(key, "-", "_")
}
