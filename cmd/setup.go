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
	"io"
	"os"
	"strings"

	"github.com/arenadata/agent-setup/pkg/composer"
	"github.com/arenadata/agent-setup/pkg/config"
	"github.com/arenadata/agent-setup/pkg/envfile"
	"github.com/arenadata/agent-setup/pkg/interactive"
	"github.com/arenadata/agent-setup/pkg/source"
	"github.com/arenadata/agent-setup/pkg/utils"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// agent describes how the env file of one agent is composed. Agents with a
// key ask for that single value; the others run the full composer sequence.
type agent struct {
	name   string
	title  string
	header string
	hint   string

	key      string
	prompt   string
	masked   bool
	required bool
}

func (a agent) single() bool {
	return len(a.key) > 0
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write the .env file of an agent",
}

func init() {
	rootCmd.AddCommand(setupCmd)
	for _, a := range agents {
		setupCmd.AddCommand(newSetupCmd(a))
	}
}

func newSetupCmd(a agent) *cobra.Command {
	cmd := &cobra.Command{
		Use:   a.name,
		Short: fmt.Sprintf("Write the %s agent .env file", a.title),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetup(cmd, a)
		},
	}
	setupFlags(cmd, a)
	return cmd
}

func setupFlags(cmd *cobra.Command, a agent) {
	cmd.Flags().StringP("config", "c", config.FileName, "Settings file")
	cmd.Flags().StringP("output", "o", envfile.FileName, "Output env file")
	cmd.Flags().StringSlice("age-recipient", nil,
		"Encrypt the output for an age recipient. Can be set by "+envKey("age-recipient")+" environment variable")

	if a.single() {
		return
	}

	cmd.Flags().String("policy", string(composer.PolicyStrict), "Missing key policy: strict or permissive")
	cmd.Flags().String("source", composer.DefaultSourcePath, "External configuration file holding the encryption key")
	cmd.Flags().String("source-format", string(source.FormatAuto), "External configuration format: auto, json or dotenv")
	cmd.Flags().String("source-field", source.DefaultField, "JSON field holding the key")
	cmd.Flags().String("source-key", source.DefaultName, "Variable holding the key in KEY=VALUE files")
	cmd.Flags().Int("key-length", 0, "Length of a generated placeholder key")
	cmd.Flags().Bool("no-header", false, "Do not write the header comment")
}

// loadSettings reads the settings file and applies changed flags on top.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	flags := cmd.Flags()

	settingsPath, _ := flags.GetString("config")
	s, err := config.Load(settingsPath, flags.Changed("config"))
	if err != nil {
		return nil, err
	}

	if flags.Changed("policy") {
		v, _ := flags.GetString("policy")
		s.Policy = composer.Policy(v)
	}
	if flags.Changed("source") {
		s.Source.Path, _ = flags.GetString("source")
	}
	if flags.Changed("source-format") {
		v, _ := flags.GetString("source-format")
		s.Source.Format = source.Format(v)
	}
	if flags.Changed("source-field") {
		s.Source.Field, _ = flags.GetString("source-field")
	}
	if flags.Changed("source-key") {
		s.Source.Key, _ = flags.GetString("source-key")
	}
	if flags.Changed("key-length") {
		s.KeyLength, _ = flags.GetInt("key-length")
	}
	if flags.Changed("no-header") {
		s.Header = utils.Ptr(!getBool(cmd, "no-header"))
	}
	if flags.Changed("output") {
		s.Output, _ = flags.GetString("output")
	}

	if flags.Changed("age-recipient") {
		s.AgeRecipients, _ = flags.GetStringSlice("age-recipient")
	} else if v := os.Getenv(envKey("age-recipient")); len(v) > 0 {
		s.AgeRecipients = strings.Split(v, ",")
	}

	return s, s.Validate()
}

func composerOptions(s *config.Settings, a agent, out io.Writer, logger *log.Entry) []composer.Option {
	opts := []composer.Option{
		composer.WithPolicy(s.Policy),
		composer.WithSource(s.Source.Path, s.Source.Locator()),
		composer.WithKeyLength(s.KeyLength),
		composer.WithRecipients(s.AgeRecipients...),
		composer.WithOutput(out),
		composer.WithLogger(logger),
	}
	if len(a.header) > 0 && *s.Header {
		opts = append(opts, composer.WithHeader(a.header))
	}
	return opts
}

func runSetup(cmd *cobra.Command, a agent) error {
	logger := log.WithField("command", "setup-"+a.name)

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "--- %s Agent Setup ---\n", a.title)

	asker := interactive.New(cmd.InOrStdin(), out)
	comp, err := composer.New(source.OS{}, asker, composerOptions(s, a, out, logger)...)
	if err != nil {
		return err
	}

	var payload *envfile.Payload
	if a.single() {
		payload, err = comp.ComposeSingle(a.key, a.prompt, a.masked, a.required)
	} else {
		payload, err = comp.Compose()
	}
	if err != nil {
		return err
	}

	written, err := comp.Write(s.Output, payload)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s configuration saved successfully to %s file.\n", a.title, written)
	if len(a.hint) > 0 {
		fmt.Fprintln(out, a.hint)
	}

	return nil
}
