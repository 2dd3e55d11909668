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

	"github.com/arenadata/agent-setup/pkg/secrets"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var newKeyCmd = &cobra.Command{
	Use:   "new-key",
	Short: "Generate a new private key",
	Args:  cobra.NoArgs,
	RunE:  secretsNewKey,
}

func init() {
	secretsCmd.AddCommand(newKeyCmd)

	newKeyCmd.Flags().StringP("output", "o", ageKeyFileName, "Key output filename, - for stdout")
}

func secretsNewKey(cmd *cobra.Command, _ []string) error {
	logger := log.WithField("command", "secrets-new-key")

	age, err := secrets.NewAgeCrypt()
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if len(outputPath) == 0 || outputPath == "-" {
		return secrets.WriteAgeKey(cmd.OutOrStdout(), cmd.ErrOrStderr(), age)
	}

	if err = saveAgeKey(outputPath, age); err != nil {
		return err
	}
	logger.Debugf("age key saved to %s", outputPath)

	_, err = fmt.Fprintf(cmd.ErrOrStderr(), "Public key: %s\n", age.Recipient())
	return err
}

func saveAgeKey(path string, key *secrets.AgeCrypt) (err error) {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file %s already exists", path)
	}
	fi, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0400)
	if err != nil {
		return err
	}
	defer func() {
		if e := fi.Close(); e != nil && err == nil {
			err = e
		}
	}()

	return secrets.WriteAgeKey(fi, fi, key)
}
