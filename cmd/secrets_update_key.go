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
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var updateKeyCmd = &cobra.Command{
	Use:   "update-key [file]",
	Short: "Re-encrypt an env file for a new private key",
	Args:  cobra.MaximumNArgs(1),
	RunE:  secretsUpdateKey,
}

func init() {
	secretsCmd.AddCommand(updateKeyCmd)

	ageKeyFlags(updateKeyCmd, "old-age-key", ageKeyFileName)
	ageKeyFlags(updateKeyCmd, "new-age-key", "")
}

func secretsUpdateKey(cmd *cobra.Command, args []string) error {
	logger := log.WithField("command", "secrets-update-key")

	oldID, err := readAgeIdentity(cmd, "old-age-key")
	if err != nil {
		return err
	}
	newID, err := readAgeIdentity(cmd, "new-age-key")
	if err != nil {
		return err
	}

	path := encryptedFilePath(args)
	p, err := readEncryptedEnv(path, oldID)
	if err != nil {
		return err
	}

	if err = writeEncryptedEnv(path, p, newID.Recipient().String()); err != nil {
		return err
	}

	logger.Debugf("%s re-encrypted for %s", path, newID.Recipient())
	return nil
}
