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
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set KEY VALUE [file]",
	Short: "Set a variable in an encrypted env file",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  secretSetValue,
}

func init() {
	secretsCmd.AddCommand(setCmd)

	ageKeyFlags(setCmd, "age-key", ageKeyFileName)
}

func secretSetValue(cmd *cobra.Command, args []string) error {
	logger := log.WithField("command", "secrets-set")

	key, value := args[0], args[1]
	if len(key) == 0 || strings.Contains(key, "=") {
		return fmt.Errorf("invalid variable name %q", key)
	}

	id, err := readAgeIdentity(cmd, "age-key")
	if err != nil {
		return err
	}

	path := encryptedFilePath(args[2:])
	p, err := readEncryptedEnv(path, id)
	if err != nil {
		return err
	}

	p.Set(key, value)

	if err = writeEncryptedEnv(path, p, id.Recipient().String()); err != nil {
		return err
	}

	logger.Debugf("%s updated in %s", key, path)
	return nil
}
