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
	"errors"
	"fmt"
	"os"

	"github.com/arenadata/agent-setup/pkg/envfile"
	"github.com/arenadata/agent-setup/pkg/secrets"
	"github.com/arenadata/agent-setup/pkg/utils"

	"github.com/spf13/cobra"
)

const (
	ageKeyFileName = "age.key"
)

var (
	noAgeKeyProvided = errors.New("no age key provided")

	encryptedFileName = envfile.FileName + secrets.EncryptedExt
)

// secretsCmd represents the secrets command
var secretsCmd = &cobra.Command{
	Aliases: []string{"sec", "secret"},
	Use:     "secrets",
	Short:   "Manage encrypted env files",
}

func init() {
	rootCmd.AddCommand(secretsCmd)
}

func ageKeyFlags(cmd *cobra.Command, key, defaultKeyPath string) {
	if len(key) == 0 {
		panic("age-key must not be empty")
	}

	fileKey := key + "-file"
	cmd.Flags().String(key, "", "Set private age key. Can be set by "+envKey(key)+" environment variable")
	cmd.Flags().String(fileKey, defaultKeyPath, "Read private age key from file")

	cmd.MarkFlagsMutuallyExclusive(key, fileKey)
}

func getAgeKey(cmd *cobra.Command, key string) (string, error) {
	ageKey, _ := cmd.Flags().GetString(key)
	if len(ageKey) == 0 {
		ageKey = os.Getenv(envKey(key))
	}

	fileKey := key + "-file"
	if len(ageKey) == 0 || cmd.Flags().Changed(fileKey) {
		ageKeyFile, _ := cmd.Flags().GetString(fileKey)
		isAgeKeyFileExists, err := utils.FileExists(ageKeyFile)
		if err != nil {
			return "", err
		}
		if isAgeKeyFileExists {
			b, err := os.ReadFile(ageKeyFile)
			if err != nil {
				return "", err
			}
			ageKey, err = secrets.ParseAgeKeyFile(string(b))
			if err != nil {
				return "", fmt.Errorf("read AGE key from file %q failed: %v", ageKeyFile, err)
			}
		}
	}

	if len(ageKey) > 0 {
		return ageKey, nil
	}

	return "", noAgeKeyProvided
}

func readAgeIdentity(cmd *cobra.Command, key string) (*secrets.AgeCrypt, error) {
	ageKey, err := getAgeKey(cmd, key)
	if err != nil {
		return nil, err
	}
	return secrets.NewAgeCryptFromString(ageKey)
}

func encryptedFilePath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return encryptedFileName
}

func readEncryptedEnv(path string, id *secrets.AgeCrypt) (*envfile.Payload, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	text, err := id.Decrypt(string(b))
	if err != nil {
		return nil, fmt.Errorf("decrypt %s: %w", path, err)
	}

	return envfile.Parse(text), nil
}

func writeEncryptedEnv(path string, p *envfile.Payload, recipients ...string) error {
	enc, err := secrets.Encrypt(p.Render(), recipients...)
	if err != nil {
		return err
	}
	return envfile.Persist(path, enc)
}
