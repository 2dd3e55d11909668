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
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Show a decrypted env file",
	Long: `Decrypts an env file written with --age-recipient and prints it.
- --age-key takes the value of the private key in clear text. Has priority over
            --age-key-file
- --age-key-file takes the value of the path to the file with the private key
- file defaults to .env.age`,
	Args: cobra.MaximumNArgs(1),
	RunE: secretsShow,
}

func init() {
	secretsCmd.AddCommand(showCmd)

	ageKeyFlags(showCmd, "age-key", ageKeyFileName)
}

func secretsShow(cmd *cobra.Command, args []string) error {
	id, err := readAgeIdentity(cmd, "age-key")
	if err != nil {
		return err
	}

	p, err := readEncryptedEnv(encryptedFilePath(args), id)
	if err != nil {
		return err
	}

	_, err = p.WriteTo(cmd.OutOrStdout())
	return err
}
