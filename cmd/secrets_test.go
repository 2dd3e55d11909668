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
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arenadata/agent-setup/pkg/envfile"
	"github.com/arenadata/agent-setup/pkg/secrets"

	"github.com/bmizerany/assert"
	"github.com/spf13/cobra"
)

func newAgeKeyFile(t *testing.T, dir, name string) (*secrets.AgeCrypt, string) {
	t.Helper()

	id, err := secrets.NewAgeCrypt()
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, name)
	if err = saveAgeKey(path, id); err != nil {
		t.Fatal(err)
	}
	return id, path
}

func newEncryptedEnv(t *testing.T, dir string, id *secrets.AgeCrypt) string {
	t.Helper()

	p := envfile.New("n8n Environment Configuration")
	p.Set("N8N_ENCRYPTION_KEY", "abc123")

	path := filepath.Join(dir, encryptedFileName)
	if err := writeEncryptedEnv(path, p, id.Recipient().String()); err != nil {
		t.Fatal(err)
	}
	return path
}

func executeCmd(cmd *cobra.Command, args ...string) (string, error) {
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func Test_getAgeKey(t *testing.T) {
	dir := t.TempDir()
	id, keyFile := newAgeKeyFile(t, dir, ageKeyFileName)

	cmd := func() *cobra.Command {
		cmd := &cobra.Command{}
		ageKeyFlags(cmd, "age-key", filepath.Join(dir, "default.key"))
		return cmd
	}

	t.Run("FromFlag", func(t *testing.T) {
		c := cmd()
		_ = c.Flags().Set("age-key", id.String())
		got, err := getAgeKey(c, "age-key")
		assert.Equal(t, nil, err)
		assert.Equal(t, id.String(), got)
	})

	t.Run("FromFile", func(t *testing.T) {
		c := cmd()
		_ = c.Flags().Set("age-key-file", keyFile)
		got, err := getAgeKey(c, "age-key")
		assert.Equal(t, nil, err)
		assert.Equal(t, id.String(), got)
	})

	t.Run("FromEnv", func(t *testing.T) {
		t.Setenv(envKey("age-key"), id.String())
		got, err := getAgeKey(cmd(), "age-key")
		assert.Equal(t, nil, err)
		assert.Equal(t, id.String(), got)
	})

	t.Run("NotProvided", func(t *testing.T) {
		t.Setenv(envKey("age-key"), "")
		_, err := getAgeKey(cmd(), "age-key")
		assert.Equal(t, true, errors.Is(err, noAgeKeyProvided))
	})
}

func TestSecretsNewKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ageKeyFileName)

	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{RunE: secretsNewKey}
		cmd.Flags().StringP("output", "o", ageKeyFileName, "")
		return cmd
	}

	out, err := executeCmd(newCmd(), "--output", path)
	assert.Equal(t, nil, err)

	content := readFile(t, path)
	assert.Equal(t, true, strings.Contains(content, "# public key: age1"))

	key, err := secrets.ParseAgeKeyFile(content)
	assert.Equal(t, nil, err)
	id, err := secrets.NewAgeCryptFromString(key)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, strings.Contains(out, id.Recipient().String()))

	_, err = executeCmd(newCmd(), "--output", path)
	assert.NotEqual(t, nil, err)

	out, err = executeCmd(newCmd(), "--output", "-")
	assert.Equal(t, nil, err)
	assert.Equal(t, true, strings.Contains(out, "AGE-SECRET-KEY-"))
}

func TestSecretsShow(t *testing.T) {
	dir := t.TempDir()
	id, keyFile := newAgeKeyFile(t, dir, ageKeyFileName)
	envPath := newEncryptedEnv(t, dir, id)

	cmd := &cobra.Command{Args: cobra.MaximumNArgs(1), RunE: secretsShow}
	ageKeyFlags(cmd, "age-key", keyFile)

	out, err := executeCmd(cmd, envPath)
	assert.Equal(t, nil, err)
	assert.Equal(t, "# n8n Environment Configuration\nN8N_ENCRYPTION_KEY=abc123\n", out)
}

func TestSecretsShow_WrongKey(t *testing.T) {
	dir := t.TempDir()
	id, _ := newAgeKeyFile(t, dir, ageKeyFileName)
	_, otherKeyFile := newAgeKeyFile(t, dir, "other.key")
	envPath := newEncryptedEnv(t, dir, id)

	cmd := &cobra.Command{Args: cobra.MaximumNArgs(1), RunE: secretsShow}
	ageKeyFlags(cmd, "age-key", otherKeyFile)

	_, err := executeCmd(cmd, envPath)
	assert.NotEqual(t, nil, err)
}

func TestSecretsSet(t *testing.T) {
	dir := t.TempDir()
	id, keyFile := newAgeKeyFile(t, dir, ageKeyFileName)
	envPath := newEncryptedEnv(t, dir, id)

	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Args: cobra.RangeArgs(2, 3), RunE: secretSetValue}
		ageKeyFlags(cmd, "age-key", keyFile)
		return cmd
	}

	_, err := executeCmd(newCmd(), "OPENAI_API_KEY", "sk-1", envPath)
	assert.Equal(t, nil, err)
	_, err = executeCmd(newCmd(), "N8N_ENCRYPTION_KEY", "rotated", envPath)
	assert.Equal(t, nil, err)

	dec, err := id.Decrypt(readFile(t, envPath))
	assert.Equal(t, nil, err)
	assert.Equal(t, "# n8n Environment Configuration\nN8N_ENCRYPTION_KEY=rotated\nOPENAI_API_KEY=sk-1\n", dec)

	_, err = executeCmd(newCmd(), "BAD=KEY", "v", envPath)
	assert.NotEqual(t, nil, err)
}

func TestSecretsUpdateKey(t *testing.T) {
	dir := t.TempDir()
	oldID, oldKeyFile := newAgeKeyFile(t, dir, ageKeyFileName)
	newID, newKeyFile := newAgeKeyFile(t, dir, "new.key")
	envPath := newEncryptedEnv(t, dir, oldID)

	cmd := &cobra.Command{Args: cobra.MaximumNArgs(1), RunE: secretsUpdateKey}
	ageKeyFlags(cmd, "old-age-key", oldKeyFile)
	ageKeyFlags(cmd, "new-age-key", "")

	_, err := executeCmd(cmd, "--new-age-key-file", newKeyFile, envPath)
	assert.Equal(t, nil, err)

	encrypted := readFile(t, envPath)
	_, err = oldID.Decrypt(encrypted)
	assert.NotEqual(t, nil, err)

	dec, err := newID.Decrypt(encrypted)
	assert.Equal(t, nil, err)
	assert.Equal(t, "# n8n Environment Configuration\nN8N_ENCRYPTION_KEY=abc123\n", dec)

	_, err = os.Stat(envPath)
	assert.Equal(t, nil, err)
}
