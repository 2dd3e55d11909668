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

package secrets

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"filippo.io/age"
	"filippo.io/age/armor"
)

const EncryptedExt = ".age"

type AgeCrypt struct {
	*age.X25519Identity
}

func NewAgeCrypt() (*AgeCrypt, error) {
	id, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, err
	}
	return &AgeCrypt{id}, nil
}

func NewAgeCryptFromString(s string) (*AgeCrypt, error) {
	id, err := age.ParseX25519Identity(s)
	if err != nil {
		return nil, err
	}
	return &AgeCrypt{id}, nil
}

// ParseAgeKeyFile returns the first non-comment line of an age identity file.
func ParseAgeKeyFile(text string) (string, error) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		return line, nil
	}

	return "", fmt.Errorf("no age key found")
}

// WriteAgeKey writes the identity in age-keygen layout: comments go to
// comments, the private key to keys.
func WriteAgeKey(keys, comments io.Writer, c *AgeCrypt) error {
	if _, err := fmt.Fprintf(comments, "# created: %s\n", time.Now().Format(time.RFC3339)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(comments, "# public key: %s\n", c.Recipient()); err != nil {
		return err
	}

	_, err := fmt.Fprintf(keys, "%s\n", c)
	return err
}

// Encrypt armors data for the given X25519 recipients.
func Encrypt(data string, recipients ...string) (string, error) {
	if len(recipients) == 0 {
		return "", fmt.Errorf("no age recipients provided")
	}

	rcpts := make([]age.Recipient, 0, len(recipients))
	for _, r := range recipients {
		rcpt, err := age.ParseX25519Recipient(strings.TrimSpace(r))
		if err != nil {
			return "", fmt.Errorf("parse age recipient %q: %w", r, err)
		}
		rcpts = append(rcpts, rcpt)
	}

	return encrypt(data, rcpts...)
}

func (c *AgeCrypt) Encrypt(data string) (string, error) {
	return encrypt(data, c.Recipient())
}

func (c *AgeCrypt) Decrypt(data string) (string, error) {
	ar := armor.NewReader(strings.NewReader(data))

	r, err := age.Decrypt(ar, c)
	if err != nil {
		return "", err
	}

	buf := new(bytes.Buffer)
	if _, err = io.Copy(buf, r); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func encrypt(data string, recipients ...age.Recipient) (string, error) {
	buf := new(bytes.Buffer)
	aw := armor.NewWriter(buf)

	w, err := age.Encrypt(aw, recipients...)
	if err != nil {
		return "", err
	}
	if _, err = w.Write([]byte(data)); err != nil {
		return "", err
	}
	if err = w.Close(); err != nil {
		return "", err
	}
	if err = aw.Close(); err != nil {
		return "", err
	}

	return buf.String(), nil
}
