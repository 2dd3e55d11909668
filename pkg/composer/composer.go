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

// Package composer builds an agent .env payload from an external
// configuration file, operator answers and defaults, and writes it once.
package composer

import (
	"errors"
	"fmt"
	"io"

	"github.com/arenadata/agent-setup/pkg/envfile"
	"github.com/arenadata/agent-setup/pkg/interactive"
	"github.com/arenadata/agent-setup/pkg/secrets"
	"github.com/arenadata/agent-setup/pkg/source"

	log "github.com/sirupsen/logrus"
)

type Policy string

const (
	// PolicyStrict fails when the external file or its key is missing.
	PolicyStrict Policy = "strict"
	// PolicyPermissive asks for a key instead and generates one on an empty answer.
	PolicyPermissive Policy = "permissive"

	DefaultKeyName    = "N8N_ENCRYPTION_KEY"
	DefaultSourcePath = "~/.n8n/config"

	msgAdvanced   = "Do you want to configure advanced settings (like a database) now?"
	msgAPIKeys    = "Do you want to add any API keys (e.g., OPENAI_API_KEY) as environment variables now?"
	msgKeyMissing = "Enter an encryption key (leave empty to generate one):"
)

var Policies = []Policy{PolicyStrict, PolicyPermissive}

func ParsePolicy(s string) (Policy, error) {
	for _, p := range Policies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown key policy %q", s)
}

type Composer struct {
	src    source.Provider
	asker  interactive.Asker
	logger *log.Entry
	out    io.Writer

	policy     Policy
	sourcePath string
	locator    source.KeyLocator
	keyName    string
	keyLength  int
	header     []string
	recipients []string
}

type Option func(*Composer) error

func New(src source.Provider, asker interactive.Asker, opts ...Option) (*Composer, error) {
	c := &Composer{
		src:        src,
		asker:      asker,
		logger:     log.WithField("component", "composer"),
		out:        io.Discard,
		policy:     PolicyStrict,
		sourcePath: DefaultSourcePath,
		locator:    source.KeyLocator{Format: source.FormatAuto},
		keyName:    DefaultKeyName,
		keyLength:  secrets.DefaultKeyLength,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.src == nil {
		return nil, errors.New("no configuration source provided")
	}
	if c.asker == nil {
		return nil, errors.New("no asker provided")
	}

	return c, nil
}

func WithPolicy(p Policy) Option {
	return func(c *Composer) error {
		if _, err := ParsePolicy(string(p)); err != nil {
			return err
		}
		c.policy = p
		return nil
	}
}

func WithSource(path string, locator source.KeyLocator) Option {
	return func(c *Composer) error {
		if len(path) > 0 {
			c.sourcePath = path
		}
		c.locator = locator
		return nil
	}
}

func WithKeyName(name string) Option {
	return func(c *Composer) error {
		if len(name) == 0 {
			return errors.New("key name must not be empty")
		}
		c.keyName = name
		return nil
	}
}

func WithKeyLength(n int) Option {
	return func(c *Composer) error {
		if n < 0 {
			return fmt.Errorf("invalid key length %d", n)
		}
		if n > 0 {
			c.keyLength = n
		}
		return nil
	}
}

func WithHeader(lines ...string) Option {
	return func(c *Composer) error {
		c.header = lines
		return nil
	}
}

// WithRecipients makes Write store an age-encrypted payload.
func WithRecipients(recipients ...string) Option {
	return func(c *Composer) error {
		for _, r := range recipients {
			if len(r) > 0 {
				c.recipients = append(c.recipients, r)
			}
		}
		return nil
	}
}

// WithOutput sets where operator messages, such as a found key, are printed.
func WithOutput(w io.Writer) Option {
	return func(c *Composer) error {
		if w == nil {
			return errors.New("no output writer provided")
		}
		c.out = w
		return nil
	}
}

func WithLogger(l *log.Entry) Option {
	return func(c *Composer) error {
		c.logger = l
		return nil
	}
}

// Compose runs the full sequence: key resolution, the optional database
// section and the optional API-key section. Nothing is written.
func (c *Composer) Compose() (*envfile.Payload, error) {
	key, err := c.ResolveEncryptionKey(c.sourcePath)
	if err != nil {
		return nil, err
	}

	p := envfile.New(c.header...)
	p.Set(c.keyName, key)

	db, err := c.OptionalSection("database", msgAdvanced, c.CollectDatabase)
	if err != nil {
		return nil, err
	}
	p.Append(db...)

	apiKeys, err := c.OptionalSection("api-keys", msgAPIKeys, c.CollectAPIKeys)
	if err != nil {
		return nil, err
	}
	p.Append(apiKeys...)

	return p, nil
}

// ComposeSingle asks for one value and stores it under key. A required
// question is asked again on an empty answer; otherwise an empty answer
// fails with ErrEmptyAnswer.
func (c *Composer) ComposeSingle(key, msg string, masked, required bool) (*envfile.Payload, error) {
	q := &interactive.Question{Message: msg, Kind: interactive.KindInput, Required: required}
	if masked {
		q.Kind = interactive.KindPassword
	}

	v, err := c.asker.Ask(q)
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("%s: %w", key, ErrEmptyAnswer)
	}

	p := envfile.New(c.header...)
	p.Set(key, v)
	return p, nil
}

// ResolveEncryptionKey returns the key stored in the external configuration
// file at path, verbatim.
func (c *Composer) ResolveEncryptionKey(path string) (string, error) {
	logger := c.logger.WithField("path", path)

	text, ok, err := c.src.Read(path)
	if err != nil {
		return "", &ConfigReadError{Path: path, Reason: ReasonMalformed, Err: err}
	}
	if !ok {
		missing := &ConfigReadError{Path: path, Reason: ReasonMissing, Err: ErrMissingKey}
		return c.fallbackKey(missing)
	}

	key, err := c.locator.Extract(text)
	if errors.Is(err, source.ErrKeyNotFound) {
		return c.fallbackKey(&ConfigReadError{Path: path, Reason: ReasonNoKey, Err: err})
	}
	if err != nil {
		return "", &ConfigReadError{Path: path, Reason: ReasonMalformed, Err: err}
	}

	logger.Debugf("%s extracted", c.keyName)
	if _, err = fmt.Fprintf(c.out, "Found existing %s in %s.\n", c.keyName, path); err != nil {
		return "", err
	}
	return key, nil
}

func (c *Composer) fallbackKey(cause *ConfigReadError) (string, error) {
	if c.policy != PolicyPermissive {
		return "", cause
	}

	c.logger.Warn(cause)

	key, err := interactive.Password(c.asker, msgKeyMissing)
	if err != nil {
		return "", err
	}
	if len(key) > 0 {
		return key, nil
	}

	c.logger.Infof("generating a placeholder %s", c.keyName)
	return secrets.GeneratePlaceholderKey(c.keyLength), nil
}

// OptionalSection asks msg and runs collect only on a yes. Answers reach the
// payload only after collect has finished.
func (c *Composer) OptionalSection(name, msg string, collect func() ([]envfile.Entry, error)) ([]envfile.Entry, error) {
	ok, err := interactive.Confirm(c.asker, msg, false)
	if err != nil {
		return nil, err
	}
	if !ok {
		c.logger.Debugf("section %s skipped", name)
		return nil, nil
	}

	entries, err := collect()
	if err != nil {
		return nil, fmt.Errorf("section %s: %w", name, err)
	}

	return entries, nil
}

// Write renders p and replaces path with it. With recipients configured the
// payload is age-encrypted and stored at path+".age" instead. It returns the
// path written.
func (c *Composer) Write(path string, p *envfile.Payload) (string, error) {
	if len(path) == 0 {
		path = envfile.FileName
	}

	text := p.Render()
	if len(c.recipients) > 0 {
		enc, err := secrets.Encrypt(text, c.recipients...)
		if err != nil {
			return "", err
		}
		text = enc
		path += secrets.EncryptedExt
	}

	if err := envfile.Persist(path, text); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	c.logger.WithField("entries", p.Len()).Debugf("%s written", path)
	return path, nil
}
