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

package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/arenadata/agent-setup/pkg/composer"
	"github.com/arenadata/agent-setup/pkg/envfile"
	"github.com/arenadata/agent-setup/pkg/secrets"
	"github.com/arenadata/agent-setup/pkg/source"
	"github.com/arenadata/agent-setup/pkg/utils"

	"gopkg.in/yaml.v3"
)

const FileName = "agent-setup.yaml"

// Settings configures a setup run.
type Settings struct {
	// Policy applied when the external key is missing: strict or permissive.
	Policy composer.Policy `yaml:"policy,omitempty"`
	// Source locates the encryption key in the external configuration file.
	Source *SourceConfig `yaml:"source,omitempty"`
	// Output is the env file to write.
	Output string `yaml:"output,omitempty"`
	// Header enables the leading comment line.
	Header *bool `yaml:"header,omitempty"`
	// KeyLength of a generated placeholder key.
	KeyLength int `yaml:"keyLength,omitempty"`
	// AgeRecipients encrypt the output when set.
	AgeRecipients []string `yaml:"ageRecipients,omitempty"`
}

type SourceConfig struct {
	Path   string        `yaml:"path,omitempty"`
	Format source.Format `yaml:"format,omitempty"`
	Field  string        `yaml:"field,omitempty"`
	Key    string        `yaml:"key,omitempty"`
}

func (s *SourceConfig) Locator() source.KeyLocator {
	return source.KeyLocator{Format: s.Format, Field: s.Field, Name: s.Key}
}

func Default() *Settings {
	s := &Settings{}
	SetDefaults(s)
	return s
}

func SetDefaults(in *Settings) {
	if len(in.Policy) == 0 {
		in.Policy = composer.PolicyStrict
	}
	if in.Source == nil {
		in.Source = &SourceConfig{}
	}
	if len(in.Source.Path) == 0 {
		in.Source.Path = composer.DefaultSourcePath
	}
	if len(in.Source.Format) == 0 {
		in.Source.Format = source.FormatAuto
	}
	if len(in.Source.Field) == 0 {
		in.Source.Field = source.DefaultField
	}
	if len(in.Source.Key) == 0 {
		in.Source.Key = source.DefaultName
	}
	if len(in.Output) == 0 {
		in.Output = envfile.FileName
	}
	if in.Header == nil {
		in.Header = utils.Ptr(true)
	}
	if in.KeyLength == 0 {
		in.KeyLength = secrets.DefaultKeyLength
	}
}

func (s *Settings) Validate() error {
	var errs []error
	if _, err := composer.ParsePolicy(string(s.Policy)); err != nil {
		errs = append(errs, err)
	}
	if s.Source != nil {
		if _, err := source.ParseFormat(string(s.Source.Format)); err != nil {
			errs = append(errs, err)
		}
	}
	if s.KeyLength < 0 {
		errs = append(errs, fmt.Errorf("invalid key length %d", s.KeyLength))
	}
	return errors.Join(errs...)
}

func Decode(r io.Reader) (*Settings, error) {
	s := &Settings{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	SetDefaults(s)
	return s, s.Validate()
}

// Load reads settings from path. A missing file yields the defaults unless
// required is set.
func Load(path string, required bool) (*Settings, error) {
	fi, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	defer fi.Close()

	s, err := Decode(fi)
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}
	return s, nil
}
