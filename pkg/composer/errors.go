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

package composer

import (
	"errors"
	"fmt"
)

type Reason string

const (
	ReasonMissing   Reason = "missing"
	ReasonMalformed Reason = "malformed"
	ReasonNoKey     Reason = "no-key"

	hintMissing = "Please run n8n at least once to generate the necessary configuration and encryption key before running this setup."
	hintNoKey   = "Please ensure your n8n instance has been run at least once to generate a key."
)

var (
	ErrMissingKey  = errors.New("encryption key not found")
	ErrEmptyAnswer = errors.New("empty answer")
)

// ConfigReadError reports an external configuration file that is absent,
// unparsable or holds no key. It is always fatal.
type ConfigReadError struct {
	Path   string
	Reason Reason
	Err    error
}

func (e *ConfigReadError) Error() string {
	switch e.Reason {
	case ReasonMissing:
		return fmt.Sprintf("config file not found at %s. %s", e.Path, hintMissing)
	case ReasonNoKey:
		return fmt.Sprintf("encryption key not found in %s: %v. %s", e.Path, e.Err, hintNoKey)
	}
	return fmt.Sprintf("read or parse %s: %v", e.Path, e.Err)
}

func (e *ConfigReadError) Unwrap() error {
	return e.Err
}

func (e *ConfigReadError) Is(target error) bool {
	return target == ErrMissingKey && e.Reason != ReasonMalformed
}

// MalformedInputError is a free-form pair without a separator. The pair is
// dropped and the run continues.
type MalformedInputError struct {
	Pair string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed pair %q: missing %q separator", e.Pair, pairSep)
}
