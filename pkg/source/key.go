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

package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type Format string

const (
	FormatAuto   Format = "auto"
	FormatJSON   Format = "json"
	FormatDotenv Format = "dotenv"

	DefaultField = "encryptionKey"
	DefaultName  = "N8N_ENCRYPTION_KEY"
)

var (
	Formats = []Format{FormatAuto, FormatJSON, FormatDotenv}

	ErrKeyNotFound = errors.New("key not found")
)

type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown source format %q", s)
}

// KeyLocator describes where the key lives in a configuration file: Field for
// JSON objects, Name for KEY=VALUE text.
type KeyLocator struct {
	Format Format
	Field  string
	Name   string
}

// Extract returns the key stored in text verbatim. It returns a *ParseError when
// text cannot be parsed and ErrKeyNotFound when it parses but holds no key.
func (l KeyLocator) Extract(text string) (string, error) {
	switch l.format(text) {
	case FormatJSON:
		return l.fromJSON(text)
	case FormatDotenv:
		return l.fromDotenv(text)
	default:
		return "", fmt.Errorf("unknown source format %q", l.Format)
	}
}

func (l KeyLocator) format(text string) Format {
	if l.Format != FormatAuto && len(l.Format) > 0 {
		return l.Format
	}
	if strings.HasPrefix(strings.TrimSpace(text), "{") {
		return FormatJSON
	}
	return FormatDotenv
}

func (l KeyLocator) fromJSON(text string) (string, error) {
	field := l.Field
	if len(field) == 0 {
		field = DefaultField
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return "", &ParseError{Format: FormatJSON, Err: err}
	}

	v, ok := obj[field].(string)
	if !ok || len(v) == 0 {
		return "", fmt.Errorf("field %q: %w", field, ErrKeyNotFound)
	}

	return v, nil
}

// fromDotenv takes the value of the first NAME=value line as written: quotes,
// "$" and "#" are part of the key. Other lines are never parsed.
func (l KeyLocator) fromDotenv(text string) (string, error) {
	name := l.Name
	if len(name) == 0 {
		name = DefaultName
	}

	re, err := regexp.Compile(`(?m)^[ \t]*(?:export[ \t]+)?` + regexp.QuoteMeta(name) + `=(.*)$`)
	if err != nil {
		return "", &ParseError{Format: FormatDotenv, Err: err}
	}

	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", fmt.Errorf("variable %q: %w", name, ErrKeyNotFound)
	}

	v := strings.TrimSuffix(m[1], "\r")
	if len(v) == 0 {
		return "", fmt.Errorf("variable %q: %w", name, ErrKeyNotFound)
	}

	return v, nil
}
