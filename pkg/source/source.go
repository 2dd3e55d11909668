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

// Package source reads external configuration files that may already hold a
// previously generated secret.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Provider reads a configuration file. ok is false when the file does not exist.
type Provider interface {
	Read(path string) (text string, ok bool, err error)
}

// OS reads files from the local filesystem.
type OS struct{}

func (OS) Read(path string) (string, bool, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return "", false, err
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return string(b), true, nil
}

// Map is an in-memory Provider keyed by path.
type Map map[string]string

func (m Map) Read(path string) (string, bool, error) {
	text, ok := m[path]
	return text, ok, nil
}

// ExpandPath resolves a leading "~" against the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	if len(xdg.Home) == 0 {
		return "", fmt.Errorf("cannot expand %q: home directory is unknown", path)
	}

	return filepath.Join(xdg.Home, strings.TrimPrefix(path, "~")), nil
}
