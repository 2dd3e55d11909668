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

package envfile

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	FileName = ".env"
	FileMode = 0600

	tmpPattern = ".env-tmp-*"
)

// Persist replaces path with text. The previous content is neither merged nor
// backed up.
func Persist(path, text string) error {
	return WriteFileAtomic(path, []byte(text), FileMode)
}

// WriteFileAtomic writes data to a temp file next to path and renames it over
// path, so readers see either the old file or the complete new one.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	fi, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmpPath := fi.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = fi.Write(data); err != nil {
		_ = fi.Close()
		return err
	}
	if err = fi.Sync(); err != nil {
		_ = fi.Close()
		return err
	}
	if err = fi.Close(); err != nil {
		return err
	}

	if err = os.Chmod(tmpPath, perm); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}
