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
	"strings"
)

// Parse reads text produced by Render back into a payload. Comment lines
// before the first entry become the header; lines without "=" and later
// comments are skipped.
func Parse(text string) *Payload {
	p := New()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}

		if strings.HasPrefix(trimmed, commentPrefix) {
			if p.Len() == 0 {
				p.header = append(p.header, trimmed)
			}
			continue
		}

		key, value, ok := strings.Cut(line, sep)
		if !ok {
			continue
		}
		p.Set(key, value)
	}

	return p
}
