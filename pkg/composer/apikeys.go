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
	"strings"

	"github.com/arenadata/agent-setup/pkg/envfile"
	"github.com/arenadata/agent-setup/pkg/interactive"
)

const (
	pairSep  = "="
	pairsSep = ","
)

// ParseAPIKeys splits a comma-separated line of KEY=VALUE pairs. Each pair is
// trimmed; pairs without "=" are returned as errors and left out.
func ParseAPIKeys(line string) ([]envfile.Entry, []*MalformedInputError) {
	var entries []envfile.Entry
	var dropped []*MalformedInputError

	for _, pair := range strings.Split(line, pairsSep) {
		pair = strings.TrimSpace(pair)
		key, value, ok := strings.Cut(pair, pairSep)
		if !ok {
			if len(pair) > 0 {
				dropped = append(dropped, &MalformedInputError{Pair: pair})
			}
			continue
		}

		entries = append(entries, envfile.Entry{Key: key, Value: value})
	}

	return entries, dropped
}

func (c *Composer) CollectAPIKeys() ([]envfile.Entry, error) {
	line, err := interactive.Input(c.asker,
		"Enter your keys in KEY=VALUE format, separated by commas (e.g., OPENAI_API_KEY=sk-..., ANOTHER_KEY=...):", "")
	if err != nil {
		return nil, err
	}

	entries, dropped := ParseAPIKeys(line)
	for _, e := range dropped {
		c.logger.Debug(e)
	}

	return entries, nil
}
