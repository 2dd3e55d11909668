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

// Package envfile holds the ordered KEY=VALUE payload written to an agent .env file.
package envfile

import (
	"io"
	"strings"
)

const (
	sep           = "="
	commentPrefix = "#"
)

// Entry is a single KEY=VALUE line.
type Entry struct {
	Key   string
	Value string
}

func (e Entry) String() string {
	return e.Key + sep + e.Value
}

// Payload is an ordered set of entries. Setting a key twice keeps its first
// position and replaces the value.
type Payload struct {
	header  []string
	entries []Entry
	index   map[string]int
}

func New(header ...string) *Payload {
	return &Payload{
		header: header,
		index:  make(map[string]int),
	}
}

func (p *Payload) Set(key, value string) {
	if i, ok := p.index[key]; ok {
		p.entries[i].Value = value
		return
	}

	p.index[key] = len(p.entries)
	p.entries = append(p.entries, Entry{Key: key, Value: value})
}

func (p *Payload) Append(entries ...Entry) {
	for _, e := range entries {
		p.Set(e.Key, e.Value)
	}
}

func (p *Payload) Get(key string) (string, bool) {
	i, ok := p.index[key]
	if !ok {
		return "", false
	}
	return p.entries[i].Value, true
}

func (p *Payload) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

func (p *Payload) Len() int {
	return len(p.entries)
}

// Render returns header comments followed by entries in insertion order, one
// per line. Values are written as is, without quoting or escaping.
func (p *Payload) Render() string {
	var sb strings.Builder
	for _, line := range p.header {
		if !strings.HasPrefix(line, commentPrefix) {
			line = commentPrefix + " " + line
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	for _, e := range p.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}

	return sb.String()
}

func (p *Payload) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, p.Render())
	return int64(n), err
}
