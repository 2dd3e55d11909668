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

package interactive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

type Reader func() (string, error)

// Lines reads one answer per line, for piped input.
type Lines struct {
	read Reader
	w    io.Writer
}

func NewLines(r io.Reader, w io.Writer) *Lines {
	return &Lines{read: String(bufio.NewReader(r)), w: w}
}

func (l *Lines) Ask(q *Question) (string, error) {
	for {
		data, err := l.ask(q)
		if err != nil || len(data) > 0 || !q.Required {
			return data, err
		}
		if _, err = fmt.Fprintln(l.w, msgRequired); err != nil {
			return "", err
		}
	}
}

func (l *Lines) ask(q *Question) (string, error) {
	prompt := q.Message
	if q.Kind == KindSelect {
		var sb strings.Builder
		for i, opt := range q.Options {
			fmt.Fprintf(&sb, "\n  %d) %s", i+1, opt)
		}
		prompt += sb.String() + "\n"
	}
	if len(q.Default) > 0 && q.Kind != KindPassword {
		prompt += fmt.Sprintf(" (default: %v)", q.Default)
	}

	if _, err := fmt.Fprint(l.w, prompt+" "); err != nil {
		return "", err
	}

	data, err := l.read()
	if err != nil {
		return "", fmt.Errorf("%s: %w", q.Message, err)
	}

	return Resolve(q, data)
}

// String reads the next line. A final line without a newline is returned as is;
// io.EOF is returned only when nothing is left.
func String(r *bufio.Reader) Reader {
	return func() (string, error) {
		data, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(data) > 0) {
			return "", err
		}
		return strings.TrimRight(data, "\r\n"), nil
	}
}
