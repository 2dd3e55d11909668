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
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

type Kind int

const (
	KindInput Kind = iota
	KindPassword
	KindConfirm
	KindSelect
)

const (
	yes = "yes"
	no  = "no"
)

var ErrInterrupted = errors.New("interrupted")

const msgRequired = "A value is required."

type Question struct {
	Message string
	Kind    Kind
	Default string
	Options []string
	Help    string
	// Required questions are asked again until the answer is not empty.
	Required bool
}

// Asker asks one question at a time and blocks until it is answered.
type Asker interface {
	Ask(q *Question) (string, error)
}

type Action func() error

type Actions []Action

func (a Actions) Run() error {
	for _, act := range a {
		if err := act(); err != nil {
			return err
		}
	}
	return nil
}

// NewAction asks q and stores the answer in out.
func NewAction(a Asker, q *Question, out *string) Action {
	return func() error {
		data, err := a.Ask(q)
		if err != nil {
			return err
		}

		*out = data
		return nil
	}
}

// New returns a terminal Asker when in and out are both terminals and a
// line-oriented one otherwise.
func New(in io.Reader, out io.Writer) Asker {
	fin, inOk := in.(*os.File)
	fout, outOk := out.(*os.File)
	if inOk && outOk && term.IsTerminal(int(fin.Fd())) && term.IsTerminal(int(fout.Fd())) {
		return NewSurvey(fin, fout)
	}

	return NewLines(in, out)
}

func Confirm(a Asker, msg string, def bool) (bool, error) {
	data, err := a.Ask(&Question{Message: msg, Kind: KindConfirm, Default: FormatBool(def)})
	if err != nil {
		return false, err
	}
	return ParseBool(data)
}

func Select(a Asker, msg string, opts []string, def string) (string, error) {
	return a.Ask(&Question{Message: msg, Kind: KindSelect, Options: opts, Default: def})
}

func Input(a Asker, msg, def string) (string, error) {
	return a.Ask(&Question{Message: msg, Kind: KindInput, Default: def})
}

func Password(a Asker, msg string) (string, error) {
	return a.Ask(&Question{Message: msg, Kind: KindPassword})
}

func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", yes, "true", "1":
		return true, nil
	case "n", no, "false", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid answer %q: expected yes or no", s)
}

func FormatBool(b bool) string {
	if b {
		return yes
	}
	return no
}

// Resolve normalizes a raw answer to q: surrounding space is trimmed, an empty
// answer takes the default, confirmations become yes/no (an unrecognized answer
// takes the default) and selections become the chosen option, given by name or
// 1-based number.
func Resolve(q *Question, answer string) (string, error) {
	if q.Kind != KindPassword {
		answer = strings.TrimSpace(answer)
	} else {
		answer = strings.TrimRight(answer, "\r\n")
	}
	if len(answer) == 0 {
		answer = q.Default
	}

	switch q.Kind {
	case KindConfirm:
		b, err := ParseBool(answer)
		if err != nil {
			b, _ = ParseBool(q.Default)
		}
		return FormatBool(b), nil
	case KindSelect:
		return selectOption(q, answer)
	}

	return answer, nil
}

func selectOption(q *Question, answer string) (string, error) {
	if len(q.Options) == 0 {
		return "", fmt.Errorf("%s: no options", q.Message)
	}
	if len(answer) == 0 {
		return q.Options[0], nil
	}

	for _, opt := range q.Options {
		if strings.EqualFold(opt, answer) {
			return opt, nil
		}
	}

	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1], nil
	}

	return "", fmt.Errorf("invalid answer %q: expected one of %s", answer, strings.Join(q.Options, ", "))
}
