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
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Survey renders questions on a terminal.
type Survey struct {
	opts []survey.AskOpt
}

func NewSurvey(in, out *os.File) *Survey {
	return &Survey{opts: []survey.AskOpt{survey.WithStdio(in, out, out)}}
}

func (s *Survey) Ask(q *Question) (string, error) {
	var out string
	var err error

	switch q.Kind {
	case KindConfirm:
		def, _ := ParseBool(q.Default)
		var ok bool
		err = survey.AskOne(&survey.Confirm{Message: q.Message, Default: def, Help: q.Help}, &ok, s.opts...)
		out = FormatBool(ok)
	default:
		opts := s.opts
		if q.Required {
			opts = append([]survey.AskOpt{survey.WithValidator(survey.Required)}, s.opts...)
		}
		err = survey.AskOne(s.prompt(q), &out, opts...)
	}

	if errors.Is(err, terminal.InterruptErr) {
		return "", ErrInterrupted
	}
	if err != nil {
		return "", err
	}

	return out, nil
}

func (s *Survey) prompt(q *Question) survey.Prompt {
	switch q.Kind {
	case KindSelect:
		p := &survey.Select{
			Message: q.Message,
			Options: q.Options,
			Help:    q.Help,
		}
		if len(q.Default) > 0 {
			p.Default = q.Default
		}
		return p
	case KindPassword:
		return &survey.Password{Message: q.Message, Help: q.Help}
	}

	return &survey.Input{Message: q.Message, Default: q.Default, Help: q.Help}
}
