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
	"fmt"
	"io"
)

// Script answers questions from a fixed list, in order. An empty answer
// takes the question's default; a required question consumes answers until
// one is not empty.
type Script struct {
	answers []string
	asked   []string
}

func NewScript(answers ...string) *Script {
	return &Script{answers: answers}
}

func (s *Script) Ask(q *Question) (string, error) {
	for {
		s.asked = append(s.asked, q.Message)
		if len(s.answers) == 0 {
			return "", fmt.Errorf("%s: %w", q.Message, io.EOF)
		}

		answer := s.answers[0]
		s.answers = s.answers[1:]

		data, err := Resolve(q, answer)
		if err != nil || len(data) > 0 || !q.Required {
			return data, err
		}
	}
}

// Asked returns the messages of all questions asked so far.
func (s *Script) Asked() []string {
	return s.asked
}

func (s *Script) Remaining() int {
	return len(s.answers)
}
