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

package secrets

import (
	"github.com/arenadata/agent-setup/pkg/utils"
)

const DefaultKeyLength = 32

// GeneratePlaceholderKey returns an alphanumeric placeholder secret. It is a
// convenience fallback, not a cryptographic key.
func GeneratePlaceholderKey(length int) string {
	if length <= 0 {
		length = DefaultKeyLength
	}
	return utils.GenerateRandomString(length, utils.Alphanumeric)
}
