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

package utils

import (
	"fmt"
	"math/rand/v2"
	"os"
)

const (
	Alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0987654321"
	Printable    = Alphanumeric + "@#$%^&*()_+-=[]{};:,./?~"
)

// GenerateRandomString is not suitable for key material: it draws from the
// non-cryptographic math/rand source. charset defaults to Printable.
func GenerateRandomString(length int, charset ...string) string {
	strSrc := Printable
	if len(charset) > 0 && len(charset[0]) > 0 {
		strSrc = charset[0]
	}

	b := make([]byte, length)
	for i := range b {
		b[i] = strSrc[rand.IntN(len(strSrc))]
	}

	return string(b)
}

func Ptr[T comparable](v T) *T {
	return &v
}

func FileExists(path string) (bool, error) {
	st, err := os.Stat(path)
	if err != nil {
		return false, nil
	}
	if st.IsDir() {
		return false, fmt.Errorf("%s is a directory", path)
	}

	return true, nil
}
