// Copyright 2024 Google LLC. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cliargs turns the text of a .cli file into the argument block
// handed to the loaded image.
//
// The file is split into words with POSIX shell rules, so an argument
// containing spaces can be quoted. Lines whose first non-blank character is
// '#' are comments.
package cliargs

import (
	"strings"

	"bitbucket.org/creachadair/shell"
	"github.com/golang/glog"
	"github.com/google/gekkoboot/internal/payload"
)

// Parse returns the argument block described by text.
//
// Parse never fails: malformed input (an unterminated quote, say) yields the
// words that could be recovered.
func Parse(text string) payload.Argv {
	words, ok := shell.Split(stripComments(text))
	if !ok {
		glog.Warningf("Malformed CLI file, using %d recovered argument(s)", len(words))
	}
	return payload.EncodeArgs(words)
}

func stripComments(text string) string {
	var b strings.Builder
	for _, l := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(l), "#") {
			continue
		}
		b.WriteString(strings.TrimSuffix(l, "\r"))
		b.WriteByte('\n')
	}
	return b.String()
}
