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

// Package payload holds the result of a boot attempt: the loaded image and
// the argument block handed to it.
package payload

import "bytes"

// ArgvMagic tags the argument block so the loaded image can tell it apart
// from uninitialised memory. It is ASCII "_arg".
const ArgvMagic uint32 = 0x5f61_7267

// Argv is the argument block passed to the loaded image.
type Argv struct {
	// Magic is always ArgvMagic, even when there are no arguments.
	Magic uint32
	// Count is the number of argument strings in CommandLine.
	Count int
	// CommandLine holds Count NUL terminated strings back to back.
	CommandLine []byte
	// Length is the size of CommandLine in bytes, terminators included.
	Length int
}

// Payload is the single mutable result of one boot attempt.
//
// Image is nil until a loader succeeds. Once set it is never replaced; the
// trampoline hands it, together with Argv, to the loaded image.
type Payload struct {
	Image []byte
	Argv  Argv
}

// New returns an empty payload with the argument magic already set.
func New() *Payload {
	return &Payload{
		Argv: Argv{Magic: ArgvMagic},
	}
}

// Loaded reports whether an image has been loaded into p.
func (p *Payload) Loaded() bool {
	return len(p.Image) > 0
}

// EncodeArgs builds an argument block from args.
func EncodeArgs(args []string) Argv {
	a := Argv{Magic: ArgvMagic}
	if len(args) == 0 {
		return a
	}
	var buf bytes.Buffer
	for _, s := range args {
		buf.WriteString(s)
		buf.WriteByte(0)
	}
	a.Count = len(args)
	a.CommandLine = buf.Bytes()
	a.Length = buf.Len()
	return a
}

// Strings decodes the argument strings held in a.
// At most Count strings are returned; a missing final terminator ends the
// last string at the end of the buffer.
func (a Argv) Strings() []string {
	var r []string
	n := a.Length
	if n > len(a.CommandLine) {
		n = len(a.CommandLine)
	}
	if n < 0 {
		n = 0
	}
	b := a.CommandLine[:n]
	for i := 0; i < a.Count && len(b) > 0; i++ {
		n := bytes.IndexByte(b, 0)
		if n < 0 {
			r = append(r, string(b))
			break
		}
		r = append(r, string(b[:n]))
		b = b[n+1:]
	}
	return r
}
