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

// Package emu is an emulated console which runs the boot flow on a host.
//
// Serial channels are backed by any byte stream (a tty or an in-process
// pipe), memory by a plain byte slice, and the non-returning transfers of
// control end the calling goroutine.
package emu

import (
	"time"

	"github.com/google/gekkoboot/internal/hw"
)

// Clock is the host's wall clock.
type Clock struct{}

var _ hw.Clock = Clock{}

func (Clock) Now() time.Time        { return time.Now() }
func (Clock) Sleep(d time.Duration) { time.Sleep(d) }
