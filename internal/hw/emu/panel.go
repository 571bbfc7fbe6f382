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

package emu

import (
	"time"

	"github.com/google/gekkoboot/internal/hw"
)

// FramePeriod is the refresh period of an NTSC display.
const FramePeriod = time.Second / 60

// Panel scripts the front of the console: the pads, the reset button and
// the display refresh which paces every sample.
//
// The buttons and the reset button are held from power on and released
// after ReleaseAfter display ticks, but never before the first tick so the
// power-on sample always sees them. A negative ReleaseAfter holds them
// forever.
type Panel struct {
	// Buttons are held on the pad in port 0.
	Buttons hw.Buttons
	// ResetHeld holds the reset button.
	ResetHeld    bool
	ReleaseAfter int
	// Period is slept on every tick; zero ticks as fast as possible.
	Period time.Duration

	ticks int
}

var (
	_ hw.Controllers = &Panel{}
	_ hw.ResetButton = &Panel{}
	_ hw.Display     = &Panel{}
)

func (p *Panel) released() bool {
	return p.ReleaseAfter >= 0 && p.ticks > 0 && p.ticks >= p.ReleaseAfter
}

// Held returns the state of the four controller ports.
func (p *Panel) Held() []hw.Buttons {
	ports := make([]hw.Buttons, 4)
	if !p.released() {
		ports[0] = p.Buttons
	}
	return ports
}

func (p *Panel) ResetButtonDown() bool {
	return p.ResetHeld && !p.released()
}

func (p *Panel) WaitVSync() {
	if p.Period > 0 {
		time.Sleep(p.Period)
	}
	p.ticks++
}

// Ticks returns the number of display refreshes waited for so far.
func (p *Panel) Ticks() int {
	return p.ticks
}
