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

// Package input samples the controllers and the reset button once per
// display tick and gates the hand-off on the boot modifiers being released.
package input

import (
	"github.com/golang/glog"
	"github.com/google/gekkoboot/internal/hw"
)

// State is one snapshot of the inputs.
type State struct {
	// Held is the OR of the held buttons of every controller port.
	Held hw.Buttons
	// Reset is true while the reset button is pressed.
	Reset bool
}

// SkipRequested reports whether the user asked to bypass the bootloader and
// return to the original firmware.
func (s State) SkipRequested() bool {
	return s.Held&hw.ButtonLeft != 0 || s.Reset
}

// releasePending reports whether the exit gate is still closed.
func (s State) releasePending() bool {
	return s.Held&hw.ButtonDown != 0 || s.Reset
}

// Sampler reads input state.
type Sampler struct {
	Pads    hw.Controllers
	Reset   hw.ResetButton
	Display hw.Display
}

// Sample reads every controller port and the reset button once.
func (s *Sampler) Sample() State {
	var st State
	for _, b := range s.Pads.Held() {
		st.Held |= b
	}
	st.Reset = s.Reset.ResetButtonDown()
	return st
}

// WaitForRelease blocks, re-sampling once per display tick, until neither
// d-pad down nor reset is held. It returns the last sample taken.
//
// The loaded image does not expect buttons held at boot, so they must not
// leak across the hand-off.
func (s *Sampler) WaitForRelease(st State) State {
	if st.Held&hw.ButtonDown != 0 {
		glog.Info("(release d-pad down to continue)")
	}
	if st.Reset {
		glog.Info("(release reset button to continue)")
	}
	for st.releasePending() {
		s.Display.WaitVSync()
		st = s.Sample()
	}
	return st
}
