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

package hw

import (
	"fmt"
	"sort"
	"strings"
)

// Buttons is a bitmask of controller buttons, laid out like the console's
// pad status word.
type Buttons uint16

const (
	ButtonLeft  Buttons = 0x0001
	ButtonRight Buttons = 0x0002
	ButtonDown  Buttons = 0x0004
	ButtonUp    Buttons = 0x0008
	TriggerZ    Buttons = 0x0010
	TriggerR    Buttons = 0x0020
	TriggerL    Buttons = 0x0040
	ButtonA     Buttons = 0x0100
	ButtonB     Buttons = 0x0200
	ButtonX     Buttons = 0x0400
	ButtonY     Buttons = 0x0800
	ButtonStart Buttons = 0x1000
)

var buttonNames = map[string]Buttons{
	"left":  ButtonLeft,
	"right": ButtonRight,
	"down":  ButtonDown,
	"up":    ButtonUp,
	"z":     TriggerZ,
	"r":     TriggerR,
	"l":     TriggerL,
	"a":     ButtonA,
	"b":     ButtonB,
	"x":     ButtonX,
	"y":     ButtonY,
	"start": ButtonStart,
}

// ParseButtons parses a comma separated list of button names, e.g. "A,down".
// Names are case insensitive; an empty string is no buttons.
func ParseButtons(s string) (Buttons, error) {
	var b Buttons
	for _, n := range strings.Split(s, ",") {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		v, ok := buttonNames[n]
		if !ok {
			return 0, fmt.Errorf("unknown button %q", n)
		}
		b |= v
	}
	return b, nil
}

// String returns the names of the buttons in b.
func (b Buttons) String() string {
	var names []string
	for n, v := range buttonNames {
		if b&v != 0 {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
