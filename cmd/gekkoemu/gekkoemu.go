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

// gekkoemu runs gekkoboot on an emulated console.
//
// Card slots are served from host directories ("dir:PATH") or ext4 images
// ("ext4:PATH"). A Gecko slot is either a real USB Gecko ("tty:PATH"), or an
// image which an in-process host sends over the emulated channel
// ("send:PATH").
//
// Usage:
//
//	go run ./cmd/gekkoemu --logtostderr --sdb=dir:/tmp/card --buttons=A,down --release_after=30 --output=/tmp/booted.dol
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/golang/glog"
	"github.com/google/gekkoboot/cmd/gekkoemu/impl"
)

var (
	sda          = flag.String("sda", "", "Card in memory card slot A")
	sdb          = flag.String("sdb", "", "Card in memory card slot B")
	sd2          = flag.String("sd2", "", "Card in the serial port 2 adapter")
	geckoA       = flag.String("gecko_a", "", "USB Gecko in memory card slot A")
	geckoB       = flag.String("gecko_b", "", "USB Gecko in memory card slot B")
	buttons      = flag.String("buttons", "", "Comma separated buttons held at power on, e.g. A,down")
	reset        = flag.Bool("reset", false, "Hold the reset button at power on")
	releaseAfter = flag.Int("release_after", 0, "Display ticks before held buttons are released, negative holds forever")
	shortcuts    = flag.String("shortcuts", "", "YAML shortcut table, the built in table if empty")
	stub         = flag.String("stub", "", "Relocation stub, a minimal built in stub if empty")
	output       = flag.String("output", "", "File path to write the booted image to")
	realtime     = flag.Bool("realtime", true, "Tick the display at 60Hz")
)

func main() {
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := impl.Main(ctx, impl.EmulatorOpts{
		SDA:          *sda,
		SDB:          *sdb,
		SD2:          *sd2,
		GeckoA:       *geckoA,
		GeckoB:       *geckoB,
		Buttons:      *buttons,
		Reset:        *reset,
		ReleaseAfter: *releaseAfter,
		Shortcuts:    *shortcuts,
		Stub:         *stub,
		Output:       *output,
		Realtime:     *realtime,
	}); err != nil {
		glog.Exitf("gekkoemu: %v", err)
	}
}
