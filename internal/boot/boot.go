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

// Package boot runs the boot flow: pick a shortcut from the held buttons,
// load an image from the first source which has one, and hand off to it.
package boot

import (
	"context"
	"strings"

	"github.com/golang/glog"
	"github.com/google/gekkoboot/internal/cliargs"
	"github.com/google/gekkoboot/internal/hw"
	"github.com/google/gekkoboot/internal/input"
	"github.com/google/gekkoboot/internal/payload"
	"github.com/google/gekkoboot/internal/shortcut"
	"github.com/google/gekkoboot/internal/storage"
	"github.com/google/gekkoboot/internal/trampoline"
)

// Version is the bootloader version, set at link time with
// -ldflags "-X github.com/google/gekkoboot/internal/boot.Version=...".
var Version = "dev"

// Config wires the boot flow to a machine.
type Config struct {
	Machine hw.Machine

	// SDA, SDB and SD2 are the card slots; nil is an empty slot.
	SDA storage.Device
	SDB storage.Device
	SD2 storage.Device

	// Shortcuts defaults to shortcut.Default.
	Shortcuts shortcut.Table
	// ParseArgs defaults to cliargs.Parse.
	ParseArgs func(string) payload.Argv

	// Stub is the relocation stub copied to hw.StubAddr before the jump.
	Stub []byte
}

func (c Config) shortcuts() shortcut.Table {
	if len(c.Shortcuts) == 0 {
		return shortcut.Default
	}
	return c.Shortcuts
}

func (c Config) parseArgs() func(string) payload.Argv {
	if c.ParseArgs == nil {
		return cliargs.Parse
	}
	return c.ParseArgs
}

// Run boots the machine described by cfg.
//
// It does not return when an image is handed off to or when the user asks
// to skip the bootloader. When every source fails it halts, ticking the
// display until ctx is done, and returns ErrAllSourcesExhausted. Any other
// error means the hand-off could not be attempted.
func Run(ctx context.Context, cfg Config) error {
	m := cfg.Machine
	glog.Infof("gekkoboot %s", Version)

	m.System.DisableAddon()

	s := &input.Sampler{Pads: m.Pads, Reset: m.Reset, Display: m.Display}
	st := s.Sample()
	if st.SkipRequested() {
		glog.Info("Skip requested")
		s.WaitForRelease(st)
		m.System.ReturnToFirmware()
		panic("returned from firmware")
	}

	glog.Infof("Memory available: %dB", m.Mem.Available())

	index := cfg.shortcuts().Select(st.Held)
	glog.Infof("Shortcut: %s", cfg.shortcuts()[index].Path)

	p := payload.New()
	src, err := NewChain(cfg, index).Load(p)
	if err != nil {
		return halt(ctx, m.Display)
	}
	glog.Infof("Loaded %d bytes from %s", len(p.Image), src.Name())

	logArgs(p.Argv)
	return trampoline.Handoff(m.System, s, st, p, cfg.Stub)
}

// halt parks the machine. On the console ctx is never done.
func halt(ctx context.Context, d hw.Display) error {
	glog.Error("No DOL loaded! Halting.")
	for {
		select {
		case <-ctx.Done():
			return ErrAllSourcesExhausted
		default:
		}
		d.WaitVSync()
	}
}

func logArgs(a payload.Argv) {
	if !glog.V(1) {
		return
	}
	if a.Count == 0 {
		glog.Info("No CLI args")
		return
	}
	args := a.Strings()
	for i, arg := range args {
		glog.Infof("arg%d: %s", i, arg)
	}
	glog.V(2).Infof("Command line: %s", strings.Join(args, " "))
}
