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

// Package impl is the implementation of the emulator.
package impl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/google/gekkoboot/internal/boot"
	"github.com/google/gekkoboot/internal/gecko"
	"github.com/google/gekkoboot/internal/hw"
	"github.com/google/gekkoboot/internal/hw/emu"
	"github.com/google/gekkoboot/internal/serial"
	"github.com/google/gekkoboot/internal/shortcut"
	"github.com/google/gekkoboot/internal/storage"
	"github.com/google/gekkoboot/internal/storage/dirfs"
	"github.com/google/gekkoboot/internal/storage/ext4fs"
	"golang.org/x/sync/errgroup"
)

// defaultStub is a single blr; the emulator never runs the stub.
var defaultStub = []byte{0x4e, 0x80, 0x00, 0x20}

// EmulatorOpts encapsulates the parameters for running the emulator.
type EmulatorOpts struct {
	// SDA, SDB and SD2 describe the card slots, "dir:PATH" or "ext4:PATH".
	SDA, SDB, SD2 string
	// GeckoA and GeckoB describe the Gecko slots, "tty:PATH" or "send:PATH".
	GeckoA, GeckoB string

	Buttons      string
	Reset        bool
	ReleaseAfter int

	Shortcuts string
	Stub      string
	Output    string
	Realtime  bool
}

// Main boots the emulated console and reports how it left the bootloader.
// A halt lasts until ctx is done.
func Main(ctx context.Context, opts EmulatorOpts) error {
	held, err := hw.ParseButtons(opts.Buttons)
	if err != nil {
		return fmt.Errorf("--buttons: %w", err)
	}
	cfg := boot.Config{Stub: defaultStub}
	if opts.Shortcuts != "" {
		if cfg.Shortcuts, err = shortcut.Load(opts.Shortcuts); err != nil {
			return err
		}
	}
	if opts.Stub != "" {
		if cfg.Stub, err = os.ReadFile(opts.Stub); err != nil {
			return fmt.Errorf("failed to read stub: %w", err)
		}
	}
	for _, s := range []struct {
		spec string
		dev  *storage.Device
	}{
		{opts.SDA, &cfg.SDA},
		{opts.SDB, &cfg.SDB},
		{opts.SD2, &cfg.SD2},
	} {
		if *s.dev, err = card(s.spec); err != nil {
			return err
		}
	}

	panel := &emu.Panel{Buttons: held, ResetHeld: opts.Reset, ReleaseAfter: opts.ReleaseAfter}
	if opts.Realtime {
		panel.Period = emu.FramePeriod
	}
	sys := emu.NewSystem()
	cfg.Machine = hw.Machine{
		Pads:    panel,
		Reset:   panel,
		Display: panel,
		Clock:   emu.Clock{},
		Mem:     emu.NewArena(hw.Mem1Size),
		System:  sys,
	}

	g, ctx := errgroup.WithContext(ctx)
	var closers []io.Closer
	started := false
	defer func() {
		if started {
			return
		}
		for _, c := range closers {
			c.Close()
		}
	}()
	for _, s := range []struct {
		slot, spec string
		ch         *hw.SerialChannel
	}{
		{"A", opts.GeckoA, &cfg.Machine.GeckoA},
		{"B", opts.GeckoB, &cfg.Machine.GeckoB},
	} {
		if s.spec == "" {
			continue
		}
		ch, c, err := geckoChannel(ctx, g, sys, s.slot, s.spec)
		if err != nil {
			return err
		}
		*s.ch = ch
		closers = append(closers, c...)
	}

	// Transfers of control end the boot goroutine without returning.
	started = true
	g.Go(func() error {
		return boot.Run(ctx, cfg)
	})
	g.Go(func() error {
		select {
		case <-sys.Done():
		case <-ctx.Done():
		}
		for _, c := range closers {
			c.Close()
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	outcome, h := sys.Outcome()
	glog.Infof("Console %s", outcome)
	if outcome == emu.Jumped {
		glog.Infof("Image: %d bytes, arguments: %d bytes", len(h.Image), h.ArgsLength)
		if opts.Output != "" {
			if err := os.WriteFile(opts.Output, h.Image, 0o644); err != nil {
				return fmt.Errorf("failed to write image: %w", err)
			}
		}
	}
	return nil
}

// card returns the device described by spec, or nil for an empty slot.
func card(spec string) (storage.Device, error) {
	if spec == "" {
		return nil, nil
	}
	kind, path, ok := strings.Cut(spec, ":")
	if !ok || path == "" {
		return nil, fmt.Errorf("invalid card %q, want dir:PATH or ext4:PATH", spec)
	}
	switch kind {
	case "dir":
		return &dirfs.Device{Root: path}, nil
	case "ext4":
		return &ext4fs.Device{Path: path}, nil
	}
	return nil, fmt.Errorf("unknown card type %q", kind)
}

// geckoChannel sets up the channel described by spec. A "send:" channel
// gets a host sender on g which is torn down once the console is done with
// it.
func geckoChannel(ctx context.Context, g *errgroup.Group, sys *emu.System, slot, spec string) (hw.SerialChannel, []io.Closer, error) {
	kind, path, ok := strings.Cut(spec, ":")
	if !ok || path == "" {
		return nil, nil, fmt.Errorf("invalid Gecko %q, want tty:PATH or send:PATH", spec)
	}
	switch kind {
	case "tty":
		port, err := serial.Open(path)
		if err != nil {
			return nil, nil, err
		}
		ch := emu.NewChannel(port)
		return ch, []io.Closer{ch}, nil
	case "send":
		img, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read image for slot %s: %w", slot, err)
		}
		console, host := net.Pipe()
		ch := emu.NewChannel(console)
		g.Go(func() error {
			err := gecko.Send(ctx, host, img)
			select {
			case <-sys.Done():
				// The console may have booted from another source.
				return nil
			default:
			}
			if err != nil && !errors.Is(err, io.ErrClosedPipe) && ctx.Err() == nil {
				return fmt.Errorf("host sender in slot %s: %w", slot, err)
			}
			return nil
		})
		return ch, []io.Closer{ch, host}, nil
	}
	return nil, nil, fmt.Errorf("unknown Gecko type %q", kind)
}
