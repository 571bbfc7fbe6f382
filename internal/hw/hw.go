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

// Package hw describes the hardware the bootloader runs on.
//
// The boot flow only ever talks to the console through the interfaces
// declared here, which lets the same code run on the real machine and on the
// emulated machine in the emu sub-package.
package hw

import (
	"errors"
	"time"
)

var (
	// ErrTimeout is returned by SerialChannel.Receive when the buffer could
	// not be filled before the timeout expired.
	ErrTimeout = errors.New("receive timed out")
	// ErrNoMemory is returned by Allocator.Alloc when the arena can't satisfy
	// a request.
	ErrNoMemory = errors.New("out of memory")
)

// Controllers reads the held-button state of the controller ports.
type Controllers interface {
	// Held scans the pads and returns the held buttons of every port.
	Held() []Buttons
}

// ResetButton reports the state of the console's reset button.
type ResetButton interface {
	ResetButtonDown() bool
}

// Display provides the vertical-sync tick which paces all polling loops.
type Display interface {
	// WaitVSync blocks until the next display refresh.
	WaitVSync()
}

// Clock is a monotonic time source.
// It satisfies backoff.Clock.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// Allocator hands out buffers from the heap arena.
type Allocator interface {
	// Alloc returns a buffer of exactly n bytes, or ErrNoMemory.
	Alloc(n int) ([]byte, error)
	// Available returns the number of bytes left in the arena.
	Available() int
}

// SerialChannel is one out-of-band byte stream (a USB Gecko in a memory card
// slot).
type SerialChannel interface {
	// Present reports whether a peer is plugged into the channel.
	Present() bool
	// Flush discards anything buffered on the channel.
	Flush()
	// Send writes all of p.
	Send(p []byte) error
	// Receive fills p. With a zero timeout it blocks until p is full,
	// otherwise it returns the number of bytes read along with ErrTimeout
	// if p could not be filled in time.
	Receive(p []byte, timeout time.Duration) (int, error)
}

// Handoff is the register file handed to the relocation stub.
type Handoff struct {
	// Image is the loaded executable; its base address goes in the first
	// argument register.
	Image []byte
	// Reserved is passed in the second argument register and is always 0.
	Reserved uint32
	// Args is the encoded argument buffer, or nil.
	Args []byte
	// ArgsLength is the length of Args in bytes.
	ArgsLength int
	// StubEntry is the physical address the stub was copied to.
	StubEntry uint32
	// StubStack is the stack pointer the stub runs on.
	StubStack uint32
}

// System groups the privileged, mostly irreversible, machine operations.
type System interface {
	// DisableAddon switches off the add-on boot hardware so that a later
	// return to firmware lands in the original IPL.
	DisableAddon()
	// PhysicalMemory returns a view of n bytes of memory at the physical
	// address addr.
	PhysicalMemory(addr uint32, n int) []byte
	// StoreRange writes the data cache lines covering b back to memory so
	// that every bus master observes the contents of b.
	StoreRange(b []byte)
	// ResetSystem quiesces all peripherals as a shutdown would, without
	// rebooting.
	ResetSystem()
	// Jump transfers control to the relocation stub.
	// It does not return.
	Jump(h Handoff)
	// ReturnToFirmware leaves the bootloader through the platform reset
	// path. It does not return.
	ReturnToFirmware()
}

// Machine bundles every hardware facility the boot flow consumes.
type Machine struct {
	Pads    Controllers
	Reset   ResetButton
	Display Display
	Clock   Clock
	Mem     Allocator
	System  System

	// GeckoA and GeckoB are the serial channels in memory card slots A and B.
	// A nil channel is treated as an empty slot.
	GeckoA SerialChannel
	GeckoB SerialChannel
}
