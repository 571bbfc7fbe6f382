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
	"fmt"
	"runtime"
	"sync"

	"github.com/golang/glog"
	"github.com/google/gekkoboot/internal/hw"
)

// Outcome is how the boot flow left the machine.
type Outcome int

const (
	// Running means control has not been transferred yet.
	Running Outcome = iota
	// Jumped means control went to the relocation stub.
	Jumped
	// ReturnedToFirmware means the bootloader was skipped.
	ReturnedToFirmware
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Jumped:
		return "jumped to stub"
	case ReturnedToFirmware:
		return "returned to firmware"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// System emulates the privileged machine operations.
//
// Jump and ReturnToFirmware record what happened and then end the calling
// goroutine, so the boot flow must run on a goroutine of its own.
type System struct {
	mu sync.Mutex
	// mem1 is allocated on first use.
	mem1 []byte

	addonDisabled bool
	stores        int
	resets        int
	outcome       Outcome
	handoff       hw.Handoff
	done          chan struct{}
}

var _ hw.System = &System{}

// NewSystem returns a powered-on machine.
func NewSystem() *System {
	return &System{done: make(chan struct{})}
}

func (s *System) DisableAddon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	glog.V(1).Info("Add-on boot hardware disabled")
	s.addonDisabled = true
}

// PhysicalMemory panics if the range lies outside main memory.
func (s *System) PhysicalMemory(addr uint32, n int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if addr < hw.Mem1Base || n < 0 || int(addr-hw.Mem1Base)+n > hw.Mem1Size {
		panic(fmt.Sprintf("physical access to %#08x+%#x outside main memory", addr, n))
	}
	if s.mem1 == nil {
		s.mem1 = make([]byte, hw.Mem1Size)
	}
	off := int(addr - hw.Mem1Base)
	return s.mem1[off : off+n : off+n]
}

func (s *System) StoreRange(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	glog.V(2).Infof("Store %d bytes", len(b))
	s.stores++
}

func (s *System) ResetSystem() {
	s.mu.Lock()
	defer s.mu.Unlock()
	glog.V(1).Info("Peripherals quiesced")
	s.resets++
}

// Jump records h and ends the calling goroutine.
func (s *System) Jump(h hw.Handoff) {
	glog.Infof("Jumping to stub at %#08x with a %d byte image", h.StubEntry, len(h.Image))
	s.finish(Jumped, h)
	runtime.Goexit()
}

// ReturnToFirmware ends the calling goroutine.
func (s *System) ReturnToFirmware() {
	glog.Info("Returning to firmware")
	s.finish(ReturnedToFirmware, hw.Handoff{})
	runtime.Goexit()
}

func (s *System) finish(o Outcome, h hw.Handoff) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome != Running {
		panic("control transferred twice")
	}
	s.outcome = o
	s.handoff = h
	close(s.done)
}

// Done is closed once control has been transferred.
func (s *System) Done() <-chan struct{} {
	return s.done
}

// Outcome returns how control left the bootloader, and the handoff registers
// if it jumped.
func (s *System) Outcome() (Outcome, hw.Handoff) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome, s.handoff
}

// Counters returns the number of StoreRange and ResetSystem calls, and
// whether DisableAddon was called.
func (s *System) Counters() (stores, resets int, addonDisabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stores, s.resets, s.addonDisabled
}
