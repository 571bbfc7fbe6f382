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

// Package trampoline hands control to a loaded image through the
// relocation stub.
package trampoline

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
	"github.com/google/gekkoboot/internal/hw"
	"github.com/google/gekkoboot/internal/input"
	"github.com/google/gekkoboot/internal/payload"
)

// ErrNoImage is returned when there is nothing to hand off to.
var ErrNoImage = errors.New("no image loaded")

// Handoff publishes the argument block and the stub to memory, waits for the
// boot modifiers to be released, quiesces the machine and jumps to the
// stub. It only returns on a precondition failure, before any of those
// steps.
func Handoff(sys hw.System, s *input.Sampler, st input.State, p *payload.Payload, stub []byte) error {
	if !p.Loaded() {
		return ErrNoImage
	}
	if len(stub) == 0 {
		return errors.New("no relocation stub")
	}
	if len(stub) > hw.MaxStubSize {
		return fmt.Errorf("relocation stub is %d bytes, only %d fit below the stub stack", len(stub), hw.MaxStubSize)
	}
	if p.Argv.Length > len(p.Argv.CommandLine) {
		return fmt.Errorf("argument length %d exceeds the %d byte buffer", p.Argv.Length, len(p.Argv.CommandLine))
	}

	var args []byte
	if p.Argv.Length > 0 {
		args = p.Argv.CommandLine[:p.Argv.Length]
		sys.StoreRange(args)
	}

	glog.V(1).Infof("Copying %d byte stub to %#08x", len(stub), hw.StubAddr)
	mem := sys.PhysicalMemory(hw.StubAddr, len(stub))
	copy(mem, stub)
	sys.StoreRange(mem)

	s.WaitForRelease(st)

	sys.ResetSystem()

	sys.Jump(hw.Handoff{
		Image:      p.Image,
		Args:       args,
		ArgsLength: p.Argv.Length,
		StubEntry:  hw.StubAddr,
		StubStack:  hw.StubStack,
	})
	panic("returned from stub")
}
