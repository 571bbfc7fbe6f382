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

// Physical memory map of the console.
//
// The relocation stub lives in the low exception vector area, which is not
// part of any loaded image, and runs on a private stack just above it.
const (
	// Mem1Base is the cached virtual address of the start of main memory.
	Mem1Base uint32 = 0x8000_0000
	// Mem1Size is the size of main memory.
	Mem1Size = 24 << 20

	// StubAddr is where the relocation stub is copied to.
	StubAddr uint32 = 0x8000_1000
	// StubStack is the stack pointer the stub starts with. The stub must
	// fit below it.
	StubStack uint32 = 0x8000_3000
	// MaxStubSize is the largest stub which fits between StubAddr and
	// StubStack.
	MaxStubSize = int(StubStack - StubAddr)
)
