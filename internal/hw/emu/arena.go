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

	"github.com/google/gekkoboot/internal/hw"
)

// Arena is a bump allocator over a fixed budget of host memory.
type Arena struct {
	size int
	used int
}

var _ hw.Allocator = &Arena{}

// NewArena returns an arena of size bytes.
func NewArena(size int) *Arena {
	return &Arena{size: size}
}

func (a *Arena) Alloc(n int) ([]byte, error) {
	if n < 0 || n > a.Available() {
		return nil, fmt.Errorf("%w: %d bytes requested, %d available", hw.ErrNoMemory, n, a.Available())
	}
	a.used += n
	return make([]byte, n), nil
}

func (a *Arena) Available() int {
	return a.size - a.used
}
