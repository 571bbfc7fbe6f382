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

// Package testonly provides support for storage tests.
package testonly

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/google/gekkoboot/internal/storage"
)

// MemDev is a simple in-memory storage slot.
type MemDev struct {
	// VolumeLabel is returned by the mounted volume's Label.
	VolumeLabel string
	// Files maps absolute paths to contents.
	Files map[string][]byte
	// MountErr, when set, is returned by Mount.
	MountErr error

	// Reads records every path read, in order.
	Reads []string
	// Mounts and Unmounts count the calls made.
	Mounts   int
	Unmounts int
}

var _ storage.Device = &MemDev{}

// NewMemDev creates a new device holding files.
func NewMemDev(files map[string][]byte) *MemDev {
	return &MemDev{VolumeLabel: "MEMDEV", Files: files}
}

// Mount returns MountErr if set.
func (md *MemDev) Mount() (storage.Volume, error) {
	md.Mounts++
	if md.MountErr != nil {
		return nil, md.MountErr
	}
	return &memVolume{md: md}, nil
}

type memVolume struct {
	md      *MemDev
	unmount bool
}

func (v *memVolume) Label() string {
	return v.md.VolumeLabel
}

func (v *memVolume) ReadFile(p string) ([]byte, error) {
	if v.unmount {
		return nil, errors.New("volume unmounted")
	}
	v.md.Reads = append(v.md.Reads, p)
	b, ok := v.md.Files[p]
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, fs.ErrNotExist)
	}
	return append([]byte(nil), b...), nil
}

func (v *memVolume) Unmount() error {
	if v.unmount {
		return errors.New("already unmounted")
	}
	v.unmount = true
	v.md.Unmounts++
	return nil
}
