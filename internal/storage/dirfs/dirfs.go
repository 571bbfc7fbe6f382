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

// Package dirfs serves a storage slot from a directory on the host.
package dirfs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/gekkoboot/internal/storage"
)

// Device is a host directory posing as a card.
type Device struct {
	// Root is the directory which is the root of the volume.
	Root string
	// VolumeLabel defaults to the base name of Root.
	VolumeLabel string
}

var _ storage.Device = &Device{}

// Mount fails if Root isn't a directory.
func (d *Device) Mount() (storage.Volume, error) {
	fi, err := os.Stat(d.Root)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", d.Root)
	}
	label := d.VolumeLabel
	if label == "" {
		label = filepath.Base(d.Root)
	}
	return &volume{fsys: os.DirFS(d.Root), label: label}, nil
}

type volume struct {
	fsys  fs.FS
	label string
}

func (v *volume) Label() string {
	return v.label
}

func (v *volume) ReadFile(p string) ([]byte, error) {
	name := strings.TrimPrefix(p, "/")
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "read", Path: p, Err: fs.ErrInvalid}
	}
	return fs.ReadFile(v.fsys, name)
}

func (v *volume) Unmount() error {
	return nil
}
