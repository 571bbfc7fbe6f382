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

// Package storage loads an image, and its optional argument file, from a
// removable storage slot using the shortcut table.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang/glog"
	"github.com/google/gekkoboot/internal/payload"
	"github.com/google/gekkoboot/internal/shortcut"
)

var (
	// ErrMount is returned when the slot holds no readable filesystem.
	ErrMount = errors.New("couldn't mount")
	// ErrNoImage is returned when neither the selected shortcut nor the
	// default one exists on the volume.
	ErrNoImage = errors.New("DOL not found")
)

// Device is a storage slot which may hold a filesystem.
type Device interface {
	// Mount returns the filesystem in the slot.
	Mount() (Volume, error)
}

// Volume is a mounted filesystem.
type Volume interface {
	// Label returns the volume label, which may be empty.
	Label() string
	// ReadFile reads the whole file at the absolute path p. An absent file
	// yields an error satisfying errors.Is(err, fs.ErrNotExist).
	ReadFile(p string) ([]byte, error)
	// Unmount releases the volume.
	Unmount() error
}

// Source loads from one storage slot.
type Source struct {
	// Slot is the short name of the slot, e.g. "sdb".
	Slot string
	// Device is the slot's device; nil is an empty slot.
	Device    Device
	Shortcuts shortcut.Table
	// Index is the selected entry in Shortcuts.
	Index int
	// ParseArgs turns the contents of an argument file into an argument
	// block.
	ParseArgs func(string) payload.Argv
}

// Name implements boot.Source.
func (s *Source) Name() string {
	return s.Slot
}

// Load reads the selected shortcut into p.Image, falling back to the default
// shortcut, and its argument file into p.Argv. The volume is always
// unmounted before Load returns.
func (s *Source) Load(p *payload.Payload) error {
	if s.Device == nil {
		return fmt.Errorf("%w: %s: no device", ErrMount, s.Slot)
	}
	vol, err := s.Device.Mount()
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMount, s.Slot, err)
	}
	defer func() {
		if uerr := vol.Unmount(); uerr != nil {
			glog.Warningf("Unmount %s: %v", s.Slot, uerr)
		}
	}()
	glog.Infof("Mounted %q as %s", vol.Label(), s.Slot)

	path, img, err := s.readImage(vol)
	if err != nil {
		return err
	}

	argv := p.Argv
	cli := ArgsPath(path)
	glog.Infof("Reading %s", cli)
	text, err := vol.ReadFile(cli)
	switch {
	case err == nil:
		parsed := s.ParseArgs(string(text))
		argv.Count = parsed.Count
		argv.CommandLine = parsed.CommandLine
		argv.Length = parsed.Length
	case errors.Is(err, fs.ErrNotExist):
		glog.Infof("%s not found", cli)
	default:
		glog.Warningf("Failed to read %s: %v", cli, err)
	}

	p.Image = img
	p.Argv = argv
	return nil
}

// readImage returns the path which produced an image along with its
// contents.
func (s *Source) readImage(vol Volume) (string, []byte, error) {
	if s.Index < 0 || s.Index >= len(s.Shortcuts) {
		return "", nil, fmt.Errorf("shortcut %d out of range", s.Index)
	}
	path := s.Shortcuts[s.Index].Path
	glog.Infof("Reading %s", path)
	img, err := vol.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && s.Index != 0 {
		glog.Infof("%s not found", path)
		path = s.Shortcuts[0].Path
		glog.Infof("Reading %s", path)
		img, err = vol.ReadFile(path)
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		glog.Infof("%s not found", path)
		return "", nil, ErrNoImage
	case err != nil:
		return "", nil, fmt.Errorf("failed to read %s: %w", path, err)
	case len(img) == 0:
		return "", nil, fmt.Errorf("%s is empty", path)
	}
	return path, img, nil
}

// ArgsPath returns the argument file path for the image at p: the trailing
// three character extension is replaced by "cli".
func ArgsPath(p string) string {
	if i := strings.LastIndexByte(p, '.'); i >= 0 && len(p)-i == 4 {
		return p[:i+1] + "cli"
	}
	return p + ".cli"
}
