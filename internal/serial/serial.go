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

// Package serial opens the host side of a USB Gecko: a tty in raw mode.
package serial

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
	tty "github.com/mattn/go-tty"
)

// Port is a raw tty.
type Port struct {
	t       *tty.TTY
	restore func() error
}

// Open opens the tty at path and switches it to raw mode.
func Open(path string) (*Port, error) {
	t, err := tty.OpenDevice(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	restore, err := t.Raw()
	if err != nil {
		t.Close()
		return nil, fmt.Errorf("failed to set %s to raw mode: %w", path, err)
	}
	glog.V(1).Infof("Opened %s", path)
	return &Port{t: t, restore: restore}, nil
}

func (p *Port) Read(b []byte) (int, error) {
	return p.t.Input().Read(b)
}

func (p *Port) Write(b []byte) (int, error) {
	return p.t.Output().Write(b)
}

// Close restores the terminal settings and closes the device, which also
// unblocks a pending Read.
func (p *Port) Close() error {
	return errors.Join(
		p.restore(),
		p.t.Close(),
		p.t.Input().Close(),
		p.t.Output().Close(),
	)
}
