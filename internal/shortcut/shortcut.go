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

// Package shortcut holds the table mapping held buttons to boot images.
package shortcut

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/google/gekkoboot/internal/hw"
	"gopkg.in/yaml.v3"
)

// Entry is one shortcut: the image booted when any of Buttons is held.
type Entry struct {
	Path    string
	Buttons hw.Buttons
}

// Table is an ordered list of shortcuts. Entry 0 is the default image and is
// booted when no other entry matches.
type Table []Entry

// Default is the table used when no shortcut file is configured.
var Default = Table{
	{Path: "/ipl.dol"},
	{Path: "/a_ipl.dol", Buttons: hw.ButtonA},
	{Path: "/b_ipl.dol", Buttons: hw.ButtonB},
	{Path: "/x_ipl.dol", Buttons: hw.ButtonX},
	{Path: "/y_ipl.dol", Buttons: hw.ButtonY},
	{Path: "/z_ipl.dol", Buttons: hw.TriggerZ},
	{Path: "/start_ipl.dol", Buttons: hw.ButtonStart},
}

// Select returns the index of the first entry after the default whose
// buttons intersect held, or 0 if there is none.
func (t Table) Select(held hw.Buttons) int {
	for i := 1; i < len(t); i++ {
		if held&t[i].Buttons != 0 {
			return i
		}
	}
	return 0
}

// Validate checks that the table can be used by the storage loader.
func (t Table) Validate() error {
	if len(t) == 0 {
		return errors.New("missing default shortcut")
	}
	for i, e := range t {
		if e.Path == "" {
			return fmt.Errorf("shortcut %d: missing path", i)
		}
		if ext := path.Ext(e.Path); len(ext) != 4 {
			return fmt.Errorf("shortcut %d: path %q must end in a three letter extension", i, e.Path)
		}
		if i > 0 && e.Buttons == 0 {
			return fmt.Errorf("shortcut %d: no buttons", i)
		}
	}
	return nil
}

// file is the on-disk representation of a Table.
type file struct {
	Default   string `yaml:"Default"`
	Shortcuts []struct {
		Path    string `yaml:"Path"`
		Buttons string `yaml:"Buttons"`
	} `yaml:"Shortcuts"`
}

// Parse parses a YAML shortcut table, e.g.
//
//	Default: /ipl.dol
//	Shortcuts:
//	  - Path: /swiss.dol
//	    Buttons: A
//	  - Path: /homebrew/menu.dol
//	    Buttons: X,Y
func Parse(b []byte) (Table, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to parse shortcut table: %w", err)
	}
	t := Table{{Path: f.Default}}
	for i, s := range f.Shortcuts {
		btn, err := hw.ParseButtons(s.Buttons)
		if err != nil {
			return nil, fmt.Errorf("shortcut %d: %w", i+1, err)
		}
		t = append(t, Entry{Path: s.Path, Buttons: btn})
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Load reads and parses the shortcut table file at p.
func Load(p string) (Table, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read shortcut table: %w", err)
	}
	return Parse(b)
}
