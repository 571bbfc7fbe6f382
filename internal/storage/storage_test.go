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

package storage_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/gekkoboot/internal/payload"
	"github.com/google/gekkoboot/internal/shortcut"
	"github.com/google/gekkoboot/internal/storage"
	"github.com/google/gekkoboot/internal/storage/testonly"
	"github.com/google/go-cmp/cmp"
)

func fields(s string) payload.Argv {
	return payload.EncodeArgs(strings.Fields(s))
}

func TestArgsPath(t *testing.T) {
	for _, test := range []struct {
		in, want string
	}{
		{in: "/ipl.dol", want: "/ipl.cli"},
		{in: "/b_ipl.dol", want: "/b_ipl.cli"},
		{in: "/games/swiss.elf", want: "/games/swiss.cli"},
		{in: "/noext", want: "/noext.cli"},
	} {
		if got := storage.ArgsPath(test.in); got != test.want {
			t.Errorf("ArgsPath(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestLoad(t *testing.T) {
	def := []byte("default image")
	b := []byte("b image")
	for _, test := range []struct {
		desc      string
		files     map[string][]byte
		index     int
		wantErr   error
		wantImage []byte
		wantArgs  []string
		wantReads []string
	}{
		{
			desc:      "default without args",
			files:     map[string][]byte{"/ipl.dol": def},
			wantImage: def,
			wantReads: []string{"/ipl.dol", "/ipl.cli"},
		}, {
			desc: "default with args",
			files: map[string][]byte{
				"/ipl.dol": def,
				"/ipl.cli": []byte("--fast  --debug"),
			},
			wantImage: def,
			wantArgs:  []string{"--fast", "--debug"},
			wantReads: []string{"/ipl.dol", "/ipl.cli"},
		}, {
			desc: "selected shortcut",
			files: map[string][]byte{
				"/ipl.dol":   def,
				"/ipl.cli":   []byte("default"),
				"/b_ipl.dol": b,
				"/b_ipl.cli": []byte("b"),
			},
			index:     2,
			wantImage: b,
			wantArgs:  []string{"b"},
			wantReads: []string{"/b_ipl.dol", "/b_ipl.cli"},
		}, {
			// The argument file follows the image which was actually read.
			desc: "fallback to default",
			files: map[string][]byte{
				"/ipl.dol":   def,
				"/ipl.cli":   []byte("default"),
				"/b_ipl.cli": []byte("b"),
			},
			index:     2,
			wantImage: def,
			wantArgs:  []string{"default"},
			wantReads: []string{"/b_ipl.dol", "/ipl.dol", "/ipl.cli"},
		}, {
			desc:      "nothing on the card",
			files:     map[string][]byte{"/b_ipl.cli": []byte("b")},
			index:     2,
			wantErr:   storage.ErrNoImage,
			wantReads: []string{"/b_ipl.dol", "/ipl.dol"},
		}, {
			desc:      "default missing",
			files:     map[string][]byte{},
			wantErr:   storage.ErrNoImage,
			wantReads: []string{"/ipl.dol"},
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			dev := testonly.NewMemDev(test.files)
			s := &storage.Source{
				Slot:      "sdb",
				Device:    dev,
				Shortcuts: shortcut.Default,
				Index:     test.index,
				ParseArgs: fields,
			}
			p := payload.New()

			err := s.Load(p)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("Load() = %v, want %v", err, test.wantErr)
			}
			if diff := cmp.Diff(test.wantImage, p.Image); diff != "" {
				t.Errorf("Image diff (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.wantArgs, p.Argv.Strings()); diff != "" {
				t.Errorf("args diff (-want +got):\n%s", diff)
			}
			if p.Argv.Magic != payload.ArgvMagic {
				t.Errorf("Argv.Magic = %#x, want %#x", p.Argv.Magic, payload.ArgvMagic)
			}
			if diff := cmp.Diff(test.wantReads, dev.Reads); diff != "" {
				t.Errorf("reads diff (-want +got):\n%s", diff)
			}
			if dev.Mounts != 1 || dev.Unmounts != 1 {
				t.Errorf("mounted %d times and unmounted %d times, want 1 and 1", dev.Mounts, dev.Unmounts)
			}
		})
	}
}

func TestLoadMountFailure(t *testing.T) {
	dev := testonly.NewMemDev(map[string][]byte{"/ipl.dol": []byte("x")})
	dev.MountErr = errors.New("no card")
	s := &storage.Source{Slot: "sda", Device: dev, Shortcuts: shortcut.Default, ParseArgs: fields}
	p := payload.New()

	if err := s.Load(p); !errors.Is(err, storage.ErrMount) {
		t.Fatalf("Load() = %v, want %v", err, storage.ErrMount)
	}
	if dev.Unmounts != 0 {
		t.Errorf("Unmount called %d times after failed mount", dev.Unmounts)
	}
	if diff := cmp.Diff(payload.New(), p); diff != "" {
		t.Errorf("payload changed (-want +got):\n%s", diff)
	}
}

func TestLoadNoDevice(t *testing.T) {
	s := &storage.Source{Slot: "sd2", Shortcuts: shortcut.Default, ParseArgs: fields}
	if err := s.Load(payload.New()); !errors.Is(err, storage.ErrMount) {
		t.Fatalf("Load() = %v, want %v", err, storage.ErrMount)
	}
}

func TestLoadEmptyArgsFile(t *testing.T) {
	dev := testonly.NewMemDev(map[string][]byte{
		"/ipl.dol": []byte("x"),
		"/ipl.cli": nil,
	})
	s := &storage.Source{Slot: "sdb", Device: dev, Shortcuts: shortcut.Default, ParseArgs: fields}
	p := payload.New()
	if err := s.Load(p); err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if p.Argv.Count != 0 || p.Argv.Length != 0 {
		t.Errorf("Argv = %+v, want no arguments", p.Argv)
	}
}

func TestLoadKeepsMagic(t *testing.T) {
	dev := testonly.NewMemDev(map[string][]byte{
		"/ipl.dol": []byte("x"),
		"/ipl.cli": []byte("a"),
	})
	parse := func(string) payload.Argv {
		return payload.Argv{Count: 1, CommandLine: []byte("a\x00"), Length: 2}
	}
	s := &storage.Source{Slot: "sdb", Device: dev, Shortcuts: shortcut.Default, ParseArgs: parse}
	p := payload.New()
	if err := s.Load(p); err != nil {
		t.Fatalf("Load(): %v", err)
	}
	want := payload.Argv{Magic: payload.ArgvMagic, Count: 1, CommandLine: []byte("a\x00"), Length: 2}
	if diff := cmp.Diff(want, p.Argv); diff != "" {
		t.Errorf("Argv diff (-want +got):\n%s", diff)
	}
}
