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

package impl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gekkoboot/internal/boot"
	"github.com/google/go-cmp/cmp"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestEmulator(t *testing.T) {
	for _, test := range []struct {
		desc    string
		sdb     map[string]string
		gecko   string
		buttons string
		// want is the image booted, empty when nothing is.
		want string
	}{
		{
			desc: "default from card",
			sdb:  map[string]string{"ipl.dol": "default", "ipl.cli": "--verbose"},
			want: "default",
		}, {
			desc:    "shortcut from card",
			sdb:     map[string]string{"ipl.dol": "default", "x_ipl.dol": "x"},
			buttons: "X",
			want:    "x",
		}, {
			desc:  "gecko beats card",
			sdb:   map[string]string{"ipl.dol": "default"},
			gecko: "from the host",
			want:  "from the host",
		}, {
			desc:    "skip",
			sdb:     map[string]string{"ipl.dol": "default"},
			buttons: "left",
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			dir := t.TempDir()
			card := filepath.Join(dir, "card")
			writeFiles(t, card, test.sdb)
			out := filepath.Join(dir, "out.dol")

			opts := EmulatorOpts{
				SDB:     "dir:" + card,
				Buttons: test.buttons,
				Output:  out,
			}
			if test.gecko != "" {
				img := filepath.Join(dir, "gecko.dol")
				writeFiles(t, dir, map[string]string{"gecko.dol": test.gecko})
				opts.GeckoB = "send:" + img
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := Main(ctx, opts); err != nil {
				t.Fatalf("Main(): %v", err)
			}

			got, err := os.ReadFile(out)
			if test.want == "" {
				if !errors.Is(err, os.ErrNotExist) {
					t.Errorf("image written when nothing was booted")
				}
				return
			}
			if err != nil {
				t.Fatalf("failed to read booted image: %v", err)
			}
			if diff := cmp.Diff(test.want, string(got)); diff != "" {
				t.Errorf("booted image diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMainHalts(t *testing.T) {
	card := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := Main(ctx, EmulatorOpts{SDA: "dir:" + card, GeckoA: "send:" + filepath.Join(card, "missing.dol")})
	if err == nil {
		t.Fatal("Main() succeeded with a missing Gecko image")
	}

	err = Main(ctx, EmulatorOpts{SDA: "dir:" + card})
	if !errors.Is(err, boot.ErrAllSourcesExhausted) {
		t.Fatalf("Main() = %v, want %v", err, boot.ErrAllSourcesExhausted)
	}
}

func TestMainBadOptions(t *testing.T) {
	for _, opts := range []EmulatorOpts{
		{Buttons: "A,turbo"},
		{SDA: "fat:/tmp"},
		{SDB: "dir:"},
		{GeckoA: "usb:/dev/ttyUSB0"},
		{Shortcuts: filepath.Join(t.TempDir(), "missing.yaml")},
		{Stub: filepath.Join(t.TempDir(), "missing.bin")},
	} {
		if err := Main(context.Background(), opts); err == nil {
			t.Errorf("Main(%+v) succeeded", opts)
		}
	}
}
