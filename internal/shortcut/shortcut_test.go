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

package shortcut

import (
	"testing"

	"github.com/google/gekkoboot/internal/hw"
	"github.com/google/go-cmp/cmp"
)

func TestSelect(t *testing.T) {
	for _, test := range []struct {
		desc string
		held hw.Buttons
		want int
	}{
		{
			desc: "nothing held",
			want: 0,
		}, {
			desc: "unmapped button",
			held: hw.ButtonDown,
			want: 0,
		}, {
			desc: "single match",
			held: hw.ButtonX,
			want: 3,
		}, {
			desc: "first configured entry wins",
			held: hw.ButtonY | hw.ButtonB,
			want: 2,
		}, {
			desc: "extra buttons ignored",
			held: hw.ButtonStart | hw.ButtonDown,
			want: 6,
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			if got := Default.Select(test.held); got != test.want {
				t.Errorf("Select(%v) = %d, want %d", test.held, got, test.want)
			}
		})
	}
}

func TestSelectIgnoresDefaultButtons(t *testing.T) {
	tbl := Table{
		{Path: "/ipl.dol", Buttons: hw.ButtonA},
		{Path: "/b.dol", Buttons: hw.ButtonB},
	}
	if got := tbl.Select(hw.ButtonA); got != 0 {
		t.Errorf("Select(A) = %d, want 0", got)
	}
}

func TestValidate(t *testing.T) {
	for _, test := range []struct {
		desc    string
		tbl     Table
		wantErr bool
	}{
		{
			desc: "default table",
			tbl:  Default,
		}, {
			desc:    "empty",
			tbl:     Table{},
			wantErr: true,
		}, {
			desc:    "bad extension",
			tbl:     Table{{Path: "/ipl.elf2"}},
			wantErr: true,
		}, {
			desc:    "no extension",
			tbl:     Table{{Path: "/ipl"}},
			wantErr: true,
		}, {
			desc:    "shortcut without buttons",
			tbl:     Table{{Path: "/ipl.dol"}, {Path: "/a.dol"}},
			wantErr: true,
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			err := test.tbl.Validate()
			if gotErr := err != nil; gotErr != test.wantErr {
				t.Fatalf("Validate(): %v, wantErr %t", err, test.wantErr)
			}
		})
	}
}

func TestParse(t *testing.T) {
	for _, test := range []struct {
		desc    string
		in      string
		want    Table
		wantErr bool
	}{
		{
			desc: "full table",
			in: `
Default: /ipl.dol
Shortcuts:
  - Path: /swiss.dol
    Buttons: A
  - Path: /homebrew/menu.dol
    Buttons: X,Y
`,
			want: Table{
				{Path: "/ipl.dol"},
				{Path: "/swiss.dol", Buttons: hw.ButtonA},
				{Path: "/homebrew/menu.dol", Buttons: hw.ButtonX | hw.ButtonY},
			},
		}, {
			desc: "default only",
			in:   "Default: /boot.dol\n",
			want: Table{{Path: "/boot.dol"}},
		}, {
			desc:    "missing default",
			in:      "Shortcuts: []\n",
			wantErr: true,
		}, {
			desc: "bad button",
			in: `
Default: /ipl.dol
Shortcuts:
  - Path: /a.dol
    Buttons: turbo
`,
			wantErr: true,
		}, {
			desc:    "garbage",
			in:      "Default: [",
			wantErr: true,
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			got, err := Parse([]byte(test.in))
			if gotErr := err != nil; gotErr != test.wantErr {
				t.Fatalf("Parse(): %v, wantErr %t", err, test.wantErr)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Parse() diff (-want +got):\n%s", diff)
			}
		})
	}
}
