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

package boot

import (
	"errors"

	"github.com/golang/glog"
	"github.com/google/gekkoboot/internal/gecko"
	"github.com/google/gekkoboot/internal/hw"
	"github.com/google/gekkoboot/internal/payload"
	"github.com/google/gekkoboot/internal/storage"
)

// ErrAllSourcesExhausted is returned when no source produced an image.
var ErrAllSourcesExhausted = errors.New("no DOL loaded")

// Source is one place an image can be loaded from.
type Source interface {
	// Name identifies the source in logs.
	Name() string
	// Load fills in p, or returns an error and leaves p.Image unset.
	Load(p *payload.Payload) error
}

// Chain is an ordered list of sources.
type Chain []Source

// Load tries each source in turn and returns the first one which loaded an
// image. Sources after it are never invoked.
func (c Chain) Load(p *payload.Payload) (Source, error) {
	for _, s := range c {
		glog.Infof("Trying %s...", s.Name())
		err := s.Load(p)
		if err == nil && p.Loaded() {
			return s, nil
		}
		if err == nil {
			err = errors.New("nothing loaded")
		}
		glog.Infof("%s: %v", s.Name(), err)
	}
	return nil, ErrAllSourcesExhausted
}

// NewChain returns the sources in boot priority order: the Gecko in slot B,
// the card in slot B, the Gecko in slot A, the card in slot A and finally
// the SD2SP2. Every storage source uses the shortcut at index.
func NewChain(cfg Config, index int) Chain {
	m := cfg.Machine
	gk := func(slot string, ch hw.SerialChannel) Source {
		return &gecko.Loader{Slot: slot, Channel: ch, Clock: m.Clock, Mem: m.Mem}
	}
	sd := func(slot string, d storage.Device) Source {
		return &storage.Source{
			Slot:      slot,
			Device:    d,
			Shortcuts: cfg.shortcuts(),
			Index:     index,
			ParseArgs: cfg.parseArgs(),
		}
	}
	return Chain{
		gk("B", m.GeckoB),
		sd("sdb", cfg.SDB),
		gk("A", m.GeckoA),
		sd("sda", cfg.SDA),
		sd("sd2", cfg.SD2),
	}
}
