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

// Package testonly provides fake hardware for tests.
package testonly

import (
	"fmt"
	"io"
	"time"

	"github.com/google/gekkoboot/internal/hw"
)

// Epoch is the time a new Clock starts at.
var Epoch = time.Date(2001, time.September, 14, 0, 0, 0, 0, time.UTC)

// Clock is a manually advanced hw.Clock. Sleep advances it.
type Clock struct {
	now time.Time
}

// NewClock returns a clock set to Epoch.
func NewClock() *Clock {
	return &Clock{now: Epoch}
}

func (c *Clock) Now() time.Time          { return c.now }
func (c *Clock) Sleep(d time.Duration)   { c.now = c.now.Add(d) }
func (c *Clock) Elapsed() time.Duration  { return c.now.Sub(Epoch) }
func (c *Clock) Advance(d time.Duration) { c.Sleep(d) }

// Timer is a backoff.Timer which fires immediately, advancing its clock by
// the requested duration.
type Timer struct {
	Clock *Clock
	c     chan time.Time
}

func (t *Timer) Start(d time.Duration) {
	if t.c == nil {
		t.c = make(chan time.Time, 1)
	}
	t.Clock.Advance(d)
	t.c <- t.Clock.Now()
}

func (t *Timer) Stop() {}

func (t *Timer) C() <-chan time.Time { return t.c }

// Arena is an hw.Allocator with a fixed capacity which counts allocations.
type Arena struct {
	Size   int
	used   int
	Allocs int
}

func (a *Arena) Alloc(n int) ([]byte, error) {
	a.Allocs++
	if n > a.Available() {
		return nil, fmt.Errorf("%w: want %d bytes, have %d", hw.ErrNoMemory, n, a.Available())
	}
	a.used += n
	return make([]byte, n), nil
}

func (a *Arena) Available() int {
	return a.Size - a.used
}

// Receive records one call to Channel.Receive.
type Receive struct {
	N       int
	Timeout time.Duration
}

// Channel is a scripted hw.SerialChannel. The simulated peer answers each
// byte the console sends with the bytes in Replies.
type Channel struct {
	// Absent makes Present return false.
	Absent bool
	// Replies maps a byte sent by the console to the peer's answer.
	Replies map[byte][]byte
	// Clock is advanced by the timeout of every receive which times out.
	Clock *Clock

	// Pending holds bytes received but not read yet.
	Pending []byte
	// Sent records everything the console sent.
	Sent []byte
	// Receives records every call to Receive.
	Receives []Receive
	// Flushes counts calls to Flush.
	Flushes int
}

var _ hw.SerialChannel = &Channel{}

func (c *Channel) Present() bool { return !c.Absent }

func (c *Channel) Flush() {
	c.Flushes++
	c.Pending = nil
}

func (c *Channel) Send(p []byte) error {
	for _, b := range p {
		c.Sent = append(c.Sent, b)
		c.Pending = append(c.Pending, c.Replies[b]...)
	}
	return nil
}

func (c *Channel) Receive(p []byte, timeout time.Duration) (int, error) {
	c.Receives = append(c.Receives, Receive{N: len(p), Timeout: timeout})
	n := copy(p, c.Pending)
	c.Pending = c.Pending[n:]
	if n == len(p) {
		return n, nil
	}
	if timeout == 0 {
		// The real channel would block forever.
		return n, io.ErrUnexpectedEOF
	}
	if c.Clock != nil {
		c.Clock.Advance(timeout)
	}
	return n, hw.ErrTimeout
}
