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

package emu

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/gekkoboot/internal/hw"
)

// Channel is an hw.SerialChannel over a host byte stream.
//
// A goroutine reads the stream into a buffer as soon as bytes arrive, like
// the EXI FIFO does on the real adapter.
type Channel struct {
	rwc io.ReadWriteCloser

	mu     sync.Mutex
	buf    []byte
	err    error
	closed bool
	// more is signalled whenever buf grows or err is set.
	more chan struct{}
}

var _ hw.SerialChannel = &Channel{}

// NewChannel starts reading from rwc. Close must be called to release it.
func NewChannel(rwc io.ReadWriteCloser) *Channel {
	c := &Channel{
		rwc:  rwc,
		more: make(chan struct{}, 1),
	}
	go c.readLoop()
	return c
}

func (c *Channel) readLoop() {
	b := make([]byte, 4096)
	for {
		n, err := c.rwc.Read(b)
		c.mu.Lock()
		c.buf = append(c.buf, b[:n]...)
		if err != nil {
			c.err = err
		}
		c.mu.Unlock()
		c.signal()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) {
				glog.V(1).Infof("Serial read: %v", err)
			}
			return
		}
	}
}

func (c *Channel) signal() {
	select {
	case c.more <- struct{}{}:
	default:
	}
}

// Present reports true until the channel is closed.
func (c *Channel) Present() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *Channel) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf = nil
}

func (c *Channel) Send(p []byte) error {
	_, err := c.rwc.Write(p)
	return err
}

func (c *Channel) Receive(p []byte, timeout time.Duration) (int, error) {
	var deadline <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}

	n := 0
	for {
		c.mu.Lock()
		m := copy(p[n:], c.buf)
		c.buf = c.buf[m:]
		n += m
		err := c.err
		c.mu.Unlock()

		if n == len(p) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		select {
		case <-c.more:
		case <-deadline:
			return n, hw.ErrTimeout
		}
	}
}

// Close closes the underlying stream, which also stops the reader.
func (c *Channel) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return c.rwc.Close()
}
