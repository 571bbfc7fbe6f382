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

package gecko

import (
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang/glog"
	"github.com/google/gekkoboot/internal/hw"
	"github.com/google/gekkoboot/internal/payload"
)

var (
	// ErrNotPresent is returned when there is no Gecko in the slot.
	ErrNotPresent = errors.New("not present")
	// ErrProtocolTimeout is returned when the host doesn't answer the
	// ready code in time.
	ErrProtocolTimeout = errors.New("PC did not respond in time")
	// ErrEmptyPayload is returned when the host announces an image of size
	// zero or less.
	ErrEmptyPayload = errors.New("DOL is empty")
	// ErrAllocation is returned when there is no room for the image.
	ErrAllocation = errors.New("couldn't allocate memory for DOL file")
)

var errNoAck = errors.New("no ack")

const (
	// ackTimeout bounds the wait for the host to answer TargetReady.
	ackTimeout = 5 * time.Second
	// ackReceiveTimeout is how long each single byte receive may wait.
	ackReceiveTimeout = 20 * time.Millisecond
	// ackPollInterval is the pause between two receive attempts.
	ackPollInterval = 10 * time.Millisecond
	// settleDelay gives the host time to start listening before TargetOK is
	// sent; some hosts drop the byte otherwise.
	settleDelay = 100 * time.Millisecond
)

// Loader receives an image over one Gecko channel.
type Loader struct {
	// Slot names the memory card slot, "A" or "B".
	Slot    string
	Channel hw.SerialChannel
	Clock   hw.Clock
	Mem     hw.Allocator
	// Timer paces the ack polling; nil uses a real timer.
	Timer backoff.Timer
}

// Name implements boot.Source.
func (l *Loader) Name() string {
	return "USB Gecko in slot " + l.Slot
}

// Load runs the console side of the handshake and receives the image into
// p.Image. It never touches p.Argv.
//
// On error p is left untouched.
func (l *Loader) Load(p *payload.Payload) error {
	if l.Channel == nil || !l.Channel.Present() {
		return ErrNotPresent
	}

	l.Channel.Flush()

	glog.Info("Sending ready")
	if err := l.Channel.Send([]byte{TargetReady}); err != nil {
		return fmt.Errorf("failed to send ready: %w", err)
	}

	glog.Infof("Waiting for ack (%s timeout)...", ackTimeout)
	ack, err := l.awaitAck()
	if err != nil {
		return err
	}

	if ack == HostReady {
		glog.Info("Respond with OK")
		l.Clock.Sleep(settleDelay)
		if err := l.Channel.Send([]byte{TargetOK}); err != nil {
			return fmt.Errorf("failed to send OK: %w", err)
		}
	}

	glog.Info("Getting DOL size")
	var wire [4]byte
	if _, err := l.Channel.Receive(wire[:], 0); err != nil {
		return fmt.Errorf("failed to receive size: %w", err)
	}
	size := DecodeSize(wire)
	if size <= 0 {
		return ErrEmptyPayload
	}
	glog.Infof("DOL size is %dB", size)

	img, err := l.Mem.Alloc(int(size))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	glog.Info("Receiving file...")
	if err := chunks(img, func(b []byte) error {
		_, err := l.Channel.Receive(b, 0)
		return err
	}); err != nil {
		return fmt.Errorf("failed to receive DOL: %w", err)
	}

	p.Image = img
	return nil
}

// awaitAck polls for HostReady or HostOK until ackTimeout has elapsed on
// l.Clock. Any other byte is ignored.
func (l *Loader) awaitAck() (byte, error) {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     ackPollInterval,
		RandomizationFactor: 0,
		Multiplier:          1,
		MaxInterval:         ackPollInterval,
		MaxElapsedTime:      ackTimeout,
		Stop:                backoff.Stop,
		Clock:               l.Clock,
	}

	var ack byte
	op := func() error {
		var c [1]byte
		n, err := l.Channel.Receive(c[:], ackReceiveTimeout)
		if err != nil && !errors.Is(err, hw.ErrTimeout) {
			return backoff.Permanent(fmt.Errorf("failed to receive ack: %w", err))
		}
		if n == 1 && (c[0] == HostReady || c[0] == HostOK) {
			ack = c[0]
			return nil
		}
		return errNoAck
	}

	if err := backoff.RetryNotifyWithTimer(op, b, nil, l.Timer); err != nil {
		if errors.Is(err, errNoAck) {
			return 0, ErrProtocolTimeout
		}
		return 0, err
	}
	return ack, nil
}
