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
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/golang/glog"
)

// Send plays the host side of the protocol over rw and transfers img.
//
// Bytes other than the expected codes are skipped. Send gives up when ctx is
// done, but a Read blocked on rw is only interrupted by closing rw.
func Send(ctx context.Context, rw io.ReadWriter, img []byte) error {
	if len(img) == 0 {
		return errors.New("image is empty")
	}
	if len(img) > math.MaxInt32 {
		return fmt.Errorf("image too large (%d bytes)", len(img))
	}

	glog.Info("Waiting for console...")
	if err := expect(ctx, rw, TargetReady); err != nil {
		return fmt.Errorf("waiting for ready: %w", err)
	}
	if _, err := rw.Write([]byte{HostReady}); err != nil {
		return fmt.Errorf("failed to send ready: %w", err)
	}
	if err := expect(ctx, rw, TargetOK); err != nil {
		return fmt.Errorf("waiting for OK: %w", err)
	}

	size := EncodeSize(uint32(len(img)))
	if _, err := rw.Write(size[:]); err != nil {
		return fmt.Errorf("failed to send size: %w", err)
	}
	glog.Infof("Sending %d bytes", len(img))
	sent := 0
	return chunks(img, func(b []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := rw.Write(b); err != nil {
			return fmt.Errorf("failed to send image at offset %d: %w", sent, err)
		}
		sent += len(b)
		glog.V(1).Infof("Sent %d/%d", sent, len(img))
		return nil
	})
}

// expect reads from r until it sees want.
func expect(ctx context.Context, r io.Reader, want byte) error {
	var c [1]byte
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(c[:])
		if err != nil {
			return err
		}
		if n == 1 && c[0] == want {
			return nil
		}
		if n == 1 {
			glog.V(1).Infof("Skipping unexpected byte %#02x", c[0])
		}
	}
}
