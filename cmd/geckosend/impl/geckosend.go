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

// Package impl is the implementation of the Gecko image sender.
package impl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/google/gekkoboot/internal/gecko"
	"github.com/google/gekkoboot/internal/serial"
)

// SendOpts encapsulates the parameters for sending an image.
type SendOpts struct {
	TTY     string
	Image   string
	Timeout time.Duration
}

// Main is the entry point for geckosend.
func Main(opts SendOpts) error {
	if opts.Image == "" {
		return errors.New("--image is required")
	}
	img, err := os.ReadFile(opts.Image)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	port, err := serial.Open(opts.TTY)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	return send(ctx, port, img)
}

// send transfers img over rwc, then closes it. Closing rwc is the only way
// to interrupt a blocked read, so it is also closed as soon as ctx is done.
func send(ctx context.Context, rwc io.ReadWriteCloser, img []byte) error {
	defer rwc.Close()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			rwc.Close()
		case <-done:
		}
	}()

	err := gecko.Send(ctx, rwc, img)
	if cerr := ctx.Err(); cerr != nil {
		err = fmt.Errorf("%w (%v)", cerr, err)
	}
	if err != nil {
		return err
	}
	glog.Infof("Sent %d bytes", len(img))
	return nil
}
