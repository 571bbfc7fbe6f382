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

// geckosend sends an image to a console waiting in gekkoboot, over a USB
// Gecko.
//
// Usage:
//
//	go run ./cmd/geckosend --logtostderr --tty=/dev/ttyUSB0 --image=/path/to/app.dol
package main

import (
	"flag"

	"github.com/golang/glog"
	"github.com/google/gekkoboot/cmd/geckosend/impl"
)

var (
	ttyPath = flag.String("tty", "/dev/ttyUSB0", "Serial device of the USB Gecko")
	image   = flag.String("image", "", "File path of the image to send")
	timeout = flag.Duration("timeout", 0, "Give up after this long, 0 waits forever")
)

func main() {
	flag.Parse()

	if err := impl.Main(impl.SendOpts{
		TTY:     *ttyPath,
		Image:   *image,
		Timeout: *timeout,
	}); err != nil {
		glog.Exit(err.Error())
	}
}
