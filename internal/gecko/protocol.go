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

// Package gecko implements the USB Gecko boot protocol.
//
// A host sends an image to the console over a USB Gecko plugged into one of
// the memory card slots. Both sides first exchange single byte readiness
// codes; the host then sends the image size followed by the image itself:
//
//	console                      host
//	TargetReady  ------------->
//	             <-------------  HostReady
//	TargetOK     ------------->
//	             <-------------  size (4 bytes, little endian)
//	             <-------------  image
//
// A host which answers HostOK instead of HostReady skips the TargetOK step.
package gecko

import "encoding/binary"

// Handshake codes.
const (
	HostReady   byte = 0x80
	HostOK      byte = 0x81
	TargetReady byte = 0x88
	TargetOK    byte = 0x89
)

// MaxTransfer is the largest single receive the Gecko driver can do.
const MaxTransfer = 0xF7D8

// ReverseBytes returns b with its byte order reversed.
func ReverseBytes(b [4]byte) [4]byte {
	return [4]byte{b[3], b[2], b[1], b[0]}
}

// DecodeSize converts the size field as received on the wire to the image
// size. The wire order is the reverse of the console's native big endian
// order.
func DecodeSize(wire [4]byte) int32 {
	n := ReverseBytes(wire)
	return int32(binary.BigEndian.Uint32(n[:]))
}

// EncodeSize is the inverse of DecodeSize.
func EncodeSize(size uint32) [4]byte {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], size)
	return ReverseBytes(n)
}

// chunks calls f with consecutive sub-slices of b of at most MaxTransfer bytes.
func chunks(b []byte, f func([]byte) error) error {
	for len(b) > 0 {
		l := len(b)
		if l > MaxTransfer {
			l = MaxTransfer
		}
		if err := f(b[:l]); err != nil {
			return err
		}
		b = b[l:]
	}
	return nil
}
