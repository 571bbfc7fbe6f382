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

// Package ext4fs serves a storage slot from an ext4 filesystem image or
// block device.
package ext4fs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/dsoprea/go-ext4"
	"github.com/google/gekkoboot/internal/storage"
)

// volumeNameOffset is the offset of s_volume_name within the superblock.
const volumeNameOffset = 0x78

// Device is an ext4 partition inside a host file.
type Device struct {
	// Path is the image file or block device.
	Path string
	// Offset is the start of the partition within Path.
	Offset int64
}

var _ storage.Device = &Device{}

// Mount opens the image and checks that it holds an ext4 superblock.
func (d *Device) Mount() (storage.Volume, error) {
	f, err := os.Open(d.Path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := fi.Size() - d.Offset
	if size <= 0 {
		f.Close()
		return nil, fmt.Errorf("partition offset %d beyond end of %s", d.Offset, d.Path)
	}

	p := &Partition{r: io.NewSectionReader(f, d.Offset, size), c: f}
	label, err := p.label()
	if err != nil {
		f.Close()
		return nil, err
	}
	p.volumeLabel = label
	return p, nil
}

// Partition is a mounted ext4 filesystem.
type Partition struct {
	r           *io.SectionReader
	c           io.Closer
	volumeLabel string
}

// label validates the superblock and returns the volume name stored in it.
func (p *Partition) label() (l string, err error) {
	defer recoverInto(&err)
	if _, err := p.r.Seek(ext4.Superblock0Offset, io.SeekStart); err != nil {
		return "", err
	}
	if _, err := ext4.NewSuperblockWithReader(p.r); err != nil {
		return "", fmt.Errorf("no ext4 superblock: %w", err)
	}
	return volumeLabel(p.r)
}

// volumeLabel reads the NUL padded volume name of the superblock.
func volumeLabel(r io.ReaderAt) (string, error) {
	var name [16]byte
	if _, err := r.ReadAt(name[:], int64(ext4.Superblock0Offset)+volumeNameOffset); err != nil {
		return "", fmt.Errorf("failed to read volume name: %w", err)
	}
	if i := bytes.IndexByte(name[:], 0); i >= 0 {
		return string(name[:i]), nil
	}
	return string(name[:]), nil
}

// recoverInto turns a panic raised inside the ext4 parser into an error.
func recoverInto(err *error) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*err = fmt.Errorf("ext4: %w", e)
			return
		}
		*err = fmt.Errorf("ext4: %v", r)
	}
}

func (p *Partition) Label() string {
	return p.volumeLabel
}

func (p *Partition) getBlockGroupDescriptor(inode int) (*ext4.BlockGroupDescriptor, error) {
	if _, err := p.r.Seek(ext4.Superblock0Offset, io.SeekStart); err != nil {
		return nil, err
	}
	sb, err := ext4.NewSuperblockWithReader(p.r)
	if err != nil {
		return nil, err
	}
	bgdl, err := ext4.NewBlockGroupDescriptorListWithReadSeeker(p.r, sb)
	if err != nil {
		return nil, err
	}
	return bgdl.GetWithAbsoluteInode(inode)
}

// ReadFile walks the directory tree from the root inode down to fullPath
// and reads the file's extents.
func (p *Partition) ReadFile(fullPath string) (buf []byte, err error) {
	defer recoverInto(&err)

	path := strings.Split(strings.TrimPrefix(fullPath, "/"), "/")

	bgd, err := p.getBlockGroupDescriptor(ext4.InodeRootDirectory)
	if err != nil {
		return nil, err
	}
	dw, err := ext4.NewDirectoryWalk(p.r, bgd, ext4.InodeRootDirectory)
	if err != nil {
		return nil, err
	}

	var i, inodeNumber int
	for inodeNumber == 0 {
		name, de, err := dw.Next()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
		if name != path[i] {
			continue
		}

		deInode := int(de.Data().Inode)
		if bgd, err = p.getBlockGroupDescriptor(deInode); err != nil {
			return nil, err
		}
		if i == len(path)-1 {
			inodeNumber = deInode
			break
		}
		if dw, err = ext4.NewDirectoryWalk(p.r, bgd, deInode); err != nil {
			return nil, err
		}
		i++
	}
	if inodeNumber == 0 {
		return nil, &fs.PathError{Op: "read", Path: fullPath, Err: fs.ErrNotExist}
	}

	inode, err := ext4.NewInodeWithReadSeeker(bgd, p.r, inodeNumber)
	if err != nil {
		return nil, err
	}
	en := ext4.NewExtentNavigatorWithReadSeeker(p.r, inode)
	return io.ReadAll(ext4.NewInodeReader(en))
}

// Unmount closes the image file.
func (p *Partition) Unmount() error {
	return p.c.Close()
}
