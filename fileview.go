// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// FileView is a positional, read-only view over a file's bytes. It
// never tracks a current offset; every read states its own offset,
// matching the synchronous, single-threaded I/O model the rest of
// this package assumes.
type FileView struct {
	data mmap.MMap
	f    *os.File
	buf  []byte // set instead of data/f when constructed from memory
}

// OpenFileView memory-maps the file at path. It returns a *ParseError
// wrapping NotFound when the path does not exist.
func OpenFileView(path string) (*FileView, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newParseError(NotFound, "OpenFileView", err)
		}
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &FileView{data: data, f: f}, nil
}

// NewFileView wraps an in-memory buffer as a FileView, skipping the
// mmap step entirely. Used by callers that already hold the bytes
// (e.g. bytes read from a non-seekable source).
func NewFileView(buf []byte) *FileView {
	return &FileView{buf: buf}
}

func (v *FileView) bytes() []byte {
	if v.buf != nil {
		return v.buf
	}
	return v.data
}

// Len returns the total length of the view.
func (v *FileView) Len() uint32 {
	return uint32(len(v.bytes()))
}

// ReadAt returns exactly n bytes starting at offset, or a *ParseError
// wrapping Truncated if fewer than n bytes remain.
func (v *FileView) ReadAt(offset, n uint32) ([]byte, error) {
	data := v.bytes()
	end := offset + n
	if end < offset || offset > uint32(len(data)) || end > uint32(len(data)) {
		return nil, newParseError(Truncated, "ReadAt", errOutsideBoundary)
	}
	return data[offset:end], nil
}

// Close releases the mapped file, if any. Safe to call on a FileView
// built from an in-memory buffer (a no-op in that case).
func (v *FileView) Close() error {
	if v.data != nil {
		_ = v.data.Unmap()
	}
	if v.f != nil {
		return v.f.Close()
	}
	return nil
}
