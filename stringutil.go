// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// decodeUTF8Replacing returns b decoded as UTF-8, substituting
// U+FFFD for any ill-formed byte sequence. Used for section names,
// DLL names, and import function names, none of which are guaranteed
// to be valid UTF-8 on disk.
func decodeUTF8Replacing(b []byte) string {
	out, _, err := transform.Bytes(runes.ReplaceIllFormed(), b)
	if err != nil {
		return string(utf8.RuneError)
	}
	return string(out)
}

// trimTrailingNULs drops a trailing run of NUL bytes, the way an
// 8-byte section name is padded.
func trimTrailingNULs(b []byte) []byte {
	return bytes.TrimRight(b, "\x00")
}

// readCStringAt reads a NUL-terminated byte run starting at offset in
// view, decodes it with decodeUTF8Replacing, and returns it. It fails
// with Truncated if offset is outside the view or no terminator is
// found before the view ends.
func readCStringAt(view *FileView, offset uint32) (string, error) {
	data := view.bytes()
	if offset > uint32(len(data)) {
		return "", newParseError(Truncated, "readCStringAt", errOutsideBoundary)
	}
	end := offset
	for end < uint32(len(data)) && data[end] != 0 {
		end++
	}
	if end >= uint32(len(data)) {
		return "", newParseError(Truncated, "readCStringAt", errOutsideBoundary)
	}
	return decodeUTF8Replacing(data[offset:end]), nil
}
