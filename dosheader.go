// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "encoding/binary"

// dosStub holds the handful of MZ-header fields this package actually
// needs: the signature and the pointer to the NT headers.
type dosStub struct {
	Magic         uint16
	addressOfNewEXEHeader uint32
}

// parseDOSStub reads the first 64 bytes of view, validates the MZ
// signature, and returns e_lfanew (the LE u32 at offset 60). It does
// not look past offset 64 itself; whether what e_lfanew points to is
// a PE header is decided by the caller (Parse).
func parseDOSStub(view *FileView) (dosStub, error) {
	header, err := view.ReadAt(0, 64)
	if err != nil {
		return dosStub{}, newParseError(Truncated, "parseDOSStub", err)
	}

	magic := binary.LittleEndian.Uint16(header[0:2])
	if magic != ImageDOSSignature {
		return dosStub{}, newParseError(BadMZSignature, "parseDOSStub", errDOSMagicNotFound)
	}

	elfanew := binary.LittleEndian.Uint32(header[60:64])
	return dosStub{Magic: magic, addressOfNewEXEHeader: elfanew}, nil
}
