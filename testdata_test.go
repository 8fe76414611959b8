// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "encoding/binary"

// minimalMZ returns a 64-byte MZ stub with e_lfanew set to elfanew and
// no PE header following it (the "plain DOS binary" case).
func minimalMZ(elfanew uint32) []byte {
	b := make([]byte, 64)
	b[0], b[1] = 'M', 'Z'
	binary.LittleEndian.PutUint32(b[60:64], elfanew)
	return b
}

// sectionSpec describes one section to bake into a synthetic PE image.
type sectionSpec struct {
	name string
	data []byte
	vsz  uint32 // virtual size; defaults to len(data) when zero
}

// peImageSpec describes the knobs buildPE understands.
type peImageSpec struct {
	pe32Plus   bool
	sections   []sectionSpec
	importRVA  uint32
	importSize uint32
	// buildPE only sets the import data-directory entry; callers that
	// need a real import directory build it by hand into a section's
	// data.
}

const elfanewOffset = 0x40

// buildPE assembles a minimal, syntactically valid MZ+PE image: a
// 64-byte MZ stub, a PE signature + COFF header + optional header
// (PE32 or PE32+) with the import data directory set from spec, and
// one 40-byte section header per entry in spec.sections, followed by
// each section's raw bytes back to back, file-aligned on nothing in
// particular (this package places no alignment requirement on test
// fixtures).
func buildPE(spec peImageSpec) []byte {
	numSections := uint16(len(spec.sections))

	var optHeaderSize uint32
	if spec.pe32Plus {
		optHeaderSize = 112 + 16*8
	} else {
		optHeaderSize = 96 + 16*8
	}

	sectionHeadersAt := elfanewOffset + 24 + optHeaderSize
	sectionHeadersSize := uint32(numSections) * sectionHeaderSize
	rawDataAt := sectionHeadersAt + sectionHeadersSize

	buf := make([]byte, rawDataAt)

	// MZ stub.
	buf[0], buf[1] = 'M', 'Z'
	binary.LittleEndian.PutUint32(buf[60:64], elfanewOffset)

	// PE signature + COFF header.
	copy(buf[elfanewOffset:elfanewOffset+4], []byte{'P', 'E', 0, 0})
	coff := buf[elfanewOffset+4 : elfanewOffset+24]
	binary.LittleEndian.PutUint16(coff[0:2], 0x014c) // Machine: I386
	binary.LittleEndian.PutUint16(coff[2:4], numSections)
	binary.LittleEndian.PutUint16(coff[16:18], uint16(optHeaderSize))

	// Optional header.
	opt := buf[elfanewOffset+24 : elfanewOffset+24+optHeaderSize]
	var dirOffset uint32
	if spec.pe32Plus {
		binary.LittleEndian.PutUint16(opt[0:2], ImageNtOptionalHeader64Magic)
		dirOffset = dataDirectoryPE32PlusOffset
	} else {
		binary.LittleEndian.PutUint16(opt[0:2], ImageNtOptionalHeader32Magic)
		dirOffset = dataDirectoryPE32Offset
	}
	binary.LittleEndian.PutUint32(opt[numberOfRvaAndSizesOffset:numberOfRvaAndSizesOffset+4], 16)
	slot := dirOffset + imageDirectoryEntryImport*8
	binary.LittleEndian.PutUint32(opt[slot:slot+4], spec.importRVA)
	binary.LittleEndian.PutUint32(opt[slot+4:slot+8], spec.importSize)

	// Section headers + raw data.
	cursor := rawDataAt
	for i, s := range spec.sections {
		h := buf[sectionHeadersAt+uint32(i)*sectionHeaderSize : sectionHeadersAt+uint32(i+1)*sectionHeaderSize]
		copy(h[0:8], []byte(s.name))
		vsz := s.vsz
		if vsz == 0 {
			vsz = uint32(len(s.data))
		}
		binary.LittleEndian.PutUint32(h[8:12], vsz)
		binary.LittleEndian.PutUint32(h[12:16], cursor-rawDataAt+0x1000) // VirtualAddress
		binary.LittleEndian.PutUint32(h[16:20], uint32(len(s.data)))
		binary.LittleEndian.PutUint32(h[20:24], cursor)

		buf = append(buf, s.data...)
		cursor += uint32(len(s.data))
	}

	return buf
}
