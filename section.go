// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"encoding/binary"

	pelog "github.com/binscope/pe/log"
)

// Section is one entry of the section table, with its raw bytes read
// eagerly from PointerToRawData.
type Section struct {
	Name             string `json:"name"`
	VirtualAddress   uint32 `json:"virtual_address"`
	VirtualSize      uint32 `json:"virtual_size"`
	SizeOfRawData    uint32 `json:"size_of_raw_data"`
	PointerToRawData uint32 `json:"pointer_to_raw_data"`
	RawData          []byte `json:"-"`
}

// parseSectionHeaders reads count 40-byte IMAGE_SECTION_HEADER entries
// starting at offset, in file order, and reads each section's raw
// bytes. A section whose raw-data read fails (short read past EOF)
// gets an empty RawData and a warning logged through logger, per the
// non-fatal recovery policy for subfield failures — it never aborts
// the parse.
func parseSectionHeaders(view *FileView, offset uint32, count uint16, logger *pelog.Helper) ([]Section, error) {
	headers, err := view.ReadAt(offset, uint32(count)*sectionHeaderSize)
	if err != nil {
		return nil, newParseError(Truncated, "parseSectionHeaders", err)
	}

	sections := make([]Section, 0, count)
	for i := 0; i < int(count); i++ {
		h := headers[i*sectionHeaderSize : (i+1)*sectionHeaderSize]

		name := decodeUTF8Replacing(trimTrailingNULs(h[0:8]))
		virtualSize := binary.LittleEndian.Uint32(h[8:12])
		virtualAddress := binary.LittleEndian.Uint32(h[12:16])
		sizeOfRawData := binary.LittleEndian.Uint32(h[16:20])
		pointerToRawData := binary.LittleEndian.Uint32(h[20:24])

		sec := Section{
			Name:             name,
			VirtualAddress:   virtualAddress,
			VirtualSize:      virtualSize,
			SizeOfRawData:    sizeOfRawData,
			PointerToRawData: pointerToRawData,
		}

		if sizeOfRawData > 0 {
			raw, err := view.ReadAt(pointerToRawData, sizeOfRawData)
			if err != nil {
				logger.Warnf("section %q: failed to read %d raw bytes at offset %d: %v",
					name, sizeOfRawData, pointerToRawData, err)
			} else {
				sec.RawData = raw
			}
		}

		sections = append(sections, sec)
	}

	return sections, nil
}
