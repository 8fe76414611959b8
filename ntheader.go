// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"bytes"
	"encoding/binary"
)

// coffHeader is the 20-byte IMAGE_FILE_HEADER that immediately
// follows the 4-byte "PE\x00\x00" signature.
type coffHeader struct {
	Machine              uint16
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      uint16
}

const coffHeaderSize = 20

// peHeader is everything parsePEHeader produces: the COFF header, the
// optional header variant flag, and the raw import data-directory
// entry (zero value when absent).
type peHeader struct {
	COFF        coffHeader
	IsPE32Plus  bool
	ImportRVA   uint32
	ImportSize  uint32
	sectionsAt  uint32 // file offset of the section header array
}

// parsePEHeader parses the IMAGE_NT_HEADERS structure at peOffset:
// the "PE\x00\x00" signature, the COFF file header, and enough of the
// optional header to recover the PE32/PE32+ magic and the import data
// directory entry (data directory slot 1).
func parsePEHeader(view *FileView, peOffset uint32) (peHeader, error) {
	hdr, err := view.ReadAt(peOffset, 24)
	if err != nil {
		return peHeader{}, newParseError(Truncated, "parsePEHeader", err)
	}

	if !bytes.Equal(hdr[0:4], []byte{'P', 'E', 0, 0}) {
		return peHeader{}, newParseError(BadPESignature, "parsePEHeader", errPESignatureNotFound)
	}

	var coff coffHeader
	coff.Machine = binary.LittleEndian.Uint16(hdr[4:6])
	coff.NumberOfSections = binary.LittleEndian.Uint16(hdr[6:8])
	coff.TimeDateStamp = binary.LittleEndian.Uint32(hdr[8:12])
	coff.PointerToSymbolTable = binary.LittleEndian.Uint32(hdr[12:16])
	coff.NumberOfSymbols = binary.LittleEndian.Uint32(hdr[16:20])
	coff.SizeOfOptionalHeader = binary.LittleEndian.Uint16(hdr[20:22])
	coff.Characteristics = binary.LittleEndian.Uint16(hdr[22:24])

	optHeaderOffset := peOffset + 24
	optHeader, err := view.ReadAt(optHeaderOffset, uint32(coff.SizeOfOptionalHeader))
	if err != nil {
		return peHeader{}, newParseError(Truncated, "parsePEHeader", err)
	}
	if len(optHeader) < 2 {
		return peHeader{}, newParseError(Truncated, "parsePEHeader", errOutsideBoundary)
	}

	magic := binary.LittleEndian.Uint16(optHeader[0:2])

	var isPE32Plus bool
	switch magic {
	case ImageNtOptionalHeader32Magic:
		isPE32Plus = false
	case ImageNtOptionalHeader64Magic:
		isPE32Plus = true
	default:
		return peHeader{}, newParseError(UnknownOptionalMagic, "parsePEHeader", errOptionalMagicUnknown)
	}

	var importRVA, importSize uint32
	if int(numberOfRvaAndSizesOffset)+4 <= len(optHeader) {
		numRvaSizes := binary.LittleEndian.Uint32(optHeader[numberOfRvaAndSizesOffset : numberOfRvaAndSizesOffset+4])
		if numRvaSizes >= 2 {
			dirOffset := dataDirectoryPE32Offset
			if isPE32Plus {
				dirOffset = dataDirectoryPE32PlusOffset
			}
			// Slot 1 (import directory) is the second 8-byte entry.
			slotOffset := dirOffset + imageDirectoryEntryImport*8
			if slotOffset+8 <= len(optHeader) {
				importRVA = binary.LittleEndian.Uint32(optHeader[slotOffset : slotOffset+4])
				importSize = binary.LittleEndian.Uint32(optHeader[slotOffset+4 : slotOffset+8])
			}
		}
	}

	sectionsAt := optHeaderOffset + uint32(coff.SizeOfOptionalHeader)

	return peHeader{
		COFF:       coff,
		IsPE32Plus: isPE32Plus,
		ImportRVA:  importRVA,
		ImportSize: importSize,
		sectionsAt: sectionsAt,
	}, nil
}

