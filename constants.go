// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// Image executable signatures. MZ/ZM mark a DOS executable stub; the
// rest are signatures of 16-bit executable formats that also begin
// with an MZ stub but are not PE files.
const (
	ImageDOSSignature   = 0x5A4D // MZ
	ImageDOSZMSignature = 0x4D5A // ZM

	// 16-bit New Executable, used by Windows 1.0-3.x and OS/2.
	ImageOS2Signature = 0x454E

	// Linear Executable, used by 32-bit OS/2 and some DOS extenders.
	ImageOS2LESignature = 0x454C

	// LE/LX executables, used by Windows VxD files.
	ImageVXDSignature = 0x584C

	// Terse Executables have a 'VZ' signature.
	ImageTESignature = 0x5A56

	// PE00, the signature of the IMAGE_NT_HEADERS structure.
	ImageNTSignature = 0x00004550
)

// Optional header magic values identifying PE32 vs PE32+.
const (
	ImageNtOptionalHeader32Magic = 0x10b
	ImageNtOptionalHeader64Magic = 0x20b
)

// Import-directory layout constants.
const (
	imageDirectoryEntryImport = 1
	numberOfRvaAndSizesOffset = 88
	dataDirectoryPE32Offset   = 96
	dataDirectoryPE32PlusOffset = 112

	imageOrdinalFlag32 = uint32(0x80000000)
	imageOrdinalFlag64 = uint64(0x8000000000000000)

	sectionHeaderSize    = 40
	importDescriptorSize = 20
)

// TinyPESize is the smallest PE file Windows XP (x32) will load.
const TinyPESize = 97
