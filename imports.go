// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"encoding/binary"
	"strconv"
)

// Import is one DLL's import descriptor resolved into its name and
// the ordered list of functions it contributes.
type Import struct {
	DLLName   string   `json:"dll_name"`
	Functions []string `json:"functions"`
}

// importDescriptor is the transient, on-disk IMAGE_IMPORT_DESCRIPTOR.
// It never outlives parseImportDirectory.
type importDescriptor struct {
	OriginalFirstThunk uint32
	TimeDateStamp      uint32
	ForwarderChain     uint32
	Name               uint32
	FirstThunk         uint32
}

// parseImportDirectory walks the zero-terminated array of import
// descriptors starting at importRVA and resolves each DLL's import
// list, per the algorithm in the import-table design note: local
// per-DLL or per-function failures degrade to "Unknown" / truncated
// lists rather than aborting the whole parse.
func parseImportDirectory(view *FileView, sections []Section, importRVA uint32, isPE32Plus bool) ([]Import, error) {
	if importRVA == 0 {
		return nil, nil
	}

	var imports []Import
	cursor := importRVA

	for {
		offset, err := rvaToOffset(cursor, sections)
		if err != nil {
			break
		}

		raw, err := view.ReadAt(offset, importDescriptorSize)
		if err != nil {
			break
		}

		desc := importDescriptor{
			OriginalFirstThunk: binary.LittleEndian.Uint32(raw[0:4]),
			TimeDateStamp:      binary.LittleEndian.Uint32(raw[4:8]),
			ForwarderChain:     binary.LittleEndian.Uint32(raw[8:12]),
			Name:               binary.LittleEndian.Uint32(raw[12:16]),
			FirstThunk:         binary.LittleEndian.Uint32(raw[16:20]),
		}

		if desc.OriginalFirstThunk == 0 && desc.TimeDateStamp == 0 &&
			desc.ForwarderChain == 0 && desc.Name == 0 && desc.FirstThunk == 0 {
			break
		}

		dllName := "Unknown"
		if nameOffset, err := rvaToOffset(desc.Name, sections); err == nil {
			if s, err := readCStringAt(view, nameOffset); err == nil {
				dllName = s
			}
		}

		thunkRVA := desc.OriginalFirstThunk
		if thunkRVA == 0 {
			thunkRVA = desc.FirstThunk
		}

		functions := walkThunks(view, sections, thunkRVA, isPE32Plus)
		imports = append(imports, Import{DLLName: dllName, Functions: functions})

		cursor += importDescriptorSize
	}

	return imports, nil
}

// walkThunks reads the thunk array starting at thunkRVA until a zero
// entry or a short read terminates it, decoding each entry into
// either an "Ordinal_<N>" or a resolved hint/name-table string.
func walkThunks(view *FileView, sections []Section, thunkRVA uint32, isPE32Plus bool) []string {
	width := uint32(4)
	if isPE32Plus {
		width = 8
	}

	var functions []string
	for {
		offset, err := rvaToOffset(thunkRVA, sections)
		if err != nil {
			break
		}

		raw, err := view.ReadAt(offset, width)
		if err != nil {
			break
		}

		var value uint64
		var ordinalFlag uint64
		if isPE32Plus {
			value = binary.LittleEndian.Uint64(raw)
			ordinalFlag = imageOrdinalFlag64
		} else {
			value = uint64(binary.LittleEndian.Uint32(raw))
			ordinalFlag = uint64(imageOrdinalFlag32)
		}

		if value == 0 {
			break
		}

		if value&ordinalFlag != 0 {
			functions = append(functions, "Ordinal_"+strconv.FormatUint(value&0xFFFF, 10))
		} else {
			name := "Unknown"
			// The hint/name entry is a 2-byte hint followed by the
			// null-terminated name; rva-mapped entries in the thunk
			// can't exceed 32 bits even in a PE32+ image.
			if nameOffset, err := rvaToOffset(uint32(value), sections); err == nil {
				if s, err := readCStringAt(view, nameOffset+2); err == nil {
					name = s
				}
			}
			functions = append(functions, name)
		}

		thunkRVA += width
	}

	return functions
}
