// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

// rvaToOffset resolves a relative virtual address to a file offset by
// finding the first section (in file order) whose virtual address
// range [VirtualAddress, VirtualAddress+max(VirtualSize,SizeOfRawData))
// contains rva. The max() is deliberate: linkers sometimes leave
// VirtualSize smaller than SizeOfRawData, and the extra raw bytes are
// still addressable at that RVA range.
//
// It is a pure function of its inputs: the same (rva, sections) pair
// always yields the same result.
func rvaToOffset(rva uint32, sections []Section) (uint32, error) {
	for _, s := range sections {
		span := s.VirtualSize
		if s.SizeOfRawData > span {
			span = s.SizeOfRawData
		}
		if rva >= s.VirtualAddress && rva < s.VirtualAddress+span {
			return s.PointerToRawData + (rva - s.VirtualAddress), nil
		}
	}
	return 0, newParseError(UnresolvableRVA, "rvaToOffset", errRVAOutsideAnySection)
}
