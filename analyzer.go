// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"bytes"
	"sort"
)

// MachineCode is a blob of raw bytes to run static analysis over,
// together with the address it would be mapped at. VirtualAddress and
// RawAddress are zero when the blob was synthesized from a loose
// .bin file rather than read out of a section.
type MachineCode struct {
	Code           []byte
	VirtualAddress uint32
	RawAddress     uint32
}

// SectionsAsMachineCode returns a MachineCode view over every section
// whose raw data was read successfully, in section order, for callers
// that want to run FindPatterns, ByteFrequency or FindStrings over a
// parsed image's code.
func (f *File) SectionsAsMachineCode() []MachineCode {
	var blobs []MachineCode
	for _, s := range f.Sections {
		if len(s.RawData) == 0 {
			continue
		}
		blobs = append(blobs, MachineCode{
			Code:           s.RawData,
			VirtualAddress: s.VirtualAddress,
			RawAddress:     s.PointerToRawData,
		})
	}
	return blobs
}

// PatternMatch is one occurrence of a searched-for byte pattern.
type PatternMatch struct {
	Address uint32
}

// ByteCount pairs a byte value with how often it occurred.
type ByteCount struct {
	Byte  byte
	Count int
}

// StringMatch is one printable-ASCII run found by FindStrings.
type StringMatch struct {
	Address uint32
	Value   string
}

// FindPatterns scans the blobs at the given indices (or every blob,
// when indices is empty) for a non-empty byte pattern and returns,
// for each blob index with at least one match, the virtual addresses
// of every occurrence. Blobs with no match are omitted from the
// result.
func FindPatterns(blobs []MachineCode, pattern []byte, indices ...int) map[int][]uint32 {
	if len(pattern) == 0 {
		return nil
	}

	targets := indices
	if len(targets) == 0 {
		targets = make([]int, len(blobs))
		for i := range blobs {
			targets[i] = i
		}
	}

	results := make(map[int][]uint32)
	for _, idx := range targets {
		if idx < 0 || idx >= len(blobs) {
			continue
		}
		blob := blobs[idx]

		var addrs []uint32
		start := 0
		for {
			pos := bytes.Index(blob.Code[start:], pattern)
			if pos < 0 {
				break
			}
			offset := start + pos
			addrs = append(addrs, blob.VirtualAddress+uint32(offset))
			start = offset + 1
		}

		if len(addrs) > 0 {
			results[idx] = addrs
		}
	}
	return results
}

// ByteFrequency returns, for each blob, a histogram of byte values
// sorted by descending count, with ties broken by ascending byte
// value.
func ByteFrequency(blobs []MachineCode) [][]ByteCount {
	out := make([][]ByteCount, len(blobs))
	for i, blob := range blobs {
		var counts [256]int
		for _, b := range blob.Code {
			counts[b]++
		}

		var hist []ByteCount
		for b := 0; b < 256; b++ {
			if counts[b] > 0 {
				hist = append(hist, ByteCount{Byte: byte(b), Count: counts[b]})
			}
		}
		sort.Slice(hist, func(i, j int) bool {
			if hist[i].Count != hist[j].Count {
				return hist[i].Count > hist[j].Count
			}
			return hist[i].Byte < hist[j].Byte
		})
		out[i] = hist
	}
	return out
}

const (
	asciiPrintableMin = 0x20
	asciiPrintableMax = 0x7E

	// DefaultMinStringLength is the minimum run length FindStrings
	// emits a match for, unless overridden.
	DefaultMinStringLength = 4
)

// FindStrings extracts maximal runs of printable ASCII bytes
// (0x20-0x7E inclusive) at least minLength long from each blob. A
// minLength <= 0 uses DefaultMinStringLength. Extraction is a pure
// function of the blob's bytes, so calling it twice on the same blob
// yields identical results.
func FindStrings(blobs []MachineCode, minLength int) [][]StringMatch {
	if minLength <= 0 {
		minLength = DefaultMinStringLength
	}

	out := make([][]StringMatch, len(blobs))
	for i, blob := range blobs {
		var matches []StringMatch
		runStart := -1
		code := blob.Code
		for pos := 0; pos <= len(code); pos++ {
			printable := pos < len(code) && code[pos] >= asciiPrintableMin && code[pos] <= asciiPrintableMax
			if printable {
				if runStart < 0 {
					runStart = pos
				}
				continue
			}
			if runStart >= 0 {
				if pos-runStart >= minLength {
					matches = append(matches, StringMatch{
						Address: blob.VirtualAddress + uint32(runStart),
						Value:   string(code[runStart:pos]),
					})
				}
				runStart = -1
			}
		}
		out[i] = matches
	}
	return out
}
