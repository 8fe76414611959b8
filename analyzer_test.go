// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"reflect"
	"testing"
)

// Scenario #7: pattern search over a blob with two overlapping-free
// occurrences.
func TestFindPatterns(t *testing.T) {
	blobs := []MachineCode{
		{Code: []byte{0x55, 0x8B, 0xEC, 0x00, 0x55, 0x8B, 0xEC}, VirtualAddress: 0x1000},
	}
	got := FindPatterns(blobs, []byte{0x55, 0x8B, 0xEC})
	want := map[int][]uint32{0: {0x1000, 0x1004}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFindPatterns_EmptyPatternReturnsNil(t *testing.T) {
	blobs := []MachineCode{{Code: []byte{1, 2, 3}}}
	if got := FindPatterns(blobs, nil); got != nil {
		t.Fatalf("expected nil for an empty pattern, got %v", got)
	}
}

// A blob with no match is omitted from the result map entirely.
func TestFindPatterns_NoMatchOmitted(t *testing.T) {
	blobs := []MachineCode{
		{Code: []byte{0x01, 0x02}, VirtualAddress: 0},
		{Code: []byte{0x55, 0x8B, 0xEC}, VirtualAddress: 0x2000},
	}
	got := FindPatterns(blobs, []byte{0x55, 0x8B, 0xEC})
	if _, ok := got[0]; ok {
		t.Fatalf("expected blob 0 to be omitted, got %v", got)
	}
	if want := []uint32{0x2000}; !reflect.DeepEqual(got[1], want) {
		t.Fatalf("expected %v, got %v", want, got[1])
	}
}

// Scenario #8: printable-ASCII extraction with a minimum run length of
// 4; a run shorter than the threshold is discarded.
func TestFindStrings(t *testing.T) {
	blobs := []MachineCode{
		{Code: []byte("\x00Hello\x00Hi\x00World!\x00"), VirtualAddress: 0},
	}
	got := FindStrings(blobs, 4)
	want := []StringMatch{
		{Address: 1, Value: "Hello"},
		{Address: 10, Value: "World!"},
	}
	if !reflect.DeepEqual(got[0], want) {
		t.Fatalf("expected %v, got %v", want, got[0])
	}
}

func TestFindStrings_DefaultMinLength(t *testing.T) {
	blobs := []MachineCode{{Code: []byte("abc")}}
	got := FindStrings(blobs, 0)
	if len(got[0]) != 0 {
		t.Fatalf("expected a 3-byte run below the default threshold to be dropped, got %v", got[0])
	}
}

// P8: extracting strings twice from the same bytes yields identical
// output.
func TestFindStrings_Idempotent(t *testing.T) {
	blobs := []MachineCode{
		{Code: []byte("\x00Hello\x00Hi\x00World!\x00"), VirtualAddress: 0x400},
	}
	first := FindStrings(blobs, 4)
	second := FindStrings(blobs, 4)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output across calls, got %v vs %v", first, second)
	}
}

func TestByteFrequency_SortedByCountThenByte(t *testing.T) {
	blobs := []MachineCode{
		{Code: []byte{0x01, 0x02, 0x02, 0x03, 0x03, 0x03}},
	}
	got := ByteFrequency(blobs)
	want := []ByteCount{
		{Byte: 0x03, Count: 3},
		{Byte: 0x02, Count: 2},
		{Byte: 0x01, Count: 1},
	}
	if !reflect.DeepEqual(got[0], want) {
		t.Fatalf("expected %v, got %v", want, got[0])
	}
}

func TestByteFrequency_TiesBrokenByByteValue(t *testing.T) {
	blobs := []MachineCode{{Code: []byte{0x05, 0x01}}}
	got := ByteFrequency(blobs)
	want := []ByteCount{{Byte: 0x01, Count: 1}, {Byte: 0x05, Count: 1}}
	if !reflect.DeepEqual(got[0], want) {
		t.Fatalf("expected ascending byte order on tied counts, got %v", got[0])
	}
}
