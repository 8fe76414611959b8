// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "testing"

func TestParseDOSStub_BadMagic(t *testing.T) {
	data := minimalMZ(0x40)
	data[0] = 'X'

	_, err := parseDOSStub(NewFileView(data))
	if err == nil {
		t.Fatal("expected an error for a bad MZ signature")
	}
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != BadMZSignature {
		t.Fatalf("expected BadMZSignature, got %v", err)
	}
}

func TestParseDOSStub_Truncated(t *testing.T) {
	_, err := parseDOSStub(NewFileView(minimalMZ(0x40)[:32]))
	if err == nil {
		t.Fatal("expected Truncated for a file shorter than 64 bytes")
	}
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != Truncated {
		t.Fatalf("expected Truncated, got %v", err)
	}
}

func TestParseDOSStub_ReadsElfanew(t *testing.T) {
	stub, err := parseDOSStub(NewFileView(minimalMZ(0x80)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.addressOfNewEXEHeader != 0x80 {
		t.Fatalf("expected e_lfanew 0x80, got 0x%x", stub.addressOfNewEXEHeader)
	}
}

// Scenario #1: a minimal MZ file with no PE header parses successfully
// with empty sections and imports.
func TestParse_PlainDOSBinary(t *testing.T) {
	f := OpenBytes(minimalMZ(0), &Options{})
	defer f.Close()

	if err := f.Parse(); err != nil {
		t.Fatalf("plain DOS binary should parse without error, got %v", err)
	}
	if len(f.Sections) != 0 || len(f.Imports) != 0 {
		t.Fatalf("expected empty sections/imports, got %d/%d", len(f.Sections), len(f.Imports))
	}
}
