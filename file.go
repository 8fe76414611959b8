// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"strings"

	pelog "github.com/binscope/pe/log"
)

// ParsedImage is the parsed view of a PE/MZ image: the section table
// with its raw bytes, and the import directory (empty if the image
// has none). It is the sole owner of both slices; callers must not
// mutate the backing arrays.
type ParsedImage struct {
	IsPE32Plus bool     `json:"is_pe32_plus"`
	Sections   []Section `json:"sections"`
	Imports    []Import  `json:"imports"`
}

// Options configures a parse. The zero value is a valid configuration:
// a nil Logger defaults to a stdout logger filtered to LevelError,
// matching the teacher's own default (silent for ordinary parses, but
// not a true no-op). Callers that want a hard no-op can pass
// log.NewNopLogger() explicitly.
type Options struct {
	// Logger receives non-fatal diagnostics: a warning for each
	// section whose raw data cannot be read. Unresolved DLL or
	// function names are not logged.
	// A nil Logger defaults to log.NewStdLogger(os.Stdout) filtered
	// to LevelError.
	Logger pelog.Logger
}

// File is an open PE/MZ image plus whatever ParsedImage its Parse
// call produced.
type File struct {
	ParsedImage

	view   *FileView
	opts   Options
	logger *pelog.Helper
}

// Open memory-maps the file at path and returns a File ready to
// Parse. The caller must Close it, on every exit path including a
// later parse failure.
func Open(path string, opts *Options) (*File, error) {
	view, err := OpenFileView(path)
	if err != nil {
		return nil, err
	}
	return newFile(view, opts), nil
}

// OpenBytes wraps an in-memory buffer as a File ready to Parse. Close
// is still safe to call (it is a no-op).
func OpenBytes(data []byte, opts *Options) *File {
	return newFile(NewFileView(data), opts)
}

func newFile(view *FileView, opts *Options) *File {
	f := &File{view: view}
	if opts != nil {
		f.opts = *opts
	}
	if f.opts.Logger == nil {
		f.opts.Logger = pelog.NewFilter(pelog.NewStdLogger(os.Stdout), pelog.FilterLevel(pelog.LevelError))
	}
	f.logger = pelog.NewHelper(f.opts.Logger)
	return f
}

// Close releases the underlying file view.
func (f *File) Close() error {
	return f.view.Close()
}

// Parse runs the full MZ -> PE -> sections -> imports pipeline and
// populates f.ParsedImage. A plain DOS (non-PE) binary is not an
// error: it parses to an empty ParsedImage.
func (f *File) Parse() error {
	stub, err := parseDOSStub(f.view)
	if err != nil {
		return err
	}

	peOffset := stub.addressOfNewEXEHeader

	sig, err := f.view.ReadAt(peOffset, 4)
	if err != nil || sig[0] != 'P' || sig[1] != 'E' || sig[2] != 0 || sig[3] != 0 {
		// Not a PE: this is a plain DOS binary, which is success, not
		// an error, per the MZ-parser design.
		return nil
	}

	hdr, err := parsePEHeader(f.view, peOffset)
	if err != nil {
		return err
	}
	f.IsPE32Plus = hdr.IsPE32Plus

	sections, err := parseSectionHeaders(f.view, hdr.sectionsAt, hdr.COFF.NumberOfSections, f.logger)
	if err != nil {
		return err
	}
	f.Sections = sections

	if hdr.ImportRVA != 0 {
		imports, err := parseImportDirectory(f.view, sections, hdr.ImportRVA, hdr.IsPE32Plus)
		if err != nil {
			return err
		}
		f.Imports = imports
	}

	return nil
}

// ImportHash computes a malware-triage-style import hash: each
// "dllname.functionname" pair (DLL name lowercased with a trailing
// ".dll" removed, function name lowercased, ordinal imports spelled
// "ordN") joined by commas in parse order and hashed with MD5. The
// pairs are not sorted, so a different DLL or function order gives a
// different hash. An image with no imports hashes to "".
func (f *File) ImportHash() string {
	if len(f.Imports) == 0 {
		return ""
	}

	var parts []string
	for _, imp := range f.Imports {
		dll := strings.ToLower(strings.TrimSuffix(strings.ToLower(imp.DLLName), ".dll"))
		for _, fn := range imp.Functions {
			name := fn
			if strings.HasPrefix(name, "Ordinal_") {
				name = "ord" + strings.TrimPrefix(name, "Ordinal_")
			}
			parts = append(parts, dll+"."+strings.ToLower(name))
		}
	}

	sum := md5.Sum([]byte(strings.Join(parts, ",")))
	return hex.EncodeToString(sum[:])
}
