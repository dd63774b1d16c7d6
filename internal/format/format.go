// Package format defines the supported spreadsheet families and the static
// sanitization profile for each container-based family.
//
// The family of an input file is decided once, from its extension, and every
// downstream component receives the resolved [Profile] rather than re-probing
// the file. Exactly one profile is active per run.
package format

import (
	"path/filepath"
	"strings"
)

// Kind identifies the spreadsheet family of an input file.
type Kind int

const (
	// KindUnknown is returned for extensions sheetscrub doesn't handle.
	KindUnknown Kind = iota
	// KindXLSX covers OOXML workbooks (.xlsx, .xlsm).
	KindXLSX
	// KindODS covers OpenDocument spreadsheets (.ods).
	KindODS
	// KindCSV covers flat comma-separated files (.csv).
	KindCSV
)

// String returns the family name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindXLSX:
		return "xlsx"
	case KindODS:
		return "ods"
	case KindCSV:
		return "csv"
	default:
		return "unknown"
	}
}

// Detect resolves the family from the input path's extension,
// case-insensitively. It never touches the filesystem.
func Detect(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return KindXLSX
	case ".ods":
		return KindODS
	case ".csv":
		return KindCSV
	default:
		return KindUnknown
	}
}

// Options holds the sanitization switches threaded through a run.
// The struct is read-only once a run starts.
type Options struct {
	RemoveMacros       bool
	RemoveHiddenSheets bool
	Overwrite          bool
}

// Profile describes where a container family keeps its macro binary and its
// sheet/table descriptor, and how that descriptor marks an element hidden.
type Profile struct {
	// Kind is the family this profile belongs to.
	Kind Kind

	// MacroEntry is the archive entry dropped by macro removal.
	// Empty when the family has no removable macro part.
	MacroEntry string

	// DescriptorEntry is the archive entry holding the sheet/table list.
	DescriptorEntry string

	// ElementSpace and ElementLocal select the candidate elements inside
	// the descriptor (namespace URI + local name, matched anywhere in the
	// tree).
	ElementSpace string
	ElementLocal string

	// HiddenAttr is the attribute inspected on each candidate, resolved in
	// HiddenAttrSpace when non-empty. HiddenValues are the attribute
	// values that mark the element hidden; an absent attribute means
	// HiddenDefault.
	HiddenAttr      string
	HiddenAttrSpace string
	HiddenValues    []string
	// HiddenDefault is the hidden-ness assumed when the attribute is
	// absent. OOXML sheets default to visible; so do ODS tables.
	HiddenDefault bool

	// NameAttr and NameAttrSpace locate the human-readable identifier
	// used in diagnostics (sheetId for OOXML, table:name for ODS).
	NameAttr      string
	NameAttrSpace string
}

// Namespace URIs of the two container families.
const (
	SpreadsheetMLMain = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	ODFOfficeNS       = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	ODFTableNS        = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
)

// XLSX is the OOXML workbook profile: sheets live in xl/workbook.xml and are
// hidden when state="hidden" or state="veryHidden"; macros are the
// xl/vbaProject.bin part.
var XLSX = Profile{
	Kind:            KindXLSX,
	MacroEntry:      "xl/vbaProject.bin",
	DescriptorEntry: "xl/workbook.xml",
	ElementSpace:    SpreadsheetMLMain,
	ElementLocal:    "sheet",
	HiddenAttr:      "state",
	HiddenValues:    []string{"hidden", "veryHidden"},
	NameAttr:        "sheetId",
}

// ODS is the OpenDocument profile: tables live in content.xml and are hidden
// when table:display="false" (absent means displayed). ODF macros are not a
// single droppable entry, so MacroEntry is empty.
var ODS = Profile{
	Kind:            KindODS,
	DescriptorEntry: "content.xml",
	ElementSpace:    ODFTableNS,
	ElementLocal:    "table",
	HiddenAttr:      "display",
	HiddenAttrSpace: ODFTableNS,
	HiddenValues:    []string{"false"},
	NameAttr:        "name",
	NameAttrSpace:   ODFTableNS,
}

// ProfileFor returns the profile for a container family, or nil for families
// that don't use one (CSV, unknown).
func ProfileFor(k Kind) *Profile {
	switch k {
	case KindXLSX:
		return &XLSX
	case KindODS:
		return &ODS
	default:
		return nil
	}
}
