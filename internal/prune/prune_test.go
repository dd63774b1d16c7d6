package prune

import (
	"slices"
	"strings"
	"testing"

	"github.com/sheetscrub/sheetscrub/internal/format"
	"github.com/sheetscrub/sheetscrub/internal/xmltree"
)

func parseString(t *testing.T, s string) *xmltree.Document {
	t.Helper()
	doc, err := xmltree.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

func TestHiddenWorkbook(t *testing.T) {
	t.Parallel()

	const ns = format.SpreadsheetMLMain

	t.Run("removes hidden and veryHidden sheets", func(t *testing.T) {
		t.Parallel()
		doc := parseString(t, `<workbook xmlns="`+ns+`"><sheets>`+
			`<sheet name="A" sheetId="1"/>`+
			`<sheet name="B" sheetId="2" state="hidden"/>`+
			`<sheet name="C" sheetId="3" state="veryHidden"/>`+
			`<sheet name="D" sheetId="4" state="visible"/>`+
			`</sheets></workbook>`)

		res := Hidden(doc, &format.XLSX)
		if res.Removed != 2 {
			t.Errorf("Removed = %d, want 2", res.Removed)
		}
		if !slices.Equal(res.Names, []string{"2", "3"}) {
			t.Errorf("Names = %v, want [2 3]", res.Names)
		}
		if got := len(doc.FindAll(ns, "sheet")); got != 2 {
			t.Errorf("%d sheets remain, want 2", got)
		}
	})

	t.Run("absent state means visible", func(t *testing.T) {
		t.Parallel()
		doc := parseString(t, `<workbook xmlns="`+ns+`"><sheets><sheet name="A" sheetId="1"/></sheets></workbook>`)

		res := Hidden(doc, &format.XLSX)
		if res.Removed != 0 {
			t.Errorf("Removed = %d, want 0", res.Removed)
		}
	})

	t.Run("no matching elements is not an error", func(t *testing.T) {
		t.Parallel()
		doc := parseString(t, `<workbook xmlns="`+ns+`"><bookViews/></workbook>`)

		res := Hidden(doc, &format.XLSX)
		if res.Removed != 0 || len(res.Names) != 0 {
			t.Errorf("Result = %+v, want zero", res)
		}
	})

	t.Run("falls back to traversal index without name attribute", func(t *testing.T) {
		t.Parallel()
		doc := parseString(t, `<workbook xmlns="`+ns+`"><sheets>`+
			`<sheet name="A"/>`+
			`<sheet name="B" state="hidden"/>`+
			`</sheets></workbook>`)

		res := Hidden(doc, &format.XLSX)
		if !slices.Equal(res.Names, []string{"#1"}) {
			t.Errorf("Names = %v, want [#1]", res.Names)
		}
	})
}

func TestHiddenContent(t *testing.T) {
	t.Parallel()

	const header = `<office:document-content xmlns:office="` + format.ODFOfficeNS + `" xmlns:table="` + format.ODFTableNS + `">`

	t.Run("removes tables with display false", func(t *testing.T) {
		t.Parallel()
		doc := parseString(t, header+`<office:body><office:spreadsheet>`+
			`<table:table table:name="Keep"><table:table-row/></table:table>`+
			`<table:table table:name="Ghost" table:display="false"/>`+
			`</office:spreadsheet></office:body></office:document-content>`)

		res := Hidden(doc, &format.ODS)
		if res.Removed != 1 {
			t.Fatalf("Removed = %d, want 1", res.Removed)
		}
		if !slices.Equal(res.Names, []string{"Ghost"}) {
			t.Errorf("Names = %v, want [Ghost]", res.Names)
		}
		if got := len(doc.FindAll(format.ODFTableNS, "table")); got != 1 {
			t.Errorf("%d tables remain, want 1", got)
		}
	})

	t.Run("absent display attribute means displayed", func(t *testing.T) {
		t.Parallel()
		doc := parseString(t, header+`<office:body><table:table table:name="Keep"/></office:body></office:document-content>`)

		res := Hidden(doc, &format.ODS)
		if res.Removed != 0 {
			t.Errorf("Removed = %d, want 0", res.Removed)
		}
	})

	t.Run("display true is kept", func(t *testing.T) {
		t.Parallel()
		doc := parseString(t, header+`<office:body><table:table table:name="Keep" table:display="true"/></office:body></office:document-content>`)

		res := Hidden(doc, &format.ODS)
		if res.Removed != 0 {
			t.Errorf("Removed = %d, want 0", res.Removed)
		}
	})
}

func TestHiddenIdempotent(t *testing.T) {
	t.Parallel()

	doc := parseString(t, `<workbook xmlns="`+format.SpreadsheetMLMain+`"><sheets>`+
		`<sheet name="A" sheetId="1"/>`+
		`<sheet name="B" sheetId="2" state="hidden"/>`+
		`</sheets></workbook>`)

	first := Hidden(doc, &format.XLSX)
	if first.Removed != 1 {
		t.Fatalf("first pass Removed = %d, want 1", first.Removed)
	}
	second := Hidden(doc, &format.XLSX)
	if second.Removed != 0 {
		t.Errorf("second pass Removed = %d, want 0", second.Removed)
	}
}
