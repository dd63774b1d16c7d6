package sanitize

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sheetscrub/sheetscrub/internal/format"
	"github.com/sheetscrub/sheetscrub/internal/log"
)

const contentXML = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"><office:body><office:spreadsheet><table:table table:name="Keep"/><table:table table:name="Ghost" table:display="false"/></office:spreadsheet></office:body></office:document-content>`

func testContext() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.WithLogger(context.Background(), log.New(&buf, false, false)), &buf
}

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	// Keep a stable order: content.xml first if present, like real files.
	names := []string{"content.xml", "mimetype", "xl/workbook.xml", "xl/worksheets/sheet1.xml"}
	for _, name := range names {
		data, ok := entries[name]
		if !ok {
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(w, data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestRunUnsupported(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext()
	_, err := Run(ctx, "legacy.xls", "out.xls", format.Options{})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}

	// The check must not touch the filesystem: a nonexistent path with a
	// known extension fails differently.
	_, err = Run(ctx, "file.unknownext", "out", format.Options{})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestRunODS(t *testing.T) {
	t.Parallel()

	t.Run("removes hidden tables", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		src := filepath.Join(dir, "in.ods")
		dst := filepath.Join(dir, "out.ods")
		writeZip(t, src, map[string]string{"mimetype": "application/vnd.oasis.opendocument.spreadsheet", "content.xml": contentXML})

		ctx, _ := testContext()
		sum, err := Run(ctx, src, dst, format.Options{RemoveHiddenSheets: true})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if sum.Kind != format.KindODS || sum.Pruned != 1 {
			t.Errorf("summary = %+v, want 1 pruned ods", sum)
		}

		zr, err := zip.OpenReader(dst)
		if err != nil {
			t.Fatalf("output not a valid container: %v", err)
		}
		defer zr.Close()
		for _, f := range zr.File {
			if f.Name != "content.xml" {
				continue
			}
			rc, _ := f.Open()
			data, _ := io.ReadAll(rc)
			rc.Close()
			if strings.Contains(string(data), "Ghost") {
				t.Errorf("hidden table still present:\n%s", data)
			}
		}
	})

	t.Run("macro removal warns and continues", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		src := filepath.Join(dir, "in.ods")
		dst := filepath.Join(dir, "out.ods")
		writeZip(t, src, map[string]string{"content.xml": contentXML})

		ctx, diag := testContext()
		_, err := Run(ctx, src, dst, format.Options{RemoveMacros: true, RemoveHiddenSheets: true})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if !strings.Contains(diag.String(), "warning:") || !strings.Contains(diag.String(), "not supported") {
			t.Errorf("no capability warning emitted: %q", diag.String())
		}
	})
}

func TestRunCSV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "in.csv")
	dst := filepath.Join(dir, "out.csv")
	if err := os.WriteFile(src, []byte("a,b\n1,2\n3,\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, _ := testContext()
	sum, err := Run(ctx, src, dst, format.Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sum.Kind != format.KindCSV || sum.Rows != 1 || sum.DroppedRows != 1 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestRunCaseInsensitiveExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "IN.CSV")
	dst := filepath.Join(dir, "out.csv")
	if err := os.WriteFile(src, []byte("a\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, _ := testContext()
	if _, err := Run(ctx, src, dst, format.Options{}); err != nil {
		t.Fatalf("Run failed for uppercase extension: %v", err)
	}
}

func TestSummaryReport(t *testing.T) {
	t.Parallel()

	s := Summary{Kind: format.KindXLSX, Entries: 9, Dropped: 1, Rewritten: 1, Pruned: 2}
	if got := s.Report(); !strings.Contains(got, "9 entries") || !strings.Contains(got, "2 hidden") {
		t.Errorf("Report() = %q", got)
	}

	c := Summary{Kind: format.KindCSV, Rows: 4, DroppedRows: 1}
	if got := c.Report(); !strings.Contains(got, "4 rows") || !strings.Contains(got, "1 incomplete") {
		t.Errorf("Report() = %q", got)
	}
}
