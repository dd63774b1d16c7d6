// Package archive rewrites one ZIP container into another, routing selected
// entries through the entry transformer and copying everything else
// byte-for-byte.
//
// Untouched entries are transferred with OpenRaw/CreateRaw, so their
// compressed payload, compression method, CRC and metadata survive exactly.
// Entry order in the output always equals entry order in the input.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/sheetscrub/sheetscrub/internal/format"
	"github.com/sheetscrub/sheetscrub/internal/log"
	"github.com/sheetscrub/sheetscrub/internal/transform"
)

// Stats summarizes one transcode for the final report.
type Stats struct {
	// Entries is the number of entries read from the source.
	Entries int
	// Dropped counts entries omitted from the output (macro binaries).
	Dropped int
	// Rewritten counts entries whose payload was replaced.
	Rewritten int
	// Pruned counts hidden elements removed across rewritten entries.
	Pruned int
}

// Transcode streams every entry of the source container into a fresh
// destination container. On any failure the partially written destination
// is removed; a destination file only survives a successful run.
//
// Error identity follows the stdlib sentinels: a missing source wraps
// fs.ErrNotExist, a pre-existing destination without the overwrite option
// wraps fs.ErrExist, and a structurally invalid source wraps zip.ErrFormat.
func Transcode(ctx context.Context, src, dst string, opts format.Options, p *format.Profile) (Stats, error) {
	l := log.FromContext(ctx)

	if !opts.Overwrite {
		if _, err := os.Lstat(dst); err == nil {
			return Stats{}, fmt.Errorf("output %s: %w", dst, fs.ErrExist)
		}
	}

	zr, err := zip.OpenReader(src)
	if err != nil {
		return Stats{}, fmt.Errorf("open %s: %w", src, err)
	}
	defer zr.Close()

	out, err := os.Create(dst)
	if err != nil {
		return Stats{}, fmt.Errorf("create %s: %w", dst, err)
	}
	zw := zip.NewWriter(out)

	fail := func(err error) (Stats, error) {
		zw.Close()
		out.Close()
		os.Remove(dst)
		return Stats{}, err
	}

	var stats Stats
	for _, f := range zr.File {
		stats.Entries++

		trigger := (opts.RemoveMacros && p.MacroEntry != "" && f.Name == p.MacroEntry) ||
			(opts.RemoveHiddenSheets && f.Name == p.DescriptorEntry)
		if !trigger {
			l.Debugf("copying %s (%d bytes)", f.Name, f.UncompressedSize64)
			if err := copyRaw(zw, f); err != nil {
				return fail(fmt.Errorf("copy %s: %w", f.Name, err))
			}
			continue
		}

		raw, err := readEntry(f)
		if err != nil {
			return fail(fmt.Errorf("read %s: %w", f.Name, err))
		}

		res := transform.Entry(ctx, f.Name, raw, opts, p)
		switch res.Outcome {
		case transform.Drop:
			stats.Dropped++
		case transform.Unchanged:
			if err := copyRaw(zw, f); err != nil {
				return fail(fmt.Errorf("copy %s: %w", f.Name, err))
			}
		case transform.Replace:
			if err := writeReplacement(zw, f, res.Bytes); err != nil {
				return fail(fmt.Errorf("rewrite %s: %w", f.Name, err))
			}
			stats.Rewritten++
			stats.Pruned += res.Pruned
		}
	}

	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(dst)
		return Stats{}, fmt.Errorf("finalize %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return Stats{}, fmt.Errorf("close %s: %w", dst, err)
	}
	return stats, nil
}

// copyRaw transfers an entry without recompressing it. The header copy
// keeps name, method, timestamps, permissions, sizes and CRC intact.
func copyRaw(zw *zip.Writer, f *zip.File) error {
	rc, err := f.OpenRaw()
	if err != nil {
		return err
	}
	hdr := f.FileHeader
	w, err := zw.CreateRaw(&hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, rc)
	return err
}

// readEntry decompresses one entry fully into memory. Corruption (bad CRC,
// truncated stream) surfaces here.
func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// writeReplacement stores new payload bytes under the original entry's
// header. Sizes and CRC are recomputed by the writer; method and metadata
// carry over.
func writeReplacement(zw *zip.Writer, f *zip.File, payload []byte) error {
	hdr := f.FileHeader
	hdr.CRC32 = 0
	hdr.CompressedSize64 = 0
	hdr.UncompressedSize64 = 0
	w, err := zw.CreateHeader(&hdr)
	if err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}
