// Package tabular rewrites flat CSV files, dropping incomplete records.
package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/sheetscrub/sheetscrub/internal/format"
	"github.com/sheetscrub/sheetscrub/internal/log"
)

// Stats summarizes one filter pass.
type Stats struct {
	// Rows is the number of data rows written (header excluded).
	Rows int
	// Dropped is the number of incomplete rows removed.
	Dropped int
}

// Filter copies src to dst, keeping the header row and every record whose
// field count matches the header and whose fields are all non-empty.
// Field order is preserved. Like the container transcoder, a partially
// written destination is removed on failure.
func Filter(ctx context.Context, src, dst string, opts format.Options) (Stats, error) {
	l := log.FromContext(ctx)

	if !opts.Overwrite {
		if _, err := os.Lstat(dst); err == nil {
			return Stats{}, fmt.Errorf("output %s: %w", dst, fs.ErrExist)
		}
	}

	in, err := os.Open(src)
	if err != nil {
		return Stats{}, fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return Stats{}, fmt.Errorf("create %s: %w", dst, err)
	}

	fail := func(err error) (Stats, error) {
		out.Close()
		os.Remove(dst)
		return Stats{}, err
	}

	r := csv.NewReader(in)
	r.FieldsPerRecord = -1 // short rows are data to filter, not a parse error
	w := csv.NewWriter(out)

	header, err := r.Read()
	if err != nil {
		return fail(fmt.Errorf("read %s: %w", src, err))
	}
	if err := w.Write(header); err != nil {
		return fail(fmt.Errorf("write %s: %w", dst, err))
	}

	var stats Stats
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(fmt.Errorf("read %s: %w", src, err))
		}
		if !complete(record, len(header)) {
			stats.Dropped++
			l.Debugf("dropping incomplete row %d", stats.Rows+stats.Dropped)
			continue
		}
		if err := w.Write(record); err != nil {
			return fail(fmt.Errorf("write %s: %w", dst, err))
		}
		stats.Rows++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fail(fmt.Errorf("write %s: %w", dst, err))
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return Stats{}, fmt.Errorf("close %s: %w", dst, err)
	}
	return stats, nil
}

// complete reports whether a record has every field the header promises.
func complete(record []string, want int) bool {
	if len(record) != want {
		return false
	}
	for _, f := range record {
		if f == "" {
			return false
		}
	}
	return true
}
