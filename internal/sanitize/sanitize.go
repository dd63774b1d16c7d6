// Package sanitize dispatches an input file to the pipeline for its format
// family and runs it end to end.
//
// The family is resolved exactly once, from the extension; an unrecognized
// extension fails before anything on the filesystem is touched.
package sanitize

import (
	"context"
	"errors"
	"fmt"

	"github.com/sheetscrub/sheetscrub/internal/archive"
	"github.com/sheetscrub/sheetscrub/internal/format"
	"github.com/sheetscrub/sheetscrub/internal/log"
	"github.com/sheetscrub/sheetscrub/internal/tabular"
)

// ErrUnsupportedType is returned for input extensions sheetscrub
// doesn't handle.
var ErrUnsupportedType = errors.New("unsupported file type")

// Summary reports what one run did, for the final output line.
type Summary struct {
	Kind format.Kind

	// Container families
	Entries   int
	Dropped   int
	Rewritten int
	Pruned    int

	// Tabular family
	Rows        int
	DroppedRows int
}

// Report renders the summary as one human-readable line.
func (s Summary) Report() string {
	if s.Kind == format.KindCSV {
		return fmt.Sprintf("kept %d rows, dropped %d incomplete", s.Rows, s.DroppedRows)
	}
	return fmt.Sprintf("processed %d entries: %d dropped, %d rewritten, %d hidden elements removed",
		s.Entries, s.Dropped, s.Rewritten, s.Pruned)
}

// Run sanitizes input into output according to opts. Any returned error is
// terminal for the run; recoverable per-entry problems are logged by the
// pipelines and do not surface here.
func Run(ctx context.Context, input, output string, opts format.Options) (Summary, error) {
	l := log.FromContext(ctx)

	kind := format.Detect(input)
	switch kind {
	case format.KindXLSX, format.KindODS:
		if kind == format.KindODS && opts.RemoveMacros {
			l.Warnf("macro removal is not supported for ods files; continuing without it")
		}
		stats, err := archive.Transcode(ctx, input, output, opts, format.ProfileFor(kind))
		if err != nil {
			return Summary{Kind: kind}, err
		}
		return Summary{
			Kind:      kind,
			Entries:   stats.Entries,
			Dropped:   stats.Dropped,
			Rewritten: stats.Rewritten,
			Pruned:    stats.Pruned,
		}, nil
	case format.KindCSV:
		stats, err := tabular.Filter(ctx, input, output, opts)
		if err != nil {
			return Summary{Kind: kind}, err
		}
		return Summary{Kind: kind, Rows: stats.Rows, DroppedRows: stats.Dropped}, nil
	default:
		return Summary{}, fmt.Errorf("%s: %w (supported: .xlsx, .xlsm, .ods, .csv)", input, ErrUnsupportedType)
	}
}
