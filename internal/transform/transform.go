// Package transform decides, per archive entry, whether the entry passes
// through verbatim, is rewritten, or is dropped from the output.
//
// XML-level failures never cross this boundary as errors: a descriptor
// entry that can't be parsed is reported as a warning and copied verbatim,
// so one bad part never aborts the surrounding transcode (fail-open).
package transform

import (
	"bytes"
	"context"

	"github.com/sheetscrub/sheetscrub/internal/format"
	"github.com/sheetscrub/sheetscrub/internal/log"
	"github.com/sheetscrub/sheetscrub/internal/prune"
	"github.com/sheetscrub/sheetscrub/internal/xmltree"
)

// Outcome says what the transcoder should do with an entry.
type Outcome int

const (
	// Unchanged: write the original bytes.
	Unchanged Outcome = iota
	// Replace: write Result.Bytes instead of the original payload.
	Replace
	// Drop: omit the entry from the output entirely.
	Drop
)

// Result is the outcome of transforming one entry.
type Result struct {
	Outcome Outcome
	// Bytes is the replacement payload when Outcome is Replace.
	Bytes []byte
	// Pruned counts hidden elements removed when Outcome is Replace.
	Pruned int
}

// Entry inspects one named entry against the active options and profile.
// Only two entries ever change: the macro binary (dropped) and the sheet
// descriptor (pruned and re-serialized in its source encoding). Everything
// else passes through unchanged.
func Entry(ctx context.Context, name string, raw []byte, opts format.Options, p *format.Profile) Result {
	l := log.FromContext(ctx)

	if opts.RemoveMacros && p.MacroEntry != "" && name == p.MacroEntry {
		l.Infof("removing macro project %s", name)
		return Result{Outcome: Drop}
	}

	if opts.RemoveHiddenSheets && name == p.DescriptorEntry {
		doc, err := xmltree.Parse(bytes.NewReader(raw))
		if err != nil {
			l.Warnf("cannot parse %s: %v; copying entry verbatim", name, err)
			return Result{Outcome: Unchanged}
		}

		res := prune.Hidden(doc, p)
		for _, id := range res.Names {
			l.Infof("removing hidden %s %s from %s", p.ElementLocal, id, name)
		}

		out, err := doc.Bytes()
		if err != nil {
			l.Warnf("cannot serialize %s: %v; copying entry verbatim", name, err)
			return Result{Outcome: Unchanged}
		}
		return Result{Outcome: Replace, Bytes: out, Pruned: res.Removed}
	}

	return Result{Outcome: Unchanged}
}
