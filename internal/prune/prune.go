// Package prune removes hidden sheet/table elements from a parsed
// descriptor document.
package prune

import (
	"fmt"
	"slices"

	"github.com/sheetscrub/sheetscrub/internal/format"
	"github.com/sheetscrub/sheetscrub/internal/xmltree"
)

// Result reports what Hidden removed.
type Result struct {
	// Removed is the number of elements detached from the tree.
	Removed int
	// Names identifies the removed elements for diagnostics, using the
	// profile's name attribute when present and the traversal index
	// otherwise.
	Names []string
}

// Hidden finds every element in doc matching the profile's namespace and
// local name, anywhere in the tree, and detaches the ones whose hidden
// attribute marks them hidden. Candidates are collected before any removal
// so structural mutation never skips siblings mid-traversal. A document with
// no hidden elements comes back untouched with a zero count.
func Hidden(doc *xmltree.Document, p *format.Profile) Result {
	candidates := doc.FindAll(p.ElementSpace, p.ElementLocal)

	var hidden []int
	var names []string
	for idx, i := range candidates {
		state := p.HiddenDefault
		if v, ok := doc.Attr(i, p.HiddenAttrSpace, p.HiddenAttr); ok {
			state = slices.Contains(p.HiddenValues, v)
		}
		if !state {
			continue
		}
		hidden = append(hidden, i)
		if name, ok := doc.Attr(i, p.NameAttrSpace, p.NameAttr); ok {
			names = append(names, name)
		} else {
			names = append(names, fmt.Sprintf("#%d", idx))
		}
	}

	res := Result{}
	for j, i := range hidden {
		if doc.Remove(i) {
			res.Removed++
			res.Names = append(res.Names, names[j])
		}
	}
	return res
}
