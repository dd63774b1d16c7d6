// Package xmltree parses one XML document into an arena of nodes and
// serializes it back out.
//
// The tree is held as a flat slice; nodes reference their parent and children
// by index, never by pointer. Detaching a node only unlinks its index from
// the parent's child list, so traversal snapshots taken before a mutation
// stay valid and a double detach is a no-op. This is what makes the
// collect-then-remove pruning in package prune safe.
//
// Parsing resolves namespace prefixes to URIs (matching is done on URI +
// local name); serialization reconstructs the original prefixes from the
// xmlns attributes carried in the tree. Documents declaring a non-UTF-8
// encoding are decoded on the way in and re-encoded on the way out.
package xmltree

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// NodeKind discriminates the node variants stored in the arena.
type NodeKind int

const (
	// KindDocument is the synthetic root at index 0.
	KindDocument NodeKind = iota
	KindElement
	KindText
	KindComment
	KindProcInst
	KindDirective
)

// Attr is one attribute with its namespace resolved to a URI.
// xmlns declarations are kept in the list (Space "xmlns", or Local "xmlns"
// for the default namespace) so serialization can rebuild prefixes.
type Attr struct {
	Space, Local string
	Value        string
}

// Node is one entry in the arena. Element nodes use Space/Local/Attrs and
// Children; the other kinds carry their payload in Text (and Target for
// processing instructions).
type Node struct {
	Kind     NodeKind
	Space    string
	Local    string
	Attrs    []Attr
	Text     string
	Target   string
	Parent   int
	Children []int
}

// Document is a parsed XML document. Nodes[0] is the synthetic document
// node whose children are the prolog and the root element.
type Document struct {
	Nodes []Node

	// Encoding is the charset declared by the document, empty for UTF-8
	// or when no declaration was present.
	Encoding string
}

// Parse reads one XML document from r into a fresh arena.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{
		Nodes: []Node{{Kind: KindDocument, Parent: -1}},
	}

	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := ianaindex.IANA.Encoding(charset)
		if err != nil || enc == nil {
			return nil, fmt.Errorf("unsupported charset %q", charset)
		}
		doc.Encoding = charset
		return transform.NewReader(input, enc.NewDecoder()), nil
	}

	cur := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := Node{Kind: KindElement, Space: t.Name.Space, Local: t.Name.Local, Parent: cur}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Space: a.Name.Space, Local: a.Name.Local, Value: a.Value})
			}
			cur = doc.append(cur, n)
		case xml.EndElement:
			cur = doc.Nodes[cur].Parent
		case xml.CharData:
			doc.append(cur, Node{Kind: KindText, Text: string(t), Parent: cur})
		case xml.Comment:
			doc.append(cur, Node{Kind: KindComment, Text: string(t), Parent: cur})
		case xml.ProcInst:
			doc.append(cur, Node{Kind: KindProcInst, Target: t.Target, Text: string(t.Inst), Parent: cur})
		case xml.Directive:
			doc.append(cur, Node{Kind: KindDirective, Text: string(t), Parent: cur})
		}
	}

	if doc.Root() == -1 {
		return nil, fmt.Errorf("document has no root element")
	}
	return doc, nil
}

// append adds n to the arena as the last child of parent and returns its index.
func (d *Document) append(parent int, n Node) int {
	idx := len(d.Nodes)
	d.Nodes = append(d.Nodes, n)
	d.Nodes[parent].Children = append(d.Nodes[parent].Children, idx)
	return idx
}

// Root returns the index of the root element, or -1.
func (d *Document) Root() int {
	for _, c := range d.Nodes[0].Children {
		if d.Nodes[c].Kind == KindElement {
			return c
		}
	}
	return -1
}

// FindAll returns, in document order, the indices of all elements matching
// the namespace URI and local name, anywhere in the tree.
func (d *Document) FindAll(space, local string) []int {
	var out []int
	var walk func(int)
	walk = func(i int) {
		n := &d.Nodes[i]
		if n.Kind == KindElement && n.Space == space && n.Local == local {
			out = append(out, i)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(0)
	return out
}

// Attr returns the value of the named attribute on element i.
// An attribute written without a prefix has an empty Space.
func (d *Document) Attr(i int, space, local string) (string, bool) {
	for _, a := range d.Nodes[i].Attrs {
		if a.Space == space && a.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Remove unlinks node i from its parent's child list. It reports whether
// the node was still attached; removing an already-detached node is a no-op.
func (d *Document) Remove(i int) bool {
	p := d.Nodes[i].Parent
	if p < 0 {
		return false
	}
	kids := d.Nodes[p].Children
	for j, c := range kids {
		if c == i {
			d.Nodes[p].Children = append(kids[:j:j], kids[j+1:]...)
			return true
		}
	}
	return false
}

// WriteTo serializes the document to w, re-encoding to the declared source
// charset when it isn't UTF-8.
func (d *Document) WriteTo(w io.Writer) error {
	if d.Encoding != "" && !strings.EqualFold(d.Encoding, "utf-8") {
		enc, err := ianaindex.IANA.Encoding(d.Encoding)
		if err != nil || enc == nil {
			return fmt.Errorf("unsupported charset %q", d.Encoding)
		}
		tw := transform.NewWriter(w, enc.NewEncoder())
		if err := d.writePlain(tw); err != nil {
			return err
		}
		return tw.Close()
	}
	return d.writePlain(w)
}

// Bytes serializes the document into a fresh buffer.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) writePlain(w io.Writer) error {
	bw := bufio.NewWriter(w)
	// uri -> prefix bindings, innermost scope last
	var scopes []map[string]string
	for _, c := range d.Nodes[0].Children {
		d.writeNode(bw, c, &scopes)
	}
	return bw.Flush()
}

func (d *Document) writeNode(bw *bufio.Writer, i int, scopes *[]map[string]string) {
	n := &d.Nodes[i]
	switch n.Kind {
	case KindText:
		writeEscaped(bw, n.Text, false)
	case KindComment:
		bw.WriteString("<!--")
		bw.WriteString(n.Text)
		bw.WriteString("-->")
	case KindProcInst:
		bw.WriteString("<?")
		bw.WriteString(n.Target)
		if n.Text != "" {
			bw.WriteByte(' ')
			bw.WriteString(n.Text)
		}
		bw.WriteString("?>")
	case KindDirective:
		bw.WriteString("<!")
		bw.WriteString(n.Text)
		bw.WriteByte('>')
	case KindElement:
		scope := map[string]string{}
		for _, a := range n.Attrs {
			if a.Space == "xmlns" {
				scope[a.Value] = a.Local
			} else if a.Space == "" && a.Local == "xmlns" {
				scope[a.Value] = ""
			}
		}
		*scopes = append(*scopes, scope)

		name := d.qualify(n.Space, n.Local, *scopes, true)
		bw.WriteByte('<')
		bw.WriteString(name)
		for _, a := range n.Attrs {
			bw.WriteByte(' ')
			bw.WriteString(d.attrName(a, *scopes))
			bw.WriteString(`="`)
			writeEscaped(bw, a.Value, true)
			bw.WriteByte('"')
		}
		if len(n.Children) == 0 {
			bw.WriteString("/>")
		} else {
			bw.WriteByte('>')
			for _, c := range n.Children {
				d.writeNode(bw, c, scopes)
			}
			bw.WriteString("</")
			bw.WriteString(name)
			bw.WriteByte('>')
		}
		*scopes = (*scopes)[:len(*scopes)-1]
	}
}

// qualify maps a resolved namespace URI back to the prefix in scope.
// allowDefault is true for element names; attributes never inherit the
// default namespace.
func (d *Document) qualify(space, local string, scopes []map[string]string, allowDefault bool) string {
	if space == "" {
		return local
	}
	for i := len(scopes) - 1; i >= 0; i-- {
		if p, ok := scopes[i][space]; ok {
			if p == "" {
				if allowDefault {
					return local
				}
				continue
			}
			return p + ":" + local
		}
	}
	// Unbound URI: the input resolved it, so this only happens on trees
	// built by hand. Emit the local name rather than invalid XML.
	return local
}

func (d *Document) attrName(a Attr, scopes []map[string]string) string {
	switch {
	case a.Space == "xmlns":
		return "xmlns:" + a.Local
	case a.Space == "" && a.Local == "xmlns":
		return "xmlns"
	case a.Space == "":
		return a.Local
	default:
		return d.qualify(a.Space, a.Local, scopes, false)
	}
}

// writeEscaped writes s with the minimal XML escaping: &, <, > in text,
// plus the double quote inside attribute values. Whitespace passes through
// untouched so indentation survives a round trip.
func writeEscaped(bw *bufio.Writer, s string, attr bool) {
	for _, r := range s {
		switch r {
		case '&':
			bw.WriteString("&amp;")
		case '<':
			bw.WriteString("&lt;")
		case '>':
			bw.WriteString("&gt;")
		case '"':
			if attr {
				bw.WriteString("&quot;")
			} else {
				bw.WriteRune(r)
			}
		default:
			bw.WriteRune(r)
		}
	}
}
