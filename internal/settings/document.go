package settings

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type nodeKind int

const (
	blankNode nodeKind = iota
	commentNode
	keyValueNode
	tableNode
	arrayTableNode
)

// node is one top-level element of a settings document. raw holds the exact
// source text, including the trailing newline and every continuation line of a
// multi-line value.
type node struct {
	kind  nodeKind
	raw   string
	table []string // enclosing table path (key/value nodes)
	key   []string // dotted key relative to table, or the header path
}

func (n *node) fullKey() []string {
	full := make([]string, 0, len(n.table)+len(n.key))
	full = append(full, n.table...)
	return append(full, n.key...)
}

// Document is a settings file held as an ordered sequence of nodes. Edits touch
// only the nodes they address; everything else is written back byte-for-byte.
type Document struct {
	nodes []*node
}

// Parse builds a Document from TOML source text.
func Parse(src []byte) (*Document, error) {
	var m map[string]any
	if _, err := toml.Decode(string(src), &m); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	doc := &Document{}
	lines := splitLines(string(src))
	var table []string

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			doc.nodes = append(doc.nodes, &node{kind: blankNode, raw: line})
		case strings.HasPrefix(trimmed, "#"):
			doc.nodes = append(doc.nodes, &node{kind: commentNode, raw: line})
		case strings.HasPrefix(trimmed, "[["):
			path, err := parseKey(strings.TrimPrefix(trimmed, "[["), "]]")
			if err != nil {
				return nil, fmt.Errorf("parse settings line %d: %w", i+1, err)
			}
			table = path
			doc.nodes = append(doc.nodes, &node{kind: arrayTableNode, raw: line, key: path})
		case strings.HasPrefix(trimmed, "["):
			path, err := parseKey(strings.TrimPrefix(trimmed, "["), "]")
			if err != nil {
				return nil, fmt.Errorf("parse settings line %d: %w", i+1, err)
			}
			table = path
			doc.nodes = append(doc.nodes, &node{kind: tableNode, raw: line, key: path})
		default:
			key, err := parseKey(trimmed, "=")
			if err != nil {
				return nil, fmt.Errorf("parse settings line %d: %w", i+1, err)
			}
			// Multi-line values extend until the accumulated text is a
			// complete key/value pair on its own.
			raw := line
			for !isCompleteValue(raw) && i+1 < len(lines) {
				i++
				raw += lines[i]
			}
			doc.nodes = append(doc.nodes, &node{kind: keyValueNode, raw: raw, table: table, key: key})
		}
	}

	return doc, nil
}

// FromMap renders m as a new Document, one table per nested map.
func FromMap(m map[string]any) (*Document, error) {
	doc := &Document{}
	for _, k := range sortedKeys(m) {
		if err := doc.Set(k, m[k]); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Bytes renders the document.
func (d *Document) Bytes() []byte {
	var b strings.Builder
	for _, n := range d.nodes {
		b.WriteString(n.raw)
	}
	return []byte(b.String())
}

// Map decodes the document into plain Go values.
func (d *Document) Map() (map[string]any, error) {
	m := map[string]any{}
	if _, err := toml.Decode(string(d.Bytes()), &m); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return m, nil
}

// Get returns the value stored at the dot-separated keyPath.
func (d *Document) Get(keyPath string) (any, bool) {
	m, err := d.Map()
	if err != nil {
		return nil, false
	}
	var cur any = m
	for _, part := range strings.Split(keyPath, ".") {
		tbl, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = tbl[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set assigns value at keyPath. An existing key is rewritten in place; a new
// key is appended to the end of its table, creating the table when needed.
// Map values are expanded into one key per entry.
func (d *Document) Set(keyPath string, value any) error {
	before := d.clone()
	if err := d.set(keyPath, value); err != nil {
		d.nodes = before
		return err
	}
	if _, err := d.Map(); err != nil {
		d.nodes = before
		return fmt.Errorf("set %s: %w", keyPath, err)
	}
	return nil
}

func (d *Document) set(keyPath string, value any) error {
	path := strings.Split(keyPath, ".")
	if slicesContainEmpty(path) {
		return fmt.Errorf("invalid key path %q", keyPath)
	}
	if err := d.checkArrayTables(path); err != nil {
		return err
	}

	if sub, ok := value.(map[string]any); ok {
		if err := d.EnsureTable(keyPath); err != nil {
			return err
		}
		for _, k := range sortedKeys(sub) {
			if err := d.set(keyPath+"."+k, sub[k]); err != nil {
				return err
			}
		}
		return nil
	}

	encoded, err := encodeValue(value)
	if err != nil {
		return fmt.Errorf("set %s: %w", keyPath, err)
	}

	if n := d.find(path); n != nil {
		_, comment := splitValueComment(valueText(n.raw))
		n.raw = keyText(n.raw) + " = " + encoded + comment + lineEnding(n.raw)
		return nil
	}

	if v, ok := d.Get(keyPath); ok {
		if _, isTable := v.(map[string]any); isTable {
			return fmt.Errorf("%s is a table", keyPath)
		}
	}
	if err := d.checkParents(path); err != nil {
		return err
	}

	owner, at := d.owner(path[:len(path)-1])
	rel := path[len(owner):]
	n := &node{
		kind:  keyValueNode,
		raw:   formatKey(rel) + " = " + encoded + "\n",
		table: owner,
		key:   rel,
	}
	d.insert(at, n)
	return nil
}

// EnsureTable makes sure a table exists at keyPath, appending a header for it
// when it is not defined yet.
func (d *Document) EnsureTable(keyPath string) error {
	path := strings.Split(keyPath, ".")
	if slicesContainEmpty(path) {
		return fmt.Errorf("invalid key path %q", keyPath)
	}
	if d.hasHeader(path) {
		return nil
	}
	if v, ok := d.Get(keyPath); ok {
		if _, isTable := v.(map[string]any); !isTable {
			return fmt.Errorf("%s is not a table", keyPath)
		}
		// Defined implicitly through dotted keys or a sub-table header.
		return nil
	}
	if err := d.checkParents(path); err != nil {
		return err
	}
	d.appendHeader(path)
	return nil
}

// CommentOut replaces the key at keyPath with a comment line of the form
// "# key = value # annotation" at the same position. It reports whether the
// key existed.
func (d *Document) CommentOut(keyPath, annotation string) bool {
	path := strings.Split(keyPath, ".")
	if d.checkArrayTables(path) != nil {
		return false
	}
	for _, n := range d.nodes {
		if n.kind != keyValueNode || !equalPath(n.fullKey(), path) {
			continue
		}
		key := keyText(n.raw)
		indent := key[:len(key)-len(strings.TrimLeft(key, " \t"))]
		value := strings.ReplaceAll(valueText(n.raw), "\n", "\n# ")
		line := fmt.Sprintf("%s# %s = %s", indent, key[len(indent):], value)
		if annotation != "" {
			line += " # " + annotation
		}
		n.kind = commentNode
		n.raw = line + lineEnding(n.raw)
		n.table, n.key = nil, nil
		return true
	}
	return false
}

func (d *Document) clone() []*node {
	nodes := make([]*node, len(d.nodes))
	for i, n := range d.nodes {
		cp := *n
		nodes[i] = &cp
	}
	return nodes
}

func (d *Document) find(path []string) *node {
	for _, n := range d.nodes {
		if n.kind == keyValueNode && equalPath(n.fullKey(), path) {
			return n
		}
	}
	return nil
}

// checkArrayTables rejects key paths that address an array of tables or
// anything inside one; a dotted path cannot say which element it means.
func (d *Document) checkArrayTables(path []string) error {
	for _, n := range d.nodes {
		if n.kind == arrayTableNode && len(n.key) <= len(path) && equalPath(path[:len(n.key)], n.key) {
			return fmt.Errorf("%s is inside an array of tables", strings.Join(path, "."))
		}
	}
	return nil
}

func (d *Document) hasHeader(path []string) bool {
	for _, n := range d.nodes {
		if n.kind == tableNode && equalPath(n.key, path) {
			return true
		}
	}
	return false
}

// checkParents fails when a proper prefix of path already holds a value that
// is not a table.
func (d *Document) checkParents(path []string) error {
	m, err := d.Map()
	if err != nil {
		return err
	}
	var cur any = m
	for i, part := range path[:len(path)-1] {
		tbl, ok := cur.(map[string]any)
		if !ok {
			return fmt.Errorf("%s is not a table", strings.Join(path[:i], "."))
		}
		if cur, ok = tbl[part]; !ok {
			return nil
		}
	}
	if _, ok := cur.(map[string]any); !ok {
		return fmt.Errorf("%s is not a table", strings.Join(path[:len(path)-1], "."))
	}
	return nil
}

// owner picks the table a new key under parent should be written to and the
// node index to insert after. A missing table header is appended first.
func (d *Document) owner(parent []string) ([]string, int) {
	if len(parent) == 0 {
		return nil, d.sectionEnd(-1)
	}
	for i, n := range d.nodes {
		if n.kind == tableNode && equalPath(n.key, parent) {
			return parent, d.sectionEnd(i)
		}
	}

	// Tables defined implicitly through dotted keys take the new key in the
	// section that already holds them.
	for _, n := range d.nodes {
		if n.kind != keyValueNode {
			continue
		}
		full := n.fullKey()
		if len(full) > len(parent) && equalPath(full[:len(parent)], parent) && len(n.table) <= len(parent) {
			return n.table, d.sectionEnd(d.headerIndex(n.table))
		}
	}

	d.appendHeader(parent)
	return parent, len(d.nodes) - 1
}

func (d *Document) headerIndex(path []string) int {
	if len(path) == 0 {
		return -1
	}
	for i, n := range d.nodes {
		if n.kind == tableNode && equalPath(n.key, path) {
			return i
		}
	}
	return -1
}

// sectionEnd returns the index of the last key/value or header node of the
// section opened at header (-1 for the root table), so inserted keys land
// before trailing blank lines and comments that introduce the next table.
func (d *Document) sectionEnd(header int) int {
	last := header
	for i := header + 1; i < len(d.nodes); i++ {
		n := d.nodes[i]
		if n.kind == tableNode || n.kind == arrayTableNode {
			break
		}
		if n.kind == keyValueNode {
			last = i
		}
	}
	return last
}

func (d *Document) appendHeader(path []string) {
	if len(d.nodes) > 0 {
		last := d.nodes[len(d.nodes)-1]
		if !strings.HasSuffix(last.raw, "\n") {
			last.raw += "\n"
		}
		if last.kind != blankNode {
			d.nodes = append(d.nodes, &node{kind: blankNode, raw: "\n"})
		}
	}
	d.nodes = append(d.nodes, &node{kind: tableNode, raw: "[" + formatKey(path) + "]\n", key: path})
}

// insert places n after index at (-1 inserts at the very beginning).
func (d *Document) insert(at int, n *node) {
	if at >= 0 && !strings.HasSuffix(d.nodes[at].raw, "\n") {
		d.nodes[at].raw += "\n"
	}
	idx := at + 1
	d.nodes = append(d.nodes, nil)
	copy(d.nodes[idx+1:], d.nodes[idx:])
	d.nodes[idx] = n
}

// encodeValue renders a single TOML value.
func encodeValue(value any) (string, error) {
	out, err := toml.Marshal(map[string]any{"v": value})
	if err != nil {
		return "", err
	}
	s := string(out)
	if !strings.HasPrefix(s, "v = ") {
		return "", errors.New("value cannot be written inline")
	}
	return strings.TrimRight(strings.TrimPrefix(s, "v = "), "\n"), nil
}

func isCompleteValue(raw string) bool {
	var m map[string]any
	_, err := toml.Decode(raw, &m)
	return err == nil
}

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func formatKey(path []string) string {
	parts := make([]string, len(path))
	for i, p := range path {
		if bareKey.MatchString(p) {
			parts[i] = p
		} else {
			parts[i] = strconv.Quote(p)
		}
	}
	return strings.Join(parts, ".")
}

// parseKey reads a dotted key up to the terminator and returns its parts.
func parseKey(s, terminator string) ([]string, error) {
	var parts []string
	s = strings.TrimLeft(s, " \t")
	for {
		var part string
		switch {
		case strings.HasPrefix(s, `"`):
			end := closingQuote(s)
			if end < 0 {
				return nil, fmt.Errorf("unterminated quoted key")
			}
			unq, err := strconv.Unquote(s[:end+1])
			if err != nil {
				return nil, fmt.Errorf("invalid quoted key %s: %w", s[:end+1], err)
			}
			part, s = unq, s[end+1:]
		case strings.HasPrefix(s, "'"):
			end := strings.Index(s[1:], "'")
			if end < 0 {
				return nil, fmt.Errorf("unterminated literal key")
			}
			part, s = s[1:end+1], s[end+2:]
		default:
			end := strings.IndexFunc(s, func(r rune) bool {
				return !(r == '_' || r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
			})
			if end <= 0 {
				return nil, fmt.Errorf("invalid key near %q", s)
			}
			part, s = s[:end], s[end:]
		}
		parts = append(parts, part)

		s = strings.TrimLeft(s, " \t")
		switch {
		case strings.HasPrefix(s, terminator):
			return parts, nil
		case strings.HasPrefix(s, "."):
			s = strings.TrimLeft(s[1:], " \t")
		default:
			return nil, fmt.Errorf("expected %q after key %q", terminator, strings.Join(parts, "."))
		}
	}
}

func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// keyText returns the raw text of a key/value line up to (not including) the
// '=' separator, with trailing whitespace removed.
func keyText(raw string) string {
	trimmed := strings.TrimLeft(raw, " \t")
	indent := raw[:len(raw)-len(trimmed)]
	key, _ := splitKeyValue(trimmed)
	return indent + key
}

// valueText returns the raw value text of a key/value node.
func valueText(raw string) string {
	_, value := splitKeyValue(strings.TrimLeft(raw, " \t"))
	return value
}

// splitValueComment separates raw value text from a trailing comment. The
// comment keeps its leading whitespace so it can be re-attached verbatim.
func splitValueComment(v string) (string, string) {
	for i := strings.IndexByte(v, '#'); i >= 0; {
		value := strings.TrimRight(v[:i], " \t")
		if value != "" && isCompleteValue("v = "+value) {
			return value, v[len(value):]
		}
		next := strings.IndexByte(v[i+1:], '#')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return v, ""
}

func splitKeyValue(s string) (string, string) {
	inQuote := byte(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote != 0:
			if c == '\\' && inQuote == '"' {
				i++
			} else if c == inQuote {
				inQuote = 0
			}
		case c == '"' || c == '\'':
			inQuote = c
		case c == '=':
			return strings.TrimRight(s[:i], " \t"), strings.TrimSpace(s[i+1:])
		}
	}
	return strings.TrimSpace(s), ""
}

func lineEnding(raw string) string {
	if strings.HasSuffix(raw, "\r\n") {
		return "\r\n"
	}
	if strings.HasSuffix(raw, "\n") {
		return "\n"
	}
	return ""
}

// splitLines splits s after every newline, keeping the terminators.
func splitLines(s string) []string {
	var lines []string
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}

func equalPath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func slicesContainEmpty(path []string) bool {
	for _, p := range path {
		if p == "" {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
