package flutter

import (
	"regexp"
	"sort"
	"strings"
)

// constructorRe matches capitalised constructor calls, including named
// constructors such as Image.asset(.
var constructorRe = regexp.MustCompile(`([A-Z][A-Za-z0-9_]*(?:\.[a-z][A-Za-z0-9_]*)?)\s*\(`)

// keyRe extracts the identifier from key: Key('...') / ValueKey('...').
var keyRe = regexp.MustCompile(`\bkey\s*:\s*(?:const\s+)?(?:Value)?Key\(\s*['"]([^'"]*)['"]`)

// textRe captures the first literal handed to a nested Text( constructor.
var textRe = regexp.MustCompile(`\bText\(\s*(?:'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)")`)

// decorationRe lifts labelText/hintText literals out of InputDecoration.
var decorationRe = regexp.MustCompile(`\b(labelText|hintText)\s*:\s*(?:'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)")`)

// assignRe recognises the "ident = Widget(" declaration form used to
// derive a resource id when no key is given.
var assignRe = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*=\s*$`)

// node is one constructor call site, of interest or not. Nodes that are
// not audited still matter: they are the parent context of those that are.
type node struct {
	name  string
	start int // offset of the constructor name
	open  int // offset of '('
	end   int // offset of the matching ')', or len(src) when unbalanced
	line  int
}

// ScanSource extracts audited widget instantiations from a single Dart
// source file. The scanner is lexical and never fails: malformed source
// simply yields fewer elements.
func ScanSource(file string, src []byte) []Element {
	mask := codeMask(src)
	lines := lineStarts(src)

	var nodes []node
	for _, m := range constructorRe.FindAllSubmatchIndex(src, -1) {
		start := m[2]
		if !mask[start] {
			continue // inside a string or comment
		}

		open := m[1] - 1 // the '(' ending the match
		end := argEnd(src, mask, open)
		if end < 0 {
			end = len(src)
		}

		nodes = append(nodes, node{
			name:  string(src[m[2]:m[3]]),
			start: start,
			open:  open,
			end:   end,
			line:  lineOf(lines, start),
		})
	}

	var elements []Element
	for i, n := range nodes {
		if _, ok := ClassOf(n.name); !ok {
			continue
		}
		elements = append(elements, buildElement(file, src, mask, lines, nodes, i))
	}

	return elements
}

func buildElement(file string, src []byte, mask []bool, lines []int, nodes []node, idx int) Element {
	n := nodes[idx]
	props, present := topLevelArgs(src, mask, n.open, n.end)
	span := src[n.open+1 : n.end]

	el := Element{
		Widget:        n.name,
		File:          file,
		Line:          n.line,
		Props:         props,
		SemanticLabel: props["semanticLabel"],
		Tooltip:       props["tooltip"],
		Parents:       ancestors(nodes, idx),
	}

	// labelText/hintText usually sit one level down, inside the
	// InputDecoration literal.
	for _, m := range decorationRe.FindAllSubmatch(span, -1) {
		name := string(m[1])
		if _, ok := props[name]; !ok {
			props[name] = unescape(firstGroup(m[2], m[3]))
		}
	}

	if m := textRe.FindSubmatch(span); m != nil {
		el.Text = unescape(firstGroup(m[1], m[2]))
	}

	el.ResourceID = resourceID(src, span, lines, n)

	class, _ := ClassOf(n.name)
	el.Clickable = class == Interactive || present["onTap"] || present["onPressed"]

	// A Semantics(label:) wrapper labels everything beneath it.
	if el.SemanticLabel == "" {
		el.SemanticLabel = wrapperLabel(src, mask, nodes, idx)
	}

	return el
}

// resourceID derives an identifier for the element: an explicit
// key: Key('...') wins, otherwise the variable the constructor is
// assigned to.
func resourceID(src, span []byte, lines []int, n node) string {
	if m := keyRe.FindSubmatch(span); m != nil {
		return string(m[1])
	}

	lineStart := lines[n.line-1]
	prefix := src[lineStart:n.start]
	if m := assignRe.FindSubmatch(prefix); m != nil {
		return string(m[1])
	}

	return ""
}

// ancestors lists the constructors enclosing nodes[idx], innermost first.
func ancestors(nodes []node, idx int) []string {
	target := nodes[idx]

	var parents []node
	for i, n := range nodes {
		if i == idx {
			continue
		}
		if n.open < target.start && target.start < n.end {
			parents = append(parents, n)
		}
	}

	sort.Slice(parents, func(i, j int) bool { return parents[i].open > parents[j].open })

	names := make([]string, 0, len(parents))
	for _, p := range parents {
		names = append(names, p.name)
	}

	return names
}

// wrapperLabel returns the label of the nearest enclosing Semantics
// widget, or empty when none carries one.
func wrapperLabel(src []byte, mask []bool, nodes []node, idx int) string {
	target := nodes[idx]

	best := -1
	label := ""
	for i, n := range nodes {
		if i == idx || n.name != "Semantics" {
			continue
		}
		if n.open >= target.start || target.start >= n.end {
			continue
		}
		if n.open <= best {
			continue
		}

		props, _ := topLevelArgs(src, mask, n.open, n.end)
		if props["label"] != "" {
			best = n.open
			label = props["label"]
		}
	}

	return label
}

// --- lexical helpers ---

// codeMask marks which offsets are code rather than string literal or
// comment content, so constructor names and brackets inside either are
// ignored.
func codeMask(src []byte) []bool {
	mask := make([]bool, len(src))

	for i := 0; i < len(src); {
		switch {
		case src[i] == '\'' || src[i] == '"':
			_, next := stringLit(src, i)
			i = next
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '*':
			i += 2
			for i+1 < len(src) && !(src[i] == '*' && src[i+1] == '/') {
				i++
			}
			i += 2
			if i > len(src) {
				i = len(src)
			}
		default:
			mask[i] = true
			i++
		}
	}

	return mask
}

// argEnd returns the offset of the ')' balancing the '(' at open,
// counting only brackets the mask marks as code. Returns -1 when the
// source runs out first.
func argEnd(src []byte, mask []bool, open int) int {
	depth := 0
	for i := open; i < len(src); i++ {
		if !mask[i] {
			continue
		}
		switch src[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// stringLit decodes the string literal opening at src[i] and returns its
// value together with the offset just past the closing quote. Escaped
// quotes and backslashes are unescaped; other escapes pass through.
func stringLit(src []byte, i int) (string, int) {
	quote := src[i]
	var b strings.Builder

	i++
	for i < len(src) {
		c := src[i]
		if c == '\\' && i+1 < len(src) && (src[i+1] == quote || src[i+1] == '\\') {
			b.WriteByte(src[i+1])
			i += 2
			continue
		}
		if c == quote {
			return b.String(), i + 1
		}
		b.WriteByte(c)
		i++
	}

	return b.String(), i
}

// topLevelArgs walks the argument span of a constructor and collects its
// named arguments: string-literal values in props, and every named
// argument regardless of value in present (onTap and friends are
// closures, not strings). Only identifiers that open an argument, right
// after '(' or ',', count as names; ternaries and member accesses in
// value position do not.
func topLevelArgs(src []byte, mask []bool, open, end int) (map[string]string, map[string]bool) {
	props := map[string]string{}
	present := map[string]bool{}

	depth := 0
	prev := byte('(')
	for i := open + 1; i < end; i++ {
		if !mask[i] {
			continue
		}

		c := src[i]
		switch c {
		case '(', '[', '{':
			depth++
			prev = c
			continue
		case ')', ']', '}':
			depth--
			prev = c
			continue
		case ' ', '\t', '\n', '\r':
			continue
		}

		if depth != 0 {
			prev = c
			continue
		}

		if !isIdentStart(c) {
			prev = c
			continue
		}

		j := i
		for j < end && isIdentPart(src[j]) {
			j++
		}
		name := string(src[i:j])
		argStart := prev == '(' || prev == ','
		prev = src[j-1]
		i = j - 1

		k := skipSpace(src, j, end)
		if !argStart || k >= end || src[k] != ':' {
			continue
		}
		present[name] = true

		v := skipSpace(src, k+1, end)
		if constEnd := v + len("const "); constEnd <= end && string(src[v:constEnd]) == "const " {
			v = skipSpace(src, constEnd, end)
		}
		if v < end && (src[v] == '\'' || src[v] == '"') {
			if _, taken := props[name]; !taken {
				lit, _ := stringLit(src, v)
				props[name] = lit
			}
		}
	}

	return props, present
}

func skipSpace(src []byte, i, end int) int {
	for i < end && (src[i] == ' ' || src[i] == '\t' || src[i] == '\n' || src[i] == '\r') {
		i++
	}
	return i
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}

// firstGroup returns whichever regexp alternative actually matched; the
// single- and double-quoted branches capture into separate groups.
func firstGroup(groups ...[]byte) string {
	for _, g := range groups {
		if g != nil {
			return string(g)
		}
	}
	return ""
}

func unescape(s string) string {
	s = strings.ReplaceAll(s, `\'`, `'`)
	s = strings.ReplaceAll(s, `\"`, `"`)
	return strings.ReplaceAll(s, `\\`, `\`)
}

// lineStarts returns the offset of the first byte of each line.
func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineOf returns the 1-based line number containing offset pos.
func lineOf(starts []int, pos int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > pos })
}
