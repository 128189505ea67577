// Package domain contains the entry patcher and the workflow that drives it.
package domain

import (
	"log/slog"
	"regexp"
	"strings"

	m "gooze.dev/pkg/regroup/internal/model"
)

// valuePattern matches a single- or double-quoted string literal, or a bare
// token running up to the next separator.
const valuePattern = `('(?:[^'\\\n]|\\.)*'|"(?:[^"\\\n]|\\.)*"|[^,}\s]+)`

// Patcher rewrites the group/sub-group fields of entry blocks in a document.
//
// A block starts at the identifier declaration and ends at the nearest
// following closing brace, or at the end of the document when there is none.
// Blocks are recomputed from the current buffer for every mapping entry.
type Patcher struct {
	fields   m.FieldNames
	strict   bool
	group    *regexp.Regexp
	subGroup *regexp.Regexp
	anyID    *regexp.Regexp
}

// PatcherOption configures a Patcher.
type PatcherOption func(*Patcher)

// WithStrict makes the patcher skip blocks that declare the group or
// sub-group field more than once, reporting them as conflicts.
func WithStrict(strict bool) PatcherOption {
	return func(p *Patcher) {
		p.strict = strict
	}
}

// NewPatcher creates a Patcher for the given field names.
func NewPatcher(fields m.FieldNames, options ...PatcherOption) *Patcher {
	p := &Patcher{
		fields:   fields,
		group:    fieldRegexp(fields.Group),
		subGroup: fieldRegexp(fields.SubGroup),
		anyID:    fieldRegexp(fields.ID),
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// keyPattern matches a field key written bare or in single or double quotes.
func keyPattern(name string) string {
	q := regexp.QuoteMeta(name)

	return `(\b` + q + `|'` + q + `'|"` + q + `")\s*:\s*`
}

func fieldRegexp(name string) *regexp.Regexp {
	return regexp.MustCompile(keyPattern(name) + valuePattern)
}

// Apply folds the mapping table over doc in table order and returns the
// final buffer together with one report per mapping entry.
func (p *Patcher) Apply(doc string, table m.MappingTable) (string, []m.EntryReport) {
	reports := make([]m.EntryReport, 0, len(table))

	for _, entry := range table {
		var report m.EntryReport

		doc, report = p.Patch(doc, entry)
		reports = append(reports, report)
	}

	return doc, reports
}

// Patch applies a single mapping entry to doc. An identifier that is not
// declared in doc leaves the buffer untouched and reports Missing.
func (p *Patcher) Patch(doc string, entry m.MappingEntry) (string, m.EntryReport) {
	report := m.EntryReport{ID: entry.ID, Status: m.Missing}

	decl, ok := p.locate(doc, entry.ID)
	if !ok {
		slog.Debug("identifier not declared", "id", entry.ID)
		return doc, report
	}

	start := decl.start
	end := blockEnd(doc, decl.end)
	block := doc[start:end]
	spans := lexSpans(block)

	groupMatches := findFields(block, spans, p.group)
	subMatches := findFields(block, spans, p.subGroup)

	if len(groupMatches) > 0 {
		report.Before.Group = unquote(block[groupMatches[0][4]:groupMatches[0][5]])
	}

	if len(subMatches) > 0 {
		report.Before.SubGroup = unquote(block[subMatches[0][4]:subMatches[0][5]])
	}

	if len(groupMatches) > 1 {
		report.Duplicates = append(report.Duplicates, p.fields.Group)
	}

	if len(subMatches) > 1 {
		report.Duplicates = append(report.Duplicates, p.fields.SubGroup)
	}

	if len(report.Duplicates) > 0 {
		slog.Warn("duplicate classification fields in block", "id", entry.ID, "fields", report.Duplicates, "strict", p.strict)

		if p.strict {
			report.Status = m.Conflict
			report.After = report.Before

			return doc, report
		}
	}

	patched := p.rewriteBlock(doc[:start], block, decl, entry.Classification, groupMatches)

	report.After = entry.Classification
	if report.After.SubGroup == "" {
		report.After.SubGroup = report.Before.SubGroup
	}

	if patched == block {
		report.Status = m.Unchanged
		return doc, report
	}

	report.Status = m.Patched
	slog.Debug("patched entry", "id", entry.ID, "before", report.Before.String(), "after", report.After.String())

	return doc[:start] + patched + doc[end:], report
}

// Scan lists every identifier declaration in doc with the classification its
// block currently holds, in document order.
func (p *Patcher) Scan(doc string) []m.Entry {
	var entries []m.Entry

	for _, loc := range findFields(doc, lexSpans(doc), p.anyID) {
		raw := doc[loc[4]:loc[5]]
		if !isQuoted(raw) {
			continue
		}

		block := doc[loc[0]:blockEnd(doc, loc[1])]
		spans := lexSpans(block)
		entry := m.Entry{ID: unquote(raw), Offset: loc[0]}

		if g := findFields(block, spans, p.group); len(g) > 0 {
			entry.Classification.Group = unquote(block[g[0][4]:g[0][5]])
		}

		if sg := findFields(block, spans, p.subGroup); len(sg) > 0 {
			entry.Classification.SubGroup = unquote(block[sg[0][4]:sg[0][5]])
		}

		entries = append(entries, entry)
	}

	return entries
}

// declaration is where an identifier is declared. quote is the character
// delimiting the identifier value; keyQuote is the one around the key, or 0
// when the key is bare.
type declaration struct {
	start    int
	end      int
	quote    byte
	keyQuote byte
}

// key renders a field name the way the declaration writes its key.
func (d declaration) key(name string) string {
	if d.keyQuote == 0 {
		return name
	}

	q := string(d.keyQuote)

	return q + name + q
}

// locate finds the first declaration of id that starts a field outside any
// string literal or comment.
func (p *Patcher) locate(doc, id string) (declaration, bool) {
	quoted := regexp.QuoteMeta(id)
	decl := regexp.MustCompile(keyPattern(p.fields.ID) + `(?:'` + quoted + `'|"` + quoted + `")`)

	matches := findFields(doc, lexSpans(doc), decl)
	if len(matches) == 0 {
		return declaration{}, false
	}

	loc := matches[0]
	d := declaration{start: loc[0], end: loc[1], quote: doc[loc[1]-1]}

	if c := doc[loc[0]]; c == '\'' || c == '"' {
		d.keyQuote = c
	}

	return d, true
}

// blockEnd returns the offset of the first closing brace at or after from, or
// len(doc) when the block runs to the end of the document.
func blockEnd(doc string, from int) int {
	idx := strings.IndexByte(doc[from:], '}')
	if idx < 0 {
		return len(doc)
	}

	return from + idx
}

// rewriteBlock returns block with the classification applied. prefix is the
// document text preceding the block; it is only read to find indentation.
func (p *Patcher) rewriteBlock(prefix, block string, decl declaration, c m.Classification, groupMatches [][]int) string {
	newline := newlineOf(prefix + block)
	groupField := decl.key(p.fields.Group) + ": " + literal(c.Group, decl.quote)

	var groupStart, groupValueEnd int

	if len(groupMatches) > 0 {
		lit := literal(c.Group, decl.quote)
		vs, ve := groupMatches[0][4], groupMatches[0][5]
		block = block[:vs] + lit + block[ve:]
		groupStart = groupMatches[0][0]
		groupValueEnd = vs + len(lit)
	} else {
		spans := lexSpans(block)
		content := strings.TrimRight(block, " \t\r\n")
		trailing := block[len(content):]

		// Comments closing the last line stay after its comma.
		codeEnd := len(content)
		for codeEnd > 0 && (spans[codeEnd-1] == inComment || isSpace(block[codeEnd-1])) {
			codeEnd--
		}

		sep := separator(prefix, newline)
		if sep == " " && strings.Contains(content[codeEnd:], "//") {
			sep = newline + lineIndent(prefix+content)
		}

		if codeEnd > 0 && block[codeEnd-1] == ',' {
			groupStart = len(content) + len(sep)
			block = content + sep + groupField + "," + trailing
		} else {
			groupStart = len(content) + 1 + len(sep)
			block = content[:codeEnd] + "," + content[codeEnd:] + sep + groupField + trailing
		}

		groupValueEnd = groupStart + len(groupField)
	}

	if c.SubGroup == "" {
		return block
	}

	lit := literal(c.SubGroup, decl.quote)

	if loc := findFields(block, lexSpans(block), p.subGroup); len(loc) > 0 {
		return block[:loc[0][4]] + lit + block[loc[0][5]:]
	}

	sep := separator(prefix+block[:groupStart], newline)
	subField := decl.key(p.fields.SubGroup) + ": " + lit

	// A group field on its own line gets the sub-group on the next line,
	// after any comment that closes the group line.
	if strings.HasPrefix(sep, newline) {
		if at, comma, ok := lineTail(block, groupValueEnd); ok {
			if comma {
				return block[:at] + sep + subField + "," + block[at:]
			}

			return block[:groupValueEnd] + "," + block[groupValueEnd:at] + sep + subField + block[at:]
		}
	}

	return block[:groupValueEnd] + "," + sep + subField + block[groupValueEnd:]
}

// lineTail inspects the rest of the line after from. It reports the offset of
// the line break, whether a comma follows from, and false when the line holds
// anything besides that comma, whitespace and comments.
func lineTail(block string, from int) (int, bool, bool) {
	nl := strings.IndexByte(block[from:], '\n')
	if nl < 0 {
		return 0, false, false
	}

	at := from + nl
	if at > from && block[at-1] == '\r' {
		at--
	}

	spans := lexSpans(block)
	comma := false

	for i := from; i < at; i++ {
		switch {
		case spans[i] == inComment || isSpace(block[i]):
		case block[i] == ',' && !comma:
			comma = true
		default:
			return 0, false, false
		}
	}

	return at, comma, true
}

// separator returns the whitespace that should precede a field inserted next
// to the field starting at the end of prefix: a newline plus that field's
// indentation when it sits on its own line, a single space otherwise.
func separator(prefix, newline string) string {
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	indent := prefix[lineStart:]

	if strings.TrimLeft(indent, " \t") != "" {
		return " "
	}

	return newline + indent
}

// lineIndent returns the leading whitespace of the last line of s.
func lineIndent(s string) string {
	line := s[strings.LastIndexByte(s, '\n')+1:]

	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func newlineOf(s string) string {
	if strings.Contains(s, "\r\n") {
		return "\r\n"
	}

	return "\n"
}

func literal(value string, quote byte) string {
	q := string(quote)
	escaped := strings.NewReplacer(`\`, `\\`, q, `\`+q).Replace(value)

	return q + escaped + q
}

func isQuoted(raw string) bool {
	return len(raw) >= 2 && (raw[0] == '\'' || raw[0] == '"') && raw[len(raw)-1] == raw[0]
}

func unquote(raw string) string {
	if !isQuoted(raw) {
		return raw
	}

	var b strings.Builder

	inner := raw[1 : len(raw)-1]
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
		}

		b.WriteByte(inner[i])
	}

	return b.String()
}
