// Package pofile reads and writes gettext PO files and converts them to and
// from message catalogs.
package pofile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/minios-linux/msgkit/langmeta"
)

// Entry is one message of a PO file.
type Entry struct {
	// TranslatorComments are "# " lines.
	TranslatorComments []string
	// ExtractedComments are "#." lines.
	ExtractedComments []string
	// References are "#:" lines, usually "file:line".
	References []string
	// Flags are the comma-separated values of "#," lines.
	Flags []string
	// PreviousMsgID is the "#| msgid" of a fuzzy entry.
	PreviousMsgID string

	MsgCtxt     string
	MsgID       string
	MsgIDPlural string
	MsgStr      string
	// MsgStrPlural holds msgstr[0..n-1] of a plural entry.
	MsgStrPlural []string

	// Obsolete marks "#~" entries.
	Obsolete bool
}

// IsPlural reports whether e has a msgid_plural.
func (e *Entry) IsPlural() bool {
	return e.MsgIDPlural != ""
}

// IsTranslated reports whether every form of e is translated and e is not
// fuzzy.
func (e *Entry) IsTranslated() bool {
	if e.MsgID == "" || e.IsFuzzy() {
		return false
	}
	if e.IsPlural() {
		return len(e.MsgStrPlural) > 0 && !slices.Contains(e.MsgStrPlural, "")
	}
	return e.MsgStr != ""
}

// IsFuzzy reports whether e carries the fuzzy flag.
func (e *Entry) IsFuzzy() bool {
	return e.HasFlag("fuzzy")
}

// HasFlag reports whether flag is set on e.
func (e *Entry) HasFlag(flag string) bool {
	return slices.Contains(e.Flags, flag)
}

// SetFlag adds or removes flag.
func (e *Entry) SetFlag(flag string, on bool) {
	has := e.HasFlag(flag)
	switch {
	case on && !has:
		e.Flags = append(e.Flags, flag)
	case !on && has:
		e.Flags = slices.DeleteFunc(e.Flags, func(f string) bool { return f == flag })
	}
}

// File is a parsed PO or POT file.
type File struct {
	// Header is the msgid "" entry.
	Header  *Entry
	Entries []*Entry
}

// NewFile returns an empty file with an empty header.
func NewFile() *File {
	return &File{Header: &Entry{}}
}

// HeaderField returns the value of a header field, matched case-insensitively.
func (f *File) HeaderField(name string) string {
	if f.Header == nil {
		return ""
	}
	for _, line := range strings.Split(f.Header.MsgStr, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// SetHeaderField replaces or appends a header field.
func (f *File) SetHeaderField(name, value string) {
	if f.Header == nil {
		f.Header = &Entry{}
	}
	lines := strings.Split(strings.TrimSuffix(f.Header.MsgStr, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}
	field := name + ": " + value
	replaced := false
	for i, line := range lines {
		key, _, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			lines[i] = field
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, field)
	}
	f.Header.MsgStr = strings.Join(lines, "\n") + "\n"
}

// EntryByMsgID returns the first non-obsolete entry with msgid, or nil.
func (f *File) EntryByMsgID(msgid string) *Entry {
	for _, e := range f.Entries {
		if e.MsgID == msgid && !e.Obsolete {
			return e
		}
	}
	return nil
}

// Language returns the Language header.
func (f *File) Language() string {
	return f.HeaderField("Language")
}

// PluralForms returns the Plural-Forms header.
func (f *File) PluralForms() string {
	return f.HeaderField("Plural-Forms")
}

// HeaderOptions describes a generated header.
type HeaderOptions struct {
	Project     string
	Language    string
	PluralForms string
	// Now defaults to the current time.
	Now time.Time
}

// MakeHeader builds a header entry.
func MakeHeader(opts HeaderOptions) *Entry {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	stamp := now.UTC().Format("2006-01-02 15:04-0700")

	var b strings.Builder
	field := func(name, value string) {
		b.WriteString(name + ": " + value + "\n")
	}
	field("Project-Id-Version", opts.Project)
	field("POT-Creation-Date", stamp)
	field("PO-Revision-Date", stamp)
	if opts.Language != "" {
		field("Language", opts.Language)
		field("Language-Team", langmeta.Resolve(opts.Language).Name)
	}
	field("MIME-Version", "1.0")
	field("Content-Type", "text/plain; charset=UTF-8")
	field("Content-Transfer-Encoding", "8bit")
	if opts.PluralForms != "" {
		field("Plural-Forms", opts.PluralForms)
	}
	field("X-Generator", "msgkit")

	return &Entry{MsgStr: b.String()}
}

// Parse reads a PO file.
func Parse(r io.Reader) (*File, error) {
	p := &reader{file: NewFile()}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.line++
		if err := p.feed(scanner.Text()); err != nil {
			return nil, fmt.Errorf("pofile: line %d: %w", p.line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("pofile: reading: %w", err)
	}
	p.flush()
	return p.file, nil
}

// ParseFile reads a PO file from disk.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	file, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// reader is the line-oriented PO parser state.
type reader struct {
	file *File
	cur  *Entry
	line int
	// cont appends a continuation string to the last keyword's value.
	cont func(string)
}

func (p *reader) entry() *Entry {
	if p.cur == nil {
		p.cur = &Entry{}
	}
	return p.cur
}

func (p *reader) flush() {
	if p.cur == nil {
		return
	}
	if p.cur.MsgID == "" && !p.cur.Obsolete {
		p.file.Header = p.cur
	} else {
		p.file.Entries = append(p.file.Entries, p.cur)
	}
	p.cur = nil
	p.cont = nil
}

func (p *reader) feed(line string) error {
	if strings.TrimSpace(line) == "" {
		p.flush()
		return nil
	}

	if rest, ok := strings.CutPrefix(line, "#~"); ok {
		p.entry().Obsolete = true
		line = strings.TrimPrefix(rest, " ")
		if line == "" || strings.HasPrefix(line, "|") {
			return nil
		}
	} else if strings.HasPrefix(line, "#") {
		p.comment(line)
		return nil
	}

	e := p.entry()
	if strings.HasPrefix(line, `"`) {
		if p.cont == nil {
			return fmt.Errorf("continuation without keyword")
		}
		s, err := unquote(line)
		if err != nil {
			return err
		}
		p.cont(s)
		return nil
	}

	keyword, value, ok := strings.Cut(line, " ")
	if !ok {
		return fmt.Errorf("missing value for %q", line)
	}
	s, err := unquote(value)
	if err != nil {
		return err
	}

	switch {
	case keyword == "msgctxt":
		e.MsgCtxt = s
		p.cont = func(v string) { e.MsgCtxt += v }
	case keyword == "msgid":
		e.MsgID = s
		p.cont = func(v string) { e.MsgID += v }
	case keyword == "msgid_plural":
		e.MsgIDPlural = s
		p.cont = func(v string) { e.MsgIDPlural += v }
	case keyword == "msgstr":
		e.MsgStr = s
		p.cont = func(v string) { e.MsgStr += v }
	case strings.HasPrefix(keyword, "msgstr[") && strings.HasSuffix(keyword, "]"):
		idx, err := strconv.Atoi(keyword[len("msgstr[") : len(keyword)-1])
		if err != nil || idx < 0 {
			return fmt.Errorf("invalid plural index in %q", keyword)
		}
		for len(e.MsgStrPlural) <= idx {
			e.MsgStrPlural = append(e.MsgStrPlural, "")
		}
		e.MsgStrPlural[idx] = s
		p.cont = func(v string) { e.MsgStrPlural[idx] += v }
	default:
		return fmt.Errorf("unknown keyword %q", keyword)
	}
	return nil
}

func (p *reader) comment(line string) {
	e := p.entry()
	p.cont = nil
	switch {
	case strings.HasPrefix(line, "#:"):
		e.References = append(e.References, strings.Fields(line[2:])...)
	case strings.HasPrefix(line, "#,"):
		for _, flag := range strings.Split(line[2:], ",") {
			if flag = strings.TrimSpace(flag); flag != "" && !e.HasFlag(flag) {
				e.Flags = append(e.Flags, flag)
			}
		}
	case strings.HasPrefix(line, "#."):
		e.ExtractedComments = append(e.ExtractedComments, strings.TrimSpace(line[2:]))
	case strings.HasPrefix(line, "#|"):
		if prev, ok := strings.CutPrefix(strings.TrimSpace(line[2:]), "msgid "); ok {
			if s, err := unquote(prev); err == nil {
				e.PreviousMsgID = s
			}
		}
	default:
		e.TranslatorComments = append(e.TranslatorComments, strings.TrimPrefix(line[1:], " "))
	}
}

// Write writes f in PO syntax.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	first := true
	write := func(e *Entry) {
		if !first {
			bw.WriteByte('\n')
		}
		first = false
		writeEntry(bw, e)
	}
	if f.Header != nil {
		write(f.Header)
	}
	for _, e := range f.Entries {
		write(e)
	}
	return bw.Flush()
}

// WriteFile writes f to path.
func (f *File) WriteFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.Write(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeEntry(w *bufio.Writer, e *Entry) {
	for _, c := range e.TranslatorComments {
		w.WriteString(strings.TrimRight("# "+c, " ") + "\n")
	}
	for _, c := range e.ExtractedComments {
		w.WriteString("#. " + c + "\n")
	}
	for _, ref := range e.References {
		w.WriteString("#: " + ref + "\n")
	}
	if len(e.Flags) > 0 {
		w.WriteString("#, " + strings.Join(e.Flags, ", ") + "\n")
	}
	if e.PreviousMsgID != "" {
		w.WriteString("#| msgid " + quote(e.PreviousMsgID) + "\n")
	}

	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}
	if e.MsgCtxt != "" {
		writeField(w, prefix, "msgctxt", e.MsgCtxt)
	}
	writeField(w, prefix, "msgid", e.MsgID)
	if e.IsPlural() {
		writeField(w, prefix, "msgid_plural", e.MsgIDPlural)
		forms := e.MsgStrPlural
		if len(forms) == 0 {
			forms = []string{""}
		}
		for i, s := range forms {
			writeField(w, prefix, "msgstr["+strconv.Itoa(i)+"]", s)
		}
		return
	}
	writeField(w, prefix, "msgstr", e.MsgStr)
}

// writeField writes a keyword, splitting multi-line values after each "\n".
func writeField(w *bufio.Writer, prefix, keyword, value string) {
	if !strings.Contains(strings.TrimSuffix(value, "\n"), "\n") {
		w.WriteString(prefix + keyword + " " + quote(value) + "\n")
		return
	}
	w.WriteString(prefix + keyword + " \"\"\n")
	for _, part := range strings.SplitAfter(value, "\n") {
		if part != "" {
			w.WriteString(prefix + quote(part) + "\n")
		}
	}
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}

// unquote decodes a PO string literal.
func unquote(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("expected quoted string, got %s", s)
	}
	s = s[1 : len(s)-1]

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\', '"':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}
