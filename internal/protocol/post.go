package protocol

import (
	"strconv"
	"strings"
)

// MaxFileSize bounds the attachment payload a single post may carry.
const MaxFileSize int64 = 10 << 20

// PostRequest is the decoded form of a PST header line. FileName is empty
// when the post carries no attachment.
type PostRequest struct {
	UID      string
	GID      string
	Text     string
	FileName string
	FileSize int64
}

// HasFile reports whether the post carries an attachment whose bytes follow
// the header line on the same connection.
func (p *PostRequest) HasFile() bool { return p.FileName != "" }

// ParsePost decodes a PST header line:
//
//	PST uid gid tsize "text" [filename filesize]
//
// The text is delimited by double quotes and may contain spaces; it may not
// contain a quote itself. tsize must match the text length exactly. The
// parser walks the line token by token rather than splitting on spaces, so
// a malformed field is reported as a typed *ParseError naming the field.
func ParsePost(raw string) (*PostRequest, error) {
	sc := newScanner(raw)

	verb, err := sc.token("verb")
	if err != nil {
		return nil, err
	}
	if verb != string(VerbPost) {
		return nil, &ParseError{Field: "verb", Reason: "expected PST"}
	}

	uid, err := sc.token("uid")
	if err != nil {
		return nil, err
	}
	if !IsUID(uid) {
		return nil, &ParseError{Field: "uid", Reason: "must be five digits"}
	}

	gid, err := sc.token("gid")
	if err != nil {
		return nil, err
	}
	if !IsGID(gid) {
		return nil, &ParseError{Field: "gid", Reason: "must be two digits"}
	}

	tsize, err := sc.token("tsize")
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(tsize)
	if err != nil || n <= 0 || n > MaxTextLen {
		return nil, &ParseError{Field: "tsize", Reason: "must be 1.." + strconv.Itoa(MaxTextLen)}
	}

	text, err := sc.quoted("text")
	if err != nil {
		return nil, err
	}
	if len(text) != n {
		return nil, &ParseError{Field: "tsize", Reason: "does not match text length"}
	}

	req := &PostRequest{UID: uid, GID: gid, Text: text}
	if sc.done() {
		return req, nil
	}

	name, err := sc.token("filename")
	if err != nil {
		return nil, err
	}
	if !IsFileName(name) {
		return nil, &ParseError{Field: "filename", Reason: "invalid file name"}
	}

	sizeTok, err := sc.token("filesize")
	if err != nil {
		return nil, err
	}
	size, err := strconv.ParseInt(sizeTok, 10, 64)
	if err != nil || size <= 0 || size > MaxFileSize {
		return nil, &ParseError{Field: "filesize", Reason: "out of range"}
	}
	if !sc.done() {
		return nil, &ParseError{Field: "filesize", Reason: "trailing data after attachment"}
	}

	req.FileName = name
	req.FileSize = size
	return req, nil
}

// EncodePost builds the PST header line (without trailing newline) for a
// request. The inverse of ParsePost, used by the client.
func EncodePost(p *PostRequest) string {
	var b strings.Builder
	b.WriteString(string(VerbPost))
	b.WriteByte(' ')
	b.WriteString(p.UID)
	b.WriteByte(' ')
	b.WriteString(p.GID)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(len(p.Text)))
	b.WriteString(` "`)
	b.WriteString(p.Text)
	b.WriteByte('"')
	if p.HasFile() {
		b.WriteByte(' ')
		b.WriteString(p.FileName)
		b.WriteByte(' ')
		b.WriteString(strconv.FormatInt(p.FileSize, 10))
	}
	return b.String()
}

// scanner walks a request line left to right. Tokens are separated by a
// single space.
type scanner struct {
	s   string
	pos int
}

func newScanner(s string) *scanner { return &scanner{s: s} }

func (sc *scanner) done() bool { return sc.pos >= len(sc.s) }

// sep consumes the single-space separator expected before every field but
// the first.
func (sc *scanner) sep(field string) error {
	if sc.done() || sc.s[sc.pos] != ' ' {
		return &ParseError{Field: field, Reason: "missing separator"}
	}
	sc.pos++
	return nil
}

func (sc *scanner) token(field string) (string, error) {
	if sc.pos > 0 {
		if err := sc.sep(field); err != nil {
			return "", err
		}
	}
	if sc.done() {
		return "", &ParseError{Field: field, Reason: "missing"}
	}
	start := sc.pos
	for sc.pos < len(sc.s) && sc.s[sc.pos] != ' ' {
		sc.pos++
	}
	if sc.pos == start {
		return "", &ParseError{Field: field, Reason: "empty"}
	}
	return sc.s[start:sc.pos], nil
}

// quoted consumes a double-quoted run of text. Quotes inside the text are
// not representable in this grammar.
func (sc *scanner) quoted(field string) (string, error) {
	if err := sc.sep(field); err != nil {
		return "", err
	}
	if sc.done() || sc.s[sc.pos] != '"' {
		return "", &ParseError{Field: field, Reason: "missing opening quote"}
	}
	sc.pos++
	end := strings.IndexByte(sc.s[sc.pos:], '"')
	if end < 0 {
		return "", &ParseError{Field: field, Reason: "missing closing quote"}
	}
	text := sc.s[sc.pos : sc.pos+end]
	sc.pos += end + 1
	return text, nil
}
