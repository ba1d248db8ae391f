package protocol

import (
	"strconv"
	"strings"
)

// MessageEntry is one line of an RRT OK batch:
//
//	mid uid tsize "text"
//
// An entry with an attachment is followed on the stream by a file header
// line ("/ filename filesize") and then exactly filesize raw bytes.
type MessageEntry struct {
	MID      string
	UID      string
	Text     string
	FileName string
	FileSize int64
}

// HasFile reports whether the entry announces an attachment.
func (e *MessageEntry) HasFile() bool { return e.FileName != "" }

// EncodeEntry renders the textual part of a batch entry, without trailing
// newline and without the file header.
func EncodeEntry(e *MessageEntry) string {
	var b strings.Builder
	b.WriteString(e.MID)
	b.WriteByte(' ')
	b.WriteString(e.UID)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(len(e.Text)))
	b.WriteString(` "`)
	b.WriteString(e.Text)
	b.WriteByte('"')
	return b.String()
}

// ParseEntry decodes the textual part of a batch entry.
func ParseEntry(line string) (*MessageEntry, error) {
	sc := newScanner(line)

	mid, err := sc.token("mid")
	if err != nil {
		return nil, err
	}
	if !IsMID(mid) {
		return nil, &ParseError{Field: "mid", Reason: "must be four digits"}
	}

	uid, err := sc.token("uid")
	if err != nil {
		return nil, err
	}
	if !IsUID(uid) {
		return nil, &ParseError{Field: "uid", Reason: "must be five digits"}
	}

	tsize, err := sc.token("tsize")
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(tsize)
	if err != nil || n <= 0 || n > MaxTextLen {
		return nil, &ParseError{Field: "tsize", Reason: "out of range"}
	}

	text, err := sc.quoted("text")
	if err != nil {
		return nil, err
	}
	if len(text) != n {
		return nil, &ParseError{Field: "tsize", Reason: "does not match text length"}
	}
	if !sc.done() {
		return nil, &ParseError{Field: "text", Reason: "trailing data"}
	}

	return &MessageEntry{MID: mid, UID: uid, Text: text}, nil
}

// FileHeaderPrefix starts the line that announces inline attachment bytes.
const FileHeaderPrefix = "/ "

// IsFileHeader reports whether line announces an attachment.
func IsFileHeader(line string) bool { return strings.HasPrefix(line, FileHeaderPrefix) }

// EncodeFileHeader renders the attachment announcement line, without
// trailing newline.
func EncodeFileHeader(name string, size int64) string {
	return FileHeaderPrefix + name + " " + strconv.FormatInt(size, 10)
}

// ParseFileHeader decodes an attachment announcement line.
func ParseFileHeader(line string) (name string, size int64, err error) {
	rest, ok := strings.CutPrefix(line, FileHeaderPrefix)
	if !ok {
		return "", 0, &ParseError{Field: "file header", Reason: "missing '/' marker"}
	}
	fields := strings.Split(rest, " ")
	if len(fields) != 2 {
		return "", 0, &ParseError{Field: "file header", Reason: "want filename and filesize"}
	}
	if !IsFileName(fields[0]) {
		return "", 0, &ParseError{Field: "filename", Reason: "invalid file name"}
	}
	size, err = strconv.ParseInt(fields[1], 10, 64)
	if err != nil || size <= 0 || size > MaxFileSize {
		return "", 0, &ParseError{Field: "filesize", Reason: "out of range"}
	}
	return fields[0], size, nil
}
