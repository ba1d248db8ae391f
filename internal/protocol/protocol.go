// Package protocol implements the wire grammar shared by the groupboard
// client and server: space-delimited tokens, one logical message per
// newline-terminated line, with raw file bytes multiplexed inline on the
// TCP stream for posts and retrievals that carry an attachment.
package protocol

import (
	"fmt"
	"strings"
)

// Verb identifies a request command.
type Verb string

const (
	VerbRegister    Verb = "REG"
	VerbUnregister  Verb = "UNR"
	VerbLogin       Verb = "LOG"
	VerbLogout      Verb = "OUT"
	VerbListGroups  Verb = "GLS"
	VerbSubscribe   Verb = "GSR"
	VerbUnsubscribe Verb = "GUR"
	VerbMyGroups    Verb = "GLM"
	VerbUserList    Verb = "ULS"
	VerbPost        Verb = "PST"
	VerbRetrieve    Verb = "RTV"
)

// Status tokens emitted in replies.
const (
	StatusOK        = "OK"
	StatusNOK       = "NOK"
	StatusDuplicate = "DUP"
	StatusNew       = "NEW"
	StatusEOF       = "EOF"
	StatusErrUser   = "E_USR"
	StatusErrGroup  = "E_GRP"
	StatusErrGName  = "E_GNAME"
	StatusErrFull   = "E_FULL"
)

// ReplyError is the bare reply for input that cannot be attributed to any
// verb. It carries no verb echo.
const ReplyError = "ERR"

// Size limits carried over from the wire format.
const (
	MaxControlMessage = 300  // largest UDP request/reply datagram body
	MaxTextLen        = 240  // message text
	MaxFileNameLen    = 24   // attachment file name
	MaxGroupNameLen   = 24   // group name
	MaxUsers          = 99999
	MaxGroups         = 99
	MaxMessages       = 9999
	RetrieveBatchSize = 20
)

// CreateGroupID is the reserved group id a GSR request uses to ask for a new
// group. It is never assigned to a real group.
const CreateGroupID = "00"

// ReservedUID is the one user id that can never be registered.
const ReservedUID = "00000"

var replyVerbs = map[Verb]string{
	VerbRegister:    "RRG",
	VerbUnregister:  "RUN",
	VerbLogin:       "RLO",
	VerbLogout:      "ROU",
	VerbListGroups:  "RGL",
	VerbSubscribe:   "RGS",
	VerbUnsubscribe: "RGU",
	VerbMyGroups:    "RGM",
	VerbUserList:    "RUL",
	VerbPost:        "RPT",
	VerbRetrieve:    "RRT",
}

// ReplyVerb returns the response verb paired with a request verb, or
// ReplyError for a verb that is not part of the protocol.
func ReplyVerb(v Verb) string {
	if r, ok := replyVerbs[v]; ok {
		return r
	}
	return ReplyError
}

// Known reports whether v is one of the protocol's request verbs.
func Known(v Verb) bool {
	_, ok := replyVerbs[v]
	return ok
}

// Request is a decoded command line. Args holds the space-separated tokens
// after the verb; Raw holds the full line without the trailing newline, for
// verbs whose grammar cannot be recovered from a plain split (PST carries
// quoted free text).
type Request struct {
	Verb Verb
	Args []string
	Raw  string
}

// Decode splits a newline-terminated request line into a verb and its
// arguments. The trailing newline is stripped first. An empty line is a
// protocol error.
func Decode(raw []byte) (Request, error) {
	line := strings.TrimSuffix(strings.TrimSuffix(string(raw), "\n"), "\r")
	if line == "" {
		return Request{}, &ParseError{Field: "verb", Reason: "empty message"}
	}
	fields := strings.Split(line, " ")
	return Request{Verb: Verb(fields[0]), Args: fields[1:], Raw: line}, nil
}

// Encode joins a reply verb and its tokens with single spaces and appends
// the terminating newline.
func Encode(verb string, args ...string) []byte {
	if len(args) == 0 {
		return []byte(verb + "\n")
	}
	return []byte(verb + " " + strings.Join(args, " ") + "\n")
}

// ParseError describes a request that violates the wire grammar. It names
// the offending field so the boundary can log something actionable before
// mapping the failure to a verb-specific status token.
type ParseError struct {
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("protocol: bad %s: %s", e.Field, e.Reason)
}
