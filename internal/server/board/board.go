// Package board implements one command handler per protocol verb. Each
// handler validates its arguments, applies the business rules against the
// entity store and maps the outcome to the verb's reply tokens. Business
// failures are reply tokens, never Go errors; only transport problems
// surface as errors, and those belong to the multiplexer.
package board

import (
	"bufio"
	"context"
	"io"

	"github.com/dmitrijs2005/groupboard/internal/logging"
	"github.com/dmitrijs2005/groupboard/internal/protocol"
	"github.com/dmitrijs2005/groupboard/internal/server/files"
	"github.com/dmitrijs2005/groupboard/internal/server/store"
)

// Request is one inbound request as seen by a handler.
type Request struct {
	// Raw is the header line without the trailing newline.
	Raw string
	// Remote is the peer address, for logging only.
	Remote string
	// Body reads the connection past the header line. Non-nil only for
	// TCP requests; a post with an attachment pulls the file bytes here.
	Body *bufio.Reader
}

// Response is a handler's reply. Line always holds the first (often only)
// newline-terminated reply line. Stream, when set, writes the remainder of
// the reply directly to the connection: a retrieve batch with inline file
// bytes cannot be expressed as a single line.
type Response struct {
	Line   []byte
	Stream func(w io.Writer) error
}

type handlerFunc func(ctx context.Context, req *Request, dec protocol.Request) Response

// Handler routes decoded requests to per-verb handlers over a shared entity
// store and attachment store.
type Handler struct {
	store *store.Store
	files *files.Store
	log   logging.Logger
	table map[protocol.Verb]handlerFunc
}

// New builds the handler set. The dispatch table is fixed at construction;
// an unknown verb never reaches a handler.
func New(st *store.Store, fs *files.Store, log logging.Logger) *Handler {
	h := &Handler{store: st, files: fs, log: log.With("module", "board")}
	h.table = map[protocol.Verb]handlerFunc{
		protocol.VerbRegister:    h.handleRegister,
		protocol.VerbUnregister:  h.handleUnregister,
		protocol.VerbLogin:       h.handleLogin,
		protocol.VerbLogout:      h.handleLogout,
		protocol.VerbListGroups:  h.handleListGroups,
		protocol.VerbSubscribe:   h.handleSubscribe,
		protocol.VerbUnsubscribe: h.handleUnsubscribe,
		protocol.VerbMyGroups:    h.handleMyGroups,
		protocol.VerbUserList:    h.handleUserList,
		protocol.VerbPost:        h.handlePost,
		protocol.VerbRetrieve:    h.handleRetrieve,
	}
	return h
}

// Handle decodes the header line and dispatches it. Input that cannot be
// attributed to any verb yields the bare ERR reply.
func (h *Handler) Handle(ctx context.Context, req *Request) Response {
	dec, err := protocol.Decode([]byte(req.Raw))
	if err != nil {
		h.log.Warn(ctx, "unparseable request", "remote", req.Remote, "err", err.Error())
		return Response{Line: protocol.Encode(protocol.ReplyError)}
	}
	fn, ok := h.table[dec.Verb]
	if !ok {
		h.log.Warn(ctx, "unknown verb", "verb", string(dec.Verb), "remote", req.Remote)
		return Response{Line: protocol.Encode(protocol.ReplyError)}
	}
	return fn(ctx, req, dec)
}

// reply builds a single-line response for the given request verb.
func reply(v protocol.Verb, tokens ...string) Response {
	return Response{Line: protocol.Encode(protocol.ReplyVerb(v), tokens...)}
}
