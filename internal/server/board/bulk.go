package board

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/groupboard/internal/protocol"
)

// Bulk-plane verbs: TCP-carried commands that may move attachment bytes
// inline on the connection, after the textual header line.

func (h *Handler) handleUserList(ctx context.Context, req *Request, dec protocol.Request) Response {
	if len(dec.Args) != 1 || !protocol.IsGID(dec.Args[0]) {
		return reply(dec.Verb, protocol.StatusNOK)
	}
	name, uids, err := h.store.GroupUsers(dec.Args[0])
	if err != nil {
		return reply(dec.Verb, protocol.StatusNOK)
	}
	tokens := append([]string{protocol.StatusOK, name}, uids...)
	return reply(dec.Verb, tokens...)
}

// handlePost appends a message and, when the header announces an
// attachment, reads exactly filesize raw bytes off the same connection into
// the attachment store. The attachment is staged before the message is
// committed: a failed upload must leave no trace in the store, or every
// later retrieval covering the message would announce a file that cannot
// be streamed. The reply is the new four-digit message id.
func (h *Handler) handlePost(ctx context.Context, req *Request, dec protocol.Request) Response {
	post, err := protocol.ParsePost(req.Raw)
	if err != nil {
		h.log.Warn(ctx, "malformed post", "remote", req.Remote, "err", err.Error())
		return reply(dec.Verb, protocol.StatusNOK)
	}

	if post.HasFile() {
		if req.Body == nil {
			// An attachment needs a stream to read it from; a
			// datagram cannot carry one.
			return reply(dec.Verb, protocol.StatusNOK)
		}
		if err := h.files.Save(post.FileName, post.FileSize, req.Body); err != nil {
			h.log.Warn(ctx, "attachment not stored", "file", post.FileName, "err", err.Error())
			return reply(dec.Verb, protocol.StatusNOK)
		}
	}

	mid, err := h.store.PostMessage(post.UID, post.GID, post.Text, post.FileName, post.FileSize)
	if err != nil {
		if post.HasFile() {
			if rmErr := h.files.Remove(post.FileName); rmErr != nil {
				h.log.Warn(ctx, "staged attachment not removed", "file", post.FileName, "err", rmErr.Error())
			}
		}
		return reply(dec.Verb, protocol.StatusNOK)
	}
	return reply(dec.Verb, mid)
}

// handleRetrieve answers with "RRT OK n" followed by up to 20 message
// entries; entries with an attachment are followed by a file header line
// and the raw file bytes.
func (h *Handler) handleRetrieve(ctx context.Context, req *Request, dec protocol.Request) Response {
	if len(dec.Args) != 3 || !protocol.IsUID(dec.Args[0]) || !protocol.IsGID(dec.Args[1]) {
		return reply(dec.Verb, protocol.StatusNOK)
	}
	start, err := strconv.Atoi(dec.Args[2])
	if err != nil || start < 0 {
		return reply(dec.Verb, protocol.StatusNOK)
	}

	msgs, err := h.store.Retrieve(dec.Args[1], start)
	if err != nil {
		return reply(dec.Verb, protocol.StatusNOK)
	}
	if len(msgs) == 0 {
		return reply(dec.Verb, protocol.StatusEOF)
	}

	resp := reply(dec.Verb, protocol.StatusOK, strconv.Itoa(len(msgs)))
	resp.Stream = func(w io.Writer) error {
		for i := range msgs {
			m := &msgs[i]
			entry := protocol.MessageEntry{MID: m.ID, UID: m.Author, Text: m.Text}
			if _, err := io.WriteString(w, protocol.EncodeEntry(&entry)+"\n"); err != nil {
				return fmt.Errorf("write entry %s: %w", m.ID, err)
			}
			if !m.HasFile() {
				continue
			}
			// Open before announcing: once the header line is out,
			// the peer expects exactly filesize bytes to follow.
			f, err := h.files.Open(m.FileName)
			if err != nil {
				return fmt.Errorf("open attachment %s: %w", m.FileName, err)
			}
			if _, err := io.WriteString(w, protocol.EncodeFileHeader(m.FileName, m.FileSize)+"\n"); err != nil {
				f.Close()
				return fmt.Errorf("write file header %s: %w", m.FileName, err)
			}
			_, err = io.CopyN(w, f, m.FileSize)
			f.Close()
			if err != nil {
				return fmt.Errorf("stream attachment %s: %w", m.FileName, err)
			}
		}
		return nil
	}
	return resp
}
