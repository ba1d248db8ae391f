package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/groupboard/internal/protocol"
)

func (a *App) askGroupID() (string, error) {
	gid, err := GetSimpleText(a.reader, "Group id (2 digits)", a.out)
	if err != nil {
		return "", err
	}
	if !protocol.IsGID(gid) || gid == protocol.CreateGroupID {
		fmt.Fprintln(a.out, "invalid group id")
		return "", errAborted
	}
	return gid, nil
}

func (a *App) UserList(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "not logged in")
		return errAborted
	}

	gid, err := a.askGroupID()
	if err != nil {
		return err
	}

	reply, err := a.tcp.Exchange(ctx, protocol.Encode(string(protocol.VerbUserList), gid))
	if err != nil {
		fmt.Fprintln(a.out, "server did not respond:", err)
		return err
	}

	tokens, err := a.replyTokens(protocol.VerbUserList, string(reply))
	if err != nil {
		return err
	}

	if tokens[0] != protocol.StatusOK || len(tokens) < 2 {
		fmt.Fprintln(a.out, "no such group")
		return nil
	}

	name, uids := tokens[1], tokens[2:]
	if len(uids) == 0 {
		fmt.Fprintf(a.out, "group %s has no subscribers\n", name)
		return nil
	}
	fmt.Fprintf(a.out, "subscribers of %s: %s\n", name, strings.Join(uids, " "))
	return nil
}

func (a *App) Post(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "not logged in")
		return errAborted
	}

	gid, err := a.askGroupID()
	if err != nil {
		return err
	}

	text, err := GetSimpleText(a.reader, "Message text (up to 240 characters)", a.out)
	if err != nil {
		return err
	}
	if text == "" || len(text) > protocol.MaxTextLen || strings.ContainsRune(text, '"') {
		fmt.Fprintln(a.out, "invalid message text")
		return errAborted
	}

	path, err := GetSimpleText(a.reader, "File to attach (empty for none)", a.out)
	if err != nil {
		return err
	}

	post := &protocol.PostRequest{UID: a.uid, GID: gid, Text: text}

	var payload io.Reader
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintln(a.out, "cannot open file:", err)
			return errAborted
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			fmt.Fprintln(a.out, "cannot stat file:", err)
			return errAborted
		}

		name := filepath.Base(path)
		if !protocol.IsFileName(name) {
			fmt.Fprintln(a.out, "invalid attachment name")
			return errAborted
		}
		if info.Size() == 0 || info.Size() > protocol.MaxFileSize {
			fmt.Fprintln(a.out, "attachment is empty or too large")
			return errAborted
		}

		post.FileName = name
		post.FileSize = info.Size()
		payload = f
	}

	header := []byte(protocol.EncodePost(post) + "\n")
	reply, err := a.tcp.Post(ctx, header, payload, post.FileSize)
	if err != nil {
		fmt.Fprintln(a.out, "server did not respond:", err)
		return err
	}

	tokens, err := a.replyTokens(protocol.VerbPost, string(reply))
	if err != nil {
		return err
	}

	if !protocol.IsMID(tokens[0]) {
		fmt.Fprintln(a.out, "post refused")
		return nil
	}
	fmt.Fprintln(a.out, "posted message", tokens[0])
	return nil
}

func (a *App) Retrieve(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "not logged in")
		return errAborted
	}

	gid, err := a.askGroupID()
	if err != nil {
		return err
	}

	startText, err := GetSimpleText(a.reader, "First message to retrieve (1-9999)", a.out)
	if err != nil {
		return err
	}
	start, err := strconv.Atoi(startText)
	if err != nil || start < 1 || start > protocol.MaxMessages {
		fmt.Fprintln(a.out, "invalid message number")
		return errAborted
	}

	header := protocol.Encode(string(protocol.VerbRetrieve), a.uid, gid, fmt.Sprintf("%04d", start))

	err = a.tcp.Retrieve(ctx, header, func(r *bufio.Reader) error {
		line, err := r.ReadString('\n')
		if err != nil {
			return err
		}

		tokens, err := a.replyTokens(protocol.VerbRetrieve, line)
		if err != nil {
			return err
		}

		switch tokens[0] {
		case protocol.StatusEOF:
			fmt.Fprintln(a.out, "no messages to retrieve")
			return nil
		case protocol.StatusOK:
		default:
			fmt.Fprintln(a.out, "retrieve refused")
			return nil
		}

		if len(tokens) != 2 {
			fmt.Fprintln(a.out, "unexpected reply from server")
			return errAborted
		}
		n, err := strconv.Atoi(tokens[1])
		if err != nil || n < 1 || n > protocol.RetrieveBatchSize {
			fmt.Fprintln(a.out, "unexpected reply from server")
			return errAborted
		}

		fmt.Fprintf(a.out, "retrieving %d message(s)\n", n)
		return a.readBatch(r, n)
	})
	if err != nil && err != errAborted {
		fmt.Fprintln(a.out, "retrieve failed:", err)
	}
	return err
}

// readBatch consumes n message entries, saving any inline attachments to
// the download directory.
func (a *App) readBatch(r *bufio.Reader, n int) error {
	for i := 0; i < n; i++ {
		line, err := r.ReadString('\n')
		if err != nil {
			return err
		}

		entry, err := protocol.ParseEntry(strings.TrimSuffix(line, "\n"))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s %s: %q\n", entry.MID, entry.UID, entry.Text)

		peek, err := r.Peek(len(protocol.FileHeaderPrefix))
		if err != nil || !protocol.IsFileHeader(string(peek)) {
			continue
		}

		line, err = r.ReadString('\n')
		if err != nil {
			return err
		}
		name, size, err := protocol.ParseFileHeader(strings.TrimSuffix(line, "\n"))
		if err != nil {
			return err
		}

		if err := a.saveAttachment(r, name, size); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "  saved attachment %s (%d bytes)\n", filepath.Join(a.config.DownloadDir, name), size)
	}
	return nil
}

func (a *App) saveAttachment(r io.Reader, name string, size int64) error {
	if err := os.MkdirAll(a.config.DownloadDir, 0o770); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(a.config.DownloadDir, name))
	if err != nil {
		return err
	}

	if _, err := io.CopyN(f, r, size); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	return f.Close()
}
