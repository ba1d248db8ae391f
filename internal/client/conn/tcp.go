package conn

import (
	"bufio"
	"context"
	"io"
	"net"
)

// TCP dials one connection per bulk request, per the protocol's
// request-reply-close discipline.
type TCP struct {
	addr string
}

func NewTCP(addr string) *TCP {
	return &TCP{addr: addr}
}

func (t *TCP) dial(ctx context.Context) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "tcp", t.addr)
}

// Exchange writes a newline-terminated request and returns the single-line
// reply.
func (t *TCP) Exchange(ctx context.Context, request []byte) ([]byte, error) {
	c, err := t.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	if _, err := c.Write(request); err != nil {
		return nil, err
	}

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		return nil, err
	}
	return []byte(line), nil
}

// Post writes the request header, streams size bytes of payload after it,
// and returns the single-line reply. A nil payload sends the header alone.
func (t *TCP) Post(ctx context.Context, header []byte, payload io.Reader, size int64) ([]byte, error) {
	c, err := t.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	w := bufio.NewWriter(c)
	if _, err := w.Write(header); err != nil {
		return nil, err
	}
	if payload != nil {
		if _, err := io.CopyN(w, payload, size); err != nil {
			return nil, err
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		return nil, err
	}
	return []byte(line), nil
}

// Retrieve writes the request header and hands the connection's buffered
// read side to fn, which consumes the multi-line reply including any raw
// attachment bytes.
func (t *TCP) Retrieve(ctx context.Context, header []byte, fn func(r *bufio.Reader) error) error {
	c, err := t.dial(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if _, err := c.Write(header); err != nil {
		return err
	}
	return fn(bufio.NewReader(c))
}
