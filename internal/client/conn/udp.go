// Package conn implements the client side of both transport planes: the
// datagram exchange used by control commands and the per-request TCP
// connections used by bulk commands.
package conn

import (
	"context"
	"net"
	"os"
	"time"

	"github.com/sethvargo/go-retry"
)

// maxDatagram bounds a single reply datagram. Group listings are the
// largest replies and stay well under this.
const maxDatagram = 8192

// UDP sends one control request per datagram and waits for the reply.
// A reply that does not arrive within the timeout is treated as lost and
// the request is resent, up to the configured number of retries.
type UDP struct {
	addr    string
	timeout time.Duration
	retries uint64
}

func NewUDP(addr string, timeout time.Duration, retries uint64) *UDP {
	return &UDP{addr: addr, timeout: timeout, retries: retries}
}

// Exchange sends request and returns the server's reply. Each attempt uses
// a fresh socket so a stale reply to an earlier attempt cannot be read as
// the answer to a later one.
func (u *UDP) Exchange(ctx context.Context, request []byte) ([]byte, error) {
	var reply []byte

	backoff := retry.WithMaxRetries(u.retries, retry.NewConstant(10*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		c, err := net.Dial("udp", u.addr)
		if err != nil {
			return err
		}
		defer c.Close()

		if _, err := c.Write(request); err != nil {
			return retry.RetryableError(err)
		}

		if err := c.SetReadDeadline(time.Now().Add(u.timeout)); err != nil {
			return err
		}

		buf := make([]byte, maxDatagram)
		n, err := c.Read(buf)
		if err != nil {
			if os.IsTimeout(err) {
				return retry.RetryableError(err)
			}
			return err
		}

		reply = buf[:n]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}
