// Package cli implements the interactive message-board client: a REPL
// that turns user commands into control-plane datagrams and bulk-plane
// TCP requests.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/groupboard/internal/client/config"
	"github.com/dmitrijs2005/groupboard/internal/client/conn"
	"github.com/dmitrijs2005/groupboard/internal/protocol"
)

// errAborted marks a command that stopped on bad input or a refused
// request. Handlers report the cause to the user before returning it.
var errAborted = errors.New("command aborted")

// controlPlane sends one request datagram and returns the reply.
type controlPlane interface {
	Exchange(ctx context.Context, request []byte) ([]byte, error)
}

// bulkPlane runs one request per TCP connection.
type bulkPlane interface {
	Exchange(ctx context.Context, request []byte) ([]byte, error)
	Post(ctx context.Context, header []byte, payload io.Reader, size int64) ([]byte, error)
	Retrieve(ctx context.Context, header []byte, fn func(r *bufio.Reader) error) error
}

type App struct {
	config *config.Config
	udp    controlPlane
	tcp    bulkPlane
	reader *bufio.Reader
	out    io.Writer

	// Credentials of the logged-in user; empty when nobody is logged in.
	uid      string
	password string
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		udp:    conn.NewUDP(c.Addr(), c.Timeout, c.Retries),
		tcp:    conn.NewTCP(c.Addr()),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (a *App) isLoggedIn() bool {
	return a.uid != ""
}

func (a *App) getStatus() string {
	if a.uid == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.uid)
}

// Run starts the REPL on standard input and returns when the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the groupboard client (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// control sends a single control-plane request and returns the reply
// tokens after checking the reply verb. A bare ERR reply or a verb other
// than the expected one aborts the command.
func (a *App) control(ctx context.Context, verb protocol.Verb, args ...string) ([]string, error) {
	reply, err := a.udp.Exchange(ctx, protocol.Encode(string(verb), args...))
	if err != nil {
		fmt.Fprintln(a.out, "server did not respond:", err)
		return nil, err
	}
	return a.replyTokens(verb, string(reply))
}

func (a *App) replyTokens(verb protocol.Verb, reply string) ([]string, error) {
	tokens := strings.Fields(strings.TrimSpace(reply))
	if len(tokens) < 2 || tokens[0] != protocol.ReplyVerb(verb) {
		fmt.Fprintln(a.out, "unexpected reply from server")
		return nil, errAborted
	}
	return tokens[1:], nil
}
