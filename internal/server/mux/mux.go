// Package mux implements the transport multiplexer: one UDP socket for the
// control plane and one TCP listener for the bulk plane, both funneled into
// a single dispatch goroutine. Only that goroutine touches the entity
// store, which gives every mutation a total order without locks — the Go
// rendition of a select(2) loop that drains one request at a time.
package mux

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/groupboard/internal/logging"
	"github.com/dmitrijs2005/groupboard/internal/protocol"
	"github.com/dmitrijs2005/groupboard/internal/server/board"
)

// Server owns both listening sockets and the dispatch loop.
type Server struct {
	addr    string
	handler *board.Handler
	log     logging.Logger
}

// New returns a multiplexer serving on the given port. The UDP and TCP
// sockets share the port number.
func New(port string, h *board.Handler, log logging.Logger) *Server {
	return &Server{addr: ":" + port, handler: h, log: log.With("module", "mux")}
}

type datagram struct {
	data []byte
	addr net.Addr
}

// Run binds both sockets and serves until ctx is cancelled. A failed bind
// is fatal; per-connection failures only abandon the affected request.
func (s *Server) Run(ctx context.Context) error {
	udp, err := net.ListenPacket("udp", s.addr)
	if err != nil {
		return fmt.Errorf("bind udp %s: %w", s.addr, err)
	}
	defer udp.Close()

	tcp, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("bind tcp %s: %w", s.addr, err)
	}
	defer tcp.Close()

	s.log.Info(ctx, "listening", "addr", s.addr)

	// Closing the sockets is what unblocks the reader goroutines on
	// shutdown.
	go func() {
		<-ctx.Done()
		udp.Close()
		tcp.Close()
	}()

	udpCh := make(chan datagram)
	tcpCh := make(chan net.Conn)
	errCh := make(chan error, 2)

	go s.readUDP(udp, udpCh, errCh)
	go s.acceptTCP(tcp, tcpCh, errCh)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if ctx.Err() != nil {
				return nil
			}
			return err
		case d := <-udpCh:
			s.serveUDP(ctx, udp, d)
		case conn := <-tcpCh:
			s.serveTCP(ctx, conn)
		}
	}
}

// readUDP receives one datagram at a time and hands it to the dispatcher.
// The channel is unbuffered, so at most one datagram is in flight.
func (s *Server) readUDP(udp net.PacketConn, out chan<- datagram, errCh chan<- error) {
	buf := make([]byte, protocol.MaxControlMessage)
	for {
		n, addr, err := udp.ReadFrom(buf)
		if err != nil {
			errCh <- fmt.Errorf("udp read: %w", err)
			return
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		out <- datagram{data: data, addr: addr}
	}
}

// acceptTCP accepts one connection at a time; the dispatcher reads,
// handles, replies and closes it before the next one is taken.
func (s *Server) acceptTCP(ln net.Listener, out chan<- net.Conn, errCh chan<- error) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			errCh <- fmt.Errorf("tcp accept: %w", err)
			return
		}
		out <- conn
	}
}

func (s *Server) serveUDP(ctx context.Context, udp net.PacketConn, d datagram) {
	log := s.log.With("req", uuid.NewString(), "remote", d.addr.String())
	raw := strings.TrimSuffix(string(d.data), "\n")
	log.Debug(ctx, "udp request", "raw", raw)

	resp := s.handler.Handle(ctx, &board.Request{Raw: raw, Remote: d.addr.String()})
	// Bulk replies cannot travel in a datagram; only the status line is
	// ever sent back on the control plane.
	if _, err := udp.WriteTo(resp.Line, d.addr); err != nil {
		log.Warn(ctx, "udp reply failed", "err", err.Error())
		return
	}
	log.Debug(ctx, "udp reply", "raw", strings.TrimSuffix(string(resp.Line), "\n"))
}

func (s *Server) serveTCP(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	log := s.log.With("req", uuid.NewString(), "remote", remote)

	br := bufio.NewReader(conn)
	line, err := br.ReadString('\n')
	if err != nil {
		// A peer that closes before sending a full header is treated
		// as an undelivered request; nothing was handled.
		if !errors.Is(err, io.EOF) {
			log.Warn(ctx, "tcp read failed", "err", err.Error())
		}
		return
	}
	raw := strings.TrimSuffix(line, "\n")
	log.Debug(ctx, "tcp request", "raw", raw)

	resp := s.handler.Handle(ctx, &board.Request{Raw: raw, Remote: remote, Body: br})
	if _, err := conn.Write(resp.Line); err != nil {
		log.Warn(ctx, "tcp reply failed", "err", err.Error())
		return
	}
	if resp.Stream != nil {
		bw := bufio.NewWriter(conn)
		if err := resp.Stream(bw); err != nil {
			log.Warn(ctx, "tcp stream failed", "err", err.Error())
			return
		}
		if err := bw.Flush(); err != nil {
			log.Warn(ctx, "tcp flush failed", "err", err.Error())
		}
	}
	log.Debug(ctx, "tcp reply", "raw", strings.TrimSuffix(string(resp.Line), "\n"))
}
