// Package listener provides the net.Listener wrappers the site server runs on:
// a resilient listener that survives per-connection failures, and a mux listener
// that serves plain HTTP and TLS on the same port.
package listener

import (
	"bufio"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"
)

// DefaultHandshakeTimeout bounds the protocol sniff and the TLS handshake.
const DefaultHandshakeTimeout = 10 * time.Second

// bufferedConn reads through the buffered reader that holds the sniffed bytes.
type bufferedConn struct {
	net.Conn
	io.Reader
}

func (bc *bufferedConn) Read(b []byte) (int, error) {
	return bc.Reader.Read(b)
}

// MuxListener inspects the first bytes of each connection and terminates TLS
// when they look like a ClientHello. With a nil TLSConfig every connection is
// passed through untouched.
type MuxListener struct {
	net.Listener
	TLSConfig        *tls.Config
	HandshakeTimeout time.Duration
}

func NewMuxListener(listener net.Listener, tlsConfig *tls.Config) *MuxListener {
	return &MuxListener{
		Listener:         listener,
		TLSConfig:        tlsConfig,
		HandshakeTimeout: DefaultHandshakeTimeout,
	}
}

func (l *MuxListener) Accept() (net.Conn, error) {
	rawConn, err := l.Listener.Accept()
	if err != nil {
		return nil, fmt.Errorf("accepting connection: %w", err)
	}

	if l.TLSConfig == nil {
		return rawConn, nil
	}

	reader := bufio.NewReader(rawConn)

	if err := rawConn.SetReadDeadline(time.Now().Add(l.HandshakeTimeout)); err != nil {
		rawConn.Close()
		return nil, fmt.Errorf("setting read deadline for peek: %w", err)
	}

	peeked, peekErr := reader.Peek(2)

	if err := rawConn.SetReadDeadline(time.Time{}); err != nil {
		rawConn.Close()
		return nil, fmt.Errorf("clearing read deadline after peek: %w", err)
	}
	if peekErr != nil {
		rawConn.Close()
		return nil, fmt.Errorf("peeking initial bytes: %w", peekErr)
	}

	buffered := &bufferedConn{Conn: rawConn, Reader: reader}

	// 0x16 0x03 is a TLS handshake record.
	if peeked[0] != 0x16 || peeked[1] != 0x03 {
		return buffered, nil
	}

	tlsConn := tls.Server(buffered, l.TLSConfig)
	if err := rawConn.SetDeadline(time.Now().Add(l.HandshakeTimeout)); err != nil {
		tlsConn.Close()
		return nil, fmt.Errorf("setting deadline for handshake: %w", err)
	}
	if err := tlsConn.Handshake(); err != nil {
		tlsConn.Close()
		return nil, fmt.Errorf("performing tls handshake: %w", err)
	}
	if err := rawConn.SetDeadline(time.Time{}); err != nil {
		tlsConn.Close()
		return nil, fmt.Errorf("clearing deadline after handshake: %w", err)
	}
	return tlsConn, nil
}

// ResilientListener keeps accepting after errors that only affect a single
// connection. Closing the wrapped listener is the only way out of Accept.
type ResilientListener struct {
	net.Listener
	logger  *slog.Logger
	onError func(error)
}

// Option configures a ResilientListener.
type Option func(*ResilientListener)

// WithLogger sets the logger that receives rejected connections.
func WithLogger(logger *slog.Logger) Option {
	return func(l *ResilientListener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithErrorHandler registers a callback for every rejected connection.
func WithErrorHandler(handler func(error)) Option {
	return func(l *ResilientListener) {
		l.onError = handler
	}
}

func NewResilientListener(listener net.Listener, options ...Option) *ResilientListener {
	l := &ResilientListener{
		Listener: listener,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *ResilientListener) Accept() (net.Conn, error) {
	for {
		conn, err := l.Listener.Accept()
		if err == nil {
			return conn, nil
		}
		if errors.Is(err, net.ErrClosed) {
			return nil, err
		}

		l.logger.Warn("connection rejected", "error", err)
		if l.onError != nil {
			l.onError(err)
		}
	}
}

// Listen opens a TCP listener on address:port wrapped in a MuxListener and a
// ResilientListener. tlsConfig may be nil.
func Listen(address, port string, tlsConfig *tls.Config, options ...Option) (net.Listener, error) {
	raw, err := net.Listen("tcp", net.JoinHostPort(address, port))
	if err != nil {
		return nil, fmt.Errorf("setting up listener on %s:%s: %w", address, port, err)
	}
	return NewResilientListener(NewMuxListener(raw, tlsConfig), options...), nil
}
