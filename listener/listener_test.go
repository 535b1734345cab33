package listener

import (
	"bufio"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// newKeyPair returns a server config holding a self-signed certificate for
// 127.0.0.1 and a pool that trusts it.
func newKeyPair(t *testing.T) (*tls.Config, *x509.CertPool) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "foundry.test"},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1)},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}

	pool := x509.NewCertPool()
	pool.AddCert(cert)
	return &tls.Config{
		Certificates: []tls.Certificate{{Certificate: [][]byte{der}, PrivateKey: key, Leaf: cert}},
	}, pool
}

// serveScheme answers every request with the scheme it arrived on.
func serveScheme(t *testing.T, ln net.Listener) {
	t.Helper()

	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS != nil {
				fmt.Fprint(w, "https")
				return
			}
			fmt.Fprint(w, "http")
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ln)
	}()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("shutting down: %v", err)
		}
		if err := <-done; !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("\nwanted:\n%v\ngot:\n%v", http.ErrServerClosed, err)
		}
	})
}

func get(client *http.Client, url string) (string, error) {
	res, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	return string(body), err
}

func clientFor(roots *x509.CertPool) *http.Client {
	return &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			DisableKeepAlives: true,
			TLSClientConfig:   &tls.Config{RootCAs: roots},
		},
	}
}

func TestListen(t *testing.T) {
	serverTLS, roots := newKeyPair(t)

	rejected := make(chan error, 4)
	ln, err := Listen("127.0.0.1", "0", serverTLS, WithErrorHandler(func(err error) {
		rejected <- err
	}))
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	if _, ok := ln.(*ResilientListener); !ok {
		t.Fatalf("wanted *ResilientListener, got %T", ln)
	}
	serveScheme(t, ln)

	addr := ln.Addr().String()
	client := clientFor(roots)

	t.Run("should serve plain http", func(t *testing.T) {
		got, err := get(client, "http://"+addr+"/")
		if err != nil || got != "http" {
			t.Fatalf("\nwanted:\nhttp\ngot:\n%q %v", got, err)
		}
	})

	t.Run("should serve https on the same port", func(t *testing.T) {
		got, err := get(client, "https://"+addr+"/")
		if err != nil || got != "https" {
			t.Fatalf("\nwanted:\nhttps\ngot:\n%q %v", got, err)
		}
	})

	t.Run("should keep serving after a failed handshake", func(t *testing.T) {
		if _, err := get(clientFor(x509.NewCertPool()), "https://"+addr+"/"); err == nil {
			t.Fatalf("\nwanted:\nunknown authority error\ngot:\nnil")
		}

		select {
		case err := <-rejected:
			if !strings.Contains(err.Error(), "performing tls handshake") {
				t.Fatalf("\nwanted:\nperforming tls handshake\ngot:\n%v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("rejected handshake was not reported")
		}

		got, err := get(client, "https://"+addr+"/")
		if err != nil || got != "https" {
			t.Fatalf("\nwanted:\nhttps\ngot:\n%q %v", got, err)
		}
	})
}

func TestListen_WithoutTLS(t *testing.T) {
	ln, err := Listen("127.0.0.1", "0", nil)
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	serveScheme(t, ln)

	got, err := get(clientFor(nil), "http://"+ln.Addr().String()+"/")
	if err != nil || got != "http" {
		t.Fatalf("\nwanted:\nhttp\ngot:\n%q %v", got, err)
	}
}

func TestListen_AddressInUse(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	defer taken.Close()

	_, port, _ := net.SplitHostPort(taken.Addr().String())
	if _, err := Listen("127.0.0.1", port, nil); err == nil {
		t.Fatalf("\nwanted:\nerror\ngot:\nnil")
	}
}

func TestMuxListener_Sniff(t *testing.T) {
	serverTLS, _ := newKeyPair(t)

	tests := []struct {
		name  string
		send  []byte
		wants []string
	}{
		{
			name:  "should time out a silent client",
			wants: []string{"peeking initial bytes", "i/o timeout"},
		},
		{
			name:  "should reject a truncated record header",
			send:  []byte{0x16},
			wants: []string{"peeking initial bytes", "EOF"},
		},
		{
			name:  "should reject a record that is not a handshake",
			send:  []byte{0x16, 0x03, 0x01, 0x00, 0x01, 0xff},
			wants: []string{"performing tls handshake"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
			}
			defer base.Close()

			mux := NewMuxListener(base, serverTLS)
			mux.HandshakeTimeout = 200 * time.Millisecond

			client, err := net.Dial("tcp", base.Addr().String())
			if err != nil {
				t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
			}
			if tt.send != nil {
				client.Write(tt.send)
				client.(*net.TCPConn).CloseWrite()
			}
			defer client.Close()

			conn, err := mux.Accept()
			if err == nil {
				conn.Close()
				t.Fatalf("\nwanted:\nerror\ngot:\nnil")
			}
			for _, want := range tt.wants {
				if !strings.Contains(err.Error(), want) {
					t.Fatalf("\nwanted:\n%s\ngot:\n%v", want, err)
				}
			}
		})
	}
}

func TestBufferedConn_ReadsSniffedBytesFirst(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	go func() {
		client.Write([]byte("GET /products HTTP/1.1\r\n"))
		client.Close()
	}()

	reader := bufio.NewReader(server)
	if _, err := reader.Peek(2); err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}

	got, err := io.ReadAll(&bufferedConn{Conn: server, Reader: reader})
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	if string(got) != "GET /products HTTP/1.1\r\n" {
		t.Fatalf("\nwanted:\n%q\ngot:\n%q", "GET /products HTTP/1.1\r\n", got)
	}
}

// stubListener returns the results of accept in order.
type stubListener struct {
	accept func() (net.Conn, error)
}

func (s *stubListener) Accept() (net.Conn, error) { return s.accept() }
func (s *stubListener) Close() error              { return nil }
func (s *stubListener) Addr() net.Addr            { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)} }

func TestMuxListener_PassThroughWithoutTLS(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	base := &stubListener{accept: func() (net.Conn, error) { return server, nil }}
	conn, err := NewMuxListener(base, nil).Accept()
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	defer conn.Close()

	if conn != server {
		t.Fatalf("wanted the raw connection, got %T", conn)
	}
}

func TestResilientListener(t *testing.T) {
	t.Run("should skip connections that fail", func(t *testing.T) {
		var calls, handled atomic.Int32
		server, client := net.Pipe()
		defer client.Close()

		base := &stubListener{accept: func() (net.Conn, error) {
			if calls.Add(1) < 3 {
				return nil, errors.New("performing tls handshake: remote error")
			}
			return server, nil
		}}

		conn, err := NewResilientListener(base, WithErrorHandler(func(error) { handled.Add(1) })).Accept()
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		defer conn.Close()

		if conn != server || calls.Load() != 3 || handled.Load() != 2 {
			t.Fatalf("\nwanted:\n3 calls, 2 handled\ngot:\n%d calls, %d handled", calls.Load(), handled.Load())
		}
	})

	t.Run("should stop once the listener is closed", func(t *testing.T) {
		var calls atomic.Int32
		base := &stubListener{accept: func() (net.Conn, error) {
			calls.Add(1)
			return nil, fmt.Errorf("accepting connection: %w", net.ErrClosed)
		}}

		_, err := NewResilientListener(base).Accept()
		if !errors.Is(err, net.ErrClosed) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", net.ErrClosed, err)
		}
		if calls.Load() != 1 {
			t.Fatalf("\nwanted:\n1\ngot:\n%d", calls.Load())
		}
	})

	t.Run("should return from accept after close", func(t *testing.T) {
		ln, err := Listen("127.0.0.1", "0", nil)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if err := ln.Close(); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if _, err := ln.Accept(); !errors.Is(err, net.ErrClosed) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", net.ErrClosed, err)
		}
	})
}
