// Package oscnet carries OSC packets over UDP: a Client that sends them, a
// Server that receives them and a Dispatcher that routes messages to methods.
package oscnet

import (
	"net"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/oscwire/go-osc/internal/logger"
	"github.com/oscwire/go-osc/osc"
)

// MaxPacketSize is the largest UDP payload over IPv4.
const MaxPacketSize = 65507

var bufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, MaxPacketSize)
		return &b
	},
}

// Handler receives every packet a Server decodes.
type Handler interface {
	Dispatch(packet osc.Packet, a net.Addr)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(packet osc.Packet, a net.Addr)

// Dispatch calls f.
func (f HandlerFunc) Dispatch(packet osc.Packet, a net.Addr) {
	f(packet, a)
}

// Server represents an OSC server. The server listens on Addr for incoming OSC packets and bundles.
type Server struct {
	Addr        string
	Handler     Handler
	ReadTimeout time.Duration
	// Options are used to decode every packet received.
	Options osc.Options
	Log     *logger.Logger
	// OnError, when set, is called with every datagram that fails to decode.
	OnError func(err error, from net.Addr)
}

// ListenAndServe retrieves incoming OSC packets and dispatches the retrieved OSC packets.
func (s *Server) ListenAndServe() error {
	ln, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", s.Addr)
	}
	defer ln.Close()

	return s.Serve(ln)
}

// Serve retrieves incoming OSC packets from the given connection and hands
// each one to the Handler on its own goroutine. Packets that fail to decode
// are logged and dropped. Serve returns nil once c is closed.
func (s *Server) Serve(c net.PacketConn) error {
	log := s.log()
	if s.Handler == nil {
		s.Handler = NewDispatcher(log)
	}

	var tempDelay time.Duration
	for {
		p, addr, err := s.readFromConnection(c)
		if err != nil {
			var de *decodeError
			if errors.As(err, &de) {
				log.Warn().Err(de.err).Stringer("from", addr).Int("size", de.size).Msg("dropping undecodable packet")
				if s.OnError != nil {
					s.OnError(de.err, addr)
				}
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				tempDelay = 0
				continue
			}
			if errors.As(err, &ne) && ne.Temporary() {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if max := 1 * time.Second; tempDelay > max {
					tempDelay = max
				}
				log.Warn().Err(err).Dur("retry_in", tempDelay).Msg("temporary read error")
				time.Sleep(tempDelay)
				continue
			}
			return err
		}
		tempDelay = 0
		go s.serve(p, addr)
	}
}

func (s *Server) serve(p osc.Packet, a net.Addr) {
	defer func() {
		if err := recover(); err != nil {
			buf := make([]byte, 64<<10)
			buf = buf[:runtime.Stack(buf, false)]
			s.log().Error().
				Interface("panic", err).
				Stringer("from", a).
				Bytes("stack", buf).
				Msg("panic while handling packet")
		}
	}()
	s.Handler.Dispatch(p, a)
}

// ReceivePacket reads one datagram from c and decodes it.
func (s *Server) ReceivePacket(c net.PacketConn) (osc.Packet, net.Addr, error) {
	return s.readFromConnection(c)
}

// decodeError marks a datagram that arrived intact but did not decode.
type decodeError struct {
	err  error
	size int
}

func (e *decodeError) Error() string { return e.err.Error() }

func (e *decodeError) Unwrap() error { return e.err }

// readFromConnection reads one datagram and decodes it.
func (s *Server) readFromConnection(c net.PacketConn) (osc.Packet, net.Addr, error) {
	if s.ReadTimeout != 0 {
		if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			return nil, nil, err
		}
	}

	b := bufPool.Get().(*[]byte)
	defer bufPool.Put(b)

	n, a, err := c.ReadFrom(*b)
	if err != nil {
		return nil, a, err
	}

	p, err := osc.Decode((*b)[:n], s.Options)
	if err != nil {
		return nil, a, &decodeError{err: err, size: n}
	}
	return p, a, nil
}

func (s *Server) log() *logger.Logger {
	if s.Log == nil {
		s.Log = logger.NewNop()
	}
	return s.Log
}
