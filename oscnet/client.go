package oscnet

import (
	"net"

	"github.com/pkg/errors"

	"github.com/oscwire/go-osc/internal/logger"
	"github.com/oscwire/go-osc/osc"
)

// Client enables you to send OSC Packets to a specified server.
type Client struct {
	// Options are used to encode every packet sent.
	Options osc.Options
	// Log receives a debug entry per datagram sent. Nil disables it.
	Log *logger.Logger

	conn *net.UDPConn
}

// Dial creates a new OSC Client with a connection to the specified server.
func Dial(addr string) (*Client, error) {
	a, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", addr)
	}

	conn, err := net.DialUDP("udp", nil, a)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", addr)
	}
	return &Client{conn: conn}, nil
}

// Send encodes packet and writes it as a single datagram.
func (c *Client) Send(packet osc.Packet) error {
	data, err := osc.Encode(packet, c.Options)
	if err != nil {
		return err
	}
	if len(data) > MaxPacketSize {
		return errors.Errorf("packet of %d bytes exceeds MaxPacketSize", len(data))
	}

	if _, err = c.conn.Write(data); err != nil {
		return errors.Wrapf(err, "send to %s", c.conn.RemoteAddr())
	}
	if c.Log != nil {
		c.Log.Debug().Stringer("to", c.conn.RemoteAddr()).Int("size", len(data)).Msg("packet sent")
	}
	return nil
}

// Close closes the connection to the server.
func (c *Client) Close() error {
	return c.conn.Close()
}
