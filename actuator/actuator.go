// Package actuator sends position commands to the actuator controller
// over UDP. The controller expects a fixed-size datagram holding the
// same signed 16-bit command repeated for every drive channel, in
// network byte order. Delivery is fire-and-forget; there is no
// acknowledgement.
package actuator

import (
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
)

// commandWords is the number of 16-bit words per command datagram, fixed
// by the controller firmware.
const commandWords = 8

// Client is a connected UDP command channel.
type Client struct {
	conn net.Conn
	buf  [2 * commandWords]byte
}

// New resolves the controller address and connects the UDP socket.
func New(host string, port int) (*Client, error) {
	conn, err := net.Dial("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to actuator at %s:%d: %w", host, port, err)
	}
	return &Client{conn: conn}, nil
}

// Send transmits one command datagram with value in every word.
func (c *Client) Send(value int16) error {
	for i := 0; i < commandWords; i++ {
		binary.BigEndian.PutUint16(c.buf[2*i:], uint16(value))
	}
	n, err := c.conn.Write(c.buf[:])
	if err != nil {
		return fmt.Errorf("failed to send command %d: %w", value, err)
	}
	if n != len(c.buf) {
		return fmt.Errorf("short command datagram: sent %d of %d bytes", n, len(c.buf))
	}
	return nil
}

// Close shuts the command socket.
func (c *Client) Close() error {
	return c.conn.Close()
}
