package management

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"
)

const (
	connectTimeout   = 1 * time.Second
	readWriteTimeout = 8 * time.Second
)

type Client struct {
	socketPath string
	password   string
}

func NewClient(socketPath, password string) *Client {
	return &Client{socketPath: socketPath, password: password}
}

// IsServerStarted reports whether a server answers ping on the socket.
func (c *Client) IsServerStarted() bool {
	res, err := c.SendCommand("ping")
	return err == nil && res == pongString
}

// SendCommand runs one command and returns the response text. An empty
// command means "help".
func (c *Client) SendCommand(command string) (string, error) {
	if strings.TrimSpace(command) == "" {
		command = "help"
	}
	conn, err := net.DialTimeout("unix", c.socketPath, connectTimeout)
	if err != nil {
		return "", fmt.Errorf("connect to %s (is the daemon running?): %w", c.socketPath, err)
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(readWriteTimeout)); err != nil {
		return "", err
	}

	w := bufio.NewWriter(conn)
	if c.password != "" {
		fmt.Fprintf(w, "%s\n", c.password)
	}
	fmt.Fprintf(w, "%s\nquit\n", command)
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("send command: %w", err)
	}

	res, err := recvMessage(bufio.NewReader(conn))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if res == nokAuthString {
		return "", fmt.Errorf("auth failure: %s", res)
	}
	return res, nil
}
