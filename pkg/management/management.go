// Package management runs a line-oriented control socket next to the HTTP
// service. A client writes one command per line (after an optional password
// line) and receives a response framed by a line holding a single ".".
package management

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"cryptovault/pkg/log"
)

const (
	pongString    = "OK: pong"
	nokAuthString = "ERR: authentication failed"
	endOfMessage  = "."

	authTimeout = 5 * time.Second
	idleTimeout = 30 * time.Second
)

// CommandHandler handles one command. args are the whitespace-separated
// words after the command name.
type CommandHandler func(args []string) (string, error)

type CommandInfo struct {
	Handler     CommandHandler
	Description string
}

type Server struct {
	socketPath string
	password   string
	listener   net.Listener
	handlers   map[string]CommandInfo
	mu         sync.RWMutex // guards handlers
	quit       chan struct{}
	wg         sync.WaitGroup
	startTime  time.Time
}

func NewServer(socketPath, password string) *Server {
	s := &Server{
		socketPath: socketPath,
		password:   password,
		handlers:   make(map[string]CommandInfo),
		quit:       make(chan struct{}),
		startTime:  time.Now(),
	}
	s.RegisterHandler("status", "Show daemon status and uptime", s.handleStatusCommand)
	s.RegisterHandler("ping", "Check that the management interface responds", s.handlePingCommand)
	s.RegisterHandler("logs", "Show the last stored log events. Usage: logs [pretty]", handleLogsCommand)
	s.RegisterHandler("help", "Show help for commands. Usage: help [command]", s.handleHelpCommand)
	s.RegisterHandler("list", "Alias for 'help'", s.handleHelpCommand)
	return s
}

func (s *Server) SocketPath() string { return s.socketPath }

// RegisterHandler adds or replaces a command. Names are case-insensitive.
func (s *Server) RegisterHandler(command, description string, handler CommandHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := strings.ToLower(command)
	if _, exists := s.handlers[name]; exists {
		log.Warn().Str("command", name).Msg("mgmt: overwriting handler")
	}
	s.handlers[name] = CommandInfo{Handler: handler, Description: description}
}

// Start listens on the unix socket, replacing a stale socket file.
func (s *Server) Start() error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o755); err != nil {
		return fmt.Errorf("mgmt: create socket dir: %w", err)
	}
	if _, err := os.Stat(s.socketPath); err == nil {
		if err := os.Remove(s.socketPath); err != nil {
			log.Warn().Err(err).Msg("mgmt: failed to remove stale socket")
		}
	}
	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("mgmt: listen on %s: %w", s.socketPath, err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		log.Warn().Err(err).Msg("mgmt: could not restrict socket permissions")
	}
	s.listener = ln
	log.Info().Str("socket", s.socketPath).Msg("mgmt: listening")

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Stop closes the listener, waits for open connections and removes the
// socket file.
func (s *Server) Stop() {
	select {
	case <-s.quit:
		return
	default:
	}
	close(s.quit)
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("mgmt: failed to remove socket")
	}
	log.Info().Msg("mgmt: stopped")
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
			}
			log.Warn().Err(err).Msg("mgmt: accept failed")
			time.Sleep(100 * time.Millisecond)
			continue
		}
		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	// Unblock reads when the server stops.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-s.quit:
			conn.SetDeadline(time.Now())
		case <-done:
		}
	}()

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	if s.password != "" {
		conn.SetReadDeadline(time.Now().Add(authTimeout))
		pass, err := reader.ReadString('\n')
		if err != nil || strings.TrimSpace(pass) != s.password {
			log.Warn().Msg("mgmt: authentication failed")
			writeMessage(writer, nokAuthString)
			return
		}
	}

	for {
		conn.SetReadDeadline(time.Now().Add(idleTimeout))
		line, err := reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug().Err(err).Msg("mgmt: connection closed")
			}
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" {
			writeMessage(writer, "OK: Bye!")
			return
		}
		if err := writeMessage(writer, s.dispatch(line)); err != nil {
			log.Debug().Err(err).Msg("mgmt: write failed")
			return
		}
	}
}

func (s *Server) dispatch(line string) string {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	s.mu.RLock()
	info, ok := s.handlers[command]
	s.mu.RUnlock()
	if !ok {
		return fmt.Sprintf("ERR: unknown command '%s'. Try 'help'.", command)
	}
	res, err := info.Handler(parts[1:])
	if err != nil {
		return fmt.Sprintf("ERR: %s: %v", command, err)
	}
	return res
}

// writeMessage writes msg followed by the terminator line. Lines starting
// with "." get an extra leading dot.
func writeMessage(w *bufio.Writer, msg string) error {
	for _, line := range strings.Split(strings.TrimRight(msg, "\n"), "\n") {
		if strings.HasPrefix(line, endOfMessage) {
			line = endOfMessage + line
		}
		if _, err := w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	if _, err := w.WriteString(endOfMessage + "\n"); err != nil {
		return err
	}
	return w.Flush()
}

// recvMessage reads lines up to the terminator and undoes dot-stuffing.
func recvMessage(r *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == endOfMessage {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, strings.TrimPrefix(line, endOfMessage))
	}
}

func (s *Server) handleStatusCommand(args []string) (string, error) {
	uptime := time.Since(s.startTime).Round(time.Second)
	return fmt.Sprintf("OK: daemon running since %s (uptime %s)", s.startTime.Format(time.RFC3339), uptime), nil
}

func (s *Server) handlePingCommand(args []string) (string, error) {
	return pongString, nil
}

func (s *Server) handleHelpCommand(args []string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b strings.Builder
	if len(args) > 0 {
		name := strings.ToLower(args[0])
		info, ok := s.handlers[name]
		if !ok {
			return "", fmt.Errorf("unknown command '%s'", name)
		}
		fmt.Fprintf(&b, "OK: %s: %s", name, info.Description)
		return b.String(), nil
	}

	cmds := make([]string, 0, len(s.handlers))
	maxLen := 0
	for name := range s.handlers {
		cmds = append(cmds, name)
		maxLen = max(maxLen, len(name))
	}
	sort.Strings(cmds)
	b.WriteString("OK: available commands:\n")
	for _, name := range cmds {
		fmt.Fprintf(&b, "  %-*s  %s\n", maxLen, name, s.handlers[name].Description)
	}
	b.WriteString("  quit")
	return b.String(), nil
}
