package management

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"cryptovault/pkg/engine"
	"cryptovault/pkg/log"
)

const logsCommandCount = 20

// Counter reports how many transformations were served.
type Counter interface {
	Served() int64
}

// RegisterEngine adds the cipher commands: methods, encrypt, decrypt and a
// status line that includes the served count.
func (s *Server) RegisterEngine(eng *engine.Engine, served Counter) {
	s.RegisterHandler("methods", "List registered cipher methods", func(args []string) (string, error) {
		return "OK: " + strings.Join(eng.Registry().Methods(), " "), nil
	})
	s.RegisterHandler("encrypt", "Encrypt text. Usage: encrypt <key> <method> <message...>", transformCommand(eng, engine.Encrypt))
	s.RegisterHandler("decrypt", "Decrypt text. Usage: decrypt <key> <method> <message...>", transformCommand(eng, engine.Decrypt))
	if served != nil {
		s.RegisterHandler("status", "Show daemon status, uptime and transformations served", func(args []string) (string, error) {
			return fmt.Sprintf("OK: started %s, %s transformations served",
				humanize.Time(s.startTime), humanize.Comma(served.Served())), nil
		})
	}
}

func transformCommand(eng *engine.Engine, dir engine.Direction) CommandHandler {
	return func(args []string) (string, error) {
		if len(args) < 2 {
			return "", errors.New("usage: " + dir.String() + " <key> <method> <message...>")
		}
		out, err := eng.TransformRaw(strings.Join(args[2:], " "), args[0], args[1], dir)
		if err != nil {
			return "", err
		}
		return out, nil
	}
}

func handleLogsCommand(args []string) (string, error) {
	entries, err := log.GetLastNLogs(logsCommandCount)
	if err != nil {
		return "", err
	}
	pretty := len(args) > 0 && args[0] == "pretty"
	var b bytes.Buffer
	w := zerolog.ConsoleWriter{Out: &b, TimeFormat: time.RFC3339, NoColor: true}
	for _, e := range entries {
		if pretty {
			if _, err := w.Write([]byte(e.LogData)); err == nil {
				continue
			}
		}
		b.WriteString(strings.TrimRight(e.LogData, "\n"))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
