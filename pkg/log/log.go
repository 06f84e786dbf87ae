// Package log provides the process-wide zerolog logger. Events go to the
// console and, once Init is called, are also stored as JSON rows in a SQLite
// database that the `logs` command and the management socket can query.
package log

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

var (
	writeSinceStart  atomic.Int64
	pkgLogger        = zerolog.Nop()
	consoleOut       io.Writer
	level            = zerolog.InfoLevel
	dbWriterInstance *sqliteWriter
	dbHandle         *sql.DB
	mu               sync.RWMutex // guards the globals above

	timeFieldFormat = "2006-01-02T15:04:05.000000000Z07:00" // fixed width, sorts lexically

	ErrNotInitialized = errors.New("log: store not initialized, call log.Init() first")
)

type sqliteWriter struct {
	db   *sql.DB
	stmt *sql.Stmt
	mu   sync.Mutex
}

func openStore(dbPath string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db %s: %w", dbPath, err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db %s: %w", dbPath, err)
	}

	const createTable = `
    CREATE TABLE IF NOT EXISTS logs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        inserted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
        log_data TEXT NOT NULL
    );`
	if _, err = db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create logs table: %w", err)
	}
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_logs_json_time ON logs (json_extract(log_data, '$.time'));`,
		`CREATE INDEX IF NOT EXISTS idx_logs_json_level ON logs (json_extract(log_data, '$.level'));`,
	}
	for _, q := range indexes {
		if _, err := db.Exec(q); err != nil {
			stdlog.Printf("log: warning: failed to create index: %v", err)
		}
	}
	return db, nil
}

func newSQLiteWriter(db *sql.DB) (*sqliteWriter, error) {
	stmt, err := db.Prepare(`INSERT INTO logs (log_data) VALUES (?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	return &sqliteWriter{db: db, stmt: stmt}, nil
}

func (w *sqliteWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stmt == nil {
		return 0, ErrNotInitialized
	}
	if _, err := w.stmt.Exec(string(p)); err != nil {
		return 0, err
	}
	writeSinceStart.Add(1)
	return len(p), nil
}

func (w *sqliteWriter) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	if w.stmt != nil {
		errs = append(errs, w.stmt.Close())
		w.stmt = nil
	}
	if w.db != nil {
		errs = append(errs, w.db.Close())
		w.db = nil
	}
	return errors.Join(errs...)
}

// rebuild recomputes pkgLogger from the console and store writers. Callers
// hold mu.
func rebuild() {
	var writers []io.Writer
	if consoleOut != nil {
		writers = append(writers, consoleOut)
	}
	if dbWriterInstance != nil {
		writers = append(writers, dbWriterInstance)
	}
	if len(writers) == 0 {
		pkgLogger = zerolog.Nop()
		return
	}
	zerolog.TimeFieldFormat = timeFieldFormat
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	pkgLogger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// SetStd sends events to stderr through zerolog's console writer.
func SetStd() {
	SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// SetOutput replaces the console writer; nil disables console output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	consoleOut = w
	rebuild()
}

// SetLevel parses a zerolog level name ("debug", "info", ...).
func SetLevel(name string) error {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	mu.Lock()
	defer mu.Unlock()
	level = lvl
	rebuild()
	return nil
}

// Init opens (or creates) the SQLite store at dbPath and starts writing
// events into it.
func Init(dbPath string) error {
	if dbPath == "" {
		return errors.New("log: store needs an explicit database path")
	}
	mu.Lock()
	defer mu.Unlock()
	if dbWriterInstance != nil {
		return errors.New("log: store already initialized")
	}
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("log: %w", err)
		}
	}
	db, err := openStore(dbPath)
	if err != nil {
		return err
	}
	w, err := newSQLiteWriter(db)
	if err != nil {
		db.Close()
		return err
	}
	dbWriterInstance = w
	dbHandle = db
	writeSinceStart.Store(0)
	rebuild()
	return nil
}

// OpenReadOnly opens the store for the retrieval functions without routing
// new events into it.
func OpenReadOnly(dbPath string) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if dbHandle != nil {
		return errors.New("log: store already initialized")
	}
	db, err := openStore(dbPath)
	if err != nil {
		return err
	}
	dbHandle = db
	return nil
}

// Close flushes and closes the store. Console output, if any, continues.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	w, db := dbWriterInstance, dbHandle
	dbWriterInstance, dbHandle = nil, nil
	rebuild()
	if w != nil {
		return w.close()
	}
	if db != nil {
		return db.Close()
	}
	return nil
}

func Debug() *zerolog.Event { l := logger(); return l.Debug() }
func Info() *zerolog.Event  { l := logger(); return l.Info() }
func Warn() *zerolog.Event  { l := logger(); return l.Warn() }
func Error() *zerolog.Event { l := logger(); return l.Error() }
func Fatal() *zerolog.Event { l := logger(); return l.Fatal() }

// Logger returns a copy of the current logger.
func Logger() zerolog.Logger { return logger() }

func logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return pkgLogger
}

// Printf sends an info event. Arguments are handled in the manner of fmt.Printf.
func Printf(format string, v ...any) {
	l := logger()
	l.Info().CallerSkipFrame(1).Msgf(format, v...)
}

func Fatalf(format string, v ...any) {
	l := logger()
	l.Fatal().Msgf(format, v...)
}
