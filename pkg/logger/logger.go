package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env   string // development -> consola legible; production -> JSON
	Level string // trace, debug, info, warn, error
	Out   io.Writer
}

// Logger wrapper sobre zerolog para inyección y consistencia.
type Logger struct {
	zl zerolog.Logger
}

// New crea un logger estructurado. En development usa salida legible; en production JSON.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Out != nil {
		w = cfg.Out
	}
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: w}
	}

	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()

	// Redirigir el logger global de zerolog para librerías que lo usen
	log.Logger = zl

	return &Logger{zl: zl}
}

// Nop devuelve un logger que descarta todo; útil en tests.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Trace, Debug, Info, Warn, Error delegados a zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Named crea un sublogger con el campo component fijo.
func (l *Logger) Named(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger()}
}

// WithSession crea un sublogger con session_id y el CNPJ enmascarado.
func (l *Logger) WithSession(sessionID, taxID string) *Logger {
	return &Logger{zl: l.zl.With().
		Str("session_id", sessionID).
		Str("tax_id", MaskTaxID(taxID)).
		Logger()}
}

// ── Adaptador go-retryablehttp ───────────────────────────────────────────────

// RetryableHTTPLogger adapta el logger a la interfaz Printf de go-retryablehttp.
// Los reintentos se registran en debug para no ensuciar la salida normal.
type RetryableHTTPLogger struct {
	l *Logger
}

// RetryableHTTP devuelve el adaptador para clientes retryablehttp.
func (l *Logger) RetryableHTTP() *RetryableHTTPLogger {
	return &RetryableHTTPLogger{l: l}
}

// Printf implementa retryablehttp.Logger.
func (r *RetryableHTTPLogger) Printf(format string, v ...interface{}) {
	r.l.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// MaskTaxID deja visibles solo los 8 primeros dígitos (raíz del CNPJ) para logs.
func MaskTaxID(taxID string) string {
	if len(taxID) <= 8 {
		return taxID
	}
	return taxID[:8] + strings.Repeat("*", len(taxID)-8)
}
