package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/MrSnakeDoc/hoist/internal/printer"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level string    // "debug","info","warn","error"
	JSON  bool      // JSON output (CI)
	Color bool      // colorize (console)
	Out   io.Writer // default os.Stdout
	File  string    // rotating log file, empty disables it
}

var (
	mu       sync.RWMutex
	zlog     *zap.SugaredLogger
	flog     *zap.SugaredLogger
	fileSink *lumberjack.Logger
	out      io.Writer = os.Stdout
	p        *printer.ColorPrinter
	curOpts  Options
	curLevel = zapcore.InfoLevel
	ready    atomic.Bool
)

// Configure sets up the global logger.
func Configure(opts Options) {
	mu.Lock()
	defer mu.Unlock()
	configureLocked(opts)
}

func configureLocked(opts Options) {
	if opts.Out != nil {
		out = opts.Out
	}
	opts.Out = out
	curOpts = opts

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.LevelKey = ""
	encCfg.CallerKey = ""
	encCfg.MessageKey = "msg"

	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(zapcore.EncoderConfig{MessageKey: "msg"})
	}

	level := parseLevel(opts.Level)
	core := zapcore.NewCore(enc, zapcore.AddSync(writerAdapter{out}), level)
	zlog = zap.New(core).Sugar()

	if opts.Color {
		p = printer.NewColorPrinter()
	} else {
		p = printer.NewPlainPrinter()
	}

	if fileSink != nil {
		_ = fileSink.Close()
		fileSink = nil
		flog = nil
	}
	if opts.File != "" {
		flog = newFileLogger(opts.File)
	}

	ready.Store(true)
}

// newFileLogger tees every record, timestamped, into a rotating JSON log.
// Debug records always reach the file so elevated runs can be diagnosed.
func newFileLogger(path string) *zap.SugaredLogger {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil
	}
	fileSink = &lumberjack.Logger{
		Filename:   filepath.ToSlash(path),
		MaxSize:    5, // MB
		MaxBackups: 10,
		MaxAge:     30, // days
		Compress:   true,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileSink), zapcore.DebugLevel)
	return zap.New(core).Sugar().With("pid", os.Getpid())
}

// SetLevel adjusts current level at runtime ("debug","info","warn","error").
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	opts := curOpts
	opts.Level = level
	configureLocked(opts)
}

// SetOutput replaces the logger writer (use io.Discard in tests).
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	opts := curOpts
	opts.Out = w
	out = w
	configureLocked(opts)
}

// UseTestMode silences logs during tests.
func UseTestMode() {
	Configure(Options{
		Level: "error",
		Color: false,
		JSON:  false,
		Out:   io.Discard,
	})
}

// Out returns the current output writer (for tables).
func Out() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return out
}

// Sync flushes the file sink, called before the process exits.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if flog != nil {
		_ = flog.Sync()
	}
	if zlog != nil {
		_ = zlog.Sync()
	}
}

// ---- Public logging API ----

func Info(msg string, args ...interface{}) {
	emit(zapcore.InfoLevel, "✨ ", styleInfo, msg, args)
}

func Success(msg string, args ...interface{}) {
	emit(zapcore.InfoLevel, "✅ ", styleSuccess, msg, args)
}

func LogError(msg string, args ...interface{}) {
	emit(zapcore.ErrorLevel, "❌ ", styleError, msg, args)
}

func Warn(msg string, args ...interface{}) {
	emit(zapcore.WarnLevel, "⚠️ ", styleWarning, msg, args)
}

func Debug(msg string, args ...interface{}) {
	emit(zapcore.DebugLevel, "🛠️ ", styleDebug, msg, args)
}

// ---- Tables ----

func CreateTable(headers []string) *tablewriter.Table {
	mu.RLock()
	defer mu.RUnlock()
	t := tablewriter.NewTable(out)
	t.Header(headers)
	return t
}

// ---- internals ----

type writerAdapter struct{ w io.Writer }

func (wa writerAdapter) Write(p []byte) (int, error) { return wa.w.Write(p) }

type style int

const (
	styleInfo style = iota
	styleSuccess
	styleError
	styleWarning
	styleDebug
)

func (s style) format(cp *printer.ColorPrinter) func(string, ...interface{}) string {
	switch s {
	case styleSuccess:
		return cp.Success
	case styleError:
		return cp.Error
	case styleWarning:
		return cp.Warning
	case styleDebug:
		return cp.Debug
	default:
		return cp.Info
	}
}

func emit(level zapcore.Level, icon string, st style, msg string, args []interface{}) {
	if !ensureReady() {
		return
	}
	mu.RLock()
	defer mu.RUnlock()

	zlog.Logf(level, "%s", st.format(p)(icon+msg, args...))
	if flog != nil {
		flog.Logf(level, "%s", fmt.Sprintf(msg, args...))
	}
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		curLevel = zapcore.DebugLevel
	case "info", "":
		curLevel = zapcore.InfoLevel
	case "warn":
		curLevel = zapcore.WarnLevel
	case "error":
		curLevel = zapcore.ErrorLevel
	default:
		curLevel = zapcore.InfoLevel
	}
	return curLevel
}

func ensureReady() bool {
	if !ready.Load() {
		return false
	}
	if p == nil || zlog == nil {
		return false
	}
	return true
}
