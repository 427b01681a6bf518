package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger used by the CLI and daemon plumbing.
// Per-folder and coordinator streams use File instead.
var Log = zap.NewNop()

const (
	timeLayout     = "2006-01-02 15:04:05"
	fileTimeLayout = "2006_01_02_15_04_05"
)

func Init(debug bool) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)

	l, err := cfg.Build()
	if err != nil {
		return
	}
	Log = l
}

func Sync() {
	_ = Log.Sync()
}

// File is a named component logger writing "<time> - <name> - <message>" lines
// to its own log file and, optionally, to a console writer.
type File struct {
	*zap.Logger
	Path string

	file  *os.File
	sinks []zapcore.WriteSyncer
}

// NewFile creates <dir>/<name>_<timestamp>.txt and returns a logger writing to it.
// console may be nil to keep output file-only.
func NewFile(dir, name string, console io.Writer) (*File, error) {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if name == "" {
		name = "unnamed"
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", name, time.Now().Format(fileTimeLayout)))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	enc := zapcore.NewConsoleEncoder(lineEncoderConfig())
	fileSink := zapcore.Lock(f)
	cores := []zapcore.Core{zapcore.NewCore(enc, fileSink, zapcore.InfoLevel)}
	sinks := []zapcore.WriteSyncer{fileSink}

	if console != nil {
		consoleSink := zapcore.Lock(zapcore.AddSync(console))
		cores = append(cores, zapcore.NewCore(enc.Clone(), consoleSink, zapcore.DebugLevel))
		sinks = append(sinks, consoleSink)
	}

	return &File{
		Logger: zap.New(zapcore.NewTee(cores...)).Named(name),
		Path:   path,
		file:   f,
		sinks:  sinks,
	}, nil
}

// NewNop returns a File that discards everything.
func NewNop() *File {
	return &File{Logger: zap.NewNop()}
}

// BlankLines writes n empty lines to every sink, bypassing the line encoder.
func (f *File) BlankLines(n int) {
	for _, sink := range f.sinks {
		for range n {
			_, _ = sink.Write([]byte("\n"))
		}
	}
}

// EmitBlankLines writes count separator lines to l; a nil l is ignored.
func EmitBlankLines(l *File, count int) {
	if l == nil {
		return
	}
	l.BlankLines(count)
}

func (f *File) Close() error {
	_ = f.Sync()
	if f.file == nil {
		return nil
	}
	return f.file.Close()
}

// HyperLink renders a path as anchor markup so log viewers can open it.
func HyperLink(path string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, path, path)
}

func lineEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		NameKey:          "name",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout(timeLayout),
		EncodeName:       zapcore.FullNameEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	}
}
