package logger

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Level is a logging severity. Messages below a logger's level are dropped.
type Level int

const (
	LevelTrace Level = iota + 1
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

const (
	white  = "\033[0m"
	red    = "\033[31m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	grey   = "\033[37m"
)

var levels = map[Level][2]string{
	LevelTrace: {grey, "TRCE"},
	LevelDebug: {grey, "DBUG"},
	LevelInfo:  {blue, "INFO"},
	LevelWarn:  {yellow, "WARN"},
	LevelError: {red, "EROR"},
}

func (l Level) String() string {
	if info, ok := levels[l]; ok {
		return info[1]
	}
	if l == LevelOff {
		return "OFF"
	}
	return "NORM"
}

// ParseLevel accepts the usual level names, case insensitive
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace", "trce":
		return LevelTrace, nil
	case "debug", "dbug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error", "eror":
		return LevelError, nil
	case "off", "none":
		return LevelOff, nil
	}
	return 0, errors.Errorf("unknown log level %q", name)
}

// DefaultLogger writes Info and above to stderr
var DefaultLogger = NewLogger(os.Stderr)

// Logger is a small leveled logger. Every line looks like
//
//	2021/11/02 10:04:05 | INFO | [Configure] session.go:88 - message
//
// where the function and file parts are optional.
type Logger struct {
	lock      sync.Mutex
	log       *log.Logger
	buf       *bytes.Buffer
	level     Level
	color     bool
	printFunc bool
	printFile bool
	dep       int // call depth
}

// NewLogger returns a logger writing to out at LevelInfo. Colors are only
// turned on when out is a terminal-ish file.
func NewLogger(out io.Writer) *Logger {
	_, isFile := out.(*os.File)
	return &Logger{
		log:   log.New(out, "", log.LstdFlags),
		buf:   new(bytes.Buffer),
		level: LevelInfo,
		color: isFile,
		dep:   3,
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	l := NewLogger(io.Discard)
	l.level = LevelOff
	return l
}

func (l *Logger) logInternal(level Level, format string, args ...interface{}) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if level < l.level {
		return
	}
	info := levels[level]
	l.buf.Reset()
	l.buf.WriteString("| ")
	if l.color {
		l.buf.WriteString(info[0])
	}
	l.buf.WriteString(info[1])
	if l.color {
		l.buf.WriteString(white)
	}
	l.buf.WriteString(" | ")
	if l.printFunc || l.printFile {
		fn, file := trace(l.dep)
		if l.printFunc {
			l.buf.WriteByte('[')
			l.buf.WriteString(fn)
			l.buf.WriteByte(']')
		}
		if l.printFunc && l.printFile {
			l.buf.WriteByte(' ')
		}
		if l.printFile {
			l.buf.WriteString(file)
		}
		l.buf.WriteString(" - ")
	}
	if len(args) == 0 {
		l.buf.WriteString(format)
	} else {
		fmt.Fprintf(l.buf, format, args...)
	}
	l.log.Print(l.buf.String())
}

// SetLevel sets the minimum level that is written
func (l *Logger) SetLevel(level Level) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.level = level
}

// Level returns the minimum level that is written
func (l *Logger) Level() Level {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.level
}

func (l *Logger) SetColor(ok bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.color = ok
}

func (l *Logger) SetPrefix(prefix string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.log.SetPrefix(prefix)
}

func (l *Logger) SetPrintFunc(ok bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.printFunc = ok
}

func (l *Logger) SetPrintFile(ok bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.printFile = ok
}

func (l *Logger) Tracef(format string, args ...interface{}) {
	l.logInternal(LevelTrace, format, args...)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logInternal(LevelDebug, format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.logInternal(LevelInfo, format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logInternal(LevelWarn, format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logInternal(LevelError, format, args...)
}

// trace returns the short function name and file:line of the frame
// depth frames above trace itself. Frames are walked logically so inlined
// callers are still reported.
func trace(depth int) (string, string) {
	pcs := make([]uintptr, depth+2)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for i := 0; ; i++ {
		frame, more := frames.Next()
		if i == depth {
			name := frame.Function
			if j := strings.LastIndexByte(name, '.'); j >= 0 {
				name = name[j+1:]
			}
			return name, fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		}
		if !more {
			return "???", "???:0"
		}
	}
}
