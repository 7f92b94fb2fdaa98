package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	DEBUG = iota
	INFO
	WARN
	ERROR
)

var levelMap = map[int]logrus.Level{
	DEBUG: logrus.DebugLevel,
	INFO:  logrus.InfoLevel,
	WARN:  logrus.WarnLevel,
	ERROR: logrus.ErrorLevel,
}

// ParseLevel maps a config string to a level. An empty string means INFO.
func ParseLevel(level string) int {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "INFO", "":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		panic(fmt.Sprintf("unknown log level: %v", level))
	}
}

type Config struct {
	AppName      string
	Level        int
	TrackLine    bool
	EnableFile   bool
	DisableColor bool
	EnableJson   bool
}

var (
	mu   sync.RWMutex
	log  = newDefault()
	conf = &Config{AppName: "navmesh", Level: INFO}
	file *os.File
)

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	return l
}

// InitLogger replaces the package logger. A nil config keeps the defaults
// with DEBUG level and line tracking on.
func InitLogger(config *Config) {
	if config == nil {
		config = &Config{
			AppName:   "navmesh",
			Level:     DEBUG,
			TrackLine: true,
		}
	}

	l := logrus.New()
	l.SetLevel(levelMap[config.Level])
	if config.EnableJson {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05.000"})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			DisableColors:   config.DisableColor,
			ForceColors:     !config.DisableColor,
		})
	}

	var out io.Writer = os.Stdout
	var f *os.File
	if config.EnableFile {
		var err error
		f, err = os.OpenFile(config.AppName+".log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file error: %v\n", err)
		} else {
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	l.SetOutput(out)

	mu.Lock()
	if file != nil {
		_ = file.Close()
	}
	log, conf, file = l, config, f
	mu.Unlock()
}

// CloseLogger flushes and closes the log file, if any, and restores the default logger.
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		_ = file.Sync()
		_ = file.Close()
		file = nil
	}
	log = newDefault()
	conf = &Config{AppName: "navmesh", Level: INFO}
}

// SetOutput redirects the current logger, mostly for tests.
func SetOutput(w io.Writer) {
	mu.RLock()
	defer mu.RUnlock()
	log.SetOutput(w)
}

func entry() *logrus.Entry {
	mu.RLock()
	l, c := log, conf
	mu.RUnlock()

	e := logrus.NewEntry(l)
	if c.TrackLine {
		if pc, fileName, line, ok := runtime.Caller(2); ok {
			funcName := "???"
			if fn := runtime.FuncForPC(pc); fn != nil {
				funcName = path.Base(fn.Name())
			}
			e = e.WithField("caller", fmt.Sprintf("%s:%d %s()", path.Base(fileName), line, funcName))
		}
	}
	if c.AppName != "" {
		e = e.WithField("app", c.AppName)
	}
	return e
}

func Debug(msg string, param ...any) {
	entry().Debugf(msg, param...)
}

func Info(msg string, param ...any) {
	entry().Infof(msg, param...)
}

func Warn(msg string, param ...any) {
	entry().Warnf(msg, param...)
}

func Error(msg string, param ...any) {
	entry().Errorf(msg, param...)
}

// IsDebug reports whether debug messages are emitted, so hot paths can skip formatting.
func IsDebug() bool {
	mu.RLock()
	defer mu.RUnlock()
	return log.IsLevelEnabled(logrus.DebugLevel)
}
