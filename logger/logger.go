package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions controls the rotated log file. An empty Dir keeps stdout only.
type FileOptions struct {
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Init sends log output to stdout and to app.log under opts.Dir, rotated by
// size and age.
func Init(opts FileOptions, level log.Level) {
	log.SetLevel(level)
	if opts.Dir == "" {
		log.SetOutput(os.Stdout)
		return
	}

	if err := os.MkdirAll(opts.Dir, os.ModePerm); err != nil {
		fmt.Println("❌ Could not create log directory:", err)
		log.SetOutput(os.Stdout)
		return
	}

	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, "app.log"),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
		LocalTime:  true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	log.Info("🚀 Logger initialized successfully!")
}

// ParseLevel maps LOG_LEVEL values to fiber log levels, defaulting to info.
func ParseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

func Success(message string) {
	log.Info("✅ " + message)
}

func Error(message string, err error) {
	if err != nil {
		log.Error("❌ " + message + ": " + err.Error())
	} else {
		log.Error("❌ " + message)
	}
}

func Warning(message string) {
	log.Warn("⚠️ " + message)
}

func Debug(message string) {
	log.Debug("🐛 " + message)
}

func Info(message string) {
	log.Info("ℹ️ " + message)
}

func Fatal(message string) {
	log.Fatal("💥 " + message)
}

func Printf(format string, args ...interface{}) {
	log.Info(fmt.Sprintf("📝 "+format, args...))
}
