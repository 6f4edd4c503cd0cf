// Package logger owns the process-wide zap logger and a few helpers for keeping
// credentials out of log lines.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.SugaredLogger
	once   sync.Once
)

// IsTest switches the logger to a stdout development config. Tests set it before
// the first GetLogger call.
var IsTest bool

func build() {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		level = zapcore.InfoLevel
	}

	var cfg zap.Config
	switch {
	case IsTest:
		cfg = zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stdout"}
	case os.Getenv("ENVIRONMENT") == "production":
		cfg = zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	logger = zapLogger.Sugar()
}

// InitLogger builds the global logger once.
func InitLogger() {
	once.Do(build)
}

// GetLogger returns the shared sugared logger, building it on first use.
func GetLogger() *zap.SugaredLogger {
	once.Do(build)
	return logger
}

// Close flushes buffered entries. Call it before the process exits.
func Close() error {
	if logger == nil || IsTest {
		return nil
	}
	if err := logger.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "Error syncing logger: %v\n", err)
		return err
	}
	return nil
}

// MaskSensitiveString keeps prefixLen leading and suffixLen trailing characters.
func MaskSensitiveString(s string, prefixLen, suffixLen int) string {
	if s == "" {
		return ""
	}
	if len(s) < prefixLen+suffixLen+3 {
		return strings.Repeat("*", len(s))
	}
	return s[:prefixLen] + "..." + s[len(s)-suffixLen:]
}

// MaskEmail hides the local part of an address but keeps the domain.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return MaskSensitiveString(email, 2, 2)
	}
	return MaskSensitiveString(local, 2, 1) + "@" + domain
}

// MaskJWT shows the first and last three characters of a token.
func MaskJWT(token string) string {
	if len(token) < 10 {
		return strings.Repeat("*", len(token))
	}
	return token[:3] + "..." + token[len(token)-3:]
}

// MaskConnectionString replaces the password of a postgres:// URL.
func MaskConnectionString(connStr string) string {
	scheme := strings.Index(connStr, "://")
	if scheme == -1 {
		return connStr
	}
	rest := connStr[scheme+3:]
	at := strings.Index(rest, "@")
	if at == -1 {
		return connStr
	}
	user, _, hasPassword := strings.Cut(rest[:at], ":")
	if !hasPassword {
		return connStr
	}
	return connStr[:scheme+3] + user + ":***" + rest[at:]
}
