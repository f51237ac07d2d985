package badgerfx

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// zapLogger bridges badger's printf-style logging onto zap. Badger
// terminates its messages with a newline, which zap would render literally,
// so it is stripped.
type zapLogger struct {
	logger *zap.Logger
}

func newLogger(l *zap.Logger) *zapLogger {
	return &zapLogger{logger: l}
}

func (l *zapLogger) format(format string, a ...any) string {
	return strings.TrimRight(fmt.Sprintf(format, a...), "\n")
}

func (l *zapLogger) Debugf(format string, a ...any) {
	l.logger.Debug(l.format(format, a...))
}

func (l *zapLogger) Errorf(format string, a ...any) {
	l.logger.Error(l.format(format, a...))
}

func (l *zapLogger) Infof(format string, a ...any) {
	l.logger.Info(l.format(format, a...))
}

func (l *zapLogger) Warningf(format string, a ...any) {
	l.logger.Warn(l.format(format, a...))
}

var _ badger.Logger = (*zapLogger)(nil)
