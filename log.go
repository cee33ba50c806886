package tessera

import "github.com/sirupsen/logrus"

// log is the package logger. Load failures, defaulted map fields and debug
// frame stats go through it.
var log = logrus.New()

// SetLogger replaces the package logger. Passing nil restores a default
// logrus logger at Info level.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.New()
	}
	log = l
}

// Logger returns the package logger.
func Logger() *logrus.Logger {
	return log
}
