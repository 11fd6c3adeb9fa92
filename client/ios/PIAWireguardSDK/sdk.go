// Package PIAWireguardSDK is the gomobile binding surface used by the iOS packet
// tunnel extension. Exported signatures only use types gomobile can bridge.
package PIAWireguardSDK

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/Commencement-Technology/mobile-ios-wireguard/formatter"
	"github.com/Commencement-Technology/mobile-ios-wireguard/util"
	"github.com/Commencement-Technology/mobile-ios-wireguard/version"
)

// CustomLogger receives log lines, usually forwarding them to os_log
type CustomLogger interface {
	Debug(message string)
	Info(message string)
	Error(message string)
}

// VersionNumber returns the numeric version of the framework build
func VersionNumber() float64 {
	return version.Number()
}

// VersionString returns the version label of the framework build
func VersionString() string {
	return version.String()
}

// InitializeLog initializes the log file.
func InitializeLog(logLevel string, filePath string) error {
	return util.InitLog(logLevel, filePath)
}

var (
	customLoggerHook = &loggerHook{formatter: formatter.NewOSLogFormatter()}
	installHookOnce  sync.Once
)

// SetCustomLogger forwards every log entry to logger, replacing the logger set
// by a previous call. A nil logger stops forwarding.
func SetCustomLogger(logger CustomLogger) {
	installHookOnce.Do(func() {
		formatter.SetOSLogFormatter(log.StandardLogger())
		log.AddHook(customLoggerHook)
	})
	customLoggerHook.setLogger(logger)
}

type loggerHook struct {
	formatter log.Formatter

	logger     CustomLogger
	loggerLock sync.RWMutex
}

func (h *loggerHook) setLogger(logger CustomLogger) {
	h.loggerLock.Lock()
	defer h.loggerLock.Unlock()
	h.logger = logger
}

func (h *loggerHook) Levels() []log.Level {
	return log.AllLevels
}

func (h *loggerHook) Fire(entry *log.Entry) error {
	h.loggerLock.RLock()
	logger := h.logger
	h.loggerLock.RUnlock()
	if logger == nil {
		return nil
	}

	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	msg := string(line)
	if n := len(msg); n > 0 && msg[n-1] == '\n' {
		msg = msg[:n-1]
	}

	switch {
	case entry.Level <= log.ErrorLevel:
		logger.Error(msg)
	case entry.Level <= log.InfoLevel:
		logger.Info(msg)
	default:
		logger.Debug(msg)
	}
	return nil
}
