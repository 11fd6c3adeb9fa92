package formatter

import "github.com/sirupsen/logrus"

// SetTextFormatter set the formatter for given logger.
func SetTextFormatter(logger *logrus.Logger) {
	logger.Formatter = NewTextFormatter()
	logger.ReportCaller = true
	logger.AddHook(NewContextHook())
}

// SetOSLogFormatter set the formatter used when logs are forwarded to the iOS unified log
func SetOSLogFormatter(logger *logrus.Logger) {
	logger.Formatter = NewOSLogFormatter()
	logger.ReportCaller = true
	logger.AddHook(NewContextHook())
}
