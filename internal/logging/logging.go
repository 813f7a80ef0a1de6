package logging

import (
	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

// Init configures the shared logger. Verbose enables debug output for
// request/response tracing.
func Init(verbose bool) {
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if verbose {
		Logger.SetLevel(logrus.DebugLevel)
	} else {
		Logger.SetLevel(logrus.WarnLevel)
	}
}
