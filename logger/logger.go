package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger. It must be initialized with Init()
// before any other package uses it.
var Log *logrus.Logger

// Init configures the global logger instance.
func Init() {
	Log = logrus.New()
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})
	Log.SetLevel(logrus.InfoLevel)
}
