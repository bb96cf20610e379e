package config

import (
	"os"

	"github.com/phuslu/log"
)

// ConfigureLogging applies the logging section to the process-wide logger.
// Text format writes colorized console lines; anything else stays JSON.
func (c *Config) ConfigureLogging() {
	logger := log.Logger{
		Level:      log.ParseLevel(c.Logging.Level),
		TimeFormat: "2006-01-02 15:04:05",
	}
	if c.Logging.Format == "text" {
		logger.Writer = &log.ConsoleWriter{
			ColorOutput:    true,
			EndWithMessage: true,
			Writer:         os.Stderr,
		}
	} else {
		logger.Writer = log.IOWriter{Writer: os.Stderr}
	}
	log.DefaultLogger = logger
}
