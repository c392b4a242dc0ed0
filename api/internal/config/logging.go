package config

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

// SetupLogging configures the global apex/log logger from LOG_LEVEL/LOG_FORMAT.
func (c *Config) SetupLogging() {
	if c.LogFormat == "json" {
		log.SetHandler(json.New(os.Stderr))
	} else {
		log.SetHandler(text.New(os.Stderr))
	}

	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warnf("unknown LOG_LEVEL %q, using info", c.LogLevel)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
