// Package logger configures logrus and carries request-scoped entries through gin.
package logger

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const contextKey = "logger"

// New returns a logger writing to stdout at the given level ("debug", "info", ...)
// using the "json" or "text" formatter.
func New(level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// Attach stores the request entry on the gin context.
func Attach(c *gin.Context, entry *logrus.Entry) {
	c.Set(contextKey, entry)
}

// FromContext returns the request entry set by the request logger middleware,
// or an entry on the standard logger when there is none.
func FromContext(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(contextKey); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
