package log

import (
	"os"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
)

// Log is the process logger. Packages derive their own entry from it with a
// "sys" field.
var Log *logrus.Entry

func init() {
	l := logrus.New()
	l.SetFormatter(&nested.Formatter{
		HideKeys:    false,
		FieldsOrder: []string{"proc", "sys", "ssys", "rqID", "cmd", "rID", "gID", "uID", "guild"},
		NoColors:    true,
	})

	if os.Getenv("LOG_TRACE") == "on" {
		l.SetLevel(logrus.TraceLevel)
	}
	Log = l.WithField("proc", "GUILDBOT")
}
