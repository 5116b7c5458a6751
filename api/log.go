package api

import (
	gblog "github.com/poundbot/guildbot/log"
	"github.com/sirupsen/logrus"
)

var log = gblog.Log.WithField("sys", "API")

func logWithRequest(r requestContext) *logrus.Entry {
	return log.WithFields(
		logrus.Fields{
			"URI":  r.uri,
			"rqID": r.requestUUID,
			"gID":  r.serverID,
		},
	)
}
