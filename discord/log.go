package discord

import gblog "github.com/poundbot/guildbot/log"

var log = gblog.Log.WithField("sys", "DSCD")
