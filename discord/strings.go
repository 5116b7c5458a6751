package discord

import (
	"strings"
)

func escapeDiscordString(s string) string {
	r := strings.NewReplacer(
		"@everyone", "@\u200Beveryone",
		"@here", "@\u200Bhere",
		"\\", "\\\\",
		"`", "\\`",
		"||", "\\||",
		"*", "\\*",
		"~~", "\\~~",
		"_", "\\_",
		"<@", "\\<@",
	)
	return r.Replace(s)
}

// getQuotedParts finds a "string which spans multiple spaces" in a message.
// Then takes that and replaces the Quote string with a single string value of the quote contents
func getQuotedParts(str string) []string {
	inQuote := false
	f := func(c rune) bool {
		switch {
		case c == '"':
			inQuote = !inQuote
			return true
		case inQuote:
			return false
		default:
			return c == ' ' || c == '\n' || c == '\t'
		}
	}
	return strings.FieldsFunc(str, f)
}

// parseMention returns the user ID from a <@id> or <@!id> mention. A bare
// numeric ID is accepted too.
func parseMention(s string) (string, bool) {
	if strings.HasPrefix(s, "<@") && strings.HasSuffix(s, ">") {
		s = strings.TrimPrefix(s[2:len(s)-1], "!")
	}
	if s == "" {
		return "", false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	return s, true
}

// commandContent strips the command prefix or a leading mention of the bot.
// It reports false when the message is not addressed to the bot.
func commandContent(content, prefix, botID string) (string, bool) {
	if prefix != "" && strings.HasPrefix(content, prefix) {
		return strings.TrimPrefix(content, prefix), true
	}
	trimmed := strings.TrimSpace(content)
	for _, mention := range []string{"<@" + botID + ">", "<@!" + botID + ">"} {
		if strings.HasPrefix(trimmed, mention) {
			return strings.TrimPrefix(trimmed, mention), true
		}
	}
	return "", false
}
