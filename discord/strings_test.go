package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_escapeDiscordString(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "@everyone", want: "@\u200Beveryone"},
		{name: "@here", want: "@\u200Bhere"},
		{name: "\\backslash\\", want: "\\\\backslash\\\\"},
		{name: "`code`", want: "\\`code\\`"},
		{name: "||spoiler||", want: "\\||spoiler\\||"},
		{name: "~~strikethrough~~", want: "\\~~strikethrough\\~~"},
		{name: "*italics*", want: "\\*italics\\*"},
		{name: "__underline__", want: "\\_\\_underline\\_\\_"},
		{name: "<@123456>", want: "\\<@123456>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeDiscordString(tt.name))
		})
	}
}

func Test_getQuotedParts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "plain", in: "guildset add <@1> Knights", want: []string{"guildset", "add", "<@1>", "Knights"}},
		{name: "quoted", in: `guildset add <@1> "Knights of Ni"`, want: []string{"guildset", "add", "<@1>", "Knights of Ni"}},
		{name: "extra spaces", in: "  guild   add\t<@2> ", want: []string{"guild", "add", "<@2>"}},
		{name: "empty", in: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := getQuotedParts(tt.in)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_parseMention(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "<@1234>", want: "1234", wantOK: true},
		{in: "<@!1234>", want: "1234", wantOK: true},
		{in: "1234", want: "1234", wantOK: true},
		{in: "<@&1234>", wantOK: false},
		{in: "<@>", wantOK: false},
		{in: "bob", wantOK: false},
		{in: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseMention(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_commandContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantOK  bool
	}{
		{name: "prefix", content: "!guild add <@2>", want: "guild add <@2>", wantOK: true},
		{name: "mention", content: "<@99> guildlist", want: " guildlist", wantOK: true},
		{name: "nick mention", content: " <@!99> guildhelp", want: " guildhelp", wantOK: true},
		{name: "other mention", content: "<@98> guildhelp", wantOK: false},
		{name: "chatter", content: "hello there", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := commandContent(tt.content, "!", "99")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
