package messages

import (
	"strings"
)

const helpText = `
Guilds are named groups backed by a server role. A guild leader can manage
its members, moderators create and delete guilds.

Leader commands:
  {p}guild add <@member>        - Add a member to your guild.
  {p}guild remove <@member>     - Remove a member from your guild.
  {p}guild transfer <@member>   - Make another member of your guild its leader.

Moderator commands:
  {p}guildset add <@leader> <name>  - Create a guild and its role.
  {p}guildset delete <name>         - Delete a guild and its role.

Everyone:
  {p}guildlist [name]  - Whisper you all guilds, or the members of one guild.
  {p}guildhelp         - This message.

A member can lead only one guild, but can be a member of many. Leadership
can't be transferred to someone who already leads another guild.
`

// HelpText is the command overview using the server's command prefix.
func HelpText(prefix string) string {
	return "```" + strings.ReplaceAll(helpText, "{p}", prefix) + "```"
}
