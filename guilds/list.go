package guilds

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MessageLimit is the most characters a single chat message may carry.
const MessageLimit = 2000

const (
	codeFence          = "```"
	continuationHeader = codeFence + "\n"
	truncatedSuffix    = "...\n"
)

// A pager splits lines into code-block messages of at most limit bytes.
// Bytes bound characters, so the limit holds for the platform too.
type pager struct {
	limit   int
	maxLine int
	buf     strings.Builder
	lines   int
	pages   []string
}

// The header may use at most half of a page.
func newPager(limit int, header string) *pager {
	p := &pager{limit: limit}
	header = fitLine(header, limit/2)
	p.maxLine = limit - len(header) - len(codeFence)
	if len(continuationHeader) > len(header) {
		p.maxLine = limit - len(continuationHeader) - len(codeFence)
	}
	p.buf.WriteString(header)
	return p
}

func (p *pager) add(line string) {
	line = fitLine(line, p.maxLine)
	if p.buf.Len()+len(line)+len(codeFence) > p.limit {
		p.flush()
		p.buf.WriteString(continuationHeader)
	}
	p.buf.WriteString(line)
	p.lines++
}

func (p *pager) flush() {
	p.pages = append(p.pages, p.buf.String()+codeFence)
	p.buf.Reset()
}

// done returns the pages, or nil when no line was added.
func (p *pager) done() []string {
	if p.lines == 0 {
		return nil
	}
	p.flush()
	return p.pages
}

// fitLine shortens a newline-terminated line to at most max bytes without
// splitting a rune.
func fitLine(line string, max int) string {
	if len(line) <= max {
		return line
	}
	body := strings.TrimSuffix(line, "\n")
	cut := max - len(truncatedSuffix)
	if cut < 0 {
		cut = 0
	}
	if cut > len(body) {
		cut = len(body)
	}
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + truncatedSuffix
}

// cleanName keeps a name from breaking out of a code block or line.
func cleanName(s string) string {
	return strings.NewReplacer("`", "'", "\n", " ", "\r", " ").Replace(s)
}

// PaginateGuilds renders every guild with its members indented below it.
// It returns nil when there are no guilds.
func PaginateGuilds(header string, listings []Listing, limit int) []string {
	p := newPager(limit, codeFence+header+"\n")
	for _, l := range listings {
		p.add(fmt.Sprintf("\t%s\n", cleanName(l.Name)))
		for _, m := range l.Members {
			p.add(fmt.Sprintf("\t\t%s\n", cleanName(m)))
		}
	}
	return p.done()
}

// PaginateMembers renders a guild's member names. It returns nil when there
// are no members.
func PaginateMembers(header string, members []string, limit int) []string {
	p := newPager(limit, codeFence+cleanName(header)+"\n")
	for _, m := range members {
		p.add(fmt.Sprintf("\t%s\n", cleanName(m)))
	}
	return p.done()
}
