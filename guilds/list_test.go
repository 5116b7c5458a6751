package guilds

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bodyLines strips the fences and headers from pages and returns the lines
// in order.
func bodyLines(pages []string) []string {
	var lines []string
	for _, p := range pages {
		p = strings.TrimSuffix(p, codeFence)
		parts := strings.Split(p, "\n")
		// first line is the header, last is empty after the trailing newline
		lines = append(lines, parts[1:len(parts)-1]...)
	}
	return lines
}

func TestPaginateMembers(t *testing.T) {
	tests := []struct {
		name      string
		members   []string
		limit     int
		wantPages int
	}{
		{name: "none", members: nil, limit: MessageLimit, wantPages: 0},
		{name: "one", members: []string{"Alice"}, limit: MessageLimit, wantPages: 1},
		{name: "exact fit", members: []string{"aaaa", "bbbb"}, limit: len("```h\n") + 12 + 3, wantPages: 1},
		{name: "one over", members: []string{"aaaa", "bbbb"}, limit: len("```h\n") + 11 + 3, wantPages: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := PaginateMembers("h", tt.members, tt.limit)
			assert.Len(t, pages, tt.wantPages)
			for _, p := range pages {
				assert.LessOrEqual(t, len(p), tt.limit)
			}
		})
	}
}

func TestPaginateMembers_NilWhenEmpty(t *testing.T) {
	assert.Nil(t, PaginateMembers("Foo", nil, MessageLimit))
	assert.Nil(t, PaginateGuilds("Guilds", nil, MessageLimit))
}

func TestPaginateMembers_LongList(t *testing.T) {
	var members []string
	for i := 0; i < 300; i++ {
		members = append(members, fmt.Sprintf("Member number %03d", i))
	}

	pages := PaginateMembers("Knights", members, MessageLimit)
	require.True(t, len(pages) > 1)

	assert.True(t, strings.HasPrefix(pages[0], "```Knights\n"))
	for i, p := range pages {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), MessageLimit, "page %d", i)
		assert.True(t, strings.HasSuffix(p, codeFence))
		if i > 0 {
			assert.True(t, strings.HasPrefix(p, continuationHeader))
		}
	}

	lines := bodyLines(pages)
	require.Len(t, lines, len(members))
	for i, m := range members {
		assert.Equal(t, "\t"+m, lines[i])
	}
}

func TestPaginateGuilds(t *testing.T) {
	listings := []Listing{
		{Name: "Archers", Members: []string{"Alice", "Carol"}},
		{Name: "Zealots", Members: []string{"Bob"}},
	}

	pages := PaginateGuilds("Guilds", listings, MessageLimit)
	assert.Equal(t, []string{"```Guilds\n\tArchers\n\t\tAlice\n\t\tCarol\n\tZealots\n\t\tBob\n```"}, pages)
}

func TestPaginateGuilds_Split(t *testing.T) {
	var listings []Listing
	var want []string
	for g := 0; g < 20; g++ {
		l := Listing{Name: fmt.Sprintf("Guild %02d", g)}
		want = append(want, "\t"+l.Name)
		for m := 0; m < 15; m++ {
			name := fmt.Sprintf("Some rather long member name %02d-%02d", g, m)
			l.Members = append(l.Members, name)
			want = append(want, "\t\t"+name)
		}
		listings = append(listings, l)
	}

	pages := PaginateGuilds("Guilds", listings, MessageLimit)
	require.True(t, len(pages) > 1)
	for _, p := range pages {
		assert.LessOrEqual(t, len(p), MessageLimit)
	}
	assert.Equal(t, want, bodyLines(pages))
}

func TestPaginate_CleansNames(t *testing.T) {
	pages := PaginateMembers("Foo", []string{"```evil\nname"}, MessageLimit)
	assert.Equal(t, []string{"```Foo\n\t'''evil name\n```"}, pages)
}

func TestPaginate_OversizedLine(t *testing.T) {
	long := strings.Repeat("ü", MessageLimit)
	pages := PaginateMembers("Foo", []string{"a", long, "b"}, MessageLimit)

	for _, p := range pages {
		assert.LessOrEqual(t, len(p), MessageLimit)
		assert.True(t, utf8.ValidString(p))
	}
	lines := bodyLines(pages)
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[1], "..."))
	assert.Equal(t, "\tb", lines[2])
}

func TestPaginate_LongHeader(t *testing.T) {
	header := strings.Repeat("h", MessageLimit+100)
	tests := []struct {
		name  string
		pages []string
	}{
		{name: "members", pages: PaginateMembers(header, []string{"Alice", "Bob"}, MessageLimit)},
		{name: "guilds", pages: PaginateGuilds(header, []Listing{{Name: "Knights", Members: []string{"Alice"}}}, MessageLimit)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotEmpty(t, tt.pages)
			for i, p := range tt.pages {
				assert.LessOrEqual(t, len(p), MessageLimit, "page %d", i)
			}
			assert.True(t, strings.HasPrefix(tt.pages[0], "```hhh"))
			assert.Contains(t, tt.pages[0], "...\n")
		})
	}
}

func TestFitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		max  int
		want string
	}{
		{name: "fits", line: "abc\n", max: 10, want: "abc\n"},
		{name: "exact", line: "abc\n", max: 4, want: "abc\n"},
		{name: "cut", line: "abcdefgh\n", max: 7, want: "abc...\n"},
		{name: "cut on rune", line: "éééé\n", max: 7, want: "é...\n"},
		{name: "tiny", line: "abcdef\n", max: 2, want: "...\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fitLine(tt.line, tt.max))
		})
	}
}
