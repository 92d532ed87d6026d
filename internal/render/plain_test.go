package render

import (
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunks(text string, maxLen int) []string {
	return slices.Collect(ToPlainChunks(text, maxLen))
}

func ruleByName(t *testing.T, name string) Rule {
	t.Helper()
	for _, r := range PlainRules {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("rule %q not found", name)
	return Rule{}
}

func TestPlainRules(t *testing.T) {
	tests := []struct {
		rule string
		in   string
		want string
	}{
		{"line_endings", "a\r\nb\rc", "a\nb\nc"},
		{"headings", "## Title\ntext # not heading", "Title\ntext # not heading"},
		{"bold", "**bold** text", "bold text"},
		{"asterisks", "*italic*", "italic"},
		{"bullets", "• one\n• two", "- one\n- two"},
		{"links", "see [Go docs](https://go.dev) now", "see Go docs now"},
		{"inline_code", "call `fmt.Println`", "call fmt.Println"},
		{"underline", "__under__ line", "under line"},
		{"brackets", "[note] here", "note here"},
		{"stock_headers", "Основное определение: замыкание", " замыкание"},
		{"stock_headers", "полезные ресурсы: ссылки", " ссылки"},
		{"blank_lines", "a\n\n\n\nb", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			assert.Equal(t, tt.want, ruleByName(t, tt.rule).Apply(tt.in))
		})
	}
}

func TestClean(t *testing.T) {
	in := "# Ответ\n\n**Замыкание** — это функция.\n\n\n\n• пункт с `кодом`\n[ссылка](http://x)\n"
	want := "Ответ\n\nЗамыкание — это функция.\n\n- пункт с кодом\nссылка"
	assert.Equal(t, want, Clean(in))
}

func TestToPlainChunks_Empty(t *testing.T) {
	for _, in := range []string{"", "   \n\n ", "**", "## \n***"} {
		assert.Empty(t, slices.Collect(ToPlainChunks(in, 100)), "input %q", in)
	}
}

func TestToPlainChunks_SingleLongParagraph(t *testing.T) {
	// 1800 words of 4 letters: 8999 runes
	text := strings.TrimSpace(strings.Repeat("word ", 1800))
	require.Equal(t, 8999, utf8.RuneCountInString(text))

	got := chunks(text, 4000)
	require.Len(t, got, 3)
	for _, c := range got {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 4000)
	}
	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(got, " ")))
}

func TestToPlainChunks_PrefersParagraphs(t *testing.T) {
	p1 := strings.Repeat("а", 30)
	p2 := strings.Repeat("б", 30)
	p3 := strings.Repeat("в", 30)
	text := p1 + "\n\n" + p2 + "\n\n" + p3

	got := chunks(text, 70)
	assert.Equal(t, []string{p1 + "\n\n" + p2, p3}, got)
}

func TestToPlainChunks_LongWordIsCut(t *testing.T) {
	got := chunks(strings.Repeat("x", 25), 10)
	assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, got)
}

func TestToPlainChunks_KeepsLineBreaksInsideParagraph(t *testing.T) {
	text := "one two\nthree four"
	got := chunks(text, 13)
	assert.Equal(t, []string{"one two\nthree", "four"}, got)
}

func TestToPlainChunks_Properties(t *testing.T) {
	inputs := []string{
		strings.Repeat("Короткий абзац про горутины и каналы.\n\n", 200),
		strings.Repeat("**Заголовок**\n- пункт списка `код`\n[ссылка](http://example.com)\n\n\n", 150),
		strings.Repeat("слово ", 3000) + "\n\n" + strings.Repeat("другое ", 10),
		"single",
	}

	for _, maxLen := range []int{16, 100, 999, 4000} {
		for i, in := range inputs {
			got := chunks(in, maxLen)
			cleaned := Clean(in)

			for _, c := range got {
				assert.LessOrEqual(t, utf8.RuneCountInString(c), maxLen, "input %d max %d", i, maxLen)
				assert.NotEmpty(t, strings.TrimSpace(c), "input %d max %d", i, maxLen)
			}
			// no word in these inputs is longer than 16 runes, so none is split
			assert.Equal(t, strings.Fields(cleaned), strings.Fields(strings.Join(got, " ")), "input %d max %d", i, maxLen)
		}
	}
}

func TestToPlainChunks_Lazy(t *testing.T) {
	text := strings.Repeat("abc ", 100)
	var got []string
	for chunk := range ToPlainChunks(text, 8) {
		got = append(got, chunk)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"abc abc", "abc abc"}, got)
}

func TestRender(t *testing.T) {
	msgs := Render("**Итог**\n- хорошо.", DialectMarkdownV2, MaxMessageLength)
	require.Len(t, msgs, 1)
	assert.Equal(t, Message{Text: "*Итог*\n\n• хорошо\\.", Dialect: DialectMarkdownV2}, msgs[0])

	plain := Render("**Итог**\n- хорошо.", DialectNone, MaxMessageLength)
	require.Len(t, plain, 1)
	assert.Equal(t, "Итог\n- хорошо.", plain[0].Text)

	assert.Equal(t, []Message{{Text: Placeholder, Dialect: DialectHTML}}, Render("***", DialectHTML, 100))
}

func unescapedAsterisks(s string) int {
	n, escaped := 0, false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '*':
			n++
		}
	}
	return n
}

func TestRender_BoldHeaderAcrossChunks(t *testing.T) {
	header := "**" + strings.TrimSpace(strings.Repeat("word ", 30)) + "**"

	msgs := Render(header, DialectMarkdownV2, 60)
	require.Greater(t, len(msgs), 1)

	var plain []string
	for i, m := range msgs {
		assert.LessOrEqual(t, utf8.RuneCountInString(m.Text), 60, "chunk %d", i)
		assert.True(t, strings.HasPrefix(m.Text, "*"), "chunk %d: %q", i, m.Text)
		assert.True(t, strings.HasSuffix(m.Text, "*"), "chunk %d: %q", i, m.Text)
		assert.Equal(t, 0, unescapedAsterisks(m.Text)%2, "chunk %d: %q", i, m.Text)
		plain = append(plain, m.Plain())
	}
	assert.Equal(t, strings.Fields(strings.Repeat("word ", 30)), strings.Fields(strings.Join(plain, " ")))

	html := Render(header, DialectHTML, 60)
	require.Greater(t, len(html), 1)
	for i, m := range html {
		assert.LessOrEqual(t, utf8.RuneCountInString(m.Text), 60, "chunk %d", i)
		assert.Equal(t, strings.Count(m.Text, "<b>"), strings.Count(m.Text, "</b>"), "chunk %d: %q", i, m.Text)
	}
}

func TestRender_CutNeverSplitsEscapes(t *testing.T) {
	msgs := Render(strings.Repeat(".", 50), DialectMarkdownV2, 11)
	require.NotEmpty(t, msgs)

	var joined strings.Builder
	for i, m := range msgs {
		assert.LessOrEqual(t, utf8.RuneCountInString(m.Text), 11, "chunk %d", i)
		assert.False(t, strings.HasSuffix(m.Text, "\\") && !strings.HasSuffix(m.Text, "\\."), "chunk %d: %q", i, m.Text)
		assert.Equal(t, strings.Repeat(".", len(m.Text)/2), m.Plain(), "chunk %d: %q", i, m.Text)
		joined.WriteString(m.Plain())
	}
	assert.Equal(t, strings.Repeat(".", 50), joined.String())

	entities := Render(strings.Repeat("&", 20), DialectHTML, 14)
	var unescaped strings.Builder
	for i, m := range entities {
		assert.LessOrEqual(t, utf8.RuneCountInString(m.Text), 14, "chunk %d", i)
		assert.Equal(t, strings.Repeat("&amp;", strings.Count(m.Text, "&")), m.Text, "chunk %d", i)
		unescaped.WriteString(m.Plain())
	}
	assert.Equal(t, strings.Repeat("&", 20), unescaped.String())
}

func TestSafeCut(t *testing.T) {
	assert.Equal(t, 4, safeCut([]rune(`\.\.\.`), 5, DialectMarkdownV2))
	assert.Equal(t, 4, safeCut([]rune(`\.\.\.`), 4, DialectMarkdownV2))
	assert.Equal(t, 5, safeCut([]rune("&amp;&amp;"), 7, DialectHTML))
	assert.Equal(t, 5, safeCut([]rune("&amp;&amp;"), 5, DialectHTML))
	assert.Equal(t, 3, safeCut([]rune("abcdef"), 3, DialectNone))
}
