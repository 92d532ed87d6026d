package render

import (
	"iter"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule is one step of the markup stripping pipeline
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Apply runs the rule over text
func (r Rule) Apply(text string) string {
	return r.Pattern.ReplaceAllString(text, r.Replacement)
}

// PlainRules strips markup from model output. Order matters: links must be
// collapsed before residual brackets are removed.
var PlainRules = []Rule{
	{Name: "line_endings", Pattern: regexp.MustCompile(`\r\n?`), Replacement: "\n"},
	{Name: "headings", Pattern: regexp.MustCompile(`(?m)^#+\s+`), Replacement: ""},
	{Name: "bold", Pattern: regexp.MustCompile(`\*\*`), Replacement: ""},
	{Name: "asterisks", Pattern: regexp.MustCompile(`\*`), Replacement: ""},
	{Name: "bullets", Pattern: regexp.MustCompile(`•`), Replacement: "-"},
	{Name: "links", Pattern: regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`), Replacement: "$1"},
	{Name: "inline_code", Pattern: regexp.MustCompile("`([^`]+)`"), Replacement: "$1"},
	{Name: "underline", Pattern: regexp.MustCompile(`__(.*?)__`), Replacement: "$1"},
	{Name: "brackets", Pattern: regexp.MustCompile(`\[(.*?)\]`), Replacement: "$1"},
	{Name: "stock_headers", Pattern: regexp.MustCompile(`(?i)(Основное определение|Ключевые характеристики|Дополнительная информация|Полезные ресурсы):`), Replacement: ""},
	{Name: "blank_lines", Pattern: regexp.MustCompile(`\n{3,}`), Replacement: "\n\n"},
}

var (
	paragraphSeparator = regexp.MustCompile(`\n[ \t]*\n\s*`)
	wordPattern        = regexp.MustCompile(`\S+`)
)

const (
	paragraphJoin = "\n\n"

	// longest entity or tag produced by the HTML dialect: "</b>" and "&amp;"
	maxEntityLength = 5
)

// Clean removes every markup token recognised by PlainRules and trims the result
func Clean(text string) string {
	for _, rule := range PlainRules {
		text = rule.Apply(text)
	}
	return strings.TrimSpace(text)
}

// ToPlainChunks strips markup and lazily splits the result into chunks of at
// most maxLen runes. Whitespace-only input yields no chunks.
func ToPlainChunks(text string, maxLen int) iter.Seq[string] {
	return Split(Clean(text), maxLen)
}

// Render converts text to d and splits it for delivery. Chunks of a formatted
// dialect never cut an escape sequence or entity, and a bold span crossing a
// chunk boundary is closed and reopened so each chunk parses on its own.
func Render(text string, d Dialect, maxLen int) []Message {
	if maxLen <= 0 {
		maxLen = MaxMessageLength
	}

	var converted string
	if d == DialectNone {
		converted = Clean(text)
	} else {
		converted = ToDialect(text, d)
	}

	open, closing := boldMarkers(d)
	inner := maxLen - utf8.RuneCountInString(open) - utf8.RuneCountInString(closing)
	if inner < 1 {
		inner = maxLen
	}

	var messages []Message
	bold := false
	for chunk := range split(converted, inner, d) {
		if bold {
			chunk = open + chunk
		}
		bold = boldOpenAfter(chunk, d)
		if bold {
			chunk += closing
		}
		messages = append(messages, Message{Text: chunk, Dialect: d})
	}
	return messages
}

func boldMarkers(d Dialect) (string, string) {
	switch d {
	case DialectMarkdownV2:
		return "*", "*"
	case DialectHTML:
		return "<b>", "</b>"
	default:
		return "", ""
	}
}

// boldOpenAfter reports whether chunk leaves a bold span open
func boldOpenAfter(chunk string, d Dialect) bool {
	switch d {
	case DialectMarkdownV2:
		open, escaped := false, false
		for _, r := range chunk {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '*':
				open = !open
			}
		}
		return open
	case DialectHTML:
		return strings.Count(chunk, "<b>") > strings.Count(chunk, "</b>")
	default:
		return false
	}
}

// Split packs paragraphs into chunks of at most maxLen runes. A paragraph that
// does not fit on its own is split at word boundaries; only a single word
// longer than maxLen is cut mid-word. A non-positive maxLen means MaxMessageLength.
func Split(text string, maxLen int) iter.Seq[string] {
	return split(text, maxLen, DialectNone)
}

func split(text string, maxLen int, d Dialect) iter.Seq[string] {
	if maxLen <= 0 {
		maxLen = MaxMessageLength
	}
	sepLen := utf8.RuneCountInString(paragraphJoin)

	return func(yield func(string) bool) {
		var current strings.Builder
		currentLen := 0

		flush := func() bool {
			if currentLen == 0 {
				return true
			}
			chunk := current.String()
			current.Reset()
			currentLen = 0
			return yield(chunk)
		}

		for _, para := range paragraphSeparator.Split(text, -1) {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			n := utf8.RuneCountInString(para)

			if currentLen > 0 && currentLen+sepLen+n <= maxLen {
				current.WriteString(paragraphJoin)
				current.WriteString(para)
				currentLen += sepLen + n
				continue
			}

			if !flush() {
				return
			}

			if n <= maxLen {
				current.WriteString(para)
				currentLen = n
				continue
			}

			for chunk := range splitWords(para, maxLen, d) {
				if !yield(chunk) {
					return
				}
			}
		}

		flush()
	}
}

// splitWords splits a single paragraph at whitespace. Line breaks between
// words are kept, other whitespace runs collapse to one space.
func splitWords(para string, maxLen int, d Dialect) iter.Seq[string] {
	return func(yield func(string) bool) {
		locs := wordPattern.FindAllStringIndex(para, -1)

		var current strings.Builder
		currentLen := 0

		for i, loc := range locs {
			word := para[loc[0]:loc[1]]
			wordLen := utf8.RuneCountInString(word)

			sep := " "
			if i > 0 && strings.ContainsRune(para[locs[i-1][1]:loc[0]], '\n') {
				sep = "\n"
			}

			if currentLen > 0 && currentLen+1+wordLen <= maxLen {
				current.WriteString(sep)
				current.WriteString(word)
				currentLen += 1 + wordLen
				continue
			}

			if currentLen > 0 {
				if !yield(current.String()) {
					return
				}
				current.Reset()
				currentLen = 0
			}

			// Words that cannot fit anywhere are cut by runes
			runes := []rune(word)
			for len(runes) > maxLen {
				cut := safeCut(runes, maxLen, d)
				if !yield(string(runes[:cut])) {
					return
				}
				runes = runes[cut:]
			}

			current.WriteString(string(runes))
			currentLen = len(runes)
		}

		if currentLen > 0 {
			yield(current.String())
		}
	}
}

// safeCut moves a cut at n back so it does not land inside an escape
// sequence, an entity or a tag of d
func safeCut(runes []rune, n int, d Dialect) int {
	cut := n
	switch d {
	case DialectMarkdownV2:
		backslashes := 0
		for i := cut - 1; i >= 0 && runes[i] == '\\'; i-- {
			backslashes++
		}
		if backslashes%2 == 1 {
			cut--
		}
	case DialectHTML:
		for i := cut - 1; i >= 0 && i >= cut-maxEntityLength; i-- {
			if runes[i] == ';' || runes[i] == '>' {
				break
			}
			if runes[i] == '&' || runes[i] == '<' {
				cut = i
				break
			}
		}
	}

	if cut < 1 {
		return n
	}
	return cut
}
