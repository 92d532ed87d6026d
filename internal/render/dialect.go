package render

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// Dialect is the markup syntax a message is rendered for
type Dialect string

const (
	DialectNone       Dialect = "none"
	DialectMarkdownV2 Dialect = "markdownV2"
	DialectHTML       Dialect = "html"
)

// Placeholder is returned when the model produced nothing but formatting markers.
// It contains no characters reserved by any dialect.
const Placeholder = "Нет доступной информации"

// MaxMessageLength is the chunk ceiling in runes used for both delivery paths.
// Telegram accepts 4096, the rest is left for escaping overhead.
const MaxMessageLength = 3500

// Message is a render-ready piece of text bound to its dialect
type Message struct {
	Text    string
	Dialect Dialect
}

// ParseMode returns the Telegram parse mode for the dialect
func (d Dialect) ParseMode() string {
	switch d {
	case DialectMarkdownV2:
		return "MarkdownV2"
	case DialectHTML:
		return "HTML"
	default:
		return ""
	}
}

var markdownV2Escaper = strings.NewReplacer(
	"\\", "\\\\",
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// convert renders one line; replaced in tests
var convert = convertLine

var (
	listMarkerPattern = regexp.MustCompile(`^[-*]\s*`)
	inlineLinkPattern = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
)

// Escape escapes the characters reserved by the dialect
func Escape(text string, d Dialect) string {
	switch d {
	case DialectMarkdownV2:
		return markdownV2Escaper.Replace(text)
	case DialectHTML:
		return htmlEscaper.Replace(text)
	default:
		return text
	}
}

func bold(text string, d Dialect) string {
	switch d {
	case DialectMarkdownV2:
		return "*" + text + "*"
	case DialectHTML:
		return "<b>" + text + "</b>"
	default:
		return text
	}
}

func isDegenerate(trimmed string) bool {
	return trimmed == "" || trimmed == "*" || trimmed == "**" || trimmed == "***"
}

// ToDialect reinterprets headers, list items and links of loosely Markdown-like
// model output and escapes everything else for d. It never fails: on a panic
// the fully escaped input (or Placeholder) is returned instead.
func ToDialect(text string, d Dialect) (out string) {
	if isDegenerate(strings.TrimSpace(text)) {
		return Placeholder
	}

	defer func() {
		if r := recover(); r != nil {
			log.Warn().
				Interface("panic", r).
				Str("dialect", string(d)).
				Int("length", len(text)).
				Msg("Dialect conversion failed, falling back to escaped text")
			out = Escape(text, d)
			if strings.TrimSpace(out) == "" {
				out = Placeholder
			}
		}
	}()

	lines := strings.Split(text, "\n")
	formatted := make([]string, 0, len(lines))
	for _, line := range lines {
		if l := convert(line, d); l != "" {
			formatted = append(formatted, l)
		}
	}

	result := strings.Join(formatted, "\n\n")
	if strings.TrimSpace(result) == "" {
		return Placeholder
	}
	return result
}

// convertLine returns the rendered line or "" when the line should be dropped
func convertLine(line string, d Dialect) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}

	// Headers
	if strings.HasPrefix(trimmed, "**") {
		content := strings.TrimSpace(strings.ReplaceAll(trimmed, "**", ""))
		if content == "" {
			return ""
		}
		return bold(Escape(content, d), d)
	}

	// List items
	if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
		content := strings.TrimSpace(listMarkerPattern.ReplaceAllString(trimmed, ""))
		if content == "" {
			return ""
		}
		return "• " + Escape(content, d)
	}

	// Links collapse to their text
	if m := inlineLinkPattern.FindStringSubmatch(trimmed); m != nil {
		if m[1] == "" {
			return ""
		}
		return "• " + Escape(m[1], d)
	}

	return Escape(trimmed, d)
}

var htmlUnescaper = strings.NewReplacer(
	"<b>", "",
	"</b>", "",
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
)

// Plain strips the dialect markup from a rendered message so it can be resent
// without a parse mode
func (m Message) Plain() string {
	switch m.Dialect {
	case DialectMarkdownV2:
		var sb strings.Builder
		escaped := false
		for _, r := range m.Text {
			switch {
			case escaped:
				sb.WriteRune(r)
				escaped = false
			case r == '\\':
				escaped = true
			case r == '*':
				// unescaped asterisks only come from bold headers
			default:
				sb.WriteRune(r)
			}
		}
		return sb.String()
	case DialectHTML:
		return htmlUnescaper.Replace(m.Text)
	default:
		return m.Text
	}
}
