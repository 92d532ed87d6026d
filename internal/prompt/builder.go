package prompt

import (
	"fmt"
	"strings"
)

const bullet = "•"

// Builder assembles system prompts from a template registry
type Builder struct {
	registry *Registry
}

// NewBuilder creates a builder over the given registry.
// A nil registry falls back to DefaultRegistry.
func NewBuilder(registry *Registry) *Builder {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Builder{registry: registry}
}

// BuildByName validates a string key and builds the prompt for it
func (b *Builder) BuildByName(name string, ctx Context) (string, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return "", err
	}
	return b.Build(kind, ctx)
}

// Build assembles the system prompt for kind. The result depends only on
// kind, ctx and the registry, so repeated calls return identical strings.
func (b *Builder) Build(kind Kind, ctx Context) (string, error) {
	tmpl, ok := b.registry.Lookup(kind)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	var sb strings.Builder
	base := tmpl.base()

	sb.WriteString(base.RoleDescription)
	sb.WriteString("\n\n")

	writeContext(&sb, ctx)
	writeStyle(&sb, base.Style)

	switch t := tmpl.(type) {
	case PlainTemplate:
		// role, context and style only
	case FormattedTemplate:
		writeFormatting(&sb, t.Formatting)
	case StructuredTemplate:
		writeFormatting(&sb, t.Formatting)
		writeResponseFormat(&sb, t.Response)
	default:
		return "", fmt.Errorf("%w: unsupported template %T for %q", ErrUnknownKind, tmpl, kind)
	}

	return strings.TrimSpace(sb.String()), nil
}

func writeContext(sb *strings.Builder, ctx Context) {
	fmt.Fprintf(sb, "Текущий раздел: %s\n", ctx.Section)
	fmt.Fprintf(sb, "Уровень: %s\n", ctx.Level)
	if len(ctx.Topics) > 0 {
		fmt.Fprintf(sb, "Темы раздела: %s\n", strings.Join(ctx.Topics, ", "))
	}
	if len(ctx.AskedQuestions) > 0 {
		fmt.Fprintf(sb, "Ранее заданные вопросы: %s\n", strings.Join(ctx.AskedQuestions, ", "))
	}
}

func writeStyle(sb *strings.Builder, style []string) {
	sb.WriteString("\nСтиль общения:\n")
	for _, line := range style {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

func writeFormatting(sb *strings.Builder, f FormattingConfig) {
	sb.WriteString("\nВАЖНО: Форматирование текста и кода:\n")
	sb.WriteString("1. Используй только эти элементы разметки (не экранируй их):\n")
	for _, tag := range f.AllowedTags {
		fmt.Fprintf(sb, "   - %s\n", tag.Example)
	}

	sb.WriteString("\n2. Правила использования разметки:\n")
	for _, rule := range f.Rules {
		fmt.Fprintf(sb, "   - %s\n", rule)
	}

	sb.WriteString("\nПример форматирования списков:\n")
	sb.WriteString(f.ListExample)
}

func writeResponseFormat(sb *strings.Builder, rf ResponseFormat) {
	sb.WriteString("\n\nФормат ответа:\n\n")
	for _, section := range rf.Sections {
		fmt.Fprintf(sb, "*%s*\n", section.Title)
		if section.Content != "" {
			sb.WriteString(section.Content)
			sb.WriteString("\n\n")
		}

		if len(section.Subsections) > 0 {
			for _, sub := range section.Subsections {
				fmt.Fprintf(sb, "*%s*\n", sub.Title)
				writeItems(sb, sub.Items)
				if sub.Content != "" {
					sb.WriteString(sub.Content)
					sb.WriteString("\n")
				}
			}
			sb.WriteString("\n")
		}

		if len(section.Items) > 0 {
			writeItems(sb, section.Items)
			sb.WriteString("\n")
		}
	}
}

func writeItems(sb *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(sb, "%s %s\n", bullet, item)
	}
}
