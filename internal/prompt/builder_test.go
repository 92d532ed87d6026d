package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullContext() Context {
	return Context{
		Section:        "React",
		Level:          "Middle",
		Topics:         []string{"Hooks", "Context", "Reconciliation"},
		AskedQuestions: []string{"Что такое useEffect?", "Зачем нужен key?"},
	}
}

func TestBuild_Deterministic(t *testing.T) {
	b := NewBuilder(nil)
	for _, kind := range Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			first, err := b.Build(kind, fullContext())
			require.NoError(t, err)
			second, err := b.Build(kind, fullContext())
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestBuild_ContainsRoleAndStyleInOrder(t *testing.T) {
	b := NewBuilder(nil)
	reg := DefaultRegistry()

	for _, kind := range Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			out, err := b.Build(kind, fullContext())
			require.NoError(t, err)

			tmpl, ok := reg.Lookup(kind)
			require.True(t, ok)
			base := tmpl.base()

			assert.True(t, strings.HasPrefix(out, base.RoleDescription))

			pos := 0
			for _, line := range base.Style {
				idx := strings.Index(out[pos:], line)
				require.GreaterOrEqual(t, idx, 0, "style line %q missing or out of order", line)
				pos += idx + len(line)
			}
		})
	}
}

func TestBuild_TopicsLine(t *testing.T) {
	b := NewBuilder(nil)

	t.Run("omitted", func(t *testing.T) {
		out, err := b.Build(KindEvaluation, Context{Section: "CSS", Level: "Junior"})
		require.NoError(t, err)
		assert.NotContains(t, out, "Темы раздела:")
		assert.NotContains(t, out, "Ранее заданные вопросы:")
	})

	t.Run("empty slice is omitted", func(t *testing.T) {
		out, err := b.Build(KindEvaluation, Context{Section: "CSS", Level: "Junior", Topics: []string{}})
		require.NoError(t, err)
		assert.NotContains(t, out, "Темы раздела:")
	})

	t.Run("present", func(t *testing.T) {
		out, err := b.Build(KindEvaluation, fullContext())
		require.NoError(t, err)

		var topicsLine string
		for _, line := range strings.Split(out, "\n") {
			if strings.HasPrefix(line, "Темы раздела: ") {
				topicsLine = strings.TrimPrefix(line, "Темы раздела: ")
			}
		}
		require.NotEmpty(t, topicsLine)
		assert.Len(t, strings.Split(topicsLine, ", "), 3)
		assert.Contains(t, out, "Ранее заданные вопросы: Что такое useEffect?, Зачем нужен key?")
	})
}

func TestBuild_NextQuestionWithoutHistory(t *testing.T) {
	out, err := NewBuilder(nil).Build(KindNextQuestion, Context{Section: "Arrays", Level: "Junior"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, NextQuestionTemplate.RoleDescription))
	assert.Contains(t, out, "Текущий раздел: Arrays\nУровень: Junior\n")
	assert.NotContains(t, out, "Темы раздела:")
	assert.NotContains(t, out, "Ранее заданные вопросы:")
	// plain templates carry no formatting or layout sections
	assert.NotContains(t, out, "Форматирование текста и кода")
	assert.NotContains(t, out, "Формат ответа:")
}

func TestBuild_FormattingAndResponseFormat(t *testing.T) {
	out, err := NewBuilder(nil).Build(KindEvaluation, fullContext())
	require.NoError(t, err)

	// allowed tags keep insertion order
	prev := -1
	for _, tag := range baseFormatting.AllowedTags {
		idx := strings.Index(out, "   - "+tag.Example)
		require.Greater(t, idx, prev, "tag %s out of order", tag.Name)
		prev = idx
	}

	assert.Contains(t, out, "Пример форматирования списков:\n"+baseFormatting.ListExample)
	assert.Contains(t, out, "*📌 Основные выводы*\n_Краткий анализ на 2\\-3 предложения_\n\n")
	assert.Contains(t, out, "*Что улучшить:*\n• `Конкретная проблема` \\- _реальное последствие_\n*Как это сделать:*")
	assert.True(t, strings.HasSuffix(out, "• *Документация* \\- `ссылка` → _ключевые разделы_"))
}

func TestBuild_FormattedTemplateHasNoLayout(t *testing.T) {
	reg := NewRegistry(map[Kind]Template{
		KindFollowUp: FormattedTemplate{
			Base:       Base{RoleDescription: "role", Style: []string{"s1"}},
			Formatting: FormattingConfig{Rules: []string{"r1"}, ListExample: "• x", AllowedTags: []Tag{{Name: "b", Example: "*b*"}}},
		},
	})

	out, err := NewBuilder(reg).Build(KindFollowUp, Context{Section: "S", Level: "L"})
	require.NoError(t, err)
	assert.Equal(t, "role\n\n"+
		"Текущий раздел: S\n"+
		"Уровень: L\n\n"+
		"Стиль общения:\n"+
		"s1\n\n"+
		"ВАЖНО: Форматирование текста и кода:\n"+
		"1. Используй только эти элементы разметки (не экранируй их):\n"+
		"   - *b*\n\n"+
		"2. Правила использования разметки:\n"+
		"   - r1\n\n"+
		"Пример форматирования списков:\n"+
		"• x", out)
}

func TestBuild_PlainTemplateOmitsRulesAndQuestionFormat(t *testing.T) {
	reg := NewRegistry(map[Kind]Template{
		KindNextQuestion: PlainTemplate{
			Base:           Base{RoleDescription: "role", Style: []string{"s1"}},
			Rules:          []string{"rule-one"},
			QuestionFormat: "format-one",
		},
	})

	out, err := NewBuilder(reg).Build(KindNextQuestion, Context{Section: "S", Level: "L"})
	require.NoError(t, err)
	assert.Equal(t, "role\n\n"+
		"Текущий раздел: S\n"+
		"Уровень: L\n\n"+
		"Стиль общения:\n"+
		"s1", out)
	assert.NotContains(t, out, "rule-one")
	assert.NotContains(t, out, "format-one")
}

func TestBuild_UnknownKind(t *testing.T) {
	b := NewBuilder(NewRegistry(map[Kind]Template{KindNextQuestion: NextQuestionTemplate}))

	_, err := b.Build(KindEvaluation, fullContext())
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = b.BuildByName("summary", fullContext())
	assert.ErrorIs(t, err, ErrUnknownKind)

	out, err := b.BuildByName("nextQuestion", fullContext())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRegistry_IsolatedFromSource(t *testing.T) {
	src := map[Kind]Template{KindNextQuestion: NextQuestionTemplate}
	reg := NewRegistry(src)
	delete(src, KindNextQuestion)

	_, ok := reg.Lookup(KindNextQuestion)
	assert.True(t, ok)
}
