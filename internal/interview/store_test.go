package interview

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_TrimsHistory(t *testing.T) {
	store := NewStore()

	var asked []string
	for i := 0; i < 15; i++ {
		asked = append(asked, fmt.Sprintf("q%d", i))
	}
	store.Save(1, Session{
		Level:           LevelJunior,
		CurrentQuestion: strings.Repeat("я", 1500),
		AskedQuestions:  asked,
	})

	sess, ok := store.Get(1)
	require.True(t, ok)
	assert.Len(t, sess.AskedQuestions, 10)
	assert.Equal(t, "q5", sess.AskedQuestions[0])
	assert.Equal(t, "q14", sess.AskedQuestions[9])
	assert.Equal(t, 1000, utf8.RuneCountInString(sess.CurrentQuestion))
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store := NewStore()
	store.Save(1, Session{AskedQuestions: []string{"a"}})

	sess, _ := store.Get(1)
	sess.AskedQuestions[0] = "changed"

	again, _ := store.Get(1)
	assert.Equal(t, "a", again.AskedQuestions[0])
}

func TestStore_Delete(t *testing.T) {
	store := NewStore()
	store.Save(1, Session{Level: LevelSenior})

	sess, ok := store.Delete(1)
	assert.True(t, ok)
	assert.Equal(t, LevelSenior, sess.Level)

	_, ok = store.Delete(1)
	assert.False(t, ok)

	_, ok = store.Get(1)
	assert.False(t, ok)
}

func TestCatalog(t *testing.T) {
	_, err := ParseLevel("Lead")
	assert.ErrorIs(t, err, ErrUnknownLevel)

	lvl, err := ParseLevel("Middle")
	require.NoError(t, err)
	assert.Equal(t, LevelMiddle, lvl)

	_, err = FindSection("cobol")
	assert.ErrorIs(t, err, ErrUnknownSection)

	seen := map[string]bool{}
	for _, s := range Sections {
		assert.False(t, seen[s.ID], "duplicate section id %s", s.ID)
		seen[s.ID] = true
		assert.NotEmpty(t, s.Topics)
		// callback data is limited to 64 bytes
		assert.LessOrEqual(t, len("section:Junior:"+s.ID), 64)
	}
}
