package questions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/models"
)

func TestLoadBank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.yaml")
	content := `questions:
  - category: fruit
    answer: apple
    hint: "a____"
  - category: animal
    answer: donkey
    hint: "d_____"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	bank, err := LoadBank(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bank.Len())

	q, ok := bank.ByKey(models.Question{Category: "fruit", Answer: "apple", Hint: "a____"}.Key())
	require.True(t, ok)
	assert.Equal(t, "apple", q.Answer)
}

func TestLoadBank_MissingFile(t *testing.T) {
	_, err := LoadBank(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNewBank_RejectsDuplicateKeys(t *testing.T) {
	_, err := NewBank([]models.Question{
		{Category: "fruit", Answer: "apple", Hint: "a____"},
		{Category: "Fruit", Answer: " APPLE ", Hint: "a____"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate question key")
}

func TestNewBank_RejectsEmptyAnswer(t *testing.T) {
	_, err := NewBank([]models.Question{{Category: "fruit", Hint: "a____"}})
	assert.Error(t, err)
}

func TestShuffled_PreservesTheSet(t *testing.T) {
	qs := make([]models.Question, 15)
	for i := range qs {
		qs[i] = models.Question{Category: "misc", Answer: string(rune('a' + i)), Hint: "x"}
	}
	bank, err := NewBank(qs)
	require.NoError(t, err)

	shuffled := bank.Shuffled()
	require.Len(t, shuffled, 15)

	keys := make(map[string]bool, 15)
	for _, q := range shuffled {
		keys[q.Key()] = true
	}
	assert.Len(t, keys, 15, "shuffle must not drop or duplicate questions")

	// The bank itself stays in load order.
	assert.Equal(t, "a", bank.Questions()[0].Answer)
}
