package questions

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lkttle/agentGameGuessWord-sub000/internal/models"
)

// Bank is the fixed set of guessing-game questions swept by the prewarmer.
// It is loaded once at startup and immutable afterwards.
type Bank struct {
	questions []models.Question
	byKey     map[string]models.Question
}

type bankFile struct {
	Questions []models.Question `yaml:"questions"`
}

// LoadBank reads the question bank from a YAML file.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank: %w", err)
	}

	var file bankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}

	return NewBank(file.Questions)
}

// NewBank builds a bank from questions, rejecting entries whose derived keys
// collide: the key is the question's identity across the cache.
func NewBank(qs []models.Question) (*Bank, error) {
	byKey := make(map[string]models.Question, len(qs))
	for _, q := range qs {
		if q.Answer == "" {
			return nil, fmt.Errorf("question with empty answer (category %q)", q.Category)
		}
		key := q.Key()
		if _, exists := byKey[key]; exists {
			return nil, fmt.Errorf("duplicate question key %q", key)
		}
		byKey[key] = q
	}

	return &Bank{
		questions: append([]models.Question(nil), qs...),
		byKey:     byKey,
	}, nil
}

// Len returns the number of questions in the bank.
func (b *Bank) Len() int {
	return len(b.questions)
}

// Questions returns a copy of the bank in load order.
func (b *Bank) Questions() []models.Question {
	return append([]models.Question(nil), b.questions...)
}

// Shuffled returns a freshly shuffled copy. Sweeps shuffle per run to avoid
// systematic bias toward bank order.
func (b *Bank) Shuffled() []models.Question {
	out := b.Questions()
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// ByKey looks a question up by its derived key.
func (b *Bank) ByKey(key string) (models.Question, bool) {
	q, ok := b.byKey[key]
	return q, ok
}
