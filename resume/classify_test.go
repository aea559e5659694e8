package resume

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstringClassifier(t *testing.T) {
	classifier := SubstringClassifier{}

	cases := []struct {
		name string
		err  error
		want Category
	}{
		{"exact marker", errors.New("Invalid assistant ID"), CategoryInvalidAssistant},
		{"marker inside message", errors.New(`run error: Invalid assistant ID "weather_agent"`), CategoryInvalidAssistant},
		{"case insensitive", errors.New("invalid ASSISTANT id"), CategoryInvalidAssistant},
		{"wrapped", fmt.Errorf("submit: %w", errors.New("Invalid assistant ID")), CategoryInvalidAssistant},
		{"unrelated error", errors.New("connection refused"), CategoryGeneric},
		{"nil error", nil, CategoryGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifier.Classify(tc.err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Contains(t, Message(CategoryInvalidAssistant), "assistant ID")
	assert.Equal(t, "Failed to submit response.", Message(CategoryGeneric))
	// Unknown categories fall through to the generic notice.
	assert.Equal(t, "Failed to submit response.", Message(Category("surprise")))
}
