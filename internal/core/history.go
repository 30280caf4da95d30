package core

import (
	"context"

	"github.com/tutorlab/ds-tutor/internal/prompt"
	"github.com/tutorlab/ds-tutor/internal/store"
)

// HistoryAdapter projects stored transcripts into prompt messages. With
// window == 0 the full history is included every time; a positive window
// keeps only the last N turns, dropping the oldest first.
type HistoryAdapter struct {
	store  store.Store
	window int
}

func NewHistoryAdapter(s store.Store, window int) *HistoryAdapter {
	return &HistoryAdapter{store: s, window: window}
}

// ToPromptMessages loads a session's turns and converts them into the shape
// the prompt assembler expects, preserving chronological order. No other
// filtering or summarization happens here.
func (a *HistoryAdapter) ToPromptMessages(ctx context.Context, sessionID string) ([]prompt.Message, error) {
	turns, err := a.store.LoadTranscript(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if a.window > 0 && len(turns) > a.window {
		turns = turns[len(turns)-a.window:]
	}

	messages := make([]prompt.Message, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, prompt.Message{Role: t.Role, Content: t.Content})
	}
	return messages, nil
}
