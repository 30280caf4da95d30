package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tutorlab/ds-tutor/internal/prompt"
	"github.com/tutorlab/ds-tutor/internal/store"
)

// DefaultSystemInstruction pins the assistant persona. Topic restriction is
// enforced through this instruction text only, not by the pipeline.
const DefaultSystemInstruction = "You are an AI assistant specialized in Data Science tutoring. " +
	"You will only answer questions related to Data Science. " +
	"Provide code examples with proper syntax highlighting when relevant. " +
	"If asked anything outside this topic, politely decline and request a Data Science-related question."

// ErrEmptyMessage rejects empty or whitespace-only submissions before any
// store append or upstream call happens.
var ErrEmptyMessage = errors.New("message content is empty")

// Completer produces a completion for an assembled prompt.
type Completer interface {
	Complete(ctx context.Context, messages []prompt.Message) (string, error)
}

// Exchange is one completed submission: the persisted user turn and the
// assistant turn answering it.
type Exchange struct {
	User      store.Turn `json:"user"`
	Assistant store.Turn `json:"assistant"`
}

// Result delivers an exchange, or the error that stopped it, over the
// channel returned by Submit.
type Result struct {
	Exchange *Exchange
	Err      error
}

// ChatService runs the submission pipeline: append the user turn, assemble
// the prompt from prior history, obtain a completion, append the assistant
// turn. All dependencies are injected.
type ChatService struct {
	store     store.Store
	completer Completer
	history   *HistoryAdapter
	system    string
	timeout   time.Duration

	mu       sync.Mutex
	sessions map[string]*sync.Mutex
}

func NewChatService(s store.Store, c Completer, h *HistoryAdapter, systemInstruction string, completionTimeout time.Duration) *ChatService {
	return &ChatService{
		store:     s,
		completer: c,
		history:   h,
		system:    systemInstruction,
		timeout:   completionTimeout,
		sessions:  make(map[string]*sync.Mutex),
	}
}

// Submit runs one exchange as an asynchronous task and returns a one-shot
// result channel. Submissions to the same session serialize in arrival
// order; distinct sessions proceed independently. The pipeline runs on its
// own context so a caller that goes away does not abandon a half-written
// exchange.
func (s *ChatService) Submit(sessionID, content string) <-chan Result {
	results := make(chan Result, 1)
	go func() {
		defer close(results)
		exchange, err := s.exchange(sessionID, content)
		results <- Result{Exchange: exchange, Err: err}
	}()
	return results
}

func (s *ChatService) exchange(sessionID, content string) (*Exchange, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	// Snapshot history before recording the new turn so the utterance
	// appears exactly once in the assembled prompt.
	history, err := s.history.ToPromptMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	userTurn, err := s.store.AppendTurn(ctx, sessionID, store.RoleUser, content)
	if err != nil {
		return nil, fmt.Errorf("failed to store user turn: %w", err)
	}

	messages := prompt.Assemble(s.system, history, content)

	completion, err := s.completer.Complete(ctx, messages)
	if err != nil {
		// The user turn stays persisted; no assistant turn is written.
		return nil, err
	}

	assistantTurn, err := s.store.AppendTurn(ctx, sessionID, store.RoleAssistant, completion)
	if err != nil {
		return nil, fmt.Errorf("failed to store assistant turn: %w", err)
	}

	return &Exchange{User: *userTurn, Assistant: *assistantTurn}, nil
}

// sessionLock returns the mutex serializing submissions for one session.
func (s *ChatService) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.sessions[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.sessions[sessionID] = lock
	}
	return lock
}

// Transcript returns every stored turn of a session in order.
func (s *ChatService) Transcript(ctx context.Context, sessionID string) ([]store.Turn, error) {
	return s.store.LoadTranscript(ctx, sessionID)
}
