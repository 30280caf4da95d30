package prompt

import "testing"

func TestAssembleOrdersSystemFirstUserLast(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "prev question"},
		{Role: RoleAssistant, Content: "prev answer"},
	}
	result := Assemble("You are a tutor.", history, "new question")

	if len(result) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(result))
	}

	if result[0].Role != RoleSystem || result[0].Content != "You are a tutor." {
		t.Errorf("unexpected system message: %+v", result[0])
	}
	if result[1].Role != RoleUser || result[1].Content != "prev question" {
		t.Errorf("unexpected history[0]: %+v", result[1])
	}
	if result[2].Role != RoleAssistant || result[2].Content != "prev answer" {
		t.Errorf("unexpected history[1]: %+v", result[2])
	}
	if result[3].Role != RoleUser || result[3].Content != "new question" {
		t.Errorf("unexpected user message: %+v", result[3])
	}
}

func TestAssembleEmptyHistory(t *testing.T) {
	result := Assemble("system", nil, "hello")

	if len(result) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(result))
	}
	if result[0].Role != RoleSystem {
		t.Errorf("expected system role first, got %q", result[0].Role)
	}
	if result[1].Role != RoleUser || result[1].Content != "hello" {
		t.Errorf("unexpected user message: %+v", result[1])
	}
}

func TestAssembleDoesNotMutateHistory(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "original"},
	}
	_ = Assemble("system", history, "new")

	if history[0].Role != RoleUser || history[0].Content != "original" {
		t.Errorf("history entry mutated: %+v", history[0])
	}
	if len(history) != 1 {
		t.Errorf("history length changed: %d", len(history))
	}
}
