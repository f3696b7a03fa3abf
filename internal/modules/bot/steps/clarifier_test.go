package steps

import (
	"context"
	"errors"
	"testing"
)

func TestNeedsClarification(t *testing.T) {
	cases := []struct {
		name     string
		question string
		hasDeal  bool
		want     bool
	}{
		{"deal context always proceeds", "what is the minimum ticket", true, false},
		{"general firm question", "what do you offer", false, false},
		{"greeting-like", "hello", false, false},
		{"deal-specific without context", "what is the minimum ticket", false, true},
		{"fee question without context", "what are the fees", false, true},
		{"vague without context", "give me a summary", false, true},
	}
	for _, tc := range cases {
		if got := NeedsClarification(tc.question, 0, "low", tc.hasDeal); got != tc.want {
			t.Errorf("%s: NeedsClarification(%q, hasDeal=%v) = %v, want %v",
				tc.name, tc.question, tc.hasDeal, got, tc.want)
		}
	}
}

func TestGenerateClarifyingQuestionFastPath(t *testing.T) {
	chat := &fakeChat{}
	c := NewClarifier(chat, testLogger(t))

	got := c.GenerateClarifyingQuestion(context.Background(),
		"What is the minimum ticket?", []string{"SpaceX", "Anthropic"})
	want := "Happy to help! Are you asking about SpaceX or Anthropic?"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if len(chat.calls) != 0 {
		t.Fatalf("chat calls = %d, want 0 on the fast path", len(chat.calls))
	}
}

func TestGenerateClarifyingQuestionNoDeals(t *testing.T) {
	chat := &fakeChat{}
	c := NewClarifier(chat, testLogger(t))

	got := c.GenerateClarifyingQuestion(context.Background(), "what are the fees", nil)
	want := "Happy to help! Could you let me know which deal you're asking about?"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGenerateClarifyingQuestionFallsBackOnChatError(t *testing.T) {
	chat := &fakeChat{err: errors.New("provider down")}
	c := NewClarifier(chat, testLogger(t))

	// No deal keyword, so the model is consulted and fails.
	got := c.GenerateClarifyingQuestion(context.Background(), "give me a summary", []string{"SpaceX"})
	want := "Happy to help! Are you asking about SpaceX?"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if len(chat.calls) != 1 {
		t.Fatalf("chat calls = %d, want 1", len(chat.calls))
	}
}
