package steps

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/opendoorspartners/odp-backend/internal/types"
)

func msg(role, content string) *types.ConversationMessage {
	return &types.ConversationMessage{Role: role, Content: content}
}

func TestNeedsRewrite(t *testing.T) {
	history := []*types.ConversationMessage{
		msg(types.RoleUser, "Tell me about SpaceX"),
		msg(types.RoleAssistant, "SpaceX is raising a Series X round."),
	}

	cases := []struct {
		name     string
		question string
		history  []*types.ConversationMessage
		want     bool
	}{
		{"first turn never rewrites", "what about valuation?", nil, false},
		{"pronoun reference", "what is their valuation?", history, true},
		{"short question without company", "and fees?", history, true},
		{"metric-only short question", "revenue numbers?", history, true},
		{"company named, short", "spacex valuation?", history, false},
		{"self-contained question", "what is the minimum check for spacex?", history, false},
	}
	for _, tc := range cases {
		if got := needsRewrite(tc.question, tc.history); got != tc.want {
			t.Errorf("%s: needsRewrite(%q) = %v, want %v", tc.name, tc.question, got, tc.want)
		}
	}
}

func TestRewriteUsesHistoryAndStripsQuotes(t *testing.T) {
	chat := &fakeChat{replies: []string{`"What is SpaceX's valuation?"`}}
	r := NewRewriter(chat, testLogger(t))

	history := []*types.ConversationMessage{
		msg(types.RoleUser, "Tell me about SpaceX"),
		msg(types.RoleAssistant, "SpaceX is raising a Series X round."),
	}
	got := r.Rewrite(context.Background(), "what is their valuation?", history)
	if got != "What is SpaceX's valuation?" {
		t.Fatalf("got %q", got)
	}

	if len(chat.calls) != 1 {
		t.Fatalf("chat calls = %d, want 1", len(chat.calls))
	}
	userPrompt := chat.calls[0][len(chat.calls[0])-1].Content
	if !strings.Contains(userPrompt, "User: Tell me about SpaceX") {
		t.Errorf("history missing from prompt:\n%s", userPrompt)
	}
	if !strings.Contains(userPrompt, "Assistant: SpaceX is raising") {
		t.Errorf("assistant turn missing from prompt:\n%s", userPrompt)
	}
	if !strings.Contains(userPrompt, "what is their valuation?") {
		t.Errorf("current question missing from prompt:\n%s", userPrompt)
	}
}

func TestRewriteReturnsOriginalWhenNotNeeded(t *testing.T) {
	chat := &fakeChat{}
	r := NewRewriter(chat, testLogger(t))

	got := r.Rewrite(context.Background(), "what is the minimum check for spacex?", []*types.ConversationMessage{
		msg(types.RoleUser, "hello"),
		msg(types.RoleAssistant, "Hi! How can we help?"),
	})
	if got != "what is the minimum check for spacex?" {
		t.Fatalf("got %q", got)
	}
	if len(chat.calls) != 0 {
		t.Fatalf("chat calls = %d, want 0", len(chat.calls))
	}
}

func TestRewriteFallsBackOnChatError(t *testing.T) {
	chat := &fakeChat{err: errors.New("provider down")}
	r := NewRewriter(chat, testLogger(t))

	history := []*types.ConversationMessage{
		msg(types.RoleUser, "Tell me about SpaceX"),
		msg(types.RoleAssistant, "SpaceX is raising a Series X round."),
	}
	got := r.Rewrite(context.Background(), "what is their valuation?", history)
	if got != "what is their valuation?" {
		t.Fatalf("got %q, want the original question", got)
	}
}
