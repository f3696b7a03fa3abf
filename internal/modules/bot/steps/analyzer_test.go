package steps

import "testing"

func TestIsGreeting(t *testing.T) {
	cases := []struct {
		name     string
		question string
		want     bool
	}{
		{"exact hello", "Hello", true},
		{"exact thanks with punctuation", "Thanks!", true},
		{"exact good morning", "Good morning", true},
		{"starter plus filler only", "Hi there, how are you doing?", true},
		{"starter plus harmless words", "Hello team quick one", true},
		{"starter followed by business keyword", "Hi, what is the minimum ticket?", false},
		{"thanks acknowledgement", "thanks, got it", true},
		{"plain business question", "What is the fee structure?", false},
		{"empty message", "   ", false},
		{"non greeting starter", "Please send the subscription documents", false},
	}
	for _, tc := range cases {
		if got := IsGreeting(tc.question); got != tc.want {
			t.Errorf("%s: IsGreeting(%q) = %v, want %v", tc.name, tc.question, got, tc.want)
		}
	}
}

func TestIsNewQuestion(t *testing.T) {
	cases := []struct {
		question string
		want     bool
	}{
		{"What about the fees?", true},
		{"when does the deal close", true},
		{"Could you share the deck?", true},
		{"Tell me about SpaceX", true},
		{"The minimum is $25K", false},
		{"Payment dates are Jan 15 and Jul 15", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsNewQuestion(tc.question); got != tc.want {
			t.Errorf("IsNewQuestion(%q) = %v, want %v", tc.question, got, tc.want)
		}
	}
}

func TestHasMissingInfoSignal(t *testing.T) {
	cases := []struct {
		answer string
		want   bool
	}{
		{"The minimum ticket is $25K per the term sheet.", false},
		{"We don't have the payment dates in our records yet.", true},
		{"This is not in our knowledge base. Could you provide it?", true},
		{"I don't have the exact closing date.", true},
		{"Happy to help with anything else.", false},
	}
	for _, tc := range cases {
		if got := HasMissingInfoSignal(tc.answer); got != tc.want {
			t.Errorf("HasMissingInfoSignal(%q) = %v, want %v", tc.answer, got, tc.want)
		}
	}
}
