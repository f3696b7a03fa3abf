package config

import (
	"strings"
	"testing"
)

func TestFactPatternsWellFormed(t *testing.T) {
	if len(FactPatterns) == 0 {
		t.Fatal("no fact patterns defined")
	}
	for i, p := range FactPatterns {
		if len(p.TopicKeywords) == 0 {
			t.Errorf("pattern %d has no topic keywords", i)
		}
		if len(p.AnswerSignals) == 0 {
			t.Errorf("pattern %d has no answer signals", i)
		}
		if !strings.Contains(p.QuestionTemplate, "{deal_name}") {
			t.Errorf("pattern %d template %q lacks {deal_name}", i, p.QuestionTemplate)
		}
		for _, kw := range p.TopicKeywords {
			if kw != strings.ToLower(kw) {
				t.Errorf("pattern %d topic keyword %q is not lowercase", i, kw)
			}
		}
		for _, sig := range p.AnswerSignals {
			if sig != strings.ToLower(sig) {
				t.Errorf("pattern %d answer signal %q is not lowercase", i, sig)
			}
		}
	}
}

func TestKeyMappingsWellFormed(t *testing.T) {
	if len(KeyMappings) == 0 {
		t.Fatal("no key mappings defined")
	}
	for i, m := range KeyMappings {
		if m.Key == "" || len(m.Phrases) == 0 {
			t.Errorf("mapping %d incomplete: %+v", i, m)
		}
		if m.Key != strings.ToLower(m.Key) || strings.Contains(m.Key, " ") {
			t.Errorf("mapping %d key %q is not snake_case", i, m.Key)
		}
		for _, phrase := range m.Phrases {
			if phrase != strings.ToLower(phrase) {
				t.Errorf("mapping %d phrase %q is not lowercase", i, phrase)
			}
		}
	}
}
