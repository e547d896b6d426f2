package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Fallback reply used when the model's answer cannot be used.
const (
	fallbackTranslation = "对不起，系统暂时无法处理您的请求。"
	fallbackExplanation = "系统错误，请稍后再试。"
)

// DetectedWord is one vocabulary entry suggested by the tutor.
type DetectedWord struct {
	Word               string `json:"word"`
	Translation        string `json:"translation"`
	UsageType          string `json:"usage_type"`
	Explanation        string `json:"explanation"`
	Example            string `json:"example"`
	ExampleTranslation string `json:"example_translation"`
	GrammarNotes       string `json:"grammar_notes"`
}

// tutorReply is the JSON object the tutor prompt asks for.
type tutorReply struct {
	InputLanguage string         `json:"input_language"`
	Translation   string         `json:"translation"`
	Explanation   string         `json:"explanation"`
	Vocabulary    []DetectedWord `json:"vocabulary"`
}

func fallbackReply() tutorReply {
	return tutorReply{
		InputLanguage: "chinese",
		Translation:   fallbackTranslation,
		Explanation:   fallbackExplanation,
		Vocabulary:    []DetectedWord{},
	}
}

// parseTutorReply extracts and validates the reply object.
// A Markdown code fence around the object is tolerated.
func parseTutorReply(raw string) (tutorReply, error) {
	text := stripCodeFence(strings.TrimSpace(raw))
	if text == "" {
		return tutorReply{}, errors.New("empty reply")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return tutorReply{}, errors.New("no JSON object found in reply")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text[start:end+1]), &fields); err != nil {
		return tutorReply{}, fmt.Errorf("decode reply: %w", err)
	}

	vocab, ok := fields["vocabulary"]
	if !ok || !strings.HasPrefix(strings.TrimSpace(string(vocab)), "[") {
		return tutorReply{}, errors.New("missing vocabulary array")
	}

	var reply tutorReply
	if err := json.Unmarshal([]byte(text[start:end+1]), &reply); err != nil {
		return tutorReply{}, fmt.Errorf("decode reply: %w", err)
	}

	if strings.TrimSpace(reply.InputLanguage) == "" {
		return tutorReply{}, errors.New("missing input_language")
	}
	if strings.TrimSpace(reply.Translation) == "" {
		return tutorReply{}, errors.New("missing translation")
	}
	for i, item := range reply.Vocabulary {
		if strings.TrimSpace(item.Word) == "" || strings.TrimSpace(item.Translation) == "" {
			return tutorReply{}, fmt.Errorf("vocabulary item %d is missing word or translation", i)
		}
	}
	if reply.Vocabulary == nil {
		reply.Vocabulary = []DetectedWord{}
	}

	return reply, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the info string, e.g. ```json
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func containsHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// anyChinese reports whether at least one item carries Chinese text in its translation or explanation.
func anyChinese(words []DetectedWord) bool {
	for _, w := range words {
		if containsHan(w.Translation) || containsHan(w.Explanation) {
			return true
		}
	}
	return false
}
