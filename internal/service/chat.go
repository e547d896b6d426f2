package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks aprende/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vocabulary_notifier.go -package=mocks aprende/internal/service VocabularyNotifier
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService aprende/internal/service ChatService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"aprende/internal/contextutil"
	"aprende/internal/llm"
	"aprende/internal/storage"
)

// MaxMessageLength is the longest accepted chat message, in characters.
const MaxMessageLength = 1000

// LLMClient is an interface for interacting with an LLM API.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// Complete sends a completion request and returns the reply text.
	Complete(ctx context.Context, req llm.CompletionRequest) (string, error)
}

// VocabularyNotifier pushes newly added vocabulary to connected clients.
type VocabularyNotifier interface {
	NotifyVocabulary(ctx context.Context, items []storage.VocabularyItem) error
}

// MarkdownRenderer turns message content into HTML.
type MarkdownRenderer interface {
	Render(markdown string) (string, error)
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	Content string
}

// ChatResult is the processed tutor answer for one message.
type ChatResult struct {
	Content            string
	Explanation        string
	InputLanguage      string
	DetectedVocabulary []DetectedWord
}

// SendResult is a completed chat turn.
type SendResult struct {
	Message            storage.ChatMessage `json:"message"`
	Response           storage.ChatMessage `json:"response"`
	DetectedVocabulary []DetectedWord      `json:"detectedVocabulary"`
}

// ChatService provides chat functionality.
type ChatService interface {
	// SendMessage validates and stores the user message, asks the tutor and stores its answer.
	SendMessage(ctx context.Context, req ChatRequest) (SendResult, error)
	// ProcessMessage asks the tutor about one message and records new vocabulary.
	ProcessMessage(ctx context.Context, req ChatRequest) (ChatResult, error)
	// ListMessages returns the conversation in timestamp order, optionally with rendered HTML.
	ListMessages(ctx context.Context, withHTML bool) ([]storage.ChatMessage, error)
}

// chatService implements ChatService.
type chatService struct {
	llmClient  LLMClient
	vocabulary storage.VocabularyStore
	messages   storage.MessageStore
	notifier   VocabularyNotifier
	renderer   MarkdownRenderer
	now        func() time.Time
}

// NewChatService creates a new ChatService.
// notifier and renderer may be nil.
func NewChatService(
	llmClient LLMClient,
	vocabulary storage.VocabularyStore,
	messages storage.MessageStore,
	notifier VocabularyNotifier,
	renderer MarkdownRenderer,
) ChatService {
	return &chatService{
		llmClient:  llmClient,
		vocabulary: vocabulary,
		messages:   messages,
		notifier:   notifier,
		renderer:   renderer,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// validateContent rejects messages before anything is stored or sent.
func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "content", Message: "cannot be empty"}
	}
	if !utf8.ValidString(content) || strings.ContainsRune(content, 0) {
		return &ValidationError{Field: "content", Message: "contains invalid characters"}
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return ContentTooLong()
	}
	return nil
}

// ContentTooLong is the validation error for messages over MaxMessageLength.
func ContentTooLong() *ValidationError {
	return &ValidationError{Field: "content", Message: fmt.Sprintf("is too long (max %d characters)", MaxMessageLength)}
}

// SendMessage runs one chat turn.
func (s *chatService) SendMessage(ctx context.Context, req ChatRequest) (SendResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateContent(req.Content); err != nil {
		logger.WarnContext(ctx, "rejected chat message", "error", err)
		return SendResult{}, err
	}

	userMsg := storage.ChatMessage{
		ID:        uuid.NewString(),
		Content:   req.Content,
		Role:      storage.RoleUser,
		Timestamp: s.now(),
	}
	if err := s.messages.Create(ctx, &userMsg); err != nil {
		logger.ErrorContext(ctx, "failed to save user message", "error", err)
		return SendResult{}, WrapError(err, "failed to save user message")
	}

	result, err := s.ProcessMessage(ctx, req)
	if err != nil {
		return SendResult{}, err
	}

	assistantMsg := storage.ChatMessage{
		ID:        uuid.NewString(),
		Content:   result.Content,
		Role:      storage.RoleAssistant,
		Timestamp: s.now(),
	}
	if !assistantMsg.Timestamp.After(userMsg.Timestamp) {
		assistantMsg.Timestamp = userMsg.Timestamp.Add(time.Microsecond)
	}
	if err := s.messages.Create(ctx, &assistantMsg); err != nil {
		logger.ErrorContext(ctx, "failed to save assistant message", "error", err)
		return SendResult{}, WrapError(err, "failed to save assistant message")
	}

	return SendResult{
		Message:            userMsg,
		Response:           assistantMsg,
		DetectedVocabulary: result.DetectedVocabulary,
	}, nil
}

// ProcessMessage asks the tutor about one message.
// Unusable replies degrade to a fixed apology. Transport and store read failures return ErrGenerateResponse.
func (s *chatService) ProcessMessage(ctx context.Context, req ChatRequest) (ChatResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateContent(req.Content); err != nil {
		logger.WarnContext(ctx, "rejected chat message", "error", err)
		return ChatResult{}, err
	}

	reply, err := s.askTutor(ctx, logger, req.Content)
	if err != nil {
		return ChatResult{}, err
	}

	detected, existing, err := s.splitNew(ctx, reply.Vocabulary)
	if err != nil {
		logger.ErrorContext(ctx, "failed to look up existing vocabulary", "error", err)
		return ChatResult{}, fmt.Errorf("%w: %w", ErrGenerateResponse, err)
	}

	if len(detected) > 0 {
		s.saveVocabulary(ctx, logger, detected)
	}

	logger.InfoContext(ctx, "chat message processed",
		"input_length", utf8.RuneCountInString(req.Content),
		"input_language", reply.InputLanguage,
		"translation_length", utf8.RuneCountInString(reply.Translation),
		"has_explanation", reply.Explanation != "",
		"total_vocabulary", len(reply.Vocabulary),
		"new_vocabulary", len(detected),
		"existing_vocabulary", existing,
	)

	content := reply.Translation
	if reply.Explanation != "" {
		content += "\n\n" + reply.Explanation
	}

	return ChatResult{
		Content:            content,
		Explanation:        reply.Explanation,
		InputLanguage:      reply.InputLanguage,
		DetectedVocabulary: detected,
	}, nil
}

func (s *chatService) askTutor(ctx context.Context, logger *slog.Logger, content string) (tutorReply, error) {
	raw, err := s.llmClient.Complete(ctx, tutorRequest(content))
	if errors.Is(err, llm.ErrNoChoices) {
		logger.WarnContext(ctx, "empty LLM reply, using fallback")
		return fallbackReply(), nil
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return tutorReply{}, fmt.Errorf("%w: %w", ErrGenerateResponse, err)
	}

	reply, err := parseTutorReply(raw)
	if err != nil {
		logger.WarnContext(ctx, "unusable LLM reply, using fallback", "error", err, "reply_length", len(raw))
		return fallbackReply(), nil
	}

	if len(reply.Vocabulary) > 0 && !anyChinese(reply.Vocabulary) {
		logger.WarnContext(ctx, "no Chinese characters found in vocabulary translations")
	}
	return reply, nil
}

// splitNew drops words already stored and repeats within the reply.
// It returns the new words and how many were dropped.
func (s *chatService) splitNew(ctx context.Context, words []DetectedWord) ([]DetectedWord, int, error) {
	if len(words) == 0 {
		return []DetectedWord{}, 0, nil
	}

	keys := make([]string, 0, len(words))
	unique := make([]DetectedWord, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		key := NormalizeWord(w.Word)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
		unique = append(unique, w)
	}

	stored, err := s.vocabulary.FindBySpanish(ctx, keys)
	if err != nil {
		return nil, 0, err
	}
	known := make(map[string]struct{}, len(stored))
	for _, item := range stored {
		known[item.SpanishNormalized] = struct{}{}
	}

	fresh := make([]DetectedWord, 0, len(unique))
	for _, w := range unique {
		if _, ok := known[NormalizeWord(w.Word)]; ok {
			continue
		}
		fresh = append(fresh, w)
	}
	return fresh, len(words) - len(fresh), nil
}

// saveVocabulary inserts the new words and notifies listeners.
// Failures are logged; the chat turn still succeeds.
func (s *chatService) saveVocabulary(ctx context.Context, logger *slog.Logger, words []DetectedWord) {
	now := s.now()
	items := make([]storage.VocabularyItem, 0, len(words))
	for _, w := range words {
		items = append(items, storage.VocabularyItem{
			ID:                uuid.NewString(),
			Spanish:           w.Word,
			SpanishNormalized: NormalizeWord(w.Word),
			Chinese:           w.Translation,
			Example:           w.Example,
			Notes:             vocabularyNotes(w),
			WordType:          storage.DefaultWordType,
			Tags:              []string{},
			Difficulty:        storage.DefaultDifficulty,
			CreatedAt:         now,
			LastReviewed:      now,
			UpdatedAt:         now,
		})
	}

	if err := s.vocabulary.CreateBatch(ctx, items); err != nil {
		logger.ErrorContext(ctx, "failed to add vocabulary items", "error", err, "count", len(items))
		return
	}

	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyVocabulary(ctx, items); err != nil {
		logger.WarnContext(ctx, "failed to broadcast vocabulary update", "error", err)
	}
}

func vocabularyNotes(w DetectedWord) string {
	return w.Explanation + "\n\n用法：" + w.UsageType + "\n语法：" + w.GrammarNotes
}

// ListMessages returns the conversation in timestamp order.
func (s *chatService) ListMessages(ctx context.Context, withHTML bool) ([]storage.ChatMessage, error) {
	messages, err := s.messages.List(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list chat messages", "error", err)
		return nil, WrapError(err, "failed to list chat messages")
	}

	if !withHTML || s.renderer == nil {
		return messages, nil
	}

	for i := range messages {
		html, err := s.renderer.Render(messages[i].Content)
		if err != nil {
			return nil, WrapError(err, "failed to render chat message")
		}
		messages[i].HTML = html
	}
	return messages, nil
}
