package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vocabulary_service.go -package=mocks -mock_names=VocabularyService=MockVocabularyService aprende/internal/service VocabularyService

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"aprende/internal/contextutil"
	"aprende/internal/storage"
)

var difficulties = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
}

var sortKeys = map[string]bool{
	storage.SortByCreatedAt:    true,
	storage.SortBySpanish:      true,
	storage.SortByChinese:      true,
	storage.SortByLastReviewed: true,
}

// AddVocabularyInput is the body of a manual vocabulary insert.
type AddVocabularyInput struct {
	Spanish    string   `json:"spanish"`
	Chinese    string   `json:"chinese"`
	Example    string   `json:"example"`
	Notes      string   `json:"notes"`
	WordType   string   `json:"wordType"`
	Tags       []string `json:"tags"`
	Theme      string   `json:"theme"`
	Difficulty string   `json:"difficulty"`
}

// VocabularyService manages the vocabulary list.
type VocabularyService interface {
	List(ctx context.Context, filter storage.VocabularyFilter) ([]storage.VocabularyItem, error)
	Add(ctx context.Context, input AddVocabularyInput) (*storage.VocabularyItem, error)
	Delete(ctx context.Context, id string) error
	MarkReviewed(ctx context.Context, id string) (*storage.VocabularyItem, error)
}

type vocabularyService struct {
	store    storage.VocabularyStore
	notifier VocabularyNotifier
	now      func() time.Time
}

// NewVocabularyService creates a new VocabularyService. notifier may be nil.
func NewVocabularyService(store storage.VocabularyStore, notifier VocabularyNotifier) VocabularyService {
	return &vocabularyService{
		store:    store,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List returns vocabulary matching filter.
func (s *vocabularyService) List(ctx context.Context, filter storage.VocabularyFilter) ([]storage.VocabularyItem, error) {
	if filter.SortBy != "" && !sortKeys[filter.SortBy] {
		return nil, &ValidationError{Field: "sortBy", Message: "must be one of createdAt, spanish, chinese, lastReviewed"}
	}
	switch strings.ToLower(filter.SortOrder) {
	case "", "asc", "desc":
	default:
		return nil, &ValidationError{Field: "sortOrder", Message: "must be asc or desc"}
	}
	if filter.Limit < 0 {
		return nil, &ValidationError{Field: "limit", Message: "must not be negative"}
	}
	if filter.Offset < 0 {
		return nil, &ValidationError{Field: "offset", Message: "must not be negative"}
	}
	filter.Search = NormalizeWord(filter.Search)

	items, err := s.store.List(ctx, filter)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list vocabulary", "error", err)
		return nil, WrapError(err, "failed to fetch vocabulary")
	}
	return items, nil
}

// Add validates input, applies defaults and stores the item.
func (s *vocabularyService) Add(ctx context.Context, input AddVocabularyInput) (*storage.VocabularyItem, error) {
	logger := contextutil.LoggerFromContext(ctx)

	spanish := strings.TrimSpace(input.Spanish)
	chinese := strings.TrimSpace(input.Chinese)
	if spanish == "" {
		return nil, &ValidationError{Field: "spanish", Message: "cannot be empty"}
	}
	if chinese == "" {
		return nil, &ValidationError{Field: "chinese", Message: "cannot be empty"}
	}

	difficulty := strings.ToLower(strings.TrimSpace(input.Difficulty))
	if difficulty == "" {
		difficulty = storage.DefaultDifficulty
	}
	if !difficulties[difficulty] {
		return nil, &ValidationError{Field: "difficulty", Message: "must be one of beginner, intermediate, advanced"}
	}

	wordType := strings.TrimSpace(input.WordType)
	if wordType == "" {
		wordType = storage.DefaultWordType
	}

	tags := make([]string, 0, len(input.Tags))
	for _, tag := range input.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	now := s.now()
	item := &storage.VocabularyItem{
		ID:                uuid.NewString(),
		Spanish:           spanish,
		SpanishNormalized: NormalizeWord(spanish),
		Chinese:           chinese,
		Example:           input.Example,
		Notes:             input.Notes,
		WordType:          wordType,
		Tags:              tags,
		Theme:             strings.TrimSpace(input.Theme),
		Difficulty:        difficulty,
		CreatedAt:         now,
		LastReviewed:      now,
		UpdatedAt:         now,
	}

	if err := s.store.Create(ctx, item); err != nil {
		logger.ErrorContext(ctx, "failed to add vocabulary", "error", err)
		return nil, WrapError(err, "failed to add vocabulary")
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyVocabulary(ctx, []storage.VocabularyItem{*item}); err != nil {
			logger.WarnContext(ctx, "failed to broadcast vocabulary update", "error", err)
		}
	}

	logger.InfoContext(ctx, "vocabulary item added", "id", item.ID, "spanish", item.Spanish)
	return item, nil
}

// Delete removes an item.
func (s *vocabularyService) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to delete vocabulary", "error", err, "id", id)
		return WrapError(err, "failed to delete vocabulary")
	}
	return nil
}

// MarkReviewed stamps an item as reviewed now.
func (s *vocabularyService) MarkReviewed(ctx context.Context, id string) (*storage.VocabularyItem, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	item, err := s.store.MarkReviewed(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to mark vocabulary reviewed", "error", err, "id", id)
		return nil, WrapError(err, "failed to mark vocabulary reviewed")
	}
	return item, nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &ValidationError{Field: "id", Message: "must be a valid UUID"}
	}
	return nil
}
