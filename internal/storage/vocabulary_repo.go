package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vocabulary_store.go -package=mocks aprende/internal/storage VocabularyStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// batchSize caps the rows sent in one multi-row INSERT.
const batchSize = 100

// VocabularyStore defines the interface for vocabulary storage operations.
type VocabularyStore interface {
	// List returns items matching the filter. The zero filter returns every row in creation order.
	List(ctx context.Context, filter VocabularyFilter) ([]VocabularyItem, error)
	// GetByID returns ErrNotFound if the id does not exist.
	GetByID(ctx context.Context, id string) (*VocabularyItem, error)
	// Create inserts a single item.
	Create(ctx context.Context, item *VocabularyItem) error
	// CreateBatch inserts all items in one transaction, or none of them.
	CreateBatch(ctx context.Context, items []VocabularyItem) error
	// FindBySpanish returns rows whose normalized spanish is in the given set.
	FindBySpanish(ctx context.Context, normalized []string) ([]VocabularyItem, error)
	// MarkReviewed sets last_reviewed and updated_at and returns the updated row.
	MarkReviewed(ctx context.Context, id string, at time.Time) (*VocabularyItem, error)
	// Delete removes a row. Returns ErrNotFound if the id does not exist.
	Delete(ctx context.Context, id string) error
}

var vocabularyColumns = []string{
	"id", "spanish", "spanish_normalized", "chinese", "example", "notes",
	"word_type", "tags", "theme", "difficulty", "created_at", "last_reviewed", "updated_at",
}

var vocabularySortColumns = map[string]string{
	SortByCreatedAt:    "created_at",
	SortBySpanish:      "spanish_normalized",
	SortByChinese:      "chinese",
	SortByLastReviewed: "last_reviewed",
}

// VocabularyRepo provides methods for vocabulary operations.
// It implements the VocabularyStore interface.
type VocabularyRepo struct {
	db *DB
}

// NewVocabularyRepo creates a new VocabularyRepo.
func NewVocabularyRepo(db *DB) *VocabularyRepo {
	return &VocabularyRepo{db: db}
}

// List returns items matching the filter.
func (r *VocabularyRepo) List(ctx context.Context, filter VocabularyFilter) ([]VocabularyItem, error) {
	query := r.db.builder.Select(vocabularyColumns...).From("vocabulary_items")

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(sq.Or{
			sq.Expr(`spanish_normalized LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`LOWER(chinese) LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`LOWER(example) LIKE ? ESCAPE '\'`, pattern),
		})
	}

	column, ok := vocabularySortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		direction = "DESC"
	}
	order := []string{column + " " + direction}
	if column != "created_at" {
		order = append(order, "created_at "+direction)
	}
	order = append(order, r.db.insertionOrder()+" "+direction)
	query = query.OrderBy(order...)

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			// SQLite rejects OFFSET without LIMIT.
			query = query.Limit(uint64(1<<62 - 1))
		}
		query = query.Offset(uint64(filter.Offset))
	}

	return r.query(ctx, query)
}

// GetByID returns the item with the given id.
func (r *VocabularyRepo) GetByID(ctx context.Context, id string) (*VocabularyItem, error) {
	query := r.db.builder.Select(vocabularyColumns...).
		From("vocabulary_items").
		Where(sq.Eq{"id": id})

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	item, err := scanVocabulary(r.db.q(ctx).QueryRowContext(ctx, stmt, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query vocabulary item: %w", err)
	}
	return item, nil
}

// Create inserts a single item.
func (r *VocabularyRepo) Create(ctx context.Context, item *VocabularyItem) error {
	if item == nil {
		return errors.New("vocabulary item is required")
	}
	return r.insert(ctx, []VocabularyItem{*item})
}

// CreateBatch inserts all items in one transaction.
func (r *VocabularyRepo) CreateBatch(ctx context.Context, items []VocabularyItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.RunInTx(ctx, func(ctx context.Context) error {
		for start := 0; start < len(items); start += batchSize {
			end := min(start+batchSize, len(items))
			if err := r.insert(ctx, items[start:end]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *VocabularyRepo) insert(ctx context.Context, items []VocabularyItem) error {
	query := r.db.builder.Insert("vocabulary_items").Columns(vocabularyColumns...)
	for i := range items {
		it := &items[i]
		tags, err := encodeTags(it.Tags)
		if err != nil {
			return err
		}
		query = query.Values(
			it.ID, it.Spanish, it.SpanishNormalized, it.Chinese, it.Example, it.Notes,
			it.WordType, tags, it.Theme, it.Difficulty,
			it.CreatedAt.UTC(), it.LastReviewed.UTC(), it.UpdatedAt.UTC(),
		)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}
	if _, err := r.db.q(ctx).ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to insert vocabulary items: %w", err)
	}
	return nil
}

// FindBySpanish returns rows whose spanish_normalized is one of normalized.
func (r *VocabularyRepo) FindBySpanish(ctx context.Context, normalized []string) ([]VocabularyItem, error) {
	if len(normalized) == 0 {
		return []VocabularyItem{}, nil
	}
	query := r.db.builder.Select(vocabularyColumns...).
		From("vocabulary_items").
		Where(sq.Eq{"spanish_normalized": normalized}).
		OrderBy("created_at ASC")
	return r.query(ctx, query)
}

func (r *VocabularyRepo) MarkReviewed(ctx context.Context, id string, at time.Time) (*VocabularyItem, error) {
	at = at.UTC()
	stmt, args, err := r.db.builder.Update("vocabulary_items").
		Set("last_reviewed", at).
		Set("updated_at", at).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update: %w", err)
	}

	var item *VocabularyItem
	err = r.db.RunInTx(ctx, func(ctx context.Context) error {
		result, err := r.db.q(ctx).ExecContext(ctx, stmt, args...)
		if err != nil {
			return fmt.Errorf("failed to mark vocabulary item reviewed: %w", err)
		}
		if affected, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		} else if affected == 0 {
			return ErrNotFound
		}
		item, err = r.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the row with the given id.
func (r *VocabularyRepo) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.db.builder.Delete("vocabulary_items").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	result, err := r.db.q(ctx).ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("failed to delete vocabulary item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *VocabularyRepo) query(ctx context.Context, query sq.SelectBuilder) ([]VocabularyItem, error) {
	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.q(ctx).QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vocabulary: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	items := []VocabularyItem{}
	for rows.Next() {
		item, err := scanVocabulary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vocabulary item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vocabulary: %w", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVocabulary(row rowScanner) (*VocabularyItem, error) {
	var item VocabularyItem
	var tags string
	err := row.Scan(
		&item.ID, &item.Spanish, &item.SpanishNormalized, &item.Chinese, &item.Example, &item.Notes,
		&item.WordType, &tags, &item.Theme, &item.Difficulty,
		&item.CreatedAt, &item.LastReviewed, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if item.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	item.CreatedAt = item.CreatedAt.UTC()
	item.LastReviewed = item.LastReviewed.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
	return &item, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(b), nil
}

func decodeTags(raw string) ([]string, error) {
	tags := []string{}
	if strings.TrimSpace(raw) == "" {
		return tags, nil
	}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return tags, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
