package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agent-kb/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrKnowledgeBaseNotFound = errors.New("knowledge base not found")

const knowledgeBasesTable = "knowledge_bases"

var knowledgeBaseColumns = []string{"business_id", "title", "sections", "raw_text", "created_at", "updated_at"}

type KnowledgeRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewKnowledgeRepository(db *pgxpool.Pool, logger *zap.Logger) *KnowledgeRepository {
	return &KnowledgeRepository{
		db:     db,
		logger: logger,
	}
}

// FindByBusinessID returns ErrKnowledgeBaseNotFound when the business has
// never saved a knowledge base.
func (r *KnowledgeRepository) FindByBusinessID(ctx context.Context, businessID string) (*models.KnowledgeBaseRow, error) {
	sql, args, err := findByBusinessIDQuery(businessID).ToSql()
	if err != nil {
		return nil, err
	}

	row, err := scanKnowledgeBase(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrKnowledgeBaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find knowledge base: %w", err)
	}
	return row, nil
}

// Upsert writes the row in a single statement. created_at is only taken from
// the row on first insert; the stored row is returned as persisted.
func (r *KnowledgeRepository) Upsert(ctx context.Context, kb *models.KnowledgeBaseRow) (*models.KnowledgeBaseRow, error) {
	sql, args, err := upsertQuery(kb).ToSql()
	if err != nil {
		return nil, err
	}

	row, err := scanKnowledgeBase(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("upsert knowledge base: %w", err)
	}

	r.logger.Debug("Knowledge base upserted",
		zap.String("business_id", row.BusinessID),
		zap.Time("updated_at", row.UpdatedAt),
	)
	return row, nil
}

func findByBusinessIDQuery(businessID string) squirrel.SelectBuilder {
	return squirrel.Select(knowledgeBaseColumns...).
		From(knowledgeBasesTable).
		Where(squirrel.Eq{"business_id": businessID}).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)
}

func upsertQuery(kb *models.KnowledgeBaseRow) squirrel.InsertBuilder {
	return squirrel.Insert(knowledgeBasesTable).
		Columns(knowledgeBaseColumns...).
		Values(kb.BusinessID, kb.Title, kb.Sections, kb.RawText, kb.CreatedAt, kb.UpdatedAt).
		Suffix("ON CONFLICT (business_id) DO UPDATE SET " +
			"title = EXCLUDED.title, sections = EXCLUDED.sections, " +
			"raw_text = EXCLUDED.raw_text, updated_at = EXCLUDED.updated_at").
		Suffix("RETURNING " + strings.Join(knowledgeBaseColumns, ", ")).
		PlaceholderFormat(squirrel.Dollar)
}

func scanKnowledgeBase(row pgx.Row) (*models.KnowledgeBaseRow, error) {
	var kb models.KnowledgeBaseRow
	if err := row.Scan(&kb.BusinessID, &kb.Title, &kb.Sections, &kb.RawText, &kb.CreatedAt, &kb.UpdatedAt); err != nil {
		return nil, err
	}
	return &kb, nil
}
