package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agent-kb/internal/models"
	"agent-kb/internal/repository"

	"go.uber.org/zap"
)

// ErrBusinessNotResolved means the caller's token did not identify a business.
var ErrBusinessNotResolved = errors.New("business not resolved for caller")

type KnowledgeStore interface {
	FindByBusinessID(ctx context.Context, businessID string) (*models.KnowledgeBaseRow, error)
	Upsert(ctx context.Context, row *models.KnowledgeBaseRow) (*models.KnowledgeBaseRow, error)
}

type KnowledgeCache interface {
	Get(ctx context.Context, businessID string) (*models.KnowledgeBase, error)
	Set(ctx context.Context, kb *models.KnowledgeBase) error
	Delete(ctx context.Context, businessID string) error
}

type KnowledgeService struct {
	store  KnowledgeStore
	cache  KnowledgeCache
	now    func() time.Time
	logger *zap.Logger
}

// NewKnowledgeService wires the store and an optional cache (nil disables it).
func NewKnowledgeService(store KnowledgeStore, cache KnowledgeCache, logger *zap.Logger) *KnowledgeService {
	return &KnowledgeService{
		store:  store,
		cache:  cache,
		now:    time.Now,
		logger: logger,
	}
}

// LoadOrDefault returns the business's knowledge base with a freshly compiled
// rawText. A business that never saved gets an empty in-memory record; nothing
// is written in that case.
func (s *KnowledgeService) LoadOrDefault(ctx context.Context, businessID string) (*models.KnowledgeBase, error) {
	if businessID == "" {
		return nil, ErrBusinessNotResolved
	}

	if kb := s.cached(ctx, businessID); kb != nil {
		kb.RawText = CompileRawText(kb.Title, kb.Sections.Builtins, kb.Sections.Customs)
		return kb, nil
	}

	row, err := s.store.FindByBusinessID(ctx, businessID)
	if errors.Is(err, repository.ErrKnowledgeBaseNotFound) {
		return s.defaultKnowledgeBase(businessID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}

	kb := s.fromRow(row)
	kb.RawText = CompileRawText(kb.Title, kb.Sections.Builtins, kb.Sections.Customs)

	s.remember(ctx, kb)
	return kb, nil
}

// Save normalizes the submitted title and sections, compiles them and upserts
// the result in one statement. The returned record is what the store holds.
func (s *KnowledgeService) Save(ctx context.Context, businessID string, title any, sections any) (*models.KnowledgeBase, error) {
	if businessID == "" {
		return nil, ErrBusinessNotResolved
	}

	normalizedTitle := NormalizeTitle(title)
	normalized := NormalizeSections(sections)
	rawText := CompileRawText(normalizedTitle, normalized.Builtins, normalized.Customs)

	encoded, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("encode sections: %w", err)
	}

	now := s.now()
	stored, err := s.store.Upsert(ctx, &models.KnowledgeBaseRow{
		BusinessID: businessID,
		Title:      normalizedTitle,
		Sections:   encoded,
		RawText:    rawText,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("save knowledge base: %w", err)
	}

	kb := s.fromRow(stored)

	s.logger.Info("Knowledge base saved",
		zap.String("business_id", businessID),
		zap.Int("custom_sections", len(kb.Sections.Customs)),
		zap.Int("raw_text_bytes", len(kb.RawText)),
	)

	// Saves may finish out of order; the next read repopulates from the store.
	s.forget(ctx, businessID)
	return kb, nil
}

func (s *KnowledgeService) defaultKnowledgeBase(businessID string) *models.KnowledgeBase {
	now := s.now()
	return &models.KnowledgeBase{
		BusinessID: businessID,
		Title:      models.DefaultKnowledgeBaseTitle,
		Sections:   models.NewKnowledgeBaseSections(),
		RawText:    "",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// fromRow turns a stored row into a record. Rows without a structured value
// are legacy rows and get their sections parsed from raw_text.
func (s *KnowledgeService) fromRow(row *models.KnowledgeBaseRow) *models.KnowledgeBase {
	kb := &models.KnowledgeBase{
		BusinessID: row.BusinessID,
		Title:      NormalizeTitle(row.Title),
		RawText:    row.RawText,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}

	sections, ok := decodeStoredSections(row.Sections)
	if !ok {
		if len(row.Sections) > 0 {
			s.logger.Warn("Stored sections unreadable, parsing raw text",
				zap.String("business_id", row.BusinessID),
			)
		}
		kb.Sections = ParseRawText(row.RawText)
		return kb
	}

	kb.Sections = NormalizeSections(sections)
	return kb
}

func decodeStoredSections(data []byte) (any, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, false
	}
	var sections any
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, false
	}
	if _, ok := sections.(map[string]any); !ok {
		return nil, false
	}
	return sections, true
}

func (s *KnowledgeService) cached(ctx context.Context, businessID string) *models.KnowledgeBase {
	if s.cache == nil {
		return nil
	}
	kb, err := s.cache.Get(ctx, businessID)
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn("Knowledge base cache read failed", zap.String("business_id", businessID), zap.Error(err))
		}
		return nil
	}
	return kb
}

func (s *KnowledgeService) remember(ctx context.Context, kb *models.KnowledgeBase) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, kb); err != nil {
		s.logger.Warn("Knowledge base cache write failed", zap.String("business_id", kb.BusinessID), zap.Error(err))
	}
}

func (s *KnowledgeService) forget(ctx context.Context, businessID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, businessID); err != nil {
		s.logger.Warn("Knowledge base cache eviction failed", zap.String("business_id", businessID), zap.Error(err))
	}
}
