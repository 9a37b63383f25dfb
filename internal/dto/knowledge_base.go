package dto

import (
	"time"

	"agent-kb/internal/models"
)

// SaveKnowledgeBaseRequest is decoded loosely on purpose: every field may be
// missing or of the wrong type and is normalized by the service.
type SaveKnowledgeBaseRequest struct {
	Title    any `json:"title"`
	Sections any `json:"sections"`
}

type CustomSectionResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type SectionsResponse struct {
	Builtins map[string]string       `json:"builtins"`
	Customs  []CustomSectionResponse `json:"customs"`
}

type KnowledgeBaseResponse struct {
	BusinessID string           `json:"businessId"`
	Title      string           `json:"title"`
	Sections   SectionsResponse `json:"sections"`
	RawText    string           `json:"rawText"`
	CreatedAt  string           `json:"createdAt"`
	UpdatedAt  string           `json:"updatedAt"`
}

func NewKnowledgeBaseResponse(kb *models.KnowledgeBase) KnowledgeBaseResponse {
	builtins := make(map[string]string, len(models.BuiltinKeys()))
	for _, key := range models.BuiltinKeys() {
		builtins[string(key)] = kb.Sections.Builtins[key]
	}

	customs := make([]CustomSectionResponse, 0, len(kb.Sections.Customs))
	for _, section := range kb.Sections.Customs {
		customs = append(customs, CustomSectionResponse{
			ID:      section.ID,
			Title:   section.Title,
			Content: section.Content,
		})
	}

	return KnowledgeBaseResponse{
		BusinessID: kb.BusinessID,
		Title:      kb.Title,
		Sections: SectionsResponse{
			Builtins: builtins,
			Customs:  customs,
		},
		RawText:   kb.RawText,
		CreatedAt: kb.CreatedAt.Format(time.RFC3339),
		UpdatedAt: kb.UpdatedAt.Format(time.RFC3339),
	}
}
