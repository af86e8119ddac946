package handler

import (
	"github.com/diwanhq/diwan/internal/core/domain"
	"github.com/diwanhq/diwan/internal/core/ports"
)

func toFileInput(f *bookFileRequest) *ports.FileInput {
	if f == nil {
		return nil
	}
	return &ports.FileInput{Name: f.Name, Mime: f.Mime, Data: f.Data}
}

func toBookResponse(b *domain.Book) bookResponse {
	resp := bookResponse{
		ID:        b.ID,
		OwnerID:   b.OwnerID,
		Type:      string(b.Type),
		Title:     b.Title,
		Number:    b.Number,
		Date:      b.Date,
		Entity:    b.Entity,
		Subject:   b.Subject,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.File != nil {
		resp.File = &bookFileResponse{Name: b.File.Name, Mime: b.File.Mime, Data: b.File.Data}
	}
	return resp
}

func toBookResponses(books []*domain.Book) []bookResponse {
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	return out
}
