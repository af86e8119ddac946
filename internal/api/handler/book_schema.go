package handler

import "time"

// --- Request types ---

type bookFileRequest struct {
	Name string `json:"name" validate:"required"`
	Mime string `json:"mime" validate:"required"`
	Data string `json:"data" validate:"required"`
}

type bookRequest struct {
	Type    string           `json:"type"    validate:"required,oneof=incoming outgoing"`
	Title   string           `json:"title"   validate:"required"`
	Number  string           `json:"number"  validate:"required"`
	Date    string           `json:"date"    validate:"required"`
	Entity  string           `json:"entity"  validate:"required"`
	Subject string           `json:"subject" validate:"required"`
	File    *bookFileRequest `json:"file,omitempty"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type bookFileResponse struct {
	Name string `json:"name"`
	Mime string `json:"mime"`
	Data string `json:"data"`
}

type bookResponse struct {
	ID        string            `json:"id"`
	OwnerID   string            `json:"owner_id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Number    string            `json:"number"`
	Date      string            `json:"date"`
	Entity    string            `json:"entity"`
	Subject   string            `json:"subject"`
	File      *bookFileResponse `json:"file,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listBooksResponse struct {
	Data       []bookResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type bookStatsResponse struct {
	Total           int            `json:"total"`
	Incoming        int            `json:"incoming"`
	Outgoing        int            `json:"outgoing"`
	RecentWithFiles []bookResponse `json:"recent_with_files"`
}
