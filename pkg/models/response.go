package models

import "time"

// APIResponse is the generic envelope for every HTTP response
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// PaginationMeta matches what the repositories can answer cheaply
type PaginationMeta struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// NewPaginationMeta builds pagination metadata consistently
func NewPaginationMeta(total, limit, offset int) PaginationMeta {
	return PaginationMeta{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
}

// Quote is the AI-generated daily quote
type Quote struct {
	Text   string `json:"text"`
	Source string `json:"source"` // surah/hadith reference
	Date   string `json:"date"`   // YYYY-MM-DD the quote belongs to
}

// PhotoVerification is the media-verification result for photo missions
type PhotoVerification struct {
	IsRelevant bool   `json:"is_relevant"`
	Reason     string `json:"reason"`
}

// RecitationFeedback is the media-verification result for audio recitation
type RecitationFeedback struct {
	Feedback string `json:"feedback"`
	AudioURL string `json:"audio_url,omitempty"`
}
