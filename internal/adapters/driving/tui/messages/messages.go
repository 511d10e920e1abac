// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/ragline/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the grounded question-answering view.
	ViewChat
	// ViewRetrieve shows raw retrieval hits for a query.
	ViewRetrieve
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewRetrieve:
		return "retrieve"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// AnswerCompleted carries the answer for one question.
type AnswerCompleted struct {
	Question string
	Envelope *domain.AnswerEnvelope
	Err      error
}

// RetrieveCompleted carries the hits for one query.
type RetrieveCompleted struct {
	Query string
	Hits  []domain.RetrievalHit
	Err   error
}

// IndexRequested asks the app to run an index pass.
type IndexRequested struct{}

// IndexCompleted carries the result of an index run.
type IndexCompleted struct {
	Stats *domain.IndexStats
	Err   error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
