// Copyright (c) 2026 Confero. All rights reserved.

/*
Package publication manages the lifecycle of peer-reviewed publications.

A publication is a call for articles with three milestone dates that divide
its life into four phases: open for submissions, under review, final
manuscript submission, and closed. The phase is never stored; it is derived
from the milestone dates on every read so no background job is needed to
advance it.

# Core Responsibility

  - Status: Derives the current workflow phase from the milestone dates.
  - Visibility: Scopes the publication list to what the viewer's role allows.
  - Live reads: Streams fresh snapshots to watchers whenever a publication changes.
*/
package publication

import "time"

// # Workflow Status

// Status is the derived workflow phase of a publication.
type Status string

const (
	// StatusOpen accepts new article submissions.
	StatusOpen Status = "OPEN"

	// StatusInReview is the window in which assigned reviewers write reviews.
	StatusInReview Status = "IN_REVIEW"

	// StatusFinalSubmit accepts final manuscripts after review.
	StatusFinalSubmit Status = "FINAL_SUBMIT"

	// StatusClosed accepts nothing further.
	StatusClosed Status = "CLOSED"
)

// DeriveStatus computes the workflow phase at the given instant.
//
// The intervals are half-open: each milestone date belongs to the phase it
// starts. For fixed ordered dates the result is monotonic in now; equal
// adjacent dates collapse the phase between them to zero length.
func DeriveStatus(reviewDate, finalSubmitDate, completionDate, now time.Time) Status {
	switch {
	case now.Before(reviewDate):
		return StatusOpen
	case now.Before(finalSubmitDate):
		return StatusInReview
	case now.Before(completionDate):
		return StatusFinalSubmit
	default:
		return StatusClosed
	}
}

// # Domain Entities

// Publication represents one call for peer-reviewed articles.
type Publication struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description,omitempty"`
	ReviewDate      time.Time `json:"review_date"`
	FinalSubmitDate time.Time `json:"final_submit_date"`
	CompletionDate  time.Time `json:"completion_date"`
	CreatedAt       time.Time `json:"created_at"`

	// Status is derived on read and never persisted.
	Status Status `json:"status"`
}

// StatusAt derives the workflow phase of this publication at the given instant.
func (p *Publication) StatusAt(now time.Time) Status {
	return DeriveStatus(p.ReviewDate, p.FinalSubmitDate, p.CompletionDate, now)
}

// # Field Identifiers

// Global field names for validation in the publication domain.
const (
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldReviewDate      = "review_date"
	FieldFinalSubmitDate = "final_submit_date"
	FieldCompletionDate  = "completion_date"
)
