// Copyright (c) 2026 Confero. All rights reserved.

/*
Package review manages peer-review feedback attached to articles.

A review carries a quality rating and a reviewer self-assessed relevance, both
on a 1..5 scale with named levels, plus free-text description and comment.
Reviews are append-only: they are never updated or deleted once posted.
*/
package review

import "time"

// # Scales

// Rating grades the reviewed article's quality on a 1..5 scale.
type Rating int

// Article quality levels, from worst to best.
const (
	RatingTerrible  Rating = 1
	RatingBad       Rating = 2
	RatingAdequate  Rating = 3
	RatingGood      Rating = 4
	RatingExcellent Rating = 5
)

// ratingLabels maps each quality level to its display name.
var ratingLabels = map[Rating]string{
	RatingTerrible:  "terrible",
	RatingBad:       "bad",
	RatingAdequate:  "adequate",
	RatingGood:      "good",
	RatingExcellent: "excellent",
}

// Valid reports whether the rating is within the 1..5 scale.
func (rating Rating) Valid() bool {
	_, ok := ratingLabels[rating]
	return ok
}

// Label returns the display name of the quality level, or "" when invalid.
func (rating Rating) Label() string {
	return ratingLabels[rating]
}

// Relevance grades the reviewer's self-assessed expertise on the article's
// subject, on a 1..5 scale.
type Relevance int

// Reviewer expertise levels, from least to most confident.
const (
	RelevanceNovice       Relevance = 1
	RelevanceSuperficial  Relevance = 2
	RelevanceIntermediate Relevance = 3
	RelevanceConfident    Relevance = 4
	RelevanceExpert       Relevance = 5
)

// relevanceLabels maps each expertise level to its display name.
var relevanceLabels = map[Relevance]string{
	RelevanceNovice:       "novice",
	RelevanceSuperficial:  "superficial",
	RelevanceIntermediate: "intermediate",
	RelevanceConfident:    "confident",
	RelevanceExpert:       "expert",
}

// Valid reports whether the relevance is within the 1..5 scale.
func (relevance Relevance) Valid() bool {
	_, ok := relevanceLabels[relevance]
	return ok
}

// Label returns the display name of the expertise level, or "" when invalid.
func (relevance Relevance) Label() string {
	return relevanceLabels[relevance]
}

// # Entity

// Review is feedback posted against one article by another user. The owning
// publication ID and the article's author ID are denormalized at write time
// so reads and eligibility checks need no joins.
type Review struct {
	ID              string    `json:"id"`
	ArticleID       string    `json:"article_id"`
	PublicationID   string    `json:"publication_id"`
	ArticleAuthorID string    `json:"article_author_id"`
	ReviewAuthorID  string    `json:"review_author_id"`
	Rating          Rating    `json:"rating"`
	Description     string    `json:"description"`
	Relevance       Relevance `json:"relevance"`
	Comment         string    `json:"comment"`
	CreatedAt       time.Time `json:"created_at"`
}

// RatingLabel returns the display name of the review's quality level.
func (review *Review) RatingLabel() string {
	return review.Rating.Label()
}

// RelevanceLabel returns the display name of the review's expertise level.
func (review *Review) RelevanceLabel() string {
	return review.Relevance.Label()
}

// # Field Identifiers

// Global field names for validation in the review domain.
const (
	FieldRating      = "rating"
	FieldDescription = "description"
	FieldRelevance   = "relevance"
	FieldComment     = "comment"
)
