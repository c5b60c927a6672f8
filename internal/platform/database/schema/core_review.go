package schema

// ReviewTable represents the 'core.review' table
type ReviewTable struct {
	Table           string
	ID              string
	ArticleID       string
	PublicationID   string
	ArticleAuthorID string
	ReviewAuthorID  string
	Rating          string
	Description     string
	Relevance       string
	Comment         string
	CreatedAt       string
}

// Review is the schema definition for core.review
var Review = ReviewTable{
	Table:           "core.review",
	ID:              "id",
	ArticleID:       "articleid",
	PublicationID:   "publicationid",
	ArticleAuthorID: "articleauthorid",
	ReviewAuthorID:  "reviewauthorid",
	Rating:          "rating",
	Description:     "description",
	Relevance:       "relevance",
	Comment:         "comment",
	CreatedAt:       "createdat",
}

// Columns returns all standard column names
func (t ReviewTable) Columns() []string {
	return []string{
		t.ID, t.ArticleID, t.PublicationID, t.ArticleAuthorID,
		t.ReviewAuthorID, t.Rating, t.Description, t.Relevance,
		t.Comment, t.CreatedAt,
	}
}
