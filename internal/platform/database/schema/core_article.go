package schema

// ArticleTable represents the 'core.article' table
type ArticleTable struct {
	Table          string
	ID             string
	PublicationID  string
	Title          string
	Description    string
	CharacterCount string
	AuthorID       string
	CreatedAt      string
}

// Article is the schema definition for core.article
var Article = ArticleTable{
	Table:          "core.article",
	ID:             "id",
	PublicationID:  "publicationid",
	Title:          "title",
	Description:    "description",
	CharacterCount: "charactercount",
	AuthorID:       "authorid",
	CreatedAt:      "createdat",
}

// Columns returns all standard column names
func (t ArticleTable) Columns() []string {
	return []string{
		t.ID, t.PublicationID, t.Title, t.Description,
		t.CharacterCount, t.AuthorID, t.CreatedAt,
	}
}
