package schema

// PublicationTable represents the 'core.publication' table
type PublicationTable struct {
	Table           string
	ID              string
	Title           string
	Slug            string
	Description     string
	ReviewDate      string
	FinalSubmitDate string
	CompletionDate  string
	CreatedAt       string
}

// Publication is the schema definition for core.publication
var Publication = PublicationTable{
	Table:           "core.publication",
	ID:              "id",
	Title:           "title",
	Slug:            "slug",
	Description:     "description",
	ReviewDate:      "reviewdate",
	FinalSubmitDate: "finalsubmitdate",
	CompletionDate:  "completiondate",
	CreatedAt:       "createdat",
}

// Columns returns all standard column names
func (t PublicationTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Description, t.ReviewDate,
		t.FinalSubmitDate, t.CompletionDate, t.CreatedAt,
	}
}
