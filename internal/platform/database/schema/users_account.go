package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table         string
	ID            string
	Username      string
	Email         string
	Password      string
	Role          string
	IsVerified    string
	IsActive      string
	LastLoginAt   string
	DisplayName   string
	Phone         string
	AvatarURL     string
	Articles      string
	PublicationID string
	ArticleID1    string
	ArticleID2    string
	ArticleID3    string
	CreatedAt     string
	UpdatedAt     string
	DeletedAt     string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:         "users.account",
	ID:            "id",
	Username:      "username",
	Email:         "email",
	Password:      "passwordhash",
	Role:          "role",
	IsVerified:    "isverified",
	IsActive:      "isactive",
	LastLoginAt:   "lastloginat",
	DisplayName:   "displayname",
	Phone:         "phone",
	AvatarURL:     "avatarurl",
	Articles:      "articles",
	PublicationID: "publicationid",
	ArticleID1:    "articleid1",
	ArticleID2:    "articleid2",
	ArticleID3:    "articleid3",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	DeletedAt:     "deletedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Password, t.Role, t.IsVerified,
		t.IsActive, t.LastLoginAt, t.DisplayName, t.Phone, t.AvatarURL,
		t.Articles, t.PublicationID, t.ArticleID1, t.ArticleID2, t.ArticleID3,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
