package model

// Row-level entities as stored. Dates are Unix seconds, matching the
// wire format.

type Author struct {
	ID              int64
	UUID            string
	Name            string
	RegisteredDate  int64
	DescriptionText string
	IsDeleted       bool
}

type PublicKey struct {
	ID        int64
	AuthorID  int64
	Algo      string
	PublicKey []byte
}

type Channel struct {
	ID              int64
	UUID            string
	Handle          string
	Name            string
	CreatedDate     int64
	LanguageCode    string
	DescriptionText string
	IsDeleted       bool
}

type Post struct {
	ID        int64
	UUID      string
	ChannelID int64
	IsDeleted bool
}

type Revision struct {
	ID          int64
	UUID        string
	PostID      int64
	AuthorID    int64
	CreatedDate int64
	Title       string
	Text        string
	IsDeleted   bool
}

type MetaPage struct {
	PageName    string
	Title       string
	PageText    string
	UpdatedDate int64
}

// Response shapes. Summaries embed in larger responses; the Info
// structs are returned by the */info endpoints.

type AuthorSummary struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

type AuthorInfo struct {
	UUID            string `json:"uuid"`
	Name            string `json:"name"`
	CreatedDate     int64  `json:"created_date"`
	DescriptionText string `json:"description_text"`
}

type ChannelSummary struct {
	UUID   string `json:"uuid"`
	Handle string `json:"handle"`
	Name   string `json:"name"`
	Lang   string `json:"lang"`
}

type ChannelInfo struct {
	UUID            string `json:"uuid"`
	Handle          string `json:"handle"`
	Name            string `json:"name"`
	CreatedDate     int64  `json:"created_date"`
	Lang            string `json:"lang"`
	DescriptionText string `json:"description_text"`
	DescriptionHTML string `json:"description_html"`
}

// PostSummary is one entry of a post listing: the latest revision of a
// post together with its channel and author.
type PostSummary struct {
	PostUUID     string         `json:"post_uuid"`
	Channel      ChannelSummary `json:"channel"`
	RevisionUUID string         `json:"revision_uuid"`
	RevisionDate int64          `json:"revision_date"`
	Title        string         `json:"title"`
	Author       AuthorSummary  `json:"author"`
}

type PostInfo struct {
	PostUUID     string         `json:"post_uuid"`
	Channel      ChannelSummary `json:"channel"`
	Tags         []string       `json:"tags"`
	RevisionUUID string         `json:"revision_uuid"`
	RevisionDate int64          `json:"revision_date"`
	Title        string         `json:"title"`
	Text         string         `json:"revision_text"`
	Author       AuthorSummary  `json:"author"`
}

type MetaPageSummary struct {
	PageName    string `json:"page_name"`
	Title       string `json:"title"`
	UpdatedDate int64  `json:"updated_date"`
}

type MetaPageInfo struct {
	PageName    string `json:"page_name"`
	Title       string `json:"title"`
	UpdatedDate int64  `json:"updated_date"`
	PageText    string `json:"page_text"`
	PageHTML    string `json:"page_html"`
}

type TagCount struct {
	Name      string `json:"name"`
	PostCount int64  `json:"post_count"`
}
