package model

// Board is a point-in-time capture of one upstream board. It is immutable
// once fetched; the repository owns persisted copies.
type Board struct {
	Name   string  `json:"name"`
	Groups []Group `json:"groups"`
}

// Group is a category (e.g. a project) within a board
type Group struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Item is a unit of work within a group
type Item struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Subitems []Subitem `json:"subitems"`
}

// Subitem is a child record under an item. Its Name is treated as a person
// identifier: all subitems sharing the same name across the board are
// assumed to be the same person. The upstream API exposes no stable person
// ID through this query, so two real people with the same display name
// would be merged.
type Subitem struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ColumnValues []ColumnValue `json:"column_values"`
}

// ColumnValue is a single column cell on a subitem. Text is free-form;
// for month columns it is parsed as a decimal number of hours and parse
// failures count as zero.
type ColumnValue struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}
