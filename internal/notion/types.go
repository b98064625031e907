package notion

import "encoding/json"

// Page is one row of a database query. Properties are kept raw and
// decoded per property so that one malformed value cannot fail the
// whole response.
type Page struct {
	Object         string                     `json:"object"`
	ID             string                     `json:"id"`
	CreatedTime    string                     `json:"created_time,omitempty"`
	LastEditedTime string                     `json:"last_edited_time,omitempty"`
	Properties     map[string]json.RawMessage `json:"properties"`
}

// QueryRequest is the body of a database query.
type QueryRequest struct {
	Sorts    []Sort          `json:"sorts,omitempty"`
	Filter   json.RawMessage `json:"filter,omitempty"`
	PageSize int             `json:"page_size,omitempty"`
}

// Sort orders query results by a property or a page timestamp.
type Sort struct {
	Property  string `json:"property,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Direction string `json:"direction"`
}

const (
	SortAscending  = "ascending"
	SortDescending = "descending"
)

// QueryResponse is the first page of a database query.
type QueryResponse struct {
	Object     string  `json:"object"`
	Results    []Page  `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// Database is the metadata of a database.
type Database struct {
	Object     string                     `json:"object"`
	ID         string                     `json:"id"`
	Title      []RichText                 `json:"title"`
	Properties map[string]json.RawMessage `json:"properties"`
}

// PlainTitle joins the title fragments.
func (d Database) PlainTitle() string {
	return joinPlainText(d.Title)
}

// User is the bot or person behind a token.
type User struct {
	Object string `json:"object"`
	ID     string `json:"id"`
	Type   string `json:"type"`
	Name   string `json:"name"`
}

type apiError struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PropertyValue is the decoded value of a page property. Only the field
// named by Type is populated.
type PropertyValue struct {
	ID       string        `json:"id,omitempty"`
	Type     string        `json:"type"`
	Title    []RichText    `json:"title,omitempty"`
	RichText []RichText    `json:"rich_text,omitempty"`
	Number   *float64      `json:"number,omitempty"`
	Select   *SelectOption `json:"select,omitempty"`
	Date     *DateValue    `json:"date,omitempty"`
	People   []Person      `json:"people,omitempty"`
	Relation []Relation    `json:"relation,omitempty"`
	Formula  *Formula      `json:"formula,omitempty"`
	Rollup   *Rollup       `json:"rollup,omitempty"`
}

// Property type names.
const (
	TypeTitle    = "title"
	TypeRichText = "rich_text"
	TypeNumber   = "number"
	TypeSelect   = "select"
	TypeDate     = "date"
	TypePeople   = "people"
	TypeRelation = "relation"
	TypeFormula  = "formula"
	TypeRollup   = "rollup"
)

type RichText struct {
	PlainText string `json:"plain_text"`
}

type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type DateValue struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

type Person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Relation struct {
	ID string `json:"id"`
}

type Formula struct {
	Type    string     `json:"type"`
	String  *string    `json:"string,omitempty"`
	Number  *float64   `json:"number,omitempty"`
	Boolean *bool      `json:"boolean,omitempty"`
	Date    *DateValue `json:"date,omitempty"`
}

type Rollup struct {
	Type     string          `json:"type"`
	Number   *float64        `json:"number,omitempty"`
	Date     *DateValue      `json:"date,omitempty"`
	Array    []PropertyValue `json:"array,omitempty"`
	Function string          `json:"function,omitempty"`
}
