package models

// App is a collected, normalised record. Field order is the export column
// order.
type App struct {
	Title            string  `json:"title"`
	AppID            string  `json:"appId"`
	Installs         string  `json:"installs"`
	InstallCount     int64   `json:"installCount"`
	ScoreText        string  `json:"scoreText"`
	Ratings          int64   `json:"ratings"`
	Price            float64 `json:"price"`
	Developer        string  `json:"developer"`
	DeveloperEmail   string  `json:"developerEmail"`
	DeveloperWebsite string  `json:"developerWebsite"`
	DeveloperAddress string  `json:"developerAddress"`
	PrivacyPolicy    string  `json:"privacyPolicy"`
	Genre            string  `json:"genre"`
	GenreID          string  `json:"genreId"`
	Category         string  `json:"category"`
	AppURL           string  `json:"appUrl"`
	Updated          string  `json:"updated"`
	Country          string  `json:"country"`
}

// Field is one named cell of a Row
type Field struct {
	Key   string
	Value interface{}
}

// Row is an ordered list of named cells
type Row []Field

// Keys returns the column names in order
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Values returns the cell values in order
func (r Row) Values() []interface{} {
	values := make([]interface{}, len(r))
	for i, f := range r {
		values[i] = f.Value
	}
	return values
}

// Columns lists the export columns of an App in order
var Columns = []string{
	"title", "appId", "installs", "installCount", "scoreText", "ratings",
	"price", "developer", "developerEmail", "developerWebsite",
	"developerAddress", "privacyPolicy", "genre", "genreId", "category",
	"appUrl", "updated", "country",
}

// Row flattens the record into export order
func (a App) Row() Row {
	values := []interface{}{
		a.Title, a.AppID, a.Installs, a.InstallCount, a.ScoreText, a.Ratings,
		a.Price, a.Developer, a.DeveloperEmail, a.DeveloperWebsite,
		a.DeveloperAddress, a.PrivacyPolicy, a.Genre, a.GenreID, a.Category,
		a.AppURL, a.Updated, a.Country,
	}
	row := make(Row, len(Columns))
	for i, key := range Columns {
		row[i] = Field{Key: key, Value: values[i]}
	}
	return row
}

// Rows converts records to rows
func Rows(apps []App) []Row {
	rows := make([]Row, len(apps))
	for i, app := range apps {
		rows[i] = app.Row()
	}
	return rows
}

// SeenSet holds the ids of every record collected so far
type SeenSet map[string]struct{}

// NewSeenSet builds a set from existing records
func NewSeenSet(apps []App) SeenSet {
	s := make(SeenSet, len(apps))
	for _, app := range apps {
		s.Add(app.AppID)
	}
	return s
}

// Has reports whether id was seen
func (s SeenSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add records id
func (s SeenSet) Add(id string) {
	s[id] = struct{}{}
}
