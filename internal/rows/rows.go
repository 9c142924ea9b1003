// Package rows defines the flat record shapes bound 1:1 to the database
// tables a dump loads into, and their column order for the bulk writer.
package rows

// Columnar is implemented by every row type. Columns returns the row's
// field values in the exact order of its target table's column list.
type Columnar interface {
	Columns() []any
}

// TableDescriptor names a bulk-copy destination and its column order.
// ColumnNames feeds (*pgx.Conn).CopyFrom directly; ColumnsSpec is the same
// list rendered as the parenthesized SQL fragment used in the DDL files
// and in the COPY statement this descriptor stands for.
type TableDescriptor struct {
	Name        string
	ColumnNames []string
	ColumnsSpec string
}

// Artist is one row of the artist table.
type Artist struct {
	ID             int32
	Name           string
	RealName       string
	Profile        string
	DataQuality    string
	NameVariations []string
	URLs           []string
	Aliases        []string
	Members        []string
}

func (a *Artist) Columns() []any {
	return []any{
		a.ID, a.Name, a.RealName, a.Profile, a.DataQuality,
		a.NameVariations, a.URLs, a.Aliases, a.Members,
	}
}

var ArtistTable = TableDescriptor{
	Name:        "artist",
	ColumnNames: []string{"id", "name", "real_name", "profile", "data_quality", "name_variations", "urls", "aliases", "members"},
	ColumnsSpec: "(id, name, real_name, profile, data_quality, name_variations, urls, aliases, members)",
}

// Label is one row of the label table.
type Label struct {
	ID          int32
	Name        string
	ContactInfo string
	Profile     string
	ParentLabel string
	Sublabels   []string
	URLs        []string
	DataQuality string
}

func (l *Label) Columns() []any {
	return []any{
		l.ID, l.Name, l.ContactInfo, l.Profile, l.ParentLabel,
		l.Sublabels, l.URLs, l.DataQuality,
	}
}

var LabelTable = TableDescriptor{
	Name:        "label",
	ColumnNames: []string{"id", "name", "contactinfo", "profile", "parent_label", "sublabels", "urls", "data_quality"},
	ColumnsSpec: "(id, name, contactinfo, profile, parent_label, sublabels, urls, data_quality)",
}

// Master is one row of the master table.
type Master struct {
	ID          int32
	Title       string
	ReleaseID   int32
	Year        int32
	Notes       string
	Genres      []string
	Styles      []string
	DataQuality string
}

func (m *Master) Columns() []any {
	return []any{
		m.ID, m.Title, m.ReleaseID, m.Year, m.Notes,
		m.Genres, m.Styles, m.DataQuality,
	}
}

var MasterTable = TableDescriptor{
	Name:        "master",
	ColumnNames: []string{"id", "title", "release_id", "year", "notes", "genres", "styles", "data_quality"},
	ColumnsSpec: "(id, title, release_id, year, notes, genres, styles, data_quality)",
}

// MasterArtist is one row of the master_artist child table.
type MasterArtist struct {
	ArtistID int32
	MasterID int32
	Name     string
	Anv      string
	Role     string
}

func (m *MasterArtist) Columns() []any {
	return []any{m.ArtistID, m.MasterID, m.Name, m.Anv, m.Role}
}

var MasterArtistTable = TableDescriptor{
	Name:        "master_artist",
	ColumnNames: []string{"artist_id", "master_id", "name", "anv", "role"},
	ColumnsSpec: "(artist_id, master_id, name, anv, role)",
}

// Release is one row of the release table.
type Release struct {
	ID          int32
	Status      string
	Title       string
	Country     string
	Released    string
	Notes       string
	Genres      []string
	Styles      []string
	MasterID    int32
	DataQuality string
}

func (r *Release) Columns() []any {
	return []any{
		r.ID, r.Status, r.Title, r.Country, r.Released, r.Notes,
		r.Genres, r.Styles, r.MasterID, r.DataQuality,
	}
}

var ReleaseTable = TableDescriptor{
	Name:        "release",
	ColumnNames: []string{"id", "status", "title", "country", "released", "notes", "genres", "styles", "master_id", "data_quality"},
	ColumnsSpec: "(id, status, title, country, released, notes, genres, styles, master_id, data_quality)",
}

// ReleaseLabel is one row of the release_label child table.
type ReleaseLabel struct {
	ReleaseID int32
	Label     string
	Catno     string
	LabelID   int32
}

func (r *ReleaseLabel) Columns() []any {
	return []any{r.ReleaseID, r.Label, r.Catno, r.LabelID}
}

var ReleaseLabelTable = TableDescriptor{
	Name:        "release_label",
	ColumnNames: []string{"release_id", "label", "catno", "label_id"},
	ColumnsSpec: "(release_id, label, catno, label_id)",
}

// ReleaseVideo is one row of the release_video child table.
type ReleaseVideo struct {
	ReleaseID int32
	Duration  int32
	Src       string
	Title     string
}

func (r *ReleaseVideo) Columns() []any {
	return []any{r.ReleaseID, r.Duration, r.Src, r.Title}
}

var ReleaseVideoTable = TableDescriptor{
	Name:        "release_video",
	ColumnNames: []string{"release_id", "duration", "src", "title"},
	ColumnsSpec: "(release_id, duration, src, title)",
}
