package parse_test

import (
	"context"
	"testing"

	"discogsload/internal/batch"
	"discogsload/internal/parse"
	"discogsload/internal/rows"

	"github.com/stretchr/testify/require"
)

func runMasters(t *testing.T, doc string, batchSize int) *recordingWriter {
	t.Helper()

	writer := &recordingWriter{}
	sink := batch.New(rows.MasterTable, []rows.TableDescriptor{rows.MasterArtistTable}, batchSize, writer, testLogger())
	parser := parse.NewMasterParser(sink)

	driver := parse.NewDriver(xmlReader(doc))
	require.NoError(t, driver.Run(context.Background(), parser))

	return writer
}

func TestMasterParser_MinimalRecord(t *testing.T) {
	doc := `<masters><master id="100"><title>Selected Ambient Works</title>` +
		`<main_release>200</main_release><year>1992</year></master></masters>`
	writer := runMasters(t, doc, 100)

	m := writer.batchFor(0, "master").Rows[0].(*rows.Master)
	require.Equal(t, int32(100), m.ID)
	require.Equal(t, "Selected Ambient Works", m.Title)
	require.Equal(t, int32(200), m.ReleaseID)
	require.Equal(t, int32(1992), m.Year)
}

// S6 — master with two artists.
func TestMasterParser_TwoArtists(t *testing.T) {
	doc := `<masters><master id="5"><title>Compilation</title>` +
		`<artists>` +
		`<artist><id>1</id><name>Alice</name><anv></anv><role>Main</role></artist>` +
		`<artist><id>2</id><name>Bob</name><anv>B-Man</anv><role>Featuring</role></artist>` +
		`</artists>` +
		`</master></masters>`
	writer := runMasters(t, doc, 100)

	masterArtists := writer.batchFor(0, "master_artist")
	require.NotNil(t, masterArtists)
	require.Len(t, masterArtists.Rows, 2)

	byArtistID := map[int32]*rows.MasterArtist{}
	for _, r := range masterArtists.Rows {
		ma := r.(*rows.MasterArtist)
		byArtistID[ma.ArtistID] = ma
	}

	require.Equal(t, "Alice", byArtistID[1].Name)
	require.Equal(t, "Main", byArtistID[1].Role)
	require.Equal(t, int32(5), byArtistID[1].MasterID)

	require.Equal(t, "Bob", byArtistID[2].Name)
	require.Equal(t, "B-Man", byArtistID[2].Anv)
	require.Equal(t, "Featuring", byArtistID[2].Role)
}

func TestMasterParser_GenresAndStyles(t *testing.T) {
	doc := `<masters><master id="9"><title>X</title>` +
		`<genres><genre>Electronic</genre></genres>` +
		`<styles><style>IDM</style><style>Ambient</style></styles>` +
		`</master></masters>`
	writer := runMasters(t, doc, 100)

	m := writer.batchFor(0, "master").Rows[0].(*rows.Master)
	require.Equal(t, []string{"Electronic"}, m.Genres)
	require.Equal(t, []string{"IDM", "Ambient"}, m.Styles)
}
