package parse_test

import (
	"context"
	"testing"

	"discogsload/internal/batch"
	"discogsload/internal/parse"
	"discogsload/internal/rows"

	"github.com/stretchr/testify/require"
)

func runReleases(t *testing.T, doc string, batchSize int) *recordingWriter {
	t.Helper()

	writer := &recordingWriter{}
	childTables := []rows.TableDescriptor{rows.ReleaseLabelTable, rows.ReleaseVideoTable}
	sink := batch.New(rows.ReleaseTable, childTables, batchSize, writer, testLogger())
	parser := parse.NewReleaseParser(sink)

	driver := parse.NewDriver(xmlReader(doc))
	require.NoError(t, driver.Run(context.Background(), parser))

	return writer
}

func TestReleaseParser_MinimalRecord(t *testing.T) {
	doc := `<releases><release id="1" status="Accepted"><title>Foo</title></release></releases>`
	writer := runReleases(t, doc, 100)

	r := writer.batchFor(0, "release").Rows[0].(*rows.Release)
	require.Equal(t, int32(1), r.ID)
	require.Equal(t, "Accepted", r.Status)
	require.Equal(t, "Foo", r.Title)
}

// S3 — duplicate release within one batch: first-write-wins.
func TestReleaseParser_DuplicateIDFirstWriteWins(t *testing.T) {
	doc := `<releases>` +
		`<release id="4" status="Accepted"><title>First</title></release>` +
		`<release id="4" status="Draft"><title>Second</title></release>` +
		`</releases>`
	writer := runReleases(t, doc, 100)

	b := writer.batchFor(0, "release")
	require.Len(t, b.Rows, 1)
	require.Equal(t, "First", b.Rows[0].(*rows.Release).Title)
}

// S4 — release with labels and videos.
func TestReleaseParser_LabelsAndVideos(t *testing.T) {
	doc := `<releases><release id="10" status="Accepted"><title>Album</title>` +
		`<labels>` +
		`<label name="Warp Records" catno="WARP1" id="50"/>` +
		`<label name="Rephlex" catno="CAT2" id="51"/>` +
		`</labels>` +
		`<videos>` +
		`<video src="http://v1" duration="120">Intro</video>` +
		`</videos>` +
		`</release></releases>`
	writer := runReleases(t, doc, 100)

	labels := writer.batchFor(0, "release_label")
	require.NotNil(t, labels)
	require.Len(t, labels.Rows, 2)
	for _, r := range labels.Rows {
		rl := r.(*rows.ReleaseLabel)
		require.Equal(t, int32(10), rl.ReleaseID)
	}

	videos := writer.batchFor(0, "release_video")
	require.NotNil(t, videos)
	require.Len(t, videos.Rows, 1)
	v := videos.Rows[0].(*rows.ReleaseVideo)
	require.Equal(t, int32(10), v.ReleaseID)
	require.Equal(t, "http://v1", v.Src)
	require.Equal(t, int32(120), v.Duration)
	require.Equal(t, "Intro", v.Title)
}

// S5 — batch flush boundary: the third record starts a fresh batch.
func TestReleaseParser_FlushesOnBatchThreshold(t *testing.T) {
	doc := `<releases>` +
		`<release id="1" status="Accepted"><title>A</title></release>` +
		`<release id="2" status="Accepted"><title>B</title></release>` +
		`<release id="3" status="Accepted"><title>C</title></release>` +
		`</releases>`
	writer := runReleases(t, doc, 2)

	require.Len(t, writer.flushes, 2)
	require.Len(t, writer.batchFor(0, "release").Rows, 2)
	require.Len(t, writer.batchFor(1, "release").Rows, 1)
}

func TestReleaseParser_GenresStylesAndMasterID(t *testing.T) {
	doc := `<releases><release id="20" status="Accepted"><title>X</title>` +
		`<genres><genre>Electronic</genre></genres>` +
		`<styles><style>Techno</style></styles>` +
		`<master_id>30</master_id>` +
		`</release></releases>`
	writer := runReleases(t, doc, 100)

	r := writer.batchFor(0, "release").Rows[0].(*rows.Release)
	require.Equal(t, []string{"Electronic"}, r.Genres)
	require.Equal(t, []string{"Techno"}, r.Styles)
	require.Equal(t, int32(30), r.MasterID)
}
