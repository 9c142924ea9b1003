package parse_test

import (
	"testing"

	"discogsload/internal/batch"
	"discogsload/internal/parse"
	"discogsload/internal/rows"

	"github.com/stretchr/testify/require"
)

func TestDetectFamily(t *testing.T) {
	cases := map[string]string{
		`<artists><artist><id>1</id></artist></artists>`:   parse.FamilyArtists,
		`<labels><label><id>1</id></label></labels>`:        parse.FamilyLabels,
		`<masters><master id="1"></master></masters>`:       parse.FamilyMasters,
		`<releases><release id="1"></release></releases>`:   parse.FamilyReleases,
	}

	for doc, want := range cases {
		got, err := parse.DetectFamily(xmlReader(doc))
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestDetectFamily_UnrecognizedRoot(t *testing.T) {
	_, err := parse.DetectFamily(xmlReader(`<nonsense></nonsense>`))
	require.Error(t, err)
}

func TestNewParser_Dispatch(t *testing.T) {
	writer := &recordingWriter{}
	sink := batch.New(rows.ArtistTable, nil, 100, writer, testLogger())

	p, err := parse.NewParser(parse.FamilyArtists, sink)
	require.NoError(t, err)
	require.IsType(t, &parse.ArtistParser{}, p)

	_, err = parse.NewParser("bogus", sink)
	require.Error(t, err)
}
