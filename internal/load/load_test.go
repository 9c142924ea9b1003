package load

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"discogsload/internal/parse"
	"discogsload/internal/rows"
	"discogsload/pkg/logger"

	"github.com/stretchr/testify/require"
)

func writeGzipFixture(t *testing.T, dir, name, xml string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(xml))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestFamilyTables(t *testing.T) {
	parent, children := familyTables(parse.FamilyArtists)
	require.Equal(t, rows.ArtistTable, parent)
	require.Empty(t, children)

	parent, children = familyTables(parse.FamilyMasters)
	require.Equal(t, rows.MasterTable, parent)
	require.Equal(t, []rows.TableDescriptor{rows.MasterArtistTable}, children)

	parent, children = familyTables(parse.FamilyReleases)
	require.Equal(t, rows.ReleaseTable, parent)
	require.Equal(t, []rows.TableDescriptor{rows.ReleaseLabelTable, rows.ReleaseVideoTable}, children)

	parent, children = familyTables("bogus")
	require.Equal(t, rows.TableDescriptor{}, parent)
	require.Empty(t, children)
}

func TestOpenDecompressed_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeGzipFixture(t, dir, "artists.xml.gz", `<artists></artists>`)

	r, closeFn, err := openDecompressed(path)
	require.NoError(t, err)
	defer closeFn()

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	require.Equal(t, `<artists></artists>`, buf.String())
}

func TestOpenDecompressed_MissingFile(t *testing.T) {
	_, _, err := openDecompressed(filepath.Join(t.TempDir(), "missing.xml.gz"))
	require.Error(t, err)
}

func TestOpenDecompressed_NotGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.xml.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip data"), 0o644))

	_, _, err := openDecompressed(path)
	require.Error(t, err)
}

func TestDetectFamily_FromGzipFile(t *testing.T) {
	dir := t.TempDir()
	path := writeGzipFixture(t, dir, "labels.xml.gz", `<labels><label><id>1</id></label></labels>`)

	family, err := detectFamily(path, logger.New("test"))
	require.NoError(t, err)
	require.Equal(t, parse.FamilyLabels, family)
}

// Run requires a reachable Postgres, since both schema.Runner and
// bulkcopy.Writer dial out directly; guarded the same way as the bulkcopy
// package's own integration-shaped test.
func TestRun_RequiresLiveDatabase(t *testing.T) {
	connString := os.Getenv("DISCOGSLOAD_TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("DISCOGSLOAD_TEST_DATABASE_URL not set - skipping live end-to-end run")
	}

	dir := t.TempDir()
	path := writeGzipFixture(t, dir, "artists.xml.gz", `<artists><artist><id>1</id><name>Alice</name></artist></artists>`)

	opts := Options{
		BatchSize:  100,
		ConnString: connString,
		InputFiles: []string{path},
	}

	require.NoError(t, Run(context.Background(), opts, logger.New("test")))
}
