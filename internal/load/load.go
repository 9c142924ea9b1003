// Package load orchestrates one end-to-end run: for every input file it
// detects the entity family, applies that family's DDL, and streams the
// decompressed XML through the matching entity parser into the database.
package load

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"

	"discogsload/internal/batch"
	"discogsload/internal/bulkcopy"
	"discogsload/internal/errs"
	"discogsload/internal/parse"
	"discogsload/internal/rows"
	"discogsload/internal/schema"
	"discogsload/pkg/logger"
)

// Options carries the resolved settings a Run needs. It mirrors config.Config
// without importing it, keeping this package usable from tests without the
// CLI/viper machinery.
type Options struct {
	BatchSize     int
	ConnString    string
	CreateIndexes bool
	InputFiles    []string
}

// familyTables returns the parent table and ordered child tables a batch.Sink
// must hold for the given entity family.
func familyTables(family string) (rows.TableDescriptor, []rows.TableDescriptor) {
	switch family {
	case parse.FamilyArtists:
		return rows.ArtistTable, nil
	case parse.FamilyLabels:
		return rows.LabelTable, nil
	case parse.FamilyMasters:
		return rows.MasterTable, []rows.TableDescriptor{rows.MasterArtistTable}
	case parse.FamilyReleases:
		return rows.ReleaseTable, []rows.TableDescriptor{rows.ReleaseLabelTable, rows.ReleaseVideoTable}
	default:
		return rows.TableDescriptor{}, nil
	}
}

// Run loads every file in opts.InputFiles, in order, then applies the index
// DDL if requested. The first error aborts the remaining files.
func Run(ctx context.Context, opts Options, log logger.Logger) error {
	log = log.Function("Run")

	writer := bulkcopy.New(opts.ConnString, log)
	schemaRunner := schema.New(opts.ConnString, log)

	for _, path := range opts.InputFiles {
		if err := loadFile(ctx, path, opts, writer, schemaRunner, log); err != nil {
			return log.Err("load file", err, "path", path)
		}
	}

	if opts.CreateIndexes {
		if err := schemaRunner.ApplyFile(ctx, schema.IndexFile); err != nil {
			return log.Err("create indexes", err)
		}
	}

	return nil
}

func loadFile(
	ctx context.Context,
	path string,
	opts Options,
	writer *bulkcopy.Writer,
	schemaRunner *schema.Runner,
	log logger.Logger,
) error {
	log = log.File(path)

	family, err := detectFamily(path, log)
	if err != nil {
		return err
	}
	log.Info("detected entity family", "family", family)

	ddlPath := schema.TableFileFor(family)
	if ddlPath == "" {
		return errs.NewConfigError("detect family", fmt.Errorf("no DDL file mapped for family %q", family))
	}
	if err := schemaRunner.ApplyFile(ctx, ddlPath); err != nil {
		return err
	}

	parentTable, childTables := familyTables(family)
	sink := batch.New(parentTable, childTables, opts.BatchSize, writer, log)

	parser, err := parse.NewParser(family, sink)
	if err != nil {
		return err
	}

	decoded, closeInput, err := openDecompressed(path)
	if err != nil {
		return err
	}
	defer closeInput()

	driver := parse.NewDriver(decoded)
	return driver.Run(ctx, parser)
}

// detectFamily opens path once, purely to peek the root element. The driver
// re-opens the file from byte zero to run the real pass, per §4.5.
func detectFamily(path string, log logger.Logger) (string, error) {
	decoded, closeInput, err := openDecompressed(path)
	if err != nil {
		return "", err
	}
	defer closeInput()

	family, err := parse.DetectFamily(decoded)
	if err != nil {
		return "", log.Err("detect family", err)
	}
	return family, nil
}

// openDecompressed opens path and wraps it in a gzip reader. The returned
// closer closes both the gzip stream and the underlying file.
func openDecompressed(path string) (*gzip.Reader, func(), error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errs.NewIoError("open "+path, err)
	}

	gz, err := gzip.NewReader(file)
	if err != nil {
		_ = file.Close()
		return nil, nil, errs.NewIoError("gzip "+path, err)
	}

	return gz, func() {
		_ = gz.Close()
		_ = file.Close()
	}, nil
}
