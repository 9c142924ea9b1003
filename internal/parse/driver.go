package parse

import (
	"bufio"
	"context"
	"encoding/xml"
	"io"

	"discogsload/internal/batch"
	"discogsload/internal/errs"
)

// bufSize is the read buffer size for the XML input stream (§5 resource
// model: a 4 KiB buffer local to the driver).
const bufSize = 4096

// Families are the four entity-family root elements a dump can carry.
const (
	FamilyArtists  = "artists"
	FamilyLabels   = "labels"
	FamilyMasters  = "masters"
	FamilyReleases = "releases"
)

// DetectFamily scans r for the first Start event whose local name is one of
// the known entity families and returns it. It consumes r and never rewinds
// it — callers typically open the input twice, once to detect and once (from
// byte zero) to run the driver.
func DetectFamily(r io.Reader) (string, error) {
	dec := xml.NewDecoder(bufio.NewReaderSize(r, bufSize))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", errs.NewXmlError("detect family", io.ErrUnexpectedEOF)
		}
		if err != nil {
			return "", errs.NewXmlError("detect family", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case FamilyArtists, FamilyLabels, FamilyMasters, FamilyReleases:
			return se.Name.Local, nil
		}
	}
}

// NewParser builds the entity parser bound to family, committing into sink.
func NewParser(family string, sink *batch.Sink) (Parser, error) {
	switch family {
	case FamilyArtists:
		return NewArtistParser(sink), nil
	case FamilyLabels:
		return NewLabelParser(sink), nil
	case FamilyMasters:
		return NewMasterParser(sink), nil
	case FamilyReleases:
		return NewReleaseParser(sink), nil
	default:
		return nil, errs.NewConfigError("unknown entity family", errUnknownFamily(family))
	}
}

type errUnknownFamily string

func (e errUnknownFamily) Error() string { return "unknown entity family: " + string(e) }

// Driver pulls XML events from a reader and dispatches each one to a
// Parser, flushing it unconditionally at end-of-stream.
type Driver struct {
	dec *xml.Decoder
}

// NewDriver wraps r in a buffered XML decoder.
func NewDriver(r io.Reader) *Driver {
	return &Driver{dec: xml.NewDecoder(bufio.NewReaderSize(r, bufSize))}
}

// Run streams every event in document order to parser.Process, then calls
// parser.Flush once the stream is exhausted.
func (d *Driver) Run(ctx context.Context, parser Parser) error {
	for {
		tok, err := d.dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errs.NewXmlError("read token", err)
		}

		ev, ok := toEvent(tok)
		if !ok {
			continue
		}

		if err := parser.Process(ctx, ev); err != nil {
			return err
		}
	}

	return parser.Flush(ctx)
}

// toEvent reduces an encoding/xml token to the Start/End/Text shape entity
// parsers react to. Namespaces are ignored; only the local name survives.
// A self-closing element (<video .../>) is delivered by encoding/xml as a
// StartElement immediately followed by an EndElement with no token between,
// which already matches the shared Start/End transition rules in §4.4.1
// without a distinct "Empty" kind.
func toEvent(tok xml.Token) (Event, bool) {
	switch t := tok.(type) {
	case xml.StartElement:
		attrs := make([]string, len(t.Attr))
		for i, a := range t.Attr {
			attrs[i] = a.Value
		}
		return Event{Kind: Start, Name: t.Name.Local, Attrs: attrs}, true
	case xml.EndElement:
		return Event{Kind: End, Name: t.Name.Local}, true
	case xml.CharData:
		return Event{Kind: Text, Text: string(t)}, true
	default:
		return Event{}, false
	}
}
