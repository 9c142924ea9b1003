package parse

import (
	"context"
	"strconv"

	"discogsload/internal/batch"
	"discogsload/internal/errs"
	"discogsload/internal/rows"
)

type masterState int

const (
	masterRoot masterState = iota
	masterTitle
	masterMainRelease
	masterYear
	masterDataQuality
	masterGenresOuter
	masterGenresInner
	masterStylesOuter
	masterStylesInner
	masterArtistsOuter
	masterArtistID
	masterArtistName
	masterArtistAnv
	masterArtistRole
)

// masterArtistChild is the index of master_artist among the sink's child
// tables (it is the only one).
const masterArtistChild = 0

// MasterParser reconstructs master records, and their nested master-artist
// rows, from the masters family event stream.
type MasterParser struct {
	state masterState

	current   rows.Master
	currentID int32

	currentArtist rows.MasterArtist
	nextChildKey  int64

	sink *batch.Sink
}

// NewMasterParser builds a parser that commits to sink.
func NewMasterParser(sink *batch.Sink) *MasterParser {
	return &MasterParser{state: masterRoot, sink: sink}
}

func (p *MasterParser) Flush(ctx context.Context) error {
	return p.sink.Flush(ctx)
}

func (p *MasterParser) Process(ctx context.Context, ev Event) error {
	switch p.state {
	case masterRoot:
		return p.processRoot(ctx, ev)
	case masterTitle:
		return p.readScalarText(ev, &p.current.Title, masterRoot)
	case masterMainRelease:
		return p.readScalarInt("main_release", ev, &p.current.ReleaseID, masterRoot)
	case masterYear:
		return p.readScalarInt("year", ev, &p.current.Year, masterRoot)
	case masterDataQuality:
		return p.readScalarText(ev, &p.current.DataQuality, masterRoot)
	case masterGenresOuter:
		return p.processCollectionOuter(ev, "genre", "genres", masterGenresInner, masterRoot)
	case masterGenresInner:
		return p.processCollectionInner(ev, &p.current.Genres, masterGenresOuter)
	case masterStylesOuter:
		return p.processCollectionOuter(ev, "style", "styles", masterStylesInner, masterRoot)
	case masterStylesInner:
		return p.processCollectionInner(ev, &p.current.Styles, masterStylesOuter)
	case masterArtistsOuter:
		return p.processArtistsOuter(ctx, ev)
	case masterArtistID:
		return p.readArtistScalarInt("id", ev, &p.currentArtist.ArtistID)
	case masterArtistName:
		return p.readArtistScalarText(ev, &p.currentArtist.Name, "name")
	case masterArtistAnv:
		return p.readArtistScalarText(ev, &p.currentArtist.Anv, "anv")
	case masterArtistRole:
		return p.readArtistScalarText(ev, &p.currentArtist.Role, "role")
	}
	return nil
}

func (p *MasterParser) processRoot(ctx context.Context, ev Event) error {
	switch {
	case ev.Kind == Start && ev.Name == "master":
		p.current = rows.Master{}
		if len(ev.Attrs) > 0 {
			n, err := strconv.ParseInt(ev.Attrs[0], 10, 32)
			if err != nil {
				return errs.NewParseError("master.id", ev.Attrs[0], err)
			}
			p.currentID = int32(n)
		}
	case ev.Kind == Start:
		switch ev.Name {
		case "title":
			p.state = masterTitle
		case "main_release":
			p.state = masterMainRelease
		case "year":
			p.state = masterYear
		case "data_quality":
			p.state = masterDataQuality
		case "genres":
			p.state = masterGenresOuter
		case "styles":
			p.state = masterStylesOuter
		case "artists":
			p.state = masterArtistsOuter
		}
	case ev.Kind == End && ev.Name == "master":
		row := p.current
		row.ID = p.currentID
		reached := p.sink.CommitParent(row.ID, &row)
		if reached {
			return p.sink.Flush(ctx)
		}
	case ev.Kind == End && ev.Name == "masters":
		return p.sink.Flush(ctx)
	}
	return nil
}

func (p *MasterParser) processArtistsOuter(ctx context.Context, ev Event) error {
	switch {
	case ev.Kind == Start && ev.Name == "artist":
		p.currentArtist = rows.MasterArtist{MasterID: p.currentID}
	case ev.Kind == Start:
		switch ev.Name {
		case "id":
			p.state = masterArtistID
		case "name":
			p.state = masterArtistName
		case "anv":
			p.state = masterArtistAnv
		case "role":
			p.state = masterArtistRole
		}
	case ev.Kind == End && ev.Name == "artist":
		row := p.currentArtist
		p.sink.CommitChild(masterArtistChild, p.nextChildKey, &row)
		p.nextChildKey++
	case ev.Kind == End && ev.Name == "artists":
		p.state = masterRoot
	}
	return nil
}

func (p *MasterParser) readArtistScalarText(ev Event, dest *string, fieldTag string) error {
	switch ev.Kind {
	case Text:
		*dest = ev.Text
	case End:
		if ev.Name == fieldTag {
			p.state = masterArtistsOuter
		}
	}
	return nil
}

func (p *MasterParser) readArtistScalarInt(field string, ev Event, dest *int32) error {
	switch ev.Kind {
	case Text:
		n, err := strconv.ParseInt(ev.Text, 10, 32)
		if err != nil {
			return errs.NewParseError(field, ev.Text, err)
		}
		*dest = int32(n)
	case End:
		if ev.Name == "id" {
			p.state = masterArtistsOuter
		}
	}
	return nil
}

func (p *MasterParser) processCollectionOuter(ev Event, itemTag, outerTag string, inner, root masterState) error {
	switch {
	case ev.Kind == Start && ev.Name == itemTag:
		p.state = inner
	case ev.Kind == End && ev.Name == outerTag:
		p.state = root
	}
	return nil
}

func (p *MasterParser) processCollectionInner(ev Event, field *[]string, outer masterState) error {
	if ev.Kind == Text {
		*field = append(*field, ev.Text)
	}
	p.state = outer
	return nil
}

func (p *MasterParser) readScalarText(ev Event, dest *string, root masterState) error {
	switch ev.Kind {
	case Text:
		*dest = ev.Text
	case End:
		p.state = root
	}
	return nil
}

func (p *MasterParser) readScalarInt(field string, ev Event, dest *int32, root masterState) error {
	switch ev.Kind {
	case Text:
		n, err := strconv.ParseInt(ev.Text, 10, 32)
		if err != nil {
			return errs.NewParseError(field, ev.Text, err)
		}
		*dest = int32(n)
	case End:
		p.state = root
	}
	return nil
}
