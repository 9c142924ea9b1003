package parse

import (
	"context"
	"strconv"

	"discogsload/internal/batch"
	"discogsload/internal/errs"
	"discogsload/internal/rows"
)

type artistState int

const (
	artistRoot artistState = iota
	artistID
	artistName
	artistRealName
	artistProfile
	artistDataQuality
	artistNameVariationsOuter
	artistNameVariationsInner
	artistURLsOuter
	artistURLsInner
	artistAliasesOuter
	artistAliasesInner
	artistMembersOuter
	artistMembersNameInner
	artistMembersIDInner
)

// ArtistParser reconstructs artist records from the artists family event
// stream and commits them to a batch.Sink.
type ArtistParser struct {
	state   artistState
	current rows.Artist
	sink    *batch.Sink
}

// NewArtistParser builds a parser that commits to sink.
func NewArtistParser(sink *batch.Sink) *ArtistParser {
	return &ArtistParser{state: artistRoot, sink: sink}
}

func (p *ArtistParser) Flush(ctx context.Context) error {
	return p.sink.Flush(ctx)
}

func (p *ArtistParser) Process(ctx context.Context, ev Event) error {
	switch p.state {
	case artistRoot:
		return p.processRoot(ctx, ev)
	case artistID:
		return p.readScalarInt("id", ev, &p.current.ID, artistRoot)
	case artistName:
		return p.readScalarText("name", ev, &p.current.Name, artistRoot)
	case artistRealName:
		return p.readScalarText("realname", ev, &p.current.RealName, artistRoot)
	case artistProfile:
		return p.readScalarText("profile", ev, &p.current.Profile, artistRoot)
	case artistDataQuality:
		return p.readScalarText("data_quality", ev, &p.current.DataQuality, artistRoot)
	case artistNameVariationsOuter:
		return p.processCollectionOuter(ev, "name", "namevariations", artistNameVariationsInner, artistRoot)
	case artistNameVariationsInner:
		return p.processCollectionInner(ev, &p.current.NameVariations, artistNameVariationsOuter)
	case artistURLsOuter:
		return p.processCollectionOuter(ev, "url", "urls", artistURLsInner, artistRoot)
	case artistURLsInner:
		return p.processCollectionInner(ev, &p.current.URLs, artistURLsOuter)
	case artistAliasesOuter:
		return p.processCollectionOuter(ev, "alias", "aliases", artistAliasesInner, artistRoot)
	case artistAliasesInner:
		return p.processCollectionInner(ev, &p.current.Aliases, artistAliasesOuter)
	case artistMembersOuter:
		return p.processMembersOuter(ev)
	case artistMembersNameInner:
		return p.processCollectionInner(ev, &p.current.Members, artistMembersOuter)
	case artistMembersIDInner:
		if ev.Kind == End && ev.Name == "id" {
			p.state = artistMembersOuter
		}
		return nil
	}
	return nil
}

func (p *ArtistParser) processRoot(ctx context.Context, ev Event) error {
	switch {
	case ev.Kind == Start && ev.Name == "artist":
		p.current = rows.Artist{}
	case ev.Kind == Start:
		switch ev.Name {
		case "id":
			p.state = artistID
		case "name":
			p.state = artistName
		case "realname":
			p.state = artistRealName
		case "profile":
			p.state = artistProfile
		case "data_quality":
			p.state = artistDataQuality
		case "namevariations":
			p.state = artistNameVariationsOuter
		case "urls":
			p.state = artistURLsOuter
		case "aliases":
			p.state = artistAliasesOuter
		case "members":
			p.state = artistMembersOuter
		}
	case ev.Kind == End && ev.Name == "artist":
		row := p.current
		reached := p.sink.CommitParent(row.ID, &row)
		if reached {
			return p.sink.Flush(ctx)
		}
	case ev.Kind == End && ev.Name == "artists":
		return p.sink.Flush(ctx)
	}
	return nil
}

func (p *ArtistParser) processMembersOuter(ev Event) error {
	switch {
	case ev.Kind == Start && ev.Name == "name":
		p.state = artistMembersNameInner
	case ev.Kind == Start && ev.Name == "id":
		p.state = artistMembersIDInner
	case ev.Kind == End && ev.Name == "members":
		p.state = artistRoot
	}
	return nil
}

func (p *ArtistParser) processCollectionOuter(ev Event, itemTag, outerTag string, inner, root artistState) error {
	switch {
	case ev.Kind == Start && ev.Name == itemTag:
		p.state = inner
	case ev.Kind == End && ev.Name == outerTag:
		p.state = root
	}
	return nil
}

func (p *ArtistParser) processCollectionInner(ev Event, field *[]string, outer artistState) error {
	if ev.Kind == Text {
		*field = append(*field, ev.Text)
	}
	p.state = outer
	return nil
}

func (p *ArtistParser) readScalarText(field string, ev Event, dest *string, root artistState) error {
	switch ev.Kind {
	case Text:
		*dest = ev.Text
	case End:
		p.state = root
	}
	return nil
}

func (p *ArtistParser) readScalarInt(field string, ev Event, dest *int32, root artistState) error {
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
