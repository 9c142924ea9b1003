package parse

import (
	"context"
	"strconv"

	"discogsload/internal/batch"
	"discogsload/internal/errs"
	"discogsload/internal/rows"
)

type releaseState int

const (
	releaseRoot releaseState = iota
	releaseTitle
	releaseCountry
	releaseReleased
	releaseNotes
	releaseGenresOuter
	releaseGenresInner
	releaseStylesOuter
	releaseStylesInner
	releaseMasterID
	releaseDataQuality
	releaseLabelsOuter
	releaseVideosOuter
	releaseVideoTitle
)

const (
	releaseLabelChild = 0
	releaseVideoChild = 1
)

// ReleaseParser reconstructs release records, and their nested release-label
// and release-video rows, from the releases family event stream.
type ReleaseParser struct {
	state releaseState

	current   rows.Release
	currentID int32

	currentVideo rows.ReleaseVideo
	nextLabelKey int64
	nextVideoKey int64

	sink *batch.Sink
}

// NewReleaseParser builds a parser that commits to sink.
func NewReleaseParser(sink *batch.Sink) *ReleaseParser {
	return &ReleaseParser{state: releaseRoot, sink: sink}
}

func (p *ReleaseParser) Flush(ctx context.Context) error {
	return p.sink.Flush(ctx)
}

func (p *ReleaseParser) Process(ctx context.Context, ev Event) error {
	switch p.state {
	case releaseRoot:
		return p.processRoot(ctx, ev)
	case releaseTitle:
		return p.readScalarText(ev, &p.current.Title, releaseRoot)
	case releaseCountry:
		return p.readScalarText(ev, &p.current.Country, releaseRoot)
	case releaseReleased:
		return p.readScalarText(ev, &p.current.Released, releaseRoot)
	case releaseNotes:
		return p.readScalarText(ev, &p.current.Notes, releaseRoot)
	case releaseGenresOuter:
		return p.processCollectionOuter(ev, "genre", "genres", releaseGenresInner, releaseRoot)
	case releaseGenresInner:
		return p.processCollectionInner(ev, &p.current.Genres, releaseGenresOuter)
	case releaseStylesOuter:
		return p.processCollectionOuter(ev, "style", "styles", releaseStylesInner, releaseRoot)
	case releaseStylesInner:
		return p.processCollectionInner(ev, &p.current.Styles, releaseStylesOuter)
	case releaseMasterID:
		return p.readScalarInt("master_id", ev, &p.current.MasterID, releaseRoot)
	case releaseDataQuality:
		return p.readScalarText(ev, &p.current.DataQuality, releaseRoot)
	case releaseLabelsOuter:
		return p.processLabelsOuter(ev)
	case releaseVideosOuter:
		return p.processVideosOuter(ev)
	case releaseVideoTitle:
		return p.processVideoTitle(ev)
	}
	return nil
}

func (p *ReleaseParser) processRoot(ctx context.Context, ev Event) error {
	switch {
	case ev.Kind == Start && ev.Name == "release":
		p.current = rows.Release{}
		if len(ev.Attrs) > 0 {
			n, err := strconv.ParseInt(ev.Attrs[0], 10, 32)
			if err != nil {
				return errs.NewParseError("release.id", ev.Attrs[0], err)
			}
			p.currentID = int32(n)
		}
		if len(ev.Attrs) > 1 {
			p.current.Status = ev.Attrs[1]
		}
	case ev.Kind == Start:
		switch ev.Name {
		case "title":
			p.state = releaseTitle
		case "country":
			p.state = releaseCountry
		case "released":
			p.state = releaseReleased
		case "notes":
			p.state = releaseNotes
		case "genres":
			p.state = releaseGenresOuter
		case "styles":
			p.state = releaseStylesOuter
		case "master_id":
			p.state = releaseMasterID
		case "data_quality":
			p.state = releaseDataQuality
		case "labels":
			p.state = releaseLabelsOuter
		case "videos":
			p.state = releaseVideosOuter
		}
	case ev.Kind == End && ev.Name == "release":
		row := p.current
		row.ID = p.currentID
		reached := p.sink.CommitParent(row.ID, &row)
		if reached {
			return p.sink.Flush(ctx)
		}
	case ev.Kind == End && ev.Name == "releases":
		return p.sink.Flush(ctx)
	}
	return nil
}

// processLabelsOuter handles the self-closing <label .../> tags inside
// <labels>. encoding/xml reports a self-closing element as a Start
// immediately followed by an End with no intervening token, so the
// extraction happens on Start.
func (p *ReleaseParser) processLabelsOuter(ev Event) error {
	switch {
	case ev.Kind == Start && ev.Name == "label":
		row := rows.ReleaseLabel{ReleaseID: p.currentID}
		if len(ev.Attrs) > 0 {
			row.Label = ev.Attrs[0]
		}
		if len(ev.Attrs) > 1 {
			row.Catno = ev.Attrs[1]
		}
		if len(ev.Attrs) > 2 {
			n, err := strconv.ParseInt(ev.Attrs[2], 10, 32)
			if err != nil {
				return errs.NewParseError("label.label_id", ev.Attrs[2], err)
			}
			row.LabelID = int32(n)
		}
		p.sink.CommitChild(releaseLabelChild, p.nextLabelKey, &row)
		p.nextLabelKey++
	case ev.Kind == End && ev.Name == "labels":
		p.state = releaseRoot
	}
	return nil
}

func (p *ReleaseParser) processVideosOuter(ev Event) error {
	switch {
	case ev.Kind == Start && ev.Name == "video":
		p.currentVideo = rows.ReleaseVideo{ReleaseID: p.currentID}
		if len(ev.Attrs) > 0 {
			p.currentVideo.Src = ev.Attrs[0]
		}
		if len(ev.Attrs) > 1 {
			n, err := strconv.ParseInt(ev.Attrs[1], 10, 32)
			if err != nil {
				return errs.NewParseError("video.duration", ev.Attrs[1], err)
			}
			p.currentVideo.Duration = int32(n)
		}
		p.state = releaseVideoTitle
	case ev.Kind == End && ev.Name == "videos":
		p.state = releaseRoot
	}
	return nil
}

func (p *ReleaseParser) processVideoTitle(ev Event) error {
	switch {
	case ev.Kind == Text:
		p.currentVideo.Title = ev.Text
	case ev.Kind == End && ev.Name == "video":
		row := p.currentVideo
		p.sink.CommitChild(releaseVideoChild, p.nextVideoKey, &row)
		p.nextVideoKey++
		p.state = releaseVideosOuter
	}
	return nil
}

func (p *ReleaseParser) processCollectionOuter(ev Event, itemTag, outerTag string, inner, root releaseState) error {
	switch {
	case ev.Kind == Start && ev.Name == itemTag:
		p.state = inner
	case ev.Kind == End && ev.Name == outerTag:
		p.state = root
	}
	return nil
}

func (p *ReleaseParser) processCollectionInner(ev Event, field *[]string, outer releaseState) error {
	if ev.Kind == Text {
		*field = append(*field, ev.Text)
	}
	p.state = outer
	return nil
}

func (p *ReleaseParser) readScalarText(ev Event, dest *string, root releaseState) error {
	switch ev.Kind {
	case Text:
		*dest = ev.Text
	case End:
		p.state = root
	}
	return nil
}

func (p *ReleaseParser) readScalarInt(field string, ev Event, dest *int32, root releaseState) error {
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
