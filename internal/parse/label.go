package parse

import (
	"context"
	"strconv"

	"discogsload/internal/batch"
	"discogsload/internal/errs"
	"discogsload/internal/rows"
)

type labelState int

const (
	labelRoot labelState = iota
	labelID
	labelName
	labelContactInfo
	labelProfile
	labelParentLabel
	labelSublabelsOuter
	labelSublabelsInner
	labelURLsOuter
	labelURLsInner
	labelDataQuality
)

// LabelParser reconstructs label records from the labels family event
// stream and commits them to a batch.Sink.
type LabelParser struct {
	state     labelState
	current   rows.Label
	currentID int32
	sink      *batch.Sink
}

// NewLabelParser builds a parser that commits to sink.
func NewLabelParser(sink *batch.Sink) *LabelParser {
	return &LabelParser{state: labelRoot, sink: sink}
}

func (p *LabelParser) Flush(ctx context.Context) error {
	return p.sink.Flush(ctx)
}

func (p *LabelParser) Process(ctx context.Context, ev Event) error {
	switch p.state {
	case labelRoot:
		return p.processRoot(ctx, ev)
	case labelID:
		return p.readScalarInt("id", ev, &p.currentID, labelRoot)
	case labelName:
		return p.readScalarText(ev, &p.current.Name, labelRoot)
	case labelContactInfo:
		return p.readScalarText(ev, &p.current.ContactInfo, labelRoot)
	case labelProfile:
		return p.readScalarText(ev, &p.current.Profile, labelRoot)
	case labelParentLabel:
		return p.readScalarText(ev, &p.current.ParentLabel, labelRoot)
	case labelSublabelsOuter:
		return p.processCollectionOuter(ev, "label", "sublabels", labelSublabelsInner, labelRoot)
	case labelSublabelsInner:
		return p.processCollectionInner(ev, &p.current.Sublabels, labelSublabelsOuter)
	case labelURLsOuter:
		return p.processCollectionOuter(ev, "url", "urls", labelURLsInner, labelRoot)
	case labelURLsInner:
		return p.processCollectionInner(ev, &p.current.URLs, labelURLsOuter)
	case labelDataQuality:
		return p.readScalarText(ev, &p.current.DataQuality, labelRoot)
	}
	return nil
}

func (p *LabelParser) processRoot(ctx context.Context, ev Event) error {
	switch {
	case ev.Kind == Start && ev.Name == "label":
		p.current = rows.Label{}
		p.currentID = 0
	case ev.Kind == Start:
		switch ev.Name {
		case "id":
			p.state = labelID
		case "name":
			p.state = labelName
		case "contactinfo":
			p.state = labelContactInfo
		case "profile":
			p.state = labelProfile
		case "parent_label":
			p.state = labelParentLabel
		case "sublabels":
			p.state = labelSublabelsOuter
		case "urls":
			p.state = labelURLsOuter
		case "data_quality":
			p.state = labelDataQuality
		}
	case ev.Kind == End && ev.Name == "label":
		row := p.current
		row.ID = p.currentID
		reached := p.sink.CommitParent(row.ID, &row)
		if reached {
			return p.sink.Flush(ctx)
		}
	case ev.Kind == End && ev.Name == "labels":
		return p.sink.Flush(ctx)
	}
	return nil
}

func (p *LabelParser) processCollectionOuter(ev Event, itemTag, outerTag string, inner, root labelState) error {
	switch {
	case ev.Kind == Start && ev.Name == itemTag:
		p.state = inner
	case ev.Kind == End && ev.Name == outerTag:
		p.state = root
	}
	return nil
}

func (p *LabelParser) processCollectionInner(ev Event, field *[]string, outer labelState) error {
	if ev.Kind == Text {
		*field = append(*field, ev.Text)
	}
	p.state = outer
	return nil
}

func (p *LabelParser) readScalarText(ev Event, dest *string, root labelState) error {
	switch ev.Kind {
	case Text:
		*dest = ev.Text
	case End:
		p.state = root
	}
	return nil
}

func (p *LabelParser) readScalarInt(field string, ev Event, dest *int32, root labelState) error {
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
