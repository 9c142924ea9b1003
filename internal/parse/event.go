// Package parse implements the per-family entity parsers: explicit state
// machines that reconstruct artist, label, master, and release records
// from a flat stream of XML pull-parser events.
package parse

import "context"

// Kind distinguishes the three event shapes an entity parser reacts to.
type Kind int

const (
	Start Kind = iota
	End
	Text
)

// Event is one step of the XML token stream, reduced to what an entity
// parser needs: the event kind, the element's local name (namespaces are
// ignored throughout), positional attribute values for Start events, and
// decoded text for Text events.
type Event struct {
	Kind  Kind
	Name  string
	Attrs []string
	Text  string
}

// Parser is implemented by each entity family's state machine.
type Parser interface {
	// Process advances the state machine by one event, flushing the
	// underlying sink whenever the batch threshold or end-of-family is
	// reached. A non-nil error aborts the load.
	Process(ctx context.Context, ev Event) error
	// Flush unconditionally flushes the underlying sink, for end-of-stream.
	Flush(ctx context.Context) error
}
