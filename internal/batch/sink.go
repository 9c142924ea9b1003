// Package batch accumulates rows of one entity family in memory, deduping
// by primary key, and flushes them to the database once a size threshold
// is crossed or the input stream ends.
package batch

import (
	"context"

	"discogsload/internal/bulkcopy"
	"discogsload/internal/rows"
	"discogsload/pkg/logger"
)

// Writer is the subset of bulkcopy.Writer the sink depends on, so tests can
// substitute an in-memory fake instead of a live database.
type Writer interface {
	Flush(ctx context.Context, batches []bulkcopy.Batch) error
}

var _ Writer = (*bulkcopy.Writer)(nil)

// Sink holds one map from primary key to row for the parent table of an
// entity family, and one map per child table, keyed by a synthetic id the
// caller supplies purely to deduplicate insertions. It flushes parent rows
// before child rows, clearing every map afterward.
type Sink struct {
	batchSize int

	parentTable rows.TableDescriptor
	parents     map[int32]rows.Columnar

	childTables []rows.TableDescriptor
	children    []map[int64]rows.Columnar

	writer Writer
	log    logger.Logger
}

// New builds a Sink for one parent table and its ordered child tables.
func New(parentTable rows.TableDescriptor, childTables []rows.TableDescriptor, batchSize int, writer Writer, log logger.Logger) *Sink {
	children := make([]map[int64]rows.Columnar, len(childTables))
	for i := range children {
		children[i] = make(map[int64]rows.Columnar)
	}

	return &Sink{
		batchSize:   batchSize,
		parentTable: parentTable,
		parents:     make(map[int32]rows.Columnar),
		childTables: childTables,
		children:    children,
		writer:      writer,
		log:         log.Function("Sink"),
	}
}

// CommitParent inserts row under key if the key is not already present
// (first-write-wins) and reports whether the parent map has now reached
// the configured batch size.
func (s *Sink) CommitParent(key int32, row rows.Columnar) bool {
	if _, exists := s.parents[key]; !exists {
		s.parents[key] = row
	}
	return len(s.parents) >= s.batchSize
}

// CommitChild inserts row into the childIndex'th child table's map under
// the given synthetic key, first-write-wins.
func (s *Sink) CommitChild(childIndex int, key int64, row rows.Columnar) {
	m := s.children[childIndex]
	if _, exists := m[key]; !exists {
		m[key] = row
	}
}

// Flush writes every non-empty table — the parent table, then each child
// table in declared order — and clears all maps. A flush on an entirely
// empty sink is a no-op.
func (s *Sink) Flush(ctx context.Context) error {
	var batches []bulkcopy.Batch

	if len(s.parents) > 0 {
		batches = append(batches, bulkcopy.Batch{
			Table: s.parentTable,
			Rows:  values(s.parents),
		})
	}

	for i, table := range s.childTables {
		if len(s.children[i]) == 0 {
			continue
		}
		batches = append(batches, bulkcopy.Batch{
			Table: table,
			Rows:  values64(s.children[i]),
		})
	}

	if len(batches) == 0 {
		return nil
	}

	parentCount := len(s.parents)
	if err := s.writer.Flush(ctx, batches); err != nil {
		return err
	}

	s.log.Info("flushed batch", "table", s.parentTable.Name, "parents", parentCount)

	s.parents = make(map[int32]rows.Columnar)
	for i := range s.children {
		s.children[i] = make(map[int64]rows.Columnar)
	}

	return nil
}

func values(m map[int32]rows.Columnar) []rows.Columnar {
	out := make([]rows.Columnar, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

func values64(m map[int64]rows.Columnar) []rows.Columnar {
	out := make([]rows.Columnar, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
