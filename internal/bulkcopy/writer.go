// Package bulkcopy writes batches of rows to Postgres using the binary
// COPY FROM STDIN protocol, one connection per flush.
package bulkcopy

import (
	"context"
	"fmt"

	"discogsload/internal/errs"
	"discogsload/internal/rows"
	"discogsload/pkg/logger"

	"github.com/jackc/pgx/v5"
)

// Batch is one table's worth of rows to write in a single flush call.
type Batch struct {
	Table rows.TableDescriptor
	Rows  []rows.Columnar
}

// Writer opens a fresh database connection for every Flush call and writes
// each batch's rows to its target table over that connection, in the order
// given — parent tables before their children — then closes the connection.
type Writer struct {
	connString string
	log        logger.Logger
}

// New builds a Writer against the given Postgres connection string.
func New(connString string, log logger.Logger) *Writer {
	return &Writer{connString: connString, log: log.Function("Flush")}
}

// Flush opens one connection, writes every non-empty batch to its table on
// it, in the order given, and closes the connection. An error from any
// table aborts the remaining ones.
func (w *Writer) Flush(ctx context.Context, batches []Batch) error {
	if len(batches) == 0 {
		return nil
	}

	conn, err := pgx.Connect(ctx, w.connString)
	if err != nil {
		return w.log.Err("connect", errs.NewDatabaseError("connect", err))
	}
	defer func() { _ = conn.Close(ctx) }()

	for _, b := range batches {
		if len(b.Rows) == 0 {
			continue
		}
		if err := writeTable(ctx, conn, b.Table, b.Rows); err != nil {
			return w.log.Err("write table", err, "table", b.Table.Name, "rows", len(b.Rows))
		}
		w.log.Info("flushed table", "table", b.Table.Name, "rows", len(b.Rows))
	}

	return nil
}

func writeTable(ctx context.Context, conn *pgx.Conn, table rows.TableDescriptor, records []rows.Columnar) error {
	source := pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
		return records[i].Columns(), nil
	})

	n, err := conn.CopyFrom(ctx, pgx.Identifier{table.Name}, table.ColumnNames, source)
	if err != nil {
		return errs.NewDatabaseError(fmt.Sprintf("copy into %s", table.Name), err)
	}
	if int(n) != len(records) {
		return errs.NewDatabaseError(
			fmt.Sprintf("copy into %s", table.Name),
			fmt.Errorf("wrote %d rows, expected %d", n, len(records)),
		)
	}
	return nil
}
