package database

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// CreateTableDDL создает DDL таблицы: колонки в порядке вывода и PRIMARY KEY
func CreateTableDDL(t Table) string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		defs = append(defs, fmt.Sprintf("%s %s", pq.QuoteIdentifier(c.Name), c.Type))
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s, PRIMARY KEY (%s))",
		pq.QuoteIdentifier(t.Name),
		strings.Join(defs, ", "),
		pq.QuoteIdentifier(t.PrimaryKey),
	)
}

// upsertQuery строит многострочный INSERT ... ON CONFLICT для rowCount строк
func upsertQuery(table string, cols []string, pk string, rowCount int) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pq.QuoteIdentifier(c)
	}

	placeholders := make([]string, 0, rowCount)
	for i := 0; i < rowCount; i++ {
		ph := make([]string, len(cols))
		for j := range cols {
			ph[j] = fmt.Sprintf("$%d", i*len(cols)+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(ph, ", ")+")")
	}

	var sets []string
	for i, c := range cols {
		if c == pk {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", quoted[i], quoted[i]))
	}

	action := "DO NOTHING"
	if len(sets) > 0 {
		action = "DO UPDATE SET " + strings.Join(sets, ", ")
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s ON CONFLICT (%s) %s",
		pq.QuoteIdentifier(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
		pq.QuoteIdentifier(pk),
		action,
	)
}
