package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultBatchSize число строк в одном INSERT
const DefaultBatchSize = 500

// maxBindParams лимит параметров одного запроса в протоколе PostgreSQL
const maxBindParams = 65535

// Postgres хранилище поверх одного *sql.DB
type Postgres struct {
	db        *sql.DB
	batchSize int
	log       *slog.Logger
}

// NewPostgres оборачивает открытое соединение
func NewPostgres(db *sql.DB, batchSize int, logger *slog.Logger) *Postgres {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{db: db, batchSize: batchSize, log: logger}
}

// Open открывает соединение с одним долгоживущим подключением и проверяет его
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// CreateTable выполняет DDL создания таблицы
func (p *Postgres) CreateTable(ctx context.Context, ddl string) error {
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

// Upsert вставляет или обновляет строки по первичному ключу в одной транзакции.
// Каждая строка пишет все колонки cols; отсутствующие значения пишутся как NULL.
func (p *Postgres) Upsert(ctx context.Context, table string, cols []string, pk string, rows []*Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if len(cols) == 0 {
		return 0, fmt.Errorf("upsert into %s: no columns", table)
	}

	limit := p.batchSize
	if perStmt := maxBindParams / len(cols); perStmt < limit {
		limit = perStmt
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction failed: %w", err)
	}
	defer tx.Rollback()

	var written int
	for _, batch := range splitBatches(rows, pk, limit) {
		query := upsertQuery(table, cols, pk, len(batch))
		if _, err := tx.ExecContext(ctx, query, batchArgs(batch, cols)...); err != nil {
			return 0, fmt.Errorf("batch upsert into %s failed: %w", table, err)
		}
		written += len(batch)
		p.log.Debug("batch flushed", "table", table, "rows", len(batch), "total", written)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit failed: %w", err)
	}
	return written, nil
}

// splitBatches режет строки на пачки не больше limit. Повтор значения ключа
// внутри пачки начинает новую: ON CONFLICT не может затронуть строку дважды.
// Ключи сравниваются в канонической форме, как их сравнит PostgreSQL.
func splitBatches(rows []*Row, pk string, limit int) [][]*Row {
	var (
		out  [][]*Row
		cur  []*Row
		seen = map[string]struct{}{}
	)
	for _, r := range rows {
		raw, ok := r.Get(pk)
		key := canonicalKey(raw)
		_, dup := seen[key]
		if len(cur) >= limit || (ok && dup) {
			out = append(out, cur)
			cur = nil
			seen = map[string]struct{}{}
		}
		cur = append(cur, r)
		if ok {
			seen[key] = struct{}{}
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// canonicalKey приводит значение ключа к форме, в которой равные для базы
// значения совпадают: "1", "01", " 1" и "1.0" дают одно и то же.
// Лишнее разбиение пачки безопасно, пропущенный дубль нет.
func canonicalKey(v string) string {
	trimmed := strings.TrimSpace(v)
	switch tv := TypedValue(trimmed, true).(type) {
	case int64:
		return "n:" + decimal.NewFromInt(tv).String()
	case decimal.Decimal:
		return "n:" + tv.String()
	case bool:
		return "b:" + strconv.FormatBool(tv)
	default:
		return "s:" + trimmed
	}
}

// batchArgs раскладывает значения пачки в плоский список параметров
func batchArgs(batch []*Row, cols []string) []any {
	args := make([]any, 0, len(batch)*len(cols))
	for _, r := range batch {
		for _, c := range cols {
			v, ok := r.Get(c)
			args = append(args, TypedValue(v, ok))
		}
	}
	return args
}
