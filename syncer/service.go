// Package syncer синхронизирует секции каталожного фида с таблицами PostgreSQL.
//
// Каждая операция заново загружает и разбирает фид. Схема существующей таблицы
// никогда не меняется: расхождение колонок возвращается как KindSchemaDrift.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"catalogsync/database"
	"catalogsync/parser"
	"catalogsync/xmlparser"
)

// Store реляционное хранилище, в которое пишутся таблицы фида
type Store interface {
	TableColumns(ctx context.Context, table string) ([]string, error)
	CreateTable(ctx context.Context, ddl string) error
	Upsert(ctx context.Context, table string, cols []string, pk string, rows []*database.Row) (int, error)
}

// Service движок синхронизации. Операции сериализуются: хранилище держит одно соединение.
type Service struct {
	src   xmlparser.Source
	store Store
	log   *slog.Logger
	mu    sync.Mutex
}

func New(src xmlparser.Source, store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{src: src, store: store, log: logger}
}

// ListTables возвращает известные таблицы, присутствующие в фиде, в порядке документа
func (s *Service) ListTables(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return listTables(root), nil
}

// TableDDL строит CREATE TABLE для таблицы по структуре фида
func (s *Service) TableDDL(ctx context.Context, table string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	return tableDDL(root, table)
}

// Update синхронизирует одну таблицу
func (s *Service) Update(ctx context.Context, table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, err := s.load(ctx)
	if err != nil {
		return err
	}
	return s.updateTable(ctx, root, table)
}

// UpdateAll синхронизирует все таблицы фида; первая ошибка прерывает обход
func (s *Service) UpdateAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, table := range listTables(root) {
		if err := s.updateTable(ctx, root, table); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) load(ctx context.Context) (*xmlparser.Node, error) {
	root, err := xmlparser.Load(ctx, s.src)
	if err != nil {
		return nil, newError(KindFeed, "", err)
	}
	return root, nil
}

func (s *Service) updateTable(ctx context.Context, root *xmlparser.Node, table string) error {
	m, section, err := resolveSection(root, table)
	if err != nil {
		return err
	}
	if len(parser.RowNodes(section, m.RowTag)) == 0 {
		return newError(KindEmptySection, table, parser.ErrEmptySection)
	}

	log := s.log.With("table", table)
	rows := parser.ExtractRows(section, m.RowTag, table)
	if len(rows) == 0 {
		log.Info("no rows to write after filtering")
		return nil
	}

	observed := parser.ObservedColumns(rows)
	pk := parser.SyncPrimaryKey(m.PrimaryKey, observed)

	live, err := s.store.TableColumns(ctx, table)
	if err != nil {
		return newError(KindStore, table, err)
	}
	if len(live) == 0 {
		ddl, err := tableDDL(root, table)
		if err != nil {
			return err
		}
		if err := s.store.CreateTable(ctx, ddl); err != nil {
			return newError(KindStore, table, err)
		}
		log.Info("table created", "ddl", ddl)

		if live, err = s.store.TableColumns(ctx, table); err != nil {
			return newError(KindStore, table, err)
		}
	}

	if err := compareColumns(observed, live); err != nil {
		return newError(KindSchemaDrift, table, err)
	}

	log.Info("start upsert", "rows", len(rows), "columns", len(observed), "pk", pk)
	n, err := s.store.Upsert(ctx, table, observed, pk, rows)
	if err != nil {
		return newError(KindStore, table, err)
	}
	log.Info("finished upsert", "rows", n)
	return nil
}

func listTables(root *xmlparser.Node) []string {
	var out []string
	for _, sec := range xmlparser.Sections(root) {
		table, ok := parser.TableForSection(sec.Tag)
		if ok && !slices.Contains(out, table) {
			out = append(out, table)
		}
	}
	return out
}

func resolveSection(root *xmlparser.Node, table string) (parser.Mapping, *xmlparser.Node, error) {
	m, ok := parser.Lookup(table)
	if !ok {
		return m, nil, newError(KindUnknownTable, table, parser.ErrTableNotInFeed)
	}
	section, ok := parser.FindSection(root, m.SectionTag)
	if !ok {
		return m, nil, newError(KindUnknownTable, table, parser.ErrTableNotInFeed)
	}
	return m, section, nil
}

func tableDDL(root *xmlparser.Node, table string) (string, error) {
	m, section, err := resolveSection(root, table)
	if err != nil {
		return "", err
	}
	cols, err := parser.InferColumns(section, m.RowTag)
	if err != nil {
		return "", newError(KindEmptySection, table, err)
	}
	pk := parser.DDLPrimaryKey(m.PrimaryKey, cols)
	return database.CreateTableDDL(database.NewTable(table, cols, pk)), nil
}

// compareColumns сравнивает наборы колонок как множества
func compareColumns(observed, live []string) error {
	var missing, extra []string
	for _, c := range observed {
		if !slices.Contains(live, c) {
			missing = append(missing, c)
		}
	}
	for _, c := range live {
		if !slices.Contains(observed, c) {
			extra = append(extra, c)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	return fmt.Errorf("feed columns not in table %v, table columns not in feed %v", missing, extra)
}
