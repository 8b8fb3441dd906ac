package parser

import "errors"

var (
	// ErrTableNotInFeed таблица неизвестна или ее секции нет в фиде
	ErrTableNotInFeed = errors.New("table not in feed")
	// ErrEmptySection секция есть, но в ней нет ни одной строки
	ErrEmptySection = errors.New("section has no rows")
)

const (
	TableCurrency   = "currency"
	TableCategories = "categories"
	TableOffers     = "offers"
)

// Mapping связывает имя таблицы с тегами фида
type Mapping struct {
	Table      string
	SectionTag string
	RowTag     string
	PrimaryKey string
}

var mappings = []Mapping{
	{Table: TableCurrency, SectionTag: "currencies", RowTag: "currency", PrimaryKey: "id"},
	{Table: TableCategories, SectionTag: "categories", RowTag: "category", PrimaryKey: "id"},
	{Table: TableOffers, SectionTag: "offers", RowTag: "offer", PrimaryKey: "vendorCode"},
}

// Lookup возвращает теги для имени таблицы
func Lookup(table string) (Mapping, bool) {
	for _, m := range mappings {
		if m.Table == table {
			return m, true
		}
	}
	return Mapping{}, false
}

// TableForSection возвращает имя таблицы по тегу секции
func TableForSection(tag string) (string, bool) {
	for _, m := range mappings {
		if m.SectionTag == tag {
			return m.Table, true
		}
	}
	return "", false
}

// TableNames все известные таблицы
func TableNames() []string {
	out := make([]string, len(mappings))
	for i, m := range mappings {
		out[i] = m.Table
	}
	return out
}
