package database

import "iter"

// ColumnType SQL-тип колонки, выведенный из значений фида
type ColumnType string

const (
	TypeBigInt  ColumnType = "BIGINT"
	TypeNumeric ColumnType = "NUMERIC(20,6)"
	TypeBoolean ColumnType = "BOOLEAN"
	TypeText    ColumnType = "TEXT"
)

// Column представляет колонку таблицы
type Column struct {
	Name string
	Type ColumnType
}

// OrderedMap словарь, сохраняющий порядок первой вставки ключей.
// Нулевое значение готово к использованию.
type OrderedMap[V any] struct {
	keys   []string
	values []V
	index  map[string]int
}

// NewOrderedMap создает пустой словарь
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{index: map[string]int{}}
}

// SetIfAbsent добавляет ключ, если его еще нет. Существующее значение не перезаписывается.
func (m *OrderedMap[V]) SetIfAbsent(key string, value V) bool {
	if m.index == nil {
		m.index = map[string]int{}
	}
	if _, ok := m.index[key]; ok {
		return false
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
	return true
}

// Get возвращает значение по ключу
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.values[i], true
}

func (m *OrderedMap[V]) Has(key string) bool {
	_, ok := m.index[key]
	return ok
}

func (m *OrderedMap[V]) Len() int {
	return len(m.keys)
}

// Keys возвращает копию ключей в порядке вставки
func (m *OrderedMap[V]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// All перебирает пары в порядке вставки
func (m *OrderedMap[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for i, k := range m.keys {
			if !yield(k, m.values[i]) {
				return
			}
		}
	}
}

// ColumnSet упорядоченный набор колонок: имя -> выведенный тип
type ColumnSet = OrderedMap[ColumnType]

// Row одна запись фида: имя колонки -> сырое строковое значение
type Row = OrderedMap[string]

// Table представляет таблицу с колонками
type Table struct {
	Name       string
	Columns    []Column // Порядок сохранён
	PrimaryKey string
}

// NewTable собирает описание таблицы из набора колонок
func NewTable(name string, cols *ColumnSet, pk string) Table {
	t := Table{Name: name, PrimaryKey: pk}
	for col, typ := range cols.All() {
		t.Columns = append(t.Columns, Column{Name: col, Type: typ})
	}
	return t
}
