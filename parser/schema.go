package parser

import (
	"regexp"
	"strings"

	"catalogsync/database"
	"catalogsync/xmlparser"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// Sanitize заменяет символы вне [a-zA-Z0-9_] на '_'
func Sanitize(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// FindSection ищет первую секцию с тегом tag на втором уровне дерева
func FindSection(root *xmlparser.Node, tag string) (*xmlparser.Node, bool) {
	for _, s := range xmlparser.Sections(root) {
		if s.Tag == tag {
			return s, true
		}
	}
	return nil, false
}

// RowNodes возвращает строки секции. Пустой rowTag принимает любой тег.
func RowNodes(section *xmlparser.Node, rowTag string) []*xmlparser.Node {
	var out []*xmlparser.Node
	for _, n := range section.Children {
		if n.Tag == "" || (rowTag != "" && !strings.EqualFold(n.Tag, rowTag)) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// InferColumns выводит набор колонок секции: атрибуты с выведенным типом,
// дочерние элементы как TEXT и name, если у строки есть собственный текст.
func InferColumns(section *xmlparser.Node, rowTag string) (*database.ColumnSet, error) {
	rows := RowNodes(section, rowTag)
	if len(rows) == 0 {
		return nil, ErrEmptySection
	}

	cols := database.NewOrderedMap[database.ColumnType]()
	for _, n := range rows {
		for _, a := range n.Attrs {
			cols.SetIfAbsent(Sanitize(a.Name), database.InferType(a.Value))
		}
		for _, c := range n.Children {
			if c.Tag == "" {
				continue
			}
			cols.SetIfAbsent(Sanitize(c.Tag), database.TypeText)
		}
		if strings.TrimSpace(n.Text) != "" {
			cols.SetIfAbsent("name", database.TypeText)
		}
	}
	return cols, nil
}

// DDLPrimaryKey предпочитает preferred, иначе берет первую колонку
func DDLPrimaryKey(preferred string, cols *database.ColumnSet) string {
	if cols.Has(preferred) {
		return preferred
	}
	keys := cols.Keys()
	if len(keys) == 0 {
		return preferred
	}
	return keys[0]
}

// SyncPrimaryKey предпочитает preferred, иначе ищет колонку id/vendorcode без учета
// регистра, иначе берет первую наблюдаемую колонку.
func SyncPrimaryKey(preferred string, observed []string) string {
	for _, c := range observed {
		if c == preferred {
			return preferred
		}
	}
	for _, c := range observed {
		if strings.EqualFold(c, "id") || strings.EqualFold(c, "vendorcode") {
			return c
		}
	}
	if len(observed) > 0 {
		return observed[0]
	}
	return preferred
}
