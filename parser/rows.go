package parser

import (
	"strings"

	"catalogsync/database"
	"catalogsync/xmlparser"
)

// ExtractRows превращает строки секции в плоские записи.
// Для offers строки без vendorCode отбрасываются.
func ExtractRows(section *xmlparser.Node, rowTag, table string) []*database.Row {
	var rows []*database.Row
	for _, n := range RowNodes(section, rowTag) {
		row := rowToMap(n)
		if table == TableOffers {
			if v, ok := row.Get("vendorCode"); !ok || strings.TrimSpace(v) == "" {
				continue
			}
		}
		if row.Len() == 0 {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// ObservedColumns объединяет колонки всех записей в порядке первого появления
func ObservedColumns(rows []*database.Row) []string {
	seen := database.NewOrderedMap[struct{}]()
	for _, r := range rows {
		for col := range r.All() {
			seen.SetIfAbsent(col, struct{}{})
		}
	}
	return seen.Keys()
}

// rowToMap: первое значение колонки не перезаписывается
func rowToMap(n *xmlparser.Node) *database.Row {
	row := database.NewOrderedMap[string]()
	for _, a := range n.Attrs {
		row.SetIfAbsent(Sanitize(a.Name), a.Value)
	}
	for _, c := range n.Children {
		if c.Tag == "" {
			continue
		}
		row.SetIfAbsent(Sanitize(c.Tag), strings.TrimSpace(c.InnerText()))
	}
	if text := strings.TrimSpace(n.Text); text != "" {
		row.SetIfAbsent("name", text)
	}
	return row
}
