package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/lib/pq"

	"catalogsync/parser"
	"catalogsync/syncer"
)

// userMessage переводит ошибку движка в сообщение для оператора
func userMessage(err error) string {
	var serr *syncer.Error
	if !errors.As(err, &serr) {
		return err.Error()
	}

	switch serr.Kind {
	case syncer.KindUnknownTable:
		return fmt.Sprintf("Таблица %q не существует в XML. Доступные таблицы: %s.",
			serr.Table, strings.Join(parser.TableNames(), ", "))
	case syncer.KindEmptySection:
		return fmt.Sprintf("В секции %q нет данных (пустая таблица в XML).", serr.Table)
	case syncer.KindSchemaDrift:
		return fmt.Sprintf("Изменилась структура таблицы %q. Пересоздайте таблицу (DROP TABLE) или приведите XML к текущей схеме.", serr.Table)
	case syncer.KindStore:
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return fmt.Sprintf("Ошибка БД: %s (SQLSTATE %s)", pqErr.Message, pqErr.Code)
		}
		return "Ошибка БД: " + causeOf(serr)
	case syncer.KindFeed:
		return "Ошибка чтения или разбора XML: " + causeOf(serr)
	default:
		return err.Error()
	}
}

func causeOf(e *syncer.Error) string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

// printError печатает сообщение и, для ошибок движка, техническую причину
func printError(w io.Writer, err error) {
	color.New(color.FgRed, color.Bold).Fprintf(w, "Ошибка: %s\n", userMessage(err))

	var serr *syncer.Error
	if errors.As(err, &serr) && serr.Kind == syncer.KindSchemaDrift && serr.Err != nil {
		color.New(color.FgCyan).Fprintf(w, "  Причина: %s\n", serr.Err)
	}
}
