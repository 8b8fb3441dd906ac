package database

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	integerPattern = regexp.MustCompile(`^[+-]?\d+$`)
	decimalPattern = regexp.MustCompile(`^[+-]?\d+\.\d+$`)
)

// InferType определяет тип колонки по строковому значению.
// Целые вне диапазона int64 считаются текстом.
func InferType(v string) ColumnType {
	switch {
	case v == "":
		return TypeText
	case integerPattern.MatchString(v):
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			return TypeText
		}
		return TypeBigInt
	case decimalPattern.MatchString(v):
		return TypeNumeric
	case isBool(v):
		return TypeBoolean
	default:
		return TypeText
	}
}

// TypedValue конвертирует сырое значение в нативный тип для драйвера.
// Отсутствующее значение становится NULL.
func TypedValue(v string, present bool) any {
	if !present {
		return nil
	}
	switch InferType(v) {
	case TypeBoolean:
		return strings.EqualFold(v, "true")
	case TypeBigInt:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case TypeNumeric:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return v
		}
		return d
	default:
		return v
	}
}

func isBool(v string) bool {
	return strings.EqualFold(v, "true") || strings.EqualFold(v, "false")
}
