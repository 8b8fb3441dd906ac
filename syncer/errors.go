package syncer

import "fmt"

// Kind класс ошибки синхронизации
type Kind int

const (
	KindUnknownTable Kind = iota + 1
	KindEmptySection
	KindSchemaDrift
	KindStore
	KindFeed
)

func (k Kind) String() string {
	switch k {
	case KindUnknownTable:
		return "unknown table"
	case KindEmptySection:
		return "empty section"
	case KindSchemaDrift:
		return "schema drift"
	case KindStore:
		return "store failure"
	case KindFeed:
		return "feed failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error ошибка операции движка. Сравнивается с ErrXxx через errors.Is по Kind.
type Error struct {
	Kind  Kind
	Table string
	Err   error
}

var (
	ErrUnknownTable = &Error{Kind: KindUnknownTable}
	ErrEmptySection = &Error{Kind: KindEmptySection}
	ErrSchemaDrift  = &Error{Kind: KindSchemaDrift}
	ErrStore        = &Error{Kind: KindStore}
	ErrFeed         = &Error{Kind: KindFeed}
)

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Table != "" {
		msg += " " + e.Table
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Table == "" && t.Err == nil
}

func newError(kind Kind, table string, err error) *Error {
	return &Error{Kind: kind, Table: table, Err: err}
}
