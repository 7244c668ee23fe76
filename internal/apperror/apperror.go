// Package apperror описывает виды ошибок движка и их сопоставление через errors.Is.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindAlreadyActive       Kind = "already_active"
	KindNotFound            Kind = "not_found"
	KindInvalidTransition   Kind = "invalid_transition"
	KindConcurrencyConflict Kind = "concurrency_conflict"
	KindDeliveryFailure     Kind = "delivery_failure"
	KindConfiguration       Kind = "configuration"
	KindValidation          Kind = "validation"
	KindDuplicate           Kind = "duplicate"
)

// Sentinel-значения для errors.Is
var (
	ErrAlreadyActive       = &Error{Kind: KindAlreadyActive, Message: "emergency already active"}
	ErrNotFound            = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalidTransition   = &Error{Kind: KindInvalidTransition, Message: "invalid transition"}
	ErrConcurrencyConflict = &Error{Kind: KindConcurrencyConflict, Message: "concurrency conflict"}
	ErrDeliveryFailure     = &Error{Kind: KindDeliveryFailure, Message: "delivery failed"}
	ErrConfiguration       = &Error{Kind: KindConfiguration, Message: "configuration error"}
	ErrValidation          = &Error{Kind: KindValidation, Message: "validation error"}
	ErrDuplicate           = &Error{Kind: KindDuplicate, Message: "duplicate"}
)

type KeyValue struct {
	Key   string
	Value any
}

// Error - ошибка с видом и контекстом сущности
type Error struct {
	Kind       Kind
	Entity     string
	EntityID   string
	Transition string
	Message    string
	Err        error
	Context    []KeyValue
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Entity != "" {
		fmt.Fprintf(&b, " (%s", e.Entity)
		if e.EntityID != "" {
			fmt.Fprintf(&b, " %s", e.EntityID)
		}
		if e.Transition != "" {
			fmt.Fprintf(&b, ", %s", e.Transition)
		}
		b.WriteString(")")
	}
	for _, kv := range e.Context {
		fmt.Fprintf(&b, " %s=%v", kv.Key, kv.Value)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по виду, поэтому errors.Is(err, ErrNotFound) работает для любой ошибки этого вида
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// WithContext возвращает копию ошибки с дополнительной парой ключ/значение
func (e *Error) WithContext(key string, value any) *Error {
	c := *e
	c.Context = append(append([]KeyValue(nil), e.Context...), KeyValue{Key: key, Value: value})
	return &c
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, EntityID: id, Message: entity + " not found"}
}

func InvalidTransition(entity, id, from, to string) *Error {
	return &Error{
		Kind:       KindInvalidTransition,
		Entity:     entity,
		EntityID:   id,
		Transition: from + " -> " + to,
		Message:    "invalid transition",
	}
}

func ConcurrencyConflict(entity, id string) *Error {
	return &Error{Kind: KindConcurrencyConflict, Entity: entity, EntityID: id, Message: "version conflict"}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Configuration(entity, id, message string) *Error {
	return &Error{Kind: KindConfiguration, Entity: entity, EntityID: id, Message: message}
}

// KindOf возвращает вид первой ошибки *Error в цепочке
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func AlreadyActive(entity, id string) *Error {
	return &Error{Kind: KindAlreadyActive, Entity: entity, EntityID: id, Message: entity + " already active"}
}

func Duplicate(entity, key string) *Error {
	return &Error{Kind: KindDuplicate, Entity: entity, EntityID: key, Message: "duplicate " + entity}
}
