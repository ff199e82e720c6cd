package card

import (
	"errors"
	"fmt"
	"strings"
)

// Field names the transform reads or derives.
const (
	FieldTitle        = "title"
	FieldText         = "text"
	FieldSubtypeCode  = "subtype_code"
	FieldImageSrc     = "imagesrc"
	FieldURL          = "url"
	FieldNRDBURL      = "nrdb_url"
	FieldBreakCost    = "breakcost"
	FieldStrengthCost = "strengthcost"
	FieldCGDBURL      = "cgdb_url"
)

// ErrMissingField is returned when a record lacks an attribute the transform
// depends on.
var ErrMissingField = errors.New("missing field")

// FieldError names the record and the field that could not be read.
type FieldError struct {
	Title string
	Field string
}

func (e *FieldError) Error() string {
	title := e.Title
	if title == "" {
		title = "<untitled>"
	}
	return fmt.Sprintf("card %q: %s %q", title, ErrMissingField, e.Field)
}

func (e *FieldError) Unwrap() error {
	return ErrMissingField
}

// Record is one card as decoded from JSON: field name to value.
type Record map[string]any

// Has reports whether the field is present and not null.
func (r Record) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}

// String returns a string field or a *FieldError when it is absent or not a string.
func (r Record) String(field string) (string, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", &FieldError{Title: r.TitleOrEmpty(), Field: field}
	}
	s, ok := v.(string)
	if !ok {
		return "", &FieldError{Title: r.TitleOrEmpty(), Field: field}
	}
	return s, nil
}

// Title returns the identity key of the record.
func (r Record) Title() (string, error) {
	return r.String(FieldTitle)
}

// TitleOrEmpty is Title without the error, for messages and predicates.
func (r Record) TitleOrEmpty() string {
	s, _ := r[FieldTitle].(string)
	return s
}

// Subtypes returns the subtype tags of the card. Both the list form
// ["icebreaker","killer"] and the older "icebreaker - killer" string are read.
func (r Record) Subtypes() []string {
	switch v := r[FieldSubtypeCode].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		parts := strings.Split(v, " - ")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	default:
		return nil
	}
}

// HasSubtype reports whether tag is one of the card's subtypes.
func (r Record) HasSubtype(tag string) bool {
	for _, s := range r.Subtypes() {
		if strings.EqualFold(s, tag) {
			return true
		}
	}
	return false
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
