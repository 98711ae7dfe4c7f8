package main

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

var (
	ErrDuplicateBook   = errors.New("book already exists")
	ErrBookNotFound    = errors.New("book not found")
	ErrBookUnavailable = errors.New("book is already borrowed")
	ErrMalformedInput  = errors.New("malformed input")
)

type (
	ContextKey        string
	missingFieldError string
)

const (
	SessionIDPrefix     string     = "s"
	CommandIDPrefix     string     = "c"
	CommandIDContextKey ContextKey = "command.id"
)

func (m missingFieldError) Error() string {
	return string(m) + " is required"
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		return val.(string)
	}
	return ""
}

// ValidateBookFields is a helper function to check if the descriptive
// fields submitted for an add or update command are usable.
func ValidateBookFields(isbn, title, author string) error {
	if len(isbn) == 0 {
		return missingFieldError("isbn")
	}

	if len(title) == 0 {
		return missingFieldError("title")
	}

	if len(author) == 0 {
		return missingFieldError("author")
	}

	return nil
}

// ParseNumber converts a line of user input into an integer. It is used
// for both menu choices and publication years, which share the same
// malformed input handling at the menu boundary.
func ParseNumber(input string) (int, error) {
	number, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, ErrMalformedInput
	}
	return number, nil
}
