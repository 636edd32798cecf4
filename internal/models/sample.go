package models

import (
	"strings"
	"unicode/utf8"
)

// Sample is a snapshot of one inbound message text, built once per event
// and discarded after the pipeline finishes.
type Sample struct {
	Text   string
	Lines  []string
	Length int // characters, not bytes
}

// NewSample derives the line split and character count from raw text.
func NewSample(text string) Sample {
	return Sample{
		Text:   text,
		Lines:  strings.Split(text, "\n"),
		Length: utf8.RuneCountInString(text),
	}
}
