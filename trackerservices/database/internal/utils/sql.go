package utils

import (
	"fmt"
	"strings"
)

type partKind int

const (
	partText partKind = iota
	partValue
	partList
)

// Part is one fragment of a statement: raw SQL text, a single bound value or a
// list of bound values rendered as a comma separated placeholder list.
type Part struct {
	kind   partKind
	text   string
	values []any
}

func Text(text string) Part {
	return Part{kind: partText, text: text}
}

func Value(value any) Part {
	return Part{kind: partValue, values: []any{value}}
}

func List(values []any) Part {
	return Part{kind: partList, values: values}
}

// Prepare renders the parts in order, numbering placeholders as they are
// encountered so the argument slice always lines up with the SQL text.
func Prepare(parts []Part, numberedParams bool) (string, []any) {
	builder := strings.Builder{}
	args := []any{}

	counter := 0
	paramBuilder := func() string {
		counter++
		if !numberedParams {
			return "?"
		}

		return fmt.Sprintf("$%d", counter)
	}

	for _, part := range parts {
		switch part.kind {
		case partText:
			builder.WriteString(part.text)
		case partValue:
			builder.WriteString(paramBuilder())
			args = append(args, part.values[0])
		case partList:
			placeholders := []string{}
			for _, value := range part.values {
				placeholders = append(placeholders, paramBuilder())
				args = append(args, value)
			}

			builder.WriteString(strings.Join(placeholders, ", "))
		}
	}

	return strings.TrimSpace(builder.String()), args
}
