package utils

import (
	"regexp"
	"strings"
)

var (
	// Nested relation projections such as "id, customer:customers(name)" or
	// "driver!inner(*)" need the punctuation beyond plain identifiers.
	selectListRegex = regexp.MustCompile(`^[A-Za-z0-9_\s,.*():!]+$`)
	plainIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	columnRegex     = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)
)

const maxIdentifierLength = 128

func IsSelectList(columns string) bool {
	return selectListRegex.MatchString(columns)
}

func IsPlainIdentifier(name string) bool {
	return len(name) <= maxIdentifierLength && plainIdentifier.MatchString(name)
}

func IsColumn(name string) bool {
	return len(name) <= maxIdentifierLength && columnRegex.MatchString(name)
}

// SplitIdentifiers splits a comma separated identifier list, returning the
// first segment that is not a plain identifier.
func SplitIdentifiers(list string) ([]string, string, bool) {
	identifiers := []string{}
	for _, segment := range strings.Split(list, ",") {
		segment = strings.TrimSpace(segment)
		if !IsPlainIdentifier(segment) {
			return nil, segment, false
		}

		identifiers = append(identifiers, segment)
	}

	return identifiers, "", true
}
