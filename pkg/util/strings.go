package util

import "strings"

// UniqueStrings returns the trimmed, non empty values in first seen order, leaving out anything in ignore
func UniqueStrings(values []string, ignore ...string) []string {
	seen := make(map[string]struct{}, len(values)+len(ignore))
	for _, value := range ignore {
		seen[value] = struct{}{}
	}

	var unique []string
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}

		seen[value] = struct{}{}
		unique = append(unique, value)
	}

	return unique
}
