// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for category fields.
const (
	maxCategoryNameLen = 100
	maxOptionNameLen   = 100
	maxOptionsPerCat   = 200
)

// validateCategoryName trims name and returns it, or a validation error.
func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("Category name is required.")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return "", invalid("Category name is too long (max 100 characters).")
	}
	return name, nil
}

// validateOptionNames trims every option name. Empty names are rejected
// when requireNonEmpty is set and dropped otherwise.
func validateOptionNames(names []string, requireNonEmpty bool) ([]string, error) {
	if len(names) > maxOptionsPerCat {
		return nil, invalid("Too many options (max 200).")
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			if requireNonEmpty {
				return nil, invalid("Option name is required.")
			}
			continue
		}
		if utf8.RuneCountInString(n) > maxOptionNameLen {
			return nil, invalid("Option name is too long (max 100 characters).")
		}
		out = append(out, n)
	}
	return out, nil
}
