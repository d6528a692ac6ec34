// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category is a named grouping of hostel options, e.g. "Amenities".
type Category struct {
	ID      int64    `json:"categoryId"`
	Name    string   `json:"categoryName"`
	Options []Option `json:"options"`
}

// Option is a named value under a category, e.g. "WiFi".
type Option struct {
	ID   int64  `json:"optionId"`
	Name string `json:"optionName"`
}

// OptionNames returns the names of the category's options in order.
func (c *Category) OptionNames() []string {
	names := make([]string, 0, len(c.Options))
	for _, o := range c.Options {
		names = append(names, o.Name)
	}
	return names
}

// OptionList carries the options argument of a category update. It keeps
// "not provided" distinct from "provided but empty", because the two have
// different destructive effects: an absent list leaves existing options
// alone, an empty list removes them all.
type OptionList struct {
	provided bool
	names    []string
}

// NoOptions returns an OptionList meaning "options were not provided".
func NoOptions() OptionList {
	return OptionList{}
}

// WithOptions returns a provided OptionList. Calling it with no names
// yields an explicit empty list.
func WithOptions(names ...string) OptionList {
	return OptionList{provided: true, names: append([]string(nil), names...)}
}

// Provided reports whether an options list was supplied at all.
func (l OptionList) Provided() bool {
	return l.provided
}

// Names returns the supplied option names. It is nil when not provided.
func (l OptionList) Names() []string {
	return l.names
}
