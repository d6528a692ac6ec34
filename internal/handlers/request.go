// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps category request bodies.
const maxBodyBytes = 1 << 20

var errNullOptions = errors.New("options must be an array, not null")

// categoryRequest is the body shared by POST, PUT and DELETE /categories.
type categoryRequest struct {
	CategoryID   int64        `json:"categoryId"`
	CategoryName string       `json:"categoryName"`
	Options      optionsField `json:"options"`
	ForceDelete  bool         `json:"forceDelete"`
}

// optionsField records whether "options" was present in the body, so an
// absent key can be told apart from an explicit empty array.
type optionsField struct {
	present bool
	names   []string
}

// UnmarshalJSON accepts an array of option entries and rejects null.
func (f *optionsField) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errNullOptions
	}
	var entries []optionEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	f.present = true
	f.names = make([]string, len(entries))
	for i, e := range entries {
		f.names[i] = string(e)
	}
	return nil
}

// optionEntry is either a bare option name or an {"optionName": ...} object.
// An object without a name decodes to "", which updates skip and creates
// reject.
type optionEntry string

// UnmarshalJSON normalizes both entry shapes to the option name.
func (e *optionEntry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = optionEntry(s)
		return nil
	}
	var obj struct {
		OptionName *string `json:"optionName"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("option must be a string or an object with optionName")
	}
	*e = ""
	if obj.OptionName != nil {
		*e = optionEntry(*obj.OptionName)
	}
	return nil
}

// decodeCategoryRequest reads the JSON body. An empty body decodes to the
// zero request so the caller's field checks produce the error.
func decodeCategoryRequest(w http.ResponseWriter, r *http.Request) (*categoryRequest, error) {
	var req categoryRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return &req, nil
	case errors.Is(err, errNullOptions):
		return nil, invalid("Options must be a list.")
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, invalid("Request body is too large.")
		}
		return nil, invalid("Invalid JSON body: " + err.Error())
	}
}
