// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hostelhub/internal/middleware"
	"hostelhub/internal/models"
	"hostelhub/internal/store"
)

const categoryNotFound = "Category not found."

// CategoryService is the persistence surface the category handlers need.
// *store.CategoryStore implements it.
type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, name string, options []string) (int64, error)
	Update(ctx context.Context, id int64, name string, opts models.OptionList) error
	Delete(ctx context.Context, id int64, force bool) error
	CountReferences(ctx context.Context, id int64) (int, error)
}

// CategoryCache holds the encoded category listing. *cache.CategoryCache
// implements it.
type CategoryCache interface {
	Get(ctx context.Context) ([]byte, bool)
	Set(ctx context.Context, data []byte)
	Invalidate(ctx context.Context)
}

// noCache is used when no CategoryCache is configured.
type noCache struct{}

func (noCache) Get(context.Context) ([]byte, bool) { return nil, false }
func (noCache) Set(context.Context, []byte)        {}
func (noCache) Invalidate(context.Context)         {}

// Categories serves the /categories endpoints. The admin guard runs in
// the router before Create, Update and Delete.
type Categories struct {
	store CategoryService
	cache CategoryCache
}

// NewCategories creates the category handlers. cache may be nil.
func NewCategories(store CategoryService, cache CategoryCache) *Categories {
	if cache == nil {
		cache = noCache{}
	}
	return &Categories{store: store, cache: cache}
}

// List returns every category with its options.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if data, ok := h.cache.Get(ctx); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("X-Cache", "HIT")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	items, err := h.store.List(ctx)
	if err != nil {
		writeError(w, r, err, categoryNotFound)
		return
	}

	data, err := json.Marshal(items)
	if err != nil {
		writeError(w, r, err, categoryNotFound)
		return
	}
	h.cache.Set(ctx, data)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Get returns one category by the {categoryId} URL parameter.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "categoryId"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, invalid("Category ID must be a positive integer."), categoryNotFound)
		return
	}

	c, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, categoryNotFound)
		return
	}
	if c == nil {
		writeError(w, r, store.ErrNotFound, categoryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Create adds a category and its options.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCategoryRequest(w, r)
	if err != nil {
		writeError(w, r, err, categoryNotFound)
		return
	}

	name, err := validateCategoryName(req.CategoryName)
	if err != nil {
		writeError(w, r, err, categoryNotFound)
		return
	}
	options, err := validateOptionNames(req.Options.names, true)
	if err != nil {
		writeError(w, r, err, categoryNotFound)
		return
	}

	id, err := h.store.Create(r.Context(), name, options)
	if err != nil {
		writeError(w, r, err, categoryNotFound)
		return
	}
	h.cache.Invalidate(r.Context())

	slog.Info("category created", "category_id", id, "options", len(options), "by", callerID(r))
	writeJSON(w, http.StatusCreated, map[string]int64{"categoryId": id})
}

// Update renames a category. When "options" is present the category's
// options are replaced; an empty list clears them.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCategoryRequest(w, r)
	if err != nil {
		writeError(w, r, err, categoryNotFound)
		return
	}

	if req.CategoryID <= 0 {
		writeError(w, r, invalid("Category ID and name are required."), categoryNotFound)
		return
	}
	name, err := validateCategoryName(req.CategoryName)
	if err != nil {
		writeError(w, r, err, categoryNotFound)
		return
	}

	opts := models.NoOptions()
	if req.Options.present {
		names, err := validateOptionNames(req.Options.names, false)
		if err != nil {
			writeError(w, r, err, categoryNotFound)
			return
		}
		opts = models.WithOptions(names...)
	}

	if err := h.store.Update(r.Context(), req.CategoryID, name, opts); err != nil {
		writeError(w, r, err, categoryNotFound)
		return
	}
	h.cache.Invalidate(r.Context())

	slog.Info("category updated",
		"category_id", req.CategoryID,
		"options_replaced", opts.Provided(),
		"by", callerID(r),
	)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category updated successfully."})
}

// Delete removes a category and its options. Without forceDelete the
// delete fails while hostels still reference the category's options.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCategoryRequest(w, r)
	if err != nil {
		writeError(w, r, err, categoryNotFound)
		return
	}

	// Some clients cannot send a DELETE body.
	if req.CategoryID == 0 {
		if v := r.URL.Query().Get("categoryId"); v != "" {
			req.CategoryID, _ = strconv.ParseInt(v, 10, 64)
			req.ForceDelete, _ = strconv.ParseBool(r.URL.Query().Get("forceDelete"))
		}
	}
	if req.CategoryID <= 0 {
		writeError(w, r, invalid("Category ID is required."), categoryNotFound)
		return
	}

	if err := h.store.Delete(r.Context(), req.CategoryID, req.ForceDelete); err != nil {
		status, resp := errorFor(r, err, categoryNotFound)
		if resp.Code == store.CodeForeignKeyViolation {
			n, cerr := h.store.CountReferences(r.Context(), req.CategoryID)
			if cerr != nil {
				slog.Warn("count category references failed", "category_id", req.CategoryID, "error", cerr)
			}
			resp.References = n
		}
		writeJSON(w, status, resp)
		return
	}
	h.cache.Invalidate(r.Context())

	slog.Info("category deleted", "category_id", req.CategoryID, "force", req.ForceDelete, "by", callerID(r))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully."})
}

// callerID returns the local user ID of the authenticated caller, or 0.
func callerID(r *http.Request) int64 {
	if ac := middleware.AuthFromCtx(r.Context()); ac != nil {
		return ac.UserID
	}
	return 0
}
