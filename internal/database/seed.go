// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// seedOptions lists the development categories and their options in
// insertion order.
var seedOptions = []struct {
	Category string
	Options  []string
}{
	{"Amenities", []string{"Food", "WiFi", "AC", "Water Heater"}},
	{"Distance", []string{"Near 500m", "1km", "More than 1km"}},
	{"Hostel Type", []string{"PG", "Rented"}},
	{"Gender", []string{"Boys", "Girls"}},
}

// seedHostel describes one development hostel and its linked data.
type seedHostel struct {
	Name, Description, Location, Address, Phone, Email, Website string
	CreatedBy                                                    string
	Options                                                      [][2]string // {category, option}
	ImageURL                                                     string
	Rating                                                       string
	Comment                                                      string
	CommentEmail                                                 string
}

var seedHostels = []seedHostel{
	{
		Name:        "Kerala PG Hostel",
		Description: "Comfortable PG for boys with all basic amenities.",
		Location:    "https://maps.google.com/?q=Kerala+PG+Hostel",
		Address:     "Near College, Kerala",
		Phone:       "+918000111222",
		Email:       "pgkerala@example.com",
		Website:     "https://pgkerala.example.com",
		CreatedBy:   "Alice",
		Options: [][2]string{
			{"Amenities", "Food"}, {"Amenities", "WiFi"}, {"Amenities", "AC"},
			{"Distance", "Near 500m"}, {"Hostel Type", "PG"}, {"Gender", "Boys"},
		},
		ImageURL:     "https://example.com/pg1.jpg",
		Rating:       "4.5",
		Comment:      "Nice PG with great facilities.",
		CommentEmail: "alice@example.com",
	},
	{
		Name:        "Girls Hostel Kerala",
		Description: "Safe and well-maintained hostel for girls.",
		Location:    "https://maps.google.com/?q=Girls+Hostel+Kerala",
		Address:     "College Road, Kerala",
		Phone:       "+918000333444",
		Email:       "girlskerala@example.com",
		Website:     "https://girlskerala.example.com",
		CreatedBy:   "Bob",
		Options: [][2]string{
			{"Amenities", "WiFi"}, {"Amenities", "Water Heater"},
			{"Distance", "1km"}, {"Hostel Type", "Rented"}, {"Gender", "Girls"},
		},
		ImageURL:     "https://example.com/girls1.jpg",
		Rating:       "4.8",
		Comment:      "Safe and comfortable hostel.",
		CommentEmail: "bob@example.com",
	},
}

var seedUsers = []string{"Alice", "Bob", "Charlie"}

// Seed populates the database with development data: three student users,
// the standard categories with their options, and two hostels linked to
// those options together with an image, a rating and a comment each.
// It is a no-op when any category already exists. Everything is inserted
// in a single transaction.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	userIDs := make(map[string]int64, len(seedUsers))
	for _, name := range seedUsers {
		var id int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO users (user_role, display_name) VALUES ($1, $2) RETURNING uid`,
			"student", name,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert user %s: %w", name, err)
		}
		userIDs[name] = id
	}

	categoryIDs := make(map[string]int64, len(seedOptions))
	optionIDs := make(map[[2]string]int64)
	for _, c := range seedOptions {
		var catID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO categories (category) VALUES ($1) RETURNING category_id`, c.Category,
		).Scan(&catID)
		if err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.Category, err)
		}
		categoryIDs[c.Category] = catID

		for _, opt := range c.Options {
			var optID int64
			err := tx.QueryRowContext(ctx,
				`INSERT INTO category_option_values (option_name, category_id) VALUES ($1, $2) RETURNING option_id`,
				opt, catID,
			).Scan(&optID)
			if err != nil {
				return fmt.Errorf("seed insert option %s/%s: %w", c.Category, opt, err)
			}
			optionIDs[[2]string{c.Category, opt}] = optID
		}
	}

	for _, h := range seedHostels {
		creator := userIDs[h.CreatedBy]

		var hostelID int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO hostels (hostel_name, hostel_description, location, address,
			                     phone_number, email, website, created_by_uid)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING hostel_id
		`, h.Name, h.Description, h.Location, h.Address, h.Phone, h.Email, h.Website, creator).Scan(&hostelID)
		if err != nil {
			return fmt.Errorf("seed insert hostel %s: %w", h.Name, err)
		}

		for _, ref := range h.Options {
			optID, ok := optionIDs[ref]
			if !ok {
				return fmt.Errorf("seed hostel %s: unknown option %s/%s", h.Name, ref[0], ref[1])
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO hostel_options (hostel_id, category_id, option_id) VALUES ($1, $2, $3)`,
				hostelID, categoryIDs[ref[0]], optID,
			); err != nil {
				return fmt.Errorf("seed link hostel option: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO hostel_images (hostel_id, image_url, is_primary) VALUES ($1, $2, TRUE)`,
			hostelID, h.ImageURL,
		); err != nil {
			return fmt.Errorf("seed insert image: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ratings (hostel_id, user_id, overall_rating) VALUES ($1, $2, $3)`,
			hostelID, creator, h.Rating,
		); err != nil {
			return fmt.Errorf("seed insert rating: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO comments (hostel_id, user_id, comment_text, user_name, user_email, is_verified)
			VALUES ($1, $2, $3, $4, $5, TRUE)
		`, hostelID, creator, h.Comment, h.CreatedBy, h.CommentEmail); err != nil {
			return fmt.Errorf("seed insert comment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with development data",
		"users", len(seedUsers),
		"categories", len(seedOptions),
		"hostels", len(seedHostels),
	)
	return nil
}
