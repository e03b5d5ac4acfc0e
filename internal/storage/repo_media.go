package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
)

type mediaRepository struct {
	db *sql.DB
}

const mediaColumns = `id, title, media_type, genre, release_date, director, description, rating, status, image_path, date_added`

func (r *mediaRepository) Create(ctx context.Context, item *MediaItem) (int64, error) {
	if item == nil {
		return 0, fmt.Errorf("create media item: item is nil")
	}

	item.DateAdded = nowUTC()
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO media_items(title, media_type, genre, release_date, director, description, rating, status, image_path, date_added)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.Title, item.MediaType, nullableString(item.Genre), nullableString(item.ReleaseDate),
		nullableString(item.Director), nullableString(item.Description), nullableFloat(item.Rating),
		item.Status, nullableString(item.ImagePath), fmtTime(item.DateAdded))
	if err != nil {
		return 0, fmt.Errorf("create media item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create media item: last insert id: %w", err)
	}
	item.ID = id
	return id, nil
}

func (r *mediaRepository) Get(ctx context.Context, id int64) (*MediaItem, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+mediaColumns+`
		FROM media_items
		WHERE id = ?
	`, id)

	item, err := scanMediaItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get media item: %w", err)
	}
	return item, nil
}

func (r *mediaRepository) List(ctx context.Context) ([]MediaItem, error) {
	return r.queryItems(ctx, "list media items", `
		SELECT `+mediaColumns+`
		FROM media_items
		ORDER BY date_added DESC, id DESC
	`)
}

func (r *mediaRepository) SearchByTitle(ctx context.Context, substring string) ([]MediaItem, error) {
	pattern := "%" + escapeLike(substring) + "%"
	return r.queryItems(ctx, "search media items", `
		SELECT `+mediaColumns+`
		FROM media_items
		WHERE title LIKE ? ESCAPE '\'
		ORDER BY title ASC
	`, pattern)
}

func (r *mediaRepository) FilterByType(ctx context.Context, mediaType string) ([]MediaItem, error) {
	return r.queryItems(ctx, "filter media items by type", `
		SELECT `+mediaColumns+`
		FROM media_items
		WHERE media_type = ?
		ORDER BY title ASC
	`, mediaType)
}

func (r *mediaRepository) FilterByStatus(ctx context.Context, status string) ([]MediaItem, error) {
	return r.queryItems(ctx, "filter media items by status", `
		SELECT `+mediaColumns+`
		FROM media_items
		WHERE status = ?
		ORDER BY title ASC
	`, status)
}

func (r *mediaRepository) Update(ctx context.Context, item *MediaItem) (bool, error) {
	if item == nil {
		return false, fmt.Errorf("update media item: item is nil")
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE media_items
		SET title = ?, media_type = ?, genre = ?, release_date = ?, director = ?, description = ?, rating = ?, status = ?, image_path = ?
		WHERE id = ?
	`, item.Title, item.MediaType, nullableString(item.Genre), nullableString(item.ReleaseDate),
		nullableString(item.Director), nullableString(item.Description), nullableFloat(item.Rating),
		item.Status, nullableString(item.ImagePath), item.ID)
	if err != nil {
		return false, fmt.Errorf("update media item: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update media item: rows affected: %w", err)
	}
	return count > 0, nil
}

func (r *mediaRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM media_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete media item: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete media item: rows affected: %w", err)
	}
	return count > 0, nil
}

func (r *mediaRepository) Statistics(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		TypeBreakdown:   map[string]int{},
		StatusBreakdown: map[string]int{},
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media_items`).Scan(&stats.TotalItems); err != nil {
		return nil, fmt.Errorf("statistics: count items: %w", err)
	}

	if err := r.breakdown(ctx, "media_type", stats.TypeBreakdown); err != nil {
		return nil, err
	}
	if err := r.breakdown(ctx, "status", stats.StatusBreakdown); err != nil {
		return nil, err
	}

	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, `SELECT AVG(rating) FROM media_items WHERE rating IS NOT NULL`).Scan(&avg); err != nil {
		return nil, fmt.Errorf("statistics: average rating: %w", err)
	}
	if avg.Valid {
		stats.AverageRating = math.Round(avg.Float64*10) / 10
	}

	return stats, nil
}

func (r *mediaRepository) breakdown(ctx context.Context, column string, out map[string]int) error {
	rows, err := r.db.QueryContext(ctx, `SELECT `+column+`, COUNT(*) FROM media_items GROUP BY `+column)
	if err != nil {
		return fmt.Errorf("statistics: breakdown by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key   string
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("statistics: scan %s breakdown: %w", column, err)
		}
		out[key] = count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("statistics: iterate %s breakdown: %w", column, err)
	}
	return nil
}

func (r *mediaRepository) queryItems(ctx context.Context, op, query string, args ...any) ([]MediaItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []MediaItem{}
	for rows.Next() {
		item, err := scanMediaItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", op, err)
	}
	return out, nil
}

type mediaScanner interface {
	Scan(dest ...any) error
}

func scanMediaItem(scanner mediaScanner) (*MediaItem, error) {
	var (
		item        MediaItem
		genre       sql.NullString
		releaseDate sql.NullString
		director    sql.NullString
		description sql.NullString
		rating      sql.NullFloat64
		imagePath   sql.NullString
		dateAdded   string
	)

	if err := scanner.Scan(&item.ID, &item.Title, &item.MediaType, &genre, &releaseDate,
		&director, &description, &rating, &item.Status, &imagePath, &dateAdded); err != nil {
		return nil, err
	}

	item.Genre = genre.String
	item.ReleaseDate = releaseDate.String
	item.Director = director.String
	item.Description = description.String
	item.Rating = floatPtr(rating)
	item.ImagePath = imagePath.String

	parsed, err := parseTime(dateAdded)
	if err != nil {
		return nil, err
	}
	item.DateAdded = parsed

	return &item, nil
}
