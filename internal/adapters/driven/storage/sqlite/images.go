package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
)

// imageStore implements driven.ImageStore.
type imageStore struct {
	db *sql.DB
}

var _ driven.ImageStore = (*imageStore)(nil)

const imageColumns = "id, tenant_id, title, file_path, description, tags, created_at"

// Save stores or replaces an image.
func (s *imageStore) Save(ctx context.Context, img *domain.Image) error {
	if img == nil || img.TenantID == "" || img.Title == "" {
		return fmt.Errorf("%w: image needs a tenant and a title", domain.ErrInvalidInput)
	}
	if img.ID == "" {
		img.ID = uuid.New().String()
	}
	if img.CreatedAt.IsZero() {
		img.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO images (`+imageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tenant_id = excluded.tenant_id,
			title = excluded.title,
			file_path = excluded.file_path,
			description = excluded.description,
			tags = excluded.tags
	`, img.ID, string(img.TenantID), img.Title, img.FilePath, img.Description, img.Tags, img.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving image: %w", err)
	}
	return nil
}

// Get returns an image by ID.
func (s *imageStore) Get(ctx context.Context, tenant domain.TenantID, id string) (*domain.Image, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+imageColumns+" FROM images WHERE tenant_id = ? AND id = ?", string(tenant), id)
	img, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// List returns a tenant's images, oldest first, filtered by tag when set.
func (s *imageStore) List(ctx context.Context, tenant domain.TenantID, tag string) ([]domain.Image, error) {
	images, err := s.query(ctx, `
		SELECT `+imageColumns+` FROM images
		WHERE tenant_id = ?
		ORDER BY created_at, id
	`, string(tenant))
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return images, nil
	}

	filtered := images[:0]
	for _, img := range images {
		if img.HasTag(tag) {
			filtered = append(filtered, img)
		}
	}
	return filtered, nil
}

// SearchByText narrows candidates with LIKE and confirms each with
// domain.Image.Matches so both stores agree on what matches.
func (s *imageStore) SearchByText(ctx context.Context, tenant domain.TenantID, term string) ([]domain.Image, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.Image{}, nil
	}

	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	candidates, err := s.query(ctx, `
		SELECT `+imageColumns+` FROM images
		WHERE tenant_id = ?
		  AND (lower(title) LIKE ? ESCAPE '\'
		    OR lower(description) LIKE ? ESCAPE '\'
		    OR lower(tags) LIKE ? ESCAPE '\')
		ORDER BY created_at, id
	`, string(tenant), pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Image, 0, len(candidates))
	for _, img := range candidates {
		if img.Matches(term) {
			matches = append(matches, img)
		}
	}
	return matches, nil
}

// Delete removes an image.
func (s *imageStore) Delete(ctx context.Context, tenant domain.TenantID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM images WHERE tenant_id = ? AND id = ?", string(tenant), id)
	if err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *imageStore) query(ctx context.Context, query string, args ...any) ([]domain.Image, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying images: %w", err)
	}
	defer rows.Close()

	images := []domain.Image{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, *img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating images: %w", err)
	}
	return images, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanImage(row scanner) (*domain.Image, error) {
	var (
		img    domain.Image
		tenant string
	)
	if err := row.Scan(&img.ID, &tenant, &img.Title, &img.FilePath,
		&img.Description, &img.Tags, &img.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning image: %w", err)
	}
	img.TenantID = domain.TenantID(tenant)
	img.CreatedAt = img.CreatedAt.UTC()
	return &img, nil
}

// escapeLike escapes the LIKE wildcards in s.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
