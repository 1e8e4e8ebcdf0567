package store

import (
	"database/sql"
	"time"
)

// Shape represents a persisted shape row. Positions are world coordinates;
// highlight state is transient and never persisted.
type Shape struct {
	ID        string
	X         float64
	Y         float64
	Z         float64
	Scale     float64
	Color     string
	CreatedAt time.Time
}

// ShapeRepository provides CRUD operations for shapes.
type ShapeRepository struct {
	db *sql.DB
}

// Shapes returns the shape repository for this store.
func (s *Store) Shapes() *ShapeRepository {
	return &ShapeRepository{db: s.db}
}

// Save inserts or updates a shape. Existing rows keep their created_at so
// restoration preserves the original insertion order.
func (r *ShapeRepository) Save(sh *Shape) error {
	if sh.CreatedAt.IsZero() {
		sh.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO shapes (id, x, y, z, scale, color, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			x = excluded.x,
			y = excluded.y,
			z = excluded.z,
			scale = excluded.scale,
			color = excluded.color`,
		sh.ID, sh.X, sh.Y, sh.Z, sh.Scale, sh.Color, sh.CreatedAt,
	)
	return err
}

// GetByID retrieves a shape by its ID.
func (r *ShapeRepository) GetByID(id string) (*Shape, error) {
	sh := &Shape{}

	err := r.db.QueryRow(
		`SELECT id, x, y, z, scale, color, created_at
		 FROM shapes WHERE id = ?`,
		id,
	).Scan(&sh.ID, &sh.X, &sh.Y, &sh.Z, &sh.Scale, &sh.Color, &sh.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return sh, nil
}

// List retrieves all shapes in insertion order.
func (r *ShapeRepository) List() ([]*Shape, error) {
	rows, err := r.db.Query(
		`SELECT id, x, y, z, scale, color, created_at
		 FROM shapes ORDER BY created_at, rowid`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shapes []*Shape
	for rows.Next() {
		sh := &Shape{}
		if err := rows.Scan(&sh.ID, &sh.X, &sh.Y, &sh.Z, &sh.Scale, &sh.Color, &sh.CreatedAt); err != nil {
			return nil, err
		}
		shapes = append(shapes, sh)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shapes, nil
}

// Delete removes a shape by its ID. Deleting an absent shape is a no-op to
// match the registry's idempotent removal.
func (r *ShapeRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM shapes WHERE id = ?`, id)
	return err
}

// Clear removes all shapes.
func (r *ShapeRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM shapes`)
	return err
}

// Count returns the number of persisted shapes.
func (r *ShapeRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM shapes`).Scan(&n)
	return n, err
}
