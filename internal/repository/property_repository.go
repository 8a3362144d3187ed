package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/aloft-stays/internal/model"
)

// PropertyRepo reads and writes the properties table.  Amenities and
// images are stored in JSON columns.
type PropertyRepo struct {
	db *sql.DB
}

// NewPropertyRepo returns a new PropertyRepo bound to the given database.
func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{db: db} }

const propertyColumns = `id, title, location, description, price, rating, amenities, image_url,
	images, is_guest_favorite, host_user_id, host_subaccount_code, created_at`

// Create inserts a property and fills in its generated ID.  Nil amenity
// and image slices are stored as empty arrays.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	amenities, err := encodeList(p.Amenities)
	if err != nil {
		return err
	}
	images, err := encodeList(p.Images)
	if err != nil {
		return err
	}
	const q = `INSERT INTO properties
		(title, location, description, price, rating, amenities, image_url, images,
		 is_guest_favorite, host_user_id, host_subaccount_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		p.Title, p.Location, p.Description, p.Price, p.Rating, amenities, p.ImageURL, images,
		p.IsGuestFavorite, p.HostUserID, p.HostSubaccountCode)
	if err != nil {
		return fmt.Errorf("insert property: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID returns a single property or ErrPropertyNotFound.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (*model.Property, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)
	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListAll returns every property ordered by id.  Filtering happens in
// memory on the browse path.
func (r *PropertyRepo) ListAll(ctx context.Context) ([]model.Property, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	return collectProperties(rows)
}

// ListByHost returns the host's properties, newest first.
func (r *PropertyRepo) ListByHost(ctx context.Context, hostID uint64) ([]model.Property, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE host_user_id = ? ORDER BY created_at DESC, id DESC`, hostID)
	if err != nil {
		return nil, err
	}
	return collectProperties(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(s rowScanner) (*model.Property, error) {
	var (
		p          model.Property
		amenities  []byte
		images     []byte
		hostID     sql.NullInt64
		subaccount sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Title, &p.Location, &p.Description, &p.Price, &p.Rating,
		&amenities, &p.ImageURL, &images, &p.IsGuestFavorite, &hostID, &subaccount, &p.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.Amenities, err = decodeList(amenities); err != nil {
		return nil, fmt.Errorf("property %d amenities: %w", p.ID, err)
	}
	if p.Images, err = decodeList(images); err != nil {
		return nil, fmt.Errorf("property %d images: %w", p.ID, err)
	}
	if hostID.Valid {
		h := uint64(hostID.Int64)
		p.HostUserID = &h
	}
	if subaccount.Valid && strings.TrimSpace(subaccount.String) != "" {
		code := subaccount.String
		p.HostSubaccountCode = &code
	}
	return &p, nil
}

func collectProperties(rows *sql.Rows) ([]model.Property, error) {
	defer rows.Close()
	out := []model.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func encodeList(xs []string) ([]byte, error) {
	if xs == nil {
		xs = []string{}
	}
	return json.Marshal(xs)
}

func decodeList(b []byte) ([]string, error) {
	out := []string{}
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
