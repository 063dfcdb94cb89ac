package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/blooddonors/internal/donor"
	"github.com/erazemk/blooddonors/internal/model"
)

const donorColumns = donor.Columns + ", created_at, updated_at"

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDonor(s scanner) (*model.Donor, error) {
	var r donor.Row
	var createdAt, updatedAt time.Time
	if err := s.Scan(&r.ID, &r.Name, &r.BloodGroup, &r.District, &r.Phone, &r.Weight,
		&r.PhotoURL, &r.LastDonated, &r.AvailableToDonate, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	d := donor.Normalize(r)
	d.CreatedAt = createdAt
	d.UpdatedAt = updatedAt
	return &d, nil
}

// CreateDonor inserts a donor row under a new UUID.
func CreateDonor(ctx context.Context, db *sql.DB, r donor.Row) (*model.Donor, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO donors (id, name, blood_group, district, phone, weight, photo_url, last_donated, available_to_donate)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.Name, r.BloodGroup, r.District, r.Phone, r.Weight, r.PhotoURL, r.LastDonated, r.AvailableToDonate,
	)
	if err != nil {
		return nil, fmt.Errorf("creating donor: %w", err)
	}

	return GetDonor(ctx, db, id)
}

// GetDonor returns a donor by ID.
func GetDonor(ctx context.Context, db *sql.DB, id string) (*model.Donor, error) {
	d, err := scanDonor(db.QueryRowContext(ctx,
		`SELECT `+donorColumns+` FROM donors WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting donor: %w", err)
	}
	return d, nil
}

// ListDonors returns all donors ordered by name.
func ListDonors(ctx context.Context, db *sql.DB) ([]model.Donor, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+donorColumns+` FROM donors ORDER BY name COLLATE NOCASE, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing donors: %w", err)
	}
	defer rows.Close()

	var donors []model.Donor
	for rows.Next() {
		d, err := scanDonor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning donor: %w", err)
		}
		donors = append(donors, *d)
	}
	return donors, rows.Err()
}

// QueryDonors returns the rows q.From..q.To of the donors matching the
// filters, ordered by name, plus the number of matching donors.
func QueryDonors(ctx context.Context, db *sql.DB, q donor.RangeQuery) ([]donor.Row, int, error) {
	var where []string
	var args []any
	if q.BloodGroup != "" {
		where = append(where, "blood_group = ? COLLATE NOCASE")
		args = append(args, q.BloodGroup)
	}
	if q.District != "" {
		where = append(where, "district = ? COLLATE NOCASE")
		args = append(args, q.District)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM donors`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting donors: %w", err)
	}

	limit := q.To - q.From + 1
	if limit < 0 {
		limit = 0
	}
	rows, err := db.QueryContext(ctx,
		`SELECT `+donor.Columns+` FROM donors`+clause+` ORDER BY name COLLATE NOCASE, id LIMIT ? OFFSET ?`,
		append(args, limit, q.From)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("querying donors: %w", err)
	}
	defer rows.Close()

	result := []donor.Row{}
	for rows.Next() {
		var r donor.Row
		if err := rows.Scan(&r.ID, &r.Name, &r.BloodGroup, &r.District, &r.Phone, &r.Weight,
			&r.PhotoURL, &r.LastDonated, &r.AvailableToDonate); err != nil {
			return nil, 0, fmt.Errorf("scanning donor: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("querying donors: %w", err)
	}
	return result, total, nil
}

// UpdateDonor replaces a donor's fields. It reports whether the donor exists.
func UpdateDonor(ctx context.Context, db *sql.DB, id string, r donor.Row) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE donors SET name = ?, blood_group = ?, district = ?, phone = ?, weight = ?,
		        photo_url = ?, last_donated = ?, available_to_donate = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		r.Name, r.BloodGroup, r.District, r.Phone, r.Weight, r.PhotoURL, r.LastDonated, r.AvailableToDonate, id,
	)
	if err != nil {
		return false, fmt.Errorf("updating donor: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating donor: %w", err)
	}
	return n > 0, nil
}

// DeleteDonor removes a donor. It reports whether the donor existed.
func DeleteDonor(ctx context.Context, db *sql.DB, id string) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM donors WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting donor: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting donor: %w", err)
	}
	return n > 0, nil
}

// DonorStore exposes the SQLite donor table as a donor.Repository.
type DonorStore struct {
	DB *sql.DB
}

var _ donor.Repository = (*DonorStore)(nil)

func (s *DonorStore) QueryDonors(ctx context.Context, q donor.RangeQuery) ([]donor.Row, int, error) {
	return QueryDonors(ctx, s.DB, q)
}

func (s *DonorStore) ListDonors(ctx context.Context) ([]model.Donor, error) {
	return ListDonors(ctx, s.DB)
}

func (s *DonorStore) GetDonor(ctx context.Context, id string) (*model.Donor, error) {
	d, err := GetDonor(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, donor.ErrNotFound
	}
	return d, nil
}

func (s *DonorStore) CreateDonor(ctx context.Context, in donor.Input) (*model.Donor, error) {
	return CreateDonor(ctx, s.DB, in.Row(""))
}

func (s *DonorStore) UpdateDonor(ctx context.Context, id string, in donor.Input) (*model.Donor, error) {
	ok, err := UpdateDonor(ctx, s.DB, id, in.Row(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, donor.ErrNotFound
	}
	return s.GetDonor(ctx, id)
}

func (s *DonorStore) DeleteDonor(ctx context.Context, id string) error {
	ok, err := DeleteDonor(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if !ok {
		return donor.ErrNotFound
	}
	return nil
}
