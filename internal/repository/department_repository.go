package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/department-service/internal/domain"
)

// ErrNotFound is returned when an id-addressed statement matched no row.
var ErrNotFound = errors.New("department not found")

// DepartmentRepository manages department persistence. It performs no
// validation; every failure is returned as-is to the caller.
type DepartmentRepository interface {
	List(ctx context.Context) ([]domain.Department, error)
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
	Create(ctx context.Context, dept *domain.Department) error
	Update(ctx context.Context, dept *domain.Department) error
	Delete(ctx context.Context, id int64) error
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the Postgres-backed repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

// Names compare byte-wise so ordering matches the SQLite store.
func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	const query = `
        SELECT id, name, url
        FROM departments
        ORDER BY name COLLATE "C" ASC, id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.Department, 0)
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.URL); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}

func (r *departmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	const query = `SELECT id, name, url FROM departments WHERE id=$1`
	var dept domain.Department
	if err := r.pool.QueryRow(ctx, query, id).Scan(&dept.ID, &dept.Name, &dept.URL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (name, url)
        VALUES ($1,$2)
        RETURNING id`
	return r.pool.QueryRow(ctx, query, dept.Name, dept.URL).Scan(&dept.ID)
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	const query = `UPDATE departments SET name=$1, url=$2 WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, dept.Name, dept.URL, dept.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *departmentRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM departments WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
