package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spec-kit/department-service/internal/domain"
)

// SQLiteDepartmentRepository keeps the four department statements prepared on
// a single database handle for the life of the process.
type SQLiteDepartmentRepository struct {
	list    *sql.Stmt
	getByID *sql.Stmt
	insert  *sql.Stmt
	update  *sql.Stmt
	remove  *sql.Stmt
}

var _ DepartmentRepository = (*SQLiteDepartmentRepository)(nil)

// NewSQLiteDepartmentRepository prepares the statements against db. The
// departments table must already exist.
func NewSQLiteDepartmentRepository(ctx context.Context, db *sql.DB) (*SQLiteDepartmentRepository, error) {
	r := &SQLiteDepartmentRepository{}
	stmts := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&r.list, `SELECT id, name, url FROM departments ORDER BY name ASC, id ASC`},
		{&r.getByID, `SELECT id, name, url FROM departments WHERE id = ?`},
		{&r.insert, `INSERT INTO departments (name, url) VALUES (?, ?)`},
		{&r.update, `UPDATE departments SET name = ?, url = ? WHERE id = ?`},
		{&r.remove, `DELETE FROM departments WHERE id = ?`},
	}
	for _, s := range stmts {
		stmt, err := db.PrepareContext(ctx, s.query)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("prepare %q: %w", s.query, err)
		}
		*s.dst = stmt
	}
	return r, nil
}

// Close releases the prepared statements.
func (r *SQLiteDepartmentRepository) Close() {
	for _, stmt := range []*sql.Stmt{r.list, r.getByID, r.insert, r.update, r.remove} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

// List uses SQLite's default BINARY collation: upper-case names sort before lower-case.
func (r *SQLiteDepartmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	rows, err := r.list.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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

func (r *SQLiteDepartmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	var dept domain.Department
	if err := r.getByID.QueryRowContext(ctx, id).Scan(&dept.ID, &dept.Name, &dept.URL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dept, nil
}

func (r *SQLiteDepartmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	res, err := r.insert.ExecContext(ctx, dept.Name, dept.URL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	dept.ID = id
	return nil
}

func (r *SQLiteDepartmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	res, err := r.update.ExecContext(ctx, dept.Name, dept.URL, dept.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *SQLiteDepartmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.remove.ExecContext(ctx, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
