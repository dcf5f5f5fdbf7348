package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pelicanstate/constructhub/internal/db"
	"github.com/pelicanstate/constructhub/internal/domain"
)

// workOrderColumns is the canonical SELECT column list for work_orders.
const workOrderColumns = `id, project_id, title, description, status, priority,
		category, phase, wbs_code, duration_hours, depends_on, notes, budget,
		created_at, updated_at`

// SQLiteWorkOrderRepo implements WorkOrderRepo using a SQLite database.
type SQLiteWorkOrderRepo struct {
	db db.DBTX
}

// NewSQLiteWorkOrderRepo creates a new SQLiteWorkOrderRepo. conn may be a
// *sql.DB or a *sql.Tx.
func NewSQLiteWorkOrderRepo(conn db.DBTX) *SQLiteWorkOrderRepo {
	return &SQLiteWorkOrderRepo{db: conn}
}

// Create inserts the work order with its labor and material lines. Orders
// are sequenced per project in insertion order. Wrap multi-order creation
// in a UnitOfWork so a failed line rolls back the whole batch.
func (r *SQLiteWorkOrderRepo) Create(ctx context.Context, w *domain.WorkOrder) error {
	var seq int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM work_orders WHERE project_id = ?`, w.ProjectID,
	).Scan(&seq); err != nil {
		return fmt.Errorf("allocating work order seq: %w", err)
	}

	query := `INSERT INTO work_orders (id, project_id, title, description, status, priority,
		category, phase, wbs_code, duration_hours, depends_on, notes, budget, seq,
		created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.ProjectID,
		w.Title,
		w.Description,
		string(w.Status),
		string(w.Priority),
		w.Category,
		w.Phase,
		w.WBSCode,
		w.DurationHours,
		joinCodes(w.DependsOn),
		w.Notes,
		w.Budget,
		seq,
		formatTime(w.CreatedAt),
		formatTime(w.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting work order: %w", err)
	}

	for i, l := range w.Labor {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO work_order_labor (work_order_id, line_no, role, rate_class, hours, hourly_rate)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			w.ID, i, l.Role, l.RateClass, l.Hours, l.HourlyRate,
		); err != nil {
			return fmt.Errorf("inserting labor line %d: %w", i, err)
		}
	}
	for i, m := range w.Materials {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO work_order_materials (work_order_id, line_no, name, quantity, unit_cost)
			 VALUES (?, ?, ?, ?, ?)`,
			w.ID, i, m.Name, m.Quantity, m.UnitCost,
		); err != nil {
			return fmt.Errorf("inserting material line %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLiteWorkOrderRepo) GetByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE id = ?`, id)
	w, err := scanWorkOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("work order %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadLines(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *SQLiteWorkOrderRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.WorkOrder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+workOrderColumns+` FROM work_orders WHERE project_id = ? ORDER BY seq, created_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing work orders by project: %w", err)
	}

	var orders []*domain.WorkOrder
	for rows.Next() {
		w, err := scanWorkOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, w)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating work orders: %w", err)
	}
	// Close before loading lines; a single-connection pool would block otherwise.
	rows.Close()

	for _, w := range orders {
		if err := r.loadLines(ctx, w); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *SQLiteWorkOrderRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting work order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("work order %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteWorkOrderRepo) loadLines(ctx context.Context, w *domain.WorkOrder) error {
	labor, err := r.db.QueryContext(ctx,
		`SELECT role, rate_class, hours, hourly_rate FROM work_order_labor
		 WHERE work_order_id = ? ORDER BY line_no`, w.ID)
	if err != nil {
		return fmt.Errorf("loading labor lines: %w", err)
	}
	for labor.Next() {
		var l domain.LaborLine
		if err := labor.Scan(&l.Role, &l.RateClass, &l.Hours, &l.HourlyRate); err != nil {
			labor.Close()
			return fmt.Errorf("scanning labor line: %w", err)
		}
		w.Labor = append(w.Labor, l)
	}
	labor.Close()
	if err := labor.Err(); err != nil {
		return fmt.Errorf("iterating labor lines: %w", err)
	}

	materials, err := r.db.QueryContext(ctx,
		`SELECT name, quantity, unit_cost FROM work_order_materials
		 WHERE work_order_id = ? ORDER BY line_no`, w.ID)
	if err != nil {
		return fmt.Errorf("loading material lines: %w", err)
	}
	defer materials.Close()
	for materials.Next() {
		var m domain.MaterialLine
		if err := materials.Scan(&m.Name, &m.Quantity, &m.UnitCost); err != nil {
			return fmt.Errorf("scanning material line: %w", err)
		}
		w.Materials = append(w.Materials, m)
	}
	if err := materials.Err(); err != nil {
		return fmt.Errorf("iterating material lines: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkOrder(s rowScanner) (*domain.WorkOrder, error) {
	var w domain.WorkOrder
	var status, priority, dependsOn, createdAt, updatedAt string
	err := s.Scan(
		&w.ID, &w.ProjectID, &w.Title, &w.Description, &status, &priority,
		&w.Category, &w.Phase, &w.WBSCode, &w.DurationHours, &dependsOn, &w.Notes, &w.Budget,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning work order: %w", err)
	}
	w.Status = domain.WorkOrderStatus(status)
	w.Priority = domain.Priority(priority)
	w.DependsOn = splitCodes(dependsOn)
	if w.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}
