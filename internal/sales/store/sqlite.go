package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/entity"

	_ "modernc.org/sqlite"
)

// SQLiteIngestionLog persists ingestion attempts (never uploaded rows).
type SQLiteIngestionLog struct {
	db *sql.DB
}

func NewSQLiteIngestionLog(dbPath string) (*SQLiteIngestionLog, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteIngestionLog{db: db}, nil
}

func (l *SQLiteIngestionLog) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

func (l *SQLiteIngestionLog) Record(ctx context.Context, meta entity.IngestionMeta) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO ingestions
			(id, dashboard_id, ingestion_id, file_name, status, err_kind, err, rows, total_revenue, total_quantity, products, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID,
		meta.DashboardID,
		meta.IngestionID,
		meta.FileName,
		string(meta.Status),
		string(meta.ErrKind),
		meta.Err,
		meta.Rows,
		meta.TotalRevenue,
		meta.TotalQty,
		meta.Products,
		meta.At,
	)
	if err != nil {
		return fmt.Errorf("insert ingestion: %w", err)
	}

	return nil
}

func (l *SQLiteIngestionLog) List(ctx context.Context, dashboardID string, page, pageSize int) ([]entity.IngestionMeta, int, error) {
	var total int
	if err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ingestions WHERE dashboard_id = ?`, dashboardID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ingestions: %w", err)
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, dashboard_id, ingestion_id, file_name, status, err_kind, err, rows, total_revenue, total_quantity, products, at
		FROM ingestions
		WHERE dashboard_id = ?
		ORDER BY at DESC, rowid DESC
		LIMIT ? OFFSET ?`,
		dashboardID, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list ingestions: %w", err)
	}
	defer rows.Close()

	items := make([]entity.IngestionMeta, 0, pageSize)
	for rows.Next() {
		var (
			meta    entity.IngestionMeta
			status  string
			errKind string
		)
		if err := rows.Scan(
			&meta.ID,
			&meta.DashboardID,
			&meta.IngestionID,
			&meta.FileName,
			&status,
			&errKind,
			&meta.Err,
			&meta.Rows,
			&meta.TotalRevenue,
			&meta.TotalQty,
			&meta.Products,
			&meta.At,
		); err != nil {
			return nil, 0, fmt.Errorf("scan ingestion: %w", err)
		}
		meta.Status = entity.IngestionStatus(status)
		meta.ErrKind = entity.ErrorKind(errKind)
		items = append(items, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate ingestions: %w", err)
	}

	return items, total, nil
}
