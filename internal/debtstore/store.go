// Package debtstore persists scan results to a SQL backend.
package debtstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/selwyntheo/fund-services-architect/internal/contract"
	"github.com/selwyntheo/fund-services-architect/schema"
)

// resultsTable is the table holding one row per completed scan.
const resultsTable = "debtscan_results"

// ResultStoreImpl implements the ResultStore interface.
type ResultStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	location   string
}

var _ contract.ResultStore = &ResultStoreImpl{} // Compile-time check

// NewResultStore creates a new ResultStore with the specified backend.
func NewResultStore(backend schema.DatabaseBackend, connStr string) (contract.ResultStore, error) {
	var db *sql.DB
	var err error
	var driverName string
	location := connStr

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetStoreDBFilePath()
		}
		location = dbPath
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled persistence
		return &ResultStoreImpl{db: nil, backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	if err := createResultTable(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create results table: %w", err)
	}

	return &ResultStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
		location:   location,
	}, nil
}

// createResultTable creates the scan results table if it does not exist.
func createResultTable(db *sql.DB, backend schema.DatabaseBackend) error {
	if _, err := db.Exec(createResultTableQuery(backend)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", resultsTable, err)
	}
	return nil
}

// createResultTableQuery returns the CREATE TABLE query for debtscan_results.
func createResultTableQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(resultsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				result_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				project_name VARCHAR(255) NOT NULL,
				project_path VARCHAR(512) NOT NULL,
				overall_score DOUBLE NOT NULL,
				code_quality_score DOUBLE NOT NULL,
				architecture_score DOUBLE NOT NULL,
				infrastructure_score DOUBLE NOT NULL,
				operations_score DOUBLE NOT NULL,
				risk_level VARCHAR(50) NOT NULL,
				scan_time DATETIME(6) NOT NULL,
				scan_duration_ms BIGINT NOT NULL,
				raw_metrics TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				result_id BIGSERIAL PRIMARY KEY,
				project_name TEXT NOT NULL,
				project_path TEXT NOT NULL,
				overall_score DOUBLE PRECISION NOT NULL,
				code_quality_score DOUBLE PRECISION NOT NULL,
				architecture_score DOUBLE PRECISION NOT NULL,
				infrastructure_score DOUBLE PRECISION NOT NULL,
				operations_score DOUBLE PRECISION NOT NULL,
				risk_level TEXT NOT NULL,
				scan_time TIMESTAMPTZ NOT NULL,
				scan_duration_ms BIGINT NOT NULL,
				raw_metrics TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				result_id INTEGER PRIMARY KEY AUTOINCREMENT,
				project_name TEXT NOT NULL,
				project_path TEXT NOT NULL,
				overall_score REAL NOT NULL,
				code_quality_score REAL NOT NULL,
				architecture_score REAL NOT NULL,
				infrastructure_score REAL NOT NULL,
				operations_score REAL NOT NULL,
				risk_level TEXT NOT NULL,
				scan_time TEXT NOT NULL,
				scan_duration_ms INTEGER NOT NULL,
				raw_metrics TEXT
			);
		`, quotedTableName)
	}
}

// SaveResult persists one scan result and returns its unique ID.
func (rs *ResultStoreImpl) SaveResult(result schema.ScanResult) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}
	if result.Failed() {
		return 0, fmt.Errorf("refusing to store failed scan for %q: %s", result.Project.Name, result.Err)
	}

	rawJSON, err := json.Marshal(result.Metrics.Raw)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal raw metrics: %w", err)
	}

	quotedTableName := quoteTableName(resultsTable, rs.backend)
	columns := `project_name, project_path, overall_score, code_quality_score,
	            architecture_score, infrastructure_score, operations_score,
	            risk_level, scan_time, scan_duration_ms, raw_metrics`
	values := []any{
		result.Project.Name, result.Project.Path,
		result.Metrics.OverallScore, result.Metrics.CodeQualityScore,
		result.Metrics.ArchitectureScore, result.Metrics.InfrastructureScore,
		result.Metrics.OperationsScore,
		string(result.Risk), formatTime(result.ScanTime, rs.backend),
		result.Duration.Milliseconds(), string(rawJSON),
	}

	var resultID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING result_id`, quotedTableName, columns)
		err = rs.db.QueryRow(query, values...).Scan(&resultID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, quotedTableName, columns)
		var res sql.Result
		res, err = rs.db.Exec(query, values...)
		if err == nil {
			resultID, err = res.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan result: %w", err)
	}
	return resultID, nil
}

// resultColumns is the SELECT column list shared by ListResults and GetResult.
const resultColumns = `result_id, project_name, project_path, overall_score,
	code_quality_score, architecture_score, infrastructure_score,
	operations_score, risk_level, scan_time, scan_duration_ms, raw_metrics`

// ListResults returns the most recent stored results, newest first.
func (rs *ResultStoreImpl) ListResults(limit int) ([]schema.StoredResult, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(resultsTable, rs.backend)
	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT %s FROM %s ORDER BY scan_time DESC, result_id DESC LIMIT $1`, resultColumns, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT %s FROM %s ORDER BY scan_time DESC, result_id DESC LIMIT ?`, resultColumns, quotedTableName)
	}

	rows, err := rs.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.StoredResult
	for rows.Next() {
		stored, err := rs.scanResultRow(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, stored)
	}
	return results, rows.Err()
}

// GetResult returns a single stored result by ID.
func (rs *ResultStoreImpl) GetResult(id int64) (schema.StoredResult, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return schema.StoredResult{}, fmt.Errorf("result storage is disabled")
	}

	quotedTableName := quoteTableName(resultsTable, rs.backend)
	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE result_id = $1`, resultColumns, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE result_id = ?`, resultColumns, quotedTableName)
	}

	stored, err := rs.scanResultRow(rs.db.QueryRow(query, id))
	if err != nil {
		return schema.StoredResult{}, fmt.Errorf("failed to get result %d: %w", id, err)
	}
	return stored, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared row decoding.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanResultRow decodes one result row, handling the per-backend time format.
func (rs *ResultStoreImpl) scanResultRow(row rowScanner) (schema.StoredResult, error) {
	var stored schema.StoredResult
	var risk string
	var rawJSON sql.NullString

	switch rs.backend {
	case schema.SQLiteBackend:
		var scanTimeStr string
		if err := row.Scan(&stored.ID, &stored.ProjectName, &stored.ProjectPath,
			&stored.OverallScore, &stored.CodeQualityScore, &stored.ArchitectureScore,
			&stored.InfrastructureScore, &stored.OperationsScore,
			&risk, &scanTimeStr, &stored.DurationMS, &rawJSON); err != nil {
			return stored, err
		}
		scanTime, err := time.Parse(time.RFC3339Nano, scanTimeStr)
		if err != nil {
			return stored, fmt.Errorf("failed to parse scan_time: %w", err)
		}
		stored.ScanTime = scanTime
	default: // MySQL and PostgreSQL store as native datetime
		if err := row.Scan(&stored.ID, &stored.ProjectName, &stored.ProjectPath,
			&stored.OverallScore, &stored.CodeQualityScore, &stored.ArchitectureScore,
			&stored.InfrastructureScore, &stored.OperationsScore,
			&risk, &stored.ScanTime, &stored.DurationMS, &rawJSON); err != nil {
			return stored, err
		}
	}

	stored.Risk = schema.RiskLevel(risk)
	if rawJSON.Valid {
		stored.RawJSON = []byte(rawJSON.String)
	}
	return stored, nil
}

// GetStatus returns status information about the result store.
func (rs *ResultStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:  string(rs.backend),
		Location: rs.location,
	}
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(resultsTable, rs.backend)

	row := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName))
	if err := row.Scan(&status.ResultCount); err != nil {
		return status, fmt.Errorf("failed to count results: %w", err)
	}

	row = rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(DISTINCT project_name) FROM %s", quotedTableName))
	if err := row.Scan(&status.ProjectCount); err != nil {
		return status, fmt.Errorf("failed to count projects: %w", err)
	}

	if status.ResultCount > 0 {
		row = rs.db.QueryRow(fmt.Sprintf("SELECT MAX(scan_time) FROM %s", quotedTableName))
		switch rs.backend {
		case schema.SQLiteBackend:
			var lastScanStr string
			if err := row.Scan(&lastScanStr); err != nil {
				return status, fmt.Errorf("failed to get last scan time: %w", err)
			}
			lastScan, err := time.Parse(time.RFC3339Nano, lastScanStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse last scan time: %w", err)
			}
			status.LastScanTime = lastScan
		default:
			if err := row.Scan(&status.LastScanTime); err != nil {
				return status, fmt.Errorf("failed to get last scan time: %w", err)
			}
		}
	}

	return status, nil
}

// Clear removes all stored results.
func (rs *ResultStoreImpl) Clear() error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}
	quotedTableName := quoteTableName(resultsTable, rs.backend)
	if _, err := rs.db.Exec(fmt.Sprintf("DELETE FROM %s", quotedTableName)); err != nil {
		return fmt.Errorf("failed to clear results: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *ResultStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// quoteTableName quotes a table name for the given backend's dialect.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("%q", name)
	}
}

// formatTime converts a time value to the backend's storage representation.
// SQLite has no native datetime type, so times round-trip through RFC3339.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
