package state

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"marketscope/internal/orchestrator"
)

// ReportRow summarizes a persisted report for listing.
type ReportRow struct {
	ID                   string
	Query                string
	SessionID            string
	CreatedAt            string
	AgentsCompleted      int
	TotalAgents          int
	OrchestrationSuccess bool
}

// SaveReport persists a report and returns its row ID.
func (db *DB) SaveReport(report orchestrator.Report) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	id := uuid.New().String()[:8]
	success := 0
	if report.ExecutionSummary.OrchestrationSuccess {
		success = 1
	}

	_, err = db.conn.Exec(`
		INSERT INTO reports (id, query, session_id, created_at, agents_completed, total_agents, orchestration_success, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, report.Query, report.SessionID, report.Timestamp,
		report.ExecutionSummary.AgentsCompleted, report.ExecutionSummary.TotalAgents,
		success, string(data),
	)
	if err != nil {
		return "", fmt.Errorf("insert report: %w", err)
	}

	return id, nil
}

// GetReport loads a full report by row ID.
func (db *DB) GetReport(id string) (orchestrator.Report, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var data string
	row := db.conn.QueryRow("SELECT report_json FROM reports WHERE id = ?", id)
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return orchestrator.Report{}, fmt.Errorf("report %s not found", id)
		}
		return orchestrator.Report{}, fmt.Errorf("load report: %w", err)
	}

	var report orchestrator.Report
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return orchestrator.Report{}, fmt.Errorf("unmarshal report %s: %w", id, err)
	}
	return report, nil
}

// ListReports returns the most recent reports, newest first.
func (db *DB) ListReports(limit int) ([]ReportRow, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := db.conn.Query(`
		SELECT id, query, session_id, created_at, agents_completed, total_agents, orchestration_success
		FROM reports ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var result []ReportRow
	for rows.Next() {
		var r ReportRow
		var success int
		if err := rows.Scan(&r.ID, &r.Query, &r.SessionID, &r.CreatedAt,
			&r.AgentsCompleted, &r.TotalAgents, &success); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		r.OrchestrationSuccess = success == 1
		result = append(result, r)
	}

	return result, rows.Err()
}
