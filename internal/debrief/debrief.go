// Package debrief summarises a journalled session: how many commands ran,
// how many failed, how far clearance climbed and how the protocol ended.
package debrief

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Protocol outcomes, from least to most resolved.
const (
	OutcomeDormant   = "DORMANT"
	OutcomeArmed     = "ARMED"
	OutcomeThreshold = "DEFUSED (threshold)"
	OutcomeOverride  = "DEFUSED (override)"
)

type Report struct {
	SessionID  string
	Commands   int
	Failures   int
	Precision  float64 // share of commands that did not fail
	Clearance  int
	Generation int
	Outcome    string
	Factors    []string // Textual explanations for the operator
}

type Calculator struct {
	DB *sql.DB
}

func New(db *sql.DB) *Calculator {
	return &Calculator{DB: db}
}

func (c *Calculator) Build(ctx context.Context, sessionID string) (*Report, error) {
	report := &Report{SessionID: sessionID, Clearance: 1, Outcome: OutcomeDormant}

	// 1. Command tally
	row := c.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(failed), 0) FROM journal WHERE session_id = ?", sessionID)
	if err := row.Scan(&report.Commands, &report.Failures); err != nil {
		return nil, err
	}
	if report.Commands > 0 {
		report.Precision = 1 - float64(report.Failures)/float64(report.Commands)
	} else {
		report.Factors = append(report.Factors, "No commands journalled")
	}

	// 2. Replay the audit trail
	rows, err := c.DB.QueryContext(ctx,
		"SELECT operation, details FROM audit_log WHERE session_id = ? ORDER BY rowid ASC", sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var op string
		var details sql.NullString
		if err := rows.Scan(&op, &details); err != nil {
			continue
		}
		switch op {
		case "clearance":
			if level, ok := raisedTo(details.String); ok && level > report.Clearance {
				report.Clearance = level
			}
		case "arm":
			report.Outcome = OutcomeArmed
		case "advance":
			if gen, ok := generationOf(details.String); ok {
				report.Generation = gen
			}
		case "defocus":
			report.Outcome = OutcomeThreshold
			report.Factors = append(report.Factors, fmt.Sprintf("Defocused at Gen %d", report.Generation))
		case "override":
			report.Outcome = OutcomeOverride
			report.Factors = append(report.Factors, "Override code used")
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if report.Outcome == OutcomeArmed {
		report.Factors = append(report.Factors, fmt.Sprintf("Protocol still armed at Gen %d", report.Generation))
	}
	return report, nil
}

// String renders the report as the debrief block printed after a transcript.
func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "commands=%d failed=%d precision=%.2f\n", r.Commands, r.Failures, r.Precision)
	fmt.Fprintf(&sb, "clearance=%d protocol=%s", r.Clearance, r.Outcome)
	for _, f := range r.Factors {
		sb.WriteString("\n- " + f)
	}
	return sb.String()
}

// raisedTo reads the new level from a "1 -> 2" clearance detail.
func raisedTo(details string) (int, bool) {
	_, after, ok := strings.Cut(details, "->")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(after))
	return n, err == nil
}

// generationOf reads n from a "GEN: n/19 (...)" status detail.
func generationOf(details string) (int, bool) {
	var gen, total int
	if _, err := fmt.Sscanf(details, "GEN: %d/%d", &gen, &total); err != nil {
		return 0, false
	}
	return gen, true
}
