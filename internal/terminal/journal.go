package terminal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/m0n0x41d/fote-terminal/db"
)

// record journals one dispatched command.
func (t *Terminal) record(ctx context.Context, cwd, input, output string, failed bool) {
	t.seq++
	if t.journal == nil {
		return
	}
	e := db.Entry{
		ID:        uuid.New().String(),
		Seq:       t.seq,
		SessionID: t.session.ID,
		Cwd:       cwd,
		Input:     input,
		Output:    output,
		Failed:    failed,
	}
	if err := t.journal.RecordCommand(ctx, e); err != nil {
		t.logger.Warn("failed to record command", zap.Error(err))
	}
}

// flushChanges logs and audits the state changes the last command made.
func (t *Terminal) flushChanges(ctx context.Context, input string) {
	for _, c := range t.session.drain() {
		t.logger.Info("state change",
			zap.String("operation", c.Operation),
			zap.String("actor", c.Actor),
			zap.String("target", c.Target),
			zap.String("details", c.Details))
		t.audit(ctx, c, input)
	}
}

// audit records an audit entry. The input line is stored only as a hash.
func (t *Terminal) audit(ctx context.Context, c Change, input string) {
	if t.journal == nil {
		return
	}

	var inputHash string
	data, err := json.Marshal(input)
	if err == nil {
		hash := sha256.Sum256(data)
		inputHash = hex.EncodeToString(hash[:8])
	}

	a := db.AuditLog{
		ID:        uuid.New().String(),
		SessionID: t.session.ID,
		Operation: c.Operation,
		Actor:     c.Actor,
		Target:    c.Target,
		InputHash: inputHash,
		Result:    "SUCCESS",
		Details:   c.Details,
	}
	if err := t.journal.InsertAuditLog(ctx, a); err != nil {
		t.logger.Warn("failed to insert audit log", zap.Error(err))
	}
}
