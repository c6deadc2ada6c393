package notify

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"ride-progress-sim/internal/present"
)

// PGTray mirrors the tray into Postgres, one row per notification id.
// Rows are written only; nothing reads them back into session state.
type PGTray struct {
	db *sql.DB
}

func NewPGTray(db *sql.DB) *PGTray { return &PGTray{db: db} }

const upsertNotification = `
INSERT INTO ride_notifications (id, channel_id, kind, title, body, progress, update_id, session_id, payload, posted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
  channel_id = EXCLUDED.channel_id,
  kind       = EXCLUDED.kind,
  title      = EXCLUDED.title,
  body       = EXCLUDED.body,
  progress   = EXCLUDED.progress,
  update_id  = EXCLUDED.update_id,
  session_id = EXCLUDED.session_id,
  payload    = EXCLUDED.payload,
  posted_at  = EXCLUDED.posted_at`

func (t *PGTray) Post(ctx context.Context, m present.Message) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}
	n := m.Notification
	_, err = t.db.ExecContext(ctx, upsertNotification,
		n.ID, n.ChannelID, m.Status.Kind, n.Title, n.Body, n.Progress.Value,
		m.UpdateID, m.SessionID, payload, m.PostedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert notification %d: %w", n.ID, err)
	}
	return nil
}

func (t *PGTray) Cancel(ctx context.Context, id int) error {
	if _, err := t.db.ExecContext(ctx, `DELETE FROM ride_notifications WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete notification %d: %w", id, err)
	}
	return nil
}

func (t *PGTray) Close() { _ = t.db.Close() }

var _ present.Notifier = (*PGTray)(nil)
