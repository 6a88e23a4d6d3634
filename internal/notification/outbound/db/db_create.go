package db

import (
	"context"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/notification/entity"
)

const sqlCreateEmailLog = `
	INSERT INTO notification_email_logs
		(id, user_id, email, trigger_key, subject, status, created_at, updated_at)
	VALUES
		($1, $2, $3, $4, $5, $6, now(), now())
`

func (d *DB) CreateEmailLog(ctx context.Context, data entity.CreateEmailLog) error {
	ctx, span := d.startSpan(ctx, "CreateEmailLog")
	var err error
	defer func() { d.endSpan(span, err) }()

	_, err = d.conn.Exec(ctx, sqlCreateEmailLog,
		data.ID,
		data.UserID,
		data.Email,
		data.TriggerKey.String(),
		data.Subject,
		data.Status.String(),
	)
	if err != nil {
		err = d.mapError(err)
		return err
	}

	return nil
}
