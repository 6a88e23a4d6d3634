package db

import (
	"context"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/notification/entity"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/goerror"
)

const sqlUpdateEmailLogStatus = `
	UPDATE notification_email_logs
	SET status = $2, provider_response = $3, next_retry_at = $4, updated_at = now()
	WHERE id = $1
`

func (d *DB) UpdateEmailLogStatus(ctx context.Context, data entity.UpdateEmailLog) error {
	ctx, span := d.startSpan(ctx, "UpdateEmailLogStatus")
	var err error
	defer func() { d.endSpan(span, err) }()

	tag, err := d.conn.Exec(ctx, sqlUpdateEmailLogStatus,
		data.ID,
		data.Status.String(),
		data.ProviderResponse,
		data.NextRetryAt,
	)
	if err != nil {
		err = d.mapError(err)
		return err
	}

	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
		return err
	}

	return nil
}
