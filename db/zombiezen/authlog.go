package zombiezen

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/gatehouse/gatehouse/db"
)

// InsertAuthEvents writes a batch of audit rows in one transaction.
// Events without an id get one assigned; events without a timestamp are
// stamped with the current time.
func (d *Db) InsertAuthEvents(batch []db.AuthEvent) (err error) {
	if len(batch) == 0 {
		return nil
	}

	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	for _, event := range batch {
		if event.ID == "" {
			event.ID = uuid.NewString()
		}
		if event.Created.IsZero() {
			event.Created = time.Now()
		}
		err = sqlitex.Execute(conn,
			`INSERT INTO auth_logs (id, user_id, action, status, ip, user_agent, created)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{
				Args: []interface{}{
					event.ID,
					event.UserID,
					event.Action,
					event.Status,
					event.IP,
					event.UserAgent,
					db.TimeFormat(event.Created),
				},
			})
		if err != nil {
			return fmt.Errorf("failed to insert auth event: %w", err)
		}
	}
	return nil
}

func (d *Db) PurgeAuthEventsBefore(cutoff time.Time) (int64, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return 0, err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`DELETE FROM auth_logs WHERE created < ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{db.TimeFormat(cutoff)},
		})
	if err != nil {
		return 0, fmt.Errorf("failed to purge auth events: %w", err)
	}
	return int64(conn.Changes()), nil
}
