package zombiezen

import (
	"context"
	"fmt"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/gatehouse/gatehouse/db"
)

func (d *Db) InsertSession(s db.Session) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO sessions (token, user_id, created, expires) VALUES (?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []interface{}{
				s.Token,
				s.UserID,
				db.TimeFormat(s.Created),
				db.TimeFormat(s.Expires),
			},
		})
	if err != nil {
		if sqlite.ErrCode(err) == sqlite.ResultConstraintUnique {
			return fmt.Errorf("session token collision: %w", db.ErrConstraintUnique)
		}
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession treats an expired row as absent. The row itself is left for
// the janitor to remove.
func (d *Db) GetSession(token string) (*db.Session, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var session *db.Session
	err = sqlitex.Execute(conn,
		`SELECT token, user_id, created, expires FROM sessions WHERE token = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				created, err := db.TimeParse(stmt.GetText("created"))
				if err != nil {
					return fmt.Errorf("error parsing created time: %w", err)
				}
				expires, err := db.TimeParse(stmt.GetText("expires"))
				if err != nil {
					return fmt.Errorf("error parsing expires time: %w", err)
				}
				session = &db.Session{
					Token:   stmt.GetText("token"),
					UserID:  stmt.GetText("user_id"),
					Created: created,
					Expires: expires,
				}
				return nil
			},
			Args: []interface{}{token},
		})
	if err != nil {
		return nil, err
	}
	if session == nil || !session.Expires.After(time.Now()) {
		return nil, db.ErrSessionNotFound
	}
	return session, nil
}

func (d *Db) DeleteSession(token string) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`DELETE FROM sessions WHERE token = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{token},
		})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (d *Db) PurgeExpiredSessions(now time.Time) (int64, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return 0, err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`DELETE FROM sessions WHERE expires <= ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{db.TimeFormat(now)},
		})
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return int64(conn.Changes()), nil
}
