package zombiezen

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/gatehouse/gatehouse/db"
)

const userColumns = `id, email, password, verified, verification_code, verification_expires,
	google_id, microsoft_id, amazon_id, idme_id,
	name, first_name, last_name, avatar, affiliation, created, last_login`

// newUserFromStmt creates a User struct from a SQLite statement.
func newUserFromStmt(stmt *sqlite.Stmt) (*db.User, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	lastLogin, err := db.TimeParse(stmt.GetText("last_login"))
	if err != nil {
		return nil, fmt.Errorf("error parsing last_login time: %w", err)
	}

	verificationExpires, err := db.TimeParse(stmt.GetText("verification_expires"))
	if err != nil {
		return nil, fmt.Errorf("error parsing verification_expires time: %w", err)
	}

	return &db.User{
		ID:                  stmt.GetText("id"),
		Email:               stmt.GetText("email"),
		Password:            stmt.GetText("password"),
		Verified:            stmt.GetInt64("verified") != 0,
		VerificationCode:    stmt.GetText("verification_code"),
		VerificationExpires: verificationExpires,
		GoogleID:            stmt.GetText("google_id"),
		MicrosoftID:         stmt.GetText("microsoft_id"),
		AmazonID:            stmt.GetText("amazon_id"),
		IDmeID:              stmt.GetText("idme_id"),
		Name:                stmt.GetText("name"),
		FirstName:           stmt.GetText("first_name"),
		LastName:            stmt.GetText("last_name"),
		Avatar:              stmt.GetText("avatar"),
		Affiliation:         stmt.GetText("affiliation"),
		Created:             created,
		LastLogin:           lastLogin,
	}, nil
}

// providerColumn maps a provider name to its users column. The column
// name is interpolated into SQL, so only known providers pass.
func providerColumn(provider string) (string, error) {
	switch provider {
	case db.ProviderGoogle:
		return "google_id", nil
	case db.ProviderMicrosoft:
		return "microsoft_id", nil
	case db.ProviderAmazon:
		return "amazon_id", nil
	case db.ProviderIDme:
		return "idme_id", nil
	}
	return "", fmt.Errorf("unknown provider %q", provider)
}

// nullable turns the empty string into NULL so partial unique indexes on
// provider columns ignore unlinked users.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func (d *Db) getUserWhere(where string, arg interface{}) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var user *db.User
	err = sqlitex.Execute(conn,
		`SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				user, err = newUserFromStmt(stmt)
				return err
			},
			Args: []interface{}{arg},
		})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (d *Db) GetUserByEmail(email string) (*db.User, error) {
	user, err := d.getUserWhere("email = ?", email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, db.ErrUserNotFound
	}
	return user, nil
}

func (d *Db) GetUserById(id string) (*db.User, error) {
	user, err := d.getUserWhere("id = ?", id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, db.ErrUserNotFound
	}
	return user, nil
}

// GetUserByProvider returns (nil, nil) when no user carries the external
// identifier; absence is an expected outcome here, not an error.
func (d *Db) GetUserByProvider(provider, externalID string) (*db.User, error) {
	col, err := providerColumn(provider)
	if err != nil {
		return nil, err
	}
	return d.getUserWhere(col+" = ?", externalID)
}

// CreateUserWithPassword inserts a password user. If the email already
// exists the conflict branch leaves the row untouched, including an
// OAuth2-only row with an empty password: an unauthenticated caller
// must not be able to attach a password to an account it does not own.
// The returned record reflects the row after the statement; callers
// detect the already-registered case by comparing the returned hash
// with the one they submitted.
func (d *Db) CreateUserWithPassword(user db.User) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var createdUser db.User
	err = sqlitex.Execute(conn,
		`INSERT INTO users (id, email, password, verified, name)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			email = excluded.email
		RETURNING `+userColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				tempUser, err := newUserFromStmt(stmt)
				if err == nil && tempUser != nil {
					createdUser = *tempUser
				}
				return err
			},
			Args: []interface{}{
				uuid.NewString(),
				user.Email,
				user.Password,
				user.Verified,
				user.Name,
			},
		})
	if err != nil {
		return nil, err
	}
	return &createdUser, nil
}

// CreateUserWithOauth2 inserts a provider-verified user. If the email
// already exists the external identifier is linked into the matching
// provider slot, but only when that slot is empty. The account becomes
// verified either way: the provider asserted ownership of the email.
func (d *Db) CreateUserWithOauth2(user db.User) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var createdUser db.User
	err = sqlitex.Execute(conn,
		`INSERT INTO users (id, email, verified, google_id, microsoft_id, amazon_id, idme_id,
			name, first_name, last_name, avatar, affiliation)
		VALUES (?, ?, 1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			verified = 1,
			google_id = COALESCE(google_id, excluded.google_id),
			microsoft_id = COALESCE(microsoft_id, excluded.microsoft_id),
			amazon_id = COALESCE(amazon_id, excluded.amazon_id),
			idme_id = COALESCE(idme_id, excluded.idme_id)
		RETURNING `+userColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				tempUser, err := newUserFromStmt(stmt)
				if err == nil && tempUser != nil {
					createdUser = *tempUser
				}
				return err
			},
			Args: []interface{}{
				uuid.NewString(),
				user.Email,
				nullable(user.GoogleID),
				nullable(user.MicrosoftID),
				nullable(user.AmazonID),
				nullable(user.IDmeID),
				user.Name,
				user.FirstName,
				user.LastName,
				user.Avatar,
				user.Affiliation,
			},
		})
	if err != nil {
		if sqlite.ErrCode(err) == sqlite.ResultConstraintUnique {
			return nil, fmt.Errorf("external identifier already linked: %w", db.ErrConstraintUnique)
		}
		return nil, err
	}
	return &createdUser, nil
}

// LinkProvider fills the user's provider slot with the external
// identifier. An occupied slot is left untouched; re-linking the same
// identifier is a no-op.
func (d *Db) LinkProvider(userID, provider, externalID string) error {
	col, err := providerColumn(provider)
	if err != nil {
		return err
	}

	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE users SET `+col+` = ? WHERE id = ? AND `+col+` IS NULL`,
		&sqlitex.ExecOptions{
			Args: []interface{}{externalID, userID},
		})
	if err != nil {
		if sqlite.ErrCode(err) == sqlite.ResultConstraintUnique {
			return fmt.Errorf("external identifier already linked: %w", db.ErrConstraintUnique)
		}
		return err
	}
	if conn.Changes() > 0 {
		return nil
	}

	// No row changed: the user is missing or the slot is occupied.
	var current string
	found := false
	err = sqlitex.Execute(conn,
		`SELECT `+col+` FROM users WHERE id = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				current = stmt.ColumnText(0)
				found = true
				return nil
			},
			Args: []interface{}{userID},
		})
	if err != nil {
		return err
	}
	if !found {
		return db.ErrUserNotFound
	}
	if current == externalID {
		return nil
	}
	return fmt.Errorf("provider slot already occupied: %w", db.ErrConstraintUnique)
}

func (d *Db) SetVerificationCode(userID, code string, expires time.Time) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE users SET verification_code = ?, verification_expires = ? WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{code, db.TimeFormat(expires), userID},
		})
	if err != nil {
		return fmt.Errorf("failed to set verification code: %w", err)
	}
	if conn.Changes() == 0 {
		return db.ErrUserNotFound
	}
	return nil
}

func (d *Db) MarkVerified(userID string) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE users
		SET verified = 1,
			verification_code = '',
			verification_expires = ''
		WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{userID},
		})
	if err != nil {
		return fmt.Errorf("failed to mark verified: %w", err)
	}
	if conn.Changes() == 0 {
		return db.ErrUserNotFound
	}
	return nil
}

func (d *Db) UpdateLastLogin(userID string) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE users
		SET last_login = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{userID},
		})
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
