package postgres

// ══════════════════════════════════════════════════════════════════════════════
// DATABASE MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// migration001Up creates the users table. Students and staff share the table
// so the UNIQUE constraint on username spans both roles.
const migration001Up = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    username VARCHAR(50) NOT NULL UNIQUE,
    display_name VARCHAR(100) NOT NULL,
    password_hash TEXT NOT NULL,
    role VARCHAR(10) NOT NULL CHECK (role IN ('student', 'staff')),
    total_hours INTEGER NOT NULL DEFAULT 0 CHECK (total_hours >= 0),
    confirmation_requested BOOLEAN NOT NULL DEFAULT FALSE,
    seq BIGSERIAL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
CREATE INDEX IF NOT EXISTS idx_users_pending ON users(role, confirmation_requested)
    WHERE confirmation_requested = TRUE;
CREATE INDEX IF NOT EXISTS idx_users_total_hours ON users(total_hours DESC);
`

const migration001Down = `
DROP TABLE IF EXISTS users;
`

// GetMigrations returns all migrations in order.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_users_table",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
	}
}
