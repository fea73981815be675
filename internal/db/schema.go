package db

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    display_name  TEXT,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id          INTEGER PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT,
    type        TEXT NOT NULL CHECK (type IN ('LOST', 'FOUND')),
    category    TEXT NOT NULL,
    location    TEXT,
    date        TEXT,
    image       BLOB,
    image_mime  TEXT,
    image_ref   TEXT,
    status      TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED')),
    reporter_id INTEGER NOT NULL REFERENCES users(id),
    high_value  INTEGER NOT NULL DEFAULT 0,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at  DATETIME
);

CREATE INDEX IF NOT EXISTS idx_items_status
    ON items(status) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS claims (
    id                   INTEGER PRIMARY KEY,
    item_id              INTEGER NOT NULL,
    item_title           TEXT NOT NULL,
    claimant_id          INTEGER NOT NULL REFERENCES users(id),
    claimant_name        TEXT NOT NULL,
    status               TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED')),
    claimed_location     TEXT,
    claimed_description  TEXT,
    additional_proof     TEXT,
    proof                TEXT, -- legacy free-text field, read-compat only
    reject_reason        TEXT,
    ai_reviewed          INTEGER NOT NULL DEFAULT 0,
    ai_approved          INTEGER,
    ai_confidence        INTEGER,
    ai_needs_admin       INTEGER,
    ai_reason            TEXT,
    created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    decided_at           DATETIME
);

CREATE INDEX IF NOT EXISTS idx_claims_item ON claims(item_id);

CREATE TABLE IF NOT EXISTS claim_images (
    claim_id INTEGER NOT NULL REFERENCES claims(id),
    position INTEGER NOT NULL CHECK (position >= 0 AND position < 3),
    image    BLOB NOT NULL,
    mime     TEXT NOT NULL,
    PRIMARY KEY (claim_id, position)
);

CREATE TABLE IF NOT EXISTS notifications (
    id              INTEGER PRIMARY KEY,
    user_id         INTEGER NOT NULL REFERENCES users(id),
    type            TEXT NOT NULL,
    title           TEXT NOT NULL,
    message         TEXT NOT NULL,
    pickup_location TEXT,
    pickup_code     TEXT,
    read            INTEGER NOT NULL DEFAULT 0,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id);

CREATE TABLE IF NOT EXISTS inquiries (
    id          INTEGER PRIMARY KEY,
    item_id     INTEGER NOT NULL,
    item_title  TEXT NOT NULL,
    user_id     INTEGER NOT NULL REFERENCES users(id),
    username    TEXT NOT NULL,
    message     TEXT NOT NULL,
    admin_reply TEXT,
    status      TEXT NOT NULL DEFAULT 'OPEN' CHECK (status IN ('OPEN', 'RESOLVED')),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`
