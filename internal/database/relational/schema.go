package relational

// SchemaSQL creates every table the repository uses. It is idempotent.
//
// media_counts is the cache behind cached count queries; live queries
// count the source tables and write their answer back here. Every content
// write drops the row of the category it touches.
const SchemaSQL = `
CREATE SEQUENCE IF NOT EXISTS media_seq START 1;
CREATE SEQUENCE IF NOT EXISTS edit_seq START 1;

CREATE TABLE IF NOT EXISTS peers (
  peer_id     BIGINT PRIMARY KEY,
  kind        VARCHAR NOT NULL,
  title       VARCHAR NOT NULL,
  username    VARCHAR,
  about       VARCHAR,
  phone       VARCHAR,
  slow_mode   INTEGER NOT NULL DEFAULT 0,
  is_public   BOOLEAN NOT NULL DEFAULT false,
  updated_at  TIMESTAMP NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS capabilities (
  peer_id     BIGINT NOT NULL,
  capability  VARCHAR NOT NULL,
  PRIMARY KEY (peer_id, capability)
);

CREATE TABLE IF NOT EXISTS members (
  peer_id     BIGINT NOT NULL,
  user_id     BIGINT NOT NULL,
  name        VARCHAR NOT NULL,
  role        VARCHAR NOT NULL DEFAULT 'member',
  joined_at   TIMESTAMP NOT NULL DEFAULT now(),
  PRIMARY KEY (peer_id, user_id)
);

CREATE TABLE IF NOT EXISTS media (
  media_id    BIGINT PRIMARY KEY DEFAULT nextval('media_seq'),
  peer_id     BIGINT NOT NULL,
  category    VARCHAR NOT NULL,
  caption     VARCHAR,
  sent_at     TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS common_groups (
  user_peer_id  BIGINT NOT NULL,
  group_peer_id BIGINT NOT NULL,
  PRIMARY KEY (user_peer_id, group_peer_id)
);

CREATE TABLE IF NOT EXISTS media_counts (
  peer_id     BIGINT NOT NULL,
  category    VARCHAR NOT NULL,
  item_count  INTEGER NOT NULL,
  updated_at  TIMESTAMP NOT NULL DEFAULT now(),
  PRIMARY KEY (peer_id, category)
);

CREATE TABLE IF NOT EXISTS settings_edits (
  edit_id     BIGINT PRIMARY KEY DEFAULT nextval('edit_seq'),
  peer_id     BIGINT NOT NULL,
  field       VARCHAR NOT NULL,
  value       VARCHAR,
  applied_at  TIMESTAMP NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS activity_daily (
  peer_id     BIGINT NOT NULL,
  day         DATE NOT NULL,
  messages    INTEGER NOT NULL,
  PRIMARY KEY (peer_id, day)
);
`
