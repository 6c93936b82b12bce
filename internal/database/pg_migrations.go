package database

import "github.com/go-pg/migrations/v8"

var pgMigrations = []*migrations.Migration{
	{
		Version: 1,
		UpTx:    true,
		Up: func(db migrations.DB) error {
			_, err := db.Exec(`
				CREATE TABLE IF NOT EXISTS admins (
					user_id  bigint PRIMARY KEY,
					username text,
					added_at timestamptz NOT NULL DEFAULT now()
				);
				CREATE TABLE IF NOT EXISTS post_types (
					id          bigserial PRIMARY KEY,
					name        text NOT NULL UNIQUE,
					banner_path text,
					created_at  timestamptz NOT NULL DEFAULT now()
				);
				CREATE TABLE IF NOT EXISTS post_logs (
					id              bigserial PRIMARY KEY,
					category        text NOT NULL,
					content         text,
					sender_id       bigint NOT NULL,
					sender_username text,
					media_ref       text,
					sent_at         timestamptz NOT NULL DEFAULT now()
				);`)
			return err
		},
		DownTx: true,
		Down: func(db migrations.DB) error {
			_, err := db.Exec(`
				DROP TABLE IF EXISTS post_logs;
				DROP TABLE IF EXISTS post_types;
				DROP TABLE IF EXISTS admins;`)
			return err
		},
	},
	{
		Version: 2,
		Up: func(db migrations.DB) error {
			_, err := db.Exec(`CREATE INDEX IF NOT EXISTS post_logs_category_idx ON post_logs (category)`)
			return err
		},
		Down: func(db migrations.DB) error {
			_, err := db.Exec(`DROP INDEX IF EXISTS post_logs_category_idx`)
			return err
		},
	},
}
