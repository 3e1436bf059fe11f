package migrate

import "embed"

const embeddedDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS
