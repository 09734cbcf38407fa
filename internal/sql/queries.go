package sql

import (
	"embed"
)

// Migrations holds the schema DDL applied by db.ApplyMigrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/insert_run.sql
var InsertRun string

//go:embed queries/insert_period_score.sql
var InsertPeriodScore string

//go:embed queries/delete_run.sql
var DeleteRun string
