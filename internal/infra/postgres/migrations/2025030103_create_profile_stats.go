package migrations

func init() {
	Migrations.MustRegister(execFile("create_profile_stats.sql"), dropTable("profile_stats"))
}
