package migrations

func init() {
	Migrations.MustRegister(execFile("create_profiles.sql"), dropTable("profiles"))
}
