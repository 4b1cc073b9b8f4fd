package migrations

func init() {
	Migrations.MustRegister(execFile("create_auth_tokens.sql"), dropTable("auth_tokens"))
}
