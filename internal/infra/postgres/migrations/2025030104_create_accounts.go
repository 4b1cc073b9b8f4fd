package migrations

func init() {
	Migrations.MustRegister(execFile("create_accounts.sql"), dropTable("accounts"))
}
