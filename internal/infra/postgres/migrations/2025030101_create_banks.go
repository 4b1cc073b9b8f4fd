package migrations

func init() {
	Migrations.MustRegister(execFile("create_banks.sql"), dropTable("banks"))
}
