package db

import "testing"

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@localhost:5432/stock?sslmode=disable", "pgx5://u:p@localhost:5432/stock?sslmode=disable"},
		{"postgresql://u:p@db/stock", "pgx5://u:p@db/stock"},
		{"pgx5://u:p@db/stock", "pgx5://u:p@db/stock"},
	}
	for _, tt := range tests {
		if got := MigrateURL(tt.in); got != tt.want {
			t.Errorf("MigrateURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 || len(entries)%2 != 0 {
		t.Errorf("expected up/down pairs, got %d files", len(entries))
	}
}
