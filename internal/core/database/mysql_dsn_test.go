package database

import (
	"testing"

	mysqldrv "github.com/go-sql-driver/mysql"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		user     string
		pass     string
		wantUser string
		wantPass string
		wantAddr string
		wantDB   string
		wantTLS  string
	}{
		{
			name: "native", in: "radar:pw@tcp(db:3306)/radar",
			wantUser: "radar", wantPass: "pw", wantAddr: "db:3306", wantDB: "radar",
		},
		{
			name: "url", in: "mysql://radar:pw@db:3306/radar?useSSL=false&characterEncoding=utf8",
			wantUser: "radar", wantPass: "pw", wantAddr: "db:3306", wantDB: "radar", wantTLS: "false",
		},
		{
			name: "jdbc with query creds", in: "jdbc:mysql://db:3306/radar?user=a&password=b&useUnicode=true",
			wantUser: "a", wantPass: "b", wantAddr: "db:3306", wantDB: "radar",
		},
		{
			name: "overrides", in: "mysql://radar:pw@db:3306/radar", user: "ops", pass: "secret",
			wantUser: "ops", wantPass: "secret", wantAddr: "db:3306", wantDB: "radar",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dsn, err := normalizeMySQLDSN(tc.in, tc.user, tc.pass)
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			cfg, err := mysqldrv.ParseDSN(dsn)
			if err != nil {
				t.Fatalf("ParseDSN(%q): %v", dsn, err)
			}
			if cfg.User != tc.wantUser || cfg.Passwd != tc.wantPass {
				t.Errorf("creds = %s/%s, want %s/%s", cfg.User, cfg.Passwd, tc.wantUser, tc.wantPass)
			}
			if cfg.Addr != tc.wantAddr || cfg.DBName != tc.wantDB {
				t.Errorf("target = %s/%s, want %s/%s", cfg.Addr, cfg.DBName, tc.wantAddr, tc.wantDB)
			}
			if !cfg.ParseTime {
				t.Errorf("parseTime should be forced on: %s", dsn)
			}
			if !cfg.ClientFoundRows {
				t.Errorf("clientFoundRows should be forced on: %s", dsn)
			}
			if tc.wantTLS != "" && cfg.TLSConfig != tc.wantTLS {
				t.Errorf("tls = %q, want %q", cfg.TLSConfig, tc.wantTLS)
			}
		})
	}
}

func TestNormalizeMySQLDSNEmpty(t *testing.T) {
	if _, err := normalizeMySQLDSN("  ", "", ""); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestMaskDSN(t *testing.T) {
	if got := maskDSN("radar:pw@tcp(db:3306)/radar"); got != "radar:****@tcp(db:3306)/radar" {
		t.Errorf("maskDSN = %q", got)
	}
	if got := maskDSN("file:radar.db"); got != "file:radar.db" {
		t.Errorf("maskDSN = %q", got)
	}
}

func TestNewGormUnsupported(t *testing.T) {
	if _, err := NewGorm(Opts{Driver: "oracle"}); err != ErrUnsupportedDriver {
		t.Fatalf("err = %v, want ErrUnsupportedDriver", err)
	}
}
