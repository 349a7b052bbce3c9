package app

import (
	"strings"
	"testing"
)

func TestParsePostgresDSN_URLForm(t *testing.T) {
	t.Parallel()

	got := parsePostgresDSN("postgres://sync:pass@db:5432/tournament_sync?sslmode=disable", "tournament-sync", true)
	if got.dbName != "tournament_sync" {
		t.Fatalf("unexpected db name: got=%q want=%q", got.dbName, "tournament_sync")
	}
	for _, want := range []string{"disable_prepared_binary_result=yes", "application_name=tournament-sync", "sslmode=disable"} {
		if !strings.Contains(got.conn, want) {
			t.Fatalf("expected %q in dsn, got %q", want, got.conn)
		}
	}
}

func TestParsePostgresDSN_KeepsExplicitValues(t *testing.T) {
	t.Parallel()

	got := parsePostgresDSN("postgres://db/tournament_sync?disable_prepared_binary_result=no&application_name=ops", "tournament-sync", true)
	if !strings.Contains(got.conn, "disable_prepared_binary_result=no") || !strings.Contains(got.conn, "application_name=ops") {
		t.Fatalf("explicit parameters must win, got %q", got.conn)
	}
}

func TestParsePostgresDSN_KeyValueForm(t *testing.T) {
	t.Parallel()

	got := parsePostgresDSN("host=db user=sync dbname='tournament_sync' sslmode=disable", "", true)
	if got.dbName != "tournament_sync" {
		t.Fatalf("unexpected db name: got=%q", got.dbName)
	}
	if !strings.HasSuffix(got.conn, " disable_prepared_binary_result=yes") {
		t.Fatalf("expected flag appended, got %q", got.conn)
	}
	if strings.Contains(got.conn, "application_name") {
		t.Fatalf("empty application name must not be added, got %q", got.conn)
	}
}

func TestParsePostgresDSN_FlagOff(t *testing.T) {
	t.Parallel()

	got := parsePostgresDSN("host=db dbname=tournament_sync", "", false)
	if got.conn != "host=db dbname=tournament_sync" {
		t.Fatalf("expected dsn unchanged, got %q", got.conn)
	}
}

func TestQuerySpanName(t *testing.T) {
	t.Parallel()

	got := querySpanName(" SELECT   *\nFROM draws \t WHERE sub_event_id = $1 ")
	if want := "SELECT * FROM draws WHERE sub_event_id = $1"; got != want {
		t.Fatalf("unexpected span name: got=%q want=%q", got, want)
	}

	long := "SELECT " + strings.Repeat("é", 400)
	got = querySpanName(long)
	if !strings.HasSuffix(got, "...") || len(got) > maxQuerySpanName+3 {
		t.Fatalf("expected truncated name, got len=%d", len(got))
	}
	if !strings.HasPrefix(got, "SELECT é") {
		t.Fatalf("unexpected prefix: %q", got[:10])
	}
}
