package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder_AvailabilityWindow(t *testing.T) {
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	query, args, err := Select("id", "court_name").
		From("court_availabilities").
		Where(
			Gte("start_time", start),
			Lte("end_time", end),
			In("club_id", []any{"c1", "c2"}),
		).
		OrderBy("start_time", "court_name").
		Limit(500).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, court_name FROM court_availabilities WHERE start_time >= $1 AND end_time <= $2 AND club_id IN ($3, $4) ORDER BY start_time, court_name LIMIT 500"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "c1" || args[3] != "c2" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("*").From("clubs").Where(In("id", nil), Expr("lower(name) = lower(?)", "Arena")).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM clubs WHERE 1=0 AND lower(name) = lower($1)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "Arena" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels_MultiRow(t *testing.T) {
	type row struct {
		ID      string `db:"id"`
		Name    string `db:"court_name"`
		Ignored string `db:"-"`
		hidden  string
	}

	query, args, err := InsertModels("court_availabilities", []row{
		{ID: "a", Name: "Kort 1"},
		{ID: "b", Name: "Hala 2", hidden: "x"},
	}, "ON CONFLICT DO NOTHING")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO court_availabilities (id, court_name) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "a" || args[3] != "Hala 2" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("court_availabilities").Where(In("id", []any{"a", "b"})).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM court_availabilities WHERE id IN ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("court_availabilities").ToSQL(); err == nil {
		t.Fatalf("expected unconditional delete to be rejected")
	}
}
