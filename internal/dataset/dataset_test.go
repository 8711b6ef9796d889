package dataset

import (
	"strings"
	"testing"

	"github.com/oukeidos/batrans/internal/apperrors"
)

func TestParse_AppendsTranslatedColumn(t *testing.T) {
	ds, err := Parse(strings.NewReader("id,summary\n1,Hola\n2,Adios\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("Len = %d", ds.Len())
	}
	for i := 0; i < ds.Len(); i++ {
		if !ds.Pending(i) {
			t.Errorf("row %d should be pending", i)
		}
		if ds.Translated(i) != "" {
			t.Errorf("row %d translated = %q", i, ds.Translated(i))
		}
	}
	if ds.Summary(1) != "Adios" {
		t.Errorf("Summary(1) = %q", ds.Summary(1))
	}

	out, err := ds.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if !strings.HasPrefix(string(out), "id,summary,translated_summary\n") {
		t.Fatalf("header not extended: %q", string(out))
	}
}

func TestParse_ExistingTranslationsAreDone(t *testing.T) {
	input := "summary,translated_summary\nHola,Hello\nAdios,\n"
	ds, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ds.Pending(0) {
		t.Error("row 0 already translated, must not be pending")
	}
	if !ds.Pending(1) {
		t.Error("row 1 has no translation, must be pending")
	}
}

func TestParse_MissingSummaryColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("id,text\n1,Hola\n"))
	if !apperrors.Is(err, apperrors.KindBadRequest) {
		t.Fatalf("expected bad request error, got %v", err)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	if !apperrors.Is(err, apperrors.KindBadRequest) {
		t.Fatalf("expected bad request error, got %v", err)
	}
}

func TestSetTranslated_EmptyValueCountsAsDone(t *testing.T) {
	ds, err := Parse(strings.NewReader("summary\n\"\"\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !ds.Pending(0) {
		t.Fatal("row should start pending")
	}
	ds.SetTranslated(0, "")
	if ds.Pending(0) {
		t.Fatal("empty translation must still mark the row done")
	}
}

func TestBytes_RoundTripPreservesColumnsAndOrder(t *testing.T) {
	input := "id,summary,category\n1,Hola,news\n2,Adios,sport\n"
	ds, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	ds.SetTranslated(0, "Hello")
	ds.SetTranslated(1, "Goodbye")

	out, err := ds.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	want := "id,summary,category,translated_summary\n" +
		"1,Hola,news,Hello\n" +
		"2,Adios,sport,Goodbye\n"
	if string(out) != want {
		t.Fatalf("serialized table:\n%s\nwant:\n%s", out, want)
	}

	reloaded, err := Parse(strings.NewReader(string(out)))
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	for i := 0; i < reloaded.Len(); i++ {
		if reloaded.Pending(i) {
			t.Errorf("row %d should survive a round trip as done", i)
		}
	}
}

func TestParse_QuotedFieldsWithCommas(t *testing.T) {
	input := "summary\n\"Hola, mundo\"\n"
	ds, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ds.Summary(0) != "Hola, mundo" {
		t.Fatalf("Summary(0) = %q", ds.Summary(0))
	}
}
