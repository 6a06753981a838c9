package store

import (
	"os"
	"path/filepath"
	"testing"
)

const header = "date,commodity,price,usdprice,currency,pricetype\n"

func writeDataset(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	writeDataset(t, dir, "kenya.csv", header+
		"2023-01-15,Maize,50.5,0.39,KES,Wholesale\n"+
		"2023-02-15,Maize,52.0,0.40,KES,Wholesale\n"+
		"2023-02-15,Beans,120.0,0.92,KES,Retail\n")
	writeDataset(t, dir, "burkina-faso.csv", header+
		"2023-01-10,Millet,210.0,0.35,XOF,Retail\n")
	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return s
}

// ── Loading ──

func TestLoadCountries(t *testing.T) {
	s := testStore(t)
	got := s.Countries()
	want := []string{"burkina faso", "kenya"}
	if len(got) != len(want) {
		t.Fatalf("Countries: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Countries[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCommodityVocabularyIsSortedDistinct(t *testing.T) {
	s := testStore(t)
	got := s.Commodities("kenya")
	want := []string{"Beans", "Maize"}
	if len(got) != len(want) {
		t.Fatalf("Commodities: got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Commodities[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRowsTaggedWithCountry(t *testing.T) {
	s := testStore(t)
	rows := s.Rows("burkina faso")
	if len(rows) != 1 {
		t.Fatalf("Rows: got %d rows", len(rows))
	}
	if rows[0].Country != "burkina faso" {
		t.Errorf("Country tag: got %q", rows[0].Country)
	}
	if rows[0].Currency != "XOF" {
		t.Errorf("Currency: got %q", rows[0].Currency)
	}
}

func TestUnknownCountry(t *testing.T) {
	s := testStore(t)
	if s.Rows("atlantis") != nil || s.Commodities("atlantis") != nil {
		t.Error("unknown country should return nil")
	}
}

// ── Malformed sources ──

func TestMalformedFileExcludedNotFatal(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "kenya.csv", header+"2023-01-15,Maize,50.5,0.39,KES,Wholesale\n")
	// Missing the usdprice column.
	writeDataset(t, dir, "broken.csv", "date,commodity,price\n2023-01-15,Maize,50.5\n")

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load should tolerate one malformed file: %v", err)
	}
	if len(s.Countries()) != 1 || s.Countries()[0] != "kenya" {
		t.Errorf("Countries: got %v, want just kenya", s.Countries())
	}
}

func TestDescriptionRowSkipped(t *testing.T) {
	// WFP exports carry a #date,#item style description row under the
	// header; it has no parseable date and must be dropped, not fatal.
	dir := t.TempDir()
	writeDataset(t, dir, "kenya.csv", header+
		"#date,#item,#value,#value+usd,#currency,#type\n"+
		"2023-01-15,Maize,50.5,0.39,KES,Wholesale\n")
	s, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(s.Rows("kenya")); got != 1 {
		t.Errorf("rows: got %d, want 1", got)
	}
}

func TestAllMalformedFails(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "broken.csv", "nope\n")
	if _, err := Load(dir); err == nil {
		t.Error("expected error when nothing loads")
	}
}

func TestEmptyDirFails(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected error for empty datasets dir")
	}
}

// ── Holder / atomic swap ──

func TestHolderReloadSwapsSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "kenya.csv", header+"2023-01-15,Maize,50.5,0.39,KES,Wholesale\n")

	h, err := NewHolder(dir)
	if err != nil {
		t.Fatal(err)
	}
	old := h.Get()

	writeDataset(t, dir, "ghana.csv", header+"2023-03-01,Yam,12.0,1.0,GHS,Retail\n")
	if err := h.Reload(); err != nil {
		t.Fatal(err)
	}

	if len(old.Countries()) != 1 {
		t.Error("old snapshot must be unchanged")
	}
	if len(h.Get().Countries()) != 2 {
		t.Errorf("new snapshot: got %v", h.Get().Countries())
	}
}

func TestHolderReloadFailureKeepsOldSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "kenya.csv", header+"2023-01-15,Maize,50.5,0.39,KES,Wholesale\n")
	h, err := NewHolder(dir)
	if err != nil {
		t.Fatal(err)
	}
	old := h.Get()

	if err := os.Remove(filepath.Join(dir, "kenya.csv")); err != nil {
		t.Fatal(err)
	}
	if err := h.Reload(); err == nil {
		t.Fatal("expected reload failure for empty dir")
	}
	if h.Get() != old {
		t.Error("failed reload must keep the previous snapshot")
	}
}
