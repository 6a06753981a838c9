package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleCSV = `date,market,commodity,unit,pricetype,currency,price,usdprice
#date,#loc+market,#item+name,#item+unit,#item+price+type,#currency,#value,#value+usd
2023-05-15,Nairobi,Maize,MT,Wholesale,KES,500000,4000
2023-05-15,Nairobi,Milk,Gallon,Retail,KES,378.541,3.78541
2023-05-15,Nairobi,Eggs,Dozen,Retail,KES,120,12
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/dataset/wfp-food-prices-for-kenya", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="/about">About</a>
			<a href="/dataset/x/resource/y/download/wfp_food_prices_ken.csv">Download</a>
		</body></html>`))
	})
	mux.HandleFunc("/dataset/x/resource/y/download/wfp_food_prices_ken.csv", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sampleCSV))
	})
	return httptest.NewServer(mux)
}

func TestUpdateNormalizesAndWrites(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	dir := t.TempDir()
	u := New(srv.URL, dir, 10, 5*time.Second)

	if err := u.Update(context.Background(), "wfp-food-prices-for-kenya"); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "kenya.csv"))
	if err != nil {
		t.Fatalf("output file: %v", err)
	}
	out := string(data)

	if strings.Contains(out, "#date") {
		t.Error("HXL tag row must be dropped")
	}
	if !strings.Contains(out, "Maize,KG,Wholesale,KES,500,4") {
		t.Errorf("MT row not normalized to KG:\n%s", out)
	}
	if !strings.Contains(out, "Milk,L,") {
		t.Errorf("Gallon row not normalized to L:\n%s", out)
	}
	if !strings.Contains(out, "Eggs,Unit,Retail,KES,10,1") {
		t.Errorf("Dozen row not normalized to Unit:\n%s", out)
	}
}

func TestUpdateAllReportsFailures(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	dir := t.TempDir()
	u := New(srv.URL, dir, 10, 5*time.Second,
		WithSources([]string{"wfp-food-prices-for-kenya", "wfp-food-prices-for-atlantis"}))

	err := u.UpdateAll(context.Background())
	if err == nil {
		t.Fatal("expected error when one dataset fails")
	}
	if !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("error: got %q", err)
	}

	// The healthy dataset must still have been written.
	if _, err := os.Stat(filepath.Join(dir, "kenya.csv")); err != nil {
		t.Errorf("kenya.csv missing after partial failure: %v", err)
	}
}

func TestResolveResourceNoLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><body><a href="/elsewhere">nope</a></body></html>`))
	}))
	defer srv.Close()

	u := New(srv.URL, t.TempDir(), 10, 5*time.Second)
	if err := u.Update(context.Background(), "wfp-food-prices-for-kenya"); err == nil {
		t.Error("expected error when page has no CSV resource link")
	}
}
