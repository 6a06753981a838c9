// Package updater refreshes the local per-country CSV datasets from
// the WFP food price datasets published on the HDX portal. Each
// dataset page is scraped for its first CSV resource, the file is
// downloaded, units are normalized to canonical per-unit prices, and
// the result is written to the dataset directory under the country
// name.
package updater

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/pricetalk/pricetalk/internal/infra"
	"github.com/pricetalk/pricetalk/internal/logger"
)

const fetchConcurrency = 4

// Updater downloads and normalizes WFP datasets from HDX.
type Updater struct {
	baseURL    string
	datasetDir string
	sources    []string
	client     *http.Client
	limiter    *infra.RateLimiter
}

// Option configures an Updater.
type Option func(*Updater)

// WithSources replaces the default HDX dataset slug list.
func WithSources(sources []string) Option {
	return func(u *Updater) { u.sources = sources }
}

// WithClient replaces the HTTP client.
func WithClient(c *http.Client) Option {
	return func(u *Updater) { u.client = c }
}

// New creates an Updater writing into datasetDir.
func New(baseURL, datasetDir string, requestsPerSec int, timeout time.Duration, opts ...Option) *Updater {
	if requestsPerSec <= 0 {
		requestsPerSec = 2
	}
	u := &Updater{
		baseURL:    strings.TrimRight(baseURL, "/"),
		datasetDir: datasetDir,
		sources:    DatasetSources,
		client:     &http.Client{Timeout: timeout},
		limiter:    infra.NewRateLimiter(requestsPerSec, time.Second),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// UpdateAll refreshes every configured dataset. Failures are logged
// per dataset and do not stop the rest; the error reports how many
// failed, nil when all succeeded.
func (u *Updater) UpdateAll(ctx context.Context) error {
	if err := os.MkdirAll(u.datasetDir, 0o755); err != nil {
		return fmt.Errorf("create dataset dir %s: %w", u.datasetDir, err)
	}

	log := logger.WithComponent("updater")

	var g errgroup.Group
	g.SetLimit(fetchConcurrency)

	failures := make(chan string, len(u.sources))
	for _, slug := range u.sources {
		g.Go(func() error {
			if err := u.Update(ctx, slug); err != nil {
				log.WithError(err).WithField("dataset", slug).Warn("dataset update failed")
				failures <- slug
			}
			return nil
		})
	}
	g.Wait()
	close(failures)

	failed := 0
	for range failures {
		failed++
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d datasets failed to update", failed, len(u.sources))
	}
	return nil
}

// Update refreshes a single dataset identified by its HDX slug.
func (u *Updater) Update(ctx context.Context, slug string) error {
	resourceURL, err := u.resolveResource(ctx, slug)
	if err != nil {
		return fmt.Errorf("resolve resource for %s: %w", slug, err)
	}

	body, err := u.fetch(ctx, resourceURL)
	if err != nil {
		return fmt.Errorf("download %s: %w", resourceURL, err)
	}
	defer body.Close()

	country := strings.TrimPrefix(slug, slugPrefix)
	dest := filepath.Join(u.datasetDir, country+".csv")
	if err := u.writeNormalized(body, dest, slug); err != nil {
		return fmt.Errorf("normalize %s: %w", slug, err)
	}

	logger.WithComponent("updater").WithField("dataset", slug).Info("dataset updated")
	return nil
}

// resolveResource scrapes the HDX dataset page for the first CSV
// resource download link.
func (u *Updater) resolveResource(ctx context.Context, slug string) (string, error) {
	body, err := u.fetch(ctx, u.baseURL+"/dataset/"+slug)
	if err != nil {
		return "", err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("parse dataset page: %w", err)
	}

	var href string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		h, _ := s.Attr("href")
		if strings.Contains(h, "/download/") && strings.HasSuffix(strings.ToLower(h), ".csv") {
			href = h
			return false
		}
		return true
	})
	if href == "" {
		return "", fmt.Errorf("no CSV resource link on dataset page")
	}
	if strings.HasPrefix(href, "/") {
		href = u.baseURL + href
	}
	return href, nil
}

// fetch performs a rate-limited GET and returns the response body.
func (u *Updater) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := u.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "pricetalk-updater/1.0")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// writeNormalized streams the source CSV to dest, dropping the HXL
// description row and rewriting unit, price and usdprice to canonical
// per-unit values.
func (u *Updater) writeNormalized(src io.Reader, dest, slug string) error {
	log := logger.WithComponent("updater")

	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	unitIdx, okU := idx["unit"]
	priceIdx, okP := idx["price"]
	usdIdx, okD := idx["usdprice"]
	if !okU || !okP || !okD {
		return fmt.Errorf("missing unit/price/usdprice columns")
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".update-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}

	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			tmp.Close()
			return fmt.Errorf("read row: %w", err)
		}
		// The first data row of HDX exports is an HXL tag row.
		if first {
			first = false
			if len(row) > 0 && strings.HasPrefix(row[0], "#") {
				continue
			}
		}
		if len(row) <= unitIdx || len(row) <= priceIdx || len(row) <= usdIdx {
			continue
		}

		price, err1 := strconv.ParseFloat(row[priceIdx], 64)
		usd, err2 := strconv.ParseFloat(row[usdIdx], 64)
		if err1 != nil || err2 != nil {
			continue
		}

		unit, price, usd, ok := NormalizeUnit(row[unitIdx], price, usd)
		if !ok {
			log.WithField("dataset", slug).WithField("unit", row[unitIdx]).Warn("unit not recognized")
		}
		row[unitIdx] = unit
		row[priceIdx] = strconv.FormatFloat(price, 'f', -1, 64)
		row[usdIdx] = strconv.FormatFloat(usd, 'f', -1, 64)

		if err := w.Write(row); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
