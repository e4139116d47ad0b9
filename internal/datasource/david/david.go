// Package david fetches and parses DAVID functional annotation chart
// reports: tab-separated tables of enriched annotation terms for a gene
// list.
package david

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public DAVID service.
const DefaultBaseURL = "https://david.ncifcrf.gov"

// chartColumns is the column layout of a chart report.
var chartColumns = []string{
	"Category", "Term", "Count", "%", "Pvalue", "Genes",
	"List Total", "Pop Hits", "Pop Total", "Fold Enrichment",
	"Bonferroni", "Benjamini", "FDR",
}

// Record is one enriched annotation term.
type Record struct {
	Category       string
	Term           string
	Count          int
	Percent        float64
	PValue         float64
	Genes          string
	ListTotal      int
	PopHits        int
	PopTotal       int
	FoldEnrichment float64
	Bonferroni     float64
	Benjamini      float64
	FDR            float64
}

// Client fetches chart reports from a DAVID endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the public DAVID service.
func NewClient() *Client {
	return NewClientURL(DefaultBaseURL)
}

// NewClientURL creates a client against a specific endpoint, mainly for
// tests.
func NewClientURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) { c.httpClient = hc }

// ChartReportOptions tunes a chart report request. Zero values fall back
// to the service defaults (EASE threshold 0.1, count threshold 2, default
// annotation categories).
type ChartReportOptions struct {
	Categories     []string // annotation categories, e.g. KEGG_PATHWAY
	EASEThreshold  float64
	CountThreshold int
}

// ChartReport submits a gene list and returns the parsed chart report.
// idType names the identifier type of the list, e.g. ENTREZ_GENE_ID or
// GENE_SYMBOL. Lists above 3000 genes are refused by the service.
func (c *Client) ChartReport(ctx context.Context, genes []string, idType string, opts ChartReportOptions) ([]Record, error) {
	if len(genes) == 0 {
		return nil, fmt.Errorf("empty gene list")
	}
	thd := opts.EASEThreshold
	if thd == 0 {
		thd = 0.1
	}
	ct := opts.CountThreshold
	if ct == 0 {
		ct = 2
	}

	q := url.Values{}
	q.Set("type", idType)
	q.Set("ids", strings.Join(genes, ","))
	q.Set("tool", "chartReport")
	if len(opts.Categories) > 0 {
		q.Set("annot", strings.Join(opts.Categories, ","))
	}
	q.Set("thd", strconv.FormatFloat(thd, 'g', -1, 64))
	q.Set("ct", strconv.Itoa(ct))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api.jsp?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("david request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("david error %d: %s", resp.StatusCode, string(msg))
	}
	return ParseChartReport(resp.Body)
}

// ParseChartReport parses a tab-separated chart report, header included.
func ParseChartReport(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read chart report header: %w", err)
	}
	if len(header) != len(chartColumns) {
		return nil, fmt.Errorf("chart report has %d columns, want %d", len(header), len(chartColumns))
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read chart report row: %w", err)
		}
		rec, err := parseRecord(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRecord(row []string) (Record, error) {
	var rec Record
	var err error
	rec.Category = row[0]
	rec.Term = row[1]
	if rec.Count, err = strconv.Atoi(row[2]); err != nil {
		return rec, fmt.Errorf("term %q: bad count %q", rec.Term, row[2])
	}
	if rec.Percent, err = strconv.ParseFloat(row[3], 64); err != nil {
		return rec, fmt.Errorf("term %q: bad percent %q", rec.Term, row[3])
	}
	if rec.PValue, err = strconv.ParseFloat(row[4], 64); err != nil {
		return rec, fmt.Errorf("term %q: bad p-value %q", rec.Term, row[4])
	}
	rec.Genes = row[5]
	if rec.ListTotal, err = strconv.Atoi(row[6]); err != nil {
		return rec, fmt.Errorf("term %q: bad list total %q", rec.Term, row[6])
	}
	if rec.PopHits, err = strconv.Atoi(row[7]); err != nil {
		return rec, fmt.Errorf("term %q: bad pop hits %q", rec.Term, row[7])
	}
	if rec.PopTotal, err = strconv.Atoi(row[8]); err != nil {
		return rec, fmt.Errorf("term %q: bad pop total %q", rec.Term, row[8])
	}
	if rec.FoldEnrichment, err = strconv.ParseFloat(row[9], 64); err != nil {
		return rec, fmt.Errorf("term %q: bad fold enrichment %q", rec.Term, row[9])
	}
	if rec.Bonferroni, err = strconv.ParseFloat(row[10], 64); err != nil {
		return rec, fmt.Errorf("term %q: bad bonferroni %q", rec.Term, row[10])
	}
	if rec.Benjamini, err = strconv.ParseFloat(row[11], 64); err != nil {
		return rec, fmt.Errorf("term %q: bad benjamini %q", rec.Term, row[11])
	}
	if rec.FDR, err = strconv.ParseFloat(row[12], 64); err != nil {
		return rec, fmt.Errorf("term %q: bad FDR %q", rec.Term, row[12])
	}
	return rec, nil
}
