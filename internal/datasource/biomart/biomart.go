// Package biomart queries Ensembl's BioMart martservice for gene
// annotations, returning results as frames.
package biomart

import (
	"context"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/omixlab/gexpr/internal/dataframe"
)

// DefaultHost is the current Ensembl build. Archived builds use hosts like
// https://may2024.archive.ensembl.org.
const DefaultHost = "https://www.ensembl.org"

// DefaultAttributes are the annotation fields fetched when the caller does
// not choose their own.
var DefaultAttributes = []string{
	"ensembl_gene_id",
	"hgnc_symbol",
	"external_gene_name",
	"chromosome_name",
	"gene_biotype",
	"description",
}

// Client queries a BioMart service for one dataset.
type Client struct {
	host       string
	dataset    string
	httpClient *http.Client
}

// NewClient creates a client for the human gene dataset on the current
// Ensembl build.
func NewClient() *Client {
	return NewClientHost(DefaultHost, "hsapiens_gene_ensembl")
}

// NewClientHost creates a client against a specific host and dataset.
func NewClientHost(host, dataset string) *Client {
	return &Client{
		host:    strings.TrimRight(host, "/"),
		dataset: dataset,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) { c.httpClient = hc }

// martQuery is the XML document the martservice expects.
type martQuery struct {
	XMLName           xml.Name      `xml:"Query"`
	VirtualSchemaName string        `xml:"virtualSchemaName,attr"`
	Formatter         string        `xml:"formatter,attr"`
	Header            int           `xml:"header,attr"`
	UniqueRows        int           `xml:"uniqueRows,attr"`
	ConfigVersion     string        `xml:"datasetConfigVersion,attr"`
	Dataset           martDataset   `xml:"Dataset"`
}

type martDataset struct {
	Name       string          `xml:"name,attr"`
	Interface  string          `xml:"interface,attr"`
	Filters    []martFilter    `xml:"Filter"`
	Attributes []martAttribute `xml:"Attribute"`
}

type martFilter struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type martAttribute struct {
	Name string `xml:"name,attr"`
}

// Query retrieves the given attributes for the values of a filter. The
// filter must be among the attributes so the result can be re-indexed by
// it; rows come back in the input value order where present.
func (c *Client) Query(ctx context.Context, values []string, filter string, attributes []string) (*dataframe.Frame, error) {
	if len(attributes) == 0 {
		attributes = DefaultAttributes
	}
	if !contains(attributes, filter) {
		attributes = append([]string{filter}, attributes...)
	}

	// Header rows carry display names ("Gene stable ID"), not attribute
	// names, so ask for bare rows and name the columns ourselves: the
	// response column order is the attribute order of the query.
	q := martQuery{
		VirtualSchemaName: "default",
		Formatter:         "TSV",
		Header:            0,
		UniqueRows:        1,
		ConfigVersion:     "0.6",
		Dataset: martDataset{
			Name:      c.dataset,
			Interface: "default",
			Filters:   []martFilter{{Name: filter, Value: strings.Join(values, ",")}},
		},
	}
	for _, a := range attributes {
		q.Dataset.Attributes = append(q.Dataset.Attributes, martAttribute{Name: a})
	}
	doc, err := xml.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("marshal mart query: %w", err)
	}
	payload := xml.Header + `<!DOCTYPE Query>` + string(doc)

	form := url.Values{"query": {payload}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.host+"/biomart/martservice", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("biomart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("biomart error %d: %s", resp.StatusCode, string(msg))
	}

	frame, err := parseTSV(resp.Body, attributes, filter)
	if err != nil {
		return nil, err
	}
	return reorder(frame, values)
}

// Annotate fetches the default annotation attributes for a gene list,
// auto-detecting the filter from the first identifier: digits mean Entrez
// IDs, an ENSG prefix means Ensembl gene IDs, anything else HGNC symbols.
func (c *Client) Annotate(ctx context.Context, genes []string) (*dataframe.Frame, error) {
	if len(genes) == 0 {
		return nil, fmt.Errorf("empty gene list")
	}
	filter := "hgnc_symbol"
	switch {
	case isDigits(genes[0]):
		filter = "entrezgene_id"
	case strings.HasPrefix(genes[0], "ENSG"):
		filter = "ensembl_gene_id"
	}
	return c.Query(ctx, genes, filter, nil)
}

// parseTSV reads a headerless TSV result into a frame indexed by the
// filter column. columns names the result columns in query attribute order.
func parseTSV(r io.Reader, columns []string, indexCol string) (*dataframe.Frame, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = len(columns)

	idx := -1
	for i, c := range columns {
		if c == indexCol {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("filter column %q not among attributes %v", indexCol, columns)
	}

	var index []string
	cells := make([][]string, len(columns)-1)
	seen := map[string]bool{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read biomart row: %w", err)
		}
		key := record[idx]
		if seen[key] {
			continue // keep the first row per key
		}
		seen[key] = true
		index = append(index, key)
		j := 0
		for i, field := range record {
			if i == idx {
				continue
			}
			cells[j] = append(cells[j], field)
			j++
		}
	}

	cols := make([]*dataframe.Series, 0, len(columns)-1)
	j := 0
	for i, c := range columns {
		if i == idx {
			continue
		}
		cols = append(cols, dataframe.NewStringSeries(c, cells[j]))
		j++
	}
	return dataframe.NewFrame(index, cols...)
}

// reorder restores the caller's value order, dropping values the service
// did not return.
func reorder(f *dataframe.Frame, values []string) (*dataframe.Frame, error) {
	var present []string
	for _, v := range values {
		if f.HasIndex(v) {
			present = append(present, v)
		}
	}
	if present == nil {
		return f, nil
	}
	return f.Subset(present)
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
