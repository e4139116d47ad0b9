// Package enrichr wraps the Enrichr web API: submitting a gene list and
// downloading enrichment result tables for named gene-set libraries.
package enrichr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public Enrichr endpoint.
const DefaultBaseURL = "https://maayanlab.cloud/Enrichr"

// Libraries groups commonly used gene-set libraries by theme.
var Libraries = map[string][]string{
	"pathway": {"KEGG_2016", "Reactome_2016"},
	"GO": {
		"GO_Biological_Process_2015",
		"GO_Cellular_Component_2015",
		"GO_Molecular_Function_2015",
	},
	"general": {
		"KEGG_2016",
		"Reactome_2016",
		"ChEA_2015",
		"ENCODE_TF_ChIP-seq_2015",
		"ENCODE_Histone_Modifications_2015",
		"Epigenomics_Roadmap_HM_ChIP-seq",
		"GO_Biological_Process_2015",
		"GO_Cellular_Component_2015",
		"GO_Molecular_Function_2015",
		"MGI_Mammalian_Phenotype_Level_3",
		"MGI_Mammalian_Phenotype_Level_4",
		"Human_Phenotype_Ontology",
		"dbGaP",
		"OMIM_Disease",
		"HomoloGene",
	},
}

// Client talks to an Enrichr server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the public Enrichr endpoint.
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

// List identifies a submitted gene list.
type List struct {
	UserListID int    `json:"userListId"`
	ShortID    string `json:"shortId"`
}

// AddList submits a gene list for analysis and returns its job identifiers.
func (c *Client) AddList(ctx context.Context, genes []string, description string) (*List, error) {
	if description == "" {
		description = fmt.Sprintf("%d input genes", len(genes))
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("list", strings.Join(genes, "\n")); err != nil {
		return nil, err
	}
	if err := mw.WriteField("description", description); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/addList", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("enrichr addList request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("enrichr addList error %d: %s", resp.StatusCode, string(msg))
	}

	var list List
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode enrichr response: %w", err)
	}
	return &list, nil
}

// Export downloads the enrichment result table for one gene-set library as
// tab-separated text.
func (c *Client) Export(ctx context.Context, userListID int, library string) ([]byte, error) {
	q := url.Values{}
	q.Set("userListId", strconv.Itoa(userListID))
	q.Set("filename", strconv.Itoa(userListID))
	q.Set("backgroundType", library)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/export?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("enrichr export request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("enrichr export error %d: %s", resp.StatusCode, string(msg))
	}
	return io.ReadAll(resp.Body)
}

// Run submits genes and downloads one result file per library into
// outputDir, named <userListId>.<library>.txt with spaces replaced by
// underscores. It returns the written file paths in library order.
func (c *Client) Run(ctx context.Context, genes []string, description string, libraries []string, outputDir string) ([]string, error) {
	list, err := c.AddList(ctx, genes, description)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var paths []string
	for _, lib := range libraries {
		data, err := c.Export(ctx, list.UserListID, lib)
		if err != nil {
			return nil, fmt.Errorf("library %q: %w", lib, err)
		}
		name := strings.ReplaceAll(fmt.Sprintf("%d.%s.txt", list.UserListID, lib), " ", "_")
		path := filepath.Join(outputDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
