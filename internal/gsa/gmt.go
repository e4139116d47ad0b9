// Package gsa provides gene-set analysis: GMT gene-set collections,
// Fisher-based enrichment with FDR control, and MSigDB metadata loading.
package gsa

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/omixlab/gexpr/internal/stats"
)

// Collection is a named collection of gene sets loaded from a GMT file.
type Collection struct {
	source string
	names  []string // file order
	sets   map[string]map[string]struct{}
}

// LoadGMT loads a collection from a GMT file (optionally gzipped). Each
// line holds a set name, a description, and the member genes, tab-separated.
func LoadGMT(path string) (*Collection, error) {
	base := strings.TrimSuffix(path, ".gz")
	if !strings.HasSuffix(base, ".gmt") {
		return nil, fmt.Errorf("unsupported gene set file format %q, want .gmt", filepath.Ext(base))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open GMT file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	c := &Collection{source: path, sets: make(map[string]map[string]struct{})}
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed GMT line %q", line)
		}
		name := fields[0]
		set := make(map[string]struct{}, len(fields)-2)
		for _, gene := range fields[2:] {
			if gene != "" {
				set[gene] = struct{}{}
			}
		}
		if _, dup := c.sets[name]; !dup {
			c.names = append(c.names, name)
		}
		c.sets[name] = set
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read GMT file: %w", err)
	}
	return c, nil
}

// String summarizes the collection.
func (c *Collection) String() string {
	return fmt.Sprintf("%s: %d gene sets", filepath.Base(c.source), len(c.sets))
}

// Len returns the number of gene sets.
func (c *Collection) Len() int { return len(c.sets) }

// Names returns the gene set names in file order.
func (c *Collection) Names() []string { return append([]string(nil), c.names...) }

// Contains reports whether the named gene set is in the collection.
func (c *Collection) Contains(name string) bool {
	_, ok := c.sets[name]
	return ok
}

// Set returns the members of the named gene set.
func (c *Collection) Set(name string) (map[string]struct{}, bool) {
	s, ok := c.sets[name]
	return s, ok
}

// Search returns, in file order, the names of all gene sets containing the
// given gene.
func (c *Collection) Search(gene string) []string {
	var out []string
	for _, name := range c.names {
		if _, ok := c.sets[name][gene]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Background returns the union of all gene sets.
func (c *Collection) Background() map[string]struct{} {
	bg := make(map[string]struct{})
	for _, set := range c.sets {
		for gene := range set {
			bg[gene] = struct{}{}
		}
	}
	return bg
}

// EnrichmentRow is one gene set's enrichment result.
type EnrichmentRow struct {
	Name      string
	Hits      int // overlap between input and set, within background
	Input     int // input genes within background
	Size      int // set genes within background
	OddsRatio float64
	PValue    float64
	FDR       float64 // Benjamini-Hochberg adjusted p-value
}

// Enrichment tests the input gene list against every gene set whose raw
// size lies in [minSize, maxSize] (maxSize <= 0 means unbounded), using
// Fisher's exact test against the
// collection background (intersected with the caller's background when
// given). Rows come back sorted by ascending p-value, ties by name.
func (c *Collection) Enrichment(genes []string, background map[string]struct{}, minSize, maxSize int) ([]EnrichmentRow, error) {
	bg := c.Background()
	if background != nil {
		restricted := make(map[string]struct{})
		for gene := range background {
			if _, ok := bg[gene]; ok {
				restricted[gene] = struct{}{}
			}
		}
		bg = restricted
	}

	input := make(map[string]struct{})
	for _, g := range genes {
		if _, ok := bg[g]; ok {
			input[g] = struct{}{}
		}
	}
	b := len(input)
	d := len(bg)

	var rows []EnrichmentRow
	for _, name := range c.names {
		set := c.sets[name]
		if len(set) < minSize {
			continue
		}
		if maxSize > 0 && len(set) > maxSize {
			continue
		}
		hits := 0
		size := 0
		for gene := range set {
			if _, inBG := bg[gene]; !inBG {
				continue
			}
			size++
			if _, ok := input[gene]; ok {
				hits++
			}
		}
		res, err := stats.FisherFromMarginals(hits, b, size, d)
		if err != nil {
			return nil, fmt.Errorf("gene set %q: %w", name, err)
		}
		rows = append(rows, EnrichmentRow{
			Name:      name,
			Hits:      hits,
			Input:     b,
			Size:      size,
			OddsRatio: res.OddsRatio,
			PValue:    res.PValue,
		})
	}

	pvals := make([]float64, len(rows))
	for i, r := range rows {
		pvals[i] = r.PValue
	}
	for i, q := range stats.BHAdjust(pvals) {
		rows[i].FDR = q
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PValue != rows[j].PValue {
			return rows[i].PValue < rows[j].PValue
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}
