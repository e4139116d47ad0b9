package gsa

import (
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/omixlab/gexpr/internal/dataframe"
)

// MSigDB metadata attributes extracted per gene set.
var msigdbAttributes = []string{"CATEGORY_CODE", "SUB_CATEGORY_CODE", "DESCRIPTION_BRIEF"}

// LoadMSigDB parses an MSigDB XML dump (optionally gzipped) into a frame
// indexed by STANDARD_NAME with one column per metadata attribute.
func LoadMSigDB(path string) (*dataframe.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open MSigDB file: %w", err)
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
	return parseMSigDB(reader)
}

func parseMSigDB(reader io.Reader) (*dataframe.Frame, error) {
	dec := xml.NewDecoder(reader)

	var index []string
	cells := make([][]string, len(msigdbAttributes))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse MSigDB XML: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "GENESET" {
			continue
		}
		attrs := make(map[string]string, len(start.Attr))
		for _, a := range start.Attr {
			attrs[a.Name.Local] = a.Value
		}
		name, ok := attrs["STANDARD_NAME"]
		if !ok {
			return nil, fmt.Errorf("GENESET element without STANDARD_NAME")
		}
		index = append(index, name)
		for j, attr := range msigdbAttributes {
			cells[j] = append(cells[j], attrs[attr])
		}
	}

	cols := make([]*dataframe.Series, len(msigdbAttributes))
	for j, attr := range msigdbAttributes {
		cols[j] = dataframe.NewStringSeries(attr, cells[j])
	}
	return dataframe.NewFrame(index, cols...)
}
