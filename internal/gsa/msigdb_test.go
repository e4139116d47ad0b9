package gsa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMSigDBXML = `<?xml version="1.0"?>
<MSIGDB NAME="msigdb" VERSION="7.0">
  <GENESET STANDARD_NAME="HALLMARK_APOPTOSIS" CATEGORY_CODE="H" SUB_CATEGORY_CODE="" DESCRIPTION_BRIEF="Genes mediating programmed cell death." MEMBERS="TP53,BAX"/>
  <GENESET STANDARD_NAME="KEGG_CELL_CYCLE" CATEGORY_CODE="C2" SUB_CATEGORY_CODE="CP:KEGG" DESCRIPTION_BRIEF="Cell cycle pathway." MEMBERS="CDK1,CDK2"/>
</MSIGDB>
`

func TestParseMSigDB(t *testing.T) {
	f, err := parseMSigDB(strings.NewReader(testMSigDBXML))
	require.NoError(t, err)

	assert.Equal(t, []string{"HALLMARK_APOPTOSIS", "KEGG_CELL_CYCLE"}, f.Index())
	assert.Equal(t, []string{"CATEGORY_CODE", "SUB_CATEGORY_CODE", "DESCRIPTION_BRIEF"}, f.Columns())

	cat, ok := f.Col("CATEGORY_CODE")
	require.True(t, ok)
	assert.Equal(t, []string{"H", "C2"}, cat.Strings())

	sub, _ := f.Col("SUB_CATEGORY_CODE")
	assert.Equal(t, []string{"", "CP:KEGG"}, sub.Strings())

	desc, _ := f.Col("DESCRIPTION_BRIEF")
	assert.Equal(t, "Cell cycle pathway.", desc.StringAt(1))
}

func TestParseMSigDB_MissingStandardName(t *testing.T) {
	_, err := parseMSigDB(strings.NewReader(`<MSIGDB><GENESET CATEGORY_CODE="H"/></MSIGDB>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STANDARD_NAME")
}

func TestParseMSigDB_BadXML(t *testing.T) {
	_, err := parseMSigDB(strings.NewReader(`<MSIGDB><GENESET`))
	assert.Error(t, err)
}
