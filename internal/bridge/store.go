package bridge

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/omixlab/gexpr/internal/dataframe"
	"github.com/omixlab/gexpr/internal/eset"
)

// Columnar on-disk store: a single DuckDB database file holding named
// tables. The assay matrix lives under the assay key (default "exprs"),
// the attribute tables under "fData" and "pData", and metadata under
// "meta". Each table carries a row_idx column so read-back preserves row
// order exactly. Categorical columns are written as text; the store is
// assumed to carry correct column types on read, so no factor inference
// runs on this path.

// StoreOptions names the tables inside the store container.
type StoreOptions struct {
	// AssayKey is the assay matrix table name. Empty means DefaultAssay.
	AssayKey string
}

const (
	fDataKey = "fData"
	pDataKey = "pData"
	metaKey  = "meta"
)

func (o StoreOptions) assayKey() string {
	if o.AssayKey == "" {
		return DefaultAssay
	}
	return o.AssayKey
}

// quoteIdent quotes a SQL identifier for DuckDB.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// WriteStore writes e to a store file at path, replacing any existing file.
// The assay matrix is always written; fData, pData, and metadata are
// written only when non-empty. The database handle lives only for the
// duration of the call.
func WriteStore(path string, e *eset.ExpressionSet, opts StoreOptions) error {
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return &BridgeError{Op: "write store", Path: path, Detail: "remove existing file", Err: err}
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return &BridgeError{Op: "write store", Path: path, Err: err}
	}
	defer db.Close()

	if err := writeAssayTable(db, opts.assayKey(), e.Exprs()); err != nil {
		return &BridgeError{Op: "write store", Path: path, Detail: "assay table", Err: err}
	}
	if !e.FData().Empty() {
		if err := writeFrameTable(db, fDataKey, e.FData()); err != nil {
			return &BridgeError{Op: "write store", Path: path, Detail: "fData table", Err: err}
		}
	}
	if !e.PData().Empty() {
		if err := writeFrameTable(db, pDataKey, e.PData()); err != nil {
			return &BridgeError{Op: "write store", Path: path, Detail: "pData table", Err: err}
		}
	}
	if len(e.Meta()) > 0 {
		if err := writeMetaTable(db, e.Meta()); err != nil {
			return &BridgeError{Op: "write store", Path: path, Detail: "meta table", Err: err}
		}
	}
	return nil
}

// ReadStore reads an ExpressionSet back from a store file. A missing assay
// table fails with a BridgeError; missing fData, pData, or meta tables
// yield empty tables instead. The "source" metadata entry is always set to
// path, overriding any stored value.
func ReadStore(path string, opts StoreOptions) (*eset.ExpressionSet, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &BridgeError{Op: "read store", Path: path, Err: err}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, &BridgeError{Op: "read store", Path: path, Err: err}
	}
	defer db.Close()

	tables, err := listTables(db)
	if err != nil {
		return nil, &BridgeError{Op: "read store", Path: path, Err: err}
	}

	assayKey := opts.assayKey()
	if !tables[assayKey] {
		return nil, &BridgeError{Op: "read store", Path: path,
			Detail: fmt.Sprintf("assay table %q not found", assayKey)}
	}
	exprs, err := readAssayTable(db, assayKey)
	if err != nil {
		return nil, &BridgeError{Op: "read store", Path: path, Detail: "assay table", Err: err}
	}

	fData := dataframe.EmptyFrame()
	if tables[fDataKey] {
		if fData, err = readFrameTable(db, fDataKey); err != nil {
			return nil, &BridgeError{Op: "read store", Path: path, Detail: "fData table", Err: err}
		}
	}
	pData := dataframe.EmptyFrame()
	if tables[pDataKey] {
		if pData, err = readFrameTable(db, pDataKey); err != nil {
			return nil, &BridgeError{Op: "read store", Path: path, Detail: "pData table", Err: err}
		}
	}
	meta := eset.Metadata{}
	if tables[metaKey] {
		if meta, err = readMetaTable(db); err != nil {
			return nil, &BridgeError{Op: "read store", Path: path, Detail: "meta table", Err: err}
		}
	}
	meta["source"] = path

	return eset.New(exprs, fData, pData, meta)
}

func listTables(db *sql.DB) (map[string]bool, error) {
	rows, err := db.Query(`SELECT table_name FROM information_schema.tables WHERE table_schema = 'main'`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	tables := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables[name] = true
	}
	return tables, rows.Err()
}

func writeAssayTable(db *sql.DB, key string, m *dataframe.Matrix) error {
	cols := m.ColLabels()
	ddl := make([]string, 0, len(cols)+2)
	ddl = append(ddl, "row_idx BIGINT", "row_label VARCHAR")
	for _, c := range cols {
		ddl = append(ddl, quoteIdent(c)+" DOUBLE")
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(key), strings.Join(ddl, ", "))); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(key), placeholders(len(cols)+2))
	stmt, err := db.Prepare(insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, label := range m.RowLabels() {
		args := make([]any, 0, len(cols)+2)
		args = append(args, int64(i), label)
		for j := range cols {
			args = append(args, m.At(i, j))
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert row %q: %w", label, err)
		}
	}
	return nil
}

func readAssayTable(db *sql.DB, key string) (*dataframe.Matrix, error) {
	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %s ORDER BY row_idx", quoteIdent(key)))
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(names) < 3 || names[0] != "row_idx" || names[1] != "row_label" {
		return nil, fmt.Errorf("table %q does not look like an assay matrix", key)
	}
	samples := names[2:]

	var labels []string
	var values []float64
	for rows.Next() {
		var idx int64
		var label string
		cells := make([]float64, len(samples))
		dest := make([]any, 0, len(samples)+2)
		dest = append(dest, &idx, &label)
		for j := range cells {
			dest = append(dest, &cells[j])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		labels = append(labels, label)
		values = append(values, cells...)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dataframe.NewMatrix(labels, samples, values)
}

func sqlType(k dataframe.Kind) string {
	switch k {
	case dataframe.Int:
		return "BIGINT"
	case dataframe.Float:
		return "DOUBLE"
	}
	return "VARCHAR"
}

func writeFrameTable(db *sql.DB, key string, f *dataframe.Frame) error {
	ddl := []string{"row_idx BIGINT", "row_label VARCHAR"}
	for i := 0; i < f.NumCols(); i++ {
		s := f.ColAt(i)
		ddl = append(ddl, quoteIdent(s.Name())+" "+sqlType(s.Kind()))
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(key), strings.Join(ddl, ", "))); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(key), placeholders(f.NumCols()+2))
	stmt, err := db.Prepare(insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, label := range f.Index() {
		args := []any{int64(i), label}
		for j := 0; j < f.NumCols(); j++ {
			s := f.ColAt(j)
			switch s.Kind() {
			case dataframe.Int:
				args = append(args, s.Ints()[i])
			case dataframe.Float:
				args = append(args, s.Floats()[i])
			default:
				args = append(args, s.StringAt(i))
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert row %q: %w", label, err)
		}
	}
	return nil
}

func readFrameTable(db *sql.DB, key string) (*dataframe.Frame, error) {
	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %s ORDER BY row_idx", quoteIdent(key)))
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	if len(names) < 2 || names[0] != "row_idx" || names[1] != "row_label" {
		return nil, fmt.Errorf("table %q does not look like an attribute table", key)
	}

	kinds := make([]dataframe.Kind, len(names)-2)
	for j, ct := range types[2:] {
		switch strings.ToUpper(ct.DatabaseTypeName()) {
		case "BIGINT", "INTEGER", "SMALLINT", "TINYINT":
			kinds[j] = dataframe.Int
		case "DOUBLE", "FLOAT", "REAL", "DECIMAL":
			kinds[j] = dataframe.Float
		default:
			kinds[j] = dataframe.String
		}
	}

	var index []string
	intCols := make([][]int64, len(kinds))
	floatCols := make([][]float64, len(kinds))
	strCols := make([][]string, len(kinds))
	for rows.Next() {
		var idx int64
		var label string
		dest := []any{&idx, &label}
		ints := make([]sql.NullInt64, len(kinds))
		floats := make([]sql.NullFloat64, len(kinds))
		strs := make([]sql.NullString, len(kinds))
		for j, k := range kinds {
			switch k {
			case dataframe.Int:
				dest = append(dest, &ints[j])
			case dataframe.Float:
				dest = append(dest, &floats[j])
			default:
				dest = append(dest, &strs[j])
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		index = append(index, label)
		for j, k := range kinds {
			switch k {
			case dataframe.Int:
				intCols[j] = append(intCols[j], ints[j].Int64)
			case dataframe.Float:
				floatCols[j] = append(floatCols[j], floats[j].Float64)
			default:
				strCols[j] = append(strCols[j], strs[j].String)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cols := make([]*dataframe.Series, len(kinds))
	for j, k := range kinds {
		name := names[j+2]
		switch k {
		case dataframe.Int:
			cols[j] = dataframe.NewIntSeries(name, intCols[j])
		case dataframe.Float:
			cols[j] = dataframe.NewFloatSeries(name, floatCols[j])
		default:
			cols[j] = dataframe.NewStringSeries(name, strCols[j])
		}
	}
	return dataframe.NewFrame(index, cols...)
}

func writeMetaTable(db *sql.DB, meta eset.Metadata) error {
	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE %s (key VARCHAR, value VARCHAR)", quoteIdent(metaKey))); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	stmt, err := db.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (?, ?)", quoteIdent(metaKey)))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for k, v := range meta {
		if _, err := stmt.Exec(k, v); err != nil {
			return fmt.Errorf("insert key %q: %w", k, err)
		}
	}
	return nil
}

func readMetaTable(db *sql.DB) (eset.Metadata, error) {
	rows, err := db.Query(fmt.Sprintf("SELECT key, value FROM %s", quoteIdent(metaKey)))
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	meta := eset.Metadata{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ", ")
}
