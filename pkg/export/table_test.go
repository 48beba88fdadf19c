package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnines/catalog-export/pkg/errors"
	"github.com/saturnines/catalog-export/pkg/transform"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestTableWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	w := NewTableWriter(path, "")

	rows := []transform.ExportRow{
		{MasterID: "10", VariantID: "1", InventoryItemID: "2", SKU: "ABC-1", CatCode: "A,BC"},
		{MasterID: "10", VariantID: "3", InventoryItemID: "", SKU: "", CatCode: "A,BC"},
		{MasterID: "11", VariantID: "4", InventoryItemID: "5", SKU: `say "hi"`, CatCode: ""},
	}
	require.NoError(t, w.Write(rows))

	want := "Master ID,Variant ID,Inventory Item ID,SKU,CatCode\n" +
		"10,1,2,ABC-1,\"A,BC\"\n" +
		"10,3,,,\"A,BC\"\n" +
		"11,4,5,\"say \"\"hi\"\"\",\n"
	assert.Equal(t, want, readFile(t, path))
	assert.NoFileExists(t, path+".tmp")
}

func TestTableWriter_CustomDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "products.tsv")
	w := NewTableWriter(path, "\t")

	require.NoError(t, w.Write([]transform.ExportRow{
		{MasterID: "10", VariantID: "1", InventoryItemID: "2", SKU: "S", CatCode: "A,B"},
	}))

	want := "Master ID\tVariant ID\tInventory Item ID\tSKU\tCatCode\n" +
		"10\t1\t2\tS\tA,B\n"
	assert.Equal(t, want, readFile(t, path))
}

func TestTableWriter_EmptyRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, NewTableWriter(path, ",").Write(nil))
	assert.Equal(t, "Master ID,Variant ID,Inventory Item ID,SKU,CatCode\n", readFile(t, path))
}

func TestTableWriter_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	w := NewTableWriter(path, ",")
	require.NoError(t, w.Write(nil))
	assert.NotContains(t, readFile(t, path), "stale")
}

func TestTableWriter_UnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := NewTableWriter(filepath.Join(blocker, "products.csv"), ",").Write(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrExport))
}
