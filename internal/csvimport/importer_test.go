package csvimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImporter_Import(t *testing.T) {
	csvData := `Title,SKU,Price,Color
Hoodie,HD-1,$29.99,Red
Hat,HT-2,15,Blue
Mug,MG-3,9.50,
`

	im := NewImporter(nil)
	result, err := im.Import(strings.NewReader(csvData), "seller-1")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 3, result.ImportedRows)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Products, 3)

	hoodie := result.Products[0]
	assert.Equal(t, "Hoodie", hoodie.Name)
	assert.Equal(t, "HD-1", hoodie.SKU)
	assert.InDelta(t, 29.99, hoodie.Price, 0.001)
	assert.Equal(t, "seller-1", hoodie.SellerID)
	assert.True(t, hoodie.IsActive)

	// The unmapped Color column is preserved verbatim as an attribute.
	assert.Equal(t, "Red", hoodie.Attributes["Color"])
	_, hasColor := result.Products[2].Attributes["Color"]
	assert.False(t, hasColor, "blank attribute values are not stored")
}

func TestImporter_RowErrorsCollectedNotFatal(t *testing.T) {
	// 10 valid rows and 2 rows missing a sku.
	var b strings.Builder
	b.WriteString("Title,SKU,Price\n")
	for i := 0; i < 5; i++ {
		b.WriteString("Hoodie,HD-1,10\n")
	}
	b.WriteString("Bad One,,10\n")
	for i := 0; i < 5; i++ {
		b.WriteString("Hat,HT-2,15\n")
	}
	b.WriteString("Bad Two,,15\n")

	im := NewImporter(nil)
	result, err := im.Import(strings.NewReader(b.String()), "seller-1")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 12, result.TotalRows)
	assert.Equal(t, 10, result.ImportedRows)
	assert.Len(t, result.Errors, 2)
	assert.Equal(t, result.TotalRows, result.ImportedRows+len(result.Errors))
	assert.Equal(t, 6, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Message, "sku")
}

func TestImporter_BlankTitleRejectedPerRow(t *testing.T) {
	csvData := "Title,SKU,Price\n,SK-1,5\nHat,HT-2,15\n"

	im := NewImporter(nil)
	result, err := im.Import(strings.NewReader(csvData), "seller-1")
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 1, result.ImportedRows)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Message, "title")
}

func TestImporter_NoTitleColumnIsFatal(t *testing.T) {
	csvData := "Foo,Bar\n1,2\n"

	im := NewImporter(nil)
	_, err := im.Import(strings.NewReader(csvData), "seller-1")
	assert.Error(t, err)
}

func TestImporter_EmptyInput(t *testing.T) {
	im := NewImporter(nil)
	_, err := im.Import(strings.NewReader(""), "seller-1")
	assert.Error(t, err)
}
