package googlesheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAssetRows(t *testing.T) {
	values := [][]interface{}{
		{"Asset Tag", "Name", "Category", "Item", "Serial", "Condition", "Assigned To", "Notes"},
		{"A-1", "Laptop", "IT", "Dell XPS", "SN-1", "Good", "EMP-1", "desk 12"},
		{"A-2", "Monitor", "IT", "Dell U27", "n/a"},
	}

	rows := ParseAssetRows(values)
	assert.Len(t, rows, 2)

	assert.Equal(t, "A-1", rows[0].AssetTag)
	assert.Equal(t, "Laptop", rows[0].Name)
	assert.Equal(t, "IT", rows[0].CategoryName)
	assert.Equal(t, "Dell XPS", rows[0].ItemName)
	assert.Equal(t, "SN-1", rows[0].Serial)
	assert.Equal(t, "Good", rows[0].Condition)
	assert.Equal(t, "EMP-1", rows[0].AssignedTo)
	assert.Equal(t, "desk 12", rows[0].Notes)

	// Short row: trailing columns stay empty.
	assert.Equal(t, "A-2", rows[1].AssetTag)
	assert.Equal(t, "n/a", rows[1].Serial)
	assert.Equal(t, "", rows[1].AssignedTo)
}

func TestParseAssetRowsIgnoresUnknownColumns(t *testing.T) {
	values := [][]interface{}{
		{"Asset Tag", "Purchase Price", "Name", "Category", "Item"},
		{"A-1", "1200", "Laptop", "IT", "Dell XPS"},
	}

	rows := ParseAssetRows(values)
	assert.Len(t, rows, 1)
	assert.Equal(t, "A-1", rows[0].AssetTag)
	assert.Equal(t, "Laptop", rows[0].Name)
}

func TestParseAssetRowsNeedsHeaderAndData(t *testing.T) {
	assert.Empty(t, ParseAssetRows(nil))
	assert.Empty(t, ParseAssetRows([][]interface{}{{"Asset Tag"}}))
}
