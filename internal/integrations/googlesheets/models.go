package googlesheets

import (
	"fmt"

	"assetdesk/internal/imports"
)

// MapHeaders translates the first spreadsheet row into import field names.
// Unknown columns are ignored so operators can keep extra columns around.
func MapHeaders(headers []interface{}) map[int]string {
	headerMap := make(map[int]string)

	for i, header := range headers {
		headerStr, ok := header.(string)
		if !ok {
			continue
		}

		switch headerStr {
		case "Asset Tag":
			headerMap[i] = "asset_tag"
		case "Name":
			headerMap[i] = "name"
		case "Category":
			headerMap[i] = "category"
		case "Item":
			headerMap[i] = "item"
		case "Serial":
			headerMap[i] = "serial"
		case "Condition":
			headerMap[i] = "condition"
		case "Assigned To":
			headerMap[i] = "assigned_to"
		case "Notes":
			headerMap[i] = "notes"
		}
	}

	return headerMap
}

// ParseAssetRows turns raw sheet values (header row first) into import
// rows. Cell-level validation is left to the reconciliation engine.
func ParseAssetRows(values [][]interface{}) []imports.AssetRow {
	if len(values) < 2 {
		return []imports.AssetRow{}
	}

	headerMap := MapHeaders(values[0])
	rows := make([]imports.AssetRow, 0, len(values)-1)

	for i := 1; i < len(values); i++ {
		var row imports.AssetRow
		for j, cell := range values[i] {
			fieldName, exists := headerMap[j]
			if !exists {
				continue
			}

			value := toString(cell)
			switch fieldName {
			case "asset_tag":
				row.AssetTag = value
			case "name":
				row.Name = value
			case "category":
				row.CategoryName = value
			case "item":
				row.ItemName = value
			case "serial":
				row.Serial = value
			case "condition":
				row.Condition = value
			case "assigned_to":
				row.AssignedTo = value
			case "notes":
				row.Notes = value
			}
		}
		rows = append(rows, row)
	}

	return rows
}

func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
