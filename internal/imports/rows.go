package imports

import "fmt"

// AssetRow is one spreadsheet line of an asset import batch. Category and
// item arrive as names and are resolved to ids during reconciliation.
type AssetRow struct {
	AssetTag     string `json:"asset_tag"`
	Name         string `json:"name"`
	CategoryName string `json:"category"`
	ItemName     string `json:"item"`
	Serial       string `json:"serial"`
	Condition    string `json:"condition"`
	AssignedTo   string `json:"assigned_to"`
	Notes        string `json:"notes"`
}

// SimRow is one spreadsheet line of a SIM card import batch.
type SimRow struct {
	AccountNumber string `json:"account_number"`
	PhoneNumber   string `json:"phone_number"`
	ProviderName  string `json:"provider"`
	TypeName      string `json:"type"`
	PlanName      string `json:"plan"`
	SerialNumber  string `json:"serial_number"`
	AssignedTo    string `json:"assigned_to"`
	Notes         string `json:"notes"`
}

// RowError ties a failure message to the 1-based input row it came from.
// Row 0 marks a batch-level fault not attributable to any single row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type Outcome struct {
	Success  bool       `json:"success"`
	Imported int        `json:"imported"`
	Updated  int        `json:"updated"`
	Errors   []RowError `json:"errors"`
}

func newOutcome() *Outcome {
	return &Outcome{Errors: []RowError{}}
}

func (o *Outcome) addError(row int, format string, args ...interface{}) {
	o.Errors = append(o.Errors, RowError{Row: row, Message: fmt.Sprintf(format, args...)})
}
