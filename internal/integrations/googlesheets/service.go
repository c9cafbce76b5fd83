package googlesheets

import (
	"context"
	"fmt"
	"log"
	"os"

	"assetdesk/internal/imports"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// NewSheetsService builds the Sheets client from the service-account
// credentials in GOOGLE_SHEETS_CREDENTIALS_JSON, falling back to a local
// file for development setups.
func NewSheetsService() (*sheets.Service, error) {
	ctx := context.Background()

	credentialsJSON := os.Getenv("GOOGLE_SHEETS_CREDENTIALS_JSON")
	var credentials *google.Credentials
	var err error

	if credentialsJSON != "" {
		credentials, err = google.CredentialsFromJSON(ctx, []byte(credentialsJSON), sheets.SpreadsheetsReadonlyScope)
	} else {
		credentialsFile := "configs/google-credentials.json"
		b, readErr := os.ReadFile(credentialsFile)
		if readErr != nil {
			return nil, fmt.Errorf("unable to read Google credentials file: %v", readErr)
		}
		credentials, err = google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsReadonlyScope)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load Google credentials: %v", err)
	}

	client := oauth2.NewClient(ctx, credentials.TokenSource)
	sheetsService, err := sheets.New(client)
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Sheets client: %v", err)
	}

	return sheetsService, nil
}

// SheetImportService feeds spreadsheet contents into the reconciliation
// engine: one sheet read, one import batch.
type SheetImportService struct {
	sheetsService *sheets.Service
	engine        *imports.Engine
}

func NewSheetImportService(sheetsService *sheets.Service, engine *imports.Engine) *SheetImportService {
	return &SheetImportService{
		sheetsService: sheetsService,
		engine:        engine,
	}
}

func (s *SheetImportService) ImportAssetsFromSheet(spreadsheetID, readRange string, projectID *int, actor string) (*imports.Outcome, error) {
	values, err := s.readSpreadsheet(spreadsheetID, readRange)
	if err != nil {
		return nil, err
	}

	rows := ParseAssetRows(values)
	return s.engine.ImportAssets(rows, projectID, actor)
}

func (s *SheetImportService) readSpreadsheet(spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := s.sheetsService.Spreadsheets.Values.Get(spreadsheetID, readRange).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read spreadsheet: %v", err)
	}

	if len(resp.Values) == 0 {
		log.Printf("no data found in range %s", readRange)
		return nil, nil
	}

	return resp.Values, nil
}
