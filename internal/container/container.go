package container

import (
	"database/sql"

	"assetdesk/internal/assignments"
	"assetdesk/internal/catalog"
	"assetdesk/internal/imports"
	"assetdesk/internal/integrations/googlesheets"
	"assetdesk/internal/masterdata"
	"assetdesk/internal/repository"
	"assetdesk/pkg/auditlog"
	"assetdesk/pkg/security"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

type Container struct {
	Repository         *repository.Repository
	AuditLog           *auditlog.Auditlog
	LoginHandler       *security.LoginHandler
	AssignmentHandler  *assignments.AssignmentHandler
	ImportHandler      *imports.ImportHandler
	SheetImportHandler *googlesheets.SheetImportHandler
}

func NewAppContainer(db *sql.DB, log *zap.Logger) *Container {
	repo := repository.NewRepository(db)
	auditLog := auditlog.NewAuditLog(repo, log)

	resourceStore := catalog.NewRepository(repo)
	masterStore := masterdata.NewRepository(repo)
	ledgerStore := assignments.NewRepository(repo)

	runTx := func(fn func(tx *goqu.TxDatabase) error) error {
		return repository.WithTransaction(repo.GoquDBWrapper, fn)
	}

	assignmentService := assignments.NewService(resourceStore, masterStore, ledgerStore, runTx, auditLog, log)
	importEngine := imports.NewEngine(resourceStore, masterStore, ledgerStore, runTx, log)

	c := &Container{
		Repository:        repo,
		AuditLog:          auditLog,
		LoginHandler:      security.NewLoginHandler(repo),
		AssignmentHandler: assignments.NewHandler(assignmentService),
		ImportHandler:     imports.NewHandler(importEngine),
	}

	// Sheet import is optional: without Google credentials the rest of the
	// service still runs.
	sheetsService, err := googlesheets.NewSheetsService()
	if err != nil {
		log.Warn("Google Sheets integration disabled", zap.Error(err))
	} else {
		c.SheetImportHandler = googlesheets.NewHandler(
			googlesheets.NewSheetImportService(sheetsService, importEngine),
		)
	}

	return c
}
