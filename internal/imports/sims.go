package imports

import (
	"strings"
	"time"

	"assetdesk/internal/masterdata"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type simBatch struct {
	engine    *Engine
	tx        *goqu.TxDatabase
	actor     string
	projectID *int
	providers nameIndex
	types     nameIndex
	plans     nameIndex
	employees map[string]models.Employee
	resources map[string]*models.Resource
	seen      map[string]bool
	outcome   *Outcome
}

// ImportSimCards is the SIM variant of the reconciliation run: account
// number is the natural key, and providers, types and plans are the
// auto-created master data. Structurally it mirrors ImportAssets.
func (e *Engine) ImportSimCards(rows []SimRow, projectID *int, actor string) (*Outcome, error) {
	if err := e.checkProject(projectID); err != nil {
		return nil, err
	}

	outcome := newOutcome()
	err := e.runTx(func(tx *goqu.TxDatabase) error {
		batch, err := e.prepareSimBatch(tx, rows, projectID, actor, outcome)
		if err != nil {
			return err
		}
		for i, row := range rows {
			if err := batch.process(i+1, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return e.batchFault(metadata.KindSimCard, err), nil
	}

	outcome.Success = len(outcome.Errors) == 0
	return outcome, nil
}

func (e *Engine) prepareSimBatch(tx *goqu.TxDatabase, rows []SimRow, projectID *int, actor string, outcome *Outcome) (*simBatch, error) {
	existing, err := e.resources.ListByKind(tx, metadata.KindSimCard)
	if err != nil {
		return nil, err
	}
	employees, err := e.master.ListEmployees(tx)
	if err != nil {
		return nil, err
	}

	collections := []struct {
		collection masterdata.Collection
		names      func(SimRow) string
		index      nameIndex
	}{
		{masterdata.SimProviders, func(r SimRow) string { return r.ProviderName }, nil},
		{masterdata.SimTypes, func(r SimRow) string { return r.TypeName }, nil},
		{masterdata.SimPlans, func(r SimRow) string { return r.PlanName }, nil},
	}

	for i := range collections {
		entities, err := e.master.List(tx, collections[i].collection)
		if err != nil {
			return nil, err
		}
		index := indexNames(entities)
		names := make([]string, 0, len(rows))
		for _, row := range rows {
			names = append(names, strings.TrimSpace(collections[i].names(row)))
		}
		if err := e.ensureNamed(tx, collections[i].collection, names, index); err != nil {
			return nil, err
		}
		// The index already reflects auto-created rows; re-read anyway so
		// processing works off the store's state.
		if entities, err = e.master.List(tx, collections[i].collection); err != nil {
			return nil, err
		}
		collections[i].index = indexNames(entities)
	}

	return &simBatch{
		engine:    e,
		tx:        tx,
		actor:     actor,
		projectID: projectID,
		providers: collections[0].index,
		types:     collections[1].index,
		plans:     collections[2].index,
		employees: indexEmployees(employees),
		resources: indexResources(existing),
		seen:      make(map[string]bool, len(rows)),
		outcome:   outcome,
	}, nil
}

func (b *simBatch) process(row int, r SimRow) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			b.outcome.addError(row, "unexpected failure processing row: %v", rec)
			err = nil
		}
	}()

	account := strings.TrimSpace(r.AccountNumber)
	if account == "" {
		b.outcome.addError(row, "missing required field: account number")
		return nil
	}

	key := normalizeKey(account)
	if b.seen[key] {
		b.outcome.addError(row, "Duplicate Account Number %q; first occurrence wins", account)
		return nil
	}
	b.seen[key] = true

	phone := strings.TrimSpace(r.PhoneNumber)
	providerName := strings.TrimSpace(r.ProviderName)

	var missing []string
	if phone == "" {
		missing = append(missing, "phone number")
	}
	if providerName == "" {
		missing = append(missing, "provider")
	}
	if len(missing) > 0 {
		b.outcome.addError(row, "missing required field(s): %s", strings.Join(missing, ", "))
		return nil
	}

	providerID, ok := b.providers[normalizeKey(providerName)]
	if !ok {
		b.outcome.addError(row, "unknown provider %q", providerName)
		return nil
	}

	var typeID, planID *int
	if name := normalizeKey(r.TypeName); name != "" {
		if id, ok := b.types[name]; ok {
			typeID = &id
		}
	}
	if name := normalizeKey(r.PlanName); name != "" {
		if id, ok := b.plans[name]; ok {
			planID = &id
		}
	}

	now := time.Now()
	res, exists := b.resources[key]
	if exists {
		res.Name = phone
		res.Description = providerName + " SIM card"
		res.Serial = serialValue(r.SerialNumber)
		res.ProviderID = &providerID
		res.SimTypeID = typeID
		res.SimPlanID = planID
		if b.projectID != nil {
			res.ProjectID = b.projectID
		}
		if note := strings.TrimSpace(r.Notes); note != "" && !strings.Contains(res.Notes, note) {
			res.Notes = models.AppendNote(res.Notes, "Import", note)
		}
		res.UpdatedBy = b.actor
		res.UpdatedAt = now
	} else {
		res = &models.Resource{
			Kind:        metadata.KindSimCard,
			NaturalKey:  account,
			Name:        phone,
			Description: providerName + " SIM card",
			Status:      metadata.StatusAvailable,
			Serial:      serialValue(r.SerialNumber),
			ProviderID:  &providerID,
			SimTypeID:   typeID,
			SimPlanID:   planID,
			ProjectID:   b.projectID,
			Notes:       strings.TrimSpace(r.Notes),
			CreatedBy:   b.actor,
			CreatedAt:   now,
			UpdatedBy:   b.actor,
			UpdatedAt:   now,
		}
	}

	saved, err := b.engine.resources.Upsert(b.tx, res)
	if err != nil {
		return err
	}
	b.resources[key] = saved
	if exists {
		b.outcome.Updated++
	} else {
		b.outcome.Imported++
	}

	return b.engine.recordAssignment(b.tx, saved, b.employees, r.AssignedTo, b.actor)
}
