package imports

import (
	"strings"
	"time"

	"assetdesk/internal/masterdata"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// assetBatch carries the per-batch snapshot rows are reconciled against.
type assetBatch struct {
	engine     *Engine
	tx         *goqu.TxDatabase
	actor      string
	projectID  *int
	categories nameIndex
	items      nameIndex
	employees  map[string]models.Employee
	resources  map[string]*models.Resource
	seen       map[string]bool
	outcome    *Outcome
}

// ImportAssets reconciles a batch of asset rows against the catalog. Row
// errors accumulate in the outcome; the returned error is reserved for
// batch-wide preconditions such as an unknown target project.
func (e *Engine) ImportAssets(rows []AssetRow, projectID *int, actor string) (*Outcome, error) {
	if err := e.checkProject(projectID); err != nil {
		return nil, err
	}

	outcome := newOutcome()
	err := e.runTx(func(tx *goqu.TxDatabase) error {
		batch, err := e.prepareAssetBatch(tx, rows, projectID, actor, outcome)
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
		return e.batchFault(metadata.KindAsset, err), nil
	}

	outcome.Success = len(outcome.Errors) == 0
	return outcome, nil
}

func (e *Engine) prepareAssetBatch(tx *goqu.TxDatabase, rows []AssetRow, projectID *int, actor string, outcome *Outcome) (*assetBatch, error) {
	existing, err := e.resources.ListByKind(tx, metadata.KindAsset)
	if err != nil {
		return nil, err
	}

	categories, err := e.master.List(tx, masterdata.Categories)
	if err != nil {
		return nil, err
	}
	items, err := e.master.List(tx, masterdata.Items)
	if err != nil {
		return nil, err
	}
	employees, err := e.master.ListEmployees(tx)
	if err != nil {
		return nil, err
	}

	categoryIndex := indexNames(categories)
	itemIndex := indexNames(items)
	if err := e.ensureAssetMasterData(tx, rows, categoryIndex, itemIndex); err != nil {
		return nil, err
	}

	// Re-read so row processing sees exactly what the store now holds,
	// auto-created entries included.
	if categories, err = e.master.List(tx, masterdata.Categories); err != nil {
		return nil, err
	}
	if items, err = e.master.List(tx, masterdata.Items); err != nil {
		return nil, err
	}

	return &assetBatch{
		engine:     e,
		tx:         tx,
		actor:      actor,
		projectID:  projectID,
		categories: indexNames(categories),
		items:      indexNames(items),
		employees:  indexEmployees(employees),
		resources:  indexResources(existing),
		seen:       make(map[string]bool, len(rows)),
		outcome:    outcome,
	}, nil
}

// ensureAssetMasterData creates the categories and items the batch
// references but the store does not know yet. A missing item's category is
// picked by majority vote over the batch rows naming that item; when
// nothing can be inferred the item lands in the default category.
func (e *Engine) ensureAssetMasterData(tx *goqu.TxDatabase, rows []AssetRow, categories, items nameIndex) error {
	for _, row := range rows {
		name := strings.TrimSpace(row.CategoryName)
		key := normalizeKey(name)
		if key == "" {
			continue
		}
		if _, ok := categories[key]; ok {
			continue
		}
		created, err := e.master.Create(tx, masterdata.Categories, name, nil)
		if err != nil {
			return err
		}
		categories[key] = created.ID
	}

	type itemVote struct {
		name      string
		votes     map[string]int
		best      string
		bestCount int
	}
	missing := make(map[string]*itemVote)
	var order []string

	for _, row := range rows {
		name := strings.TrimSpace(row.ItemName)
		key := normalizeKey(name)
		if key == "" {
			continue
		}
		if _, ok := items[key]; ok {
			continue
		}
		vote, ok := missing[key]
		if !ok {
			vote = &itemVote{name: name, votes: make(map[string]int)}
			missing[key] = vote
			order = append(order, key)
		}
		categoryKey := normalizeKey(row.CategoryName)
		if categoryKey == "" {
			continue
		}
		vote.votes[categoryKey]++
		// Strict greater keeps ties on the first category encountered.
		if vote.votes[categoryKey] > vote.bestCount {
			vote.best = categoryKey
			vote.bestCount = vote.votes[categoryKey]
		}
	}

	for _, key := range order {
		vote := missing[key]
		categoryID, ok := categories[vote.best]
		if !ok {
			var err error
			if categoryID, err = e.ensureDefaultCategory(tx, categories); err != nil {
				return err
			}
		}
		created, err := e.master.Create(tx, masterdata.Items, vote.name, &categoryID)
		if err != nil {
			return err
		}
		items[key] = created.ID
	}

	return nil
}

// process reconciles one row. Row-level defects go into the outcome and
// return nil; only persistence failures propagate. A panic degrades to a
// row error so one malformed row cannot take the batch down.
func (b *assetBatch) process(row int, r AssetRow) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			b.outcome.addError(row, "unexpected failure processing row: %v", rec)
			err = nil
		}
	}()

	tag := strings.TrimSpace(r.AssetTag)
	if tag == "" {
		b.outcome.addError(row, "missing required field: asset tag")
		return nil
	}

	key := normalizeKey(tag)
	if b.seen[key] {
		b.outcome.addError(row, "Duplicate Asset Tag %q; first occurrence wins", tag)
		return nil
	}
	b.seen[key] = true

	name := strings.TrimSpace(r.Name)
	categoryName := strings.TrimSpace(r.CategoryName)
	itemName := strings.TrimSpace(r.ItemName)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if categoryName == "" {
		missing = append(missing, "category")
	}
	if itemName == "" {
		missing = append(missing, "item")
	}
	if len(missing) > 0 {
		b.outcome.addError(row, "missing required field(s): %s", strings.Join(missing, ", "))
		return nil
	}

	categoryID, ok := b.categories[normalizeKey(categoryName)]
	if !ok {
		b.outcome.addError(row, "unknown category %q", categoryName)
		return nil
	}
	itemID, ok := b.items[normalizeKey(itemName)]
	if !ok {
		b.outcome.addError(row, "unknown item %q", itemName)
		return nil
	}

	serial := serialValue(r.Serial)
	now := time.Now()

	res, exists := b.resources[key]
	if exists {
		res.Name = name
		res.Description = describeAsset(itemName, serial)
		res.Serial = serial
		res.Condition = optionalValue(r.Condition)
		res.CategoryID = &categoryID
		res.ItemID = &itemID
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
			Kind:        metadata.KindAsset,
			NaturalKey:  tag,
			Name:        name,
			Description: describeAsset(itemName, serial),
			Status:      metadata.StatusAvailable,
			Serial:      serial,
			Condition:   optionalValue(r.Condition),
			CategoryID:  &categoryID,
			ItemID:      &itemID,
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

func describeAsset(itemName string, serial *string) string {
	if serial == nil {
		return itemName
	}
	return itemName + " (SN: " + *serial + ")"
}
