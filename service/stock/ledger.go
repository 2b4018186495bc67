package stock

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "stockops.GO/core/errors"
	stockEntity "stockops.GO/model/entity/stock"
	catalogRepo "stockops.GO/model/repository/catalog"
	stockRepo "stockops.GO/model/repository/stock"
)

// AdjustInput is the JSON input for a ledger adjustment.
type AdjustInput struct {
	ComponentID    uint   `json:"component_id"`
	AdjustmentType string `json:"adjustment_type"`
	Quantity       int    `json:"quantity"`
	Notes          string `json:"notes"`
	Reference      string `json:"reference"`
}

// AdjustResult reports the applied on_hand change and its audit row.
type AdjustResult struct {
	PreviousOnHand int                         `json:"previous_on_hand"`
	NewOnHand      int                         `json:"new_on_hand"`
	Delta          int                         `json:"delta"`
	Adjustment     stockEntity.StockAdjustment `json:"adjustment"`
}

// Adjust applies one ledger mutation to a component's on_hand inside a
// transaction with the stock row locked. count is an absolute physical
// recount and requires notes; add increments; remove decrements but clamps
// at zero. reserved and on_order are never touched here.
//
// Adjustments must not be blindly retried. Every audit row carries a
// reference (caller-provided or generated); replaying a reference is a
// conflict, which gives retrying callers their dedupe handle.
func Adjust(db *gorm.DB, in AdjustInput) (*AdjustResult, error) {
	if !stockEntity.ValidAdjustmentType(in.AdjustmentType) {
		return nil, apperrors.Validation("adjustment_type must be count, add or remove")
	}
	if in.Quantity < 0 {
		return nil, apperrors.Validation("quantity must not be negative")
	}
	if in.AdjustmentType == stockEntity.AdjustmentCount && strings.TrimSpace(in.Notes) == "" {
		return nil, apperrors.Validation("notes are required for a physical count")
	}
	reference := strings.TrimSpace(in.Reference)
	if reference == "" {
		reference = uuid.NewString()
	}

	// Validate the component before opening the transaction. Components are
	// never deleted, so the check cannot go stale.
	catRepo, err := catalogRepo.NewCatalogRepository(db)
	if err != nil {
		return nil, err
	}
	comp, err := catRepo.GetComponentByID(in.ComponentID)
	if err != nil {
		return nil, err
	}
	if comp == nil {
		return nil, apperrors.NotFoundID("component", in.ComponentID)
	}

	var result *AdjustResult
	err = db.Transaction(func(tx *gorm.DB) error {
		stRepo := stockRepo.NewStockRepository(tx)
		dup, err := stRepo.ReferenceExists(tx, reference)
		if err != nil {
			return err
		}
		if dup {
			return apperrors.Conflict("adjustment reference %s already applied", reference)
		}

		level, err := stRepo.GetLevelForUpdate(tx, in.ComponentID)
		if err != nil {
			return err
		}
		if level == nil {
			if err := stRepo.EnsureLevel(in.ComponentID); err != nil {
				return err
			}
			level, err = stRepo.GetLevelForUpdate(tx, in.ComponentID)
			if err != nil {
				return err
			}
		}

		previous := level.OnHand
		var newOnHand int
		switch in.AdjustmentType {
		case stockEntity.AdjustmentCount:
			newOnHand = in.Quantity
		case stockEntity.AdjustmentAdd:
			newOnHand = previous + in.Quantity
		case stockEntity.AdjustmentRemove:
			newOnHand = previous - in.Quantity
			if newOnHand < 0 {
				newOnHand = 0
			}
		}

		level.OnHand = newOnHand
		if err := stRepo.SaveLevel(tx, level); err != nil {
			return err
		}

		adj := stockEntity.StockAdjustment{
			ComponentID:    in.ComponentID,
			AdjustmentType: in.AdjustmentType,
			Quantity:       in.Quantity,
			Delta:          newOnHand - previous,
			PreviousOnHand: previous,
			NewOnHand:      newOnHand,
			Reference:      reference,
			Notes:          in.Notes,
		}
		if err := stRepo.InsertAdjustment(tx, &adj); err != nil {
			return err
		}

		result = &AdjustResult{
			PreviousOnHand: previous,
			NewOnHand:      newOnHand,
			Delta:          newOnHand - previous,
			Adjustment:     adj,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReceiveIntoStock books received purchase order goods inside the caller's
// transaction: on_hand grows by qty, on_order shrinks by the same amount,
// and an add-type audit row is appended. This is the only stock mutation
// path besides Adjust.
func ReceiveIntoStock(tx *gorm.DB, componentID uint, qty int, notes, reference string) (*AdjustResult, error) {
	if qty < 1 {
		return nil, apperrors.Validation("received quantity must be at least 1")
	}
	if reference == "" {
		reference = uuid.NewString()
	}

	stRepo := stockRepo.NewStockRepository(tx)
	level, err := stRepo.GetLevelForUpdate(tx, componentID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		if err := stRepo.EnsureLevel(componentID); err != nil {
			return nil, err
		}
		level, err = stRepo.GetLevelForUpdate(tx, componentID)
		if err != nil {
			return nil, err
		}
	}

	previous := level.OnHand
	level.OnHand = previous + qty
	level.OnOrder -= qty
	if level.OnOrder < 0 {
		level.OnOrder = 0
	}
	if err := stRepo.SaveLevel(tx, level); err != nil {
		return nil, err
	}

	adj := stockEntity.StockAdjustment{
		ComponentID:    componentID,
		AdjustmentType: stockEntity.AdjustmentAdd,
		Quantity:       qty,
		Delta:          qty,
		PreviousOnHand: previous,
		NewOnHand:      level.OnHand,
		Reference:      reference,
		Notes:          notes,
	}
	if err := stRepo.InsertAdjustment(tx, &adj); err != nil {
		return nil, err
	}

	return &AdjustResult{
		PreviousOnHand: previous,
		NewOnHand:      level.OnHand,
		Delta:          qty,
		Adjustment:     adj,
	}, nil
}

// CommitOnOrder books a sent purchase order line: on_order grows by qty
// inside the caller's transaction. No audit row; on_hand is untouched until
// goods arrive.
func CommitOnOrder(tx *gorm.DB, componentID uint, qty int) error {
	stRepo := stockRepo.NewStockRepository(tx)
	level, err := stRepo.GetLevelForUpdate(tx, componentID)
	if err != nil {
		return err
	}
	if level == nil {
		if err := stRepo.EnsureLevel(componentID); err != nil {
			return err
		}
		level, err = stRepo.GetLevelForUpdate(tx, componentID)
		if err != nil {
			return err
		}
	}
	level.OnOrder += qty
	return stRepo.SaveLevel(tx, level)
}

// History returns the audit trail for one component, newest first.
func History(db *gorm.DB, componentID uint, limit int) ([]stockEntity.StockAdjustment, error) {
	return stockRepo.NewStockRepository(db).AdjustmentsByComponent(componentID, limit)
}
