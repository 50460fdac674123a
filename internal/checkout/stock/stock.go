package stock

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Line is one product quantity to reserve.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// Failure identifies the line that could not be reserved and what remained.
type Failure struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

// Reserve decrements stock for every line with a conditional update. The
// first line that cannot be satisfied is returned as a Failure; the caller
// is expected to run inside a transaction and roll back on failure.
func Reserve(ctx context.Context, tx *gorm.DB, lines []Line) (*Failure, error) {
	for _, line := range lines {
		result := tx.WithContext(ctx).Exec(
			`UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`,
			line.Quantity, line.ProductID, line.Quantity,
		)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 1 {
			continue
		}

		var available int
		err := tx.WithContext(ctx).
			Raw(`SELECT stock FROM products WHERE id = ?`, line.ProductID).
			Scan(&available).
			Error
		if err != nil {
			return nil, err
		}
		return &Failure{
			ProductID: line.ProductID,
			Requested: line.Quantity,
			Available: available,
		}, nil
	}
	return nil, nil
}
