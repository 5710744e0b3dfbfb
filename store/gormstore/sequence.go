package gormstore

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopline/shop-api/store"
)

// nextID advances seq and returns its new value. It must run inside the transaction that
// inserts the entity, so a failed insert also rolls the counter back.
func nextID(tx *gorm.DB, seq store.Sequence) (uint, error) {
	c := counter{Name: string(seq), Seq: 1}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"seq": gorm.Expr("counters.seq + 1")}),
	}).Create(&c).Error
	if err != nil {
		return 0, fmt.Errorf("advance %s sequence: %w", seq, err)
	}
	if err := tx.Where("name = ?", string(seq)).Take(&c).Error; err != nil {
		return 0, fmt.Errorf("read %s sequence: %w", seq, err)
	}
	return uint(c.Seq), nil
}
