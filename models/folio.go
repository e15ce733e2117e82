package models

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// FolioCounter holds the last reserved sequence value per folio prefix.
// Incremented atomically inside the saving transaction so two concurrent
// saves cannot reserve the same number.
type FolioCounter struct {
	Prefix string `gorm:"size:25;primarykey" json:"prefix"`
	Value  uint   `gorm:"not null" json:"value"`
}

// TableName specifies the table name for FolioCounter model
func (FolioCounter) TableName() string {
	return "folio_counters"
}

// GenerateFolio reserves the next folio for a procedure, scoped by the
// year of its reference date: {prefix}-{year}-{NNNN}. The counter is
// seeded from the highest already-stored folio the first time a prefix
// is seen, so imports of historical data keep the sequence monotonic.
func GenerateFolio(tx *gorm.DB, p *Procedure) (string, error) {
	session := tx.Session(&gorm.Session{NewDB: true})

	year := p.ReferenceDate().Year()
	prefix := fmt.Sprintf("%s-%d", FolioPrefix, year)

	seed, err := maxFolioSuffix(session, prefix)
	if err != nil {
		return "", err
	}

	var next uint
	err = session.Raw(
		`INSERT INTO folio_counters (prefix, value) VALUES (?, ?)
		 ON CONFLICT(prefix) DO UPDATE SET value = folio_counters.value + 1
		 RETURNING value`,
		prefix, seed+1,
	).Scan(&next).Error
	if err != nil {
		return "", fmt.Errorf("failed to reserve folio sequence: %w", err)
	}

	return fmt.Sprintf("%s-%04d", prefix, next), nil
}

// maxFolioSuffix parses the numeric suffix of the highest folio stored
// under the prefix, defaulting to 0 on absence or parse failure.
func maxFolioSuffix(session *gorm.DB, prefix string) (uint, error) {
	var lastFolio string
	err := session.Model(&Procedure{}).Select("folio").
		Where("folio LIKE ?", prefix+"-%").
		Order("folio DESC").Limit(1).Scan(&lastFolio).Error
	if err != nil {
		return 0, fmt.Errorf("failed to query max folio: %w", err)
	}
	if lastFolio == "" {
		return 0, nil
	}
	parts := strings.Split(lastFolio, "-")
	n, convErr := strconv.Atoi(parts[len(parts)-1])
	if convErr != nil || n < 0 {
		return 0, nil
	}
	return uint(n), nil
}

// NextRegistryNumber returns max existing protocol registry number + 1,
// defaulting to 1 when the table is empty. Registry numbers are assigned
// externally during reconciliation, so no counter table is kept; the
// unique index catches the losing side of a concurrent race.
func NextRegistryNumber(tx *gorm.DB) (uint, error) {
	session := tx.Session(&gorm.Session{NewDB: true})

	var last uint
	err := session.Model(&ProtocolRecord{}).
		Select("COALESCE(MAX(registry_number), 0)").Scan(&last).Error
	if err != nil {
		return 0, fmt.Errorf("failed to query max registry number: %w", err)
	}
	return last + 1, nil
}
