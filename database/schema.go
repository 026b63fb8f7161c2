package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Drift is a table whose live schema lags behind its model.
type Drift struct {
	Table          string   `json:"table"`
	TableMissing   bool     `json:"table_missing"`
	MissingColumns []string `json:"missing_columns,omitempty"`
}

// DetectDrift compares every model against the connected database without
// changing anything. An empty result means Migrate has nothing to add.
func DetectDrift(db *gorm.DB) ([]Drift, error) {
	migrator := db.Migrator()
	var drifts []Drift

	for _, stage := range migrationStages() {
		for _, model := range stage {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(model); err != nil {
				return nil, fmt.Errorf("failed to parse %T: %w", model, err)
			}
			table := stmt.Schema.Table

			if !migrator.HasTable(model) {
				drifts = append(drifts, Drift{Table: table, TableMissing: true})
				continue
			}

			var missing []string
			for _, field := range stmt.Schema.Fields {
				if field.DBName == "" {
					continue
				}
				if !migrator.HasColumn(model, field.DBName) {
					missing = append(missing, field.DBName)
				}
			}
			if len(missing) > 0 {
				drifts = append(drifts, Drift{Table: table, MissingColumns: missing})
			}
		}
	}
	return drifts, nil
}
