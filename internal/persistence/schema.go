package persistence

import (
	"context"
	"embed"
	"fmt"

	"go.uber.org/zap"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// SchemaExecer runs a single DDL statement.
type SchemaExecer interface {
	ExecContext(ctx context.Context, query string) error
}

// SchemaFor returns the CREATE TABLE statement for the given store driver.
func SchemaFor(driver string) (string, error) {
	content, err := schemaFS.ReadFile("schema/" + driver + ".sql")
	if err != nil {
		return "", fmt.Errorf("no schema for driver %q: %w", driver, err)
	}
	return string(content), nil
}

// EnsureSchema creates the departments table if it does not exist. There is no migration path.
func EnsureSchema(ctx context.Context, db SchemaExecer, driver string, logger *zap.Logger) error {
	ddl, err := SchemaFor(driver)
	if err != nil {
		return err
	}
	if err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("apply %s schema: %w", driver, err)
	}
	logger.Info("schema ensured", zap.String("driver", driver))
	return nil
}
