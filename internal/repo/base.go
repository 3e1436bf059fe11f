package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Conn returns the raw connection, used when rebinding a repository to a transaction.
func (b Base) Conn() *gorm.DB {
	return b.db
}

// ApplyActiveFilter narrows q by the is_active column of table.
func ApplyActiveFilter(q *gorm.DB, table string, filter enums.ActiveFilter) *gorm.DB {
	column := "is_active"
	if table != "" {
		column = table + ".is_active"
	}
	switch filter {
	case enums.ActiveFilterActive:
		return q.Where(column+" = ?", true)
	case enums.ActiveFilterInactive:
		return q.Where(column+" = ?", false)
	default:
		return q
	}
}

// LoadError maps a lookup failure to NotFound or Dependency.
func LoadError(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, what+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+what)
}

// TxError passes coded errors through and wraps anything else as Dependency.
func TxError(err error, action string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
