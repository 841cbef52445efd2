package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopadmin/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// applyOrder adds a whitelisted ORDER BY clause with id as tie breaker
func applyOrder(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	dir := ValidateSortOrder(filter.OrderDir)
	return query.Order(field + " " + dir).Order("id " + dir)
}

// applyPagination adds OFFSET/LIMIT for a normalized filter
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	filter = filter.Normalize()
	return query.Offset(filter.Offset()).Limit(filter.PageSize)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lower-cased LIKE pattern with wildcards escaped
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(search))) + "%"
}

// applySearch matches search case-insensitively against columns.
// LOWER(..) LIKE works on both postgres and sqlite.
func applySearch(query *gorm.DB, search string, columns ...string) *gorm.DB {
	if strings.TrimSpace(search) == "" || len(columns) == 0 {
		return query
	}
	pattern := containsPattern(search)
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// findPage counts the rows matched by query, then loads one ordered page into dest
func findPage(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string, dest any) (int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}
	page := applyOrder(query.Session(&gorm.Session{}), filter, allowed, defaultField)
	if err := applyPagination(page, filter).Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// updateAll writes every column of model by primary key, associations excluded.
// Zero affected rows means the row no longer exists.
func updateAll(ctx context.Context, db *gorm.DB, model any) error {
	result := db.WithContext(ctx).Model(model).Select("*").Omit("created_at", clause.Associations).Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// upsert inserts model or overwrites the row with the same primary key
func upsert(ctx context.Context, db *gorm.DB, model any) error {
	return translateError(db.WithContext(ctx).Omit(clause.Associations).Save(model).Error)
}

// slugTaken reports whether a row of model other than excludeID uses slug
func slugTaken(ctx context.Context, db *gorm.DB, model any, slug string, excludeID uuid.UUID) (bool, error) {
	query := db.WithContext(ctx).Model(model).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
