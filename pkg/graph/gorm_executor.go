package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/katnyeung/beans-finder-sub000/internal/model"
)

// profileShift is how far a vector-shift query moves the reference profile
// along the requested dimension before ranking by distance.
const profileShift = 0.3

// GormExecutor answers graph queries against the Postgres catalog.
// Overlap queries run on the JSONB tasting-note payload, profile queries
// on the pgvector columns.
type GormExecutor struct {
	db *gorm.DB
}

var _ Executor = &GormExecutor{}
var _ StatsSource = &GormExecutor{}

func NewGormExecutor(db *gorm.DB) *GormExecutor {
	return &GormExecutor{db: db}
}

func (e *GormExecutor) Product(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := e.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch product %s: %w", id, err)
	}
	return &product, nil
}

func (e *GormExecutor) Execute(ctx context.Context, queryType QueryType, params Params, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 15
	}

	switch queryType {
	case QueryByName:
		return e.find(ctx, limit, func(q *gorm.DB) *gorm.DB {
			return q.Where("name ILIKE ?", "%"+params.NameSubstring+"%")
		})

	case QueryByBrand:
		return e.find(ctx, limit, func(q *gorm.DB) *gorm.DB {
			return q.Where("brand ILIKE ?", "%"+params.BrandName+"%")
		})

	case QueryByOrigin:
		return e.find(ctx, limit, func(q *gorm.DB) *gorm.DB {
			return q.Where(datatypes.JSONArrayQuery("origins").Contains(params.Origin))
		})

	case QueryByRoast:
		return e.find(ctx, limit, func(q *gorm.DB) *gorm.DB {
			return q.Where("roast_level = ?", params.RoastLevel)
		})

	case QueryByProcess:
		return e.find(ctx, limit, func(q *gorm.DB) *gorm.DB {
			return q.Where(datatypes.JSONArrayQuery("processes").Contains(params.Process))
		})

	case QueryCategoryMember:
		return e.find(ctx, limit, func(q *gorm.DB) *gorm.DB {
			return q.Where(noteCategoryExists, params.FlavorCategory)
		})

	case QueryFlavorKeyword:
		keywords := KeywordsForCategory(params.FlavorCategory)
		if len(keywords) == 0 {
			return nil, nil
		}
		return e.find(ctx, limit, func(q *gorm.DB) *gorm.DB {
			return q.Where(noteKeywordClause(keywords))
		})

	case QueryTastingNoteOverlap:
		ref, err := e.reference(ctx, params)
		if err != nil || ref == nil {
			return nil, err
		}
		notes := ref.NoteNames()
		if len(notes) == 0 {
			return nil, nil
		}
		return e.find(ctx, limit, func(q *gorm.DB) *gorm.DB {
			return q.Where("id <> ?", ref.Id).Where(noteNameExists, notes)
		})

	case QuerySubcategoryOverlap:
		ref, err := e.reference(ctx, params)
		if err != nil || ref == nil {
			return nil, err
		}
		categories := ref.NoteCategories()
		if len(categories) == 0 {
			return nil, nil
		}
		return e.find(ctx, limit, func(q *gorm.DB) *gorm.DB {
			return q.Where("id <> ?", ref.Id).Where(noteCategoryIn, categories)
		})

	case QueryAttributeOverlap:
		ref, err := e.reference(ctx, params)
		if err != nil || ref == nil {
			return nil, err
		}
		return e.find(ctx, limit, func(q *gorm.DB) *gorm.DB {
			overlap := e.db.Where("roast_level = ?", ref.RoastLevel)
			for _, origin := range ref.Origins {
				overlap = overlap.Or(datatypes.JSONArrayQuery("origins").Contains(origin))
			}
			for _, process := range ref.Processes {
				overlap = overlap.Or(datatypes.JSONArrayQuery("processes").Contains(process))
			}
			return q.Where("id <> ?", ref.Id).Where(overlap)
		})

	case QueryProfileSimilarity:
		ref, err := e.reference(ctx, params)
		if err != nil || ref == nil {
			return nil, err
		}
		return e.find(ctx, limit, func(q *gorm.DB) *gorm.DB {
			return q.Where("id <> ?", ref.Id).
				Order(clause.Expr{SQL: "flavor_profile <=> ?", Vars: []interface{}{ref.FlavorProfile}})
		})

	case QueryCategoryVector:
		ref, err := e.reference(ctx, params)
		if err != nil || ref == nil {
			return nil, err
		}
		target := shiftVector(ref.FlavorProfile, params.CategoryIndex, params.Direction)
		return e.find(ctx, limit, func(q *gorm.DB) *gorm.DB {
			return q.Where("id <> ?", ref.Id).
				Order(clause.Expr{SQL: "flavor_profile <=> ?", Vars: []interface{}{target}})
		})

	case QueryAxisVector:
		ref, err := e.reference(ctx, params)
		if err != nil || ref == nil {
			return nil, err
		}
		target := shiftVector(ref.CharacterProfile, params.AxisIndex, params.Direction)
		return e.find(ctx, limit, func(q *gorm.DB) *gorm.DB {
			return q.Where("id <> ?", ref.Id).
				Order(clause.Expr{SQL: "character_profile <=> ?", Vars: []interface{}{target}})
		})

	case QueryNoteOverlapAxis:
		ref, err := e.reference(ctx, params)
		if err != nil || ref == nil {
			return nil, err
		}
		notes := ref.NoteNames()
		if len(notes) == 0 {
			return nil, nil
		}
		target := shiftVector(ref.CharacterProfile, params.AxisIndex, params.Direction)
		return e.find(ctx, limit, func(q *gorm.DB) *gorm.DB {
			return q.Where("id <> ?", ref.Id).
				Where(noteNameExists, notes).
				Order(clause.Expr{SQL: "character_profile <=> ?", Vars: []interface{}{target}})
		})

	default:
		// Unknown query types are a no-result outcome, not an error
		return nil, nil
	}
}

// Stats counts the reference product's graph neighborhood and lists the
// catalog's distinct origin/process values.
func (e *GormExecutor) Stats(ctx context.Context, referenceID string) (*Stats, error) {
	stats := &Stats{}

	if err := e.db.WithContext(ctx).
		Raw("SELECT DISTINCT jsonb_array_elements_text(origins) FROM products WHERE deleted_at IS NULL").
		Scan(&stats.Origins).Error; err != nil {
		return nil, fmt.Errorf("list origins: %w", err)
	}
	if err := e.db.WithContext(ctx).
		Raw("SELECT DISTINCT jsonb_array_elements_text(processes) FROM products WHERE deleted_at IS NULL").
		Scan(&stats.Processes).Error; err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	if referenceID == "" {
		return stats, nil
	}

	ref, err := e.Product(ctx, referenceID)
	if err != nil || ref == nil {
		return stats, err
	}

	base := func() *gorm.DB {
		return e.db.WithContext(ctx).Model(&model.Product{}).Where("id <> ?", ref.Id)
	}

	if len(ref.Origins) > 0 {
		if err := base().Where(datatypes.JSONArrayQuery("origins").Contains(ref.Origins[0])).
			Count(&stats.SameOriginCount).Error; err != nil {
			return nil, err
		}
	}
	if err := base().Where("roast_level = ?", ref.RoastLevel).Count(&stats.SameRoastCount).Error; err != nil {
		return nil, err
	}
	if len(ref.Processes) > 0 {
		if err := base().Where(datatypes.JSONArrayQuery("processes").Contains(ref.Processes[0])).
			Count(&stats.SameProcessCount).Error; err != nil {
			return nil, err
		}
	}
	if notes := ref.NoteNames(); len(notes) > 0 {
		if err := base().Where(noteNameExists, notes).Count(&stats.SimilarFlavorCount).Error; err != nil {
			return nil, err
		}
	}

	return stats, nil
}

func (e *GormExecutor) find(ctx context.Context, limit int, scope func(*gorm.DB) *gorm.DB) ([]model.Product, error) {
	var products []model.Product
	query := scope(e.db.WithContext(ctx).Model(&model.Product{})).Limit(limit)
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("graph query failed: %w", err)
	}
	return products, nil
}

func (e *GormExecutor) reference(ctx context.Context, params Params) (*model.Product, error) {
	if params.ReferenceID == "" {
		return nil, nil
	}
	return e.Product(ctx, params.ReferenceID)
}

// JSONB helpers over the tasting_notes payload.
const (
	noteNameExists     = "EXISTS (SELECT 1 FROM jsonb_array_elements(tasting_notes) AS n WHERE n->>'note' IN ?)"
	noteCategoryIn     = "EXISTS (SELECT 1 FROM jsonb_array_elements(tasting_notes) AS n WHERE n->>'category' IN ?)"
	noteCategoryExists = "EXISTS (SELECT 1 FROM jsonb_array_elements(tasting_notes) AS n WHERE n->>'category' = ?)"
)

func noteKeywordClause(keywords []string) clause.Expr {
	conditions := make([]string, len(keywords))
	vars := make([]interface{}, len(keywords))
	for i, kw := range keywords {
		conditions[i] = "n->>'note' ILIKE ?"
		vars[i] = "%" + kw + "%"
	}
	sql := "EXISTS (SELECT 1 FROM jsonb_array_elements(tasting_notes) AS n WHERE " +
		strings.Join(conditions, " OR ") + ")"
	return clause.Expr{SQL: sql, Vars: vars}
}

// shiftVector nudges one dimension of a profile toward "more" or "less",
// clamped to the 0..1 scoring range.
func shiftVector(v pgvector.Vector, index, direction int) pgvector.Vector {
	values := v.Slice()
	shifted := make([]float32, len(values))
	copy(shifted, values)
	if index >= 0 && index < len(shifted) {
		shifted[index] += float32(direction) * profileShift
		if shifted[index] > 1 {
			shifted[index] = 1
		}
		if shifted[index] < 0 {
			shifted[index] = 0
		}
	}
	return pgvector.NewVector(shifted)
}
