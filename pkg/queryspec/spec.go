package queryspec

import (
	"slices"

	"github.com/Masterminds/squirrel"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page параметры постраничной выборки
type Page struct {
	Limit  int
	Offset int
}

// NewPage нормализует limit/offset: пустой limit заменяется на DefaultLimit, большой обрезается до MaxLimit
func NewPage(limit, offset int) Page {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}

// HasNext есть ли записи после текущей страницы
func (p Page) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

// Spec набор условий выборки, который накладывается на SELECT
// Методы возвращают копию, исходная спецификация не меняется
type Spec struct {
	where   []squirrel.Sqlizer
	orderBy []string
	page    *Page
}

func New() Spec {
	return Spec{}
}

// Where добавляет условие (условия объединяются через AND)
func (s Spec) Where(pred squirrel.Sqlizer) Spec {
	s.where = append(slices.Clip(s.where), pred)
	return s
}

// WhereIf добавляет условие только если cond истинно
func (s Spec) WhereIf(cond bool, pred squirrel.Sqlizer) Spec {
	if !cond {
		return s
	}
	return s.Where(pred)
}

func (s Spec) OrderBy(columns ...string) Spec {
	s.orderBy = append(slices.Clip(s.orderBy), columns...)
	return s
}

func (s Spec) Paginate(p Page) Spec {
	s.page = &p
	return s
}

// Apply накладывает условия, сортировку и пагинацию
func (s Spec) Apply(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	b = s.ApplyFilter(b)
	if len(s.orderBy) > 0 {
		b = b.OrderBy(s.orderBy...)
	}
	if s.page != nil {
		b = b.Limit(uint64(s.page.Limit)).Offset(uint64(s.page.Offset))
	}
	return b
}

// ApplyFilter накладывает только условия, используется для COUNT
func (s Spec) ApplyFilter(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	for _, pred := range s.where {
		b = b.Where(pred)
	}
	return b
}
