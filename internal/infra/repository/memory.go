package repository

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm/schema"

	"github.com/BruksfildServices01/salon-pos/internal/domain"
)

// MemoryRepository is a process-local domain.Repository. Columns are resolved
// with gorm's naming strategy, so filters and write-sets use the same keys as
// the gorm implementation. Unique columns are enforced; foreign keys are not.
type MemoryRepository[T any] struct {
	mu      sync.RWMutex
	name    string
	rows    map[uint]T
	nextID  uint
	columns map[string]int
	unique  []string
	now     func() time.Time
}

func NewMemoryRepository[T any](name string, unique ...string) *MemoryRepository[T] {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ.Kind() != reflect.Struct {
		panic(fmt.Sprintf("memory repository: %s is not a struct", typ))
	}

	naming := schema.NamingStrategy{}
	columns := make(map[string]int, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		columns[naming.ColumnName("", f.Name)] = i
	}
	if _, ok := columns["id"]; !ok {
		panic(fmt.Sprintf("memory repository: %s has no ID field", typ))
	}

	return &MemoryRepository[T]{
		name:    name,
		rows:    map[uint]T{},
		columns: columns,
		unique:  unique,
		now:     time.Now,
	}
}

func (r *MemoryRepository[T]) List(_ context.Context, filter domain.Filter) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, 0, len(r.rows))
	for _, row := range r.rows {
		ok, err := r.matches(row, filter)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", r.name, err)
		}
		if ok {
			out = append(out, row)
		}
	}

	sort.Slice(out, func(i, j int) bool { return r.id(out[i]) < r.id(out[j]) })
	return out, nil
}

func (r *MemoryRepository[T]) Get(_ context.Context, id uint) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", r.name, domain.ErrNotFound)
	}
	return &row, nil
}

// FindBy returns the first row, by id, whose column equals value.
func (r *MemoryRepository[T]) FindBy(ctx context.Context, column string, value any) (*T, error) {
	var f domain.Filter
	f.Eq(column, value)

	rows, err := r.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("find %s by %s: %w", r.name, column, domain.ErrNotFound)
	}
	return &rows[0], nil
}

func (r *MemoryRepository[T]) Create(_ context.Context, row *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(*row, 0); err != nil {
		return fmt.Errorf("create %s: %w", r.name, err)
	}

	r.nextID++
	v := reflect.ValueOf(row).Elem()
	v.Field(r.columns["id"]).SetUint(uint64(r.nextID))

	now := r.now()
	r.setTime(v, "created_at", now)
	r.setTime(v, "updated_at", now)

	r.rows[r.nextID] = *row
	return nil
}

func (r *MemoryRepository[T]) Update(_ context.Context, id uint, changes domain.Changes) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.update(id, nil, changes)
}

func (r *MemoryRepository[T]) UpdateIf(
	_ context.Context,
	id uint,
	expect map[string]any,
	changes domain.Changes,
) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.update(id, expect, changes)
}

// update must be called with mu held.
func (r *MemoryRepository[T]) update(id uint, expect map[string]any, changes domain.Changes) (*T, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("update %s: %w", r.name, domain.ErrNotFound)
	}

	if len(expect) > 0 {
		ok, err := r.matches(row, domain.Filter{Equal: expect})
		if err != nil {
			return nil, fmt.Errorf("update %s: %w", r.name, err)
		}
		if !ok {
			return nil, fmt.Errorf("update %s: %w", r.name, domain.ErrStaleRecord)
		}
	}

	if len(changes) == 0 {
		return &row, nil
	}

	v := reflect.ValueOf(&row).Elem()
	for column, value := range changes {
		idx, ok := r.columns[column]
		if !ok || column == "id" {
			return nil, fmt.Errorf("update %s: unknown column %q", r.name, column)
		}
		if err := assign(v.Field(idx), value); err != nil {
			return nil, fmt.Errorf("update %s.%s: %w", r.name, column, err)
		}
	}

	if err := r.checkUnique(row, id); err != nil {
		return nil, fmt.Errorf("update %s: %w", r.name, err)
	}

	r.setTime(v, "updated_at", r.now())
	r.rows[id] = row
	return &row, nil
}

func (r *MemoryRepository[T]) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return fmt.Errorf("delete %s: %w", r.name, domain.ErrNotFound)
	}
	delete(r.rows, id)
	return nil
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func (r *MemoryRepository[T]) id(row T) uint {
	return uint(reflect.ValueOf(row).Field(r.columns["id"]).Uint())
}

func (r *MemoryRepository[T]) setTime(v reflect.Value, column string, t time.Time) {
	idx, ok := r.columns[column]
	if !ok {
		return
	}
	if f := v.Field(idx); f.Type() == reflect.TypeOf(time.Time{}) {
		f.Set(reflect.ValueOf(t))
	}
}

func (r *MemoryRepository[T]) checkUnique(row T, self uint) error {
	v := reflect.ValueOf(row)
	for _, column := range r.unique {
		want, ok := deref(v.Field(r.columns[column]))
		if !ok {
			continue
		}
		for id, other := range r.rows {
			if id == self {
				continue
			}
			got, ok := deref(reflect.ValueOf(other).Field(r.columns[column]))
			if ok && reflect.DeepEqual(got, want) {
				return &domain.ConflictError{
					Constraint: fmt.Sprintf("idx_%ss_%s", r.name, column),
				}
			}
		}
	}
	return nil
}

func (r *MemoryRepository[T]) matches(row T, filter domain.Filter) (bool, error) {
	v := reflect.ValueOf(row)

	for column, want := range filter.Equal {
		idx, ok := r.columns[column]
		if !ok {
			return false, fmt.Errorf("unknown column %q", column)
		}
		got, ok := deref(v.Field(idx))
		if !ok || !equalValues(got, want) {
			return false, nil
		}
	}

	if rng := filter.Range; rng != nil {
		idx, ok := r.columns[rng.Column]
		if !ok {
			return false, fmt.Errorf("unknown column %q", rng.Column)
		}
		got, ok := deref(v.Field(idx))
		if !ok {
			return false, nil
		}
		t, ok := got.(time.Time)
		if !ok {
			return false, fmt.Errorf("column %q is not a timestamp", rng.Column)
		}
		if t.Before(rng.From) || !t.Before(rng.To) {
			return false, nil
		}
	}

	return true, nil
}

// deref returns the value behind f, or false when f is a nil pointer.
func deref(f reflect.Value) (any, bool) {
	if f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return nil, false
		}
		return f.Elem().Interface(), true
	}
	return f.Interface(), true
}

func equalValues(got, want any) bool {
	if reflect.DeepEqual(got, want) {
		return true
	}
	gv, wv := reflect.ValueOf(got), reflect.ValueOf(want)
	if isNumeric(gv.Kind()) && isNumeric(wv.Kind()) {
		return wv.Convert(gv.Type()).Interface() == gv.Interface()
	}
	return false
}

func assign(field reflect.Value, value any) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	v := reflect.ValueOf(value)
	ft := field.Type()

	switch {
	case v.Type().AssignableTo(ft):
		field.Set(v)
	case ft.Kind() == reflect.Ptr && v.Type().AssignableTo(ft.Elem()):
		p := reflect.New(ft.Elem())
		p.Elem().Set(v)
		field.Set(p)
	case isNumeric(v.Kind()) && isNumeric(ft.Kind()):
		field.Set(v.Convert(ft))
	case ft.Kind() == reflect.Ptr && isNumeric(v.Kind()) && isNumeric(ft.Elem().Kind()):
		p := reflect.New(ft.Elem())
		p.Elem().Set(v.Convert(ft.Elem()))
		field.Set(p)
	default:
		return fmt.Errorf("cannot store %T in %s", value, ft)
	}
	return nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
