package mystore

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"sort"
	"sync"
	"time"
)

type inMemoryStore[T any] struct {
	sync.Mutex
	items map[string]T
}

func newInMemoryStore[T any](c context.Context) (*inMemoryStore[T], func(), error) {
	return &inMemoryStore[T]{
		items: map[string]T{},
	}, func() {}, nil
}

// inMemoryTransaction spans every in-memory store used within it, like a Datastore transaction does
type inMemoryTransaction struct {
	owner any
	undo  []func()
}

func (s *inMemoryStore[T]) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	if _, ok := c.Value(ctxTransactionKey{}).(*inMemoryTransaction); ok {
		// nested: join the running transaction
		return f(c)
	}

	// Start transaction
	s.Lock()
	defer s.Unlock()

	snapshot := maps.Clone(s.items)
	tx := &inMemoryTransaction{owner: s}

	err := f(context.WithValue(c, ctxTransactionKey{}, tx))
	if err != nil {
		// Rollback
		s.items = snapshot
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		return err
	}

	// Commit
	return nil
}

// inTransaction is only true for transactions started on this very store:
// other stores joining the same context take their own lock per call.
func (s *inMemoryStore[T]) inTransaction(c context.Context) bool {
	tx, ok := c.Value(ctxTransactionKey{}).(*inMemoryTransaction)
	return ok && tx.owner == s
}

func (s *inMemoryStore[T]) lock(c context.Context) func() {
	if s.inTransaction(c) {
		return func() {}
	}
	s.Lock()
	return s.Unlock
}

// remember registers how to restore uid when a transaction started on another store fails.
// Must be called with the lock held.
func (s *inMemoryStore[T]) remember(c context.Context, uid string) {
	tx, ok := c.Value(ctxTransactionKey{}).(*inMemoryTransaction)
	if !ok || tx.owner == s {
		return
	}

	previous, existed := s.items[uid]
	tx.undo = append(tx.undo, func() {
		s.Lock()
		defer s.Unlock()

		if existed {
			s.items[uid] = previous
		} else {
			delete(s.items, uid)
		}
	})
}

func (s *inMemoryStore[T]) Put(c context.Context, uid string, value T) error {
	defer s.lock(c)()

	s.remember(c, uid)
	s.items[uid] = value

	return nil
}

func (s *inMemoryStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	defer s.lock(c)()

	result, exists := s.items[uid]

	return result, exists, nil
}

func (s *inMemoryStore[T]) Delete(c context.Context, uid string) error {
	defer s.lock(c)()

	s.remember(c, uid)
	delete(s.items, uid)

	return nil
}

func (s *inMemoryStore[T]) List(c context.Context) ([]T, error) {
	defer s.lock(c)()

	result := make([]T, 0, len(s.items))
	for _, v := range s.items {
		result = append(result, v)
	}

	return result, nil
}

func (s *inMemoryStore[T]) Query(c context.Context, filters []Filter, orderByField string) ([]T, error) {
	all, err := s.List(c)
	if err != nil {
		return nil, err
	}

	result := make([]T, 0, len(all))
	for _, item := range all {
		matches, err := matchesAll(item, filters)
		if err != nil {
			return nil, err
		}
		if matches {
			result = append(result, item)
		}
	}

	if orderByField != "" {
		sort.SliceStable(result, func(i, j int) bool {
			return less(fieldValue(result[i], orderByField), fieldValue(result[j], orderByField))
		})
	}

	return result, nil
}

func matchesAll(item any, filters []Filter) (bool, error) {
	for _, f := range filters {
		if f.Compare != "=" {
			return false, fmt.Errorf("compare operator '%s' not supported", f.Compare)
		}
		value := fieldValue(item, f.Field)
		if !value.IsValid() {
			return false, fmt.Errorf("field '%s' not found", f.Field)
		}
		if !reflect.DeepEqual(value.Interface(), f.Value) {
			return false, nil
		}
	}
	return true, nil
}

func fieldValue(item any, fieldName string) reflect.Value {
	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	return v.FieldByName(fieldName)
}

func less(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return false
	}
	switch a.Kind() {
	case reflect.String:
		return a.String() < b.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() < b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return a.Uint() < b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() < b.Float()
	case reflect.Bool:
		return !a.Bool() && b.Bool()
	}
	if at, ok := a.Interface().(time.Time); ok {
		return at.Before(b.Interface().(time.Time))
	}
	return false
}
