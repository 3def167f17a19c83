// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/pathwise/pathwise/ent/predicate"
	"github.com/pathwise/pathwise/ent/reviewevent"
)

// ReviewEventUpdate is the builder for updating ReviewEvent entities.
type ReviewEventUpdate struct {
	config
	hooks    []Hook
	mutation *ReviewEventMutation
}

// Where appends a list predicates to the ReviewEventUpdate builder.
func (_u *ReviewEventUpdate) Where(ps ...predicate.ReviewEvent) *ReviewEventUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// SetSessionID sets the "session_id" field.
func (_u *ReviewEventUpdate) SetSessionID(v string) *ReviewEventUpdate {
	_u.mutation.SetSessionID(v)
	return _u
}

// SetNillableSessionID sets the "session_id" field if the given value is not nil.
func (_u *ReviewEventUpdate) SetNillableSessionID(v *string) *ReviewEventUpdate {
	if v != nil {
		_u.SetSessionID(*v)
	}
	return _u
}

// SetCardID sets the "card_id" field.
func (_u *ReviewEventUpdate) SetCardID(v string) *ReviewEventUpdate {
	_u.mutation.SetCardID(v)
	return _u
}

// SetNillableCardID sets the "card_id" field if the given value is not nil.
func (_u *ReviewEventUpdate) SetNillableCardID(v *string) *ReviewEventUpdate {
	if v != nil {
		_u.SetCardID(*v)
	}
	return _u
}

// SetNodeID sets the "node_id" field.
func (_u *ReviewEventUpdate) SetNodeID(v string) *ReviewEventUpdate {
	_u.mutation.SetNodeID(v)
	return _u
}

// SetNillableNodeID sets the "node_id" field if the given value is not nil.
func (_u *ReviewEventUpdate) SetNillableNodeID(v *string) *ReviewEventUpdate {
	if v != nil {
		_u.SetNodeID(*v)
	}
	return _u
}

// SetGrade sets the "grade" field.
func (_u *ReviewEventUpdate) SetGrade(v int) *ReviewEventUpdate {
	_u.mutation.ResetGrade()
	_u.mutation.SetGrade(v)
	return _u
}

// SetNillableGrade sets the "grade" field if the given value is not nil.
func (_u *ReviewEventUpdate) SetNillableGrade(v *int) *ReviewEventUpdate {
	if v != nil {
		_u.SetGrade(*v)
	}
	return _u
}

// AddGrade adds value to the "grade" field.
func (_u *ReviewEventUpdate) AddGrade(v int) *ReviewEventUpdate {
	_u.mutation.AddGrade(v)
	return _u
}

// SetInterval sets the "interval" field.
func (_u *ReviewEventUpdate) SetInterval(v int) *ReviewEventUpdate {
	_u.mutation.ResetInterval()
	_u.mutation.SetInterval(v)
	return _u
}

// SetNillableInterval sets the "interval" field if the given value is not nil.
func (_u *ReviewEventUpdate) SetNillableInterval(v *int) *ReviewEventUpdate {
	if v != nil {
		_u.SetInterval(*v)
	}
	return _u
}

// AddInterval adds value to the "interval" field.
func (_u *ReviewEventUpdate) AddInterval(v int) *ReviewEventUpdate {
	_u.mutation.AddInterval(v)
	return _u
}

// SetRepetition sets the "repetition" field.
func (_u *ReviewEventUpdate) SetRepetition(v int) *ReviewEventUpdate {
	_u.mutation.ResetRepetition()
	_u.mutation.SetRepetition(v)
	return _u
}

// SetNillableRepetition sets the "repetition" field if the given value is not nil.
func (_u *ReviewEventUpdate) SetNillableRepetition(v *int) *ReviewEventUpdate {
	if v != nil {
		_u.SetRepetition(*v)
	}
	return _u
}

// AddRepetition adds value to the "repetition" field.
func (_u *ReviewEventUpdate) AddRepetition(v int) *ReviewEventUpdate {
	_u.mutation.AddRepetition(v)
	return _u
}

// SetEaseFactor sets the "ease_factor" field.
func (_u *ReviewEventUpdate) SetEaseFactor(v float64) *ReviewEventUpdate {
	_u.mutation.ResetEaseFactor()
	_u.mutation.SetEaseFactor(v)
	return _u
}

// SetNillableEaseFactor sets the "ease_factor" field if the given value is not nil.
func (_u *ReviewEventUpdate) SetNillableEaseFactor(v *float64) *ReviewEventUpdate {
	if v != nil {
		_u.SetEaseFactor(*v)
	}
	return _u
}

// AddEaseFactor adds value to the "ease_factor" field.
func (_u *ReviewEventUpdate) AddEaseFactor(v float64) *ReviewEventUpdate {
	_u.mutation.AddEaseFactor(v)
	return _u
}

// Mutation returns the ReviewEventMutation object of the builder.
func (_u *ReviewEventUpdate) Mutation() *ReviewEventMutation {
	return _u.mutation
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *ReviewEventUpdate) Save(ctx context.Context) (int, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *ReviewEventUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *ReviewEventUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *ReviewEventUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *ReviewEventUpdate) check() error {
	if v, ok := _u.mutation.SessionID(); ok {
		if err := reviewevent.SessionIDValidator(v); err != nil {
			return &ValidationError{Name: "session_id", err: fmt.Errorf(`ent: validator failed for field "ReviewEvent.session_id": %w`, err)}
		}
	}
	if v, ok := _u.mutation.CardID(); ok {
		if err := reviewevent.CardIDValidator(v); err != nil {
			return &ValidationError{Name: "card_id", err: fmt.Errorf(`ent: validator failed for field "ReviewEvent.card_id": %w`, err)}
		}
	}
	return nil
}

func (_u *ReviewEventUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(reviewevent.Table, reviewevent.Columns, sqlgraph.NewFieldSpec(reviewevent.FieldID, field.TypeInt))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.SessionID(); ok {
		_spec.SetField(reviewevent.FieldSessionID, field.TypeString, value)
	}
	if value, ok := _u.mutation.CardID(); ok {
		_spec.SetField(reviewevent.FieldCardID, field.TypeString, value)
	}
	if value, ok := _u.mutation.NodeID(); ok {
		_spec.SetField(reviewevent.FieldNodeID, field.TypeString, value)
	}
	if value, ok := _u.mutation.Grade(); ok {
		_spec.SetField(reviewevent.FieldGrade, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedGrade(); ok {
		_spec.AddField(reviewevent.FieldGrade, field.TypeInt, value)
	}
	if value, ok := _u.mutation.Interval(); ok {
		_spec.SetField(reviewevent.FieldInterval, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedInterval(); ok {
		_spec.AddField(reviewevent.FieldInterval, field.TypeInt, value)
	}
	if value, ok := _u.mutation.Repetition(); ok {
		_spec.SetField(reviewevent.FieldRepetition, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedRepetition(); ok {
		_spec.AddField(reviewevent.FieldRepetition, field.TypeInt, value)
	}
	if value, ok := _u.mutation.EaseFactor(); ok {
		_spec.SetField(reviewevent.FieldEaseFactor, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.AddedEaseFactor(); ok {
		_spec.AddField(reviewevent.FieldEaseFactor, field.TypeFloat64, value)
	}
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{reviewevent.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// ReviewEventUpdateOne is the builder for updating a single ReviewEvent entity.
type ReviewEventUpdateOne struct {
	config
	fields   []string
	hooks    []Hook
	mutation *ReviewEventMutation
}

// SetSessionID sets the "session_id" field.
func (_u *ReviewEventUpdateOne) SetSessionID(v string) *ReviewEventUpdateOne {
	_u.mutation.SetSessionID(v)
	return _u
}

// SetNillableSessionID sets the "session_id" field if the given value is not nil.
func (_u *ReviewEventUpdateOne) SetNillableSessionID(v *string) *ReviewEventUpdateOne {
	if v != nil {
		_u.SetSessionID(*v)
	}
	return _u
}

// SetCardID sets the "card_id" field.
func (_u *ReviewEventUpdateOne) SetCardID(v string) *ReviewEventUpdateOne {
	_u.mutation.SetCardID(v)
	return _u
}

// SetNillableCardID sets the "card_id" field if the given value is not nil.
func (_u *ReviewEventUpdateOne) SetNillableCardID(v *string) *ReviewEventUpdateOne {
	if v != nil {
		_u.SetCardID(*v)
	}
	return _u
}

// SetNodeID sets the "node_id" field.
func (_u *ReviewEventUpdateOne) SetNodeID(v string) *ReviewEventUpdateOne {
	_u.mutation.SetNodeID(v)
	return _u
}

// SetNillableNodeID sets the "node_id" field if the given value is not nil.
func (_u *ReviewEventUpdateOne) SetNillableNodeID(v *string) *ReviewEventUpdateOne {
	if v != nil {
		_u.SetNodeID(*v)
	}
	return _u
}

// SetGrade sets the "grade" field.
func (_u *ReviewEventUpdateOne) SetGrade(v int) *ReviewEventUpdateOne {
	_u.mutation.ResetGrade()
	_u.mutation.SetGrade(v)
	return _u
}

// SetNillableGrade sets the "grade" field if the given value is not nil.
func (_u *ReviewEventUpdateOne) SetNillableGrade(v *int) *ReviewEventUpdateOne {
	if v != nil {
		_u.SetGrade(*v)
	}
	return _u
}

// AddGrade adds value to the "grade" field.
func (_u *ReviewEventUpdateOne) AddGrade(v int) *ReviewEventUpdateOne {
	_u.mutation.AddGrade(v)
	return _u
}

// SetInterval sets the "interval" field.
func (_u *ReviewEventUpdateOne) SetInterval(v int) *ReviewEventUpdateOne {
	_u.mutation.ResetInterval()
	_u.mutation.SetInterval(v)
	return _u
}

// SetNillableInterval sets the "interval" field if the given value is not nil.
func (_u *ReviewEventUpdateOne) SetNillableInterval(v *int) *ReviewEventUpdateOne {
	if v != nil {
		_u.SetInterval(*v)
	}
	return _u
}

// AddInterval adds value to the "interval" field.
func (_u *ReviewEventUpdateOne) AddInterval(v int) *ReviewEventUpdateOne {
	_u.mutation.AddInterval(v)
	return _u
}

// SetRepetition sets the "repetition" field.
func (_u *ReviewEventUpdateOne) SetRepetition(v int) *ReviewEventUpdateOne {
	_u.mutation.ResetRepetition()
	_u.mutation.SetRepetition(v)
	return _u
}

// SetNillableRepetition sets the "repetition" field if the given value is not nil.
func (_u *ReviewEventUpdateOne) SetNillableRepetition(v *int) *ReviewEventUpdateOne {
	if v != nil {
		_u.SetRepetition(*v)
	}
	return _u
}

// AddRepetition adds value to the "repetition" field.
func (_u *ReviewEventUpdateOne) AddRepetition(v int) *ReviewEventUpdateOne {
	_u.mutation.AddRepetition(v)
	return _u
}

// SetEaseFactor sets the "ease_factor" field.
func (_u *ReviewEventUpdateOne) SetEaseFactor(v float64) *ReviewEventUpdateOne {
	_u.mutation.ResetEaseFactor()
	_u.mutation.SetEaseFactor(v)
	return _u
}

// SetNillableEaseFactor sets the "ease_factor" field if the given value is not nil.
func (_u *ReviewEventUpdateOne) SetNillableEaseFactor(v *float64) *ReviewEventUpdateOne {
	if v != nil {
		_u.SetEaseFactor(*v)
	}
	return _u
}

// AddEaseFactor adds value to the "ease_factor" field.
func (_u *ReviewEventUpdateOne) AddEaseFactor(v float64) *ReviewEventUpdateOne {
	_u.mutation.AddEaseFactor(v)
	return _u
}

// Mutation returns the ReviewEventMutation object of the builder.
func (_u *ReviewEventUpdateOne) Mutation() *ReviewEventMutation {
	return _u.mutation
}

// Where appends a list predicates to the ReviewEventUpdate builder.
func (_u *ReviewEventUpdateOne) Where(ps ...predicate.ReviewEvent) *ReviewEventUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *ReviewEventUpdateOne) Select(field string, fields ...string) *ReviewEventUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated ReviewEvent entity.
func (_u *ReviewEventUpdateOne) Save(ctx context.Context) (*ReviewEvent, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *ReviewEventUpdateOne) SaveX(ctx context.Context) *ReviewEvent {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *ReviewEventUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *ReviewEventUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *ReviewEventUpdateOne) check() error {
	if v, ok := _u.mutation.SessionID(); ok {
		if err := reviewevent.SessionIDValidator(v); err != nil {
			return &ValidationError{Name: "session_id", err: fmt.Errorf(`ent: validator failed for field "ReviewEvent.session_id": %w`, err)}
		}
	}
	if v, ok := _u.mutation.CardID(); ok {
		if err := reviewevent.CardIDValidator(v); err != nil {
			return &ValidationError{Name: "card_id", err: fmt.Errorf(`ent: validator failed for field "ReviewEvent.card_id": %w`, err)}
		}
	}
	return nil
}

func (_u *ReviewEventUpdateOne) sqlSave(ctx context.Context) (_node *ReviewEvent, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(reviewevent.Table, reviewevent.Columns, sqlgraph.NewFieldSpec(reviewevent.FieldID, field.TypeInt))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "ReviewEvent.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, reviewevent.FieldID)
		for _, f := range fields {
			if !reviewevent.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != reviewevent.FieldID {
				_spec.Node.Columns = append(_spec.Node.Columns, f)
			}
		}
	}
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.SessionID(); ok {
		_spec.SetField(reviewevent.FieldSessionID, field.TypeString, value)
	}
	if value, ok := _u.mutation.CardID(); ok {
		_spec.SetField(reviewevent.FieldCardID, field.TypeString, value)
	}
	if value, ok := _u.mutation.NodeID(); ok {
		_spec.SetField(reviewevent.FieldNodeID, field.TypeString, value)
	}
	if value, ok := _u.mutation.Grade(); ok {
		_spec.SetField(reviewevent.FieldGrade, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedGrade(); ok {
		_spec.AddField(reviewevent.FieldGrade, field.TypeInt, value)
	}
	if value, ok := _u.mutation.Interval(); ok {
		_spec.SetField(reviewevent.FieldInterval, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedInterval(); ok {
		_spec.AddField(reviewevent.FieldInterval, field.TypeInt, value)
	}
	if value, ok := _u.mutation.Repetition(); ok {
		_spec.SetField(reviewevent.FieldRepetition, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedRepetition(); ok {
		_spec.AddField(reviewevent.FieldRepetition, field.TypeInt, value)
	}
	if value, ok := _u.mutation.EaseFactor(); ok {
		_spec.SetField(reviewevent.FieldEaseFactor, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.AddedEaseFactor(); ok {
		_spec.AddField(reviewevent.FieldEaseFactor, field.TypeFloat64, value)
	}
	_node = &ReviewEvent{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{reviewevent.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
