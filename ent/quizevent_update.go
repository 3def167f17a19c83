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
	"github.com/pathwise/pathwise/ent/quizevent"
)

// QuizEventUpdate is the builder for updating QuizEvent entities.
type QuizEventUpdate struct {
	config
	hooks    []Hook
	mutation *QuizEventMutation
}

// Where appends a list predicates to the QuizEventUpdate builder.
func (_u *QuizEventUpdate) Where(ps ...predicate.QuizEvent) *QuizEventUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// SetSessionID sets the "session_id" field.
func (_u *QuizEventUpdate) SetSessionID(v string) *QuizEventUpdate {
	_u.mutation.SetSessionID(v)
	return _u
}

// SetNillableSessionID sets the "session_id" field if the given value is not nil.
func (_u *QuizEventUpdate) SetNillableSessionID(v *string) *QuizEventUpdate {
	if v != nil {
		_u.SetSessionID(*v)
	}
	return _u
}

// SetNodeID sets the "node_id" field.
func (_u *QuizEventUpdate) SetNodeID(v string) *QuizEventUpdate {
	_u.mutation.SetNodeID(v)
	return _u
}

// SetNillableNodeID sets the "node_id" field if the given value is not nil.
func (_u *QuizEventUpdate) SetNillableNodeID(v *string) *QuizEventUpdate {
	if v != nil {
		_u.SetNodeID(*v)
	}
	return _u
}

// SetKind sets the "kind" field.
func (_u *QuizEventUpdate) SetKind(v string) *QuizEventUpdate {
	_u.mutation.SetKind(v)
	return _u
}

// SetNillableKind sets the "kind" field if the given value is not nil.
func (_u *QuizEventUpdate) SetNillableKind(v *string) *QuizEventUpdate {
	if v != nil {
		_u.SetKind(*v)
	}
	return _u
}

// SetQuestions sets the "questions" field.
func (_u *QuizEventUpdate) SetQuestions(v int) *QuizEventUpdate {
	_u.mutation.ResetQuestions()
	_u.mutation.SetQuestions(v)
	return _u
}

// SetNillableQuestions sets the "questions" field if the given value is not nil.
func (_u *QuizEventUpdate) SetNillableQuestions(v *int) *QuizEventUpdate {
	if v != nil {
		_u.SetQuestions(*v)
	}
	return _u
}

// AddQuestions adds value to the "questions" field.
func (_u *QuizEventUpdate) AddQuestions(v int) *QuizEventUpdate {
	_u.mutation.AddQuestions(v)
	return _u
}

// SetScore sets the "score" field.
func (_u *QuizEventUpdate) SetScore(v float64) *QuizEventUpdate {
	_u.mutation.ResetScore()
	_u.mutation.SetScore(v)
	return _u
}

// SetNillableScore sets the "score" field if the given value is not nil.
func (_u *QuizEventUpdate) SetNillableScore(v *float64) *QuizEventUpdate {
	if v != nil {
		_u.SetScore(*v)
	}
	return _u
}

// AddScore adds value to the "score" field.
func (_u *QuizEventUpdate) AddScore(v float64) *QuizEventUpdate {
	_u.mutation.AddScore(v)
	return _u
}

// SetMaxScore sets the "max_score" field.
func (_u *QuizEventUpdate) SetMaxScore(v float64) *QuizEventUpdate {
	_u.mutation.ResetMaxScore()
	_u.mutation.SetMaxScore(v)
	return _u
}

// SetNillableMaxScore sets the "max_score" field if the given value is not nil.
func (_u *QuizEventUpdate) SetNillableMaxScore(v *float64) *QuizEventUpdate {
	if v != nil {
		_u.SetMaxScore(*v)
	}
	return _u
}

// AddMaxScore adds value to the "max_score" field.
func (_u *QuizEventUpdate) AddMaxScore(v float64) *QuizEventUpdate {
	_u.mutation.AddMaxScore(v)
	return _u
}

// SetProficiency sets the "proficiency" field.
func (_u *QuizEventUpdate) SetProficiency(v float64) *QuizEventUpdate {
	_u.mutation.ResetProficiency()
	_u.mutation.SetProficiency(v)
	return _u
}

// SetNillableProficiency sets the "proficiency" field if the given value is not nil.
func (_u *QuizEventUpdate) SetNillableProficiency(v *float64) *QuizEventUpdate {
	if v != nil {
		_u.SetProficiency(*v)
	}
	return _u
}

// AddProficiency adds value to the "proficiency" field.
func (_u *QuizEventUpdate) AddProficiency(v float64) *QuizEventUpdate {
	_u.mutation.AddProficiency(v)
	return _u
}

// SetPassed sets the "passed" field.
func (_u *QuizEventUpdate) SetPassed(v bool) *QuizEventUpdate {
	_u.mutation.SetPassed(v)
	return _u
}

// SetNillablePassed sets the "passed" field if the given value is not nil.
func (_u *QuizEventUpdate) SetNillablePassed(v *bool) *QuizEventUpdate {
	if v != nil {
		_u.SetPassed(*v)
	}
	return _u
}

// SetResults sets the "results" field.
func (_u *QuizEventUpdate) SetResults(v string) *QuizEventUpdate {
	_u.mutation.SetResults(v)
	return _u
}

// SetNillableResults sets the "results" field if the given value is not nil.
func (_u *QuizEventUpdate) SetNillableResults(v *string) *QuizEventUpdate {
	if v != nil {
		_u.SetResults(*v)
	}
	return _u
}

// Mutation returns the QuizEventMutation object of the builder.
func (_u *QuizEventUpdate) Mutation() *QuizEventMutation {
	return _u.mutation
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *QuizEventUpdate) Save(ctx context.Context) (int, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *QuizEventUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *QuizEventUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *QuizEventUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *QuizEventUpdate) check() error {
	if v, ok := _u.mutation.SessionID(); ok {
		if err := quizevent.SessionIDValidator(v); err != nil {
			return &ValidationError{Name: "session_id", err: fmt.Errorf(`ent: validator failed for field "QuizEvent.session_id": %w`, err)}
		}
	}
	if v, ok := _u.mutation.Kind(); ok {
		if err := quizevent.KindValidator(v); err != nil {
			return &ValidationError{Name: "kind", err: fmt.Errorf(`ent: validator failed for field "QuizEvent.kind": %w`, err)}
		}
	}
	return nil
}

func (_u *QuizEventUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(quizevent.Table, quizevent.Columns, sqlgraph.NewFieldSpec(quizevent.FieldID, field.TypeInt))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.SessionID(); ok {
		_spec.SetField(quizevent.FieldSessionID, field.TypeString, value)
	}
	if value, ok := _u.mutation.NodeID(); ok {
		_spec.SetField(quizevent.FieldNodeID, field.TypeString, value)
	}
	if value, ok := _u.mutation.Kind(); ok {
		_spec.SetField(quizevent.FieldKind, field.TypeString, value)
	}
	if value, ok := _u.mutation.Questions(); ok {
		_spec.SetField(quizevent.FieldQuestions, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedQuestions(); ok {
		_spec.AddField(quizevent.FieldQuestions, field.TypeInt, value)
	}
	if value, ok := _u.mutation.Score(); ok {
		_spec.SetField(quizevent.FieldScore, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.AddedScore(); ok {
		_spec.AddField(quizevent.FieldScore, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.MaxScore(); ok {
		_spec.SetField(quizevent.FieldMaxScore, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.AddedMaxScore(); ok {
		_spec.AddField(quizevent.FieldMaxScore, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.Proficiency(); ok {
		_spec.SetField(quizevent.FieldProficiency, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.AddedProficiency(); ok {
		_spec.AddField(quizevent.FieldProficiency, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.Passed(); ok {
		_spec.SetField(quizevent.FieldPassed, field.TypeBool, value)
	}
	if value, ok := _u.mutation.Results(); ok {
		_spec.SetField(quizevent.FieldResults, field.TypeString, value)
	}
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{quizevent.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// QuizEventUpdateOne is the builder for updating a single QuizEvent entity.
type QuizEventUpdateOne struct {
	config
	fields   []string
	hooks    []Hook
	mutation *QuizEventMutation
}

// SetSessionID sets the "session_id" field.
func (_u *QuizEventUpdateOne) SetSessionID(v string) *QuizEventUpdateOne {
	_u.mutation.SetSessionID(v)
	return _u
}

// SetNillableSessionID sets the "session_id" field if the given value is not nil.
func (_u *QuizEventUpdateOne) SetNillableSessionID(v *string) *QuizEventUpdateOne {
	if v != nil {
		_u.SetSessionID(*v)
	}
	return _u
}

// SetNodeID sets the "node_id" field.
func (_u *QuizEventUpdateOne) SetNodeID(v string) *QuizEventUpdateOne {
	_u.mutation.SetNodeID(v)
	return _u
}

// SetNillableNodeID sets the "node_id" field if the given value is not nil.
func (_u *QuizEventUpdateOne) SetNillableNodeID(v *string) *QuizEventUpdateOne {
	if v != nil {
		_u.SetNodeID(*v)
	}
	return _u
}

// SetKind sets the "kind" field.
func (_u *QuizEventUpdateOne) SetKind(v string) *QuizEventUpdateOne {
	_u.mutation.SetKind(v)
	return _u
}

// SetNillableKind sets the "kind" field if the given value is not nil.
func (_u *QuizEventUpdateOne) SetNillableKind(v *string) *QuizEventUpdateOne {
	if v != nil {
		_u.SetKind(*v)
	}
	return _u
}

// SetQuestions sets the "questions" field.
func (_u *QuizEventUpdateOne) SetQuestions(v int) *QuizEventUpdateOne {
	_u.mutation.ResetQuestions()
	_u.mutation.SetQuestions(v)
	return _u
}

// SetNillableQuestions sets the "questions" field if the given value is not nil.
func (_u *QuizEventUpdateOne) SetNillableQuestions(v *int) *QuizEventUpdateOne {
	if v != nil {
		_u.SetQuestions(*v)
	}
	return _u
}

// AddQuestions adds value to the "questions" field.
func (_u *QuizEventUpdateOne) AddQuestions(v int) *QuizEventUpdateOne {
	_u.mutation.AddQuestions(v)
	return _u
}

// SetScore sets the "score" field.
func (_u *QuizEventUpdateOne) SetScore(v float64) *QuizEventUpdateOne {
	_u.mutation.ResetScore()
	_u.mutation.SetScore(v)
	return _u
}

// SetNillableScore sets the "score" field if the given value is not nil.
func (_u *QuizEventUpdateOne) SetNillableScore(v *float64) *QuizEventUpdateOne {
	if v != nil {
		_u.SetScore(*v)
	}
	return _u
}

// AddScore adds value to the "score" field.
func (_u *QuizEventUpdateOne) AddScore(v float64) *QuizEventUpdateOne {
	_u.mutation.AddScore(v)
	return _u
}

// SetMaxScore sets the "max_score" field.
func (_u *QuizEventUpdateOne) SetMaxScore(v float64) *QuizEventUpdateOne {
	_u.mutation.ResetMaxScore()
	_u.mutation.SetMaxScore(v)
	return _u
}

// SetNillableMaxScore sets the "max_score" field if the given value is not nil.
func (_u *QuizEventUpdateOne) SetNillableMaxScore(v *float64) *QuizEventUpdateOne {
	if v != nil {
		_u.SetMaxScore(*v)
	}
	return _u
}

// AddMaxScore adds value to the "max_score" field.
func (_u *QuizEventUpdateOne) AddMaxScore(v float64) *QuizEventUpdateOne {
	_u.mutation.AddMaxScore(v)
	return _u
}

// SetProficiency sets the "proficiency" field.
func (_u *QuizEventUpdateOne) SetProficiency(v float64) *QuizEventUpdateOne {
	_u.mutation.ResetProficiency()
	_u.mutation.SetProficiency(v)
	return _u
}

// SetNillableProficiency sets the "proficiency" field if the given value is not nil.
func (_u *QuizEventUpdateOne) SetNillableProficiency(v *float64) *QuizEventUpdateOne {
	if v != nil {
		_u.SetProficiency(*v)
	}
	return _u
}

// AddProficiency adds value to the "proficiency" field.
func (_u *QuizEventUpdateOne) AddProficiency(v float64) *QuizEventUpdateOne {
	_u.mutation.AddProficiency(v)
	return _u
}

// SetPassed sets the "passed" field.
func (_u *QuizEventUpdateOne) SetPassed(v bool) *QuizEventUpdateOne {
	_u.mutation.SetPassed(v)
	return _u
}

// SetNillablePassed sets the "passed" field if the given value is not nil.
func (_u *QuizEventUpdateOne) SetNillablePassed(v *bool) *QuizEventUpdateOne {
	if v != nil {
		_u.SetPassed(*v)
	}
	return _u
}

// SetResults sets the "results" field.
func (_u *QuizEventUpdateOne) SetResults(v string) *QuizEventUpdateOne {
	_u.mutation.SetResults(v)
	return _u
}

// SetNillableResults sets the "results" field if the given value is not nil.
func (_u *QuizEventUpdateOne) SetNillableResults(v *string) *QuizEventUpdateOne {
	if v != nil {
		_u.SetResults(*v)
	}
	return _u
}

// Mutation returns the QuizEventMutation object of the builder.
func (_u *QuizEventUpdateOne) Mutation() *QuizEventMutation {
	return _u.mutation
}

// Where appends a list predicates to the QuizEventUpdate builder.
func (_u *QuizEventUpdateOne) Where(ps ...predicate.QuizEvent) *QuizEventUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *QuizEventUpdateOne) Select(field string, fields ...string) *QuizEventUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated QuizEvent entity.
func (_u *QuizEventUpdateOne) Save(ctx context.Context) (*QuizEvent, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *QuizEventUpdateOne) SaveX(ctx context.Context) *QuizEvent {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *QuizEventUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *QuizEventUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *QuizEventUpdateOne) check() error {
	if v, ok := _u.mutation.SessionID(); ok {
		if err := quizevent.SessionIDValidator(v); err != nil {
			return &ValidationError{Name: "session_id", err: fmt.Errorf(`ent: validator failed for field "QuizEvent.session_id": %w`, err)}
		}
	}
	if v, ok := _u.mutation.Kind(); ok {
		if err := quizevent.KindValidator(v); err != nil {
			return &ValidationError{Name: "kind", err: fmt.Errorf(`ent: validator failed for field "QuizEvent.kind": %w`, err)}
		}
	}
	return nil
}

func (_u *QuizEventUpdateOne) sqlSave(ctx context.Context) (_node *QuizEvent, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(quizevent.Table, quizevent.Columns, sqlgraph.NewFieldSpec(quizevent.FieldID, field.TypeInt))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "QuizEvent.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, quizevent.FieldID)
		for _, f := range fields {
			if !quizevent.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != quizevent.FieldID {
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
		_spec.SetField(quizevent.FieldSessionID, field.TypeString, value)
	}
	if value, ok := _u.mutation.NodeID(); ok {
		_spec.SetField(quizevent.FieldNodeID, field.TypeString, value)
	}
	if value, ok := _u.mutation.Kind(); ok {
		_spec.SetField(quizevent.FieldKind, field.TypeString, value)
	}
	if value, ok := _u.mutation.Questions(); ok {
		_spec.SetField(quizevent.FieldQuestions, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedQuestions(); ok {
		_spec.AddField(quizevent.FieldQuestions, field.TypeInt, value)
	}
	if value, ok := _u.mutation.Score(); ok {
		_spec.SetField(quizevent.FieldScore, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.AddedScore(); ok {
		_spec.AddField(quizevent.FieldScore, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.MaxScore(); ok {
		_spec.SetField(quizevent.FieldMaxScore, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.AddedMaxScore(); ok {
		_spec.AddField(quizevent.FieldMaxScore, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.Proficiency(); ok {
		_spec.SetField(quizevent.FieldProficiency, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.AddedProficiency(); ok {
		_spec.AddField(quizevent.FieldProficiency, field.TypeFloat64, value)
	}
	if value, ok := _u.mutation.Passed(); ok {
		_spec.SetField(quizevent.FieldPassed, field.TypeBool, value)
	}
	if value, ok := _u.mutation.Results(); ok {
		_spec.SetField(quizevent.FieldResults, field.TypeString, value)
	}
	_node = &QuizEvent{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{quizevent.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
