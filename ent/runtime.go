// Code generated by ent, DO NOT EDIT.

package ent

import (
	"time"

	"github.com/pathwise/pathwise/ent/llmrequestevent"
	"github.com/pathwise/pathwise/ent/quizevent"
	"github.com/pathwise/pathwise/ent/reviewevent"
	"github.com/pathwise/pathwise/ent/schema"
	"github.com/pathwise/pathwise/ent/sessionevent"
	"github.com/pathwise/pathwise/ent/snapshot"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	llmrequesteventMixin := schema.LLMRequestEvent{}.Mixin()
	llmrequesteventMixinFields0 := llmrequesteventMixin[0].Fields()
	_ = llmrequesteventMixinFields0
	llmrequesteventFields := schema.LLMRequestEvent{}.Fields()
	_ = llmrequesteventFields
	// llmrequesteventDescTimestamp is the schema descriptor for timestamp field.
	llmrequesteventDescTimestamp := llmrequesteventMixinFields0[1].Descriptor()
	// llmrequestevent.DefaultTimestamp holds the default value on creation for the timestamp field.
	llmrequestevent.DefaultTimestamp = llmrequesteventDescTimestamp.Default.(func() time.Time)
	// llmrequesteventDescInputTokens is the schema descriptor for input_tokens field.
	llmrequesteventDescInputTokens := llmrequesteventFields[3].Descriptor()
	// llmrequestevent.DefaultInputTokens holds the default value on creation for the input_tokens field.
	llmrequestevent.DefaultInputTokens = llmrequesteventDescInputTokens.Default.(int)
	// llmrequesteventDescOutputTokens is the schema descriptor for output_tokens field.
	llmrequesteventDescOutputTokens := llmrequesteventFields[4].Descriptor()
	// llmrequestevent.DefaultOutputTokens holds the default value on creation for the output_tokens field.
	llmrequestevent.DefaultOutputTokens = llmrequesteventDescOutputTokens.Default.(int)
	// llmrequesteventDescLatencyMs is the schema descriptor for latency_ms field.
	llmrequesteventDescLatencyMs := llmrequesteventFields[5].Descriptor()
	// llmrequestevent.DefaultLatencyMs holds the default value on creation for the latency_ms field.
	llmrequestevent.DefaultLatencyMs = llmrequesteventDescLatencyMs.Default.(int64)
	// llmrequesteventDescErrorMessage is the schema descriptor for error_message field.
	llmrequesteventDescErrorMessage := llmrequesteventFields[7].Descriptor()
	// llmrequestevent.DefaultErrorMessage holds the default value on creation for the error_message field.
	llmrequestevent.DefaultErrorMessage = llmrequesteventDescErrorMessage.Default.(string)
	// llmrequesteventDescRequestBody is the schema descriptor for request_body field.
	llmrequesteventDescRequestBody := llmrequesteventFields[8].Descriptor()
	// llmrequestevent.DefaultRequestBody holds the default value on creation for the request_body field.
	llmrequestevent.DefaultRequestBody = llmrequesteventDescRequestBody.Default.(string)
	// llmrequesteventDescResponseBody is the schema descriptor for response_body field.
	llmrequesteventDescResponseBody := llmrequesteventFields[9].Descriptor()
	// llmrequestevent.DefaultResponseBody holds the default value on creation for the response_body field.
	llmrequestevent.DefaultResponseBody = llmrequesteventDescResponseBody.Default.(string)
	quizeventMixin := schema.QuizEvent{}.Mixin()
	quizeventMixinFields0 := quizeventMixin[0].Fields()
	_ = quizeventMixinFields0
	quizeventFields := schema.QuizEvent{}.Fields()
	_ = quizeventFields
	// quizeventDescTimestamp is the schema descriptor for timestamp field.
	quizeventDescTimestamp := quizeventMixinFields0[1].Descriptor()
	// quizevent.DefaultTimestamp holds the default value on creation for the timestamp field.
	quizevent.DefaultTimestamp = quizeventDescTimestamp.Default.(func() time.Time)
	// quizeventDescSessionID is the schema descriptor for session_id field.
	quizeventDescSessionID := quizeventFields[0].Descriptor()
	// quizevent.SessionIDValidator is a validator for the "session_id" field. It is called by the builders before save.
	quizevent.SessionIDValidator = quizeventDescSessionID.Validators[0].(func(string) error)
	// quizeventDescNodeID is the schema descriptor for node_id field.
	quizeventDescNodeID := quizeventFields[1].Descriptor()
	// quizevent.DefaultNodeID holds the default value on creation for the node_id field.
	quizevent.DefaultNodeID = quizeventDescNodeID.Default.(string)
	// quizeventDescKind is the schema descriptor for kind field.
	quizeventDescKind := quizeventFields[2].Descriptor()
	// quizevent.KindValidator is a validator for the "kind" field. It is called by the builders before save.
	quizevent.KindValidator = quizeventDescKind.Validators[0].(func(string) error)
	// quizeventDescQuestions is the schema descriptor for questions field.
	quizeventDescQuestions := quizeventFields[3].Descriptor()
	// quizevent.DefaultQuestions holds the default value on creation for the questions field.
	quizevent.DefaultQuestions = quizeventDescQuestions.Default.(int)
	// quizeventDescScore is the schema descriptor for score field.
	quizeventDescScore := quizeventFields[4].Descriptor()
	// quizevent.DefaultScore holds the default value on creation for the score field.
	quizevent.DefaultScore = quizeventDescScore.Default.(float64)
	// quizeventDescMaxScore is the schema descriptor for max_score field.
	quizeventDescMaxScore := quizeventFields[5].Descriptor()
	// quizevent.DefaultMaxScore holds the default value on creation for the max_score field.
	quizevent.DefaultMaxScore = quizeventDescMaxScore.Default.(float64)
	// quizeventDescProficiency is the schema descriptor for proficiency field.
	quizeventDescProficiency := quizeventFields[6].Descriptor()
	// quizevent.DefaultProficiency holds the default value on creation for the proficiency field.
	quizevent.DefaultProficiency = quizeventDescProficiency.Default.(float64)
	// quizeventDescResults is the schema descriptor for results field.
	quizeventDescResults := quizeventFields[8].Descriptor()
	// quizevent.DefaultResults holds the default value on creation for the results field.
	quizevent.DefaultResults = quizeventDescResults.Default.(string)
	revieweventMixin := schema.ReviewEvent{}.Mixin()
	revieweventMixinFields0 := revieweventMixin[0].Fields()
	_ = revieweventMixinFields0
	revieweventFields := schema.ReviewEvent{}.Fields()
	_ = revieweventFields
	// revieweventDescTimestamp is the schema descriptor for timestamp field.
	revieweventDescTimestamp := revieweventMixinFields0[1].Descriptor()
	// reviewevent.DefaultTimestamp holds the default value on creation for the timestamp field.
	reviewevent.DefaultTimestamp = revieweventDescTimestamp.Default.(func() time.Time)
	// revieweventDescSessionID is the schema descriptor for session_id field.
	revieweventDescSessionID := revieweventFields[0].Descriptor()
	// reviewevent.SessionIDValidator is a validator for the "session_id" field. It is called by the builders before save.
	reviewevent.SessionIDValidator = revieweventDescSessionID.Validators[0].(func(string) error)
	// revieweventDescCardID is the schema descriptor for card_id field.
	revieweventDescCardID := revieweventFields[1].Descriptor()
	// reviewevent.CardIDValidator is a validator for the "card_id" field. It is called by the builders before save.
	reviewevent.CardIDValidator = revieweventDescCardID.Validators[0].(func(string) error)
	// revieweventDescNodeID is the schema descriptor for node_id field.
	revieweventDescNodeID := revieweventFields[2].Descriptor()
	// reviewevent.DefaultNodeID holds the default value on creation for the node_id field.
	reviewevent.DefaultNodeID = revieweventDescNodeID.Default.(string)
	sessioneventMixin := schema.SessionEvent{}.Mixin()
	sessioneventMixinFields0 := sessioneventMixin[0].Fields()
	_ = sessioneventMixinFields0
	sessioneventFields := schema.SessionEvent{}.Fields()
	_ = sessioneventFields
	// sessioneventDescTimestamp is the schema descriptor for timestamp field.
	sessioneventDescTimestamp := sessioneventMixinFields0[1].Descriptor()
	// sessionevent.DefaultTimestamp holds the default value on creation for the timestamp field.
	sessionevent.DefaultTimestamp = sessioneventDescTimestamp.Default.(func() time.Time)
	// sessioneventDescSessionID is the schema descriptor for session_id field.
	sessioneventDescSessionID := sessioneventFields[0].Descriptor()
	// sessionevent.SessionIDValidator is a validator for the "session_id" field. It is called by the builders before save.
	sessionevent.SessionIDValidator = sessioneventDescSessionID.Validators[0].(func(string) error)
	// sessioneventDescAction is the schema descriptor for action field.
	sessioneventDescAction := sessioneventFields[1].Descriptor()
	// sessionevent.ActionValidator is a validator for the "action" field. It is called by the builders before save.
	sessionevent.ActionValidator = sessioneventDescAction.Validators[0].(func(string) error)
	// sessioneventDescDailyStreak is the schema descriptor for daily_streak field.
	sessioneventDescDailyStreak := sessioneventFields[2].Descriptor()
	// sessionevent.DefaultDailyStreak holds the default value on creation for the daily_streak field.
	sessionevent.DefaultDailyStreak = sessioneventDescDailyStreak.Default.(int)
	// sessioneventDescShowedBriefing is the schema descriptor for showed_briefing field.
	sessioneventDescShowedBriefing := sessioneventFields[3].Descriptor()
	// sessionevent.DefaultShowedBriefing holds the default value on creation for the showed_briefing field.
	sessionevent.DefaultShowedBriefing = sessioneventDescShowedBriefing.Default.(bool)
	// sessioneventDescStatus is the schema descriptor for status field.
	sessioneventDescStatus := sessioneventFields[4].Descriptor()
	// sessionevent.DefaultStatus holds the default value on creation for the status field.
	sessionevent.DefaultStatus = sessioneventDescStatus.Default.(string)
	snapshotFields := schema.Snapshot{}.Fields()
	_ = snapshotFields
	// snapshotDescTimestamp is the schema descriptor for timestamp field.
	snapshotDescTimestamp := snapshotFields[1].Descriptor()
	// snapshot.DefaultTimestamp holds the default value on creation for the timestamp field.
	snapshot.DefaultTimestamp = snapshotDescTimestamp.Default.(func() time.Time)
}
