// Package audit keeps the change history of synchronized entities.
//
// Each create, update and deactivation appends one ChangeRecord with
// the serialized state before and after the mutation and the id of the
// job that caused it. Records are written in the same transaction as
// the mutation itself, so the history never drifts from the data.
package audit
