/*
Package session serializes access to a board store.

Writers in one process are ordered by a mutex; writers in different replicas
are ordered by an optional distributed lock, so read-modify-write cycles such
as applying an action to the stored board never lose updates.
*/
package session
