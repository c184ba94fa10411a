// Package authz holds the ownership decision. Every read, update and delete
// on a project or task goes through CanAccess after the resource has been
// resolved; existence is always checked first so that a missing resource
// reports NotFound rather than Forbidden.
package authz

// Owned is any resource with exactly one owning user. Projects implement it
// directly; a task's owner is resolved through its parent project before the
// check, since tasks carry no owner column themselves.
type Owned interface {
	OwnerUserID() uint
}

// CanAccess reports whether the actor owns the resource. It is evaluated
// freshly on every call; ownership is fixed at creation time and the result
// is never cached.
func CanAccess(actorID uint, resource Owned) bool {
	if resource == nil {
		return false
	}
	return resource.OwnerUserID() == actorID
}
