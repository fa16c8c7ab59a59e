package domain

// Pure authorization decisions. Every mutating operation on books, authorities,
// categories, and expenses is decided here from the actor's own Authority row;
// the service layer supplies the rows and applies the verdict inside a store
// transaction. The actor is always an explicit argument, never ambient state.

// BookDeleteAction is the resolved effect of a delete request on a book.
type BookDeleteAction int

const (
	// BookDeleteDenied means the actor has no active membership on the book.
	BookDeleteDenied BookDeleteAction = iota
	// BookDeleteDestroy hard-deletes the book and cascades.
	BookDeleteDestroy
	// BookDeleteLeave demotes the actor's own row to RoleLeft instead.
	// Deleting one's view of a shared book is equivalent to leaving it.
	BookDeleteLeave
)

// DecideBookDelete resolves a delete request from the actor's own authority
// row on the book. A nil row (or a Left row) denies; a Creator destroys;
// any other member leaves.
func DecideBookDelete(me *Authority) BookDeleteAction {
	if me == nil || !me.Active() {
		return BookDeleteDenied
	}
	if me.Role == RoleCreator {
		return BookDeleteDestroy
	}
	return BookDeleteLeave
}

// CanSeeBook reports whether a user with the given authority row (nil when no
// row exists) may see the book. Left rows grant no visibility.
func CanSeeBook(me *Authority) bool {
	return me != nil && me.Active()
}

// CanGrant reports whether the actor may create a membership on the book.
// The actor must hold an active Creator or Writer role; a missing row, a Left
// row, or a Reader role is insufficient.
func CanGrant(me *Authority) bool {
	return me != nil && me.Role.CanShare()
}

// CanRemoveMember reports whether the actor may demote another member's row
// to RoleLeft. Two checks must both pass:
//
//  1. The actor's own role is equal or more privileged than the target's,
//     so a Reader can never evict a Writer.
//  2. If the target is a Creator, the book must hold more than one Creator
//     row. Left rows do not count; removing the last Creator would orphan
//     the book, which only the book-deletion path may do.
//
// Self-removal is not decided here; a user's own row goes through Leave.
func CanRemoveMember(me, target *Authority, creatorRows int) bool {
	if me == nil || target == nil || !me.Active() {
		return false
	}
	if !me.Role.AtLeast(target.Role) {
		return false
	}
	if target.Role == RoleCreator && creatorRows <= 1 {
		return false
	}
	return true
}

// CanAssignRole reports whether a row holding the current role may be
// reassigned to next. Demoting the last Creator row of a book is forbidden
// for the same reason removal of it is: the book would be left with no one
// able to administer or destroy it.
func CanAssignRole(current, next Role, creatorRows int) bool {
	if current == RoleCreator && next != RoleCreator && creatorRows <= 1 {
		return false
	}
	return true
}

// CanMutateLedger reports whether the actor may create or modify categories,
// expenses, and proportions in the book. Any active membership suffices,
// Reader included; all members can log expenses.
func CanMutateLedger(me *Authority) bool {
	return me != nil && me.Active()
}
