package domain

import "testing"

func authority(user string, role Role) *Authority {
	return &Authority{ID: "auth-" + user, UserID: user, BookID: "book-1", Role: role}
}

func TestDecideBookDelete(t *testing.T) {
	tests := []struct {
		name string
		me   *Authority
		want BookDeleteAction
	}{
		{"no row", nil, BookDeleteDenied},
		{"left row", authority("a", RoleLeft), BookDeleteDenied},
		{"creator destroys", authority("a", RoleCreator), BookDeleteDestroy},
		{"writer leaves", authority("a", RoleWriter), BookDeleteLeave},
		{"reader leaves", authority("a", RoleReader), BookDeleteLeave},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecideBookDelete(tt.me); got != tt.want {
				t.Errorf("DecideBookDelete = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanSeeBook(t *testing.T) {
	if CanSeeBook(nil) {
		t.Error("no row should not see the book")
	}
	if CanSeeBook(authority("a", RoleLeft)) {
		t.Error("left member should not see the book")
	}
	if !CanSeeBook(authority("a", RoleReader)) {
		t.Error("reader should see the book")
	}
}

func TestCanGrant(t *testing.T) {
	tests := []struct {
		name string
		me   *Authority
		want bool
	}{
		{"no row", nil, false},
		{"creator", authority("a", RoleCreator), true},
		{"writer", authority("a", RoleWriter), true},
		{"reader", authority("a", RoleReader), false},
		{"left", authority("a", RoleLeft), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanGrant(tt.me); got != tt.want {
				t.Errorf("CanGrant = %v, want %v", got, tt.want)
			}
		})
	}
}

// Removal is rank-monotonic: the actor must hold a role equal or more
// privileged than the target's.
func TestCanRemoveMember_RankMatrix(t *testing.T) {
	roles := []Role{RoleCreator, RoleWriter, RoleReader}
	for _, actor := range roles {
		for _, target := range roles {
			me := authority("me", actor)
			other := authority("other", target)
			want := actor <= target
			// Two creator rows on the book, so last-creator protection
			// does not bite.
			if got := CanRemoveMember(me, other, 2); got != want {
				t.Errorf("actor=%s target=%s: got %v, want %v", actor, target, got, want)
			}
		}
	}
}

func TestCanRemoveMember_LastCreatorProtected(t *testing.T) {
	me := authority("me", RoleCreator)
	if CanRemoveMember(me, me, 1) {
		t.Error("sole creator row must not be removable via membership removal")
	}
	// With a second creator on the book the row may be demoted.
	if !CanRemoveMember(me, authority("other", RoleCreator), 2) {
		t.Error("creator removal should be allowed when another creator remains")
	}
}

func TestCanAssignRole(t *testing.T) {
	tests := []struct {
		name        string
		current     Role
		next        Role
		creatorRows int
		want        bool
	}{
		{"sole creator demoted to writer", RoleCreator, RoleWriter, 1, false},
		{"sole creator demoted to reader", RoleCreator, RoleReader, 1, false},
		{"sole creator reasserted", RoleCreator, RoleCreator, 1, true},
		{"creator demoted with a second creator", RoleCreator, RoleReader, 2, true},
		{"writer promoted to creator", RoleWriter, RoleCreator, 1, true},
		{"writer demoted to reader", RoleWriter, RoleReader, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAssignRole(tt.current, tt.next, tt.creatorRows); got != tt.want {
				t.Errorf("CanAssignRole(%s, %s, %d) = %v, want %v",
					tt.current, tt.next, tt.creatorRows, got, tt.want)
			}
		})
	}
}

func TestCanRemoveMember_InactiveActor(t *testing.T) {
	if CanRemoveMember(authority("me", RoleLeft), authority("other", RoleReader), 3) {
		t.Error("a left member must not remove anyone")
	}
	if CanRemoveMember(nil, authority("other", RoleReader), 3) {
		t.Error("a non-member must not remove anyone")
	}
}

func TestCanMutateLedger(t *testing.T) {
	// Deliberately loose: any active membership may log expenses.
	if !CanMutateLedger(authority("a", RoleReader)) {
		t.Error("reader should be able to mutate ledger entries")
	}
	if CanMutateLedger(authority("a", RoleLeft)) {
		t.Error("left member should not mutate ledger entries")
	}
	if CanMutateLedger(nil) {
		t.Error("non-member should not mutate ledger entries")
	}
}
