package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestJoin_Validation(t *testing.T) {
	c := NewController(10)

	_, err := c.RequestJoin("alice", nil)
	assert.ErrorIs(t, err, ErrNoCards)

	_, err = c.RequestJoin("alice", []int{0, 11})
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, []int{0, 11}, oor.CardIDs)
	assert.Equal(t, 10, oor.Pool)

	_, err = c.RequestJoin("alice", []int{3, 3})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []int{3}, conflict.CardIDs)
}

func TestApprove_BindsCards(t *testing.T) {
	c := NewController(10)

	p, err := c.RequestJoin("alice", []int{3, 4})
	require.NoError(t, err)
	require.Len(t, c.PendingList(), 1)

	b, err := c.Approve(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", b.Identity)
	assert.Equal(t, []int{3, 4}, b.CardIDs)

	assert.True(t, c.Claimed(3))
	assert.True(t, c.Claimed(4))
	assert.Empty(t, c.PendingList())
	assert.Equal(t, []int{3, 4}, c.ClaimedIDs())
}

func TestApprove_RevalidatesAtApprovalTime(t *testing.T) {
	c := NewController(10)

	// Both requests for card 3 are accepted into the queue: nothing is
	// claimed until an approval.
	p1, err := c.RequestJoin("alice", []int{3})
	require.NoError(t, err)
	p2, err := c.RequestJoin("bob", []int{3, 5})
	require.NoError(t, err)

	_, err = c.Approve(p1.ID)
	require.NoError(t, err)

	// Bob's approval must now fail, name card 3 as the collision, and leave
	// card 5 unclaimed.
	_, err = c.Approve(p2.ID)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []int{3}, conflict.CardIDs)
	assert.False(t, c.Claimed(5))

	// The doomed request is gone either way.
	assert.Empty(t, c.PendingList())
	_, err = c.Approve(p2.ID)
	assert.ErrorIs(t, err, ErrUnknownPending)
}

func TestRequestJoin_RejectsClaimedCardsUpFront(t *testing.T) {
	c := NewController(10)

	_, err := c.AddDirect("alice", []int{3})
	require.NoError(t, err)

	_, err = c.RequestJoin("bob", []int{3})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []int{3}, conflict.CardIDs)
	assert.Empty(t, c.PendingList())
}

func TestReject_LeavesClaimsUntouched(t *testing.T) {
	c := NewController(10)

	p, err := c.RequestJoin("alice", []int{7})
	require.NoError(t, err)

	rejected, err := c.Reject(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", rejected.Identity)
	assert.False(t, c.Claimed(7))

	_, err = c.Reject(p.ID)
	assert.ErrorIs(t, err, ErrUnknownPending)
}

func TestRelease_FreesCards(t *testing.T) {
	c := NewController(10)

	_, err := c.AddDirect("alice", []int{1, 2})
	require.NoError(t, err)

	cards, err := c.Release("alice")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, cards)
	assert.False(t, c.Claimed(1))
	assert.Empty(t, c.Bindings())

	// Someone else can claim them now.
	_, err = c.AddDirect("bob", []int{1, 2})
	assert.NoError(t, err)

	_, err = c.Release("alice")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestVerify(t *testing.T) {
	c := NewController(10)
	_, err := c.AddDirect("alice", []int{1, 2})
	require.NoError(t, err)

	assert.True(t, c.Verify("alice", []int{1, 2}))
	assert.True(t, c.Verify("alice", []int{2}))
	assert.False(t, c.Verify("alice", []int{1, 3}), "card 3 is unclaimed")
	assert.False(t, c.Verify("bob", []int{1}), "card 1 belongs to alice")
	assert.False(t, c.Verify("alice", nil), "empty proof proves nothing")
}

func TestBindings_StableJoinOrder(t *testing.T) {
	c := NewController(100)
	for _, join := range []struct {
		identity string
		card     int
	}{
		{"carol", 1}, {"alice", 2}, {"bob", 3},
	} {
		_, err := c.AddDirect(join.identity, []int{join.card})
		require.NoError(t, err)
	}

	want := []string{"carol", "alice", "bob"}
	for i := 0; i < 5; i++ {
		got := c.Bindings()
		require.Len(t, got, 3)
		for j, b := range got {
			assert.Equal(t, want[j], b.Identity)
		}
	}

	// A second claim by an existing player extends the binding in place.
	_, err := c.AddDirect("alice", []int{9})
	require.NoError(t, err)
	b, ok := c.Binding("alice")
	require.True(t, ok)
	assert.Equal(t, []int{2, 9}, b.CardIDs)
}

func TestRestore_DropsCollisions(t *testing.T) {
	c := NewController(10)

	dropped := c.Restore([]Binding{
		{Identity: "alice", CardIDs: []int{1, 2}},
		{Identity: "bob", CardIDs: []int{2, 3}},
		{Identity: "carol", CardIDs: []int{4}},
	})

	require.Len(t, dropped, 1)
	assert.Equal(t, "bob", dropped[0].Identity)
	assert.True(t, c.Verify("alice", []int{1, 2}))
	assert.True(t, c.Verify("carol", []int{4}))
	assert.False(t, c.Claimed(3))
}

func TestReset(t *testing.T) {
	c := NewController(10)
	_, err := c.AddDirect("alice", []int{1})
	require.NoError(t, err)
	_, err = c.RequestJoin("bob", []int{2})
	require.NoError(t, err)

	c.Reset()

	assert.Zero(t, c.ClaimedCount())
	assert.Empty(t, c.Bindings())
	assert.Empty(t, c.PendingList())
}
