package models

// FriendStatus is the state of a directed relationship edge.
type FriendStatus string

const (
	FriendPending  FriendStatus = "pending"
	FriendAccepted FriendStatus = "accepted"
	FriendBlocked  FriendStatus = "blocked"
)

// transitions lists, per state, the states an edge may move to.
// No transition ever leads back to pending and none removes the edge.
var transitions = map[FriendStatus][]FriendStatus{
	FriendPending:  {FriendAccepted, FriendBlocked},
	FriendAccepted: {FriendBlocked},
	FriendBlocked:  {FriendAccepted},
}

// Valid reports whether s is a known status.
func (s FriendStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether an edge in s may move to next.
func (s FriendStatus) CanTransitionTo(next FriendStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// FriendEdge is a directed relationship from UserID to FriendID. The
// symmetric edge is never created implicitly; both parties see the edge by
// querying either direction.
type FriendEdge struct {
	ID       int64        `json:"id" db:"id"`
	UserID   string       `json:"userId" db:"user_id"`
	FriendID string       `json:"friendId" db:"friend_id"`
	Status   FriendStatus `json:"status" db:"status"`
}

// Involves reports whether userID is either end of the edge.
func (e FriendEdge) Involves(userID string) bool {
	return e.UserID == userID || e.FriendID == userID
}

// Other returns the party at the opposite end from userID.
func (e FriendEdge) Other(userID string) string {
	if e.UserID == userID {
		return e.FriendID
	}
	return e.UserID
}
