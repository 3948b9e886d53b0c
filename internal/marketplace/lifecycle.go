package marketplace

// Service request statuses. accepted and rejected are terminal; nothing
// transitions back to pending.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// CanTransition reports whether a request status change is legal. The only
// valid moves are pending→accepted and pending→rejected.
func CanTransition(from, to string) bool {
	if from != RequestPending {
		return false
	}
	return to == RequestAccepted || to == RequestRejected
}
