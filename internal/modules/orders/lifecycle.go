package orders

import "growshare/internal/models"

// advanceSequence is the fixed, total-ordered path an accepted order walks
// to delivery. Pending is deliberately absent: leaving pending requires an
// explicit accept or reject, never a generic advance.
var advanceSequence = []models.OrderStatus{
	models.StatusAccepted,
	models.StatusPlanted,
	models.StatusGrowing,
	models.StatusReadyToHarvest,
	models.StatusHarvested,
	models.StatusDelivered,
}

// terminalStatuses are absorbing: once an order reaches one of these its
// status never changes again.
var terminalStatuses = map[models.OrderStatus]bool{
	models.StatusRejected:  true,
	models.StatusCancelled: true,
	models.StatusDelivered: true,
}

// IsTerminal reports whether the status is absorbing.
func IsTerminal(s models.OrderStatus) bool {
	return terminalStatuses[s]
}

// NextStatus returns the successor of s in the advance sequence. It returns
// false for pending (which needs an explicit accept/reject fork), for
// terminal statuses, and for anything not in the sequence.
func NextStatus(s models.OrderStatus) (models.OrderStatus, bool) {
	for i, cur := range advanceSequence {
		if cur == s && i+1 < len(advanceSequence) {
			return advanceSequence[i+1], true
		}
	}
	return "", false
}

// IsValidStatus reports whether s is one of the known order statuses.
func IsValidStatus(s models.OrderStatus) bool {
	switch s {
	case models.StatusPending, models.StatusAccepted, models.StatusRejected,
		models.StatusPlanted, models.StatusGrowing, models.StatusReadyToHarvest,
		models.StatusHarvested, models.StatusDelivered, models.StatusCancelled:
		return true
	}
	return false
}
