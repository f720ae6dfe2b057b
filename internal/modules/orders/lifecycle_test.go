package orders

import (
	"testing"

	"growshare/internal/models"
)

func TestNextStatusSequence(t *testing.T) {
	steps := []struct {
		from models.OrderStatus
		want models.OrderStatus
	}{
		{models.StatusAccepted, models.StatusPlanted},
		{models.StatusPlanted, models.StatusGrowing},
		{models.StatusGrowing, models.StatusReadyToHarvest},
		{models.StatusReadyToHarvest, models.StatusHarvested},
		{models.StatusHarvested, models.StatusDelivered},
	}
	for _, step := range steps {
		got, ok := NextStatus(step.from)
		if !ok {
			t.Fatalf("NextStatus(%s): expected a successor", step.from)
		}
		if got != step.want {
			t.Errorf("NextStatus(%s) = %s, want %s", step.from, got, step.want)
		}
	}
}

func TestNextStatusDeadEnds(t *testing.T) {
	for _, s := range []models.OrderStatus{
		models.StatusPending,
		models.StatusDelivered,
		models.StatusRejected,
		models.StatusCancelled,
		models.OrderStatus("bogus"),
	} {
		if next, ok := NextStatus(s); ok {
			t.Errorf("NextStatus(%s) = %s, want no successor", s, next)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []models.OrderStatus{models.StatusRejected, models.StatusCancelled, models.StatusDelivered}
	for _, s := range terminal {
		if !IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = false, want true", s)
		}
	}
	live := []models.OrderStatus{
		models.StatusPending, models.StatusAccepted, models.StatusPlanted,
		models.StatusGrowing, models.StatusReadyToHarvest, models.StatusHarvested,
	}
	for _, s := range live {
		if IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = true, want false", s)
		}
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range advanceSequence {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%s) = false, want true", s)
		}
	}
	for _, s := range []models.OrderStatus{"shipped", "PENDING", ""} {
		if IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = true, want false", s)
		}
	}
}
