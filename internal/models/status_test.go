package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Эталонная матрица переходов: всё, что здесь не перечислено, запрещено.
var allowedPairs = map[Status][]Status{
	StatusWaiting:   {StatusCalled, StatusCancelled, StatusLeft},
	StatusCalled:    {StatusConfirmed, StatusCancelled, StatusExpired},
	StatusConfirmed: {StatusCompleted},
}

func contains(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestTransitionMatrixExhaustive(t *testing.T) {
	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			want := contains(allowedPairs[from], to)
			got := from.CanTransitionTo(to)
			assert.Equal(t, want, got, "переход %s → %s", from, to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	terminal := []Status{StatusCompleted, StatusCancelled, StatusExpired, StatusLeft}
	for _, s := range AllStatuses() {
		assert.Equal(t, contains(terminal, s), s.IsTerminal(), "статус %s", s)
	}
}

func TestActiveSet(t *testing.T) {
	assert.True(t, StatusWaiting.IsActive())
	assert.True(t, StatusCalled.IsActive())
	// Подтверждённые записи места в очереди уже не занимают.
	assert.False(t, StatusConfirmed.IsActive())
	assert.False(t, StatusCompleted.IsActive())
	assert.False(t, StatusCancelled.IsActive())
	assert.False(t, StatusExpired.IsActive())
	assert.False(t, StatusLeft.IsActive())
}

func TestSourcesOf(t *testing.T) {
	assert.ElementsMatch(t, []Status{StatusWaiting, StatusCalled}, SourcesOf(StatusCancelled))
	// Принудительное истечение возможно только после вызова.
	assert.ElementsMatch(t, []Status{StatusCalled}, SourcesOf(StatusExpired))
	assert.ElementsMatch(t, []Status{StatusConfirmed}, SourcesOf(StatusCompleted))
	assert.ElementsMatch(t, []Status{StatusWaiting}, SourcesOf(StatusLeft))
}

func TestIsValid(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.True(t, s.IsValid(), "статус %s", s)
	}
	assert.False(t, Status("unknown").IsValid())
	assert.False(t, Status("").IsValid())
}
