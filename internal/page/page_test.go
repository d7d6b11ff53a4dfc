package page

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emiliodom/greetings-wall/internal/domain"
)

func wall(messages ...string) []domain.GreetingRecord {
	out := make([]domain.GreetingRecord, len(messages))
	for i, m := range messages {
		out[i] = domain.GreetingRecord{Message: m}
	}
	return out
}

func messagesOf(list []domain.GreetingRecord) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.Message
	}
	return out
}

func TestSlice_FirstPageIsNewestFirst(t *testing.T) {
	// appended A..G, page 1 of 5 shows the 5 newest in reverse-append order
	list := wall("A", "B", "C", "D", "E", "F", "G")

	got := Slice(list, 1, 5)
	assert.Equal(t, []string{"G", "F", "E", "D", "C"}, messagesOf(got))
}

func TestSlice_LastPageIsPartial(t *testing.T) {
	list := wall("A", "B", "C", "D", "E", "F", "G")

	got := Slice(list, 2, 5)
	assert.Equal(t, []string{"B", "A"}, messagesOf(got))
}

func TestSlice_InputNotModified(t *testing.T) {
	list := wall("A", "B", "C")
	_ = Slice(list, 1, 2)
	assert.Equal(t, []string{"A", "B", "C"}, messagesOf(list))
}

func TestSlice_OutOfRangeIsEmpty(t *testing.T) {
	list := wall("A", "B")
	assert.Empty(t, Slice(list, 3, 5))
	assert.Empty(t, Slice(nil, 1, 5))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 5))
	assert.Equal(t, 1, TotalPages(5, 5))
	assert.Equal(t, 2, TotalPages(6, 5))
	assert.Equal(t, 2, TotalPages(7, 5))
	assert.Equal(t, 3, TotalPages(11, 5))
}
