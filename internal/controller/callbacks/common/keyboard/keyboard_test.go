package keyboard

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name         string
		n, per, page int
		want         Page
	}{
		{"empty list", 0, 5, 0, Page{Index: 0, Total: 1, From: 0, To: 0}},
		{"first page", 12, 5, 0, Page{Index: 0, Total: 3, From: 0, To: 5}},
		{"last partial page", 12, 5, 2, Page{Index: 2, Total: 3, From: 10, To: 12}},
		{"page past the end is clamped", 12, 5, 9, Page{Index: 2, Total: 3, From: 10, To: 12}},
		{"negative page is clamped", 12, 5, -1, Page{Index: 0, Total: 3, From: 0, To: 5}},
		{"exact fit", 10, 5, 1, Page{Index: 1, Total: 2, From: 5, To: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(tt.n, tt.per, tt.page))
		})
	}
}

func TestPaginationButtons(t *testing.T) {
	assert.Nil(t, PaginationButtons("p:", Paginate(3, 5, 0)))

	first := PaginationButtons("p:", Paginate(12, 5, 0))
	assert.Len(t, first, 2)
	assert.Equal(t, NoopData, first[0].CallbackData)
	assert.Equal(t, "p:1", first[1].CallbackData)

	middle := PaginationButtons("p:", Paginate(12, 5, 1))
	assert.Len(t, middle, 3)
	assert.Equal(t, "p:0", middle[0].CallbackData)
	assert.Equal(t, "📄 2/3", middle[1].Text)
	assert.Equal(t, "p:2", middle[2].CallbackData)
}

func TestBuilder(t *testing.T) {
	assert.Nil(t, NewBuilder().Row().Build(), "no rows, no keyboard")

	id := uuid.New()
	kb := NewBuilder().Row(Action("Go", "go:", id)).Build()
	assert.Equal(t, "go:"+id.String(), kb.InlineKeyboard[0][0].CallbackData)
}
