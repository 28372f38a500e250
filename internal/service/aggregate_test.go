package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

var t0 = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

// at returns a creation timestamp n seconds after t0.
func at(n int) time.Time { return t0.Add(time.Duration(n) * time.Second) }

func item(c domain.Category, title string, created int, day *time.Time, cost *int64) domain.Item {
	return domain.Item{Category: c, Title: title, CreatedAt: at(created), Date: day, Cost: cost}
}

func titles(items []domain.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestAggregate_GroupsOnlyPresentCategories(t *testing.T) {
	v := service.Aggregate(storedTrip(), []domain.Item{
		item(domain.CategoryHotel, "Hotel A", 1, nil, nil),
		item(domain.CategoryFlight, "GRU → LIS", 2, nil, nil),
		item(domain.CategoryHotel, "Hotel B", 3, nil, nil),
	}, nil)

	assert.Len(t, v.Groups, 2)
	assert.Equal(t, []string{"Hotel A", "Hotel B"}, titles(v.Groups[domain.CategoryHotel]))
	assert.Equal(t, []domain.Category{domain.CategoryHotel, domain.CategoryFlight}, v.CategoriesPresent())
	_, ok := v.Groups[domain.CategoryNotes]
	assert.False(t, ok, "empty categories are absent")
}

func TestAggregate_GroupOrder_DateThenUndatedThenCreation(t *testing.T) {
	v := service.Aggregate(storedTrip(), []domain.Item{
		item(domain.CategoryTicket, "undated-late", 5, nil, nil),
		item(domain.CategoryTicket, "june-5-b", 4, ptr(date(2025, 6, 5)), nil),
		item(domain.CategoryTicket, "undated-early", 1, nil, nil),
		item(domain.CategoryTicket, "june-2", 3, ptr(date(2025, 6, 2)), nil),
		item(domain.CategoryTicket, "june-5-a", 2, ptr(date(2025, 6, 5)), nil),
	}, nil)

	assert.Equal(t,
		[]string{"june-2", "june-5-a", "june-5-b", "undated-early", "undated-late"},
		titles(v.Groups[domain.CategoryTicket]))
}

func TestAggregate_Days(t *testing.T) {
	withTime := func(it domain.Item, clock string) domain.Item {
		it.Meta.Time = clock
		return it
	}
	v := service.Aggregate(storedTrip(), []domain.Item{
		withTime(item(domain.CategoryActivity, "dinner walk", 1, ptr(date(2025, 6, 3)), nil), "19:00"),
		withTime(item(domain.CategoryActivity, "museum", 2, ptr(date(2025, 6, 3)), nil), "10:00"),
		item(domain.CategoryActivity, "free roam", 3, ptr(date(2025, 6, 3)), nil),
		item(domain.CategoryActivity, "beach", 4, ptr(date(2025, 6, 2)), nil),
		item(domain.CategoryActivity, "someday", 5, nil, nil),
		item(domain.CategoryRestaurant, "not an activity", 6, ptr(date(2025, 6, 2)), nil),
	}, nil)

	require.Len(t, v.Days, 2)
	assert.True(t, v.Days[0].Date.Equal(date(2025, 6, 2)))
	assert.Equal(t, []string{"beach"}, titles(v.Days[0].Items))
	assert.True(t, v.Days[1].Date.Equal(date(2025, 6, 3)))
	assert.Equal(t, []string{"free roam", "museum", "dinner walk"}, titles(v.Days[1].Items),
		"items without a time come first, then by time")
}

func TestAggregate_Totals(t *testing.T) {
	v := service.Aggregate(storedTrip(), []domain.Item{
		item(domain.CategoryHotel, "a", 1, nil, ptr(int64(30000))),
		item(domain.CategoryHotel, "b", 2, nil, ptr(int64(12050))),
		item(domain.CategoryFlight, "c", 3, nil, ptr(int64(0))),
		item(domain.CategoryNotes, "d", 4, nil, nil),
	}, nil)

	assert.Equal(t, int64(42050), v.TotalByCategory[domain.CategoryHotel])
	assert.Equal(t, int64(0), v.TotalByCategory[domain.CategoryFlight])
	total, ok := v.TotalByCategory[domain.CategoryNotes]
	assert.True(t, ok, "uncosted categories still have a total")
	assert.Equal(t, int64(0), total)
	assert.Len(t, v.TotalByCategory, 3, "only categories with items")
	assert.Equal(t, int64(42050), v.Total)
}

func TestAggregate_PerPerson(t *testing.T) {
	people := func(n int) []domain.Participant {
		out := make([]domain.Participant, n)
		for i := range out {
			out[i] = domain.Participant{Name: "p", CreatedAt: at(i)}
		}
		return out
	}
	cost := func(c int64) []domain.Item {
		return []domain.Item{item(domain.CategoryHotel, "h", 1, nil, ptr(c))}
	}

	tests := []struct {
		name  string
		total int64
		n     int
		want  int64
	}{
		{"nobody counts as one", 10000, 0, 10000},
		{"even split", 10000, 2, 5000},
		{"thirds round down", 10000, 3, 3333},
		{"half rounds up", 5, 2, 3},
		{"two thirds round up", 20000, 3, 6667},
		{"nothing to split", 0, 4, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := service.Aggregate(storedTrip(), cost(tc.total), people(tc.n))
			assert.Equal(t, tc.want, v.PerPerson)
		})
	}
}

func TestAggregate_ParticipantsByCreation(t *testing.T) {
	in := []domain.Participant{
		{Name: "Carla", CreatedAt: at(3)},
		{Name: "Ana", CreatedAt: at(1)},
		{Name: "Bruno", CreatedAt: at(2)},
	}

	v := service.Aggregate(storedTrip(), nil, in)

	require.Len(t, v.Participants, 3)
	assert.Equal(t, "Ana", v.Participants[0].Name)
	assert.Equal(t, "Bruno", v.Participants[1].Name)
	assert.Equal(t, "Carla", v.Participants[2].Name)
	assert.Equal(t, "Carla", in[0].Name, "input slice is not reordered")
}

func TestAggregate_Empty(t *testing.T) {
	v := service.Aggregate(storedTrip(), nil, nil)

	assert.Empty(t, v.Groups)
	assert.NotNil(t, v.Days)
	assert.NotNil(t, v.Participants)
	assert.Zero(t, v.Total)
	assert.Zero(t, v.PerPerson)
}

func TestAggregate_Idempotent(t *testing.T) {
	items := []domain.Item{
		item(domain.CategoryActivity, "b", 2, ptr(date(2025, 6, 3)), ptr(int64(100))),
		item(domain.CategoryActivity, "a", 1, ptr(date(2025, 6, 3)), ptr(int64(200))),
		item(domain.CategoryHotel, "h", 3, nil, ptr(int64(300))),
	}
	before := titles(items)
	participants := []domain.Participant{{Name: "Ana", CreatedAt: at(1)}}

	first := service.Aggregate(storedTrip(), items, participants)
	second := service.Aggregate(storedTrip(), items, participants)

	assert.Equal(t, first, second)
	assert.Equal(t, before, titles(items), "input items are not reordered")
}
