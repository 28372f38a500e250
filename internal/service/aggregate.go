package service

import (
	"cmp"
	"slices"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Aggregate builds the read-only view of a trip from its items and
// participants. It is pure: the input slices are never modified and the same
// inputs always produce the same view.
func Aggregate(trip domain.Trip, items []domain.Item, participants []domain.Participant) domain.TripView {
	v := domain.TripView{
		Trip:            trip,
		Groups:          map[domain.Category][]domain.Item{},
		Days:            []domain.DayPlan{},
		TotalByCategory: map[domain.Category]int64{},
	}

	for _, it := range items {
		v.Groups[it.Category] = append(v.Groups[it.Category], it)
		subtotal := v.TotalByCategory[it.Category]
		if it.Cost != nil {
			subtotal += *it.Cost
			v.Total += *it.Cost
		}
		v.TotalByCategory[it.Category] = subtotal
	}
	for _, group := range v.Groups {
		slices.SortStableFunc(group, compareByDate)
	}

	byDay := map[time.Time][]domain.Item{}
	for _, it := range v.Groups[domain.CategoryActivity] {
		if it.Date == nil {
			continue
		}
		day := domain.DateOnly(*it.Date)
		byDay[day] = append(byDay[day], it)
	}
	for day, dayItems := range byDay {
		slices.SortStableFunc(dayItems, compareByTimeOfDay)
		v.Days = append(v.Days, domain.DayPlan{Date: day, Items: dayItems})
	}
	slices.SortFunc(v.Days, func(a, b domain.DayPlan) int { return a.Date.Compare(b.Date) })

	v.Participants = slices.Clone(participants)
	if v.Participants == nil {
		v.Participants = []domain.Participant{}
	}
	slices.SortStableFunc(v.Participants, func(a, b domain.Participant) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	v.PerPerson = perPerson(v.Total, len(v.Participants))
	return v
}

// compareByDate orders dated items first by date, undated items last, and
// breaks ties by creation time.
func compareByDate(a, b domain.Item) int {
	switch {
	case a.Date == nil && b.Date != nil:
		return 1
	case a.Date != nil && b.Date == nil:
		return -1
	case a.Date != nil && b.Date != nil:
		if c := a.Date.Compare(*b.Date); c != 0 {
			return c
		}
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}

// compareByTimeOfDay orders items of one day by their free-form time, which
// sorts lexically, so items without a time come first.
func compareByTimeOfDay(a, b domain.Item) int {
	if c := cmp.Compare(a.Meta.Time, b.Meta.Time); c != 0 {
		return c
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}

// perPerson splits total across n people, rounding half up. Nobody on the
// trip counts as one person.
func perPerson(total int64, n int) int64 {
	people := int64(max(1, n))
	q, r := total/people, total%people
	if 2*r >= people {
		q++
	}
	return q
}
