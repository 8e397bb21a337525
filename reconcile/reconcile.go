// Package reconcile applies local mutations to dashboard lists so they follow
// server state without refetching. All functions return new values and leave
// their inputs untouched.
package reconcile

import (
	"slices"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Dosada05/chess-portal/models"
)

// Stats are the aggregates shown on the organizer dashboard.
type Stats struct {
	Tournaments int             `json:"tournaments"`
	Enrollments int             `json:"enrollments"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// ComputeStats always recomputes from the list.
func ComputeStats(list []models.Offering) Stats {
	st := Stats{Tournaments: len(list), Revenue: decimal.Zero}
	for _, o := range list {
		st.Enrollments += o.EnrollmentCount
		st.Revenue = st.Revenue.Add(o.Revenue())
	}
	return st
}

// OrganizerView is an organizer's own offerings, newest first.
type OrganizerView struct {
	Offerings []models.Offering `json:"offerings"`
	Stats     Stats             `json:"stats"`
}

func NewOrganizerView(list []models.Offering) OrganizerView {
	items := slices.Clone(list)
	if items == nil {
		items = []models.Offering{}
	}
	return OrganizerView{Offerings: items, Stats: ComputeStats(items)}
}

func (v OrganizerView) OnCreated(rec models.Offering) OrganizerView {
	items := make([]models.Offering, 0, len(v.Offerings)+1)
	items = append(items, rec)
	items = append(items, v.Offerings...)
	return OrganizerView{Offerings: items, Stats: ComputeStats(items)}
}

func (v OrganizerView) OnUpdated(rec models.Offering) OrganizerView {
	items := replaceByID(v.Offerings, rec)
	return OrganizerView{Offerings: items, Stats: ComputeStats(items)}
}

func (v OrganizerView) OnDeleted(id int) OrganizerView {
	items := removeByID(v.Offerings, id)
	return OrganizerView{Offerings: items, Stats: ComputeStats(items)}
}

// Find returns the offering with the given id.
func (v OrganizerView) Find(id int) (models.Offering, bool) {
	return findByID(v.Offerings, id)
}

// AvailableView is what a player can still enroll in, soonest first.
type AvailableView struct {
	Offerings     []models.Offering `json:"offerings"`
	EnrolledCount int               `json:"enrolled_count"`
}

// NewAvailableView keeps offerings dated today or later, ordered by date.
func NewAvailableView(list []models.Offering, today models.Date, enrolledCount int) AvailableView {
	items := make([]models.Offering, 0, len(list))
	for _, o := range list {
		if !o.Date.Before(today) {
			items = append(items, o)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.Before(items[j].Date) })
	return AvailableView{Offerings: items, EnrolledCount: enrolledCount}
}

// OnCreated inserts after every offering with the same or an earlier date.
func (v AvailableView) OnCreated(rec models.Offering) AvailableView {
	pos := sort.Search(len(v.Offerings), func(i int) bool { return v.Offerings[i].Date.After(rec.Date) })
	items := make([]models.Offering, 0, len(v.Offerings)+1)
	items = append(items, v.Offerings[:pos]...)
	items = append(items, rec)
	items = append(items, v.Offerings[pos:]...)
	return AvailableView{Offerings: items, EnrolledCount: v.EnrolledCount}
}

func (v AvailableView) OnUpdated(rec models.Offering) AvailableView {
	return AvailableView{Offerings: replaceByID(v.Offerings, rec), EnrolledCount: v.EnrolledCount}
}

func (v AvailableView) OnDeleted(id int) AvailableView {
	return AvailableView{Offerings: removeByID(v.Offerings, id), EnrolledCount: v.EnrolledCount}
}

// OnEnrolled drops the offering and counts exactly one new enrollment.
func (v AvailableView) OnEnrolled(offeringID int) AvailableView {
	return AvailableView{Offerings: removeByID(v.Offerings, offeringID), EnrolledCount: v.EnrolledCount + 1}
}

func (v AvailableView) Find(id int) (models.Offering, bool) {
	return findByID(v.Offerings, id)
}

// EnrollmentsView is the player's upcoming enrollments, soonest first.
type EnrollmentsView struct {
	Enrollments []models.Enrollment `json:"enrollments"`
}

func NewEnrollmentsView(list []models.Enrollment, today models.Date) EnrollmentsView {
	items := make([]models.Enrollment, 0, len(list))
	for _, e := range list {
		if !e.Date.Before(today) {
			items = append(items, e)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.Before(items[j].Date) })
	return EnrollmentsView{Enrollments: items}
}

// OnEnrolled inserts a fresh enrollment in date order.
func (v EnrollmentsView) OnEnrolled(e models.Enrollment) EnrollmentsView {
	pos := sort.Search(len(v.Enrollments), func(i int) bool { return v.Enrollments[i].Date.After(e.Date) })
	items := make([]models.Enrollment, 0, len(v.Enrollments)+1)
	items = append(items, v.Enrollments[:pos]...)
	items = append(items, e)
	items = append(items, v.Enrollments[pos:]...)
	return EnrollmentsView{Enrollments: items}
}

func (v EnrollmentsView) OnUnenrolled(enrollmentID int) EnrollmentsView {
	items := make([]models.Enrollment, 0, len(v.Enrollments))
	for _, e := range v.Enrollments {
		if e.ID != enrollmentID {
			items = append(items, e)
		}
	}
	return EnrollmentsView{Enrollments: items}
}

func replaceByID(list []models.Offering, rec models.Offering) []models.Offering {
	items := slices.Clone(list)
	if items == nil {
		items = []models.Offering{}
	}
	for i := range items {
		if items[i].ID == rec.ID {
			items[i] = rec
			break
		}
	}
	return items
}

func removeByID(list []models.Offering, id int) []models.Offering {
	items := make([]models.Offering, 0, len(list))
	for _, o := range list {
		if o.ID != id {
			items = append(items, o)
		}
	}
	return items
}

func findByID(list []models.Offering, id int) (models.Offering, bool) {
	for _, o := range list {
		if o.ID == id {
			return o, true
		}
	}
	return models.Offering{}, false
}
