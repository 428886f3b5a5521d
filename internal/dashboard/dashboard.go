// Package dashboard builds the role-shaped dashboard payloads as a pure
// transform over already-loaded appointment and prescription slices. All
// "now"/"today" comparisons inside one build use the single timestamp passed
// in, so a record cannot straddle two categories within one response.
package dashboard

import (
	"sort"
	"time"

	"healthsync-server/internal/models"
)

// Payload caps for the dashboard views. The uncapped sibling lists
// (allVisits, allPrescriptions, allAppointments) are produced in the same
// call for the records page.
const (
	patientUpcomingCap     = 3
	patientRecentVisitsCap = 3
	activePrescriptionsCap = 5
	doctorUpcomingCap      = 5
)

// UserRef is the user identity embedded in dashboard entries.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// DoctorRef is the doctor side of a dashboard entry.
type DoctorRef struct {
	ID          string  `json:"id"`
	Specialty   string  `json:"specialty"`
	Credentials string  `json:"credentials,omitempty"`
	User        UserRef `json:"user"`
}

// PatientRef is the patient side of a dashboard entry.
type PatientRef struct {
	ID          string     `json:"id"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Address     string     `json:"address"`
	User        UserRef    `json:"user"`
}

// AppointmentEntry is one appointment in a dashboard list. Doctor is set on
// patient dashboards, Patient on doctor dashboards.
type AppointmentEntry struct {
	ID              string                   `json:"id"`
	AppointmentDate time.Time                `json:"appointmentDate"`
	Status          models.AppointmentStatus `json:"status"`
	ReasonForVisit  string                   `json:"reasonForVisit"`
	Doctor          *DoctorRef               `json:"doctor,omitempty"`
	Patient         *PatientRef              `json:"patient,omitempty"`
}

// PrescriptionEntry is one prescription in a dashboard list.
type PrescriptionEntry struct {
	ID               string     `json:"id"`
	Medication       string     `json:"medication"`
	Dosage           string     `json:"dosage"`
	Frequency        string     `json:"frequency"`
	StartDate        time.Time  `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	RefillsAvailable int        `json:"refillsAvailable"`
	CreatedAt        time.Time  `json:"createdAt"`
	Doctor           *DoctorRef `json:"doctor,omitempty"`
}

// Stats are the doctor dashboard counters. PendingLabResults is a stable
// stub: there is no lab results model yet, so it is always zero.
type Stats struct {
	TotalPatientsToday int `json:"totalPatientsToday"`
	PendingLabResults  int `json:"pendingLabResults"`
	RecordsToReview    int `json:"recordsToReview"`
}

// PatientPayload is the dashboard response for a patient caller.
type PatientPayload struct {
	UpcomingAppointments []AppointmentEntry  `json:"upcomingAppointments"`
	RecentVisits         []AppointmentEntry  `json:"recentVisits"`
	ActivePrescriptions  []PrescriptionEntry `json:"activePrescriptions"`
	AllAppointments      []AppointmentEntry  `json:"allAppointments"`
	AllVisits            []AppointmentEntry  `json:"allVisits"`
	AllPrescriptions     []PrescriptionEntry `json:"allPrescriptions"`
}

// DoctorPayload is the dashboard response for a doctor caller.
type DoctorPayload struct {
	TodaySchedule        []AppointmentEntry `json:"todaySchedule"`
	UpcomingAppointments []AppointmentEntry `json:"upcomingAppointments"`
	Patients             []PatientRef       `json:"patients"`
	AllAppointments      []AppointmentEntry `json:"allAppointments"`
	Stats                Stats              `json:"stats"`
}

// BuildPatientPayload partitions a patient's appointments into upcoming and
// past views and derives the active prescription lists. Appointments dated
// exactly now count as upcoming.
func BuildPatientPayload(appointments []models.Appointment, prescriptions []models.Prescription, now time.Time) PatientPayload {
	// Empty lists marshal as [], not null.
	upcoming := []AppointmentEntry{}
	past := []AppointmentEntry{}
	all := make([]AppointmentEntry, 0, len(appointments))

	for i := range appointments {
		entry := patientEntry(&appointments[i])
		all = append(all, entry)
		if !appointments[i].AppointmentDate.Before(now) {
			upcoming = append(upcoming, entry)
		} else {
			past = append(past, entry)
		}
	}

	sortByDateAsc(upcoming)
	sortByDateDesc(past)
	sortByDateDesc(all)

	active := make([]PrescriptionEntry, 0, len(prescriptions))
	for i := range prescriptions {
		if prescriptions[i].Active(now) {
			active = append(active, prescriptionEntry(&prescriptions[i]))
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})

	return PatientPayload{
		UpcomingAppointments: capEntries(upcoming, patientUpcomingCap),
		RecentVisits:         capEntries(past, patientRecentVisitsCap),
		ActivePrescriptions:  capPrescriptions(active, activePrescriptionsCap),
		AllAppointments:      all,
		AllVisits:            past,
		AllPrescriptions:     active,
	}
}

// BuildDoctorPayload builds the doctor's schedule, patient roster and
// counters from the doctor's full appointment set.
func BuildDoctorPayload(appointments []models.Appointment, now time.Time) DoctorPayload {
	today := []AppointmentEntry{}
	upcoming := []AppointmentEntry{}
	all := make([]AppointmentEntry, 0, len(appointments))
	pending := 0

	seen := make(map[string]bool)
	patients := []PatientRef{}

	for i := range appointments {
		appt := &appointments[i]
		entry := doctorEntry(appt)
		all = append(all, entry)

		if sameDay(appt.AppointmentDate, now) {
			today = append(today, entry)
		}
		if !appt.AppointmentDate.Before(now) {
			upcoming = append(upcoming, entry)
		}
		if appt.Status == models.StatusPending {
			pending++
		}
		// Distinct patients in first-encountered order.
		if entry.Patient != nil && !seen[entry.Patient.ID] {
			seen[entry.Patient.ID] = true
			patients = append(patients, *entry.Patient)
		}
	}

	sortByDateAsc(today)
	sortByDateAsc(upcoming)
	sortByDateDesc(all)

	return DoctorPayload{
		TodaySchedule:        today,
		UpcomingAppointments: capEntries(upcoming, doctorUpcomingCap),
		Patients:             patients,
		AllAppointments:      all,
		Stats: Stats{
			TotalPatientsToday: len(today),
			PendingLabResults:  0,
			RecordsToReview:    pending,
		},
	}
}

func patientEntry(appt *models.Appointment) AppointmentEntry {
	entry := AppointmentEntry{
		ID:              appt.ID,
		AppointmentDate: appt.AppointmentDate,
		Status:          appt.Status,
		ReasonForVisit:  appt.ReasonForVisit,
	}
	if appt.Doctor != nil {
		entry.Doctor = doctorRef(appt.Doctor, true)
	}
	return entry
}

func doctorEntry(appt *models.Appointment) AppointmentEntry {
	entry := AppointmentEntry{
		ID:              appt.ID,
		AppointmentDate: appt.AppointmentDate,
		Status:          appt.Status,
		ReasonForVisit:  appt.ReasonForVisit,
	}
	if appt.Patient != nil {
		entry.Patient = patientRef(appt.Patient)
	}
	return entry
}

func prescriptionEntry(pres *models.Prescription) PrescriptionEntry {
	entry := PrescriptionEntry{
		ID:               pres.ID,
		Medication:       pres.Medication,
		Dosage:           pres.Dosage,
		Frequency:        pres.Frequency,
		StartDate:        pres.StartDate,
		EndDate:          pres.EndDate,
		RefillsAvailable: pres.RefillsAvailable,
		CreatedAt:        pres.CreatedAt,
	}
	if pres.Doctor != nil {
		entry.Doctor = doctorRef(pres.Doctor, false)
	}
	return entry
}

func doctorRef(profile *models.DoctorProfile, withCredentials bool) *DoctorRef {
	ref := &DoctorRef{
		ID:        profile.ID,
		Specialty: profile.Specialty,
	}
	if withCredentials {
		ref.Credentials = profile.Credentials
	}
	if profile.User != nil {
		ref.User = UserRef{
			ID:    profile.User.ID,
			Name:  profile.User.Name,
			Email: profile.User.Email,
		}
	}
	return ref
}

func patientRef(profile *models.PatientProfile) *PatientRef {
	ref := &PatientRef{
		ID:          profile.ID,
		DateOfBirth: profile.DateOfBirth,
		Address:     profile.Address,
	}
	if profile.User != nil {
		ref.User = UserRef{
			ID:    profile.User.ID,
			Name:  profile.User.Name,
			Email: profile.User.Email,
		}
	}
	return ref
}

func sortByDateAsc(entries []AppointmentEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AppointmentDate.Before(entries[j].AppointmentDate)
	})
}

func sortByDateDesc(entries []AppointmentEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AppointmentDate.After(entries[j].AppointmentDate)
	})
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func capEntries(entries []AppointmentEntry, n int) []AppointmentEntry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}

func capPrescriptions(entries []PrescriptionEntry, n int) []PrescriptionEntry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}
