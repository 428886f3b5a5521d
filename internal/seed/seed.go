// Package seed fills an empty database with demo accounts and appointments.
// It is operational tooling kept outside the request path: Run is a no-op
// whenever any user already exists, so it can be enabled on every boot.
package seed

import (
	"time"

	"github.com/sirupsen/logrus"

	"healthsync-server/internal/models"
	"healthsync-server/internal/repository"
)

type doctorSeed struct {
	name          string
	email         string
	phoneNumber   string
	specialty     string
	credentials   string
	officeAddress string
}

type patientSeed struct {
	name        string
	email       string
	phoneNumber string
	dateOfBirth time.Time
	address     string
}

const demoPassword = "changeme123"

var doctorSeeds = []doctorSeed{
	{
		name:          "Dr. Rajesh Kumar",
		email:         "rajesh.kumar@healthsync.test",
		phoneNumber:   "+91 98765 43210",
		specialty:     "Cardiologist",
		credentials:   "MBBS, MD (Cardiology), FACC",
		officeAddress: "Apollo Hospitals, Jubilee Hills, Hyderabad",
	},
	{
		name:          "Dr. Priya Sharma",
		email:         "priya.sharma@healthsync.test",
		phoneNumber:   "+91 99887 76543",
		specialty:     "Pediatrician",
		credentials:   "MBBS, DCH, MD (Pediatrics)",
		officeAddress: "Rainbow Children's Hospital, Banjara Hills, Hyderabad",
	},
}

var patientSeeds = []patientSeed{
	{
		name:        "Amit Patel",
		email:       "amit.patel@example.test",
		phoneNumber: "+91 91234 56789",
		dateOfBirth: time.Date(1985, time.March, 12, 0, 0, 0, 0, time.UTC),
		address:     "12 MG Road, Bengaluru",
	},
	{
		name:        "Sneha Reddy",
		email:       "sneha.reddy@example.test",
		phoneNumber: "+91 93456 78901",
		dateOfBirth: time.Date(1992, time.July, 4, 0, 0, 0, 0, time.UTC),
		address:     "45 Park Street, Kolkata",
	},
	{
		name:        "Vikram Singh",
		email:       "vikram.singh@example.test",
		phoneNumber: "+91 96789 01234",
		dateOfBirth: time.Date(1978, time.November, 23, 0, 0, 0, 0, time.UTC),
		address:     "8 Civil Lines, Jaipur",
	},
}

// Run creates the demo doctors, patients and a handful of appointments. It
// refuses to touch a database that already has users.
func Run(store repository.Store, log *logrus.Logger) error {
	count, err := store.Users().Count()
	if err != nil {
		return err
	}
	if count > 0 {
		log.WithField("users", count).Info("seed: database not empty, skipping")
		return nil
	}

	return store.InTx(func(tx repository.Store) error {
		doctors := make([]*models.DoctorProfile, 0, len(doctorSeeds))
		for _, d := range doctorSeeds {
			user := models.User{
				Name:        d.name,
				Email:       d.email,
				Role:        models.RoleDoctor,
				PhoneNumber: d.phoneNumber,
			}
			if err := user.SetPassword(demoPassword); err != nil {
				return err
			}
			if err := tx.Users().Create(&user); err != nil {
				return err
			}

			profile := models.DoctorProfile{
				UserID:        user.ID,
				Specialty:     d.specialty,
				Credentials:   d.credentials,
				OfficeAddress: d.officeAddress,
			}
			if err := tx.Profiles().CreateDoctor(&profile); err != nil {
				return err
			}
			doctors = append(doctors, &profile)
			log.WithFields(logrus.Fields{"email": d.email, "role": "DOCTOR"}).Info("seed: created user")
		}

		patients := make([]*models.PatientProfile, 0, len(patientSeeds))
		for _, p := range patientSeeds {
			dob := p.dateOfBirth
			user := models.User{
				Name:        p.name,
				Email:       p.email,
				Role:        models.RolePatient,
				PhoneNumber: p.phoneNumber,
			}
			if err := user.SetPassword(demoPassword); err != nil {
				return err
			}
			if err := tx.Users().Create(&user); err != nil {
				return err
			}

			profile := models.PatientProfile{
				UserID:      user.ID,
				DateOfBirth: &dob,
				Address:     p.address,
			}
			if err := tx.Profiles().CreatePatient(&profile); err != nil {
				return err
			}
			patients = append(patients, &profile)
			log.WithFields(logrus.Fields{"email": p.email, "role": "PATIENT"}).Info("seed: created user")
		}

		now := time.Now().UTC()
		appointments := []models.Appointment{
			{
				PatientID:       patients[0].ID,
				DoctorID:        doctors[0].ID,
				AppointmentDate: now.AddDate(0, 0, -7),
				ReasonForVisit:  "Chest pain follow-up",
				Status:          models.StatusCompleted,
			},
			{
				PatientID:       patients[1].ID,
				DoctorID:        doctors[0].ID,
				AppointmentDate: now.Add(2 * time.Hour),
				ReasonForVisit:  "Routine checkup",
				Status:          models.StatusPending,
			},
			{
				PatientID:       patients[2].ID,
				DoctorID:        doctors[1].ID,
				AppointmentDate: now.AddDate(0, 0, 2),
				ReasonForVisit:  "Vaccination",
				Status:          models.StatusScheduled,
			},
		}
		for i := range appointments {
			appointments[i].Duration = 30
			if err := tx.Appointments().Create(&appointments[i]); err != nil {
				return err
			}
		}

		log.WithFields(logrus.Fields{
			"doctors":      len(doctors),
			"patients":     len(patients),
			"appointments": len(appointments),
		}).Info("seed: demo data created")
		return nil
	})
}
