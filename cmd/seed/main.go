package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"stafflow.com/stafflow/core"
	"stafflow.com/stafflow/model"
)

// Seeds a development database with a small lab: one admin, two employees,
// a handful of holidays and a day of raw punches to reconcile.
func main() {
	dsn := os.Getenv("DSN")
	db, err := core.Open(dsn, 5, core.LogLevelInfo)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	users := core.NewUserService(db)

	seedUsers := []core.CreateUserInput{
		{EmployeeCode: "EMP001", FirstName: "Asha", LastName: "Nair", Email: "asha@stafflow.local", Password: "changeme123", Role: model.RoleSuperAdmin},
		{EmployeeCode: "EMP002", FirstName: "Ravi", LastName: "Iyer", Email: "ravi@stafflow.local", Password: "changeme123", Role: model.RoleEmployee, DeviceTag: "04791BE2BC1C90"},
		{EmployeeCode: "EMP003", FirstName: "Meera", LastName: "Shah", Email: "meera@stafflow.local", Password: "changeme123", Role: model.RoleEmployee, DeviceTag: "046682620E1590"},
	}
	for _, in := range seedUsers {
		if _, err := users.Create(ctx, in); err != nil {
			fmt.Printf("skipping %s: %v\n", in.Email, err)
		}
	}

	holidays := core.NewHolidayService(db)
	year := time.Now().Year()
	seedHolidays := []struct {
		date time.Time
		name string
	}{
		{time.Date(year, 1, 26, 0, 0, 0, 0, time.UTC), "Republic Day"},
		{time.Date(year, 8, 15, 0, 0, 0, 0, time.UTC), "Independence Day"},
		{time.Date(year, 10, 2, 0, 0, 0, 0, time.UTC), "Gandhi Jayanti"},
	}
	for _, h := range seedHolidays {
		if _, err := holidays.Create(ctx, h.date, h.name, "", true); err != nil {
			fmt.Printf("skipping holiday %s: %v\n", h.name, err)
		}
	}

	attendance := core.NewAttendanceService(db)
	biometric := core.NewBiometricService(db, attendance)

	yesterday := time.Now().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	punches := []core.PunchInput{
		{ID: uuid.NewString(), Tag: "04791BE2BC1C90", Kind: "IN", Timestamp: yesterday.Add(9 * time.Hour), DeviceID: "gate-1"},
		{ID: uuid.NewString(), Tag: "04791BE2BC1C90", Kind: "OUT", Timestamp: yesterday.Add(17*time.Hour + 30*time.Minute), DeviceID: "gate-1"},
		{ID: uuid.NewString(), Tag: "046682620E1590", Kind: "IN", Timestamp: yesterday.Add(10 * time.Hour), DeviceID: "gate-1"},
		{ID: uuid.NewString(), Tag: "046682620E1590", Kind: "OUT", Timestamp: yesterday.Add(13 * time.Hour), DeviceID: "gate-1"},
	}
	accepted, err := biometric.IngestPunches(ctx, punches)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("seeded %d punches\n", accepted)
}
