package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"stafflow.com/stafflow/core"
	"stafflow.com/stafflow/infrastructure/communication"
)

func main() {
	dateStr := flag.String("date", "", "Date to reconcile (YYYY-MM-DD). Defaults to yesterday.")
	flag.Parse()

	var targetDate time.Time
	if *dateStr != "" {
		var err error
		targetDate, err = time.Parse("2006-01-02", *dateStr)
		if err != nil {
			panic(fmt.Sprintf("Invalid date format: %v", err))
		}
	} else {
		targetDate = time.Now().AddDate(0, 0, -1)
	}
	dateLabel := targetDate.Format("2006-01-02")

	fmt.Printf("Reconciling punches for date: %s\n", dateLabel)

	var notifier *communication.Slack
	if os.Getenv("SLACK_BOT_TOKEN") != "" {
		notifier = communication.ConnectSlack()
	}

	dsn := os.Getenv("DSN")
	db, err := core.Open(dsn, 5, core.LogLevelInfo)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	attendance := core.NewAttendanceService(db)
	biometric := core.NewBiometricService(db, attendance)

	stats, err := biometric.Reconcile(context.Background(), targetDate)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		if notifier != nil {
			if serr := notifier.Error(fmt.Sprintf("Biometric reconciliation for %s failed: %v", dateLabel, err)); serr != nil {
				fmt.Printf("Slack notification failed: %v\n", serr)
			}
		}
		os.Exit(1)
	}

	fmt.Printf("Done: %d processed, %d skipped, %d errors\n", stats.Processed, stats.Skipped, stats.Errors)
	if notifier != nil {
		if serr := notifier.Info(fmt.Sprintf("Biometric reconciliation for %s: %d processed, %d skipped, %d errors",
			dateLabel, stats.Processed, stats.Skipped, stats.Errors)); serr != nil {
			fmt.Printf("Slack notification failed: %v\n", serr)
		}
	}
}
