package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"stafflow.com/stafflow/core"
	"stafflow.com/stafflow/infrastructure/communication"
	"stafflow.com/stafflow/infrastructure/devops"
	"stafflow.com/stafflow/web/handlers"
	"stafflow.com/stafflow/web/middlewares"
)

func main() {
	ctx := context.Background()

	cfg, err := devops.LoadConfig(ctx)
	if err != nil {
		log.Fatal(err)
	}

	db, err := core.Open(cfg.Database.DSN, cfg.Database.MaxConnection, core.ParseLogLevel(cfg.Database.LogLevel))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal(err)
	}

	jwtSecret, err := base64.StdEncoding.DecodeString(cfg.Server.JWTSecret)
	if err != nil {
		log.Fatal("Failed to decode JWT secret:", err)
	}
	tokenTTL := time.Duration(cfg.Server.TokenTTLMinutes) * time.Minute

	var notifier core.Notifier
	if cfg.Slack.Token != "" || len(cfg.Email.To) > 0 {
		var channels []core.Notifier
		if cfg.Slack.Token != "" {
			channels = append(channels, communication.NewSlack(cfg.Slack.Token, communication.SlackOption{
				InfoChannelID:  cfg.Slack.InfoChannelID,
				ErrorChannelID: cfg.Slack.ErrorChannelID,
			}))
		}
		if len(cfg.Email.To) > 0 {
			channels = append(channels, communication.NewMailer(cfg.Email.From, cfg.Email.To))
		}
		notifier = communication.NewFanout(channels...)
	}

	leaveOpts := core.LeaveOptions{
		ExcludeHolidays: os.Getenv("STAFFLOW_EXCLUDE_HOLIDAYS") == "true",
	}

	users := core.NewUserService(db)
	ledger := core.NewLedger(db)
	leave := core.NewLeaveService(db, leaveOpts, notifier)
	attendance := core.NewAttendanceService(db)
	biometric := core.NewBiometricService(db, attendance)
	holidays := core.NewHolidayService(db)
	announcements := core.NewAnnouncementService(db, notifier)

	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	protected := r.Group("/api/stafflow/v1.0")
	protected.Use(middlewares.Authentication(jwtSecret))
	{
		handlers.RegisterUsers(protected, users)
		handlers.RegisterLeave(protected, leave, ledger)
		handlers.RegisterAttendance(protected, attendance)
		handlers.RegisterBiometric(protected, biometric)
		handlers.RegisterHolidays(protected, holidays)
		handlers.RegisterAnnouncements(protected, announcements)
	}

	public := r.Group("/api/stafflow/v1.0")
	{
		handlers.RegisterAuth(public, users, jwtSecret, tokenTTL)
	}

	r.Run(fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port))
}
