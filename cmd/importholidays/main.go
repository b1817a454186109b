package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stafflow.com/stafflow/core"
	"stafflow.com/stafflow/infrastructure/devops"
	"stafflow.com/stafflow/infrastructure/filesystem"
	"stafflow.com/stafflow/model"
	"stafflow.com/stafflow/utils"
)

// Imports the yearly holiday calendar workbook published by HR on S3.
// Sheet format: Date | Name | Description | Mandatory, one header row.
func main() {
	dryRun := flag.Bool("dryrun", false, "Report what would change without writing")
	flag.Parse()

	ctx := context.Background()

	cfg, err := devops.LoadConfig(ctx)
	if err != nil {
		fmt.Printf("[ERROR] failed to load config: %v\n", err)
		os.Exit(1)
	}

	holidays, err := readWorkbook(ctx, cfg.Holidays.Bucket, cfg.Holidays.Key)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[INFO] Parsed %d holidays from workbook\n", len(holidays))
	for _, h := range holidays {
		fmt.Printf("[INFO]   %s  %s (%s)\n", h.Date.Format("2006-01-02"), h.Name,
			utils.FormatBoolean(h.IsMandatory, "mandatory", "optional"))
	}

	db, err := core.Open(cfg.Database.DSN, cfg.Database.MaxConnection, core.LogLevelError)
	if err != nil {
		fmt.Printf("[ERROR] failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	created, updated, err := syncHolidays(ctx, db, holidays, *dryRun)
	if err != nil {
		fmt.Printf("[ERROR] sync failed: %v\n", err)
		os.Exit(1)
	}
	if *dryRun {
		fmt.Printf("[INFO] Dry run: %d to create, %d to update\n", created, updated)
	} else {
		fmt.Printf("[INFO] Synced: %d created, %d updated\n", created, updated)
	}
}

// resolveWorkbookKey accepts either a full object key or a prefix. For a
// prefix it picks the lexicographically newest workbook under it, so HR can
// keep publishing yearly files without touching the config.
func resolveWorkbookKey(ctx context.Context, bucket, key string) (string, error) {
	if strings.HasSuffix(key, ".xlsx") {
		return key, nil
	}
	keys, err := filesystem.ListFiles(ctx, bucket, key)
	if err != nil {
		return "", fmt.Errorf("failed to list workbooks under %s: %w", key, err)
	}
	workbooks := utils.Filter(keys, func(k string) bool {
		return strings.HasSuffix(k, ".xlsx")
	})
	if len(workbooks) == 0 {
		return "", fmt.Errorf("no workbook found under s3://%s/%s", bucket, key)
	}
	sort.Strings(workbooks)
	return workbooks[len(workbooks)-1], nil
}

func parseExcelDate(dateStr string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", dateStr); err == nil {
		return t, nil
	}
	formats := []string{"01-02-06", "1/2/06", "02/01/2006", "2/1/2006", "2006/01/02", "02-Jan-2006", "2006-01-02T15:04:05Z"}
	for _, fmtStr := range formats {
		if t, err := time.Parse(fmtStr, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unknown date format: %s", dateStr)
}

func readWorkbook(ctx context.Context, bucket, key string) ([]model.Holiday, error) {
	key, err := resolveWorkbookKey(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	fmt.Printf("[INFO] Fetching s3://%s/%s\n", bucket, key)

	var buf bytes.Buffer
	if err := filesystem.ReadFile(ctx, bucket, key, &buf); err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var holidays []model.Holiday
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			fmt.Printf("[ERROR] failed to get rows from sheet %s: %v\n", sheet, err)
			continue
		}

		for r := 1; r < len(rows); r++ {
			row := rows[r]
			if len(row) < 2 || row[0] == "" {
				continue
			}

			date, err := parseExcelDate(strings.TrimSpace(row[0]))
			if err != nil {
				fmt.Printf("[WARN] could not parse date '%s' on row %d, sheet %s: %v\n", row[0], r+1, sheet, err)
				continue
			}

			h := model.Holiday{
				Date:        date,
				Name:        strings.TrimSpace(row[1]),
				IsMandatory: true,
			}
			if len(row) > 2 {
				h.Description = strings.TrimSpace(row[2])
			}
			if len(row) > 3 {
				h.IsMandatory = strings.EqualFold(strings.TrimSpace(row[3]), "yes") ||
					strings.EqualFold(strings.TrimSpace(row[3]), "true")
			}
			holidays = append(holidays, h)
		}
	}

	return holidays, nil
}

func syncHolidays(ctx context.Context, db *core.Database, holidays []model.Holiday, dryRun bool) (int, int, error) {
	if len(holidays) == 0 {
		return 0, 0, nil
	}

	var existing []model.Holiday
	if err := db.DB(ctx).Find(&existing).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to fetch existing holidays: %w", err)
	}
	byDate := make(map[string]model.Holiday)
	for _, h := range existing {
		byDate[h.Date.Format("2006-01-02")] = h
	}

	var toCreate, toUpdate []model.Holiday
	for _, h := range holidays {
		if cur, ok := byDate[h.Date.Format("2006-01-02")]; ok {
			if cur.Name != h.Name || cur.Description != h.Description || cur.IsMandatory != h.IsMandatory {
				toUpdate = append(toUpdate, h)
			}
		} else {
			toCreate = append(toCreate, h)
		}
	}

	if dryRun {
		return len(toCreate), len(toUpdate), nil
	}

	err := db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if len(toCreate) > 0 {
			if err := tx.CreateInBatches(toCreate, 100).Error; err != nil {
				return fmt.Errorf("failed batch create: %w", err)
			}
		}
		if len(toUpdate) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "description", "is_mandatory"}),
			}).CreateInBatches(toUpdate, 100).Error; err != nil {
				return fmt.Errorf("failed batch update: %w", err)
			}
		}
		return nil
	})
	return len(toCreate), len(toUpdate), err
}
