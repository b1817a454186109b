package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"stafflow.com/stafflow/core"
	"stafflow.com/stafflow/model"
	"stafflow.com/stafflow/utils"
)

// Bulk-creates users from an HR export. Expected columns: employeecode,
// firstname, lastname, email, password, role, devicetag, joindate.
func main() {
	file := flag.String("file", "", "CSV file to import")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*file)
	if err != nil {
		fmt.Printf("[ERROR] failed to open %s: %v\n", *file, err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := utils.ParseCSVWithHeader(f)
	if err != nil {
		fmt.Printf("[ERROR] failed to parse csv: %v\n", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		fmt.Println("[INFO] nothing to import")
		return
	}
	fmt.Printf("[INFO] columns: %v\n", utils.Keys(rows[0]))

	valid := utils.Filter(rows, func(row map[string]string) bool {
		if row["employeecode"] == "" || row["email"] == "" {
			fmt.Printf("[WARN] skipping row without employeecode/email: %v\n", row)
			return false
		}
		return true
	})

	dsn := os.Getenv("DSN")
	db, err := core.Open(dsn, 5, core.LogLevelError)
	if err != nil {
		fmt.Printf("[ERROR] failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		fmt.Printf("[ERROR] migration failed: %v\n", err)
		os.Exit(1)
	}

	users := core.NewUserService(db)
	ctx := context.Background()

	imported := 0
	for _, row := range valid {
		in := core.CreateUserInput{
			EmployeeCode: row["employeecode"],
			FirstName:    row["firstname"],
			LastName:     row["lastname"],
			Email:        row["email"],
			Password:     row["password"],
			Role:         model.Role(row["role"]),
			DeviceTag:    row["devicetag"],
		}
		if row["joindate"] != "" {
			if d := utils.MustParseDate(row["joindate"]); !d.IsZero() {
				in.JoinDate = utils.Ptr(d)
			}
		}
		if in.Password == "" {
			in.Password = "changeme123"
		}

		user, err := users.Create(ctx, in)
		if err != nil {
			if core.IsClientError(err) {
				fmt.Printf("[WARN] skipping %s: %v\n", in.EmployeeCode, err)
				continue
			}
			fmt.Printf("[ERROR] aborting at %s: %v\n", in.EmployeeCode, err)
			os.Exit(1)
		}
		fmt.Printf("[INFO] created %s (%s) joined %s\n",
			user.EmployeeCode, user.Email, utils.Format(user.JoinDate))
		imported++
	}

	fmt.Printf("[INFO] imported %d of %d rows\n", imported, len(rows))
}
