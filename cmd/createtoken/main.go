package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"stafflow.com/stafflow/model"
	"stafflow.com/stafflow/security"
)

func main() {
	userID := flag.Uint("user", 0, "user id to embed in the token")
	email := flag.String("email", "", "user email")
	name := flag.String("name", "", "display name")
	role := flag.String("role", string(model.RoleEmployee), "EMPLOYEE, LAB_ADMIN or SUPER_ADMIN")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *userID == 0 || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	secret, err := base64.StdEncoding.DecodeString(os.Getenv("STAFFLOW_SIGNING_SECRET"))
	if err != nil {
		log.Fatal("Failed to decode signing secret:", err)
	}

	user := &model.User{
		ID:        *userID,
		Email:     *email,
		FirstName: *name,
		Role:      model.Role(*role),
	}
	token, err := security.CreateIdentityToken(user, secret, *ttl)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
