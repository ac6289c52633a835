package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/themisvote/themis/backend/internal/config"
	"github.com/themisvote/themis/backend/internal/database"
	"github.com/themisvote/themis/backend/internal/models"
	"github.com/themisvote/themis/backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	// Precincts
	labA := models.Precinct{UUID: uuid.NewString(), Name: "Computer Laboratory A", Description: "Main campus, 2nd floor"}
	labB := models.Precinct{UUID: uuid.NewString(), Name: "Computer Laboratory B", Description: "Annex building"}
	for _, p := range []*models.Precinct{&labA, &labB} {
		if err := db.Create(p).Error; err != nil {
			log.Fatal("Failed to seed precinct:", err)
		}
	}
	fmt.Printf("✓ Seeded %d precincts\n", 2)

	// Address rules
	rules := []models.AddressRule{
		{UUID: uuid.NewString(), PrecinctID: labA.ID, Kind: models.RuleKindRange, RangeStart: "10.0.5.10", RangeEnd: "10.0.5.50", Active: true},
		{UUID: uuid.NewString(), PrecinctID: labA.ID, Kind: models.RuleKindSingle, IPAddress: "10.0.5.254", Active: true},
		{UUID: uuid.NewString(), PrecinctID: labB.ID, Kind: models.RuleKindSubnet, Network: "10.0.6.0", PrefixLength: 24, Active: true},
	}
	for i := range rules {
		if err := db.Create(&rules[i]).Error; err != nil {
			log.Fatal("Failed to seed address rule:", err)
		}
	}
	fmt.Printf("✓ Seeded %d address rules\n", len(rules))

	// Election reference row mirroring the external scheduler
	election := models.Election{UUID: uuid.NewString(), Title: "Student Council Election 2026", Status: models.ElectionOngoing}
	if err := db.Create(&election).Error; err != nil {
		log.Fatal("Failed to seed election:", err)
	}
	fmt.Println("✓ Seeded election:", election.Title)

	// Course assignments
	registry := services.NewPrecinctService(db)
	if _, err := registry.AssignCourses(election.ID, labA.ID, []string{"BSIT", "BSCS"}); err != nil {
		log.Fatal("Failed to assign courses:", err)
	}
	if _, err := registry.AssignCourses(election.ID, labB.ID, []string{"BSED", "BSBA"}); err != nil {
		log.Fatal("Failed to assign courses:", err)
	}
	fmt.Println("✓ Assigned courses to precincts")

	// Student reference rows
	students := []models.Student{
		{StudentID: "2021-00144", FullName: "Ana Reyes", CourseName: "BSIT"},
		{StudentID: "2021-00257", FullName: "Marco dela Cruz", CourseName: "BSCS"},
		{StudentID: "2022-01033", FullName: "Liza Santos", CourseName: "BSED"},
	}
	for i := range students {
		if err := db.Create(&students[i]).Error; err != nil {
			log.Fatal("Failed to seed student:", err)
		}
	}
	fmt.Printf("✓ Seeded %d students\n", len(students))

	fmt.Println("Done.")
}
