// Command main runs the database seeder for Campwild.
package main

import (
	"flag"
	"log"

	"campwild/internal/config"
	"campwild/internal/database"
	"campwild/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 20, "Number of users to create")
	numCampgrounds := flag.Int("campgrounds", 100, "Number of campgrounds to create")
	reviewsPerCamp := flag.Int("reviews", 5, "Maximum reviews per campground")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Log what would be created without writing")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d users, %d campgrounds, up to %d reviews each, clean=%v\n",
		*numUsers, *numCampgrounds, *reviewsPerCamp, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:       *numUsers,
		NumCampgrounds: *numCampgrounds,
		ReviewsPerCamp: *reviewsPerCamp,
		ShouldClean:    *shouldClean,
		DryRun:         *dryRun,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Println("All test users have the password: password123")
}
