// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"campwild/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers       int
	NumCampgrounds int
	ReviewsPerCamp int
	ShouldClean    bool
	SkipBcrypt     bool
	DryRun         bool
	MaxDays        int
}

var (
	descriptors = []string{
		"Forest", "Ancient", "Petrified", "Roaring", "Cascade", "Tumbling",
		"Silent", "Redwood", "Bullfrog", "Maple", "Misty", "Elk", "Grizzly",
		"Ocean", "Sea", "Sky", "Dusty", "Diamond",
	}

	places = []string{
		"Flats", "Village", "Canyon", "Pond", "Group Camp", "Horse Camp",
		"Ghost Town", "Camp", "Dispersed Camp", "Backcountry", "River",
		"Creek", "Creekside", "Bay", "Spring", "Bayshore", "Sands",
		"Mule Camp", "Hunting Camp", "Cliffs", "Hollow",
	}
)

func randomCampgroundName(r *rand.Rand) string {
	return fmt.Sprintf("%s %s", descriptors[r.Intn(len(descriptors))], places[r.Intn(len(places))])
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d campgrounds...",
		opts.NumUsers, opts.NumCampgrounds)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	factory := NewFactory(db, opts)

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d test users created", len(users))

	campgrounds, err := createCampgrounds(factory, users, opts.NumCampgrounds)
	if err != nil {
		return fmt.Errorf("failed to create campgrounds: %w", err)
	}
	log.Printf("%d campgrounds created", len(campgrounds))

	reviews, err := createReviews(factory, users, campgrounds, opts.ReviewsPerCamp)
	if err != nil {
		return fmt.Errorf("failed to create reviews: %w", err)
	}
	log.Printf("%d reviews created", reviews)

	log.Println("Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE reviews, images, campgrounds, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createCampgrounds(factory *Factory, users []*models.User, count int) ([]*models.Campground, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("cannot create campgrounds without users")
	}

	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	campgrounds := make([]*models.Campground, 0, count)
	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		campgrounds = append(campgrounds, factory.BuildCampground(author))
	}
	if err := factory.CreateCampgroundsBatch(campgrounds); err != nil {
		return nil, err
	}
	return campgrounds, nil
}

func createReviews(factory *Factory, users []*models.User, campgrounds []*models.Campground, perCampground int) (int, error) {
	if perCampground <= 0 {
		return 0, nil
	}

	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	total := 0
	for _, campground := range campgrounds {
		n := r.Intn(perCampground + 1)
		for i := 0; i < n; i++ {
			author := users[r.Intn(len(users))]
			if _, err := factory.CreateReview(author, campground); err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}
