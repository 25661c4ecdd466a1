// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"campwild/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Name:        gofakeit.Name(),
		Username:    gofakeit.LetterN(6) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:       gofakeit.Email(),
		Bio:         gofakeit.Sentence(10),
		TOSAccepted: true,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: username=%s email=%s", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildCampground constructs a campground struct for the given author but
// does not persist it. Useful for batching.
func (f *Factory) BuildCampground(author *models.User, overrides ...func(*models.Campground)) *models.Campground {
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	campground := &models.Campground{
		Title:       randomCampgroundName(r),
		Price:       float64(r.Intn(20)) + 10,
		Location:    fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		AuthorID:    author.ID,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	campground.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	seedID := gofakeit.UUID()
	campground.Images = []models.Image{
		{
			URL:      fmt.Sprintf("https://picsum.photos/seed/%s/800/600", seedID),
			Filename: fmt.Sprintf("seed/%s.jpg", seedID),
		},
	}

	for _, override := range overrides {
		override(campground)
	}
	return campground
}

// CreateCampground constructs and persists a sample campground for the
// given author.
func (f *Factory) CreateCampground(author *models.User, overrides ...func(*models.Campground)) (*models.Campground, error) {
	campground := f.BuildCampground(author, overrides...)

	if f.opts.DryRun {
		f.nextID++
		campground.ID = f.nextID
		log.Printf("[dry-run] CreateCampground: author=%d title=%q", campground.AuthorID, campground.Title)
		return campground, nil
	}

	if err := f.db.Create(campground).Error; err != nil {
		return nil, err
	}
	return campground, nil
}

// CreateCampgroundsBatch persists multiple campgrounds in a single DB call.
func (f *Factory) CreateCampgroundsBatch(campgrounds []*models.Campground) error {
	if f.opts.DryRun {
		for _, cg := range campgrounds {
			f.nextID++
			cg.ID = f.nextID
		}
		log.Printf("[dry-run] CreateCampgroundsBatch: %d campgrounds (no DB write)", len(campgrounds))
		return nil
	}
	return f.db.Create(&campgrounds).Error
}

// CreateReview constructs and persists a sample review on the provided
// campground authored by the provided user.
func (f *Factory) CreateReview(author *models.User, campground *models.Campground, overrides ...func(*models.Review)) (*models.Review, error) {
	review := &models.Review{
		Rating:       gofakeit.Number(1, 5),
		Body:         gofakeit.Sentence(12),
		AuthorID:     author.ID,
		CampgroundID: campground.ID,
	}

	for _, override := range overrides {
		override(review)
	}

	if f.opts.DryRun {
		f.nextID++
		review.ID = f.nextID
		log.Printf("[dry-run] CreateReview: author=%d campground=%d rating=%d", review.AuthorID, review.CampgroundID, review.Rating)
		return review, nil
	}

	if err := f.db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}
