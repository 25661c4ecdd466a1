package seed

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"campwild/internal/models"
)

func TestRandomCampgroundName_Format(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		name := randomCampgroundName(r)
		parts := strings.SplitN(name, " ", 2)
		if len(parts) != 2 {
			t.Fatalf("expected descriptor + place, got %q", name)
		}
	}
}

func TestBuildCampground_TimestampsAndImages(t *testing.T) {
	opts := Options{DryRun: true, MaxDays: 30}
	f := NewFactory(nil, opts)
	author := &models.User{ID: 1}

	cg := f.BuildCampground(author)
	if cg.AuthorID != author.ID {
		t.Fatalf("expected author %d, got %d", author.ID, cg.AuthorID)
	}
	if cg.Price < 10 || cg.Price >= 30 {
		t.Fatalf("price out of range: %v", cg.Price)
	}
	if len(cg.Images) == 0 {
		t.Fatalf("expected at least one image")
	}
	if !strings.HasPrefix(cg.Images[0].URL, "https://") {
		t.Fatalf("unexpected image url: %s", cg.Images[0].URL)
	}

	// timestamp should be within MaxDays
	if time.Since(cg.CreatedAt) > (time.Duration(opts.MaxDays)+1)*24*time.Hour {
		t.Fatalf("created_at too old: %v", cg.CreatedAt)
	}
}

func TestFactory_DryRunAssignsIDs(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true})

	user, err := f.CreateUser()
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected synthetic ID in dry-run mode")
	}

	cg, err := f.CreateCampground(user)
	if err != nil {
		t.Fatalf("CreateCampground: %v", err)
	}
	if cg.ID == 0 || cg.ID == user.ID {
		t.Fatalf("expected distinct synthetic IDs, got user=%d campground=%d", user.ID, cg.ID)
	}
}
