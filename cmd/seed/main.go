package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campusevents/internal/config"
	"campusevents/internal/db"
	"campusevents/internal/model"
	"campusevents/internal/repository"
)

func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Event{}, &model.Registration{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)

	admin, err := ensureAdmin(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	if err := seedSampleEvents(ctx, eventRepo, admin.ID); err != nil {
		log.Fatalf("Failed to seed events: %v", err)
	}

	log.Println("Seed completed")
}

// ensureAdmin creates the admin account if it does not exist yet.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD.
func ensureAdmin(ctx context.Context, userRepo repository.UserRepository) (*model.User, error) {
	email := getEnv("ADMIN_EMAIL", "admin@college.edu")
	password := getEnv("ADMIN_PASSWORD", "admin123")

	existing, err := userRepo.FindByEmail(ctx, email)
	if err == nil {
		log.Printf("Admin account %s already exists", email)
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, err
	}

	admin := &model.User{
		FullName:     "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	log.Printf("Created admin account %s", email)
	return admin, nil
}

// seedSampleEvents inserts a couple of demo events when the catalog is empty.
func seedSampleEvents(ctx context.Context, eventRepo repository.EventRepository, adminID uint) error {
	existing, err := eventRepo.ListWithStats(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Printf("Events already present (%d), skipping sample data", len(existing))
		return nil
	}

	nextWeek := time.Now().AddDate(0, 0, 7)
	deadline := nextWeek.AddDate(0, 0, -1)

	samples := []model.Event{
		{
			Title:                "Welcome Week Orientation",
			Description:          "Introduction for new students with campus tours and club booths.",
			EventDate:            nextWeek,
			EventTime:            "10:00",
			Location:             "Main Auditorium",
			Capacity:             200,
			RegistrationDeadline: &deadline,
			Status:               model.EventStatusActive,
			CreatedBy:            adminID,
		},
		{
			Title:       "Intro to Go Workshop",
			Description: "Hands-on workshop, laptops required.",
			EventDate:   nextWeek,
			EventTime:   "14:00",
			Location:    "Lab 3",
			Capacity:    30,
			Status:      model.EventStatusActive,
			CreatedBy:   adminID,
		},
	}

	for i := range samples {
		if err := eventRepo.Create(ctx, &samples[i]); err != nil {
			return err
		}
		log.Printf("Created sample event %q", samples[i].Title)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
