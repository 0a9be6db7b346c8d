// Package seed populates a fresh database with a small demo dataset: a
// handful of owner and sitter accounts, their pets and calendars, and one
// inquiry with a short conversation and reviews. It drives the regular
// services so everything it creates passes the same validation as API
// traffic.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"petsitter/appuser"
	"petsitter/auth"
	"petsitter/availability"
	"petsitter/inquiry"
	"petsitter/messaging"
	"petsitter/pet"
	"petsitter/review"
	"petsitter/sitter"
)

// Services collects everything the seeder drives.
type Services struct {
	Auth           *auth.Service
	Appusers       *appuser.Service
	Sitters        *sitter.Service
	Pets           *pet.Service
	Availabilities *availability.Service
	Inquiries      *inquiry.Service
	Messages       *messaging.Service
	Reviews        *review.Service
}

const demoPassword = "demo-password-1"

type account struct {
	email      string
	firstname  string
	lastname   string
	prefecture string
	cityWard   string
	language   appuser.Language
	englishOK  bool
	japaneseOK bool
}

var demoAccounts = []account{
	{email: "hana.owner@example.com", firstname: "Hana", lastname: "Sato", prefecture: "Tokyo", cityWard: "Setagaya", language: appuser.LanguageJapanese, japaneseOK: true},
	{email: "ken.owner@example.com", firstname: "Ken", lastname: "Tanaka", prefecture: "Tokyo", cityWard: "Meguro", language: appuser.LanguageJapanese, englishOK: true, japaneseOK: true},
	{email: "emily.sitter@example.com", firstname: "Emily", lastname: "Brown", prefecture: "Tokyo", cityWard: "Setagaya", language: appuser.LanguageEnglish, englishOK: true},
	{email: "yuki.sitter@example.com", firstname: "Yuki", lastname: "Kobayashi", prefecture: "Kanagawa", cityWard: "Yokohama", language: appuser.LanguageJapanese, englishOK: true, japaneseOK: true},
}

// Run seeds the demo dataset. It is safe to call on every boot: if the first
// demo account already exists the whole run is skipped.
func Run(ctx context.Context, svcs Services) error {
	users := make([]appuser.Appuser, 0, len(demoAccounts))
	for i, acct := range demoAccounts {
		u, err := svcs.Auth.SignUp(ctx, auth.SignUpRequest{Email: acct.email, Password: demoPassword})
		if err != nil {
			if i == 0 && errors.Is(err, appuser.ErrDuplicateEmail) {
				log.Printf("seed: demo data already present, skipping")
				return nil
			}
			return fmt.Errorf("seed: sign up %s: %w", acct.email, err)
		}

		lang := acct.language
		u, err = svcs.Appusers.Update(ctx, u.ID, u.ID, appuser.UpdateParams{
			Firstname:       &demoAccounts[i].firstname,
			Lastname:        &demoAccounts[i].lastname,
			Prefecture:      &demoAccounts[i].prefecture,
			CityWard:        &demoAccounts[i].cityWard,
			AccountLanguage: &lang,
			EnglishOK:       &demoAccounts[i].englishOK,
			JapaneseOK:      &demoAccounts[i].japaneseOK,
		})
		if err != nil {
			return fmt.Errorf("seed: fill profile %s: %w", acct.email, err)
		}
		users = append(users, u)
	}

	hana, ken, emily, yuki := users[0], users[1], users[2], users[3]

	if err := seedSitters(ctx, svcs, emily, yuki); err != nil {
		return err
	}
	pets, err := seedPets(ctx, svcs, hana, ken)
	if err != nil {
		return err
	}
	if err := seedAvailability(ctx, svcs, emily, yuki); err != nil {
		return err
	}
	if err := seedEngagement(ctx, svcs, hana, emily, pets); err != nil {
		return err
	}

	log.Printf("seed: demo data created (%d accounts)", len(users))
	return nil
}

func seedSitters(ctx context.Context, svcs Services, sitters ...appuser.Appuser) error {
	bios := []string{
		"Dog and cat sitter with five years of experience. Happy to host in my own home.",
		"Weekend visits around Yokohama. Comfortable with birds and rabbits too.",
	}
	tru := true
	for i, u := range sitters {
		params := sitter.UpsertParams{
			ProfileBio:    &bios[i%len(bios)],
			SitterHouseOK: &tru,
			VisitOK:       &tru,
			DogsOK:        &tru,
			CatsOK:        &tru,
		}
		if i%2 == 1 {
			params.BirdsOK = &tru
			params.RabbitsOK = &tru
		}
		if _, err := svcs.Sitters.Upsert(ctx, u.ID, u.ID, params); err != nil {
			return fmt.Errorf("seed: sitter profile %s: %w", u.Email, err)
		}
	}
	return nil
}

func seedPets(ctx context.Context, svcs Services, hana, ken appuser.Appuser) (map[string]pet.Pet, error) {
	shiba := "Shiba Inu"
	mixed := "Mixed"
	male := pet.GenderMale
	female := pet.GenderFemale
	weightDog := 9.5
	weightCat := 4.2
	birthdayDog := time.Date(2021, 4, 12, 0, 0, 0, 0, time.UTC)
	allergies := "Chicken"

	specs := []struct {
		owner  appuser.Appuser
		params pet.CreateParams
	}{
		{hana, pet.CreateParams{Name: "Taro", Species: pet.SpeciesDog, Subtype: &shiba, Gender: &male, Weight: &weightDog, Birthday: &birthdayDog, KnownAllergies: &allergies}},
		{hana, pet.CreateParams{Name: "Mimi", Species: pet.SpeciesCat, Subtype: &mixed, Gender: &female, Weight: &weightCat}},
		{ken, pet.CreateParams{Name: "Pii", Species: pet.SpeciesBird}},
	}

	out := make(map[string]pet.Pet, len(specs))
	for _, s := range specs {
		p, err := svcs.Pets.Create(ctx, s.owner.ID, s.owner.ID, s.params)
		if err != nil {
			return nil, fmt.Errorf("seed: pet %s: %w", s.params.Name, err)
		}
		out[p.Name] = p
	}
	return out, nil
}

func seedAvailability(ctx context.Context, svcs Services, sitters ...appuser.Appuser) error {
	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 7)
	for _, u := range sitters {
		for day := 0; day < 5; day++ {
			if _, err := svcs.Availabilities.Add(ctx, u.ID, u.ID, start.AddDate(0, 0, day)); err != nil {
				return fmt.Errorf("seed: availability %s: %w", u.Email, err)
			}
		}
	}
	return nil
}

func seedEngagement(ctx context.Context, svcs Services, owner, sitterUser appuser.Appuser, pets map[string]pet.Pet) error {
	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 8)
	info := "Taro needs a walk twice a day; Mimi is shy with strangers."

	inq, err := svcs.Inquiries.Create(ctx, owner.ID, inquiry.CreateParams{
		OwnerID:        owner.ID,
		SitterID:       sitterUser.ID,
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 2),
		DesiredService: inquiry.ServiceSitterHouse,
		AdditionalInfo: &info,
		PetIDs:         []string{pets["Taro"].ID, pets["Mimi"].ID},
	})
	if err != nil {
		return fmt.Errorf("seed: inquiry: %w", err)
	}

	conversation := []struct {
		author  string
		content string
	}{
		{owner.ID, "Hi! Are you free that weekend for Taro and Mimi?"},
		{sitterUser.ID, "Hello! Yes, both days work for me."},
		{owner.ID, "Great, approving the request now."},
	}
	for _, m := range conversation {
		if _, err := svcs.Messages.Create(ctx, m.author, inq.ID, m.content); err != nil {
			return fmt.Errorf("seed: message: %w", err)
		}
	}

	if _, err := svcs.Inquiries.UpdateStatus(ctx, sitterUser.ID, inq.ID, inquiry.StatusApproved); err != nil {
		return fmt.Errorf("seed: approve inquiry: %w", err)
	}

	ownerComment := "Taro and Mimi came home happy. Highly recommended."
	sitterComment := "Clear instructions and lovely pets."
	if _, err := svcs.Reviews.Record(ctx, owner.ID, review.CreateParams{
		RecipientID: sitterUser.ID,
		Role:        review.RoleSitter,
		Score:       5,
		Comment:     &ownerComment,
	}); err != nil {
		return fmt.Errorf("seed: review sitter: %w", err)
	}
	if _, err := svcs.Reviews.Record(ctx, sitterUser.ID, review.CreateParams{
		RecipientID: owner.ID,
		Role:        review.RoleOwner,
		Score:       5,
		Comment:     &sitterComment,
	}); err != nil {
		return fmt.Errorf("seed: review owner: %w", err)
	}

	return nil
}
