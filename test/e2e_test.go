package test

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"petsitter/appuser"
	"petsitter/auth"
	"petsitter/availability"
	"petsitter/inquiry"
	"petsitter/messaging"
	"petsitter/pet"
	"petsitter/review"
	"petsitter/test/actors"
	"petsitter/test/chaos"
	"petsitter/test/infra"
	"petsitter/test/oracles"
)

var (
	flDuration = flag.Duration("duration", 30*time.Second, "how long to run the concurrency test")
	flSeed     = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flDSN      = flag.String("dsn", "", "existing Postgres DSN to reuse (avoids Docker)")
	flChaos    = flag.Bool("chaos", false, "randomly terminate database backends during the run")
)

type services struct {
	auth           *auth.Service
	appusers       *appuser.Service
	pets           *pet.Service
	availabilities *availability.Service
	inquiries      *inquiry.Service
	messages       *messaging.Service
	reviews        *review.Service
}

func buildServices(pool *pgxpool.Pool) services {
	appuserRepo := appuser.NewRepository(pool)
	petRepo := pet.NewRepository(pool)
	inquiryRepo := inquiry.NewRepository(pool)
	return services{
		auth:           auth.NewService(appuserRepo, "e2e-secret"),
		appusers:       appuser.NewService(appuserRepo),
		pets:           pet.NewService(petRepo),
		availabilities: availability.NewService(availability.NewRepository(pool)),
		inquiries:      inquiry.NewService(inquiryRepo, petRepo),
		messages:       messaging.NewService(messaging.NewRepository(pool), inquiryRepo, messaging.NewHub()),
		reviews:        review.NewService(review.NewRepository(pool)),
	}
}

func TestMarketplaceConcurrency(t *testing.T) {
	flag.Parse()
	seed := *flSeed
	rand.Seed(seed)

	var (
		pgC        *infra.PGContainer
		dsn        string
		err        error
		usedShared bool
	)
	ctx, cancel := context.WithTimeout(context.Background(), *flDuration+60*time.Second)
	defer cancel()

	switch {
	case *flDSN != "":
		dsn = *flDSN
		usedShared = true
		pgC = &infra.PGContainer{}
	case os.Getenv("E2E_PG_DSN") != "":
		dsn = os.Getenv("E2E_PG_DSN")
		usedShared = true
		pgC = &infra.PGContainer{}
	default:
		if dockerAvailable(ctx) {
			pgC, dsn, err = infra.StartPostgres16(ctx, "")
			if err != nil {
				t.Fatalf("start postgres: %v", err)
			}
		} else {
			dsn, err = infra.InitLocalDatabase(ctx)
			if err != nil {
				t.Skipf("no Docker and no local PostgreSQL: %v", err)
			}
			pgC = &infra.PGContainer{}
		}
	}
	defer pgC.Terminate(context.Background())

	pool, teardown, err := infra.ApplyMigrations(ctx, dsn, usedShared)
	if err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	defer pool.Close()
	defer func() {
		if err := teardown(context.Background()); err != nil {
			t.Logf("teardown warning: %v", err)
		}
	}()

	svcs := buildServices(pool)
	data := mustSeed(t, ctx, svcs)

	g, ctx2 := errgroup.WithContext(ctx)
	stop := make(chan struct{})

	// both parties race to finalize the same inquiry in opposite directions
	g.Go(func() error {
		return actors.Finalizer(ctx2, svcs.inquiries, data.ownerID, data.inquiryID, inquiry.StatusApproved, stop)
	})
	g.Go(func() error {
		return actors.Finalizer(ctx2, svcs.inquiries, data.sitterID, data.inquiryID, inquiry.StatusRejected, stop)
	})
	// owner keeps editing until the inquiry closes under them
	g.Go(func() error {
		return actors.ContentEditor(ctx2, svcs.inquiries, data.ownerID, data.inquiryID, stop)
	})
	// conversation from both sides
	g.Go(func() error { return actors.Messenger(ctx2, svcs.messages, data.ownerID, data.inquiryID, stop) })
	g.Go(func() error { return actors.Messenger(ctx2, svcs.messages, data.sitterID, data.inquiryID, stop) })
	// sitter churns their calendar
	g.Go(func() error { return actors.Scheduler(ctx2, svcs.availabilities, data.sitterID, stop) })
	// reviews pile up in both directions against the same aggregate
	g.Go(func() error {
		return actors.Reviewer(ctx2, svcs.reviews, data.ownerID, data.sitterID, review.RoleSitter, stop)
	})
	g.Go(func() error {
		return actors.Reviewer(ctx2, svcs.reviews, data.extraID, data.sitterID, review.RoleSitter, stop)
	})
	g.Go(func() error {
		return actors.Reviewer(ctx2, svcs.reviews, data.sitterID, data.ownerID, review.RoleOwner, stop)
	})

	if *flChaos {
		go chaos.TerminateRandomBackend(ctx2, pool, stop)
	}

	deadline := time.Now().Add(*flDuration)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	var failed bool
loop:
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			name, row, err := oracles.Run(ctx2, pool)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					break loop
				}
				t.Fatalf("oracle error: %v", err)
			}
			if name != "" {
				failed = true
				t.Fatalf("Oracle %s failed. First row: %s (seed=%d)", name, row, seed)
			}
		}
	}

	close(stop)
	if err := g.Wait(); err != nil && !failed {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("actors errored: %v", err)
		}
	}

	// the inquiry must have been finalized exactly once, to one terminal state
	final, err := svcs.inquiries.Get(ctx, data.ownerID, data.inquiryID)
	if err != nil {
		t.Fatalf("read final inquiry: %v", err)
	}
	if final.Status != inquiry.StatusApproved && final.Status != inquiry.StatusRejected {
		t.Errorf("inquiry still %s after %s of finalizer pressure", final.Status, *flDuration)
	}
	if final.FinalizedAt == nil {
		t.Errorf("finalized inquiry has no finalization stamp")
	}

	// run the oracles one last time on the settled state
	if name, row, err := oracles.Run(ctx, pool); err != nil {
		t.Fatalf("final oracle error: %v", err)
	} else if name != "" {
		t.Fatalf("final oracle %s failed. First row: %s (seed=%d)", name, row, seed)
	}
}

func dockerAvailable(ctx context.Context) bool {
	if _, err := exec.LookPath("docker"); err != nil {
		return false
	}
	c := exec.CommandContext(ctx, "docker", "info")
	c.Stdout = io.Discard
	c.Stderr = io.Discard
	return c.Run() == nil
}

type seedIDs struct {
	ownerID   string
	sitterID  string
	extraID   string
	inquiryID string
	petID     string
}

func mustSeed(t *testing.T, ctx context.Context, svcs services) seedIDs {
	t.Helper()
	var s seedIDs

	suffix := time.Now().UnixNano()
	signUp := func(label string) string {
		u, err := svcs.auth.SignUp(ctx, auth.SignUpRequest{
			Email:    fmt.Sprintf("%s-%d@example.com", label, suffix),
			Password: "e2e-password",
		})
		if err != nil {
			t.Fatalf("seed %s: %v", label, err)
		}
		return u.ID
	}
	s.ownerID = signUp("owner")
	s.sitterID = signUp("sitter")
	s.extraID = signUp("extra")

	p, err := svcs.pets.Create(ctx, s.ownerID, s.ownerID, pet.CreateParams{Name: "Taro", Species: pet.SpeciesDog})
	if err != nil {
		t.Fatalf("seed pet: %v", err)
	}
	s.petID = p.ID

	start := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	inq, err := svcs.inquiries.Create(ctx, s.ownerID, inquiry.CreateParams{
		OwnerID:        s.ownerID,
		SitterID:       s.sitterID,
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 2),
		DesiredService: inquiry.ServiceSitterHouse,
		PetIDs:         []string{p.ID},
	})
	if err != nil {
		t.Fatalf("seed inquiry: %v", err)
	}
	s.inquiryID = inq.ID

	return s
}
