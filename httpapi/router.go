package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"petsitter/appuser"
	"petsitter/auth"
	"petsitter/availability"
	"petsitter/inquiry"
	"petsitter/messaging"
	"petsitter/pet"
	"petsitter/review"
	"petsitter/sitter"
)

// Options wires the domain services into the router.
type Options struct {
	Auth           *auth.Service
	Appusers       *appuser.Service
	Sitters        *sitter.Service
	Pets           *pet.Service
	Availabilities *availability.Service
	Inquiries      *inquiry.Service
	Messages       *messaging.Service
	Hub            *messaging.Hub

	AllowedOrigin string
	Reviews       *review.Service
}

// NewRouter builds the full HTTP surface.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if opts.AllowedOrigin != "" {
		r.Use(AllowOrigin(opts.AllowedOrigin))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/signup", signUpHandler(opts.Auth))
	r.Post("/login", logInHandler(opts.Auth))

	r.Group(func(pr chi.Router) {
		pr.Use(Authenticate(opts.Auth))

		pr.Route("/appuser/{appuserID}", func(ar chi.Router) {
			ar.Get("/", getAppuserHandler(opts.Appusers))
			ar.Put("/", updateAppuserHandler(opts.Appusers))
			ar.Post("/pet", createPetHandler(opts.Pets))
			ar.Get("/pet", listPetsHandler(opts.Pets))
			ar.Post("/availability", addAvailabilityHandler(opts.Availabilities))
			ar.Get("/availability", listAvailabilityHandler(opts.Availabilities))
			ar.Get("/inquiry", listInquiriesHandler(opts.Inquiries))
			ar.Post("/review", recordReviewHandler(opts.Reviews))
			ar.Get("/review", listReviewsHandler(opts.Reviews))
		})

		pr.Get("/appuser-extended/{appuserID}", getExtendedHandler(opts.Sitters))
		pr.Get("/appuser-sitters", findSittersHandler(opts.Sitters))

		pr.Get("/sitter/{appuserID}", getSitterHandler(opts.Sitters))
		pr.Post("/sitter/{appuserID}", upsertSitterHandler(opts.Sitters))

		pr.Route("/pet/{petID}", func(petr chi.Router) {
			petr.Get("/", getPetHandler(opts.Pets))
			petr.Put("/", updatePetHandler(opts.Pets))
			petr.Delete("/", deletePetHandler(opts.Pets))
		})

		pr.Delete("/availability/{availabilityID}", removeAvailabilityHandler(opts.Availabilities))

		pr.Post("/inquiry", createInquiryHandler(opts.Inquiries))
		pr.Route("/inquiry/{inquiryID}", func(ir chi.Router) {
			ir.Get("/", getInquiryHandler(opts.Inquiries))
			ir.Patch("/", updateInquiryStatusHandler(opts.Inquiries))
			ir.Put("/", updateInquiryContentHandler(opts.Inquiries))
			ir.Get("/pet", attachedPetsHandler(opts.Inquiries))
			ir.Post("/message", createMessageHandler(opts.Messages))
			ir.Get("/message", listMessagesHandler(opts.Messages))
			ir.Get("/ws", messageChannelHandler(opts.Messages, opts.Hub, opts.AllowedOrigin))
		})
	})

	return r
}
