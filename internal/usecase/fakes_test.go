package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"
	"flightlog-service/pkg/airports"
	"flightlog-service/pkg/flightparser"
	"flightlog-service/pkg/logger"
	"flightlog-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// fakeFlightRepo is an in-memory FlightRepository
type fakeFlightRepo struct {
	mu        sync.Mutex
	flights   []*entity.Flight
	lookupErr error
	insertErr error
	inserts   int
}

func (r *fakeFlightRepo) find(match func(*entity.Flight) bool) (*entity.Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, f := range r.flights {
		if match(f) {
			return f, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeFlightRepo) FindByConfirmationCode(ctx context.Context, userID, code string) (*entity.Flight, error) {
	return r.find(func(f *entity.Flight) bool {
		return f.UserID == userID && f.ConfirmationCode == code
	})
}

func (r *fakeFlightRepo) FindByFlightRoute(ctx context.Context, userID, flightNumber, departure, arrival string) (*entity.Flight, error) {
	return r.find(func(f *entity.Flight) bool {
		return f.UserID == userID && f.FlightNumber == flightNumber &&
			f.DepartureAirport == departure && f.ArrivalAirport == arrival
	})
}

func (r *fakeFlightRepo) FindByRouteAndDate(ctx context.Context, userID, departure, arrival string, date time.Time) (*entity.Flight, error) {
	return r.find(func(f *entity.Flight) bool {
		return f.UserID == userID && f.DepartureAirport == departure && f.ArrivalAirport == arrival &&
			f.DepartureDate != nil && f.DepartureDate.Equal(date)
	})
}

func (r *fakeFlightRepo) Insert(ctx context.Context, flight *entity.Flight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.insertErr != nil {
		return r.insertErr
	}
	for _, f := range r.flights {
		if f.UserID == flight.UserID && f.DedupKey == flight.DedupKey {
			return repository.ErrDuplicateFlight
		}
	}
	r.inserts++
	r.flights = append(r.flights, flight)
	return nil
}

func (r *fakeFlightRepo) FindByUser(ctx context.Context, userID string) ([]*entity.Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Flight
	for _, f := range r.flights {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

// fakeMailSource serves messages and attachments from maps
type fakeMailSource struct {
	mu            sync.Mutex
	ids           []string
	messages      map[string]*entity.RawEmail
	attachments   map[string][]byte
	listErr       error
	lastQuery     string
	lastLimit     int
	attachmentHit int
	onGet         func(id string)
}

func (m *fakeMailSource) ListCandidateMessages(ctx context.Context, query string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastQuery = query
	m.lastLimit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.ids, nil
}

func (m *fakeMailSource) GetMessage(ctx context.Context, id string) (*entity.RawEmail, error) {
	if m.onGet != nil {
		m.onGet(id)
	}
	email, ok := m.messages[id]
	if !ok {
		return nil, errors.New("message not found")
	}
	return email, nil
}

func (m *fakeMailSource) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attachmentHit++
	data, ok := m.attachments[attachmentID]
	if !ok {
		return nil, errors.New("attachment not found")
	}
	return data, nil
}

// fakePDF treats the PDF bytes as their own text, except for "broken"
type fakePDF struct{}

func (fakePDF) ExtractText(data []byte) string {
	if string(data) == "broken" {
		return ""
	}
	return string(data)
}

// fakeCompletion returns a canned response
type fakeCompletion struct {
	mu         sync.Mutex
	enabled    bool
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (c *fakeCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	c.lastPrompt = prompt
	return c.response, c.err
}

func (c *fakeCompletion) Enabled() bool {
	return c.enabled
}

type fakeAirlineRepo struct {
	airlines map[string]string
}

func (r *fakeAirlineRepo) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	name, ok := r.airlines[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entity.Airline{Code: code, Name: name}, nil
}

func (r *fakeAirlineRepo) Seed(ctx context.Context, airlines []entity.Airline) error {
	for _, a := range airlines {
		r.airlines[a.Code] = a.Name
	}
	return nil
}

type fakeUserRepo struct {
	err error
}

func (r *fakeUserRepo) Upsert(ctx context.Context, user *entity.User) (*entity.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := *user
	out.ID = "user-" + user.Email
	return &out, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return &entity.User{ID: "user-" + email, Email: email}, nil
}

type fakeSyncRepo struct {
	mu       sync.Mutex
	statuses []entity.EmailSyncStatus
}

func (r *fakeSyncRepo) Upsert(ctx context.Context, status *entity.EmailSyncStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, *status)
	return nil
}

func (r *fakeSyncRepo) GetByUserID(ctx context.Context, userID string) (*entity.EmailSyncStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.statuses) - 1; i >= 0; i-- {
		if r.statuses[i].UserID == userID {
			s := r.statuses[i]
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeScanLogRepo struct {
	saved []entity.ScanLogEntry
}

func (r *fakeScanLogRepo) SaveAll(ctx context.Context, entries []entity.ScanLogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.saved = append(r.saved, entries...)
	return nil
}

func (r *fakeScanLogRepo) FindByScanID(ctx context.Context, scanID string) ([]entity.ScanLogEntry, error) {
	var out []entity.ScanLogEntry
	for _, e := range r.saved {
		if e.ScanID == scanID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestProcessor(repo *fakeFlightRepo, mail MailSource, llm CompletionClient) *FlightProcessor {
	log := logger.NewNopLogger()
	return NewFlightProcessor(
		NewNormalizer(mail, fakePDF{}, time.Second, log),
		flightparser.NewFlightParser(airports.IsValidCode, log),
		NewFallbackExtractor(llm, log),
		NewDedupEngine(repo, log),
		repo,
		nil,
		&fakeAirlineRepo{airlines: map[string]string{"TK": "Turkish Airlines"}},
		metrics.NewMetrics("test", prometheus.NewRegistry()),
		log,
	)
}

func plainEmail(id, subject, body string) *entity.RawEmail {
	return &entity.RawEmail{
		ID:      id,
		Subject: subject,
		Payload: &entity.MessagePart{MimeType: entity.MimeTextPlain, Data: []byte(body)},
	}
}

func timePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
