package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/membership-service/internal/config"
	"github.com/spec-kit/membership-service/internal/domain"
	"github.com/spec-kit/membership-service/internal/mail"
	"github.com/spec-kit/membership-service/internal/repository"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// fakeSender records every email instead of delivering it.
type fakeSender struct {
	mu      sync.Mutex
	sent    []mail.Email
	failErr error
}

func (f *fakeSender) Send(_ context.Context, email mail.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.sent = append(f.sent, email)
	return nil
}

func (f *fakeSender) emails() []mail.Email {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mail.Email(nil), f.sent...)
}

type fakeUserRepo struct {
	mu     sync.Mutex
	seq    int
	byID   map[string]*domain.User
	byMail map[string]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*domain.User{}, byMail: map[string]string{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, exists := r.byMail[key]; exists {
		return apperrors.NewConflict("email already registered", nil)
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.byID[user.ID] = &clone
	r.byMail[key] = user.ID
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	key := strings.ToLower(user.Email)
	if id, exists := r.byMail[key]; exists && id != user.ID {
		return apperrors.NewConflict("email already registered", nil)
	}
	delete(r.byMail, strings.ToLower(stored.Email))
	clone := *user
	r.byID[user.ID] = &clone
	r.byMail[key] = user.ID
	return nil
}

func (r *fakeUserRepo) UpdateStage(_ context.Context, userID string, stage domain.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Stage = stage
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byMail[strings.ToLower(email)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.byID))
	for _, user := range r.byID {
		out = append(out, *user)
	}
	return out, nil
}

func (r *fakeUserRepo) ListByStage(_ context.Context, stage domain.Stage) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, user := range r.byID {
		if user.Stage == stage {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(r.byMail, strings.ToLower(user.Email))
	delete(r.byID, id)
	return nil
}

func (r *fakeUserRepo) UpsertOAuth(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	id, exists := r.byMail[strings.ToLower(user.Email)]
	if exists {
		clone := *r.byID[id]
		r.mu.Unlock()
		return &clone, nil
	}
	r.mu.Unlock()

	user.Role = domain.RoleMember
	user.Stage = domain.StageNewAccount
	user.Verified = true
	user.Active = true
	if err := r.Create(ctx, user); err != nil {
		return nil, err
	}
	clone := *user
	return &clone, nil
}

type fakeApplicationRepo struct {
	mu     sync.Mutex
	seq    int
	users  *fakeUserRepo
	byID   map[string]*domain.Application
	byUser map[string]string
}

func newFakeApplicationRepo(users *fakeUserRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{users: users, byID: map[string]*domain.Application{}, byUser: map[string]string{}}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	r.mu.Lock()
	if _, exists := r.byUser[app.UserID]; exists {
		r.mu.Unlock()
		return apperrors.NewConflict("an application already exists for this user", nil)
	}
	r.seq++
	app.ID = fmt.Sprintf("app-%d", r.seq)
	app.Version = 1
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	clone := *app
	r.byID[app.ID] = &clone
	r.byUser[app.UserID] = app.ID
	r.mu.Unlock()

	return r.users.UpdateStage(ctx, app.UserID, domain.StageDetailsSubmitted)
}

func (r *fakeApplicationRepo) Update(_ context.Context, app *domain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[app.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *app
	r.byID[app.ID] = &clone
	return nil
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, remarks string, stage domain.Stage, expectedVersion int) (*domain.Application, error) {
	r.mu.Lock()
	app, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return nil, pgx.ErrNoRows
	}
	if app.Version != expectedVersion {
		r.mu.Unlock()
		return nil, apperrors.NewConflict("application was modified concurrently", map[string]any{"expectedVersion": expectedVersion})
	}
	app.Status = status
	app.Remarks = remarks
	app.Version++
	app.UpdatedAt = time.Now()
	clone := *app
	r.mu.Unlock()

	if stage != "" {
		if err := r.users.UpdateStage(ctx, app.UserID, stage); err != nil {
			return nil, err
		}
	}
	return &clone, nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id string) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *app
	return &clone, nil
}

func (r *fakeApplicationRepo) GetByUserID(_ context.Context, userID string) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byUser[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *fakeApplicationRepo) ListWithOwners(ctx context.Context) ([]domain.ApplicationWithOwner, error) {
	r.mu.Lock()
	apps := make([]domain.Application, 0, len(r.byID))
	for _, app := range r.byID {
		apps = append(apps, *app)
	}
	r.mu.Unlock()

	out := make([]domain.ApplicationWithOwner, 0, len(apps))
	for i := range apps {
		owner, err := r.users.GetByID(ctx, apps[i].UserID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ApplicationWithOwner{
			Application:    apps[i],
			OwnerFirstName: owner.FirstName,
			OwnerLastName:  owner.LastName,
			OwnerEmail:     owner.Email,
		})
	}
	return out, nil
}

func (r *fakeApplicationRepo) GetWithOwner(ctx context.Context, id string) (*domain.ApplicationWithOwner, error) {
	app, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := r.users.GetByID(ctx, app.UserID)
	if err != nil {
		return nil, err
	}
	return &domain.ApplicationWithOwner{
		Application:    *app,
		OwnerFirstName: owner.FirstName,
		OwnerLastName:  owner.LastName,
		OwnerEmail:     owner.Email,
	}, nil
}

func (r *fakeApplicationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	app, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return pgx.ErrNoRows
	}
	delete(r.byUser, app.UserID)
	delete(r.byID, id)
	userID := app.UserID
	r.mu.Unlock()

	return r.users.UpdateStage(ctx, userID, domain.StageNewAccount)
}

type fakeResetRepo struct {
	mu      sync.Mutex
	seq     int
	byToken map[string]*repository.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{byToken: map[string]*repository.PasswordResetToken{}}
}

func (r *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	token.ID = fmt.Sprintf("reset-%d", r.seq)
	token.CreatedAt = time.Now()
	clone := *token
	r.byToken[token.Token] = &clone
	return nil
}

func (r *fakeResetRepo) GetByToken(_ context.Context, token string) (*repository.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byToken[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.byToken {
		if stored.ID == id {
			now := time.Now()
			stored.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeEventRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*domain.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: map[string]*domain.Event{}}
}

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	event.ID = fmt.Sprintf("event-%d", r.seq)
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	clone := *event
	r.byID[event.ID] = &clone
	return nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[event.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *event
	r.byID[event.ID] = &clone
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *event
	return &clone, nil
}

func (r *fakeEventRepo) List(_ context.Context) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, 0, len(r.byID))
	for _, event := range r.byID {
		out = append(out, *event)
	}
	return out, nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

// fakeUploader returns deterministic URLs without touching Cloudinary.
type fakeUploader struct {
	mu      sync.Mutex
	uploads []string
	failErr error
}

func (f *fakeUploader) Upload(_ context.Context, _ io.Reader, filename, folder string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return "", f.failErr
	}
	url := "https://cdn.test/" + folder + "/" + filename
	f.uploads = append(f.uploads, url)
	return url, nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:               "test-secret",
		AccessTokenTTLHours:     168,
		PasswordResetTTLMinutes: 15,
		BcryptCost:              4,
	}
}

func testNotificationService(sender mail.Sender) *NotificationService {
	return NewNotificationService(sender, zap.NewNop(), config.MailConfig{
		FromEmail:   "noreply@test.local",
		FromName:    "Membership Support",
		FrontendURL: "http://frontend.test",
	}, config.PaymentConfig{
		BankName:          "Test Bank",
		BankAccountName:   "Membership Association",
		BankAccountNumber: "0011223344",
		BankBranch:        "Main Branch",
		MomoProvider:      "MTN",
		MomoNumber:        "0240000000",
		MomoName:          "Membership Association",
	})
}
