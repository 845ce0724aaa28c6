package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/portalbase/portal-api/internal/models"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(user.Email)
	for _, u := range r.users {
		if strings.ToLower(u.Email) == email {
			return fmt.Errorf("user exists: %w", models.ErrConflict)
		}
	}
	user.ID = primitive.NewObjectID()
	user.Email = email
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", models.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user: %w", models.ErrNotFound)
}

func (r *memUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user: %w", models.ErrNotFound)
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) SetActiveProfile(ctx context.Context, id primitive.ObjectID, role models.ProfileRole, profileID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user: %w", models.ErrNotFound)
	}
	u.ActiveProfile = role
	u.ActiveProfileID = profileID
	u.LastActiveDate = time.Now()
	return nil
}

type memTenantRepo struct {
	mu      sync.Mutex
	tenants map[primitive.ObjectID]*models.Tenant
}

func newMemTenantRepo() *memTenantRepo {
	return &memTenantRepo{tenants: map[primitive.ObjectID]*models.Tenant{}}
}

func (r *memTenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tenant.ID = primitive.NewObjectID()
	tenant.IsActive = true
	cp := *tenant
	r.tenants[tenant.ID] = &cp
	return nil
}

func (r *memTenantRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[id]
	if !ok {
		return nil, fmt.Errorf("tenant: %w", models.ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (r *memTenantRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[id]
	if !ok {
		return nil, fmt.Errorf("tenant: %w", models.ErrNotFound)
	}
	for k, v := range fields {
		s, _ := v.(string)
		switch k {
		case "company_name":
			t.CompanyName = s
		case "email":
			t.Email = s
		case "phone":
			t.Phone = s
		case "profile_image_url":
			t.ProfileImageURL = s
		}
	}
	cp := *t
	return &cp, nil
}

type memClientRepo struct {
	mu      sync.Mutex
	clients map[primitive.ObjectID]*models.Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: map[primitive.ObjectID]*models.Client{}}
}

func (r *memClientRepo) Create(ctx context.Context, client *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	client.ID = primitive.NewObjectID()
	cp := *client
	r.clients[client.ID] = &cp
	return nil
}

func (r *memClientRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, fmt.Errorf("client: %w", models.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r *memClientRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, fmt.Errorf("client: %w", models.ErrNotFound)
	}
	for k, v := range fields {
		s, _ := v.(string)
		switch k {
		case "name":
			c.Name = s
		case "email":
			c.Email = s
		case "phone":
			c.Phone = s
		case "profile_image_url":
			c.ProfileImageURL = s
		}
	}
	cp := *c
	return &cp, nil
}

func (r *memClientRepo) AcceptInvitation(ctx context.Context, token string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.InvitationToken == token {
			c.InvitationToken = ""
			c.IsActive = true
			cp := *c
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("invitation: %w", models.ErrInvalidOrExpired)
}

func (r *memClientRepo) TouchActivity(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return fmt.Errorf("client: %w", models.ErrNotFound)
	}
	c.LastActivityDate = time.Now()
	return nil
}

type memOtp struct {
	code      string
	expiresAt time.Time
}

type memOtpRepo struct {
	mu   sync.Mutex
	rows map[string]memOtp
}

func newMemOtpRepo() *memOtpRepo {
	return &memOtpRepo{rows: map[string]memOtp{}}
}

func (r *memOtpRepo) Upsert(ctx context.Context, identifier, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[identifier] = memOtp{code: code, expiresAt: expiresAt}
	return nil
}

func (r *memOtpRepo) Consume(ctx context.Context, identifier, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[identifier]
	if !ok || row.code != code || time.Now().After(row.expiresAt) {
		return fmt.Errorf("otp: %w", models.ErrInvalidOrExpired)
	}
	delete(r.rows, identifier)
	return nil
}

type memMappingRepo struct {
	mu   sync.Mutex
	rows []*models.UserTenantClientMapping
}

func newMemMappingRepo() *memMappingRepo {
	return &memMappingRepo{}
}

func (r *memMappingRepo) Create(ctx context.Context, mapping *models.UserTenantClientMapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if m.UserID == mapping.UserID && m.MasterID == mapping.MasterID {
			return fmt.Errorf("mapping exists: %w", models.ErrConflict)
		}
	}
	mapping.ID = primitive.NewObjectID()
	cp := *mapping
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memMappingRepo) Get(ctx context.Context, userID, masterID primitive.ObjectID, role models.ProfileRole) (*models.UserTenantClientMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if m.UserID == userID && m.MasterID == masterID && m.Role == role {
			cp := *m
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("mapping: %w", models.ErrNotFound)
}

func (r *memMappingRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.UserTenantClientMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.UserTenantClientMapping
	for _, m := range r.rows {
		if m.UserID == userID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memMappingRepo) Delete(ctx context.Context, userID, masterID primitive.ObjectID, role models.ProfileRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.rows {
		if m.UserID == userID && m.MasterID == masterID && m.Role == role {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("mapping: %w", models.ErrNotFound)
}

type memTenantClientMappingRepo struct {
	mu   sync.Mutex
	rows []*models.TenantClientMapping
}

func newMemTenantClientMappingRepo() *memTenantClientMappingRepo {
	return &memTenantClientMappingRepo{}
}

func (r *memTenantClientMappingRepo) Create(ctx context.Context, mapping *models.TenantClientMapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if m.TenantID == mapping.TenantID && m.ClientID == mapping.ClientID {
			return fmt.Errorf("mapping exists: %w", models.ErrConflict)
		}
	}
	mapping.ID = primitive.NewObjectID()
	cp := *mapping
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memTenantClientMappingRepo) ListByTenant(ctx context.Context, tenantID primitive.ObjectID) ([]*models.TenantClientMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.TenantClientMapping
	for _, m := range r.rows {
		if m.TenantID == tenantID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memTenantClientMappingRepo) RepointTenant(ctx context.Context, fromTenant, toTenant primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.rows {
		if m.TenantID == fromTenant {
			m.TenantID = toTenant
			n++
		}
	}
	return n, nil
}

func (r *memTenantClientMappingRepo) RepointClient(ctx context.Context, fromClient, toClient primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.rows {
		if m.ClientID == fromClient {
			m.ClientID = toClient
			n++
		}
	}
	return n, nil
}

type memProjectRepo struct {
	mu   sync.Mutex
	rows []*models.Project
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{}
}

func (r *memProjectRepo) Create(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project.ID = primitive.NewObjectID()
	cp := *project
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memProjectRepo) ListByTenant(ctx context.Context, tenantID primitive.ObjectID) ([]*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Project
	for _, p := range r.rows {
		if p.TenantID == tenantID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProjectRepo) ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Project
	for _, p := range r.rows {
		if p.ClientID == clientID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProjectRepo) RepointTenant(ctx context.Context, fromTenant, toTenant primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.rows {
		if p.TenantID == fromTenant {
			p.TenantID = toTenant
			n++
		}
	}
	return n, nil
}

func (r *memProjectRepo) RepointClient(ctx context.Context, fromClient, toClient primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.rows {
		if p.ClientID == fromClient {
			p.ClientID = toClient
			n++
		}
	}
	return n, nil
}

// recordingNotifier captures issued codes instead of sending mail.
type recordingNotifier struct {
	mu    sync.Mutex
	codes []string
	fail  error
}

func (n *recordingNotifier) SendOtp(ctx context.Context, tenantID primitive.ObjectID, recipient, code string, purpose models.OtpPurpose, expiry time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return n.fail
	}
	n.codes = append(n.codes, code)
	return nil
}

func (n *recordingNotifier) lastCode() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.codes) == 0 {
		return ""
	}
	return n.codes[len(n.codes)-1]
}

// passthroughTx runs fn without a real transaction.
type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
