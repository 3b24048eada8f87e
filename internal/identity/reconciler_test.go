package identity

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ecoconnect-dev/ecoconnect/internal/models"
	"github.com/ecoconnect-dev/ecoconnect/internal/store"
	"github.com/ecoconnect-dev/ecoconnect/internal/supabase"
	"github.com/ecoconnect-dev/ecoconnect/internal/types"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeProvider struct {
	getUserFn func(ctx context.Context, accessToken string) (*supabase.User, error)
}

func (f *fakeProvider) GetUser(ctx context.Context, accessToken string) (*supabase.User, error) {
	if f.getUserFn != nil {
		return f.getUserFn(ctx, accessToken)
	}
	return nil, errors.New("not implemented")
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password string) (*supabase.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProvider) SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error) {
	return nil, errors.New("not implemented")
}

func providerUser(id, email string) *supabase.User {
	raw, _ := json.Marshal(map[string]string{"id": id, "email": email})
	return &supabase.User{ID: id, Email: email, Raw: raw}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()

	if err != nil {
		t.Fatalf("failed to access underlying database: %v", err)
	}

	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&models.User{}, &models.FoodListing{}, &models.FoodClaim{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return store.New(gdb, false)
}

func TestReconcile(t *testing.T) {
	t.Run("creates a local user on first contact", func(t *testing.T) {
		st := newTestStore(t)
		provider := &fakeProvider{
			getUserFn: func(ctx context.Context, token string) (*supabase.User, error) {
				if token != "valid-token" {
					return nil, &supabase.APIError{Status: 401, Message: "invalid token"}
				}
				return providerUser("prov-1", "Jane.Doe+food@Example.com"), nil
			},
		}

		r := NewReconciler(st, provider, false)

		user, err := r.Reconcile(context.Background(), Input{AccessToken: "valid-token", Role: types.RoleNGO})

		if err != nil {
			t.Fatalf("Reconcile failed: %v", err)
		}

		if user.Email != "jane.doe+food@example.com" {
			t.Errorf("email not canonicalized: %s", user.Email)
		}

		if user.Username != "jane_doe_food" {
			t.Errorf("username = %q, want jane_doe_food", user.Username)
		}

		if user.Role != types.RoleNGO {
			t.Errorf("role = %s, want ngo", user.Role)
		}

		if user.SupabaseID == nil || *user.SupabaseID != "prov-1" {
			t.Errorf("provider reference not stored: %v", user.SupabaseID)
		}

		if user.PasswordHash == "" {
			t.Error("placeholder password credential missing")
		}
	})

	t.Run("is idempotent for an already-linked user", func(t *testing.T) {
		st := newTestStore(t)
		provider := &fakeProvider{
			getUserFn: func(ctx context.Context, token string) (*supabase.User, error) {
				return providerUser("prov-1", "repeat@example.com"), nil
			},
		}

		r := NewReconciler(st, provider, false)

		first, err := r.Reconcile(context.Background(), Input{AccessToken: "t"})

		if err != nil {
			t.Fatalf("first Reconcile failed: %v", err)
		}

		second, err := r.Reconcile(context.Background(), Input{AccessToken: "t", Role: types.RoleRestaurant})

		if err != nil {
			t.Fatalf("second Reconcile failed: %v", err)
		}

		if first.ID != second.ID {
			t.Errorf("reconcile resolved different users: %d then %d", first.ID, second.ID)
		}

		// Role argument variation must not mutate the existing user.
		if second.Role != types.RoleVolunteer {
			t.Errorf("second call changed role to %s", second.Role)
		}

		count, err := st.CountUsersByRole(types.RoleVolunteer)

		if err != nil {
			t.Fatalf("CountUsersByRole failed: %v", err)
		}

		if count != 1 {
			t.Errorf("found %d local users, want exactly 1", count)
		}
	})

	t.Run("links a pre-existing password account without touching other fields", func(t *testing.T) {
		st := newTestStore(t)

		existing := models.User{
			Username:     "bistro",
			Email:        "owner@bistro.test",
			PasswordHash: "local-hash",
			Role:         types.RoleRestaurant,
		}

		if err := st.CreateUser(&existing); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}

		provider := &fakeProvider{
			getUserFn: func(ctx context.Context, token string) (*supabase.User, error) {
				return providerUser("prov-9", "owner@bistro.test"), nil
			},
		}

		r := NewReconciler(st, provider, false)

		user, err := r.Reconcile(context.Background(), Input{AccessToken: "t", Role: types.RoleVolunteer})

		if err != nil {
			t.Fatalf("Reconcile failed: %v", err)
		}

		if user.ID != existing.ID {
			t.Fatalf("reconcile created a new user %d instead of linking %d", user.ID, existing.ID)
		}

		refreshed, err := st.GetUserByEmail("owner@bistro.test")

		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}

		if refreshed.SupabaseID == nil || *refreshed.SupabaseID != "prov-9" {
			t.Errorf("provider reference not linked: %v", refreshed.SupabaseID)
		}

		if refreshed.Role != types.RoleRestaurant {
			t.Errorf("linking changed role to %s", refreshed.Role)
		}

		if refreshed.Username != "bistro" || refreshed.PasswordHash != "local-hash" {
			t.Error("linking altered unrelated fields")
		}
	})

	t.Run("rejects when no credential is supplied", func(t *testing.T) {
		st := newTestStore(t)
		r := NewReconciler(st, &fakeProvider{}, false)

		_, err := r.Reconcile(context.Background(), Input{})

		if !errors.Is(err, ErrMissingCredential) {
			t.Fatalf("error = %v, want ErrMissingCredential", err)
		}
	})

	t.Run("rejects a claimed email when relaxed mode is off", func(t *testing.T) {
		st := newTestStore(t)
		r := NewReconciler(st, &fakeProvider{}, false)

		_, err := r.Reconcile(context.Background(), Input{Email: "sneaky@example.com"})

		if !errors.Is(err, ErrMissingCredential) {
			t.Fatalf("error = %v, want ErrMissingCredential", err)
		}

		if _, err := st.GetUserByEmail("sneaky@example.com"); !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Error("rejected reconcile still created a user")
		}
	})

	t.Run("trusts a claimed email in relaxed mode", func(t *testing.T) {
		st := newTestStore(t)
		r := NewReconciler(st, nil, true)

		user, err := r.Reconcile(context.Background(), Input{Email: "Dev@Example.com", Role: types.RoleRestaurant})

		if err != nil {
			t.Fatalf("Reconcile failed: %v", err)
		}

		if user.Email != "dev@example.com" {
			t.Errorf("email not canonicalized: %s", user.Email)
		}

		if user.SupabaseID != nil {
			t.Error("relaxed user should have no provider reference")
		}

		again, err := r.Reconcile(context.Background(), Input{Email: "dev@example.com"})

		if err != nil {
			t.Fatalf("second Reconcile failed: %v", err)
		}

		if again.ID != user.ID {
			t.Error("relaxed reconcile duplicated the user")
		}
	})

	t.Run("surfaces provider rejection without creating users", func(t *testing.T) {
		st := newTestStore(t)
		provider := &fakeProvider{
			getUserFn: func(ctx context.Context, token string) (*supabase.User, error) {
				return nil, &supabase.APIError{Status: 401, Message: "JWT expired"}
			},
		}

		r := NewReconciler(st, provider, false)

		_, err := r.Reconcile(context.Background(), Input{AccessToken: "stale"})

		if !errors.Is(err, ErrProviderRejected) {
			t.Fatalf("error = %v, want ErrProviderRejected", err)
		}

		if !strings.Contains(err.Error(), "JWT expired") {
			t.Errorf("provider message not surfaced: %v", err)
		}
	})

	t.Run("fails on a token when no provider is configured", func(t *testing.T) {
		st := newTestStore(t)
		r := NewReconciler(st, nil, true)

		_, err := r.Reconcile(context.Background(), Input{AccessToken: "t"})

		if !errors.Is(err, ErrProviderRejected) {
			t.Fatalf("error = %v, want ErrProviderRejected", err)
		}
	})

	t.Run("rejects a provider identity without an email", func(t *testing.T) {
		st := newTestStore(t)
		provider := &fakeProvider{
			getUserFn: func(ctx context.Context, token string) (*supabase.User, error) {
				return &supabase.User{ID: "prov-2"}, nil
			},
		}

		r := NewReconciler(st, provider, false)

		_, err := r.Reconcile(context.Background(), Input{AccessToken: "t"})

		if !errors.Is(err, ErrMissingEmail) {
			t.Fatalf("error = %v, want ErrMissingEmail", err)
		}
	})
}

func TestUsernameDerivation(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane@example.com", "jane"},
		{"Jane.Doe+tag@example.com", "jane_doe_tag"},
		{"a.very.long.address.that.keeps.going@example.com", "a_very_long_address_that"},
		{"@example.com", "user"},
		{"42nd.street@example.com", "42nd_street"},
	}

	for _, tt := range tests {
		if got := usernameFromEmail(strings.ToLower(tt.email)); got != tt.want {
			t.Errorf("usernameFromEmail(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestUsernameCollision(t *testing.T) {
	st := newTestStore(t)

	seed := models.User{Username: "jane", Email: "jane@elsewhere.test", PasswordHash: "x", Role: types.RoleVolunteer}

	if err := st.CreateUser(&seed); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	r := NewReconciler(st, nil, true)

	user, err := r.Reconcile(context.Background(), Input{Email: "jane@example.com"})

	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if user.Username != "jane_2" {
		t.Errorf("username = %q, want jane_2", user.Username)
	}
}
