// Package identity maps external identity-provider accounts onto
// local user records: create on first contact, link on second, no-op
// after that.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ecoconnect-dev/ecoconnect/internal/models"
	"github.com/ecoconnect-dev/ecoconnect/internal/store"
	"github.com/ecoconnect-dev/ecoconnect/internal/supabase"
	"github.com/ecoconnect-dev/ecoconnect/internal/types"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrMissingCredential = errors.New("missing access credential")
	ErrMissingEmail      = errors.New("identity provider returned no email")
	ErrProviderRejected  = errors.New("identity provider rejected credential")
)

const maxUsernameLength = 24

type Reconciler struct {
	store    *store.Store
	provider supabase.AuthAPI
	relaxed  bool
}

// NewReconciler builds a Reconciler. provider may be nil in relaxed
// development deployments; any token-bearing call then fails as a
// provider rejection.
func NewReconciler(st *store.Store, provider supabase.AuthAPI, relaxed bool) *Reconciler {
	return &Reconciler{store: st, provider: provider, relaxed: relaxed}
}

// Input is one piece of evidence of a successful provider
// authentication. Exactly one of ProviderUser, AccessToken or (in
// relaxed mode) Email must identify the account. Role applies only
// when a local user is created.
type Input struct {
	ProviderUser *supabase.User
	AccessToken  string
	Email        string
	Role         types.Role
}

// Reconcile resolves provider evidence to exactly one local user,
// creating or linking as needed. Idempotent: repeated calls for the
// same canonical email never create a second user.
func (r *Reconciler) Reconcile(ctx context.Context, in Input) (models.User, error) {
	var (
		email      string
		providerID string
		metadata   []byte
	)

	switch {
	case in.ProviderUser != nil:
		email = in.ProviderUser.Email
		providerID = in.ProviderUser.ID
		metadata = in.ProviderUser.Raw

	case in.AccessToken != "":
		if r.provider == nil {
			return models.User{}, fmt.Errorf("%w: no provider configured", ErrProviderRejected)
		}

		providerUser, err := r.provider.GetUser(ctx, in.AccessToken)
		if err != nil {
			return models.User{}, fmt.Errorf("%w: %v", ErrProviderRejected, err)
		}

		email = providerUser.Email
		providerID = providerUser.ID
		metadata = providerUser.Raw

	case r.relaxed && in.Email != "":
		email = in.Email

	default:
		return models.User{}, ErrMissingCredential
	}

	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" {
		return models.User{}, ErrMissingEmail
	}

	user, err := r.store.GetUserByEmail(email)

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, err
		}
		return r.createUser(email, providerID, metadata, in.Role)
	}

	// Link step: attach the provider reference once, leave everything
	// else untouched. Already-linked users are not mutated.
	if user.SupabaseID == nil && providerID != "" {
		if err := r.store.LinkProviderIdentity(&user, providerID, metadata); err != nil {
			return models.User{}, err
		}
	}

	return user, nil
}

func (r *Reconciler) createUser(email, providerID string, metadata []byte, role types.Role) (models.User, error) {
	if role == "" {
		role = types.RoleVolunteer
	}

	username, err := r.availableUsername(email)
	if err != nil {
		return models.User{}, err
	}

	// The user never authenticates locally with this credential; it
	// only satisfies the not-null constraint with something
	// collision-resistant.
	placeholder, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(placeholder),
		Role:         role,
	}

	if providerID != "" {
		user.SupabaseID = &providerID
		user.ProviderMetadata = metadata
	}

	if err := r.store.CreateUser(&user); err != nil {
		return models.User{}, err
	}

	return user, nil
}

// availableUsername derives a username from the email local-part and
// de-duplicates with a numeric suffix on collision.
func (r *Reconciler) availableUsername(email string) (string, error) {
	base := usernameFromEmail(email)

	candidate := base

	for suffix := 2; ; suffix++ {
		_, err := r.store.GetUserByUsername(candidate)

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}

		if err != nil {
			return "", err
		}

		candidate = fmt.Sprintf("%s_%d", base, suffix)
	}
}

func usernameFromEmail(email string) string {
	local := email

	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}

	var b strings.Builder

	for _, c := range local {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c >= 'A' && c <= 'Z':
			b.WriteRune(c + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}

	username := b.String()

	if len(username) > maxUsernameLength {
		username = username[:maxUsernameLength]
	}

	if username == "" {
		username = "user"
	}

	return username
}
