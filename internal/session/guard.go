package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/2023371019/CheckMeKit/internal/utils"

	"github.com/rs/zerolog"
)

// Repository abstracts the per-role identity table. Patients and doctors live
// in separate tables with identical session columns, so the guard state
// machine is written once against this contract.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	// StartSession sets the active flag and stores the token in one write.
	// When force is false the update is conditional on no session being
	// active; it reports whether the row was claimed.
	StartSession(ctx context.Context, id uint, token string, force bool) (bool, error)
	// ClearSession resets the active flag and nulls the token regardless of
	// prior state.
	ClearSession(ctx context.Context, id uint) error
	CurrentToken(ctx context.Context, id uint) (*string, error)
}

// Guard issues, validates, and revokes single-active sessions for both
// identity classes.
type Guard struct {
	repos map[Role]Repository
	log   zerolog.Logger
}

func NewGuard(patients, doctors Repository, log zerolog.Logger) *Guard {
	return &Guard{
		repos: map[Role]Repository{
			RolePatient: patients,
			RoleDoctor:  doctors,
		},
		log: log.With().Str("component", "session").Logger(),
	}
}

func (g *Guard) repo(role Role) (Repository, error) {
	repo, ok := g.repos[role]
	if !ok {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	return repo, nil
}

// Authenticate verifies the credential and claims the identity's session slot.
// Patients present a password checked against the stored bcrypt hash; doctors
// present an email asserted by the external identity provider, which arrives
// pre-verified. An existing session blocks the login unless force is set, in
// which case the prior token is replaced and immediately stops validating.
//
// The claim itself is a single conditional write, so two concurrent
// non-forced logins for the same identity can never both succeed: the loser
// observes zero affected rows and reports ErrSessionConflict.
func (g *Guard) Authenticate(ctx context.Context, role Role, email, credential string, force bool) (*Session, error) {
	repo, err := g.repo(role)
	if err != nil {
		return nil, err
	}

	identity, err := repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if role == RolePatient && !utils.CheckPassword(credential, identity.PasswordHash) {
		return nil, ErrUnauthorized
	}
	if identity.ActiveSession && !force {
		return nil, ErrSessionConflict
	}

	token := utils.NewSessionToken()
	claimed, err := repo.StartSession(ctx, identity.ID, token, force)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// A concurrent login won the slot between our read and the write.
		return nil, ErrSessionConflict
	}

	g.log.Info().Str("role", string(role)).Uint("id", identity.ID).Bool("forced", force).Msg("session started")
	return &Session{Role: role, ID: identity.ID, Token: token}, nil
}

// Validate succeeds only if the stored token for the identity exactly matches
// the presented one. A revoked or superseded token never validates. There is
// no expiry to refresh; sessions end only by explicit revocation.
func (g *Guard) Validate(ctx context.Context, role Role, id uint, token string) error {
	repo, err := g.repo(role)
	if err != nil {
		return err
	}
	stored, err := repo.CurrentToken(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidSession
		}
		return err
	}
	if stored == nil || *stored != token {
		return ErrInvalidSession
	}
	return nil
}

// Revoke ends the identity's session. It is idempotent: revoking an identity
// with no active session is not an error.
func (g *Guard) Revoke(ctx context.Context, role Role, id uint) error {
	repo, err := g.repo(role)
	if err != nil {
		return err
	}
	if err := repo.ClearSession(ctx, id); err != nil {
		return err
	}
	g.log.Info().Str("role", string(role)).Uint("id", id).Msg("session revoked")
	return nil
}
