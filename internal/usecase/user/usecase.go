package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-console/internal/domain/session"
	domain "user-console/internal/domain/user"
	apperrors "user-console/pkg/errors"
	"user-console/pkg/logger"
	"user-console/pkg/security"
)

// Messages shown to the operator. Remote failures are never retried.
const (
	LoadFailedMessage   = "Failed to load users. Please try again later."
	CreateFailedMessage = "Failed to create user"
	UpdateFailedPrefix  = "Failed to update user"
	DeleteFailedPrefix  = "Failed to delete user"
)

// ErrLoadFailed marks a failed GET /users.
var ErrLoadFailed = errors.New("failed to load users")

// Service implements Usecase over a remote Repository. All list state lives
// in the session passed to each call.
type Service struct {
	repo     Repository          // remote users API
	log      *zap.Logger         // structured logger
	validate *validator.Validate // form validation
	group    singleflight.Group  // collapses concurrent loads per session
}

// New creates a new Service with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: newValidator()}
}

var _ Usecase = (*Service)(nil)

// LoadUsers fetches the remote list into the session unless it is already
// loaded. force refetches, which is what the "Try Again" button does.
func (s *Service) LoadUsers(ctx context.Context, st *session.State, force bool) error {
	if st.Loaded && !force {
		return nil
	}

	log := logger.WithContext(ctx, s.log)

	// callers share the flight; one going away must not fail the rest
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(st.ID, func() (any, error) {
		return s.repo.GetAll(flightCtx)
	})
	if err != nil {
		log.Error("failed to fetch users", zap.Error(err))
		st.Unload()
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	users := v.([]domain.User)
	st.SetUsers(users)
	log.Info("users loaded", zap.Int("count", len(users)), zap.Bool("shared", shared))
	return nil
}

// ListUsers applies the list interactions to the session's view state and
// returns the filtered, sorted projection.
func (s *Service) ListUsers(ctx context.Context, st *session.State, in ListUsersRequest) (*ListUsersResponse, error) {
	if err := s.LoadUsers(ctx, st, false); err != nil {
		return nil, err
	}

	view := &st.View
	if in.ReadOnly {
		cp := st.View
		view = &cp
	}
	switch {
	case in.ClearSearch:
		view.ClearSearch()
	case in.Search != nil:
		view.SetSearch(security.NormalizeSearchTerm(*in.Search))
	}

	if in.ToggleSort != "" {
		if field, ok := domain.ParseSortField(in.ToggleSort); ok {
			view.ToggleSort(field)
		}
	}

	if in.SortField != "" {
		if field, ok := domain.ParseSortField(in.SortField); ok {
			view.SortField = field
			view.SortDirection = domain.ParseSortDirection(in.SortDirection)
		}
	}

	if mode, ok := domain.ParseViewMode(in.Mode); ok {
		view.SetMode(mode)
	} else if in.MobileHint && !view.ModeChosen {
		view.Mode = domain.ModeCards
	}

	all := st.Directory.Users()
	users := domain.Project(all, *view)

	logger.WithContext(ctx, s.log).Debug("listing users",
		zap.String("search", view.Search),
		zap.String("sort_field", string(view.SortField)),
		zap.String("sort_direction", string(view.SortDirection)),
		zap.Int("shown", len(users)),
		zap.Int("total", len(all)),
	)

	return &ListUsersResponse{
		Users: users,
		Total: len(all),
		View:  *view,
		Empty: len(users) == 0,
	}, nil
}

// GetUser returns a user of the session list.
func (s *Service) GetUser(ctx context.Context, st *session.State, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("id", "invalid user id")
	}
	if err := s.LoadUsers(ctx, st, false); err != nil {
		return nil, err
	}

	u, ok := st.Directory.Find(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
	}
	return &u, nil
}

// CreateUser validates the input, posts it and appends the submitted values
// under the server-assigned id.
func (s *Service) CreateUser(ctx context.Context, st *session.State, in CreateUserRequest) (*domain.User, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := s.validate.Struct(in.UserInput); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}
	if err := s.LoadUsers(ctx, st, false); err != nil {
		return nil, err
	}

	if existing, ok := st.Directory.FindByEmail(in.Email); ok {
		log.Warn("email already exists", zap.String("email", in.Email), zap.Int64("existing_id", existing.ID))
		return nil, apperrors.NewAlreadyExistsError("user", "email already exists")
	}

	created, err := s.repo.Create(ctx, in.toUser(0))
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", CreateFailedMessage, err)
	}
	if created == nil || created.ID <= 0 {
		log.Error("users API returned no id for created user")
		return nil, apperrors.NewInternalError(CreateFailedMessage, errors.New("missing id in response"))
	}

	if existing, ok := st.Directory.Find(created.ID); ok {
		log.Error("users API returned an id already in the list",
			zap.Int64("id", created.ID), zap.String("existing_name", existing.Name))
		return nil, apperrors.NewInternalError(CreateFailedMessage,
			fmt.Errorf("users API returned id %d which is already in use", created.ID))
	}

	u := in.toUser(created.ID)
	st.Directory.Append(u)

	log.Info("user created", zap.Int64("id", u.ID))
	return &u, nil
}

// UpdateUser validates the input, puts the full body and replaces the local
// record. The id always comes from the path.
func (s *Service) UpdateUser(ctx context.Context, st *session.State, in UpdateUserRequest) (*domain.User, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("updating user", zap.Int64("id", in.ID), zap.String("name", in.Name), zap.String("email", in.Email))

	if err := s.validate.Struct(in.UserInput); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	if _, err := s.GetUser(ctx, st, in.ID); err != nil {
		return nil, err
	}

	if existing, ok := st.Directory.FindByEmail(in.Email); ok && existing.ID != in.ID {
		log.Warn("email already exists", zap.String("email", in.Email), zap.Int64("existing_id", existing.ID))
		return nil, apperrors.NewAlreadyExistsError("user", "email already exists")
	}

	u := in.toUser(in.ID)
	if _, err := s.repo.UpdateByID(ctx, in.ID, u); err != nil {
		log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", UpdateFailedPrefix, err)
	}

	st.Directory.Replace(u)
	return &u, nil
}

// DeleteUser deletes the user remotely, then drops exactly that id locally.
func (s *Service) DeleteUser(ctx context.Context, st *session.State, id int64) error {
	log := logger.WithContext(ctx, s.log)
	log.Info("deleting user", zap.Int64("id", id))

	if _, err := s.GetUser(ctx, st, id); err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		log.Error("failed to delete user", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("%s: %w", DeleteFailedPrefix, err)
	}

	st.Directory.Remove(id)
	return nil
}

// FindByEmail looks a user up on the remote side by exact email.
func (s *Service) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	if email == "" {
		return nil, apperrors.NewValidationError("email", "email is required")
	}

	users, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		logger.WithContext(ctx, s.log).Error("failed to look up user by email", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return users, nil
}
