package gormstore

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-console/internal/domain/user"
	apperrors "user-console/pkg/errors"
)

// UserRepo stores the users served by the development users API.
type UserRepo struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema represents the database schema for the users table. Address and
// company are flattened into columns.
type UserSchema struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"not null"`
	Username    string `gorm:"not null"`
	Email       string `gorm:"not null;index"`
	Phone       string
	Website     string
	Street      string
	Suite       string
	City        string
	Zipcode     string
	CompanyName string
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func toSchema(u user.User) UserSchema {
	return UserSchema{
		ID:          u.ID,
		Name:        u.Name,
		Username:    u.Username,
		Email:       u.Email,
		Phone:       u.Phone,
		Website:     u.Website,
		Street:      u.Address.Street,
		Suite:       u.Address.Suite,
		City:        u.Address.City,
		Zipcode:     u.Address.Zipcode,
		CompanyName: u.Company.Name,
	}
}

func (m UserSchema) toDomain() user.User {
	return user.User{
		ID:       m.ID,
		Name:     m.Name,
		Username: m.Username,
		Email:    m.Email,
		Phone:    m.Phone,
		Website:  m.Website,
		Address: user.Address{
			Street:  m.Street,
			Suite:   m.Suite,
			City:    m.City,
			Zipcode: m.Zipcode,
		},
		Company: user.Company{Name: m.CompanyName},
	}
}

// Migrate creates or updates the users table.
func (r *UserRepo) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Create inserts a new user. Any id on u is ignored.
func (r *UserRepo) Create(ctx context.Context, u user.User) (*user.User, error) {
	model := toSchema(u)
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	created := model.toDomain()
	return &created, nil
}

// Update replaces every column of an existing user.
func (r *UserRepo) Update(ctx context.Context, id int64, u user.User) (*user.User, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("id", "invalid user id")
	}

	model := toSchema(u)
	model.ID = id

	res := r.db.WithContext(ctx).Model(&UserSchema{ID: id}).Select("*").Updates(&model)
	if res.Error != nil {
		r.log.Error("failed to update user in db", zap.Error(res.Error), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		r.log.Warn("user not found", zap.Int64("id", id))
		return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
	}

	r.log.Info("user updated in db", zap.Int64("id", id))
	updated := model.toDomain()
	return &updated, nil
}

// Delete removes a user from the database by ID.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.NewValidationError("id", "invalid user id")
	}

	res := r.db.WithContext(ctx).Delete(&UserSchema{}, id)
	if res.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(res.Error), zap.Int64("id", id))
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		r.log.Warn("user not found", zap.Int64("id", id))
		return apperrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return nil
}

// GetByID retrieves a user from the database by their unique ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user not found", zap.Int64("id", id))
			return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u := model.toDomain()
	return &u, nil
}

// List returns every user ordered by id. A non-empty email keeps exact matches only.
func (r *UserRepo) List(ctx context.Context, email string) ([]user.User, error) {
	q := r.db.WithContext(ctx).Order("id")
	if email != "" {
		q = q.Where("email = ?", email)
	}

	var models []UserSchema
	if err := q.Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i, model := range models {
		users[i] = model.toDomain()
	}
	return users, nil
}

// Count returns the number of stored users.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// Seed inserts users, keeping their ids, when the table is empty. It reports
// whether anything was inserted.
func (r *UserRepo) Seed(ctx context.Context, users []user.User) (bool, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	models := make([]UserSchema, len(users))
	for i, u := range users {
		models[i] = toSchema(u)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models).Error; err != nil {
			return err
		}
		// explicit ids leave the postgres sequence behind
		if tx.Dialector.Name() == "postgres" {
			return tx.Exec("SELECT setval(pg_get_serial_sequence('users', 'id'), (SELECT MAX(id) FROM users))").Error
		}
		return nil
	})
	if err != nil {
		r.log.Error("failed to seed users", zap.Error(err))
		return false, fmt.Errorf("failed to seed users: %w", err)
	}

	r.log.Info("users seeded", zap.Int("count", len(models)))
	return true, nil
}
