package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/kuiz-api/internal/pkg/errors"
)

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func strPtr(s string) *string { return &s }

// ============================================================================
// AdminService
// ============================================================================

func TestAdminService_Register_HashesWithDefaultCost(t *testing.T) {
	// Arrange
	adminRepo := new(MockAdminRepository)
	tokens := new(MockTokenIssuer)
	svc := NewAdminService(adminRepo, tokens, 0)

	var stored *entity.Admin
	adminRepo.On("Create", mock.AnythingOfType("*entity.Admin")).
		Run(func(args mock.Arguments) {
			stored = args.Get(0).(*entity.Admin)
			stored.ID = 7
		}).Return(nil)
	tokens.On("GenerateToken", uint(7), entity.RoleAdmin).Return("admin-token", nil)

	// Act
	result, err := svc.Register(RegisterInput{Email: "  Admin@Example.com ", Password: "secret123", Name: "Root"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "admin-token", result.AccessToken)
	assert.Equal(t, "admin@example.com", stored.Email, "Email должен быть нормализован")
	assert.NotEqual(t, "secret123", stored.Password, "Пароль не должен храниться в открытом виде")
	cost, err := bcrypt.Cost([]byte(stored.Password))
	require.NoError(t, err)
	assert.Equal(t, 10, cost, "Стоимость bcrypt по умолчанию должна быть 10")
	adminRepo.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestAdminService_Register_DuplicateEmail(t *testing.T) {
	// Arrange
	adminRepo := new(MockAdminRepository)
	tokens := new(MockTokenIssuer)
	svc := NewAdminService(adminRepo, tokens, bcrypt.MinCost)

	adminRepo.On("Create", mock.Anything).Return(nil).Once()
	adminRepo.On("Create", mock.Anything).
		Return(fmt.Errorf("%w: admin with email a@example.com already exists", apperrors.ErrConflict)).Once()
	tokens.On("GenerateToken", mock.Anything, entity.RoleAdmin).Return("t", nil).Once()

	input := RegisterInput{Email: "a@example.com", Password: "secret123", Name: "A"}

	// Act
	_, firstErr := svc.Register(input)
	_, secondErr := svc.Register(input)

	// Assert
	assert.NoError(t, firstErr)
	assert.ErrorIs(t, secondErr, apperrors.ErrConflict, "Повторная регистрация должна давать Conflict")
	tokens.AssertNumberOfCalls(t, "GenerateToken", 1)
}

func TestAdminService_Register_Validation(t *testing.T) {
	svc := NewAdminService(new(MockAdminRepository), new(MockTokenIssuer), bcrypt.MinCost)

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{name: "empty email", input: RegisterInput{Password: "secret123", Name: "A"}},
		{name: "bad email", input: RegisterInput{Email: "not-an-email", Password: "secret123", Name: "A"}},
		{name: "short password", input: RegisterInput{Email: "a@example.com", Password: "123", Name: "A"}},
		{name: "empty name", input: RegisterInput{Email: "a@example.com", Password: "secret123", Name: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.input)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestAdminService_Login(t *testing.T) {
	// Arrange
	adminRepo := new(MockAdminRepository)
	tokens := new(MockTokenIssuer)
	svc := NewAdminService(adminRepo, tokens, bcrypt.MinCost)

	admin := &entity.Admin{ID: 3, Email: "a@example.com", Password: mustHash(t, "secret123")}
	adminRepo.On("GetByEmail", "a@example.com").Return(admin, nil)
	tokens.On("GenerateToken", uint(3), entity.RoleAdmin).Return("admin-token", nil)

	// Act
	result, err := svc.Login("A@example.com", "secret123")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "admin-token", result.AccessToken)
	assert.Equal(t, admin, result.Account)
}

func TestAdminService_Update_RehashesPassword(t *testing.T) {
	// Arrange
	adminRepo := new(MockAdminRepository)
	svc := NewAdminService(adminRepo, new(MockTokenIssuer), bcrypt.MinCost)

	admin := &entity.Admin{ID: 1, Email: "a@example.com", Name: "Old", Password: mustHash(t, "old-password")}
	adminRepo.On("GetByID", uint(1)).Return(admin, nil)
	adminRepo.On("Update", admin).Return(nil)

	// Act
	updated, err := svc.Update(1, AccountPatch{Name: strPtr("New"), Password: strPtr("new-password")})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "a@example.com", updated.Email, "Email не задан в patch и не должен меняться")
	assert.NotEqual(t, "new-password", updated.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("new-password")))
}

func TestAdminService_Update_NotFound(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	svc := NewAdminService(adminRepo, new(MockTokenIssuer), bcrypt.MinCost)
	adminRepo.On("GetByID", uint(9)).Return(nil, errNotFound)

	_, err := svc.Update(9, AccountPatch{Name: strPtr("X")})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// ============================================================================
// UserService
// ============================================================================

func newTestUserService() (*UserService, *MockUserRepository, *MockAdminRepository, *MockTokenIssuer, *MockAccountNotifier) {
	userRepo := new(MockUserRepository)
	adminRepo := new(MockAdminRepository)
	tokens := new(MockTokenIssuer)
	notifier := new(MockAccountNotifier)
	return NewUserService(userRepo, adminRepo, tokens, notifier, bcrypt.MinCost), userRepo, adminRepo, tokens, notifier
}

func TestUserService_Register_SetsPasswordChanged(t *testing.T) {
	// Arrange
	svc, userRepo, _, tokens, notifier := newTestUserService()
	var stored *entity.User
	userRepo.On("Create", mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			stored = args.Get(0).(*entity.User)
			stored.ID = 11
		}).Return(nil)
	tokens.On("GenerateToken", uint(11), entity.RoleUser).Return("user-token", nil)

	// Act
	result, err := svc.Register(RegisterInput{Email: "u@example.com", Password: "secret123", Name: "U"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "user-token", result.AccessToken)
	assert.True(t, stored.PasswordChanged, "Самостоятельно выбранный пароль не требует смены")
	notifier.AssertNotCalled(t, "SendAccountCreated", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Create_NotifiesWithoutToken(t *testing.T) {
	// Arrange
	svc, userRepo, _, tokens, notifier := newTestUserService()
	userRepo.On("Create", mock.AnythingOfType("*entity.User")).Return(nil)
	notifier.On("SendAccountCreated", mock.Anything, "u@example.com", "U").Return(nil)

	// Act
	user, err := svc.Create(RegisterInput{Email: "u@example.com", Password: "secret123", Name: "U"})

	// Assert
	require.NoError(t, err)
	assert.False(t, user.PasswordChanged, "Пароль, заданный администратором, нужно сменить")
	assert.True(t, user.MustChangePassword())
	tokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
	notifier.AssertExpectations(t)
}

func TestUserService_Create_NotifierFailureIsIgnored(t *testing.T) {
	svc, userRepo, _, _, notifier := newTestUserService()
	userRepo.On("Create", mock.Anything).Return(nil)
	notifier.On("SendAccountCreated", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("resend down"))

	user, err := svc.Create(RegisterInput{Email: "u@example.com", Password: "secret123", Name: "U"})

	require.NoError(t, err, "Ошибка отправки письма не должна ломать создание")
	assert.NotNil(t, user)
}

func TestUserService_Login_UniformFailure(t *testing.T) {
	// Arrange
	svc, userRepo, _, tokens, _ := newTestUserService()
	userRepo.On("GetByEmail", "known@example.com").
		Return(&entity.User{ID: 1, Email: "known@example.com", Password: mustHash(t, "right-password")}, nil)
	userRepo.On("GetByEmail", "unknown@example.com").Return(nil, errNotFound)

	// Act
	_, wrongPasswordErr := svc.Login("known@example.com", "wrong-password")
	_, unknownEmailErr := svc.Login("unknown@example.com", "right-password")

	// Assert
	assert.ErrorIs(t, wrongPasswordErr, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, unknownEmailErr, apperrors.ErrUnauthorized)
	assert.Equal(t, wrongPasswordErr.Error(), unknownEmailErr.Error(), "Ошибки не должны раскрывать причину отказа")
	tokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}

func TestUserService_Login_ReturnsPasswordChangedFlag(t *testing.T) {
	svc, userRepo, _, tokens, _ := newTestUserService()
	user := &entity.User{ID: 5, Email: "u@example.com", Password: mustHash(t, "secret123"), PasswordChanged: false}
	userRepo.On("GetByEmail", "u@example.com").Return(user, nil)
	tokens.On("GenerateToken", uint(5), entity.RoleUser).Return("tok", nil)

	result, err := svc.Login("u@example.com", "secret123")

	require.NoError(t, err)
	loggedIn, ok := result.Account.(*entity.User)
	require.True(t, ok)
	assert.True(t, loggedIn.MustChangePassword())
}

func TestUserService_Login_RepositoryFailure(t *testing.T) {
	svc, userRepo, _, _, _ := newTestUserService()
	userRepo.On("GetByEmail", "u@example.com").Return(nil, errors.New("connection refused"))

	_, err := svc.Login("u@example.com", "secret123")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrUnauthorized, "Сбой хранилища не должен выглядеть как неверный пароль")
}

func TestUserService_ChangePassword(t *testing.T) {
	t.Run("same password rejected", func(t *testing.T) {
		svc, userRepo, _, _, _ := newTestUserService()
		userRepo.On("GetByEmail", "u@example.com").
			Return(&entity.User{ID: 1, Password: mustHash(t, "current-pass")}, nil)

		_, err := svc.ChangePassword("u@example.com", "current-pass")

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.ErrorIs(t, err, ErrSamePassword)
		userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
	})

	t.Run("different password flips flag", func(t *testing.T) {
		svc, userRepo, _, _, _ := newTestUserService()
		userRepo.On("GetByEmail", "u@example.com").
			Return(&entity.User{ID: 1, Password: mustHash(t, "current-pass")}, nil)
		userRepo.On("UpdatePassword", uint(1), mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("brand-new-pass")) == nil
		})).Return(nil)

		user, err := svc.ChangePassword("u@example.com", "brand-new-pass")

		require.NoError(t, err)
		assert.True(t, user.PasswordChanged)
		userRepo.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, userRepo, _, _, _ := newTestUserService()
		userRepo.On("GetByEmail", "ghost@example.com").Return(nil, errNotFound)

		_, err := svc.ChangePassword("ghost@example.com", "brand-new-pass")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_Update_OwnershipRules(t *testing.T) {
	t.Run("user cannot patch another user", func(t *testing.T) {
		svc, userRepo, _, _, _ := newTestUserService()

		_, err := svc.Update(2, AccountPatch{Name: strPtr("X")}, &Caller{ID: 1, Role: entity.RoleUser})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		userRepo.AssertNotCalled(t, "GetByID", mock.Anything)
	})

	t.Run("user patches own password", func(t *testing.T) {
		svc, userRepo, _, _, _ := newTestUserService()
		user := &entity.User{ID: 1, Email: "u@example.com", Name: "U", Password: mustHash(t, "old-password")}
		userRepo.On("GetByID", uint(1)).Return(user, nil)
		userRepo.On("Update", user).Return(nil)

		updated, err := svc.Update(1, AccountPatch{Password: strPtr("new-password")}, &Caller{ID: 1, Role: entity.RoleUser})

		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("new-password")),
			"Новый пароль должен быть захеширован")
		assert.True(t, updated.PasswordChanged)
	})

	t.Run("admin resets password", func(t *testing.T) {
		svc, userRepo, _, _, _ := newTestUserService()
		user := &entity.User{ID: 4, Email: "u@example.com", Name: "U", PasswordChanged: true}
		userRepo.On("GetByID", uint(4)).Return(user, nil)
		userRepo.On("Update", user).Return(nil)

		updated, err := svc.Update(4, AccountPatch{Password: strPtr("temp-password"), Email: strPtr("NEW@example.com")},
			&Caller{ID: 1, Role: entity.RoleAdmin})

		require.NoError(t, err)
		assert.False(t, updated.PasswordChanged)
		assert.Equal(t, "new@example.com", updated.Email)
	})
}

func TestUserService_Me(t *testing.T) {
	svc, userRepo, adminRepo, _, _ := newTestUserService()
	adminRepo.On("GetByID", uint(1)).Return(&entity.Admin{ID: 1, Name: "Root"}, nil)
	userRepo.On("GetByID", uint(2)).Return(&entity.User{ID: 2, Name: "U"}, nil)

	adminAccount, err := svc.Me(&Caller{ID: 1, Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, adminAccount.Role())

	userAccount, err := svc.Me(&Caller{ID: 2, Role: entity.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, userAccount.Role())
}

func TestUserService_Remove(t *testing.T) {
	svc, userRepo, _, _, _ := newTestUserService()
	userRepo.On("Delete", uint(3)).Return(nil)
	userRepo.On("Delete", uint(4)).Return(errNotFound)

	assert.NoError(t, svc.Remove(3))
	assert.ErrorIs(t, svc.Remove(4), apperrors.ErrNotFound)
}
