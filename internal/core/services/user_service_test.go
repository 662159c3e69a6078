package services_test

import (
	"context"
	"testing"

	"github.com/hdtransit/erp_backend/internal/apperrors"
	"github.com/hdtransit/erp_backend/internal/core/domain"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/core/services"
	"github.com/hdtransit/erp_backend/internal/dto"
	"github.com/hdtransit/erp_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo    *MockUserRepository
	mockCompanyRepo *MockCompanyRepository
	mockTxnRepo     *MockTransactionRepository
	mockInvoiceRepo *MockInvoiceRepository
	mockEntryRepo   *MockDataEntryRepository
	service         portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	admin, member, outsider := fixtureUsers()
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockCompanyRepo = new(MockCompanyRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockEntryRepo = new(MockDataEntryRepository)
	suite.service = services.NewUserService(suite.mockUserRepo, accessFor(admin, member, outsider),
		services.WithUserCompanyReader(suite.mockCompanyRepo),
		services.WithUserActivityReaders(suite.mockTxnRepo, suite.mockInvoiceRepo, suite.mockEntryRepo),
	)
}

// --- CreateUser Tests ---
func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Name: " New Clerk ", Email: "Clerk@HDTransit.com", Password: "secret1"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "clerk@hdtransit.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, int64(1)).Return(&domain.Company{CompanyID: 1}, nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "clerk@hdtransit.com" && u.Role == domain.RoleUser && u.CompanyID == 1 &&
			u.PasswordHash != "" && u.PasswordHash != "secret1"
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, adminID, req)

	suite.Require().NoError(err)
	suite.Equal("New Clerk", user.Name)
	suite.Equal(domain.StatusActive, user.Status)
	suite.True(utils.CheckPasswordHash("secret1", user.PasswordHash))
	suite.NotEmpty(user.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockCompanyRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateEmail() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Name: "Dup", Email: "user@hdtransit.com", Password: "secret1"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "user@hdtransit.com").Return(&domain.User{UserID: memberID}, nil).Once()

	user, err := suite.service.CreateUser(ctx, adminID, req)

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_UnknownCompany() {
	ctx := context.Background()
	company := int64(99)
	req := dto.CreateUserRequest{Name: "X", Email: "x@example.com", Password: "secret1", CompanyID: &company}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "x@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, int64(99)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateUser(ctx, adminID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *UserServiceTestSuite) TestCreateUser_NonAdminForbidden() {
	_, err := suite.service.CreateUser(context.Background(), memberID, dto.CreateUserRequest{Email: "a@b.c", Password: "secret1"})
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestCreateUser_SaveError() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Name: "Err", Email: "err@example.com", Password: "secret1"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "err@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, int64(1)).Return(&domain.Company{CompanyID: 1}, nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(assert.AnError).Once()

	user, err := suite.service.CreateUser(ctx, adminID, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, assert.AnError)
}

// --- GetUserByID Tests ---
func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.GetUserByID(ctx, "missing")

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- ListUsers Tests ---
func (suite *UserServiceTestSuite) TestListUsers_DefaultsLimit() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUsers", ctx, (*int64)(nil), 50, 0).Return(nil, nil).Once()

	users, err := suite.service.ListUsers(ctx, adminID, dto.ListUsersParams{})

	suite.Require().NoError(err)
	suite.NotNil(users)
	suite.Empty(users)
}

func (suite *UserServiceTestSuite) TestListUsers_NonAdminForbidden() {
	_, err := suite.service.ListUsers(context.Background(), memberID, dto.ListUsersParams{})
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- GetUserSummary Tests ---
func (suite *UserServiceTestSuite) TestGetUserSummary_Counts() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, memberID).Return(&domain.User{UserID: memberID, Name: "User Test"}, nil).Once()
	suite.mockTxnRepo.On("CountTransactionsByUser", ctx, memberID).Return(12, nil).Once()
	suite.mockInvoiceRepo.On("CountInvoicesByUser", ctx, memberID).Return(3, nil).Once()
	suite.mockEntryRepo.On("CountDataEntriesByUser", ctx, memberID).Return(5, nil).Once()

	summary, err := suite.service.GetUserSummary(ctx, adminID, memberID)

	suite.Require().NoError(err)
	suite.Equal("User Test", summary.User.Name)
	suite.Equal(12, summary.TransactionCount)
	suite.Equal(3, summary.InvoiceCount)
	suite.Equal(5, summary.DataEntryCount)
}

// --- UpdateUser Tests ---
func (suite *UserServiceTestSuite) TestUpdateUser_AppliesFields() {
	ctx := context.Background()
	name, status, role := "Renamed", "inactive", "admin"
	suite.mockUserRepo.On("FindUserByID", ctx, memberID).Return(&domain.User{UserID: memberID, Email: "user@hdtransit.com", Role: domain.RoleUser, CompanyID: 1, Status: domain.StatusActive}, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Name == "Renamed" && u.Status == domain.StatusInactive && u.Role == domain.RoleAdmin && u.LastUpdatedBy == adminID
	})).Return(nil).Once()

	user, err := suite.service.UpdateUser(ctx, adminID, memberID, dto.UpdateUserRequest{Name: &name, Status: &status, Role: &role})

	suite.Require().NoError(err)
	suite.Equal("Renamed", user.Name)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateUser_EmailTaken() {
	ctx := context.Background()
	email := "admin@hdtransit.com"
	suite.mockUserRepo.On("FindUserByID", ctx, memberID).Return(&domain.User{UserID: memberID, Email: "user@hdtransit.com"}, nil).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(&domain.User{UserID: adminID}, nil).Once()

	_, err := suite.service.UpdateUser(ctx, adminID, memberID, dto.UpdateUserRequest{Email: &email})

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

// --- DeleteUser Tests ---
func (suite *UserServiceTestSuite) TestDeleteUser_Self() {
	err := suite.service.DeleteUser(context.Background(), adminID, adminID)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Contains(err.Error(), "your own account")
}

func (suite *UserServiceTestSuite) TestDeleteUser_OtherAdmin() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, "admin-2").Return(&domain.User{UserID: "admin-2", Role: domain.RoleAdmin}, nil).Once()

	err := suite.service.DeleteUser(ctx, adminID, "admin-2")

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "DeleteUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestDeleteUser_Success() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, memberID).Return(&domain.User{UserID: memberID, Role: domain.RoleUser}, nil).Once()
	suite.mockUserRepo.On("DeleteUser", ctx, memberID).Return(nil).Once()

	suite.NoError(suite.service.DeleteUser(ctx, adminID, memberID))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
