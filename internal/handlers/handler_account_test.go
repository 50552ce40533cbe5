package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	portssvc "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/services"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/dto"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/handlers"
	"github.com/pedrojuniorgyn/AuraCore-sub015/pkg/config"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.ChartAccount, error) {
	args := m.Called(ctx, organizationID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartAccount), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, organizationID, accountID string) (*domain.ChartAccount, error) {
	args := m.Called(ctx, organizationID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartAccount), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, organizationID string) ([]domain.ChartAccount, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChartAccount), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	jwtSecret          string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *AccountHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "auracore-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockAccountService = new(MockAccountService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		IsProduction: true, // skip swagger registration
	}
	services := &portssvc.ServiceContainer{
		Account: suite.mockAccountService,
	}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *AccountHandlerTestSuite) doRequest(method, url string, body []byte, userID string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	orgID := uuid.NewString()
	userID := uuid.NewString()

	reqBody := dto.CreateAccountRequest{
		Code:         "1.1.01.001",
		Name:         "Caixa",
		AccountType:  domain.Asset,
		IsAnalytical: true,
	}
	created := &domain.ChartAccount{
		AccountID:      uuid.NewString(),
		OrganizationID: orgID,
		Code:           reqBody.Code,
		Name:           reqBody.Name,
		AccountType:    domain.Asset,
		IsAnalytical:   true,
		IsActive:       true,
	}

	suite.mockAccountService.On("CreateAccount",
		mock.Anything, orgID, reqBody, userID,
	).Return(created, nil).Once()

	body, _ := json.Marshal(reqBody)
	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/organizations/%s/accounts", orgID), body, userID)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.AccountResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.AccountID, resp.AccountID)
	suite.Equal("1.1.01.001", resp.Code)
	suite.True(resp.IsAnalytical)

	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateCode() {
	orgID := uuid.NewString()
	userID := uuid.NewString()

	reqBody := dto.CreateAccountRequest{
		Code:         "1.1.01.001",
		Name:         "Caixa",
		AccountType:  domain.Asset,
		IsAnalytical: true,
	}

	suite.mockAccountService.On("CreateAccount",
		mock.Anything, orgID, reqBody, userID,
	).Return(nil, fmt.Errorf("account code 1.1.01.001: %w", apperrors.ErrDuplicate)).Once()

	body, _ := json.Marshal(reqBody)
	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/organizations/%s/accounts", orgID), body, userID)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_InvalidBody() {
	orgID := uuid.NewString()
	userID := uuid.NewString()

	// AccountType outside the allowed set fails binding before the service runs.
	body := []byte(`{"code":"1.1","name":"X","accountType":"SOMETHING"}`)
	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/organizations/%s/accounts", orgID), body, userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Unauthorized() {
	orgID := uuid.NewString()

	body, _ := json.Marshal(dto.CreateAccountRequest{Code: "1.1", Name: "X", AccountType: domain.Asset})
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/organizations/%s/accounts", orgID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	orgID := uuid.NewString()
	userID := uuid.NewString()
	accountID := uuid.NewString()

	suite.mockAccountService.On("GetAccountByID",
		mock.Anything, orgID, accountID,
	).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, fmt.Sprintf("/api/v1/organizations/%s/accounts/%s", orgID, accountID), nil, userID)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestListAccounts_Success() {
	orgID := uuid.NewString()
	userID := uuid.NewString()

	accounts := []domain.ChartAccount{
		{AccountID: uuid.NewString(), Code: "1", Name: "Ativo", AccountType: domain.Asset, IsActive: true},
		{AccountID: uuid.NewString(), Code: "1.1.01.001", Name: "Caixa", AccountType: domain.Asset, IsAnalytical: true, IsActive: true},
	}

	suite.mockAccountService.On("ListAccounts", mock.Anything, orgID).Return(accounts, nil).Once()

	w := suite.doRequest(http.MethodGet, fmt.Sprintf("/api/v1/organizations/%s/accounts", orgID), nil, userID)

	suite.Equal(http.StatusOK, w.Code)

	var resp []dto.AccountResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 2)
	suite.Equal("1", resp[0].Code)
	suite.Equal("1.1.01.001", resp[1].Code)

	suite.mockAccountService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
