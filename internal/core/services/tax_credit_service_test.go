package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	portsrepo "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/repositories"
	portssvc "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/services"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/services"
)

// --- Mock TaxCreditRepository ---
type MockTaxCreditRepository struct {
	mock.Mock
}

var _ portsrepo.TaxCreditRepositoryFacade = (*MockTaxCreditRepository)(nil)

func (m *MockTaxCreditRepository) GetPendingDocuments(ctx context.Context, organizationID string) ([]string, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTaxCreditRepository) GetFiscalDocumentData(ctx context.Context, documentID, organizationID string) (*domain.FiscalDocumentData, error) {
	args := m.Called(ctx, documentID, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalDocumentData), args.Error(1)
}

func (m *MockTaxCreditRepository) GetCreditAccounts(ctx context.Context, organizationID string) (*domain.CreditAccounts, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditAccounts), args.Error(1)
}

func (m *MockTaxCreditRepository) RegisterCredit(ctx context.Context, credit domain.TaxCredit, userID, organizationID string) (bool, error) {
	args := m.Called(ctx, credit, userID, organizationID)
	return args.Bool(0), args.Error(1)
}

// --- Test Suite Setup ---
type TaxCreditServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockTaxCreditRepository
	service        portssvc.TaxCreditSvcFacade
	organizationID string
	userID         string
}

func (suite *TaxCreditServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTaxCreditRepository)
	calculator := services.NewTaxCreditCalculator(
		decimal.RequireFromString("0.0165"),
		decimal.RequireFromString("0.076"),
	)
	suite.service = services.NewTaxCreditService(suite.mockRepo, calculator)
	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *TaxCreditServiceTestSuite) eligibleDocument(id, amount string) *domain.FiscalDocumentData {
	return &domain.FiscalDocumentData{
		DocumentID:   id,
		DocumentType: domain.NFE,
		CFOP:         "1102",
		NetAmount:    domain.MustMoney(amount, "BRL"),
	}
}

// --- Test Cases ---

func (suite *TaxCreditServiceTestSuite) TestProcessTaxCredits_Success() {
	ctx := context.Background()
	suite.mockRepo.On("GetPendingDocuments", ctx, suite.organizationID).Return([]string{"doc-1"}, nil).Once()
	suite.mockRepo.On("GetFiscalDocumentData", ctx, "doc-1", suite.organizationID).Return(suite.eligibleDocument("doc-1", "1000.00"), nil).Once()

	var registered domain.TaxCredit
	suite.mockRepo.On("RegisterCredit", ctx, mock.AnythingOfType("domain.TaxCredit"), suite.userID, suite.organizationID).
		Run(func(args mock.Arguments) {
			registered = args.Get(1).(domain.TaxCredit)
		}).Return(true, nil).Once()

	result, err := suite.service.ProcessTaxCredits(ctx, suite.organizationID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Processed)
	suite.Empty(result.Errors)
	suite.Equal("92.50", result.TotalCredit.StringFixed(2))

	suite.Equal("doc-1", registered.FiscalDocumentID)
	suite.Equal("16.50", registered.PISCredit.Amount().StringFixed(2))
	suite.Equal("76.00", registered.COFINSCredit.Amount().StringFixed(2))

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TaxCreditServiceTestSuite) TestProcessTaxCredits_IneligibleSkipped() {
	ctx := context.Background()
	ineligible := &domain.FiscalDocumentData{
		DocumentID:   "doc-cte",
		DocumentType: domain.CTE,
		CFOP:         "1102",
		NetAmount:    domain.MustMoney("500.00", "BRL"),
	}
	suite.mockRepo.On("GetPendingDocuments", ctx, suite.organizationID).Return([]string{"doc-cte"}, nil).Once()
	suite.mockRepo.On("GetFiscalDocumentData", ctx, "doc-cte", suite.organizationID).Return(ineligible, nil).Once()

	result, err := suite.service.ProcessTaxCredits(ctx, suite.organizationID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(0, result.Processed)
	suite.Empty(result.Errors)
	suite.mockRepo.AssertNotCalled(suite.T(), "RegisterCredit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TaxCreditServiceTestSuite) TestProcessTaxCredits_AlreadyProcessedSkipped() {
	ctx := context.Background()
	suite.mockRepo.On("GetPendingDocuments", ctx, suite.organizationID).Return([]string{"doc-1"}, nil).Once()
	suite.mockRepo.On("GetFiscalDocumentData", ctx, "doc-1", suite.organizationID).Return(suite.eligibleDocument("doc-1", "1000.00"), nil).Once()
	// A concurrent run won the unique-index race: not an error.
	suite.mockRepo.On("RegisterCredit", ctx, mock.AnythingOfType("domain.TaxCredit"), suite.userID, suite.organizationID).Return(false, nil).Once()

	result, err := suite.service.ProcessTaxCredits(ctx, suite.organizationID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(0, result.Processed)
	suite.Empty(result.Errors)
	suite.Equal("0.00", result.TotalCredit.StringFixed(2))
}

func (suite *TaxCreditServiceTestSuite) TestProcessTaxCredits_PartialFailureContinues() {
	ctx := context.Background()
	suite.mockRepo.On("GetPendingDocuments", ctx, suite.organizationID).Return([]string{"doc-bad", "doc-good"}, nil).Once()

	suite.mockRepo.On("GetFiscalDocumentData", ctx, "doc-bad", suite.organizationID).Return(nil, assert.AnError).Once()
	suite.mockRepo.On("GetFiscalDocumentData", ctx, "doc-good", suite.organizationID).Return(suite.eligibleDocument("doc-good", "200.00"), nil).Once()
	suite.mockRepo.On("RegisterCredit", ctx, mock.AnythingOfType("domain.TaxCredit"), suite.userID, suite.organizationID).Return(true, nil).Once()

	result, err := suite.service.ProcessTaxCredits(ctx, suite.organizationID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Processed)
	suite.Require().Len(result.Errors, 1)
	suite.Contains(result.Errors[0], "doc-bad")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TaxCreditServiceTestSuite) TestProcessTaxCredits_PendingFetchAborts() {
	ctx := context.Background()
	suite.mockRepo.On("GetPendingDocuments", ctx, suite.organizationID).Return(nil, assert.AnError).Once()

	result, err := suite.service.ProcessTaxCredits(ctx, suite.organizationID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(result)
}

func (suite *TaxCreditServiceTestSuite) TestProcessTaxCredits_NoPending() {
	ctx := context.Background()
	suite.mockRepo.On("GetPendingDocuments", ctx, suite.organizationID).Return([]string{}, nil).Once()

	result, err := suite.service.ProcessTaxCredits(ctx, suite.organizationID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(0, result.Processed)
	suite.Empty(result.Errors)
}

func (suite *TaxCreditServiceTestSuite) TestListPendingDocuments() {
	ctx := context.Background()
	suite.mockRepo.On("GetPendingDocuments", ctx, suite.organizationID).Return([]string{"a", "b"}, nil).Once()

	ids, err := suite.service.ListPendingDocuments(ctx, suite.organizationID)

	suite.Require().NoError(err)
	suite.Equal([]string{"a", "b"}, ids)
}

func TestTaxCreditServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaxCreditServiceTestSuite))
}
