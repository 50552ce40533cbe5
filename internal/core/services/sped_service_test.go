package services_test

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	portsrepo "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/repositories"
	portssvc "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/services"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/services"
)

// --- Mock OrganizationRepository ---
type MockOrganizationRepository struct {
	mock.Mock
}

var _ portsrepo.OrganizationRepositoryFacade = (*MockOrganizationRepository)(nil)

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ListPartnersByPeriod(ctx context.Context, organizationID string, from, to time.Time) ([]domain.BusinessPartner, error) {
	args := m.Called(ctx, organizationID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BusinessPartner), args.Error(1)
}

func (m *MockOrganizationRepository) FindPartnerByCNPJ(ctx context.Context, organizationID, cnpj string) (*domain.BusinessPartner, error) {
	args := m.Called(ctx, organizationID, cnpj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusinessPartner), args.Error(1)
}

func (m *MockOrganizationRepository) SavePartner(ctx context.Context, partner domain.BusinessPartner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

// --- Test Suite Setup ---
type SpedServiceTestSuite struct {
	suite.Suite
	mockOrgRepo      *MockOrganizationRepository
	mockDocumentRepo *MockFiscalDocumentRepository
	mockAccountRepo  *MockAccountRepository
	service          portssvc.SpedSvcFacade
	organization     domain.Organization
	partner          domain.BusinessPartner
}

func (suite *SpedServiceTestSuite) SetupTest() {
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.mockDocumentRepo = new(MockFiscalDocumentRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewSpedService(suite.mockOrgRepo, suite.mockDocumentRepo, suite.mockAccountRepo)

	suite.organization = domain.Organization{
		OrganizationID: uuid.NewString(),
		Name:           "Acme Distribuidora Ltda",
		CNPJ:           "11222333000181",
		StateRegistry:  "123456789",
		UF:             "GO",
		CityCode:       "5208707",
		TaxRegimeCode:  "0",
	}
	suite.partner = domain.BusinessPartner{
		PartnerID:      uuid.NewString(),
		OrganizationID: suite.organization.OrganizationID,
		Name:           "Fornecedor XYZ",
		CNPJ:           "99888777000166",
		UF:             "SP",
		CityCode:       "3550308",
	}
}

func (suite *SpedServiceTestSuite) request() domain.SpedRequest {
	return domain.SpedRequest{
		OrganizationID: suite.organization.OrganizationID,
		ReferenceMonth: 3,
		ReferenceYear:  2025,
		Finality:       domain.SpedOriginal,
	}
}

func (suite *SpedServiceTestSuite) periodDocuments() []domain.FiscalDocument {
	return []domain.FiscalDocument{
		{
			DocumentID:     uuid.NewString(),
			OrganizationID: suite.organization.OrganizationID,
			PartnerID:      suite.partner.PartnerID,
			DocumentType:   domain.NFE,
			Number:         "4242",
			AccessKey:      strings.Repeat("1", 44),
			IssueDate:      time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
			CFOP:           "1102",
			NetAmount:      domain.MustMoney("1500.00", "BRL"),
			ICMSDebit:      domain.ZeroMoney("BRL"),
			ICMSCredit:     domain.MustMoney("180.00", "BRL"),
			Status:         domain.DocumentClassified,
		},
		{
			DocumentID:     uuid.NewString(),
			OrganizationID: suite.organization.OrganizationID,
			PartnerID:      suite.partner.PartnerID,
			DocumentType:   domain.CTE,
			Number:         "77",
			AccessKey:      strings.Repeat("2", 44),
			IssueDate:      time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
			CFOP:           "1.353",
			NetAmount:      domain.MustMoney("300.00", "BRL"),
			ICMSDebit:      domain.ZeroMoney("BRL"),
			ICMSCredit:     domain.MustMoney("36.00", "BRL"),
			Status:         domain.DocumentClassified,
		},
	}
}

func (suite *SpedServiceTestSuite) expectPeriodData(documents []domain.FiscalDocument) {
	suite.mockOrgRepo.On("FindOrganizationByID", mock.Anything, suite.organization.OrganizationID).Return(&suite.organization, nil)
	suite.mockDocumentRepo.On("ListDocumentsByPeriod", mock.Anything, suite.organization.OrganizationID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(documents, nil)
	suite.mockOrgRepo.On("ListPartnersByPeriod", mock.Anything, suite.organization.OrganizationID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return([]domain.BusinessPartner{suite.partner}, nil)
	suite.mockAccountRepo.On("ListAccounts", mock.Anything, suite.organization.OrganizationID).Return([]domain.ChartAccount{
		{AccountID: uuid.NewString(), Code: "1", Name: "Ativo", AccountType: domain.Asset, IsAnalytical: false, IsActive: true},
		{AccountID: uuid.NewString(), Code: "1.1.01.001", Name: "Caixa", AccountType: domain.Asset, IsAnalytical: true, IsActive: true},
	}, nil)
}

// --- Validate ---

func (suite *SpedServiceTestSuite) TestValidate_OK() {
	ctx := context.Background()
	suite.expectPeriodData(suite.periodDocuments())

	problems, err := suite.service.Validate(ctx, suite.request())

	suite.Require().NoError(err)
	suite.Empty(problems)
}

func (suite *SpedServiceTestSuite) TestValidate_BadPeriodAndFinality() {
	ctx := context.Background()
	suite.mockOrgRepo.On("FindOrganizationByID", mock.Anything, suite.organization.OrganizationID).Return(&suite.organization, nil)

	req := suite.request()
	req.ReferenceMonth = 13
	req.ReferenceYear = 1999
	req.Finality = domain.SpedFinality("RETIFICATION")

	problems, err := suite.service.Validate(ctx, req)

	suite.Require().NoError(err)
	suite.Len(problems, 3)
	suite.mockDocumentRepo.AssertNotCalled(suite.T(), "ListDocumentsByPeriod", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SpedServiceTestSuite) TestValidate_OrganizationNotFound() {
	ctx := context.Background()
	suite.mockOrgRepo.On("FindOrganizationByID", mock.Anything, suite.organization.OrganizationID).Return(nil, apperrors.ErrNotFound)

	problems, err := suite.service.Validate(ctx, suite.request())

	suite.Require().NoError(err)
	suite.Require().Len(problems, 1)
	suite.Contains(problems[0], "not found")
}

func (suite *SpedServiceTestSuite) TestValidate_EmptyPeriod() {
	ctx := context.Background()
	suite.expectPeriodData([]domain.FiscalDocument{})

	problems, err := suite.service.Validate(ctx, suite.request())

	suite.Require().NoError(err)
	suite.Require().Len(problems, 1)
	suite.Contains(problems[0], "no fiscal documents found for 03/2025")
}

// --- Generate ---

func (suite *SpedServiceTestSuite) TestGenerate_EmptyPeriodFails() {
	ctx := context.Background()
	suite.expectPeriodData([]domain.FiscalDocument{})

	_, err := suite.service.Generate(ctx, suite.request())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SpedServiceTestSuite) TestGenerate_FileStructure() {
	ctx := context.Background()
	suite.expectPeriodData(suite.periodDocuments())

	content, err := suite.service.Generate(ctx, suite.request())
	suite.Require().NoError(err)

	suite.True(strings.HasSuffix(content, "\r\n"))
	lines := strings.Split(strings.TrimSuffix(content, "\r\n"), "\r\n")

	// Every line is pipe-delimited.
	for _, line := range lines {
		suite.True(strings.HasPrefix(line, "|"), "line %q", line)
		suite.True(strings.HasSuffix(line, "|"), "line %q", line)
	}

	// Opening register carries the period boundaries.
	suite.Contains(lines[0], "|0000|")
	suite.Contains(lines[0], "01032025")
	suite.Contains(lines[0], "31032025")
	suite.Contains(lines[0], suite.organization.CNPJ)

	// One block opener/closer pair per block, in order.
	for _, reg := range []string{"0001", "0990", "C001", "C100", "C190", "C990", "D001", "D100", "D190", "D990", "E001", "E110", "E990", "H001", "H990", "9001", "9990", "9999"} {
		suite.True(suite.hasRegister(lines, reg), "missing register %s", reg)
	}
}

func (suite *SpedServiceTestSuite) hasRegister(lines []string, register string) bool {
	prefix := "|" + register + "|"
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func (suite *SpedServiceTestSuite) registerFields(lines []string, register string) []string {
	prefix := "|" + register + "|"
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return strings.Split(strings.Trim(line, "|"), "|")
		}
	}
	return nil
}

func (suite *SpedServiceTestSuite) TestGenerate_CountsAreDerived() {
	ctx := context.Background()
	suite.expectPeriodData(suite.periodDocuments())

	content, err := suite.service.Generate(ctx, suite.request())
	suite.Require().NoError(err)

	lines := strings.Split(strings.TrimSuffix(content, "\r\n"), "\r\n")

	// 9999 carries the actual total line count of the file.
	fields := suite.registerFields(lines, "9999")
	suite.Require().NotNil(fields)
	total, convErr := strconv.Atoi(fields[1])
	suite.Require().NoError(convErr)
	suite.Equal(len(lines), total)

	// Each block closer counts its own block, closer included.
	for _, closing := range []string{"0990", "C990", "D990", "E990", "H990"} {
		blockPrefix := "|" + string(closing[0])
		if closing == "0990" {
			blockPrefix = "|0"
		}
		count := 0
		for _, line := range lines {
			if strings.HasPrefix(line, blockPrefix) && !strings.HasPrefix(line, "|9") {
				count++
			}
		}
		fields := suite.registerFields(lines, closing)
		suite.Require().NotNil(fields, "closing register %s", closing)
		declared, convErr := strconv.Atoi(fields[1])
		suite.Require().NoError(convErr)
		suite.Equal(count, declared, "closing register %s", closing)
	}

	// Every 9900 count matches the register occurrences in the file.
	for _, line := range lines {
		if !strings.HasPrefix(line, "|9900|") {
			continue
		}
		fields := strings.Split(strings.Trim(line, "|"), "|")
		suite.Require().Len(fields, 3)
		register := fields[1]
		declared, convErr := strconv.Atoi(fields[2])
		suite.Require().NoError(convErr)

		occurrences := 0
		prefix := fmt.Sprintf("|%s|", register)
		for _, l := range lines {
			if strings.HasPrefix(l, prefix) {
				occurrences++
			}
		}
		suite.Equal(occurrences, declared, "register %s", register)
	}
}

func (suite *SpedServiceTestSuite) TestGenerate_ICMSAssessment() {
	ctx := context.Background()
	suite.expectPeriodData(suite.periodDocuments())

	content, err := suite.service.Generate(ctx, suite.request())
	suite.Require().NoError(err)

	lines := strings.Split(strings.TrimSuffix(content, "\r\n"), "\r\n")
	fields := suite.registerFields(lines, "E110")
	suite.Require().NotNil(fields)

	// Only inbound credits in the period: no ICMS owed, full carry-forward.
	suite.Equal("0,00", fields[1])    // debits
	suite.Equal("216,00", fields[5])  // credits
	suite.Equal("0,00", fields[9])    // owed
	suite.Equal("216,00", fields[10]) // carry-forward
}

func TestSpedServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SpedServiceTestSuite))
}
