package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	portsrepo "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/repositories"
	portssvc "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/services"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/middleware"
)

const (
	spedLayoutVersion = "017"
	spedDateFormat    = "02012006" // ddmmyyyy
)

// spedService assembles the block-structured, pipe-delimited SPED Fiscal
// (EFD-ICMS/IPI) text file for one organization and reference month.
type spedService struct {
	orgRepo      portsrepo.OrganizationReader
	documentRepo portsrepo.FiscalDocumentReader
	accountRepo  portsrepo.ChartAccountReader
}

// NewSpedService creates a new SPED Fiscal generation service.
func NewSpedService(orgRepo portsrepo.OrganizationReader, documentRepo portsrepo.FiscalDocumentReader, accountRepo portsrepo.ChartAccountReader) portssvc.SpedSvcFacade {
	return &spedService{orgRepo: orgRepo, documentRepo: documentRepo, accountRepo: accountRepo}
}

var _ portssvc.SpedSvcFacade = (*spedService)(nil)

// record joins fields into one pipe-delimited SPED line: |REG|f1|f2|...|
func record(fields ...string) string {
	return "|" + strings.Join(fields, "|") + "|"
}

// spedAmount renders a decimal the way the SPED layout expects: two decimal
// places with a comma separator.
func spedAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// recordType extracts the register code of a pipe-delimited line.
func recordType(line string) string {
	parts := strings.SplitN(line, "|", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// closeBlock appends the block-closing register carrying the true line count
// of the block, including the closing line itself.
func closeBlock(lines []string, closingRegister string) []string {
	return append(lines, record(closingRegister, strconv.Itoa(len(lines)+1)))
}

// periodRange returns the first and last day of the reference month.
func periodRange(year, month int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// Validate checks whether a SPED file can be generated for the request and
// returns every validation problem found. Absence of fiscal documents in the
// period is a validation error, never a silently empty file.
func (s *spedService) Validate(ctx context.Context, req domain.SpedRequest) ([]string, error) {
	var problems []string

	if req.ReferenceMonth < 1 || req.ReferenceMonth > 12 {
		problems = append(problems, fmt.Sprintf("reference month must be between 1 and 12, got %d", req.ReferenceMonth))
	}
	currentYear := time.Now().UTC().Year()
	if req.ReferenceYear < 2000 || req.ReferenceYear > currentYear+1 {
		problems = append(problems, fmt.Sprintf("reference year must be between 2000 and %d, got %d", currentYear+1, req.ReferenceYear))
	}
	if req.Finality != domain.SpedOriginal && req.Finality != domain.SpedSubstitution {
		problems = append(problems, fmt.Sprintf("finality must be ORIGINAL or SUBSTITUTION, got %q", req.Finality))
	}

	if _, err := s.orgRepo.FindOrganizationByID(ctx, req.OrganizationID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			problems = append(problems, fmt.Sprintf("organization %s not found", req.OrganizationID))
			return problems, nil
		}
		return nil, fmt.Errorf("failed to load organization: %w", err)
	}

	if len(problems) > 0 {
		// Period lookup needs a valid month/year.
		return problems, nil
	}

	from, to := periodRange(req.ReferenceYear, req.ReferenceMonth)
	documents, err := s.documentRepo.ListDocumentsByPeriod(ctx, req.OrganizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load fiscal documents for the period: %w", err)
	}
	if len(documents) == 0 {
		problems = append(problems, fmt.Sprintf("no fiscal documents found for %02d/%d", req.ReferenceMonth, req.ReferenceYear))
	}

	return problems, nil
}

// Generate builds the full SPED Fiscal text content. It revalidates the
// request; a validation failure is returned as apperrors.ErrValidation.
func (s *spedService) Generate(ctx context.Context, req domain.SpedRequest) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	problems, err := s.Validate(ctx, req)
	if err != nil {
		return "", err
	}
	if len(problems) > 0 {
		return "", fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(problems, "; "))
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, req.OrganizationID)
	if err != nil {
		return "", err
	}

	from, to := periodRange(req.ReferenceYear, req.ReferenceMonth)
	documents, err := s.documentRepo.ListDocumentsByPeriod(ctx, req.OrganizationID, from, to)
	if err != nil {
		return "", fmt.Errorf("failed to load fiscal documents: %w", err)
	}
	partners, err := s.orgRepo.ListPartnersByPeriod(ctx, req.OrganizationID, from, to)
	if err != nil {
		return "", fmt.Errorf("failed to load business partners: %w", err)
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, req.OrganizationID)
	if err != nil {
		return "", fmt.Errorf("failed to load chart of accounts: %w", err)
	}

	block0 := s.buildBlock0(*org, partners, accounts, req, from, to)
	blockC := s.buildBlockC(documents, partners)
	blockD := s.buildBlockD(documents, partners)
	blockE := s.buildBlockE(documents, from, to)
	blockH := s.buildBlockH(to)

	var lines []string
	lines = append(lines, block0...)
	lines = append(lines, blockC...)
	lines = append(lines, blockD...)
	lines = append(lines, blockE...)
	lines = append(lines, blockH...)
	lines = append(lines, s.buildBlock9(lines)...)

	logger.Info("SPED Fiscal file generated",
		slog.String("organization_id", req.OrganizationID),
		slog.Int("reference_month", req.ReferenceMonth),
		slog.Int("reference_year", req.ReferenceYear),
		slog.Int("lines", len(lines)),
		slog.Int("documents", len(documents)))
	return strings.Join(lines, "\r\n") + "\r\n", nil
}

// buildBlock0 emits the registration block: file header, one 0150 per
// business partner of the period and one 0500 per chart account.
func (s *spedService) buildBlock0(org domain.Organization, partners []domain.BusinessPartner, accounts []domain.ChartAccount, req domain.SpedRequest, from, to time.Time) []string {
	finality := "0"
	if req.Finality == domain.SpedSubstitution {
		finality = "1"
	}

	lines := []string{
		record("0000", spedLayoutVersion, finality,
			from.Format(spedDateFormat), to.Format(spedDateFormat),
			org.Name, org.CNPJ, "", org.UF, org.StateRegistry, org.CityCode, "", "",
			org.TaxRegimeCode, "0"),
		record("0001", "0"),
	}

	for _, partner := range partners {
		lines = append(lines, record("0150", partner.CNPJ, partner.Name, "01058",
			partner.CNPJ, "", "", partner.CityCode, "", ""))
	}

	for _, account := range accounts {
		nature := "A" // analítica
		if !account.IsAnalytical {
			nature = "S" // sintética
		}
		level := strconv.Itoa(strings.Count(account.Code, ".") + 1)
		lines = append(lines, record("0500", account.CreatedAt.Format(spedDateFormat),
			"01", nature, level, account.Code, account.Name))
	}

	return closeBlock(lines, "0990")
}

// buildBlockC emits the goods documents block: one C100 header plus one C190
// CFOP totalizer per NFe of the period.
func (s *spedService) buildBlockC(documents []domain.FiscalDocument, partners []domain.BusinessPartner) []string {
	partnerCodes := partnerCodeIndex(partners)

	var docs []domain.FiscalDocument
	for _, doc := range documents {
		if doc.DocumentType == domain.NFE {
			docs = append(docs, doc)
		}
	}

	hasData := "1"
	if len(docs) > 0 {
		hasData = "0"
	}
	lines := []string{record("C001", hasData)}

	for _, doc := range docs {
		operation, icms := documentOperation(doc)
		lines = append(lines,
			record("C100", operation, "1", partnerCodes[doc.PartnerID], "55", "00", "1",
				doc.Number, doc.AccessKey,
				doc.IssueDate.Format(spedDateFormat), doc.IssueDate.Format(spedDateFormat),
				spedAmount(doc.NetAmount.Amount())),
			record("C190", "000", mustCFOP(doc.CFOP), "0,00",
				spedAmount(doc.NetAmount.Amount()),
				spedAmount(doc.NetAmount.Amount()),
				spedAmount(icms)),
		)
	}

	return closeBlock(lines, "C990")
}

// buildBlockD emits the transport documents block, mirroring block C for CTe
// cargo documents (model 57).
func (s *spedService) buildBlockD(documents []domain.FiscalDocument, partners []domain.BusinessPartner) []string {
	partnerCodes := partnerCodeIndex(partners)

	var docs []domain.FiscalDocument
	for _, doc := range documents {
		if doc.DocumentType == domain.CTE {
			docs = append(docs, doc)
		}
	}

	hasData := "1"
	if len(docs) > 0 {
		hasData = "0"
	}
	lines := []string{record("D001", hasData)}

	for _, doc := range docs {
		operation, icms := documentOperation(doc)
		lines = append(lines,
			record("D100", operation, "1", partnerCodes[doc.PartnerID], "57", "00", "1",
				doc.Number, doc.AccessKey,
				doc.IssueDate.Format(spedDateFormat),
				spedAmount(doc.NetAmount.Amount())),
			record("D190", "000", mustCFOP(doc.CFOP), "0,00",
				spedAmount(doc.NetAmount.Amount()),
				spedAmount(doc.NetAmount.Amount()),
				spedAmount(icms)),
		)
	}

	return closeBlock(lines, "D990")
}

// buildBlockE emits the ICMS assessment block: tax debits from outbound
// operations minus credits from inbound operations over the period.
func (s *spedService) buildBlockE(documents []domain.FiscalDocument, from, to time.Time) []string {
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, doc := range documents {
		totalDebits = totalDebits.Add(doc.ICMSDebit.Amount())
		totalCredits = totalCredits.Add(doc.ICMSCredit.Amount())
	}

	balance := totalDebits.Sub(totalCredits)
	owed := decimal.Zero
	carryForward := decimal.Zero
	if balance.IsPositive() {
		owed = balance
	} else {
		carryForward = balance.Neg()
	}

	lines := []string{
		record("E001", "0"),
		record("E100", from.Format(spedDateFormat), to.Format(spedDateFormat)),
		record("E110", spedAmount(totalDebits), "0,00", "0,00", "0,00",
			spedAmount(totalCredits), "0,00", "0,00", "0,00",
			spedAmount(owed), spedAmount(carryForward)),
	}

	return closeBlock(lines, "E990")
}

// buildBlockH emits the inventory block as a single period-end totalizer.
// Inventory valuation is kept out of this core, so the total is zero.
func (s *spedService) buildBlockH(to time.Time) []string {
	lines := []string{
		record("H001", "0"),
		record("H005", to.Format(spedDateFormat), "0,00", "01"),
	}
	return closeBlock(lines, "H990")
}

// buildBlock9 emits the closing block: one 9900 per record type present in
// the file with its occurrence count, the block-9 count and the total file
// line count. Every count is derived from the built lines, never hardcoded.
func (s *spedService) buildBlock9(contentLines []string) []string {
	lines := []string{record("9001", "0")}

	typeCounts := make(map[string]int)
	for _, line := range contentLines {
		typeCounts[recordType(line)]++
	}
	typeCounts["9001"] = 1

	types := make([]string, 0, len(typeCounts))
	for t := range typeCounts {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, t := range types {
		lines = append(lines, record("9900", t, strconv.Itoa(typeCounts[t])))
	}
	// The closing registers reference themselves.
	lines = append(lines,
		record("9900", "9900", strconv.Itoa(len(types)+3)),
		record("9900", "9990", "1"),
		record("9900", "9999", "1"),
	)

	// 9990 counts every line of block 9 including itself and 9999.
	lines = append(lines, record("9990", strconv.Itoa(len(lines)+2)))
	// 9999 carries the total line count of the whole file.
	total := len(contentLines) + len(lines) + 1
	lines = append(lines, record("9999", strconv.Itoa(total)))
	return lines
}

// partnerCodeIndex maps partner ids to the participant code used in 0150/C100.
func partnerCodeIndex(partners []domain.BusinessPartner) map[string]string {
	index := make(map[string]string, len(partners))
	for _, partner := range partners {
		index[partner.PartnerID] = partner.CNPJ
	}
	return index
}

// documentOperation derives the operation direction (0=inbound, 1=outbound)
// from the CFOP first digit, and the ICMS value relevant to that direction.
func documentOperation(doc domain.FiscalDocument) (string, decimal.Decimal) {
	cfop, err := domain.NormalizeCFOP(doc.CFOP)
	if err == nil && cfop[0] >= '5' {
		return "1", doc.ICMSDebit.Amount()
	}
	return "0", doc.ICMSCredit.Amount()
}

// mustCFOP normalizes a CFOP already validated at import time; malformed
// values degrade to the raw string rather than aborting file generation.
func mustCFOP(cfop string) string {
	normalized, err := domain.NormalizeCFOP(cfop)
	if err != nil {
		return cfop
	}
	return normalized
}
