package services

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	"github.com/shopspring/decimal"
)

// nfeProc mirrors the subset of the signed NFe envelope this core reads.
type nfeProc struct {
	XMLName xml.Name `xml:"nfeProc"`
	NFe     struct {
		InfNFe struct {
			Ide struct {
				NNF   string `xml:"nNF"`
				DhEmi string `xml:"dhEmi"`
			} `xml:"ide"`
			Emit struct {
				CNPJ      string `xml:"CNPJ"`
				XNome     string `xml:"xNome"`
				EnderEmit struct {
					UF   string `xml:"UF"`
					CMun string `xml:"cMun"`
				} `xml:"enderEmit"`
			} `xml:"emit"`
			Det []struct {
				Prod struct {
					XProd string `xml:"xProd"`
					CFOP  string `xml:"CFOP"`
					VProd string `xml:"vProd"`
				} `xml:"prod"`
			} `xml:"det"`
			Total struct {
				ICMSTot struct {
					VNF   string `xml:"vNF"`
					VICMS string `xml:"vICMS"`
				} `xml:"ICMSTot"`
			} `xml:"total"`
		} `xml:"infNFe"`
	} `xml:"NFe"`
	ProtNFe struct {
		InfProt struct {
			ChNFe string `xml:"chNFe"`
		} `xml:"infProt"`
	} `xml:"protNFe"`
}

// cteProc mirrors the subset of the signed CTe envelope this core reads.
type cteProc struct {
	XMLName xml.Name `xml:"cteProc"`
	CTe     struct {
		InfCte struct {
			Ide struct {
				NCT   string `xml:"nCT"`
				DhEmi string `xml:"dhEmi"`
				CFOP  string `xml:"CFOP"`
			} `xml:"ide"`
			Emit struct {
				CNPJ  string `xml:"CNPJ"`
				XNome string `xml:"xNome"`
			} `xml:"emit"`
			VPrest struct {
				VTPrest string `xml:"vTPrest"`
			} `xml:"vPrest"`
			Imp struct {
				ICMS struct {
					ICMS00 struct {
						VICMS string `xml:"vICMS"`
					} `xml:"ICMS00"`
				} `xml:"ICMS"`
			} `xml:"imp"`
		} `xml:"infCte"`
	} `xml:"CTe"`
	ProtCTe struct {
		InfProt struct {
			ChCTe string `xml:"chCTe"`
		} `xml:"infProt"`
	} `xml:"protCTe"`
}

// parsedDocument is the importer's intermediate representation of an NFe/CTe.
type parsedDocument struct {
	documentType domain.DocumentType
	number       string
	accessKey    string
	issueDate    time.Time
	cfop         string
	netAmount    decimal.Decimal
	icms         decimal.Decimal
	emitterCNPJ  string
	emitterName  string
	emitterUF    string
	emitterCity  string
	items        []parsedItem
}

type parsedItem struct {
	description string
	amount      decimal.Decimal
}

// parseFiscalXML detects the document kind by its root element and extracts
// the fields this core persists.
func parseFiscalXML(payload []byte) (*parsedDocument, error) {
	var nfe nfeProc
	if err := xml.Unmarshal(payload, &nfe); err == nil && nfe.XMLName.Local == "nfeProc" {
		return parseNFe(nfe)
	}

	var cte cteProc
	if err := xml.Unmarshal(payload, &cte); err == nil && cte.XMLName.Local == "cteProc" {
		return parseCTe(cte)
	}

	return nil, fmt.Errorf("%w: payload is neither an nfeProc nor a cteProc document", apperrors.ErrValidation)
}

func parseNFe(nfe nfeProc) (*parsedDocument, error) {
	inf := nfe.NFe.InfNFe
	if len(inf.Det) == 0 {
		return nil, fmt.Errorf("%w: NFe has no product lines", apperrors.ErrValidation)
	}

	issueDate, err := parseEmissionDate(inf.Ide.DhEmi)
	if err != nil {
		return nil, err
	}
	netAmount, err := parseXMLDecimal(inf.Total.ICMSTot.VNF, "vNF")
	if err != nil {
		return nil, err
	}
	icms, err := parseXMLDecimal(inf.Total.ICMSTot.VICMS, "vICMS")
	if err != nil {
		return nil, err
	}

	doc := &parsedDocument{
		documentType: domain.NFE,
		number:       inf.Ide.NNF,
		accessKey:    nfe.ProtNFe.InfProt.ChNFe,
		issueDate:    issueDate,
		cfop:         inf.Det[0].Prod.CFOP,
		netAmount:    netAmount,
		icms:         icms,
		emitterCNPJ:  inf.Emit.CNPJ,
		emitterName:  inf.Emit.XNome,
		emitterUF:    inf.Emit.EnderEmit.UF,
		emitterCity:  inf.Emit.EnderEmit.CMun,
	}
	for _, det := range inf.Det {
		amount, err := parseXMLDecimal(det.Prod.VProd, "vProd")
		if err != nil {
			return nil, err
		}
		doc.items = append(doc.items, parsedItem{description: det.Prod.XProd, amount: amount})
	}
	return doc, nil
}

func parseCTe(cte cteProc) (*parsedDocument, error) {
	inf := cte.CTe.InfCte

	issueDate, err := parseEmissionDate(inf.Ide.DhEmi)
	if err != nil {
		return nil, err
	}
	netAmount, err := parseXMLDecimal(inf.VPrest.VTPrest, "vTPrest")
	if err != nil {
		return nil, err
	}
	icms := decimal.Zero
	if inf.Imp.ICMS.ICMS00.VICMS != "" {
		if icms, err = parseXMLDecimal(inf.Imp.ICMS.ICMS00.VICMS, "vICMS"); err != nil {
			return nil, err
		}
	}

	return &parsedDocument{
		documentType: domain.CTE,
		number:       inf.Ide.NCT,
		accessKey:    cte.ProtCTe.InfProt.ChCTe,
		issueDate:    issueDate,
		cfop:         inf.Ide.CFOP,
		netAmount:    netAmount,
		icms:         icms,
		emitterCNPJ:  inf.Emit.CNPJ,
		emitterName:  inf.Emit.XNome,
	}, nil
}

// parseEmissionDate accepts the RFC3339 timestamps NFe/CTe carry, with the
// date-only form some older emitters still produce.
func parseEmissionDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid emission date %q", apperrors.ErrValidation, value)
}

func parseXMLDecimal(value, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid %s value %q", apperrors.ErrValidation, field, value)
	}
	return d, nil
}
