package services

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
)

const sampleNFe = `<?xml version="1.0" encoding="UTF-8"?>
<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe" versao="4.00">
  <NFe>
    <infNFe Id="NFe35250311222333000181550010000042421000000010" versao="4.00">
      <ide>
        <nNF>4242</nNF>
        <dhEmi>2025-03-12T10:15:00-03:00</dhEmi>
      </ide>
      <emit>
        <CNPJ>11222333000181</CNPJ>
        <xNome>Fornecedor XYZ Ltda</xNome>
        <enderEmit>
          <UF>SP</UF>
          <cMun>3550308</cMun>
        </enderEmit>
      </emit>
      <det nItem="1">
        <prod>
          <xProd>Produto A</xProd>
          <CFOP>1102</CFOP>
          <vProd>800.00</vProd>
        </prod>
      </det>
      <det nItem="2">
        <prod>
          <xProd>Produto B</xProd>
          <CFOP>1102</CFOP>
          <vProd>200.00</vProd>
        </prod>
      </det>
      <total>
        <ICMSTot>
          <vNF>1000.00</vNF>
          <vICMS>120.00</vICMS>
        </ICMSTot>
      </total>
    </infNFe>
  </NFe>
  <protNFe>
    <infProt>
      <chNFe>35250311222333000181550010000042421000000010</chNFe>
    </infProt>
  </protNFe>
</nfeProc>`

const sampleCTe = `<?xml version="1.0" encoding="UTF-8"?>
<cteProc xmlns="http://www.portalfiscal.inf.br/cte" versao="4.00">
  <CTe>
    <infCte Id="CTe35250399888777000166570010000000771000000020" versao="4.00">
      <ide>
        <nCT>77</nCT>
        <dhEmi>2025-03-20T08:00:00-03:00</dhEmi>
        <CFOP>1353</CFOP>
      </ide>
      <emit>
        <CNPJ>99888777000166</CNPJ>
        <xNome>Transportadora ABC</xNome>
      </emit>
      <vPrest>
        <vTPrest>300.00</vTPrest>
      </vPrest>
      <imp>
        <ICMS>
          <ICMS00>
            <vICMS>36.00</vICMS>
          </ICMS00>
        </ICMS>
      </imp>
    </infCte>
  </CTe>
  <protCTe>
    <infProt>
      <chCTe>35250399888777000166570010000000771000000020</chCTe>
    </infProt>
  </protCTe>
</cteProc>`

func TestParseFiscalXMLNFe(t *testing.T) {
	doc, err := parseFiscalXML([]byte(sampleNFe))
	require.NoError(t, err)

	assert.Equal(t, domain.NFE, doc.documentType)
	assert.Equal(t, "4242", doc.number)
	assert.Equal(t, "35250311222333000181550010000042421000000010", doc.accessKey)
	assert.Equal(t, "1102", doc.cfop)
	assert.True(t, doc.netAmount.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, doc.icms.Equal(decimal.RequireFromString("120.00")))
	assert.Equal(t, "11222333000181", doc.emitterCNPJ)
	assert.Equal(t, "Fornecedor XYZ Ltda", doc.emitterName)
	assert.Equal(t, "SP", doc.emitterUF)
	assert.Equal(t, "3550308", doc.emitterCity)

	// Emission timestamp is normalized to UTC.
	assert.Equal(t, time.Date(2025, 3, 12, 13, 15, 0, 0, time.UTC), doc.issueDate)

	require.Len(t, doc.items, 2)
	assert.Equal(t, "Produto A", doc.items[0].description)
	assert.True(t, doc.items[0].amount.Equal(decimal.RequireFromString("800.00")))
	assert.Equal(t, "Produto B", doc.items[1].description)
	assert.True(t, doc.items[1].amount.Equal(decimal.RequireFromString("200.00")))
}

func TestParseFiscalXMLCTe(t *testing.T) {
	doc, err := parseFiscalXML([]byte(sampleCTe))
	require.NoError(t, err)

	assert.Equal(t, domain.CTE, doc.documentType)
	assert.Equal(t, "77", doc.number)
	assert.Equal(t, "35250399888777000166570010000000771000000020", doc.accessKey)
	assert.Equal(t, "1353", doc.cfop)
	assert.True(t, doc.netAmount.Equal(decimal.RequireFromString("300.00")))
	assert.True(t, doc.icms.Equal(decimal.RequireFromString("36.00")))
	assert.Equal(t, "Transportadora ABC", doc.emitterName)
	assert.Empty(t, doc.items, "transport documents carry no product lines")
}

func TestParseFiscalXMLCTeWithoutICMS(t *testing.T) {
	payload := strings.Replace(sampleCTe, "<vICMS>36.00</vICMS>", "", 1)

	doc, err := parseFiscalXML([]byte(payload))
	require.NoError(t, err)
	assert.True(t, doc.icms.IsZero())
}

func TestParseFiscalXMLDateOnlyEmission(t *testing.T) {
	payload := strings.Replace(sampleNFe, "2025-03-12T10:15:00-03:00", "2025-03-12", 1)

	doc, err := parseFiscalXML([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), doc.issueDate)
}

func TestParseFiscalXMLUnknownRoot(t *testing.T) {
	_, err := parseFiscalXML([]byte(`<?xml version="1.0"?><mdfeProc></mdfeProc>`))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseFiscalXMLNFeWithoutItems(t *testing.T) {
	payload := sampleNFe
	payload = strings.ReplaceAll(payload, "<det nItem=\"1\">", "<removed>")
	payload = strings.ReplaceAll(payload, "<det nItem=\"2\">", "<removed>")
	payload = strings.ReplaceAll(payload, "</det>", "</removed>")

	_, err := parseFiscalXML([]byte(payload))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "no product lines")
}

func TestParseFiscalXMLBadAmount(t *testing.T) {
	payload := strings.Replace(sampleNFe, "<vNF>1000.00</vNF>", "<vNF>abc</vNF>", 1)

	_, err := parseFiscalXML([]byte(payload))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "vNF")
}
