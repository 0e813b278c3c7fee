package xmlexport_test

import (
	"context"
	"testing"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costeopro/costeo-api/internal/domain/entity"
	"github.com/costeopro/costeo-api/internal/infrastructure/xmlexport"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de la exportación XML del catálogo: estructura del documento, orden
// determinista por SKU y estabilidad de la huella canónica entre
// re-exportaciones del mismo estado.
// ──────────────────────────────────────────────────────────────────────────────

func TestExportCatalog_MismoEstadoProduceLaMismaHuella(t *testing.T) {
	svc := xmlexport.NewCatalogBuilderService("1.0")
	company := buildCompany()
	a := buildItem("SKU-A", 10)
	b := buildItem("SKU-B", 20)

	xml1, fp1, err := svc.ExportCatalog(context.Background(), company, []*entity.Item{a, b})
	require.NoError(t, err)
	// Mismo estado, distinto orden de llegada
	xml2, fp2, err := svc.ExportCatalog(context.Background(), company, []*entity.Item{b, a})
	require.NoError(t, err)

	assert.Equal(t, xml1, xml2, "Dos exportaciones del mismo estado deben producir exactamente los mismos bytes")
	assert.Equal(t, fp1, fp2, "La huella debe ser estable entre re-exportaciones")
}

func TestExportCatalog_CambioDeDatosCambiaLaHuella(t *testing.T) {
	svc := xmlexport.NewCatalogBuilderService("1.0")
	company := buildCompany()
	it := buildItem("SKU-A", 10)

	_, fp1, err := svc.ExportCatalog(context.Background(), company, []*entity.Item{it})
	require.NoError(t, err)

	it.CommercialCost = decimal.NewFromInt(11)
	_, fp2, err := svc.ExportCatalog(context.Background(), company, []*entity.Item{it})
	require.NoError(t, err)

	assert.NotEqual(t, fp1, fp2, "Un cambio en los datos exportados debe cambiar la huella")
}

func TestExportCatalog_OrdenaPorSKU(t *testing.T) {
	svc := xmlexport.NewCatalogBuilderService("1.0")
	company := buildCompany()
	items := []*entity.Item{
		buildItem("SKU-C", 3),
		buildItem("SKU-A", 1),
		buildItem("SKU-B", 2),
	}

	xmlBytes, _, err := svc.ExportCatalog(context.Background(), company, items)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(xmlBytes))
	elems := doc.FindElements("//Items/Item")
	require.Len(t, elems, 3)
	var skus []string
	for _, el := range elems {
		skus = append(skus, el.SelectAttrValue("sku", ""))
	}
	assert.Equal(t, []string{"SKU-A", "SKU-B", "SKU-C"}, skus,
		"El catálogo se emite en orden de SKU, sin importar el orden del caller")
}

func TestExportCatalog_EstructuraDelDocumento(t *testing.T) {
	svc := xmlexport.NewCatalogBuilderService("1.0")
	company := buildCompany()
	it := buildItem("SKU-A", 10)
	it.CommercialCost = decimal.RequireFromString("12.5")

	xmlBytes, fp, err := svc.ExportCatalog(context.Background(), company, []*entity.Item{it})
	require.NoError(t, err)
	assert.Len(t, fp, 64, "La huella es un SHA-256 en hexadecimal")

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(xmlBytes))

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "ItemCatalog", root.Tag)
	assert.Equal(t, "1.0", root.SelectAttrValue("version", ""))

	companyEl := root.SelectElement("Company")
	require.NotNil(t, companyEl)
	assert.Equal(t, "Ferretería La Economía", companyEl.SelectElement("Name").Text())
	assert.Equal(t, "800197268-4", companyEl.SelectElement("NIT").Text())

	itemsEl := root.SelectElement("Items")
	require.NotNil(t, itemsEl)
	assert.Equal(t, "1", itemsEl.SelectAttrValue("count", ""))

	itemEl := itemsEl.SelectElement("Item")
	require.NotNil(t, itemEl)
	assert.Equal(t, "12.50", itemEl.SelectElement("CommercialCost").Text(),
		"Los montos se emiten con dos decimales fijos")
	assert.NotEmpty(t, itemEl.SelectElement("CostDigest").Text())
}

func TestExportCatalog_SinEmpresa(t *testing.T) {
	svc := xmlexport.NewCatalogBuilderService("1.0")

	_, _, err := svc.ExportCatalog(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestFingerprint_AbsorbeDiferenciasCosmeticasDeSerializacion(t *testing.T) {
	// Mismo contenido: atributos en distinto orden y elemento vacío en las dos
	// formas equivalentes.
	docA := []byte(`<Catalog version="1.0" lang="es"><Empty/></Catalog>`)
	docB := []byte(`<Catalog lang="es" version="1.0"><Empty></Empty></Catalog>`)

	fpA, err := xmlexport.Fingerprint(docA)
	require.NoError(t, err)
	fpB, err := xmlexport.Fingerprint(docB)
	require.NoError(t, err)

	assert.Equal(t, fpA, fpB, "La canonicalización debe absorber orden de atributos y forma de los elementos vacíos")
}

func TestFingerprint_DistingueContenidoDistinto(t *testing.T) {
	fpA, err := xmlexport.Fingerprint([]byte(`<Catalog><Cost>10.00</Cost></Catalog>`))
	require.NoError(t, err)
	fpB, err := xmlexport.Fingerprint([]byte(`<Catalog><Cost>10.01</Cost></Catalog>`))
	require.NoError(t, err)

	assert.NotEqual(t, fpA, fpB)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func buildCompany() *entity.Company {
	return &entity.Company{
		ID:   "11111111-0000-0000-0000-0000000000aa",
		Name: "Ferretería La Economía",
		NIT:  "800197268-4",
	}
}

func buildItem(sku string, cost int64) *entity.Item {
	return &entity.Item{
		ID:             "33333333-0000-0000-0000-000000000001",
		CompanyID:      "11111111-0000-0000-0000-0000000000aa",
		SKU:            sku,
		Name:           "Ítem " + sku,
		ItemType:       entity.ItemTypeInventory,
		CalcMethod:     entity.CalcMethodBlank,
		UnitCost:       decimal.NewFromInt(cost),
		CommercialCost: decimal.NewFromInt(cost),
		Active:         true,
	}
}
