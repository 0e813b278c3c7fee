// Package xmlexport construye la exportación XML del catálogo de ítems de una
// empresa y su huella canónica (C14N + SHA-256) para comparar re-exportaciones.
package xmlexport

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	appreport "github.com/costeopro/costeo-api/internal/application/report"
	"github.com/costeopro/costeo-api/internal/domain/costing"
	"github.com/costeopro/costeo-api/internal/domain/entity"
)

// CatalogBuilderService construye el documento <ItemCatalog> con etree.
// El documento no lleva marcas de tiempo de generación: dos exportaciones del
// mismo estado producen exactamente los mismos bytes y la misma huella.
type CatalogBuilderService struct {
	version string
}

var _ appreport.CatalogExporter = (*CatalogBuilderService)(nil)

// NewCatalogBuilderService crea el servicio. version se declara en el atributo
// del elemento raíz (ej. "1.0").
func NewCatalogBuilderService(version string) *CatalogBuilderService {
	return &CatalogBuilderService{version: version}
}

// ExportCatalog genera el XML del catálogo y su huella canónica.
func (s *CatalogBuilderService) ExportCatalog(_ context.Context, company *entity.Company, items []*entity.Item) ([]byte, string, error) {
	if company == nil {
		return nil, "", fmt.Errorf("xmlexport: falta la empresa")
	}

	// Orden determinista por SKU, independiente del orden del caller
	sorted := make([]*entity.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SKU < sorted[j].SKU })

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("ItemCatalog")
	root.CreateAttr("version", s.version)

	companyEl := root.CreateElement("Company")
	companyEl.CreateElement("Name").SetText(company.Name)
	companyEl.CreateElement("NIT").SetText(company.NIT)

	itemsEl := root.CreateElement("Items")
	itemsEl.CreateAttr("count", fmt.Sprintf("%d", len(sorted)))
	for _, it := range sorted {
		itemEl := itemsEl.CreateElement("Item")
		itemEl.CreateAttr("sku", it.SKU)
		itemEl.CreateElement("Name").SetText(it.Name)
		itemEl.CreateElement("ItemType").SetText(it.ItemType)
		itemEl.CreateElement("CalcMethod").SetText(string(it.CalcMethod))
		itemEl.CreateElement("UnitCost").SetText(it.UnitCost.Round(2).StringFixed(2))
		itemEl.CreateElement("LastDirectCost").SetText(it.LastDirectCost.Round(2).StringFixed(2))
		itemEl.CreateElement("UnitPrice").SetText(it.UnitPrice.Round(2).StringFixed(2))
		itemEl.CreateElement("DiscountPercentage").SetText(it.DiscountPercentage.Round(2).StringFixed(2))
		itemEl.CreateElement("CommercialCost").SetText(it.CommercialCost.Round(2).StringFixed(2))
		itemEl.CreateElement("CostDigest").SetText(costing.CostDigest(it))
	}

	doc.Indent(2)
	xmlBytes, err := doc.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("xmlexport: serializar catálogo: %w", err)
	}

	fingerprint, err := Fingerprint(xmlBytes)
	if err != nil {
		return nil, "", err
	}
	return xmlBytes, fingerprint, nil
}

// Fingerprint canonicaliza el documento (C14N) y devuelve el SHA-256 en hex.
// La canonicalización absorbe diferencias cosméticas de serialización (orden
// de atributos, espacios) para que la huella dependa solo del contenido.
func Fingerprint(xmlBytes []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("xmlexport: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
