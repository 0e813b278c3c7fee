// seed_demo genera SQL idempotente para poblar el maestro de artículos de una
// empresa a partir del catálogo exportado por el ERP anterior (XML ISO-8859-1).
//
// Uso: go run ./cmd/seed_demo -nit 900123456-8 [ruta/Catalogo.xml]
// Por defecto busca Catalogo.xml en el directorio actual y escribe el SQL a stdout.
// El costo comercial queda en 0; correr un recálculo por ítem después de importar.
package main

import (
	"encoding/xml"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type catalogo struct {
	Articulos []articulo `xml:"articulo"`
}

type articulo struct {
	SKU         string         `xml:"sku,attr"`
	Nombre      string         `xml:"nombre,attr"`
	Tipo        string         `xml:"tipo,attr"`
	Costo       string         `xml:"costo,attr"`
	UltimoCosto string         `xml:"ultimoCosto,attr"`
	Precio      string         `xml:"precio,attr"`
	Metodo      string         `xml:"metodo,attr"`
	Descuento   string         `xml:"descuento,attr"`
	Precios     []precioCompra `xml:"precioCompra"`
}

type precioCompra struct {
	ProveedorNIT string `xml:"proveedorNit,attr"`
	Proveedor    string `xml:"proveedor,attr"`
	Costo        string `xml:"costo,attr"`
	Desde        string `xml:"desde,attr"`
}

// Códigos numéricos de método del ERP anterior → métodos del motor.
var legacyMethods = map[string]string{
	"0": "",
	"1": "maximum_cost",
	"2": "last_direct_cost",
	"3": "average_cost",
	"4": "discount_from_list_price",
	"5": "manually_specified",
}

// Tipos de artículo del ERP anterior → tipos del maestro.
var legacyTypes = map[string]string{
	"inventario":    "inventory",
	"no_inventario": "non_inventory",
	"servicio":      "service",
}

func main() {
	companyNIT := flag.String("nit", "", "NIT de la empresa destino (requerido)")
	flag.Parse()
	if *companyNIT == "" {
		fmt.Fprintln(os.Stderr, "Falta -nit: NIT de la empresa destino")
		os.Exit(1)
	}
	xmlPath := "Catalogo.xml"
	if flag.NArg() > 0 {
		xmlPath = flag.Arg(0)
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var cat catalogo
	dec := xml.NewDecoder(f)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&cat); err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}

	// Proveedores únicos: (nit, nombre). El último nombre visto gana.
	vendorMap := make(map[string]string)
	for _, a := range cat.Articulos {
		for _, p := range a.Precios {
			if p.ProveedorNIT == "" {
				continue
			}
			vendorMap[p.ProveedorNIT] = p.Proveedor
		}
	}
	var vendorNITs []string
	for n := range vendorMap {
		vendorNITs = append(vendorNITs, n)
	}
	sort.Strings(vendorNITs)

	nit := escapeSQL(strings.TrimSpace(*companyNIT))
	out := os.Stdout

	fmt.Fprintf(out, "-- Catálogo importado del ERP anterior para la empresa NIT %s\n", nit)
	fmt.Fprintf(out, "-- Generado desde %s\n\n", xmlPath)

	fmt.Fprintln(out, "-- 1. Proveedores")
	for _, vn := range vendorNITs {
		name := escapeSQL(vendorMap[vn])
		if name == "" {
			name = "Proveedor " + escapeSQL(vn)
		}
		fmt.Fprintf(out, "INSERT INTO vendors (id, company_id, name, nit, active, created_at, updated_at)\n")
		fmt.Fprintf(out, "SELECT gen_random_uuid(), c.id, '%s', '%s', true, now(), now()\n", name, escapeSQL(vn))
		fmt.Fprintf(out, "FROM companies c WHERE c.nit = '%s'\n", nit)
		fmt.Fprintln(out, "ON CONFLICT (company_id, nit) DO UPDATE SET name = EXCLUDED.name, updated_at = now();")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "-- 2. Artículos")
	items := 0
	for _, a := range cat.Articulos {
		sku := strings.TrimSpace(a.SKU)
		if sku == "" || a.Nombre == "" {
			continue
		}
		itemType, ok := legacyTypes[strings.ToLower(strings.TrimSpace(a.Tipo))]
		if !ok {
			itemType = "inventory"
		}
		method, ok := legacyMethods[strings.TrimSpace(a.Metodo)]
		if !ok {
			// Método desconocido: se conserva tal cual, el motor lo trata como no-op.
			method = strings.TrimSpace(a.Metodo)
		}
		fmt.Fprintf(out, "INSERT INTO items (id, company_id, sku, name, description, item_type, unit_cost, last_direct_cost, unit_price, commercial_cost, calc_method, discount_percentage, active, created_at, updated_at)\n")
		fmt.Fprintf(out, "SELECT gen_random_uuid(), c.id, '%s', '%s', '', '%s', %s, %s, %s, 0, '%s', %s, true, now(), now()\n",
			escapeSQL(sku), escapeSQL(strings.TrimSpace(a.Nombre)), itemType,
			legacyDecimal(a.Costo), legacyDecimal(a.UltimoCosto), legacyDecimal(a.Precio),
			escapeSQL(method), legacyDecimal(a.Descuento))
		fmt.Fprintf(out, "FROM companies c WHERE c.nit = '%s'\n", nit)
		fmt.Fprintln(out, "ON CONFLICT (company_id, sku) DO UPDATE SET name = EXCLUDED.name, item_type = EXCLUDED.item_type, unit_cost = EXCLUDED.unit_cost, last_direct_cost = EXCLUDED.last_direct_cost, unit_price = EXCLUDED.unit_price, calc_method = EXCLUDED.calc_method, discount_percentage = EXCLUDED.discount_percentage, updated_at = now();")
		items++
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "-- 3. Precios de compra")
	prices := 0
	for _, a := range cat.Articulos {
		sku := escapeSQL(strings.TrimSpace(a.SKU))
		if sku == "" {
			continue
		}
		for _, p := range a.Precios {
			if p.ProveedorNIT == "" {
				continue
			}
			fmt.Fprintf(out, "INSERT INTO purchase_prices (id, company_id, item_id, vendor_id, direct_unit_cost, start_date, created_at, updated_at)\n")
			fmt.Fprintf(out, "SELECT gen_random_uuid(), c.id, i.id, v.id, %s, %s, now(), now()\n",
				legacyDecimal(p.Costo), legacyDate(p.Desde))
			fmt.Fprintf(out, "FROM companies c\n")
			fmt.Fprintf(out, "JOIN items i ON i.company_id = c.id AND i.sku = '%s'\n", sku)
			fmt.Fprintf(out, "JOIN vendors v ON v.company_id = c.id AND v.nit = '%s'\n", escapeSQL(p.ProveedorNIT))
			fmt.Fprintf(out, "WHERE c.nit = '%s'\n", nit)
			fmt.Fprintln(out, "ON CONFLICT (item_id, vendor_id, start_date) DO UPDATE SET direct_unit_cost = EXCLUDED.direct_unit_cost, updated_at = now();")
			prices++
		}
	}

	fmt.Fprintf(os.Stderr, "Generado SQL: %d proveedores, %d artículos, %d precios de compra\n",
		len(vendorNITs), items, prices)
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// legacyDecimal normaliza un número del ERP anterior ("1.234,56" o "1234.56")
// a notación SQL con punto decimal. Valores vacíos o ilegibles quedan en 0.
func legacyDecimal(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0"
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "0"
	}
	return d.String()
}

// legacyDate normaliza una fecha del ERP anterior ("2024-01-15" o "15/01/2024")
// a literal SQL. Vacía o ilegible se reemplaza por now().
func legacyDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "now()"
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return "'" + t.Format("2006-01-02") + "'"
		}
	}
	return "now()"
}
