package domain

import (
	"strings"
	"time"
)

// ContractInfo holds the contract-level fields of a customs record.
type ContractInfo struct {
	ContractNumber string `json:"contractNumber"`
	Date           string `json:"date"`
	Buyer          string `json:"buyer"`
	Seller         string `json:"seller"`
	SigningPlace   string `json:"signingPlace"`
}

// InvoiceInfo holds the invoice-level fields of a customs record.
type InvoiceInfo struct {
	InvoiceNumber string  `json:"invoiceNumber"`
	Date          string  `json:"date"`
	Currency      string  `json:"currency"`
	TotalAmount   float64 `json:"totalAmount"`
	Incoterms     string  `json:"incoterms"`
}

// PackingInfo holds shipment-level packing aggregates. The weight totals are
// nil when the oracle could not state them.
type PackingInfo struct {
	TotalPackages    float64  `json:"totalPackages"`
	TotalNetWeight   *float64 `json:"totalNetWeight,omitempty"`
	TotalGrossWeight *float64 `json:"totalGrossWeight,omitempty"`
	PackageType      string   `json:"packageType"`
}

// GoodsItem is one declaration line.
type GoodsItem struct {
	HSCode        string  `json:"hsCode"`
	NameChinese   string  `json:"nameChinese"`
	NameEnglish   string  `json:"nameEnglish"`
	ElementString string  `json:"elementString"` // 申报要素
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	UnitPrice     float64 `json:"unitPrice"`
	TotalPrice    float64 `json:"totalPrice"`
	NetWeight     float64 `json:"netWeight"`
	GrossWeight   float64 `json:"grossWeight"`
	OriginCountry string  `json:"originCountry"`
}

// CustomsRecord is the structured result of one analysis. It is treated as
// immutable once returned and is the sole input to projection.
type CustomsRecord struct {
	ContractInfo ContractInfo `json:"contractInfo"`
	InvoiceInfo  InvoiceInfo  `json:"invoiceInfo"`
	PackingInfo  PackingInfo  `json:"packingInfo"`
	GoodsList    []GoodsItem  `json:"goodsList"`
	Summary      string       `json:"summary"`
}

// UploadedFile is a file selected for a slot, fully buffered in memory.
type UploadedFile struct {
	Name string
	Data []byte
}

// DocumentSlot is a point-in-time view of one upload slot.
type DocumentSlot struct {
	Role       DocumentRole `json:"role"`
	FileName   string       `json:"file_name,omitempty"`
	Status     SlotStatus   `json:"status"`
	Generation uint64       `json:"generation"`
	TextLength int          `json:"text_length"`
	Error      string       `json:"error,omitempty"`
	UpdatedAt  time.Time    `json:"updated_at"`

	Text string `json:"-"`
}

// HasFile reports whether the slot currently holds a file handle.
func (s DocumentSlot) HasFile() bool { return s.FileName != "" }

// ExtractionRequest carries the text of all four documents. Build it with
// NewExtractionRequest so the four-ready invariant holds.
type ExtractionRequest struct {
	Contract    string
	Invoice     string
	Description string
	Packing     string
}

// NewExtractionRequest rejects the submission unless every document has text.
func NewExtractionRequest(contract, invoice, description, packing string) (ExtractionRequest, error) {
	req := ExtractionRequest{
		Contract:    contract,
		Invoice:     invoice,
		Description: description,
		Packing:     packing,
	}
	if missing := req.MissingRoles(); len(missing) > 0 {
		return ExtractionRequest{}, &ValidationError{Missing: missing}
	}
	return req, nil
}

// Text returns the document text for role.
func (r ExtractionRequest) Text(role DocumentRole) string {
	switch role {
	case RoleContract:
		return r.Contract
	case RoleInvoice:
		return r.Invoice
	case RoleDescription:
		return r.Description
	case RolePacking:
		return r.Packing
	}
	return ""
}

// MissingRoles lists the roles whose text is empty, in slot order.
func (r ExtractionRequest) MissingRoles() []DocumentRole {
	var missing []DocumentRole
	for _, role := range AllRoles {
		if strings.TrimSpace(r.Text(role)) == "" {
			missing = append(missing, role)
		}
	}
	return missing
}

// Sheet is one projected layout: a cell matrix plus column width hints.
// Cells hold string, int or float64 values only.
type Sheet struct {
	Name         string    `json:"name"`
	Rows         [][]any   `json:"rows"`
	ColumnWidths []float64 `json:"column_widths"`
}

// SheetSet holds the four layouts produced from one record.
type SheetSet struct {
	Declaration Sheet `json:"declaration"`
	Packing     Sheet `json:"packing"`
	Invoice     Sheet `json:"invoice"`
	Contract    Sheet `json:"contract"`
}

// Ordered returns the sheets in workbook order.
func (s SheetSet) Ordered() []Sheet {
	return []Sheet{s.Declaration, s.Packing, s.Invoice, s.Contract}
}

// Workbook is an emitted spreadsheet ready for download.
type Workbook struct {
	FileName    string
	ContentType string
	Data        []byte
}

// SessionView is a point-in-time view of one drafting session.
type SessionView struct {
	ID         string         `json:"id"`
	Slots      []DocumentSlot `json:"slots"`
	Processing bool           `json:"processing"`
	LastError  string         `json:"last_error,omitempty"`
	HasResult  bool           `json:"has_result"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ReadyCount returns how many slots are Ready.
func (v SessionView) ReadyCount() int {
	n := 0
	for _, s := range v.Slots {
		if s.Status == SlotStatusReady {
			n++
		}
	}
	return n
}
