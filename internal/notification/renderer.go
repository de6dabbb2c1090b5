package notification

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
)

// acknowledgementPolicies are printed as the terms the assignee signs
// against.
var acknowledgementPolicies = []string{
	"I acknowledge receipt of the asset listed above in good working condition.",
	"I will use the asset for business purposes in accordance with company policy.",
	"I am responsible for the safekeeping of the asset while it is assigned to me.",
	"I will report any loss, theft, or damage to the IT department immediately.",
	"I will not install unauthorized software or modify the asset configuration.",
	"I will return the asset upon request, role change, or separation from the company.",
}

type row struct {
	Label string
	Value string
}

// orNA substitutes a placeholder for absent values so the rendered
// document never shows blank cells.
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func assetRows(asset AssetSnapshot) []row {
	warranty := "N/A"
	if asset.WarrantyDate != nil {
		warranty = asset.WarrantyDate.Format("January 02, 2006")
	}
	price := "N/A"
	if asset.PurchasePrice > 0 {
		price = fmt.Sprintf("$%.2f", asset.PurchasePrice)
	}
	return []row{
		{"Asset ID", orNA(asset.AssetID)},
		{"Category", orNA(asset.Category)},
		{"Model", orNA(asset.Model)},
		{"Serial Number", orNA(asset.SerialNumber)},
		{"Status", orNA(asset.Status)},
		{"Location", orNA(asset.Location)},
		{"Warranty Until", warranty},
		{"Purchase Price", price},
	}
}

func assigneeRows(assignee AssigneeInfo) []row {
	return []row{
		{"Name", orNA(assignee.Name)},
		{"Position", orNA(assignee.Position)},
		{"Department", orNA(assignee.Department)},
		{"Email", orNA(assignee.Email)},
		{"Phone", orNA(assignee.Phone)},
	}
}

// documentName builds a collision-free file name for one acknowledgement.
func documentName(assetID string, now time.Time) string {
	return fmt.Sprintf("asset-assignment-%s-%d.pdf", assetID, now.UnixNano())
}

// Renderer produces the asset assignment acknowledgement document.
type Renderer struct {
	tempDir     string
	companyName string
	now         func() time.Time
}

func NewRenderer(tempDir, companyName string) *Renderer {
	return &Renderer{
		tempDir:     tempDir,
		companyName: companyName,
		now:         time.Now,
	}
}

// Render writes the acknowledgement PDF to the temp directory and
// returns its path. The caller owns the file and its eventual removal.
func (r *Renderer) Render(asset AssetSnapshot, assignee AssigneeInfo) (string, error) {
	if err := os.MkdirAll(r.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create temp dir: %v", ErrRenderFailed, err)
	}

	now := r.now()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "IT ASSET ASSIGNMENT ACKNOWLEDGEMENT", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, r.companyName, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+now.Format("January 2, 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	r.section(pdf, "ASSET DETAILS", assetRows(asset))
	r.section(pdf, "ASSIGNEE DETAILS", assigneeRows(assignee))

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "ACKNOWLEDGEMENT", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, policy := range acknowledgementPolicies {
		pdf.MultiCell(0, 5, "- "+policy, "", "L", false)
		pdf.Ln(1)
	}
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(85, 6, "_______________________________", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "_______________________________", "", 1, "L", false, 0, "")
	pdf.CellFormat(85, 6, "Employee Signature", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "IT Department", "", 1, "L", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, "This document was generated automatically by the IT asset management system.", "", 1, "C", false, 0, "")

	path := filepath.Join(r.tempDir, documentName(asset.AssetID, now))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return path, nil
}

func (r *Renderer) section(pdf *fpdf.Fpdf, title string, rows []row) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.CellFormat(50, 6, row.Label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row.Value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}
