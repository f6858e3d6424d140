package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	car "github.com/dealerhub/dealerhub-backend/internal/cars"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
)

// pdfColumns lays out the catalog table on a landscape A4 page.
var pdfColumns = []struct {
	title string
	width float64
}{
	{"Car Info", 52},
	{"Image", 30},
	{"Mileage", 24},
	{"Engine", 22},
	{"Color", 24},
	{"AA Score", 20},
	{"Key Features", 70},
	{"Price", 33},
}

const (
	pdfRowHeight   = 8.0
	pdfBodyLimit   = 185.0
	maxPhotoLinks  = 5
	maxKeyFeatures = 3
)

func renderPDF(rows []car.CarDTO, generated time.Time) ([]byte, error) {
	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 10)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, "Car Catalog", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, "Generated "+generated.Format("2006-01-02"), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, fmt.Sprintf("Total cars: %d", len(rows)), "", 1, "L", false, 0, "")
	doc.Ln(2)

	writePDFHeader(doc)
	for i := range rows {
		if doc.GetY()+pdfRowHeight > pdfBodyLimit {
			doc.AddPage()
			writePDFHeader(doc)
		}
		writePDFRow(doc, rows[i])
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering pdf catalog")
	}
	return buf.Bytes(), nil
}

func writePDFHeader(doc *fpdf.Fpdf) {
	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(230, 230, 230)
	for _, col := range pdfColumns {
		doc.CellFormat(col.width, pdfRowHeight, col.title, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)
	doc.SetFont("Helvetica", "", 8)
}

func writePDFRow(doc *fpdf.Fpdf, row car.CarDTO) {
	doc.CellFormat(pdfColumns[0].width, pdfRowHeight, truncate(carInfoCell(row), 34), "1", 0, "L", false, 0, "")

	// The image column carries numbered links to the hosted photos.
	x, y := doc.GetX(), doc.GetY()
	doc.CellFormat(pdfColumns[1].width, pdfRowHeight, "", "1", 0, "L", false, 0, "")
	photos := row.Photos
	if len(photos) > maxPhotoLinks {
		photos = photos[:maxPhotoLinks]
	}
	doc.SetXY(x+1, y)
	if len(photos) == 0 {
		doc.CellFormat(pdfColumns[1].width-2, pdfRowHeight, "N/A", "", 0, "C", false, 0, "")
	} else {
		doc.SetTextColor(0, 0, 200)
		for i, photo := range photos {
			doc.CellFormat(5, pdfRowHeight, strconv.Itoa(i+1), "", 0, "C", false, 0, photo.URL)
		}
		doc.SetTextColor(0, 0, 0)
	}
	doc.SetXY(x+pdfColumns[1].width, y)

	doc.CellFormat(pdfColumns[2].width, pdfRowHeight, safeCell(func() string { return mileageCell(row) }), "1", 0, "R", false, 0, "")
	doc.CellFormat(pdfColumns[3].width, pdfRowHeight, safeCell(func() string { return engineCell(row) }), "1", 0, "R", false, 0, "")
	doc.CellFormat(pdfColumns[4].width, pdfRowHeight, safeCell(func() string { return strValue(row.Color) }), "1", 0, "L", false, 0, "")
	doc.CellFormat(pdfColumns[5].width, pdfRowHeight, safeCell(func() string { return scoreCell(row) }), "1", 0, "C", false, 0, "")
	doc.CellFormat(pdfColumns[6].width, pdfRowHeight, truncate(safeCell(func() string { return keyFeaturesCell(row) }), 48), "1", 0, "L", false, 0, "")
	doc.CellFormat(pdfColumns[7].width, pdfRowHeight, safeCell(func() string { return priceCell(row) }), "1", 0, "R", false, 0, "")
	doc.Ln(-1)
}

// safeCell keeps one broken record from sinking the whole document.
func safeCell(fn func() string) (out string) {
	defer func() {
		if recover() != nil {
			out = "Error"
		}
	}()
	return fn()
}

func carInfoCell(row car.CarDTO) string {
	parts := []string{row.Name}
	if row.Year != nil {
		parts = append(parts, strconv.Itoa(*row.Year))
	}
	if row.RefNo != "" {
		parts = append(parts, "Ref "+row.RefNo)
	}
	return strings.Join(parts, " / ")
}

func mileageCell(row car.CarDTO) string {
	if row.Mileage == nil {
		return ""
	}
	return fmt.Sprintf("%d km", *row.Mileage)
}

func engineCell(row car.CarDTO) string {
	if row.EngineCC == nil {
		return ""
	}
	return fmt.Sprintf("%d cc", *row.EngineCC)
}

func scoreCell(row car.CarDTO) string {
	if row.GradeOverall == nil {
		return ""
	}
	return strconv.FormatFloat(*row.GradeOverall, 'f', 1, 64)
}

func keyFeaturesCell(row car.CarDTO) string {
	var features []string
	for _, detail := range row.Details {
		title := strings.TrimSpace(detail.ShortTitle)
		if title == "" {
			continue
		}
		features = append(features, title)
		if len(features) == maxKeyFeatures {
			break
		}
	}
	return strings.Join(features, ", ")
}

func priceCell(row car.CarDTO) string {
	return strings.TrimSpace(row.Currency + " " + row.PriceAmount.StringFixed(0))
}

func strValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
