package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	car "github.com/dealerhub/dealerhub-backend/internal/cars"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
)

const exportSheet = "Cars"

var excelHeaders = []any{
	"Car Info", "Image", "Mileage", "Engine", "Color", "AA Score", "Key Features", "Price",
}

func renderExcel(rows []car.CarDTO) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "preparing workbook")
	}
	if err := f.SetSheetRow(exportSheet, "A1", &excelHeaders); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing workbook header")
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving workbook cell")
		}
		values := excelRow(rows[i])
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("writing workbook row %d", i+2))
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "serializing workbook")
	}
	return buf.Bytes(), nil
}

func excelRow(row car.CarDTO) []any {
	return []any{
		safeCell(func() string { return carInfoCell(row) }),
		safeCell(func() string { return primaryPhotoURL(row) }),
		safeCell(func() string { return mileageCell(row) }),
		safeCell(func() string { return engineCell(row) }),
		safeCell(func() string { return strValue(row.Color) }),
		safeCell(func() string { return scoreCell(row) }),
		safeCell(func() string { return keyFeaturesCell(row) }),
		safeCell(func() string { return priceCell(row) }),
	}
}

func primaryPhotoURL(row car.CarDTO) string {
	for _, photo := range row.Photos {
		if photo.IsPrimary {
			return photo.URL
		}
	}
	if len(row.Photos) > 0 {
		return row.Photos[0].URL
	}
	return ""
}
