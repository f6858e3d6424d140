package export

import (
	"context"
	"fmt"
	"io"
	"time"

	car "github.com/dealerhub/dealerhub-backend/internal/cars"
	"github.com/dealerhub/dealerhub-backend/pkg/config"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
)

// File is a rendered export blob ready to stream to the client.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type catalogWriter interface {
	CreateCar(ctx context.Context, input car.CarInput) (*car.CarDTO, error)
}

// Service renders catalog exports and ingests workbook imports.
type Service interface {
	ExportPDF(ctx context.Context, query car.ListQuery) (*File, error)
	ExportExcel(ctx context.Context, query car.ListQuery) (*File, error)
	ImportExcel(ctx context.Context, workbook io.Reader) (*ImportResult, error)
}

type service struct {
	catalog  catalogReader
	writer   catalogWriter
	pageSize int
	now      func() time.Time
	logg     *logger.Logger
}

func NewService(catalog catalogReader, writer catalogWriter, cfg config.ExportConfig, logg *logger.Logger) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if writer == nil {
		return nil, fmt.Errorf("catalog writer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		catalog:  catalog,
		writer:   writer,
		pageSize: cfg.PageSize,
		now:      time.Now,
		logg:     logg,
	}, nil
}

// ExportPDF renders the filtered catalog as a printable document.
func (s *service) ExportPDF(ctx context.Context, query car.ListQuery) (*File, error) {
	rows, err := collectAll(ctx, s.catalog, query, s.pageSize)
	if err != nil {
		return nil, err
	}

	generated := s.now()
	data, err := renderPDF(rows, generated)
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "cars", len(rows)), "pdf catalog exported")
	return &File{
		Name:        fmt.Sprintf("car-catalog-%s.pdf", generated.Format("2006-01-02")),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

// ExportExcel renders the filtered catalog as a workbook.
func (s *service) ExportExcel(ctx context.Context, query car.ListQuery) (*File, error) {
	rows, err := collectAll(ctx, s.catalog, query, s.pageSize)
	if err != nil {
		return nil, err
	}

	generated := s.now()
	data, err := renderExcel(rows)
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "cars", len(rows)), "excel catalog exported")
	return &File{
		Name:        fmt.Sprintf("car-catalog-%s.xlsx", generated.Format("2006-01-02")),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}
