package inbound

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkgerror"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/pkg/pkgrouter"
	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/ingest"
)

type HTTPEndpoint struct {
	uc             uc
	maxUploadBytes int64
}

func (h *HTTPEndpoint) CreateDashboard(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.CreateDashboard(ctx)
	if err != nil {
		return nil, err
	}

	return CreateDashboardResponse{DashboardID: result.Dashboard.ID}, nil
}

func (h *HTTPEndpoint) Dashboard(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Dashboard(ctx, pkgrouter.GetParam(ctx, "id"))
	if err != nil {
		return nil, err
	}

	return toDashboardResponse(result.Dashboard), nil
}

func (h *HTTPEndpoint) DeleteDashboard(ctx context.Context, r *http.Request) (any, error) {
	if err := h.uc.DeleteDashboard(ctx, pkgrouter.GetParam(ctx, "id")); err != nil {
		return nil, err
	}

	return nil, nil
}

func (h *HTTPEndpoint) Upload(ctx context.Context, r *http.Request) (any, error) {
	if r.Body != nil {
		r.Body = http.MaxBytesReader(nil, r.Body, h.maxUploadBytes)
	}

	file, cleanup, err := extractFile(r)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result, err := h.uc.Upload(ctx, pkgrouter.GetParam(ctx, "id"), file)
	if err != nil {
		return nil, err
	}

	return toDashboardResponse(result.Dashboard), nil
}

func (h *HTTPEndpoint) Ingestions(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()

	page, pageSize, err := parsePagination(query.Get("page"), query.Get("page_size"))
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Ingestions(ctx, pkgrouter.GetParam(ctx, "id"), page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]Ingestion, 0, len(result.Ingestions))
	for _, meta := range result.Ingestions {
		items = append(items, toHTTPIngestion(meta))
	}

	return IngestionsResponse{
		DashboardID: result.DashboardID,
		Ingestions:  items,
		page:        result.Page,
		pageSize:    result.PageSize,
		total:       result.Total,
	}, nil
}

func parsePagination(pageRaw, sizeRaw string) (int, int, error) {
	page := 1
	pageSize := 10

	if pageRaw != "" {
		value, err := strconv.Atoi(pageRaw)
		if err != nil || value < 1 {
			return 0, 0, pkgerror.NewInvalidInput(errors.New("invalid page"))
		}
		page = value
	}

	if sizeRaw != "" {
		value, err := strconv.Atoi(sizeRaw)
		if err != nil || value < 1 {
			return 0, 0, pkgerror.NewInvalidInput(errors.New("invalid page_size"))
		}
		if value > 100 {
			value = 100
		}
		pageSize = value
	}

	return page, pageSize, nil
}

// extractFile reads the "file" part of a multipart form. A form without
// that part, or with an empty file name, yields a nil file.
func extractFile(r *http.Request) (*ingest.File, func(), error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.EqualFold(mediaType, "multipart/form-data") {
		return nil, func() {}, pkgerror.NewBusiness("upload must be a multipart form", pkgerror.CodeUnsupportedMediaType)
	}

	return extractMultipartFile(r)
}

func extractMultipartFile(r *http.Request) (*ingest.File, func(), error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, func() {}, pkgerror.NewInvalidFormat()
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.Is(err, io.EOF):
				return nil, func() {}, nil
			case errors.As(err, &tooLarge):
				return unreadableUpload(err), func() {}, nil
			default:
				return nil, func() {}, pkgerror.NewInvalidFormat()
			}
		}

		if part.FormName() == "file" {
			if part.FileName() == "" {
				_ = part.Close()
				return nil, func() {}, nil
			}
			return &ingest.File{
				Name:    part.FileName(),
				Type:    partMediaType(part),
				Content: part,
			}, func() { _ = part.Close() }, nil
		}
		_ = part.Close()
	}
}

// unreadableUpload stands for an upload whose body broke off before the
// file part was reached. Ingesting it fails at the parse stage.
func unreadableUpload(cause error) *ingest.File {
	return &ingest.File{Type: ingest.CSVMimeType, Content: failingReader{err: cause}}
}

type failingReader struct {
	err error
}

func (r failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

func partMediaType(part *multipart.Part) string {
	contentType := part.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	return contentType
}
