package web

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/JonMunkholm/jaarrekening/internal/analysis"
	"github.com/JonMunkholm/jaarrekening/internal/core"
	"github.com/JonMunkholm/jaarrekening/internal/export"
	"github.com/JonMunkholm/jaarrekening/internal/web/templates"
)

// multipartMemory is the part of a multipart form kept in memory.
const multipartMemory = 8 << 20

// defaultHistoryLimit applies when the limit query is absent or zero.
const defaultHistoryLimit = 50

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status   string             `json:"status"`
	Database string             `json:"database"`
	Uploads  core.LimiterStatus `json:"uploads"`
}

// handleHealth reports store connectivity and upload slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "ok", Uploads: s.service.LimiterStatus()}
	if err := s.service.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = err.Error()
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}

// handleListCompanies returns every company with stored years.
func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.service.Companies(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, companies)
}

// handleListYears returns a company's records in ascending year order.
func (s *Server) handleListYears(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")
	records, err := s.service.Years(r.Context(), company)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, records)
}

// handleGetYear returns one stored record.
func (s *Server) handleGetYear(w http.ResponseWriter, r *http.Request) {
	ref, err := s.yearParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	rec, err := s.service.Year(r.Context(), ref.Company, ref.Year)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, rec)
}

// handleUploadYear ingests the multipart "file" as the company's record for
// the year in the URL.
func (s *Server) handleUploadYear(w http.ResponseWriter, r *http.Request) {
	ref, err := s.yearParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	file, name, err := s.formFile(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	res, err := s.service.Ingest(withClient(r), core.IngestParams{
		Company:  ref.Company,
		Year:     ref.Year,
		FileName: name,
		Body:     file,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		if err := templates.UploadResult(res.Record, name).Render(r.Context(), w); err != nil {
			s.respondError(w, r, err)
		}
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, res)
}

// handleDeleteYear removes a stored record.
func (s *Server) handleDeleteYear(w http.ResponseWriter, r *http.Request) {
	ref, err := s.yearParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.service.DeleteYear(r.Context(), ref.Company, ref.Year); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExtract runs the extractor on an uploaded file without storing it.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	file, name, err := s.formFile(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	year, err := strconv.Atoi(r.FormValue("year"))
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: year must be a number", errInvalid))
		return
	}
	rec, err := s.service.Extract(r.Context(), year, name, file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, rec)
}

// handleAnalysis returns KPIs, health, comparisons and insights.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	a, err := s.service.Analysis(r.Context(), chi.URLParam(r, "company"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, a)
}

// handleReport returns the analysis as a Markdown document.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")
	records, err := s.service.Years(r.Context(), company)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := analysis.WriteReport(&buf, company, records); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleExport downloads a company's records as JSON, CSV or XLSX.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := exportQuery{Format: r.URL.Query().Get("format")}
	if err := s.validate(q); err != nil {
		s.respondError(w, r, err)
		return
	}
	if q.Format == "" {
		q.Format = string(export.FormatCSV)
	}
	format, err := export.ParseFormat(q.Format)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %v", errInvalid, err))
		return
	}

	company := chi.URLParam(r, "company")
	records, err := s.service.Years(r.Context(), company)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	// Buffer so a failed export still gets a proper error response.
	now := time.Now()
	var buf bytes.Buffer
	if err := export.Write(&buf, format, records, now); err != nil {
		s.respondError(w, r, err)
		return
	}

	key, _ := core.NormalizeCompany(company)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, export.FileName(key, format, now)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// handleCompanyUploads returns one company's upload history.
func (s *Server) handleCompanyUploads(w http.ResponseWriter, r *http.Request) {
	s.writeHistory(w, r, chi.URLParam(r, "company"))
}

// handleAllUploads returns the upload history across companies.
func (s *Server) handleAllUploads(w http.ResponseWriter, r *http.Request) {
	s.writeHistory(w, r, "")
}

func (s *Server) writeHistory(w http.ResponseWriter, r *http.Request, company string) {
	q := historyQuery{}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, r, fmt.Errorf("%w: limit must be a number", errInvalid))
			return
		}
		q.Limit = n
	}
	if err := s.validate(q); err != nil {
		s.respondError(w, r, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultHistoryLimit
	}

	uploads, err := s.service.History(r.Context(), company, q.Limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, uploads)
}

// yearParam reads and validates the {company} and {year} URL parameters.
func (s *Server) yearParam(r *http.Request) (yearRef, error) {
	ref := yearRef{Company: chi.URLParam(r, "company")}
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return ref, fmt.Errorf("%w: year must be a number", errInvalid)
	}
	ref.Year = year
	if err := s.validate(ref); err != nil {
		return ref, err
	}
	return ref, nil
}

// formFile limits the request body and returns the multipart "file" part.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, string, error) {
	// Allow for multipart framing around the document itself.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: %v", errNoFile, err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", errNoFile
	}
	return file, header.Filename, nil
}
