package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-dashboard/internal/dto"
	"github.com/noah-isme/classroom-dashboard/internal/models"
	appErrors "github.com/noah-isme/classroom-dashboard/pkg/errors"
	"github.com/noah-isme/classroom-dashboard/pkg/export"
	"github.com/noah-isme/classroom-dashboard/pkg/storage"
)

// Export formats and kinds.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"

	ExportRoster = "roster"
	ExportGrades = "grades"

	contentTypeCSV = "text/csv; charset=utf-8"
	contentTypePDF = "application/pdf"
)

type classLookup interface {
	Class(id string) (models.ClassRoom, error)
}

type fileStorage interface {
	Save(relPath string, data []byte) (string, error)
	Read(relPath string) ([]byte, error)
	Delete(relPath string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type tokenSigner interface {
	Generate(exportID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (exportID, relPath string, expiresAt time.Time, err error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title, subtitle string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Enabled   bool
	APIPrefix string
	ResultTTL time.Duration
}

// Artifact is a rendered export ready to download.
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders roster and gradebook downloads and stores signed
// copies for later retrieval.
type ExportService struct {
	classes classLookup
	storage fileStorage
	signer  tokenSigner
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	cfg     ExportConfig
	now     func() time.Time
}

// ExportServiceParams groups constructor dependencies.
type ExportServiceParams struct {
	Classes classLookup
	Storage fileStorage
	Signer  tokenSigner
	CSV     csvRenderer
	PDF     pdfRenderer
	Logger  *zap.Logger
	Config  ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(params ExportServiceParams) *ExportService {
	cfg := params.Config
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	csv := params.CSV
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	pdf := params.PDF
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		classes: params.Classes,
		storage: params.Storage,
		signer:  params.Signer,
		csv:     csv,
		pdf:     pdf,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// RosterDataset lists the class roster. Commas are stripped from names and
// emails.
func RosterDataset(class models.ClassRoom) export.Dataset {
	data := export.Dataset{
		Headers: []string{"Name", "Student ID", "Email"},
		Rows:    make([][]string, 0, len(class.Students)),
	}
	for _, s := range class.Students {
		data.Rows = append(data.Rows, []string{stripCommas(s.Name), s.ID, stripCommas(s.Email)})
	}
	return data
}

// GradesDataset lists every student's score and points per assignment plus
// the average. Ungraded cells and unavailable averages are "-".
func GradesDataset(class models.ClassRoom) export.Dataset {
	headers := []string{"Student", "Student ID"}
	for _, a := range class.Assignments {
		headers = append(headers, a.Title+" (Score)", a.Title+" (Points)")
	}
	headers = append(headers, "Average (%)")

	data := export.Dataset{Headers: headers, Rows: make([][]string, 0, len(class.Students))}
	for _, s := range class.Students {
		row := []string{s.Name, s.ID}
		for i := range class.Assignments {
			a := &class.Assignments[i]
			if idx := a.SubmissionFor(s.ID); idx >= 0 && a.Submissions[idx].Graded() {
				row = append(row, formatGrade(*a.Submissions[idx].Grade), strconv.Itoa(int(a.Points)))
				continue
			}
			row = append(row, ungradedCell, ungradedCell)
		}
		avg := AverageOf(ScoreFor(class.Assignments, s.ID))
		if avg == dto.NotAvailable {
			avg = ungradedCell
		}
		data.Rows = append(data.Rows, append(row, avg))
	}
	return data
}

// Roster renders the roster CSV of a class.
func (s *ExportService) Roster(classID string) (Artifact, error) {
	class, err := s.classes.Class(classID)
	if err != nil {
		return Artifact{}, err
	}
	if len(class.Students) == 0 {
		return Artifact{}, appErrors.Clone(appErrors.ErrValidation, "No students to export")
	}
	body, err := s.csv.Render(RosterDataset(class))
	if err != nil {
		return Artifact{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render roster")
	}
	return Artifact{Filename: exportFilename(class.Name, "students", FormatCSV), ContentType: contentTypeCSV, Body: body}, nil
}

// Grades renders the gradebook as CSV or PDF.
func (s *ExportService) Grades(classID, format string) (Artifact, error) {
	if format == "" {
		format = FormatCSV
	}
	class, err := s.classes.Class(classID)
	if err != nil {
		return Artifact{}, err
	}
	data := GradesDataset(class)
	switch format {
	case FormatCSV:
		body, err := s.csv.Render(data)
		if err != nil {
			return Artifact{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render grades")
		}
		return Artifact{Filename: exportFilename(class.Name, "grades", FormatCSV), ContentType: contentTypeCSV, Body: body}, nil
	case FormatPDF:
		subtitle := fmt.Sprintf("Code %s, generated %s", class.Code, s.now().Format("2006-01-02 15:04"))
		body, err := s.pdf.Render(data, class.Name+" Grades", subtitle)
		if err != nil {
			return Artifact{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render grades")
		}
		return Artifact{Filename: exportFilename(class.Name, "grades", FormatPDF), ContentType: contentTypePDF, Body: body}, nil
	default:
		return Artifact{}, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

// Publish stores an export and returns a signed download link.
func (s *ExportService) Publish(ctx context.Context, classID, kind, format string) (dto.ExportLink, error) {
	if !s.cfg.Enabled || s.storage == nil || s.signer == nil {
		return dto.ExportLink{}, appErrors.ErrExportsDisabled
	}
	var (
		artifact Artifact
		err      error
	)
	switch kind {
	case ExportRoster:
		artifact, err = s.Roster(classID)
	case ExportGrades, "":
		artifact, err = s.Grades(classID, format)
	default:
		return dto.ExportLink{}, appErrors.Clone(appErrors.ErrValidation, "kind must be roster or grades")
	}
	if err != nil {
		return dto.ExportLink{}, err
	}

	id := uuid.NewString()
	relPath, err := s.storage.Save(path.Join(id, artifact.Filename), artifact.Body)
	if err != nil {
		return dto.ExportLink{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store export")
	}
	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		_ = s.storage.Delete(relPath)
		return dto.ExportLink{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "sign export")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Info("export published", zap.String("export_id", id), zap.String("class_id", classID), zap.String("file", artifact.Filename))
	return dto.ExportLink{
		ID:        id,
		Filename:  artifact.Filename,
		Token:     token,
		URL:       fmt.Sprintf("%s/exports/%s", prefix, token),
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// Open resolves a download token to its stored artifact.
func (s *ExportService) Open(token string) (Artifact, error) {
	if !s.cfg.Enabled || s.storage == nil || s.signer == nil {
		return Artifact{}, appErrors.ErrExportsDisabled
	}
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return Artifact{}, appErrors.ErrTokenExpired
		}
		return Artifact{}, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "download link is invalid")
	}
	body, err := s.storage.Read(relPath)
	if err != nil {
		return Artifact{}, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export not found")
	}
	return Artifact{Filename: path.Base(relPath), ContentType: contentTypeFor(relPath), Body: body}, nil
}

// Cleanup removes stored exports older than ttl (the configured TTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if s.storage == nil {
		return nil, nil
	}
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	removed, err := s.storage.CleanupOlderThan(ttl)
	if len(removed) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
	}
	return removed, err
}

func exportFilename(className, suffix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", sanitizeFilename(className), suffix, ext)
}

func sanitizeFilename(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "class"
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "\"", "", "..", ".")
	result := replacer.Replace(strings.TrimSpace(raw))
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func stripCommas(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

func contentTypeFor(relPath string) string {
	if strings.HasSuffix(relPath, "."+FormatPDF) {
		return contentTypePDF
	}
	return contentTypeCSV
}
