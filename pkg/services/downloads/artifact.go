package downloads

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/policy-report/pkg/models/domain"
	"github.com/de-tools/policy-report/pkg/services/render"
)

type Kind string

const (
	KindExcel Kind = "excel"
	KindJSON  Kind = "json"
	KindCSV   Kind = "csv"
)

const (
	contentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeJSON  = "application/json"
	contentTypeCSV   = "text/csv"
)

// ErrNoPayload indicates the report carries nothing for the requested download.
var ErrNoPayload = errors.New("report has no payload for this download")

// Artifact is a file ready to be handed to the user.
type Artifact struct {
	Kind        Kind
	Filename    string
	ContentType string
	Data        []byte
}

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindExcel, KindJSON, KindCSV:
		return k, nil
	case "xlsx":
		return KindExcel, nil
	default:
		return "", fmt.Errorf("unknown download kind %q (must be excel, json, or csv)", s)
	}
}

// Build materializes the download of the given kind from report.
func Build(report *domain.Report, kind Kind) (*Artifact, error) {
	if report == nil {
		return nil, ErrNoPayload
	}
	switch kind {
	case KindExcel:
		return ExcelArtifact(report)
	case KindJSON:
		return JSONArtifact(report)
	case KindCSV:
		return CSVArtifact(report)
	default:
		return nil, fmt.Errorf("unknown download kind %q", kind)
	}
}

// ExcelArtifact decodes the base64 workbook sent by the backend.
func ExcelArtifact(report *domain.Report) (*Artifact, error) {
	if report.ExcelData == "" {
		return nil, fmt.Errorf("excel: %w", ErrNoPayload)
	}
	data, err := base64.StdEncoding.DecodeString(report.ExcelData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode excel payload: %w", err)
	}
	return &Artifact{
		Kind:        KindExcel,
		Filename:    fmt.Sprintf("%s_processed_policies.xlsx", report.CompanyName),
		ContentType: contentTypeExcel,
		Data:        data,
	}, nil
}

// JSONArtifact re-serializes the calculated records as pretty-printed JSON.
func JSONArtifact(report *domain.Report) (*Artifact, error) {
	data := render.PrettyJSON(render.CalculatedJSON(report.Records))
	return &Artifact{
		Kind:        KindJSON,
		Filename:    fmt.Sprintf("%s_processed_data.json", report.CompanyName),
		ContentType: contentTypeJSON,
		Data:        []byte(data),
	}, nil
}

// CSVArtifact hands back the backend CSV unchanged.
func CSVArtifact(report *domain.Report) (*Artifact, error) {
	if report.CSVData == nil {
		return nil, fmt.Errorf("csv: %w", ErrNoPayload)
	}
	return &Artifact{
		Kind:        KindCSV,
		Filename:    fmt.Sprintf("%s_processed_policies.csv", report.CompanyName),
		ContentType: contentTypeCSV,
		Data:        []byte(*report.CSVData),
	}, nil
}
