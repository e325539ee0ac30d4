package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/de-tools/policy-report/pkg/models/api"
	"github.com/de-tools/policy-report/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Canonical record keys. Backend field names are matched against these after
// canonicalKey, so "policy type", "Policy_Type" and "policyType" are one field.
const (
	keySegment          = "segment"
	keyLocation         = "location"
	keyPolicyType       = "policytype"
	keyPayin            = "payin"
	keyRemark           = "remark"
	keyCalculatedPayout = "calculatedpayout"
	keyFormulaUsed      = "formulaused"
	keyRuleExplanation  = "ruleexplanation"

	keyLOB     = "lob"
	keyInsurer = "insurer"
	keyPO      = "po"
	keyRemarks = "remarks"
)

// MapAPIReportToDomain decodes a backend response into the canonical report.
// Every missing value is replaced by its display fallback here and nowhere else.
func MapAPIReportToDomain(ctx context.Context, resp *api.ReportResponse, companyName string) *domain.Report {
	logger := zerolog.Ctx(ctx)

	report := &domain.Report{
		CompanyName:   companyName,
		ExtractedText: resp.ExtractedText,
		ParsedData:    resp.ParsedData,
		ExcelData:     resp.ExcelData,
		CSVData:       resp.CSVData,
	}

	for i, raw := range resp.CalculatedData {
		fields, err := decodeObject(raw)
		if err != nil {
			logger.Warn().
				Err(err).
				Int("index", i).
				Msg("skipping calculated record that is not an object")
			continue
		}
		report.Records = append(report.Records, MapPolicyRecord(fields, raw))
	}

	for i, raw := range resp.FormulaData {
		fields, err := decodeObject(raw)
		if err != nil {
			logger.Warn().
				Err(err).
				Int("index", i).
				Msg("skipping formula rule that is not an object")
			continue
		}
		report.FormulaRules = append(report.FormulaRules, MapFormulaRule(fields))
	}

	report.Metrics = domain.Metrics{
		TotalRecords:   len(report.Records),
		AvgPayin:       resp.AvgPayin,
		UniqueSegments: 0,
	}
	if resp.UniqueSegments != nil {
		report.Metrics.UniqueSegments = *resp.UniqueSegments
	}

	summary := resp.FormulaSummary
	if resp.Metrics != nil {
		if report.Metrics.AvgPayin == nil {
			report.Metrics.AvgPayin = resp.Metrics.AvgPayin
		}
		if resp.UniqueSegments == nil && resp.Metrics.UniqueSegments != nil {
			report.Metrics.UniqueSegments = *resp.Metrics.UniqueSegments
		}
		if summary == nil {
			summary = resp.Metrics.FormulaSummary
		}
	}
	report.FormulaSummary = mapFormulaSummary(summary)

	return report
}

// MapPolicyRecord builds a record from canonicalized fields.
func MapPolicyRecord(fields map[string]any, raw json.RawMessage) domain.PolicyRecord {
	return domain.PolicyRecord{
		Segment:          valueOr(fields, keySegment, domain.NotAvailable),
		Location:         valueOr(fields, keyLocation, domain.NotAvailable),
		PolicyType:       valueOr(fields, keyPolicyType, domain.NotAvailable),
		Payin:            valueOr(fields, keyPayin, domain.NotAvailable),
		Remark:           valueOr(fields, keyRemark, ""),
		CalculatedPayout: valueOr(fields, keyCalculatedPayout, domain.NotAvailable),
		FormulaUsed:      valueOr(fields, keyFormulaUsed, domain.NotAvailable),
		RuleExplanation:  valueOr(fields, keyRuleExplanation, domain.NotAvailable),
		Raw:              raw,
	}
}

func MapFormulaRule(fields map[string]any) domain.FormulaRule {
	return domain.FormulaRule{
		LOB:     valueOr(fields, keyLOB, ""),
		Segment: valueOr(fields, keySegment, ""),
		Insurer: valueOr(fields, keyInsurer, ""),
		PO:      valueOr(fields, keyPO, ""),
		Remarks: valueOr(fields, keyRemarks, ""),
	}
}

func mapFormulaSummary(summary map[string]int) []domain.FormulaCount {
	if len(summary) == 0 {
		return nil
	}
	counts := make([]domain.FormulaCount, 0, len(summary))
	for formula, count := range summary {
		counts = append(counts, domain.FormulaCount{Formula: formula, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Formula < counts[j].Formula
	})
	return counts
}

func decodeObject(raw json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("record is null")
	}
	return canonicalize(fields), nil
}

func canonicalize(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		ck := canonicalKey(k)
		// a non-null spelling wins over a null one
		if existing, ok := out[ck]; ok && existing != nil {
			continue
		}
		out[ck] = v
	}
	return out
}

func canonicalKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range strings.ToLower(key) {
		switch r {
		case ' ', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func valueOr(fields map[string]any, key, fallback string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return fallback
	}
	return formatValue(v)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, " ")
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
