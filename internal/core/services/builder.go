package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/sitrep/internal/core/domain"
)

// Section headers of the brief template, in order. The template guard and
// the polish prompt both key off these exact strings.
const (
	HeaderExecutiveBrief    = "EXECUTIVE BRIEF"
	HeaderWhatsHappening    = "WHAT'S HAPPENING"
	HeaderWhyItMatters      = "WHY IT MATTERS"
	HeaderWhosImpacted      = "WHO'S IMPACTED"
	HeaderRiskLevel         = "RISK LEVEL"
	HeaderRecommendedAction = "RECOMMENDED ACTION"
	HeaderSourceStatus      = "SOURCE STATUS"
)

// RequiredHeaders returns every section header in template order.
func RequiredHeaders() []string {
	return []string{
		HeaderExecutiveBrief,
		HeaderWhatsHappening,
		HeaderWhyItMatters,
		HeaderWhosImpacted,
		HeaderRiskLevel,
		HeaderRecommendedAction,
		HeaderSourceStatus,
	}
}

// BuildBrief renders the deterministic executive brief from the aggregated
// source results. It is a pure function of its inputs: same sources and
// thresholds, same bytes. It always succeeds, whatever mix of failures the
// sources carry, and it never invents data a source did not return.
func BuildBrief(sources domain.Sources, thresholds domain.Thresholds) string {
	level, reasons := riskLevel(sources, thresholds)

	var b strings.Builder
	section := func(header string, lines []string) {
		b.WriteString(header)
		b.WriteString("\n")
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	section(HeaderExecutiveBrief, nil)
	section(HeaderWhatsHappening, happeningLines(sources))
	section(HeaderWhyItMatters, mattersLines(sources, thresholds))
	section(HeaderWhosImpacted, impactedLines(sources))
	section(HeaderRiskLevel, []string{fmt.Sprintf("%s (%s)", level, strings.Join(reasons, "; "))})
	section(HeaderRecommendedAction, actionLines(sources, level, thresholds))

	// Traceability footer: one status line per source, envelope key names.
	statusLines := make([]string, 0, 3)
	for _, st := range sources.Statuses() {
		if st.OK {
			statusLines = append(statusLines, fmt.Sprintf("- %s: OK", st.Source))
		} else {
			statusLines = append(statusLines, fmt.Sprintf("- %s: FAILED (%s)", st.Source, st.Error))
		}
	}
	b.WriteString(HeaderSourceStatus)
	b.WriteString("\n")
	b.WriteString(strings.Join(statusLines, "\n"))
	b.WriteString("\n")

	return b.String()
}

// riskLevel derives the ordinal risk from the numeric signals alone.
// Visibility gaps are surfaced in their own lines, never silently folded
// into the ordinal.
func riskLevel(sources domain.Sources, t domain.Thresholds) (domain.RiskLevel, []string) {
	level := domain.RiskLow
	var reasons []string

	if sn := sources.ServiceNow; sn.OK && t.HighPriorityIncidents > 0 &&
		sn.Data.TotalHighPriority >= t.HighPriorityIncidents {
		level = domain.RiskHigh
		reasons = append(reasons, fmt.Sprintf("%d high-priority incidents meet the %d-incident threshold",
			sn.Data.TotalHighPriority, t.HighPriorityIncidents))
	}
	if sf := sources.Salesforce; sf.OK && t.AtRiskRevenue > 0 &&
		sf.Data.AtRiskValue >= t.AtRiskRevenue {
		if level < domain.RiskMedium {
			level = domain.RiskMedium
		}
		reasons = append(reasons, fmt.Sprintf("at-risk revenue of %s meets the %s threshold",
			money(sf.Data.AtRiskValue), money(t.AtRiskRevenue)))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "no thresholds breached")
	}
	return level, reasons
}

func happeningLines(sources domain.Sources) []string {
	return []string{
		"- ServiceNow: " + ticketLine(sources.ServiceNow),
		"- Salesforce: " + pipelineLine(sources.Salesforce),
		"- SharePoint: " + documentLine(sources.SharePoint),
	}
}

func ticketLine(r domain.TicketResult) string {
	if !r.OK {
		return gapLine(r.Error)
	}
	d := r.Data
	if d.TotalHighPriority == 0 {
		return "no high-priority incidents open."
	}
	line := fmt.Sprintf("%d high-priority incidents", d.TotalHighPriority)
	if breakdown := priorityBreakdown(d.ByPriority); breakdown != "" {
		line += " (" + breakdown + ")"
	}
	if d.Instance != "" {
		line += " on " + d.Instance
	}
	return line + "."
}

func priorityBreakdown(counts []domain.PriorityCount) string {
	if len(counts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s=%d", c.Priority, c.Count))
	}
	return strings.Join(parts, ", ")
}

func pipelineLine(r domain.PipelineResult) string {
	if !r.OK {
		return gapLine(r.Error)
	}
	d := r.Data
	switch {
	case d.OpenDeals == 0:
		return fmt.Sprintf("account %s has no open deals (via %s).", d.Account, d.Strategy)
	case d.AtRiskDeals == 0:
		return fmt.Sprintf("account %s has %d open deals, none at risk (via %s).",
			d.Account, d.OpenDeals, d.Strategy)
	default:
		return fmt.Sprintf("account %s has %d of %d open deals at risk worth %s (via %s).",
			d.Account, d.AtRiskDeals, d.OpenDeals, money(d.AtRiskValue), d.Strategy)
	}
}

func documentLine(r domain.DocumentResult) string {
	if !r.OK {
		return gapLine(r.Error)
	}
	d := r.Data
	names := make([]string, 0, len(d.Files))
	for _, f := range d.Files {
		names = append(names, f.Name)
	}
	line := fmt.Sprintf("%d document(s) reviewed: %s.", len(d.Files), strings.Join(names, ", "))
	if d.SummarisedByLLM {
		line += " Key points: " + d.Summary
	}
	return line
}

// gapLine phrases a source failure as a visibility gap rather than an
// internal error dump.
func gapLine(errMsg string) string {
	return fmt.Sprintf("visibility gap, no data available (%s).", errMsg)
}

func mattersLines(sources domain.Sources, t domain.Thresholds) []string {
	var lines []string

	if sn := sources.ServiceNow; sn.OK && sn.Data.TotalHighPriority > 0 {
		if t.HighPriorityIncidents > 0 && sn.Data.TotalHighPriority >= t.HighPriorityIncidents {
			lines = append(lines, fmt.Sprintf("- Incident volume (%d) is above the %d-incident threshold; service health is degraded.",
				sn.Data.TotalHighPriority, t.HighPriorityIncidents))
		} else {
			lines = append(lines, fmt.Sprintf("- Incident volume (%d high-priority) is within tolerance.",
				sn.Data.TotalHighPriority))
		}
	}
	if sf := sources.Salesforce; sf.OK && sf.Data.AtRiskDeals > 0 {
		if t.AtRiskRevenue > 0 && sf.Data.AtRiskValue >= t.AtRiskRevenue {
			lines = append(lines, fmt.Sprintf("- Revenue exposure of %s meets the %s review threshold.",
				money(sf.Data.AtRiskValue), money(t.AtRiskRevenue)))
		} else {
			lines = append(lines, fmt.Sprintf("- Revenue exposure of %s is below the review threshold.",
				money(sf.Data.AtRiskValue)))
		}
	}

	if gaps := 3 - sources.HealthyCount(); gaps > 0 {
		lines = append(lines, fmt.Sprintf("- %d of 3 sources are unavailable; this brief may understate impact.", gaps))
	}
	if len(lines) == 0 {
		lines = append(lines, "- No urgent signals from the connected systems.")
	}
	return lines
}

func impactedLines(sources domain.Sources) []string {
	var lines []string

	if sn := sources.ServiceNow; sn.OK && sn.Data.TotalHighPriority > 0 {
		lines = append(lines, fmt.Sprintf("- Operations teams working %d high-priority incidents.",
			sn.Data.TotalHighPriority))
	}
	if sf := sources.Salesforce; sf.OK {
		lines = append(lines, fmt.Sprintf("- Account %s (%d open deals).",
			sf.Data.Account, sf.Data.OpenDeals))
	}
	for _, st := range sources.Statuses() {
		if !st.OK {
			lines = append(lines, fmt.Sprintf("- Consumers of %s data (visibility gap).", st.Source))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "- No impacted parties identified from the available data.")
	}
	return lines
}

func actionLines(sources domain.Sources, level domain.RiskLevel, t domain.Thresholds) []string {
	var lines []string

	if level == domain.RiskHigh {
		lines = append(lines, "- Convene an incident review and prioritise the high-priority queue.")
	}
	if sf := sources.Salesforce; sf.OK && t.AtRiskRevenue > 0 && sf.Data.AtRiskValue >= t.AtRiskRevenue {
		lines = append(lines, fmt.Sprintf("- Schedule a pipeline review for account %s covering %d at-risk deal(s).",
			sf.Data.Account, sf.Data.AtRiskDeals))
	}
	for _, st := range sources.Statuses() {
		if !st.OK {
			lines = append(lines, fmt.Sprintf("- Restore the %s connection to close the visibility gap.", st.Source))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "- Monitor; no immediate action required.")
	}
	return lines
}

// money renders a currency amount with thousand separators ("$240,000").
// Whole amounts drop the cents.
func money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v)
	cents := int(math.Round((v - float64(whole)) * 100))
	if cents >= 100 {
		whole++
		cents = 0
	}

	out := "$" + groupThousands(whole)
	if cents > 0 {
		out = fmt.Sprintf("%s.%02d", out, cents)
	}
	if neg {
		out = "-" + out
	}
	return out
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
