package domain

// Source identifies an external system a result came from.
// The values double as JSON keys in the response envelope, so they are
// camel-cased the way the dashboard expects them.
type Source string

const (
	// SourceServiceNow is the ticketing system.
	SourceServiceNow Source = "serviceNow"

	// SourceSalesforce is the CRM.
	SourceSalesforce Source = "salesforce"

	// SourceSharePoint is the document platform.
	SourceSharePoint Source = "sharePoint"
)

// AllSources lists every configured source in presentation order.
func AllSources() []Source {
	return []Source{SourceServiceNow, SourceSalesforce, SourceSharePoint}
}

// Status is the common part of every per-source result.
//
// Invariant: OK is true only when the fetch succeeded AND returned
// semantically usable data. A search that matched nothing is a failure,
// not an empty success. Exactly one of Error (OK false) or the owning
// result's Data (OK true) is populated.
type Status struct {
	// Source identifies the origin system.
	Source Source `json:"source"`

	// OK reports whether usable data was obtained.
	OK bool `json:"ok"`

	// Error is the human-readable failure reason, present iff OK is false.
	Error string `json:"error,omitempty"`
}

// TicketResult is the ticketing adapter's outcome.
type TicketResult struct {
	Status

	// Data holds the incident summary when OK.
	Data *TicketSummary `json:"data,omitempty"`
}

// PipelineResult is the CRM adapter's outcome.
type PipelineResult struct {
	Status

	// Data holds the pipeline summary when OK.
	Data *PipelineSummary `json:"data,omitempty"`
}

// DocumentResult is the document-search adapter's outcome.
type DocumentResult struct {
	Status

	// Data holds the document insight when OK.
	Data *DocumentInsight `json:"data,omitempty"`
}

// TicketSuccess builds an OK ticketing result.
func TicketSuccess(data *TicketSummary) TicketResult {
	return TicketResult{Status: Status{Source: SourceServiceNow, OK: true}, Data: data}
}

// TicketFailure builds a failed ticketing result from err.
func TicketFailure(err error) TicketResult {
	return TicketResult{Status: failure(SourceServiceNow, err)}
}

// PipelineSuccess builds an OK CRM result.
func PipelineSuccess(data *PipelineSummary) PipelineResult {
	return PipelineResult{Status: Status{Source: SourceSalesforce, OK: true}, Data: data}
}

// PipelineFailure builds a failed CRM result from err.
func PipelineFailure(err error) PipelineResult {
	return PipelineResult{Status: failure(SourceSalesforce, err)}
}

// DocumentSuccess builds an OK document result.
func DocumentSuccess(data *DocumentInsight) DocumentResult {
	return DocumentResult{Status: Status{Source: SourceSharePoint, OK: true}, Data: data}
}

// DocumentFailure builds a failed document result from err.
func DocumentFailure(err error) DocumentResult {
	return DocumentResult{Status: failure(SourceSharePoint, err)}
}

func failure(src Source, err error) Status {
	msg := "unknown failure"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Status{Source: src, OK: false, Error: msg}
}

// Sources is the aggregate of all per-source results for one request.
// It is built once by the fan-out coordinator and immutable afterwards.
type Sources struct {
	ServiceNow TicketResult   `json:"serviceNow"`
	Salesforce PipelineResult `json:"salesforce"`
	SharePoint DocumentResult `json:"sharePoint"`
}

// Statuses returns the per-source statuses in presentation order.
func (s Sources) Statuses() []Status {
	return []Status{s.ServiceNow.Status, s.Salesforce.Status, s.SharePoint.Status}
}

// HealthyCount reports how many sources returned usable data.
func (s Sources) HealthyCount() int {
	n := 0
	for _, st := range s.Statuses() {
		if st.OK {
			n++
		}
	}
	return n
}
