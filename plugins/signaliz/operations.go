package signaliz

// Body is a JSON request body in the remote API's snake_case naming.
type Body map[string]any

// Request is one call to the research API. The set of requests is closed:
// only the four operation inputs of this package implement it.
type Request interface {
	Resource() Resource
	Body() Body
	request()
}

var (
	_ Request = CompanySignalEnrichmentInput{}
	_ Request = DeepResearchInput{}
	_ Request = AgenticResearchInput{}
	_ Request = MultipassResearchInput{}
)

// CompanySignalEnrichmentInput finds business signals about one company.
type CompanySignalEnrichmentInput struct {
	CompanyName      string           `json:"companyName" validate:"required"`
	ResearchPrompt   string           `json:"researchPrompt" validate:"required"`
	AdditionalFields EnrichmentFields `json:"additionalFields"`
}

type EnrichmentFields struct {
	Domain            string   `json:"domain"`
	CompanyID         string   `json:"companyId"`
	SignalTypes       []string `json:"signalTypes"`
	TargetSignalCount *int     `json:"targetSignalCount"`
	LookbackDays      *int     `json:"lookbackDays"`
	Model             string   `json:"model"`
}

// The two counts use Truthy: a supplied 0 is not sent and the remote
// default applies.
var enrichmentFields = fieldTable[EnrichmentFields]{
	{remote: "domain", rule: NonEmpty, value: func(f *EnrichmentFields) any { return f.Domain }},
	{remote: "company_id", rule: NonEmpty, value: func(f *EnrichmentFields) any { return f.CompanyID }},
	{remote: "signal_types", rule: NonEmpty, value: func(f *EnrichmentFields) any { return f.SignalTypes }},
	{remote: "target_signal_count", rule: Truthy, value: func(f *EnrichmentFields) any { return deref(f.TargetSignalCount) }},
	{remote: "lookback_days", rule: Truthy, value: func(f *EnrichmentFields) any { return deref(f.LookbackDays) }},
	{remote: "model", rule: NonEmpty, value: func(f *EnrichmentFields) any { return f.Model }},
}

func (CompanySignalEnrichmentInput) Resource() Resource { return ResourceCompanySignalEnrichment }

func (in CompanySignalEnrichmentInput) Body() Body {
	body := Body{
		"company_name":    in.CompanyName,
		"research_prompt": in.ResearchPrompt,
	}
	enrichmentFields.apply(body, &in.AdditionalFields)
	return body
}

func (CompanySignalEnrichmentInput) request() {}

// DeepResearchInput discovers companies matching a free-text ICP.
type DeepResearchInput struct {
	Description      string             `json:"description" validate:"required"`
	TargetCount      int                `json:"targetCount" default:"20" validate:"required"`
	AdditionalFields DeepResearchFields `json:"additionalFields"`
}

type DeepResearchFields struct {
	SaveToDatabase   *bool          `json:"saveToDatabase"`
	SelectedModel    string         `json:"selectedModel"`
	WebhookURL       string         `json:"webhookUrl"`
	AttachedFileUrls FileReferences `json:"attachedFileUrls"`
}

// saveToDatabase uses Defined: an explicit false is sent.
var deepResearchFields = fieldTable[DeepResearchFields]{
	{remote: "save_to_database", rule: Defined, value: func(f *DeepResearchFields) any { return deref(f.SaveToDatabase) }},
	{remote: "selected_model", rule: NonEmpty, value: func(f *DeepResearchFields) any { return f.SelectedModel }},
	{remote: "webhook_url", rule: NonEmpty, value: func(f *DeepResearchFields) any { return f.WebhookURL }},
	{remote: "attached_file_urls", rule: NonEmpty, value: func(f *DeepResearchFields) any { return f.AttachedFileUrls.wire() }},
}

func (DeepResearchInput) Resource() Resource { return ResourceDeepResearch }

func (in DeepResearchInput) Body() Body {
	body := Body{
		"description":  in.Description,
		"target_count": in.TargetCount,
	}
	deepResearchFields.apply(body, &in.AdditionalFields)
	return body
}

func (DeepResearchInput) request() {}

// AgenticResearchInput runs an open research question against one company.
type AgenticResearchInput struct {
	CompanyName      string                `json:"companyName" validate:"required"`
	ResearchPrompt   string                `json:"researchPrompt" validate:"required"`
	AdditionalFields AgenticResearchFields `json:"additionalFields"`
}

type AgenticResearchFields struct {
	Domain           string         `json:"domain"`
	LinkedinURL      string         `json:"linkedinUrl"`
	Industry         string         `json:"industry"`
	Website          string         `json:"website"`
	Location         string         `json:"location"`
	Description      string         `json:"description"`
	WebhookURL       string         `json:"webhookUrl"`
	AttachedFileUrls FileReferences `json:"attachedFileUrls"`
}

var agenticResearchFields = fieldTable[AgenticResearchFields]{
	{remote: "domain", rule: NonEmpty, value: func(f *AgenticResearchFields) any { return f.Domain }},
	{remote: "linkedin_url", rule: NonEmpty, value: func(f *AgenticResearchFields) any { return f.LinkedinURL }},
	{remote: "industry", rule: NonEmpty, value: func(f *AgenticResearchFields) any { return f.Industry }},
	{remote: "website", rule: NonEmpty, value: func(f *AgenticResearchFields) any { return f.Website }},
	{remote: "location", rule: NonEmpty, value: func(f *AgenticResearchFields) any { return f.Location }},
	{remote: "description", rule: NonEmpty, value: func(f *AgenticResearchFields) any { return f.Description }},
	{remote: "webhook_url", rule: NonEmpty, value: func(f *AgenticResearchFields) any { return f.WebhookURL }},
	{remote: "attached_file_urls", rule: NonEmpty, value: func(f *AgenticResearchFields) any { return f.AttachedFileUrls.wire() }},
}

func (AgenticResearchInput) Resource() Resource { return ResourceAgenticResearch }

func (in AgenticResearchInput) Body() Body {
	body := Body{
		"company_name":    in.CompanyName,
		"research_prompt": in.ResearchPrompt,
	}
	agenticResearchFields.apply(body, &in.AdditionalFields)
	return body
}

func (AgenticResearchInput) request() {}

// MultipassResearchInput is either a bulk discovery over an ICP or a deep
// pass on a single company, selected by Operation. Which fields are
// required depends on the operation.
type MultipassResearchInput struct {
	Operation            MultipassOperation      `json:"operation" default:"bulkDiscovery" validate:"oneof=bulkDiscovery singleCompany"`
	ResearchPrompt       string                  `json:"researchPrompt" validate:"required_if=Operation bulkDiscovery"`
	TargetCount          int                     `json:"targetCount" default:"25" validate:"required_if=Operation bulkDiscovery"`
	CompanyName          string                  `json:"companyName" validate:"required_if=Operation singleCompany"`
	ResearchPromptSingle string                  `json:"researchPromptSingle" validate:"required_if=Operation singleCompany"`
	AdditionalFields     MultipassResearchFields `json:"additionalFields"`
}

type MultipassResearchFields struct {
	Domain           string         `json:"domain"`
	LinkedinURL      string         `json:"linkedinUrl"`
	Industry         string         `json:"industry"`
	WebhookURL       string         `json:"webhookUrl"`
	AttachedFileUrls FileReferences `json:"attachedFileUrls"`
}

var multipassResearchFields = fieldTable[MultipassResearchFields]{
	{remote: "domain", rule: NonEmpty, value: func(f *MultipassResearchFields) any { return f.Domain }},
	{remote: "linkedin_url", rule: NonEmpty, value: func(f *MultipassResearchFields) any { return f.LinkedinURL }},
	{remote: "industry", rule: NonEmpty, value: func(f *MultipassResearchFields) any { return f.Industry }},
	{remote: "webhook_url", rule: NonEmpty, value: func(f *MultipassResearchFields) any { return f.WebhookURL }},
	{remote: "attached_file_urls", rule: NonEmpty, value: func(f *MultipassResearchFields) any { return f.AttachedFileUrls.wire() }},
}

func (MultipassResearchInput) Resource() Resource { return ResourceMultipassResearch }

func (in MultipassResearchInput) Body() Body {
	body := Body{}
	switch in.Operation {
	case MultipassSingleCompany:
		body["company_name"] = in.CompanyName
		body["research_prompt"] = in.ResearchPromptSingle
		body["target_count"] = 1
	default:
		body["research_prompt"] = in.ResearchPrompt
		body["target_count"] = in.TargetCount
	}
	multipassResearchFields.apply(body, &in.AdditionalFields)
	return body
}

func (MultipassResearchInput) request() {}
