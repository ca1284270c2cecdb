package signaliz

// Resource selects which remote endpoint and body shape a node uses.
type Resource string

const (
	ResourceCompanySignalEnrichment Resource = "companySignalEnrichment"
	ResourceDeepResearch            Resource = "deepResearch"
	ResourceAgenticResearch         Resource = "agenticResearch"
	ResourceMultipassResearch       Resource = "multipassResearch"
)

// Endpoint is the path appended to the API base URL.
func (r Resource) Endpoint() string {
	switch r {
	case ResourceCompanySignalEnrichment:
		return "/company-signal-enrichment"
	case ResourceDeepResearch:
		return "/deep-research"
	case ResourceAgenticResearch:
		return "/company-agentic-research"
	case ResourceMultipassResearch:
		return "/company-multipass-research"
	default:
		return ""
	}
}

func (r Resource) Valid() bool {
	return r.Endpoint() != ""
}

func (r Resource) String() string {
	return string(r)
}

// MultipassOperation is the sub-operation of a multipass research request.
type MultipassOperation string

const (
	MultipassBulkDiscovery MultipassOperation = "bulkDiscovery"
	MultipassSingleCompany MultipassOperation = "singleCompany"
)

// Signal types the enrichment endpoint understands. Not enforced locally.
const (
	SignalFunding          = "funding"
	SignalHiring           = "hiring"
	SignalProductLaunch    = "product_launch"
	SignalPartnership      = "partnership"
	SignalExpansion        = "expansion"
	SignalLeadershipChange = "leadership_change"
	SignalAward            = "award"
	SignalCompliance       = "compliance"
	SignalPricingChange    = "pricing_change"
	SignalAcquisition      = "acquisition"
	SignalOther            = "other"
)

// Models accepted by companySignalEnrichment.
const (
	ModelGemini25Flash  = "google/gemini-2.5-flash"
	ModelClaude35Sonnet = "anthropic/claude-3.5-sonnet"
	ModelGPT4           = "openai/gpt-4"
)

// Models accepted by deepResearch as selectedModel.
const (
	ModelClaudeSonnet45    = "anthropic/claude-sonnet-4.5"
	ModelClaudeOpus4       = "anthropic/claude-opus-4"
	ModelGPT5Pro           = "openai/gpt-5-pro"
	ModelO3DeepResearch    = "openai/o3-deep-research"
	ModelGemini25Pro       = "google/gemini-2.5-pro"
	ModelSonarDeepResearch = "perplexity/sonar-deep-research"
	ModelDeepSeekR1        = "deepseek/deepseek-r1-0528"
)

// OperationInfo describes one sub-operation of a resource.
type OperationInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// ResourceInfo describes a resource for listings.
type ResourceInfo struct {
	Resource    Resource        `json:"resource"`
	DisplayName string          `json:"display_name"`
	Description string          `json:"description"`
	Endpoint    string          `json:"endpoint"`
	Operations  []OperationInfo `json:"operations"`
}

var catalogue = []ResourceInfo{
	{
		Resource:    ResourceCompanySignalEnrichment,
		DisplayName: "Company Signal Enrichment",
		Description: "Find business signals about a specific company",
		Operations: []OperationInfo{
			{Name: "enrich", DisplayName: "Enrich Company", Description: "Find business signals about a specific company"},
		},
	},
	{
		Resource:    ResourceDeepResearch,
		DisplayName: "Deep Research",
		Description: "Find companies matching ICP criteria with signals",
		Operations: []OperationInfo{
			{Name: "findCompanies", DisplayName: "Find Companies", Description: "Find companies exhibiting behavioral signals"},
		},
	},
	{
		Resource:    ResourceAgenticResearch,
		DisplayName: "Agentic Research",
		Description: "AI-powered research on a specific company",
		Operations: []OperationInfo{
			{Name: "research", DisplayName: "Research Company", Description: "Conduct AI-powered research on a specific company"},
		},
	},
	{
		Resource:    ResourceMultipassResearch,
		DisplayName: "Multipass Research",
		Description: "High-speed parallel research for bulk discovery",
		Operations: []OperationInfo{
			{Name: string(MultipassBulkDiscovery), DisplayName: "Bulk Discovery", Description: "Find multiple companies matching ICP criteria"},
			{Name: string(MultipassSingleCompany), DisplayName: "Single Company Enrichment", Description: "Deep enrichment for one specific company"},
		},
	},
}

// Resources returns the resource catalogue in display order.
func Resources() []ResourceInfo {
	out := make([]ResourceInfo, len(catalogue))
	for i, info := range catalogue {
		info.Endpoint = info.Resource.Endpoint()
		info.Operations = append([]OperationInfo(nil), info.Operations...)
		out[i] = info
	}
	return out
}

// LookupResource finds a catalogue entry by resource name.
func LookupResource(name string) (ResourceInfo, bool) {
	for _, info := range Resources() {
		if string(info.Resource) == name {
			return info, true
		}
	}
	return ResourceInfo{}, false
}

// HasOperation reports whether op is a sub-operation of the resource.
// An empty op selects the resource's first operation.
func (i ResourceInfo) HasOperation(op string) bool {
	if op == "" {
		return true
	}
	for _, o := range i.Operations {
		if o.Name == op {
			return true
		}
	}
	return false
}
