package nlq

// Artifact is the structured output synthesized for a query: a SQL
// statement, an RPC descriptor, a chart specification, or an Unsupported
// sentinel. Artifacts are built once per query and never mutated.
type Artifact interface {
	Kind() string
}

// SQLArtifact is a parameterized SQL statement plus its binding context.
// The statement is valid SQL with or without the optional host filter
// clause; Bindings carries the concrete values keyed by placeholder name.
type SQLArtifact struct {
	Text     string                 `json:"text"`
	Bindings map[string]interface{} `json:"bindings"`
}

func (SQLArtifact) Kind() string { return "sql" }

// RPCArtifact describes a monitoring-API call. Host name to ID resolution
// belongs to the execution layer, so HostIDs-style parameters may be left
// empty here.
type RPCArtifact struct {
	Method string                 `json:"method"`
	Params map[string]interface{} `json:"params"`
}

func (RPCArtifact) Kind() string { return "rpc" }

// TimePeriod is a maintenance time period in the monitoring backend's
// wire format. Period is in seconds.
type TimePeriod struct {
	Type   int `json:"timeperiod_type"`
	Period int `json:"period"`
}

// DatasetSpec is one series of a chart specification. Data is left empty
// by the synthesizer; the history-fetch layer populates it.
type DatasetSpec struct {
	Label string    `json:"label"`
	Color string    `json:"color"`
	Data  []float64 `json:"data"`
	Fill  bool      `json:"fill"`
}

// ChartArtifact is a chart specification skeleton.
type ChartArtifact struct {
	ChartType string        `json:"chartType"`
	Title     string        `json:"title"`
	Labels    []string      `json:"labels"`
	Datasets  []DatasetSpec `json:"datasets"`
}

func (ChartArtifact) Kind() string { return "chart" }

// Unsupported signals that no executable artifact could be produced for
// the query. Callers must treat it as an expected outcome requiring
// user-facing clarification, not as a fault.
type Unsupported struct {
	Reason string `json:"reason"`
}

func (Unsupported) Kind() string { return "unsupported" }
