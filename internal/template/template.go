// Package template holds Domain Connect template types and the pure functions
// that turn a template plus caller parameters into concrete DNS records.
package template

// RecordType is the DNS record type declared by a template record.
type RecordType string

const (
	RecordA     RecordType = "A"
	RecordAAAA  RecordType = "AAAA"
	RecordCNAME RecordType = "CNAME"
	RecordTXT   RecordType = "TXT"
	RecordSRV   RecordType = "SRV"
	RecordMX    RecordType = "MX"
	RecordNS    RecordType = "NS"
	RecordSPFM  RecordType = "SPFM"
	RecordPTR   RecordType = "PTR"
)

// DataType is the declared type of a template parameter.
type DataType string

const (
	DataString  DataType = "STRING"
	DataNumber  DataType = "NUMBER"
	DataEmail   DataType = "EMAIL"
	DataURL     DataType = "URL"
	DataBoolean DataType = "BOOLEAN"
)

// Host sentinels used in template record hosts.
const (
	ApexHost        = "@"
	HostPlaceholder = "%host%"
)

// Template is a provider-declared recipe of DNS records and the parameters
// needed to fill them in.
type Template struct {
	ProviderID     string      `json:"providerId"`
	ServiceID      string      `json:"serviceId"`
	Name           string      `json:"name,omitempty"`
	Description    string      `json:"description,omitempty"`
	Version        int         `json:"version,omitempty"`
	HostRequired   bool        `json:"hostRequired,omitempty"`
	Parameters     []Parameter `json:"parameters,omitempty"`
	Records        []Record    `json:"records"`
	SyncSupported  *bool       `json:"syncSupported,omitempty"`
	AsyncSupported *bool       `json:"asyncSupported,omitempty"`
}

// Parameter declares one variable a caller's Params must (or may) provide.
type Parameter struct {
	Name         string   `json:"name"`
	DataType     DataType `json:"dataType,omitempty"`
	Required     bool     `json:"required,omitempty"`
	DefaultValue any      `json:"defaultValue,omitempty"`
	Description  string   `json:"description,omitempty"`
	Hidden       bool     `json:"hidden,omitempty"`
}

// Record is a template DNS record. Host and PointsTo may contain %name%
// placeholders. Zero numeric fields mean "not set".
type Record struct {
	Type     RecordType `json:"type"`
	Host     string     `json:"host"`
	PointsTo string     `json:"pointsTo,omitempty"`
	TTL      int        `json:"ttl,omitempty"`
	Priority int        `json:"priority,omitempty"`
	Weight   int        `json:"weight,omitempty"`
	Port     int        `json:"port,omitempty"`
}

// Params maps template variable names to scalar values (string, bool, or a
// numeric type).
type Params map[string]any
