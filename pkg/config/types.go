package config

import "time"

// Export represents the full config for one catalog export run
type Export struct {
	Name        string `yaml:"name"`                  // Required: Unique identifier
	Description string `yaml:"description,omitempty"` // Optional description
	Source      Source `yaml:"source"`                // Required source configuration
	Query       Query  `yaml:"query"`                 // Products query settings
	Output      Output `yaml:"output"`                // Where snapshots and the table go
}

// Source represents the GraphQL endpoint config
type Source struct {
	Endpoint string            `yaml:"endpoint"`          // Required GraphQL URL
	Timeout  time.Duration     `yaml:"timeout,omitempty"` // Per-request timeout (default 30s)
	Headers  map[string]string `yaml:"headers,omitempty"` // Extra HTTP headers
	Auth     *Auth             `yaml:"auth,omitempty"`    // Static token auth
}

// Auth defines auth methods.
type Auth struct {
	Type   AuthType    `yaml:"type"`              // Required authentication type
	APIKey *APIKeyAuth `yaml:"api_key,omitempty"` // Token sent in a named header
	Bearer *BearerAuth `yaml:"bearer,omitempty"`  // Authorization: Bearer <token>
}

// AuthType defines current supported authentication types
type AuthType string

const (
	AuthTypeAPIKey AuthType = "api_key"
	AuthTypeBearer AuthType = "bearer"
)

// APIKeyAuth contains the header name and token value
type APIKeyAuth struct {
	Header string `yaml:"header"` // Header name
	Value  string `yaml:"value"`  // Token value
}

// BearerAuth contains the bearer token
type BearerAuth struct {
	Token string `yaml:"token"`
}

// Query controls the shape of the products query
type Query struct {
	Statuses           []string  `yaml:"statuses,omitempty"`             // Status partitions, fetched in order
	PageSize           int       `yaml:"page_size,omitempty"`            // Products per page (max 250)
	VariantsPerProduct int       `yaml:"variants_per_product,omitempty"` // Variants requested per product
	Metafield          Metafield `yaml:"metafield,omitempty"`            // Metafield carrying the category codes
}

// Metafield identifies a product metafield
type Metafield struct {
	Namespace string `yaml:"namespace,omitempty"`
	Key       string `yaml:"key,omitempty"`
}

// Output defines where the snapshots and the final table are written
type Output struct {
	Dir             string `yaml:"dir,omitempty"`              // Base directory
	SnapshotPattern string `yaml:"snapshot_pattern,omitempty"` // e.g. "{status}_products.json"
	Table           string `yaml:"table,omitempty"`            // Table file name
	Delimiter       string `yaml:"delimiter,omitempty"`        // Single character
	FailOnPartial   bool   `yaml:"fail_on_partial,omitempty"`  // Treat truncated pagination as failure
}

// Defaults used when the config leaves a field empty.
const (
	DefaultTimeout            = 30 * time.Second
	DefaultPageSize           = 250
	MaxPageSize               = 250
	DefaultVariantsPerProduct = 50
	DefaultMetafieldNamespace = "custom"
	DefaultMetafieldKey       = "jl_cat_code"
	DefaultOutputDir          = "."
	DefaultSnapshotPattern    = "{status}_products.json"
	DefaultTable              = "products.csv"
	DefaultDelimiter          = ","
	DefaultAccessTokenHeader  = "X-Shopify-Access-Token"

	// StatusPlaceholder is replaced with the partition status in SnapshotPattern.
	StatusPlaceholder = "{status}"
)

// DefaultStatuses are fetched in this order when none are configured.
var DefaultStatuses = []string{"draft", "active"}
