package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/saturnines/catalog-export/pkg/errors"
)

// Environment variables consulted by FromEnv.
const (
	EnvEndpoint    = "SHOPIFY_GRAPHQL_URL"
	EnvAccessToken = "SHOPIFY_ACCESS_TOKEN"
)

type ValidationError struct {
	Field   string
	Message string
}

type Validator interface {
	Validate(cfg *Export) []ValidationError
}

// Returns the string representation of validation error
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DefaultValueSetter handles setting default values
type DefaultValueSetter interface {
	SetDefaults(cfg *Export)
}

// VariableExpander defines the interface for expanding variables
type VariableExpander interface {
	Expand(data []byte) []byte
}

// EnvExpander implements VariableExpander using environment variables
type EnvExpander struct{}

// Expand expands environment variables with the given data
func (e *EnvExpander) Expand(data []byte) []byte {
	expanded := os.Expand(string(data), os.Getenv)
	return []byte(expanded)
}

// ExportLoader reads Export configurations from YAML
type ExportLoader struct {
	expander      VariableExpander
	validators    []Validator
	defaultSetter DefaultValueSetter
}

// NewExportLoader creates a new ExportLoader with the given components
func NewExportLoader(
	expander VariableExpander,
	defaultSetter DefaultValueSetter,
	validators ...Validator,
) *ExportLoader {
	return &ExportLoader{
		expander:      expander,
		validators:    validators,
		defaultSetter: defaultSetter,
	}
}

// NewDefaultLoader wires the env expander, defaults and every validator.
func NewDefaultLoader() *ExportLoader {
	return NewExportLoader(
		&EnvExpander{},
		&ExportDefaults{},
		&RequiredFieldValidator{},
		&QueryValidator{},
		&OutputValidator{},
		&AuthValidator{},
	)
}

// Load a new export config from YAML file
func (l *ExportLoader) Load(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return l.Parse(data)
}

// Parse parses a yaml config
func (l *ExportLoader) Parse(data []byte) (*Export, error) {
	if l.expander != nil {
		data = l.expander.Expand(data)
	}

	var cfg Export
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return l.finish(&cfg)
}

// FromEnv builds a config without a YAML file, from SHOPIFY_GRAPHQL_URL and
// SHOPIFY_ACCESS_TOKEN, then applies defaults and validation. Both
// variables must be set.
func (l *ExportLoader) FromEnv() (*Export, error) {
	endpoint := strings.TrimSpace(os.Getenv(EnvEndpoint))
	token := strings.TrimSpace(os.Getenv(EnvAccessToken))

	var missing []ValidationError
	if endpoint == "" {
		missing = append(missing, ValidationError{Field: EnvEndpoint, Message: "is required"})
	}
	if token == "" {
		missing = append(missing, ValidationError{Field: EnvAccessToken, Message: "is required"})
	}
	if len(missing) > 0 {
		return nil, validationFailure(missing)
	}

	return l.finish(&Export{
		Name: "catalog-export",
		Source: Source{
			Endpoint: endpoint,
			Auth: &Auth{
				Type: AuthTypeAPIKey,
				APIKey: &APIKeyAuth{
					Header: DefaultAccessTokenHeader,
					Value:  token,
				},
			},
		},
	})
}

func (l *ExportLoader) finish(cfg *Export) (*Export, error) {
	if l.defaultSetter != nil {
		l.defaultSetter.SetDefaults(cfg)
	}

	var allErrors []ValidationError
	for _, validator := range l.validators {
		allErrors = append(allErrors, validator.Validate(cfg)...)
	}
	if len(allErrors) > 0 {
		return nil, validationFailure(allErrors)
	}

	return cfg, nil
}

// validationFailure wraps the collected errors as an ErrValidation error.
func validationFailure(errs []ValidationError) error {
	return errors.WrapError(fmt.Errorf("%v", errs), errors.ErrValidation, "invalid export config")
}

// ExportDefaults implements DefaultValueSetter for Export
type ExportDefaults struct{}

// SetDefaults sets default values for Export
func (d *ExportDefaults) SetDefaults(cfg *Export) {
	if cfg.Source.Timeout <= 0 {
		cfg.Source.Timeout = DefaultTimeout
	}

	q := &cfg.Query
	if len(q.Statuses) == 0 {
		q.Statuses = append([]string(nil), DefaultStatuses...)
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.VariantsPerProduct == 0 {
		q.VariantsPerProduct = DefaultVariantsPerProduct
	}
	if q.Metafield.Namespace == "" {
		q.Metafield.Namespace = DefaultMetafieldNamespace
	}
	if q.Metafield.Key == "" {
		q.Metafield.Key = DefaultMetafieldKey
	}

	o := &cfg.Output
	if o.Dir == "" {
		o.Dir = DefaultOutputDir
	}
	if o.SnapshotPattern == "" {
		o.SnapshotPattern = DefaultSnapshotPattern
	}
	if o.Table == "" {
		o.Table = DefaultTable
	}
	if o.Delimiter == "" {
		o.Delimiter = DefaultDelimiter
	}

	if a := cfg.Source.Auth; a != nil && a.Type == AuthTypeAPIKey && a.APIKey != nil && a.APIKey.Header == "" {
		a.APIKey.Header = DefaultAccessTokenHeader
	}
}

// RequiredFieldValidator validates required fields
type RequiredFieldValidator struct{}

// Validate checks the name, endpoint and auth block
func (v *RequiredFieldValidator) Validate(cfg *Export) []ValidationError {
	var errors []ValidationError

	if cfg.Name == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "is required"})
	}

	if cfg.Source.Endpoint == "" {
		errors = append(errors, ValidationError{Field: "source.endpoint", Message: "is required"})
	} else if u, err := url.Parse(cfg.Source.Endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, ValidationError{Field: "source.endpoint", Message: "must be an absolute http or https URL"})
	}

	// The Admin API rejects unauthenticated requests.
	if cfg.Source.Auth == nil {
		errors = append(errors, ValidationError{Field: "source.auth", Message: "is required"})
	}

	return errors
}

// QueryValidator validates the products query settings
type QueryValidator struct{}

// Validate checks page sizes and statuses
func (v *QueryValidator) Validate(cfg *Export) []ValidationError {
	var errors []ValidationError
	q := cfg.Query

	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		errors = append(errors, ValidationError{Field: "query.page_size", Message: fmt.Sprintf("must be between 1 and %d", MaxPageSize)})
	}
	if q.VariantsPerProduct < 1 || q.VariantsPerProduct > MaxPageSize {
		errors = append(errors, ValidationError{Field: "query.variants_per_product", Message: fmt.Sprintf("must be between 1 and %d", MaxPageSize)})
	}

	seen := make(map[string]struct{}, len(q.Statuses))
	for i, s := range q.Statuses {
		if strings.TrimSpace(s) == "" {
			errors = append(errors, ValidationError{Field: fmt.Sprintf("query.statuses[%d]", i), Message: "must not be empty"})
			continue
		}
		if _, dup := seen[s]; dup {
			errors = append(errors, ValidationError{Field: fmt.Sprintf("query.statuses[%d]", i), Message: fmt.Sprintf("duplicate status %q", s)})
		}
		seen[s] = struct{}{}
	}

	return errors
}

// OutputValidator validates output settings
type OutputValidator struct{}

// Validate checks the snapshot pattern and delimiter
func (v *OutputValidator) Validate(cfg *Export) []ValidationError {
	var errors []ValidationError
	o := cfg.Output

	if !strings.Contains(o.SnapshotPattern, StatusPlaceholder) {
		errors = append(errors, ValidationError{Field: "output.snapshot_pattern", Message: fmt.Sprintf("must contain %s", StatusPlaceholder)})
	}
	if utf8.RuneCountInString(o.Delimiter) != 1 {
		errors = append(errors, ValidationError{Field: "output.delimiter", Message: "must be a single character"})
	} else if r, _ := utf8.DecodeRuneInString(o.Delimiter); r == '"' || r == '\r' || r == '\n' {
		errors = append(errors, ValidationError{Field: "output.delimiter", Message: "must not be a quote or line break"})
	}
	if o.Table == "" {
		errors = append(errors, ValidationError{Field: "output.table", Message: "is required"})
	}

	return errors
}

// AuthValidator handles authentication validation
type AuthValidator struct{}

// Validate checks that authentication configuration is valid
func (v *AuthValidator) Validate(cfg *Export) []ValidationError {
	var errors []ValidationError

	// Missing auth is reported by RequiredFieldValidator
	if cfg.Source.Auth == nil {
		return errors
	}

	switch cfg.Source.Auth.Type {
	case AuthTypeAPIKey:
		if cfg.Source.Auth.APIKey == nil {
			errors = append(errors, ValidationError{Field: "auth.api_key", Message: "is required for api_key auth"})
		} else if cfg.Source.Auth.APIKey.Value == "" {
			errors = append(errors, ValidationError{Field: "auth.api_key.value", Message: "is required for api_key auth"})
		}
	case AuthTypeBearer:
		if cfg.Source.Auth.Bearer == nil || cfg.Source.Auth.Bearer.Token == "" {
			errors = append(errors, ValidationError{Field: "auth.bearer.token", Message: "is required for bearer auth"})
		}
	default:
		errors = append(errors, ValidationError{Field: "auth.type", Message: fmt.Sprintf("unknown auth type: %s", cfg.Source.Auth.Type)})
	}

	return errors
}
