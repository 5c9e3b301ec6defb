/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config loads operator-wide settings and carries the identity of the
// resource being reconciled.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by FromEnv.
const (
	EnvPodReadinessTimeout         = "ENTANDO_POD_READINESS_TIMEOUT_SECONDS"
	EnvPodCompletionTimeout        = "ENTANDO_POD_COMPLETION_TIMEOUT_SECONDS"
	EnvCapabilityTimeout           = "ENTANDO_CAPABILITY_TIMEOUT_SECONDS"
	EnvComplianceMode              = "ENTANDO_K8S_OPERATOR_COMPLIANCE_MODE"
	EnvDefaultRoutingSuffix        = "ENTANDO_DEFAULT_ROUTING_SUFFIX"
	EnvRequiresFilesystemGroupOver = "ENTANDO_REQUIRES_FILESYSTEM_GROUP_OVERRIDE"
	EnvTLSSecretName               = "ENTANDO_TLS_SECRET_NAME"
	EnvCASecretName                = "ENTANDO_CA_SECRET_NAME"
	EnvVerifyExternalDatabases     = "ENTANDO_VERIFY_EXTERNAL_DATABASES"
	EnvResyncSchedule              = "ENTANDO_RESYNC_SCHEDULE"
	EnvPollInterval                = "ENTANDO_POLL_INTERVAL"
)

// ComplianceMode selects the image catalogue and security defaults.
type ComplianceMode string

const (
	ComplianceCommunity ComplianceMode = "community"
	ComplianceRedhat    ComplianceMode = "redhat"
)

// statusWriteGrace is reserved on top of the pod timeouts for the ingress
// patch and the final status write.
const statusWriteGrace = time.Second

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// OperatorConfig holds operator-wide settings. It is loaded once at process
// start and never mutated while reconciling.
type OperatorConfig struct {
	PodReadinessTimeout  time.Duration
	PodCompletionTimeout time.Duration

	// CapabilityTimeoutOverride replaces the derived capability timeout when positive.
	CapabilityTimeoutOverride time.Duration

	ComplianceMode                  ComplianceMode
	DefaultRoutingSuffix            string
	RequiresFilesystemGroupOverride bool
	DefaultTLSSecretName            string
	DefaultCASecretName             string

	// VerifyExternalDatabases enables a connectivity check against
	// externally provided database services.
	VerifyExternalDatabases bool

	// ResyncSchedule is a cron expression for retrying failed resources.
	ResyncSchedule string

	PollInterval time.Duration
}

// DefaultOperatorConfig returns an OperatorConfig with production defaults.
func DefaultOperatorConfig() OperatorConfig {
	return OperatorConfig{
		PodReadinessTimeout:  600 * time.Second,
		PodCompletionTimeout: 600 * time.Second,
		ComplianceMode:       ComplianceCommunity,
		PollInterval:         time.Second,
	}
}

// DeploymentBudget is the time a single deployable may take end to end.
func (c OperatorConfig) DeploymentBudget() time.Duration {
	return c.PodCompletionTimeout + c.PodReadinessTimeout + statusWriteGrace
}

// CapabilityTimeout is how long a consumer waits for a capability. A DEPLOY_DIRECTLY
// capability may itself deploy a database before its own server, so the default
// leaves room for three deployables.
func (c OperatorConfig) CapabilityTimeout() time.Duration {
	if c.CapabilityTimeoutOverride > 0 {
		return c.CapabilityTimeoutOverride
	}
	return 3 * c.DeploymentBudget()
}

// Validate checks the configuration for values the operator cannot work with.
func (c OperatorConfig) Validate() error {
	if c.PodReadinessTimeout <= 0 {
		return &ValidationError{Field: EnvPodReadinessTimeout, Message: "must be positive"}
	}
	if c.PodCompletionTimeout <= 0 {
		return &ValidationError{Field: EnvPodCompletionTimeout, Message: "must be positive"}
	}
	if c.PollInterval <= 0 {
		return &ValidationError{Field: EnvPollInterval, Message: "must be positive"}
	}
	switch c.ComplianceMode {
	case ComplianceCommunity, ComplianceRedhat:
	default:
		return &ValidationError{Field: EnvComplianceMode, Message: fmt.Sprintf("unknown compliance mode %q", c.ComplianceMode)}
	}
	return nil
}

// FromEnv builds an OperatorConfig from environment variables, starting from defaults.
func FromEnv(getEnv func(string) string) (*OperatorConfig, error) {
	cfg := DefaultOperatorConfig()

	if err := parseSeconds(getEnv, EnvPodReadinessTimeout, &cfg.PodReadinessTimeout); err != nil {
		return nil, err
	}
	if err := parseSeconds(getEnv, EnvPodCompletionTimeout, &cfg.PodCompletionTimeout); err != nil {
		return nil, err
	}
	if err := parseSeconds(getEnv, EnvCapabilityTimeout, &cfg.CapabilityTimeoutOverride); err != nil {
		return nil, err
	}
	if v := getEnv(EnvComplianceMode); v != "" {
		cfg.ComplianceMode = ComplianceMode(strings.ToLower(v))
	}
	cfg.DefaultRoutingSuffix = getEnv(EnvDefaultRoutingSuffix)
	cfg.DefaultTLSSecretName = getEnv(EnvTLSSecretName)
	cfg.DefaultCASecretName = getEnv(EnvCASecretName)
	cfg.ResyncSchedule = getEnv(EnvResyncSchedule)

	if err := parseBool(getEnv, EnvRequiresFilesystemGroupOver, &cfg.RequiresFilesystemGroupOverride); err != nil {
		return nil, err
	}
	if err := parseBool(getEnv, EnvVerifyExternalDatabases, &cfg.VerifyExternalDatabases); err != nil {
		return nil, err
	}
	if v := getEnv(EnvPollInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, &ValidationError{Field: EnvPollInterval, Message: "invalid duration format"}
		}
		cfg.PollInterval = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseSeconds(getEnv func(string) string, key string, target *time.Duration) error {
	v := getEnv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return &ValidationError{Field: key, Message: "must be a non-negative number of seconds"}
	}
	*target = time.Duration(n) * time.Second
	return nil
}

func parseBool(getEnv func(string) string, key string, target *bool) error {
	v := getEnv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return &ValidationError{Field: key, Message: "must be true or false"}
	}
	*target = b
	return nil
}

// fileConfig mirrors OperatorConfig in the YAML overlay file. Absent keys
// leave the corresponding setting untouched.
type fileConfig struct {
	PodReadinessTimeoutSeconds      *int64  `yaml:"podReadinessTimeoutSeconds"`
	PodCompletionTimeoutSeconds     *int64  `yaml:"podCompletionTimeoutSeconds"`
	CapabilityTimeoutSeconds        *int64  `yaml:"capabilityTimeoutSeconds"`
	ComplianceMode                  *string `yaml:"complianceMode"`
	DefaultRoutingSuffix            *string `yaml:"defaultRoutingSuffix"`
	RequiresFilesystemGroupOverride *bool   `yaml:"requiresFilesystemGroupOverride"`
	DefaultTLSSecretName            *string `yaml:"defaultTlsSecretName"`
	DefaultCASecretName             *string `yaml:"defaultCaSecretName"`
	VerifyExternalDatabases         *bool   `yaml:"verifyExternalDatabases"`
	ResyncSchedule                  *string `yaml:"resyncSchedule"`
	PollInterval                    *string `yaml:"pollInterval"`
}

// ApplyFile overlays the settings found in a YAML file.
func (c *OperatorConfig) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	return c.ApplyYAML(data)
}

// ApplyYAML overlays the settings found in a YAML document.
func (c *OperatorConfig) ApplyYAML(data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	seconds := func(v *int64, target *time.Duration) {
		if v != nil {
			*target = time.Duration(*v) * time.Second
		}
	}
	seconds(fc.PodReadinessTimeoutSeconds, &c.PodReadinessTimeout)
	seconds(fc.PodCompletionTimeoutSeconds, &c.PodCompletionTimeout)
	seconds(fc.CapabilityTimeoutSeconds, &c.CapabilityTimeoutOverride)

	if fc.ComplianceMode != nil {
		c.ComplianceMode = ComplianceMode(strings.ToLower(*fc.ComplianceMode))
	}
	if fc.DefaultRoutingSuffix != nil {
		c.DefaultRoutingSuffix = *fc.DefaultRoutingSuffix
	}
	if fc.RequiresFilesystemGroupOverride != nil {
		c.RequiresFilesystemGroupOverride = *fc.RequiresFilesystemGroupOverride
	}
	if fc.DefaultTLSSecretName != nil {
		c.DefaultTLSSecretName = *fc.DefaultTLSSecretName
	}
	if fc.DefaultCASecretName != nil {
		c.DefaultCASecretName = *fc.DefaultCASecretName
	}
	if fc.VerifyExternalDatabases != nil {
		c.VerifyExternalDatabases = *fc.VerifyExternalDatabases
	}
	if fc.ResyncSchedule != nil {
		c.ResyncSchedule = *fc.ResyncSchedule
	}
	if fc.PollInterval != nil {
		d, err := time.ParseDuration(*fc.PollInterval)
		if err != nil {
			return &ValidationError{Field: "pollInterval", Message: "invalid duration format"}
		}
		c.PollInterval = d
	}
	return c.Validate()
}

// IsValidationError reports whether err is a configuration validation error.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
