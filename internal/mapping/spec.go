// Package mapping converts export records into desired-state records. Each
// object type declares static tables: field renames, passthrough slots,
// unconditional drops, secret-bearing drops, and explicit defaults. The
// output side is allow-listed: a source field with no declared target slot
// is dropped with a warning, never merged into an unrelated slot, and secret
// material is dropped unless a field is explicitly allow-listed.
package mapping

import (
	"github.com/mfields/ctrlmig/internal/domain"
)

// fieldDefault is an explicit, documented default for a target field absent
// in the source. Defaults are enumerated per type, never inferred.
type fieldDefault struct {
	Field string
	Value any
}

// typeSpec declares the mapping tables for one object type.
type typeSpec struct {
	// renames maps a source field to a differently-named target slot.
	renames map[string]string
	// allowed lists target slots whose source field has the same name.
	allowed map[string]struct{}
	// drop lists type-specific fields removed without a warning (internal
	// ids, legacy duplicates of reference fields).
	drop map[string]struct{}
	// secret lists top-level secret-bearing fields, dropped even when
	// present and never partially redacted.
	secret map[string]struct{}
	// secretSub maps a mapping-valued field to the secret keys stripped
	// from inside it (credential inputs, notification configuration).
	secretSub map[string][]string
	// defaults are applied, in order, to target fields missing after
	// mapping; each application is surfaced as a warning.
	defaults []fieldDefault
	// required lists fields every emitted record must end up with,
	// including rewritten reference fields. Checked after rewriting.
	required []string
}

// commonDrop lists source-only fields stripped from every type: internal
// identifiers, timestamps, and computed/read-only attributes.
var commonDrop = map[string]struct{}{
	"created":            {},
	"modified":           {},
	"created_by":         {},
	"modified_by":        {},
	"url":                {},
	"related":            {},
	"summary_fields":     {},
	"type":               {},
	"managed":            {},
	"managed_by_tower":   {},
	"custom_virtualenv":  {},
	"status":             {},
	"last_job_run":       {},
	"last_job_failed":    {},
	"last_updated":       {},
	"last_update_failed": {},
	"next_job_run":       {},
	"scm_revision":       {},
	"local_path":         {},
}

// credentialInputSecrets are the keys stripped from credential inputs before
// they can reach output. The downstream apply step rehydrates them from a
// protected store keyed "OrgName/CredentialName".
var credentialInputSecrets = []string{
	"password",
	"secret",
	"ssh_key_data",
	"ssh_key_unlock",
	"token",
	"client_secret",
	"become_password",
	"security_token",
	"authorize_password",
	"secret_key",
	"vault_password",
}

// notificationConfigSecrets are the keys stripped from a notification
// template's backend configuration.
var notificationConfigSecrets = []string{
	"token",
	"password",
	"account_token",
}

var specs = map[domain.ObjectType]typeSpec{
	domain.TypeOrganization: {
		allowed: set("name", "description", "max_hosts"),
		defaults: []fieldDefault{
			{Field: "max_hosts", Value: int64(0)}, // 0 = unlimited
		},
		required: []string{"name"},
	},

	domain.TypeUser: {
		renames: map[string]string{
			"is_superuser":      "superuser",
			"is_system_auditor": "auditor",
		},
		allowed:  set("username", "first_name", "last_name", "email"),
		secret:   set("password"),
		required: []string{"username"},
	},

	domain.TypeTeam: {
		allowed:  set("name", "description"),
		required: []string{"name", "organization"},
	},

	domain.TypeCredentialType: {
		allowed:  set("name", "description", "kind", "inputs", "injectors"),
		required: []string{"name", "kind"},
	},

	domain.TypeCredential: {
		allowed: set("name", "description", "inputs"),
		// kind duplicates the credential_type reference in old exports.
		drop: set("kind", "cloud"),
		secretSub: map[string][]string{
			"inputs": credentialInputSecrets,
		},
		required: []string{"name", "credential_type"},
	},

	domain.TypeProject: {
		allowed: set("name", "description", "scm_type", "scm_url", "scm_branch",
			"scm_refspec", "scm_clean", "scm_delete_on_update", "scm_track_submodules",
			"scm_update_on_launch", "scm_update_cache_timeout", "allow_override", "timeout"),
		defaults: []fieldDefault{
			{Field: "scm_type", Value: "manual"},
			{Field: "scm_branch", Value: "main"},
		},
		required: []string{"name", "organization", "scm_type"},
	},

	domain.TypeInventory: {
		allowed: set("name", "description", "kind", "variables", "host_filter",
			"prevent_instance_group_fallback"),
		drop: set("has_active_failures", "has_inventory_sources", "hosts_with_active_failures",
			"total_hosts", "total_groups", "total_inventory_sources", "inventory_sources_with_failures",
			"pending_deletion"),
		defaults: []fieldDefault{
			{Field: "kind", Value: "normal"},
		},
		required: []string{"name", "organization"},
	},

	domain.TypeExecutionEnvironment: {
		allowed: set("name", "image", "description", "pull"),
		defaults: []fieldDefault{
			{Field: "pull", Value: "missing"},
		},
		required: []string{"name", "image"},
	},

	domain.TypeJobTemplate: {
		allowed: set("name", "description", "job_type", "playbook", "forks", "limit",
			"verbosity", "extra_vars", "job_tags", "skip_tags", "timeout", "use_fact_cache",
			"become_enabled", "diff_mode", "allow_simultaneous", "job_slice_count",
			"survey_enabled", "ask_variables_on_launch", "ask_limit_on_launch",
			"ask_tags_on_launch", "ask_skip_tags_on_launch", "ask_job_type_on_launch",
			"ask_verbosity_on_launch", "ask_inventory_on_launch", "ask_credential_on_launch",
			"ask_diff_mode_on_launch", "ask_scm_branch_on_launch"),
		drop: set("host_config_key", "last_job_host_summary"),
		defaults: []fieldDefault{
			{Field: "job_type", Value: "run"},
		},
		required: []string{"name", "project", "job_type"},
	},

	domain.TypeWorkflowJobTemplate: {
		allowed: set("name", "description", "extra_vars", "limit", "scm_branch",
			"survey_enabled", "allow_simultaneous", "ask_variables_on_launch",
			"ask_inventory_on_launch", "ask_limit_on_launch", "ask_scm_branch_on_launch"),
		required: []string{"name"},
	},

	domain.TypeApplication: {
		allowed:  set("name", "description", "authorization_grant_type", "client_type", "redirect_uris"),
		secret:   set("client_secret", "client_id"),
		drop:     set("skip_authorization"),
		required: []string{"name", "organization", "authorization_grant_type", "client_type"},
	},

	domain.TypeNotificationTemplate: {
		allowed: set("name", "description", "notification_type", "notification_configuration", "messages"),
		secretSub: map[string][]string{
			"notification_configuration": notificationConfigSecrets,
		},
		required: []string{"name", "notification_type"},
	},

	domain.TypeSchedule: {
		allowed:  set("name", "description", "rrule", "enabled", "extra_data"),
		drop:     set("dtstart", "dtend", "next_run", "timezone", "until"),
		required: []string{"name", "rrule", "unified_job_template"},
	},
}

// credentialTypeNames maps source credential type display names to the
// spelling expected by the target's configuration-as-code roles. The built-in
// types currently spell the same on both sides; the table pins them so a
// target-side rename lands in exactly one place. Names not listed pass
// through unchanged.
var credentialTypeNames = map[string]string{
	"Machine":             "Machine",
	"Source Control":      "Source Control",
	"Vault":               "Vault",
	"Amazon Web Services": "Amazon Web Services",
	"OpenShift or Kubernetes API Bearer Token": "OpenShift or Kubernetes API Bearer Token",
	"OpenShift or Kubernetes API Certificate":  "OpenShift or Kubernetes API Certificate",
}

// CredentialTypeName normalizes a resolved credential type name to its
// target display name.
func CredentialTypeName(name string) string {
	if mapped, ok := credentialTypeNames[name]; ok {
		return mapped
	}
	return name
}

// RequiredFields returns the minimum fields an emitted record of this type
// must carry, checked after references are rewritten.
func RequiredFields(t domain.ObjectType) []string {
	return specs[t].required
}

func set(keys ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}
