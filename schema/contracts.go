package schema

// Built-in schemas for the Autopilot contract types. Callers validate
// incoming maps (parsed JSON) against these before handing them to the
// builders; the canonicalization layer itself performs no validation.

// TenantContext returns the schema for a tenant context mapping.
func TenantContext() JSON {
	return Object(map[string]JSON{
		"tenant_id":   StringWithDesc("unique tenant identifier").WithPattern(`^[a-z0-9][a-z0-9-]*$`),
		"project_id":  String(),
		"environment": Enum("prod", "staging", "dev"),
	}, "tenant_id")
}

// Policy returns the schema for a job execution policy mapping.
func Policy() JSON {
	return Object(map[string]JSON{
		"max_duration_ms":  Int().WithRange(0, 86_400_000),
		"max_attempts":     Int().WithRange(0, 100),
		"dry_run":          Bool(),
		"require_approval": Bool(),
	})
}

// Request returns the schema for a serialized job request.
func Request() JSON {
	return Object(map[string]JSON{
		"request_id":      String(),
		"type":            StringWithDesc("job type identifier").WithPattern(`^[a-z][a-z0-9_.-]*$`),
		"tenant":          TenantContext(),
		"payload":         Object(nil),
		"policy":          Policy(),
		"idempotency_key": String().WithPattern(`^[a-f0-9]{64}$`),
		"trace_id":        String(),
		"span_id":         String(),
		"requested_at":    String(),
	}, "request_id", "type", "tenant", "requested_at")
}

// Event returns the schema for a serialized event envelope.
func Event() JSON {
	return Object(map[string]JSON{
		"event_id":        String(),
		"type":            String().WithPattern(`^[a-z][a-z0-9_.-]*$`),
		"schema_version":  String(),
		"tenant":          TenantContext(),
		"occurred_at":     String(),
		"payload":         Object(nil),
		"canonical_hash":  String().WithPattern(`^[a-f0-9]{64}$`),
		"idempotency_key": String().WithPattern(`^[a-f0-9]{64}$`),
	}, "event_id", "type", "schema_version", "tenant", "occurred_at", "canonical_hash")
}

// Report returns the schema for a serialized run report.
func Report() JSON {
	return Object(map[string]JSON{
		"report_id": String(),
		"run_id":    String(),
		"tenant":    TenantContext(),
		"status":    Enum("succeeded", "partial", "failed"),
		"summary":   String(),
		"findings": Array(Object(map[string]JSON{
			"id":       String(),
			"title":    String(),
			"severity": Enum("critical", "high", "medium", "low", "info"),
		}, "id", "title", "severity")),
		"generated_at": String(),
		"dedup_id":     String(),
	}, "report_id", "run_id", "tenant", "status", "generated_at")
}
