// Package sdk provides the data-contract and payload-generation libraries
// for the Autopilot job pipeline.
//
// The SDK defines the canonical schemas for events, job requests, reports,
// and evidence exchanged between tenants and the downstream execution
// system; produces deterministic, content-addressable serializations of
// those payloads; and applies field-level redaction before anything is
// persisted or logged. It is a pure transformation and validation layer: it
// does not execute jobs, call external services, or keep state between
// requests.
//
// # Packages
//
//   - canonical: deterministic JSON canonicalization, SHA-256 content
//     addressing, deep equality, and canonical-object utilities. Every
//     durable identifier in the pipeline is derived here.
//   - idempotency: stable idempotency keys over the semantic projection of
//     a job request, so duplicate submissions are detectable downstream.
//   - job: the job request schema, policy types, and request builder.
//   - event: the pipeline event envelope.
//   - report: run reports, findings, and evidence, with report assembly.
//   - bundle: the outbound envelope grouping requests or a report with
//     tenant and trace metadata and an integrity fingerprint.
//   - schema: JSON-schema builders and validation for the contract types.
//   - redact: denylist-driven field redaction with explicit configuration.
//   - policy: CEL-based admission checks for job requests.
//   - retry: backoff computation for callers that submit bundles.
//   - artifact: content-addressed artifact layout and writing.
//
// # Determinism
//
// Two structurally identical payloads always produce byte-identical
// canonical encodings, identical hashes, and identical identifiers, no
// matter how or where they were constructed. See package canonical for the
// exact guarantees.
package sdk
