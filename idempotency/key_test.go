package idempotency

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func projection() Projection {
	return Projection{
		JobType: "scan.dependency",
		Tenant: map[string]any{
			"tenant_id":   "acme",
			"project_id":  "storefront",
			"environment": "prod",
		},
		Payload: map[string]any{
			"repo":   "git://acme/storefront",
			"branch": "main",
			"depth":  3,
		},
		Policy: map[string]any{
			"max_attempts": 3,
			"dry_run":      false,
		},
	}
}

func TestKey_Format(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^[a-f0-9]{64}$`), Key(projection()))
}

func TestKey_Deterministic(t *testing.T) {
	first := Key(projection())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Key(projection()))
	}
}

func TestKey_StableUnderFieldReordering(t *testing.T) {
	a := projection()
	b := projection()
	// Rebuild b's payload in a different insertion order.
	b.Payload = map[string]any{
		"depth":  3,
		"branch": "main",
		"repo":   "git://acme/storefront",
	}
	assert.Equal(t, Key(a), Key(b))
}

func TestKey_SensitiveToSemanticFields(t *testing.T) {
	base := Key(projection())

	changedType := projection()
	changedType.JobType = "scan.container"
	assert.NotEqual(t, base, Key(changedType))

	changedTenant := projection()
	changedTenant.Tenant["tenant_id"] = "globex"
	assert.NotEqual(t, base, Key(changedTenant))

	changedPayload := projection()
	changedPayload.Payload["branch"] = "develop"
	assert.NotEqual(t, base, Key(changedPayload))

	changedPolicy := projection()
	changedPolicy.Policy["dry_run"] = true
	assert.NotEqual(t, base, Key(changedPolicy))
}

func TestShortKey_PrefixOfKey(t *testing.T) {
	p := projection()
	assert.Len(t, ShortKey(p), 16)
	assert.True(t, strings.HasPrefix(Key(p), ShortKey(p)))
}
