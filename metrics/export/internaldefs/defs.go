package internaldefs

import (
	"github.com/MrEthical07/authcore"
)

// CounterDef maps an engine counter to its exported name.
type CounterDef struct {
	ID   authcore.MetricID
	Name string
	Help string
}

// HistogramDef maps an engine histogram to its exported name.
type HistogramDef struct {
	ID   authcore.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: authcore.MetricRegisterSuccess, Name: "authcore_register_success_total", Help: "Successful registrations."},
	{ID: authcore.MetricRegisterDuplicate, Name: "authcore_register_duplicate_total", Help: "Registrations rejected because the username exists."},
	{ID: authcore.MetricRegisterInvalidInput, Name: "authcore_register_invalid_input_total", Help: "Registrations rejected by the input policy."},
	{ID: authcore.MetricRegisterFailure, Name: "authcore_register_failure_total", Help: "Registrations failed by the hasher or the store."},
	{ID: authcore.MetricLoginSuccess, Name: "authcore_login_success_total", Help: "Successful logins."},
	{ID: authcore.MetricLoginFailure, Name: "authcore_login_failure_total", Help: "Logins rejected for invalid credentials."},
	{ID: authcore.MetricLoginUnavailable, Name: "authcore_login_unavailable_total", Help: "Logins failed because the store was unavailable."},
	{ID: authcore.MetricVerifySuccess, Name: "authcore_verify_success_total", Help: "Tokens verified."},
	{ID: authcore.MetricVerifyInvalid, Name: "authcore_verify_invalid_total", Help: "Tokens rejected as invalid."},
	{ID: authcore.MetricVerifyExpired, Name: "authcore_verify_expired_total", Help: "Tokens rejected as expired."},
	{ID: authcore.MetricGateAllowed, Name: "authcore_gate_allowed_total", Help: "Requests admitted by the gate."},
	{ID: authcore.MetricGateMissingToken, Name: "authcore_gate_missing_token_total", Help: "Requests rejected by the gate for lack of a token."},
	{ID: authcore.MetricGateRejected, Name: "authcore_gate_rejected_total", Help: "Requests rejected by the gate for a bad token."},
}

var HistogramDefs = []HistogramDef{
	{ID: authcore.MetricVerifyLatency, Name: "authcore_verify_latency_seconds", Help: "Token verification latency."},
}

// AuditDroppedName is the counter exported for dispatcher drops.
const (
	AuditDroppedName = "authcore_audit_dropped_total"
	AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
)

// HistogramUpperBounds are the finite bucket bounds in seconds. The engine
// keeps one extra overflow bucket.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates raw to the fixed bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
