package master

import (
	"testing"
)

func TestParseResources(t *testing.T) {
	r, err := ParseResources("cpus:1.5; mem:128")
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}
	if r.Get("cpus") != 1.5 || r.Get("mem") != 128 {
		t.Errorf("Wrong parsed values: %s", r)
	}
}

func TestParseResourcesMalformed(t *testing.T) {
	for _, spec := range []string{"", ";", "cpus", "cpus:abc", ":1", "cpus:-1"} {
		if _, err := ParseResources(spec); err == nil {
			t.Errorf("Expected parse error for %q", spec)
		}
	}
}

func TestContains(t *testing.T) {
	offer, _ := ParseResources("cpus:2;mem:256")
	req, _ := ParseResources("cpus:1;mem:128")

	if !offer.Contains(req) {
		t.Errorf("%s should contain %s", offer, req)
	}
	if req.Contains(offer) {
		t.Errorf("%s should not contain %s", req, offer)
	}

	// A dimension missing from the requirement doesn't constrain the offer.
	cpuOnly, _ := ParseResources("cpus:1")
	if !offer.Contains(cpuOnly) {
		t.Errorf("%s should contain %s", offer, cpuOnly)
	}

	// A dimension missing from the offer fails the requirement.
	withPorts, _ := ParseResources("cpus:1;ports:1")
	if offer.Contains(withPorts) {
		t.Errorf("%s should not contain %s", offer, withPorts)
	}
}

func TestRevocableIsDistinct(t *testing.T) {
	offer, _ := ParseResources("cpus:2")
	req, _ := ParseResources("cpus:1")

	if offer.Contains(req.Revocable()) {
		t.Errorf("Non-revocable cpus should not satisfy a revocable requirement")
	}
	if !offer.Plus(req.Revocable()).Contains(req.Revocable()) {
		t.Errorf("Revocable cpus should satisfy a revocable requirement")
	}
}

func TestMinus(t *testing.T) {
	offer, _ := ParseResources("cpus:2;mem:256")
	req, _ := ParseResources("cpus:1;mem:128")

	remaining := offer.Minus(req)
	if remaining.Get("cpus") != 1 || remaining.Get("mem") != 128 {
		t.Errorf("Wrong remainder: %s", remaining)
	}

	remaining = remaining.Minus(req)
	if remaining.Contains(req) {
		t.Errorf("Exhausted offer should not contain %s, got %s", req, remaining)
	}
}

func TestStringCanonical(t *testing.T) {
	r := Resources{
		{Name: "mem", Value: 128},
		{Name: "cpus", Value: 1},
		{Name: "cpus", Value: 0.5, Revocable: true},
	}
	if got := r.String(); got != "cpus:1;cpus{REV}:0.5;mem:128" {
		t.Errorf("Wrong canonical form: %s", got)
	}
}
